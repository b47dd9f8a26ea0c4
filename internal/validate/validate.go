// Package validate holds the pure rules for new palette entries: hex format,
// name normalization, and duplicate detection against a collection.
package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"

	palerr "github.com/amterp/palette/internal/errors"
	"github.com/amterp/palette/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// MaxNameLength is the maximum color name length in characters.
const MaxNameLength = 50

var hexPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// IsValidHex reports whether s is '#' followed by exactly six hex digits.
func IsValidHex(s string) bool {
	return hexPattern.MatchString(s)
}

// NormalizeName trims surrounding whitespace and composes unicode so that
// visually identical names compare equal.
func NormalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// NormalizeHex returns the canonical uppercase form of a hex value.
func NormalizeHex(s string) string {
	return strings.ToUpper(s)
}

// Fold case-folds s for case-insensitive comparison.
func Fold(s string) string {
	// Casers are stateful, so one per call.
	return cases.Fold().String(s)
}

// Duplicates holds the existing records that conflict with a candidate.
type Duplicates struct {
	ByName *model.Color
	ByHex  *model.Color
}

// Any reports whether either match is set.
func (d Duplicates) Any() bool {
	return d.ByName != nil || d.ByHex != nil
}

// FindDuplicates returns the first record in existing whose name matches
// candidateName and the first whose hex matches candidateHex. Names compare
// trimmed and case-folded, hex values compare uppercased.
func FindDuplicates(candidateName, candidateHex string, existing []model.Color) Duplicates {
	var d Duplicates
	name := Fold(NormalizeName(candidateName))
	hex := NormalizeHex(candidateHex)

	for i := range existing {
		c := existing[i]
		if d.ByName == nil && Fold(NormalizeName(c.Name)) == name {
			d.ByName = &c
		}
		if d.ByHex == nil && NormalizeHex(c.Hex) == hex {
			d.ByHex = &c
		}
		if d.ByName != nil && d.ByHex != nil {
			break
		}
	}
	return d
}

// ValidateNew checks a candidate name and hex in order: empty name, name
// length, hex format. It does not look for duplicates.
func ValidateNew(name, hex string) error {
	trimmed := NormalizeName(name)
	if trimmed == "" {
		return palerr.EmptyName()
	}
	if utf8.RuneCountInString(trimmed) > MaxNameLength {
		return palerr.NameTooLong(MaxNameLength)
	}
	if !IsValidHex(hex) {
		return palerr.InvalidHex(hex)
	}
	return nil
}

// Matches reports whether c's name or hex contains filter, ignoring case.
// An empty filter matches everything.
func Matches(c model.Color, filter string) bool {
	if filter == "" {
		return true
	}
	f := Fold(filter)
	return strings.Contains(Fold(c.Name), f) || strings.Contains(Fold(c.Hex), f)
}
