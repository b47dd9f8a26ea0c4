package validate

import (
	"strings"
	"testing"

	palerr "github.com/amterp/palette/internal/errors"
	"github.com/amterp/palette/internal/model"
)

func TestIsValidHex(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"#FF0000", true},
		{"#ff0000", true},
		{"#aBcDeF", true},
		{"#012345", true},
		{"", false},
		{"#", false},
		{"FF0000", false},
		{"#FF000", false},
		{"#FF00000", false},
		{"#GG0000", false},
		{"##FF000", false},
		{" #FF0000", false},
		{"#FF0000 ", false},
		{"#FF0000\n", false},
		{"#fff", false},
	}

	for _, tt := range tests {
		if got := IsValidHex(tt.input); got != tt.want {
			t.Errorf("IsValidHex(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestIsValidHex_AllDigits(t *testing.T) {
	const digits = "0123456789abcdefABCDEF"
	for _, d := range digits {
		s := "#" + strings.Repeat(string(d), 6)
		if !IsValidHex(s) {
			t.Errorf("IsValidHex(%q) = false, want true", s)
		}
	}
}

func TestNormalizeName(t *testing.T) {
	if got := NormalizeName("  Ocean Blue \t"); got != "Ocean Blue" {
		t.Errorf("NormalizeName trimmed to %q", got)
	}
	// e + combining acute composes to a single rune
	if got := NormalizeName("Cafe\u0301"); got != "Caf\u00e9" {
		t.Errorf("NormalizeName did not compose: %q", got)
	}
}

func TestFindDuplicates(t *testing.T) {
	existing := []model.Color{
		{ID: "1", Name: "Red", Hex: "#FF0000"},
		{ID: "2", Name: "Blue", Hex: "#0000FF"},
		{ID: "3", Name: "red", Hex: "#AA0000"}, // later same-name record should not win
	}

	tests := []struct {
		name       string
		candName   string
		candHex    string
		wantByName string
		wantByHex  string
	}{
		{"none", "Green", "#00FF00", "", ""},
		{"by name case-insensitive", "RED", "#123456", "1", ""},
		{"by name trimmed", "  blue  ", "#123456", "2", ""},
		{"by hex lowercase", "Crimson", "#ff0000", "", "1"},
		{"both same record", "red", "#FF0000", "1", "1"},
		{"both distinct records", "Blue", "#ff0000", "2", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := FindDuplicates(tt.candName, tt.candHex, existing)
			if got := idOf(d.ByName); got != tt.wantByName {
				t.Errorf("ByName = %q, want %q", got, tt.wantByName)
			}
			if got := idOf(d.ByHex); got != tt.wantByHex {
				t.Errorf("ByHex = %q, want %q", got, tt.wantByHex)
			}
			if d.Any() != (tt.wantByName != "" || tt.wantByHex != "") {
				t.Errorf("Any() = %v", d.Any())
			}
		})
	}
}

func TestFindDuplicates_ReturnsCopies(t *testing.T) {
	existing := []model.Color{{ID: "1", Name: "Red", Hex: "#FF0000"}}
	d := FindDuplicates("red", "#000000", existing)
	d.ByName.Name = "changed"
	if existing[0].Name != "Red" {
		t.Error("FindDuplicates should not alias the input slice")
	}
}

func TestFindDuplicates_Empty(t *testing.T) {
	if d := FindDuplicates("Red", "#FF0000", nil); d.Any() {
		t.Errorf("Expected no duplicates in empty collection, got %+v", d)
	}
}

func TestValidateNew(t *testing.T) {
	tests := []struct {
		name       string
		colorName  string
		hex        string
		wantReason palerr.ValidationReason
	}{
		{"valid", "Red", "#FF0000", ""},
		{"empty name", "", "#FF0000", palerr.ReasonEmptyName},
		{"blank name", "   ", "#FF0000", palerr.ReasonEmptyName},
		{"empty name wins over bad hex", "", "nope", palerr.ReasonEmptyName},
		{"too long", strings.Repeat("a", MaxNameLength+1), "#FF0000", palerr.ReasonNameTooLong},
		{"max length ok", strings.Repeat("a", MaxNameLength), "#FF0000", ""},
		{"max length counted after trim", " " + strings.Repeat("a", MaxNameLength) + " ", "#FF0000", ""},
		{"multibyte counted in characters", strings.Repeat("é", MaxNameLength), "#FF0000", ""},
		{"bad hex", "Red", "#FF00", palerr.ReasonInvalidHex},
		{"missing hash", "Red", "FF0000", palerr.ReasonInvalidHex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNew(tt.colorName, tt.hex)
			if tt.wantReason == "" {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				return
			}
			reason, ok := palerr.ReasonOf(err)
			if !ok {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", reason, tt.wantReason)
			}
		})
	}
}

func TestMatches(t *testing.T) {
	c := model.Color{ID: "1", Name: "Ocean Blue", Hex: "#0077BE"}

	tests := []struct {
		filter string
		want   bool
	}{
		{"", true},
		{"ocean", true},
		{"BLUE", true},
		{"#0077be", true},
		{"77b", true},
		{"green", false},
		{" ocean", false}, // filter is not trimmed
	}

	for _, tt := range tests {
		if got := Matches(c, tt.filter); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.filter, got, tt.want)
		}
	}
}

func idOf(c *model.Color) string {
	if c == nil {
		return ""
	}
	return c.ID
}
