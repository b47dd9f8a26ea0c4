package id

import (
	"time"

	fid "github.com/amterp/flexid"
)

// Epoch anchors the time component of generated ids.
var Epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// Generator produces roughly time-ordered ids. Uniqueness is probabilistic;
// stores must still refuse to overwrite an existing id.
type Generator struct {
	gen *fid.Generator
}

// numRandomChars keeps ids created within the same tick apart.
const numRandomChars = 8

// NewGenerator creates a flexid-backed generator with 10ms ticks.
func NewGenerator() *Generator {
	config := fid.NewConfig().
		WithEpoch(Epoch).
		WithTickSize(10 * time.Millisecond).
		WithNumRandomChars(numRandomChars)

	return &Generator{gen: fid.MustNewGenerator(config)}
}

// Next returns a new unique id.
func (g *Generator) Next() string {
	return g.gen.MustGenerate()
}

var defaultGenerator = NewGenerator()

// Generate returns a new unique id from the package generator.
func Generate() string {
	return defaultGenerator.Next()
}
