package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/amterp/palette/internal/model"
	"github.com/amterp/palette/internal/validate"
)

// defaultFaviconColors fill the swatches when the palette has fewer than four colors.
var defaultFaviconColors = []string{"#5E2ECC", "#896ACE", "#EC4899", "#F59E0B"}

// GenerateFaviconSVG draws a 2x2 grid of swatches from the first four colors.
func GenerateFaviconSVG(colors []model.Color) string {
	fills := make([]string, 0, 4)
	for _, c := range colors {
		if len(fills) == 4 {
			break
		}
		// Stored colors are validated, but never trust a file on disk inside markup
		if validate.IsValidHex(c.Hex) {
			fills = append(fills, c.Hex)
		}
	}
	for i := len(fills); i < 4; i++ {
		fills = append(fills, defaultFaviconColors[i])
	}

	var b strings.Builder
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 32 32">`)
	for i, fill := range fills {
		x, y := (i%2)*16, (i/2)*16
		fmt.Fprintf(&b, `<rect x="%d" y="%d" width="16" height="16" fill="%s"/>`, x, y, fill)
	}
	b.WriteString(`</svg>`)
	return b.String()
}

// GetFavicon serves a favicon built from the current palette.
func (h *Handler) GetFavicon(w http.ResponseWriter, r *http.Request) {
	colors, err := h.colorService.List()
	if err != nil {
		colors = nil // Fall back to the default swatches
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write([]byte(GenerateFaviconSVG(colors)))
}
