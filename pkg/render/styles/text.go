package styles

import (
	"bytes"
	"encoding/xml"
	"unicode/utf8"
)

const (
	fontCharWidth = 0.55
	fontSizeMin   = 8.0
	fontSizeMax   = 16.0
	fontFill      = 1.6 // usable label width as a multiple of the radius
)

// FontSize returns the label font size that fits n's label inside its circle.
func FontSize(n Node) float64 {
	chars := max(1, utf8.RuneCountInString(n.Label))
	byWidth := (n.R * fontFill) / (float64(chars) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, byWidth))
}

func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
