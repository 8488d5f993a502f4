package layout

import (
	"fmt"
	"strconv"
	"unicode"

	"github.com/matzehuels/huffviz/pkg/huffman"
)

// placeholders replace symbols that would not be visible in a label.
var placeholders = map[huffman.Symbol]string{
	' ':  "space",
	'\n': `\n`,
	'\t': `\t`,
	'\r': `\r`,
}

// SymbolText returns a visible representation of s. Space and the common
// line/tab control characters get fixed names; any other non-printable or
// blank rune is shown as its code point, e.g. "U+00A0".
func SymbolText(s huffman.Symbol) string {
	if p, ok := placeholders[s]; ok {
		return p
	}
	r := rune(s)
	if !unicode.IsPrint(r) || unicode.IsSpace(r) {
		return fmt.Sprintf("U+%04X", r)
	}
	return string(r)
}

// Label returns the display label of n: "'a': 3" for leaves and the bare
// frequency for internal nodes.
func Label(n *huffman.Node) string {
	if n.IsLeaf() {
		return fmt.Sprintf("'%s': %d", SymbolText(n.Symbol), n.Freq)
	}
	return strconv.Itoa(n.Freq)
}
