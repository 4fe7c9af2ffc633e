package survey

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// asciiFold decomposes compatibility characters and drops every rune that
// falls outside the ASCII range, so combining marks disappear and letters
// with no ASCII form are removed instead of erroring.
var asciiFold = transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
	return r > unicode.MaxASCII
})))

// lineBreaks folds CRLF and lone CR to LF. Keys must survive a CSV
// write/read cycle, and encoding/csv reads a quoted "\r\n" back as "\n".
var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Normalize canonicalizes a free-text answer into its grouping key:
// line breaks folded to "\n", trimmed, lowercased and folded to ASCII
// ("  Sí " -> "si").
func Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(lineBreaks.Replace(raw)))
	out, _, err := transform.String(asciiFold, s)
	if err != nil {
		// transform.String only fails on malformed transformer chains.
		return s
	}
	return out
}

// NormalizeAny normalizes the text representation of v.
func NormalizeAny(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return Normalize(t)
	case fmt.Stringer:
		return Normalize(t.String())
	default:
		return Normalize(fmt.Sprint(t))
	}
}
