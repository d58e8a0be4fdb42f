package textlayout

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// typographic maps curly quotes, dashes and odd spaces to plain ASCII.
func typographic(r rune) rune {
	switch r {
	case '\u2018', '\u2019', '\u201A', '\u201B', '\u2032':
		return '\''
	case '\u201C', '\u201D', '\u201E', '\u201F', '\u2033', '\u00AB', '\u00BB':
		return '"'
	case '\u2010', '\u2011', '\u2012', '\u2013', '\u2014', '\u2015', '\u2212':
		return '-'
	case '\u00A0', '\u2007', '\u202F':
		return ' '
	}
	return r
}

// unprintable matches control characters outside tab, line feed and
// carriage return, plus invisible format characters such as zero-width joiners.
func unprintable(r rune) bool {
	if r == '\t' || r == '\n' || r == '\r' {
		return false
	}
	return unicode.IsControl(r) || unicode.Is(unicode.Cf, r)
}

// chainPool holds transformer chains; a chain carries state and must not be
// shared between goroutines.
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFC,
			runes.Map(typographic),
			runes.Remove(runes.Predicate(unprintable)),
		)
	},
}

var expansions = strings.NewReplacer(
	"\r\n", "\n",
	"\r", "\n",
	"\u2026", "...",
	"\u2028", "\n",
	"\u2029", "\n",
)

// Normalize prepares text for layout: invalid UTF-8 is dropped, the text is
// NFC-composed, typographic punctuation becomes ASCII, unprintable characters
// are removed and every line break becomes "\n". Tabs survive.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(s, "")

	tr := chainPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		out = s
	}
	return expansions.Replace(out)
}
