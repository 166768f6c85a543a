package search

// Span is a half-open [Start, End) range of rune offsets into a display
// string.
type Span struct {
	Start int
	End   int
}

// Highlight marks where the query's characters appear, in order, inside a
// display string. It is the first greedy left-to-right subsequence alignment,
// not an optimal one, and exists purely for visual emphasis; ranking never
// reads it. The query is normalized and stripped to the trigram alphabet
// first; a query space is a free match that advances the query cursor without
// consuming a display rune, which keeps positions aligned after whitespace
// stripping. An empty stripped query marks nothing.
//
// Spans are rune offsets over the raw display text. Escaping for markup is
// the presentation layer's problem and must happen after span computation,
// never before.
func Highlight(display, query string) []Span {
	q := []rune(stripAlphabet(Normalize(query)))
	if len(q) == 0 {
		return nil
	}

	var spans []Span
	qi := 0
	for i, r := range []rune(display) {
		for qi < len(q) && q[qi] == ' ' {
			qi++
		}
		if qi >= len(q) {
			break
		}
		if foldRune(r) == q[qi] {
			if n := len(spans); n > 0 && spans[n-1].End == i {
				spans[n-1].End = i + 1
			} else {
				spans = append(spans, Span{Start: i, End: i + 1})
			}
			qi++
		}
	}
	return spans
}

// foldRune lower-cases ASCII letters; the stripped query alphabet is ASCII
// so nothing wider is needed for the comparison side.
func foldRune(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}
