package search

import (
	"github.com/Geodocque/fuzzy-search/pkg/gazetteer"
	"github.com/charmbracelet/log"
)

// Trigrams derives the distinct 3-character shingles of a text. The text is
// normalized, stripped to the indexable alphabet, then padded with two spaces
// on each side so short and boundary tokens still produce trigrams. Order is
// first occurrence; duplicates within one string collapse here because
// overlap counting happens per trigram at retrieval, not per occurrence.
func Trigrams(s string) []string {
	s = stripAlphabet(Normalize(s))
	if s == "" {
		return nil
	}
	padded := "  " + s + "  "

	seen := make(map[string]struct{}, len(padded))
	trigrams := make([]string, 0, len(padded)-2)
	for i := 0; i+3 <= len(padded); i++ {
		t := padded[i : i+3]
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		trigrams = append(trigrams, t)
	}
	return trigrams
}

// BuildIndex constructs the trigram inverted index over a record store,
// covering the primary name and every alt-name. It applies exactly the rules
// Trigrams applies to queries; building with anything else breaks recall
// without any runtime signal.
func BuildIndex(records []gazetteer.Record) gazetteer.Index {
	index := make(gazetteer.Index)

	add := func(id int, text string) {
		for _, t := range Trigrams(text) {
			ids := index[t]
			if n := len(ids); n > 0 && ids[n-1] == id {
				// Name and alt-names of one record often share trigrams.
				continue
			}
			index[t] = append(ids, id)
		}
	}

	for id := range records {
		add(id, records[id].Name)
		for _, alt := range records[id].AltNames {
			add(id, alt)
		}
	}

	log.Debugf("Built trigram index: %d records, %d distinct trigrams", len(records), len(index))
	return index
}
