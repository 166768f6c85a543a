package search

import (
	"testing"

	"github.com/Geodocque/fuzzy-search/pkg/gazetteer"
)

// newTestEngine builds an engine over a small catalog with the index
// generated by the same rules queries use.
func newTestEngine(t *testing.T, records []gazetteer.Record, opts Options) *Engine {
	t.Helper()
	ds := &gazetteer.Dataset{
		Records: records,
		Index:   BuildIndex(records),
	}
	return NewEngine(ds, opts)
}

func eritreaCatalog() []gazetteer.Record {
	return []gazetteer.Record{
		{OID: 100, Name: "Asmara", Country: "Eritrea"},
		{OID: 101, Name: "Keren", AltNames: []string{"Kheren"}, Country: "Eritrea"},
		{OID: 102, Name: "Massawa", AltNames: []string{"Mitsiwa", "Batsi"}, Country: "Eritrea"},
		{OID: 103, Name: "Mendefera", Country: "Eritrea"},
	}
}

func TestSearchExactName(t *testing.T) {
	e := newTestEngine(t, eritreaCatalog(), DefaultOptions())

	matches := e.Search("Asmara")
	if len(matches) == 0 {
		t.Fatal("expected matches for exact name")
	}
	top := matches[0]
	if top.OID != 100 {
		t.Errorf("top match oid = %d, want 100", top.OID)
	}
	if top.Score != 1.0 {
		t.Errorf("top match score = %v, want 1.0", top.Score)
	}
	if top.Source != SourceName {
		t.Errorf("top match source = %v, want name", top.Source)
	}
}

func TestSearchOneSubstitution(t *testing.T) {
	e := newTestEngine(t, eritreaCatalog(), DefaultOptions())

	matches := e.Search("Asmera")
	if len(matches) == 0 {
		t.Fatal("expected a match for a one-letter typo")
	}
	top := matches[0]
	if top.Name != "Asmara" {
		t.Errorf("top match = %q, want Asmara", top.Name)
	}
	// edit distance 1 over max length 6
	want := 1 - 1.0/6.0
	if !almostEqual(top.Score, want) {
		t.Errorf("score = %v, want %v", top.Score, want)
	}
}

func TestSearchAltNameWins(t *testing.T) {
	e := newTestEngine(t, eritreaCatalog(), DefaultOptions())

	matches := e.Search("Kheren")
	if len(matches) == 0 {
		t.Fatal("expected a match through the alt-name")
	}
	top := matches[0]
	if top.OID != 101 {
		t.Errorf("top match oid = %d, want 101", top.OID)
	}
	if top.Score != 1.0 {
		t.Errorf("score = %v, want 1.0", top.Score)
	}
	if top.Source != SourceAlt {
		t.Errorf("source = %v, want alt", top.Source)
	}
	if top.MatchedText != "Kheren" {
		t.Errorf("matched text = %q, want Kheren", top.MatchedText)
	}
}

func TestSearchShortQueryShortCircuits(t *testing.T) {
	e := newTestEngine(t, eritreaCatalog(), DefaultOptions())

	for _, q := range []string{"", "a", "  a  ", "\t"} {
		if matches := e.Search(q); matches != nil {
			t.Errorf("Search(%q) = %v, want nil", q, matches)
		}
	}
}

func TestSearchNoSharedTrigrams(t *testing.T) {
	e := newTestEngine(t, eritreaCatalog(), DefaultOptions())

	if matches := e.Search("zzzzzz"); len(matches) != 0 {
		t.Errorf("Search(zzzzzz) = %v, want empty", matches)
	}
}

// the prefix bonus must rank a prefix match above a competitor at the same
// raw edit distance, and must never be granted to alt-names
func TestSearchPrefixBonus(t *testing.T) {
	records := []gazetteer.Record{
		{OID: 1, Name: "Masmar"}, // same edit distance from "asm", no prefix
		{OID: 2, Name: "Asmara"},
	}
	opts := DefaultOptions()
	opts.ScoreThreshold = 0.3

	e := newTestEngine(t, records, opts)
	matches := e.Search("Asm")
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].OID != 2 {
		t.Errorf("top match oid = %d, want the prefix-boosted 2", matches[0].OID)
	}
	want := (1 - 3.0/6.0) + 0.09
	if !almostEqual(matches[0].Score, want) {
		t.Errorf("boosted score = %v, want %v", matches[0].Score, want)
	}
	if !almostEqual(matches[1].Score, 1-3.0/6.0) {
		t.Errorf("plain score = %v, want %v", matches[1].Score, 1-3.0/6.0)
	}
}

func TestSearchPrefixBonusCappedAtOne(t *testing.T) {
	e := newTestEngine(t, eritreaCatalog(), DefaultOptions())

	// exact name match already scores 1.0 and is its own prefix
	matches := e.Search("Asmara")
	if len(matches) == 0 || matches[0].Score > 1.0 {
		t.Fatalf("prefix bonus pushed score above 1.0: %+v", matches)
	}
}

// bonus applies after alt comparison and can flip the winning source back to
// the primary name
func TestSearchPrefixBonusFlipsSource(t *testing.T) {
	records := []gazetteer.Record{
		{OID: 1, Name: "Asmara City", AltNames: []string{"Asmarra"}},
	}
	opts := DefaultOptions()
	opts.ScoreThreshold = 0.3

	e := newTestEngine(t, records, opts)
	matches := e.Search("Asmara")
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	// alt "asmarra" scores higher raw (6/7) than name "asmara city" (6/11),
	// but the name carries the query as prefix, so the boosted winner is the
	// name
	if matches[0].Source != SourceName {
		t.Errorf("source = %v, want name after bonus flip", matches[0].Source)
	}
	if matches[0].MatchedText != "Asmara City" {
		t.Errorf("matched text = %q, want the primary name", matches[0].MatchedText)
	}
	want := min((1-1.0/7.0)+0.09, 1.0)
	if !almostEqual(matches[0].Score, want) {
		t.Errorf("score = %v, want %v", matches[0].Score, want)
	}
}

func TestSearchNameWinsScoreTieAgainstAlt(t *testing.T) {
	records := []gazetteer.Record{
		{OID: 1, Name: "Keren", AltNames: []string{"Keren"}},
	}
	e := newTestEngine(t, records, DefaultOptions())

	matches := e.Search("Keren")
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Source != SourceName {
		t.Errorf("source = %v, want name on ties", matches[0].Source)
	}
}

func TestSearchRankingProperties(t *testing.T) {
	records := []gazetteer.Record{
		{OID: 1, Name: "Asmara"},
		{OID: 2, Name: "Asmera"},
		{OID: 3, Name: "Asmaara"},
		{OID: 4, Name: "Keren"},
		{OID: 5, Name: "Massawa"},
	}
	opts := DefaultOptions()
	opts.MaxResults = 3

	e := newTestEngine(t, records, opts)
	matches := e.Search("Asmara")

	if len(matches) > opts.MaxResults {
		t.Fatalf("got %d matches, limit is %d", len(matches), opts.MaxResults)
	}
	for i, m := range matches {
		if m.Score < opts.ScoreThreshold {
			t.Errorf("match %d score %v below threshold %v", i, m.Score, opts.ScoreThreshold)
		}
		if i > 0 && matches[i-1].Score < m.Score {
			t.Errorf("matches not sorted: %v before %v", matches[i-1].Score, m.Score)
		}
	}
}

// equal scores break toward the lower record id, every run
func TestSearchDeterministicTieBreak(t *testing.T) {
	records := []gazetteer.Record{
		{OID: 7, Name: "Bala"},
		{OID: 8, Name: "Bala"},
		{OID: 9, Name: "Bala"},
	}
	e := newTestEngine(t, records, DefaultOptions())

	for run := 0; run < 10; run++ {
		matches := e.Search("Bala")
		if len(matches) != 3 {
			t.Fatalf("expected 3 matches, got %d", len(matches))
		}
		for i, m := range matches {
			if m.ID != i {
				t.Fatalf("tie-break broken: position %d holds record %d", i, m.ID)
			}
		}
	}
}

// posting entries pointing outside the record store are skipped, never fatal
func TestSearchMalformedPostings(t *testing.T) {
	records := []gazetteer.Record{{OID: 1, Name: "Asmara"}}
	index := BuildIndex(records)
	for tri, ids := range index {
		index[tri] = append(ids, 99, -4)
	}

	e := NewEngine(&gazetteer.Dataset{Records: records, Index: index}, DefaultOptions())
	matches := e.Search("Asmara")
	if len(matches) != 1 || matches[0].OID != 1 {
		t.Fatalf("expected the single valid record, got %+v", matches)
	}
}

func TestSearchCandidateCap(t *testing.T) {
	records := make([]gazetteer.Record, 50)
	for i := range records {
		records[i] = gazetteer.Record{OID: i, Name: "Asmara"}
	}
	opts := DefaultOptions()
	opts.CandidateCap = 5
	opts.MaxResults = 50

	e := newTestEngine(t, records, opts)
	matches := e.Search("Asmara")
	if len(matches) != 5 {
		t.Fatalf("candidate cap ignored: got %d matches, want 5", len(matches))
	}
	// overlap ties break toward the lower id, so the cap keeps records 0..4
	for i, m := range matches {
		if m.ID != i {
			t.Errorf("position %d holds record %d, want %d", i, m.ID, i)
		}
	}
}

func TestSwapDataset(t *testing.T) {
	e := newTestEngine(t, eritreaCatalog(), DefaultOptions())

	replacement := []gazetteer.Record{{OID: 200, Name: "Dekemhare"}}
	e.SwapDataset(&gazetteer.Dataset{Records: replacement, Index: BuildIndex(replacement)})

	if matches := e.Search("Asmara"); len(matches) != 0 {
		t.Errorf("old snapshot still visible after swap: %+v", matches)
	}
	matches := e.Search("Dekemhare")
	if len(matches) != 1 || matches[0].OID != 200 {
		t.Errorf("new snapshot not searchable after swap: %+v", matches)
	}
}
