/*
Package search implements the fuzzy matching core: normalization, trigram
candidate retrieval, edit-distance scoring with a prefix bonus, threshold
ranking and subsequence highlighting.

The pipeline is query -> Normalize -> Trigrams -> candidate retrieval over the
inverted index -> per-candidate scoring -> rank and truncate. Everything is
synchronous and allocation-light; an Engine holds no per-query state, so a
caller driving it from rapid successive inputs only has to discard stale
results on its own side.
*/
package search

import (
	"sort"
	"unicode/utf8"

	"github.com/Geodocque/fuzzy-search/pkg/gazetteer"
)

// Options are the tunables of one search session. Zero values are not
// usable; start from DefaultOptions.
type Options struct {
	// CandidateCap bounds how many records survive trigram retrieval and
	// reach the expensive scoring stage. Raising it trades latency for a
	// little recall on low-overlap matches.
	CandidateCap int
	// ScoreThreshold drops matches scoring below it. Raising it trades
	// recall for precision.
	ScoreThreshold float64
	// MaxResults truncates the ranked list.
	MaxResults int
	// PrefixBonus is added to the best score when the normalized primary
	// name starts with the normalized query (query >= 3 runes), capped at 1.
	PrefixBonus float64
	// MinQueryLen short-circuits queries shorter than this many normalized
	// runes to an empty result before retrieval.
	MinQueryLen int
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		CandidateCap:   500,
		ScoreThreshold: 0.65,
		MaxResults:     20,
		PrefixBonus:    0.09,
		MinQueryLen:    2,
	}
}

// MatchSource says which field of a record produced the winning score.
type MatchSource uint8

const (
	// SourceName means the primary name won.
	SourceName MatchSource = iota
	// SourceAlt means an alt-name won.
	SourceAlt
)

func (s MatchSource) String() string {
	if s == SourceAlt {
		return "alt"
	}
	return "name"
}

// Match is one ranked result: the record it came from plus how well and
// through which field it matched. Kept distinct from gazetteer.Record so
// scoring never mutates the store.
type Match struct {
	gazetteer.Record

	// ID is the record's position in the store.
	ID          int
	Score       float64
	Source      MatchSource
	MatchedText string
}

// Engine is one search session over one dataset snapshot. It never mutates
// the snapshot; swapping datasets between queries is a plain pointer swap by
// the caller, no locking involved.
type Engine struct {
	ds   *gazetteer.Dataset
	opts Options
}

// NewEngine creates a session over a snapshot.
func NewEngine(ds *gazetteer.Dataset, opts Options) *Engine {
	return &Engine{ds: ds, opts: opts}
}

// Dataset returns the snapshot the session currently searches.
func (e *Engine) Dataset() *gazetteer.Dataset {
	return e.ds
}

// SwapDataset replaces the snapshot. Only valid between queries.
func (e *Engine) SwapDataset(ds *gazetteer.Dataset) {
	e.ds = ds
}

// Search runs the full pipeline and returns matches ordered by descending
// score, at most MaxResults long. Queries under MinQueryLen normalized runes
// and queries sharing no trigrams with the catalog both yield nil; no input
// makes Search fail.
func (e *Engine) Search(query string) []Match {
	q := Normalize(query)
	if utf8.RuneCountInString(q) < e.opts.MinQueryLen {
		return nil
	}

	matches := make([]Match, 0, e.opts.MaxResults)
	for _, id := range e.retrieve(Trigrams(q)) {
		rec := e.ds.At(id)
		if rec == nil {
			continue
		}
		score, source, matched := e.scoreRecord(q, rec)
		if score < e.opts.ScoreThreshold {
			continue
		}
		matches = append(matches, Match{
			Record:      *rec,
			ID:          id,
			Score:       score,
			Source:      source,
			MatchedText: matched,
		})
	}

	// Equal scores break toward the lower record id so reruns of the same
	// query always rank identically.
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].ID < matches[j].ID
	})

	if len(matches) > e.opts.MaxResults && e.opts.MaxResults > 0 {
		matches = matches[:e.opts.MaxResults]
	}
	return matches
}

// retrieve maps query trigrams to a bounded candidate id list via overlap
// counting. Posting entries outside the record store are dropped here, so a
// corrupt snapshot degrades to misses instead of panics.
func (e *Engine) retrieve(queryTrigrams []string) []int {
	counts := make(map[int]int)
	for _, t := range queryTrigrams {
		for _, id := range e.ds.Index[t] {
			if id < 0 || id >= e.ds.Len() {
				continue
			}
			counts[id]++
		}
	}
	if len(counts) == 0 {
		return nil
	}

	type candidate struct {
		id      int
		overlap int
	}
	candidates := make([]candidate, 0, len(counts))
	for id, overlap := range counts {
		candidates = append(candidates, candidate{id: id, overlap: overlap})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].overlap != candidates[j].overlap {
			return candidates[i].overlap > candidates[j].overlap
		}
		return candidates[i].id < candidates[j].id
	})

	if len(candidates) > e.opts.CandidateCap && e.opts.CandidateCap > 0 {
		candidates = candidates[:e.opts.CandidateCap]
	}

	ids := make([]int, len(candidates))
	for i, c := range candidates {
		ids[i] = c.id
	}
	return ids
}

// scoreRecord evaluates a normalized query against a record's name and every
// alt-name, keeping the best score and its source. The primary name is
// scored first and only a strictly better alt-name takes over, so ties keep
// the earlier field. The prefix bonus is applied last and only against the
// primary name; it can push a name score past an alt-name that scored higher
// on raw edit distance, flipping the winning source back to the name.
func (e *Engine) scoreRecord(query string, rec *gazetteer.Record) (float64, MatchSource, string) {
	best := LevenshteinScore(query, rec.Name)
	source := SourceName
	matched := rec.Name

	for _, alt := range rec.AltNames {
		if s := LevenshteinScore(query, alt); s > best {
			best = s
			source = SourceAlt
			matched = alt
		}
	}

	if utf8.RuneCountInString(query) >= 3 {
		name := Normalize(rec.Name)
		if len(name) >= len(query) && name[:len(query)] == query {
			best = min(best+e.opts.PrefixBonus, 1)
			source = SourceName
			matched = rec.Name
		}
	}
	return best, source, matched
}
