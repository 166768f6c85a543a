package search

import (
	"errors"

	"github.com/Geodocque/fuzzy-search/pkg/gazetteer"
	"github.com/charmbracelet/log"

	"github.com/tchap/go-patricia/v2/patricia"
)

// errEnough aborts a subtree visit once the completion limit is reached.
var errEnough = errors.New("enough completions")

// NameIndex answers exact-prefix completions over the catalog's names and
// alt-names. It complements fuzzy search: no typo tolerance, but instant
// narrowing while a user is still typing. Built once per snapshot, read-only
// afterwards.
type NameIndex struct {
	trie *patricia.Trie
}

// Completion is one prefix-completion hit.
type Completion struct {
	// ID is the record's position in the store.
	ID int
	// Text is the indexed name or alt-name that extends the prefix.
	Text string
}

// NewNameIndex builds the prefix trie over a record store. Keys are the
// normalized names; each key holds the ids of every record carrying that
// exact name.
func NewNameIndex(records []gazetteer.Record) *NameIndex {
	trie := patricia.NewTrie()

	insert := func(text string, id int) {
		key := Normalize(text)
		if key == "" {
			return
		}
		if item := trie.Get(patricia.Prefix(key)); item != nil {
			ids := item.([]int)
			if ids[len(ids)-1] != id {
				trie.Set(patricia.Prefix(key), append(ids, id))
			}
			return
		}
		trie.Insert(patricia.Prefix(key), []int{id})
	}

	for id := range records {
		insert(records[id].Name, id)
		for _, alt := range records[id].AltNames {
			insert(alt, id)
		}
	}

	log.Debugf("Built name index over %d records", len(records))
	return &NameIndex{trie: trie}
}

// Complete returns up to limit completions whose normalized text starts with
// the normalized prefix, in trie (lexicographic) order. A record appearing
// under several matching names is reported once per matching name.
func (n *NameIndex) Complete(prefix string, limit int) []Completion {
	key := Normalize(prefix)
	if key == "" || limit <= 0 {
		return nil
	}

	var completions []Completion
	err := n.trie.VisitSubtree(patricia.Prefix(key), func(p patricia.Prefix, item patricia.Item) error {
		ids, ok := item.([]int)
		if !ok {
			log.Errorf("Unknown item type %T for key %s", item, p)
			return nil
		}
		for _, id := range ids {
			if len(completions) >= limit {
				return errEnough
			}
			completions = append(completions, Completion{ID: id, Text: string(p)})
		}
		return nil
	})
	if err != nil && err != errEnough {
		log.Errorf("Error visiting name index subtree: %v", err)
		return nil
	}
	return completions
}
