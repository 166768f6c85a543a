/*
Package gazetteer holds the place-name catalog a search session runs against.

A Dataset is a read-only snapshot: an ordered record store whose positions are
the record identifiers, plus a trigram inverted index over the normalized
names. Both sides must come from the same snapshot and the same normalization
rules, otherwise retrieval silently loses recall. The package only loads and
validates data; matching lives in pkg/search.
*/
package gazetteer

// Record is a single named entity in the catalog. Its identifier is its
// position in the record store, not a field. OID is an opaque reference used
// for outbound actions only and never takes part in matching. The context
// fields are display-only.
type Record struct {
	OID      int      `json:"oid" msgpack:"o"`
	Name     string   `json:"name" msgpack:"n"`
	AltNames []string `json:"alt_names,omitempty" msgpack:"a,omitempty"`
	Country  string   `json:"country,omitempty" msgpack:"c,omitempty"`
	State    string   `json:"state,omitempty" msgpack:"s,omitempty"`
	Region   string   `json:"region,omitempty" msgpack:"r,omitempty"`
	District string   `json:"district,omitempty" msgpack:"d,omitempty"`
}

// Index maps a trigram to the positions of every record whose normalized
// name or alt-name contains it.
type Index map[string][]int

// Dataset is one loaded snapshot. Treated as read-only for its whole
// lifetime; callers swap the pointer between queries to refresh data.
type Dataset struct {
	Records []Record `msgpack:"records"`
	Index   Index    `msgpack:"index"`
}

// Len returns the number of records in the store.
func (d *Dataset) Len() int {
	return len(d.Records)
}

// At returns the record at position id, or nil when id is out of bounds.
// Posting lists from untrusted snapshots may reference positions that do not
// exist; those must degrade to a miss, never a panic.
func (d *Dataset) At(id int) *Record {
	if id < 0 || id >= len(d.Records) {
		return nil
	}
	return &d.Records[id]
}
