package gazetteer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Snapshot file names inside a data directory.
const (
	RecordsFile = "records.json"
	IndexFile   = "trigram_index.json"
)

// LoadRecords reads the record store from a JSON file. The file is an ordered
// array; array position becomes the record identifier.
func LoadRecords(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read record store %s: %w", path, err)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse record store %s: %w", path, err)
	}

	log.Debugf("Loaded %d records from %s", len(records), path)
	return records, nil
}

// LoadIndex reads the trigram inverted index from a JSON file.
func LoadIndex(path string) (Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trigram index %s: %w", path, err)
	}

	var index Index
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("failed to parse trigram index %s: %w", path, err)
	}

	log.Debugf("Loaded %d trigram postings from %s", len(index), path)
	return index, nil
}

// Load reads a full snapshot from a data directory. The record store is
// required. The index file is optional: when missing, Dataset.Index is nil
// and the caller is expected to build one with the same rules used at query
// time (see search.BuildIndex).
func Load(dir string) (*Dataset, error) {
	records, err := LoadRecords(filepath.Join(dir, RecordsFile))
	if err != nil {
		return nil, err
	}

	ds := &Dataset{Records: records}

	indexPath := filepath.Join(dir, IndexFile)
	if _, err := os.Stat(indexPath); err != nil {
		log.Warnf("No trigram index at %s, one must be built before searching", indexPath)
		return ds, nil
	}

	index, err := LoadIndex(indexPath)
	if err != nil {
		return nil, err
	}
	ds.Index = index

	if stray := ds.strayPostings(); stray > 0 {
		log.Warnf("Trigram index references %d positions outside the record store, they will be ignored", stray)
	}
	return ds, nil
}

// strayPostings counts posting entries that point outside the record store.
// Retrieval skips them one by one; this exists so a bad snapshot is loud at
// load time instead of silently losing matches.
func (d *Dataset) strayPostings() int {
	stray := 0
	for _, ids := range d.Index {
		for _, id := range ids {
			if id < 0 || id >= len(d.Records) {
				stray++
			}
		}
	}
	return stray
}
