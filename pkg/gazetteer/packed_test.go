package gazetteer

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func samplePackedDataset() *Dataset {
	return &Dataset{
		Records: []Record{
			{OID: 100, Name: "Asmara", Country: "Eritrea"},
			{OID: 101, Name: "Keren", AltNames: []string{"Kheren"}, Region: "Anseba"},
		},
		Index: Index{
			"asm": {0},
			"ker": {1},
			"her": {1},
		},
	}
}

func TestPackedRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.pack")
	ds := samplePackedDataset()

	if err := WritePacked(ds, path); err != nil {
		t.Fatalf("WritePacked failed: %v", err)
	}

	loaded, err := LoadPacked(path)
	if err != nil {
		t.Fatalf("LoadPacked failed: %v", err)
	}
	if !reflect.DeepEqual(loaded.Records, ds.Records) {
		t.Errorf("records changed in round trip:\n got %+v\nwant %+v", loaded.Records, ds.Records)
	}
	if !reflect.DeepEqual(loaded.Index, ds.Index) {
		t.Errorf("index changed in round trip:\n got %+v\nwant %+v", loaded.Index, ds.Index)
	}
}

func TestValidatePacked(t *testing.T) {
	dir := t.TempDir()

	t.Run("wrong extension", func(t *testing.T) {
		path := filepath.Join(dir, "snapshot.bin")
		if err := os.WriteFile(path, []byte("GZPK\x01\x00data"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := ValidatePacked(path); err == nil {
			t.Error("expected an extension error")
		}
	})

	t.Run("bad magic", func(t *testing.T) {
		path := filepath.Join(dir, "bad.pack")
		if err := os.WriteFile(path, []byte("NOPE\x01\x00data"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := ValidatePacked(path); err == nil {
			t.Error("expected a magic error")
		}
	})

	t.Run("truncated file", func(t *testing.T) {
		path := filepath.Join(dir, "tiny.pack")
		if err := os.WriteFile(path, []byte("GZ"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := ValidatePacked(path); err == nil {
			t.Error("expected a size error")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if err := ValidatePacked(filepath.Join(dir, "absent.pack")); err == nil {
			t.Error("expected a stat error")
		}
	})
}

func TestLoadPackedRejectsGarbagePayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.pack")
	if err := os.WriteFile(path, []byte("GZPK\x01\x00\xc1\xc1\xc1"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPacked(path); err == nil {
		t.Fatal("expected a decode error for a garbage payload")
	}
}
