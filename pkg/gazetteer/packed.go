package gazetteer

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Packed snapshot format: a fixed header followed by one msgpack-encoded
// Dataset. The header keeps format detection cheap and guards against feeding
// an unrelated binary to the loader.
//
//	offset 0: magic "GZPK" (4 bytes)
//	offset 4: version uint16 little-endian
//	offset 6: msgpack payload
const (
	packedMagic   = "GZPK"
	packedVersion = uint16(1)

	// PackedExt is the expected extension for packed snapshot files.
	PackedExt = ".pack"

	headerSize = 6
)

// WritePacked encodes a snapshot into a single packed file.
func WritePacked(ds *Dataset, path string) error {
	payload, err := msgpack.Marshal(ds)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	var buf bytes.Buffer
	buf.Grow(headerSize + len(payload))
	buf.WriteString(packedMagic)
	if err := binary.Write(&buf, binary.LittleEndian, packedVersion); err != nil {
		return fmt.Errorf("failed to write snapshot header: %w", err)
	}
	buf.Write(payload)

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write packed snapshot %s: %w", path, err)
	}
	log.Debugf("Wrote packed snapshot: %d records, %d postings, %d bytes", len(ds.Records), len(ds.Index), buf.Len())
	return nil
}

// LoadPacked reads a snapshot previously written by WritePacked.
func LoadPacked(path string) (*Dataset, error) {
	if err := ValidatePacked(path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read packed snapshot %s: %w", path, err)
	}

	var ds Dataset
	if err := msgpack.Unmarshal(data[headerSize:], &ds); err != nil {
		return nil, fmt.Errorf("failed to decode packed snapshot %s: %w", path, err)
	}

	if stray := ds.strayPostings(); stray > 0 {
		log.Warnf("Packed snapshot %s references %d positions outside the record store", path, stray)
	}
	log.Debugf("Loaded packed snapshot %s: %d records", path, len(ds.Records))
	return &ds, nil
}

// ValidatePacked checks extension, size and header without decoding the
// payload.
func ValidatePacked(path string) error {
	if ext := strings.ToLower(filepath.Ext(path)); ext != PackedExt {
		return fmt.Errorf("file %s has invalid extension %s for a packed snapshot (expected %s)", path, ext, PackedExt)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat packed snapshot %s: %w", path, err)
	}
	if info.Size() < headerSize+1 {
		return fmt.Errorf("file %s is too small (%d bytes) to be a packed snapshot", path, info.Size())
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open packed snapshot %s: %w", path, err)
	}
	defer f.Close()

	header := make([]byte, headerSize)
	if _, err := f.Read(header); err != nil {
		return fmt.Errorf("failed to read header from %s: %w", path, err)
	}
	if string(header[:4]) != packedMagic {
		return fmt.Errorf("file %s is not a packed snapshot (bad magic)", path)
	}
	if version := binary.LittleEndian.Uint16(header[4:]); version != packedVersion {
		return fmt.Errorf("packed snapshot %s has unsupported version %d (want %d)", path, version, packedVersion)
	}
	return nil
}
