package search

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// PayloadName is the order-stable search asset shipped next to the pages.
const PayloadName = "search.json"

// CompressedPayloadName is the zstd sibling preferred on load.
const CompressedPayloadName = "search.json.zst"

// WritePayload serializes the record set, in insertion order, as both a
// plain and a zstd-compressed asset in dir. The two are written from the
// same bytes so rebuilds from identical input are byte-identical.
func WritePayload(dir string, records []Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling search payload: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(filepath.Join(dir, PayloadName), data, 0644); err != nil {
		return fmt.Errorf("writing search payload: %w", err)
	}

	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf)
	if err != nil {
		return fmt.Errorf("creating zstd writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("compressing search payload: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing zstd writer: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, CompressedPayloadName), buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing compressed search payload: %w", err)
	}

	return nil
}

// ReadPayload loads a record set from dir, preferring the compressed asset.
func ReadPayload(dir string) ([]Record, error) {
	data, err := readCompressed(filepath.Join(dir, CompressedPayloadName))
	if err != nil {
		data, err = os.ReadFile(filepath.Join(dir, PayloadName))
		if err != nil {
			return nil, fmt.Errorf("reading search payload: %w", err)
		}
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding search payload: %w", err)
	}
	return records, nil
}

func readCompressed(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("creating zstd reader: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decompressing %s: %w", path, err)
	}
	return data, nil
}
