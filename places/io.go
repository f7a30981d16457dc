// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

package places

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DecodeJSON reads a JSON array of records.
func DecodeJSON(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding records: %w", err)
	}

	return records, nil
}

// ReadJSON reads the records stored at path.
func ReadJSON(path string) ([]Record, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	records, err := DecodeJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return records, nil
}

// EncodeJSON writes records as an indented JSON array. Non ASCII text is
// written as is.
func EncodeJSON(w io.Writer, records []Record) error {
	if records == nil {
		records = []Record{}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	return enc.Encode(records)
}

// EncodeCSV writes records as CSV. The header is the union of all keys in
// the order they are first seen; missing values are empty.
func EncodeCSV(w io.Writer, records []Record) error {
	var header []string

	seen := make(map[string]bool)

	for _, r := range records {
		for _, k := range r.keys {
			if !seen[k] {
				seen[k] = true
				header = append(header, k)
			}
		}
	}

	cw := csv.NewWriter(w)

	if len(header) > 0 {
		if err := cw.Write(header); err != nil {
			return err
		}
	}

	row := make([]string, len(header))

	for _, r := range records {
		for i, k := range header {
			row[i] = r.String(k)
		}

		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

// WriteJSON writes records to path as JSON.
func WriteJSON(path string, records []Record) error {
	return writeFile(path, func(w io.Writer) error { return EncodeJSON(w, records) })
}

// WriteCSV writes records to path as CSV.
func WriteCSV(path string, records []Record) error {
	return writeFile(path, func(w io.Writer) error { return EncodeCSV(w, records) })
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("closing %s: %w", path, cerr))
		}
	}()

	if err := write(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}
