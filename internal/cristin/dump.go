package cristin

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
)

// SaveRecords writes records to path as an indented JSON array, creating
// the parent directory if needed.
func SaveRecords(path string, records []Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dump dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating dump file: %w", err)
	}
	defer f.Close()

	if records == nil {
		records = []Record{}
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("writing dump: %w", err)
	}
	return nil
}

// LoadRecords reads a JSON array of records previously written by
// SaveRecords (or saved straight from the results endpoint).
func LoadRecords(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dump: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("parsing dump %s: invalid JSON", path)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		return nil, fmt.Errorf("parsing dump %s: expected a JSON array", path)
	}

	items := doc.Array()
	records := make([]Record, 0, len(items))
	for _, item := range items {
		records = append(records, Record{Result: item})
	}
	return records, nil
}
