package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rpg-spellcanon/internal/canon"
)

// readRecords loads one record or a list of records from a JSON or YAML file.
// "-" reads standard input as JSON.
func readRecords(path string) ([]canon.RawRecord, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		err = dec.Decode(&doc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	switch v := doc.(type) {
	case map[string]any:
		return []canon.RawRecord{v}, nil
	case []any:
		records := make([]canon.RawRecord, 0, len(v))
		for i, item := range v {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("record %d is not an object", i)
			}
			records = append(records, m)
		}
		return records, nil
	default:
		return nil, fmt.Errorf("%s must hold an object or a list of objects", path)
	}
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// parseValue decodes a JSON object given on the command line
func parseValue(arg string) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(arg), &m); err != nil {
		return nil, fmt.Errorf("value must be a JSON object: %w", err)
	}
	return m, nil
}
