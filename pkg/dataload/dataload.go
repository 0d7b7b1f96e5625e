// Package dataload reads parametrized test data from YAML, JSON, CSV and
// TOML files into a uniform slice of case maps.
package dataload

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/ternarybob/specto/internal/common"
)

// Root keys recognized in structured files, checked in order.
var rootKeys = []string{"tests", "data", "cases", "test_cases", "rows"}

// DataLoadError reports a problem loading a data file.
type DataLoadError struct {
	Path   string
	Reason string
	Cause  error
}

func (e *DataLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load test data from %s: %s: %v", e.Path, e.Reason, e.Cause)
	}
	return fmt.Sprintf("failed to load test data from %s: %s", e.Path, e.Reason)
}

func (e *DataLoadError) Unwrap() error {
	return e.Cause
}

// Load reads the data file at path and returns one map per test case.
// The format follows the file extension. The result is never empty: an
// empty dataset is an error, since a parametrized test with zero cases
// silently tests nothing.
func Load(path string) ([]map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &DataLoadError{Path: path, Reason: "cannot read file", Cause: err}
	}

	var cases []map[string]any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		cases, err = decodeStructured(path, raw, func(data []byte, v any) error {
			return yaml.Unmarshal(data, v)
		})
	case ".json":
		cases, err = decodeStructured(path, raw, json.Unmarshal)
	case ".toml":
		cases, err = decodeStructured(path, raw, toml.Unmarshal)
	case ".csv":
		cases, err = decodeCSV(path, raw)
	default:
		return nil, &DataLoadError{Path: path, Reason: fmt.Sprintf("unsupported data file extension %q", ext)}
	}
	if err != nil {
		return nil, err
	}

	if len(cases) == 0 {
		return nil, &DataLoadError{Path: path, Reason: "data file contains no test cases"}
	}

	common.GetLogger().Debug().Str("path", path).Int("cases", len(cases)).Msg("Test data loaded")
	return cases, nil
}

// decodeStructured handles the YAML/JSON/TOML shapes: a bare list of case
// maps, a document with a recognized root key holding such a list, or a
// single mapping treated as one case.
func decodeStructured(path string, raw []byte, unmarshal func([]byte, any) error) ([]map[string]any, error) {
	var document any
	if err := unmarshal(raw, &document); err != nil {
		return nil, &DataLoadError{Path: path, Reason: "cannot parse file", Cause: err}
	}

	switch doc := document.(type) {
	case []any:
		return caseList(path, doc)
	case map[string]any:
		for _, key := range rootKeys {
			value, ok := doc[key]
			if !ok {
				continue
			}
			list, ok := value.([]any)
			if !ok {
				return nil, &DataLoadError{Path: path, Reason: fmt.Sprintf("root key %q must hold a list of test cases", key)}
			}
			return caseList(path, list)
		}
		common.GetLogger().Warn().
			Str("path", path).
			Msg("No recognized root key in data file, treating the document as a single test case")
		return []map[string]any{normalizeMap(doc)}, nil
	case nil:
		return nil, nil
	default:
		return nil, &DataLoadError{Path: path, Reason: "data file must contain a list of test cases or a mapping"}
	}
}

func caseList(path string, list []any) ([]map[string]any, error) {
	cases := make([]map[string]any, 0, len(list))
	for i, entry := range list {
		m, ok := entry.(map[string]any)
		if !ok {
			return nil, &DataLoadError{Path: path, Reason: fmt.Sprintf("test case %d is not a mapping", i+1)}
		}
		cases = append(cases, normalizeMap(m))
	}
	return cases, nil
}

// normalizeMap flattens nested decoder-specific map types so every case is
// plain map[string]any all the way down.
func normalizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch value := v.(type) {
	case map[string]any:
		return normalizeMap(value)
	case []any:
		list := make([]any, len(value))
		for i, item := range value {
			list[i] = normalizeValue(item)
		}
		return list
	default:
		return v
	}
}

// decodeCSV reads a header row plus one case per record, every field a
// string keyed by its header.
func decodeCSV(path string, raw []byte) ([]map[string]any, error) {
	reader := csv.NewReader(strings.NewReader(string(raw)))

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &DataLoadError{Path: path, Reason: "CSV file is empty, a header row is required"}
	}
	if err != nil {
		return nil, &DataLoadError{Path: path, Reason: "cannot parse CSV header", Cause: err}
	}

	var cases []map[string]any
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &DataLoadError{Path: path, Reason: "cannot parse CSV record", Cause: err}
		}
		row := make(map[string]any, len(header))
		for i, column := range header {
			row[column] = record[i]
		}
		cases = append(cases, row)
	}
	return cases, nil
}
