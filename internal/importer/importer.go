// Package importer reads word lists from JSON, CSV and Excel files so they
// can be loaded with the import command.
//
// JSON files hold a whole list and are checked against an embedded JSON
// schema. CSV and XLSX files hold words only: the first row is a header
// naming the columns term, definition and optionally part_of_speech and
// example, in any order. The list name for those comes from the caller.
package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/phrazzld/vocab-srs/internal/domain"
)

// Format is a supported input format.
type Format string

// Supported formats
const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Errors returned by the importer
var (
	ErrUnsupportedFormat = errors.New("unsupported import format")
	ErrMissingColumn     = errors.New("missing required column")
	ErrNoWords           = errors.New("no importable words")
	ErrInvalidDocument   = errors.New("document does not match the word list schema")
)

// RowError records a row that was skipped.
type RowError struct {
	Row    int
	Reason string
}

// Result is a parsed word list.
type Result struct {
	List    domain.WordList
	Words   []domain.Word
	Skipped []RowError
}

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// ParseFile reads the word list at path. name overrides the list name; for
// CSV and XLSX files an empty name falls back to the file's base name.
func ParseFile(path, name string) (*Result, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filepath.Base(path), err)
	}
	defer func() { _ = f.Close() }()

	if name == "" && format != FormatJSON {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return Parse(f, format, name)
}

// Parse reads a word list in format from r.
func Parse(r io.Reader, format Format, name string) (*Result, error) {
	var (
		res *Result
		err error
	)
	switch format {
	case FormatJSON:
		res, err = parseJSON(r)
	case FormatCSV:
		res, err = parseCSV(r)
	case FormatXLSX:
		res, err = parseXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}

	if name = strings.TrimSpace(name); name != "" {
		res.List.Name = name
	}
	if len(res.Words) == 0 {
		return nil, ErrNoWords
	}
	return res, nil
}

type jsonWord struct {
	Term         string `json:"term"`
	Definition   string `json:"definition"`
	PartOfSpeech string `json:"part_of_speech"`
	Example      string `json:"example"`
}

type jsonList struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Words       []jsonWord `json:"words"`
}

func parseJSON(r io.Reader) (*Result, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	if err := validateDocument(raw); err != nil {
		return nil, err
	}

	var doc jsonList
	if err := json.NewDecoder(bytes.NewReader(raw)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}

	res := &Result{List: domain.WordList{
		Name:        strings.TrimSpace(doc.Name),
		Description: strings.TrimSpace(doc.Description),
	}}
	for i, w := range doc.Words {
		res.add(i+1, []string{w.Term, w.Definition, w.PartOfSpeech, w.Example})
	}
	return res, nil
}

// Column positions in the normalized row passed to add.
const (
	colTerm = iota
	colDefinition
	colPartOfSpeech
	colExample
	numColumns
)

var headerNames = map[string]int{
	"term":           colTerm,
	"word":           colTerm,
	"definition":     colDefinition,
	"translation":    colDefinition,
	"part_of_speech": colPartOfSpeech,
	"pos":            colPartOfSpeech,
	"example":        colExample,
}

// columnMap maps normalized columns to positions in a tabular header.
type columnMap [numColumns]int

func mapHeader(header []string) (columnMap, error) {
	var m columnMap
	for i := range m {
		m[i] = -1
	}
	for i, h := range header {
		key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
		if col, ok := headerNames[key]; ok && m[col] < 0 {
			m[col] = i
		}
	}
	if m[colTerm] < 0 {
		return m, fmt.Errorf("%w: term", ErrMissingColumn)
	}
	if m[colDefinition] < 0 {
		return m, fmt.Errorf("%w: definition", ErrMissingColumn)
	}
	return m, nil
}

func (m columnMap) normalize(row []string) []string {
	out := make([]string, numColumns)
	for col, idx := range m {
		if idx >= 0 && idx < len(row) {
			out[col] = row[idx]
		}
	}
	return out
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// add validates a normalized row and appends it, or records why it was skipped.
func (r *Result) add(rowNum int, cells []string) {
	w := domain.Word{
		Term:         strings.TrimSpace(cells[colTerm]),
		Definition:   strings.TrimSpace(cells[colDefinition]),
		PartOfSpeech: strings.TrimSpace(cells[colPartOfSpeech]),
		Example:      strings.TrimSpace(cells[colExample]),
	}
	if err := w.Validate(); err != nil {
		r.Skipped = append(r.Skipped, RowError{Row: rowNum, Reason: err.Error()})
		return
	}
	r.Words = append(r.Words, w)
}
