// Package transcript parses call transcript CSVs. Each row is one
// utterance with a speaker id, an M:SS time marker, and one or more
// per-locale transcription columns (EN--Transcription, IN--Transcription, ...).
package transcript

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jaya855/voicepipe/internal/errors"
)

const (
	// SpeakerColumn holds the utterance speaker id (spk_0, spk_1, ...).
	SpeakerColumn = "Speaker"

	// TimeMarkersColumn holds the M:SS offset of the utterance.
	TimeMarkersColumn = "Time Markers"

	// EnglishColumn is the fixed English transcription column.
	EnglishColumn = "EN--Transcription"

	// DefaultSpeaker is assumed when the Speaker cell is empty.
	DefaultSpeaker = "spk_0"

	transcriptionSuffix = "--Transcription"
)

// Utterance is a single transcript row projected onto one transcription column.
type Utterance struct {
	Speaker       string // speaker id, spk_0 by convention for the first voice
	Text          string // transcription text with placeholders removed
	OffsetSeconds int    // absolute offset from the Time Markers column
}

// Document is a parsed transcript.
type Document struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

// Parse decodes a UTF-8 transcript CSV with a header row. Ragged rows are
// tolerated; missing trailing cells read as empty.
func Parse(data []byte) (*Document, error) {
	if !utf8.Valid(data) {
		return nil, errors.ErrBadEncoding
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.ErrEmptyTranscript
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		header[i] = name
		index[name] = i
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		rows = append(rows, row)
	}

	return &Document{
		columns: header,
		index:   index,
		rows:    rows,
	}, nil
}

// Columns returns the header names in file order.
func (d *Document) Columns() []string {
	return d.columns
}

// HasColumn reports whether the header contains the named column.
func (d *Document) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Len returns the number of data rows.
func (d *Document) Len() int {
	return len(d.rows)
}

func (d *Document) cell(row int, column string) string {
	i, ok := d.index[column]
	if !ok || i >= len(d.rows[row]) {
		return ""
	}
	return strings.TrimSpace(d.rows[row][i])
}

// Utterances projects the document onto one transcription column. Rows whose
// transcription is empty after placeholder cleanup are dropped.
func (d *Document) Utterances(column string) ([]Utterance, error) {
	if !d.HasColumn(column) {
		return nil, fmt.Errorf("%w: %s", errors.ErrColumnNotFound, column)
	}

	utterances := make([]Utterance, 0, len(d.rows))
	for row := range d.rows {
		text := Clean(d.cell(row, column))
		if text == "" {
			continue
		}

		speaker := d.cell(row, SpeakerColumn)
		if speaker == "" {
			speaker = DefaultSpeaker
		}

		utterances = append(utterances, Utterance{
			Speaker:       speaker,
			Text:          text,
			OffsetSeconds: ParseTimeMarker(d.cell(row, TimeMarkersColumn)),
		})
	}

	return utterances, nil
}

// FirstTranscription returns the first non-empty transcription in the column,
// or "" if the column is absent or entirely empty.
func (d *Document) FirstTranscription(column string) string {
	if !d.HasColumn(column) {
		return ""
	}
	for row := range d.rows {
		if text := d.cell(row, column); text != "" {
			return text
		}
	}
	return ""
}

// FindTranscriptionColumn locates the transcription column for a country code.
// For locale hi-IN the code is IN and the match is any column containing "IN"
// that ends with "--Transcription".
func (d *Document) FindTranscriptionColumn(countryCode string) (string, bool) {
	for _, column := range d.columns {
		if strings.Contains(column, countryCode) && strings.HasSuffix(column, transcriptionSuffix) {
			return column, true
		}
	}
	return "", false
}

// CountryCode extracts the country component from a locale code,
// e.g. "hi-IN" -> "IN".
func CountryCode(locale string) string {
	parts := strings.Split(locale, "-")
	return parts[len(parts)-1]
}

// CleanLocale strips the whitespace and escape junk that form clients tend
// to smuggle into the locale field.
func CleanLocale(locale string) string {
	locale = strings.TrimSpace(locale)
	replacer := strings.NewReplacer("\\", "", "\n", "", "\t", "")
	return replacer.Replace(locale)
}
