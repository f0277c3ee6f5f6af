// Package csvparse turns raw CSV exports from financial institutions into
// normalized parsed transactions using a per-institution field mapping.
// Individual malformed rows are collected as failures and dropped; only a
// structurally unreadable file fails the whole parse.
package csvparse

import (
	"encoding/csv"
	"io"
	"strings"
	"time"

	"github.com/ruslany/expense-tracker/internal/apperrors"
	"github.com/ruslany/expense-tracker/internal/logging"
	"github.com/ruslany/expense-tracker/internal/models"
)

// Common header spellings checked when the mapping does not bind an
// explicit category or tag column. The first matching header wins.
var (
	categoryHeaders = []string{"Category", "category", "Type", "type"}
	tagHeaders      = []string{"Tags", "tags", "Tag", "tag", "Labels", "labels"}
)

// RowError describes one source row that could not be converted.
// Line is the 1-based data row number (excluding the header).
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Report is the outcome of parsing one file: converted rows in file
// order plus the per-row failures that were dropped along the way.
type Report struct {
	Rows     []models.ParsedTransaction
	Failures []RowError
}

// Parser converts institution CSV exports into parsed transactions.
type Parser struct {
	logger logging.Logger
}

// New creates a Parser.
func New(logger logging.Logger) *Parser {
	if logger == nil {
		logger = &logging.MockLogger{}
	}
	return &Parser{logger: logger}
}

// Parse reads the CSV from r and converts every data row according to the
// mapping. A row-level failure is recorded in the report and the row is
// skipped; a file that cannot be read as CSV at all returns a
// StructuralParseError and no report.
func (p *Parser) Parse(r io.Reader, mapping models.CSVMapping) (*Report, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, &apperrors.StructuralParseError{Err: err}
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	report := &Report{}
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &apperrors.StructuralParseError{Err: err}
		}
		line++

		row := recordToMap(header, record)
		tx, skip, convErr := p.convertRow(row, mapping)
		if convErr != nil {
			p.logger.WithFields(
				logging.Field{Key: logging.FieldRow, Value: line},
				logging.Field{Key: logging.FieldReason, Value: convErr.Error()},
			).Warn("Skipping unparsable row")
			report.Failures = append(report.Failures, RowError{Line: line, Reason: convErr.Error()})
			continue
		}
		if skip {
			p.logger.WithField(logging.FieldRow, line).Debug("Row matched skip pattern, discarding")
			continue
		}
		report.Rows = append(report.Rows, tx)
	}

	p.logger.WithFields(
		logging.Field{Key: logging.FieldCount, Value: len(report.Rows)},
		logging.Field{Key: "failures", Value: len(report.Failures)},
	).Info("Parsed CSV input")
	return report, nil
}

// Preview returns the first n data rows as header to value maps, for UI
// display only. Short files return fewer rows; malformed trailing rows
// are simply omitted.
func (p *Parser) Preview(r io.Reader, n int) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, &apperrors.StructuralParseError{Err: err}
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []map[string]string
	for len(rows) < n {
		record, err := reader.Read()
		if err != nil {
			break
		}
		rows = append(rows, recordToMap(header, record))
	}
	return rows, nil
}

// convertRow maps one raw row to a ParsedTransaction. The skip return is
// true when the row matched a configured skip pattern and should be
// silently discarded rather than reported as a failure.
func (p *Parser) convertRow(row map[string]string, mapping models.CSVMapping) (models.ParsedTransaction, bool, error) {
	var tx models.ParsedTransaction

	rawDate := strings.TrimSpace(row[mapping.DateColumn])
	if rawDate == "" {
		return tx, false, &apperrors.ValidationError{Field: mapping.DateColumn, Reason: "date field is empty"}
	}
	date, err := time.Parse(mapping.DateFormat, rawDate)
	if err != nil {
		return tx, false, &apperrors.ValidationError{Field: mapping.DateColumn, Reason: "unparsable date " + rawDate}
	}
	// Normalize to UTC midnight; time of day is not tracked.
	tx.Date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	description := strings.TrimSpace(row[mapping.DescriptionColumn])
	if description == "" {
		description = models.UnknownDescription
	}
	tx.Description = description

	for _, pattern := range mapping.SkipPatterns {
		if pattern != "" && strings.Contains(strings.ToLower(description), strings.ToLower(pattern)) {
			return tx, true, nil
		}
	}

	amount, err := resolveAmount(row, mapping)
	if err != nil {
		return tx, false, err
	}
	if mapping.InvertAmount {
		amount = amount.Neg()
	}
	tx.Amount = amount

	tx.OriginalData = models.OriginalData(row)
	tx.Category = explicitCategory(row, mapping)
	tx.Tags = explicitTags(row)

	return tx, false, nil
}
