package csvparse

import (
	"strings"

	"github.com/ruslany/expense-tracker/internal/apperrors"
	"github.com/ruslany/expense-tracker/internal/models"

	"github.com/shopspring/decimal"
)

// recordToMap pairs a CSV record with the trimmed header. Records shorter
// than the header leave the missing columns absent; extra cells are
// ignored.
func recordToMap(header, record []string) map[string]string {
	row := make(map[string]string, len(header))
	for i, name := range header {
		if name == "" {
			continue
		}
		if i < len(record) {
			row[name] = record[i]
		}
	}
	return row
}

// resolveAmount applies one of the two mutually exclusive amount
// strategies: a single mapped amount column, or paired debit/credit
// columns. The paired form nets to -(debit + credit); the observed
// institution encodes credits as negative values in the credit column,
// so a credit of "-20.00" becomes +20.00.
func resolveAmount(row map[string]string, mapping models.CSVMapping) (decimal.Decimal, error) {
	if !mapping.UsesDebitCredit() {
		raw := strings.TrimSpace(row[mapping.AmountColumn])
		amount, err := models.CleanAmount(raw)
		if err != nil {
			return decimal.Zero, &apperrors.ValidationError{Field: mapping.AmountColumn, Reason: err.Error()}
		}
		return amount, nil
	}

	debit := decimal.Zero
	if raw := strings.TrimSpace(row[mapping.DebitColumn]); raw != "" {
		parsed, err := models.CleanAmount(raw)
		if err != nil {
			return decimal.Zero, &apperrors.ValidationError{Field: mapping.DebitColumn, Reason: err.Error()}
		}
		debit = parsed
	}
	credit := decimal.Zero
	if raw := strings.TrimSpace(row[mapping.CreditColumn]); raw != "" {
		parsed, err := models.CleanAmount(raw)
		if err != nil {
			return decimal.Zero, &apperrors.ValidationError{Field: mapping.CreditColumn, Reason: err.Error()}
		}
		credit = parsed
	}
	if debit.IsZero() && credit.IsZero() {
		return decimal.Zero, &apperrors.ValidationError{Field: mapping.DebitColumn, Reason: "both debit and credit fields are empty"}
	}
	return debit.Add(credit).Neg(), nil
}

// explicitCategory returns the category carried by the row itself, if
// any: the mapped category column first, then the common spellings.
func explicitCategory(row map[string]string, mapping models.CSVMapping) string {
	if mapping.CategoryColumn != "" {
		if v := strings.TrimSpace(row[mapping.CategoryColumn]); v != "" {
			return v
		}
	}
	for _, name := range categoryHeaders {
		if v := strings.TrimSpace(row[name]); v != "" {
			return v
		}
	}
	return ""
}

// explicitTags splits a tag-like cell on comma or semicolon. The first
// matching header wins; empty fragments are dropped.
func explicitTags(row map[string]string) []string {
	for _, name := range tagHeaders {
		cell := strings.TrimSpace(row[name])
		if cell == "" {
			continue
		}
		fragments := strings.FieldsFunc(cell, func(r rune) bool {
			return r == ',' || r == ';'
		})
		var tags []string
		for _, fragment := range fragments {
			if tag := strings.TrimSpace(fragment); tag != "" {
				tags = append(tags, tag)
			}
		}
		return tags
	}
	return nil
}
