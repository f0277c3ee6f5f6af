package models

import "fmt"

// Institution identifies the source of a CSV export. Each supported
// institution has exactly one field mapping; unknown names are rejected
// up front rather than silently falling back to a guessed format.
type Institution string

const (
	InstitutionChase  Institution = "chase"
	InstitutionAmex   Institution = "amex"
	InstitutionBofA   Institution = "bofa"
	InstitutionManual Institution = "manual"
)

// Institutions lists every supported institution in stable order.
var Institutions = []Institution{
	InstitutionChase,
	InstitutionAmex,
	InstitutionBofA,
	InstitutionManual,
}

// ParseInstitution validates an institution name from user input.
func ParseInstitution(name string) (Institution, error) {
	switch Institution(name) {
	case InstitutionChase, InstitutionAmex, InstitutionBofA, InstitutionManual:
		return Institution(name), nil
	}
	return "", fmt.Errorf("unknown institution %q (supported: %v)", name, Institutions)
}

// String returns the institution name.
func (i Institution) String() string {
	return string(i)
}

// DefaultMapping returns the built-in field mapping for the institution.
// These defaults are used when no mapping row exists in the database yet.
func (i Institution) DefaultMapping() CSVMapping {
	switch i {
	case InstitutionChase:
		return CSVMapping{
			Institution:       i,
			DateColumn:        "Transaction Date",
			DescriptionColumn: "Description",
			AmountColumn:      "Amount",
			CategoryColumn:    "Category",
			DateFormat:        "01/02/2006",
			InvertAmount:      false,
			SkipPatterns:      []string{"automatic payment"},
		}
	case InstitutionAmex:
		// Amex reports charges as positive amounts, so the sign is flipped
		// to keep expenses negative.
		return CSVMapping{
			Institution:       i,
			DateColumn:        "Date",
			DescriptionColumn: "Description",
			AmountColumn:      "Amount",
			DateFormat:        "01/02/2006",
			InvertAmount:      true,
			SkipPatterns:      []string{"autopay payment", "online payment - thank you"},
		}
	case InstitutionBofA:
		return CSVMapping{
			Institution:       i,
			DateColumn:        "Posted Date",
			DescriptionColumn: "Payee",
			DebitColumn:       "Debit",
			CreditColumn:      "Credit",
			DateFormat:        "01/02/2006",
			InvertAmount:      false,
		}
	case InstitutionManual:
		return CSVMapping{
			Institution:       i,
			DateColumn:        "Date",
			DescriptionColumn: "Description",
			AmountColumn:      "Amount",
			DateFormat:        "2006-01-02",
			InvertAmount:      false,
		}
	}
	// Unreachable for values produced by ParseInstitution.
	return CSVMapping{Institution: i}
}
