package models

// CSVMapping binds an institution's CSV column layout to the normalized
// transaction fields. Exactly one of AmountColumn or the DebitColumn +
// CreditColumn pair should be set; which one is present selects the
// amount resolution strategy during parsing.
type CSVMapping struct {
	Institution       Institution `json:"institution"`
	DateColumn        string      `json:"date"`
	DescriptionColumn string      `json:"description"`
	AmountColumn      string      `json:"amount,omitempty"`
	DebitColumn       string      `json:"debit,omitempty"`
	CreditColumn      string      `json:"credit,omitempty"`
	CategoryColumn    string      `json:"category,omitempty"`

	// DateFormat is a Go reference-time layout for the date column.
	DateFormat string `json:"dateFormat"`

	// InvertAmount flips the sign of the final computed amount, for
	// institutions that report expenses as positive values.
	InvertAmount bool `json:"invertAmount"`

	// SkipPatterns are case-insensitive substrings; a row whose
	// description contains any of them is discarded as non-transaction
	// noise (autopay confirmations and the like).
	SkipPatterns []string `json:"skipPatterns,omitempty"`
}

// UsesDebitCredit reports whether the paired debit/credit strategy applies.
func (m CSVMapping) UsesDebitCredit() bool {
	return m.AmountColumn == "" && (m.DebitColumn != "" || m.CreditColumn != "")
}
