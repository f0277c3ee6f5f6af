// Package fingerprint produces stable content fingerprints for imported
// transactions. Fingerprints are the basis for idempotent re-import:
// hashing the same source fields with the same disambiguator always
// yields the same value, so duplicate inserts can be skipped safely.
package fingerprint

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ruslany/expense-tracker/internal/models"
)

// Reserved payload keys used to disambiguate otherwise identical rows.
const (
	seqKey         = "_seq"
	splitParentKey = "_splitParent"
	splitIndexKey  = "_splitIndex"
)

// Hash fingerprints the original row data. Key order is canonicalized
// before hashing, so logically equal maps always hash identically
// regardless of serialization order.
func Hash(data models.OriginalData) string {
	return hashPairs(data, nil)
}

// WithSequence fingerprints the row data with a zero-based occurrence
// counter folded in. Occurrence zero hashes the bare payload, so the
// first copy of a row keeps the same fingerprint whether or not the
// file contains duplicates of it.
func WithSequence(data models.OriginalData, seq int) string {
	if seq == 0 {
		return Hash(data)
	}
	return hashPairs(data, map[string]string{seqKey: strconv.Itoa(seq)})
}

// ForSplit fingerprints a split child derived from the parent's original
// data, keyed by the parent id and the child's position in the split.
func ForSplit(data models.OriginalData, parentID string, index int) string {
	return hashPairs(data, map[string]string{
		splitParentKey: parentID,
		splitIndexKey:  strconv.Itoa(index),
	})
}

// ForBatch assigns a fingerprint to every parsed row, preserving order:
// result[i] corresponds to rows[i]. Rows with identical original data
// receive successive occurrence counters so that N identical CSV lines
// import as N distinct transactions.
func ForBatch(rows []models.ParsedTransaction) []string {
	hashes := make([]string, len(rows))
	seen := make(map[string]int, len(rows))
	for i, row := range rows {
		base := Hash(row.OriginalData)
		seq := seen[base]
		seen[base] = seq + 1
		hashes[i] = WithSequence(row.OriginalData, seq)
	}
	return hashes
}

func hashPairs(data models.OriginalData, extra map[string]string) string {
	pairs := make([]string, 0, len(data)+len(extra))
	for k, v := range data {
		pairs = append(pairs, k+"="+v)
	}
	for k, v := range extra {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)

	sum := sha256.Sum256([]byte(strings.Join(pairs, "|")))
	return fmt.Sprintf("%x", sum)
}
