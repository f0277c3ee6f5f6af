package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruslany/expense-tracker/internal/models"
)

func TestHashIsDeterministic(t *testing.T) {
	data := models.OriginalData{
		"Date":        "01/15/2026",
		"Description": "COFFEE SHOP",
		"Amount":      "-4.50",
	}

	first := Hash(data)
	second := Hash(data)
	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
}

func TestHashIgnoresKeyOrder(t *testing.T) {
	// Maps have no iteration order, so build the same payload twice from
	// differently ordered literals and check the fingerprints agree.
	a := models.OriginalData{"Date": "01/15/2026", "Amount": "-4.50", "Description": "COFFEE"}
	b := models.OriginalData{"Amount": "-4.50", "Description": "COFFEE", "Date": "01/15/2026"}

	assert.Equal(t, Hash(a), Hash(b))
}

func TestHashDistinguishesContent(t *testing.T) {
	base := models.OriginalData{"Date": "01/15/2026", "Amount": "-4.50"}
	changed := models.OriginalData{"Date": "01/15/2026", "Amount": "-4.51"}

	assert.NotEqual(t, Hash(base), Hash(changed))
}

func TestWithSequence(t *testing.T) {
	data := models.OriginalData{"Date": "01/15/2026", "Amount": "-4.50"}

	// Occurrence zero is the bare content hash.
	assert.Equal(t, Hash(data), WithSequence(data, 0))

	first := WithSequence(data, 1)
	second := WithSequence(data, 2)
	assert.NotEqual(t, Hash(data), first)
	assert.NotEqual(t, first, second)

	// Same occurrence always reproduces the same fingerprint.
	assert.Equal(t, first, WithSequence(data, 1))
}

func TestForBatch(t *testing.T) {
	row := models.OriginalData{"Date": "01/15/2026", "Description": "GYM", "Amount": "-25.00"}
	other := models.OriginalData{"Date": "01/16/2026", "Description": "GROCERY", "Amount": "-60.00"}

	rows := []models.ParsedTransaction{
		{OriginalData: row},
		{OriginalData: other},
		{OriginalData: row},
		{OriginalData: row},
	}

	hashes := ForBatch(rows)
	require.Len(t, hashes, 4)

	// Identical rows receive distinct fingerprints.
	unique := map[string]struct{}{}
	for _, h := range hashes {
		unique[h] = struct{}{}
	}
	assert.Len(t, unique, 4)

	// The first occurrence keeps the bare hash, so a file without
	// duplicates fingerprints identically to one that later gains them.
	assert.Equal(t, Hash(row), hashes[0])
	assert.Equal(t, Hash(other), hashes[1])
	assert.Equal(t, WithSequence(row, 1), hashes[2])
	assert.Equal(t, WithSequence(row, 2), hashes[3])
}

func TestForSplit(t *testing.T) {
	data := models.OriginalData{"Date": "01/15/2026", "Amount": "-100.00"}

	first := ForSplit(data, "parent-id", 0)
	second := ForSplit(data, "parent-id", 1)
	otherParent := ForSplit(data, "other-parent", 0)

	assert.NotEqual(t, Hash(data), first)
	assert.NotEqual(t, first, second)
	assert.NotEqual(t, first, otherParent)
	assert.Equal(t, first, ForSplit(data, "parent-id", 0))
}
