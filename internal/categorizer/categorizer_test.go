package categorizer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ruslany/expense-tracker/internal/models"
)

func testCategories() []models.Category {
	return []models.Category{
		{ID: 1, Name: "Dining", Keywords: []string{"coffee", "restaurant"}},
		{ID: 2, Name: "Groceries", Keywords: []string{"market", "grocery"}},
		{ID: 3, Name: "Transport", Keywords: []string{"uber", "shell"}},
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name        string
		description string
		expectedID  int64
		matched     bool
	}{
		{name: "exact keyword", description: "coffee", expectedID: 1, matched: true},
		{name: "substring match", description: "STARBUCKS COFFEE #1234", expectedID: 1, matched: true},
		{name: "case insensitive", description: "Whole Foods MARKET", expectedID: 2, matched: true},
		{name: "first category wins", description: "restaurant near the market", expectedID: 1, matched: true},
		{name: "no match", description: "UNKNOWN MERCHANT", matched: false},
		{name: "empty description", description: "", matched: false},
		{name: "blank description", description: "   ", matched: false},
	}

	detector := New(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := detector.Detect(tt.description, testCategories())
			assert.Equal(t, tt.matched, ok)
			if tt.matched {
				assert.Equal(t, tt.expectedID, id)
			}
		})
	}
}

func TestDetectStableOrder(t *testing.T) {
	detector := New(nil)

	// The same description against the same category set always resolves
	// to the same category, run after run.
	for i := 0; i < 20; i++ {
		id, ok := detector.Detect("uber trip to the restaurant", testCategories())
		assert.True(t, ok)
		assert.Equal(t, int64(1), id)
	}
}

func TestResolveName(t *testing.T) {
	categories := testCategories()

	id, ok := ResolveName("Dining", categories)
	assert.True(t, ok)
	assert.Equal(t, int64(1), id)

	id, ok = ResolveName("groceries", categories)
	assert.True(t, ok)
	assert.Equal(t, int64(2), id)

	_, ok = ResolveName("Entertainment", categories)
	assert.False(t, ok)
}
