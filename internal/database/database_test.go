package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruslany/expense-tracker/internal/apperrors"
	"github.com/ruslany/expense-tracker/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testTransaction(accountID int64, hash string, amount string) models.Transaction {
	dec, _ := decimal.NewFromString(amount)
	return models.Transaction{
		ID:          uuid.NewString(),
		AccountID:   accountID,
		Date:        time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Description: "COFFEE SHOP",
		Amount:      dec,
		OriginalData: models.OriginalData{
			"Description": "COFFEE SHOP",
			"Amount":      amount,
		},
		ContentHash: hash,
		ImportedAt:  time.Now().UTC(),
	}
}

func TestGetOrCreateAccount(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first, err := store.GetOrCreateAccount(ctx, "Checking")
	require.NoError(t, err)
	assert.Equal(t, "Checking", first.Name)

	second, err := store.GetOrCreateAccount(ctx, "Checking")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, err = store.GetOrCreateAccount(ctx, "  ")
	assert.True(t, apperrors.IsValidation(err))

	_, err = store.GetAccount(ctx, 999)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestBulkInsertSkipsDuplicateHashes(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	account, err := store.GetOrCreateAccount(ctx, "Checking")
	require.NoError(t, err)

	batch := []models.Transaction{
		testTransaction(account.ID, "hash-1", "-4.50"),
		testTransaction(account.ID, "hash-2", "-60.00"),
	}
	inserted, err := store.BulkInsertTransactions(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	// Re-inserting the same hashes with fresh ids inserts nothing.
	again := []models.Transaction{
		testTransaction(account.ID, "hash-1", "-4.50"),
		testTransaction(account.ID, "hash-2", "-60.00"),
		testTransaction(account.ID, "hash-3", "-25.00"),
	}
	inserted, err = store.BulkInsertTransactions(ctx, again)
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	transactions, err := store.ListTransactionsByAccount(ctx, account.ID, false)
	require.NoError(t, err)
	assert.Len(t, transactions, 3)
}

func TestDuplicateHashAllowedAcrossAccounts(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	checking, err := store.GetOrCreateAccount(ctx, "Checking")
	require.NoError(t, err)
	savings, err := store.GetOrCreateAccount(ctx, "Savings")
	require.NoError(t, err)

	inserted, err := store.BulkInsertTransactions(ctx, []models.Transaction{
		testTransaction(checking.ID, "shared-hash", "-4.50"),
		testTransaction(savings.ID, "shared-hash", "-4.50"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)
}

func TestGetTransactionRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	account, err := store.GetOrCreateAccount(ctx, "Checking")
	require.NoError(t, err)

	original := testTransaction(account.ID, "hash-1", "-4.50")
	_, err = store.BulkInsertTransactions(ctx, []models.Transaction{original})
	require.NoError(t, err)

	loaded, err := store.GetTransaction(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, original.Description, loaded.Description)
	assert.True(t, original.Amount.Equal(loaded.Amount))
	assert.Equal(t, original.OriginalData, loaded.OriginalData)
	assert.True(t, original.Date.Equal(loaded.Date))
	assert.False(t, loaded.IsSplitChild())

	_, err = store.GetTransaction(ctx, "missing-id")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestGetTransactionsByHashes(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	account, err := store.GetOrCreateAccount(ctx, "Checking")
	require.NoError(t, err)

	first := testTransaction(account.ID, "hash-1", "-4.50")
	second := testTransaction(account.ID, "hash-2", "-60.00")
	_, err = store.BulkInsertTransactions(ctx, []models.Transaction{first, second})
	require.NoError(t, err)

	byHash, err := store.GetTransactionsByHashes(ctx, account.ID, []string{"hash-1", "hash-2", "hash-missing"})
	require.NoError(t, err)
	require.Len(t, byHash, 2)
	assert.Equal(t, first.ID, byHash["hash-1"].ID)
	assert.Equal(t, second.ID, byHash["hash-2"].ID)

	empty, err := store.GetTransactionsByHashes(ctx, account.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSplitChildrenLifecycle(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	account, err := store.GetOrCreateAccount(ctx, "Checking")
	require.NoError(t, err)

	parent := testTransaction(account.ID, "parent-hash", "-100.00")
	_, err = store.BulkInsertTransactions(ctx, []models.Transaction{parent})
	require.NoError(t, err)

	childA := testTransaction(account.ID, "child-hash-a", "-30.00")
	childA.ParentID = &parent.ID
	childB := testTransaction(account.ID, "child-hash-b", "-70.00")
	childB.ParentID = &parent.ID

	require.NoError(t, store.InsertSplitChildren(ctx, []models.Transaction{childA, childB}))

	count, err := store.CountSplits(ctx, parent.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	children, err := store.ListSplits(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, childA.ID, children[0].ID)
	assert.Equal(t, childB.ID, children[1].ID)

	// A parent with children cannot be deleted directly.
	err = store.DeleteTransaction(ctx, parent.ID)
	assert.True(t, apperrors.IsConflict(err))

	deleted, err := store.DeleteSplitChildren(ctx, parent.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	// The parent survives the unsplit.
	_, err = store.GetTransaction(ctx, parent.ID)
	require.NoError(t, err)

	deleted, err = store.DeleteSplitChildren(ctx, parent.ID)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestListTransactionsExcludesSplitParents(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	account, err := store.GetOrCreateAccount(ctx, "Checking")
	require.NoError(t, err)

	parent := testTransaction(account.ID, "parent-hash", "-100.00")
	plain := testTransaction(account.ID, "plain-hash", "-5.00")
	_, err = store.BulkInsertTransactions(ctx, []models.Transaction{parent, plain})
	require.NoError(t, err)

	child := testTransaction(account.ID, "child-hash", "-100.00")
	child.ParentID = &parent.ID
	require.NoError(t, store.InsertSplitChildren(ctx, []models.Transaction{child}))

	all, err := store.ListTransactionsByAccount(ctx, account.ID, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	leaves, err := store.ListTransactionsByAccount(ctx, account.ID, true)
	require.NoError(t, err)
	require.Len(t, leaves, 2)
	for _, tx := range leaves {
		assert.NotEqual(t, parent.ID, tx.ID)
	}
}

func TestTagsIdempotent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	account, err := store.GetOrCreateAccount(ctx, "Checking")
	require.NoError(t, err)

	tx := testTransaction(account.ID, "hash-1", "-4.50")
	_, err = store.BulkInsertTransactions(ctx, []models.Transaction{tx})
	require.NoError(t, err)

	work, err := store.GetOrCreateTag(ctx, "work")
	require.NoError(t, err)
	again, err := store.GetOrCreateTag(ctx, "work")
	require.NoError(t, err)
	assert.Equal(t, work.ID, again.ID)

	travel, err := store.GetOrCreateTag(ctx, "travel")
	require.NoError(t, err)

	require.NoError(t, store.LinkTransactionTag(ctx, tx.ID, work.ID))
	require.NoError(t, store.LinkTransactionTag(ctx, tx.ID, travel.ID))
	// Re-linking an existing pair is a no-op.
	require.NoError(t, store.LinkTransactionTag(ctx, tx.ID, work.ID))

	names, err := store.TagsForTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"travel", "work"}, names)
}

func TestCreateCategoryKeywordClash(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, err := store.CreateCategory(ctx, "Dining", []string{"coffee", "restaurant"})
	require.NoError(t, err)

	// Case-insensitive keyword uniqueness across categories.
	_, err = store.CreateCategory(ctx, "Cafes", []string{"COFFEE"})
	assert.True(t, apperrors.IsValidation(err))

	// The failed create must not leave a partial category behind.
	categories, err := store.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Dining", categories[0].Name)
	assert.Equal(t, []string{"coffee", "restaurant"}, categories[0].Keywords)

	_, err = store.CreateCategory(ctx, "Dining", nil)
	assert.True(t, apperrors.IsConflict(err))
}

func TestSyncCategoriesUpserts(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	seeds := []models.Category{
		{Name: "Dining", Keywords: []string{"coffee"}},
		{Name: "Groceries", Keywords: []string{"market"}},
	}
	require.NoError(t, store.SyncCategories(ctx, seeds))

	// Syncing again with an extra keyword only adds; it never removes or
	// reassigns existing keywords.
	seeds[0].Keywords = []string{"coffee", "restaurant"}
	require.NoError(t, store.SyncCategories(ctx, seeds))

	categories, err := store.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, []string{"coffee", "restaurant"}, categories[0].Keywords)
	assert.Equal(t, []string{"market"}, categories[1].Keywords)
}

func TestGetMappingCreatesDefault(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	mapping, err := store.GetMapping(ctx, models.InstitutionChase)
	require.NoError(t, err)
	assert.Equal(t, models.InstitutionChase.DefaultMapping(), mapping)

	// A stored override wins over the defaults on the next read.
	mapping.DateFormat = "2006-01-02"
	require.NoError(t, store.SaveMapping(ctx, mapping))

	stored, err := store.GetMapping(ctx, models.InstitutionChase)
	require.NoError(t, err)
	assert.Equal(t, "2006-01-02", stored.DateFormat)
}

func TestImportHistory(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	account, err := store.GetOrCreateAccount(ctx, "Checking")
	require.NoError(t, err)

	first, err := store.RecordImport(ctx, "january.csv", models.InstitutionChase, account.ID, 12)
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	_, err = store.RecordImport(ctx, "february.csv", models.InstitutionChase, account.ID, 8)
	require.NoError(t, err)

	history, err := store.ListImportHistory(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)

	names := []string{history[0].FileName, history[1].FileName}
	assert.ElementsMatch(t, []string{"january.csv", "february.csv"}, names)
	assert.Equal(t, account.ID, history[0].AccountID)
}
