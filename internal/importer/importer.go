// Package importer orchestrates the CSV import pipeline: parse, dedup
// fingerprinting, category resolution, idempotent bulk insertion, tag
// linking and import-history recording.
package importer

import (
	"bytes"
	"context"
	"time"

	"github.com/ruslany/expense-tracker/internal/categorizer"
	"github.com/ruslany/expense-tracker/internal/csvparse"
	"github.com/ruslany/expense-tracker/internal/database"
	"github.com/ruslany/expense-tracker/internal/fingerprint"
	"github.com/ruslany/expense-tracker/internal/logging"
	"github.com/ruslany/expense-tracker/internal/models"

	"github.com/google/uuid"
)

// PreviewRows is how many raw rows an import summary carries for display.
const PreviewRows = 5

// Summary is the caller-facing result of one import call.
type Summary struct {
	Imported  int                 `json:"imported"`
	Skipped   int                 `json:"skipped"`
	Total     int                 `json:"total"`
	Preview   []map[string]string `json:"preview"`
	RowErrors []csvparse.RowError `json:"rowErrors,omitempty"`
}

// Orchestrator runs imports against the persistence layer.
type Orchestrator struct {
	store    *database.Store
	parser   *csvparse.Parser
	detector *categorizer.Detector
	logger   logging.Logger
}

// New creates an import Orchestrator.
func New(store *database.Store, logger logging.Logger) *Orchestrator {
	if logger == nil {
		logger = &logging.MockLogger{}
	}
	return &Orchestrator{
		store:    store,
		parser:   csvparse.New(logger),
		detector: categorizer.New(logger),
		logger:   logger,
	}
}

// Import parses content as a CSV export from the given institution and,
// when accountID is non-nil, persists the resulting transactions into
// that account. With a nil accountID, parsing runs but nothing is
// written; this is the preview-only mode used before committing to an
// account.
//
// Duplicate rows (same content hash already present in the account) are
// skipped silently; the summary reports imported vs skipped counts. A
// structurally unreadable file fails before any writes.
func (o *Orchestrator) Import(ctx context.Context, fileName string, content []byte, institution models.Institution, accountID *int64) (*Summary, error) {
	log := o.logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: fileName},
		logging.Field{Key: logging.FieldInstitution, Value: institution.String()},
	)

	mapping, err := o.store.GetMapping(ctx, institution)
	if err != nil {
		return nil, err
	}

	report, err := o.parser.Parse(bytes.NewReader(content), mapping)
	if err != nil {
		return nil, err
	}
	preview, err := o.parser.Preview(bytes.NewReader(content), PreviewRows)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Total:     len(report.Rows),
		Preview:   preview,
		RowErrors: report.Failures,
	}

	if accountID == nil {
		log.WithField(logging.FieldCount, summary.Total).Info("Preview-only import, nothing persisted")
		return summary, nil
	}
	account, err := o.store.GetAccount(ctx, *accountID)
	if err != nil {
		return nil, err
	}
	log = log.WithField(logging.FieldAccountID, account.ID)

	categories, err := o.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	// Fingerprints are assigned in parse order; position i of hashes
	// corresponds to row i for the rest of the pipeline.
	hashes := fingerprint.ForBatch(report.Rows)

	tagsByName, err := o.resolveTags(ctx, report.Rows)
	if err != nil {
		return nil, err
	}

	importedAt := time.Now().UTC()
	batch := make([]models.Transaction, len(report.Rows))
	for i, row := range report.Rows {
		batch[i] = models.Transaction{
			ID:           uuid.NewString(),
			AccountID:    account.ID,
			Date:         row.Date,
			Description:  row.Description,
			Amount:       row.Amount,
			CategoryID:   o.resolveCategory(row, categories),
			OriginalData: row.OriginalData,
			ContentHash:  hashes[i],
			ImportedAt:   importedAt,
		}
	}

	inserted, err := o.store.BulkInsertTransactions(ctx, batch)
	if err != nil {
		return nil, err
	}
	summary.Imported = inserted
	summary.Skipped = summary.Total - inserted

	if err := o.linkTags(ctx, account.ID, report.Rows, hashes, tagsByName); err != nil {
		return nil, err
	}

	if _, err := o.store.RecordImport(ctx, fileName, institution, account.ID, inserted); err != nil {
		return nil, err
	}

	log.WithFields(
		logging.Field{Key: logging.FieldImported, Value: summary.Imported},
		logging.Field{Key: logging.FieldSkipped, Value: summary.Skipped},
	).Info("Import completed")
	return summary, nil
}

// resolveCategory picks the category for one parsed row: an explicit CSV
// category name wins (matched case-insensitively against existing
// categories), otherwise keyword detection runs. Rows resolving to
// nothing stay uncategorized.
func (o *Orchestrator) resolveCategory(row models.ParsedTransaction, categories []models.Category) *int64 {
	if row.Category != "" {
		if id, ok := categorizer.ResolveName(row.Category, categories); ok {
			return &id
		}
		// An explicit CSV category that matches nothing is dropped rather
		// than routed through keyword detection; the CSV's own label
		// always takes precedence over guessing.
		return nil
	}
	if id, ok := o.detector.Detect(row.Description, categories); ok {
		return &id
	}
	return nil
}

// resolveTags collects the distinct tag names across the batch and
// idempotently resolves each to a persisted tag.
func (o *Orchestrator) resolveTags(ctx context.Context, rows []models.ParsedTransaction) (map[string]models.Tag, error) {
	tagsByName := make(map[string]models.Tag)
	for _, row := range rows {
		for _, name := range row.Tags {
			if _, done := tagsByName[name]; done {
				continue
			}
			tag, err := o.store.GetOrCreateTag(ctx, name)
			if err != nil {
				return nil, err
			}
			tagsByName[name] = tag
		}
	}
	return tagsByName, nil
}

// linkTags re-looks-up the just-created transactions by fingerprint and
// creates the tag associations. Rows skipped as duplicates resolve to
// their previously imported transaction, so re-imports do not duplicate
// associations either.
func (o *Orchestrator) linkTags(ctx context.Context, accountID int64, rows []models.ParsedTransaction, hashes []string, tagsByName map[string]models.Tag) error {
	var tagged []string
	for i, row := range rows {
		if len(row.Tags) > 0 {
			tagged = append(tagged, hashes[i])
		}
	}
	if len(tagged) == 0 {
		return nil
	}

	byHash, err := o.store.GetTransactionsByHashes(ctx, accountID, tagged)
	if err != nil {
		return err
	}
	for i, row := range rows {
		if len(row.Tags) == 0 {
			continue
		}
		tx, ok := byHash[hashes[i]]
		if !ok {
			// Hash not found means the row was neither inserted nor
			// previously imported; nothing to link.
			continue
		}
		for _, name := range row.Tags {
			tag, ok := tagsByName[name]
			if !ok {
				continue
			}
			if err := o.store.LinkTransactionTag(ctx, tx.ID, tag.ID); err != nil {
				return err
			}
		}
	}
	return nil
}
