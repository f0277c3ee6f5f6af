package database

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/ruslany/expense-tracker/internal/apperrors"
	"github.com/ruslany/expense-tracker/internal/logging"
	"github.com/ruslany/expense-tracker/internal/models"
)

// GetMapping returns the stored CSV mapping for an institution, lazily
// creating one from the built-in defaults when no row exists yet. The
// import path therefore always has a mapping to work with.
func (s *Store) GetMapping(ctx context.Context, institution models.Institution) (models.CSVMapping, error) {
	var raw string
	err := s.db.GetContext(ctx, &raw, `SELECT mapping FROM csv_mappings WHERE institution = ?`, institution.String())
	if err == sql.ErrNoRows {
		mapping := institution.DefaultMapping()
		if saveErr := s.SaveMapping(ctx, mapping); saveErr != nil {
			return models.CSVMapping{}, saveErr
		}
		s.logger.WithField(logging.FieldInstitution, institution.String()).
			Debug("Created default CSV mapping")
		return mapping, nil
	}
	if err != nil {
		return models.CSVMapping{}, &apperrors.PersistenceError{Op: "get csv mapping", Err: err}
	}

	var mapping models.CSVMapping
	if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
		return models.CSVMapping{}, &apperrors.PersistenceError{Op: "decode csv mapping", Err: err}
	}
	return mapping, nil
}

// SaveMapping upserts the CSV mapping for its institution.
func (s *Store) SaveMapping(ctx context.Context, mapping models.CSVMapping) error {
	raw, err := json.Marshal(mapping)
	if err != nil {
		return &apperrors.PersistenceError{Op: "encode csv mapping", Err: err}
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO csv_mappings (institution, mapping) VALUES (?, ?)
		 ON CONFLICT(institution) DO UPDATE SET mapping = excluded.mapping`,
		mapping.Institution.String(), string(raw))
	if err != nil {
		return &apperrors.PersistenceError{Op: "save csv mapping", Err: err}
	}
	return nil
}
