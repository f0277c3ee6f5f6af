package database

import (
	"context"
	"fmt"
	"os"

	"github.com/ruslany/expense-tracker/internal/logging"
	"github.com/ruslany/expense-tracker/internal/models"

	"gopkg.in/yaml.v3"
)

type seedCategory struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// SeedCategoriesFromFile loads a YAML category seed file and syncs it
// into the database. A missing file is not an error; the application just
// starts with whatever categories already exist.
//
// Expected shape:
//
//	categories:
//	  - name: Groceries
//	    keywords: ["trader joe", "safeway", "whole foods"]
func (s *Store) SeedCategoriesFromFile(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path) // #nosec G304 -- path comes from operator configuration
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.WithField(logging.FieldFile, path).Warn("Category seed file not found, skipping")
			return nil
		}
		return fmt.Errorf("read category seed file %s: %w", path, err)
	}

	var doc struct {
		Categories []seedCategory `yaml:"categories"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse category seed file %s: %w", path, err)
	}

	seeds := make([]models.Category, 0, len(doc.Categories))
	for _, c := range doc.Categories {
		seeds = append(seeds, models.Category{Name: c.Name, Keywords: c.Keywords})
	}
	if err := s.SyncCategories(ctx, seeds); err != nil {
		return err
	}
	s.logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(seeds)},
	).Info("Seeded categories")
	return nil
}
