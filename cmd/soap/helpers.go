package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/soapbox/internal/animal"
	"github.com/Veraticus/soapbox/internal/categorize"
	"github.com/Veraticus/soapbox/internal/common"
	"github.com/Veraticus/soapbox/internal/config"
	"github.com/Veraticus/soapbox/internal/notes"
	"github.com/Veraticus/soapbox/internal/render"
	"github.com/Veraticus/soapbox/internal/storage"
	"github.com/Veraticus/soapbox/internal/vision"
)

// initStorage opens the configured database and runs migrations.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := config.DatabasePath()

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// loadKeywords returns the default keyword table extended by keywords.file, if set.
func loadKeywords() (categorize.Keywords, error) {
	keywords := categorize.DefaultKeywords()

	path := config.KeywordsPath()
	if path == "" {
		return keywords, nil
	}

	extra, err := categorize.LoadKeywords(path)
	if err != nil {
		return keywords, err
	}
	slog.Debug("Loaded keyword extensions", "file", path)
	return keywords.Merge(extra), nil
}

// initManager wires a note manager over the store with the configured keywords.
func initManager(store *storage.SQLiteStorage) (*notes.Manager, error) {
	keywords, err := loadKeywords()
	if err != nil {
		return nil, err
	}
	return notes.NewManager(store, store, categorize.NewCategorizer(keywords)), nil
}

// initAnimalService wires the record service. Extraction stays disabled when no
// vision provider is configured; the returned cleanup stops the extractor.
func initAnimalService(store *storage.SQLiteStorage, needVision bool) (*animal.Service, func(), error) {
	renderer := render.NewPDFRenderer(config.LoadClinic())
	if !needVision {
		return animal.NewService(store, nil, renderer), func() {}, nil
	}

	visionCfg, err := config.LoadVisionConfig()
	if err != nil {
		return nil, nil, common.NewUserError("Vision provider is not configured: "+err.Error(), err)
	}
	extractor, err := vision.NewExtractor(visionCfg)
	if err != nil {
		return nil, nil, err
	}
	slog.Debug("Vision extractor ready", "provider", visionCfg.Provider, "model", visionCfg.Model)
	return animal.NewService(store, extractor, renderer), extractor.Close, nil
}
