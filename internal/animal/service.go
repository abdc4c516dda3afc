// Package animal manages veterinary animal records: extraction from chart
// images, storage, search and PDF rendering.
package animal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/soapbox/internal/common"
	"github.com/Veraticus/soapbox/internal/model"
	"github.com/Veraticus/soapbox/internal/service"
)

// ErrIncompleteRecord marks a record that lacks the owner or the animal name.
var ErrIncompleteRecord = errors.New("incomplete animal record")

// validateDraft requires both names and tidies the reminders.
func validateDraft(draft *model.AnimalRecordDraft) error {
	var missing []string
	if strings.TrimSpace(draft.OwnerInfo[model.FieldOwnerName]) == "" {
		missing = append(missing, "owner name")
	}
	if strings.TrimSpace(draft.AnimalInfo[model.FieldAnimalName]) == "" {
		missing = append(missing, "animal name")
	}
	if len(missing) > 0 {
		return common.NewUserError("A record needs an "+strings.Join(missing, " and an "), ErrIncompleteRecord)
	}
	draft.Reminders = model.CleanReminders(draft.Reminders)
	return nil
}

// Service coordinates the record store with the extractor and renderer.
// The extractor may be nil when no vision provider is configured.
type Service struct {
	store     service.RecordStore
	extractor service.Extractor
	renderer  service.Renderer
	now       func() time.Time
	newID     func() string
}

// NewService creates an animal record service.
func NewService(store service.RecordStore, extractor service.Extractor, renderer service.Renderer) *Service {
	return &Service{
		store:     store,
		extractor: extractor,
		renderer:  renderer,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// ExtractFromImage reads a chart image into a draft. The media type is sniffed
// from the content, falling back to the file extension of name.
func (s *Service) ExtractFromImage(ctx context.Context, name string, image []byte) (*model.AnimalRecordDraft, error) {
	if s.extractor == nil {
		return nil, common.NewUserError("No vision provider configured; set vision.provider and vision.api_key", common.ErrMissingConfig)
	}

	mediaType, err := MediaType(name, image)
	if err != nil {
		return nil, err
	}

	draft, err := s.extractor.Extract(ctx, image, mediaType)
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", name, err)
	}
	return draft, nil
}

// Save stores a draft as a new record with a fresh ID and the day's next serial number.
func (s *Service) Save(ctx context.Context, draft *model.AnimalRecordDraft) (*model.AnimalRecord, error) {
	if draft == nil {
		return nil, fmt.Errorf("%w: nil draft", ErrIncompleteRecord)
	}
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	record := &model.AnimalRecord{
		ID:                s.newID(),
		CreatedAt:         s.now(),
		AnimalRecordDraft: *draft,
	}
	if err := s.store.SaveAnimalRecord(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save animal record: %w", err)
	}
	slog.Info("Saved animal record", "id", record.ID, "serial", record.SerialNumber, "owner", record.OwnerName())
	return record, nil
}

// Update stores edited content for an existing record.
func (s *Service) Update(ctx context.Context, record *model.AnimalRecord) error {
	if err := validateDraft(&record.AnimalRecordDraft); err != nil {
		return err
	}
	if err := s.store.UpdateAnimalRecord(ctx, record); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.NewUserError(fmt.Sprintf("Animal record %s not found", record.ID), err)
		}
		return fmt.Errorf("failed to update animal record: %w", err)
	}
	slog.Info("Updated animal record", "id", record.ID, "serial", record.SerialNumber)
	return nil
}

// Delete removes the record with the given ID or serial number and returns it.
func (s *Service) Delete(ctx context.Context, id string) (*model.AnimalRecord, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.DeleteAnimalRecord(ctx, record.ID); err != nil {
		return nil, fmt.Errorf("failed to delete animal record: %w", err)
	}
	slog.Info("Deleted animal record", "id", record.ID, "serial", record.SerialNumber)
	return record, nil
}

// Get returns a record by ID or serial number, wrapping a miss in a user error.
func (s *Service) Get(ctx context.Context, id string) (*model.AnimalRecord, error) {
	record, err := s.store.GetAnimalRecord(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get animal record %s: %w", id, err)
	}
	if record == nil {
		return nil, common.NewUserError(fmt.Sprintf("Animal record %s not found", id), common.ErrNotFound)
	}
	return record, nil
}

// Search finds records by serial number, owner name, animal name, species or breed. An empty term lists all.
func (s *Service) Search(ctx context.Context, term string) ([]model.AnimalRecord, error) {
	records, err := s.store.SearchAnimalRecords(ctx, strings.TrimSpace(term))
	if err != nil {
		return nil, fmt.Errorf("failed to search animal records: %w", err)
	}
	return records, nil
}

// RenderPDF draws a record as a PDF document.
func (s *Service) RenderPDF(record *model.AnimalRecordDraft) ([]byte, error) {
	return s.renderer.RenderAnimalRecord(record)
}

// PDFFileName builds a file name from the owner and animal names.
func PDFFileName(record *model.AnimalRecord) string {
	parts := []string{"animal_record"}
	for _, p := range []string{record.OwnerName(), record.AnimalName()} {
		if p = slug(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 1 {
		parts = append(parts, record.ID)
	}
	return strings.Join(parts, "_") + ".pdf"
}

func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

var extensionTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// MediaType returns the image media type of data. Non-image content fails.
func MediaType(name string, data []byte) (string, error) {
	sniffed := http.DetectContentType(data)
	if strings.HasPrefix(sniffed, "image/") {
		return sniffed, nil
	}
	if t, ok := extensionTypes[strings.ToLower(filepath.Ext(name))]; ok && len(data) > 0 {
		return t, nil
	}
	return "", common.NewUserError(fmt.Sprintf("%s is not a supported image (png, jpg, gif, webp)", name), common.ErrExtractionFailed)
}
