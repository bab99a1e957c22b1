package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/selfgrowth/tracker/internal/model"
	"github.com/selfgrowth/tracker/internal/storage"
)

var ErrStorageDisabled = errors.New("export storage is not configured")

type ExportService struct {
	habits  *HabitService
	storage storage.Storage
}

// NewExportService builds the export service. store may be nil, in which case
// archives can only be downloaded directly.
func NewExportService(habits *HabitService, store storage.Storage) *ExportService {
	return &ExportService{habits: habits, storage: store}
}

func (s *ExportService) StorageEnabled() bool {
	return s.storage != nil
}

// Archive uploads the user's full habit history as JSON and returns a
// temporary download link.
func (s *ExportService) Archive(ctx context.Context, userID string) (*model.ExportFile, error) {
	if s.storage == nil {
		return nil, ErrStorageDisabled
	}

	export, err := s.habits.Export(userID)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}

	key := fmt.Sprintf("exports/%s/%s-%s.json", userID, export.ExportedAt.Format("20060102T150405"), uuid.New().String())
	err = s.storage.Save(ctx, key, "application/json", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to store export: %w", err)
	}

	url, expiresAt, err := s.storage.PresignedURL(ctx, key)
	if err != nil {
		// The archive is useless without a link; remove it rather than orphan it.
		delErr := s.storage.Delete(ctx, key)
		if delErr != nil {
			slog.Warn("failed to delete unreachable export", "key", key, "error", delErr)
		}
		return nil, fmt.Errorf("failed to sign export URL: %w", err)
	}

	slog.Info("habit export archived", "user_id", userID, "key", key, "size", len(data))

	return &model.ExportFile{
		Key:       key,
		Size:      int64(len(data)),
		URL:       url,
		ExpiresAt: expiresAt,
	}, nil
}
