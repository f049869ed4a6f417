package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"swimcraft/app/internal/export"
	"swimcraft/app/internal/storage"
)

// ExportService renders workout summaries and hands them out as short-lived
// download URLs from the object store.
type ExportService interface {
	// ExportWorkout renders the workout in the given format, uploads it and
	// returns a presigned download URL.
	ExportWorkout(ctx context.Context, id uuid.UUID, format export.Format) (string, error)

	// CleanupExports removes previously uploaded exports for the given
	// workouts. Best-effort: a missing object is not an error worth
	// stopping a delete for.
	CleanupExports(ctx context.Context, ids []uuid.UUID)
}

type exportService struct {
	workouts WorkoutService
	renderer *export.Renderer
	files    storage.FileStorage
	logger   *zap.Logger
}

// NewExportService creates a new export service.
func NewExportService(workouts WorkoutService, renderer *export.Renderer, files storage.FileStorage, logger *zap.Logger) ExportService {
	return &exportService{
		workouts: workouts,
		renderer: renderer,
		files:    files,
		logger:   logger,
	}
}

func exportKey(id uuid.UUID, format export.Format) string {
	return fmt.Sprintf("exports/%s.%s", id.String(), format.Extension())
}

func (s *exportService) ExportWorkout(ctx context.Context, id uuid.UUID, format export.Format) (string, error) {
	entry, err := s.workouts.GetWorkout(ctx, id)
	if err != nil {
		return "", err
	}

	rendered, err := s.renderer.Render(*entry, format)
	if err != nil {
		return "", err
	}

	key := exportKey(id, format)
	if err := s.files.UploadObject(ctx, key, format.ContentType(), rendered); err != nil {
		return "", fmt.Errorf("upload export: %w", err)
	}

	url, err := s.files.GeneratePresignedDownloadURL(ctx, key, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", fmt.Errorf("presign export download: %w", err)
	}
	return url, nil
}

func (s *exportService) CleanupExports(ctx context.Context, ids []uuid.UUID) {
	for _, id := range ids {
		for _, format := range []export.Format{export.FormatPDF, export.FormatText} {
			key := exportKey(id, format)
			if err := s.files.DeleteObject(ctx, key); err != nil {
				s.logger.Debug("export cleanup skipped object",
					zap.String("key", key),
					zap.Error(err))
			}
		}
	}
}
