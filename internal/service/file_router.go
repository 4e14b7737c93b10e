package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/target/bayflow/internal/core"
	"github.com/target/bayflow/internal/domain/model"
	"github.com/target/bayflow/internal/domain/routing"
	apperrors "github.com/target/bayflow/internal/errors"
)

// FileRouterService performs the object copies of a routing plan.
type FileRouterService struct {
	objects core.ObjectStore
	logger  *slog.Logger
}

// NewFileRouterService constructs a FileRouterService.
func NewFileRouterService(objects core.ObjectStore, logger *slog.Logger) (*FileRouterService, error) {
	if objects == nil {
		return nil, errors.New("ObjectStore is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FileRouterService{objects: objects, logger: logger.With("component", "file_router")}, nil
}

// Route copies the source to the target and then, when enabled, to the archive key in the
// landing bucket. The source is never deleted. The archive copy is skipped when the target copy
// fails, and a failed archive does not undo the target copy.
func (s *FileRouterService) Route(ctx context.Context, plan routing.Plan) error {
	if err := s.objects.CopyObject(ctx, model.CopyObjectRequest{Source: plan.Source, Destination: plan.Target}); err != nil {
		return apperrors.Routing(err, "copy to "+plan.Target.String())
	}
	s.logger.DebugContext(ctx, "copied to target", "source", plan.Source.String(), "target", plan.Target.String())

	if !plan.ArchiveEnabled {
		return nil
	}
	if err := s.objects.CopyObject(ctx, model.CopyObjectRequest{Source: plan.Source, Destination: plan.Archive}); err != nil {
		return apperrors.Routing(err, "copy to "+plan.Archive.String())
	}
	s.logger.DebugContext(ctx, "archived", "source", plan.Source.String(), "archive", plan.Archive.String())
	return nil
}
