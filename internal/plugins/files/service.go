// Package files streams document downloads out of the Drive folder
// shared with the service account. Read-only; uploads happen in Drive
// itself.
package files

import (
	"context"
	"fmt"
	"io"

	"github.com/lectern-app/lectern/internal/apperror"
	"github.com/lectern-app/lectern/internal/gapi"
)

type driveClient interface {
	Stat(ctx context.Context, id string) (*gapi.FileMeta, error)
	Download(ctx context.Context, id string) (io.ReadCloser, error)
}

type Service struct {
	drive driveClient
}

func NewService(drive driveClient) *Service {
	return &Service{drive: drive}
}

// Open returns the file's metadata and content stream. The caller
// closes the stream.
func (s *Service) Open(ctx context.Context, id string) (*gapi.FileMeta, io.ReadCloser, error) {
	if id == "" {
		return nil, nil, apperror.NewBadRequest("file id is required")
	}
	meta, err := s.drive.Stat(ctx, id)
	if err != nil {
		if gapi.IsNotFound(err) {
			return nil, nil, apperror.NewNotFound("no file with that id")
		}
		return nil, nil, apperror.NewInternal(fmt.Errorf("reading file metadata: %w", err))
	}
	body, err := s.drive.Download(ctx, id)
	if err != nil {
		if gapi.IsNotFound(err) {
			return nil, nil, apperror.NewNotFound("no file with that id")
		}
		return nil, nil, apperror.NewInternal(fmt.Errorf("downloading file: %w", err))
	}
	return meta, body, nil
}
