package gapi

import (
	"context"
	"io"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
)

// FileMeta describes a Drive file without its content.
type FileMeta struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

// Drive wraps read-only Drive access for document downloads.
type Drive struct {
	svc *drive.Service
}

func NewDrive(svc *drive.Service) *Drive {
	return &Drive{svc: svc}
}

// Stat returns the file's metadata.
func (d *Drive) Stat(ctx context.Context, id string) (*FileMeta, error) {
	f, err := d.svc.Files.Get(id).Context(ctx).Fields("id", "name", "mimeType", "size").Do()
	if err != nil {
		return nil, err
	}
	return &FileMeta{ID: f.Id, Name: f.Name, MimeType: f.MimeType, Size: f.Size}, nil
}

// Download returns the file's content stream. The caller closes it.
func (d *Drive) Download(ctx context.Context, id string) (io.ReadCloser, error) {
	resp, err := d.svc.Files.Get(id).Context(ctx).Download()
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// IsNotFound reports whether a Google API error is a 404.
func IsNotFound(err error) bool {
	if apiErr, ok := err.(*googleapi.Error); ok {
		return apiErr.Code == 404
	}
	return false
}
