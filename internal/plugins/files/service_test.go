package files

import (
	"context"
	"io"
	"strings"
	"testing"

	"google.golang.org/api/googleapi"

	"github.com/lectern-app/lectern/internal/apperror"
	"github.com/lectern-app/lectern/internal/gapi"
)

type fakeDrive struct {
	meta    *gapi.FileMeta
	content string
	err     error
}

func (f *fakeDrive) Stat(_ context.Context, id string) (*gapi.FileMeta, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.meta, nil
}

func (f *fakeDrive) Download(_ context.Context, id string) (io.ReadCloser, error) {
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(strings.NewReader(f.content)), nil
}

func TestOpen(t *testing.T) {
	svc := NewService(&fakeDrive{
		meta:    &gapi.FileMeta{ID: "f1", Name: "contract.pdf", MimeType: "application/pdf", Size: 4},
		content: "%PDF",
	})

	meta, body, err := svc.Open(context.Background(), "f1")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer body.Close()
	if meta.Name != "contract.pdf" {
		t.Errorf("meta = %+v", meta)
	}
	data, _ := io.ReadAll(body)
	if string(data) != "%PDF" {
		t.Errorf("content = %q", data)
	}
}

func TestOpenUnknownFile(t *testing.T) {
	svc := NewService(&fakeDrive{err: &googleapi.Error{Code: 404}})

	_, _, err := svc.Open(context.Background(), "missing")
	if apperror.SafeCode(err) != 404 {
		t.Errorf("got %v, want 404", err)
	}
}

func TestOpenEmptyID(t *testing.T) {
	svc := NewService(&fakeDrive{})

	_, _, err := svc.Open(context.Background(), "")
	if apperror.SafeCode(err) != 400 {
		t.Errorf("got %v, want 400", err)
	}
}
