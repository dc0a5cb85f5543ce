package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/rci-backend-go/internal/apperrors"
	"github.com/jengzang/rci-backend-go/internal/merge"
)

func multipartFiles(t *testing.T, files map[string]string, order ...string) []*multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, name := range order {
		w, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = w.Write([]byte(files[name]))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/merge", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	t.Cleanup(func() { req.MultipartForm.RemoveAll() })
	return req.MultipartForm.File["files"]
}

func spoolEntries(t *testing.T, dir string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	return entries
}

func TestMergeService_PrepareAndStream(t *testing.T) {
	dir := t.TempDir()
	svc := NewMergeService(dir, merge.Limits{MaxFileSize: 1024, MaxTotalSize: 4096})

	files := multipartFiles(t, map[string]string{
		"a.csv": "h\na1\na2\n",
		"b.csv": "h\nb1\nb2",
	}, "a.csv", "b.csv")

	merger, err := svc.Prepare(context.Background(), files)
	require.NoError(t, err)

	var out bytes.Buffer
	stats, err := svc.Stream(context.Background(), merger, &out)
	require.NoError(t, err)
	assert.Equal(t, "h\na1\na2\nb1\nb2\n", out.String())
	assert.Equal(t, 2, stats.Files)
	assert.Empty(t, spoolEntries(t, dir))
}

func TestMergeService_PrepareRejections(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		order   []string
		limits  merge.Limits
		wantErr error
	}{
		{
			name:    "header mismatch",
			files:   map[string]string{"a.csv": "h1\nx\n", "b.csv": "h2\ny\n"},
			order:   []string{"a.csv", "b.csv"},
			limits:  merge.Limits{MaxFileSize: 1024, MaxTotalSize: 4096},
			wantErr: apperrors.ErrHeaderMismatch,
		},
		{
			name:    "not a csv",
			files:   map[string]string{"a.txt": "h\nx\n"},
			order:   []string{"a.txt"},
			limits:  merge.Limits{MaxFileSize: 1024, MaxTotalSize: 4096},
			wantErr: apperrors.ErrUnsupportedFileType,
		},
		{
			name:    "file too large",
			files:   map[string]string{"a.csv": "header\nrow\n"},
			order:   []string{"a.csv"},
			limits:  merge.Limits{MaxFileSize: 4, MaxTotalSize: 4096},
			wantErr: apperrors.ErrFileTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			svc := NewMergeService(dir, tt.limits)

			merger, err := svc.Prepare(context.Background(), multipartFiles(t, tt.files, tt.order...))
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, merger)
			assert.Empty(t, spoolEntries(t, dir))
		})
	}
}

func TestMergeService_NoFiles(t *testing.T) {
	svc := NewMergeService(t.TempDir(), merge.Limits{MaxFileSize: 1024, MaxTotalSize: 4096})

	_, err := svc.Prepare(context.Background(), nil)
	assert.ErrorIs(t, err, apperrors.ErrEmptyInput)
}

func TestMergeService_StreamCancelled(t *testing.T) {
	dir := t.TempDir()
	svc := NewMergeService(dir, merge.Limits{MaxFileSize: 1024, MaxTotalSize: 4096})

	merger, err := svc.Prepare(context.Background(), multipartFiles(t, map[string]string{"a.csv": "h\n1\n"}, "a.csv"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Stream(ctx, merger, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, spoolEntries(t, dir))
}
