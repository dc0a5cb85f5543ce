package merge

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/jengzang/rci-backend-go/internal/apperrors"
)

// Input is one uploaded file taking part in a merge
type Input interface {
	// Name is the client-supplied file name
	Name() string
	// Open returns a fresh reader positioned at the start of the file
	Open() (io.ReadCloser, error)
	// Discard releases the file. It is safe to call more than once.
	Discard() error
}

// tabularTypes are the declared content types accepted for CSV uploads
var tabularTypes = map[string]bool{
	"text/csv":                 true,
	"application/csv":          true,
	"application/vnd.ms-excel": true,
	"text/plain":               true,
	"application/octet-stream": true,
}

// CheckFileType rejects files that are not tabular text. The extension must be
// .csv; a declared content type, when present, must be a tabular one.
func CheckFileType(name, contentType string) error {
	if strings.ToLower(filepath.Ext(name)) != ".csv" {
		return fmt.Errorf("%s: only CSV files are allowed: %w", name, apperrors.ErrUnsupportedFileType)
	}
	if contentType == "" {
		return nil
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !tabularTypes[strings.ToLower(mediaType)] {
		return fmt.Errorf("%s: content type %q is not tabular text: %w", name, contentType, apperrors.ErrUnsupportedFileType)
	}
	return nil
}

// FileInput is an uploaded file spooled to local disk
type FileInput struct {
	name        string
	path        string
	contentType string
	size        int64
}

// NewFileInput wraps a spooled file
func NewFileInput(name, path, contentType string, size int64) *FileInput {
	return &FileInput{name: name, path: path, contentType: contentType, size: size}
}

// Name returns the client-supplied file name
func (f *FileInput) Name() string { return f.name }

// Path returns the spool location
func (f *FileInput) Path() string { return f.path }

// ContentType returns the declared content type
func (f *FileInput) ContentType() string { return f.contentType }

// Size returns the file size in bytes
func (f *FileInput) Size() int64 { return f.size }

// Open opens the spooled file
func (f *FileInput) Open() (io.ReadCloser, error) {
	return os.Open(f.path)
}

// Discard deletes the spooled file
func (f *FileInput) Discard() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
