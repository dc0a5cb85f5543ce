package merge

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/jengzang/rci-backend-go/internal/apperrors"
)

// Limits caps the size of a merge request
type Limits struct {
	MaxFileSize  int64 // Per file, bytes
	MaxTotalSize int64 // All files together, bytes
}

// CheckUploads validates the declared type and size of every part before any
// of them is spooled
func CheckUploads(files []*multipart.FileHeader, limits Limits) error {
	if len(files) == 0 {
		return fmt.Errorf("no files provided: %w", apperrors.ErrEmptyInput)
	}

	var total int64
	for _, fh := range files {
		if err := CheckFileType(fh.Filename, fh.Header.Get("Content-Type")); err != nil {
			return err
		}
		if limits.MaxFileSize > 0 && fh.Size > limits.MaxFileSize {
			return fmt.Errorf("%s exceeds %d bytes: %w", fh.Filename, limits.MaxFileSize, apperrors.ErrFileTooLarge)
		}
		total += fh.Size
	}
	if limits.MaxTotalSize > 0 && total > limits.MaxTotalSize {
		return fmt.Errorf("upload of %d bytes exceeds %d bytes: %w", total, limits.MaxTotalSize, apperrors.ErrFileTooLarge)
	}
	return nil
}

// Spool copies every uploaded part into dir under a random name. On failure
// the files spooled so far are removed.
func Spool(dir string, files []*multipart.FileHeader) ([]Input, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create spool directory: %w", err)
	}

	inputs := make([]Input, 0, len(files))
	for _, fh := range files {
		in, err := spoolOne(dir, fh)
		if err != nil {
			DiscardAll(inputs)
			return nil, err
		}
		log.Printf("[Spool] %s: %d bytes (%s)", in.Name(), in.Size(), in.ContentType())
		inputs = append(inputs, in)
	}
	return inputs, nil
}

func spoolOne(dir string, fh *multipart.FileHeader) (*FileInput, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload %s: %w", fh.Filename, err)
	}
	defer src.Close()

	path := filepath.Join(dir, uuid.NewString()+".csv")
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to create spool file: %w", err)
	}

	n, err := io.Copy(dst, src)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to spool %s: %w", fh.Filename, err)
	}

	return NewFileInput(fh.Filename, path, fh.Header.Get("Content-Type"), n), nil
}
