package merge

import (
	"fmt"
	"strings"

	"github.com/jengzang/rci-backend-go/internal/apperrors"
)

const utf8BOM = "\ufeff"

// Session enforces a single header across the files of one merge request.
// The first header accepted becomes canonical.
type Session struct {
	header string
	set    bool
}

// NewSession creates an empty session
func NewSession() *Session {
	return &Session{}
}

// normalizeHeader drops the line terminator and a leading byte order mark
func normalizeHeader(line string) string {
	line = strings.TrimPrefix(line, utf8BOM)
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}

// Accept checks the header line of the named file. It reports whether the
// line became the canonical header.
func (s *Session) Accept(name, line string) (first bool, err error) {
	header := normalizeHeader(line)
	if !s.set {
		s.header = header
		s.set = true
		return true, nil
	}
	if header != s.header {
		return false, fmt.Errorf("%s: header %q does not match %q: %w", name, header, s.header, apperrors.ErrHeaderMismatch)
	}
	return false, nil
}

// Header returns the canonical header without its line terminator
func (s *Session) Header() (string, bool) {
	return s.header, s.set
}
