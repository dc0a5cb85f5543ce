// Package merge concatenates uploaded CSV files into one stream that carries
// a single header line.
package merge

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"

	"github.com/jengzang/rci-backend-go/internal/apperrors"
)

const (
	readBufferSize  = 64 * 1024
	writeBufferSize = 32 * 1024
	// cancelCheckEvery is how many lines are copied between context checks
	cancelCheckEvery = 1024
)

// Stats summarises a completed merge
type Stats struct {
	Files  int    `json:"files"`
	Rows   int    `json:"rows"` // Data rows, header excluded
	Bytes  int64  `json:"bytes"`
	Header string `json:"header"` // Canonical header, terminator stripped
}

// Merger streams the inputs of one request into a single CSV. It owns the
// inputs: every one of them is discarded by the time Merge returns.
type Merger struct {
	inputs []Input
}

// New creates a merger over the inputs, in order
func New(inputs []Input) *Merger {
	return &Merger{inputs: inputs}
}

// Validate reads the first line of every input and checks them against each
// other without producing output. Inputs are left in place on success and
// discarded on failure.
func (m *Merger) Validate(ctx context.Context) error {
	if len(m.inputs) == 0 {
		return fmt.Errorf("no files provided: %w", apperrors.ErrEmptyInput)
	}

	session := NewSession()
	for _, in := range m.inputs {
		if err := ctx.Err(); err != nil {
			m.Close()
			return err
		}
		line, err := firstLine(in)
		if err != nil {
			m.Close()
			return err
		}
		if _, err := session.Accept(in.Name(), line); err != nil {
			m.Close()
			return err
		}
	}
	return nil
}

// firstLine returns the first line of an input including its terminator
func firstLine(in Input) (string, error) {
	rc, err := in.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", in.Name(), err)
	}
	defer rc.Close()

	line, err := bufio.NewReaderSize(rc, readBufferSize).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read %s: %w", in.Name(), err)
	}
	if line == "" {
		return "", fmt.Errorf("%s has no header line: %w", in.Name(), apperrors.ErrEmptyInput)
	}
	return line, nil
}

// Merge writes the header followed by the data rows of every input to w,
// preserving file order and line order. Each input is discarded as soon as it
// has been copied; the rest are discarded on any failure. The output is only
// well-formed when Merge returns nil.
func (m *Merger) Merge(ctx context.Context, w io.Writer) (Stats, error) {
	defer m.Close()

	var stats Stats
	if len(m.inputs) == 0 {
		return stats, fmt.Errorf("no files provided: %w", apperrors.ErrEmptyInput)
	}

	out := &countingWriter{w: w}
	bw := bufio.NewWriterSize(out, writeBufferSize)
	session := NewSession()

	for _, in := range m.inputs {
		rows, err := m.copyInput(ctx, in, session, bw)
		if discardErr := in.Discard(); discardErr != nil {
			log.Printf("[Merger] Failed to discard %s: %v", in.Name(), discardErr)
		}
		if err != nil {
			return stats, err
		}
		if err := bw.Flush(); err != nil {
			return stats, fmt.Errorf("failed to write merged output: %w", err)
		}
		stats.Files++
		stats.Rows += rows
	}

	stats.Bytes = out.n
	stats.Header, _ = session.Header()
	return stats, nil
}

// copyInput appends one input to the output. The header line is written only
// for the first input.
func (m *Merger) copyInput(ctx context.Context, in Input, session *Session, w *bufio.Writer) (int, error) {
	rc, err := in.Open()
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", in.Name(), err)
	}
	defer rc.Close()

	reader := bufio.NewReaderSize(rc, readBufferSize)

	header, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("failed to read %s: %w", in.Name(), err)
	}
	if header == "" {
		return 0, fmt.Errorf("%s has no header line: %w", in.Name(), apperrors.ErrEmptyInput)
	}
	first, err := session.Accept(in.Name(), header)
	if err != nil {
		return 0, err
	}
	if first {
		if err := writeLine(w, header); err != nil {
			return 0, err
		}
	}

	rows := 0
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			if writeErr := writeLine(w, line); writeErr != nil {
				return rows, writeErr
			}
			rows++
			if rows%cancelCheckEvery == 0 {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return rows, ctxErr
				}
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return rows, fmt.Errorf("failed to read %s: %w", in.Name(), err)
		}
	}

	return rows, ctx.Err()
}

// writeLine writes a line, terminating it with \n if the file did not
func writeLine(w *bufio.Writer, line string) error {
	if _, err := w.WriteString(line); err != nil {
		return fmt.Errorf("failed to write merged output: %w", err)
	}
	if line[len(line)-1] != '\n' {
		if err := w.WriteByte('\n'); err != nil {
			return fmt.Errorf("failed to write merged output: %w", err)
		}
	}
	return nil
}

// Close discards every input. It is safe to call more than once.
func (m *Merger) Close() error {
	DiscardAll(m.inputs)
	return nil
}

// DiscardAll releases every input, logging inputs that could not be removed
func DiscardAll(inputs []Input) {
	for _, in := range inputs {
		if err := in.Discard(); err != nil {
			log.Printf("[Merger] Failed to discard %s: %v", in.Name(), err)
		}
	}
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
