package pdfparser

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// TextExtractor extracts text content from a PDF file on disk. It allows the
// external pdftotext binary to be replaced in tests.
type TextExtractor interface {
	ExtractText(ctx context.Context, pdfPath string) (string, error)
}

// PdftotextExtractor runs the poppler pdftotext command.
type PdftotextExtractor struct {
	Path string
}

// NewPdftotextExtractor creates an extractor for the given binary. An empty
// path means "pdftotext" from PATH.
func NewPdftotextExtractor(path string) *PdftotextExtractor {
	if path == "" {
		path = "pdftotext"
	}
	return &PdftotextExtractor{Path: path}
}

// ExtractText runs pdftotext with layout preservation and returns its stdout.
// The command is killed when ctx is done.
func (e *PdftotextExtractor) ExtractText(ctx context.Context, pdfPath string) (string, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.Path, "-layout", "-enc", "UTF-8", pdfPath, "-") // #nosec G204 -- binary path comes from configuration
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("pdftotext interrupted: %w", ctxErr)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("error running pdftotext: %w: %s", err, msg)
		}
		return "", fmt.Errorf("error running pdftotext: %w", err)
	}
	return string(out), nil
}

// MockTextExtractor returns predefined text or error.
type MockTextExtractor struct {
	MockText string
	MockErr  error
	Calls    int
}

// NewMockTextExtractor creates a MockTextExtractor with the given mock data.
func NewMockTextExtractor(mockText string, mockErr error) *MockTextExtractor {
	return &MockTextExtractor{MockText: mockText, MockErr: mockErr}
}

// ExtractText returns the predefined mock text or error.
func (e *MockTextExtractor) ExtractText(_ context.Context, _ string) (string, error) {
	e.Calls++
	if e.MockErr != nil {
		return "", e.MockErr
	}
	return e.MockText, nil
}
