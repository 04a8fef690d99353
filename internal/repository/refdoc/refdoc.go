// Package refdoc loads the reference documents used as evidence sources.
package refdoc

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// Text is the line-split content of one reference document.
// The zero value is an empty document.
type Text struct {
	name  string
	lines []string
}

// NewText splits content into lines.
func NewText(name, content string) Text {
	if content == "" {
		return Text{name: name}
	}
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return Text{name: name, lines: strings.Split(content, "\n")}
}

// Name returns the document name (base file name for loaded documents).
func (t Text) Name() string { return t.name }

// Lines returns the raw lines in document order. Callers must not modify the slice.
func (t Text) Lines() []string { return t.lines }

// IsEmpty reports whether the document has no content.
func (t Text) IsEmpty() bool { return len(t.lines) == 0 }

// Load reads a reference document. Files ending in .pdf are text-extracted,
// anything else is read as plain text. Any failure yields an empty Text and
// a warning; Load never fails.
func Load(path string, logger *zap.Logger) Text {
	name := filepath.Base(path)
	if path == "" {
		logger.Warn("Reference document not configured")
		return Text{}
	}

	var (
		content string
		err     error
	)
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		content, err = readPDF(path)
	} else {
		content, err = readPlain(path)
	}
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("Reference document missing", zap.String("path", path))
		} else {
			logger.Warn("Failed to read reference document", zap.String("path", path), zap.Error(err))
		}
		return Text{name: name}
	}

	t := NewText(name, content)
	logger.Info("Reference document loaded",
		zap.String("path", path),
		zap.Int("lines", len(t.lines)),
	)
	return t
}

func readPlain(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// readPDF extracts page text, skipping pages without text. The pdf package
// panics on some malformed inputs, so panics are turned into errors.
func readPDF(path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("parse pdf %s: %v", path, r)
		}
	}()

	if _, statErr := os.Stat(path); statErr != nil {
		return "", fmt.Errorf("stat %s: %w", path, statErr)
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		pt, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract page %d of %s: %w", i, path, err)
		}
		if pt != "" {
			pages = append(pages, pt)
		}
	}
	return strings.Join(pages, "\n"), nil
}

// Index holds the guidelines and policy documents. It is built once at
// startup and only read afterwards.
type Index struct {
	guidelines Text
	policy     Text
}

// NewIndex loads both documents.
func NewIndex(guidelinesPath, policyPath string, logger *zap.Logger) *Index {
	return &Index{
		guidelines: Load(guidelinesPath, logger.With(zap.String("document", "guidelines"))),
		policy:     Load(policyPath, logger.With(zap.String("document", "policy"))),
	}
}

// NewIndexFromText builds an index from already loaded texts.
func NewIndexFromText(guidelines, policy Text) *Index {
	return &Index{guidelines: guidelines, policy: policy}
}

// Guidelines returns the clinical guidelines text.
func (i *Index) Guidelines() Text { return i.guidelines }

// Policy returns the insurance policy text.
func (i *Index) Policy() Text { return i.policy }
