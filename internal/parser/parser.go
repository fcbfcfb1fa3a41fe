// Package parser loads questionnaire definition files. Two formats are
// supported: YAML (the canonical interchange format) and Markdown (the
// format questionnaire authors write by hand).
package parser

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/audite/formgraph/internal/models"
)

// Format represents the format of a questionnaire file
type Format int

const (
	// FormatUnknown represents an unknown or unsupported file format
	FormatUnknown Format = iota
	// FormatMarkdown represents a Markdown (.md, .markdown) questionnaire file
	FormatMarkdown
	// FormatYAML represents a YAML (.yaml, .yml) questionnaire file
	FormatYAML
)

// String returns the string representation of the Format
func (f Format) String() string {
	switch f {
	case FormatMarkdown:
		return "markdown"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// Parser is the interface that all questionnaire parsers implement
type Parser interface {
	// Parse reads from an io.Reader and returns a parsed Questionnaire
	Parse(r io.Reader) (*models.Questionnaire, error)
}

// DetectFormat detects the questionnaire format from the file extension.
func DetectFormat(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".md", ".markdown":
		return FormatMarkdown
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatUnknown
	}
}

// NewParser creates a parser for the specified format.
func NewParser(format Format) (Parser, error) {
	switch format {
	case FormatMarkdown:
		return NewMarkdownParser(), nil
	case FormatYAML:
		return NewYAMLParser(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %v", format)
	}
}

// ParseFile auto-detects the format from the extension, opens the file and
// parses it. Per-question structural validation runs here; cross-question
// graph validation is the caller's concern.
func ParseFile(path string) (*models.Questionnaire, error) {
	format := DetectFormat(path)
	if format == FormatUnknown {
		return nil, fmt.Errorf("unknown file format: %s (supported: .md, .markdown, .yaml, .yml)", path)
	}

	p, err := NewParser(format)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	quest, err := p.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse questionnaire: %w", err)
	}

	if err := quest.Validate(); err != nil {
		return nil, err
	}
	return quest, nil
}

// normalizeOperator accepts both the canonical operator names and the
// short forms used by older questionnaire exports.
func normalizeOperator(raw string) (models.Operator, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return "", nil
	case "=", "eq", "equals":
		return models.OpEquals, nil
	case "!=", "ne", "not_equals", "notequals":
		return models.OpNotEquals, nil
	case "includes":
		return models.OpIncludes, nil
	case "not_includes", "notincludes":
		return models.OpNotIncludes, nil
	default:
		return models.Operator(raw), fmt.Errorf("unknown operator %q", raw)
	}
}
