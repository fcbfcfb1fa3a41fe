package parser

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/audite/formgraph/internal/models"
)

// MarkdownParser parses hand-authored questionnaire files:
//
//	# Industrial energy self-assessment
//
//	## Question 1: Does your plant monitor energy consumption?
//
//	- type: single_choice
//	- required: true
//	- options: Yes | No
//
//	## Question 2: Which meters are installed?
//
//	- type: multi_choice
//	- parent: 1
//	- condition: equals "Yes"
//	- options: Electricity | Gas | Steam
//	- other: true
//
// The document title becomes the questionnaire title; each level-2
// "Question <id>:" heading opens one question section whose list items
// carry the question's fields. Question order follows document order
// unless an explicit "order:" item overrides it.
type MarkdownParser struct {
	markdown goldmark.Markdown
}

// NewMarkdownParser creates a new Markdown questionnaire parser
func NewMarkdownParser() *MarkdownParser {
	return &MarkdownParser{
		markdown: goldmark.New(),
	}
}

var questionHeadingRegex = regexp.MustCompile(`^Question\s+(\d+)\s*:\s*(.+)$`)
var fieldLineRegex = regexp.MustCompile(`^-\s*([a-z_]+)\s*:\s*(.*)$`)
var conditionRegex = regexp.MustCompile(`^(\S+)\s+"?([^"]*)"?$`)

// Parse reads Markdown content and returns the questionnaire.
func (p *MarkdownParser) Parse(r io.Reader) (*models.Questionnaire, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}

	doc := p.markdown.Parser().Parse(text.NewReader(content))

	quest := &models.Questionnaire{}
	headings, err := collectHeadings(doc, content)
	if err != nil {
		return nil, err
	}

	for i, h := range headings {
		if h.level == 1 && quest.Title == "" {
			quest.Title = h.text
			continue
		}
		if h.level != 2 {
			continue
		}

		matches := questionHeadingRegex.FindStringSubmatch(h.text)
		if matches == nil {
			continue
		}
		id, err := strconv.Atoi(matches[1])
		if err != nil {
			return nil, fmt.Errorf("invalid question id in heading %q", h.text)
		}

		end := len(content)
		if i+1 < len(headings) {
			end = headings[i+1].offset
		}
		section := string(content[h.sectionStart:end])

		q, err := parseQuestionSection(id, matches[2], section)
		if err != nil {
			return nil, err
		}
		if q.Order == 0 {
			q.Order = len(quest.Questions) + 1
		}
		quest.Questions = append(quest.Questions, *q)
	}

	if len(quest.Questions) == 0 {
		return nil, fmt.Errorf("no questions found: expected '## Question <id>: <text>' headings")
	}
	return quest, nil
}

func extractText(n ast.Node, source []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			b.Write(t.Segment.Value(source))
		}
	}
	return b.String()
}

type headingInfo struct {
	level        int
	text         string
	offset       int // byte offset of the heading's first line
	sectionStart int // byte offset just past the heading's last line
}

// collectHeadings walks the AST once and records every heading with its
// source position, so section bodies can be sliced between headings.
func collectHeadings(doc ast.Node, source []byte) ([]headingInfo, error) {
	var headings []headingInfo

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok || heading.Lines().Len() == 0 {
			return ast.WalkContinue, nil
		}

		first := heading.Lines().At(0)
		last := heading.Lines().At(heading.Lines().Len() - 1)

		// The segment starts after the ATX "## " marker; walk back to the
		// line start so the previous section's slice ends before the
		// marker rather than inside it.
		offset := first.Start
		for offset > 0 && source[offset-1] != '\n' {
			offset--
		}

		headings = append(headings, headingInfo{
			level:        heading.Level,
			text:         strings.TrimSpace(extractText(heading, source)),
			offset:       offset,
			sectionStart: last.Stop,
		})
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	return headings, nil
}

// parseQuestionSection reads one question's field list. Unrecognized field
// names are rejected so typos surface at load time instead of silently
// producing an always-visible question.
func parseQuestionSection(id int, title, section string) (*models.Question, error) {
	q := &models.Question{
		ID:   id,
		Text: strings.TrimSpace(title),
	}

	var prose []string
	for _, line := range strings.Split(section, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		matches := fieldLineRegex.FindStringSubmatch(trimmed)
		if matches == nil {
			prose = append(prose, trimmed)
			continue
		}

		key, value := matches[1], strings.TrimSpace(matches[2])
		if err := applyField(q, key, value); err != nil {
			return nil, fmt.Errorf("question %d: %w", id, err)
		}
	}

	if q.Subtitle == "" && len(prose) > 0 {
		q.Subtitle = strings.Join(prose, " ")
	}
	return q, nil
}

func applyField(q *models.Question, key, value string) error {
	switch key {
	case "type":
		q.Type = models.QuestionType(strings.ToLower(value))
		if !q.Type.Valid() {
			return fmt.Errorf("unknown type %q", value)
		}
	case "required":
		required, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid required value %q", value)
		}
		q.Required = required
	case "order":
		order, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid order %q", value)
		}
		q.Order = order
	case "options":
		for _, opt := range strings.Split(value, "|") {
			if opt = strings.TrimSpace(opt); opt != "" {
				q.Options = append(q.Options, opt)
			}
		}
	case "other":
		hasOther, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid other value %q", value)
		}
		q.HasOtherOption = hasOther
	case "parent":
		parent, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid parent id %q", value)
		}
		q.ParentID = parent
	case "condition":
		matches := conditionRegex.FindStringSubmatch(value)
		if matches == nil {
			return fmt.Errorf("invalid condition %q: expected '<operator> \"<value>\"'", value)
		}
		op, err := normalizeOperator(matches[1])
		if err != nil {
			// Keep the raw operator; the graph validator warns about it.
			op = models.Operator(matches[1])
		}
		q.Operator = op
		q.ConditionValue = strings.TrimSpace(matches[2])
	case "subtitle":
		q.Subtitle = value
	default:
		return fmt.Errorf("unknown field %q", key)
	}
	return nil
}
