package parser

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/audite/formgraph/internal/models"
)

// YAMLParser parses the canonical YAML questionnaire format:
//
//	title: Industrial energy self-assessment
//	questions:
//	  - id: 1
//	    order: 1
//	    text: Does your plant monitor energy consumption?
//	    type: single_choice
//	    required: true
//	    options: ["Yes", "No"]
//	  - id: 2
//	    order: 2
//	    text: Which meters are installed?
//	    type: multi_choice
//	    parent_id: 1
//	    operator: equals
//	    condition_value: "Yes"
//	    options: [Electricity, Gas, Steam]
type YAMLParser struct{}

// NewYAMLParser creates a new YAML questionnaire parser
func NewYAMLParser() *YAMLParser {
	return &YAMLParser{}
}

// yamlQuestion mirrors models.Question with a raw operator field so the
// short operator forms ("=", "!=") used by older exports keep working.
type yamlQuestion struct {
	ID             int                 `yaml:"id"`
	Order          int                 `yaml:"order"`
	Text           string              `yaml:"text"`
	Subtitle       string              `yaml:"subtitle"`
	Type           models.QuestionType `yaml:"type"`
	Required       bool                `yaml:"required"`
	Options        []string            `yaml:"options"`
	HasOtherOption bool                `yaml:"has_other_option"`
	ParentID       int                 `yaml:"parent_id"`
	Operator       string              `yaml:"operator"`
	ConditionValue string              `yaml:"condition_value"`
}

type yamlQuestionnaire struct {
	ID        string         `yaml:"id"`
	Title     string         `yaml:"title"`
	Questions []yamlQuestion `yaml:"questions"`
}

// Parse reads YAML content and returns the questionnaire.
func (p *YAMLParser) Parse(r io.Reader) (*models.Questionnaire, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}

	var raw yamlQuestionnaire
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	quest := &models.Questionnaire{
		ID:        raw.ID,
		Title:     raw.Title,
		Questions: make([]models.Question, 0, len(raw.Questions)),
	}

	for i, rq := range raw.Questions {
		op, err := normalizeOperator(rq.Operator)
		if err != nil && rq.ParentID == 0 {
			return nil, fmt.Errorf("question %d: %w", rq.ID, err)
		}
		// Unknown operators on conditional questions are kept verbatim so
		// the graph validator can warn about them instead of refusing the
		// whole file.

		q := models.Question{
			ID:             rq.ID,
			Order:          rq.Order,
			Text:           rq.Text,
			Subtitle:       rq.Subtitle,
			Type:           rq.Type,
			Required:       rq.Required,
			Options:        rq.Options,
			HasOtherOption: rq.HasOtherOption,
			ParentID:       rq.ParentID,
			Operator:       op,
			ConditionValue: rq.ConditionValue,
		}
		if q.Order == 0 {
			q.Order = i + 1
		}
		quest.Questions = append(quest.Questions, q)
	}

	return quest, nil
}
