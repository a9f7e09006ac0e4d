package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"reddit-ideas/internal/models"
	"reddit-ideas/internal/scoring"
)

var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// GeneratedIdea is a validated idea as returned by the model.
type GeneratedIdea struct {
	Name           string
	Pitch          string
	PainPoint      string
	TargetAudience string
	Scores         scoring.SubScores
	Topic          models.Topic
}

// rawIdea mirrors the expected payload with pointers so absent fields can be told apart from zero values.
type rawIdea struct {
	Name           *string    `json:"name"`
	Pitch          *string    `json:"pitch"`
	PainPoint      *string    `json:"painPoint"`
	TargetAudience *string    `json:"targetAudience"`
	Scores         *rawScores `json:"scores"`
	Topic          *string    `json:"topic"`
}

type rawScores struct {
	PainLevel        *int `json:"painLevel"`
	WillingnessToPay *int `json:"willingnessToPay"`
	Competition      *int `json:"competition"`
	TAM              *int `json:"tam"`
	Feasibility      *int `json:"feasibility"`
}

// ParseIdea validates a completion as an idea. A markdown code fence around
// the JSON is stripped. Missing or wrongly typed fields are rejected, as is a
// topic outside the known set.
func ParseIdea(content string) (*GeneratedIdea, error) {
	text := strings.TrimSpace(content)
	if text == "" {
		return nil, ErrEmptyCompletion
	}
	if m := fencedJSON.FindStringSubmatch(text); len(m) > 1 {
		text = m[1]
	}

	var raw rawIdea
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	var missing []string
	need := func(name string, present bool) {
		if !present {
			missing = append(missing, name)
		}
	}
	need("name", raw.Name != nil)
	need("pitch", raw.Pitch != nil)
	need("painPoint", raw.PainPoint != nil)
	need("targetAudience", raw.TargetAudience != nil)
	need("topic", raw.Topic != nil)
	need("scores", raw.Scores != nil)
	if raw.Scores != nil {
		need("scores.painLevel", raw.Scores.PainLevel != nil)
		need("scores.willingnessToPay", raw.Scores.WillingnessToPay != nil)
		need("scores.competition", raw.Scores.Competition != nil)
		need("scores.tam", raw.Scores.TAM != nil)
		need("scores.feasibility", raw.Scores.Feasibility != nil)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("LLM response missing fields: %s", strings.Join(missing, ", "))
	}

	name := strings.TrimSpace(*raw.Name)
	if name == "" {
		return nil, errors.New("LLM response has an empty name")
	}

	topic := models.Topic(strings.ToLower(strings.TrimSpace(*raw.Topic)))
	if !topic.Valid() {
		return nil, fmt.Errorf("LLM response has unknown topic %q", *raw.Topic)
	}

	return &GeneratedIdea{
		Name:           name,
		Pitch:          strings.TrimSpace(*raw.Pitch),
		PainPoint:      strings.TrimSpace(*raw.PainPoint),
		TargetAudience: strings.TrimSpace(*raw.TargetAudience),
		Topic:          topic,
		Scores: scoring.SubScores{
			PainLevel:        *raw.Scores.PainLevel,
			WillingnessToPay: *raw.Scores.WillingnessToPay,
			Competition:      *raw.Scores.Competition,
			TAM:              *raw.Scores.TAM,
			Feasibility:      *raw.Scores.Feasibility,
		},
	}, nil
}

// OverallScore is the composite score of the idea's sub-scores.
func (g *GeneratedIdea) OverallScore() int {
	return scoring.Overall(g.Scores)
}
