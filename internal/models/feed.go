package models

import "reddit-ideas/internal/scoring"

// SourceLink is a labelled link to a source thread.
type SourceLink struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// FeedIdea is the client-facing shape of an idea.
type FeedIdea struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Pitch          string             `json:"pitch"`
	PainPoint      string             `json:"painPoint"`
	Sources        []SourceLink       `json:"sources"`
	Score          int                `json:"score"`
	Topic          Topic              `json:"topic"`
	IsNew          bool               `json:"isNew"`
	TargetAudience string             `json:"targetAudience"`
	DetailedScores *scoring.SubScores `json:"detailedScores,omitempty"`
}

// Feed converts a stored idea, with its score and sources loaded.
func (i *Idea) Feed() FeedIdea {
	sources := make([]SourceLink, 0, len(i.Sources))
	for _, s := range i.Sources {
		sources = append(sources, SourceLink{Label: "r/" + s.Subreddit, URL: s.PostURL})
	}

	item := FeedIdea{
		ID:             i.ID.String(),
		Name:           i.Name,
		Pitch:          i.Pitch,
		PainPoint:      i.PainPoint,
		Sources:        sources,
		Score:          i.OverallScore,
		Topic:          i.Topic,
		IsNew:          i.IsNew,
		TargetAudience: i.TargetAudience,
	}
	if i.Score != nil {
		item.DetailedScores = &scoring.SubScores{
			PainLevel:        i.Score.PainLevel,
			WillingnessToPay: i.Score.WillingnessToPay,
			Competition:      i.Score.Competition,
			TAM:              i.Score.TAM,
			Feasibility:      i.Score.Feasibility,
		}
	}
	return item
}
