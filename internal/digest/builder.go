// Package digest renders the idea digest and welcome emails.
package digest

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"reddit-ideas/internal/models"
	"reddit-ideas/internal/notifier"
)

// Kind selects the header and subject of a digest.
type Kind string

const (
	KindNewsletter   Kind = "newsletter"
	KindPersonalized Kind = "personalized"
)

var kindCopy = map[Kind]struct {
	heading, subheading, subjectFormat string
}{
	KindNewsletter: {
		heading:       "Fresh Product Ideas",
		subheading:    "Curated from trending Reddit discussions",
		subjectFormat: "Fresh Ideas: %d new product opportunities",
	},
	KindPersonalized: {
		heading:       "Fresh Ideas for You",
		subheading:    "Personalized product ideas based on your interests",
		subjectFormat: "Fresh Ideas: %d personalized product opportunities",
	},
}

// Builder creates digest emails from ideas
type Builder struct {
	siteURL string
	digest  *template.Template
	welcome *template.Template
}

// New creates a new digest builder. siteURL is the public base for feed and unsubscribe links.
func New(siteURL string) (*Builder, error) {
	digestTmpl, err := template.New("digest").Parse(digestTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse digest template: %w", err)
	}
	welcomeTmpl, err := template.New("welcome").Parse(welcomeTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse welcome template: %w", err)
	}

	return &Builder{
		siteURL: strings.TrimRight(siteURL, "/"),
		digest:  digestTmpl,
		welcome: welcomeTmpl,
	}, nil
}

// DigestData is the template data structure
type DigestData struct {
	Heading        string
	Subheading     string
	Ideas          []IdeaData
	FeedURL        string
	UnsubscribeURL string
}

// IdeaData represents an idea in the digest template
type IdeaData struct {
	Name      string
	Pitch     string
	PainPoint string
	Score     int
	Topic     string
	Sources   []SourceData
}

// SourceData is a link back to the originating thread
type SourceData struct {
	Label string
	URL   string
}

// WelcomeData is the welcome template data structure
type WelcomeData struct {
	Returning      bool
	Email          string
	Topics         string
	Frequency      string
	FeedURL        string
	UnsubscribeURL string
}

// FeedURL is the public idea feed page
func (b *Builder) FeedURL() string {
	return b.siteURL + "/recommendations-feed"
}

// UnsubscribeURL is the one-click unsubscribe link for token
func (b *Builder) UnsubscribeURL(token string) string {
	return b.siteURL + "/unsubscribe?token=" + url.QueryEscape(token)
}

// Digest renders ideas, already filtered and ordered, for one subscriber.
func (b *Builder) Digest(ideas []models.Idea, sub *models.EmailSubscription, kind Kind) (notifier.Message, error) {
	if len(ideas) == 0 {
		return notifier.Message{}, fmt.Errorf("no ideas to include in digest")
	}
	copyText, ok := kindCopy[kind]
	if !ok {
		return notifier.Message{}, fmt.Errorf("unknown digest kind: %s", kind)
	}

	data := DigestData{
		Heading:        copyText.heading,
		Subheading:     copyText.subheading,
		Ideas:          make([]IdeaData, len(ideas)),
		FeedURL:        b.FeedURL(),
		UnsubscribeURL: b.UnsubscribeURL(sub.UnsubscribeToken),
	}
	for i, idea := range ideas {
		sources := make([]SourceData, len(idea.Sources))
		for j, s := range idea.Sources {
			sources[j] = SourceData{Label: "r/" + s.Subreddit, URL: s.PostURL}
		}
		data.Ideas[i] = IdeaData{
			Name:      idea.Name,
			Pitch:     idea.Pitch,
			PainPoint: idea.PainPoint,
			Score:     idea.OverallScore,
			Topic:     string(idea.Topic),
			Sources:   sources,
		}
	}

	var htmlBuf bytes.Buffer
	if err := b.digest.Execute(&htmlBuf, data); err != nil {
		return notifier.Message{}, fmt.Errorf("failed to render template: %w", err)
	}

	return notifier.Message{
		Subject: fmt.Sprintf(copyText.subjectFormat, len(ideas)),
		HTML:    htmlBuf.String(),
		Text:    PlainText(htmlBuf.String()),
	}, nil
}

// Welcome renders the confirmation sent on subscribe, or on reactivation when returning is set.
func (b *Builder) Welcome(sub *models.EmailSubscription, returning bool) (notifier.Message, error) {
	topics := "All topics"
	if len(sub.Topics) > 0 {
		names := make([]string, len(sub.Topics))
		for i, t := range sub.Topics {
			names[i] = string(t)
		}
		topics = strings.Join(names, ", ")
	}
	frequency := "Weekly"
	if sub.Frequency == models.FrequencyDaily {
		frequency = "Daily"
	}

	data := WelcomeData{
		Returning:      returning,
		Email:          sub.Email,
		Topics:         topics,
		Frequency:      frequency,
		FeedURL:        b.FeedURL(),
		UnsubscribeURL: b.UnsubscribeURL(sub.UnsubscribeToken),
	}

	var htmlBuf bytes.Buffer
	if err := b.welcome.Execute(&htmlBuf, data); err != nil {
		return notifier.Message{}, fmt.Errorf("failed to render template: %w", err)
	}

	subject := "Welcome to Reddit Ideas! 🚀"
	if returning {
		subject = "Welcome back to Reddit Ideas! 🎉"
	}

	return notifier.Message{
		Subject: subject,
		HTML:    htmlBuf.String(),
		Text:    PlainText(htmlBuf.String()),
	}, nil
}
