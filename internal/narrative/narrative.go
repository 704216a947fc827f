// Package narrative produces free-text review summaries and
// recommendations through a Groq-hosted LLM. Narrative text is purely
// additive to search results: every failure path returns fixed fallback
// text and never an error, so a broken or unconfigured API can never
// block a search.
package narrative

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kthandra777/hotelfinder-pro/internal/hotel"
	"github.com/kthandra777/hotelfinder-pro/internal/obs"
)

const (
	// GroqBaseURL is the OpenAI-compatible Groq endpoint.
	GroqBaseURL = "https://api.groq.com/openai/v1"
	// DefaultModel is the chat model used for all narrative text.
	DefaultModel = "llama3-70b-8192"

	recommendFallback = "Unable to generate personalized recommendations at this time."
)

// Preferences steer the personalized recommendation prompt.
type Preferences struct {
	Budget     string
	Priorities []string
}

// Options configure the generator.
type Options struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Generator is a Narrative Generator backed by Groq's chat API.
type Generator struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	metrics *obs.Metrics
	logger  *slog.Logger
}

// New creates a Generator. An empty API key yields a generator that
// always answers with fallback text, which keeps call sites simple.
func New(opts Options, metrics *obs.Metrics, logger *slog.Logger) *Generator {
	g := &Generator{
		model:   opts.Model,
		timeout: opts.Timeout,
		metrics: metrics,
		logger:  logger,
	}
	if g.model == "" {
		g.model = DefaultModel
	}
	if g.timeout <= 0 {
		g.timeout = 15 * time.Second
	}
	if opts.APIKey != "" {
		cfg := openai.DefaultConfig(opts.APIKey)
		cfg.BaseURL = opts.BaseURL
		if cfg.BaseURL == "" {
			cfg.BaseURL = GroqBaseURL
		}
		g.client = openai.NewClientWithConfig(cfg)
	}
	return g
}

// SummarizeReviews generates a short plausible-reviews summary for one
// hotel.
func (g *Generator) SummarizeReviews(ctx context.Context, rec hotel.Record) string {
	name := rec.Name
	if name == "" {
		name = "this hotel"
	}
	fallback := fmt.Sprintf("Review data not available for %s. Please check back later.", name)

	rating := 4.0
	if rec.RatingNormalized != nil {
		rating = *rec.RatingNormalized
	}
	prompt := fmt.Sprintf(`You are an expert hotel analyst. Based on the following hotel information, create a summary of what guests might say in reviews. Be realistic and consider both positives and negatives.

Hotel Name: %s
Rating: %.1f/5
Price: %s
Location: %s
Source: %s

Generate a concise summary of likely guest reviews in 3-4 sentences. Include common themes about location, service, cleanliness, and value for money. Be realistic based on the rating - higher rated hotels should have more positive reviews, lower rated hotels more negative.`,
		name, rating, orUnknown(rec.Price), orUnknown(rec.Location), orUnknown(rec.Source))

	return g.complete(ctx, prompt, 200, fallback)
}

// Recommend generates a personalized recommendation over the top
// results.
func (g *Generator) Recommend(ctx context.Context, hotels []hotel.Record, prefs Preferences) string {
	if len(hotels) == 0 {
		return "No hotels available to make recommendations."
	}

	top := hotels
	if len(top) > 5 {
		top = top[:5]
	}

	var descriptions []string
	for i, rec := range top {
		var d strings.Builder
		fmt.Fprintf(&d, "Hotel %d: %s\n", i+1, rec.Name)
		fmt.Fprintf(&d, "Rating: %.1f/5\n", rec.SortRating())
		fmt.Fprintf(&d, "Price: %s\n", orUnknown(rec.Price))
		fmt.Fprintf(&d, "Source: %s\n", orUnknown(rec.Source))
		if rec.Location != "" {
			fmt.Fprintf(&d, "Location: %s\n", rec.Location)
		}
		descriptions = append(descriptions, d.String())
	}

	budget := prefs.Budget
	if budget == "" {
		budget = "moderate"
	}
	priorities := prefs.Priorities
	if len(priorities) == 0 {
		priorities = []string{"Value for money", "Location", "Amenities"}
	}

	prompt := fmt.Sprintf(`You are an expert hotel concierge. Based on the following hotels and user preferences, provide personalized hotel recommendations.

AVAILABLE HOTELS:
%s

USER PREFERENCES:
- Budget: %s
- Priorities: %s

Please recommend the best hotel for this user with a brief explanation (2-3 sentences) about why it's a good match for their preferences. Then suggest a second option as an alternative. Keep your response under 150 words total.`,
		strings.Join(descriptions, "\n"), budget, strings.Join(priorities, ", "))

	return g.complete(ctx, prompt, 300, recommendFallback)
}

func (g *Generator) complete(ctx context.Context, prompt string, maxTokens int, fallback string) string {
	if g.client == nil {
		g.metrics.IncNarrativeFallbacks()
		return fallback
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Messages:    []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: prompt}},
		Temperature: 0.7,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		g.logger.Warn("narrative generation failed", "error", err)
		g.metrics.IncNarrativeFallbacks()
		return fallback
	}
	if len(resp.Choices) == 0 {
		g.metrics.IncNarrativeFallbacks()
		return fallback
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		g.metrics.IncNarrativeFallbacks()
		return fallback
	}
	return text
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
