// Package content turns plans and documents into LLM prompts and parses the
// structured answers.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"contentpilot/internal/llm"
	"contentpilot/internal/model"
	"contentpilot/internal/store"
	"contentpilot/pkg/prompts"
)

var ErrInvalidContent = errors.New("invalid generated content")

type templateLookup interface {
	ActiveTemplate(ctx context.Context, name string) (*model.PromptTemplate, error)
}

type Generator struct {
	llm       llm.Client
	prompts   *prompts.Prompts
	templates templateLookup
}

type SEOAnalysis struct {
	Score       float64  `json:"score"`
	Suggestions []string `json:"suggestions"`
}

type DocumentAnalysis struct {
	Summary        string   `json:"summary"`
	RiskRating     float64  `json:"riskRating"`
	AdditionalInfo []string `json:"additionalInfo"`
}

// NewGenerator builds a Generator. templates may be nil, in which case only the
// prompts file is used.
func NewGenerator(client llm.Client, p *prompts.Prompts, templates templateLookup) *Generator {
	if p == nil {
		p = prompts.Defaults()
	}
	return &Generator{llm: client, prompts: p, templates: templates}
}

// Generate returns free-form content. A non-empty prompt replaces the system prompt.
func (g *Generator) Generate(ctx context.Context, theme, description, prompt string) (string, error) {
	system := prompt
	if system == "" {
		system = g.systemPrompt(ctx, prompts.TemplateContentGenerator, g.prompts.System.Content)
	}

	user, err := g.prompts.RenderRequest(prompts.RequestParams{Theme: theme, Description: description})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}

	text, err := g.llm.Complete(ctx, llm.Request{System: system, User: user})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return text, nil
}

// GenerateForPlan asks for caption, tags, title and media prompts for plan and
// parses the answer strictly.
func (g *Generator) GenerateForPlan(ctx context.Context, plan *model.ContentPlan) (*model.GeneratedContent, error) {
	system, err := g.prompts.RenderPlan(prompts.PlanParams{
		Theme:       plan.Theme,
		Description: plan.Description,
		Media:       planMedia(plan),
	})
	if err != nil {
		return nil, fmt.Errorf("render plan prompt: %w", err)
	}
	if plan.Prompt != nil && strings.TrimSpace(*plan.Prompt) != "" {
		system = *plan.Prompt + "\n\n" + system
	}

	user, err := g.prompts.RenderRequest(prompts.RequestParams{Theme: plan.Theme, Description: plan.Description})
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}

	text, err := g.llm.Complete(ctx, llm.Request{System: system, User: user, JSON: true})
	if err != nil {
		return nil, fmt.Errorf("generate plan content: %w", err)
	}

	return ParseGeneratedContent(text)
}

// ParseGeneratedContent decodes the JSON answer for a plan. Caption, title and
// tags are required.
func ParseGeneratedContent(text string) (*model.GeneratedContent, error) {
	var raw struct {
		Caption     *string  `json:"caption"`
		Tags        []string `json:"tags"`
		Title       *string  `json:"title"`
		ImagePrompt string   `json:"imagePrompt"`
		VideoPrompt string   `json:"videoPrompt"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
	}

	switch {
	case raw.Caption == nil:
		return nil, fmt.Errorf("%w: missing caption", ErrInvalidContent)
	case raw.Title == nil:
		return nil, fmt.Errorf("%w: missing title", ErrInvalidContent)
	case raw.Tags == nil:
		return nil, fmt.Errorf("%w: missing tags", ErrInvalidContent)
	}

	return &model.GeneratedContent{
		Caption:     *raw.Caption,
		Tags:        raw.Tags,
		Title:       *raw.Title,
		ImagePrompt: raw.ImagePrompt,
		VideoPrompt: raw.VideoPrompt,
	}, nil
}

func (g *Generator) AnalyzeSEO(ctx context.Context, text string) (*SEOAnalysis, error) {
	system := g.systemPrompt(ctx, prompts.TemplateSEOAnalyzer, g.prompts.System.SEO)

	answer, err := g.llm.Complete(ctx, llm.Request{System: system, User: text, JSON: true, MaxTokens: 1024})
	if err != nil {
		return nil, fmt.Errorf("analyze seo: %w", err)
	}

	var result SEOAnalysis
	if err := json.Unmarshal([]byte(stripCodeFence(answer)), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
	}
	result.Score = clamp(result.Score, 0, 100)
	if result.Suggestions == nil {
		result.Suggestions = []string{}
	}
	return &result, nil
}

func (g *Generator) AnalyzeDocument(ctx context.Context, text string) (*DocumentAnalysis, error) {
	system := g.systemPrompt(ctx, prompts.TemplateDocumentAnalyzer, g.prompts.System.Document)

	user, err := g.prompts.RenderDocument(prompts.DocumentParams{Text: text})
	if err != nil {
		return nil, fmt.Errorf("render document prompt: %w", err)
	}

	answer, err := g.llm.Complete(ctx, llm.Request{System: system, User: user, JSON: true})
	if err != nil {
		return nil, fmt.Errorf("analyze document: %w", err)
	}

	var result DocumentAnalysis
	if err := json.Unmarshal([]byte(stripCodeFence(answer)), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
	}
	result.RiskRating = clamp(result.RiskRating, 1, 5)
	if result.AdditionalInfo == nil {
		result.AdditionalInfo = []string{}
	}
	return &result, nil
}

// systemPrompt prefers an active stored template over the prompts file.
func (g *Generator) systemPrompt(ctx context.Context, name, fallback string) string {
	if g.templates == nil {
		return fallback
	}

	tmpl, err := g.templates.ActiveTemplate(ctx, name)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.Warn("Failed to load prompt template, using default", "template", name, "error", err)
		}
		return fallback
	}
	return tmpl.Prompt
}

func planMedia(plan *model.ContentPlan) string {
	seen := make(map[string]bool)
	var media []string
	for _, ch := range plan.ChannelList() {
		if !seen[ch.Medium] {
			seen[ch.Medium] = true
			media = append(media, ch.Medium)
		}
	}
	if len(media) == 0 && plan.Medium != "" {
		return plan.Medium
	}
	return strings.Join(media, ", ")
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}

// FormatCaption appends the tags as space separated hashtags after a blank line.
func FormatCaption(caption string, tags []string) string {
	if len(tags) == 0 {
		return caption
	}
	hashtags := make([]string, len(tags))
	for i, tag := range tags {
		hashtags[i] = "#" + strings.TrimPrefix(strings.TrimSpace(tag), "#")
	}
	return caption + "\n\n" + strings.Join(hashtags, " ")
}
