package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	config "github.com/maheshrc27/contentflow/configs"
	"github.com/maheshrc27/contentflow/internal/models"
)

type TextService interface {
	GenerateBlogPost(ctx context.Context, topic string) (*models.BlogPost, error)
	GenerateVideoScript(ctx context.Context, topic string) (*models.VideoScript, error)
}

type textService struct {
	completer Completer
	cfg       config.Generation
}

// NewTextService accepts a nil completer; every call then fails with a provider error.
func NewTextService(completer Completer, cfg config.Generation) TextService {
	return &textService{completer: completer, cfg: cfg}
}

const blogPostPrompt = `You are an evidence-driven medical copywriter. Write a search-optimized, people-first blog post about %q.

Constraints:
- Length: 1,800 to 2,400 words.
- Reading level: grade 8 to 10. Short paragraphs. No fluff.
- Tone: neutral, non-diagnostic, consumer-friendly.
- No disease-cure claims. Include a medical disclaimer.
- Cite peer-reviewed sources inline as [#] and list them in references.

Sections, in order: what it is and how it works; evidence-graded benefits; dosage and timing;
interactions and contraindications; side effects and who should avoid it; stacks and alternatives;
buyer's checklist; how to use it.

Respond with ONLY a JSON object, no markdown and no commentary, with exactly these fields:
{
  "title_tag": "at most 60 characters",
  "meta_description": "at most 155 characters",
  "slug": "url-slug",
  "h1": "page heading",
  "hook": "90 to 120 word opening",
  "outline": ["H2 heading", "..."],
  "sections": [{"heading": "H2 heading", "body": "section text"}],
  "faqs": [{"question": "...", "answer": "..."}],
  "tldr": ["bullet", "..."],
  "call_to_action": "...",
  "disclaimer": "...",
  "references": ["full citation", "..."]
}`

const videoScriptPrompt = `Create an engaging 60-90 second video script about %q.

Requirements:
- Strong hook in the first 3 seconds
- Educational and entertaining content
- Clear structure with smooth transitions
- Include visual cues and suggestions
- End with a compelling call-to-action
- Optimized for TikTok, Instagram Reels and YouTube Shorts

Respond with ONLY a JSON object, no markdown and no commentary:
{
  "title": "Video title",
  "hook": "Opening hook (first 3 seconds)",
  "script": "Full video script with timing cues",
  "visual_cues": ["Visual suggestion 1", "Visual suggestion 2"],
  "duration_estimate": "Estimated duration in seconds",
  "hashtags": ["#hashtag1", "#hashtag2", "#hashtag3"]
}`

func BlogPostPrompt(topic string) string {
	return fmt.Sprintf(blogPostPrompt, topic)
}

func VideoScriptPrompt(topic string) string {
	return fmt.Sprintf(videoScriptPrompt, topic)
}

func (s *textService) GenerateBlogPost(ctx context.Context, topic string) (*models.BlogPost, error) {
	raw, err := s.complete(ctx, BlogPostPrompt(topic), s.cfg.BlogTemperature)
	if err != nil {
		return nil, err
	}

	var post models.BlogPost
	if err := decodeReply(raw, &post); err != nil {
		return nil, err
	}
	if err := validateBlogPost(&post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *textService) GenerateVideoScript(ctx context.Context, topic string) (*models.VideoScript, error) {
	raw, err := s.complete(ctx, VideoScriptPrompt(topic), s.cfg.ScriptTemperature)
	if err != nil {
		return nil, err
	}

	var script models.VideoScript
	if err := decodeReply(raw, &script); err != nil {
		return nil, err
	}
	if err := validateVideoScript(&script); err != nil {
		return nil, err
	}
	return &script, nil
}

func (s *textService) complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	if s.completer == nil {
		return "", &GenerationError{Kind: GenerationErrorProvider, Reason: "no provider", Err: ErrNoCompleter}
	}

	raw, err := s.completer.Complete(ctx, prompt, temperature)
	if err != nil {
		slog.Info(err.Error(), "provider", s.completer.Name())
		return "", &GenerationError{Kind: GenerationErrorProvider, Reason: s.completer.Name() + " request failed", Err: err}
	}
	return raw, nil
}

func decodeReply(raw string, v any) error {
	body := extractJSON(raw)
	if body == "" {
		return &GenerationError{Kind: GenerationErrorParse, Reason: "empty reply"}
	}
	if err := json.Unmarshal([]byte(body), v); err != nil {
		return &GenerationError{Kind: GenerationErrorParse, Reason: "reply is not valid JSON", Err: err}
	}
	return nil
}

func validateBlogPost(p *models.BlogPost) error {
	var missing []string
	if strings.TrimSpace(p.TitleTag) == "" {
		missing = append(missing, "title_tag")
	}
	if strings.TrimSpace(p.H1) == "" {
		missing = append(missing, "h1")
	}
	hasSection := false
	for _, sec := range p.Sections {
		if strings.TrimSpace(sec.Heading) != "" {
			hasSection = true
			break
		}
	}
	if !hasSection {
		missing = append(missing, "sections")
	}
	return missingFields(missing)
}

func validateVideoScript(v *models.VideoScript) error {
	var missing []string
	if strings.TrimSpace(v.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(v.Hook) == "" {
		missing = append(missing, "hook")
	}
	if strings.TrimSpace(v.Script) == "" {
		missing = append(missing, "script")
	}
	return missingFields(missing)
}

func missingFields(missing []string) error {
	if len(missing) == 0 {
		return nil
	}
	return &GenerationError{Kind: GenerationErrorSchema, Reason: "missing " + strings.Join(missing, ", ")}
}
