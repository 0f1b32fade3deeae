package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	config "github.com/maheshrc27/contentflow/configs"
)

type fakeCompleter struct {
	reply string
	err   error

	prompts      []string
	temperatures []float64
}

func (f *fakeCompleter) Name() string { return "fake" }

func (f *fakeCompleter) Complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.temperatures = append(f.temperatures, temperature)
	return f.reply, f.err
}

var testGenerationConfig = config.Generation{
	Platforms:         []string{"blogger", "instagram", "tiktok", "youtube"},
	BlogTemperature:   0.7,
	ScriptTemperature: 0.8,
}

const validBlogJSON = `{
  "title_tag": "Magnesium Glycinate Guide",
  "meta_description": "What it does and how to take it.",
  "slug": "magnesium-glycinate",
  "h1": "Magnesium Glycinate",
  "hook": "Sleep better.",
  "outline": ["What it is"],
  "sections": [{"heading": "What it is", "body": "A chelated form of magnesium."}],
  "faqs": [{"question": "Is it safe?", "answer": "Mostly."}],
  "tldr": ["Helps sleep"],
  "call_to_action": "Track your dose.",
  "disclaimer": "Not medical advice.",
  "references": ["Ref 1"]
}`

const validScriptJSON = `{
  "title": "Magnesium in 60s",
  "hook": "Can't sleep?",
  "script": "Here is what magnesium does...",
  "visual_cues": ["pill bottle"],
  "duration_estimate": 75,
  "hashtags": ["#sleep"]
}`

func TestGenerateBlogPost(t *testing.T) {
	fc := &fakeCompleter{reply: "Sure! Here it is:\n```json\n" + validBlogJSON + "\n```"}
	svc := NewTextService(fc, testGenerationConfig)

	post, err := svc.GenerateBlogPost(context.Background(), "magnesium glycinate")
	if err != nil {
		t.Fatalf("GenerateBlogPost: %v", err)
	}
	if post.H1 != "Magnesium Glycinate" || len(post.Sections) != 1 {
		t.Errorf("unexpected post %+v", post)
	}
	if fc.temperatures[0] != 0.7 {
		t.Errorf("temperature = %v, want 0.7", fc.temperatures[0])
	}
	if !strings.Contains(fc.prompts[0], `"magnesium glycinate"`) {
		t.Errorf("prompt does not mention topic: %s", fc.prompts[0])
	}
}

func TestGenerateVideoScriptAcceptsNumericDuration(t *testing.T) {
	fc := &fakeCompleter{reply: validScriptJSON}
	svc := NewTextService(fc, testGenerationConfig)

	script, err := svc.GenerateVideoScript(context.Background(), "magnesium")
	if err != nil {
		t.Fatalf("GenerateVideoScript: %v", err)
	}
	if script.DurationEstimate != "75" {
		t.Errorf("DurationEstimate = %q, want 75", script.DurationEstimate)
	}
	if fc.temperatures[0] != 0.8 {
		t.Errorf("temperature = %v, want 0.8", fc.temperatures[0])
	}
}

func TestTextServiceErrors(t *testing.T) {
	tests := []struct {
		name     string
		reply    string
		err      error
		wantKind string
	}{
		{"provider failure", "", errors.New("429 rate limited"), GenerationErrorProvider},
		{"not json", "I cannot help with that.", nil, GenerationErrorParse},
		{"truncated json", `{"title_tag": "x", "h1": `, nil, GenerationErrorParse},
		{"missing required", `{"title_tag": "x", "sections": []}`, nil, GenerationErrorSchema},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewTextService(&fakeCompleter{reply: tt.reply, err: tt.err}, testGenerationConfig)

			_, err := svc.GenerateBlogPost(context.Background(), "topic")
			var genErr *GenerationError
			if !errors.As(err, &genErr) {
				t.Fatalf("err = %v, want *GenerationError", err)
			}
			if genErr.Kind != tt.wantKind {
				t.Errorf("Kind = %s, want %s", genErr.Kind, tt.wantKind)
			}
		})
	}
}

func TestVideoScriptSchema(t *testing.T) {
	svc := NewTextService(&fakeCompleter{reply: `{"title": "t", "hook": ""}`}, testGenerationConfig)

	_, err := svc.GenerateVideoScript(context.Background(), "topic")
	var genErr *GenerationError
	if !errors.As(err, &genErr) || genErr.Kind != GenerationErrorSchema {
		t.Fatalf("err = %v, want schema error", err)
	}
	if !strings.Contains(genErr.Reason, "hook") || !strings.Contains(genErr.Reason, "script") {
		t.Errorf("Reason = %q", genErr.Reason)
	}
}

func TestTextServiceWithoutCompleter(t *testing.T) {
	svc := NewTextService(nil, testGenerationConfig)

	_, err := svc.GenerateBlogPost(context.Background(), "topic")
	if !errors.Is(err, ErrNoCompleter) {
		t.Fatalf("err = %v, want ErrNoCompleter", err)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := map[string]string{
		`{"a":1}`:                           `{"a":1}`,
		"```json\n{\"a\":1}\n```":           `{"a":1}`,
		"```\n{\"a\":1}\n```":               `{"a":1}`,
		"Here you go: {\"a\":{\"b\":2}} :)": `{"a":{"b":2}}`,
		"no json here":                      "no json here",
	}
	for in, want := range tests {
		if got := extractJSON(in); got != want {
			t.Errorf("extractJSON(%q) = %q, want %q", in, got, want)
		}
	}
}
