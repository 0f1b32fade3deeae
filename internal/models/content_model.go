package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

type BlogSection struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type BlogPost struct {
	TitleTag        string        `json:"title_tag"`
	MetaDescription string        `json:"meta_description"`
	Slug            string        `json:"slug"`
	H1              string        `json:"h1"`
	Hook            string        `json:"hook"`
	Outline         []string      `json:"outline"`
	Sections        []BlogSection `json:"sections"`
	FAQs            []FAQ         `json:"faqs"`
	TLDR            []string      `json:"tldr"`
	CallToAction    string        `json:"call_to_action"`
	Disclaimer      string        `json:"disclaimer"`
	References      []string      `json:"references"`
}

// Duration accepts both "75" and 75 from model output.
type Duration string

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*d = Duration(strings.TrimSpace(s))
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*d = Duration(strconv.FormatFloat(n, 'f', -1, 64))
	return nil
}

type VideoScript struct {
	Title            string   `json:"title"`
	Hook             string   `json:"hook"`
	Script           string   `json:"script"`
	VisualCues       []string `json:"visual_cues"`
	DurationEstimate Duration `json:"duration_estimate"`
	Hashtags         []string `json:"hashtags"`
}

// BlogPostResult holds either a generated post or the reason it could not be produced.
type BlogPostResult struct {
	*BlogPost
	Error string `json:"error,omitempty"`
}

type VideoScriptResult struct {
	*VideoScript
	Error string `json:"error,omitempty"`
}
