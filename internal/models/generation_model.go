package models

import "time"

const (
	GenerationStatusQueued          = "queued"
	GenerationStatusAnalyzing       = "analyzing"
	GenerationStatusGeneratingBlog  = "generating_blog"
	GenerationStatusCreatingScript  = "creating_script"
	GenerationStatusGeneratingVideo = "generating_video"
	GenerationStatusPublishing      = "publishing"
	GenerationStatusCompleted       = "completed"
	GenerationStatusFailed          = "failed"
)

// Generation is one topic's run through the content pipeline as seen by pollers.
type Generation struct {
	ID          string             `json:"generation_id"`
	Topic       string             `json:"topic"`
	Status      string             `json:"status"`
	Progress    int                `json:"progress"`
	CurrentStep string             `json:"current_step"`
	Message     string             `json:"message"`
	Error       string             `json:"error,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	StartedAt   *time.Time         `json:"started_at,omitempty"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
	Results     *GenerationResults `json:"results,omitempty"`
}

// IsTerminal reports whether the generation has stopped changing.
func (g *Generation) IsTerminal() bool {
	return g.Status == GenerationStatusCompleted || g.Status == GenerationStatusFailed
}

type GenerationResults struct {
	BlogPost           *BlogPostResult           `json:"blog_post"`
	VideoScript        *VideoScriptResult        `json:"video_script"`
	PublishedPlatforms map[string]PlatformStatus `json:"published_platforms"`
}

// GenerationPatch carries the fields a stage changes. Nil fields are left untouched.
type GenerationPatch struct {
	Status      *string
	Progress    *int
	CurrentStep *string
	Message     *string
	Error       *string
	StartedAt   *time.Time
	CompletedAt *time.Time
	Results     *GenerationResults
}
