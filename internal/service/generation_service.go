package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	config "github.com/maheshrc27/contentflow/configs"
	"github.com/maheshrc27/contentflow/internal/models"
	"github.com/maheshrc27/contentflow/internal/repository"
	"github.com/maheshrc27/contentflow/pkg/utils"
)

type GenerationService interface {
	Create(ctx context.Context, topic string) (*models.Generation, error)
	Discard(ctx context.Context, id string) error
	Run(ctx context.Context, id, topic string) error
	Get(ctx context.Context, id string) (*models.Generation, error)
	Results(ctx context.Context, id string) (*models.GenerationResults, error)
}

type stage struct {
	status   string
	progress int
	step     string
	message  string
}

var (
	stageQueued = stage{models.GenerationStatusQueued, 0, "Queued",
		"Waiting for an available worker"}
	stageAnalyzing = stage{models.GenerationStatusAnalyzing, 10, "Analyzing Topic",
		"AI is researching and analyzing your topic for optimal content creation"}
	stageBlog = stage{models.GenerationStatusGeneratingBlog, 30, "Generating Blog Post",
		"Creating SEO-optimized blog content with proper structure and keywords"}
	stageScript = stage{models.GenerationStatusCreatingScript, 55, "Creating Video Script",
		"Developing engaging video script with strong hook and educational content"}
	stageVideo = stage{models.GenerationStatusGeneratingVideo, 75, "Generating Video",
		"Producing 1+ minute educational video with visual elements"}
	stagePublishing = stage{models.GenerationStatusPublishing, 90, "Publishing Content",
		"Distributing content across all connected platforms"}
	stageCompleted = stage{models.GenerationStatusCompleted, 100, "Complete",
		"Content generation and publishing completed successfully!"}
)

const maxIDAttempts = 3

type generationService struct {
	cfg       config.Generation
	status    repository.StatusRepository
	text      TextService
	publisher PublisherService
	archive   ArtifactStore
	now       func() time.Time
}

// NewGenerationService wires the pipeline. archive may be nil.
func NewGenerationService(
	cfg config.Generation,
	status repository.StatusRepository,
	text TextService,
	publisher PublisherService,
	archive ArtifactStore) GenerationService {
	return &generationService{
		cfg:       cfg,
		status:    status,
		text:      text,
		publisher: publisher,
		archive:   archive,
		now:       time.Now,
	}
}

func (s *generationService) Create(ctx context.Context, topic string) (*models.Generation, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, invalid(ErrMissingTopic)
	}

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		now := s.now()
		id, err := utils.NewGenerationID(now, topic)
		if err != nil {
			return nil, err
		}

		g := &models.Generation{
			ID:          id,
			Topic:       topic,
			Status:      stageQueued.status,
			Progress:    stageQueued.progress,
			CurrentStep: stageQueued.step,
			Message:     stageQueued.message,
			CreatedAt:   now,
		}

		err = s.status.Create(ctx, g)
		if errors.Is(err, repository.ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return g, nil
	}

	return nil, fmt.Errorf("could not allocate a unique generation id: %w", repository.ErrAlreadyExists)
}

func (s *generationService) Discard(ctx context.Context, id string) error {
	return s.status.Delete(ctx, id)
}

func (s *generationService) Get(ctx context.Context, id string) (*models.Generation, error) {
	return s.status.Get(ctx, id)
}

func (s *generationService) Results(ctx context.Context, id string) (*models.GenerationResults, error) {
	g, err := s.status.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.Status != models.GenerationStatusCompleted || g.Results == nil {
		return nil, invalid(ErrNotCompleted)
	}
	return g.Results, nil
}

// Run drives one generation through every stage. Blog and script failures are
// embedded in the results; the record only fails when it cannot be advanced.
func (s *generationService) Run(ctx context.Context, id, topic string) (err error) {
	log := slog.With("generation_id", id)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generation panicked: %v", r)
			log.Error(err.Error())
			s.fail(id, err)
		}
	}()

	log.Info("generation started", "topic", topic)

	started := s.now()
	if err := s.advance(ctx, id, stageAnalyzing, models.GenerationPatch{StartedAt: &started}); err != nil {
		return s.abort(log, id, err)
	}

	if err := s.advance(ctx, id, stageBlog, models.GenerationPatch{}); err != nil {
		return s.abort(log, id, err)
	}
	blogPost := &models.BlogPostResult{}
	if post, err := s.text.GenerateBlogPost(ctx, topic); err != nil {
		log.Info(err.Error(), "stage", stageBlog.status)
		blogPost.Error = "Failed to generate blog post: " + err.Error()
	} else {
		blogPost.BlogPost = post
	}

	if err := s.advance(ctx, id, stageScript, models.GenerationPatch{}); err != nil {
		return s.abort(log, id, err)
	}
	videoScript := &models.VideoScriptResult{}
	if script, err := s.text.GenerateVideoScript(ctx, topic); err != nil {
		log.Info(err.Error(), "stage", stageScript.status)
		videoScript.Error = "Failed to generate video script: " + err.Error()
	} else {
		videoScript.VideoScript = script
	}

	if err := s.advance(ctx, id, stageVideo, models.GenerationPatch{}); err != nil {
		return s.abort(log, id, err)
	}

	if err := s.advance(ctx, id, stagePublishing, models.GenerationPatch{}); err != nil {
		return s.abort(log, id, err)
	}
	published := s.publisher.PublishAll(ctx, PublishContent{
		Topic:       topic,
		BlogPost:    blogPost,
		VideoScript: videoScript,
	}, s.cfg.Platforms)

	results := &models.GenerationResults{
		BlogPost:           blogPost,
		VideoScript:        videoScript,
		PublishedPlatforms: published,
	}

	if s.archive != nil {
		if err := s.archive.ArchiveResults(ctx, id, results); err != nil {
			log.Info("unable to archive results", "error", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return s.abort(log, id, err)
	}

	completed := s.now()
	err = s.status.Update(ctx, id, models.GenerationPatch{
		Status:      ptr(stageCompleted.status),
		Progress:    ptr(stageCompleted.progress),
		CurrentStep: ptr(stageCompleted.step),
		Message:     ptr(stageCompleted.message),
		CompletedAt: &completed,
		Results:     results,
	})
	if err != nil {
		return s.abort(log, id, err)
	}

	log.Info("generation completed", "duration", completed.Sub(started).String())
	return nil
}

// advance waits out the configured stage delay, then writes the stage in one update.
func (s *generationService) advance(ctx context.Context, id string, st stage, patch models.GenerationPatch) error {
	if err := s.pause(ctx); err != nil {
		return err
	}

	patch.Status = ptr(st.status)
	patch.Progress = ptr(st.progress)
	patch.CurrentStep = ptr(st.step)
	patch.Message = ptr(st.message)
	return s.status.Update(ctx, id, patch)
}

func (s *generationService) pause(ctx context.Context) error {
	if s.cfg.StageDelay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(s.cfg.StageDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *generationService) abort(log *slog.Logger, id string, err error) error {
	log.Info("generation failed", "error", err)
	s.fail(id, err)
	return err
}

// fail marks the record failed. The run's context may already be cancelled.
func (s *generationService) fail(id string, cause error) {
	completed := s.now()
	err := s.status.Update(context.Background(), id, models.GenerationPatch{
		Status:      ptr(models.GenerationStatusFailed),
		CurrentStep: ptr("Failed"),
		Message:     ptr("Content generation failed"),
		Error:       ptr(cause.Error()),
		CompletedAt: &completed,
	})
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		slog.Info(err.Error(), "generation_id", id)
	}
}
