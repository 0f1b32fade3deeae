package service

import (
	"context"
	"strings"

	"github.com/maheshrc27/contentflow/internal/models"
)

// PublishContent is what the publisher distributes for one generation.
type PublishContent struct {
	Topic       string
	BlogPost    *models.BlogPostResult
	VideoScript *models.VideoScriptResult
}

type PublisherService interface {
	PublishAll(ctx context.Context, content PublishContent, platforms []string) map[string]models.PlatformStatus
}

var knownPlatforms = map[string]bool{
	"blogger":   true,
	"instagram": true,
	"tiktok":    true,
	"youtube":   true,
}

type publisherService struct{}

// NewPublisherService returns a publisher that records every known platform as published
// without contacting it.
func NewPublisherService() PublisherService {
	return &publisherService{}
}

func (s *publisherService) PublishAll(ctx context.Context, content PublishContent, platforms []string) map[string]models.PlatformStatus {
	out := make(map[string]models.PlatformStatus, len(platforms))
	for _, p := range platforms {
		name := strings.ToLower(strings.TrimSpace(p))
		switch {
		case name == "":
			out[p] = models.PlatformStatus{Status: models.PlatformStatusFailed, Error: "platform name is empty"}
		case !knownPlatforms[name]:
			out[name] = models.PlatformStatus{Status: models.PlatformStatusFailed, Error: "unsupported platform"}
		default:
			out[name] = models.PlatformStatus{Status: models.PlatformStatusPublished, URL: "#"}
		}
	}
	return out
}
