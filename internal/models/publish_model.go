package models

const (
	PlatformStatusPublished = "published"
	PlatformStatusFailed    = "failed"
)

type PlatformStatus struct {
	Status string `json:"status"`
	URL    string `json:"url"`
	Error  string `json:"error,omitempty"`
}
