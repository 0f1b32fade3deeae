package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	config "github.com/maheshrc27/contentflow/configs"
	"github.com/maheshrc27/contentflow/internal/models"
	"github.com/maheshrc27/contentflow/internal/repository"
	"github.com/maheshrc27/contentflow/internal/transfer"
	"github.com/maheshrc27/contentflow/pkg/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/blogger/v3"
	"google.golang.org/api/option"
)

const BloggerScope = "https://www.googleapis.com/auth/blogger"

type BloggerService interface {
	BeginAuthorization(ctx context.Context, sessionID string) (string, error)
	CompleteAuthorization(ctx context.Context, sessionID, state, code string) (*models.CredentialBundle, error)
	Publish(ctx context.Context, sessionID string, req transfer.PublishRequest) (*blogger.Post, error)
	History(ctx context.Context, sessionID string) ([]*models.PostingHistory, error)
}

type bloggerService struct {
	oauth       *oauth2.Config
	apiEndpoint string
	sessions    repository.SessionRepository
	history     repository.PostingHistoryRepository
}

func NewBloggerService(cfg config.Config, sessions repository.SessionRepository, history repository.PostingHistoryRepository) BloggerService {
	return &bloggerService{
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURI,
			Scopes:       []string{BloggerScope},
			Endpoint:     google.Endpoint,
		},
		apiEndpoint: cfg.BloggerAPIEndpoint,
		sessions:    sessions,
		history:     history,
	}
}

func (s *bloggerService) BeginAuthorization(ctx context.Context, sessionID string) (string, error) {
	if s.oauth.ClientID == "" || s.oauth.ClientSecret == "" || s.oauth.RedirectURL == "" {
		err := errors.New("OAuth2 configuration is incomplete")
		slog.Info(err.Error())
		return "", err
	}

	state, err := utils.GenerateRandomKey(32)
	if err != nil {
		return "", err
	}

	if err := s.sessions.SaveState(ctx, sessionID, state); err != nil {
		return "", err
	}

	return s.oauth.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
	), nil
}

func (s *bloggerService) CompleteAuthorization(ctx context.Context, sessionID, state, code string) (*models.CredentialBundle, error) {
	expected, err := s.sessions.GetState(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(state)) != 1 {
		slog.Info(ErrStateMismatch.Error(), "session_id", sessionID)
		return nil, ErrStateMismatch
	}

	if code == "" {
		return nil, invalid(ErrMissingCode)
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("%w: %v", ErrTokenExchange, err)
	}

	bundle := s.bundleFromToken(token, "")
	if err := s.sessions.SaveCredentials(ctx, sessionID, bundle); err != nil {
		return nil, err
	}

	if err := s.sessions.DeleteState(ctx, sessionID); err != nil {
		slog.Info(err.Error())
	}

	return bundle, nil
}

func (s *bloggerService) Publish(ctx context.Context, sessionID string, req transfer.PublishRequest) (*blogger.Post, error) {
	bundle, err := s.sessions.GetCredentials(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if bundle == nil {
		return nil, ErrUnauthenticated
	}

	if strings.TrimSpace(req.BlogID) == "" || strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return nil, invalid(ErrMissingFields)
	}

	// Token source refreshes the access token when it has expired
	ts := s.oauth.TokenSource(ctx, &oauth2.Token{
		AccessToken:  bundle.Token,
		RefreshToken: bundle.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       bundle.Expiry,
	})

	opts := []option.ClientOption{option.WithHTTPClient(oauth2.NewClient(ctx, ts))}
	if s.apiEndpoint != "" {
		opts = append(opts, option.WithEndpoint(s.apiEndpoint))
	}

	svc, err := blogger.NewService(ctx, opts...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	// Insert the post into the blog
	post, err := svc.Posts.Insert(req.BlogID, &blogger.Post{
		Kind:    "blogger#post",
		Blog:    &blogger.PostBlog{Id: req.BlogID},
		Title:   req.Title,
		Content: req.Content,
	}).Context(ctx).Do()

	s.saveRefreshedToken(ctx, sessionID, bundle, ts)

	// Log posting history
	s.record(ctx, sessionID, req, post, err)

	if err != nil {
		slog.Info(err.Error())
		return nil, &ProviderError{Provider: "blogger", Err: err}
	}

	return post, nil
}

func (s *bloggerService) History(ctx context.Context, sessionID string) ([]*models.PostingHistory, error) {
	if s.history == nil {
		return []*models.PostingHistory{}, nil
	}
	entries, err := s.history.ListBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*models.PostingHistory{}
	}
	return entries, nil
}

// saveRefreshedToken writes the bundle back when the token source minted a new access token.
func (s *bloggerService) saveRefreshedToken(ctx context.Context, sessionID string, bundle *models.CredentialBundle, ts oauth2.TokenSource) {
	token, err := ts.Token()
	if err != nil || token.AccessToken == bundle.Token {
		return
	}

	refreshed := s.bundleFromToken(token, bundle.RefreshToken)
	if err := s.sessions.SaveCredentials(ctx, sessionID, refreshed); err != nil {
		slog.Info(err.Error())
		return
	}
	slog.Info("blogger token refreshed", "session_id", sessionID)
}

func (s *bloggerService) record(ctx context.Context, sessionID string, req transfer.PublishRequest, post *blogger.Post, publishErr error) {
	if s.history == nil {
		return
	}

	entry := &models.PostingHistory{
		SessionID: sessionID,
		BlogID:    req.BlogID,
		Title:     req.Title,
	}
	if post != nil {
		entry.PostID = post.Id
		entry.PostURL = post.Url
	}
	if publishErr != nil {
		entry.ErrorMessage = publishErr.Error()
	}

	if _, err := s.history.Create(ctx, entry); err != nil {
		slog.Info("unable to save posting history", "error", err)
	}
}

func (s *bloggerService) bundleFromToken(token *oauth2.Token, fallbackRefresh string) *models.CredentialBundle {
	refresh := token.RefreshToken
	if refresh == "" {
		refresh = fallbackRefresh
	}
	return &models.CredentialBundle{
		Token:        token.AccessToken,
		RefreshToken: refresh,
		TokenURI:     s.oauth.Endpoint.TokenURL,
		ClientID:     s.oauth.ClientID,
		ClientSecret: s.oauth.ClientSecret,
		Scopes:       s.oauth.Scopes,
		Expiry:       token.Expiry,
	}
}
