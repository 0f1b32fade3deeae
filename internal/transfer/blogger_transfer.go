package transfer

import "github.com/golang-jwt/jwt/v5"

type PublishRequest struct {
	BlogID  string `json:"blog_id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type AuthorizationResponse struct {
	AuthorizationURL string `json:"authorization_url"`
}

type SessionClaims struct {
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}
