package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/shared"
	"golang.org/x/oauth2"
)

const (
	signInPath     = "/api/auth/sign-in/email"
	signUpPath     = "/api/auth/sign-up/email"
	issueTokenPath = "/api/token"
)

// AuthService is the client for the identity provider. The provider
// manages its own session cookie, so the underlying [http.Client]
// carries a cookie jar: the cookie set by sign-in authenticates the
// follow-up token-issuance call.
type AuthService struct {
	baseURL    string
	httpClient *http.Client
}

// NewAuthService creates an identity provider client. When httpClient
// is nil a client with a fresh cookie jar is used.
func NewAuthService(baseURL string, httpClient *http.Client) *AuthService {
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}
	if httpClient == nil {
		jar, _ := cookiejar.New(nil)
		httpClient = &http.Client{Jar: jar, Timeout: 30 * time.Second}
	}

	return &AuthService{baseURL: baseURL, httpClient: httpClient}
}

// authResponse is the provider's sign-in/sign-up body. Some provider
// versions embed a bearer token directly.
type authResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// tokenResponse is the token-issuance body.
type tokenResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// providerError is the provider's failure body.
type providerError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// SignIn authenticates with email and password. On success the provider
// session cookie is stored in the jar; the returned token string is the
// bearer token embedded in the response, if any.
func (a *AuthService) SignIn(ctx context.Context, email, password string) (*models.User, string, error) {
	return a.authenticate(ctx, signInPath, map[string]string{
		"email":    email,
		"password": password,
	}, "Invalid email or password")
}

// SignUp registers a new account. Same shape as [AuthService.SignIn].
func (a *AuthService) SignUp(ctx context.Context, email, password, name string) (*models.User, string, error) {
	payload := map[string]string{
		"email":    email,
		"password": password,
	}
	if name != "" {
		payload["name"] = name
	}
	return a.authenticate(ctx, signUpPath, payload, "Failed to create account")
}

func (a *AuthService) authenticate(ctx context.Context, path string, payload map[string]string, fallback string) (*models.User, string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to read response", shared.ErrAuthFailed)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := fallback
		var pe providerError
		if err := json.Unmarshal(body, &pe); err == nil {
			if pe.Message != "" {
				msg = pe.Message
			} else if pe.Error != "" {
				msg = pe.Error
			}
		}
		return nil, "", fmt.Errorf("%w: %s", shared.ErrAuthFailed, msg)
	}

	var parsed authResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, "", fmt.Errorf("%w: failed to decode response", shared.ErrAuthFailed)
	}

	return &parsed.User, parsed.Token, nil
}

// IssueToken calls the provider's token-issuance endpoint. Requires an
// active provider session in the cookie jar. The returned token carries
// the expiry decoded from the JWT claims.
func (a *AuthService) IssueToken(ctx context.Context) (*oauth2.Token, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+issueTokenPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrTokenIssuance, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", shared.ErrTokenIssuance, resp.StatusCode)
	}

	var parsed tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response", shared.ErrTokenIssuance)
	}
	if parsed.Token == "" {
		return nil, fmt.Errorf("%w: empty token in response", shared.ErrTokenIssuance)
	}

	return BearerToken(parsed.Token), nil
}

// BearerToken wraps a raw bearer credential as an [oauth2.Token],
// filling the expiry from the JWT exp claim when the credential is a
// parseable JWT. The signature is never verified here; validation is
// the task service's job.
func BearerToken(raw string) *oauth2.Token {
	token := &oauth2.Token{AccessToken: raw, TokenType: "Bearer"}
	if exp, err := TokenExpiry(raw); err == nil {
		token.Expiry = exp
	}
	return token
}

// TokenClaims holds the subset of JWT claims the client displays.
type TokenClaims struct {
	Subject string
	Email   string
	Name    string
	Expiry  time.Time
}

// ParseTokenClaims decodes a JWT without verifying its signature.
func ParseTokenClaims(raw string) (*TokenClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	out := &TokenClaims{}
	if sub, err := claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	if email, ok := claims["email"].(string); ok {
		out.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		out.Name = name
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.Expiry = exp.Time
	}
	return out, nil
}

// TokenExpiry returns the exp claim of a JWT bearer credential.
func TokenExpiry(raw string) (time.Time, error) {
	claims, err := ParseTokenClaims(raw)
	if err != nil {
		return time.Time{}, err
	}
	if claims.Expiry.IsZero() {
		return time.Time{}, fmt.Errorf("token has no expiry claim")
	}
	return claims.Expiry, nil
}
