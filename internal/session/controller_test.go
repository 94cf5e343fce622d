package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/shared"
	tu "github.com/taskdeck/taskdeck/internal/testing"
	"golang.org/x/oauth2"
)

func TestController(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		ctrl := NewController(NewStore(nil), &tu.MockProvider{}, nil)

		state := ctrl.State()
		if !state.IsLoading {
			t.Error("expected initial state to be loading")
		}
		if state.IsAuthenticated {
			t.Error("expected initial state to be unauthenticated")
		}
	})

	t.Run("Startup", func(t *testing.T) {
		t.Run("Empty Store Leaves Session Anonymous", func(t *testing.T) {
			ctrl := NewController(NewStore(newTestDB(t)), &tu.MockProvider{}, nil)

			ctrl.Startup()

			state := ctrl.State()
			if state.IsLoading {
				t.Error("expected loading to be done")
			}
			if state.IsAuthenticated {
				t.Error("expected anonymous session")
			}
			if state.User != nil {
				t.Error("expected no user")
			}
		})

		t.Run("Rehydrates From Stored Session", func(t *testing.T) {
			store := NewStore(newTestDB(t))
			store.SetToken("stored-token")
			serialized, _ := json.Marshal(models.User{ID: "u1", Email: "user@example.com"})
			store.SetUser(string(serialized))

			ctrl := NewController(store, &tu.MockProvider{}, nil)
			ctrl.Startup()

			state := ctrl.State()
			if !state.IsAuthenticated {
				t.Fatal("expected authenticated session")
			}
			if state.Token != "stored-token" {
				t.Errorf("expected stored token, got %s", state.Token)
			}
			if state.User.Email != "user@example.com" {
				t.Errorf("expected cached user, got %+v", state.User)
			}
		})

		t.Run("Corrupt Cached User Clears The Store", func(t *testing.T) {
			store := NewStore(newTestDB(t))
			store.SetToken("stored-token")
			store.SetUser("{not json")

			ctrl := NewController(store, &tu.MockProvider{}, nil)
			ctrl.Startup()

			state := ctrl.State()
			if state.IsAuthenticated {
				t.Error("expected anonymous session")
			}
			if store.Token() != "" {
				t.Error("expected store to be cleared")
			}
		})

		t.Run("Token Without User Stays Anonymous", func(t *testing.T) {
			store := NewStore(newTestDB(t))
			store.SetToken("stored-token")

			ctrl := NewController(store, &tu.MockProvider{}, nil)
			ctrl.Startup()

			if ctrl.State().IsAuthenticated {
				t.Error("expected anonymous session without cached user")
			}
		})
	})

	t.Run("Login", func(t *testing.T) {
		t.Run("Dedicated Token Endpoint Wins Over Embedded", func(t *testing.T) {
			store := NewStore(newTestDB(t))
			provider := &tu.MockProvider{
				SignInFunc: func(ctx context.Context, email, password string) (*models.User, string, error) {
					return &models.User{ID: "u1", Email: email}, "embedded-token", nil
				},
				IssueTokenFunc: func(ctx context.Context) (*oauth2.Token, error) {
					return &oauth2.Token{AccessToken: "issued-token"}, nil
				},
			}

			ctrl := NewController(store, provider, nil)
			if err := ctrl.Login(context.Background(), "user@example.com", "hunter2"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			state := ctrl.State()
			if state.Token != "issued-token" {
				t.Errorf("expected issued token to win, got %s", state.Token)
			}
			if store.Token() != "issued-token" {
				t.Errorf("expected issued token persisted, got %s", store.Token())
			}
		})

		t.Run("Falls Back To Embedded Token", func(t *testing.T) {
			provider := &tu.MockProvider{
				SignInFunc: func(ctx context.Context, email, password string) (*models.User, string, error) {
					return &models.User{ID: "u1"}, "embedded-token", nil
				},
				IssueTokenFunc: func(ctx context.Context) (*oauth2.Token, error) {
					return nil, errors.New("endpoint unavailable")
				},
			}

			ctrl := NewController(NewStore(newTestDB(t)), provider, nil)
			if err := ctrl.Login(context.Background(), "user@example.com", "hunter2"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if ctrl.State().Token != "embedded-token" {
				t.Errorf("expected embedded token fallback, got %s", ctrl.State().Token)
			}
		})

		t.Run("No Usable Token Fails", func(t *testing.T) {
			provider := &tu.MockProvider{
				SignInFunc: func(ctx context.Context, email, password string) (*models.User, string, error) {
					return &models.User{ID: "u1"}, "", nil
				},
				IssueTokenFunc: func(ctx context.Context) (*oauth2.Token, error) {
					return nil, errors.New("endpoint unavailable")
				},
			}

			ctrl := NewController(NewStore(newTestDB(t)), provider, nil)
			err := ctrl.Login(context.Background(), "user@example.com", "hunter2")

			if !errors.Is(err, shared.ErrTokenIssuance) {
				t.Errorf("expected ErrTokenIssuance, got %v", err)
			}

			state := ctrl.State()
			if state.IsAuthenticated {
				t.Error("expected session to stay anonymous")
			}
			if state.IsLoading {
				t.Error("expected loading flag to be reset")
			}
		})

		t.Run("Provider Rejection Leaves Session Anonymous", func(t *testing.T) {
			provider := &tu.MockProvider{
				SignInFunc: func(ctx context.Context, email, password string) (*models.User, string, error) {
					return nil, "", shared.ErrAuthFailed
				},
			}

			store := NewStore(newTestDB(t))
			ctrl := NewController(store, provider, nil)
			err := ctrl.Login(context.Background(), "user@example.com", "wrong")

			if !errors.Is(err, shared.ErrAuthFailed) {
				t.Errorf("expected ErrAuthFailed, got %v", err)
			}
			if ctrl.State().IsAuthenticated {
				t.Error("expected anonymous session")
			}
			if store.Token() != "" {
				t.Error("expected nothing persisted")
			}
		})

		t.Run("Persists User Profile", func(t *testing.T) {
			store := NewStore(newTestDB(t))
			ctrl := NewController(store, &tu.MockProvider{}, nil)

			if err := ctrl.Login(context.Background(), "user@example.com", "hunter2"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			var cached models.User
			if err := json.Unmarshal([]byte(store.User()), &cached); err != nil {
				t.Fatalf("expected stored user to be valid JSON: %v", err)
			}
			if cached.Email != "user@example.com" {
				t.Errorf("expected cached email, got %s", cached.Email)
			}
		})
	})

	t.Run("Signup", func(t *testing.T) {
		t.Run("Establishes Session", func(t *testing.T) {
			ctrl := NewController(NewStore(newTestDB(t)), &tu.MockProvider{}, nil)

			if err := ctrl.Signup(context.Background(), "new@example.com", "hunter2", "Test User"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !ctrl.State().IsAuthenticated {
				t.Error("expected authenticated session after signup")
			}
		})
	})

	t.Run("Logout", func(t *testing.T) {
		store := NewStore(newTestDB(t))
		ctrl := NewController(store, &tu.MockProvider{}, nil)

		if err := ctrl.Login(context.Background(), "user@example.com", "hunter2"); err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if err := ctrl.Logout(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		state := ctrl.State()
		if state.IsAuthenticated || state.User != nil || state.Token != "" {
			t.Errorf("expected anonymous state, got %+v", state)
		}
		if store.Token() != "" || store.User() != "" {
			t.Error("expected store to be cleared")
		}
	})

	t.Run("SessionExpiry", func(t *testing.T) {
		t.Run("Anonymous Session Fails", func(t *testing.T) {
			ctrl := NewController(NewStore(nil), &tu.MockProvider{}, nil)
			ctrl.Startup()

			if _, err := ctrl.SessionExpiry(); !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
		})

		t.Run("Reads Expiry From JWT", func(t *testing.T) {
			expiry := time.Now().Add(time.Hour).Truncate(time.Second)
			raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
				"sub": "u1",
				"exp": expiry.Unix(),
			}).SignedString([]byte("test-secret"))
			if err != nil {
				t.Fatalf("failed to sign test token: %v", err)
			}

			provider := &tu.MockProvider{
				IssueTokenFunc: func(ctx context.Context) (*oauth2.Token, error) {
					return &oauth2.Token{AccessToken: raw}, nil
				},
			}

			ctrl := NewController(NewStore(newTestDB(t)), provider, nil)
			if err := ctrl.Login(context.Background(), "user@example.com", "hunter2"); err != nil {
				t.Fatalf("login failed: %v", err)
			}

			got, err := ctrl.SessionExpiry()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !got.Equal(expiry) {
				t.Errorf("expected expiry %v, got %v", expiry, got)
			}
		})
	})
}
