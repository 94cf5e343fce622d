package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/services"
	"github.com/taskdeck/taskdeck/internal/shared"
	"golang.org/x/oauth2"
)

// State is the in-memory session projection. User and Token are always
// set or cleared together; IsAuthenticated is derived from both.
type State struct {
	User            *models.User
	Token           string
	IsLoading       bool
	IsAuthenticated bool
}

// Provider is the slice of [services.AuthService] the controller uses.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*models.User, string, error)
	SignUp(ctx context.Context, email, password, name string) (*models.User, string, error)
	IssueToken(ctx context.Context) (*oauth2.Token, error)
}

// Controller owns the session state machine. Constructed once at
// process start and passed explicitly to every consumer; there is no
// ambient singleton.
//
// Overlapping Login/Signup calls are not serialized against each other;
// the last state write wins. Callers are expected to disable the
// triggering control while IsLoading is true.
type Controller struct {
	mu       sync.RWMutex
	store    *Store
	provider Provider
	logger   *log.Logger
	state    State
}

// NewController creates a session controller in the Unknown state
// (loading until [Controller.Startup] runs).
func NewController(store *Store, provider Provider, logger *log.Logger) *Controller {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Controller{
		store:    store,
		provider: provider,
		logger:   shared.WithLogger(logger, "component", "session"),
		state:    State{IsLoading: true},
	}
}

// SetLogger replaces the controller's logger.
func (c *Controller) SetLogger(logger *log.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger = shared.WithLogger(logger, "component", "session")
}

// State returns a copy of the current session state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Store exposes the underlying durable store (read-only use expected;
// the controller remains its only writer).
func (c *Controller) Store() *Store {
	return c.store
}

// Startup rehydrates session state from the durable store. A token with
// an unparseable cached user clears the store; anything missing leaves
// the session anonymous.
func (c *Controller) Startup() {
	token := c.store.Token()
	serialized := c.store.User()

	if token != "" && serialized != "" {
		var user models.User
		if err := json.Unmarshal([]byte(serialized), &user); err != nil {
			c.logger.Warn("stored user profile is unreadable, clearing session", "err", err)
			if err := c.store.Clear(); err != nil {
				c.logger.Error("failed to clear session store", "err", err)
			}
			c.setAnonymous()
			return
		}

		c.mu.Lock()
		c.state = State{User: &user, Token: token, IsAuthenticated: true}
		c.mu.Unlock()
		return
	}

	c.setAnonymous()
}

// Login authenticates against the identity provider and persists the
// issued bearer token and user profile.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	c.setLoading(true)

	user, embedded, err := c.provider.SignIn(ctx, email, password)
	if err != nil {
		c.setLoading(false)
		return err
	}

	return c.establish(ctx, user, embedded)
}

// Signup registers a new account; identical shape to [Controller.Login].
func (c *Controller) Signup(ctx context.Context, email, password, name string) error {
	c.setLoading(true)

	user, embedded, err := c.provider.SignUp(ctx, email, password, name)
	if err != nil {
		c.setLoading(false)
		return err
	}

	return c.establish(ctx, user, embedded)
}

// establish obtains a bearer token and transitions to Authenticated.
// The dedicated token endpoint wins over any token embedded in the
// sign-in response; the embedded token is the fallback when the
// endpoint fails.
func (c *Controller) establish(ctx context.Context, user *models.User, embedded string) error {
	bearer := embedded
	if issued, err := c.provider.IssueToken(ctx); err == nil && issued.AccessToken != "" {
		bearer = issued.AccessToken
	} else if err != nil {
		c.logger.Debug("token endpoint unavailable, falling back to sign-in token", "err", err)
	}

	if bearer == "" {
		c.setLoading(false)
		return fmt.Errorf("%w: provider returned no usable token", shared.ErrTokenIssuance)
	}

	serialized, err := json.Marshal(user)
	if err != nil {
		c.setLoading(false)
		return fmt.Errorf("failed to serialize user profile: %w", err)
	}

	if err := c.store.SetToken(bearer); err != nil {
		c.setLoading(false)
		return err
	}
	if err := c.store.SetUser(string(serialized)); err != nil {
		c.setLoading(false)
		return err
	}

	c.mu.Lock()
	c.state = State{User: user, Token: bearer, IsAuthenticated: true}
	c.mu.Unlock()

	c.logger.Info("session established", "user", user.Email)
	return nil
}

// Logout clears the durable store and transitions to Anonymous.
func (c *Controller) Logout() error {
	if err := c.store.Clear(); err != nil {
		return err
	}
	c.setAnonymous()
	c.logger.Info("session cleared")
	return nil
}

// SessionExpiry returns the expiry decoded from the current token's JWT
// claims. Returns an error when no session exists or the token carries
// no expiry.
func (c *Controller) SessionExpiry() (time.Time, error) {
	state := c.State()
	if state.Token == "" {
		return time.Time{}, shared.ErrNotAuthenticated
	}
	return services.TokenExpiry(state.Token)
}

func (c *Controller) setAnonymous() {
	c.mu.Lock()
	c.state = State{}
	c.mu.Unlock()
}

func (c *Controller) setLoading(loading bool) {
	c.mu.Lock()
	c.state.IsLoading = loading
	c.mu.Unlock()
}
