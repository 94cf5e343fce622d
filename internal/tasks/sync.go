package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/shared"
)

// Task service endpoints, scoped by owning user.
func tasksPath(userID string) string {
	return fmt.Sprintf("/api/%s/tasks", userID)
}

func taskPath(userID, taskID string) string {
	return fmt.Sprintf("/api/%s/tasks/%s", userID, taskID)
}

func togglePath(userID, taskID string) string {
	return fmt.Sprintf("/api/%s/tasks/%s/complete", userID, taskID)
}

// API is the slice of [services.Client] the controller uses. The
// abstraction keeps tests decoupled from the concrete client.
type API interface {
	Get(ctx context.Context, path string, result any) error
	Post(ctx context.Context, path string, body, result any) error
	Put(ctx context.Context, path string, body, result any) error
	Patch(ctx context.Context, path string, body, result any) error
	Delete(ctx context.Context, path string) error
}

// Controller owns the in-memory task collection for the currently
// loaded user. The error field holds the last failure's message until
// [Controller.ClearError]; mutating operations record and also return
// their error.
//
// State access is guarded by a mutex, but concurrent toggles on the
// same task are not serialized: the rollback of one can clobber the
// optimistic flip of the other, last write wins.
type Controller struct {
	mu        sync.RWMutex
	api       API
	logger    *log.Logger
	tasks     []models.Task
	isLoading bool
	err       string
}

// NewController creates a task controller over the given API client.
func NewController(api API, logger *log.Logger) *Controller {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Controller{
		api:    api,
		logger: shared.WithLogger(logger, "component", "tasks"),
	}
}

// SetLogger replaces the controller's logger.
func (c *Controller) SetLogger(logger *log.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger = shared.WithLogger(logger, "component", "tasks")
}

// Tasks returns a copy of the current collection, newest first.
func (c *Controller) Tasks() []models.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// IsLoading reports whether a non-optimistic operation is in flight.
func (c *Controller) IsLoading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isLoading
}

// Err returns the message of the last failed operation, or "".
func (c *Controller) Err() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// ClearError resets the recorded error. Callers clear before the next
// operation to avoid stale display.
func (c *Controller) ClearError() {
	c.mu.Lock()
	c.err = ""
	c.mu.Unlock()
}

// List fetches the user's full collection and replaces the in-memory
// one. On failure the previous collection stays untouched and the
// error is recorded.
func (c *Controller) List(ctx context.Context, userID string) error {
	c.begin()

	var fetched []models.Task
	if err := c.api.Get(ctx, tasksPath(userID), &fetched); err != nil {
		c.fail(err)
		return err
	}

	c.mu.Lock()
	if fetched == nil {
		fetched = []models.Task{}
	}
	c.tasks = fetched
	c.isLoading = false
	c.mu.Unlock()

	c.logger.Debug("task collection replaced", "user", userID, "count", len(fetched))
	return nil
}

// Get fetches a single task without touching the in-memory collection.
// A missing task surfaces as an error whose kind is NotFound.
func (c *Controller) Get(ctx context.Context, userID, taskID string) (*models.Task, error) {
	c.begin()

	var task models.Task
	if err := c.api.Get(ctx, taskPath(userID, taskID), &task); err != nil {
		c.fail(err)
		return nil, err
	}

	c.mu.Lock()
	c.isLoading = false
	c.mu.Unlock()
	return &task, nil
}

// Create submits a new task and prepends the server's representation to
// the collection. Existing entries keep their positions.
func (c *Controller) Create(ctx context.Context, userID string, req models.TaskCreateRequest) (*models.Task, error) {
	if err := req.Validate(); err != nil {
		c.record(err)
		return nil, err
	}

	c.begin()

	var created models.Task
	if err := c.api.Post(ctx, tasksPath(userID), req, &created); err != nil {
		c.fail(err)
		return nil, err
	}

	c.mu.Lock()
	c.tasks = append([]models.Task{created}, c.tasks...)
	c.isLoading = false
	c.mu.Unlock()

	c.logger.Debug("task created", "user", userID, "task", created.ID)
	return &created, nil
}

// Update submits a partial update and replaces the matching entry in
// place with the server's representation.
func (c *Controller) Update(ctx context.Context, userID, taskID string, req models.TaskUpdateRequest) (*models.Task, error) {
	if err := req.Validate(); err != nil {
		c.record(err)
		return nil, err
	}

	c.begin()

	var updated models.Task
	if err := c.api.Put(ctx, taskPath(userID, taskID), req, &updated); err != nil {
		c.fail(err)
		return nil, err
	}

	c.mu.Lock()
	c.replace(taskID, updated)
	c.isLoading = false
	c.mu.Unlock()

	return &updated, nil
}

// Delete removes a task on the server and drops the matching entry; the
// remaining entries keep their relative order.
func (c *Controller) Delete(ctx context.Context, userID, taskID string) error {
	c.begin()

	if err := c.api.Delete(ctx, taskPath(userID, taskID)); err != nil {
		c.fail(err)
		return err
	}

	c.mu.Lock()
	kept := c.tasks[:0:0]
	for _, t := range c.tasks {
		if t.ID != taskID {
			kept = append(kept, t)
		}
	}
	c.tasks = kept
	c.isLoading = false
	c.mu.Unlock()

	return nil
}

// ToggleComplete optimistically flips the completion flag of the
// matching entry, then asks the server to toggle. On success the entry
// is replaced with the server's representation, which may carry other
// completion side effects. On failure the whole collection is restored
// from the pre-flip snapshot in a single assignment.
func (c *Controller) ToggleComplete(ctx context.Context, userID, taskID string) (*models.Task, error) {
	c.mu.Lock()
	snapshot := make([]models.Task, len(c.tasks))
	copy(snapshot, c.tasks)

	flipped := make([]models.Task, len(c.tasks))
	copy(flipped, c.tasks)
	for i := range flipped {
		if flipped[i].ID == taskID {
			flipped[i].IsCompleted = !flipped[i].IsCompleted
			break
		}
	}
	c.tasks = flipped
	c.mu.Unlock()

	var toggled models.Task
	if err := c.api.Patch(ctx, togglePath(userID, taskID), nil, &toggled); err != nil {
		c.mu.Lock()
		c.tasks = snapshot
		c.err = err.Error()
		c.mu.Unlock()
		return nil, err
	}

	c.mu.Lock()
	c.replace(taskID, toggled)
	c.mu.Unlock()

	return &toggled, nil
}

// replace swaps the entry matching id, keeping its position. Caller
// holds the lock.
func (c *Controller) replace(id string, task models.Task) {
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			c.tasks[i] = task
			return
		}
	}
}

// begin marks an operation in flight and clears the previous error.
func (c *Controller) begin() {
	c.mu.Lock()
	c.isLoading = true
	c.err = ""
	c.mu.Unlock()
}

// fail records an operation failure and clears the loading flag.
func (c *Controller) fail(err error) {
	c.mu.Lock()
	c.err = err.Error()
	c.isLoading = false
	c.mu.Unlock()
}

// record stores an error message without touching the loading flag.
func (c *Controller) record(err error) {
	c.mu.Lock()
	c.err = err.Error()
	c.mu.Unlock()
}
