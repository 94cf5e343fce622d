package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/session"
	"github.com/taskdeck/taskdeck/internal/shared"
	"github.com/taskdeck/taskdeck/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoginView ViewState = iota
	DashboardView
	CreateView
)

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	view    ViewState
	auth    *session.Controller
	tasks   *tasks.Controller
	width   int
	height  int
	filters models.TaskFilters

	taskList list.Model

	emailInput    textinput.Model
	passwordInput textinput.Model
	titleInput    textinput.Model
	descInput     textinput.Model
	priority      models.Priority
	focused       int

	status string
	help   help.Model
	keys   keyMap
}

// NewModel creates a new TUI model with the provided controllers.
func NewModel(ctx context.Context, auth *session.Controller, taskCtrl *tasks.Controller) *Model {
	email := textinput.New()
	email.Placeholder = "email"
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword

	title := textinput.New()
	title.Placeholder = "title"
	title.CharLimit = models.TitleMaxLen

	desc := textinput.New()
	desc.Placeholder = "description (optional)"
	desc.CharLimit = models.DescriptionMaxLen

	taskList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	taskList.Title = "Tasks"
	taskList.SetShowHelp(false)

	m := &Model{
		ctx:           ctx,
		view:          LoginView,
		auth:          auth,
		tasks:         taskCtrl,
		filters:       models.DefaultFilters(),
		taskList:      taskList,
		emailInput:    email,
		passwordInput: password,
		titleInput:    title,
		descInput:     desc,
		priority:      models.PriorityMedium,
		help:          help.New(),
		keys:          newKeyMap(),
	}

	if auth.State().IsAuthenticated {
		m.view = DashboardView
	}

	return m
}

// Init fetches the task collection when a session already exists.
func (m *Model) Init() tea.Cmd {
	if m.view == DashboardView {
		return m.fetchTasks()
	}
	return textinput.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.taskList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case LoginView:
			return m.handleLoginKeys(msg)
		case DashboardView:
			return m.handleDashboardKeys(msg)
		case CreateView:
			return m.handleCreateKeys(msg)
		}

	case Msg:
		return m.handleAppMsg(msg)
	}

	return m.updateFocused(msg)
}

func (m *Model) handleAppMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgLoginDone:
		if err := msg.err(); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.status = ""
		m.passwordInput.SetValue("")
		m.view = DashboardView
		return m, m.fetchTasks()

	case MsgTasksLoaded:
		if err := msg.err(); err != nil {
			return m, m.reportError(err)
		}
		m.status = ""
		m.refreshList()
		return m, nil

	case MsgTaskCreated:
		if err := msg.err(); err != nil {
			return m, m.reportError(err)
		}
		m.status = ""
		m.titleInput.SetValue("")
		m.descInput.SetValue("")
		m.priority = models.PriorityMedium
		m.view = DashboardView
		m.refreshList()
		return m, nil

	case MsgTaskToggled, MsgTaskDeleted:
		// Authoritative state (or the rollback) lives in the controller.
		if err := msg.err(); err != nil {
			m.refreshList()
			return m, m.reportError(err)
		}
		m.status = ""
		m.refreshList()
		return m, nil

	case MsgLoggedOut:
		if err := msg.err(); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.status = ""
		m.view = LoginView
		m.focused = 0
		m.emailInput.Focus()
		m.passwordInput.Blur()
		return m, textinput.Blink
	}

	return m, nil
}

// reportError surfaces an operation failure. An expired session sends
// the user back to the login view.
func (m *Model) reportError(err error) tea.Cmd {
	if errors.Is(err, shared.ErrSessionExpired) {
		m.view = LoginView
		m.focused = 0
		m.emailInput.Focus()
		m.passwordInput.Blur()
		m.status = "Session expired. Please log in again."
		return textinput.Blink
	}
	m.status = err.Error()
	return nil
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit) && msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.nextFld):
		m.focused = (m.focused + 1) % 2
		if m.focused == 0 {
			m.emailInput.Focus()
			m.passwordInput.Blur()
		} else {
			m.emailInput.Blur()
			m.passwordInput.Focus()
		}
		return m, textinput.Blink
	case key.Matches(msg, m.keys.enter):
		if m.auth.State().IsLoading {
			return m, nil
		}
		m.status = "Signing in..."
		return m, m.submitLogin()
	}

	return m.updateFocused(msg)
}

func (m *Model) handleDashboardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.taskList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.taskList, cmd = m.taskList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.reload):
		m.tasks.ClearError()
		return m, m.fetchTasks()
	case key.Matches(msg, m.keys.create):
		m.view = CreateView
		m.focused = 0
		m.titleInput.Focus()
		m.descInput.Blur()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.filter):
		m.filters.Status = nextStatusFilter(m.filters.Status)
		m.refreshList()
		return m, nil
	case key.Matches(msg, m.keys.sort):
		if m.filters.SortBy == models.SortByCreatedAt {
			m.filters.SortBy = models.SortByPriority
		} else {
			m.filters.SortBy = models.SortByCreatedAt
		}
		m.refreshList()
		return m, nil
	case key.Matches(msg, m.keys.order):
		if m.filters.SortOrder == models.SortDesc {
			m.filters.SortOrder = models.SortAsc
		} else {
			m.filters.SortOrder = models.SortDesc
		}
		m.refreshList()
		return m, nil
	case key.Matches(msg, m.keys.toggle):
		if item, ok := m.taskList.SelectedItem().(taskItem); ok {
			// Show the flip immediately; the controller settles it.
			flipped := item.task
			flipped.IsCompleted = !flipped.IsCompleted
			m.taskList.SetItem(m.taskList.Index(), taskItem{task: flipped})
			return m, m.toggleTask(item.task.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.delete):
		if item, ok := m.taskList.SelectedItem().(taskItem); ok {
			return m, m.deleteTask(item.task.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.logout):
		return m, m.logout()
	}

	var cmd tea.Cmd
	m.taskList, cmd = m.taskList.Update(msg)
	return m, cmd
}

func (m *Model) handleCreateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.view = DashboardView
		return m, nil
	case key.Matches(msg, m.keys.nextFld):
		m.focused = (m.focused + 1) % 2
		if m.focused == 0 {
			m.titleInput.Focus()
			m.descInput.Blur()
		} else {
			m.titleInput.Blur()
			m.descInput.Focus()
		}
		return m, textinput.Blink
	case msg.String() == "left":
		m.priority = prevPriority(m.priority)
		return m, nil
	case msg.String() == "right":
		m.priority = nextPriority(m.priority)
		return m, nil
	case key.Matches(msg, m.keys.enter):
		return m, m.submitCreate()
	}

	return m.updateFocused(msg)
}

func (m *Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case LoginView:
		if m.focused == 0 {
			m.emailInput, cmd = m.emailInput.Update(msg)
		} else {
			m.passwordInput, cmd = m.passwordInput.Update(msg)
		}
	case CreateView:
		if m.focused == 0 {
			m.titleInput, cmd = m.titleInput.Update(msg)
		} else {
			m.descInput, cmd = m.descInput.Update(msg)
		}
	case DashboardView:
		m.taskList, cmd = m.taskList.Update(msg)
	}
	return m, cmd
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case LoginView:
		return m.renderLogin()
	case DashboardView:
		return m.renderDashboard()
	case CreateView:
		return m.renderCreate()
	default:
		return ""
	}
}

func (m *Model) renderLogin() string {
	title := styles.title.Render("taskdeck — sign in")

	var status string
	if m.status != "" {
		status = "\n" + styles.err.Render(m.status)
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.nextFld, m.keys.enter, m.keys.quit})

	return fmt.Sprintf("%s\n\n%s\n%s\n%s\n\n%s",
		title, m.emailInput.View(), m.passwordInput.View(), status, helpView)
}

func (m *Model) renderDashboard() string {
	var status string
	if m.status != "" {
		status = styles.err.Render(m.status) + "\n"
	}

	filterLine := styles.help.Render(fmt.Sprintf(
		"filter: %s • sort: %s %s", m.filters.Status, m.filters.SortBy, m.filters.SortOrder))

	helpView := m.help.ShortHelpView([]key.Binding{
		m.keys.toggle, m.keys.create, m.keys.delete,
		m.keys.filter, m.keys.sort, m.keys.order,
		m.keys.reload, m.keys.logout, m.keys.quit,
	})

	return fmt.Sprintf("%s\n%s%s\n\n%s", m.taskList.View(), status, filterLine, helpView)
}

func (m *Model) renderCreate() string {
	title := styles.title.Render("New task")
	priorityLine := fmt.Sprintf("priority: %s", styles.warn.Render(string(m.priority)))

	var status string
	if m.status != "" {
		status = "\n" + styles.err.Render(m.status)
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.nextFld, m.keys.enter, m.keys.back})

	return fmt.Sprintf("%s\n\n%s\n%s\n%s    (←/→ to change)\n%s\n\n%s",
		title, m.titleInput.View(), m.descInput.View(), priorityLine, status, helpView)
}

func (m *Model) refreshList() {
	m.taskList.SetItems(taskItems(m.tasks.Tasks(), m.filters))
}

// userID returns the current session's user ID, or "" when anonymous.
func (m *Model) userID() string {
	state := m.auth.State()
	if state.User == nil {
		return ""
	}
	return state.User.ID
}

func (m *Model) fetchTasks() tea.Cmd {
	uid := m.userID()
	return func() tea.Msg {
		if uid == "" {
			return tasksLoadedMsg(shared.ErrNotAuthenticated)
		}
		return tasksLoadedMsg(m.tasks.List(m.ctx, uid))
	}
}

func (m *Model) submitLogin() tea.Cmd {
	email := m.emailInput.Value()
	password := m.passwordInput.Value()
	return func() tea.Msg {
		return loginDoneMsg(m.auth.Login(m.ctx, email, password))
	}
}

func (m *Model) submitCreate() tea.Cmd {
	req := models.TaskCreateRequest{
		Title:    m.titleInput.Value(),
		Priority: m.priority,
	}
	if desc := m.descInput.Value(); desc != "" {
		req.Description = &desc
	}

	uid := m.userID()
	return func() tea.Msg {
		task, err := m.tasks.Create(m.ctx, uid, req)
		return taskCreatedMsg(task, err)
	}
}

func (m *Model) toggleTask(taskID string) tea.Cmd {
	uid := m.userID()
	return func() tea.Msg {
		task, err := m.tasks.ToggleComplete(m.ctx, uid, taskID)
		return taskToggledMsg(task, err)
	}
}

func (m *Model) deleteTask(taskID string) tea.Cmd {
	uid := m.userID()
	return func() tea.Msg {
		return taskDeletedMsg(m.tasks.Delete(m.ctx, uid, taskID))
	}
}

func (m *Model) logout() tea.Cmd {
	return func() tea.Msg {
		return loggedOutMsg(m.auth.Logout())
	}
}

// nextStatusFilter cycles all → pending → in_progress → completed.
func nextStatusFilter(s models.StatusFilter) models.StatusFilter {
	switch s {
	case models.FilterAll:
		return models.StatusFilter(models.StatusPending)
	case models.StatusFilter(models.StatusPending):
		return models.StatusFilter(models.StatusInProgress)
	case models.StatusFilter(models.StatusInProgress):
		return models.StatusFilter(models.StatusCompleted)
	default:
		return models.FilterAll
	}
}

func nextPriority(p models.Priority) models.Priority {
	switch p {
	case models.PriorityLow:
		return models.PriorityMedium
	case models.PriorityMedium:
		return models.PriorityHigh
	default:
		return models.PriorityLow
	}
}

func prevPriority(p models.Priority) models.Priority {
	switch p {
	case models.PriorityHigh:
		return models.PriorityMedium
	case models.PriorityMedium:
		return models.PriorityLow
	default:
		return models.PriorityHigh
	}
}
