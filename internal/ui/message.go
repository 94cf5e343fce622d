package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/taskdeck/taskdeck/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgLoginDone MsgKind = iota
	MsgTasksLoaded
	MsgTaskCreated
	MsgTaskToggled
	MsgTaskDeleted
	MsgLoggedOut
)

// loginDoneMsg is the constructor for [MsgLoginDone]
func loginDoneMsg(err error) Msg {
	return Msg{kind: MsgLoginDone, data: err}
}

// tasksLoadedMsg is the constructor for [MsgTasksLoaded]
func tasksLoadedMsg(err error) Msg {
	return Msg{kind: MsgTasksLoaded, data: err}
}

// taskCreatedMsg is the constructor for [MsgTaskCreated]
func taskCreatedMsg(task *models.Task, err error) Msg {
	return Msg{
		kind: MsgTaskCreated,
		data: struct {
			task *models.Task
			err  error
		}{task, err},
	}
}

// taskToggledMsg is the constructor for [MsgTaskToggled]
func taskToggledMsg(task *models.Task, err error) Msg {
	return Msg{
		kind: MsgTaskToggled,
		data: struct {
			task *models.Task
			err  error
		}{task, err},
	}
}

// taskDeletedMsg is the constructor for [MsgTaskDeleted]
func taskDeletedMsg(err error) Msg {
	return Msg{kind: MsgTaskDeleted, data: err}
}

// loggedOutMsg is the constructor for [MsgLoggedOut]
func loggedOutMsg(err error) Msg {
	return Msg{kind: MsgLoggedOut, data: err}
}

// msgErr extracts the error payload from messages that carry one.
func (m Msg) err() error {
	switch data := m.data.(type) {
	case error:
		return data
	case struct {
		task *models.Task
		err  error
	}:
		return data.err
	case nil:
		return nil
	}
	return nil
}
