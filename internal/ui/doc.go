// Package ui implements the interactive terminal dashboard.
//
// The model runs three views: a login form, the task dashboard (list
// with status filter and sorting), and a create form. It consumes the
// session and task controllers; completion toggles render optimistically
// and settle when the controller reports the server's answer. When any
// operation reports an expired session the model returns to the login
// view — navigation policy lives here, not in the data layer.
package ui
