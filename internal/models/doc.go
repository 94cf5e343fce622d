// Package models defines the data model shared by the taskdeck client:
// the Task and User wire shapes of the task service and identity
// provider, the request payloads for task mutations, and the view-only
// TaskFilters projection.
//
// Timestamps stay as wire strings (the task service emits naive UTC
// datetimes); [ParseTimestamp] converts them when ordering matters.
package models
