// Package tasks implements the client-side task collection and its
// synchronization against the task service.
//
// [Controller] owns the ordered in-memory collection for the user the
// caller addresses; every operation takes the owning user ID explicitly
// (authorization is the server's job). Mutations keep the collection
// consistent with the server's responses: create prepends, update and
// toggle replace in place, delete removes. ToggleComplete is the one
// optimistic operation: the completion flag flips before the request
// resolves, and on failure the whole collection is restored from a
// snapshot in a single assignment rather than patched per entry.
package tasks
