// Package session owns authentication state on the client.
//
// [Store] is the durable half: a key/value wrapper over the local
// SQLite database holding the bearer token and the serialized user
// profile under fixed keys. It degrades to a no-op when no database is
// available, so non-interactive runs read empty credentials instead of
// failing.
//
// [Controller] is the in-memory half: the login/signup/logout state
// machine. It is the only writer of [Store]; user and token are always
// set or cleared together.
package session
