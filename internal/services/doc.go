// Package services implements the HTTP boundary of the taskdeck client.
//
// [Client] issues authenticated JSON requests to the task service and
// normalizes every failure into a typed [APIError] whose [ErrorKind] is
// derived from the HTTP status code, never from message text. On 401 it
// clears the credential store and reports a session-expired error;
// navigation back to a login surface is the presentation layer's
// business.
//
// [AuthService] talks to the identity provider: sign-in and sign-up
// (cookie session plus user profile) and the token-issuance endpoint
// that mints the service-scoped bearer token.
package services
