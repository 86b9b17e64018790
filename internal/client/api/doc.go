// Package api implements the REST client for the tillpoint backend.
//
// Every call attaches the bearer access token; an expired token is refreshed
// transparently (proactively when the JWT exp is near, reactively once on a
// 401). Transport-level failures and server faults map to
// common.ErrRemoteUnreachable, reached-but-refused responses map to
// common.ErrRemoteRejected, so the sync layer can tell "queue it" from
// "surface it" with errors.Is.
package api
