// Package auth provides TokenProvider, the caller-facing side of a local implicit-grant
// login: it keeps the current user access token and its scopes and runs a browser login
// through a server.Server only when more scopes are needed.
package auth
