// Package server implements the loopback redirect listener of a browser-mediated
// OAuth 2.0 implicit-grant login.
//
// A Server binds the host and port of the registered redirect URI on the first
// Listen call, opens the provider's authorize page in the user's browser and
// waits for the callback:
//
//	<redirect path>  auth landing page, turns the URL fragment into a /token query
//	/token           validates state, resolves the pending login with the token
//	/error           rejects the pending login with the provider's error
//	/style.css       stylesheet
//	/favicon.ico     icon
//
// Only one login attempt is active at a time; starting a new one rejects the
// previous one with KindInvalidated. After an attempt is settled the socket is
// closed once the close timeout elapses, unless a new attempt started meanwhile.
// A login timeout rejects the attempt and closes the socket immediately.
package server
