package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/julien040/go-ternary"
	"go.uber.org/zap"
)

const (
	pathToken   = "/token"
	pathError   = "/error"
	pathStyle   = "/style.css"
	pathFavicon = "/favicon.ico"
)

// ServeHTTP dispatches on the request path only; the method is ignored.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := s.logger.Named("request").With(zap.String("path", r.URL.Path), zap.String("remote_addr", r.RemoteAddr))
	logger.Debug("Callback request received")

	var err error
	switch r.URL.Path {
	case s.authPath:
		err = sendPage(w, http.StatusOK, pageAuth, contentTypeHTML, nil)
	case pathToken:
		err = s.handleToken(w, r)
	case pathError:
		err = s.handleError(w, r)
	case pathStyle:
		err = sendPage(w, http.StatusOK, assetStyle, contentTypeCSS, nil)
	case pathFavicon:
		err = sendPage(w, http.StatusOK, assetFavicon, contentTypeIcon, nil)
	default:
		logger.Info("Error 404", zap.String("method", r.Method))
		err = sendPage(w, http.StatusNotFound, pageNotFound, contentTypeHTML, nil)
	}
	if err != nil {
		logger.Warn("Failed to write response", zap.Error(err))
	}
}

// handleToken receives the token forwarded by the auth landing page. The state
// token is consumed whether or not the callback is accepted, so it cannot be replayed.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	state := q.Get("state")
	scope := q.Get("scope")
	accessToken := q.Get("access_token")

	validState := s.states.consume(state)
	if validState && scope != "" && accessToken != "" {
		err := sendPage(w, http.StatusOK, pageLoggedIn, contentTypeHTML, nil)
		flush(w)
		tok := Token{
			AccessToken: accessToken,
			Scope:       scope,
			TokenType:   q.Get("token_type"),
			ExpiresIn:   parseExpiresIn(q.Get("expires_in")),
		}
		if !s.resolve(tok) {
			s.logger.Info("Token callback received with no active login attempt")
		}
		return err
	}

	message := ErrInvalidState.Message
	s.logger.Warn("Token callback rejected",
		zap.Bool("state_valid", validState),
		zap.Bool("has_scope", scope != ""),
		zap.Bool("has_access_token", accessToken != ""))
	err := sendPage(w, http.StatusOK, pageError, contentTypeHTML, map[string]string{"message": message})
	flush(w)
	s.reject(newError(KindInvalidState, message))
	return err
}

// handleError receives an error reported by the provider.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	kind := q.Get("error")
	kind = ternary.If(kind == "", string(KindUnknown), kind)
	message := q.Get("error_description")
	message = ternary.If(message == "", "Undefined error", message)

	err := sendPage(w, http.StatusOK, pageError, contentTypeHTML, map[string]string{"message": message})
	flush(w)
	s.reject(newError(ErrorKind(strings.ToUpper(kind)), message))
	return err
}

// flush pushes a written page to the client before the login is settled. Settling
// wakes the caller, which may close the server and destroy the connection.
func flush(w http.ResponseWriter) {
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// parseExpiresIn converts an expires_in value in seconds; invalid values yield 0.
func parseExpiresIn(v string) time.Duration {
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
