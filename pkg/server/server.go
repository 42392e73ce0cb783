package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Suhaibinator/GOAuthLocal/pkg/providers"
)

// State is the lifecycle state of the callback socket.
type State int

const (
	StateIdle            State = iota // No socket.
	StateStarting                     // Bind in progress.
	StateListening                    // Socket bound and serving.
	StateClosingGraceful              // Grace period elapsed. Held only inside the close critical section; the close log entry records it.
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateListening:
		return "listening"
	case StateClosingGraceful:
		return "closing"
	default:
		return "unknown"
	}
}

// Server is the local OAuth redirect listener. It opens the provider's authorize
// page, serves the redirect URI on loopback and settles at most one pending
// Request at a time with the token (or error) delivered to the callback.
//
// All state transitions happen under mu; events and the browser launcher are
// invoked after it is released.
type Server struct {
	clientID     string
	redirectURI  *url.URL
	bindAddr     string
	authPath     string
	provider     providers.Provider
	loginTimeout time.Duration
	closeTimeout time.Duration
	logger       *zap.Logger
	events       EventSink
	openURL      func(string) error
	clock        clockwork.Clock
	listen       func(ctx context.Context, network, address string) (net.Listener, error)

	bind    singleflight.Group
	states  *stateRegistry
	sockets *socketRegistry

	mu              sync.Mutex
	state           State
	httpServer      *http.Server
	addr            string // Bound address, empty unless listening.
	pending         *Request
	loginTimer      clockwork.Timer
	closeTimer      clockwork.Timer
	forceVerify     bool
	forceVerifyOnce bool
}

// New creates a Server. The socket is not bound until the first Listen call.
func New(cfg Config) (*Server, error) {
	if cfg.ClientID == "" {
		return nil, ErrMissingClientID
	}
	u, bindAddr, authPath, err := parseRedirectURI(cfg.RedirectURI)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return &Server{
		clientID:        cfg.ClientID,
		redirectURI:     u,
		bindAddr:        bindAddr,
		authPath:        authPath,
		provider:        cfg.Provider,
		loginTimeout:    cfg.LoginTimeout,
		closeTimeout:    cfg.CloseTimeout,
		logger:          cfg.Logger.Named("server"),
		events:          cfg.Events,
		openURL:         cfg.OpenURL,
		clock:           cfg.Clock,
		listen:          (&net.ListenConfig{}).Listen,
		states:          newStateRegistry(),
		sockets:         newSocketRegistry(),
		forceVerify:     cfg.ForceVerify || cfg.ForceVerifyOnce,
		forceVerifyOnce: cfg.ForceVerifyOnce,
	}, nil
}

// ClientID returns the configured OAuth client ID.
func (s *Server) ClientID() string { return s.clientID }

// State returns the current socket state.
func (s *Server) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Addr returns the bound address, or "" when the socket is not listening.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// RedirectURI returns the redirect URI sent to the provider. When the configured
// port is 0 and the socket is bound, the actual port is substituted.
func (s *Server) RedirectURI() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.redirectURILocked()
}

func (s *Server) redirectURILocked() string {
	if s.redirectURI.Port() != "0" || s.addr == "" {
		return s.redirectURI.String()
	}
	_, port, err := net.SplitHostPort(s.addr)
	if err != nil {
		return s.redirectURI.String()
	}
	u := *s.redirectURI
	u.Host = net.JoinHostPort(s.redirectURI.Hostname(), port)
	return u.String()
}

// Pending reports whether a login attempt is currently active.
func (s *Server) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// EnableForceVerify makes authorize URLs force the consent screen. With once set,
// only the next authorize URL does and both flags are cleared after it is built.
func (s *Server) EnableForceVerify(once bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forceVerify = true
	s.forceVerifyOnce = once
}

// DisableForceVerify clears both force-verify flags.
func (s *Server) DisableForceVerify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forceVerify = false
	s.forceVerifyOnce = false
}

// ForceVerify returns the current force-verify flags.
func (s *Server) ForceVerify() (forceVerify, once bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forceVerify, s.forceVerifyOnce
}

// Listen starts a login attempt for scopes and blocks until it is settled.
// If ctx ends first the attempt is rejected with KindCanceled.
func (s *Server) Listen(ctx context.Context, scopes []string) (Token, error) {
	req, err := s.Start(ctx, scopes)
	if err != nil {
		return Token{}, err
	}

	select {
	case <-req.Done():
	case <-ctx.Done():
		s.settle(req, Token{}, &Error{Kind: KindCanceled, Message: "Login canceled", Err: ctx.Err()})
		// Either our rejection or a settlement that raced with it.
		<-req.Done()
	}
	return req.token, req.err
}

// Start begins a login attempt and returns without waiting for the callback.
// Any active attempt is rejected with KindInvalidated before the new one is created.
// A bind failure rejects the new attempt with KindListenFailed and is also returned.
func (s *Server) Start(ctx context.Context, scopes []string) (*Request, error) {
	logger := s.logger.Named("listen")

	s.mu.Lock()
	prev := s.pending
	var invalidated *Error
	if prev != nil {
		invalidated = newError(KindInvalidated, "Invalidated by new request")
		s.settleLocked(prev, Token{}, invalidated)
	}
	req := newRequest(s.states.issue(), scopes, s.clock.Now())
	s.pending = req
	s.mu.Unlock()

	if prev != nil {
		logger.Info("Previous login attempt invalidated by new request")
		s.notifySettled(prev, Token{}, invalidated)
	}
	s.emit(Event{Kind: EventListen, Scopes: scopes})

	if err := s.ensureListening(ctx); err != nil {
		logger.Error("Failed to start callback listener", zap.String("addr", s.bindAddr), zap.Error(err))
		lerr := &Error{Kind: KindListenFailed, Message: "Failed to start the callback listener", Err: err}
		s.settle(req, Token{}, lerr)
		return req, lerr
	}

	s.mu.Lock()
	if s.pending != req {
		// Superseded or closed while the socket was being bound. With nothing
		// pending the fresh socket would otherwise stay bound with no timer.
		if s.pending == nil && s.httpServer != nil {
			s.scheduleCloseLocked()
		}
		s.mu.Unlock()
		return req, nil
	}
	s.resetLoginTimerLocked(req)
	authURL := s.authorizeURLLocked(req)
	s.mu.Unlock()

	s.openBrowser(authURL)
	return req, nil
}

// Close rejects any active attempt with KindInvalidated and closes the socket immediately.
func (s *Server) Close() error {
	s.mu.Lock()
	prev := s.pending
	var closed *Error
	if prev != nil {
		closed = newError(KindInvalidated, "Server closed")
		s.settleLocked(prev, Token{}, closed)
	}
	wasOpen, err := s.closeLocked()
	s.mu.Unlock()

	if prev != nil {
		s.notifySettled(prev, Token{}, closed)
	}
	if wasOpen {
		s.emit(Event{Kind: EventClose})
	}
	return err
}

// ensureListening binds the socket if needed. Concurrent callers share one bind.
func (s *Server) ensureListening(ctx context.Context) error {
	ch := s.bind.DoChan("bind", func() (any, error) {
		return nil, s.bindSocket()
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) bindSocket() error {
	logger := s.logger.Named("bind")

	s.mu.Lock()
	if s.httpServer != nil {
		s.mu.Unlock()
		return nil
	}
	s.state = StateStarting
	s.mu.Unlock()

	ln, err := s.listen(context.Background(), "tcp", s.bindAddr)

	s.mu.Lock()
	if err != nil {
		s.state = StateIdle
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.bindAddr, err)
	}
	srv := &http.Server{
		Handler:           s,
		ConnState:         s.sockets.trackState,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          zap.NewStdLog(s.logger.Named("http")),
	}
	s.httpServer = srv
	s.addr = ln.Addr().String()
	s.state = StateListening
	addr := s.addr
	s.mu.Unlock()

	go s.serve(srv, ln)

	logger.Info("Auth server listening", zap.String("addr", addr))
	s.emit(Event{Kind: EventListening, Addr: addr})
	return nil
}

func (s *Server) serve(srv *http.Server, ln net.Listener) {
	err := srv.Serve(ln)
	if err == nil || errors.Is(err, http.ErrServerClosed) {
		return
	}

	s.logger.Error("Auth server stopped unexpectedly", zap.Error(err))
	s.mu.Lock()
	if s.httpServer != srv {
		s.mu.Unlock()
		return
	}
	req := s.pending
	var failed *Error
	if req != nil {
		failed = &Error{Kind: KindUnknown, Message: "Callback listener stopped", Err: err}
		s.settleLocked(req, Token{}, failed)
	}
	_, _ = s.closeLocked()
	s.mu.Unlock()

	if req != nil {
		s.notifySettled(req, Token{}, failed)
	}
	s.emit(Event{Kind: EventClose})
}

// authorizeURLLocked builds the authorize URL for req and consumes a one-shot force-verify.
func (s *Server) authorizeURLLocked(req *Request) string {
	authURL := providers.AuthorizeURL(s.provider, providers.AuthorizeRequest{
		ClientID:    s.clientID,
		RedirectURI: s.redirectURILocked(),
		State:       req.state,
		Scopes:      req.scopes,
		ForceVerify: s.forceVerify || s.forceVerifyOnce,
	})
	if s.forceVerifyOnce {
		s.forceVerify = false
		s.forceVerifyOnce = false
	}
	return authURL
}

// openBrowser hands the URL to the launcher. Failures are reported as events only,
// the user can still open the URL by hand.
func (s *Server) openBrowser(authURL string) {
	logger := s.logger.Named("browser")
	logger.Info("Open auth page", zap.String("provider", s.provider.Name()), zap.String("url", redactState(authURL)))
	s.emit(Event{Kind: EventBrowserOpen, URL: authURL})

	if err := s.openURL(authURL); err != nil {
		logger.Warn("Failed to open browser", zap.Error(err))
		s.emit(Event{Kind: EventError, Err: &Error{Kind: KindBrowserOpen, Message: "Failed to open browser", Err: err}})
	}
}

// resolve settles the active request with tok. It is a no-op when nothing is active.
func (s *Server) resolve(tok Token) bool {
	return s.settle(nil, tok, nil)
}

// reject settles the active request with err. It is a no-op when nothing is active.
func (s *Server) reject(err error) bool {
	return s.settle(nil, Token{}, err)
}

// settle settles req if it is still the active request; a nil req targets the
// active request, whichever it is.
func (s *Server) settle(req *Request, tok Token, err error) bool {
	s.mu.Lock()
	if req == nil {
		req = s.pending
	}
	if req == nil || s.pending != req {
		s.mu.Unlock()
		return false
	}
	s.settleLocked(req, tok, err)
	s.mu.Unlock()

	s.notifySettled(req, tok, err)
	return true
}

// settleLocked clears the active slot, stops the login timer and arms the grace-close
// timer before settling req, so anyone woken by req.Done observes the armed timer.
func (s *Server) settleLocked(req *Request, tok Token, err error) {
	if s.pending == req {
		s.pending = nil
	}
	stopTimer(&s.loginTimer)
	s.scheduleCloseLocked()
	req.settle(tok, err)
}

func (s *Server) notifySettled(req *Request, tok Token, err error) {
	elapsed := s.clock.Since(req.createdAt)
	if err != nil {
		s.logger.Info("Login attempt rejected", zap.String("kind", string(KindOf(err))), zap.Error(err))
		s.emit(Event{Kind: EventError, Err: err, Elapsed: elapsed})
		return
	}
	s.logger.Info("Login attempt resolved", zap.String("scope", tok.Scope), zap.Duration("elapsed", elapsed))
	s.emit(Event{Kind: EventAccessToken, Token: &tok, Elapsed: elapsed})
}

func (s *Server) resetLoginTimerLocked(req *Request) {
	stopTimer(&s.loginTimer)
	s.loginTimer = s.clock.AfterFunc(s.loginTimeout, func() { s.onLoginTimeout(req) })
}

// onLoginTimeout rejects req if it is still active and force-closes the socket.
// A timer that fires after req was settled does nothing.
func (s *Server) onLoginTimeout(req *Request) {
	s.mu.Lock()
	if s.pending != req {
		s.mu.Unlock()
		return
	}
	timeout := newError(KindLoginTimeout, "Login timeout")
	s.settleLocked(req, Token{}, timeout)
	wasOpen, err := s.closeLocked()
	s.mu.Unlock()

	s.logger.Warn("Login timeout, auth server force closed", zap.Duration("timeout", s.loginTimeout))
	if err != nil {
		s.logger.Warn("Error while closing auth server", zap.Error(err))
	}
	s.notifySettled(req, Token{}, timeout)
	if wasOpen {
		s.emit(Event{Kind: EventClose})
	}
}

func (s *Server) scheduleCloseLocked() {
	stopTimer(&s.closeTimer)
	s.closeTimer = s.clock.AfterFunc(s.closeTimeout, s.onCloseTimeout)
}

// onCloseTimeout closes the socket unless a new attempt started during the grace period.
func (s *Server) onCloseTimeout() {
	s.mu.Lock()
	if s.pending != nil || s.httpServer == nil {
		s.mu.Unlock()
		return
	}
	s.state = StateClosingGraceful
	wasOpen, err := s.closeLocked()
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("Error while closing auth server", zap.Error(err))
	}
	if wasOpen {
		s.emit(Event{Kind: EventClose})
	}
}

// closeLocked destroys every tracked connection and closes the socket.
// It reports whether a socket was open.
func (s *Server) closeLocked() (bool, error) {
	stopTimer(&s.loginTimer)
	stopTimer(&s.closeTimer)
	if s.httpServer == nil {
		s.state = StateIdle
		return false, nil
	}
	from := s.state

	destroyed := s.sockets.destroyAll()
	err := s.httpServer.Close()
	s.httpServer = nil
	s.addr = ""
	s.state = StateIdle

	s.logger.Info("Auth server closed", zap.Stringer("from", from), zap.Int("connections_destroyed", destroyed))
	return true, err
}

func (s *Server) emit(e Event) {
	s.events.HandleEvent(e)
}

func stopTimer(t *clockwork.Timer) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}

// redactState masks the state parameter of a URL for logging.
func redactState(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if q.Get("state") == "" {
		return raw
	}
	q.Set("state", "REDACTED")
	u.RawQuery = q.Encode()
	return u.String()
}
