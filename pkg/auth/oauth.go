package auth

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/Suhaibinator/GOAuthLocal/pkg/providers"
	"github.com/Suhaibinator/GOAuthLocal/pkg/server"
)

// TokenType is the kind of token a TokenProvider hands out. Implicit-grant tokens always belong to a user.
const TokenType = "user"

// Listener runs a browser login for a set of scopes. *server.Server implements it.
type Listener interface {
	Listen(ctx context.Context, scopes []string) (server.Token, error)
}

// TokenProviderOptions holds the configuration of a TokenProvider.
type TokenProviderOptions struct {
	ClientID    string   // OAuth client ID, reported by ClientID.
	RedirectURI string   // Redirect URI, reported by RedirectURI.
	Scopes      []string // Scopes already granted to AccessToken, if any.
	AccessToken string   // A previously obtained access token (optional).
}

// Predefined errors related to the token provider.
var (
	// ErrNilListener indicates that NewTokenProvider was called without a Listener.
	ErrNilListener = errors.New("listener is required")
)

// TokenProvider hands out user access tokens. It remembers the current token and the scopes
// it was granted, and only starts a browser login when a caller asks for a scope that the
// current token does not cover.
type TokenProvider struct {
	listener    Listener                                                  // Runs browser logins.
	logger      *zap.Logger                                               // Shared logger instance.
	logEnricher func(ctx context.Context, logger *zap.Logger) *zap.Logger // Function to enrich logs with request context.

	clientID    string
	redirectURI string

	mu            sync.Mutex
	currentScopes []string      // Scopes granted to accessToken, in grant order.
	accessToken   *server.Token // Nil until a token is set or obtained.
}

// NewTokenProvider creates and initializes a new TokenProvider.
// A nil logEnricher leaves the logger unchanged.
func NewTokenProvider(
	logger *zap.Logger,
	logEnricher func(ctx context.Context, logger *zap.Logger) *zap.Logger,
	listener Listener,
	opts TokenProviderOptions,
) (*TokenProvider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if listener == nil {
		logger.Error("Token provider listener is nil")
		return nil, ErrNilListener
	}
	if logEnricher == nil {
		logEnricher = func(_ context.Context, logger *zap.Logger) *zap.Logger { return logger }
	}

	p := &TokenProvider{
		listener:      listener,
		logger:        logger.Named("token_provider"),
		logEnricher:   logEnricher,
		clientID:      opts.ClientID,
		redirectURI:   opts.RedirectURI,
		currentScopes: providers.UnionScopes(splitScopes(opts.Scopes)),
	}
	if opts.AccessToken != "" {
		p.SetAccessTokenString(opts.AccessToken)
	}
	return p, nil
}

// ClientID returns the configured OAuth client ID.
func (p *TokenProvider) ClientID() string { return p.clientID }

// RedirectURI returns the configured redirect URI.
func (p *TokenProvider) RedirectURI() string { return p.redirectURI }

// TokenType returns "user".
func (p *TokenProvider) TokenType() string { return TokenType }

// CurrentScopes returns a copy of the scopes granted to the current token.
func (p *TokenProvider) CurrentScopes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.currentScopes...)
}

// AccessToken returns the current token, if any.
func (p *TokenProvider) AccessToken() (server.Token, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.accessToken == nil {
		return server.Token{}, false
	}
	return *p.accessToken, true
}

// SetAccessToken replaces the current token. Its scope string becomes the current scope set.
func (p *TokenProvider) SetAccessToken(tok server.Token) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.accessToken = &tok
	p.currentScopes = providers.UnionScopes(tok.Scopes())
}

// SetAccessTokenString stores a bare access token, assumed to carry the current scopes.
func (p *TokenProvider) SetAccessTokenString(accessToken string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.accessToken = &server.Token{
		AccessToken: accessToken,
		Scope:       joinScopes(p.currentScopes),
	}
}

// ClearAccessToken forgets the current token. The scope set is kept so the next login
// asks for at least the same scopes.
func (p *TokenProvider) ClearAccessToken() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.accessToken = nil
}

// GetAccessToken returns a token covering scopes. The known token is returned when it
// already covers every requested scope; otherwise a browser login is started for the
// union of the current and requested scopes.
func (p *TokenProvider) GetAccessToken(ctx context.Context, scopes ...string) (server.Token, error) {
	logger := p.logEnricher(ctx, p.logger).Named("get_access_token")

	requested := splitScopes(scopes)

	p.mu.Lock()
	if p.accessToken != nil && providers.ContainsAll(p.currentScopes, requested) {
		tok := *p.accessToken
		p.mu.Unlock()
		logger.Debug("Using current access token", zap.Strings("scopes", requested))
		return tok, nil
	}
	want := providers.UnionScopes(p.currentScopes, requested)
	p.mu.Unlock()

	logger.Info("Starting browser login", zap.Strings("scopes", want))
	tok, err := p.listener.Listen(ctx, want)
	if err != nil {
		logger.Warn("Browser login failed", zap.String("kind", string(server.KindOf(err))), zap.Error(err))
		return server.Token{}, err
	}

	granted := tok.Scopes()
	if len(granted) == 0 {
		granted = want
		tok.Scope = joinScopes(want)
	}

	p.mu.Lock()
	p.accessToken = &tok
	p.currentScopes = providers.UnionScopes(granted)
	p.mu.Unlock()

	logger.Info("Browser login successful", zap.Strings("granted_scopes", granted))
	return tok, nil
}

// splitScopes expands entries such as "chat:read user:read" into single scopes.
func splitScopes(entries []string) []string {
	var scopes []string
	for _, e := range entries {
		scopes = append(scopes, providers.ParseScopes(e)...)
	}
	return scopes
}
