package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/Suhaibinator/GOAuthLocal/pkg/providers"
)

// Token is the result of a successful login.
type Token struct {
	AccessToken string        // The bearer token returned by the provider.
	Scope       string        // Granted scopes as returned by the provider.
	TokenType   string        // Usually "bearer", if the landing page forwarded it.
	ExpiresIn   time.Duration // Lifetime, if the landing page forwarded it.
}

// tokenJSON is the wire form of Token; expires_in is in whole seconds as in RFC 6749.
type tokenJSON struct {
	AccessToken string `json:"access_token"`
	Scope       string `json:"scope"`
	TokenType   string `json:"token_type,omitempty"`
	ExpiresIn   int64  `json:"expires_in,omitempty"`
}

// MarshalJSON encodes the token with expires_in in seconds.
func (t Token) MarshalJSON() ([]byte, error) {
	return json.Marshal(tokenJSON{
		AccessToken: t.AccessToken,
		Scope:       t.Scope,
		TokenType:   t.TokenType,
		ExpiresIn:   int64(t.ExpiresIn / time.Second),
	})
}

// UnmarshalJSON decodes a token whose expires_in is in seconds.
func (t *Token) UnmarshalJSON(data []byte) error {
	var v tokenJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*t = Token{
		AccessToken: v.AccessToken,
		Scope:       v.Scope,
		TokenType:   v.TokenType,
		ExpiresIn:   time.Duration(v.ExpiresIn) * time.Second,
	}
	return nil
}

// Scopes returns the granted scopes as a list.
func (t Token) Scopes() []string {
	return providers.ParseScopes(t.Scope)
}

// OAuth2 converts the token to an *oauth2.Token, computing the expiry relative to issued.
// The granted scope is available through Extra("scope").
func (t Token) OAuth2(issued time.Time) *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken: t.AccessToken,
		TokenType:   t.TokenType,
	}
	if tok.TokenType == "" {
		tok.TokenType = "bearer"
	}
	if t.ExpiresIn > 0 {
		tok.Expiry = issued.Add(t.ExpiresIn)
	}
	return tok.WithExtra(map[string]any{"scope": t.Scope})
}

// Request is a single in-flight login attempt. It is settled exactly once,
// either with a Token or with an error; later settle calls are no-ops.
type Request struct {
	state     string
	scopes    []string
	createdAt time.Time

	once  sync.Once
	done  chan struct{}
	token Token
	err   error
}

func newRequest(state string, scopes []string, createdAt time.Time) *Request {
	return &Request{
		state:     state,
		scopes:    scopes,
		createdAt: createdAt,
		done:      make(chan struct{}),
	}
}

// State returns the anti-forgery token issued for this attempt.
func (r *Request) State() string { return r.state }

// Scopes returns the scopes requested by the caller.
func (r *Request) Scopes() []string { return r.scopes }

// CreatedAt returns when the attempt was started.
func (r *Request) CreatedAt() time.Time { return r.createdAt }

// Done is closed once the request is settled.
func (r *Request) Done() <-chan struct{} { return r.done }

// Settled reports whether the request has been resolved or rejected.
func (r *Request) Settled() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the request is settled or ctx is done. Returning because of
// ctx does not settle the request.
func (r *Request) Wait(ctx context.Context) (Token, error) {
	select {
	case <-r.done:
		return r.token, r.err
	case <-ctx.Done():
		return Token{}, ctx.Err()
	}
}

func (r *Request) settle(tok Token, err error) bool {
	settled := false
	r.once.Do(func() {
		r.token = tok
		r.err = err
		settled = true
		close(r.done)
	})
	return settled
}
