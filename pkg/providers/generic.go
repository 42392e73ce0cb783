package providers

import (
	"strconv"

	"golang.org/x/oauth2"
)

// Generic is a Provider for any authorization server that supports response_type=token.
type Generic struct {
	ProviderName     string          // Reported by Name, defaults to "generic".
	AuthEndpoint     oauth2.Endpoint // Only AuthURL is required.
	Scopes           []string        // Base scopes.
	ForceVerifyParam string          // Parameter that carries the force flag as "true"/"false". Empty disables it.
}

func (g *Generic) Name() string {
	if g.ProviderName == "" {
		return "generic"
	}
	return g.ProviderName
}

func (g *Generic) Endpoint() oauth2.Endpoint { return g.AuthEndpoint }

func (g *Generic) BaseScopes() []string { return g.Scopes }

func (g *Generic) ForceVerify(force bool) []oauth2.AuthCodeOption {
	if g.ForceVerifyParam == "" {
		return nil
	}
	return []oauth2.AuthCodeOption{oauth2.SetAuthURLParam(g.ForceVerifyParam, strconv.FormatBool(force))}
}
