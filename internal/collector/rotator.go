package collector

import (
	"errors"
	"math/rand"

	"golang.org/x/oauth2"
)

// ErrNoTokens is returned when the configured credential set is empty.
var ErrNoTokens = errors.New("credential set is empty")

// TokenRotator holds an immutable set of access tokens and picks one
// uniformly at random for each outbound request. It implements
// oauth2.TokenSource so it can sit directly behind an oauth2.Transport.
type TokenRotator struct {
	tokens []string
}

// NewTokenRotator creates a rotator over a copy of tokens. An empty
// set is a configuration error and must abort startup.
func NewTokenRotator(tokens []string) (*TokenRotator, error) {
	if len(tokens) == 0 {
		return nil, ErrNoTokens
	}
	return &TokenRotator{tokens: append([]string(nil), tokens...)}, nil
}

// Pick returns a uniformly random member of the credential set. No
// attempt is made to avoid reuse or spread load evenly.
func (r *TokenRotator) Pick() string {
	return r.tokens[rand.Intn(len(r.tokens))]
}

// Token implements oauth2.TokenSource. The transport must not wrap
// this source in oauth2.ReuseTokenSource, which would pin the first
// token for the lifetime of the client.
func (r *TokenRotator) Token() (*oauth2.Token, error) {
	return &oauth2.Token{AccessToken: r.Pick()}, nil
}
