package session

import "errors"

// ErrLoginRequired is returned by Guard for protected pages without a token.
var ErrLoginRequired = errors.New("please log in")

// Page names a screen of the client.
type Page string

const (
	PageLogin     Page = "login"
	PageRegister  Page = "register"
	PageDashboard Page = "dashboard"
	PageList      Page = "list"
	PageMap       Page = "map"
	PageDetail    Page = "show"
	PageAdd       Page = "add"
	PageEdit      Page = "edit"
	PageDelete    Page = "delete"
	PageWatch     Page = "watch"
)

// TokenSource reports the locally stored token.
type TokenSource interface {
	Token() string
}

// Guard only checks that a token is stored. The server still decides whether
// it is valid.
type Guard struct {
	tokens TokenSource
}

// NewGuard builds Guard.
func NewGuard(tokens TokenSource) *Guard {
	return &Guard{tokens: tokens}
}

// Public reports whether page is reachable without logging in.
func Public(page Page) bool {
	return page == PageLogin || page == PageRegister
}

// Allow returns the token to use for page, or ErrLoginRequired.
func (g *Guard) Allow(page Page) (string, error) {
	token := g.tokens.Token()
	if Public(page) {
		return token, nil
	}
	if token == "" {
		return "", ErrLoginRequired
	}
	return token, nil
}
