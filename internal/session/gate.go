package session

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/nrfsmart/nrfdash/internal/client"
	"github.com/rs/zerolog"
)

// Banner texts shown to the user.
const (
	MsgUnreachable   = "404 Server not reachable!"
	MsgLoginFailed   = "Login Failed!"
	MsgLogsFailed    = "Failed to fetch logs!"
	MsgLogsUnfetched = "Could not fetch logs!"
	MsgBadResponse   = "Unexpected response from server!"
)

var (
	// ErrUnreachable is returned by Login when the hub cannot be contacted.
	ErrUnreachable = errors.New("server not reachable")
	// ErrLoginFailed is returned by Login when the hub rejects the probe.
	ErrLoginFailed = errors.New("login failed")
)

// ProbeFunc performs the single validating request of a login attempt.
// It is expected to report its own failure on the banner.
type ProbeFunc func(ctx context.Context) error

// Gate guards the transition from logged out to logged in.
type Gate struct {
	session  *Session
	probe    ProbeFunc
	onLogin  func(ctx context.Context)
	onLogout func()
	logger   zerolog.Logger
	mu       sync.Mutex
}

// NewGate creates a gate that validates credentials with probe.
func NewGate(s *Session, probe ProbeFunc, logger zerolog.Logger) *Gate {
	return &Gate{
		session: s,
		probe:   probe,
		logger:  logger.With().Str("component", "session").Logger(),
	}
}

// OnLogin registers the hook run after a successful probe.
func (g *Gate) OnLogin(fn func(ctx context.Context)) {
	g.onLogin = fn
}

// OnLogout registers the hook run on logout.
func (g *Gate) OnLogout(fn func()) {
	g.onLogout = fn
}

// Session returns the shared session.
func (g *Gate) Session() *Session {
	return g.session
}

// LoggedIn reports whether the dashboard is unlocked.
func (g *Gate) LoggedIn() bool {
	return g.session.LoggedIn()
}

// Login stores the credential for password and validates it with exactly one
// probe request. The dashboard stays locked unless the probe succeeds.
func (g *Gate) Login(ctx context.Context, password string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	// A new credential replaces the running session whatever the probe says.
	if g.session.LoggedIn() {
		g.session.setLoggedIn(false)
		if g.onLogout != nil {
			g.onLogout()
		}
		g.logger.Info().Msg("Re-login, previous session stopped")
	}

	g.session.SetPassword(password)

	if err := g.probe(ctx); err != nil {
		g.session.setLoggedIn(false)
		switch {
		case errors.Is(err, client.ErrUnreachable):
			g.logger.Warn().Err(err).Msg("Login probe could not reach server")
			return ErrUnreachable
		case client.IsStatus(err, http.StatusUnauthorized):
			g.logger.Warn().Msg("Login rejected: invalid credentials")
		default:
			g.logger.Warn().Err(err).Msg("Login rejected")
		}
		return ErrLoginFailed
	}

	g.session.Banner().Clear()
	g.session.setLoggedIn(true)
	g.logger.Info().Str("user", g.session.Username()).Msg("Login successful")

	if g.onLogin != nil {
		g.onLogin(ctx)
	}
	return nil
}

// Logout drops the credential, stops whatever OnLogin started and clears
// the banner.
func (g *Gate) Logout() {
	g.mu.Lock()
	defer g.mu.Unlock()

	wasLoggedIn := g.session.LoggedIn()
	g.session.clear()
	if g.onLogout != nil {
		g.onLogout()
	}
	g.session.Banner().Clear()
	if wasLoggedIn {
		g.logger.Info().Msg("Logged out")
	}
}
