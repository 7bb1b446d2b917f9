package session

import (
	"encoding/base64"
	"sync"
)

// DefaultUsername is the fixed account name the hub expects.
const DefaultUsername = "USER"

// Session holds the credential shared by every hub request.
type Session struct {
	username string
	mu       sync.RWMutex
	header   string
	loggedIn bool
	banner   Banner
}

// New creates an empty session for the given fixed username.
func New(username string) *Session {
	if username == "" {
		username = DefaultUsername
	}
	return &Session{username: username}
}

// Username returns the fixed account name.
func (s *Session) Username() string {
	return s.username
}

// SetPassword derives and stores the Basic-Auth header for password.
func (s *Session) SetPassword(password string) {
	token := base64.StdEncoding.EncodeToString([]byte(s.username + ":" + password))
	s.mu.Lock()
	s.header = "Basic " + token
	s.mu.Unlock()
}

// Authorization returns the current Authorization header value.
func (s *Session) Authorization() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.header
}

// LoggedIn reports whether a login probe has succeeded.
func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loggedIn
}

func (s *Session) setLoggedIn(v bool) {
	s.mu.Lock()
	s.loggedIn = v
	s.mu.Unlock()
}

// clear drops the credential.
func (s *Session) clear() {
	s.mu.Lock()
	s.header = ""
	s.loggedIn = false
	s.mu.Unlock()
}

// Banner returns the user-visible error banner.
func (s *Session) Banner() *Banner {
	return &s.banner
}

// Banner is the single user-visible error line of the dashboard.
type Banner struct {
	mu   sync.RWMutex
	text string
}

// Set replaces the banner text.
func (b *Banner) Set(text string) {
	b.mu.Lock()
	b.text = text
	b.mu.Unlock()
}

// Clear empties the banner.
func (b *Banner) Clear() {
	b.Set("")
}

// Text returns the current banner text.
func (b *Banner) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text
}
