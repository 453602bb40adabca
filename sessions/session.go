package sessions

import (
	"context"
	"encoding/base64"
	"sync"

	"github.com/jrsteele09/go-activity-signup/activities"
	apperrors "github.com/jrsteele09/go-activity-signup/internal/errors"
	"github.com/rs/zerolog/log"
)

// State is the position of a Manager in the login state machine.
type State int

const (
	Anonymous           State = iota // No credentials held
	PendingVerification              // Credentials held, awaiting /auth/status
	Authenticated                    // Credentials confirmed by the server
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case PendingVerification:
		return "pending_verification"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Credentials are held for the lifetime of the process only.
type Credentials struct {
	Identity        string // Username typed by the teacher
	AuthHeaderValue string // "Basic " + base64(identity:secret)
	DisplayName     string // Server supplied name once verified, identity until then
}

// StatusChecker verifies an Authorization header against the server.
type StatusChecker interface {
	AuthStatus(ctx context.Context, authHeader string) (activities.Teacher, error)
}

// Manager holds the teacher's session. The zero value is not usable, use New.
type Manager struct {
	checker       StatusChecker
	credentials   *Credentials
	authenticated bool
	lock          sync.RWMutex
}

func New(checker StatusChecker) *Manager {
	return &Manager{checker: checker}
}

// BasicAuthHeader encodes identity:secret as an HTTP Basic Authorization value.
// The encoding is reversible and must only travel over a secure transport.
func BasicAuthHeader(identity, secret string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(identity+":"+secret))
}

// Login stores provisional credentials and verifies them with CheckStatus.
// Empty identity or secret leaves the session untouched.
func (m *Manager) Login(ctx context.Context, identity, secret string) bool {
	return m.Authenticate(ctx, identity, secret) == nil
}

// Authenticate is Login reporting why the session was not established: the
// status checker's error, ErrNoCredentials for an empty identity or secret,
// or ErrSuperseded when a logout or another login replaced the credentials
// while the check was running.
func (m *Manager) Authenticate(ctx context.Context, identity, secret string) error {
	if identity == "" || secret == "" {
		return apperrors.ErrNoCredentials
	}

	m.lock.Lock()
	m.credentials = &Credentials{
		Identity:        identity,
		AuthHeaderValue: BasicAuthHeader(identity, secret),
		DisplayName:     identity,
	}
	m.authenticated = false
	m.lock.Unlock()

	_, err := m.checkStatus(ctx)
	return err
}

// CheckStatus confirms the held credentials with the server. Any failure
// clears the session; it never reports an error to the caller.
func (m *Manager) CheckStatus(ctx context.Context) bool {
	authenticated, _ := m.checkStatus(ctx)
	return authenticated
}

func (m *Manager) checkStatus(ctx context.Context) (bool, error) {
	m.lock.RLock()
	creds := m.credentials
	m.lock.RUnlock()

	if creds == nil {
		return false, apperrors.ErrNoCredentials
	}

	teacher, err := m.checker.AuthStatus(ctx, creds.AuthHeaderValue)

	m.lock.Lock()
	defer m.lock.Unlock()

	// The answer belongs to credentials that are no longer held.
	if m.credentials != creds {
		log.Debug().Str("identity", creds.Identity).Msg("Discarding stale auth status")
		return m.authenticated, apperrors.ErrSuperseded
	}

	if err != nil {
		log.Err(err).Str("identity", creds.Identity).Msg("Auth status check failed")
		m.clear()
		return false, err
	}

	m.authenticated = true
	if teacher.Name != "" {
		m.credentials.DisplayName = teacher.Name
	}
	log.Debug().Str("identity", creds.Identity).Str("teacher", teacher.Name).Msg("Session authenticated")
	return true, nil
}

// Logout clears the session. Calling it repeatedly is harmless.
func (m *Manager) Logout() {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.clear()
}

func (m *Manager) IsAuthenticated() bool {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.authenticated
}

// AuthHeader returns the Authorization header value of an authenticated session.
func (m *Manager) AuthHeader() (string, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	if !m.authenticated || m.credentials == nil {
		return "", apperrors.ErrNotAuthenticated
	}
	return m.credentials.AuthHeaderValue, nil
}

// DisplayName returns the teacher's name, or "" when no credentials are held.
func (m *Manager) DisplayName() string {
	m.lock.RLock()
	defer m.lock.RUnlock()

	if m.credentials == nil {
		return ""
	}
	return m.credentials.DisplayName
}

func (m *Manager) State() State {
	m.lock.RLock()
	defer m.lock.RUnlock()

	switch {
	case m.authenticated:
		return Authenticated
	case m.credentials != nil:
		return PendingVerification
	default:
		return Anonymous
	}
}

// Credentials returns a copy of the held credentials.
func (m *Manager) Credentials() (Credentials, bool) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	if m.credentials == nil {
		return Credentials{}, false
	}
	return *m.credentials, true
}

// clear resets to Anonymous. Callers hold the write lock.
func (m *Manager) clear() {
	m.credentials = nil
	m.authenticated = false
}
