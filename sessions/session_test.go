package sessions_test

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"testing"

	"github.com/jrsteele09/go-activity-signup/activities"
	"github.com/jrsteele09/go-activity-signup/activities/fakeapi"
	apperrors "github.com/jrsteele09/go-activity-signup/internal/errors"
	"github.com/jrsteele09/go-activity-signup/sessions"
	"github.com/stretchr/testify/require"
)

const (
	testUsername = "mrodriguez"
	testPassword = "art123"
	testName     = "Ms. Rodriguez"
)

// stubChecker returns a fixed result and records the headers it saw
type stubChecker struct {
	teacher activities.Teacher
	err     error
	headers []string
}

func (s *stubChecker) AuthStatus(_ context.Context, authHeader string) (activities.Teacher, error) {
	s.headers = append(s.headers, authHeader)
	return s.teacher, s.err
}

type statusResult struct {
	teacher activities.Teacher
	err     error
}

type pausedCall struct {
	authHeader string
	reply      chan statusResult
}

// pausedChecker holds each AuthStatus call until the test answers it
type pausedChecker struct {
	calls chan pausedCall
}

func newPausedChecker() *pausedChecker {
	return &pausedChecker{calls: make(chan pausedCall)}
}

func (p *pausedChecker) AuthStatus(_ context.Context, authHeader string) (activities.Teacher, error) {
	call := pausedCall{authHeader: authHeader, reply: make(chan statusResult)}
	p.calls <- call
	res := <-call.reply
	return res.teacher, res.err
}

func newFakeAPI() *fakeapi.FakeAPI {
	api := fakeapi.NewFakeAPI()
	api.AddTeacher(testUsername, testPassword, testName)
	return api
}

func TestBasicAuthHeader(t *testing.T) {
	header := sessions.BasicAuthHeader("user", "p:ss")
	require.Equal(t, "Basic "+base64.StdEncoding.EncodeToString([]byte("user:p:ss")), header)
}

func TestManager_InitialState(t *testing.T) {
	m := sessions.New(&stubChecker{})

	require.Equal(t, sessions.Anonymous, m.State())
	require.False(t, m.IsAuthenticated())
	require.Empty(t, m.DisplayName())

	_, err := m.AuthHeader()
	require.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
}

func TestManager_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials authenticate and adopt the server name", func(t *testing.T) {
		api := newFakeAPI()
		m := sessions.New(api)

		require.True(t, m.Login(ctx, testUsername, testPassword))
		require.Equal(t, sessions.Authenticated, m.State())
		require.True(t, m.IsAuthenticated())
		require.Equal(t, testName, m.DisplayName())

		header, err := m.AuthHeader()
		require.NoError(t, err)
		require.Equal(t, sessions.BasicAuthHeader(testUsername, testPassword), header)
		require.Equal(t, 1, api.Calls(fakeapi.OpAuthStatus))
	})

	t.Run("rejected credentials leave no residue", func(t *testing.T) {
		api := newFakeAPI()
		m := sessions.New(api)

		require.False(t, m.Login(ctx, testUsername, "wrong"))
		require.Equal(t, sessions.Anonymous, m.State())
		require.Empty(t, m.DisplayName())

		_, ok := m.Credentials()
		require.False(t, ok)

		_, err := m.AuthHeader()
		require.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
	})

	t.Run("transport failure clears the session", func(t *testing.T) {
		checker := &stubChecker{err: apperrors.Wrapf(apperrors.ErrTransport, "dial")}
		m := sessions.New(checker)

		require.False(t, m.Login(ctx, testUsername, testPassword))
		require.Equal(t, sessions.Anonymous, m.State())
		require.Len(t, checker.headers, 1)
	})

	t.Run("empty identity or secret is ignored", func(t *testing.T) {
		checker := &stubChecker{}
		m := sessions.New(checker)

		require.False(t, m.Login(ctx, "", testPassword))
		require.False(t, m.Login(ctx, testUsername, ""))
		require.Empty(t, checker.headers)
		require.Equal(t, sessions.Anonymous, m.State())
	})

	t.Run("name falls back to identity when server omits it", func(t *testing.T) {
		m := sessions.New(&stubChecker{})

		require.True(t, m.Login(ctx, testUsername, testPassword))
		require.Equal(t, testUsername, m.DisplayName())
	})

	t.Run("failed relogin drops the previous session", func(t *testing.T) {
		api := newFakeAPI()
		m := sessions.New(api)

		require.True(t, m.Login(ctx, testUsername, testPassword))
		require.False(t, m.Login(ctx, testUsername, "wrong"))
		require.Equal(t, sessions.Anonymous, m.State())
	})
}

func TestManager_Authenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("reports the checker error", func(t *testing.T) {
		m := sessions.New(newFakeAPI())

		err := m.Authenticate(ctx, testUsername, "wrong")
		var apiErr *activities.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	})

	t.Run("reports transport failures", func(t *testing.T) {
		api := newFakeAPI()
		api.SetTransportFailure(errors.New("connection refused"))
		m := sessions.New(api)

		require.ErrorIs(t, m.Authenticate(ctx, testUsername, testPassword), apperrors.ErrTransport)
		require.Equal(t, sessions.Anonymous, m.State())
	})

	t.Run("empty identity", func(t *testing.T) {
		m := sessions.New(&stubChecker{})
		require.ErrorIs(t, m.Authenticate(ctx, "", testPassword), apperrors.ErrNoCredentials)
	})

	t.Run("success", func(t *testing.T) {
		m := sessions.New(newFakeAPI())
		require.NoError(t, m.Authenticate(ctx, testUsername, testPassword))
		require.Equal(t, sessions.Authenticated, m.State())
	})
}

func TestManager_StaleStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("late success after logout stays anonymous", func(t *testing.T) {
		checker := newPausedChecker()
		m := sessions.New(checker)

		done := make(chan error, 1)
		go func() { done <- m.Authenticate(ctx, testUsername, testPassword) }()
		call := <-checker.calls
		require.Equal(t, sessions.PendingVerification, m.State())

		m.Logout()
		call.reply <- statusResult{teacher: activities.Teacher{Name: testName}}

		require.ErrorIs(t, <-done, apperrors.ErrSuperseded)
		require.Equal(t, sessions.Anonymous, m.State())
		require.False(t, m.IsAuthenticated())
		_, ok := m.Credentials()
		require.False(t, ok)
	})

	t.Run("late answer does not overwrite a newer login", func(t *testing.T) {
		checker := newPausedChecker()
		m := sessions.New(checker)

		first := make(chan bool, 1)
		go func() { first <- m.Login(ctx, "old", "secret") }()
		firstCall := <-checker.calls

		second := make(chan bool, 1)
		go func() { second <- m.Login(ctx, testUsername, testPassword) }()
		secondCall := <-checker.calls
		require.Equal(t, sessions.BasicAuthHeader(testUsername, testPassword), secondCall.authHeader)

		// The newer login completes first
		secondCall.reply <- statusResult{teacher: activities.Teacher{Name: testName}}
		require.True(t, <-second)

		firstCall.reply <- statusResult{err: &activities.APIError{StatusCode: http.StatusUnauthorized}}
		require.False(t, <-first)

		require.Equal(t, sessions.Authenticated, m.State())
		require.Equal(t, testName, m.DisplayName())
		header, err := m.AuthHeader()
		require.NoError(t, err)
		require.Equal(t, sessions.BasicAuthHeader(testUsername, testPassword), header)
	})
}

func TestStaticCredentials(t *testing.T) {
	ctx := context.Background()

	identity, secret, ok := sessions.StaticCredentials{Identity: testUsername, Secret: testPassword}.Credentials(ctx)
	require.True(t, ok)
	require.Equal(t, testUsername, identity)
	require.Equal(t, testPassword, secret)

	_, _, ok = sessions.StaticCredentials{Identity: testUsername}.Credentials(ctx)
	require.False(t, ok)
}

func TestManager_CheckStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("no credentials means no network call", func(t *testing.T) {
		checker := &stubChecker{}
		m := sessions.New(checker)

		require.False(t, m.CheckStatus(ctx))
		require.Empty(t, checker.headers)
	})

	t.Run("later rejection logs the session out", func(t *testing.T) {
		checker := &stubChecker{teacher: activities.Teacher{Name: testName}}
		m := sessions.New(checker)
		require.True(t, m.Login(ctx, testUsername, testPassword))

		checker.err = &activities.APIError{StatusCode: http.StatusUnauthorized, Detail: "Invalid teacher credentials"}
		require.False(t, m.CheckStatus(ctx))
		require.Equal(t, sessions.Anonymous, m.State())

		// Cleared sessions skip the network
		require.False(t, m.CheckStatus(ctx))
		require.Len(t, checker.headers, 2)
	})

	t.Run("unexpected errors never escape", func(t *testing.T) {
		m := sessions.New(&stubChecker{err: errors.New("boom")})
		require.False(t, m.Login(ctx, testUsername, testPassword))
	})
}

func TestManager_Logout(t *testing.T) {
	ctx := context.Background()
	m := sessions.New(newFakeAPI())
	require.True(t, m.Login(ctx, testUsername, testPassword))

	m.Logout()
	require.Equal(t, sessions.Anonymous, m.State())
	_, ok := m.Credentials()
	require.False(t, ok)

	m.Logout()
	require.Equal(t, sessions.Anonymous, m.State())
	_, ok = m.Credentials()
	require.False(t, ok)
}

func TestState_String(t *testing.T) {
	require.Equal(t, "anonymous", sessions.Anonymous.String())
	require.Equal(t, "pending_verification", sessions.PendingVerification.String())
	require.Equal(t, "authenticated", sessions.Authenticated.String())
}
