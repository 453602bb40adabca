// Package activityview drives the activity page: it fetches the catalog,
// renders it through a Page and dispatches registration changes.
package activityview

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/jrsteele09/go-activity-signup/activities"
	apperrors "github.com/jrsteele09/go-activity-signup/internal/errors"
	"github.com/jrsteele09/go-activity-signup/sessions"
	"github.com/jrsteele09/go-activity-signup/view"
	"github.com/rs/zerolog/log"
)

// User facing messages
const (
	MsgLoginToRegister   = "Please log in as a teacher to register students"
	MsgLoginToManage     = "Please log in as a teacher to manage student registrations"
	MsgSignupFailed      = "Failed to sign up. Please try again."
	MsgUnregisterFailed  = "Failed to unregister. Please try again."
	MsgGenericError      = "An error occurred"
	MsgLoggedOut         = "Logged out successfully"
	MsgInvalidCredential = "Invalid teacher credentials"
	MsgLoginFailed       = "Failed to log in. Please try again."
	MsgSignedUp          = "Signed up %s for %s"
	MsgUnregistered      = "Unregistered %s from %s"
)

// DefaultMessageTimeout is how long a transient message stays visible.
const DefaultMessageTimeout = 5 * time.Second

// Page is the host document the controller draws on. Implementations must be
// safe for concurrent use; handlers run on their own goroutines.
type Page interface {
	RenderActivities(model view.Model)
	RenderFailure(notice string)
	RenderAuth(banner view.AuthBanner)
	ShowMessage(msg view.Message)
	HideMessage()
	ResetForm()
}

// Timer is the part of *time.Timer the controller needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d, like time.AfterFunc.
type AfterFunc func(d time.Duration, f func()) Timer

// Controller is the activity view controller.
type Controller struct {
	api            activities.API
	session        *sessions.Manager
	page           Page
	messageTimeout time.Duration
	afterFunc      AfterFunc

	msgLock  sync.Mutex
	msgTimer Timer
	msgSeq   uint64

	inFlightLock sync.Mutex
	inFlight     map[string]struct{}
}

// Option defines a function type to modify the Controller instance.
type Option func(*Controller)

// WithMessageTimeout overrides DefaultMessageTimeout
func WithMessageTimeout(d time.Duration) Option {
	return func(c *Controller) {
		c.messageTimeout = d
	}
}

// WithAfterFunc sets the timer factory (primarily for testing)
func WithAfterFunc(fn AfterFunc) Option {
	return func(c *Controller) {
		c.afterFunc = fn
	}
}

func New(api activities.API, session *sessions.Manager, page Page, options ...Option) (*Controller, error) {
	if api == nil {
		return nil, errors.New("[activityview New] api is required")
	}
	if session == nil {
		return nil, errors.New("[activityview New] session is required")
	}
	if page == nil {
		return nil, errors.New("[activityview New] page is required")
	}

	c := &Controller{
		api:            api,
		session:        session,
		page:           page,
		messageTimeout: DefaultMessageTimeout,
		afterFunc: func(d time.Duration, f func()) Timer {
			return time.AfterFunc(d, f)
		},
		inFlight: make(map[string]struct{}),
	}

	for _, opt := range options {
		opt(c)
	}

	return c, nil
}

// Start is the page load: draw the auth area and the activity list.
func (c *Controller) Start(ctx context.Context) {
	c.renderAuth()
	c.FetchAndRender(ctx)
}

// FetchAndRender replaces the activity list with a fresh copy from the API,
// or with view.FailureNotice when it cannot be loaded.
func (c *Controller) FetchAndRender(ctx context.Context) {
	catalog, err := c.api.List(ctx)
	if err != nil {
		log.Err(err).Msg("Error fetching activities")
		c.page.RenderFailure(view.FailureNotice)
		return
	}

	c.page.RenderActivities(view.Build(catalog, c.session.IsAuthenticated()))
}

// SubmitSignup registers email for activity. Only authenticated teachers may do so.
func (c *Controller) SubmitSignup(ctx context.Context, activity, email string) {
	c.submit(ctx, registration{
		op:             "signup",
		activity:       activity,
		email:          email,
		call:           c.api.Signup,
		guardMessage:   MsgLoginToRegister,
		failureMessage: MsgSignupFailed,
		successMessage: MsgSignedUp,
		resetForm:      true,
	})
}

// SubmitUnregister removes email from activity. Only authenticated teachers may do so.
func (c *Controller) SubmitUnregister(ctx context.Context, activity, email string) {
	c.submit(ctx, registration{
		op:             "unregister",
		activity:       activity,
		email:          email,
		call:           c.api.Unregister,
		guardMessage:   MsgLoginToManage,
		failureMessage: MsgUnregisterFailed,
		successMessage: MsgUnregistered,
	})
}

// ShowTransientMessage shows text and hides it after the message timeout.
// A newer message restarts the countdown.
func (c *Controller) ShowTransientMessage(text string, kind view.MessageKind) {
	c.msgLock.Lock()
	defer c.msgLock.Unlock()

	if c.msgTimer != nil {
		c.msgTimer.Stop()
	}
	c.msgSeq++
	seq := c.msgSeq

	c.page.ShowMessage(view.Message{Text: text, Kind: kind})
	c.msgTimer = c.afterFunc(c.messageTimeout, func() {
		c.msgLock.Lock()
		defer c.msgLock.Unlock()

		// A timer that fired while being replaced must not hide the newer message.
		if seq != c.msgSeq {
			return
		}
		c.msgTimer = nil
		c.page.HideMessage()
	})
}

// Login asks provider for credentials and verifies them. On success the list
// is re-rendered so participant rows gain their unregister controls.
func (c *Controller) Login(ctx context.Context, provider sessions.CredentialProvider) bool {
	identity, secret, ok := provider.Credentials(ctx)
	if !ok {
		return false
	}

	err := c.session.Authenticate(ctx, identity, secret)
	c.renderAuth()
	if err != nil {
		if msg, ok := loginFailureMessage(err); ok {
			c.ShowTransientMessage(msg, view.MessageError)
		}
		return false
	}

	c.FetchAndRender(ctx)
	return true
}

// loginFailureMessage explains a failed login. A login replaced by a logout
// or another login while it was verified gets no message.
func loginFailureMessage(err error) (string, bool) {
	if apperrors.Is(err, apperrors.ErrSuperseded) {
		return "", false
	}

	var apiErr *activities.APIError
	if apperrors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		return MsgInvalidCredential, true
	}
	if !apperrors.Is(err, apperrors.ErrTransport) {
		log.Err(err).Msg("Unexpected login failure")
	}
	return MsgLoginFailed, true
}

// Logout clears the session and re-renders without unregister controls.
func (c *Controller) Logout(ctx context.Context) {
	c.session.Logout()
	c.renderAuth()
	c.ShowTransientMessage(MsgLoggedOut, view.MessageSuccess)
	c.FetchAndRender(ctx)
}

// Close stops a pending message timer.
func (c *Controller) Close() {
	c.msgLock.Lock()
	defer c.msgLock.Unlock()

	if c.msgTimer != nil {
		c.msgTimer.Stop()
		c.msgTimer = nil
	}
}

func (c *Controller) renderAuth() {
	c.page.RenderAuth(view.Banner(c.session.IsAuthenticated(), c.session.DisplayName()))
}
