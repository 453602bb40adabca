package activityview

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-activity-signup/activities"
	apperrors "github.com/jrsteele09/go-activity-signup/internal/errors"
	"github.com/jrsteele09/go-activity-signup/view"
	"github.com/rs/zerolog/log"
)

type registrationCall func(ctx context.Context, authHeader, activity, email string) (string, error)

type registration struct {
	op             string
	activity       string
	email          string
	call           registrationCall
	guardMessage   string // Shown when not authenticated
	failureMessage string // Shown when no response was received
	successMessage string // Format for email and activity, used when the server sends no message
	resetForm      bool
}

func (r registration) key() string {
	return r.op + "\x00" + r.activity + "\x00" + r.email
}

func (c *Controller) submit(ctx context.Context, r registration) {
	if !c.session.IsAuthenticated() {
		c.ShowTransientMessage(r.guardMessage, view.MessageError)
		return
	}

	authHeader, err := c.session.AuthHeader()
	if err != nil {
		c.ShowTransientMessage(r.guardMessage, view.MessageError)
		return
	}

	if !c.acquire(r.key()) {
		log.Debug().Str("op", r.op).Str("activity", r.activity).Str("email", r.email).Msg("Duplicate request dropped")
		return
	}
	defer c.release(r.key())

	message, err := r.call(ctx, authHeader, r.activity, r.email)
	if err != nil {
		var apiErr *activities.APIError
		if apperrors.As(err, &apiErr) {
			detail := apiErr.Detail
			if detail == "" {
				detail = MsgGenericError
			}
			c.ShowTransientMessage(detail, view.MessageError)
			return
		}

		log.Err(err).Str("op", r.op).Str("activity", r.activity).Msg("Registration request failed")
		c.ShowTransientMessage(r.failureMessage, view.MessageError)
		return
	}

	if message == "" {
		message = fmt.Sprintf(r.successMessage, r.email, r.activity)
	}
	c.ShowTransientMessage(message, view.MessageSuccess)
	if r.resetForm {
		c.page.ResetForm()
	}
	c.FetchAndRender(ctx)
}

// acquire marks key as in flight, reporting false if it already was.
func (c *Controller) acquire(key string) bool {
	c.inFlightLock.Lock()
	defer c.inFlightLock.Unlock()

	if _, ok := c.inFlight[key]; ok {
		return false
	}
	c.inFlight[key] = struct{}{}
	return true
}

func (c *Controller) release(key string) {
	c.inFlightLock.Lock()
	defer c.inFlightLock.Unlock()

	delete(c.inFlight, key)
}
