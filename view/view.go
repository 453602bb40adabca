// Package view turns an activity catalog and the session state into a
// render-ready model. Nothing here touches the network or the terminal.
package view

import (
	"fmt"

	"github.com/jrsteele09/go-activity-signup/activities"
)

// FailureNotice replaces the activity list when it cannot be loaded.
const FailureNotice = "Failed to load activities. Please try again later."

// MessageKind classifies a transient status line.
type MessageKind string

const (
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
)

// Message is a transient status line.
type Message struct {
	Text string
	Kind MessageKind
}

// Participant is one row of a card's participant list.
type Participant struct {
	Email     string
	Removable bool // Render an unregister control
}

// Card is one activity as displayed.
type Card struct {
	Name            string
	Description     string
	Schedule        string
	MaxParticipants int
	SpotsLeft       int    // Not clamped, negative when over capacity
	Availability    string // "N spots left"
	Participants    []Participant
}

// Model is the activity region plus the signup form's selection options.
type Model struct {
	Cards   []Card
	Options []string
}

// Form is the signup form: the selected activity and the student email.
type Form struct {
	Activity string
	Email    string
}

// Complete reports whether both fields are filled in.
func (f Form) Complete() bool {
	return f.Activity != "" && f.Email != ""
}

// AuthBanner is the login/logout area.
type AuthBanner struct {
	LoggedIn bool
	Greeting string
}

// Build derives the model. Catalog order is display order and participant
// rows are removable exactly when authenticated is true.
func Build(catalog activities.Catalog, authenticated bool) Model {
	m := Model{
		Cards:   make([]Card, 0, len(catalog)),
		Options: catalog.Names(),
	}

	for _, a := range catalog {
		spots := a.SpotsLeft()
		card := Card{
			Name:            a.Name,
			Description:     a.Description,
			Schedule:        a.Schedule,
			MaxParticipants: a.MaxParticipants,
			SpotsLeft:       spots,
			Availability:    fmt.Sprintf("%d spots left", spots),
			Participants:    make([]Participant, 0, len(a.Participants)),
		}
		for _, email := range a.Participants {
			card.Participants = append(card.Participants, Participant{Email: email, Removable: authenticated})
		}
		m.Cards = append(m.Cards, card)
	}

	return m
}

// Banner builds the auth area for the current session.
func Banner(authenticated bool, displayName string) AuthBanner {
	if !authenticated {
		return AuthBanner{}
	}
	return AuthBanner{LoggedIn: true, Greeting: fmt.Sprintf("Welcome, %s!", displayName)}
}

// HasRemovalControls reports whether any participant row carries an unregister control.
func (m Model) HasRemovalControls() bool {
	for _, c := range m.Cards {
		for _, p := range c.Participants {
			if p.Removable {
				return true
			}
		}
	}
	return false
}

// Card returns the card with exactly this activity name.
func (m Model) Card(name string) (Card, bool) {
	for _, c := range m.Cards {
		if c.Name == name {
			return c, true
		}
	}
	return Card{}, false
}
