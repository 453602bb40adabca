package view_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jrsteele09/go-activity-signup/activities"
	"github.com/jrsteele09/go-activity-signup/view"
	"github.com/stretchr/testify/require"
)

func chessCatalog() activities.Catalog {
	return activities.Catalog{
		{
			Name:            "Chess Club",
			Description:     "Learn strategies and compete in chess tournaments",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 10,
			Participants:    []string{"a@x.com"},
		},
	}
}

func TestBuild_SpotsLeft(t *testing.T) {
	catalog := activities.Catalog{
		{Name: "Chess Club", MaxParticipants: 10, Participants: []string{"a@x.com"}},
		{Name: "Full", MaxParticipants: 1, Participants: []string{"a@x.com"}},
		{Name: "Over", MaxParticipants: 1, Participants: []string{"a@x.com", "b@x.com", "c@x.com"}},
		{Name: "Empty", MaxParticipants: 3},
	}

	m := view.Build(catalog, false)
	require.Len(t, m.Cards, len(catalog))

	for i, a := range catalog {
		require.Equal(t, a.MaxParticipants-len(a.Participants), m.Cards[i].SpotsLeft, a.Name)
	}
	require.Equal(t, "9 spots left", m.Cards[0].Availability)
	require.Equal(t, "0 spots left", m.Cards[1].Availability)
	require.Equal(t, "-2 spots left", m.Cards[2].Availability)
	require.Empty(t, m.Cards[3].Participants)
}

func TestBuild_RemovalControls(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		m := view.Build(chessCatalog(), false)
		require.False(t, m.HasRemovalControls())
		require.False(t, m.Cards[0].Participants[0].Removable)
	})

	t.Run("authenticated", func(t *testing.T) {
		m := view.Build(chessCatalog(), true)
		require.True(t, m.HasRemovalControls())
		require.Equal(t, view.Participant{Email: "a@x.com", Removable: true}, m.Cards[0].Participants[0])
	})
}

func TestBuild_PreservesOrder(t *testing.T) {
	catalog := activities.Catalog{{Name: "Zumba"}, {Name: "Art"}, {Name: "Math"}}

	m := view.Build(catalog, false)
	require.Equal(t, []string{"Zumba", "Art", "Math"}, m.Options)
	for i, name := range []string{"Zumba", "Art", "Math"} {
		require.Equal(t, name, m.Cards[i].Name)
	}

	card, ok := m.Card("Art")
	require.True(t, ok)
	require.Equal(t, "Art", card.Name)

	_, ok = m.Card("Drama")
	require.False(t, ok)
}

func TestForm_Complete(t *testing.T) {
	require.True(t, view.Form{Activity: "Chess Club", Email: "a@x.com"}.Complete())
	require.False(t, view.Form{Activity: "Chess Club"}.Complete())
	require.False(t, view.Form{}.Complete())
}

func TestBanner(t *testing.T) {
	require.Equal(t, view.AuthBanner{}, view.Banner(false, "ignored"))
	require.Equal(t, view.AuthBanner{LoggedIn: true, Greeting: "Welcome, Ms. Rodriguez!"}, view.Banner(true, "Ms. Rodriguez"))
}

func TestRenderHTML(t *testing.T) {
	render := func(t *testing.T, doc view.Document) string {
		t.Helper()
		var buf bytes.Buffer
		require.NoError(t, view.RenderHTML(&buf, doc))
		return buf.String()
	}

	t.Run("anonymous page", func(t *testing.T) {
		html := render(t, view.Document{Title: "Mergington High School", Model: view.Build(chessCatalog(), false)})

		require.Contains(t, html, "<h4>Chess Club</h4>")
		require.Contains(t, html, "9 spots left")
		require.Contains(t, html, `<span class="participant-email">a@x.com</span>`)
		require.NotContains(t, html, "delete-btn")
		require.Contains(t, html, `id="login-btn"`)
		require.Contains(t, html, `<option value="Chess Club">Chess Club</option>`)
		require.Contains(t, html, `<div id="message" class="hidden"></div>`)
	})

	t.Run("authenticated page", func(t *testing.T) {
		html := render(t, view.Document{
			Model:   view.Build(chessCatalog(), true),
			Banner:  view.Banner(true, "Ms. Rodriguez"),
			Message: &view.Message{Text: "Removed", Kind: view.MessageSuccess},
		})

		require.Contains(t, html, `class="delete-btn" data-activity="Chess Club" data-email="a@x.com"`)
		require.Contains(t, html, "Welcome, Ms. Rodriguez!")
		require.Contains(t, html, `<div id="message" class="success">Removed</div>`)
	})

	t.Run("failure notice replaces the list", func(t *testing.T) {
		html := render(t, view.Document{Failure: view.FailureNotice})
		require.Contains(t, html, "<p>"+view.FailureNotice+"</p>")
		require.NotContains(t, html, "activity-card")
	})

	t.Run("empty participant list", func(t *testing.T) {
		html := render(t, view.Document{Model: view.Build(activities.Catalog{{Name: "Art", MaxParticipants: 2}}, true)})
		require.Contains(t, html, "No participants yet")
	})

	t.Run("server text is escaped", func(t *testing.T) {
		catalog := activities.Catalog{{Name: "<script>alert(1)</script>", Description: "a & b", MaxParticipants: 1}}
		html := render(t, view.Document{Model: view.Build(catalog, false)})
		require.False(t, strings.Contains(html, "<script>alert(1)</script>"))
		require.Contains(t, html, "&lt;script&gt;")
		require.Contains(t, html, "a &amp; b")
	})

	t.Run("selected option and email survive", func(t *testing.T) {
		html := render(t, view.Document{Model: view.Build(chessCatalog(), false), Form: view.Form{Activity: "Chess Club", Email: "x@y.com"}})
		require.Contains(t, html, `<option value="Chess Club" selected>Chess Club</option>`)
		require.Contains(t, html, `value="x@y.com"`)
	})
}
