package activities

// Activity is a named, schedulable offering with a participant capacity.
type Activity struct {
	Name            string   `json:"-"`                // Unique key, taken from the catalog object key
	Description     string   `json:"description"`      // Free text shown on the card
	Schedule        string   `json:"schedule"`         // Human readable schedule
	MaxParticipants int      `json:"max_participants"` // Capacity
	Participants    []string `json:"participants"`     // Registered student emails, in signup order
}

// SpotsLeft returns the remaining capacity. It is not clamped: an over-full
// activity reports a negative value.
func (a Activity) SpotsLeft() int {
	return a.MaxParticipants - len(a.Participants)
}

// HasParticipant reports whether email is registered for the activity.
func (a Activity) HasParticipant(email string) bool {
	for _, p := range a.Participants {
		if p == email {
			return true
		}
	}
	return false
}

// Catalog is the activity collection in the order the API returned it.
type Catalog []Activity

// Names returns the activity names in catalog order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for _, a := range c {
		names = append(names, a.Name)
	}
	return names
}

// Get returns the named activity. It is the lookup for callers holding a
// List result, e.g. to check a registration after a refresh.
func (c Catalog) Get(name string) (Activity, bool) {
	for _, a := range c {
		if a.Name == name {
			return a, true
		}
	}
	return Activity{}, false
}

// Teacher is the authenticated actor permitted to manage registrations.
type Teacher struct {
	Name     string `json:"teacher"`
	Username string `json:"username"`
}
