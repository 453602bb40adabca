package main

import (
	"github.com/jrsteele09/go-activity-signup/activities"
	"github.com/jrsteele09/go-activity-signup/activities/fakeapi"
)

const (
	demoUsername = "mrodriguez"
	demoPassword = "art123"
)

// newDemoAPI returns an in-memory service seeded with a few activities.
func newDemoAPI() *fakeapi.FakeAPI {
	api := fakeapi.NewFakeAPI()
	api.AddTeacher(demoUsername, demoPassword, "Ms. Rodriguez")
	api.AddTeacher("mchen", "chess456", "Mr. Chen")

	for _, a := range []activities.Activity{
		{
			Name:            "Chess Club",
			Description:     "Learn strategies and compete in chess tournaments",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 12,
			Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
		},
		{
			Name:            "Programming Class",
			Description:     "Learn programming fundamentals and build software projects",
			Schedule:        "Tuesdays and Thursdays, 3:30 PM - 4:30 PM",
			MaxParticipants: 20,
			Participants:    []string{"emma@mergington.edu", "sophia@mergington.edu"},
		},
		{
			Name:            "Gym Class",
			Description:     "Physical education and sports activities",
			Schedule:        "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM",
			MaxParticipants: 30,
			Participants:    []string{"john@mergington.edu", "olivia@mergington.edu"},
		},
		{
			Name:            "Art Studio",
			Description:     "Painting, drawing and mixed media projects",
			Schedule:        "Wednesdays, 3:30 PM - 5:00 PM",
			MaxParticipants: 2,
			Participants:    []string{"amelia@mergington.edu", "noah@mergington.edu"},
		},
	} {
		api.AddActivity(a)
	}
	return api
}
