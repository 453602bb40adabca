package fakeapi

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/jrsteele09/go-activity-signup/activities"
	apperrors "github.com/jrsteele09/go-activity-signup/internal/errors"
)

var _ activities.API = (*FakeAPI)(nil)

// Operation names reported by Calls
const (
	OpList       = "list"
	OpAuthStatus = "auth_status"
	OpSignup     = "signup"
	OpUnregister = "unregister"
)

type teacherAccount struct {
	username string
	password string
	name     string
}

// FakeAPI is an in-memory activities.API applying the same validation rules
// as the signup service.
type FakeAPI struct {
	activities []activities.Activity
	teachers   map[string]teacherAccount // username to account
	calls      map[string]int
	failure    error
	lock       sync.RWMutex
}

func NewFakeAPI() *FakeAPI {
	return &FakeAPI{
		teachers: make(map[string]teacherAccount),
		calls:    make(map[string]int),
	}
}

// AddActivity appends an activity, or replaces one with the same name.
func (f *FakeAPI) AddActivity(activity activities.Activity) {
	f.lock.Lock()
	defer f.lock.Unlock()

	activity.Participants = append([]string(nil), activity.Participants...)
	for i := range f.activities {
		if f.activities[i].Name == activity.Name {
			f.activities[i] = activity
			return
		}
	}
	f.activities = append(f.activities, activity)
}

func (f *FakeAPI) AddTeacher(username, password, name string) {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.teachers[username] = teacherAccount{username: username, password: password, name: name}
}

// SetTransportFailure makes every following call fail as if no response was
// received. A nil error restores normal behaviour.
func (f *FakeAPI) SetTransportFailure(err error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.failure = err
}

// Calls returns how many times op was invoked.
func (f *FakeAPI) Calls(op string) int {
	f.lock.RLock()
	defer f.lock.RUnlock()

	return f.calls[op]
}

// TotalCalls returns the number of invocations across all operations.
func (f *FakeAPI) TotalCalls() int {
	f.lock.RLock()
	defer f.lock.RUnlock()

	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func (f *FakeAPI) List(ctx context.Context) (activities.Catalog, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if err := f.begin(OpList); err != nil {
		return nil, err
	}

	catalog := make(activities.Catalog, 0, len(f.activities))
	for _, a := range f.activities {
		a.Participants = append([]string(nil), a.Participants...)
		catalog = append(catalog, a)
	}
	return catalog, nil
}

func (f *FakeAPI) AuthStatus(ctx context.Context, authHeader string) (activities.Teacher, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if err := f.begin(OpAuthStatus); err != nil {
		return activities.Teacher{}, err
	}

	teacher, err := f.verify(authHeader)
	if err != nil {
		return activities.Teacher{}, err
	}
	return activities.Teacher{Name: teacher.name, Username: teacher.username}, nil
}

func (f *FakeAPI) Signup(ctx context.Context, authHeader, activity, email string) (string, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if err := f.begin(OpSignup); err != nil {
		return "", err
	}

	teacher, err := f.verify(authHeader)
	if err != nil {
		return "", err
	}

	a, err := f.find(activity)
	if err != nil {
		return "", err
	}

	if a.HasParticipant(email) {
		return "", &activities.APIError{StatusCode: http.StatusBadRequest, Detail: "Student is already signed up"}
	}

	if len(a.Participants) >= a.MaxParticipants {
		return "", &activities.APIError{StatusCode: http.StatusBadRequest, Detail: "Activity is at full capacity"}
	}

	a.Participants = append(a.Participants, email)
	return fmt.Sprintf("Teacher %s signed up %s for %s", teacher.name, email, activity), nil
}

func (f *FakeAPI) Unregister(ctx context.Context, authHeader, activity, email string) (string, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if err := f.begin(OpUnregister); err != nil {
		return "", err
	}

	teacher, err := f.verify(authHeader)
	if err != nil {
		return "", err
	}

	a, err := f.find(activity)
	if err != nil {
		return "", err
	}

	remaining := a.Participants[:0]
	removed := false
	for _, p := range a.Participants {
		if p == email && !removed {
			removed = true
			continue
		}
		remaining = append(remaining, p)
	}
	if !removed {
		return "", &activities.APIError{StatusCode: http.StatusBadRequest, Detail: "Student is not signed up for this activity"}
	}
	a.Participants = remaining

	return fmt.Sprintf("Teacher %s unregistered %s from %s", teacher.name, email, activity), nil
}

// begin records the call and reports the configured transport failure. Callers hold the lock.
func (f *FakeAPI) begin(op string) error {
	f.calls[op]++
	if f.failure != nil {
		return apperrors.Wrapf(apperrors.ErrTransport, "[FakeAPI %s] %v", op, f.failure)
	}
	return nil
}

func (f *FakeAPI) find(name string) (*activities.Activity, error) {
	for i := range f.activities {
		if f.activities[i].Name == name {
			return &f.activities[i], nil
		}
	}
	return nil, &activities.APIError{StatusCode: http.StatusNotFound, Detail: "Activity not found"}
}

func (f *FakeAPI) verify(authHeader string) (teacherAccount, error) {
	unauthorized := &activities.APIError{StatusCode: http.StatusUnauthorized, Detail: "Invalid teacher credentials"}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "basic" {
		return teacherAccount{}, unauthorized
	}

	decoded, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return teacherAccount{}, unauthorized
	}

	creds := strings.SplitN(string(decoded), ":", 2)
	if len(creds) != 2 {
		return teacherAccount{}, unauthorized
	}

	teacher, ok := f.teachers[creds[0]]
	if !ok || subtle.ConstantTimeCompare([]byte(teacher.password), []byte(creds[1])) != 1 {
		return teacherAccount{}, unauthorized
	}
	return teacher, nil
}
