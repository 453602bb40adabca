package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "SIGNUP"

// Keys double as flag names; the environment variable is SIGNUP_ + upper snake case.
const (
	KeyBaseURL        = "base-url"
	KeyAppName        = "app-name"
	KeyEnv            = "env"
	KeyLogLevel       = "log-level"
	KeyDemo           = "demo"
	KeyMessageTimeout = "message-timeout"
	KeyHTMLSnapshot   = "html"
	KeyColor          = "color"
)

const (
	defaultBaseURL        = "http://localhost:8000"
	defaultAppName        = "Activity Signup"
	defaultLogLevel       = "info"
	defaultMessageTimeout = 5 * time.Second
)

var defaults = map[string]any{
	KeyBaseURL:        defaultBaseURL,
	KeyAppName:        defaultAppName,
	KeyEnv:            "PROD",
	KeyLogLevel:       defaultLogLevel,
	KeyDemo:           false,
	KeyMessageTimeout: defaultMessageTimeout,
	KeyHTMLSnapshot:   "",
	KeyColor:          true,
}

type EnvVars struct {
	v *viper.Viper
}

var _ EnvConfig = EnvVars{}

// GetBaseURL returns the service root without a trailing slash (e.g. "https://school.example.com")
func (e EnvVars) GetBaseURL() string {
	return strings.TrimRight(e.v.GetString(KeyBaseURL), "/")
}

func (e EnvVars) GetAppName() string {
	return e.v.GetString(KeyAppName)
}

func (e EnvVars) GetEnv() string {
	return strings.ToUpper(e.v.GetString(KeyEnv))
}

func (e EnvVars) GetLogLevel() string {
	return strings.ToLower(e.v.GetString(KeyLogLevel))
}

func (e EnvVars) GetDemo() bool {
	return e.v.GetBool(KeyDemo)
}

type UI struct {
	v *viper.Viper
}

var _ UIConfig = UI{}

func (u UI) GetMessageTimeout() time.Duration {
	return u.v.GetDuration(KeyMessageTimeout)
}

func (u UI) GetHTMLSnapshotPath() string {
	return u.v.GetString(KeyHTMLSnapshot)
}

// GetColors honours NO_COLOR and dumb terminals on top of the configured value.
func (u UI) GetColors() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return u.v.GetBool(KeyColor)
}
