package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config interface {
	EnvConfig
	UIConfig
}

type EnvConfig interface {
	GetBaseURL() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	GetDemo() bool
}

type UIConfig interface {
	GetMessageTimeout() time.Duration
	GetHTMLSnapshotPath() string
	GetColors() bool
}

type mainConfig struct {
	EnvVars
	UI
}

// New layers flags over SIGNUP_* environment variables over defaults.
// flags may be nil.
func New(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("[config New] bind flags: %w", err)
		}
	}

	c := mainConfig{EnvVars: EnvVars{v: v}, UI: UI{v: v}}
	if c.GetMessageTimeout() <= 0 {
		return nil, fmt.Errorf("[config New] %s must be positive, got %s", KeyMessageTimeout, c.GetMessageTimeout())
	}
	return c, nil
}

// RegisterFlags adds the command line flags New understands.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String(KeyBaseURL, defaultBaseURL, "base URL of the activity signup service")
	flags.String(KeyLogLevel, defaultLogLevel, "log level (debug, info, warn, error)")
	flags.Bool(KeyDemo, false, "use an in-memory demo service instead of the network")
	flags.Duration(KeyMessageTimeout, defaultMessageTimeout, "how long status messages stay visible")
	flags.String(KeyHTMLSnapshot, "", "also write the page as HTML to this file after every change")
	flags.Bool(KeyColor, true, "colorize terminal output")
}
