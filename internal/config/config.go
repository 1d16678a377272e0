package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// Fallback modes for reporting annotations when a check run cannot be created.
const (
	FallbackLog      = "log"
	FallbackCommands = "commands"
)

// ErrInvalid is returned when a loaded value fails validation.
var ErrInvalid = errors.New("invalid configuration")

// Config represents the clippycheck configuration.
type Config struct {
	Token        string  `mapstructure:"token" json:"token,omitempty"`
	Toolchain    string  `mapstructure:"toolchain" json:"toolchain"`
	Args         string  `mapstructure:"args" json:"args"`
	UseCross     bool    `mapstructure:"use-cross" json:"useCross"`
	Name         string  `mapstructure:"name" json:"name"`
	ManifestPath string  `mapstructure:"manifest-path" json:"manifestPath,omitempty"`
	Fallback     string  `mapstructure:"fallback" json:"fallback"`
	RateLimit    float64 `mapstructure:"rate-limit" json:"rateLimit"`
	Debug        bool    `mapstructure:"debug" json:"debug"`
	JSONLogs     bool    `mapstructure:"json-logs" json:"jsonLogs"`
	APIURL       string  `mapstructure:"api-url" json:"apiUrl,omitempty"`
}

// Keys lists every configuration key.
var Keys = []string{
	"token", "toolchain", "args", "use-cross", "name", "manifest-path",
	"fallback", "rate-limit", "debug", "json-logs", "api-url",
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Name:      "clippy",
		Fallback:  FallbackLog,
		RateLimit: 1,
	}
}

// SetDefaults registers the defaults on v.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("token", d.Token)
	v.SetDefault("toolchain", d.Toolchain)
	v.SetDefault("args", d.Args)
	v.SetDefault("use-cross", d.UseCross)
	v.SetDefault("name", d.Name)
	v.SetDefault("manifest-path", d.ManifestPath)
	v.SetDefault("fallback", d.Fallback)
	v.SetDefault("rate-limit", d.RateLimit)
	v.SetDefault("debug", d.Debug)
	v.SetDefault("json-logs", d.JSONLogs)
	v.SetDefault("api-url", d.APIURL)
}

// ConfigDir returns the platform-appropriate config directory for clippycheck.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "clippycheck"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "cannot determine home directory")
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "clippycheck"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "clippycheck"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "clippycheck"), nil
	default:
		return filepath.Join(home, ".config", "clippycheck"), nil
	}
}

// bindEnv maps key onto CLIPPYCHECK_<KEY> and the Actions input variable
// INPUT_<KEY>. Actions keeps dashes in input names, so use-cross arrives as
// INPUT_USE-CROSS.
func bindEnv(v *viper.Viper, key string) error {
	upper := strings.ToUpper(key)
	names := []string{
		"CLIPPYCHECK_" + strings.ReplaceAll(upper, "-", "_"),
		"INPUT_" + upper,
	}
	if key == "token" {
		names = append(names, "GITHUB_TOKEN")
	}
	return v.BindEnv(append([]string{key}, names...)...)
}

// New returns a viper instance with defaults and environment bindings.
func New() (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	for _, k := range Keys {
		if err := bindEnv(v, k); err != nil {
			return nil, errors.Wrapf(err, "binding %s", k)
		}
	}
	return v, nil
}

// readFile loads path into v. With an empty path the user config directory
// is searched and a missing file is not an error.
func readFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "reading config file %s", path)
		}
		return nil
	}

	dir, err := ConfigDir()
	if err != nil {
		return nil
	}
	v.SetConfigName("config")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return errors.Wrap(err, "reading config file")
	}
	return nil
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-empty values are applied).
func Load(path string, overrides map[string]string) (Config, error) {
	v, err := New()
	if err != nil {
		return Config{}, err
	}
	if err := readFile(v, path); err != nil {
		return Config{}, err
	}
	mergeOverrides(v, overrides)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decoding config")
	}
	cfg.Toolchain = NormalizeToolchain(cfg.Toolchain)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func mergeOverrides(v *viper.Viper, overrides map[string]string) {
	for k, val := range overrides {
		if val != "" {
			v.Set(k, val)
		}
	}
}

// NormalizeToolchain strips the leading "+" accepted for rustup toolchains.
func NormalizeToolchain(tc string) string {
	return strings.TrimPrefix(strings.TrimSpace(tc), "+")
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	switch c.Fallback {
	case FallbackLog, FallbackCommands:
	default:
		return errors.WithHint(errors.Wrapf(ErrInvalid, "fallback %q", c.Fallback),
			`use "log" or "commands"`)
	}
	if c.RateLimit < 0 {
		return errors.Wrapf(ErrInvalid, "rate-limit %v must not be negative", c.RateLimit)
	}
	if c.Name == "" {
		return errors.Wrap(ErrInvalid, "name must not be empty")
	}
	return nil
}
