// Package config assembles the client configuration from defaults, an
// optional JSON file, the environment (including a .env file) and
// command-line flags, in increasing order of priority.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	// APIBaseURL is the root of the shortening API.
	APIBaseURL string `env:"API_BASE_URL" json:"api_base_url" validate:"required,url"`

	LogLevel string `env:"LOG_LEVEL" json:"log_level" validate:"loglevel"`

	// SessionFile is the JSON file the session is kept in.
	SessionFile string `env:"SESSION_FILE_PATH" json:"session_file_path" validate:"filepath"`

	// SessionDB is the SQLite database the session is kept in. It takes
	// precedence over SessionFile.
	SessionDB string `env:"SESSION_DB_PATH" json:"session_db_path" validate:"filepath"`

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" json:"-" validate:"min=0"`

	// StubAddr is where cmd/apistub listens.
	StubAddr string `env:"STUB_ADDRESS" json:"stub_address" validate:"omitempty,hostname_port"`

	// StubSigningKey signs the tokens cmd/apistub issues.
	StubSigningKey string `env:"STUB_SIGNING_KEY" json:"stub_signing_key"`

	// ConfigFile is the optional JSON file read before the environment.
	ConfigFile string `env:"CONFIG" json:"-"`
}

type fileConfig struct {
	Config
	RequestTimeout string `json:"request_timeout"`
}

var defaultConfig = Config{
	APIBaseURL:     "http://localhost:8080",
	LogLevel:       "info",
	SessionFile:    defaultSessionFile(),
	SessionDB:      "",
	RequestTimeout: 10 * time.Second,
	StubAddr:       ":8080",
	StubSigningKey: "linkdash-stub-signing-key",
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".linkdash-session.json"
	}

	return dir + string(os.PathSeparator) + "linkdash-session.json"
}

// applyDefaults fills the settings that must never be empty. Session paths
// are left alone: both empty selects the in-memory backend.
func applyDefaults(dst *Config, defaults Config) {
	if dst.APIBaseURL == "" {
		dst.APIBaseURL = defaults.APIBaseURL
	}
	if dst.LogLevel == "" {
		dst.LogLevel = defaults.LogLevel
	}
	if dst.RequestTimeout == 0 {
		dst.RequestTimeout = defaults.RequestTimeout
	}
	if dst.StubAddr == "" {
		dst.StubAddr = defaults.StubAddr
	}
	if dst.StubSigningKey == "" {
		dst.StubSigningKey = defaults.StubSigningKey
	}
}

func validateFilePath(fieldLevel validator.FieldLevel) bool {
	path := fieldLevel.Field().String()
	if path == "" || path == ":memory:" {
		return true
	}
	_, err := os.Stat(path)

	return err == nil || os.IsNotExist(err)
}

func validateLogLevel(fieldLevel validator.FieldLevel) bool {
	value := fieldLevel.Field().String()

	allowedLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
	}

	return allowedLogLevels[value]
}

func (c *Config) validate() error {
	validate := validator.New()

	err := validate.RegisterValidation("loglevel", validateLogLevel)
	if err != nil {
		return err
	}

	err = validate.RegisterValidation("filepath", validateFilePath)
	if err != nil {
		return err
	}

	return validate.Struct(c)
}

func (c *Config) clarifyAPIBaseURL() {
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")
}

func (c *Config) loadJSON(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("in internal/config/config.go/loadJSON(): error while `os.ReadFile()` calling: %w", err)
	}

	fromFile := fileConfig{Config: *c}
	if err := json.Unmarshal(data, &fromFile); err != nil {
		return fmt.Errorf("in internal/config/config.go/loadJSON(): error while `json.Unmarshal()` calling: %w", err)
	}

	if fromFile.RequestTimeout != "" {
		timeout, err := time.ParseDuration(fromFile.RequestTimeout)
		if err != nil {
			return fmt.Errorf("invalid request_timeout %q: %w", fromFile.RequestTimeout, err)
		}
		fromFile.Config.RequestTimeout = timeout
	}

	configFile := c.ConfigFile
	*c = fromFile.Config
	c.ConfigFile = configFile

	return nil
}

type InitOption func(*initOptions)

type initOptions struct {
	disableFlagsParsing bool
	args                []string
}

func WithDisableFlagsParsing(disableFlagsParsing bool) InitOption {
	return func(options *initOptions) {
		options.disableFlagsParsing = disableFlagsParsing
	}
}

// WithArgs parses args instead of os.Args[1:].
func WithArgs(args []string) InitOption {
	return func(options *initOptions) {
		options.args = args
	}
}

func New(optionsProto ...InitOption) (*Config, error) {
	options := &initOptions{
		disableFlagsParsing: false,
		args:                os.Args[1:],
	}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	// A missing .env file is the normal case.
	_ = godotenv.Load()

	flagValues := Config{}
	flags := flag.NewFlagSet("linkdash", flag.ContinueOnError)
	flags.StringVar(&flagValues.APIBaseURL, "b", "", "base URL of the shortening API")
	flags.StringVar(&flagValues.LogLevel, "l", "", "logger level")
	flags.StringVar(&flagValues.SessionFile, "f", "", "JSON file the session is kept in")
	flags.StringVar(&flagValues.SessionDB, "d", "", "SQLite database the session is kept in")
	flags.DurationVar(&flagValues.RequestTimeout, "t", 0, "API request timeout")
	flags.StringVar(&flagValues.StubAddr, "a", "", "address the API stub listens on")
	flags.StringVar(&flagValues.ConfigFile, "c", "", "JSON configuration file")

	setFlags := map[string]bool{}
	if !options.disableFlagsParsing {
		if err := flags.Parse(options.args); err != nil {
			return nil, err
		}
		flags.Visit(func(f *flag.Flag) {
			setFlags[f.Name] = true
		})
	}

	cfg := defaultConfig

	configFile := os.Getenv("CONFIG")
	if setFlags["c"] {
		configFile = flagValues.ConfigFile
	}
	if configFile != "" {
		cfg.ConfigFile = configFile
		if err := cfg.loadJSON(configFile); err != nil {
			return nil, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}

	if setFlags["b"] {
		cfg.APIBaseURL = flagValues.APIBaseURL
	}
	if setFlags["l"] {
		cfg.LogLevel = flagValues.LogLevel
	}
	if setFlags["f"] {
		cfg.SessionFile = flagValues.SessionFile
	}
	if setFlags["d"] {
		cfg.SessionDB = flagValues.SessionDB
	}
	if setFlags["t"] {
		cfg.RequestTimeout = flagValues.RequestTimeout
	}
	if setFlags["a"] {
		cfg.StubAddr = flagValues.StubAddr
	}
	if setFlags["c"] {
		cfg.ConfigFile = flagValues.ConfigFile
	}

	applyDefaults(&cfg, defaultConfig)
	cfg.clarifyAPIBaseURL()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
