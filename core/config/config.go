package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"
	EventLogName      = "events.jsonl"
)

// Color modes.
const (
	ColorAlways = "always"
	ColorAuto   = "auto"
	ColorNever  = "never"
)

type Configuration struct {
	configFs         afero.Fs
	configurationDir string

	Prompt        string `json:"prompt" validate:"required"`
	MaxLineLength int    `json:"max_line_length" validate:"gte=2,lte=65536"`
	MaxArgs       int    `json:"max_args" validate:"gte=1,lte=4096"`
	Color         string `json:"color" validate:"oneof=always auto never"`
	HistoryFile   string `json:"history_file"`
	EventLog      bool   `json:"event_log"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

func (c *Configuration) fs() afero.Fs {
	if c.configFs == nil {
		return afero.NewMemMapFs()
	}
	return c.configFs
}

// Dir returns the directory the configuration was loaded from.
func (c *Configuration) Dir() string {
	return c.configurationDir
}

// HistoryPath returns the readline history file or "" if history isn't
// persisted.
func (c *Configuration) HistoryPath() string {
	switch {
	case c.HistoryFile == "":
		return ""
	case filepath.IsAbs(c.HistoryFile):
		return c.HistoryFile
	default:
		return filepath.Join(c.configurationDir, c.HistoryFile)
	}
}

// OpenEventLog opens the event log in an append only state.
func (c *Configuration) OpenEventLog() (afero.File, error) {
	return c.fs().OpenFile(EventLogName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

func (c *Configuration) ReadEventLog() (afero.File, error) {
	return c.fs().OpenFile(EventLogName, os.O_RDONLY, 0600)
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}

// Default returns the built-in configuration, not bound to any directory.
func Default() *Configuration {
	return defaultConfig()
}
