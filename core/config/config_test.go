package config

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v2"
)

func TestBuiltinConfig(t *testing.T) {
	rawConfig := make(map[string]interface{})
	assert.Nil(t, yaml.Unmarshal(defaultConfigData, &rawConfig))

	knownFields := make(map[string]bool)
	rt := reflect.TypeOf(Configuration{})
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		assert.NotEmpty(t, jsonTag)
		jsonField := strings.Split(jsonTag, ",")[0]
		knownFields[jsonField] = true

		if _, ok := rawConfig[jsonField]; !ok {
			assert.False(t, true, "default config missing field: %q", jsonField)
		}
	}

	for k := range rawConfig {
		_, ok := knownFields[k]
		assert.True(t, ok, "default config contains invalid field: %q", k)
	}
}

func TestDefaultConfig(t *testing.T) {
	// Will panic() on load failure because it should never happen at runtime.
	cfg := defaultConfig()
	assert.NotNil(t, cfg)
	assert.Nil(t, cfg.Validate())

	assert.Equal(t, `\w Command> `, cfg.Prompt)
	assert.Equal(t, 512, cfg.MaxLineLength)
	assert.Equal(t, 512, cfg.MaxArgs)
	assert.Equal(t, ColorAuto, cfg.Color)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Configuration){
		"empty prompt":     func(c *Configuration) { c.Prompt = "" },
		"short line limit": func(c *Configuration) { c.MaxLineLength = 1 },
		"no args":          func(c *Configuration) { c.MaxArgs = 0 },
		"bad color":        func(c *Configuration) { c.Color = "sometimes" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := defaultConfig()
			mutate(cfg)
			assert.NotNil(t, cfg.Validate())
		})
	}
}

func TestHistoryPath(t *testing.T) {
	cfg := defaultConfig()
	cfg.configurationDir = "/etc/smallsh"

	assert.Equal(t, "", cfg.HistoryPath())

	cfg.HistoryFile = "history"
	assert.Equal(t, "/etc/smallsh/history", cfg.HistoryPath())

	cfg.HistoryFile = "/tmp/history"
	assert.Equal(t, "/tmp/history", cfg.HistoryPath())
}
