package config

import (
	"io/ioutil"
	"log"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
)

func TestInitialize(t *testing.T) {
	fsys := afero.NewMemMapFs()
	cfg, err := InitializeFs(fsys, "/home/user/.config/smallsh", log.New(ioutil.Discard, "", 0))
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "/home/user/.config/smallsh", cfg.Dir())

	written, err := afero.ReadFile(fsys, "/home/user/.config/smallsh/config.yaml")
	assert.Nil(t, err)
	assert.Equal(t, defaultConfigData, written)

	t.Run("OpenEventLog", func(t *testing.T) {
		fd, err := cfg.OpenEventLog()
		assert.Nil(t, err)
		fd.Write([]byte("{}\n"))
		fd.Close()

		fd, err = cfg.ReadEventLog()
		assert.Nil(t, err)
		fd.Close()
	})

	t.Run("KeepsExisting", func(t *testing.T) {
		assert.Nil(t, afero.WriteFile(fsys, "/home/user/.config/smallsh/config.yaml", []byte("max_args: 7\n"), 0600))

		cfg, err := InitializeFs(fsys, "/home/user/.config/smallsh", log.New(ioutil.Discard, "", 0))
		assert.Nil(t, err)
		assert.Equal(t, 7, cfg.MaxArgs)
	})
}

func TestLoadMissing(t *testing.T) {
	cfg, err := LoadFs(afero.NewMemMapFs(), "/nowhere")
	assert.Nil(t, err)
	assert.Equal(t, defaultConfig().MaxArgs, cfg.MaxArgs)
	assert.Equal(t, "/nowhere", cfg.Dir())
}

func TestLoadConfigFilePath(t *testing.T) {
	fsys := afero.NewMemMapFs()
	assert.Nil(t, afero.WriteFile(fsys, "/cfg/config.yaml", []byte("prompt: '$ '\ncolor: never\n"), 0600))

	cfg, err := LoadFs(fsys, "/cfg/config.yaml")
	assert.Nil(t, err)
	assert.Equal(t, "$ ", cfg.Prompt)
	assert.Equal(t, ColorNever, cfg.Color)
	// Unset fields keep their defaults.
	assert.Equal(t, 512, cfg.MaxLineLength)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	fsys := afero.NewMemMapFs()
	assert.Nil(t, afero.WriteFile(fsys, "/cfg/config.yaml", []byte("ssh_port: 22\n"), 0600))

	_, err := LoadFs(fsys, "/cfg")
	assert.NotNil(t, err)
}

func TestLoadRejectsInvalid(t *testing.T) {
	fsys := afero.NewMemMapFs()
	assert.Nil(t, afero.WriteFile(fsys, "/cfg/config.yaml", []byte("max_line_length: 0\n"), 0600))

	_, err := LoadFs(fsys, "/cfg")
	assert.NotNil(t, err)
}
