package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingDefaultFileUsesDefaults(t *testing.T) {
	cfg, err := Load(afero.NewMemMapFs(), "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), "custom.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "custom.yaml")
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, FileName, []byte(`
paths: [specs, lib]
charset: ascii
db: .jafar/history.db
`), 0o644))

	cfg, err := Load(fs, "")
	require.NoError(t, err)
	assert.Equal(t, Config{
		Paths:   []string{"specs", "lib"},
		Ext:     ".go",
		Charset: "ascii",
		Color:   ColorAuto,
		DB:      ".jafar/history.db",
	}, cfg)
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, FileName, []byte("colour: never\n"), 0o644))

	_, err := Load(fs, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "colour")
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "bad.yaml", []byte("charset: ebcdic\ncolor: sometimes\n"), 0o644))

	_, err := Load(fs, "bad.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid charset "ebcdic"`)
	assert.Contains(t, err.Error(), `invalid color "sometimes"`)
}

func TestParse_EmptyDocument(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestMerge_EmptyOverlayKeepsBase(t *testing.T) {
	base := Config{Paths: []string{"a"}, Ext: ".go", Charset: "utf-8", Color: ColorNever, DB: "x.db"}
	assert.Equal(t, base, Merge(base, Config{}))
}
