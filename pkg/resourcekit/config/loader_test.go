package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlManifest = `
resources:
  - name: app-db
    uri: sqlite:app.db
    options:
      journal_mode: WAL
  - name: scratch
    uri: memory://scratch
`

const jsonManifest = `{
  "resources": [
    {"name": "app-db", "uri": "sqlite:app.db"},
    {"name": "scratch", "uri": "memory://scratch"}
  ]
}`

func TestFromYAML(t *testing.T) {
	m, err := FromYAML([]byte(yamlManifest))
	require.NoError(t, err)

	require.Len(t, m.Resources, 2)
	assert.Equal(t, "app-db", m.Resources[0].Name)
	assert.Equal(t, "sqlite:app.db", m.Resources[0].URI)
	assert.Equal(t, "WAL", m.Resources[0].Options["journal_mode"])
	assert.Equal(t, "memory://scratch", m.Resources[1].URI)
}

func TestFromYAMLInvalid(t *testing.T) {
	_, err := FromYAML([]byte("resources: [not a mapping"))
	assert.ErrorContains(t, err, "parse yaml")
}

func TestFromYAMLValidates(t *testing.T) {
	_, err := FromYAML([]byte("resources:\n  - name: a\n    uri: \"\"\n"))
	assert.ErrorContains(t, err, "uri is empty")
}

func TestFromJSON(t *testing.T) {
	m, err := FromJSON([]byte(jsonManifest))
	require.NoError(t, err)
	require.Len(t, m.Resources, 2)
	assert.Equal(t, "sqlite:app.db", m.Resources[0].URI)
}

func TestFromJSONInvalid(t *testing.T) {
	_, err := FromJSON([]byte("{not json"))
	assert.ErrorContains(t, err, "parse json")
}

func TestFromFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlManifest), 0o600))

	m, err := FromFile(path)
	require.NoError(t, err)
	assert.Len(t, m.Resources, 2)
}

func TestFromFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	require.NoError(t, os.WriteFile(path, []byte(jsonManifest), 0o600))

	m, err := FromFile(path)
	require.NoError(t, err)
	assert.Len(t, m.Resources, 2)
}

func TestFromFileUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.toml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o600))

	_, err := FromFile(path)
	assert.ErrorContains(t, err, "unsupported manifest file extension")
}

func TestFromFileMissing(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "read manifest file")
}
