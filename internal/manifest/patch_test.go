package manifest

import (
	"errors"
	"testing"

	"github.com/jakoblorz/go-expressgen/internal/filesystem"
	"github.com/jakoblorz/go-expressgen/internal/models"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestPatch_PreservesUnrelatedKeys(t *testing.T) {
	patch := NewPatch().
		Set("nodemon src/server.js", "scripts", "dev").
		Set("node src/server.js", "scripts", "start")

	out, err := patch.Apply([]byte(`{"name":"x","foo":"bar"}`))
	require.NoError(t, err)

	require.Equal(t, "bar", gjson.GetBytes(out, "foo").String())
	require.Equal(t, "x", gjson.GetBytes(out, "name").String())
	require.Equal(t, "nodemon src/server.js", gjson.GetBytes(out, "scripts.dev").String())
	require.Equal(t, "node src/server.js", gjson.GetBytes(out, "scripts.start").String())
}

func TestPatch_IndentsWithTwoSpacesAndKeepsOrder(t *testing.T) {
	patch := NewPatch().
		Set("jest", "scripts", "test").
		Set("Ada", "author")

	out, err := patch.Apply([]byte(`{"name":"demo","version":"1.0.0","scripts":{"test":"echo \"Error: no test specified\" && exit 1"},"author":""}`))
	require.NoError(t, err)

	require.Equal(t, `{
  "name": "demo",
  "version": "1.0.0",
  "scripts": {
    "test": "jest"
  },
  "author": "Ada"
}
`, string(out))
}

func TestPatch_SetIfAbsentNeverOverwrites(t *testing.T) {
	patch := NewPatch().
		SetIfAbsent("^6.1.5", "dependencies", "helmet").
		SetIfAbsent("^9.0.2", "dependencies", "jsonwebtoken")

	out, err := patch.Apply([]byte(`{"dependencies":{"helmet":"^8.0.0"}}`))
	require.NoError(t, err)

	require.Equal(t, "^8.0.0", gjson.GetBytes(out, "dependencies.helmet").String())
	require.Equal(t, "^9.0.2", gjson.GetBytes(out, "dependencies.jsonwebtoken").String())
}

func TestPatch_EscapesSpecialKeys(t *testing.T) {
	patch := NewPatch().
		Set("docker build -t demo .", "scripts", "docker:build").
		SetIfAbsent("^5.0.0", "devDependencies", "@types/express").
		Set("1", "weird.key")

	out, err := patch.Apply([]byte(`{}`))
	require.NoError(t, err)

	parsed := gjson.ParseBytes(out)
	require.Equal(t, "docker build -t demo .", parsed.Get("scripts").Map()["docker:build"].String())
	require.Equal(t, "^5.0.0", parsed.Get("devDependencies").Map()["@types/express"].String())
	require.Equal(t, "1", parsed.Map()["weird.key"].String())
}

func TestPatch_IsIdempotent(t *testing.T) {
	patch := NewPatch().
		Set("tsc", "scripts", "build").
		SetIfAbsent("ts-jest", "jest", "preset")

	first, err := patch.Apply([]byte(`{"name":"demo"}`))
	require.NoError(t, err)
	second, err := patch.Apply(first)
	require.NoError(t, err)

	require.Equal(t, string(first), string(second))
}

func TestPatch_RejectsInvalidDocuments(t *testing.T) {
	_, err := NewPatch().Apply([]byte(`{"name":`))
	require.Error(t, err)

	_, err = NewPatch().Apply([]byte(`["not", "an", "object"]`))
	require.Error(t, err)
}

func TestPatch_ApplyFile(t *testing.T) {
	mock := filesystem.NewMockFileSystem()
	mock.AddFile("/workspace/demo/package.json", []byte(`{"name":"demo","foo":"bar"}`))
	mock.AddFile("/workspace/broken/package.json", []byte(`not json`))
	gw := filesystem.NewGateway(mock)

	patch := NewPatch().Set("MIT", "license")
	require.Equal(t, 1, patch.Len())
	require.Equal(t, "license", patch.Ops()[0].Path())

	require.NoError(t, patch.ApplyFile(gw, "/workspace/demo/package.json"))
	content, err := gw.ReadFile("/workspace/demo/package.json")
	require.NoError(t, err)
	require.Equal(t, "MIT", gjson.Get(content, "license").String())
	require.Equal(t, "bar", gjson.Get(content, "foo").String())

	err = patch.ApplyFile(gw, "/workspace/broken/package.json")
	var parseErr *models.ManifestParseError
	require.True(t, errors.As(err, &parseErr))
	require.Equal(t, "/workspace/broken/package.json", parseErr.Path)

	err = patch.ApplyFile(gw, "/workspace/missing/package.json")
	var ioErr *models.IOError
	require.True(t, errors.As(err, &ioErr))
	require.True(t, ioErr.NotFound())
}
