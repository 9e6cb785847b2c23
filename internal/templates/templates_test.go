package templates_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sideout/sideout/internal/templates"
)

const beachDoubles = `
name: beach-doubles
description: two-a-side, serve and defense carry
weights:
  serve: 0.3
  receive: 0.2
  defense: 0.3
  attack: 0.2
team_cap: 2
`

func TestParseValidTemplate(t *testing.T) {
	tmpl, err := templates.Parse([]byte(beachDoubles))
	require.NoError(t, err)
	require.Equal(t, "beach-doubles", tmpl.Name)
	require.Equal(t, 2, tmpl.TeamCap)

	w, err := tmpl.SkillWeights()
	require.NoError(t, err)
	require.InDelta(t, 0.3, w.Serve, 1e-9)
	require.Zero(t, w.Set, "missing skills keep weight zero")
}

func TestParseRejectsBadTemplates(t *testing.T) {
	cases := map[string]string{
		"empty payload":  "",
		"missing name":   "weights: {serve: 1}",
		"no weights":     "name: x",
		"unknown skill":  "name: x\nweights: {dribble: 1}",
		"negative":       "name: x\nweights: {serve: -0.5}",
		"negative cap":   "name: x\nweights: {serve: 1}\nteam_cap: -1",
		"malformed yaml": "name: [",
	}

	for label, payload := range cases {
		_, err := templates.Parse([]byte(payload))
		require.Error(t, err, label)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yaml"), []byte(beachDoubles), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yml"), []byte("name: all-round\nweights: {serve: 1}"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600))

	got, err := templates.LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, got, 2, "non-YAML files are skipped")
	require.Equal(t, "all-round", got[0].Name, "results sort by name")
	require.Equal(t, "beach-doubles", got[1].Name)
}

func TestLoadDirMissingIsEmpty(t *testing.T) {
	got, err := templates.LoadDir(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	require.Nil(t, got)

	got, err = templates.LoadDir("   ")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestLoadDirSurfacesBadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("name: x\nweights: {dribble: 1}"), 0o600))

	_, err := templates.LoadDir(dir)
	require.ErrorIs(t, err, templates.ErrInvalidTemplate)
}
