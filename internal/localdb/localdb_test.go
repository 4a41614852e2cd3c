package localdb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSettingsRoundTrip(t *testing.T) {
	db, err := Open(t.TempDir())
	require.NoError(t, err)
	defer db.Close()

	// Missing key reads as empty, not an error
	val, err := db.GetSetting("session/v1")
	require.NoError(t, err)
	require.Empty(t, val)

	require.NoError(t, db.SetSetting("session/v1", `{"token":"abc"}`))

	val, err = db.GetSetting("session/v1")
	require.NoError(t, err)
	require.Equal(t, `{"token":"abc"}`, val)

	// Upsert overwrites
	require.NoError(t, db.SetSetting("session/v1", `{"token":"def"}`))
	val, err = db.GetSetting("session/v1")
	require.NoError(t, err)
	require.Equal(t, `{"token":"def"}`, val)

	require.NoError(t, db.DeleteSetting("session/v1"))
	val, err = db.GetSetting("session/v1")
	require.NoError(t, err)
	require.Empty(t, val)
}

func TestOpenCreatesDataDir(t *testing.T) {
	dir := t.TempDir() + "/nested/data"
	db, err := Open(dir)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.SetSetting("prefs/v1", `{"theme":"dark"}`))
}
