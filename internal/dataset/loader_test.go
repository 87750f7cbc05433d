package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoaderEmbeddedDefaults(t *testing.T) {
	loader, err := NewLoader(Paths{})
	require.NoError(t, err)
	defer loader.Close()

	snap := loader.Snapshot()
	assert.Equal(t, int64(1), snap.Version)

	meta, ok := snap.Crops().Lookup("onion")
	require.True(t, ok)
	assert.Equal(t, 30, meta.OpenShelfLifeDays)
	assert.Equal(t, 90, meta.ColdShelfLifeDays)

	assert.NotEmpty(t, snap.Markets().Markets())
	assert.NotEmpty(t, snap.Facilities())
}

func TestLoaderOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crops.yaml")
	override := `version: 2
crops:
  - name: okra
    open_shelf_life_days: 4
    cold_shelf_life_days: 10
    sensitivity: high
`
	require.NoError(t, os.WriteFile(path, []byte(override), 0o644))

	loader, err := NewLoader(Paths{Crops: path})
	require.NoError(t, err)
	defer loader.Close()

	snap := loader.Snapshot()
	_, ok := snap.Crops().Lookup("onion")
	assert.False(t, ok, "override replaces the embedded crop set")
	meta, ok := snap.Crops().Lookup("okra")
	require.True(t, ok)
	assert.Equal(t, 4, meta.OpenShelfLifeDays)
}

func TestLoaderRejectsInvalidOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crops.yaml")

	t.Run("missing required field", func(t *testing.T) {
		bad := "version: 1\ncrops:\n  - name: okra\n    sensitivity: high\n"
		require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))
		_, err := NewLoader(Paths{Crops: path})
		assert.ErrorContains(t, err, "schema validation")
	})

	t.Run("bad sensitivity enum", func(t *testing.T) {
		bad := `version: 1
crops:
  - name: okra
    open_shelf_life_days: 4
    cold_shelf_life_days: 10
    sensitivity: extreme
`
		require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))
		_, err := NewLoader(Paths{Crops: path})
		assert.ErrorContains(t, err, "schema validation")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewLoader(Paths{Crops: filepath.Join(dir, "absent.yaml")})
		assert.Error(t, err)
	})
}

func TestSnapshotFacilitiesCopied(t *testing.T) {
	loader, err := NewLoader(Paths{})
	require.NoError(t, err)
	defer loader.Close()

	snap := loader.Snapshot()
	a := snap.Facilities()
	require.NotEmpty(t, a)
	a[0].AvailableKg = -1
	b := snap.Facilities()
	assert.NotEqual(t, a[0].AvailableKg, b[0].AvailableKg)
}
