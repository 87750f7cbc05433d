package crops

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreLookup(t *testing.T) {
	store := NewStore([]Metadata{
		{Name: "Onion", OpenShelfLifeDays: 30, ColdShelfLifeDays: 90, Sensitivity: SensitivityMedium},
		{Name: "tomato", OpenShelfLifeDays: 7, ColdShelfLifeDays: 21, Sensitivity: SensitivityHigh},
	})

	t.Run("case insensitive", func(t *testing.T) {
		meta, ok := store.Lookup("ONION")
		assert.True(t, ok)
		assert.Equal(t, 30, meta.OpenShelfLifeDays)

		meta, ok = store.Lookup("  Tomato ")
		assert.True(t, ok)
		assert.Equal(t, SensitivityHigh, meta.Sensitivity)
	})

	t.Run("unknown crop", func(t *testing.T) {
		_, ok := store.Lookup("durian")
		assert.False(t, ok)
	})
}

func TestDefaultProfile(t *testing.T) {
	meta := DefaultProfile("Durian")
	assert.Equal(t, "durian", meta.Name)
	assert.Equal(t, 7, meta.OpenShelfLifeDays)
	assert.Equal(t, 21, meta.ColdShelfLifeDays)
	assert.Equal(t, SensitivityMedium, meta.Sensitivity)
}
