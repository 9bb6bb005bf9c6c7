package powertrack_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sunwatt-io/powertrack/pkg/powertrack"
)

func TestSiteEntry_RoundTrip(t *testing.T) {
	t.Parallel()

	raw := `{"key":"S60442","name":"Hilltop Solar","capacityKw":500.5,"region":"west"}`

	var entry powertrack.SiteEntry

	require.NoError(t, json.Unmarshal([]byte(raw), &entry))
	assert.Equal(t, "S60442", entry.Key)
	assert.Equal(t, "Hilltop Solar", entry.Name)
	assert.Equal(t, 500.5, entry.Metadata["capacityKw"])
	assert.Equal(t, "west", entry.Metadata["region"])

	encoded, err := json.Marshal(entry)
	require.NoError(t, err)

	var flat map[string]interface{}

	require.NoError(t, json.Unmarshal(encoded, &flat))
	assert.Equal(t, "S60442", flat["key"])
	assert.Equal(t, "Hilltop Solar", flat["name"])
	assert.Equal(t, 500.5, flat["capacityKw"])
	assert.Equal(t, "west", flat["region"])
}

func TestSiteList_SaveAndLoad(t *testing.T) {
	t.Parallel()

	list := &powertrack.SiteList{
		Metadata: map[string]interface{}{"customer": "C8458"},
		Sites: []powertrack.SiteEntry{
			{Key: "S60442", Name: "Hilltop Solar"},
			{Key: "S60443", Name: "Riverbend Solar", Metadata: map[string]interface{}{"region": "east"}},
		},
	}

	path := filepath.Join(t.TempDir(), "sites.json")

	require.NoError(t, list.Save(path))

	loaded, err := powertrack.LoadSiteList(path)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Len())
	assert.Equal(t, "C8458", loaded.Metadata["customer"])
	assert.Equal(t, "S60442", loaded.Sites[0].Key)
	assert.Equal(t, "east", loaded.Sites[1].Metadata["region"])
}

func TestLoadSiteList_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := powertrack.LoadSiteList(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestSiteList_GetByKey(t *testing.T) {
	t.Parallel()

	list := &powertrack.SiteList{
		Sites: []powertrack.SiteEntry{
			{Key: "S60442", Name: "Hilltop Solar"},
		},
	}

	t.Run("bare numeric key is normalized", func(t *testing.T) {
		t.Parallel()

		entry, err := list.GetByKey("60442")
		require.NoError(t, err)
		assert.Equal(t, "Hilltop Solar", entry.Name)
	})

	t.Run("missing site", func(t *testing.T) {
		t.Parallel()

		_, err := list.GetByKey("S99999")
		require.ErrorIs(t, err, powertrack.ErrSiteNotInList)
	})
}

func TestSiteList_FilterByKeys(t *testing.T) {
	t.Parallel()

	list := &powertrack.SiteList{
		Sites: []powertrack.SiteEntry{
			{Key: "S1", Name: "One"},
			{Key: "S2", Name: "Two"},
			{Key: "S3", Name: "Three"},
		},
	}

	filtered := list.FilterByKeys([]string{"3", "S1"})

	require.Equal(t, 2, filtered.Len())
	assert.Equal(t, "S1", filtered.Sites[0].Key)
	assert.Equal(t, "S3", filtered.Sites[1].Key)
}

func TestSiteList_Keys(t *testing.T) {
	t.Parallel()

	list := &powertrack.SiteList{
		Sites: []powertrack.SiteEntry{
			{Key: "60442"},
			{Key: "S60443"},
		},
	}

	assert.Equal(t, []string{"S60442", "S60443"}, list.Keys())
}
