package storage

import (
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalizePath(t *testing.T) {
	assert.Equal(t, "/dbfs/mnt/export", LocalizePath("dbfs:/mnt/export"))
	assert.Equal(t, "/tmp/export", LocalizePath("/tmp/export"))
	assert.Equal(t, "relative/export", LocalizePath("relative/export"))
}

func TestStore_WriteDocument(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewStore(fs)

	doc := map[string]interface{}{"name": "mymodel"}
	err := store.WriteDocument("/out/model.json", doc)
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, "/out/model.json")
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "mymodel", got["name"])
}

func TestStore_WriteDocument_DBFSPath(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewStore(fs)

	err := store.WriteDocument("dbfs:/mnt/export/model.json", map[string]interface{}{"name": "m"})
	require.NoError(t, err)

	exists, err := afero.Exists(fs, "/dbfs/mnt/export/model.json")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStore_WriteDocument_Overwrites(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewStore(fs)

	require.NoError(t, store.WriteDocument("/out/model.json", map[string]interface{}{"version": "1"}))
	require.NoError(t, store.WriteDocument("/out/model.json", map[string]interface{}{"version": "2"}))

	data, err := afero.ReadFile(fs, "/out/model.json")
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "2", got["version"])
}

func TestStore_MkdirAll_Idempotent(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewStore(fs)

	require.NoError(t, store.MkdirAll("/out/nested"))
	require.NoError(t, store.MkdirAll("/out/nested"))
}

func TestStore_WriteFile_CreatesParents(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewStore(fs)

	require.NoError(t, store.WriteFile("/out/artifacts/model/weights.bin", []byte("weights")))

	data, err := afero.ReadFile(fs, "/out/artifacts/model/weights.bin")
	require.NoError(t, err)
	assert.Equal(t, []byte("weights"), data)
}
