package history

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/clipshr/internal/apperr"
	"github.com/ytget/clipshr/internal/model"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	root := t.TempDir()
	mediaDir := filepath.Join(root, "media")
	require.NoError(t, os.MkdirAll(mediaDir, 0755))
	return NewStore(filepath.Join(root, "db.json"), mediaDir, nil), mediaDir
}

func record(filename string) model.HistoryRecord {
	return model.HistoryRecord{
		URL:       "https://example.com/watch?v=" + filename,
		Filename:  filename,
		Kind:      model.MediaKindVideo,
		Format:    "best",
		Timestamp: "20260102_030405",
		SizeLabel: "1.00 KB",
	}
}

func TestList_MissingFileIsEmpty(t *testing.T) {
	store, _ := newTestStore(t)

	records, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NotNil(t, records)
}

func TestAppend_PreservesOrder(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Append(record("a.mp4")))
	require.NoError(t, store.Append(record("b.mp4")))

	records, err := store.List()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a.mp4", records[0].Filename)
	assert.Equal(t, "b.mp4", records[1].Filename)
}

func TestAppend_WritesJSONArray(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Append(record("a.mp4")))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"filename": "a.mp4"`)
	assert.Contains(t, string(data), `"type": "video"`)
	assert.Contains(t, string(data), `"size": "1.00 KB"`)
}

func TestAppend_Concurrent(t *testing.T) {
	store, _ := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Append(record("clip.mp4")))
		}()
	}
	wg.Wait()

	records, err := store.List()
	require.NoError(t, err)
	assert.Len(t, records, 20)
}

func TestDelete_RemovesFileAndRecords(t *testing.T) {
	store, mediaDir := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(mediaDir, "a.mp4"), []byte("x"), 0644))
	require.NoError(t, store.Append(record("a.mp4")))
	require.NoError(t, store.Append(record("b.mp4")))
	require.NoError(t, store.Append(record("a.mp4")))

	require.NoError(t, store.Delete("a.mp4"))

	_, err := os.Stat(filepath.Join(mediaDir, "a.mp4"))
	assert.True(t, os.IsNotExist(err))

	records, err := store.List()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "b.mp4", records[0].Filename)
}

func TestDelete_MissingFileStillUpdatesHistory(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Append(record("gone.mp4")))

	require.NoError(t, store.Delete("gone.mp4"))

	records, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDelete_RejectsInvalidNames(t *testing.T) {
	store, _ := newTestStore(t)

	for _, name := range []string{"", "../db.json", "sub/a.mp4", `sub\a.mp4`, ".."} {
		err := store.Delete(name)
		require.Error(t, err, name)
		assert.True(t, apperr.Is(err, apperr.KindInvalidRequest), name)
	}
}

func TestClear_DeletesReferencedFiles(t *testing.T) {
	store, mediaDir := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(mediaDir, "a.mp4"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(mediaDir, "b.mp3"), []byte("y"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(mediaDir, "untracked.mp4"), []byte("z"), 0644))
	require.NoError(t, store.Append(record("a.mp4")))
	require.NoError(t, store.Append(record("b.mp3")))
	require.NoError(t, store.Append(record("missing.mp4")))

	deleted, err := store.Clear()
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	records, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, records)

	_, err = os.Stat(filepath.Join(mediaDir, "untracked.mp4"))
	assert.NoError(t, err)
}

func TestList_CorruptFile(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0644))

	_, err := store.List()
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindFileSystemFailed))
}
