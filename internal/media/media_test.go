package media_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-ledmatrix/internal/media"
)

func seed(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
}

func TestListImagesFiltersAndSorts(t *testing.T) {
	root := t.TempDir()
	seed(t, root, map[string]string{
		"images/zebra.png":    "zz",
		"images/apple.JPG":    "aaaa",
		"images/notes.txt":    "skip",
		"images/sub/deep.png": "skip",
		"images/cloud.gif":    "g",
	})

	got := media.ListImages(root)
	require.Len(t, got, 3)
	assert.Equal(t, "apple.JPG", got[0].Name)
	assert.Equal(t, "cloud.gif", got[1].Name)
	assert.Equal(t, "zebra.png", got[2].Name)
	assert.Equal(t, filepath.Join("images", "apple.JPG"), got[0].Path)
	assert.EqualValues(t, 4, got[0].Size)
}

func TestListImagesMissingDirIsEmpty(t *testing.T) {
	got := media.ListImages(filepath.Join(t.TempDir(), "nope"))
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListVideosCountsFrames(t *testing.T) {
	root := t.TempDir()
	seed(t, root, map[string]string{
		"videos/clip/0001.png":  "f",
		"videos/clip/0002.png":  "f",
		"videos/clip/readme.md": "skip",
		"videos/empty/.keep":    "",
		"videos/loose.png":      "skip",
	})

	got := media.ListVideos(root)
	require.Len(t, got, 1)
	assert.Equal(t, "clip", got[0].Name)
	assert.Equal(t, 2, got[0].FrameCount)
}

func TestFrameFilesSortedByName(t *testing.T) {
	root := t.TempDir()
	seed(t, root, map[string]string{
		"0010.png":  "f",
		"0002.png":  "f",
		"0001.png":  "f",
		"cover.txt": "skip",
	})

	frames, err := media.FrameFiles(root)
	require.NoError(t, err)
	require.Len(t, frames, 3)
	assert.Equal(t, filepath.Join(root, "0001.png"), frames[0])
	assert.Equal(t, filepath.Join(root, "0002.png"), frames[1])
	assert.Equal(t, filepath.Join(root, "0010.png"), frames[2])
}

func TestFrameFilesMissingDirErrors(t *testing.T) {
	_, err := media.FrameFiles(filepath.Join(t.TempDir(), "gone"))
	assert.Error(t, err)
}

func TestListFontsStripsExtension(t *testing.T) {
	root := t.TempDir()
	seed(t, root, map[string]string{
		"6x13.bdf":      "font",
		"tom-thumb.BDF": "font",
		"readme.txt":    "skip",
	})

	assert.Equal(t, []string{"6x13", "tom-thumb"}, media.ListFonts(root))
	assert.Empty(t, media.ListFonts(filepath.Join(root, "missing")))
}
