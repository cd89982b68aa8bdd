// Package media indexes the on-disk library the display can show: still
// images, frame-sequence videos, and BDF fonts.
package media

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Entry is one playable file in the library. Path is relative to the
// media root, which is what the display endpoints accept.
type Entry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// VideoEntry is one frame-sequence directory.
type VideoEntry struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	FrameCount int    `json:"frame_count"`
}

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true,
}

var frameExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true,
}

// ListImages scans <mediaDir>/images. A missing directory is an empty
// library, not an error.
func ListImages(mediaDir string) []Entry {
	ents, err := os.ReadDir(filepath.Join(mediaDir, "images"))
	if err != nil {
		return []Entry{}
	}
	out := []Entry{}
	for _, e := range ents {
		if e.IsDir() || !imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, Entry{
			Name: e.Name(),
			Path: filepath.Join("images", e.Name()),
			Size: info.Size(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ListVideos scans <mediaDir>/videos for subdirectories holding at least
// one frame image.
func ListVideos(mediaDir string) []VideoEntry {
	dir := filepath.Join(mediaDir, "videos")
	ents, err := os.ReadDir(dir)
	if err != nil {
		return []VideoEntry{}
	}
	out := []VideoEntry{}
	for _, e := range ents {
		if !e.IsDir() {
			continue
		}
		frames, err := FrameFiles(filepath.Join(dir, e.Name()))
		if err != nil || len(frames) == 0 {
			continue
		}
		out = append(out, VideoEntry{
			Name:       e.Name(),
			Path:       filepath.Join("videos", e.Name()),
			FrameCount: len(frames),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// FrameFiles lists a directory's frame images sorted by file name, which
// is the playback order.
func FrameFiles(dir string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	out := []string{}
	for _, e := range ents {
		if e.IsDir() || !frameExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

// ListFonts returns the names, minus extension, of every .bdf file in the
// fonts directory.
func ListFonts(fontsDir string) []string {
	ents, err := os.ReadDir(fontsDir)
	if err != nil {
		return []string{}
	}
	out := []string{}
	for _, e := range ents {
		n := e.Name()
		if e.IsDir() || !strings.EqualFold(filepath.Ext(n), ".bdf") {
			continue
		}
		out = append(out, strings.TrimSuffix(n, filepath.Ext(n)))
	}
	sort.Strings(out)
	return out
}
