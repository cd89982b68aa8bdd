package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-ledmatrix/internal/layout"
	"github.com/coreman2200/funtimes-ledmatrix/internal/pixel"
	"github.com/coreman2200/funtimes-ledmatrix/internal/render"
	"github.com/coreman2200/funtimes-ledmatrix/internal/server"
)

type fixture struct {
	ts       *httptest.Server
	cmds     chan render.Command
	cell     *render.StatusCell
	mediaDir string
	fontsDir string
}

func newFixture(t *testing.T, p layout.Panel) *fixture {
	t.Helper()
	f := &fixture{
		cmds:     make(chan render.Command, 8),
		cell:     render.NewStatusCell(),
		mediaDir: t.TempDir(),
		fontsDir: t.TempDir(),
	}
	s := server.New(f.cmds, f.cell, p, f.mediaDir, f.fontsDir)
	f.ts = httptest.NewServer(s.Router())
	t.Cleanup(f.ts.Close)
	return f
}

func (f *fixture) url(path string) string {
	return f.ts.URL + path
}

func (f *fixture) postJSON(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(f.url(path), "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (f *fixture) getJSON(t *testing.T, path string, into any) *http.Response {
	t.Helper()
	resp, err := http.Get(f.url(path))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(into))
	return resp
}

func nextCommand(t *testing.T, cmds chan render.Command) render.Command {
	t.Helper()
	select {
	case c := <-cmds:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("no command queued")
		return nil
	}
}

func noCommand(t *testing.T, cmds chan render.Command) {
	t.Helper()
	select {
	case c := <-cmds:
		t.Fatalf("unexpected command queued: %s", render.Kind(c))
	case <-time.After(50 * time.Millisecond):
	}
}

func seedPNG(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestStatusEndpoint(t *testing.T) {
	f := newFixture(t, layout.Default())

	var got render.Status
	resp := f.getJSON(t, "/api/v1/status", &got)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, render.StateIdle, got.State)
	assert.Equal(t, render.DefaultBrightness, got.Brightness)
	assert.Nil(t, got.CurrentMedia)
}

func TestDisplayImageQueuesResolvedPath(t *testing.T) {
	f := newFixture(t, layout.Default())
	seedPNG(t, filepath.Join(f.mediaDir, "images", "red.png"))

	resp := f.postJSON(t, "/api/v1/display/image", map[string]string{"path": "images/red.png"})
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	cmd := nextCommand(t, f.cmds)
	show, ok := cmd.(render.ShowImage)
	require.True(t, ok, "got %T", cmd)
	want, err := filepath.EvalSymlinks(filepath.Join(f.mediaDir, "images", "red.png"))
	require.NoError(t, err)
	assert.Equal(t, want, show.Path)
}

func TestDisplayImageMissingIs404(t *testing.T) {
	f := newFixture(t, layout.Default())

	resp := f.postJSON(t, "/api/v1/display/image", map[string]string{"path": "images/nope.png"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	noCommand(t, f.cmds)
}

func TestDisplayImageRejectsEscape(t *testing.T) {
	f := newFixture(t, layout.Default())
	// A real file one level above the media root. Resolvable, but outside.
	outside := filepath.Join(filepath.Dir(f.mediaDir), "escape.png")
	seedPNG(t, outside)
	t.Cleanup(func() { os.Remove(outside) })

	resp := f.postJSON(t, "/api/v1/display/image", map[string]string{
		"path": filepath.Join("..", filepath.Base(outside)),
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	noCommand(t, f.cmds)
}

func TestDisplayImageRequiresPath(t *testing.T) {
	f := newFixture(t, layout.Default())

	resp := f.postJSON(t, "/api/v1/display/image", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	noCommand(t, f.cmds)
}

func TestDisplayVideoDefaults(t *testing.T) {
	f := newFixture(t, layout.Default())
	seedPNG(t, filepath.Join(f.mediaDir, "videos", "clip", "000.png"))

	resp := f.postJSON(t, "/api/v1/display/video", map[string]any{"path": "videos/clip"})
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	cmd := nextCommand(t, f.cmds)
	play, ok := cmd.(render.PlayVideo)
	require.True(t, ok, "got %T", cmd)
	assert.Equal(t, 30, play.FPS)
	assert.False(t, play.Loop)
}

func TestDisplayVideoPropagatesOptions(t *testing.T) {
	f := newFixture(t, layout.Default())
	seedPNG(t, filepath.Join(f.mediaDir, "videos", "clip", "000.png"))

	resp := f.postJSON(t, "/api/v1/display/video", map[string]any{
		"path": "videos/clip",
		"fps":  12,
		"loop": true,
	})
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	play := nextCommand(t, f.cmds).(render.PlayVideo)
	assert.Equal(t, 12, play.FPS)
	assert.True(t, play.Loop)
	want, err := filepath.EvalSymlinks(filepath.Join(f.mediaDir, "videos", "clip"))
	require.NoError(t, err)
	assert.Equal(t, want, play.Dir)
}

func TestDisplayVideoRejectsNonPositiveFPS(t *testing.T) {
	f := newFixture(t, layout.Default())
	seedPNG(t, filepath.Join(f.mediaDir, "videos", "clip", "000.png"))

	for _, fps := range []int{0, -5} {
		resp := f.postJSON(t, "/api/v1/display/video", map[string]any{
			"path": "videos/clip",
			"fps":  fps,
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "fps %d", fps)
		noCommand(t, f.cmds)
	}
}

func TestDisplayTextDefaults(t *testing.T) {
	f := newFixture(t, layout.Default())

	resp := f.postJSON(t, "/api/v1/display/text", map[string]any{"text": "HELLO"})
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	scroll := nextCommand(t, f.cmds).(render.ScrollText)
	assert.Equal(t, "HELLO", scroll.Text)
	assert.Equal(t, "6x13", scroll.Font)
	assert.Equal(t, pixel.White, scroll.Color)
	assert.Equal(t, 30, scroll.Speed)
}

var TestColorSpecDecodesToExpected = []struct {
	Body   any
	Expect pixel.Color
}{
	{[]int{10, 20, 30}, pixel.New(10, 20, 30)},
	{[]int{0, 0, 0}, pixel.Black},
	{"#0a1428", pixel.New(10, 20, 40)},
	{"#FF8000", pixel.New(255, 128, 0)},
}

func TestDisplayTextColorForms(t *testing.T) {
	f := newFixture(t, layout.Default())

	for i, tc := range TestColorSpecDecodesToExpected {
		resp := f.postJSON(t, "/api/v1/display/text", map[string]any{
			"text":  "X",
			"color": tc.Body,
		})
		require.Equal(t, http.StatusAccepted, resp.StatusCode, "case %d", i)
		scroll := nextCommand(t, f.cmds).(render.ScrollText)
		assert.Equal(t, tc.Expect, scroll.Color, "case %d", i)
	}
}

var TestTextRequestIsRejected = []struct {
	Name string
	Body map[string]any
}{
	{"empty text", map[string]any{"text": ""}},
	{"bad hex color", map[string]any{"text": "X", "color": "red"}},
	{"short color array", map[string]any{"text": "X", "color": []int{1, 2}}},
	{"channel out of range", map[string]any{"text": "X", "color": []int{0, 0, 999}}},
	{"font with slash", map[string]any{"text": "X", "font": "bdf/6x13"}},
	{"font with dotdot", map[string]any{"text": "X", "font": ".."}},
	{"zero speed", map[string]any{"text": "X", "speed": 0}},
	{"negative speed", map[string]any{"text": "X", "speed": -30}},
}

func TestDisplayTextRejectsBadRequests(t *testing.T) {
	f := newFixture(t, layout.Default())

	for _, tc := range TestTextRequestIsRejected {
		resp := f.postJSON(t, "/api/v1/display/text", tc.Body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, tc.Name)
		noCommand(t, f.cmds)
	}
}

func TestDisplayFrameSizes(t *testing.T) {
	p := layout.Panel{Rows: 4, Cols: 4}
	f := newFixture(t, p)
	want := p.FrameBytes()

	post := func(n int) *http.Response {
		resp, err := http.Post(f.url("/api/v1/display/frame"),
			"application/octet-stream", bytes.NewReader(make([]byte, n)))
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	resp := post(want)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	frame := nextCommand(t, f.cmds).(render.ShowFrame)
	assert.Len(t, frame.Data, want)

	resp = post(want - 1)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	noCommand(t, f.cmds)

	resp = post(want + 1)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	noCommand(t, f.cmds)
}

func TestBrightnessValidation(t *testing.T) {
	f := newFixture(t, layout.Default())

	resp := f.postJSON(t, "/api/v1/brightness", map[string]int{"value": 50})
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	set := nextCommand(t, f.cmds).(render.SetBrightness)
	assert.Equal(t, 50, set.Value)

	for _, body := range []map[string]any{
		{},
		{"value": -1},
		{"value": 300},
	} {
		resp := f.postJSON(t, "/api/v1/brightness", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, fmt.Sprintf("%v", body))
		noCommand(t, f.cmds)
	}
}

func TestClearAndStop(t *testing.T) {
	f := newFixture(t, layout.Default())

	resp := f.postJSON(t, "/api/v1/display/clear", map[string]string{})
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.IsType(t, render.Clear{}, nextCommand(t, f.cmds))

	resp = f.postJSON(t, "/api/v1/display/stop", map[string]string{})
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.IsType(t, render.Stop{}, nextCommand(t, f.cmds))
}

func TestListEndpoints(t *testing.T) {
	f := newFixture(t, layout.Default())
	seedPNG(t, filepath.Join(f.mediaDir, "images", "a.png"))
	seedPNG(t, filepath.Join(f.mediaDir, "videos", "clip", "000.png"))
	seedPNG(t, filepath.Join(f.mediaDir, "videos", "clip", "001.png"))
	require.NoError(t, os.WriteFile(filepath.Join(f.fontsDir, "6x13.bdf"), []byte("x"), 0o644))

	var images []map[string]any
	f.getJSON(t, "/api/v1/images", &images)
	require.Len(t, images, 1)
	assert.Equal(t, "a.png", images[0]["name"])

	var videos []map[string]any
	f.getJSON(t, "/api/v1/videos", &videos)
	require.Len(t, videos, 1)
	assert.EqualValues(t, 2, videos[0]["frame_count"])

	var fonts []string
	f.getJSON(t, "/api/v1/fonts", &fonts)
	assert.Equal(t, []string{"6x13"}, fonts)
}

func TestHealth(t *testing.T) {
	f := newFixture(t, layout.Default())

	var got map[string]any
	resp := f.getJSON(t, "/health", &got)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "idle", got["state"])
	assert.EqualValues(t, render.DefaultBrightness, got["brightness"])
	assert.Contains(t, got, "uptime_s")
	assert.Contains(t, got, "streamed_frames")
	assert.Contains(t, got, "version")
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t, layout.Default())

	req, err := http.NewRequest(http.MethodOptions, f.url("/api/v1/status"), nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "POST")
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "Content-Type")
}
