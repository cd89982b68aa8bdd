package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/coreman2200/funtimes-ledmatrix/internal/media"
	"github.com/coreman2200/funtimes-ledmatrix/internal/pixel"
	"github.com/coreman2200/funtimes-ledmatrix/internal/render"
)

const (
	defaultVideoFPS    = 30
	defaultScrollSpeed = 30
	defaultFont        = "6x13"
)

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, s.status.Snapshot())
}

func (s *Server) handleImages(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, media.ListImages(s.mediaDir))
}

func (s *Server) handleVideos(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, media.ListVideos(s.mediaDir))
}

func (s *Server) handleFonts(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, media.ListFonts(s.fontsDir))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.status.Snapshot()
	respond(w, http.StatusOK, map[string]any{
		"state":           snap.State,
		"brightness":      snap.Brightness,
		"uptime_s":        time.Since(s.start).Seconds(),
		"streamed_frames": s.streamed.Load(),
		"version":         snap.Version,
	})
}

type imageRequest struct {
	Path string `json:"path"`
}

func (s *Server) handleDisplayImage(w http.ResponseWriter, r *http.Request) {
	var req imageRequest
	if err := decode(r, &req); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Path == "" {
		httpError(w, http.StatusBadRequest, "path is required")
		return
	}
	abs, code, err := s.resolveMediaPath(req.Path)
	if err != nil {
		httpError(w, code, err.Error())
		return
	}
	s.enqueue(w, render.ShowImage{Path: abs})
}

type videoRequest struct {
	Path string `json:"path"`
	FPS  *int   `json:"fps"`
	Loop bool   `json:"loop"`
}

func (s *Server) handleDisplayVideo(w http.ResponseWriter, r *http.Request) {
	var req videoRequest
	if err := decode(r, &req); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Path == "" {
		httpError(w, http.StatusBadRequest, "path is required")
		return
	}
	abs, code, err := s.resolveMediaPath(req.Path)
	if err != nil {
		httpError(w, code, err.Error())
		return
	}
	fps := defaultVideoFPS
	if req.FPS != nil {
		fps = *req.FPS
	}
	if fps < 1 {
		httpError(w, http.StatusBadRequest, "fps must be positive")
		return
	}
	s.enqueue(w, render.PlayVideo{Dir: abs, FPS: fps, Loop: req.Loop})
}

type textRequest struct {
	Text  string     `json:"text"`
	Font  string     `json:"font"`
	Color *colorSpec `json:"color"`
	Speed *int       `json:"speed"`
}

func (s *Server) handleDisplayText(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := decode(r, &req); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Text == "" {
		httpError(w, http.StatusBadRequest, "text is required")
		return
	}
	font := req.Font
	if font == "" {
		font = defaultFont
	}
	if strings.ContainsAny(font, `/\`) || strings.Contains(font, "..") {
		httpError(w, http.StatusBadRequest, "font must be a bare name")
		return
	}
	col := pixel.White
	if req.Color != nil {
		col = req.Color.Color
	}
	speed := defaultScrollSpeed
	if req.Speed != nil {
		speed = *req.Speed
	}
	if speed < 1 {
		httpError(w, http.StatusBadRequest, "speed must be positive")
		return
	}
	s.enqueue(w, render.ScrollText{Text: req.Text, Font: font, Color: col, Speed: speed})
}

func (s *Server) handleDisplayFrame(w http.ResponseWriter, r *http.Request) {
	want := s.panel.FrameBytes()
	r.Body = http.MaxBytesReader(w, r.Body, int64(want))
	data, err := io.ReadAll(r.Body)
	if err != nil {
		httpError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("frame must be %d bytes", want))
		return
	}
	if len(data) != want {
		httpError(w, http.StatusBadRequest, fmt.Sprintf("frame must be %d bytes, got %d", want, len(data)))
		return
	}
	s.enqueue(w, render.ShowFrame{Data: data})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.enqueue(w, render.Clear{})
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	s.enqueue(w, render.Stop{})
}

type brightnessRequest struct {
	Value *int `json:"value"`
}

func (s *Server) handleBrightness(w http.ResponseWriter, r *http.Request) {
	var req brightnessRequest
	if err := decode(r, &req); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Value == nil {
		httpError(w, http.StatusBadRequest, "value is required")
		return
	}
	v := *req.Value
	if v < 0 || v > 255 {
		httpError(w, http.StatusBadRequest, "value must be 0..255")
		return
	}
	s.enqueue(w, render.SetBrightness{Value: v})
}

// resolveMediaPath turns a library-relative path into an absolute one,
// confined to the media root. Symlinks are resolved before the check, so
// a link pointing outside the root cannot escape it.
func (s *Server) resolveMediaPath(rel string) (string, int, error) {
	root, err := filepath.EvalSymlinks(s.mediaDir)
	if err != nil {
		return "", http.StatusInternalServerError, fmt.Errorf("media root: %w", err)
	}
	p, err := filepath.EvalSymlinks(filepath.Join(root, rel))
	if err != nil {
		return "", http.StatusNotFound, fmt.Errorf("media %q not found", rel)
	}
	if p != root && !strings.HasPrefix(p, root+string(filepath.Separator)) {
		return "", http.StatusBadRequest, fmt.Errorf("media %q is outside the library", rel)
	}
	return p, 0, nil
}

// colorSpec accepts either "#rrggbb" or [r, g, b].
type colorSpec struct {
	pixel.Color
}

func (c *colorSpec) UnmarshalJSON(b []byte) error {
	var arr []int
	if err := json.Unmarshal(b, &arr); err == nil {
		if len(arr) != 3 {
			return fmt.Errorf("color array needs 3 elements, got %d", len(arr))
		}
		for _, v := range arr {
			if v < 0 || v > 255 {
				return fmt.Errorf("color channel %d out of range", v)
			}
		}
		c.Color = pixel.New(uint8(arr[0]), uint8(arr[1]), uint8(arr[2]))
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		parsed, err := colorful.Hex(s)
		if err != nil {
			return fmt.Errorf("color %q: %w", s, err)
		}
		r, g, bb := parsed.RGB255()
		c.Color = pixel.New(r, g, bb)
		return nil
	}
	return errors.New(`color must be [r,g,b] or "#rrggbb"`)
}
