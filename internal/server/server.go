// Package server is the HTTP and websocket boundary. Handlers translate
// requests into render commands and enqueue them; nothing here touches
// the display directly.
package server

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-ledmatrix/internal/layout"
	"github.com/coreman2200/funtimes-ledmatrix/internal/render"
)

// Server holds the sending side of the engine's command channel plus the
// shared status cell.
type Server struct {
	cmds     chan<- render.Command
	status   *render.StatusCell
	panel    layout.Panel
	mediaDir string
	fontsDir string
	start    time.Time
	upgrader websocket.Upgrader
	streamed atomic.Uint64
}

func New(cmds chan<- render.Command, status *render.StatusCell, panel layout.Panel, mediaDir, fontsDir string) *Server {
	return &Server{
		cmds:     cmds,
		status:   status,
		panel:    panel,
		mediaDir: mediaDir,
		fontsDir: fontsDir,
		start:    time.Now(),
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
	}
}

// Router wires every endpoint behind the CORS and access-log middleware.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/status", s.handleStatus)
	mux.HandleFunc("GET /api/v1/images", s.handleImages)
	mux.HandleFunc("GET /api/v1/videos", s.handleVideos)
	mux.HandleFunc("GET /api/v1/fonts", s.handleFonts)
	mux.HandleFunc("POST /api/v1/display/image", s.handleDisplayImage)
	mux.HandleFunc("POST /api/v1/display/video", s.handleDisplayVideo)
	mux.HandleFunc("POST /api/v1/display/text", s.handleDisplayText)
	mux.HandleFunc("POST /api/v1/display/frame", s.handleDisplayFrame)
	mux.HandleFunc("POST /api/v1/display/clear", s.handleClear)
	mux.HandleFunc("POST /api/v1/display/stop", s.handleStop)
	mux.HandleFunc("GET /api/v1/display/stream", s.handleStream)
	mux.HandleFunc("POST /api/v1/brightness", s.handleBrightness)
	mux.HandleFunc("GET /api/v1/events", s.handleEvents)
	mux.HandleFunc("GET /health", s.handleHealth)
	return withCORS(withAccessLog(mux))
}

// enqueue hands a command to the engine and acknowledges the request.
// Execution is asynchronous; the ack only means "queued".
func (s *Server) enqueue(w http.ResponseWriter, cmd render.Command) {
	s.cmds <- cmd
	log.Debug().Str("command", render.Kind(cmd)).Msg("command queued")
	respond(w, http.StatusAccepted, map[string]string{
		"status":  "queued",
		"command": render.Kind(cmd),
	})
}

func respond(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, msg string) {
	respond(w, code, map[string]string{"error": msg})
}

func decode(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
