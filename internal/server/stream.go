package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-ledmatrix/internal/render"
)

// handleStream accepts binary frames over a websocket and feeds them to
// the engine as they arrive. Missized frames are dropped with a warning;
// text messages are ignored. The display reads as streaming for the life
// of the connection and falls back to idle on disconnect.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("stream upgrade failed")
		return
	}
	defer conn.Close()

	session := uuid.NewString()
	s.status.SetStreaming("websocket")
	defer s.status.SetIdle()

	want := s.panel.FrameBytes()
	var frames, dropped uint64
	log.Info().Str("session", session).Str("remote", r.RemoteAddr).Msg("stream client connected")

	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if mt != websocket.BinaryMessage {
			continue
		}
		if len(data) != want {
			dropped++
			log.Warn().
				Str("session", session).
				Int("want", want).
				Int("got", len(data)).
				Msg("dropping missized stream frame")
			continue
		}
		s.cmds <- render.ShowFrame{Data: data}
		s.streamed.Add(1)
		frames++
	}

	log.Info().
		Str("session", session).
		Uint64("frames", frames).
		Uint64("dropped", dropped).
		Msg("stream client disconnected")
}
