package server

import (
	"bytes"
	"net/http"
	"time"

	"github.com/cnf/structhash"
	"github.com/rs/zerolog/log"
)

const statusPollInterval = 250 * time.Millisecond

// handleEvents pushes display status snapshots over a websocket. A
// snapshot goes out on connect and again whenever the status changes;
// unchanged polls are skipped so idle panels stay quiet on the wire.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("events upgrade failed")
		return
	}
	defer conn.Close()

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	var last []byte
	push := func() error {
		snap := s.status.Snapshot()
		sum := structhash.Md5(snap, 1)
		if bytes.Equal(sum, last) {
			return nil
		}
		conn.SetWriteDeadline(time.Now().Add(time.Second))
		if err := conn.WriteJSON(snap); err != nil {
			return err
		}
		last = sum
		return nil
	}

	if err := push(); err != nil {
		return
	}

	ticker := time.NewTicker(statusPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-gone:
			return
		case <-ticker.C:
			if err := push(); err != nil {
				return
			}
		}
	}
}
