//go:build statsview

package statsview

import (
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/rs/zerolog/log"
)

const Address = "localhost:12601"

const url = "/debug/statsview"

// Launch starts the runtime statistics server in its own goroutine.
func Launch() {
	go func() {
		viewer.SetConfiguration(viewer.WithAddr(Address))
		mgr := statsview.New()
		mgr.Start()
	}()
	log.Info().Str("addr", Address+url).Msg("stats server available")
}

// Available reports whether a stats server can be launched.
func Available() bool {
	return true
}
