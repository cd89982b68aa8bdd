// ledstream pushes a directory of frame images to a running ledmatrixd
// over its streaming websocket. Frames are decoded and resized on this
// machine, so the panel host only ever handles raw RGB bytes.
package main

import (
	"flag"
	"image"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	xdraw "golang.org/x/image/draw"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"

	"github.com/coreman2200/funtimes-ledmatrix/internal/layout"
	"github.com/coreman2200/funtimes-ledmatrix/internal/media"
)

func main() {
	var (
		host   = flag.String("host", "localhost:8080", "ledmatrixd host:port")
		dir    = flag.String("dir", "", "directory of frame images to stream")
		rows   = flag.Int("rows", 64, "panel rows on the receiving end")
		cols   = flag.Int("cols", 64, "panel columns on the receiving end")
		fps    = flag.Int("fps", 30, "frames per second to send")
		loop   = flag.Bool("loop", false, "restart the sequence when it ends")
		scheme = flag.String("scheme", "ws", "websocket scheme: ws | wss")
	)
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	if *dir == "" {
		log.Fatal().Msg("provide -dir with the frames to stream")
	}
	panel := layout.Panel{Rows: *rows, Cols: *cols}
	if err := panel.Validate(); err != nil {
		log.Fatal().Err(err).Msg("bad panel dimensions")
	}
	if *fps < 1 {
		*fps = 1
	}

	paths, err := media.FrameFiles(*dir)
	if err != nil || len(paths) == 0 {
		log.Fatal().Err(err).Str("dir", *dir).Msg("no frame images found")
	}

	// Decode and size everything before dialing so a bad frame fails
	// fast and the send loop stays off the allocator.
	frames := make([][]byte, 0, len(paths))
	for _, p := range paths {
		raw, err := loadFrame(p, panel)
		if err != nil {
			log.Warn().Err(err).Str("frame", p).Msg("skipping unreadable frame")
			continue
		}
		frames = append(frames, raw)
	}
	if len(frames) == 0 {
		log.Fatal().Str("dir", *dir).Msg("no decodable frames")
	}

	u := url.URL{Scheme: *scheme, Host: *host, Path: "/api/v1/display/stream"}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatal().Err(err).Str("url", u.String()).Msg("dial failed")
	}
	defer conn.Close()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	log.Info().
		Str("url", u.String()).
		Int("frames", len(frames)).
		Int("fps", *fps).
		Bool("loop", *loop).
		Msg("streaming")

	ticker := time.NewTicker(time.Second / time.Duration(*fps))
	defer ticker.Stop()

	sent := 0
	for i := 0; ; i++ {
		if i >= len(frames) {
			if !*loop {
				break
			}
			i = 0
		}
		select {
		case s := <-ch:
			log.Info().Str("signal", s.String()).Int("sent", sent).Msg("interrupted")
			closeQuietly(conn)
			return
		case <-ticker.C:
		}
		if err := conn.WriteMessage(websocket.BinaryMessage, frames[i]); err != nil {
			log.Fatal().Err(err).Int("sent", sent).Msg("send failed")
		}
		sent++
	}

	log.Info().Int("sent", sent).Msg("sequence complete")
	closeQuietly(conn)
}

// loadFrame decodes one image and returns it as panel-sized raw RGB.
func loadFrame(path string, p layout.Panel) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}

	dst := image.NewRGBA(image.Rect(0, 0, p.Cols, p.Rows))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)

	out := make([]byte, p.FrameBytes())
	for i, o := 0, 0; o < len(dst.Pix); o += 4 {
		out[i] = dst.Pix[o]
		out[i+1] = dst.Pix[o+1]
		out[i+2] = dst.Pix[o+2]
		i += 3
	}
	return out, nil
}

func closeQuietly(conn *websocket.Conn) {
	deadline := time.Now().Add(time.Second)
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
}
