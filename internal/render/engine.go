// Package render owns the display. One engine goroutine consumes
// commands from a channel, drives the double buffer, and is the only
// code allowed to touch the matrix underneath.
package render

import (
	"image"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/coreman2200/funtimes-ledmatrix/internal/fonts"
	"github.com/coreman2200/funtimes-ledmatrix/internal/layout"
	"github.com/coreman2200/funtimes-ledmatrix/internal/matrix"
	"github.com/coreman2200/funtimes-ledmatrix/internal/media"
	"github.com/coreman2200/funtimes-ledmatrix/internal/pixel"
)

// CommandBuffer is the depth of the engine's inbox. Producers only block
// once this many commands are queued.
const CommandBuffer = 128

// slowFrameLogCap stops per-frame overrun warnings after this many.
const slowFrameLogCap = 5

// Engine executes render commands against a matrix. Long-running
// commands poll the inbox once per tick: a SetBrightness is absorbed in
// place, any other command preempts playback and runs next. Nothing is
// dropped.
type Engine struct {
	m        *matrix.Matrix
	panel    layout.Panel
	status   *StatusCell
	fontsDir string
	canvas   *matrix.Canvas
}

func NewEngine(m *matrix.Matrix, status *StatusCell, fontsDir string) *Engine {
	return &Engine{
		m:        m,
		panel:    m.Panel(),
		status:   status,
		fontsDir: fontsDir,
	}
}

// Run consumes commands until the channel closes. Call it on its own
// goroutine; everything the engine touches is confined to that goroutine.
func (e *Engine) Run(cmds <-chan Command) {
	e.canvas = e.m.Offscreen()
	log.Info().Str("panel", e.panel.String()).Msg("render engine up, waiting for commands")

	var pending Command
	for {
		cmd := pending
		pending = nil
		if cmd == nil {
			var ok bool
			if cmd, ok = <-cmds; !ok {
				log.Info().Msg("command channel closed, render engine stopping")
				return
			}
		}

		switch c := cmd.(type) {
		case ShowImage:
			e.showImage(c)
		case PlayVideo:
			next, closed := e.playVideo(c, cmds)
			if closed {
				log.Info().Msg("command channel closed, render engine stopping")
				return
			}
			pending = next
		case ScrollText:
			next, closed := e.scrollText(c, cmds)
			if closed {
				log.Info().Msg("command channel closed, render engine stopping")
				return
			}
			pending = next
		case ShowFrame:
			e.showFrame(c)
		case Clear:
			e.clear()
			e.status.SetIdle()
			log.Info().Msg("display cleared")
		case Stop:
			e.status.SetIdle()
			log.Info().Msg("playback stopped")
		case SetBrightness:
			v := e.status.SetBrightness(c.Value)
			log.Info().Int("brightness", v).Msg("brightness set")
		default:
			// Command is a closed set; reaching this means a variant was
			// added without a handler.
			log.Error().Str("command", Kind(cmd)).Msg("unhandled command")
		}
	}
}

func (e *Engine) showImage(c ShowImage) {
	e.status.SetShowingImage(c.Path)
	img, err := loadImage(c.Path)
	if err != nil {
		log.Error().Err(err).Str("path", c.Path).Msg("image load failed")
		e.status.SetIdle()
		return
	}
	e.drawFrame(fitToPanel(img, e.panel), e.status.Brightness())
	e.canvas = e.m.Swap(e.canvas)
	log.Info().Str("path", c.Path).Msg("image on display")
}

func (e *Engine) showFrame(c ShowFrame) {
	want := e.panel.FrameBytes()
	if len(c.Data) != want {
		log.Error().Int("want", want).Int("got", len(c.Data)).Msg("raw frame size mismatch, dropped")
		return
	}
	bright := uint8(e.status.Brightness())
	i := 0
	for y := 0; y < e.panel.Rows; y++ {
		for x := 0; x < e.panel.Cols; x++ {
			e.canvas.Set(x, y, pixel.New(c.Data[i], c.Data[i+1], c.Data[i+2]).Scale(bright))
			i += 3
		}
	}
	e.canvas = e.m.Swap(e.canvas)
}

// playVideo returns the command that preempted playback, if any, and
// whether the inbox closed mid-play.
func (e *Engine) playVideo(c PlayVideo, cmds <-chan Command) (pending Command, closed bool) {
	paths, err := media.FrameFiles(c.Dir)
	if err != nil || len(paths) == 0 {
		log.Error().Err(err).Str("dir", c.Dir).Msg("no video frames found")
		return nil, false
	}

	// Brightness is baked into the frames once, up front. A change while
	// playing is stored for the next load.
	bright := e.status.Brightness()
	frames := make([]*image.RGBA, 0, len(paths))
	for _, p := range paths {
		img, err := loadImage(p)
		if err != nil {
			log.Warn().Err(err).Str("frame", p).Msg("skipping unreadable frame")
			continue
		}
		frames = append(frames, dimFrame(toRGBA(img), bright))
	}
	if len(frames) == 0 {
		log.Error().Str("dir", c.Dir).Msg("no decodable frames in video")
		return nil, false
	}

	fps := c.FPS
	if fps < 1 {
		fps = 1
	}
	tick := time.Second / time.Duration(fps)
	e.status.SetPlayingVideo(c.Dir, len(frames))
	log.Info().
		Str("dir", c.Dir).
		Int("frames", len(frames)).
		Int("fps", fps).
		Bool("loop", c.Loop).
		Int("brightness", bright).
		Msg("video playback started")

	idx, slow := 0, 0
	for {
		select {
		case next, ok := <-cmds:
			if !ok {
				return nil, true
			}
			sb, absorb := next.(SetBrightness)
			if !absorb {
				return next, false
			}
			v := e.status.SetBrightness(sb.Value)
			log.Info().Int("brightness", v).Msg("brightness staged for the next video load")
		default:
		}

		start := time.Now()
		e.drawFrame(frames[idx], 100)
		e.canvas = e.m.Swap(e.canvas)
		if elapsed := time.Since(start); elapsed > tick {
			slow++
			if slow <= slowFrameLogCap {
				log.Warn().Dur("elapsed", elapsed).Dur("budget", tick).Int("frame", idx).Msg("frame overran its slot")
			}
		}
		e.status.SetFrame(idx)

		idx++
		if idx >= len(frames) {
			if !c.Loop {
				e.clear()
				e.status.SetIdle()
				if slow > 0 {
					log.Warn().Int("slow_frames", slow).Int("total", len(frames)).Msg("playback could not hold the frame rate")
				}
				log.Info().Str("dir", c.Dir).Msg("video playback finished")
				return nil, false
			}
			idx = 0
		}
		time.Sleep(tick)
	}
}

// scrollText returns like playVideo. Brightness changes are applied live
// since the text is redrawn every tick.
func (e *Engine) scrollText(c ScrollText, cmds <-chan Command) (pending Command, closed bool) {
	face, err := fonts.Load(e.fontsDir, c.Font)
	if err != nil {
		log.Error().Err(err).Str("font", c.Font).Msg("font load failed")
		return nil, false
	}

	e.status.SetScrollingText(c.Text)

	speed := c.Speed
	if speed < 1 {
		speed = 1
	}
	tick := time.Second / time.Duration(speed)
	width := fonts.Width(face, c.Text)
	baseline := fonts.Baseline(face, e.panel.Rows)
	x := e.panel.Cols
	endX := -width
	bright := e.status.Brightness()
	log.Info().
		Str("text", c.Text).
		Str("font", c.Font).
		Int("px_per_s", speed).
		Int("width", width).
		Msg("text scroll started")

	for {
		select {
		case next, ok := <-cmds:
			if !ok {
				return nil, true
			}
			sb, absorb := next.(SetBrightness)
			if !absorb {
				return next, false
			}
			bright = e.status.SetBrightness(sb.Value)
			log.Info().Int("brightness", bright).Msg("brightness applied to scrolling text")
		default:
		}

		e.canvas.Clear()
		e.drawText(face, c.Text, x, baseline, c.Color.Scale(uint8(bright)))
		e.canvas = e.m.Swap(e.canvas)

		x--
		if x < endX {
			x = e.panel.Cols
		}
		time.Sleep(tick)
	}
}

// drawFrame paints an RGBA frame onto the canvas at the given brightness.
// Pixels beyond the panel clip.
func (e *Engine) drawFrame(img *image.RGBA, brightness int) {
	b := uint8(brightness)
	w, h := img.Rect.Dx(), img.Rect.Dy()
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			o := x * 4
			e.canvas.Set(x, y, pixel.New(row[o], row[o+1], row[o+2]).Scale(b))
		}
	}
}

func (e *Engine) drawText(face font.Face, text string, x, baseline int, col pixel.Color) {
	d := font.Drawer{
		Dst:  e.canvas.Image(),
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(text)
}

func (e *Engine) clear() {
	e.canvas.Clear()
	e.canvas = e.m.Swap(e.canvas)
}
