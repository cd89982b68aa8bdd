// pulsesim fills the whole panel with a color that cycles through the
// rainbow while brightness pulses on a triangle wave. It runs the same
// driver stack as ledmatrixd, so it doubles as a wiring check for a
// freshly connected chain.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/funtimes-ledmatrix/internal/driver"
	"github.com/coreman2200/funtimes-ledmatrix/internal/layout"
	"github.com/coreman2200/funtimes-ledmatrix/internal/matrix"
	"github.com/coreman2200/funtimes-ledmatrix/internal/pixel"
)

const frameInterval = 16 * time.Millisecond

func main() {
	var (
		rows       = flag.Int("rows", 64, "LED rows on the panel")
		cols       = flag.Int("cols", 64, "LED columns on the panel")
		serpentine = flag.Bool("serpentine", false, "odd rows wired right-to-left")
		drv        = flag.String("driver", "term", "driver: nrz | opc | term | sim")
		spiDev     = flag.String("spi-dev", "/dev/spidev0.0", "SPI port for the nrz driver")
		spiHz      = flag.Int("spi-hz", 2500000, "SPI clock for the nrz driver (Hz)")
		opcServer  = flag.String("opc-server", "localhost:7890", "OPC daemon host:port")
		gradFrom   = flag.String("gradient-from", "", "hex color; with -gradient-to, blend between the two instead of the rainbow")
		gradTo     = flag.String("gradient-to", "", "hex color, other end of the gradient")
	)
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	panel := layout.Panel{Rows: *rows, Cols: *cols}
	if err := panel.Validate(); err != nil {
		log.Fatal().Err(err).Msg("bad panel dimensions")
	}

	var d driver.Driver
	switch *drv {
	case "sim":
		d = driver.NewSim()
	case "term":
		d = driver.NewTerm(panel.PixelCount())
	case "nrz":
		nrz, err := driver.OpenNRZ(*spiDev, panel.PixelCount(), physic.Frequency(*spiHz)*physic.Hertz)
		if err != nil {
			log.Fatal().Err(err).Str("dev", *spiDev).Msg("nrz driver init failed")
		}
		d = nrz
	case "opc":
		opc, err := driver.OpenOPC(*opcServer, 0, panel.PixelCount())
		if err != nil {
			log.Fatal().Err(err).Str("server", *opcServer).Msg("opc driver init failed")
		}
		d = opc
	default:
		log.Fatal().Str("driver", *drv).Msg("unknown driver")
	}

	m, err := matrix.New(panel, d, *serpentine)
	if err != nil {
		log.Fatal().Err(err).Msg("matrix init failed")
	}

	// baseColor picks the fully bright color for a frame counter, either
	// off the hue wheel or along a perceptual two-color gradient.
	baseColor := hueColor
	if *gradFrom != "" || *gradTo != "" {
		from, err := colorful.Hex(*gradFrom)
		if err != nil {
			log.Fatal().Err(err).Str("color", *gradFrom).Msg("bad gradient-from")
		}
		to, err := colorful.Hex(*gradTo)
		if err != nil {
			log.Fatal().Err(err).Str("color", *gradTo).Msg("bad gradient-to")
		}
		baseColor = gradientColor(from, to)
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	log.Info().Str("panel", panel.String()).Str("driver", *drv).Msg("pulsing, ctrl-c to stop")

	canvas := m.Offscreen()
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	var frame uint32
	for {
		select {
		case s := <-ch:
			log.Info().Str("signal", s.String()).Msg("shutting down")
			canvas.Clear()
			m.Swap(canvas)
			if err := m.Close(); err != nil {
				log.Warn().Err(err).Msg("matrix close failed")
			}
			return
		case <-ticker.C:
		}

		// Triangle wave brightness: 0 -> 100 -> 0 over 200 frames.
		cycle := frame % 200
		brightness := cycle
		if cycle >= 100 {
			brightness = 200 - cycle
		}

		canvas.Fill(baseColor(frame).Scale(uint8(brightness)))
		canvas = m.Swap(canvas)
		frame++
	}
}

func hueColor(frame uint32) pixel.Color {
	return pixel.FromHue(uint16((frame / 2) % 360))
}

// gradientColor sweeps back and forth between two colors, blending in
// Lab space so the midpoints stay vivid.
func gradientColor(from, to colorful.Color) func(uint32) pixel.Color {
	return func(frame uint32) pixel.Color {
		cycle := frame % 720
		if cycle >= 360 {
			cycle = 720 - cycle
		}
		r, g, b := from.BlendLab(to, float64(cycle)/360.0).Clamped().RGB255()
		return pixel.New(r, g, b)
	}
}
