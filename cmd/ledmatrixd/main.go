package main

import (
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/funtimes-ledmatrix/internal/config"
	"github.com/coreman2200/funtimes-ledmatrix/internal/driver"
	"github.com/coreman2200/funtimes-ledmatrix/internal/layout"
	"github.com/coreman2200/funtimes-ledmatrix/internal/matrix"
	"github.com/coreman2200/funtimes-ledmatrix/internal/render"
	"github.com/coreman2200/funtimes-ledmatrix/internal/server"
	"github.com/coreman2200/funtimes-ledmatrix/internal/statsview"
	"github.com/coreman2200/funtimes-ledmatrix/internal/version"
)

func main() {
	// ---- Flags (remain usable; ledmatrix.yml can override most) ----
	var (
		rows       = flag.Int("rows", 64, "LED rows on the panel")
		cols       = flag.Int("cols", 64, "LED columns on the panel")
		serpentine = flag.Bool("serpentine", false, "odd rows wired right-to-left")
		drv        = flag.String("driver", "sim", "driver: nrz | opc | term | sim")
		spiDev     = flag.String("spi-dev", "/dev/spidev0.0", "SPI port for the nrz driver")
		spiHz      = flag.Int("spi-hz", 2500000, "SPI clock for the nrz driver (Hz)")
		opcServer  = flag.String("opc-server", "localhost:7890", "OPC daemon host:port")
		opcChannel = flag.Int("opc-channel", 0, "OPC channel 0..255")
		addr       = flag.String("addr", ":8080", "HTTP listen address")
		mediaDir   = flag.String("media-dir", ".", "root directory containing images/ and videos/")
		fontsDir   = flag.String("fonts-dir", "fonts/bdf", "directory of BDF fonts")
		brightness = flag.Int("brightness", render.DefaultBrightness, "startup brightness 0..100")
		configPath = flag.String("config", "ledmatrix.yml", "path to ledmatrix.yml")
		stats      = flag.Bool("stats", false, "launch the runtime statistics server")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	// ---- Load ledmatrix.yml (optional) ----
	var cfg *config.Config
	if c, err := config.Load(*configPath); err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with flags")
	} else {
		cfg = c
	}

	// ---- Effective params (config overrides flags where available) ----
	panel := layout.Panel{Rows: *rows, Cols: *cols}
	eSerp := *serpentine
	eDriver := *drv
	eAddr := *addr
	eMedia, eFonts := *mediaDir, *fontsDir
	eBright := *brightness
	eSPIDev, eSPIHz := *spiDev, *spiHz
	eOPCServer, eOPCChannel := *opcServer, *opcChannel

	if cfg != nil {
		if cfg.Panel.Rows > 0 {
			panel.Rows = cfg.Panel.Rows
		}
		if cfg.Panel.Cols > 0 {
			panel.Cols = cfg.Panel.Cols
		}
		eSerp = eSerp || cfg.Serpentine
		if cfg.Driver != "" {
			eDriver = cfg.Driver
		}
		if cfg.Addr != "" {
			eAddr = cfg.Addr
		}
		if cfg.MediaDir != "" {
			eMedia = cfg.MediaDir
		}
		if cfg.FontsDir != "" {
			eFonts = cfg.FontsDir
		}
		if cfg.Brightness > 0 {
			eBright = cfg.Brightness
		}
		if cfg.SPI.Dev != "" {
			eSPIDev = cfg.SPI.Dev
		}
		if cfg.SPI.SpeedHz != 0 {
			eSPIHz = cfg.SPI.SpeedHz
		}
		if cfg.OPC.Server != "" {
			eOPCServer = cfg.OPC.Server
		}
		if cfg.OPC.Channel != 0 {
			eOPCChannel = cfg.OPC.Channel
		}
	}

	if err := panel.Validate(); err != nil {
		log.Fatal().Err(err).Msg("bad panel dimensions")
	}
	eMedia = canonical(eMedia)
	eFonts = canonical(eFonts)

	log.Info().
		Str("version", version.Number).
		Str("panel", panel.String()).
		Str("media_dir", eMedia).
		Str("fonts_dir", eFonts).
		Msg("ledmatrixd starting")

	// ---- Driver selection (hardware init failure is fatal) ----
	var d driver.Driver
	switch eDriver {
	case "sim":
		d = driver.NewSim()

	case "term":
		d = driver.NewTerm(panel.PixelCount())

	case "nrz":
		nrz, err := driver.OpenNRZ(eSPIDev, panel.PixelCount(), physic.Frequency(eSPIHz)*physic.Hertz)
		if err != nil {
			log.Fatal().Err(err).Str("dev", eSPIDev).Msg("nrz driver init failed")
		}
		d = nrz

	case "opc":
		if eOPCChannel < 0 || eOPCChannel > 255 {
			log.Fatal().Int("channel", eOPCChannel).Msg("OPC channel out of range")
		}
		opc, err := driver.OpenOPC(eOPCServer, uint8(eOPCChannel), panel.PixelCount())
		if err != nil {
			log.Fatal().Err(err).Str("server", eOPCServer).Msg("opc driver init failed")
		}
		d = opc

	default:
		log.Fatal().Str("driver", eDriver).Msg("unknown driver")
	}

	// ---- Matrix & engine ----
	m, err := matrix.New(panel, d, eSerp)
	if err != nil {
		log.Fatal().Err(err).Msg("matrix init failed")
	}

	cell := render.NewStatusCell()
	eng := render.NewEngine(m, cell, eFonts)

	cmds := make(chan render.Command, render.CommandBuffer)
	if eBright != render.DefaultBrightness {
		cmds <- render.SetBrightness{Value: eBright}
	}

	engineDone := make(chan struct{})
	go func() {
		eng.Run(cmds)
		close(engineDone)
	}()

	// ---- HTTP server ----
	api := server.New(cmds, cell, panel, eMedia, eFonts)
	srv := &http.Server{
		Addr:         eAddr,
		Handler:      api.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", eAddr).Str("driver", eDriver).Msg("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server crashed")
		}
	}()

	if *stats {
		if statsview.Available() {
			statsview.Launch()
		} else {
			log.Warn().Msg("stats server not compiled in; rebuild with -tags statsview")
		}
	}

	// ---- Graceful shutdown ----
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	s := <-ch
	log.Info().Str("signal", s.String()).Msg("shutting down")

	_ = srv.Close()
	close(cmds)
	select {
	case <-engineDone:
	case <-time.After(5 * time.Second):
		log.Warn().Msg("engine did not drain in time")
	}
	if err := m.Close(); err != nil {
		log.Warn().Err(err).Msg("matrix close failed")
	}
}

// canonical resolves a directory to an absolute, symlink-free path. The
// path is used as-is when resolution fails; per-request validation will
// surface the problem.
func canonical(dir string) string {
	p, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	if r, err := filepath.EvalSymlinks(p); err == nil {
		return r
	}
	return p
}
