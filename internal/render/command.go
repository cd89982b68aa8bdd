package render

import "github.com/coreman2200/funtimes-ledmatrix/internal/pixel"

// Command is the closed set of operations the engine accepts. Every
// variant carries all the input its execution needs; the engine keeps no
// other request state.
type Command interface {
	kind() string
}

// ShowImage decodes a still, scales it to the panel, and displays it.
type ShowImage struct {
	Path string
}

// PlayVideo plays a directory of frame images in file-name order.
type PlayVideo struct {
	Dir  string
	FPS  int
	Loop bool
}

// ScrollText marquees text across the panel until something replaces it.
type ScrollText struct {
	Text  string
	Font  string
	Color pixel.Color
	Speed int
}

// ShowFrame displays one raw RGB frame of exactly rows*cols*3 bytes.
type ShowFrame struct {
	Data []byte
}

// Clear blanks the panel and goes idle.
type Clear struct{}

// Stop goes idle without blanking whatever is on the panel.
type Stop struct{}

// SetBrightness adjusts global brightness, 0 to 100; higher values clamp
// to 100. During video playback it is absorbed and applies to the next
// load; during text scrolling it takes effect on the next tick.
type SetBrightness struct {
	Value int
}

func (ShowImage) kind() string     { return "show_image" }
func (PlayVideo) kind() string     { return "play_video" }
func (ScrollText) kind() string    { return "scroll_text" }
func (ShowFrame) kind() string     { return "show_frame" }
func (Clear) kind() string         { return "clear" }
func (Stop) kind() string          { return "stop" }
func (SetBrightness) kind() string { return "set_brightness" }

// Kind names a command for log fields.
func Kind(c Command) string {
	return c.kind()
}
