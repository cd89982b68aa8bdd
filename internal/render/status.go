package render

import (
	"sync"

	"github.com/coreman2200/funtimes-ledmatrix/internal/version"
)

// State is the engine's externally visible mode.
type State string

const (
	StateIdle          State = "idle"
	StateShowingImage  State = "showing_image"
	StatePlayingVideo  State = "playing_video"
	StateScrollingText State = "scrolling_text"
	StateStreaming     State = "streaming"
)

// DefaultBrightness is the power-on brightness percentage.
const DefaultBrightness = 75

// Status is a point-in-time snapshot of what the display is doing. Frame
// and TotalFrames are only set during video playback.
type Status struct {
	State        State   `json:"state"`
	CurrentMedia *string `json:"current_media"`
	Frame        *int    `json:"frame"`
	TotalFrames  *int    `json:"total_frames"`
	Brightness   int     `json:"brightness"`
	Version      string  `json:"version"`
}

// StatusCell is the shared cell the engine writes and the API reads. A
// snapshot is always internally consistent; writers hold the lock only
// long enough to copy a few fields.
type StatusCell struct {
	mu sync.Mutex
	s  Status
}

// NewStatusCell starts idle at default brightness.
func NewStatusCell() *StatusCell {
	return &StatusCell{s: Status{
		State:      StateIdle,
		Brightness: DefaultBrightness,
		Version:    version.Number,
	}}
}

// Snapshot returns a copy sharing nothing with the cell.
func (c *StatusCell) Snapshot() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.s
	out.CurrentMedia = copyOf(c.s.CurrentMedia)
	out.Frame = copyOf(c.s.Frame)
	out.TotalFrames = copyOf(c.s.TotalFrames)
	return out
}

func copyOf[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// SetIdle drops back to idle. Brightness survives; media fields clear.
func (c *StatusCell) SetIdle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.State = StateIdle
	c.s.CurrentMedia = nil
	c.s.Frame = nil
	c.s.TotalFrames = nil
}

func (c *StatusCell) SetShowingImage(media string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.State = StateShowingImage
	c.s.CurrentMedia = &media
	c.s.Frame = nil
	c.s.TotalFrames = nil
}

func (c *StatusCell) SetPlayingVideo(media string, totalFrames int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	zero := 0
	c.s.State = StatePlayingVideo
	c.s.CurrentMedia = &media
	c.s.Frame = &zero
	c.s.TotalFrames = &totalFrames
}

// SetFrame records playback progress.
func (c *StatusCell) SetFrame(i int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.Frame = &i
}

func (c *StatusCell) SetScrollingText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.State = StateScrollingText
	c.s.CurrentMedia = &text
	c.s.Frame = nil
	c.s.TotalFrames = nil
}

func (c *StatusCell) SetStreaming(media string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.State = StateStreaming
	c.s.CurrentMedia = &media
	c.s.Frame = nil
	c.s.TotalFrames = nil
}

// SetBrightness clamps into [0,100], stores, and returns the stored
// value.
func (c *StatusCell) SetBrightness(v int) int {
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.Brightness = v
	return v
}

func (c *StatusCell) Brightness() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s.Brightness
}
