package driver

import (
	"errors"
	"sync"
)

// ErrClosed is returned by writes to a closed driver.
var ErrClosed = errors.New("driver closed")

// simKeep bounds how many frames a Sim retains for inspection.
const simKeep = 64

// Sim records frames instead of displaying them. It backs --driver=sim
// and every headless test.
type Sim struct {
	mu     sync.Mutex
	total  int
	frames [][]byte
	closed bool
}

func NewSim() *Sim {
	return &Sim{}
}

func (s *Sim) Write(rgb []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	buf := make([]byte, len(rgb))
	copy(buf, rgb)
	if len(s.frames) >= simKeep {
		s.frames = s.frames[1:]
	}
	s.frames = append(s.frames, buf)
	s.total++
	return nil
}

func (s *Sim) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// FrameCount is the total number of frames ever written.
func (s *Sim) FrameCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// Frames returns copies of the retained frames, oldest first.
func (s *Sim) Frames() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]byte, len(s.frames))
	for i, f := range s.frames {
		out[i] = append([]byte(nil), f...)
	}
	return out
}

// LastFrame returns a copy of the most recent frame, or nil before the
// first write.
func (s *Sim) LastFrame() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return nil
	}
	return append([]byte(nil), s.frames[len(s.frames)-1]...)
}
