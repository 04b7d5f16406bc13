package drag

import (
	"sync"
	"time"

	"github.com/opsdash/calgrid/internal/layout"
)

// ScrollTick is the auto-scroll timer interval, roughly one frame.
const ScrollTick = 16 * time.Millisecond

// Scroller drives continuous auto-scroll while a drag sits in an edge
// zone. Start is idempotent per direction; Stop must be called when the
// drag ends or the view goes away, or the ticker goroutine leaks.
type Scroller struct {
	mu       sync.Mutex
	interval time.Duration
	dir      layout.ScrollDirection
	stop     chan struct{}
}

func NewScroller() *Scroller {
	return &Scroller{interval: ScrollTick}
}

// Start begins ticking step in the given direction. A call with the
// direction already active is a no-op; a different direction restarts the
// ticker. ScrollNone stops it.
func (s *Scroller) Start(dir layout.ScrollDirection, step func(layout.ScrollDirection)) {
	if dir == layout.ScrollNone {
		s.Stop()
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		if s.dir == dir {
			return
		}
		close(s.stop)
	}
	s.dir = dir
	stop := make(chan struct{})
	s.stop = stop

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				step(dir)
			}
		}
	}()
}

// Stop halts auto-scroll. Safe to call repeatedly and while stopped.
func (s *Scroller) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
		s.dir = layout.ScrollNone
	}
}

// Active reports whether the scroller is currently ticking.
func (s *Scroller) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop != nil
}
