package field

import (
	"sync"

	"go.uber.org/zap"
)

// Stage ties animations to a host view: exactly one animator runs on its
// surface at a time. Show is "became visible", Hide is "torn down".
type Stage struct {
	surface Surface
	clock   Clock
	log     *zap.Logger
	opts    []Option

	mu      sync.Mutex
	current *Animator
}

// NewStage returns a stage drawing on surface with frames from clock. opts
// are applied to every animator the stage starts.
func NewStage(surface Surface, clock Clock, log *zap.Logger, opts ...Option) *Stage {
	if log == nil {
		log = zap.NewNop()
	}
	return &Stage{
		surface: surface,
		clock:   clock,
		log:     log,
		opts:    append([]Option{WithLogger(log)}, opts...),
	}
}

// Show cancels the running animation, if any, and starts cfg in its place.
func (s *Stage) Show(cfg SurfaceConfig, opts ...Option) *Animator {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		s.current.Stop()
	}
	all := append(append([]Option(nil), s.opts...), opts...)
	s.current = Start(s.surface, s.clock, cfg, all...)
	return s.current
}

// Hide cancels the running animation.
func (s *Stage) Hide() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		s.current.Stop()
		s.current = nil
	}
}

// Resize forwards a viewport change to the running animation.
func (s *Stage) Resize(w, h float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		s.current.Resize(w, h)
	}
}

// Current returns the running animator or nil.
func (s *Stage) Current() *Animator {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}
