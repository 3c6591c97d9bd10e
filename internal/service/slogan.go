package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"soil_health/internal/logger"
)

// DefaultSloganPeriod is the rotation period of the screen header.
const DefaultSloganPeriod = 5 * time.Second

// DefaultSlogans are shown under the screen title.
var DefaultSlogans = []string{
	"Healthy Soil, Healthy Life.",
	"Nurture the soil, it nurtures you.",
	"AI-driven insights for sustainable farming.",
	"Your soil's story, told through data.",
	"Precision farming starts with soil health.",
}

var (
	ErrSlogansActive = errors.New("slogan rotation already active")
	errNoSlogans     = errors.New("slogan list is empty")
	errSloganPeriod  = errors.New("slogan period must be positive")
)

// Slogan is the currently displayed header line.
type Slogan struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// tickSource returns a tick channel and the function that releases it.
type tickSource func(d time.Duration) (<-chan time.Time, func())

func timeTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// SloganService rotates the header slogans on a fixed period. It runs
// independently of submissions and holds at most one timer.
type SloganService struct {
	slogans []string
	period  time.Duration
	ticks   tickSource
	log     *logger.Logger
	metrics *Metrics

	mu      sync.Mutex
	index   int
	cancel  context.CancelFunc
	done    chan struct{}
	subs    map[int]chan Slogan
	nextSub int
}

func NewSloganService(slogans []string, period time.Duration, log *logger.Logger, metrics *Metrics) (*SloganService, error) {
	if len(slogans) == 0 {
		return nil, errNoSlogans
	}
	if period <= 0 {
		return nil, errSloganPeriod
	}
	return &SloganService{
		slogans: append([]string(nil), slogans...),
		period:  period,
		ticks:   timeTicker,
		log:     log,
		metrics: metrics,
		subs:    make(map[int]chan Slogan),
	}, nil
}

// Start begins the rotation. It fails with ErrSlogansActive if the rotation
// is already running. The rotation ends on Stop or when ctx is done.
func (s *SloganService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		return ErrSlogansActive
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel, s.done = cancel, done

	ch, release := s.ticks(s.period)
	go s.run(runCtx, ch, release, done)

	if s.log != nil {
		s.log.Debugw("slogans_started", "period", s.period)
	}
	return nil
}

// Stop ends the rotation and waits until the timer is released. No advance
// happens after Stop returns. Calling Stop on an inactive rotation is a no-op.
func (s *SloganService) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done

	if s.log != nil {
		s.log.Debugw("slogans_stopped")
	}
}

// Current returns the slogan on display.
func (s *SloganService) Current() Slogan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Slogan{Index: s.index, Text: s.slogans[s.index]}
}

// Subscribe returns a channel receiving every advance and a function that
// closes it. Slow readers only see the latest slogan.
func (s *SloganService) Subscribe() (<-chan Slogan, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Slogan, 1)
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

// run advances once per tick until ctx is canceled.
func (s *SloganService) run(ctx context.Context, ticks <-chan time.Time, release func(), done chan struct{}) {
	defer close(done)
	defer s.detach(done)
	defer release()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticks:
			if ctx.Err() != nil {
				return
			}
			s.advance()
		}
	}
}

// detach clears the active rotation when it ended through its parent context.
func (s *SloganService) detach(done chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done == done {
		s.cancel()
		s.cancel, s.done = nil, nil
	}
}

func (s *SloganService) advance() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.index = (s.index + 1) % len(s.slogans)
	s.metrics.sloganAdvanced()
	cur := Slogan{Index: s.index, Text: s.slogans[s.index]}
	for _, ch := range s.subs {
		publishLatest(ch, cur)
	}
}

// publishLatest replaces any unread value so the channel never blocks.
func publishLatest(ch chan Slogan, v Slogan) {
	select {
	case ch <- v:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}
