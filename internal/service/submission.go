package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"soil_health"
	"soil_health/internal/logger"
	"soil_health/internal/predict"

	"github.com/google/uuid"
)

// ErrSubmissionInFlight rejects a submission while another is outstanding.
var ErrSubmissionInFlight = errors.New("a submission is already in flight")

// Predictor is the external prediction service.
type Predictor interface {
	Predict(ctx context.Context, r soil_health.Readings) (soil_health.PredictResponse, error)
}

// Status is the observable submission state.
type Status struct {
	State        soil_health.SubmissionState   `json:"state"`
	Result       *soil_health.DiagnosticResult `json:"result,omitempty"`  // latest successful result
	Failure      string                        `json:"failure,omitempty"` // notice for the last failure
	SubmissionID string                        `json:"submission_id,omitempty"`
	UpdatedAt    time.Time                     `json:"updated_at"`
}

// SubmissionService owns the submission state machine. At most one
// submission is in flight; every outcome of the network exchange becomes a
// state transition and never an error for the caller.
type SubmissionService struct {
	predictor Predictor
	log       *logger.Logger
	metrics   *Metrics
	now       func() time.Time

	mu     sync.Mutex
	status Status
}

func NewSubmissionService(p Predictor, log *logger.Logger, metrics *Metrics) *SubmissionService {
	return &SubmissionService{
		predictor: p,
		log:       log,
		metrics:   metrics,
		now:       time.Now,
		status:    Status{State: soil_health.Idle},
	}
}

// Pending is an accepted submission waiting to be run.
type Pending struct {
	svc      *SubmissionService
	id       string
	readings soil_health.Readings
	started  time.Time

	once  sync.Once
	final Status
}

// ID is the submission id, also sent as X-Request-ID.
func (p *Pending) ID() string { return p.id }

// Begin moves the machine to InFlight and captures r. The caller must Run
// the returned Pending; until it does the machine stays InFlight.
func (s *SubmissionService) Begin(r soil_health.Readings) (*Pending, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.State == soil_health.InFlight {
		s.metrics.outcome(outcomeRejectedInFlight)
		if s.log != nil {
			s.log.Infow("submission_rejected_in_flight", "submission_id", s.status.SubmissionID)
		}
		return nil, ErrSubmissionInFlight
	}

	now := s.now()
	id := uuid.NewString()
	s.status.State = soil_health.InFlight
	s.status.SubmissionID = id
	s.status.Failure = ""
	s.status.UpdatedAt = now.UTC()
	s.metrics.setInFlight(true)

	if s.log != nil {
		s.log.Infow("submission_started", "submission_id", id)
	}
	return &Pending{svc: s, id: id, readings: r, started: now}, nil
}

// Run issues the single request for this submission and applies the
// resulting transition. Later calls return the same status without sending
// anything. Cancelling ctx does not abort the request; the client timeout
// bounds it.
func (p *Pending) Run(ctx context.Context) Status {
	p.once.Do(func() {
		p.final = p.svc.complete(ctx, p)
	})
	return p.final
}

// Submit is Begin followed by Run.
func (s *SubmissionService) Submit(ctx context.Context, r soil_health.Readings) (Status, error) {
	p, err := s.Begin(r)
	if err != nil {
		return s.Status(), err
	}
	return p.Run(ctx), nil
}

// Status returns a copy of the current state.
func (s *SubmissionService) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *SubmissionService) complete(ctx context.Context, p *Pending) Status {
	ctx = predict.WithRequestID(context.WithoutCancel(ctx), p.id)
	resp, err := s.safePredict(ctx, p.readings)
	elapsed := s.now().Sub(p.started)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.setInFlight(false)
	s.metrics.observeLatency(elapsed)
	s.status.UpdatedAt = s.now().UTC()

	if err != nil {
		// The previous result stays visible; only the failure notice changes.
		s.status.State = soil_health.Failed
		s.status.Failure = failureNotice(err)
		s.metrics.outcome(outcomeFailed)
		if s.log != nil {
			s.log.Warnw("submission_failed", "err", err, "submission_id", p.id, "elapsed", elapsed)
		}
		return s.status
	}

	result := &soil_health.DiagnosticResult{
		Status:          orDefault(resp.PlantHealthStatus, soil_health.NoDataReceived),
		Recommendations: orDefault(resp.Recommendations, soil_health.NoRecommendations),
	}
	s.status.State = soil_health.Succeeded
	s.status.Result = result
	s.status.Failure = ""
	s.metrics.outcome(outcomeSucceeded)
	if s.log != nil {
		s.log.Infow("submission_succeeded", "submission_id", p.id, "status", result.Status, "elapsed", elapsed)
	}
	return s.status
}

// safePredict turns a panicking predictor into an ordinary failure.
func (s *SubmissionService) safePredict(ctx context.Context, r soil_health.Readings) (resp soil_health.PredictResponse, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("predictor panic: %v", rec)
		}
	}()
	return s.predictor.Predict(ctx, r)
}

func failureNotice(err error) string {
	var se *predict.StatusError
	switch {
	case predict.IsTimeout(err):
		return "Analysis failed: the prediction service did not respond in time."
	case errors.As(err, &se):
		return fmt.Sprintf("Analysis failed: the prediction service returned status %d.", se.Code)
	case errors.Is(err, predict.ErrResponseTooLarge):
		return "Analysis failed: the prediction service sent a response that is too large."
	case errors.Is(err, predict.ErrMalformedResponse):
		return "Analysis failed: the prediction service sent an unreadable response."
	case errors.Is(err, predict.ErrTransport):
		return "Analysis failed: the prediction service is unreachable."
	default:
		return "Analysis failed. Please try again."
	}
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
