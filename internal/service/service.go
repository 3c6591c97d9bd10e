package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"soil_health"
	"soil_health/internal/form"
	"soil_health/internal/logger"
)

// Form exposes the raw field values of the screen.
type Form interface {
	Set(key soil_health.FieldKey, raw string) error
	Snapshot() soil_health.Readings
}

// Submission exposes the submission state machine.
type Submission interface {
	Begin(r soil_health.Readings) (*Pending, error)
	Submit(ctx context.Context, r soil_health.Readings) (Status, error)
	Status() Status
}

// Slogans exposes the header rotation. Start on screen activation, Stop on teardown.
type Slogans interface {
	Start(ctx context.Context) error
	Stop()
	Current() Slogan
	Subscribe() (<-chan Slogan, func())
}

var (
	_ Form       = (*form.FieldStore)(nil)
	_ Submission = (*SubmissionService)(nil)
	_ Slogans    = (*SloganService)(nil)
)

// Service is one screen instance: its form, its submission machine and its
// slogan rotation.
type Service struct {
	Form
	Submission
	Slogans
	Gate form.Gate

	log     *logger.Logger
	metrics *Metrics
}

// Deps configures NewService.
type Deps struct {
	Predictor     Predictor
	Log           *logger.Logger
	Metrics       *Metrics
	StrictNumeric bool
	Slogans       []string      // DefaultSlogans when empty
	SloganPeriod  time.Duration // DefaultSloganPeriod when zero
}

// NewService wires the screen components.
func NewService(d Deps) (*Service, error) {
	slogans := d.Slogans
	if len(slogans) == 0 {
		slogans = DefaultSlogans
	}
	period := d.SloganPeriod
	if period == 0 {
		period = DefaultSloganPeriod
	}
	rotation, err := NewSloganService(slogans, period, d.Log, d.Metrics)
	if err != nil {
		return nil, err
	}
	return &Service{
		Form:       form.NewFieldStore(),
		Submission: NewSubmissionService(d.Predictor, d.Log, d.Metrics),
		Slogans:    rotation,
		Gate:       form.Gate{StrictNumeric: d.StrictNumeric},
		log:        d.Log,
		metrics:    d.Metrics,
	}, nil
}

// Analyze validates the current form and, when complete, submits it and
// waits for the outcome. A *form.ValidationError leaves the machine untouched.
func (s *Service) Analyze(ctx context.Context) (Status, error) {
	return s.AnalyzeWith(ctx, nil)
}

// AnalyzeWith submits the current form with values laid over it. The values
// reach the form unless the submission is refused with ErrSubmissionInFlight,
// so a rejected caller never overwrites the inputs of the running one.
// Unknown keys fail with form.ErrUnknownField before anything is applied.
func (s *Service) AnalyzeWith(ctx context.Context, values map[soil_health.FieldKey]string) (Status, error) {
	r := s.Form.Snapshot()
	for k, v := range values {
		i, ok := soil_health.IndexOf(k)
		if !ok {
			return s.Submission.Status(), fmt.Errorf("%w: %q", form.ErrUnknownField, k)
		}
		r[i] = v
	}

	if err := s.check(r); err != nil {
		s.apply(values)
		return s.Submission.Status(), err
	}
	st, err := s.Submission.Submit(ctx, r)
	if errors.Is(err, ErrSubmissionInFlight) {
		return st, err
	}
	s.apply(values)
	return st, err
}

// BeginAnalysis validates the current form and accepts a submission without
// waiting for it. The caller runs the returned Pending.
func (s *Service) BeginAnalysis() (*Pending, error) {
	r := s.Form.Snapshot()
	if err := s.check(r); err != nil {
		return nil, err
	}
	return s.Submission.Begin(r)
}

func (s *Service) apply(values map[soil_health.FieldKey]string) {
	for k, v := range values {
		// Keys were checked by AnalyzeWith.
		_ = s.Form.Set(k, v)
	}
}

func (s *Service) check(r soil_health.Readings) error {
	if err := s.Gate.Check(r); err != nil {
		var verr *form.ValidationError
		if errors.As(err, &verr) {
			s.metrics.outcome(outcomeRejectedInvalid)
			if s.log != nil {
				s.log.Infow("submission_rejected_invalid", "missing", verr.Missing, "invalid", verr.Invalid)
			}
		}
		return err
	}
	return nil
}
