package handlers

import (
	"context"
	"sync"
	"sync/atomic"

	"soil_health"
	"soil_health/internal/form"
	"soil_health/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockSubmission struct {
	mu        sync.Mutex
	status    service.Status
	submitErr error
	beginErr  error
	submitted []soil_health.Readings
}

func (m *mockSubmission) Begin(r soil_health.Readings) (*service.Pending, error) {
	return nil, m.beginErr
}

func (m *mockSubmission) Submit(ctx context.Context, r soil_health.Readings) (service.Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.submitErr != nil {
		return m.status, m.submitErr
	}
	m.submitted = append(m.submitted, r)
	return m.status, nil
}

func (m *mockSubmission) Status() service.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *mockSubmission) submitCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.submitted)
}

type mockSlogans struct {
	current service.Slogan
	ch      chan service.Slogan
	unsubs  atomic.Int32
}

func (m *mockSlogans) Start(ctx context.Context) error { return nil }
func (m *mockSlogans) Stop()                           {}
func (m *mockSlogans) Current() service.Slogan         { return m.current }
func (m *mockSlogans) Subscribe() (<-chan service.Slogan, func()) {
	return m.ch, func() { m.unsubs.Add(1) }
}

// ---- Shared Test Helpers ----

func newTestServices(sub *mockSubmission, sl *mockSlogans) *service.Service {
	if sub == nil {
		sub = &mockSubmission{status: service.Status{State: soil_health.Idle}}
	}
	if sl == nil {
		sl = &mockSlogans{
			current: service.Slogan{Text: "Healthy Soil, Healthy Life."},
			ch:      make(chan service.Slogan, 1),
		}
	}
	return &service.Service{
		Form:       form.NewFieldStore(),
		Submission: sub,
		Slogans:    sl,
	}
}

func fillForm(s *service.Service) {
	for _, f := range soil_health.Fields {
		_ = s.Form.Set(f.Key, "1")
	}
}

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}
