package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"soil_health"
	"soil_health/internal/form"
	"soil_health/internal/service"
)

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := newTestRouter(newTestServices(nil, nil))
	w := doJSON(r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK || w.Body.String() != `{"status":"ok"}` {
		t.Fatalf("health: %d %s", w.Code, w.Body.String())
	}
}

func TestFields_ListAndSet(t *testing.T) {
	s := newTestServices(nil, nil)
	r := newTestRouter(s)

	w := doJSON(r, http.MethodPut, "/api/v1/fields/Soil_pH", `{"value":"6.5"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("put status=%d body=%s", w.Code, w.Body.String())
	}
	if got := s.Form.Snapshot().Get(soil_health.SoilPH); got != "6.5" {
		t.Fatalf("Soil_pH = %q", got)
	}

	w = doJSON(r, http.MethodGet, "/api/v1/fields", "")
	var fields []FieldValue
	if err := json.Unmarshal(w.Body.Bytes(), &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(fields) != soil_health.FieldCount {
		t.Fatalf("got %d fields", len(fields))
	}
	if fields[0].Key != soil_health.SoilMoisture || fields[4].Value != "6.5" || fields[4].Label != "Soil pH" {
		t.Fatalf("unexpected fields: %+v", fields)
	}
}

func TestFields_SetErrors(t *testing.T) {
	r := newTestRouter(newTestServices(nil, nil))

	cases := []struct {
		name string
		path string
		body string
		code int
	}{
		{"unknown key", "/api/v1/fields/Soil_Color", `{"value":"brown"}`, http.StatusNotFound},
		{"missing value", "/api/v1/fields/Soil_pH", `{}`, http.StatusBadRequest},
		{"bad json", "/api/v1/fields/Soil_pH", `{`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPut, tc.path, tc.body)
			if w.Code != tc.code {
				t.Fatalf("status=%d want %d body=%s", w.Code, tc.code, w.Body.String())
			}
		})
	}
}

func TestFields_SetEmptyClears(t *testing.T) {
	s := newTestServices(nil, nil)
	fillForm(s)
	r := newTestRouter(s)

	w := doJSON(r, http.MethodPut, "/api/v1/fields/Humidity", `{"value":""}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if got := s.Form.Snapshot().Get(soil_health.Humidity); got != "" {
		t.Fatalf("Humidity = %q", got)
	}
}

func TestAnalyze_IncompleteForm422(t *testing.T) {
	sub := &mockSubmission{}
	s := newTestServices(sub, nil)
	r := newTestRouter(s)

	w := doJSON(r, http.MethodPost, "/api/v1/analyze", `{"Soil_pH":"6.5"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var resp ValidationErrorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Error != form.MissingFieldsNotice || len(resp.Missing) != soil_health.FieldCount-1 {
		t.Fatalf("unexpected body: %+v", resp)
	}
	if sub.submitCount() != 0 {
		t.Fatal("incomplete form must not be submitted")
	}
}

func TestAnalyze_AppliesBodyAndReturnsState(t *testing.T) {
	sub := &mockSubmission{status: service.Status{
		State: soil_health.Succeeded,
		Result: &soil_health.DiagnosticResult{
			Status:          "Healthy",
			Recommendations: "<p>Add <b>lime</b><script>x</script></p>",
		},
	}}
	s := newTestServices(sub, nil)
	fillForm(s)
	r := newTestRouter(s)

	w := doJSON(r, http.MethodPost, "/api/v1/analyze", `{"Soil_pH":"6.5"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if sub.submitCount() != 1 || sub.submitted[0].Get(soil_health.SoilPH) != "6.5" {
		t.Fatalf("submitted %+v", sub.submitted)
	}
	var st ScreenState
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if st.View.StatusLine != "Soil Health: Healthy" {
		t.Fatalf("status line %q", st.View.StatusLine)
	}
	if st.View.RecommendationsHTML != "<p>Add <strong>lime</strong></p>" {
		t.Fatalf("recommendations %q", st.View.RecommendationsHTML)
	}
	if st.Submission.State != soil_health.Succeeded || st.Slogan.Text == "" {
		t.Fatalf("state %+v", st)
	}	// Only the sanitized rendering reaches the client.
	if body := w.Body.String(); strings.Contains(body, "script") || strings.Contains(body, `"result"`) {
		t.Fatalf("raw recommendations exposed: %s", body)
	}
}

func TestAnalyze_Errors(t *testing.T) {
	cases := []struct {
		name string
		sub  *mockSubmission
		body string
		code int
	}{
		{"in flight", &mockSubmission{submitErr: service.ErrSubmissionInFlight}, "", http.StatusConflict},
		{"unknown key", &mockSubmission{}, `{"Soil_Color":"brown"}`, http.StatusNotFound},
		{"non-string value", &mockSubmission{}, `{"Soil_pH":6.5}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServices(tc.sub, nil)
			fillForm(s)
			w := doJSON(newTestRouter(s), http.MethodPost, "/api/v1/analyze", tc.body)
			if w.Code != tc.code {
				t.Fatalf("status=%d want %d body=%s", w.Code, tc.code, w.Body.String())
			}
		})
	}
}

func TestAnalyze_UnknownKeyAppliesNothing(t *testing.T) {
	s := newTestServices(nil, nil)
	r := newTestRouter(s)

	w := doJSON(r, http.MethodPost, "/api/v1/analyze", `{"Soil_pH":"6.5","Soil_Color":"brown"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d", w.Code)
	}
	if got := s.Form.Snapshot().Get(soil_health.SoilPH); got != "" {
		t.Fatalf("Soil_pH should be untouched, got %q", got)
	}
}

func TestGetState_FailedKeepsPreviousResult(t *testing.T) {
	sub := &mockSubmission{status: service.Status{
		State:   soil_health.Failed,
		Result:  &soil_health.DiagnosticResult{Status: "Healthy", Recommendations: "Water weekly"},
		Failure: "The prediction service is unreachable.",
	}}
	r := newTestRouter(newTestServices(sub, nil))

	w := doJSON(r, http.MethodGet, "/api/v1/state", "")
	var st ScreenState
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if st.View.StatusLine != "Soil Health: Healthy" || st.View.Notice == "" {
		t.Fatalf("view %+v", st.View)
	}
	if st.View.RecommendationsText != "Water weekly" || st.View.Busy {
		t.Fatalf("view %+v", st.View)
	}
}
