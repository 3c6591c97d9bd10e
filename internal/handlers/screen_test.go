package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"soil_health"
	"soil_health/internal/form"
	"soil_health/internal/service"
)

func postForm(r http.Handler, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func fullForm() url.Values {
	v := url.Values{}
	for _, f := range soil_health.Fields {
		v.Set(string(f.Key), "5")
	}
	return v
}

func TestShowScreen_RendersFieldsInOrder(t *testing.T) {
	r := newTestRouter(newTestServices(nil, nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	body := w.Body.String()
	last := -1
	for _, f := range soil_health.Fields {
		i := strings.Index(body, `name="`+string(f.Key)+`"`)
		if i < 0 || i < last {
			t.Fatalf("field %s missing or out of order", f.Key)
		}
		last = i
	}
	for _, want := range []string{"Healthy Soil, Healthy Life.", "Analyze Soil Health", "Soil Health: "} {
		if !strings.Contains(body, want) {
			t.Fatalf("page missing %q", want)
		}
	}
	if strings.Contains(body, `type="submit" disabled`) {
		t.Fatal("button must be enabled while idle")
	}
	if strings.Contains(body, "<h2>Recommendations</h2>") {
		t.Fatal("recommendations heading shown before any result")
	}
}

func TestShowScreen_DisablesButtonWhileInFlight(t *testing.T) {
	sub := &mockSubmission{status: service.Status{State: soil_health.InFlight}}
	r := newTestRouter(newTestServices(sub, nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	body := w.Body.String()
	if !strings.Contains(body, `type="submit" disabled>Analyzing...`) {
		t.Fatalf("expected disabled busy button, got:\n%s", body)
	}
}

func TestSubmitScreen_IncompleteShowsNotice(t *testing.T) {
	sub := &mockSubmission{}
	s := newTestServices(sub, nil)
	r := newTestRouter(s)

	v := fullForm()
	v.Set(string(soil_health.NitrogenLevel), "")
	w := postForm(r, v)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), form.MissingFieldsNotice) {
		t.Fatal("missing notice not rendered")
	}
	if sub.submitCount() != 0 {
		t.Fatal("incomplete form must not be submitted")
	}
	// Posted values are kept in the form.
	if got := s.Form.Snapshot().Get(soil_health.SoilPH); got != "5" {
		t.Fatalf("Soil_pH = %q", got)
	}
}

func TestSubmitScreen_RendersSanitizedResult(t *testing.T) {
	sub := &mockSubmission{status: service.Status{
		State: soil_health.Succeeded,
		Result: &soil_health.DiagnosticResult{
			Status:          "Nutrient deficient",
			Recommendations: `<ul><li onclick="x()">Add compost</li></ul><script>alert(1)</script>`,
		},
	}}
	r := newTestRouter(newTestServices(sub, nil))

	w := postForm(r, fullForm())
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Soil Health: Nutrient deficient") {
		t.Fatal("status line not rendered")
	}
	heading := strings.Index(body, "<h2>Recommendations</h2>")
	list := strings.Index(body, "<ul><li>Add compost</li></ul>")
	if list < 0 {
		t.Fatalf("recommendations not rendered:\n%s", body)
	}
	if heading < 0 || heading > list {
		t.Fatal("recommendations heading missing or below the list")
	}
	if strings.Contains(body, "alert(1)") || strings.Contains(body, "onclick") {
		t.Fatal("active content leaked into the page")
	}
	if sub.submitCount() != 1 {
		t.Fatalf("submitted %d times", sub.submitCount())
	}
}

func TestSubmitScreen_PlainRecommendationsKeepLineBreaks(t *testing.T) {
	sub := &mockSubmission{status: service.Status{
		State:  soil_health.Succeeded,
		Result: &soil_health.DiagnosticResult{Status: "Healthy", Recommendations: "Water less\nAdd mulch"},
	}}
	r := newTestRouter(newTestServices(sub, nil))

	body := postForm(r, fullForm()).Body.String()
	if !strings.Contains(body, `class="recommendations plain"`) {
		t.Fatal("plain text should use line-preserving layout")
	}
}

func TestSubmitScreen_InFlightConflict(t *testing.T) {
	sub := &mockSubmission{submitErr: service.ErrSubmissionInFlight}
	r := newTestRouter(newTestServices(sub, nil))

	w := postForm(r, fullForm())
	if w.Code != http.StatusConflict {
		t.Fatalf("status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), errInFlight) {
		t.Fatal("in-flight notice not rendered")
	}
}

func TestSubmitScreen_InFlightKeepsStoredInputs(t *testing.T) {
	sub := &mockSubmission{
		status:    service.Status{State: soil_health.InFlight},
		submitErr: service.ErrSubmissionInFlight,
	}
	s := newTestServices(sub, nil)
	fillForm(s)
	r := newTestRouter(s)

	v := fullForm()
	v.Set(string(soil_health.SoilPH), "9")
	w := postForm(r, v)
	if w.Code != http.StatusConflict {
		t.Fatalf("status=%d", w.Code)
	}
	if got := s.Form.Snapshot().Get(soil_health.SoilPH); got != "1" {
		t.Fatalf("Soil_pH = %q, want the running submission's value", got)
	}
	if !strings.Contains(w.Body.String(), `name="Soil_pH" value="1"`) {
		t.Fatal("page should show the running submission's inputs")
	}
}
