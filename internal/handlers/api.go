package handlers

import (
	"errors"
	"net/http"
	"time"

	"soil_health"
	"soil_health/internal/form"
	"soil_health/internal/render"
	"soil_health/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK = "ok"

	errUnknownField    = "unknown field"
	errInFlight        = "an analysis is already running"
	errInvalidBodyPref = "invalid body: "
)

// FieldValue is one form input with its current raw text.
type FieldValue struct {
	Key   soil_health.FieldKey `json:"key" example:"Soil_pH"`
	Label string               `json:"label" example:"Soil pH"`
	Unit  string               `json:"unit,omitempty"`
	Value string               `json:"value" example:"6.5"`
}

// SetFieldRequest is the body of PUT /api/v1/fields/{key}.
type SetFieldRequest struct {
	// Raw text of the field; "" clears it
	Value *string `json:"value" binding:"required" example:"6.5"`
}

// ViewResponse is the rendered result area of the screen.
type ViewResponse struct {
	Busy                bool   `json:"busy"`
	ButtonLabel         string `json:"button_label" example:"Analyze Soil Health"`
	StatusLine          string `json:"status_line" example:"Soil Health: Healthy"`
	Notice              string `json:"notice,omitempty"`
	RecommendationsHTML string `json:"recommendations_html,omitempty"`
	RecommendationsText string `json:"recommendations_text,omitempty"`
}

// SubmissionSummary is the submission state without the raw result text.
// Recommendations reach clients only through ViewResponse.
type SubmissionSummary struct {
	State        soil_health.SubmissionState `json:"state" example:"succeeded"`
	Failure      string                      `json:"failure,omitempty"`
	SubmissionID string                      `json:"submission_id,omitempty"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}

// ScreenState is everything a client needs to draw the screen.
type ScreenState struct {
	Slogan     service.Slogan    `json:"slogan"`
	Fields     []FieldValue      `json:"fields"`
	Submission SubmissionSummary `json:"submission"`
	View       ViewResponse      `json:"view"`
}

// ValidationErrorResponse lists the fields that blocked a submission.
type ValidationErrorResponse struct {
	Error   string                 `json:"error" example:"Please fill all the fields"`
	Missing []soil_health.FieldKey `json:"missing,omitempty"`
	Invalid []soil_health.FieldKey `json:"invalid,omitempty"`
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

func (h *Handler) fieldValues() []FieldValue {
	r := h.services.Form.Snapshot()
	out := make([]FieldValue, 0, soil_health.FieldCount)
	for i, f := range soil_health.Fields {
		out = append(out, FieldValue{Key: f.Key, Label: f.Label, Unit: f.Unit, Value: r[i]})
	}
	return out
}

func toViewResponse(v render.View) ViewResponse {
	out := ViewResponse{
		Busy:        v.Busy,
		ButtonLabel: v.ButtonLabel,
		StatusLine:  v.StatusLine,
		Notice:      v.Notice,
	}
	if v.Recommendations != nil {
		out.RecommendationsHTML = string(v.Recommendations.HTML())
		out.RecommendationsText = v.Recommendations.Text()
	}
	return out
}

func (h *Handler) screenState() ScreenState {
	st := h.services.Submission.Status()
	return ScreenState{
		Slogan:     h.services.Slogans.Current(),
		Fields:     h.fieldValues(),
		Submission: SubmissionSummary{
			State:        st.State,
			Failure:      st.Failure,
			SubmissionID: st.SubmissionID,
			UpdatedAt:    st.UpdatedAt,
		},
		View:       toViewResponse(render.Result(st.State, st.Result, st.Failure)),
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      List form fields
// @Description  The ten soil readings in submission order with their current raw text
// @Tags         form
// @Produce      json
// @Success      200  {array}  FieldValue
// @Router       /api/v1/fields [get]
func (h *Handler) listFields(c *gin.Context) {
	c.JSON(http.StatusOK, h.fieldValues())
}

// @Summary      Set one field
// @Description  Replaces the raw text of a single field. Any text is accepted.
// @Tags         form
// @Accept       json
// @Produce      json
// @Param        key   path  string           true  "Field key, e.g. Soil_pH"
// @Param        body  body  SetFieldRequest  true  "Field value"
// @Success      200   {object}  FieldValue
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/fields/{key} [put]
func (h *Handler) setField(c *gin.Context) {
	var req SetFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	key := soil_health.FieldKey(c.Param("key"))
	if err := h.services.Form.Set(key, *req.Value); err != nil {
		if errors.Is(err, form.ErrUnknownField) {
			c.JSON(http.StatusNotFound, gin.H{"error": errUnknownField})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, err.Error(), "field_set_failed", err, "key", key)
		return
	}
	i, _ := soil_health.IndexOf(key)
	f := soil_health.Fields[i]
	c.JSON(http.StatusOK, FieldValue{Key: f.Key, Label: f.Label, Unit: f.Unit, Value: *req.Value})
}

// @Summary      Analyze soil health
// @Description  Submits the form with the optional field map laid over it and waits for the outcome.
// @Description  The map is stored unless the request is refused with 409.
// @Description  Network failures are reported in the returned state, not as HTTP errors.
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Param        body  body  map[string]string  false  "Field values to set first"
// @Success      200   {object}  ScreenState
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  ValidationErrorResponse
// @Router       /api/v1/analyze [post]
func (h *Handler) analyze(c *gin.Context) {
	var fields map[soil_health.FieldKey]string
	if c.Request.ContentLength != 0 {
		var values map[string]string
		if err := c.ShouldBindJSON(&values); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
			return
		}
		var ok bool
		if fields, ok = fieldMap(c, values); !ok {
			return
		}
	}

	_, err := h.services.AnalyzeWith(c.Request.Context(), fields)
	var verr *form.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, ValidationErrorResponse{
			Error:   verr.Notice(),
			Missing: verr.Missing,
			Invalid: verr.Invalid,
		})
		return
	case errors.Is(err, service.ErrSubmissionInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": errInFlight})
		return
	case err != nil:
		h.logAndJSONError(c, http.StatusInternalServerError, "analysis failed", "analyze_failed", err)
		return
	}
	c.JSON(http.StatusOK, h.screenState())
}

// fieldMap keys the body by field; an unknown key answers 404.
func fieldMap(c *gin.Context, values map[string]string) (map[soil_health.FieldKey]string, bool) {
	out := make(map[soil_health.FieldKey]string, len(values))
	for k, v := range values {
		key := soil_health.FieldKey(k)
		if _, ok := soil_health.IndexOf(key); !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": errUnknownField + ": " + k})
			return nil, false
		}
		out[key] = v
	}
	return out, true
}

// @Summary      Get screen state
// @Tags         analysis
// @Produce      json
// @Success      200  {object}  ScreenState
// @Router       /api/v1/state [get]
func (h *Handler) getState(c *gin.Context) {
	c.JSON(http.StatusOK, h.screenState())
}
