package handlers

import (
	_ "embed"
	"errors"
	"html/template"
	"net/http"

	"soil_health"
	"soil_health/internal/form"
	"soil_health/internal/render"
	"soil_health/internal/service"

	"github.com/gin-gonic/gin"
)

//go:embed templates/screen.html
var screenHTML string

const screenTemplateName = "screen"

var screenTemplate = template.Must(template.New(screenTemplateName).Parse(screenHTML))

// screenPage is the data of the server-rendered screen.
type screenPage struct {
	Slogan string
	Fields []FieldValue
	View   render.View
	Notice string // validation or in-flight notice of this request
}

func (h *Handler) renderScreen(c *gin.Context, code int, notice string) {
	st := h.services.Submission.Status()
	c.HTML(code, screenTemplateName, screenPage{
		Slogan: h.services.Slogans.Current().Text,
		Fields: h.fieldValues(),
		View:   render.Result(st.State, st.Result, st.Failure),
		Notice: notice,
	})
}

func (h *Handler) showScreen(c *gin.Context) {
	h.renderScreen(c, http.StatusOK, "")
}

// submitScreen runs one analysis of the posted inputs. It blocks until the
// prediction service answers or the client timeout fires. A 409 leaves the
// stored inputs as the running submission set them.
func (h *Handler) submitScreen(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		h.renderScreen(c, http.StatusBadRequest, errInvalidBodyPref+err.Error())
		return
	}
	posted := make(map[soil_health.FieldKey]string, soil_health.FieldCount)
	for _, f := range soil_health.Fields {
		if v, ok := c.Request.PostForm[string(f.Key)]; ok && len(v) > 0 {
			posted[f.Key] = v[0]
		}
	}

	_, err := h.services.AnalyzeWith(c.Request.Context(), posted)
	var verr *form.ValidationError
	switch {
	case errors.As(err, &verr):
		h.renderScreen(c, http.StatusUnprocessableEntity, verr.Notice())
	case errors.Is(err, service.ErrSubmissionInFlight):
		h.renderScreen(c, http.StatusConflict, errInFlight)
	case err != nil:
		if h.log != nil {
			h.log.Errorw("screen_submit_failed", "err", err)
		}
		h.renderScreen(c, http.StatusInternalServerError, "Analysis failed. Please try again.")
	default:
		h.renderScreen(c, http.StatusOK, "")
	}
}
