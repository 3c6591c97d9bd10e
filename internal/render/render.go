// Package render turns submission state into display-ready text. Every
// function here is pure: rendering never mutates state.
package render

import (
	"soil_health"
)

const (
	statusPrefix = "Soil Health: "

	ButtonIdle = "Analyze Soil Health"
	ButtonBusy = "Analyzing..."
)

// View is what a screen shows for the current submission state. Busy means
// the submit control must be disabled. Status is "" before the first
// success and Notice is "" unless the last submission failed.
type View struct {
	State           soil_health.SubmissionState
	Busy            bool
	ButtonLabel     string
	Status          string
	StatusLine      string
	Notice          string
	Recommendations *Document
}

// Result builds the view for state and the latest stored result.
// failure is the notice recorded by the last failed submission.
func Result(state soil_health.SubmissionState, result *soil_health.DiagnosticResult, failure string) View {
	v := View{
		State:       state,
		Busy:        state == soil_health.InFlight,
		ButtonLabel: ButtonIdle,
	}
	if v.Busy {
		v.ButtonLabel = ButtonBusy
	}
	if result != nil {
		v.Status = result.Status
		if doc := Sanitize(result.Recommendations); !doc.Empty() {
			v.Recommendations = doc
		}
	}
	v.StatusLine = statusPrefix + v.Status
	if state == soil_health.Failed {
		v.Notice = failure
	}
	return v
}
