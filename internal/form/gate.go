package form

import (
	"math"
	"strconv"
	"strings"

	"soil_health"
)

// MissingFieldsNotice is shown to the operator when the form is incomplete.
const MissingFieldsNotice = "Please fill all the fields"

// ValidationError lists the fields that block a submission.
type ValidationError struct {
	Missing []soil_health.FieldKey
	Invalid []soil_health.FieldKey // only populated in strict numeric mode
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(MissingFieldsNotice)
	if len(e.Missing) > 0 {
		b.WriteString(": missing ")
		b.WriteString(joinKeys(e.Missing))
	}
	if len(e.Invalid) > 0 {
		if len(e.Missing) > 0 {
			b.WriteString(";")
		} else {
			b.WriteString(":")
		}
		b.WriteString(" not a number ")
		b.WriteString(joinKeys(e.Invalid))
	}
	return b.String()
}

// Notice is the short operator-facing message.
func (e *ValidationError) Notice() string {
	if len(e.Missing) == 0 && len(e.Invalid) > 0 {
		return "Please enter numeric values for all the fields"
	}
	return MissingFieldsNotice
}

// Gate decides whether a snapshot may be submitted. The zero value only
// checks completeness; StrictNumeric also requires every value to parse as
// a finite number.
type Gate struct {
	StrictNumeric bool
}

// Check returns nil when r may be submitted, or a *ValidationError.
func (g Gate) Check(r soil_health.Readings) error {
	var verr ValidationError
	for i, f := range soil_health.Fields {
		v := r[i]
		if v == "" {
			verr.Missing = append(verr.Missing, f.Key)
			continue
		}
		if g.StrictNumeric && !isFiniteNumber(v) {
			verr.Invalid = append(verr.Invalid, f.Key)
		}
	}
	if len(verr.Missing) == 0 && len(verr.Invalid) == 0 {
		return nil
	}
	return &verr
}

func isFiniteNumber(s string) bool {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil && !math.IsInf(f, 0) && !math.IsNaN(f)
}

func joinKeys(keys []soil_health.FieldKey) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}
