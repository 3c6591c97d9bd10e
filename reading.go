package soil_health

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FieldKey names one soil reading. Values are the wire keys of the prediction service.
type FieldKey string

const (
	SoilMoisture          FieldKey = "Soil_Moisture"
	SoilTemperature       FieldKey = "Soil_Temperature"
	Humidity              FieldKey = "Humidity"
	LightIntensity        FieldKey = "Light_Intensity"
	SoilPH                FieldKey = "Soil_pH"
	NitrogenLevel         FieldKey = "Nitrogen_Level"
	PhosphorusLevel       FieldKey = "Phosphorus_Level"
	PotassiumLevel        FieldKey = "Potassium_Level"
	ElectrochemicalSignal FieldKey = "Electrochemical_Signal"
	NutrientBalance       FieldKey = "Nutrient_Balance"
)

// FieldCount is the size of the fixed reading set.
const FieldCount = 10

// Field describes one input of the diagnostic form.
type Field struct {
	Key   FieldKey `json:"key"`
	Label string   `json:"label"`
	Unit  string   `json:"unit,omitempty"`
}

// Fields is the ordered, fixed set of soil readings.
var Fields = [FieldCount]Field{
	{Key: SoilMoisture, Label: "Soil Moisture"},
	{Key: SoilTemperature, Label: "Soil Temperature", Unit: "°C"},
	{Key: Humidity, Label: "Humidity", Unit: "%"},
	{Key: LightIntensity, Label: "Light Intensity"},
	{Key: SoilPH, Label: "Soil pH"},
	{Key: NitrogenLevel, Label: "Nitrogen Level"},
	{Key: PhosphorusLevel, Label: "Phosphorus Level"},
	{Key: PotassiumLevel, Label: "Potassium Level"},
	{Key: ElectrochemicalSignal, Label: "Electrochemical Signal"},
	{Key: NutrientBalance, Label: "Nutrient Balance"},
}

// IndexOf returns the slot of key in Fields.
func IndexOf(key FieldKey) (int, bool) {
	for i, f := range Fields {
		if f.Key == key {
			return i, true
		}
	}
	return 0, false
}

// Readings holds the raw, unvalidated text of every field, indexed like Fields.
// It is a value type: assigning it captures a snapshot.
type Readings [FieldCount]string

// Get returns the raw value for key, or "" for an unknown key.
func (r Readings) Get(key FieldKey) string {
	if i, ok := IndexOf(key); ok {
		return r[i]
	}
	return ""
}

// MarshalJSON writes the ten keys in declaration order with their raw text.
func (r Readings) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(string(f.Key))
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r[i])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// SubmissionState is the lifecycle of a diagnostic submission.
type SubmissionState int

const (
	Idle SubmissionState = iota
	InFlight
	Succeeded
	Failed
)

var stateNames = [...]string{
	Idle:      "idle",
	InFlight:  "in_flight",
	Succeeded: "succeeded",
	Failed:    "failed",
}

func (s SubmissionState) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("SubmissionState(%d)", int(s))
	}
	return stateNames[s]
}

func (s SubmissionState) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(stateNames) {
		return nil, fmt.Errorf("unknown submission state %d", int(s))
	}
	return []byte(stateNames[s]), nil
}

func (s *SubmissionState) UnmarshalText(b []byte) error {
	for i, name := range stateNames {
		if name == string(b) {
			*s = SubmissionState(i)
			return nil
		}
	}
	return fmt.Errorf("unknown submission state %q", string(b))
}

// Fallbacks used when the prediction service omits a field.
const (
	NoDataReceived    = "No data received"
	NoRecommendations = "No recommendations available"
)

// DiagnosticResult is the outcome of a successful submission.
// Recommendations is untrusted text from the prediction service.
type DiagnosticResult struct {
	Status          string `json:"plant_health_status"`
	Recommendations string `json:"recommendations"`
}

// PredictResponse is the decoded body returned by POST /predict.
// Empty fields mean the service did not send them.
type PredictResponse struct {
	PlantHealthStatus string `json:"plant_health_status,omitempty"`
	Recommendations   string `json:"recommendations,omitempty"`
	Error             string `json:"error,omitempty"` // set by the service on internal failure
}
