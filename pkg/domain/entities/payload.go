package entities

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidPayload wraps every payload decoding failure
var ErrInvalidPayload = errors.New("invalid payload")

// ChartPayload is the projection dataset pushed by the planning engine
type ChartPayload struct {
	ProjectionBefore     []ProjectionPoint `json:"projectionBefore"`
	ProjectionAfter      []ProjectionPoint `json:"projectionAfter"`
	ProjectionForecasted []ProjectionPoint `json:"projectionForecasted,omitempty"`
	Events               []Event           `json:"events"`
	Thresholds           Threshold         `json:"thresholds"`
	TrackingPairs        []TrackingPair    `json:"trackingPairs"`
	CoverageBars         []CoverageBar     `json:"coverageBars"`
}

// Projection returns the points of one variant
func (p *ChartPayload) Projection(v Variant) []ProjectionPoint {
	switch v {
	case VariantBefore:
		return p.ProjectionBefore
	case VariantAfter:
		return p.ProjectionAfter
	case VariantForecasted:
		return p.ProjectionForecasted
	default:
		return nil
	}
}

// ExplanationPayload is the explanation dataset pushed by the planning engine
type ExplanationPayload struct {
	Explanations []Explanation `json:"explanations"`
}

// DecodeChartPayload parses a chart payload
func DecodeChartPayload(data []byte) (*ChartPayload, error) {
	var payload ChartPayload
	if err := decodeObject(data, &payload); err != nil {
		return nil, err
	}
	payload.Thresholds = payload.Thresholds.Normalized()
	return &payload, nil
}

// DecodeExplanationPayload parses an explanation payload
func DecodeExplanationPayload(data []byte) (*ExplanationPayload, error) {
	var payload ExplanationPayload
	if err := decodeObject(data, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func decodeObject(data []byte, v any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("%w: expected a JSON object", ErrInvalidPayload)
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}
