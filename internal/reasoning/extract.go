package reasoning

import (
	"encoding/json"
	"regexp"
	"strings"
)

const (
	startDelimiter = "<START_OUTPUT>"
	endDelimiter   = "<END_OUTPUT>"
)

var (
	fenceOpenRe  = regexp.MustCompile("^```[a-zA-Z]*\\s*")
	fenceCloseRe = regexp.MustCompile("\\s*```$")
)

type structuredPayload struct {
	Decision   string          `json:"decision"`
	Confidence float64         `json:"confidence_level"`
	Summary    string          `json:"summary"`
	Phases     []PhaseAnalysis `json:"phase_analyses"`
}

// Extract locates the first delimited span in the model response, strips any
// markdown code fence, and decodes the structured payload. Failures are
// typed and keep the raw text; no defaults are ever substituted.
func Extract(raw string) (Result, error) {
	start := strings.Index(raw, startDelimiter)
	if start < 0 {
		return Result{}, newMissing(raw)
	}
	rest := raw[start+len(startDelimiter):]
	end := strings.Index(rest, endDelimiter)
	if end < 0 {
		return Result{}, newMissing(raw)
	}

	span := strings.TrimSpace(rest[:end])
	span = fenceOpenRe.ReplaceAllString(span, "")
	span = fenceCloseRe.ReplaceAllString(span, "")
	span = strings.TrimSpace(span)

	var payload structuredPayload
	if err := json.Unmarshal([]byte(span), &payload); err != nil {
		return Result{}, newMalformed(raw, err)
	}

	return Result{
		Decision:   payload.Decision,
		Confidence: payload.Confidence,
		Summary:    payload.Summary,
		Phases:     payload.Phases,
		Full:       json.RawMessage(span),
		Raw:        raw,
	}, nil
}
