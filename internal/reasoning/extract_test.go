package reasoning

import (
	"errors"
	"testing"
)

const validPayload = `{
  "decision": "approve",
  "confidence_level": 0.87,
  "summary": "Documented conditions meet the severity threshold.",
  "phase_analyses": [
    {"phase": "1", "title": "Medical severity", "analysis": "Severe, documented."},
    {"phase": "4", "title": "Overall determination", "analysis": "Approve."}
  ]
}`

func TestExtractValid(t *testing.T) {
	raw := "Thinking about the documents...\n<START_OUTPUT>" + validPayload + "<END_OUTPUT>\nDone."
	result, err := Extract(raw)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if result.Decision != "approve" {
		t.Fatalf("decision = %q, want approve", result.Decision)
	}
	if result.Confidence != 0.87 {
		t.Fatalf("confidence = %v, want 0.87", result.Confidence)
	}
	if len(result.Phases) != 2 {
		t.Fatalf("phases = %d, want 2", len(result.Phases))
	}
	if result.Raw != raw {
		t.Fatalf("raw text not retained")
	}
	if len(result.Full) == 0 {
		t.Fatalf("full payload not retained")
	}
}

func TestExtractStripsCodeFence(t *testing.T) {
	raw := "<START_OUTPUT>\n```json\n" + validPayload + "\n```\n<END_OUTPUT>"
	result, err := Extract(raw)
	if err != nil {
		t.Fatalf("Extract with fence: %v", err)
	}
	if result.Summary == "" {
		t.Fatalf("expected summary to survive fence stripping")
	}
}

func TestExtractMissingDelimiters(t *testing.T) {
	for name, raw := range map[string]string{
		"no markers":   "I could not produce structured output.",
		"start only":   "<START_OUTPUT>{\"decision\":\"approve\"}",
		"end only":     "{\"decision\":\"approve\"}<END_OUTPUT>",
		"empty string": "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Extract(raw)
			if !errors.Is(err, ErrOutputMissing) {
				t.Fatalf("err = %v, want ErrOutputMissing", err)
			}
			var extractionErr *ExtractionError
			if !errors.As(err, &extractionErr) {
				t.Fatalf("err is not *ExtractionError")
			}
			if extractionErr.Raw != raw {
				t.Fatalf("raw text not retained in error")
			}
		})
	}
}

func TestExtractMalformedPayload(t *testing.T) {
	raw := "analysis...<START_OUTPUT>{\"decision\": approve}<END_OUTPUT>"
	_, err := Extract(raw)
	if !errors.Is(err, ErrOutputMalformed) {
		t.Fatalf("err = %v, want ErrOutputMalformed", err)
	}
	var extractionErr *ExtractionError
	if !errors.As(err, &extractionErr) {
		t.Fatalf("err is not *ExtractionError")
	}
	if extractionErr.Raw != raw {
		t.Fatalf("raw text not retained in error")
	}
	if extractionErr.Parse == nil {
		t.Fatalf("parse error not retained")
	}
}
