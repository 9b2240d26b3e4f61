package reasoning

import (
	"context"
	"encoding/json"
)

// Attachment is one binary document sent along with the instruction text.
type Attachment struct {
	FileName    string
	ContentType string
	Data        []byte
}

// PhaseAnalysis is one phase block of the eligibility assessment.
type PhaseAnalysis struct {
	Phase    string `json:"phase"`
	Title    string `json:"title,omitempty"`
	Analysis string `json:"analysis"`
}

// Result is the structured payload extracted from the model response, plus
// the raw text it was extracted from.
type Result struct {
	Decision   string
	Confidence float64
	Summary    string
	Phases     []PhaseAnalysis
	Full       json.RawMessage
	Raw        string
}

// Invoker runs one eligibility assessment over a set of documents.
type Invoker interface {
	Invoke(ctx context.Context, attachments []Attachment) (Result, error)
}

// TextClient is the narrow contract on the reasoning service: one instruction
// text plus attachments in, free text out. The pipeline never depends on a
// specific model identity.
type TextClient interface {
	Complete(ctx context.Context, instruction string, attachments []Attachment) (string, error)
}

// Service wires the fixed instruction text to a TextClient and extracts the
// structured result from the response.
type Service struct {
	Client      TextClient
	Instruction string
}

// NewService builds a Service with the embedded eligibility prompt.
func NewService(client TextClient) *Service {
	return &Service{Client: client, Instruction: PromptText()}
}

// Invoke sends the documents to the reasoning service and extracts the
// delimited structured payload from its response.
func (s *Service) Invoke(ctx context.Context, attachments []Attachment) (Result, error) {
	raw, err := s.Client.Complete(ctx, s.Instruction, attachments)
	if err != nil {
		return Result{}, err
	}
	return Extract(raw)
}

var _ Invoker = (*Service)(nil)
