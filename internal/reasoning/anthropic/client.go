package anthropic

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"benefitflow-backend/internal/reasoning"
)

const (
	apiURL           = "https://api.anthropic.com/v1/messages"
	apiVersion       = "2023-06-01"
	defaultMediaType = "application/pdf"
)

// Client implements reasoning.TextClient against the Anthropic Messages API.
// Responses are requested as a stream and consumed incrementally so one slow
// assessment never blocks other submissions.
type Client struct {
	apiKey     string
	model      string
	maxTokens  int
	httpClient *http.Client
	baseURL    string
}

// NewClient constructs a new streaming client.
func NewClient(apiKey, model string, maxTokens int) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("REASONING_MODEL is required")
	}
	if maxTokens <= 0 {
		maxTokens = 8000
	}
	return &Client{
		apiKey:    apiKey,
		model:     model,
		maxTokens: maxTokens,
		// No request timeout: the remote service enforces its own limits
		// and streaming keeps the connection from idling out.
		httpClient: &http.Client{},
		baseURL:    apiURL,
	}, nil
}

type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *blockSource `json:"source,omitempty"`
}

type blockSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Stream    bool      `json:"stream"`
	Messages  []message `json:"messages"`
}

type streamEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Complete sends the instruction text plus the encoded attachments and
// returns the accumulated response text.
func (c *Client) Complete(ctx context.Context, instruction string, attachments []reasoning.Attachment) (string, error) {
	blocks := make([]contentBlock, 0, len(attachments)+1)
	blocks = append(blocks, contentBlock{Type: "text", Text: instruction})
	for _, att := range attachments {
		mediaType := strings.TrimSpace(att.ContentType)
		if mediaType == "" {
			mediaType = defaultMediaType
		}
		blocks = append(blocks, contentBlock{
			Type: "document",
			Source: &blockSource{
				Type:      "base64",
				MediaType: mediaType,
				Data:      base64.StdEncoding.EncodeToString(att.Data),
			},
		})
	}

	payload, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Stream:    true,
		Messages:  []message{{Role: "user", Content: blocks}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", readAPIError(resp)
	}

	return consumeStream(resp.Body)
}

// consumeStream reads server-sent events and accumulates text deltas.
func consumeStream(body io.Reader) (string, error) {
	var text strings.Builder
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" {
			continue
		}

		var event streamEvent
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			continue
		}
		switch event.Type {
		case "content_block_delta":
			if event.Delta.Type == "text_delta" {
				text.WriteString(event.Delta.Text)
			}
		case "error":
			if event.Error != nil {
				return "", fmt.Errorf("reasoning service error: %s (%s)", event.Error.Message, event.Error.Type)
			}
			return "", fmt.Errorf("reasoning service error")
		case "message_stop":
			return text.String(), nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read response stream: %w", err)
	}
	return text.String(), nil
}

func readAPIError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return fmt.Errorf("reasoning service status %d", resp.StatusCode)
	}
	var parsed struct {
		Error *apiError `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != nil {
		return fmt.Errorf("reasoning service error: %s (%s)", parsed.Error.Message, parsed.Error.Type)
	}
	return fmt.Errorf("reasoning service status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}

var _ reasoning.TextClient = (*Client)(nil)
