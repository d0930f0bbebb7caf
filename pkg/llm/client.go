// Package llm implements narrator.Provider over the Gemini GenAI SDK,
// collecting a single generateContent response into the string the
// Narrator contract expects.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"google.golang.org/genai"

	"github.com/worldengine/core/pkg/narrator"
)

// Client wraps a Gemini GenAI client and implements narrator.Provider.
type Client struct {
	genai       *genai.Client
	model       string
	temperature *float32
	maxTokens   *int32
}

// NewClient configures a Gemini client from the environment. addr is
// accepted for parity with the teacher's dial-an-endpoint client shape
// but unused — the GenAI SDK talks to the hosted Gemini API directly,
// authenticated by GEMINI_API_KEY.
func NewClient(addr string) (*Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-2.0-flash-thinking-exp-01-21"
	}

	var temperature *float32
	if tempStr := os.Getenv("GEMINI_TEMPERATURE"); tempStr != "" {
		if temp, err := strconv.ParseFloat(tempStr, 32); err == nil {
			temp32 := float32(temp)
			temperature = &temp32
		}
	}

	var maxTokens *int32
	if maxStr := os.Getenv("GEMINI_MAX_TOKENS"); maxStr != "" {
		if max, err := strconv.ParseInt(maxStr, 10, 32); err == nil {
			max32 := int32(max)
			maxTokens = &max32
		}
	}

	slog.Info("LLM client configured", "model", model, "addr", addr)

	return &Client{
		genai:       client,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}, nil
}

// prompt renders a narrator.Summary into the single user message the
// model expects.
func prompt(summary narrator.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\nPhase: %s\n", summary.Topic, summary.Phase)
	if len(summary.Participants) > 0 {
		fmt.Fprintf(&b, "Participants: %s\n", strings.Join(summary.Participants, ", "))
	}
	for _, ev := range summary.CondensedEvents {
		fmt.Fprintf(&b, "- %s\n", ev)
	}
	switch summary.Format {
	case narrator.FormatLaTeX:
		b.WriteString("Respond with a LaTeX-formatted summary.")
	default:
		b.WriteString("Respond with a short prose summary.")
	}
	return b.String()
}

// Generate implements narrator.Provider by issuing one generateContent
// call and returning its text.
func (c *Client) Generate(ctx context.Context, summary narrator.Summary) (string, error) {
	cfg := &genai.GenerateContentConfig{}
	if c.temperature != nil {
		cfg.Temperature = c.temperature
	}
	if c.maxTokens != nil {
		cfg.MaxOutputTokens = *c.maxTokens
	}

	result, err := c.genai.Models.GenerateContent(ctx, c.model, genai.Text(prompt(summary)), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}
	return result.Text(), nil
}
