package driven

import "context"

// LLMService sends prompts, optionally with document attachments, to a
// generative model and returns the raw text reply.
//
// Implementations include:
//   - Gemini (generateContent with inline data)
//   - OpenAI (chat completions with image and file parts)
type LLMService interface {
	// Generate produces a completion for prompt. Attachments are sent inline
	// alongside the prompt in the same request.
	Generate(ctx context.Context, prompt string, attachments []Attachment, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// Attachment is a document sent inline with a prompt.
type Attachment struct {
	FileName string
	MIMEType string
	Data     []byte
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate. Zero means the
	// provider default.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// JSON asks the provider to constrain the reply to a JSON object.
	JSON bool
}
