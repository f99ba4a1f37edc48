// Package vision defines the two external capabilities the rename pipeline
// depends on — describing an image and proposing a filename for the
// description — plus the OpenAI-backed implementation of both.
package vision

import "context"

// Extraction is a description of an image plus the token usage the call
// consumed, so callers can account for spend.
type Extraction struct {
	Description      string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// ContentExtractor turns raw image bytes into a textual description.
// Implementations must return a non-empty description or an error.
type ContentExtractor interface {
	ExtractContent(ctx context.Context, imageBytes []byte, resize bool) (Extraction, error)
}

// Namer proposes a filename (without extension) for a description.
type Namer interface {
	GenerateName(ctx context.Context, description string) (string, error)
}
