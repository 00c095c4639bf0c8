// Package vision is the OCR collaborator: its only contract with the core
// is "image in, recognized plain text out". The recognized text goes through
// tracker.ParseRecognizedText and then a mandatory human review before
// anything is committed — this package makes no accuracy promises.
package vision

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/genai"
)

// Recognizer extracts plain text from an image.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte, mimeType string) (string, error)
}

// MIMEType maps a supported image file extension to its MIME type.
func MIMEType(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png", nil
	case ".jpg", ".jpeg":
		return "image/jpeg", nil
	default:
		return "", fmt.Errorf("unsupported image format: %q", filepath.Ext(path))
	}
}

// RecognizeFile reads an image file and runs it through the recognizer.
func RecognizeFile(ctx context.Context, r Recognizer, path string) (string, error) {
	mime, err := MIMEType(path)
	if err != nil {
		return "", err
	}
	image, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("cannot read image %q: %w", path, err)
	}
	return r.Recognize(ctx, image, mime)
}

// recognizePrompt asks for the raw table text only: the downstream parser
// relies on column gaps, so any prose or markdown would poison it.
const recognizePrompt = `Transcribe the table in this image as plain text.
Output one line per table row, columns separated by two or more spaces.
Do not add markdown, commentary, or any text that is not in the image.`

// DefaultModel is the Gemini model used for recognition.
const DefaultModel = "gemini-2.5-flash"

// GeminiRecognizer recognizes text through the Gemini API. Credentials come
// from the environment (GEMINI_API_KEY or application default credentials).
type GeminiRecognizer struct {
	Model  string
	client *genai.Client
}

// NewGeminiRecognizer initializes the Gemini client.
func NewGeminiRecognizer(ctx context.Context, model string) (*GeminiRecognizer, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot create recognition client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &GeminiRecognizer{Model: model, client: client}, nil
}

// Recognize sends the image and returns the recognized plain text.
func (g *GeminiRecognizer) Recognize(ctx context.Context, image []byte, mimeType string) (string, error) {
	contents := []*genai.Content{{Parts: []*genai.Part{
		{InlineData: &genai.Blob{MIMEType: mimeType, Data: image}},
		{Text: recognizePrompt},
	}}}

	resp, err := g.client.Models.GenerateContent(ctx, g.Model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("recognition failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("recognition returned no content")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			b.WriteString(part.Text)
		}
	}
	return b.String(), nil
}
