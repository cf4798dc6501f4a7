package llm

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/breadlab/breadquiz/internal/config"
	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// ErrMissingAPIKey is returned when no Gemini API key is configured.
var ErrMissingAPIKey = errors.New("gemini api key is not configured")

// Streamer issues one streaming completion and yields text fragments in order.
// The sequence is finite and cannot be restarted. A failure is yielded once as
// ("", err) and ends the sequence.
type Streamer interface {
	Stream(ctx context.Context, systemPrompt, userText string) iter.Seq2[string, error]
}

// StreamFunc adapts a plain function to Streamer.
type StreamFunc func(ctx context.Context, systemPrompt, userText string) iter.Seq2[string, error]

func (f StreamFunc) Stream(ctx context.Context, systemPrompt, userText string) iter.Seq2[string, error] {
	return f(ctx, systemPrompt, userText)
}

// GeminiStreamer streams completions from the Gemini generate-content API.
type GeminiStreamer struct {
	client      *genai.Client
	model       string
	temperature float32
	log         zerolog.Logger
}

// NewGeminiStreamer creates a Gemini client from configuration.
func NewGeminiStreamer(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*GeminiStreamer, error) {
	if !cfg.LLMConfigured() {
		return nil, ErrMissingAPIKey
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.GeminiBaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.GeminiBaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiStreamer{
		client:      client,
		model:       cfg.GeminiModel,
		temperature: cfg.Temperature,
		log:         log.With().Str("component", "gemini").Str("model", cfg.GeminiModel).Logger(),
	}, nil
}

// Stream implements Streamer. Nothing is sent until the sequence is ranged over.
func (g *GeminiStreamer) Stream(ctx context.Context, systemPrompt, userText string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		genCfg := &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
			Temperature:       genai.Ptr(g.temperature),
		}

		fragments := 0
		for resp, err := range g.client.Models.GenerateContentStream(ctx, g.model, genai.Text(userText), genCfg) {
			if err != nil {
				g.log.Error().Err(err).Int("fragments", fragments).Msg("Stream failed")
				yield("", fmt.Errorf("gemini stream: %w", err))
				return
			}
			text := resp.Text()
			if text == "" {
				continue
			}
			fragments++
			if !yield(text, nil) {
				return
			}
		}
		g.log.Debug().Int("fragments", fragments).Msg("Stream completed")
	}
}
