package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/michaelfullmer/contentcreatorforbusiness/config"

	openai "github.com/sashabaranov/go-openai"
)

// CompletionStream is one in-flight provider stream. Recv returns the next
// text chunk, io.EOF on clean completion, or the provider's error. Streams
// are finite and not restartable; Close releases the upstream connection.
type CompletionStream interface {
	Recv() (string, error)
	Close() error
}

// CompletionStreamer opens token streams from the generation provider.
type CompletionStreamer interface {
	StreamCompletion(ctx context.Context, systemPrompt, userPrompt string) (CompletionStream, error)
}

type openaiStreamer struct{}

// NewOpenAIStreamer creates the production CompletionStreamer backed by the
// OpenAI-compatible provider configured in config.AppConfig.Provider.
func NewOpenAIStreamer() CompletionStreamer {
	return &openaiStreamer{}
}

func (s *openaiStreamer) StreamCompletion(ctx context.Context, systemPrompt, userPrompt string) (CompletionStream, error) {
	provider := config.AppConfig.Provider
	if provider.APIKey == "" {
		return nil, errors.New("provider API key is not configured")
	}

	clientConfig := openai.DefaultConfig(provider.APIKey)
	if provider.BaseURL != "" {
		clientConfig.BaseURL = provider.BaseURL
	}
	client := openai.NewClientWithConfig(clientConfig)

	req := openai.ChatCompletionRequest{
		Model: provider.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Stream:    true,
		MaxTokens: provider.MaxTokens,
	}

	stream, err := client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		log.Printf("ERROR: [Streamer] CreateChatCompletionStream failed for model %s: %v", provider.Model, err)
		return nil, fmt.Errorf("failed to open completion stream (model %s): %w", provider.Model, err)
	}
	return &openaiStream{stream: stream}, nil
}

type openaiStream struct {
	stream *openai.ChatCompletionStream
}

// Recv returns the next delta. Empty deltas (role-only or keep-alive
// frames) surface as empty strings; callers skip them.
func (s *openaiStream) Recv() (string, error) {
	response, err := s.stream.Recv()
	if err != nil {
		return "", err
	}
	if len(response.Choices) == 0 {
		return "", nil
	}
	return response.Choices[0].Delta.Content, nil
}

func (s *openaiStream) Close() error {
	return s.stream.Close()
}
