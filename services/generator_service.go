package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/michaelfullmer/contentcreatorforbusiness/config"
	"github.com/michaelfullmer/contentcreatorforbusiness/models"
	"github.com/michaelfullmer/contentcreatorforbusiness/repository"
)

// GenerateRequest is one content generation request. It is never persisted;
// only the usage commit leaves a trace.
type GenerateRequest struct {
	CallerID    string `json:"user_id"`
	Prompt      string `json:"prompt"`
	ContentType string `json:"content_type"`
	Tone        string `json:"tone"`
}

// StreamSink receives the ordered events of one generation request:
// zero or more Chunk calls, then exactly one of Done or Fail.
type StreamSink interface {
	Chunk(content string) error
	Done() error
	Fail(message string) error
}

// GeneratorService owns the lifecycle of one generation request: validate,
// check quota, relay the provider stream, and commit one unit of usage
// once the stream has completed cleanly.
type GeneratorService interface {
	GenerateStream(ctx context.Context, req GenerateRequest, sink StreamSink) error
}

type generatorService struct {
	quota     QuotaService
	usageRepo repository.UsageRepository
	streamer  CompletionStreamer
}

// NewGeneratorService creates a new instance of GeneratorService.
func NewGeneratorService(quota QuotaService, usageRepo repository.UsageRepository, streamer CompletionStreamer) GeneratorService {
	return &generatorService{quota: quota, usageRepo: usageRepo, streamer: streamer}
}

// GenerateStream runs one request through validate -> quota -> stream ->
// commit. Returned errors mean nothing was written to the sink, with one
// exception: *StreamFailedError, which reports a failure after partial
// output (the terminal error event is already on the stream by then).
//
// Usage is committed exactly once, only after the provider stream ended
// cleanly. A stream that errors or is cancelled midway commits nothing:
// the caller did not receive a usable result.
func (s *generatorService) GenerateStream(ctx context.Context, req GenerateRequest, sink StreamSink) error {
	if strings.TrimSpace(req.Prompt) == "" {
		return ErrEmptyPrompt
	}

	callerID := req.CallerID
	if callerID == "" {
		callerID = AnonymousCallerID
	}
	anonymous := callerID == AnonymousCallerID
	if anonymous && !config.AppConfig.AllowAnonymous {
		return ErrAuthRequired
	}

	decision, err := s.quota.CheckAndReserve(callerID, models.MeterContent)
	if err != nil {
		return err
	}
	if !decision.Allowed {
		return &QuotaExceededError{Decision: *decision}
	}

	// relayCtx lets the consumer side tear down the provider stream as
	// soon as the caller stops reading.
	relayCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream, err := s.streamer.StreamCompletion(relayCtx, BuildSystemInstruction(req.ContentType, req.Tone), req.Prompt)
	if err != nil {
		return &UpstreamError{Err: err}
	}
	defer stream.Close()

	// Producer: pump provider chunks into the relay channel until the
	// stream ends or the relay is cancelled. The channel is unbuffered, so
	// backpressure from the outbound transport reaches the provider read
	// loop instead of piling up in memory.
	chunks := make(chan string)
	result := make(chan error, 1)
	go func() {
		defer close(chunks)
		for {
			content, recvErr := stream.Recv()
			if recvErr != nil {
				result <- recvErr
				return
			}
			if content == "" {
				continue
			}
			select {
			case chunks <- content:
			case <-relayCtx.Done():
				result <- relayCtx.Err()
				return
			}
		}
	}()

	// Guard so a duplicated completion signal can never double-charge.
	var commitOnce sync.Once
	var commitErr error
	commit := func() error {
		commitOnce.Do(func() {
			commitErr = s.usageRepo.IncrementUsage(callerID, models.MeterContent)
		})
		return commitErr
	}

	sent := false
	for content := range chunks {
		if writeErr := sink.Chunk(content); writeErr != nil {
			// Caller stopped reading. Release the provider stream and walk
			// away without committing; completion was never reached.
			log.Printf("WARN: [Generator] Caller %s disconnected mid-stream: %v", callerID, writeErr)
			cancel()
			for range chunks {
			}
			<-result
			return &StreamFailedError{Err: writeErr}
		}
		sent = true
	}

	streamErr := <-result
	switch {
	case errors.Is(streamErr, io.EOF):
		// Clean completion; fall through to commit.
	case errors.Is(streamErr, context.Canceled) || errors.Is(streamErr, context.DeadlineExceeded):
		log.Printf("INFO: [Generator] Request for caller %s cancelled before completion; no usage committed.", callerID)
		return &StreamFailedError{Err: streamErr}
	default:
		if !sent {
			return &UpstreamError{Err: streamErr}
		}
		log.Printf("ERROR: [Generator] Provider stream for caller %s failed after partial output: %v", callerID, streamErr)
		if failErr := sink.Fail("Failed to generate content"); failErr != nil {
			log.Printf("WARN: [Generator] Could not deliver terminal error event to caller %s: %v", callerID, failErr)
		}
		return &StreamFailedError{Err: streamErr}
	}

	// Anonymous callers have no ledger row; their allowance is a fixed
	// display value, not a persisted counter.
	if !anonymous {
		if err := commit(); err != nil {
			// Do not retry: the stream succeeded, so retrying risks
			// double-counting. Flag the record for reconciliation instead.
			log.Printf("ERROR: [Generator] RECONCILE: completed stream for caller %s but usage commit failed: %v", callerID, err)
			if failErr := sink.Fail("Generation completed but usage could not be recorded"); failErr != nil {
				log.Printf("WARN: [Generator] Could not deliver accounting failure event to caller %s: %v", callerID, failErr)
			}
			return &StreamFailedError{Err: err}
		}
	}

	if doneErr := sink.Done(); doneErr != nil {
		log.Printf("WARN: [Generator] Could not deliver completion event to caller %s: %v", callerID, doneErr)
	}
	return nil
}

// BuildSystemInstruction produces the fixed system instruction for the
// provider, parameterized by content type and tone.
func BuildSystemInstruction(contentType, tone string) string {
	label := contentTypeLabel(contentType)
	if tone == "" {
		tone = "professional"
	}
	return fmt.Sprintf(`You are a professional content creator for small businesses. Generate %s content with a %s tone.

Guidelines:
- Keep the content engaging and suitable for the target platform
- For social media: Keep it concise, use appropriate hashtags
- For email: Include a compelling subject line and clear call-to-action
- For blog: Create well-structured content with headings
- For presentations: Create slide-by-slide content with bullet points

Generate professional, high-quality content that resonates with small business audiences.`, label, tone)
}

func contentTypeLabel(contentType string) string {
	switch models.TemplateCategory(contentType) {
	case models.CategorySocial:
		return "social media"
	case models.CategoryBlog:
		return "blog"
	case models.CategoryEmail:
		return "email"
	case models.CategoryPresentation:
		return "presentation"
	}
	if contentType == "" {
		return "marketing"
	}
	return contentType
}
