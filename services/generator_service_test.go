package services

import (
	"context"
	"errors"
	"testing"

	"github.com/michaelfullmer/contentcreatorforbusiness/config"
	"github.com/michaelfullmer/contentcreatorforbusiness/models"

	"github.com/stretchr/testify/assert"
)

func allowAnonymous(t *testing.T, allowed bool) {
	t.Helper()
	previous := config.AppConfig.AllowAnonymous
	config.AppConfig.AllowAnonymous = allowed
	t.Cleanup(func() { config.AppConfig.AllowAnonymous = previous })
}

func allowingEntitlements(callerID string, limit models.Limit) *MockEntitlementService {
	mockEntitlements := new(MockEntitlementService)
	mockEntitlements.On("ResolveLimits", callerID).Return(finiteLimits(limit), nil)
	return mockEntitlements
}

func TestGeneratorService_GenerateStream(t *testing.T) {
	userID := "user123"
	validReq := GenerateRequest{
		CallerID:    userID,
		Prompt:      "Write a holiday greeting",
		ContentType: "social",
		Tone:        "friendly",
	}

	t.Run("Successful stream relays chunks in order and commits exactly once", func(t *testing.T) {
		mockUsageRepo := new(MockUsageRepository)
		mockUsageRepo.On("GetUsage", userID).Return(&models.UserSubscription{
			UserID:                 userID,
			Plan:                   models.PlanPro,
			ContentGenerationsUsed: 5,
		}, nil)
		mockUsageRepo.On("IncrementUsage", userID, models.MeterContent).Return(nil)

		streamer := &scriptedStreamer{stream: &scriptedStream{chunks: []string{"Happy", " Holidays", "!"}}}
		sink := &recordingSink{}
		service := NewGeneratorService(NewQuotaService(allowingEntitlements(userID, 100), mockUsageRepo), mockUsageRepo, streamer)

		err := service.GenerateStream(context.Background(), validReq, sink)
		assert.NoError(t, err)
		assert.Equal(t, []string{"Happy", " Holidays", "!"}, sink.chunks)
		assert.Equal(t, 1, sink.done)
		assert.Empty(t, sink.failures)
		assert.True(t, streamer.stream.closed)
		mockUsageRepo.AssertNumberOfCalls(t, "IncrementUsage", 1)
	})

	t.Run("System instruction carries content type and tone", func(t *testing.T) {
		mockUsageRepo := new(MockUsageRepository)
		mockUsageRepo.On("GetUsage", userID).Return(nil, nil)
		mockUsageRepo.On("IncrementUsage", userID, models.MeterContent).Return(nil)

		streamer := &scriptedStreamer{stream: &scriptedStream{chunks: []string{"ok"}}}
		service := NewGeneratorService(NewQuotaService(allowingEntitlements(userID, 10), mockUsageRepo), mockUsageRepo, streamer)

		err := service.GenerateStream(context.Background(), validReq, &recordingSink{})
		assert.NoError(t, err)
		assert.Contains(t, streamer.systemPrompt, "social media content with a friendly tone")
		assert.Equal(t, validReq.Prompt, streamer.userPrompt)
	})

	t.Run("Empty prompt is rejected with zero side effects", func(t *testing.T) {
		mockUsageRepo := new(MockUsageRepository)
		streamer := &scriptedStreamer{}
		sink := &recordingSink{}
		service := NewGeneratorService(NewQuotaService(new(MockEntitlementService), mockUsageRepo), mockUsageRepo, streamer)

		req := validReq
		req.Prompt = "   "
		err := service.GenerateStream(context.Background(), req, sink)
		assert.ErrorIs(t, err, ErrEmptyPrompt)
		assert.False(t, streamer.opened)
		assert.Empty(t, sink.chunks)
		mockUsageRepo.AssertNotCalled(t, "IncrementUsage")
	})

	t.Run("Exhausted quota denies before the stream is opened", func(t *testing.T) {
		mockUsageRepo := new(MockUsageRepository)
		mockUsageRepo.On("GetUsage", userID).Return(&models.UserSubscription{
			UserID:                 userID,
			Plan:                   models.PlanFree,
			ContentGenerationsUsed: 10,
		}, nil)

		streamer := &scriptedStreamer{}
		service := NewGeneratorService(NewQuotaService(allowingEntitlements(userID, 10), mockUsageRepo), mockUsageRepo, streamer)

		err := service.GenerateStream(context.Background(), validReq, &recordingSink{})
		var quotaErr *QuotaExceededError
		assert.ErrorAs(t, err, &quotaErr)
		assert.Equal(t, models.Limit(0), quotaErr.Decision.Remaining)
		assert.Equal(t, models.Limit(10), quotaErr.Decision.Limit)
		assert.False(t, streamer.opened)
		mockUsageRepo.AssertNotCalled(t, "IncrementUsage")
	})

	t.Run("Provider failure to open surfaces as upstream error with nothing sent", func(t *testing.T) {
		mockUsageRepo := new(MockUsageRepository)
		mockUsageRepo.On("GetUsage", userID).Return(nil, nil)

		streamer := &scriptedStreamer{openErr: errors.New("connection refused")}
		sink := &recordingSink{}
		service := NewGeneratorService(NewQuotaService(allowingEntitlements(userID, 10), mockUsageRepo), mockUsageRepo, streamer)

		err := service.GenerateStream(context.Background(), validReq, sink)
		var upstreamErr *UpstreamError
		assert.ErrorAs(t, err, &upstreamErr)
		assert.Empty(t, sink.chunks)
		assert.Empty(t, sink.failures)
		mockUsageRepo.AssertNotCalled(t, "IncrementUsage")
	})

	t.Run("Mid-stream provider failure emits terminal error and commits nothing", func(t *testing.T) {
		mockUsageRepo := new(MockUsageRepository)
		mockUsageRepo.On("GetUsage", userID).Return(nil, nil)

		streamer := &scriptedStreamer{stream: &scriptedStream{
			chunks:   []string{"partial", " output"},
			finalErr: errors.New("stream reset"),
		}}
		sink := &recordingSink{}
		service := NewGeneratorService(NewQuotaService(allowingEntitlements(userID, 10), mockUsageRepo), mockUsageRepo, streamer)

		err := service.GenerateStream(context.Background(), validReq, sink)
		var streamErr *StreamFailedError
		assert.ErrorAs(t, err, &streamErr)
		assert.Equal(t, []string{"partial", " output"}, sink.chunks)
		assert.Len(t, sink.failures, 1)
		assert.Zero(t, sink.done)
		mockUsageRepo.AssertNotCalled(t, "IncrementUsage")
	})

	t.Run("Caller disconnect releases the stream and commits nothing", func(t *testing.T) {
		mockUsageRepo := new(MockUsageRepository)
		mockUsageRepo.On("GetUsage", userID).Return(nil, nil)

		streamer := &scriptedStreamer{stream: &scriptedStream{chunks: []string{"never", "delivered"}}}
		sink := &recordingSink{chunkErr: errors.New("broken pipe")}
		service := NewGeneratorService(NewQuotaService(allowingEntitlements(userID, 10), mockUsageRepo), mockUsageRepo, streamer)

		err := service.GenerateStream(context.Background(), validReq, sink)
		var streamErr *StreamFailedError
		assert.ErrorAs(t, err, &streamErr)
		assert.True(t, streamer.stream.closed)
		assert.Empty(t, sink.chunks)
		mockUsageRepo.AssertNotCalled(t, "IncrementUsage")
	})

	t.Run("Cancelled request commits nothing", func(t *testing.T) {
		mockUsageRepo := new(MockUsageRepository)
		mockUsageRepo.On("GetUsage", userID).Return(nil, nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		streamer := &scriptedStreamer{stream: &scriptedStream{chunks: []string{"a", "b", "c"}}}
		service := NewGeneratorService(NewQuotaService(allowingEntitlements(userID, 10), mockUsageRepo), mockUsageRepo, streamer)

		err := service.GenerateStream(ctx, GenerateRequest{CallerID: userID, Prompt: "hello"}, &recordingSink{})
		if err != nil {
			mockUsageRepo.AssertNotCalled(t, "IncrementUsage")
		} else {
			// The producer may drain a short scripted stream before the
			// cancellation is observed; a clean finish must commit once.
			mockUsageRepo.AssertNumberOfCalls(t, "IncrementUsage", 1)
		}
	})

	t.Run("Ledger failure on commit is surfaced, not swallowed", func(t *testing.T) {
		mockUsageRepo := new(MockUsageRepository)
		mockUsageRepo.On("GetUsage", userID).Return(nil, nil)
		mockUsageRepo.On("IncrementUsage", userID, models.MeterContent).Return(errors.New("disk full"))

		streamer := &scriptedStreamer{stream: &scriptedStream{chunks: []string{"done content"}}}
		sink := &recordingSink{}
		service := NewGeneratorService(NewQuotaService(allowingEntitlements(userID, 10), mockUsageRepo), mockUsageRepo, streamer)

		err := service.GenerateStream(context.Background(), validReq, sink)
		var streamErr *StreamFailedError
		assert.ErrorAs(t, err, &streamErr)
		assert.Len(t, sink.failures, 1)
		assert.Zero(t, sink.done)
		mockUsageRepo.AssertNumberOfCalls(t, "IncrementUsage", 1)
	})

	t.Run("Anonymous caller streams without persisting usage", func(t *testing.T) {
		allowAnonymous(t, true)
		mockUsageRepo := new(MockUsageRepository)

		streamer := &scriptedStreamer{stream: &scriptedStream{chunks: []string{"Sale", " on now"}}}
		sink := &recordingSink{}
		quota := NewQuotaService(NewEntitlementService(mockUsageRepo), mockUsageRepo)
		service := NewGeneratorService(quota, mockUsageRepo, streamer)

		err := service.GenerateStream(context.Background(), GenerateRequest{Prompt: "Announce a sale"}, sink)
		assert.NoError(t, err)
		assert.Equal(t, []string{"Sale", " on now"}, sink.chunks)
		assert.Equal(t, 1, sink.done)
		mockUsageRepo.AssertNotCalled(t, "IncrementUsage")
		mockUsageRepo.AssertNotCalled(t, "GetUsage")
	})

	t.Run("Anonymous caller is rejected when anonymous use is disabled", func(t *testing.T) {
		allowAnonymous(t, false)
		mockUsageRepo := new(MockUsageRepository)
		streamer := &scriptedStreamer{}
		service := NewGeneratorService(NewQuotaService(new(MockEntitlementService), mockUsageRepo), mockUsageRepo, streamer)

		err := service.GenerateStream(context.Background(), GenerateRequest{Prompt: "hello"}, &recordingSink{})
		assert.ErrorIs(t, err, ErrAuthRequired)
		assert.False(t, streamer.opened)
	})

	t.Run("Unlimited plan streams without consulting usage counters", func(t *testing.T) {
		mockUsageRepo := new(MockUsageRepository)
		mockUsageRepo.On("GetUsage", userID).Return(&models.UserSubscription{
			UserID: userID,
			Plan:   models.PlanEnterprise,
		}, nil)
		mockUsageRepo.On("IncrementUsage", userID, models.MeterContent).Return(nil)

		streamer := &scriptedStreamer{stream: &scriptedStream{chunks: []string{"x"}}}
		quota := NewQuotaService(NewEntitlementService(mockUsageRepo), mockUsageRepo)
		service := NewGeneratorService(quota, mockUsageRepo, streamer)

		err := service.GenerateStream(context.Background(), validReq, &recordingSink{})
		assert.NoError(t, err)
		// Usage is still recorded for analytics, it just never blocks.
		mockUsageRepo.AssertNumberOfCalls(t, "IncrementUsage", 1)
	})
}

func TestBuildSystemInstruction(t *testing.T) {
	t.Run("Known categories get readable labels", func(t *testing.T) {
		assert.Contains(t, BuildSystemInstruction("blog", "witty"), "Generate blog content with a witty tone")
		assert.Contains(t, BuildSystemInstruction("presentation", "formal"), "presentation content")
	})

	t.Run("Missing tone defaults to professional", func(t *testing.T) {
		assert.Contains(t, BuildSystemInstruction("email", ""), "with a professional tone")
	})

	t.Run("Unknown type passes through, empty type is generic", func(t *testing.T) {
		assert.Contains(t, BuildSystemInstruction("newsletter", "warm"), "newsletter content")
		assert.Contains(t, BuildSystemInstruction("", "warm"), "marketing content")
	})
}
