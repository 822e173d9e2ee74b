package services

import (
	"context"
	"io"
	"time"

	"github.com/michaelfullmer/contentcreatorforbusiness/models"

	"github.com/stretchr/testify/mock"
)

// MockUsageRepository is a mock type for the repository.UsageRepository interface.
type MockUsageRepository struct {
	mock.Mock
}

func (m *MockUsageRepository) GetUsage(userID string) (*models.UserSubscription, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserSubscription), args.Error(1)
}

func (m *MockUsageRepository) IncrementUsage(userID string, meter models.Meter) error {
	args := m.Called(userID, meter)
	return args.Error(0)
}

func (m *MockUsageRepository) ResetPeriod(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockUsageRepository) ApplyPlan(userID string, plan models.PlanType) (*models.UserSubscription, error) {
	args := m.Called(userID, plan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserSubscription), args.Error(1)
}

func (m *MockUsageRepository) ListExpired(now time.Time) ([]*models.UserSubscription, error) {
	args := m.Called(now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserSubscription), args.Error(1)
}

// MockEntitlementService is a mock type for the EntitlementService interface.
type MockEntitlementService struct {
	mock.Mock
}

func (m *MockEntitlementService) ResolveLimits(callerID string) (models.LimitSet, error) {
	args := m.Called(callerID)
	return args.Get(0).(models.LimitSet), args.Error(1)
}

// scriptedStream replays a fixed sequence of chunks, then a terminal error
// (io.EOF for a clean completion).
type scriptedStream struct {
	chunks   []string
	finalErr error
	pos      int
	closed   bool
}

func (s *scriptedStream) Recv() (string, error) {
	if s.pos < len(s.chunks) {
		chunk := s.chunks[s.pos]
		s.pos++
		return chunk, nil
	}
	if s.finalErr != nil {
		return "", s.finalErr
	}
	return "", io.EOF
}

func (s *scriptedStream) Close() error {
	s.closed = true
	return nil
}

// scriptedStreamer hands out a prepared stream, or fails to open one.
type scriptedStreamer struct {
	stream  *scriptedStream
	openErr error

	opened       bool
	systemPrompt string
	userPrompt   string
}

func (s *scriptedStreamer) StreamCompletion(ctx context.Context, systemPrompt, userPrompt string) (CompletionStream, error) {
	s.opened = true
	s.systemPrompt = systemPrompt
	s.userPrompt = userPrompt
	if s.openErr != nil {
		return nil, s.openErr
	}
	return s.stream, nil
}

// recordingSink captures every event a generation run emits, in order.
type recordingSink struct {
	chunks   []string
	done     int
	failures []string
	chunkErr error // injected write failure, simulating a gone caller
}

func (r *recordingSink) Chunk(content string) error {
	if r.chunkErr != nil {
		return r.chunkErr
	}
	r.chunks = append(r.chunks, content)
	return nil
}

func (r *recordingSink) Done() error {
	r.done++
	return nil
}

func (r *recordingSink) Fail(message string) error {
	r.failures = append(r.failures, message)
	return nil
}
