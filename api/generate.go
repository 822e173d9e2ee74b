package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/michaelfullmer/contentcreatorforbusiness/services"
	"github.com/michaelfullmer/contentcreatorforbusiness/utils"

	"github.com/gin-gonic/gin"
)

// GenerateContentRequest is the inbound body for /api/generate-content.
type GenerateContentRequest struct {
	UserID      string `json:"user_id"`
	Prompt      string `json:"prompt"`
	ContentType string `json:"content_type"`
	Tone        string `json:"tone"`
}

// GenerateContentHandler streams generated content to the caller as
// server-sent events: a sequence of {"content": ...} chunks followed by a
// terminal {"done": true}, or a terminal {"error": ...} when the stream
// dies after output has started. Failures before the first chunk are plain
// JSON responses with the matching status code.
func (h *APIHandler) GenerateContentHandler(c *gin.Context) {
	var clientReq GenerateContentRequest
	if err := c.ShouldBindJSON(&clientReq); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", err)
		return
	}

	callerID := resolveCallerID(c, clientReq.UserID)
	log.Printf("INFO: [Generate] Request from caller '%s' (type=%s, tone=%s).", callerID, clientReq.ContentType, clientReq.Tone)

	sink := newSSESink(c)
	err := h.generatorService.GenerateStream(c.Request.Context(), services.GenerateRequest{
		CallerID:    callerID,
		Prompt:      clientReq.Prompt,
		ContentType: clientReq.ContentType,
		Tone:        clientReq.Tone,
	}, sink)
	if err == nil {
		return
	}

	var quotaErr *services.QuotaExceededError
	var streamErr *services.StreamFailedError
	var upstreamErr *services.UpstreamError
	switch {
	case errors.Is(err, services.ErrEmptyPrompt):
		utils.SendJSONError(c, http.StatusBadRequest, "Prompt is required.", nil)
	case errors.Is(err, services.ErrAuthRequired):
		utils.SendJSONError(c, http.StatusUnauthorized, "Please sign in to generate content.", nil)
	case errors.As(err, &quotaErr):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":     fmt.Sprintf("You have reached your limit of %d generations for this billing period.", quotaErr.Decision.Limit),
			"remaining": quotaErr.Decision.Remaining,
			"limit":     quotaErr.Decision.Limit,
			"upgrade":   true,
		})
	case errors.As(err, &streamErr):
		// Output already started (or the caller disconnected); the sink has
		// delivered whatever terminal event was still deliverable.
		log.Printf("WARN: [Generate] Stream for caller '%s' ended abnormally: %v", callerID, err)
	case errors.Is(err, context.Canceled):
		log.Printf("INFO: [Generate] Caller '%s' cancelled the request.", callerID)
	case errors.As(err, &upstreamErr):
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to generate content.", err)
	default:
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to generate content.", err)
	}
}

// resolveCallerID picks the caller identity from the X-User-ID header, the
// request body, or the userID query parameter, in that order. Absence of
// all three means the caller is anonymous.
func resolveCallerID(c *gin.Context, bodyUserID string) string {
	if headerID := c.GetHeader("X-User-ID"); headerID != "" {
		return headerID
	}
	if bodyUserID != "" {
		return bodyUserID
	}
	if queryID := c.Query("userID"); queryID != "" {
		return queryID
	}
	return services.AnonymousCallerID
}

// sseSink writes generation events to the HTTP response as text/event-stream.
// Headers are set lazily on the first event so pre-stream failures can still
// be answered with a plain JSON status.
type sseSink struct {
	c       *gin.Context
	started bool
}

func newSSESink(c *gin.Context) *sseSink {
	return &sseSink{c: c}
}

func (s *sseSink) writeEvent(payload interface{}) error {
	if !s.started {
		s.c.Writer.Header().Set("Content-Type", "text/event-stream")
		s.c.Writer.Header().Set("Cache-Control", "no-cache")
		s.c.Writer.Header().Set("Connection", "keep-alive")
		s.started = true
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode stream event: %w", err)
	}
	if _, err := fmt.Fprintf(s.c.Writer, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("failed to write stream event: %w", err)
	}
	s.c.Writer.Flush()
	return nil
}

func (s *sseSink) Chunk(content string) error {
	return s.writeEvent(gin.H{"content": content})
}

func (s *sseSink) Done() error {
	return s.writeEvent(gin.H{"done": true})
}

func (s *sseSink) Fail(message string) error {
	return s.writeEvent(gin.H{"error": message})
}
