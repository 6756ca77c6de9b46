package middleware

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"sync"
	"time"

	"github.com/kpcrmv4/manusdentalos/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// RequestIDHeader is the HTTP header name for request ID
	RequestIDHeader = "X-Request-ID"
	// RequestIDContextKey is the gin context key for request ID
	RequestIDContextKey = "request_id"
)

var ErrRequestIDNotFound = stderrors.New("request ID not found")

// inFlightTTL bounds how long a crashed request keeps its ID claimed
const inFlightTTL = 30 * time.Second

// RequestIDStore keeps responses of completed write requests for replay
type RequestIDStore interface {
	// Claim records key as in flight unless any record exists for it, and
	// reports whether the caller now owns key.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Store replaces the record for key with a completed response
	Store(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Get returns ErrRequestIDNotFound for unknown or expired keys
	Get(ctx context.Context, key string) ([]byte, error)
	// Release drops the record for key so the request can run again
	Release(ctx context.Context, key string) error
}

// InMemoryRequestIDStore is a process-local RequestIDStore
type InMemoryRequestIDStore struct {
	mu      sync.Mutex
	entries map[string]requestIDEntry
	cleanup *time.Ticker
	done    chan struct{}
}

type requestIDEntry struct {
	response  []byte
	expiresAt time.Time
}

func NewInMemoryRequestIDStore() *InMemoryRequestIDStore {
	store := &InMemoryRequestIDStore{
		entries: make(map[string]requestIDEntry),
		cleanup: time.NewTicker(time.Minute),
		done:    make(chan struct{}),
	}
	go store.cleanupExpired()
	return store
}

func (s *InMemoryRequestIDStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, exists := s.entries[key]; exists && time.Now().Before(entry.expiresAt) {
		return false, nil
	}
	s.entries[key] = requestIDEntry{
		response:  inFlightMarker,
		expiresAt: time.Now().Add(ttl),
	}
	return true, nil
}

func (s *InMemoryRequestIDStore) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

func (s *InMemoryRequestIDStore) Store(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = requestIDEntry{
		response:  response,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (s *InMemoryRequestIDStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.entries[key]
	if !exists {
		return nil, ErrRequestIDNotFound
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.entries, key)
		return nil, ErrRequestIDNotFound
	}
	return entry.response, nil
}

// Close stops the background cleanup
func (s *InMemoryRequestIDStore) Close() error {
	s.cleanup.Stop()
	close(s.done)
	return nil
}

func (s *InMemoryRequestIDStore) cleanupExpired() {
	for {
		select {
		case <-s.done:
			return
		case now := <-s.cleanup.C:
			s.mu.Lock()
			for key, entry := range s.entries {
				if now.After(entry.expiresAt) {
					delete(s.entries, key)
				}
			}
			s.mu.Unlock()
		}
	}
}

// RequestIDMiddleware extracts or generates X-Request-ID header
func RequestIDMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
			logger.Debug("Generated new request ID",
				zap.String("request_id", requestID),
				zap.String("path", c.Request.URL.Path),
			)
		}

		c.Set(RequestIDContextKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// GetRequestID retrieves the request ID from the Gin context
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDContextKey)
}

// storedResponse is the record kept per request ID. Status 0 marks a
// request that is still running.
type storedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body,omitempty"`
}

var inFlightMarker = []byte(`{"status":0}`)

// IdempotencyMiddleware makes write requests carrying X-Request-ID run at
// most once per ttl. The first request claims the ID; a retry after it
// succeeded gets the stored response, and a retry while it is still running
// gets 409. Failed requests release the ID so they can be retried. Only
// client-supplied IDs are honoured, and only 2xx responses are stored.
func IdempotencyMiddleware(store RequestIDStore, logger *zap.Logger, ttl time.Duration) gin.HandlerFunc {
	claimTTL := inFlightTTL
	if ttl < claimTTL {
		claimTTL = ttl
	}

	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			c.Next()
			return
		}
		key := "idempotency:" + requestID + ":" + c.Request.Method + ":" + c.Request.URL.Path
		ctx := c.Request.Context()

		claimed, err := store.Claim(ctx, key, claimTTL)
		if err != nil {
			// fail open
			logger.Warn("Idempotency claim failed", zap.String("request_id", requestID), zap.Error(err))
			c.Next()
			return
		}
		if !claimed {
			replayOrReject(c, store, logger, key, requestID)
			return
		}

		writer := &responseWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Next()

		status := writer.Status()
		var payload []byte
		if status >= 200 && status < 300 && len(writer.body) > 0 {
			payload, err = json.Marshal(storedResponse{Status: status, Body: writer.body})
		}
		if payload == nil || err != nil {
			if err := store.Release(context.WithoutCancel(ctx), key); err != nil {
				logger.Warn("Failed to release request ID", zap.String("request_id", requestID), zap.Error(err))
			}
			return
		}
		if err := store.Store(context.WithoutCancel(ctx), key, payload, ttl); err != nil {
			logger.Warn("Failed to store response for idempotency",
				zap.String("request_id", requestID),
				zap.Error(err),
			)
		}
	}
}

// replayOrReject answers a request whose ID is already claimed
func replayOrReject(c *gin.Context, store RequestIDStore, logger *zap.Logger, key, requestID string) {
	cached, err := store.Get(c.Request.Context(), key)
	if err == nil {
		var stored storedResponse
		if jsonErr := json.Unmarshal(cached, &stored); jsonErr == nil && stored.Status != 0 {
			logger.Info("Duplicate request detected, returning stored response",
				zap.String("request_id", requestID),
				zap.String("path", c.Request.URL.Path),
			)
			c.Header("Idempotent-Replay", "true")
			c.Data(stored.Status, "application/json; charset=utf-8", stored.Body)
			c.Abort()
			return
		}
	}

	logger.Warn("Request ID is already in flight",
		zap.String("request_id", requestID),
		zap.String("path", c.Request.URL.Path),
	)
	c.Header("Retry-After", "1")
	c.Error(errors.NewRequestInProgress(requestID))
	c.Abort()
}

// responseWriter captures the response body
type responseWriter struct {
	gin.ResponseWriter
	body []byte
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body = append(w.body, b...)
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.body = append(w.body, s...)
	return w.ResponseWriter.WriteString(s)
}
