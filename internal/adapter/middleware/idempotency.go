package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"pawn-settlement/pkg/id"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	HeaderRequestID  = "X-Request-Id"
	HeaderRequestAt  = "X-Request-At"
	HeaderOperatorID = "X-Operator-Id"

	// How long a request may stay "in progress" before another attempt can take over.
	provisionalLockTTL = 60 * time.Second
	// Allowed client/server clock skew for X-Request-At.
	maxClockSkew = 10 * time.Minute
	storeTimeout = 2 * time.Second
)

type idempEntry struct {
	InProgress  bool      `json:"in_progress"`
	Code        int       `json:"code"`
	Body        []byte    `json:"body"`
	BodySHA256  string    `json:"body_sha256"`
	RequestID   string    `json:"request_id"`
	RequestAtMS int64     `json:"request_at_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

// requestMeta is what an operator sends to make a mutation retry-safe.
type requestMeta struct {
	requestID  string
	requestAt  time.Time
	operatorID string
}

func readMeta(h http.Header, now time.Time) (requestMeta, error) {
	var m requestMeta

	m.requestID = normalizeReqID(h.Get(HeaderRequestID))
	if m.requestID == "" {
		return m, errors.New("missing " + HeaderRequestID)
	}
	if !validReqID(m.requestID) {
		return m, errors.New("invalid " + HeaderRequestID + " format")
	}

	at, err := parseRequestAt(h.Get(HeaderRequestAt))
	if err != nil {
		return m, err
	}
	if at.Before(now.Add(-maxClockSkew)) || at.After(now.Add(maxClockSkew)) {
		return m, errors.New(HeaderRequestAt + " too skewed")
	}
	m.requestAt = at

	m.operatorID = strings.TrimSpace(h.Get(HeaderOperatorID))
	if m.operatorID == "" {
		return m, errors.New("missing " + HeaderOperatorID)
	}
	if !id.Valid(m.operatorID) {
		return m, errors.New("invalid " + HeaderOperatorID)
	}
	return m, nil
}

func (m requestMeta) entry(bhash string) idempEntry {
	return idempEntry{
		InProgress:  true,
		BodySHA256:  bhash,
		RequestID:   m.requestID,
		RequestAtMS: m.requestAt.UnixMilli(),
		CreatedAt:   nowUTC(),
	}
}

// respRecorder tees the handler's response so it can be stored for replay.
type respRecorder struct {
	http.ResponseWriter
	buf  bytes.Buffer
	code int
}

func (r *respRecorder) Write(b []byte) (int, error) {
	r.buf.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *respRecorder) WriteHeader(statusCode int) {
	r.code = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

// Idempotency replays the stored response of a mutating request retried with
// the same X-Request-Id by the same operator on the same path. Server errors
// are not stored, so the operator may retry them.
// X-Request-At must be epoch (seconds or ms) or RFC3339 with a timezone.
func Idempotency(rdb redis.Cmdable, ttl time.Duration, log logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			meta, err := readMeta(req.Header, nowUTC())
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
			}

			var body []byte
			if req.Body != nil {
				body, _ = io.ReadAll(req.Body)
			}
			req.Body = io.NopCloser(bytes.NewReader(body))
			bhash := bodyHash(body)

			// the concrete path, so one request id cannot collide across loans
			key := buildKey(req.Method, req.URL.Path, meta.operatorID, meta.requestID)
			klog := log.WithField("key", key)

			ctx, cancel := context.WithTimeout(req.Context(), storeTimeout)
			defer cancel()

			acquired, err := provisionalSet(ctx, rdb, key, meta.entry(bhash))
			if err != nil {
				klog.WithError(err).Error("idempotency store unavailable")
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "idempotency store unavailable"})
			}
			if !acquired {
				return replay(ctx, c, rdb, key, bhash, klog)
			}

			rec := &respRecorder{ResponseWriter: c.Response().Writer, code: http.StatusOK}
			c.Response().Writer = rec
			if err := next(c); err != nil {
				c.Error(err)
			}

			// the request context may already be gone once the response is written
			if rec.code >= http.StatusInternalServerError {
				if err := release(context.Background(), rdb, key); err != nil {
					klog.WithError(err).Warn("idempotency release failed")
				}
				return nil
			}
			final := meta.entry(bhash)
			final.InProgress = false
			final.Code = rec.code
			final.Body = rec.buf.Bytes()
			if err := saveFinal(context.Background(), rdb, key, final, ttl); err != nil {
				klog.WithError(err).Warn("idempotency save failed")
			}
			return nil
		}
	}
}

func replay(ctx context.Context, c echo.Context, rdb redis.Cmdable, key, bhash string, log logrus.FieldLogger) error {
	cur, err := loadEntry(ctx, rdb, key)
	if err != nil {
		log.WithError(err).Warn("idempotency entry unreadable")
	}

	switch {
	case cur.BodySHA256 != "" && cur.BodySHA256 != bhash:
		return c.JSON(http.StatusConflict, map[string]string{"error": HeaderRequestID + " reused with different body"})
	case !cur.InProgress && cur.Code != 0 && len(cur.Body) > 0:
		c.Response().Header().Set("Idempotent-Replay", "true")
		return c.Blob(cur.Code, echo.MIMEApplicationJSON, cur.Body)
	default:
		return c.JSON(http.StatusConflict, map[string]string{"error": "request is already in progress"})
	}
}
