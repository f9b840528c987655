package obs

import (
	"context"
	"route-time-service/internal/platform/logger"
	"time"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

var timingLog = logger.New("obs")

// Return the request id stored in ctx, or an empty string.
func RequestID(ctx context.Context) string {
	reqID, _ := ctx.Value(RequestIDKey).(string)
	return reqID
}

// Return a copy of ctx carrying the request id.
func WithRequestID(ctx context.Context, reqID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, reqID)
}

// Time measures an operation; call the returned func with the operation's error.
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	reqID := RequestID(ctx)

	return func(errp *error) {
		dur := time.Since(start)

		fields := map[string]any{
			"req_id": reqID,
			"op":     name,
			"dur_ms": dur.Milliseconds(),
		}
		if errp != nil && *errp != nil {
			fields["err"] = (*errp).Error()
		}
		timingLog.Debugw("op timing", fields)
	}
}
