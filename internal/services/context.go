package services

import "context"

type contextKey string

const (
	commandKey   contextKey = "command"
	appIDKey     contextKey = "app_id"
	requestIDKey contextKey = "request_id"
)

// WithCommand annotates context with the CLI command name.
func WithCommand(ctx context.Context, command string) context.Context {
	if command == "" {
		return ctx
	}
	return context.WithValue(ctx, commandKey, command)
}

// CommandFromContext returns the command name if present.
func CommandFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(commandKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithAppID annotates context with the Steam application id.
func WithAppID(ctx context.Context, appID uint32) context.Context {
	if appID == 0 {
		return ctx
	}
	return context.WithValue(ctx, appIDKey, appID)
}

// AppIDFromContext extracts the Steam application id if present.
func AppIDFromContext(ctx context.Context) (uint32, bool) {
	v, ok := ctx.Value(appIDKey).(uint32)
	if !ok || v == 0 {
		return 0, false
	}
	return v, true
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
