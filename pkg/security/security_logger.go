package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of security event
type EventType string

const (
	EventLoginFailed        EventType = "login_failed"
	EventLoginBlocked       EventType = "login_blocked"
	EventLoginSuccess       EventType = "login_success"
	EventRegistration       EventType = "registration"
	EventRateLimitTriggered EventType = "rate_limit_triggered"
	EventBlockCreated       EventType = "block_created"
)

// SecurityEvent is a security-relevant occurrence to be logged. Subject
// values that identify an account are hashed before they reach the log.
// Events are only ever emitted as zap fields, which carry their own
// timestamp.
type SecurityEvent struct {
	Service      string
	Environment  string
	Event        EventType
	SubjectType  string // "email", "ip"
	SubjectValue string
	IP           string
	RequestID    string
	Details      map[string]interface{}
}

// SecurityLogger provides structured logging for security events
type SecurityLogger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
}

var defaultLogger *SecurityLogger

// InitSecurityLogger initializes the security logger with Zap
func InitSecurityLogger(serviceName, environment string) *SecurityLogger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		logger, _ = zap.NewProduction()
	}

	sl := &SecurityLogger{
		zapLogger:   logger,
		serviceName: serviceName,
		environment: environment,
	}
	defaultLogger = sl
	return sl
}

// DefaultLogger returns the default security logger instance
func DefaultLogger() *SecurityLogger {
	if defaultLogger == nil {
		return InitSecurityLogger("alumnet-backend", getEnvironment())
	}
	return defaultLogger
}

// Log logs a security event at a level derived from its type.
func (sl *SecurityLogger) Log(ctx context.Context, event SecurityEvent) {
	event.Service = sl.serviceName
	event.Environment = sl.environment

	if event.SubjectType == "email" {
		event.SubjectValue = HashSubject(event.SubjectValue)
	}

	fields := []zap.Field{
		zap.String("service", event.Service),
		zap.String("env", event.Environment),
		zap.String("event", string(event.Event)),
	}
	if event.SubjectType != "" {
		fields = append(fields, zap.String("subject_type", event.SubjectType))
		fields = append(fields, zap.String("subject_value", event.SubjectValue))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		fields = append(fields, zap.Any("details", event.Details))
	}

	switch event.Event {
	case EventLoginSuccess, EventRegistration:
		sl.zapLogger.Info("security_event", fields...)
	case EventLoginBlocked, EventBlockCreated:
		sl.zapLogger.Error("security_event", fields...)
	default:
		sl.zapLogger.Warn("security_event", fields...)
	}
}

// LogLoginFailed records a failed credential check.
func (sl *SecurityLogger) LogLoginFailed(ctx context.Context, email, ip, requestID string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventLoginFailed,
		SubjectType:  "email",
		SubjectValue: email,
		IP:           ip,
		RequestID:    requestID,
	})
}

// LogLoginSuccess records a successful authentication.
func (sl *SecurityLogger) LogLoginSuccess(ctx context.Context, email, ip, requestID string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventLoginSuccess,
		SubjectType:  "email",
		SubjectValue: email,
		IP:           ip,
		RequestID:    requestID,
	})
}

// LogRateLimitTriggered records a request rejected by the rate limiter.
func (sl *SecurityLogger) LogRateLimitTriggered(ctx context.Context, ip, requestID, path string) {
	sl.Log(ctx, SecurityEvent{
		Event:       EventRateLimitTriggered,
		SubjectType: "ip",
		IP:          ip,
		RequestID:   requestID,
		Details:     map[string]interface{}{"path": path},
	})
}

// HashSubject hashes a PII subject value (email) so logs stay correlatable
// without storing the address itself.
func HashSubject(value string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(value)))
	return hex.EncodeToString(sum[:8])
}

func getEnvironment() string {
	if env := os.Getenv("APP_ENV"); env != "" {
		return env
	}
	if os.Getenv("GIN_MODE") == "release" {
		return "production"
	}
	return "development"
}
