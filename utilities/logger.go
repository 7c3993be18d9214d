package utilities

import (
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// logger começa como no-op para que pacotes possam logar antes de InitLogger (testes, CLI).
var logger = zap.NewNop().Sugar()

// InitLogger inicializa o logger global. level aceita debug, info, warn ou error.
func InitLogger(level string) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))

	base, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// Sem config válida, usa o logger de exemplo do zap
		base = zap.NewExample()
	}
	logger = base.Sugar()
}

// SetLogger troca o logger global; usado em testes para capturar saída.
func SetLogger(l *zap.Logger) {
	logger = l.Sugar()
}

// Sync descarrega buffers pendentes.
func Sync() {
	_ = logger.Sync()
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "":
		if os.Getenv("DEBUG") == "true" {
			return zapcore.DebugLevel
		}
		return zapcore.InfoLevel
	default:
		return zapcore.InfoLevel
	}
}

// LogRequest registra informações sobre a requisição HTTP
func LogRequest(requestID, method, path, remoteAddr string, status int, duration time.Duration) {
	logger.Infow("request",
		"id", requestID,
		"method", method,
		"path", path,
		"remote", remoteAddr,
		"status", status,
		"duration", duration,
	)
}

// LogError registra erros com o contexto em que ocorreram
func LogError(err error, context string) {
	logger.Errorw(context, "error", err)
}

// LogWarn registra falhas toleradas (fallbacks, sync best-effort)
func LogWarn(err error, context string) {
	logger.Warnw(context, "error", err)
}

// LogDebug registra informações de debug
func LogDebug(format string, v ...interface{}) {
	logger.Debugf(format, v...)
}

// LogInfo registra informações gerais
func LogInfo(format string, v ...interface{}) {
	logger.Infof(format, v...)
}
