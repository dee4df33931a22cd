package middleware

import (
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var accessLogSkipPaths = []string{"/health", "/metrics"}

// AccessLog writes one line per request, tagged with the trace id and, for
// authenticated routes, the caller's user id.
func AccessLog(log *zap.Logger) gin.HandlerFunc {
	return ginzap.GinzapWithConfig(log, &ginzap.Config{
		UTC:        true,
		TimeFormat: time.RFC3339,
		SkipPaths:  accessLogSkipPaths,
		Context:    requestFields,
	})
}

// Recovery logs the panic with its stack and answers 500.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return ginzap.RecoveryWithZap(log, true)
}

func requestFields(c *gin.Context) []zapcore.Field {
	fields := []zapcore.Field{zap.String("route", c.FullPath())}
	if traceID := c.GetString(CtxTraceID); traceID != "" {
		fields = append(fields, zap.String("trace_id", traceID))
	}
	if uid := c.GetString(CtxUserID); uid != "" {
		fields = append(fields, zap.String("user_id", uid))
	}
	return fields
}
