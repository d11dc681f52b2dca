package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

const RequestIDHeader = "X-Request-ID"

// RequestLog tags each request with an id and logs it once it completes.
func RequestLog(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Header(RequestIDHeader, id)
		c.Set("request_id", id)

		c.Next()

		code := c.Writer.Status()
		ev := log.WithLevel(levelFor(code))
		if len(c.Errors) > 0 {
			ev = ev.Str("error", c.Errors.String())
		}
		ev.Str("request_id", id).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", code).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP()).
			Msg("request")
	}
}

func levelFor(code int) zerolog.Level {
	switch {
	case code >= 500:
		return zerolog.ErrorLevel
	case code >= 400:
		return zerolog.WarnLevel
	}
	return zerolog.InfoLevel
}

func UnaryLog(log zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := next(ctx, req)
		code := status.Code(err)
		lvl := zerolog.InfoLevel
		if err != nil {
			lvl = zerolog.WarnLevel
		}
		log.WithLevel(lvl).
			Str("method", info.FullMethod).
			Str("code", code.String()).
			Dur("latency", time.Since(start)).
			Msg("rpc")
		return resp, err
	}
}
