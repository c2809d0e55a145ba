package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/churnlabs/churnserve/pkg/logger"
	"github.com/churnlabs/churnserve/pkg/metrics"
	"github.com/churnlabs/churnserve/pkg/set"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const RequestIDHeader = "X-Request-Id"

var reqHeadersToLog *set.StringSet

func Init() {
	reqHeadersToLog = set.NewStringSet(RequestIDHeader, "User-Agent", "X-Caller-Id")
}

// RequestID assigns a request id when the caller did not send one and echoes
// it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)
		c.Next()
	}
}

// AccessLog logs one line per request with status, latency, and the
// allowlisted request headers.
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()
		responseTime := time.Since(startTime)

		requestHeaders, _ := json.Marshal(filterHeaders(c.Request.Header))
		logVariables := []string{
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(c.Writer.Status()),
			responseTime.String(),
			string(requestHeaders),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Error(strings.Join(logVariables, " | "), nil)
		} else {
			logger.Info(strings.Join(logVariables, " | "))
		}
	}
}

// Telemetry emits per-route request count and latency.
func Telemetry() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		tags := []string{
			"route:" + route,
			"method:" + c.Request.Method,
			"status:" + strconv.Itoa(c.Writer.Status()),
		}
		metrics.Count("http.request.total", 1, tags)
		metrics.Timing("http.request.latency", time.Since(startTime), tags)
	}
}

// Recovery converts a handler panic into a generic 500 without leaking
// internals to the caller.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("route", c.FullPath()).
					Msgf("Recovered in recovery middleware with err: %v, stack: %s", r, string(debug.Stack()))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			}
		}()
		c.Next()
	}
}

// CORS builds the cross-origin policy from the configured origin list.
func CORS(allowedOrigins string) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	if allowedOrigins == "*" || allowedOrigins == "" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = strings.Split(allowedOrigins, ",")
	}
	corsConfig.AllowMethods = []string{http.MethodGet, http.MethodPost}
	return cors.New(corsConfig)
}

func filterHeaders(headers http.Header) map[string]string {
	if reqHeadersToLog == nil {
		return nil
	}
	filtered := make(map[string]string)
	for name, values := range headers {
		if reqHeadersToLog.Contains(name) && len(values) > 0 {
			filtered[name] = values[0]
		}
	}
	return filtered
}

// RequestIDFromContext returns the id assigned by RequestID.
func RequestIDFromContext(c *gin.Context) string {
	if v, ok := c.Get("request_id"); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return fmt.Sprintf("unknown-%d", time.Now().UnixNano())
}
