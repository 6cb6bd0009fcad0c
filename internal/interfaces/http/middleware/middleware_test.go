package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/shop-services/internal/config"
	"github.com/your-org/shop-services/internal/pkg/errs"
	"github.com/your-org/shop-services/internal/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(log *logrus.Logger, mw ...gin.HandlerFunc) *gin.Engine {
	engine := gin.New()
	engine.Use(RequestID(), ErrorHandler(log))
	engine.Use(mw...)
	return engine
}

func perform(engine *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestErrorHandler_RendersProblemDetails(t *testing.T) {
	engine := newEngine(logger.Discard())
	engine.GET("/items/:id", func(c *gin.Context) {
		_ = c.Error(errs.Invalid("name", "is required"))
	})
	engine.GET("/boom", func(c *gin.Context) {
		_ = c.Error(assert.AnError)
	})

	rec := perform(engine, http.MethodGet, "/items/1", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, ProblemContentType, rec.Header().Get("Content-Type"))

	var problem ProblemDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "Validation Error", problem.Title)
	assert.Equal(t, "/items/1", problem.Instance)
	assert.Equal(t, "is required", problem.Errors["name"])
	assert.Equal(t, rec.Header().Get(RequestIDHeader), problem.RequestID)

	rec = perform(engine, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	problem = ProblemDetails{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Empty(t, problem.Detail)
}

func TestRequestID_PropagatesIncomingHeader(t *testing.T) {
	engine := newEngine(logger.Discard())
	engine.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	rec := perform(engine, http.MethodGet, "/", map[string]string{RequestIDHeader: "abc-123"})
	assert.Equal(t, "abc-123", rec.Body.String())
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))

	rec = perform(engine, http.MethodGet, "/", nil)
	assert.Len(t, rec.Body.String(), 36)
}

func TestRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	engine := newEngine(logger.Discard(), RateLimit(2, client, logger.Discard()))
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		rec := perform(engine, http.MethodGet, "/", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := perform(engine, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestRateLimit_FailsOpenWhenRedisIsDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	engine := newEngine(logger.Discard(), RateLimit(1, client, logger.Discard()))
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		rec := perform(engine, http.MethodGet, "/", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestCORS(t *testing.T) {
	engine := newEngine(logger.Discard(), CORS(config.SecurityConfig{
		CORSAllowedOrigins: []string{"https://shop.example.com", "*.partner.io"},
		CORSAllowedMethods: []string{"GET", "POST"},
		CORSAllowedHeaders: []string{"Authorization"},
	}))
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := perform(engine, http.MethodGet, "/", map[string]string{"Origin": "https://shop.example.com"})
	assert.Equal(t, "https://shop.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = perform(engine, http.MethodGet, "/", map[string]string{"Origin": "https://api.partner.io"})
	assert.Equal(t, "https://api.partner.io", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = perform(engine, http.MethodGet, "/", map[string]string{"Origin": "https://evilpartner.io"})
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = perform(engine, http.MethodOptions, "/", map[string]string{"Origin": "https://shop.example.com"})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "GET, POST", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_AnyOriginNeverAllowsCredentials(t *testing.T) {
	engine := newEngine(logger.Discard(), CORS(config.SecurityConfig{
		CORSAllowedOrigins: []string{"*", "https://shop.example.com"},
		CORSAllowedMethods: []string{"GET"},
	}))
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := perform(engine, http.MethodGet, "/", map[string]string{"Origin": "https://anywhere.test"})
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))

	rec = perform(engine, http.MethodGet, "/", map[string]string{"Origin": "https://shop.example.com"})
	assert.Equal(t, "https://shop.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestSecurityHeaders(t *testing.T) {
	engine := newEngine(logger.Discard(), SecurityHeaders("cart-api", true))
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := perform(engine, http.MethodGet, "/", nil)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "cart-api", rec.Header().Get("Server"))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestTimeout(t *testing.T) {
	engine := newEngine(logger.Discard(), Timeout(10*time.Millisecond))
	engine.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})

	rec := perform(engine, http.MethodGet, "/slow", nil)
	assert.Equal(t, http.StatusRequestTimeout, rec.Code)
}

func TestSlowRequestLogger(t *testing.T) {
	log, hook := test.NewNullLogger()
	engine := newEngine(log, SlowRequestLogger(log, 5*time.Millisecond))
	engine.GET("/slow", func(c *gin.Context) {
		time.Sleep(15 * time.Millisecond)
		c.Status(http.StatusOK)
	})
	engine.GET("/fast", func(c *gin.Context) { c.Status(http.StatusOK) })

	perform(engine, http.MethodGet, "/fast", nil)
	assert.Empty(t, hook.AllEntries())

	perform(engine, http.MethodGet, "/slow", nil)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "slow request", hook.LastEntry().Message)
	assert.Equal(t, "/slow", hook.LastEntry().Data["route"])
}

func TestRequestSizeLimit(t *testing.T) {
	engine := newEngine(logger.Discard(), RequestSizeLimit(8))
	engine.POST("/", func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			var tooLarge *http.MaxBytesError
			if assert.ErrorAs(t, err, &tooLarge) {
				c.Status(http.StatusRequestEntityTooLarge)
				return
			}
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"key":"a long value"}`))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
