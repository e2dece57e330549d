package relay

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	myhttp "github.com/polyrabbit/folio/http"
)

var requestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "folio_relay_server_requests_total",
		Help: "Requests served by the relay server, by status code",
	},
	[]string{"code"},
)

// Upstream is the part of *http.Client the server relays through.
type Upstream interface {
	Fetch(ctx context.Context, rawURL string, headers map[string]string) (*myhttp.Response, error)
}

// Server is a GET-only CORS relay restricted to a list of upstream prefixes.
type Server struct {
	upstream Upstream
	allowed  []string
	timeout  time.Duration
	engine   *gin.Engine
}

func NewServer(upstream Upstream, allowedPrefixes []string, timeout time.Duration) *Server {
	if logrus.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	s := &Server{upstream: upstream, allowed: allowedPrefixes, timeout: timeout}

	engine := gin.New()
	engine.Use(gin.Recovery(), accessLog())
	engine.HandleMethodNotAllowed = true
	engine.NoMethod(methodNotAllowed)
	engine.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			methodNotAllowed(c)
			return
		}
		c.String(http.StatusNotFound, "Not found")
	})
	engine.GET("/", s.relay)
	engine.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.engine = engine
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      s.timeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("Relay server listening on %s, allowing %s", addr, strings.Join(s.allowed, ", "))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "relay server")
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// allowedPrefix returns the configured prefix target starts with, empty if none.
func (s *Server) allowedPrefix(target string) string {
	for _, prefix := range s.allowed {
		if strings.HasPrefix(target, prefix) {
			return prefix
		}
	}
	return ""
}

func (s *Server) relay(c *gin.Context) {
	target := c.Query("url")
	if target == "" {
		c.String(http.StatusBadRequest, "Missing url parameter")
		return
	}
	prefix := s.allowedPrefix(target)
	if prefix == "" {
		logrus.Debugf("Refusing to relay %s", target)
		c.String(http.StatusForbidden, "Unauthorized domain")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()
	resp, err := s.upstream.Fetch(ctx, target, map[string]string{
		"User-Agent": "Mozilla/5.0",
		"Referer":    prefix,
	})
	if err != nil {
		logrus.WithError(err).Warnf("Relaying %s failed", target)
		c.String(http.StatusInternalServerError, "Proxy error: "+err.Error())
		return
	}

	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET")
	c.Header("Cache-Control", "public, max-age=60")
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Data(resp.StatusCode, contentType, resp.Body)
}

func methodNotAllowed(c *gin.Context) {
	c.String(http.StatusMethodNotAllowed, "Method not allowed")
}

func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		code := c.Writer.Status()
		requestsTotal.WithLabelValues(strconv.Itoa(code)).Inc()
		logrus.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  code,
			"elapsed": time.Since(start).String(),
		}).Debug("Relay request")
	}
}
