package server

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/rezonia/ehf-generator/internal/logger"
	"github.com/rezonia/ehf-generator/internal/mapper"
	"github.com/rezonia/ehf-generator/internal/model"
	xmlparser "github.com/rezonia/ehf-generator/internal/parser/xml"
	"github.com/rezonia/ehf-generator/internal/processor"
	"github.com/rezonia/ehf-generator/internal/transmit"
)

// FallbacksHeader lists the fallbacks applied to a generated document as
// comma-separated rule:field pairs
const FallbacksHeader = "X-EHF-Fallbacks"

// Config holds server configuration
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
}

// Server represents the HTTP API server
type Server struct {
	config   *Config
	router   *gin.Engine
	pipeline *processor.Pipeline
	registry *transmit.Registry
	logger   *zap.Logger
}

// Option configures the server
type Option func(*Server)

// WithPipeline sets the generation pipeline
func WithPipeline(p *processor.Pipeline) Option {
	return func(s *Server) {
		s.pipeline = p
	}
}

// WithRegistry sets the transmitters used by /send
func WithRegistry(r *transmit.Registry) Option {
	return func(s *Server) {
		s.registry = r
	}
}

// WithLogger sets the request logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// NewServer creates a new API server
func NewServer(config *Config, opts ...Option) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config: config,
		router: gin.New(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.pipeline == nil {
		s.pipeline = processor.NewPipeline(processor.WithLogger(s.logger))
	}
	if s.registry == nil {
		s.registry = transmit.NewRegistry()
	}

	s.router.Use(logger.Recovery(s.logger))
	s.router.Use(logger.GinMiddleware(s.logger))

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/generate", s.handleGenerate)
		v1.POST("/generate/envelope", s.handleEnvelope)
		v1.POST("/validate", s.handleValidate)
		v1.POST("/send", s.handleSend)
		v1.POST("/inspect", s.handleInspect)
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	return srv.ListenAndServe()
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:       "ok",
		Time:         time.Now().UTC().Format(time.RFC3339),
		Capabilities: s.registry.Capabilities(),
	})
}

// readInput decodes the JSON record in the request body and answers
// the request itself on failure
func (s *Server) readInput(c *gin.Context) (model.Input, bool) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return model.Input{}, false
	}
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty request body"})
		return model.Input{}, false
	}

	in, err := processor.DecodeInput(body)
	if err != nil {
		s.fail(c, err)
		return model.Input{}, false
	}
	return in, true
}

func (s *Server) handleGenerate(c *gin.Context) {
	in, ok := s.readInput(c)
	if !ok {
		return
	}

	result, err := s.pipeline.Generate(in)
	if err != nil {
		s.fail(c, err)
		return
	}

	if len(result.Fallbacks) > 0 {
		c.Header(FallbacksHeader, fallbackHeader(result.Fallbacks))
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", result.XML)
}

func (s *Server) handleEnvelope(c *gin.Context) {
	in, ok := s.readInput(c)
	if !ok {
		return
	}

	result, err := s.pipeline.Generate(in)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, EnvelopeResponse{
		InvoiceNumber: in.Invoice.Number,
		Payload:       result.XML,
		Routing:       result.Routing,
		Fallbacks:     result.Fallbacks,
	})
}

func (s *Server) handleValidate(c *gin.Context) {
	in, ok := s.readInput(c)
	if !ok {
		return
	}

	mapped, err := s.pipeline.Map(in)
	if err != nil {
		status, detail := classify(err)
		if status >= http.StatusInternalServerError {
			s.fail(c, err)
			return
		}
		c.JSON(status, ValidationResponse{Valid: false, Errors: []ErrorResponse{detail}})
		return
	}

	c.JSON(http.StatusOK, ValidationResponse{Valid: true, Fallbacks: mapped.Fallbacks})
}

func (s *Server) handleSend(c *gin.Context) {
	in, ok := s.readInput(c)
	if !ok {
		return
	}

	result, err := s.pipeline.Generate(in)
	if err != nil {
		s.fail(c, err)
		return
	}

	req, err := transmit.NewRequest(result.XML, result.Invoice)
	if err != nil {
		s.fail(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	receipt, err := s.registry.Transmit(ctx, in.Invoice.DeliveryMethod, req)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusAccepted, SendResponse{
		Receipt:   receipt,
		Routing:   result.Routing,
		Fallbacks: result.Fallbacks,
	})
}

func (s *Server) handleInspect(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil || len(body) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty request body"})
		return
	}

	inv, err := s.pipeline.ParseXML(bytes.NewReader(body))
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, xmlparser.Summarize(inv))
}

func (s *Server) fail(c *gin.Context, err error) {
	status, detail := classify(err)
	if status >= http.StatusInternalServerError {
		logger.FromGin(c).Error("request failed", zap.Error(err))
	}
	_ = c.Error(err)
	c.JSON(status, detail)
}

// classify maps pipeline errors to HTTP statuses
func classify(err error) (int, ErrorResponse) {
	resp := ErrorResponse{Error: err.Error()}

	var missing *model.MissingFieldError
	var malformed *model.MalformedInputError
	var parseErr *model.ParseError
	var invariant *model.InvariantError

	switch {
	case errors.As(err, &missing):
		resp.Kind, resp.Field = "missing_field", missing.Field
		return http.StatusUnprocessableEntity, resp
	case errors.As(err, &malformed):
		resp.Kind, resp.Field, resp.Rule = "malformed_input", malformed.Field, malformed.Rule
		return http.StatusUnprocessableEntity, resp
	case errors.As(err, &parseErr):
		resp.Kind, resp.Field = "parse_error", parseErr.Field
		return http.StatusBadRequest, resp
	case errors.Is(err, transmit.ErrUnsupportedMethod):
		resp.Kind = "unsupported_method"
		return http.StatusBadRequest, resp
	case errors.Is(err, transmit.ErrUnroutable):
		resp.Kind = "unroutable"
		return http.StatusUnprocessableEntity, resp
	case errors.As(err, &invariant):
		resp.Kind = "invariant"
		return http.StatusInternalServerError, resp
	default:
		resp.Kind = "internal"
		return http.StatusInternalServerError, resp
	}
}

func fallbackHeader(fallbacks []mapper.Fallback) string {
	return strings.Join(lo.Map(fallbacks, func(f mapper.Fallback, _ int) string {
		return f.Rule + ":" + f.Field
	}), ",")
}
