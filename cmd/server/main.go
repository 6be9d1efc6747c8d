package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"

	"github.com/baditaflorin/go_embedding_similarity/internal/core/domain"
	"github.com/baditaflorin/go_embedding_similarity/pkg/compare"
	"github.com/baditaflorin/l"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Default configuration
const (
	DefaultPort           = 8080
	DefaultReadTimeout    = 30 * time.Second
	DefaultWriteTimeout   = 30 * time.Second
	DefaultMaxRequestSize = 10 * 1024 * 1024 // 10MB

	// Environment variables read at startup (a .env file is honored).
	EnvThreshold = "SIMILARITY_THRESHOLD"
	EnvDimension = "EMBEDDING_DIMENSION"
)

var (
	// Comparator shared by all handlers
	comparator *compare.Comparator

	// Expected embedding dimension; 0 disables the check
	expectedDimension int

	// Logger instance
	logger l.Logger
)

// CompareRequest represents an embedding comparison request
type CompareRequest struct {
	Probe     []float64 `json:"probe"`
	Candidate []float64 `json:"candidate"`
	Threshold *float64  `json:"threshold,omitempty"`
}

// CompareSerializedRequest carries the candidate in its serialized form, as
// returned by the persistence layer
type CompareSerializedRequest struct {
	Probe     []float64 `json:"probe"`
	Candidate string    `json:"candidate"`
	Threshold *float64  `json:"threshold,omitempty"`
}

// ThresholdRequest represents a default-threshold update request
type ThresholdRequest struct {
	Threshold float64 `json:"threshold"`
}

// CompareResponse represents an embedding comparison response
type CompareResponse struct {
	IsMatch           bool                   `json:"is_match"`
	Similarity        float64                `json:"similarity"`
	EuclideanDistance float64                `json:"euclidean_distance"`
	ManhattanDistance float64                `json:"manhattan_distance"`
	Threshold         float64                `json:"threshold"`
	Confidence        float64                `json:"confidence"`
	Details           map[string]interface{} `json:"details,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

func main() {
	// Parse command-line flags
	port := flag.Int("port", DefaultPort, "HTTP server port")
	readTimeout := flag.Duration("read-timeout", DefaultReadTimeout, "HTTP read timeout")
	writeTimeout := flag.Duration("write-timeout", DefaultWriteTimeout, "HTTP write timeout")
	maxRequestSize := flag.Int("max-request-size", DefaultMaxRequestSize, "Maximum request size in bytes")
	warmUp := flag.Bool("warm-up", true, "Perform system warm-up on startup")
	fastParser := flag.Bool("fast-parser", false, "Use the allocation-conscious embedding parser")
	logFile := flag.String("log-file", "", "Log file path (empty = stdout)")
	flag.Parse()

	// Set up logger
	var err error
	logger, err = createLogger(*logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	// Load startup configuration from the environment
	threshold, dimension := loadEnvConfig()
	expectedDimension = dimension

	logger.Info("Starting embedding comparison server",
		"port", *port,
		"read_timeout", *readTimeout,
		"write_timeout", *writeTimeout,
		"max_request_size", *maxRequestSize,
		"threshold", threshold,
		"dimension", dimension,
	)

	// Initialize the comparator
	opts := []compare.ComparatorOption{
		compare.WithThreshold(threshold),
		compare.WithLogger(logger),
	}
	if *fastParser {
		opts = append(opts, compare.WithFastParser())
	}
	if *warmUp {
		opts = append(opts, compare.WithWarmUp(true))
	}

	comparator, err = compare.New(opts...)
	if err != nil {
		logger.Error("Failed to initialize comparator", "error", err)
		os.Exit(1)
	}

	// Create HTTP server with fasthttp
	server := &fasthttp.Server{
		Handler:            requestHandler,
		ReadTimeout:        *readTimeout,
		WriteTimeout:       *writeTimeout,
		MaxRequestBodySize: *maxRequestSize,
		DisableKeepalive:   false,
		TCPKeepalive:       true,
		TCPKeepalivePeriod: 3 * time.Minute,
	}

	// Set up graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		logger.Info("Shutting down server...")
		if err := server.Shutdown(); err != nil {
			logger.Error("Error during server shutdown", "error", err)
		}
		close(idleConnsClosed)
	}()

	// Start server
	logger.Info("Server listening", "address", fmt.Sprintf(":%d", *port))
	if err := server.ListenAndServe(fmt.Sprintf(":%d", *port)); err != nil {
		logger.Error("Server error", "error", err)
	}

	<-idleConnsClosed
	logger.Info("Server stopped")
}

// loadEnvConfig reads the initial default threshold and expected dimension
// from the environment, falling back to library defaults
func loadEnvConfig() (float64, int) {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file loaded", "error", err)
	}

	threshold := float64(domain.DefaultThreshold)
	if raw := os.Getenv(EnvThreshold); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 1 {
			logger.Warn("Ignoring invalid threshold from environment", "value", raw)
		} else {
			threshold = v
		}
	}

	dimension := domain.DefaultDimension
	if raw := os.Getenv(EnvDimension); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			logger.Warn("Ignoring invalid dimension from environment", "value", raw)
		} else {
			dimension = v
		}
	}

	return threshold, dimension
}

// requestHandler is the main fasthttp request handler
func requestHandler(ctx *fasthttp.RequestCtx) {
	startTime := time.Now()

	// Set common headers
	ctx.Response.Header.Set("Content-Type", "application/json")
	ctx.Response.Header.Set("Server", "EmbeddingSimilarityServer")

	// Route based on path
	switch string(ctx.Path()) {
	case "/health":
		handleHealthCheck(ctx)
	case "/compare":
		handleCompare(ctx)
	case "/compare/serialized":
		handleCompareSerialized(ctx)
	case "/threshold":
		handleThreshold(ctx)
	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		writeJSONError(ctx, "Not found")
	}

	// Log request
	duration := time.Since(startTime)
	logger.Info("Request processed",
		"method", string(ctx.Method()),
		"path", string(ctx.Path()),
		"status", ctx.Response.StatusCode(),
		"ip", ctx.RemoteIP().String(),
		"duration", duration,
	)
}

// handleHealthCheck responds to health check requests
func handleHealthCheck(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(fasthttp.StatusOK)
	response := map[string]interface{}{
		"status":    "ok",
		"threshold": comparator.Threshold(),
		"time":      time.Now().Format(time.RFC3339),
	}
	writeJSONResponse(ctx, response)
}

// handleCompare handles comparison requests with two inline embeddings
func handleCompare(ctx *fasthttp.RequestCtx) {
	// Only accept POST requests
	if !ctx.IsPost() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		writeJSONError(ctx, "Method not allowed")
		return
	}

	// Parse request
	var req CompareRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, "Invalid request: "+err.Error())
		return
	}

	if !checkDimension(ctx, len(req.Probe)) || !checkDimension(ctx, len(req.Candidate)) {
		return
	}

	// Create context with timeout
	c, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Compare embeddings
	var result compare.Result
	var err error
	if req.Threshold != nil {
		result, err = comparator.CompareWithThreshold(c, req.Probe, req.Candidate, *req.Threshold)
	} else {
		result, err = comparator.Compare(c, req.Probe, req.Candidate)
	}
	if err != nil {
		writeComparisonError(ctx, err)
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	writeJSONResponse(ctx, toResponse(result))
}

// handleCompareSerialized handles comparison requests where the candidate
// embedding arrives in its serialized JSON-text form
func handleCompareSerialized(ctx *fasthttp.RequestCtx) {
	// Only accept POST requests
	if !ctx.IsPost() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		writeJSONError(ctx, "Method not allowed")
		return
	}

	// Parse request
	var req CompareSerializedRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, "Invalid request: "+err.Error())
		return
	}

	if !checkDimension(ctx, len(req.Probe)) {
		return
	}

	candidate, err := comparator.Parse(req.Candidate)
	if err != nil {
		writeComparisonError(ctx, err)
		return
	}
	if !checkDimension(ctx, len(candidate)) {
		return
	}

	// Create context with timeout
	c, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var result compare.Result
	if req.Threshold != nil {
		result, err = comparator.CompareWithThreshold(c, req.Probe, candidate, *req.Threshold)
	} else {
		result, err = comparator.Compare(c, req.Probe, candidate)
	}
	if err != nil {
		writeComparisonError(ctx, err)
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	writeJSONResponse(ctx, toResponse(result))
}

// handleThreshold updates the default threshold
func handleThreshold(ctx *fasthttp.RequestCtx) {
	// Only accept POST requests
	if !ctx.IsPost() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		writeJSONError(ctx, "Method not allowed")
		return
	}

	var req ThresholdRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, "Invalid request: "+err.Error())
		return
	}

	if err := comparator.SetThreshold(req.Threshold); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, err.Error())
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	writeJSONResponse(ctx, map[string]interface{}{
		"threshold": comparator.Threshold(),
	})
}

// Helper functions

// checkDimension enforces the configured embedding dimension at the HTTP
// boundary; the engine itself only requires equal lengths
func checkDimension(ctx *fasthttp.RequestCtx, got int) bool {
	if expectedDimension > 0 && got != expectedDimension {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, fmt.Sprintf("Expected embedding dimension %d, got %d", expectedDimension, got))
		return false
	}
	return true
}

// writeComparisonError maps core error kinds onto HTTP status codes
func writeComparisonError(ctx *fasthttp.RequestCtx, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidEmbedding),
		errors.Is(err, domain.ErrDimensionMismatch),
		errors.Is(err, domain.ErrInvalidFormat),
		errors.Is(err, domain.ErrInvalidThreshold):
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
	default:
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
	}
	writeJSONError(ctx, err.Error())
}

// toResponse converts a comparison result into its wire shape
func toResponse(result compare.Result) CompareResponse {
	return CompareResponse{
		IsMatch:           result.Match,
		Similarity:        result.Similarity,
		EuclideanDistance: result.EuclideanDistance,
		ManhattanDistance: result.ManhattanDistance,
		Threshold:         result.Threshold,
		Confidence:        result.Confidence,
		Details:           result.Details,
	}
}

// writeJSONResponse writes a JSON response to the context
func writeJSONResponse(ctx *fasthttp.RequestCtx, data interface{}) {
	response, err := json.Marshal(data)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		logger.Error("Error marshaling JSON response", "error", err)
		writeJSONError(ctx, "Internal server error")
		return
	}

	ctx.SetBody(response)
}

// writeJSONError writes a JSON error response to the context
func writeJSONError(ctx *fasthttp.RequestCtx, message string) {
	errResponse := ErrorResponse{
		Error: message,
	}

	response, err := json.Marshal(errResponse)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		logger.Error("Error marshaling JSON error response", "error", err)
		ctx.SetBodyString(`{"error":"Internal server error"}`)
		return
	}

	ctx.SetBody(response)
}

// createLogger creates and configures a logger
func createLogger(logFile string) (l.Logger, error) {
	// Create a logger factory
	factory := l.NewStandardFactory()

	// Configure the logger
	var output io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output = file
	}

	// Create the logger
	logger, err := factory.CreateLogger(l.Config{
		Output:      output,
		JsonFormat:  true,
		AsyncWrite:  true,
		BufferSize:  1024 * 1024,       // 1MB
		MaxFileSize: 100 * 1024 * 1024, // 100MB
		MaxBackups:  5,
		AddSource:   true,
		Metrics:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return logger, nil
}
