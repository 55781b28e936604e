// Package api provides the REST API server for emubank
package api

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/time/rate"

	"github.com/james-see/emubank/pkg/bank"
	"github.com/james-see/emubank/pkg/bank/devices"
	"github.com/james-see/emubank/pkg/keymap"
	"github.com/james-see/emubank/pkg/report"
)

// @title emubank API
// @version 1.0
// @description API for inspecting and creating sampler bank files
// @host localhost:8080
// @BasePath /api/v1

// Options configures the server
type Options struct {
	Rate     float64 // requests per second across all clients
	Burst    int
	Capacity int // bank image bound in bytes
	Logger   *slog.Logger
}

type server struct {
	opts Options
	log  *slog.Logger
}

// NewRouter builds the gin engine with every route registered
func NewRouter(opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Capacity <= 0 {
		opts.Capacity = bank.DefaultCapacity
	}
	s := &server{opts: opts, log: opts.Logger}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.logMiddleware())
	r.Use(corsMiddleware())
	if opts.Rate > 0 {
		r.Use(rateLimitMiddleware(rate.NewLimiter(rate.Limit(opts.Rate), max(opts.Burst, 1))))
	}

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/devices", listDevices)
		v1.POST("/banks/new", s.handleNewBank)
		v1.POST("/banks/info", s.handleInfo)
		v1.POST("/banks/presets", s.handlePresetZones)
		v1.POST("/banks/keymap", s.handleKeymap)
		v1.POST("/banks/samples", s.handleSample)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// StartServer starts the API server on the specified port
func StartServer(port string, opts Options) error {
	gin.SetMode(gin.ReleaseMode)
	return NewRouter(opts).Run(":" + port)
}

func (s *server) logMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		s.log.Info("request", "method", c.Request.Method, "path", c.Request.URL.Path,
			"status", c.Writer.Status(), "client", c.ClientIP())
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func rateLimitMiddleware(l *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

// statusFor maps the editor's error taxonomy to HTTP status codes
func statusFor(err error) int {
	switch bank.KindOf(err) {
	case bank.KindCapacity:
		return http.StatusRequestEntityTooLarge
	case bank.KindInvalidReference:
		return http.StatusUnprocessableEntity
	case bank.KindSampleFormat:
		return http.StatusUnsupportedMediaType
	case bank.KindIO:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	s.log.Warn("request failed", "path", c.Request.URL.Path, "status", status, "error", err)
	c.JSON(status, gin.H{"error": err.Error(), "kind": bank.KindOf(err).String()})
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "emubank",
	})
}

// listDevices godoc
// @Summary List supported devices
// @Description Returns the device types a bank can be created for
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]map[string]any
// @Router /api/v1/devices [get]
func listDevices(c *gin.Context) {
	var out []gin.H
	for _, d := range devices.All() {
		f := d.Format()
		out = append(out, gin.H{
			"id":          d.ID(),
			"name":        d.Name(),
			"format":      f.Name,
			"max_presets": f.MaxPresets,
			"max_samples": f.MaxSamples,
		})
	}
	c.JSON(http.StatusOK, gin.H{"devices": out})
}

// handleNewBank godoc
// @Summary Create an empty bank
// @Description Returns a new empty bank file for a device type
// @Tags banks
// @Accept x-www-form-urlencoded
// @Produce application/octet-stream
// @Param device formData string false "Device type (default: e3x)"
// @Param name formData string false "Bank name"
// @Success 200 {file} binary
// @Failure 422 {object} map[string]string
// @Router /api/v1/banks/new [post]
func (s *server) handleNewBank(c *gin.Context) {
	dev, err := devices.Lookup(c.DefaultPostForm("device", "e3x"))
	if err != nil {
		s.fail(c, err)
		return
	}
	name := c.DefaultPostForm("name", "UNTITLED")
	b, err := bank.Create(dev, name, bank.WithCapacity(s.opts.Capacity), bank.WithLogger(s.log))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.%s", name, dev.ID()))
	c.Data(http.StatusOK, "application/octet-stream", b.Bytes())
}

// loadBank reads the uploaded "file" field into a bank
func (s *server) loadBank(c *gin.Context) (*bank.Bank, bool) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return nil, false
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, int64(s.opts.Capacity)+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return nil, false
	}
	b, err := bank.New(data, bank.WithCapacity(s.opts.Capacity), bank.WithLogger(s.log))
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	return b, true
}

func intQuery(c *gin.Context, key string) (int, bool) {
	n, err := strconv.Atoi(c.DefaultQuery(key, "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s", key)})
		return 0, false
	}
	return n, true
}

// handleInfo godoc
// @Summary Summarize a bank
// @Description Upload a bank file and receive its header, presets and samples
// @Tags banks
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Bank file"
// @Success 200 {object} report.Summary
// @Failure 422 {object} map[string]string
// @Router /api/v1/banks/info [post]
func (s *server) handleInfo(c *gin.Context) {
	b, ok := s.loadBank(c)
	if !ok {
		return
	}
	sum, err := report.Summarize(b)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// handlePresetZones godoc
// @Summary Decode a preset's zones
// @Description Upload a bank file and receive the decoded zones of one preset
// @Tags banks
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Bank file"
// @Param preset query int false "Preset index (default: 0)"
// @Success 200 {array} report.Zone
// @Failure 422 {object} map[string]string
// @Router /api/v1/banks/presets [post]
func (s *server) handlePresetZones(c *gin.Context) {
	n, ok := intQuery(c, "preset")
	if !ok {
		return
	}
	b, ok := s.loadBank(c)
	if !ok {
		return
	}
	zones, err := report.Zones(b, n)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"preset": n, "zones": zones})
}

// handleKeymap godoc
// @Summary Export a preset key map as MIDI
// @Description Upload a bank file and receive a MIDI file auditioning one preset
// @Tags banks
// @Accept multipart/form-data
// @Produce audio/midi
// @Param file formData file true "Bank file"
// @Param preset query int false "Preset index (default: 0)"
// @Success 200 {file} binary
// @Failure 422 {object} map[string]string
// @Router /api/v1/banks/keymap [post]
func (s *server) handleKeymap(c *gin.Context) {
	n, ok := intQuery(c, "preset")
	if !ok {
		return
	}
	b, ok := s.loadBank(c)
	if !ok {
		return
	}
	data, err := keymap.NewExporter().GenerateMIDI(b, n)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=preset%d.mid", n))
	c.Data(http.StatusOK, "audio/midi", data)
}

// handleSample godoc
// @Summary Extract a sample as WAV
// @Description Upload a bank file and receive one sample as a 16-bit WAV file
// @Tags banks
// @Accept multipart/form-data
// @Produce audio/wav
// @Param file formData file true "Bank file"
// @Param sample query int false "Sample index (default: 0)"
// @Success 200 {file} binary
// @Failure 422 {object} map[string]string
// @Router /api/v1/banks/samples [post]
func (s *server) handleSample(c *gin.Context) {
	n, ok := intQuery(c, "sample")
	if !ok {
		return
	}
	b, ok := s.loadBank(c)
	if !ok {
		return
	}
	dir, err := os.MkdirTemp("", "emubank")
	if err != nil {
		s.fail(c, err)
		return
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "sample.wav")
	if err := report.ExtractSample(b, n, path); err != nil {
		s.fail(c, err)
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=sample%d.wav", n))
	c.Data(http.StatusOK, "audio/wav", data)
}
