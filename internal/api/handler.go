// Package api contains the HTTP handlers for the service endpoints.
package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"texthub/internal/config"
	"texthub/internal/keystore"
	"texthub/internal/metrics"
	"texthub/internal/transform"

	"github.com/gin-gonic/gin"
)

const (
	ServiceName = "texthub"
	Version     = "1.0.0"

	// maxTextLength bounds the text accepted by the transform endpoints.
	maxTextLength = 1 << 20
)

type Handler struct {
	keys      *keystore.Store
	rateLimit config.RateLimitConfig
	metrics   *metrics.Metrics
	logger    *slog.Logger
	startedAt time.Time
}

func NewHandler(keys *keystore.Store, rateLimit config.RateLimitConfig, m *metrics.Metrics, log *slog.Logger) *Handler {
	return &Handler{
		keys:      keys,
		rateLimit: rateLimit,
		metrics:   m,
		logger:    log.With("component", "api"),
		startedAt: time.Now(),
	}
}

type GenerateKeyRequest struct {
	Name string `json:"name"`
}

type ExtractEmailsRequest struct {
	Text string `json:"text" binding:"required"`
}

type FormatPhoneRequest struct {
	Phone       string `json:"phone" binding:"required"`
	CountryCode string `json:"country_code"`
}

type ConvertCaseRequest struct {
	Text     string `json:"text" binding:"required"`
	CaseType string `json:"case_type" binding:"required"`
}

// HealthHandler serves the liveness endpoints.
func (h *Handler) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": ServiceName,
		"version": Version,
	})
}

// DetailedHealthHandler adds process-level detail to the liveness payload.
func (h *Handler) DetailedHealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"service":        ServiceName,
		"version":        Version,
		"demo_keys":      h.keys.DemoKeyCount(),
		"uptime_seconds": int(time.Since(h.startedAt).Seconds()),
	})
}

// GenerateKeyHandler issues a short-lived demo API key. The body is optional;
// an empty one yields a key with the default name.
func (h *Handler) GenerateKeyHandler(c *gin.Context) {
	var req GenerateKeyRequest
	// io.EOF just means no body was sent, which is fine here.
	if c.Request.Body != nil {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			validationError(c, "request body must be JSON with an optional 'name' field")
			return
		}
	}
	if len(req.Name) > 100 {
		validationError(c, "name must be at most 100 characters")
		return
	}

	record, err := h.keys.IssueDemoKey(req.Name)
	if err != nil {
		h.logger.Error("Failed to issue demo key", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "internal_error",
			"detail":  "Failed to generate API key. Please try again later.",
		})
		return
	}
	h.metrics.DemoKeys.Set(float64(h.keys.DemoKeyCount()))
	h.logger.Info("Issued demo key", "name", record.Name, "valid_until", record.ExpiresAt)

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"api_key":     record.Key,
		"name":        record.Name,
		"valid_until": record.ExpiresAt.UTC().Format(time.RFC3339),
		"rate_limit":  rateLimitLabel(h.rateLimit),
	})
}

// ExtractEmailsHandler returns the unique email addresses found in the text.
func (h *Handler) ExtractEmailsHandler(c *gin.Context) {
	var req ExtractEmailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, "request body must be JSON with a non-empty 'text' field")
		return
	}
	if !validateText(c, req.Text) {
		return
	}

	emails := transform.ExtractEmails(req.Text)
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"emails":      emails,
		"count":       len(emails),
		"text_length": len(req.Text),
	})
}

// FormatPhoneHandler normalizes a phone number.
func (h *Handler) FormatPhoneHandler(c *gin.Context) {
	var req FormatPhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, "request body must be JSON with a non-empty 'phone' field")
		return
	}

	phone, err := transform.FormatPhone(req.Phone, req.CountryCode)
	if err != nil {
		validationError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"formatted": phone.National,
		"e164":      phone.E164,
		"digits":    phone.Digits,
	})
}

// ConvertCaseHandler rewrites text in the requested case style.
func (h *Handler) ConvertCaseHandler(c *gin.Context) {
	var req ConvertCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, "request body must be JSON with non-empty 'text' and 'case_type' fields")
		return
	}
	if !validateText(c, req.Text) {
		return
	}

	result, err := transform.ConvertCase(req.Text, req.CaseType)
	if err != nil {
		if errors.Is(err, transform.ErrUnknownCase) {
			validationError(c, err.Error())
			return
		}
		h.logger.Error("Case conversion failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "internal_error",
			"detail":  "An unexpected error occurred. Please try again later.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"result":    result,
		"case_type": req.CaseType,
	})
}

// validateText rejects whitespace-only and oversized text. It writes the
// error response itself and reports whether the handler may continue.
func validateText(c *gin.Context, text string) bool {
	if strings.TrimSpace(text) == "" {
		validationError(c, "text cannot be empty or whitespace only")
		return false
	}
	if len(text) > maxTextLength {
		validationError(c, "text exceeds the maximum length of 1048576 bytes")
		return false
	}
	return true
}

func validationError(c *gin.Context, detail string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"success": false,
		"error":   "validation_error",
		"detail":  detail,
	})
}

func rateLimitLabel(cfg config.RateLimitConfig) string {
	if cfg.WindowSeconds == 60 {
		return plural(cfg.Requests, "request") + " per minute"
	}
	return plural(cfg.Requests, "request") + " per " + plural(cfg.WindowSeconds, "second")
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}
