package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/JoudMawad/Ignite-sub000/internal/domain"
	"github.com/gin-gonic/gin"
)

// Version is reported by the health check
const Version = "1.0.0"

// LabelScanner is the label scan usecase consumed by the handler
type LabelScanner interface {
	ScanLabel(ctx context.Context, request *domain.LabelScanRequest) (*domain.LabelScanResult, error)
}

// FoodLookup is the food lookup usecase consumed by the handler
type FoodLookup interface {
	LookupFood(ctx context.Context, request *domain.FoodLookupRequest) (*domain.NutritionData, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	labels LabelScanner
	foods  FoodLookup
}

// NewHandler creates a new HTTP handler. A nil dependency makes its endpoints answer 503.
func NewHandler(labels LabelScanner, foods FoodLookup) *Handler {
	return &Handler{
		labels: labels,
		foods:  foods,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "ignite-backend",
		"version": Version,
	})
}

// labelParseBody is the JSON body for POST /api/v1/labels/parse
type labelParseBody struct {
	Text *string `json:"text" binding:"required"`
}

// ParseLabel handles OCR text from a photographed nutrition label.
// Query parameter debug=true adds the parse trace to the response.
func (h *Handler) ParseLabel(c *gin.Context) {
	if h.labels == nil {
		errorResponse(c, http.StatusServiceUnavailable, "label scanning is not available")
		return
	}

	var body labelParseBody
	if err := c.ShouldBindJSON(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			errorResponse(c, http.StatusRequestEntityTooLarge, domain.ErrTextTooLarge.Error())
			return
		}
		errorResponse(c, http.StatusBadRequest, "request body must be JSON with a \"text\" field")
		return
	}

	debug, _ := strconv.ParseBool(c.DefaultQuery("debug", "false"))

	result, err := h.labels.ScanLabel(c.Request.Context(), &domain.LabelScanRequest{
		Text:  *body.Text,
		Debug: debug,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTextTooLarge):
			errorResponse(c, http.StatusRequestEntityTooLarge, err.Error())
		case errors.Is(err, domain.ErrInvalidRequest):
			errorResponse(c, http.StatusBadRequest, err.Error())
		default:
			errorResponse(c, http.StatusInternalServerError, "failed to parse label")
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// SearchFood handles food lookups by name
func (h *Handler) SearchFood(c *gin.Context) {
	if h.foods == nil {
		errorResponse(c, http.StatusServiceUnavailable, domain.ErrLookupUnavailable.Error())
		return
	}

	var request domain.FoodLookupRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		errorResponse(c, http.StatusBadRequest, "productName is required")
		return
	}

	data, err := h.foods.LookupFood(c.Request.Context(), &request)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLowConfidence) && data != nil:
			c.JSON(http.StatusOK, gin.H{
				"data":    data,
				"facts":   data.Facts(),
				"warning": err.Error(),
			})
		case errors.Is(err, domain.ErrInvalidRequest):
			errorResponse(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrProductNotFound):
			errorResponse(c, http.StatusNotFound, err.Error())
		case errors.Is(err, domain.ErrLookupUnavailable):
			errorResponse(c, http.StatusServiceUnavailable, err.Error())
		case errors.Is(err, domain.ErrUSDAAPIFailure):
			errorResponse(c, http.StatusBadGateway, "food database unavailable")
		default:
			errorResponse(c, http.StatusInternalServerError, "food lookup failed")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  data,
		"facts": data.Facts(),
	})
}

func errorResponse(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":     message,
		"requestId": c.GetString(requestIDKey),
	})
}
