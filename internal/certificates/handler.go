package certificates

import (
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	headerRequestID   = "X-Request-ID"
	headerDownloadURL = "X-Download-URL"
	headerEmblem      = "X-Emblem"
)

// ExposedHeaders lists the response headers browsers may read from a
// document download
var ExposedHeaders = []string{"Content-Disposition", headerRequestID, headerDownloadURL, headerEmblem}

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	certs := rg.Group("/certificates")
	{
		certs.POST("/documents", h.GenerateDocument)
		certs.POST("/numbers", h.GenerateNumber)
	}
}

func (h *Handler) GenerateDocument(c *gin.Context) {
	var req DocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	issued, err := h.service.GenerateDocument(c.Request.Context(), req)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("Certificate request failed", zap.Int("status", status), zap.Error(err))
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": issued.Filename})
	headers := map[string]string{
		"Content-Disposition": disposition,
		headerRequestID:       issued.RequestID.String(),
		headerEmblem:          strconv.FormatBool(issued.HasEmblem),
	}
	if issued.DownloadURL != "" {
		headers[headerDownloadURL] = issued.DownloadURL
	}
	for k, v := range headers {
		c.Header(k, v)
	}
	c.Data(http.StatusOK, ContentTypePDF, issued.Bytes)
}

func (h *Handler) GenerateNumber(c *gin.Context) {
	var req NumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	number, err := h.service.GenerateNumber(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrIncompleteApplicant) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"certificate_number": number})
}

func statusFor(err error) int {
	kind, _ := KindOf(err)
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindEncoding:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
