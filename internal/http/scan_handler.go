package http

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"eatrite-api/internal/domain"
	"eatrite-api/internal/service"
)

// ScanHandler expone los endpoints simulados de escaneo y analisis.
type ScanHandler struct {
	logger *zap.Logger
	scans  *service.ScanService
}

func NewScanHandler(logger *zap.Logger, scans *service.ScanService) *ScanHandler {
	return &ScanHandler{logger: logger, scans: scans}
}

// ScanImage maneja POST /scan-image (multipart, campo "file").
func (h *ScanHandler) ScanImage(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		respondInvalidRequest(c, h.logger, err, "scan image")
		return
	}
	if fh.Size > service.MaxScanImageBytes {
		respondError(c, h.logger, service.ErrImageTooLarge, nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondInvalidRequest(c, h.logger, err, "scan image")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, service.MaxScanImageBytes+1))
	if err != nil {
		respondInvalidRequest(c, h.logger, err, "scan image")
		return
	}

	result, err := h.scans.ScanImage(c.Request.Context(), IdentityFrom(c), service.ScanImageInput{
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		respondError(c, h.logger, err, nil)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Analyze maneja POST /analyze.
func (h *ScanHandler) Analyze(c *gin.Context) {
	var req struct {
		Barcode     string `json:"barcode"`
		ProductName string `json:"product_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidRequest(c, h.logger, err, "analyze")
		return
	}

	result, err := h.scans.Analyze(c.Request.Context(), IdentityFrom(c), service.AnalyzeInput{
		Barcode:     req.Barcode,
		ProductName: req.ProductName,
	})
	if err != nil {
		respondError(c, h.logger, err, map[error]string{
			domain.ErrMalformed: "either barcode or product_name must be provided",
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

// ScanHistory maneja GET /scan-history. Todavia no hay historial persistido.
func (h *ScanHandler) ScanHistory(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 0 {
		respondInvalidRequest(c, h.logger, err, "scan history")
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		respondInvalidRequest(c, h.logger, err, "scan history")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"scans":  []any{},
		"total":  0,
		"limit":  limit,
		"offset": offset,
	})
}
