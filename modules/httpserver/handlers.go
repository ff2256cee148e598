package httpserver

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/example/csv-analytics-demo/modules/analysis"
	"github.com/example/csv-analytics-demo/modules/dataset"
	"github.com/gin-gonic/gin"
	"github.com/go-monolith/mono/pkg/types"
)

// analysisPreviewRows is the preview length on the analysis page; the
// preview operation itself defaults to analysis.DefaultPreviewRows.
const analysisPreviewRows = 10

// operationNames lists the operations offered on the analysis page.
var operationNames = []string{
	analysis.OpRegression,
	analysis.OpClustering,
	analysis.OpDistribution,
	analysis.OpSummary,
	analysis.OpEDA,
	analysis.OpPreview,
}

// Handlers contains the HTTP request handlers.
type Handlers struct {
	datasets *dataset.Service
	analysis *analysis.Service
	sessions *SessionStore
	logger   types.Logger
}

// NewHandlers creates a new handlers instance.
func NewHandlers(datasets *dataset.Service, analysisSvc *analysis.Service, sessions *SessionStore, logger types.Logger) *Handlers {
	return &Handlers{
		datasets: datasets,
		analysis: analysisSvc,
		sessions: sessions,
		logger:   logger,
	}
}

// redirectWithError sends the caller back to a page with a user-facing
// message in the query string.
func redirectWithError(c *gin.Context, target, msg string) {
	c.Redirect(http.StatusSeeOther, target+"?error="+url.QueryEscape(msg))
}

// handleDatasetError writes an appropriate response for dataset service
// errors on JSON endpoints.
func handleDatasetError(c *gin.Context, err error) {
	if errors.Is(err, dataset.ErrNotFound) || errors.Is(err, dataset.ErrInvalidDatasetID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "dataset not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// LandingPage handles GET / (upload form plus recent uploads).
func (h *Handlers) LandingPage(c *gin.Context) {
	datasets, err := h.datasets.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list datasets", "error", err)
	}
	c.HTML(http.StatusOK, "landing", gin.H{
		"Error":    c.Query("error"),
		"Datasets": datasets,
	})
}

// UploadCSV handles POST /upload/. Validation failures redirect back to the
// landing page with a message; nothing is persisted for a rejected upload,
// and an upload whose content cannot be parsed is removed again.
func (h *Handlers) UploadCSV(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		redirectWithError(c, "/", "No file was uploaded.")
		return
	}
	defer file.Close()

	if header.Size > dataset.MaxUploadSize {
		redirectWithError(c, "/", dataset.ErrFileTooLarge.Error())
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		redirectWithError(c, "/", "Failed to read uploaded file.")
		return
	}

	ds, err := h.datasets.Upload(c.Request.Context(), header.Filename, data)
	if err != nil {
		redirectWithError(c, "/", err.Error())
		return
	}

	// First parse fills in the dimensions; an unparseable file removes the
	// record and backing bytes again.
	table, err := h.analysis.Load(bytes.NewReader(data))
	if err != nil {
		if delErr := h.datasets.Delete(c.Request.Context(), ds.ID); delErr != nil {
			h.logger.Error("Failed to delete unparseable upload", "id", ds.ID, "error", delErr)
		}
		redirectWithError(c, "/", fmt.Sprintf("Error reading CSV file: %v", err))
		return
	}
	if err := h.datasets.SetDimensions(c.Request.Context(), ds.ID, table.RowCount(), table.ColumnCount()); err != nil {
		h.logger.Error("Failed to record dataset dimensions", "id", ds.ID, "error", err)
	}

	c.Redirect(http.StatusSeeOther, "/analysis/"+ds.ID+"/")
}

// AnalysisPage handles GET /analysis/:id/ (preview and column metadata).
func (h *Handlers) AnalysisPage(c *gin.Context) {
	data, ds, err := h.datasets.ReadData(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, dataset.ErrNotFound) || errors.Is(err, dataset.ErrInvalidDatasetID) {
			c.String(http.StatusNotFound, "dataset not found")
			return
		}
		redirectWithError(c, "/", "Error loading CSV file.")
		return
	}

	table, err := h.analysis.Load(bytes.NewReader(data))
	if err != nil {
		redirectWithError(c, "/", "Error loading CSV file.")
		return
	}

	preview, err := analysis.Preview(table, analysisPreviewRows)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to render preview")
		return
	}

	c.HTML(http.StatusOK, "analysis", gin.H{
		"Dataset":        ds,
		"Error":          c.Query("error"),
		"RowCount":       table.RowCount(),
		"ColumnCount":    table.ColumnCount(),
		"NumericCount":   len(table.NumericColumns()),
		"Columns":        table.Columns,
		"NumericColumns": table.NumericColumns(),
		"Operations":     operationNames,
		"Preview":        template.HTML(preview.HTML),
	})
}

// PerformOperation handles POST /operation/:id/ and returns the uniform
// JSON envelope. Precondition failures and unknown operations are 400s;
// unexpected faults are caught here and reported as 500, never dropped.
func (h *Handlers) PerformOperation(c *gin.Context) {
	data, ds, err := h.datasets.ReadData(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleDatasetError(c, err)
		return
	}

	table, err := h.analysis.Load(bytes.NewReader(data))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "error loading CSV file"})
		return
	}

	operation := c.PostForm("operation")
	params := analysis.Params{
		NClusters:   analysis.DefaultClusters,
		PreviewRows: analysis.DefaultPreviewRows,
	}
	if n, err := strconv.Atoi(c.PostForm("n_clusters")); err == nil && n > 0 {
		params.NClusters = n
	}

	envelope, err := h.analysis.Run(c.Request.Context(), table, operation, params)
	if err != nil {
		if errors.Is(err, analysis.ErrUnknownOperation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown operation"})
			return
		}
		h.logger.Error("Operation failed", "id", ds.ID, "operation", operation, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error performing operation"})
		return
	}

	if !envelope.Success {
		c.JSON(http.StatusBadRequest, gin.H{"error": envelope.Error})
		return
	}

	// Cache the visualization for a later download from the same session.
	if envelope.Image != "" {
		h.sessions.Put(sessionID(c), Visualization{
			Image:     envelope.Image,
			Operation: envelope.Operation,
		})
	}

	c.JSON(http.StatusOK, envelope)
}

// DownloadVisualization handles GET /download/:id/ and returns the last
// cached image for this session as a PNG attachment.
func (h *Handlers) DownloadVisualization(c *gin.Context) {
	ds, err := h.datasets.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleDatasetError(c, err)
		return
	}

	viz, ok := h.sessions.Get(sessionID(c))
	if !ok {
		redirectWithError(c, "/analysis/"+ds.ID+"/", "No visualization available to download.")
		return
	}

	img, err := base64.StdEncoding.DecodeString(viz.Image)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to decode cached visualization")
		return
	}

	base := strings.TrimSuffix(ds.OriginalFilename, ".csv")
	filename := fmt.Sprintf("%s_%s.png", base, viz.Operation)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "image/png", img)
}

// DownloadCSV handles GET /download-csv/:id/ and streams the original file.
func (h *Handlers) DownloadCSV(c *gin.Context) {
	reader, ds, err := h.datasets.Open(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleDatasetError(c, err)
		return
	}
	defer reader.Close()

	c.DataFromReader(http.StatusOK, ds.FileSize, "text/csv", reader, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", ds.OriginalFilename),
	})
}

// DeleteDataset handles DELETE /api/datasets/:id, removing the record with
// its backing file.
func (h *Handlers) DeleteDataset(c *gin.Context) {
	id := c.Param("id")
	if err := h.datasets.Delete(c.Request.Context(), id); err != nil {
		handleDatasetError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "dataset deleted",
		"id":      id,
	})
}

// HealthCheck handles GET /health.
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "csv-analytics-demo",
	})
}
