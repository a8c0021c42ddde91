package http

import (
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/airnalytics/air-modernity/internal/application/segmentation"
	"github.com/airnalytics/air-modernity/internal/domain/fleet"
	"github.com/airnalytics/air-modernity/internal/infrastructure/dataset"
	"github.com/airnalytics/air-modernity/internal/infrastructure/monitoring/prometheus"
	"github.com/airnalytics/air-modernity/pkg/errors"
	"github.com/airnalytics/air-modernity/pkg/types/segment"
)

type handler struct {
	predictor *segmentation.Predictor
	outDir    string
	metrics   *prometheus.Metrics
}

// errorResponse is the standard error body.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// predictResponse reports the assigned segment for one feature vector.
type predictResponse struct {
	Cluster  int                `json:"cluster"`
	Features fleet.FeatureVector `json:"features"`
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// predict assigns a cluster to the posted airline feature vector.
func (h *handler) predict(c *gin.Context) {
	var v fleet.FeatureVector
	if err := c.ShouldBindJSON(&v); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{
			Code:    errors.ErrCodeValidation.String(),
			Message: "request body must be a feature vector: " + err.Error(),
		})
		return
	}

	cluster, err := h.predictor.Predict(v)
	if err != nil {
		writeAppError(c, err)
		return
	}
	h.metrics.PredictionsTotal.WithLabelValues(strconv.Itoa(cluster)).Inc()
	c.JSON(http.StatusOK, predictResponse{Cluster: cluster, Features: v})
}

// knnMetrics returns the held-out evaluation of the surrogate classifier.
func (h *handler) knnMetrics(c *gin.Context) {
	var m segment.MetricsArtifact
	if err := dataset.ReadJSON(filepath.Join(h.outDir, segment.FileMetrics), &m); err != nil {
		writeAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// writeAppError maps pipeline error codes to HTTP statuses.  Unclassified
// errors are masked as a plain internal error.
func writeAppError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	switch code {
	case errors.ErrCodeMissingInput, errors.ErrCodeNotFound:
		c.JSON(http.StatusNotFound, errorResponse{Code: code.String(), Message: err.Error()})
	case errors.ErrCodeValidation, errors.ErrCodeDimensionMismatch:
		c.JSON(http.StatusBadRequest, errorResponse{Code: code.String(), Message: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, errorResponse{
			Code:    errors.ErrCodeInternal.String(),
			Message: "internal server error",
		})
	}
}
