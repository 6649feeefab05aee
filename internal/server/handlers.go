package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tokmeta/internal/cookies"
	"tokmeta/internal/extractor"
	"tokmeta/internal/version"
)

// extractQuery binds the /extract/ query parameters
type extractQuery struct {
	VideoURL       string `form:"video_url"`
	NoWatermark    bool   `form:"no_watermark"`
	RefreshCookies bool   `form:"refresh_cookies"`
}

// errorBody is the error response shape
type errorBody struct {
	Detail string `json:"detail"`
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": version.Version,
	})
}

func (s *Server) handleExtract(c *gin.Context) {
	var q extractQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Detail: "invalid query parameters: " + err.Error()})
		return
	}

	result, err := s.service.Extract(c.Request.Context(), q.VideoURL, extractor.Options{
		NoWatermark:    q.NoWatermark,
		RefreshCookies: q.RefreshCookies,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// writeError maps the error taxonomy onto HTTP statuses: bad input and
// rejected URLs are the caller's fault, cookie generation and anything
// unexpected are ours, timeouts get their own status.
func (s *Server) writeError(c *gin.Context, err error) {
	var invalidErr *extractor.InvalidRequestError
	var extractErr *extractor.ExtractionError
	var timeoutErr *extractor.TimeoutError
	var cookieErr *cookies.GenerationError

	switch {
	case errors.As(err, &invalidErr):
		c.JSON(http.StatusBadRequest, errorBody{Detail: invalidErr.Error()})

	case errors.As(err, &extractErr):
		s.log.Warn("extraction rejected", zap.Error(err))
		c.JSON(http.StatusBadRequest, errorBody{Detail: extractErr.Error()})

	case errors.As(err, &timeoutErr):
		s.log.Error("extraction timed out", zap.Error(err))
		c.JSON(http.StatusGatewayTimeout, errorBody{Detail: timeoutErr.Error()})

	case errors.As(err, &cookieErr):
		s.log.Error("cookie generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorBody{Detail: cookieErr.Error()})

	default:
		s.log.Error("internal error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorBody{Detail: "internal server error"})
	}
}
