package handlers

import (
	"errors"
	"maps"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/jobboard-web/internal/apiclient"
	"github.com/justsurfingit/jobboard-web/internal/services"
)

// respondError writes {"error": msg} with a status that fits err, merged
// with any view fields (the list as it stands after a rollback). API 4xx
// answers pass through; everything else from upstream is a 502.
func respondError(c *gin.Context, err error, fallback string, view ...gin.H) {
	var apiErr *apiclient.APIError
	status, msg := http.StatusBadGateway, apiclient.UserMessage(err, fallback)
	switch {
	case errors.Is(err, services.ErrInvalidDecision),
		errors.Is(err, services.ErrInvalidFeedback),
		errors.Is(err, services.ErrInvalidCompany):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrStaleResponse):
		status, msg = http.StatusConflict, err.Error()
	case errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500:
		status = apiErr.StatusCode
	}

	body := gin.H{}
	for _, v := range view {
		maps.Copy(body, v)
	}
	body["error"] = msg
	c.JSON(status, body)
}
