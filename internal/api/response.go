package api

import (
	"errors"
	"net/http"

	ierr "doctor-reviews/internal/errors"

	"github.com/gin-gonic/gin"
)

type errorBody struct {
	Code     string            `json:"code"`
	Message  string            `json:"message"`
	Fields   []ierr.FieldError `json:"fields,omitempty"`
	ReviewId string            `json:"reviewId,omitempty"`
}

func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"data": data})
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": errorBody{Code: code, Message: message}})
}

// respondError maps the error kinds onto http statuses:
// validation 400, not found 404, document store 502, anything else 500.
func respondError(c *gin.Context, err error, reviewId string) {
	body := errorBody{Message: err.Error(), ReviewId: reviewId}
	status := http.StatusInternalServerError
	body.Code = "INTERNAL"

	var ve *ierr.ValidationError
	switch {
	case errors.As(err, &ve):
		status, body.Code, body.Fields = http.StatusBadRequest, "INVALID_INPUT", ve.Fields
	case errors.Is(err, ierr.NotFound):
		status, body.Code = http.StatusNotFound, "NOT_FOUND"
	case ierr.IsStoreError(err):
		status, body.Code = http.StatusBadGateway, "STORE_UNAVAILABLE"
	}

	c.AbortWithStatusJSON(status, gin.H{"error": body})
}
