package utilities

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ksb-dev-1/careerly-new/internal/apperror"
)

// RespondError writes a service error as JSON. Only the taxonomy message is
// exposed; causes (raw store errors) stay server-side.
func RespondError(c *gin.Context, err error) {
	var e *apperror.Error
	if errors.As(err, &e) {
		c.JSON(e.Kind.HTTPStatus(), ErrorResponse{Error: e.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}
