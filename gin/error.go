package gin

import (
	"net/http"

	"github.com/fwojciec/tenk"
	"github.com/gin-gonic/gin"
)

// codes maps application error codes to HTTP status codes.
var codes = map[string]int{
	tenk.ECONFLICT:     http.StatusConflict,
	tenk.EINVALID:      http.StatusBadRequest,
	tenk.ENOTFOUND:     http.StatusNotFound,
	tenk.EUNAUTHORIZED: http.StatusUnauthorized,
	tenk.EINTERNAL:     http.StatusInternalServerError,
}

// ErrorStatusCode returns the HTTP status code for an application error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

// writeError writes err as a JSON error response. Internal errors are logged.
func (s *Server) writeError(c *gin.Context, err error) {
	code := tenk.ErrorCode(err)
	if code == tenk.EINTERNAL {
		s.logger().Error("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
	}
	c.JSON(ErrorStatusCode(code), gin.H{"code": code, "error": tenk.ErrorMessage(err)})
}
