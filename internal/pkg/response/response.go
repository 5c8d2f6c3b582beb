package response

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	msgInternal = "予期しないエラーが発生しました。"
	msgNotFound = "Not Found"
)

// Error is the envelope for every non-2xx reply. Type and the optional fields
// carry machine-readable detail next to the human message.
type Error struct {
	OK                int    `json:"ok"`
	Code              int    `json:"code"`
	Message           string `json:"message"`
	Type              string `json:"type,omitempty"`
	RetryAfterSeconds *int   `json:"retry_after_seconds,omitempty"`
	UpstreamStatus    *int   `json:"upstream_status,omitempty"`
}

func abort(c *gin.Context, e Error) {
	e.OK = 0
	c.AbortWithStatusJSON(e.Code, e)
}

// OK sends a 200 response.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends a 400 error response.
func BadRequest(c *gin.Context, message string) {
	abort(c, Error{Code: http.StatusBadRequest, Message: message})
}

// Unauthorized sends a 401 error response with a bearer challenge.
func Unauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", "Bearer")
	abort(c, Error{Code: http.StatusUnauthorized, Message: message})
}

// NotFound sends a 404 error response.
func NotFound(c *gin.Context) {
	abort(c, Error{Code: http.StatusNotFound, Message: msgNotFound})
}

// NotFoundMsg sends a 404 error with a custom message.
func NotFoundMsg(c *gin.Context, message string) {
	abort(c, Error{Code: http.StatusNotFound, Message: message})
}

// UnprocessableEntity sends a 422 error response.
func UnprocessableEntity(c *gin.Context, message string) {
	abort(c, Error{Code: http.StatusUnprocessableEntity, Message: message})
}

// TooManyRequests sends a 429. retryAfter is also written as the Retry-After header when set.
func TooManyRequests(c *gin.Context, errType, message string, retryAfter *int) {
	if retryAfter != nil {
		c.Header("Retry-After", strconv.Itoa(*retryAfter))
	}
	abort(c, Error{Code: http.StatusTooManyRequests, Type: errType, Message: message, RetryAfterSeconds: retryAfter})
}

// BadGateway sends a 502 for a failed upstream call.
func BadGateway(c *gin.Context, errType, message string, upstream *int) {
	abort(c, Error{Code: http.StatusBadGateway, Type: errType, Message: message, UpstreamStatus: upstream})
}

// InternalError sends a 500 with a fixed message; err is never shown to the client.
func InternalError(c *gin.Context, errType string, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	abort(c, Error{Code: http.StatusInternalServerError, Type: errType, Message: msgInternal})
}

// InternalErrorMsg sends a 500 with a caller-chosen safe message.
func InternalErrorMsg(c *gin.Context, errType, message string) {
	abort(c, Error{Code: http.StatusInternalServerError, Type: errType, Message: message})
}

// MethodNotAllowed sends a 405 error response.
func MethodNotAllowed(c *gin.Context) {
	abort(c, Error{Code: http.StatusMethodNotAllowed, Message: "Method Not Allowed"})
}
