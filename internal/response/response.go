// Package response writes the uniform JSON envelope every endpoint returns.
package response

import (
	"github.com/gin-gonic/gin"

	"github.com/videotube/videotube/internal/apperr"
)

type Envelope struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

type ErrorEnvelope struct {
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message"`
	ErrorKind  apperr.Kind `json:"errorKind"`
	Success    bool        `json:"success"`
}

// Result is either a success payload or an error, never both.
type Result struct {
	status  int
	data    interface{}
	message string
	err     *apperr.Error
}

func Ok(status int, data interface{}, message string) Result {
	if data == nil {
		data = struct{}{}
	}
	return Result{status: status, data: data, message: message}
}

func Err(err error) Result {
	appErr := apperr.As(err)
	return Result{status: appErr.Kind.HTTPStatus(), message: appErr.Message, err: appErr}
}

func (r Result) IsErr() bool {
	return r.err != nil
}

func (r Result) Status() int {
	return r.status
}

func (r Result) Body() interface{} {
	if r.err != nil {
		return ErrorEnvelope{
			StatusCode: r.status,
			Message:    r.message,
			ErrorKind:  r.err.Kind,
			Success:    false,
		}
	}
	return Envelope{
		StatusCode: r.status,
		Data:       r.data,
		Message:    r.message,
		Success:    true,
	}
}

func (r Result) Write(c *gin.Context) {
	c.JSON(r.status, r.Body())
}

// Abort writes the result and stops the handler chain.
func (r Result) Abort(c *gin.Context) {
	c.AbortWithStatusJSON(r.status, r.Body())
}
