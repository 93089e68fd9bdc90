package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Err is the body of every error response: {"detail": "..."}.
type Err struct {
	Err            error  `json:"-"`
	HTTPStatusCode int    `json:"-"`
	Detail         string `json:"detail"`
}

func (e *Err) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}

	return e.Detail
}

func RenderErr(ctx *gin.Context, err *Err) {
	if err.HTTPStatusCode >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.Request.URL.Path),
			zap.Error(err.Err),
		)
	}

	_ = ctx.Error(err)
	ctx.AbortWithStatusJSON(err.HTTPStatusCode, err)
}

func ErrNotFound(resource string) *Err {
	return &Err{
		HTTPStatusCode: http.StatusNotFound,
		Detail:         resource + " not found",
	}
}

func ErrValidation(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusUnprocessableEntity,
		Detail:         err.Error(),
	}
}

func ErrInternalServerError(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		Detail:         http.StatusText(http.StatusInternalServerError),
	}
}

func ErrServiceUnavailable(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusServiceUnavailable,
		Detail:         http.StatusText(http.StatusServiceUnavailable),
	}
}

// ErrStatus renders a bare status, used for unmatched routes and methods.
func ErrStatus(code int) *Err {
	return &Err{
		HTTPStatusCode: code,
		Detail:         http.StatusText(code),
	}
}
