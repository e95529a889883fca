package middleware

import (
	"errors"
	"net/http"

	"mocardapio-api/apperr"
	"mocardapio-api/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Abort records err for Errors to render and stops the chain.
func Abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

type bindError struct{ cause error }

func (e *bindError) Error() string   { return "invalid request: " + e.cause.Error() }
func (e *bindError) Unwrap() []error { return []error{apperr.ErrValidation, e.cause} }

// BindError classifies a gin binding failure as a validation error.
func BindError(err error) error {
	return &bindError{cause: err}
}

// Errors renders the last error attached to the context as
// {"error", "code", "details"}. Unclassified errors are logged, and their
// message is replaced when production is set.
func Errors(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := apperr.Status(err)
		body := gin.H{"error": err.Error(), "code": apperr.Code(err)}
		if details := fieldDetails(err); len(details) > 0 {
			body["details"] = details
		}
		if status >= http.StatusInternalServerError {
			logger.FromCtx(c.Request.Context()).Error("request failed", "error", err, "path", c.FullPath())
			if production {
				body["error"] = "internal server error"
			}
		}
		c.JSON(status, body)
	}
}

// Recovery turns a panic into a 500 in the usual error shape.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, rec any) {
		logger.FromCtx(c.Request.Context()).Error("panic recovered", "panic", rec, "path", c.Request.URL.Path)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": "internal server error",
			"code":  apperr.Code(apperr.ErrInternal),
		})
	})
}

func fieldDetails(err error) []gin.H {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]gin.H, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, gin.H{"field": fe.Field(), "rule": fe.Tag()})
		}
		return out
	}
	var fe *apperr.FieldError
	if errors.As(err, &fe) {
		return []gin.H{{"field": fe.Field, "reason": fe.Reason}}
	}
	return nil
}
