// Package handlers binds HTTP requests to the services. Handlers only parse
// input and shape output; errors go through middleware.Errors.
package handlers

import (
	"strconv"

	"mocardapio-api/apperr"
	"mocardapio-api/middleware"
	"mocardapio-api/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Auth     *services.AuthService
	Profiles *services.ProfileService
	Catalog  *services.CatalogService
	Orders   *services.OrderService
	Messages *services.MessageService

	UploadMaxBytes int64
}

func fail(c *gin.Context, err error) {
	middleware.Abort(c, err)
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		fail(c, middleware.BindError(err))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		fail(c, middleware.BindError(err))
		return false
	}
	return true
}

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		fail(c, apperr.Invalid(name, "must be a positive integer"))
		return 0, false
	}
	return uint(id), true
}

// boolQuery parses an optional true/false query value.
func boolQuery(c *gin.Context, name string) (*bool, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		fail(c, apperr.Invalid(name, "must be true or false"))
		return nil, false
	}
	return &v, true
}
