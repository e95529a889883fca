package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"mocardapio-api/apperr"

	"github.com/gin-gonic/gin"
)

// Upload stores an image and returns its url and public id
func (h *Handler) Upload(c *gin.Context) {
	file, ok := h.formImage(c)
	if !ok {
		return
	}
	defer file.Close()

	blob, err := h.Catalog.Upload(c.Request.Context(), file)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, blob)
}

// formImage opens the multipart "image" field, capped at UploadMaxBytes.
func (h *Handler) formImage(c *gin.Context) (multipart.File, bool) {
	if h.UploadMaxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.UploadMaxBytes)
	}
	header, err := c.FormFile("image")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			fail(c, apperr.Invalid("image", "file too large"))
		} else {
			fail(c, apperr.Invalid("image", "multipart file field required"))
		}
		return nil, false
	}
	file, err := header.Open()
	if err != nil {
		fail(c, err)
		return nil, false
	}
	return file, true
}
