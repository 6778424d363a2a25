// Package controllers handles HTTP request handling
package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ecoshare/backend/internal/pkg/imagehost"
)

func isMultipart(ctx *gin.Context) bool {
	return strings.HasPrefix(ctx.ContentType(), "multipart/form-data")
}

// bindWithImage binds req from JSON, or from a multipart form whose optional
// file part is named field. The returned release func closes the file.
func bindWithImage(ctx *gin.Context, req any, field string) (*imagehost.Source, func(), error) {
	noop := func() {}

	if !isMultipart(ctx) {
		if err := ctx.ShouldBindJSON(req); err != nil {
			return nil, noop, err
		}
		return nil, noop, nil
	}

	if err := ctx.ShouldBind(req); err != nil {
		return nil, noop, err
	}

	fh, err := ctx.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, noop, nil
		}
		return nil, noop, err
	}

	src, file, err := imagehost.FromFileHeader(fh)
	if err != nil {
		return nil, noop, err
	}
	return &src, func() { _ = file.Close() }, nil
}
