// Package handlers implements the HTTP endpoints.
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/medequity/pharmarisk/pkg/errors"
	"github.com/medequity/pharmarisk/pkg/types/common"
)

// respondOK writes the standard success envelope.
func respondOK(c *gin.Context, data interface{}) {
	c.JSON(200, common.NewSuccessResponse(data))
}

// respondError maps the error onto the standard error envelope, using the
// typed code's HTTP status when present.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	code := errors.GetCode(err)
	message := errors.DefaultMessageForCode(code)
	if appErr := errors.AsAppError(err); appErr != nil && appErr.Message != "" {
		message = appErr.Message
	}
	c.JSON(errors.HTTPStatusForCode(code), common.NewErrorResponse(code.String(), message))
}
