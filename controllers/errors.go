package controllers

import (
	"errors"

	"backend/pkg/resp"
	"backend/services"

	"github.com/gin-gonic/gin"
)

// fail maps the service error taxonomy onto HTTP statuses.
func fail(c *gin.Context, err error) {
	var ve *services.ValidationError
	var ne *services.NotEligibleError
	var nf *services.NotFoundError
	var ce *services.ConflictError

	switch {
	case errors.As(err, &ve):
		resp.BadRequest(c, ve.Msg)
	case errors.As(err, &ne):
		resp.Unprocessable(c, ne.Reason)
	case errors.As(err, &nf):
		resp.NotFound(c, nf.Error())
	case errors.As(err, &ce):
		resp.Conflict(c, ce.Msg)
	case errors.Is(err, services.ErrForbidden):
		resp.Forbidden(c, "forbidden")
	default:
		resp.ServerError(c, err)
	}
}
