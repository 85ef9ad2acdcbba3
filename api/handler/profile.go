package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskvault/backend/pkg/httpcontext"
	"github.com/taskvault/backend/repository"
)

// ProfileHandler serves the caller's own user record. Profile edits are not
// supported: users are immutable after registration.
type ProfileHandler struct {
	baseHandler
	users repository.UserRepository
}

func NewProfileHandler(users repository.UserRepository, adapter *httpcontext.Adapter, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		baseHandler: newBaseHandler(adapter, logger),
		users:       users,
	}
}

// @Summary Get the caller's profile
// @Tags profile
// @Router /profile [get]
func (h *ProfileHandler) Get(ctx *fasthttp.RequestCtx) {
	identity, ok := h.identity(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.users.GetByID(stdCtx, identity.UserID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, user)
}
