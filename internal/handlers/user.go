package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/verityqa/verity-backend/internal/pkg/logger"
	"github.com/verityqa/verity-backend/internal/services"
)

type UserHandler struct {
	log         *logger.Logger
	userService services.UserService
}

func NewUserHandler(log *logger.Logger, userService services.UserService) *UserHandler {
	return &UserHandler{
		log:         log.With("handler", "UserHandler"),
		userService: userService,
	}
}

func (h *UserHandler) Create(c *gin.Context) {
	var in services.UserCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	user, err := h.userService.Create(c.Request.Context(), in)
	if err != nil {
		h.log.Error("Create failed", "error", err)
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, user)
}

func (h *UserHandler) GetByID(c *gin.Context) {
	id, err := pathID(c, "user_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, user)
}

func (h *UserHandler) GetByUsername(c *gin.Context) {
	user, err := h.userService.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, user)
}

func (h *UserHandler) GetByEmail(c *gin.Context) {
	user, err := h.userService.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, user)
}

func (h *UserHandler) List(c *gin.Context) {
	limit := queryInt(c, "limit", 0)
	offset := queryInt(c, "offset", 0)
	users, err := h.userService.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.log.Error("List failed", "error", err)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"users": users})
}

func (h *UserHandler) Update(c *gin.Context) {
	id, err := pathID(c, "user_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	var patch services.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	user, err := h.userService.Update(c.Request.Context(), id, patch)
	if err != nil {
		h.log.Error("Update failed", "error", err, "id", id)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "user_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	user, err := h.userService.Delete(c.Request.Context(), id)
	if err != nil {
		h.log.Error("Delete failed", "error", err, "id", id)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, user)
}
