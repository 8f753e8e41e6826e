package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/verityqa/verity-backend/internal/pkg/logger"
	"github.com/verityqa/verity-backend/internal/services"
)

type ProgramHandler struct {
	log            *logger.Logger
	programService services.ProgramService
}

func NewProgramHandler(log *logger.Logger, programService services.ProgramService) *ProgramHandler {
	return &ProgramHandler{
		log:            log.With("handler", "ProgramHandler"),
		programService: programService,
	}
}

func (h *ProgramHandler) Create(c *gin.Context) {
	portfolioID, err := pathID(c, "portfolio_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	var in services.ProgramCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	program, err := h.programService.Create(c.Request.Context(), portfolioID, in)
	if err != nil {
		h.log.Error("Create failed", "error", err, "portfolioId", portfolioID)
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, program)
}

func (h *ProgramHandler) Get(c *gin.Context) {
	id, err := pathID(c, "program_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	program, err := h.programService.Get(c.Request.Context(), id)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, program)
}

func (h *ProgramHandler) ListByPortfolio(c *gin.Context) {
	portfolioID, err := pathID(c, "portfolio_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	skip := queryInt(c, "skip", 0)
	limit := queryInt(c, "limit", 0)
	programs, err := h.programService.ListByPortfolio(c.Request.Context(), portfolioID, skip, limit, c.Query("name"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"programs": programs})
}

func (h *ProgramHandler) Update(c *gin.Context) {
	id, err := pathID(c, "program_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	var patch services.ProgramPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	program, err := h.programService.Update(c.Request.Context(), id, patch)
	if err != nil {
		h.log.Error("Update failed", "error", err, "id", id)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, program)
}

func (h *ProgramHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "program_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	program, err := h.programService.Delete(c.Request.Context(), id, concurrencyToken(c))
	if err != nil {
		h.log.Error("Delete failed", "error", err, "id", id)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, program)
}
