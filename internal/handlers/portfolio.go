package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/verityqa/verity-backend/internal/pkg/logger"
	"github.com/verityqa/verity-backend/internal/services"
)

type PortfolioHandler struct {
	log              *logger.Logger
	portfolioService services.PortfolioService
}

func NewPortfolioHandler(log *logger.Logger, portfolioService services.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		log:              log.With("handler", "PortfolioHandler"),
		portfolioService: portfolioService,
	}
}

func (h *PortfolioHandler) Create(c *gin.Context) {
	var in services.PortfolioCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	portfolio, err := h.portfolioService.Create(c.Request.Context(), in)
	if err != nil {
		h.log.Error("Create failed", "error", err)
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, portfolio)
}

func (h *PortfolioHandler) Get(c *gin.Context) {
	id, err := pathID(c, "portfolio_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	portfolio, err := h.portfolioService.Get(c.Request.Context(), id)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, portfolio)
}

func (h *PortfolioHandler) List(c *gin.Context) {
	skip := queryInt(c, "skip", 0)
	limit := queryInt(c, "limit", 0)
	portfolios, err := h.portfolioService.List(c.Request.Context(), skip, limit, c.Query("name"))
	if err != nil {
		h.log.Error("List failed", "error", err)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"portfolios": portfolios})
}

func (h *PortfolioHandler) Update(c *gin.Context) {
	id, err := pathID(c, "portfolio_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	var patch services.PortfolioPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	portfolio, err := h.portfolioService.Update(c.Request.Context(), id, patch)
	if err != nil {
		h.log.Error("Update failed", "error", err, "id", id)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, portfolio)
}

func (h *PortfolioHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "portfolio_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	portfolio, err := h.portfolioService.Delete(c.Request.Context(), id, concurrencyToken(c))
	if err != nil {
		h.log.Error("Delete failed", "error", err, "id", id)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, portfolio)
}
