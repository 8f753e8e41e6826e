package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/verityqa/verity-backend/internal/pkg/logger"
	"github.com/verityqa/verity-backend/internal/services"
)

type ProjectHandler struct {
	log            *logger.Logger
	projectService services.ProjectService
}

func NewProjectHandler(log *logger.Logger, projectService services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		log:            log.With("handler", "ProjectHandler"),
		projectService: projectService,
	}
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var in services.ProjectCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	project, err := h.projectService.Create(c.Request.Context(), in)
	if err != nil {
		h.log.Error("Create failed", "error", err)
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, project)
}

func (h *ProjectHandler) Get(c *gin.Context) {
	id, err := pathID(c, "project_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	project, err := h.projectService.Get(c.Request.Context(), id)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, project)
}

func (h *ProjectHandler) List(c *gin.Context) {
	limit := queryInt(c, "limit", 0)
	offset := queryInt(c, "offset", 0)
	projects, err := h.projectService.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.log.Error("List failed", "error", err)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"projects": projects})
}

func (h *ProjectHandler) Update(c *gin.Context) {
	id, err := pathID(c, "project_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	var patch services.ProjectPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	project, err := h.projectService.Update(c.Request.Context(), id, patch)
	if err != nil {
		h.log.Error("Update failed", "error", err, "id", id)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, project)
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "project_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	if err := h.projectService.Delete(c.Request.Context(), id); err != nil {
		h.log.Error("Delete failed", "error", err, "id", id)
		RespondAppError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProjectHandler) RefreshCaches(c *gin.Context) {
	id, err := pathID(c, "project_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	var releaseID *int64
	if c.Param("release_id") != "" {
		rid, err := pathID(c, "release_id")
		if err != nil {
			RespondAppError(c, err)
			return
		}
		releaseID = &rid
	} else {
		releaseID = queryInt64Ptr(c, "release_id")
	}
	runAsync := queryBool(c, "run_async")

	status, err := h.projectService.RefreshCaches(c.Request.Context(), id, releaseID, runAsync)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, status)
}
