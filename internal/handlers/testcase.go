package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/verityqa/verity-backend/internal/data/repos"
	"github.com/verityqa/verity-backend/internal/pkg/logger"
	"github.com/verityqa/verity-backend/internal/services"
)

type TestCaseHandler struct {
	log             *logger.Logger
	testCaseService services.TestCaseService
}

func NewTestCaseHandler(log *logger.Logger, testCaseService services.TestCaseService) *TestCaseHandler {
	return &TestCaseHandler{
		log:             log.With("handler", "TestCaseHandler"),
		testCaseService: testCaseService,
	}
}

func (h *TestCaseHandler) Create(c *gin.Context) {
	projectID, err := pathID(c, "project_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	var in services.TestCaseCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	testCase, err := h.testCaseService.Create(c.Request.Context(), projectID, in)
	if err != nil {
		h.log.Error("Create failed", "error", err, "projectId", projectID)
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, testCase)
}

func (h *TestCaseHandler) Get(c *gin.Context) {
	projectID, err := pathID(c, "project_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	id, err := pathID(c, "test_case_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	testCase, err := h.testCaseService.Get(c.Request.Context(), projectID, id)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, testCase)
}

func (h *TestCaseHandler) Update(c *gin.Context) {
	projectID, err := pathID(c, "project_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	id, err := pathID(c, "test_case_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	var patch services.TestCasePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	testCase, err := h.testCaseService.Update(c.Request.Context(), projectID, id, patch)
	if err != nil {
		h.log.Error("Update failed", "error", err, "id", id)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, testCase)
}

func (h *TestCaseHandler) Delete(c *gin.Context) {
	projectID, err := pathID(c, "project_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	id, err := pathID(c, "test_case_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	if err := h.testCaseService.Delete(c.Request.Context(), projectID, id); err != nil {
		h.log.Error("Delete failed", "error", err, "id", id)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "test case deleted"})
}

func (h *TestCaseHandler) Move(c *gin.Context) {
	projectID, err := pathID(c, "project_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	id, err := pathID(c, "test_case_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	var body struct {
		FolderID int64 `json:"folderId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	testCase, err := h.testCaseService.Move(c.Request.Context(), projectID, id, body.FolderID)
	if err != nil {
		h.log.Error("Move failed", "error", err, "id", id)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, testCase)
}

func (h *TestCaseHandler) Count(c *gin.Context) {
	projectID, err := pathID(c, "project_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	var body struct {
		ReleaseID *int64              `json:"releaseId"`
		Filters   repos.SearchFilters `json:"filters"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	total, err := h.testCaseService.Count(c.Request.Context(), projectID, body.ReleaseID, body.Filters)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"total": total})
}

func (h *TestCaseHandler) Search(c *gin.Context) {
	projectID, err := pathID(c, "project_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	var req services.TestCaseSearch
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	page, err := h.testCaseService.Search(c.Request.Context(), projectID, req)
	if err != nil {
		h.log.Error("Search failed", "error", err, "projectId", projectID)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, page)
}
