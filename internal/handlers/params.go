package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/verityqa/verity-backend/internal/pkg/apperr"
)

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("%s must be a positive integer", name)
	}
	return id, nil
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func queryInt64Ptr(c *gin.Context, name string) *int64 {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

func queryBool(c *gin.Context, name string) bool {
	v, err := strconv.ParseBool(c.Query(name))
	return err == nil && v
}

// concurrencyToken reads the caller's last-seen token from the
// concurrency_token query parameter or, failing that, the request body.
// Absence comes back as uuid.Nil; the services reject that as a conflict.
func concurrencyToken(c *gin.Context) uuid.UUID {
	if raw := c.Query("concurrency_token"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return uuid.Nil
		}
		return parsed
	}
	var body struct {
		ConcurrencyToken uuid.UUID `json:"concurrencyToken"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		return uuid.Nil
	}
	return body.ConcurrencyToken
}
