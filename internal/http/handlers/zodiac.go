package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/starsignlabs/zodiac-backend/internal/http/response"
	"github.com/starsignlabs/zodiac-backend/internal/platform/dbctx"
	"github.com/starsignlabs/zodiac-backend/internal/services"
)

type ZodiacHandler struct {
	zodiac services.ZodiacService
}

func NewZodiacHandler(zodiac services.ZodiacService) *ZodiacHandler {
	return &ZodiacHandler{zodiac: zodiac}
}

// GET /api/responses/session/:sid/zodiac-scores
func (h *ZodiacHandler) Calculate(c *gin.Context) {
	result, err := h.zodiac.Calculate(dbctx.Context{Ctx: c.Request.Context()}, c.Param("sid"))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"result": result})
}

// GET /api/zodiac/scoring/stats
func (h *ZodiacHandler) Stats(c *gin.Context) {
	stats, err := h.zodiac.Stats(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"stats": stats})
}

// POST /api/zodiac/scoring
func (h *ZodiacHandler) CreateScoring(c *gin.Context) {
	var req services.ScoringInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	created, err := h.zodiac.CreateScoring(dbctx.Context{Ctx: c.Request.Context()}, req)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"scoring": created})
}

// POST /api/zodiac/scoring/bulk
func (h *ZodiacHandler) CreateScoringBatch(c *gin.Context) {
	var req struct {
		Entries []services.ScoringInput `json:"entries"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	created, err := h.zodiac.CreateScoringBatch(dbctx.Context{Ctx: c.Request.Context()}, req.Entries)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"scoring": created})
}

// GET /api/zodiac/scoring/option/:id
func (h *ZodiacHandler) GetScoringByOption(c *gin.Context) {
	rows, err := h.zodiac.GetScoringByOption(dbctx.Context{Ctx: c.Request.Context()}, c.Param("id"))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"scoring": rows})
}

// GET /api/zodiac/scoring/sign/:sign
func (h *ZodiacHandler) GetScoringBySign(c *gin.Context) {
	rows, err := h.zodiac.GetScoringBySign(dbctx.Context{Ctx: c.Request.Context()}, c.Param("sign"))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"scoring": rows})
}

// PATCH /api/zodiac/scoring/:id
func (h *ZodiacHandler) UpdateScoring(c *gin.Context) {
	var req struct {
		ScoreValue int `json:"scoreValue"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	updated, err := h.zodiac.UpdateScoring(dbctx.Context{Ctx: c.Request.Context()}, c.Param("id"), req.ScoreValue)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"scoring": updated})
}

// DELETE /api/zodiac/scoring/:id
func (h *ZodiacHandler) DeleteScoring(c *gin.Context) {
	if err := h.zodiac.DeleteScoring(dbctx.Context{Ctx: c.Request.Context()}, c.Param("id")); err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOKMessage(c, nil, "Scoring entry deleted")
}
