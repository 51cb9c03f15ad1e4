package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/starsignlabs/zodiac-backend/internal/http/response"
	"github.com/starsignlabs/zodiac-backend/internal/platform/dbctx"
	"github.com/starsignlabs/zodiac-backend/internal/services"
)

type ResponseHandler struct {
	responses services.ResponseService
}

func NewResponseHandler(responses services.ResponseService) *ResponseHandler {
	return &ResponseHandler{responses: responses}
}

// POST /api/responses
func (h *ResponseHandler) Create(c *gin.Context) {
	var req services.CreateResponseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	created, err := h.responses.Upsert(dbctx.Context{Ctx: c.Request.Context()}, req)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"response": created})
}

// POST /api/responses/validate
func (h *ResponseHandler) Validate(c *gin.Context) {
	var req services.CreateResponseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	validation, err := h.responses.Validate(dbctx.Context{Ctx: c.Request.Context()}, req)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"validation": validation})
}

// POST /api/responses/bulk
func (h *ResponseHandler) BulkCreate(c *gin.Context) {
	var req struct {
		Responses []services.CreateResponseInput `json:"responses"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := h.responses.BulkCreate(dbctx.Context{Ctx: c.Request.Context()}, req.Responses)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	if len(result.Failed) > 0 {
		response.RespondMultiStatus(c, result, "Some responses could not be saved")
		return
	}
	response.RespondCreated(c, result)
}

// GET /api/responses/session/:sid
func (h *ResponseHandler) GetBySession(c *gin.Context) {
	rows, err := h.responses.GetDetailed(dbctx.Context{Ctx: c.Request.Context()}, c.Param("sid"))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"responses": rows})
}

// GET /api/responses/session/:sid/stats
func (h *ResponseHandler) SessionStats(c *gin.Context) {
	stats, err := h.responses.SessionStats(dbctx.Context{Ctx: c.Request.Context()}, c.Param("sid"))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"stats": stats})
}

// GET /api/responses/session/:sid/progress
func (h *ResponseHandler) CompletionProgress(c *gin.Context) {
	h.completionProgress(c, c.Param("sid"))
}

// GET /api/sessions/:id/progress
func (h *ResponseHandler) SessionProgress(c *gin.Context) {
	h.completionProgress(c, c.Param("id"))
}

func (h *ResponseHandler) completionProgress(c *gin.Context, sessionID string) {
	progress, err := h.responses.CompletionProgress(dbctx.Context{Ctx: c.Request.Context()}, sessionID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"progress": progress})
}

// GET /api/responses/session/:sid/question/:qid
func (h *ResponseHandler) GetBySessionAndQuestion(c *gin.Context) {
	row, err := h.responses.GetBySessionAndQuestion(
		dbctx.Context{Ctx: c.Request.Context()}, c.Param("sid"), c.Param("qid"))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"response": row})
}

// PATCH /api/responses/:id
func (h *ResponseHandler) Update(c *gin.Context) {
	var req struct {
		SelectedOptionID string `json:"selectedOptionId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	updated, err := h.responses.Update(dbctx.Context{Ctx: c.Request.Context()}, c.Param("id"), req.SelectedOptionID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"response": updated})
}

// DELETE /api/responses/:id
func (h *ResponseHandler) Delete(c *gin.Context) {
	if err := h.responses.Delete(dbctx.Context{Ctx: c.Request.Context()}, c.Param("id")); err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOKMessage(c, nil, "Response deleted")
}

// DELETE /api/responses/session/:sid
func (h *ResponseHandler) DeleteBySession(c *gin.Context) {
	n, err := h.responses.DeleteBySession(dbctx.Context{Ctx: c.Request.Context()}, c.Param("sid"))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOKMessage(c, gin.H{"deleted": n}, "Responses deleted")
}
