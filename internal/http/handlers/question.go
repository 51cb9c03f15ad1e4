package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/starsignlabs/zodiac-backend/internal/http/response"
	"github.com/starsignlabs/zodiac-backend/internal/platform/dbctx"
	"github.com/starsignlabs/zodiac-backend/internal/services"
)

type QuestionHandler struct {
	questions services.QuestionService
}

func NewQuestionHandler(questions services.QuestionService) *QuestionHandler {
	return &QuestionHandler{questions: questions}
}

// GET /api/questions
func (h *QuestionHandler) List(c *gin.Context) {
	rows, err := h.questions.GetAll(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"questions": rows})
}

// GET /api/questions/:id
func (h *QuestionHandler) Get(c *gin.Context) {
	row, err := h.questions.GetWithOptions(dbctx.Context{Ctx: c.Request.Context()}, c.Param("id"))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"question": row})
}

// GET /api/questions/:id/options
func (h *QuestionHandler) ListOptions(c *gin.Context) {
	rows, err := h.questions.GetOptions(dbctx.Context{Ctx: c.Request.Context()}, c.Param("id"))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"options": rows})
}

// POST /api/questions
func (h *QuestionHandler) Create(c *gin.Context) {
	var req services.CreateQuestionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	created, err := h.questions.Create(dbctx.Context{Ctx: c.Request.Context()}, req)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"question": created})
}

// POST /api/questions/:id/options
func (h *QuestionHandler) CreateOption(c *gin.Context) {
	var req services.CreateOptionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	req.QuestionID = c.Param("id")
	created, err := h.questions.CreateOption(dbctx.Context{Ctx: c.Request.Context()}, req)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"option": created})
}

// PATCH /api/questions/:id
func (h *QuestionHandler) Update(c *gin.Context) {
	var req services.UpdateQuestionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	updated, err := h.questions.Update(dbctx.Context{Ctx: c.Request.Context()}, c.Param("id"), req)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"question": updated})
}

// DELETE /api/questions/:id
func (h *QuestionHandler) Delete(c *gin.Context) {
	if err := h.questions.Delete(dbctx.Context{Ctx: c.Request.Context()}, c.Param("id")); err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOKMessage(c, nil, "Question deleted")
}

// DELETE /api/questions/options/:id
func (h *QuestionHandler) DeleteOption(c *gin.Context) {
	if err := h.questions.DeleteOption(dbctx.Context{Ctx: c.Request.Context()}, c.Param("id")); err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOKMessage(c, nil, "Option deleted")
}
