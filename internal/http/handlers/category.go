package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/starsignlabs/zodiac-backend/internal/http/response"
	"github.com/starsignlabs/zodiac-backend/internal/platform/dbctx"
	"github.com/starsignlabs/zodiac-backend/internal/services"
)

type CategoryHandler struct {
	categories services.CategoryService
	questions  services.QuestionService
}

func NewCategoryHandler(categories services.CategoryService, questions services.QuestionService) *CategoryHandler {
	return &CategoryHandler{categories: categories, questions: questions}
}

// GET /api/categories
func (h *CategoryHandler) List(c *gin.Context) {
	rows, err := h.categories.GetAll(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"categories": rows})
}

// GET /api/categories/:id
func (h *CategoryHandler) Get(c *gin.Context) {
	row, err := h.categories.GetByID(dbctx.Context{Ctx: c.Request.Context()}, c.Param("id"))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"category": row})
}

// GET /api/categories/:id/questions
func (h *CategoryHandler) ListQuestions(c *gin.Context) {
	rows, err := h.questions.GetByCategory(dbctx.Context{Ctx: c.Request.Context()}, c.Param("id"))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"questions": rows})
}

// POST /api/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req services.CreateCategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	created, err := h.categories.Create(dbctx.Context{Ctx: c.Request.Context()}, req)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"category": created})
}

// PATCH /api/categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	var req services.UpdateCategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	updated, err := h.categories.Update(dbctx.Context{Ctx: c.Request.Context()}, c.Param("id"), req)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"category": updated})
}

// DELETE /api/categories/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.categories.Delete(dbctx.Context{Ctx: c.Request.Context()}, c.Param("id")); err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOKMessage(c, nil, "Category deleted")
}
