package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/Mahaswami/exam-prep-sub000/internal/model"
	"github.com/Mahaswami/exam-prep-sub000/internal/service"
	"github.com/Mahaswami/exam-prep-sub000/internal/util"
	"github.com/gin-gonic/gin"
)

// RoundService is the part of service.RoundService the HTTP layer uses.
type RoundService interface {
	StartRevision(ctx context.Context, userID, conceptID uint) (*service.RoundDetail, error)
	StartTest(ctx context.Context, userID, conceptID uint) (*service.RoundDetail, error)
	StartDiagnostic(ctx context.Context, userID, chapterID uint) (*service.RoundDetail, error)
	GetRound(ctx context.Context, roundID string) (*service.RoundDetail, error)
	CompleteRound(ctx context.Context, roundID string, answers []service.Answer) (*service.RoundResult, error)
	ConceptStates(ctx context.Context, userID uint) ([]model.ConceptState, error)
}

type RoundController struct {
	Service RoundService
}

func NewRoundController(svc RoundService) *RoundController {
	return &RoundController{Service: svc}
}

type CompleteRoundReq struct {
	Answers []service.Answer `json:"answers" binding:"dive"`
}

// @Summary Start a revision round
// @Description Draws up to 10 unseen questions of a concept, stratified by difficulty and type
// @Tags rounds
// @Produce json
// @Param userId path int true "Student ID"
// @Param conceptId path int true "Concept ID"
// @Success 201 {object} util.Response{data=service.RoundDetail}
// @Failure 404 {object} util.Response
// @Failure 422 {object} util.Response
// @Router /api/students/{userId}/concepts/{conceptId}/revision-rounds [post]
func (c *RoundController) StartRevision(ctx *gin.Context) {
	userID, conceptID, ok := pathIDs(ctx, "userId", "conceptId")
	if !ok {
		return
	}

	detail, err := c.Service.StartRevision(ctx.Request.Context(), userID, conceptID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, detail)
}

// @Summary Start a test round
// @Description Draws a marked test from the concept's questions not used in earlier rounds
// @Tags rounds
// @Produce json
// @Param userId path int true "Student ID"
// @Param conceptId path int true "Concept ID"
// @Success 201 {object} util.Response{data=service.RoundDetail}
// @Failure 404 {object} util.Response
// @Failure 422 {object} util.Response
// @Router /api/students/{userId}/concepts/{conceptId}/test-rounds [post]
func (c *RoundController) StartTest(ctx *gin.Context) {
	userID, conceptID, ok := pathIDs(ctx, "userId", "conceptId")
	if !ok {
		return
	}

	detail, err := c.Service.StartTest(ctx.Request.Context(), userID, conceptID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, detail)
}

// @Summary Start a chapter diagnostic
// @Description Allocates MCQs across every concept of the chapter
// @Tags rounds
// @Produce json
// @Param userId path int true "Student ID"
// @Param chapterId path int true "Chapter ID"
// @Success 201 {object} util.Response{data=service.RoundDetail}
// @Failure 404 {object} util.Response
// @Failure 422 {object} util.Response
// @Router /api/students/{userId}/chapters/{chapterId}/diagnostic-rounds [post]
func (c *RoundController) StartDiagnostic(ctx *gin.Context) {
	userID, chapterID, ok := pathIDs(ctx, "userId", "chapterId")
	if !ok {
		return
	}

	detail, err := c.Service.StartDiagnostic(ctx.Request.Context(), userID, chapterID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, detail)
}

// @Summary Get a round
// @Tags rounds
// @Produce json
// @Param id path string true "Round ID"
// @Success 200 {object} util.Response{data=service.RoundDetail}
// @Failure 404 {object} util.Response
// @Router /api/rounds/{id} [get]
func (c *RoundController) GetRound(ctx *gin.Context) {
	detail, err := c.Service.GetRound(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// @Summary Complete a round
// @Description Records answers and, for diagnostic and test rounds, rescores the concepts covered
// @Tags rounds
// @Accept json
// @Produce json
// @Param id path string true "Round ID"
// @Param body body CompleteRoundReq true "Answers"
// @Success 200 {object} util.Response{data=service.RoundResult}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/rounds/{id}/complete [post]
func (c *RoundController) CompleteRound(ctx *gin.Context) {
	var req CompleteRoundReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Service.CompleteRound(ctx.Request.Context(), ctx.Param("id"), req.Answers)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary List a student's concept comfort levels
// @Tags rounds
// @Produce json
// @Param userId path int true "Student ID"
// @Success 200 {object} util.Response{data=[]model.ConceptState}
// @Router /api/students/{userId}/concept-states [get]
func (c *RoundController) ConceptStates(ctx *gin.Context) {
	userID, err := util.ParseID(ctx.Param("userId"))
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	states, err := c.Service.ConceptStates(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, states)
}

func pathIDs(ctx *gin.Context, first, second string) (uint, uint, bool) {
	a, err := util.ParseID(ctx.Param(first))
	if err != nil {
		util.BadRequest(ctx, first+": "+err.Error())
		return 0, 0, false
	}
	b, err := util.ParseID(ctx.Param(second))
	if err != nil {
		util.BadRequest(ctx, second+": "+err.Error())
		return 0, 0, false
	}
	return a, b, true
}

func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrRoundNotFound),
		errors.Is(err, util.ErrConceptNotFound),
		errors.Is(err, util.ErrChapterNotFound):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, util.ErrRoundAlreadyCompleted):
		util.Error(ctx, http.StatusConflict, err.Error())
	case errors.Is(err, util.ErrInsufficientQuestions),
		errors.Is(err, util.ErrDiagnosticUnavailable):
		util.Error(ctx, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, util.ErrInvalidAnswer):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
