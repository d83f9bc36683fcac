package handlers

import (
	"net/http"

	"jobboard_backend/internal/middleware"
	"jobboard_backend/internal/services"
	"jobboard_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	*BaseHandler
	reviewService services.ReviewService
}

func NewReviewHandler(base *BaseHandler, reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler:   base,
		reviewService: reviewService,
	}
}

func (h *ReviewHandler) RegisterRoutes(r *gin.RouterGroup) {
	reviews := r.Group("/jobs/:id/reviews")
	reviews.Use(middleware.AuthMiddleware())
	{
		reviews.GET("", h.ListReviews)
		reviews.POST("", h.CreateReview)
		reviews.GET("/:reviewId", h.GetReview)
		reviews.PUT("/:reviewId", h.UpdateReview)
		reviews.PATCH("/:reviewId", h.UpdateReview)
		reviews.DELETE("/:reviewId", h.DeleteReview)
	}
}

func (h *ReviewHandler) ListReviews(c *gin.Context) {
	jobID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	page, pageSize := ParsePagination(c)

	reviews, err := h.reviewService.List(c.Request.Context(), h.GetDB(c), jobID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) GetReview(c *gin.Context) {
	jobID, reviewID, ok := h.reviewIDs(c)
	if !ok {
		return
	}

	review, err := h.reviewService.Get(c.Request.Context(), h.GetDB(c), jobID, reviewID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}
	jobID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var req dto.CreateReviewRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	review, err := h.reviewService.Create(c.Request.Context(), h.GetDB(c), caller, jobID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}
	jobID, reviewID, ok := h.reviewIDs(c)
	if !ok {
		return
	}

	var req dto.UpdateReviewRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	review, err := h.reviewService.Update(c.Request.Context(), h.GetDB(c), caller, jobID, reviewID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}
	jobID, reviewID, ok := h.reviewIDs(c)
	if !ok {
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), h.GetDB(c), caller, jobID, reviewID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ReviewHandler) reviewIDs(c *gin.Context) (uint, uint, bool) {
	jobID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return 0, 0, false
	}
	reviewID, err := ParseParamID(c, "reviewId")
	if err != nil {
		h.HandleServiceError(c, err)
		return 0, 0, false
	}
	return jobID, reviewID, true
}
