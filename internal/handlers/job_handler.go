package handlers

import (
	"net/http"

	"jobboard_backend/internal/middleware"
	"jobboard_backend/internal/services"
	"jobboard_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	*BaseHandler
	jobService services.JobService
	publicRead bool
}

func NewJobHandler(base *BaseHandler, jobService services.JobService, publicRead bool) *JobHandler {
	return &JobHandler{
		BaseHandler: base,
		jobService:  jobService,
		publicRead:  publicRead,
	}
}

func (h *JobHandler) RegisterRoutes(rg *gin.RouterGroup) {
	read := rg.Group("/jobs")
	read.Use(middleware.ReadAccessMiddleware(h.publicRead))
	{
		read.GET("", h.ListJobs)
		read.GET("/featured", h.FeaturedJobs)
		read.GET("/:id", h.GetJob)
	}

	jobs := rg.Group("/jobs")
	jobs.Use(middleware.AuthMiddleware())
	{
		jobs.POST("", h.CreateJob)
		jobs.PUT("/:id", h.UpdateJob)
		jobs.PATCH("/:id", h.UpdateJob)
		jobs.DELETE("/:id", h.DeleteJob)
		jobs.GET("/:id/has-applied", h.HasApplied)
		jobs.GET("/:id/can-review", h.CanReview)
	}
}

func (h *JobHandler) ListJobs(c *gin.Context) {
	var query dto.JobListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}
	page, pageSize := ParsePagination(c)

	jobs, err := h.jobService.List(c.Request.Context(), h.GetDB(c), &query, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (h *JobHandler) FeaturedJobs(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	jobs, err := h.jobService.Featured(c.Request.Context(), h.GetDB(c), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (h *JobHandler) GetJob(c *gin.Context) {
	jobID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	job, err := h.jobService.Get(c.Request.Context(), h.GetDB(c), h.OptionalCaller(c), jobID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) CreateJob(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	var req dto.CreateJobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	job, err := h.jobService.Create(c.Request.Context(), h.GetDB(c), caller, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

func (h *JobHandler) UpdateJob(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}
	jobID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var req dto.UpdateJobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	job, err := h.jobService.Update(c.Request.Context(), h.GetDB(c), caller, jobID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) DeleteJob(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}
	jobID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if err := h.jobService.Delete(c.Request.Context(), h.GetDB(c), caller, jobID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *JobHandler) HasApplied(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}
	jobID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	resp, err := h.jobService.HasApplied(c.Request.Context(), h.GetDB(c), caller, jobID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *JobHandler) CanReview(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}
	jobID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	resp, err := h.jobService.CanReview(c.Request.Context(), h.GetDB(c), caller, jobID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
