package handlers

import (
	"mime/multipart"
	"net/http"
	"strings"

	"jobboard_backend/internal/middleware"
	"jobboard_backend/internal/services"
	"jobboard_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	*BaseHandler
	applicationService services.ApplicationService
}

func NewApplicationHandler(base *BaseHandler, applicationService services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		BaseHandler:        base,
		applicationService: applicationService,
	}
}

func (h *ApplicationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	nested := rg.Group("/jobs/:id/applications")
	nested.Use(middleware.AuthMiddleware())
	{
		nested.POST("", h.ApplyToJob)
		nested.GET("", h.ListJobApplications)
	}

	apps := rg.Group("/applications")
	apps.Use(middleware.AuthMiddleware())
	{
		apps.GET("", h.ListApplications)
		apps.POST("", h.CreateApplication)
		apps.GET("/:id", h.GetApplication)
		apps.PATCH("/:id", h.UpdateApplication)
		apps.DELETE("/:id", h.DeleteApplication)
		apps.PATCH("/:id/status", h.UpdateStatus)
		apps.POST("/:id/withdraw", h.Withdraw)
	}
}

func (h *ApplicationHandler) ApplyToJob(c *gin.Context) {
	jobID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.create(c, &jobID)
}

// CreateApplication takes the job from the job_id body field.
func (h *ApplicationHandler) CreateApplication(c *gin.Context) {
	h.create(c, nil)
}

func (h *ApplicationHandler) create(c *gin.Context, jobID *uint) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	var req dto.CreateApplicationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	if jobID != nil {
		req.JobID = *jobID
	}
	req.Resume = optionalFile(c, "resume")
	req.CoverLetter = optionalFile(c, "cover_letter")

	app, err := h.applicationService.Create(c.Request.Context(), h.GetDB(c), caller, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	h.list(c, nil)
}

func (h *ApplicationHandler) ListJobApplications(c *gin.Context) {
	jobID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.list(c, &jobID)
}

func (h *ApplicationHandler) list(c *gin.Context, jobID *uint) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	var query dto.ApplicationListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}
	page, pageSize := ParsePagination(c)

	apps, err := h.applicationService.List(c.Request.Context(), h.GetDB(c), caller, jobID, &query, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}
	id, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	app, err := h.applicationService.Get(c.Request.Context(), h.GetDB(c), caller, id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) UpdateApplication(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}
	id, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var req dto.UpdateApplicationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	req.Resume = optionalFile(c, "resume")
	req.CoverLetter = optionalFile(c, "cover_letter")

	app, err := h.applicationService.UpdateDetails(c.Request.Context(), h.GetDB(c), caller, id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}
	id, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var req dto.UpdateStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	app, err := h.applicationService.UpdateStatus(c.Request.Context(), h.GetDB(c), caller, id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}
	id, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	app, err := h.applicationService.Withdraw(c.Request.Context(), h.GetDB(c), caller, id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) DeleteApplication(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}
	id, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if err := h.applicationService.Delete(c.Request.Context(), h.GetDB(c), caller, id); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// optionalFile returns the uploaded file for field, or nil for non-multipart
// requests and missing fields.
func optionalFile(c *gin.Context, field string) *multipart.FileHeader {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return nil
	}
	file, err := c.FormFile(field)
	if err != nil {
		return nil
	}
	return file
}
