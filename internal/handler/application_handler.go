package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/appeal-routing-api/internal/dto"
	"github.com/noah-isme/appeal-routing-api/internal/models"
	"github.com/noah-isme/appeal-routing-api/internal/service"
	appErrors "github.com/noah-isme/appeal-routing-api/pkg/errors"
	"github.com/noah-isme/appeal-routing-api/pkg/response"
)

type applicationService interface {
	Submit(ctx context.Context, req dto.SubmitApplicationRequest) (*models.Application, error)
	List(ctx context.Context, role models.Role, filter models.ApplicationFilter) ([]models.Application, error)
	Stats(ctx context.Context, role models.Role) (models.ApplicationStats, error)
	Get(ctx context.Context, role models.Role, id string) (*models.Application, error)
	Track(ctx context.Context, id, submitterID string) (*models.Application, error)
	Apply(ctx context.Context, id string, actor service.Actor, req dto.ActionRequest) (*models.Application, error)
}

type exportService interface {
	Export(ctx context.Context, role models.Role, filter models.ApplicationFilter, format string) (*service.ExportFile, error)
}

// ApplicationHandler exposes the appeal portal endpoints.
type ApplicationHandler struct {
	service applicationService
	export  exportService
}

// NewApplicationHandler constructs the handler. export may be nil when exports are disabled.
func NewApplicationHandler(service applicationService, export exportService) *ApplicationHandler {
	return &ApplicationHandler{service: service, export: export}
}

// Submit godoc
// @Summary Submit an appeal application
// @Tags Applications
// @Accept json
// @Produce json
// @Param payload body dto.SubmitApplicationRequest true "Application payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /applications [post]
func (h *ApplicationHandler) Submit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid application payload"))
		return
	}
	// The token is authoritative for who is submitting.
	req.StudentID = claims.UserID
	if strings.TrimSpace(req.StudentName) == "" {
		req.StudentName = claims.FullName
	}
	if strings.TrimSpace(req.StudentEmail) == "" {
		req.StudentEmail = claims.Email
	}

	app, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, app)
}

// List godoc
// @Summary List applications visible to the caller
// @Tags Applications
// @Produce json
// @Param search query string false "Matches id, student id or name"
// @Param status query string false "pending, approved, rejected or all"
// @Param type query string false "Appeal type or all"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /applications [get]
func (h *ApplicationHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var query dto.ApplicationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid query parameters"))
		return
	}
	apps, err := h.service.List(c.Request.Context(), claims.Role, query.Filter())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, apps, map[string]interface{}{"total": len(apps)})
}

// Stats godoc
// @Summary Count visible applications by status
// @Tags Applications
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /applications/stats [get]
func (h *ApplicationHandler) Stats(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	stats, err := h.service.Stats(c.Request.Context(), claims.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats)
}

// Export godoc
// @Summary Download the visible listing
// @Tags Applications
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Param search query string false "Matches id, student id or name"
// @Param status query string false "pending, approved, rejected or all"
// @Param type query string false "Appeal type or all"
// @Success 200 {file} file
// @Router /applications/export [get]
func (h *ApplicationHandler) Export(c *gin.Context) {
	if h.export == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "export is disabled"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var query dto.ApplicationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid query parameters"))
		return
	}
	file, err := h.export.Export(c.Request.Context(), claims.Role, query.Filter(), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}

// Get godoc
// @Summary Get application detail
// @Tags Applications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /applications/{id} [get]
func (h *ApplicationHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	app, err := h.service.Get(c.Request.Context(), claims.Role, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, app)
}

// Act godoc
// @Summary Approve, reject, hold or forward the current stage
// @Tags Applications
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param payload body dto.ActionRequest true "Action payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /applications/{id}/actions [post]
func (h *ApplicationHandler) Act(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid action payload"))
		return
	}
	req.Action = models.Action(strings.ToLower(strings.TrimSpace(string(req.Action))))
	app, err := h.service.Apply(c.Request.Context(), c.Param("id"), actorFromClaims(claims), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.ActionResult{
		Application: *app,
		Action:      req.Action,
		Message:     service.ActionMessage(req.Action, *app),
	})
}

// Track godoc
// @Summary Track the caller's own application
// @Tags Tracking
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /track/{id} [get]
func (h *ApplicationHandler) Track(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	app, err := h.service.Track(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, app)
}
