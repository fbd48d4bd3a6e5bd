package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/appeal-routing-api/internal/dto"
	"github.com/noah-isme/appeal-routing-api/internal/middleware"
	"github.com/noah-isme/appeal-routing-api/internal/models"
	"github.com/noah-isme/appeal-routing-api/internal/service"
	appErrors "github.com/noah-isme/appeal-routing-api/pkg/errors"
)

type applicationServiceMock struct {
	submitted  dto.SubmitApplicationRequest
	listRole   models.Role
	listFilter models.ApplicationFilter
	applied    dto.ActionRequest
	actor      service.Actor
	trackedBy  string
	app        *models.Application
	err        error
}

func (m *applicationServiceMock) Submit(ctx context.Context, req dto.SubmitApplicationRequest) (*models.Application, error) {
	m.submitted = req
	return m.app, m.err
}

func (m *applicationServiceMock) List(ctx context.Context, role models.Role, filter models.ApplicationFilter) ([]models.Application, error) {
	m.listRole, m.listFilter = role, filter
	if m.err != nil {
		return nil, m.err
	}
	return []models.Application{*m.app}, nil
}

func (m *applicationServiceMock) Stats(ctx context.Context, role models.Role) (models.ApplicationStats, error) {
	return models.ApplicationStats{Total: 1, Pending: 1}, m.err
}

func (m *applicationServiceMock) Get(ctx context.Context, role models.Role, id string) (*models.Application, error) {
	return m.app, m.err
}

func (m *applicationServiceMock) Track(ctx context.Context, id, submitterID string) (*models.Application, error) {
	m.trackedBy = submitterID
	return m.app, m.err
}

func (m *applicationServiceMock) Apply(ctx context.Context, id string, actor service.Actor, req dto.ActionRequest) (*models.Application, error) {
	m.applied, m.actor = req, actor
	return m.app, m.err
}

type exportServiceMock struct {
	file *service.ExportFile
	err  error
}

func (m *exportServiceMock) Export(ctx context.Context, role models.Role, filter models.ApplicationFilter, format string) (*service.ExportFile, error) {
	return m.file, m.err
}

func pendingApp() *models.Application {
	return &models.Application{
		ID: "APP-2025-004", StudentID: "2021-CS-023", StudentName: "Sarah Johnson",
		Type: models.AppealCrossDepartment, Status: models.StatusPending, CurrentStage: models.StageDirector,
		Stages: models.Stages{
			{Name: models.StageCourseCoordinator, Status: models.StatusApproved},
			{Name: models.StageDirector, Status: models.StatusPending},
		},
	}
}

func newTestContext(method, target string, body interface{}, claims *models.JWTClaims) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}
	req, _ := http.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	return c, w
}

func TestApplicationHandlerSubmitUsesTokenIdentity(t *testing.T) {
	svc := &applicationServiceMock{app: pendingApp()}
	h := NewApplicationHandler(svc, nil)
	claims := &models.JWTClaims{UserID: "2021-CS-023", Role: models.RoleStudent, Email: "sarah@university.edu", FullName: "Sarah Johnson"}
	c, w := newTestContext(http.MethodPost, "/applications", dto.SubmitApplicationRequest{
		StudentID: "someone-else", Type: models.AppealLeave, Reason: "Family emergency abroad.",
	}, claims)

	h.Submit(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "2021-CS-023", svc.submitted.StudentID)
	assert.Equal(t, "Sarah Johnson", svc.submitted.StudentName)
	assert.Equal(t, "sarah@university.edu", svc.submitted.StudentEmail)
}

func TestApplicationHandlerSubmitInvalidBody(t *testing.T) {
	h := NewApplicationHandler(&applicationServiceMock{}, nil)
	c, w := newTestContext(http.MethodPost, "/applications", "invalid", &models.JWTClaims{UserID: "s", Role: models.RoleStudent})

	h.Submit(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApplicationHandlerListPassesRoleAndFilter(t *testing.T) {
	svc := &applicationServiceMock{app: pendingApp()}
	h := NewApplicationHandler(svc, nil)
	c, w := newTestContext(http.MethodGet, "/applications?search=sarah&status=pending&type=all", nil, &models.JWTClaims{Role: models.RoleDirector})

	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.RoleDirector, svc.listRole)
	assert.Equal(t, models.ApplicationFilter{Search: "sarah", Status: "pending", Type: "all"}, svc.listFilter)
	var body struct {
		Data []models.Application  `json:"data"`
		Meta map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "APP-2025-004", body.Data[0].ID)
	assert.EqualValues(t, 1, body.Meta["total"])
}

func TestApplicationHandlerRequiresClaims(t *testing.T) {
	h := NewApplicationHandler(&applicationServiceMock{app: pendingApp()}, &exportServiceMock{})
	for name, fn := range map[string]gin.HandlerFunc{
		"list": h.List, "stats": h.Stats, "get": h.Get, "act": h.Act, "track": h.Track, "export": h.Export, "submit": h.Submit,
	} {
		c, w := newTestContext(http.MethodGet, "/", nil, nil)
		fn(c)
		assert.Equal(t, http.StatusUnauthorized, w.Code, name)
	}
}

func TestApplicationHandlerActBuildsActorAndMessage(t *testing.T) {
	svc := &applicationServiceMock{app: pendingApp()}
	h := NewApplicationHandler(svc, nil)
	claims := &models.JWTClaims{UserID: "u-7", Role: models.RoleTeacher, FullName: "Dr. Smith"}
	c, w := newTestContext(http.MethodPost, "/applications/APP-2025-004/actions", map[string]string{"action": "Approve"}, claims)
	c.Params = gin.Params{{Key: "id", Value: "APP-2025-004"}}

	h.Act(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.Actor{UserID: "u-7", Role: models.RoleTeacher, Name: "Dr. Smith"}, svc.actor)
	assert.Equal(t, models.ActionApprove, svc.applied.Action)
	var body struct {
		Data dto.ActionResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Application APP-2025-004 approved at this stage and sent to Director", body.Data.Message)
}

func TestApplicationHandlerActMapsDomainErrors(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{appErrors.Clone(appErrors.ErrStageMismatch, ""), http.StatusForbidden},
		{appErrors.ErrMissingReason, http.StatusBadRequest},
		{appErrors.Clone(appErrors.ErrAlreadyDecided, "already approved"), http.StatusConflict},
		{appErrors.ErrNotFound, http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		h := NewApplicationHandler(&applicationServiceMock{err: tc.err}, nil)
		c, w := newTestContext(http.MethodPost, "/applications/APP-1/actions", map[string]string{"action": "reject"}, &models.JWTClaims{Role: models.RoleDirector})
		c.Params = gin.Params{{Key: "id", Value: "APP-1"}}
		h.Act(c)
		assert.Equal(t, tc.code, w.Code, tc.err.Error())
	}
}

func TestApplicationHandlerTrackUsesCaller(t *testing.T) {
	svc := &applicationServiceMock{app: pendingApp()}
	h := NewApplicationHandler(svc, nil)
	c, w := newTestContext(http.MethodGet, "/track/APP-2025-004", nil, &models.JWTClaims{UserID: "2021-CS-023", Role: models.RoleStudent})
	c.Params = gin.Params{{Key: "id", Value: "APP-2025-004"}}

	h.Track(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2021-CS-023", svc.trackedBy)
}

func TestApplicationHandlerExport(t *testing.T) {
	claims := &models.JWTClaims{Role: models.RoleViceChancellor}

	disabled := NewApplicationHandler(&applicationServiceMock{}, nil)
	c, w := newTestContext(http.MethodGet, "/applications/export", nil, claims)
	disabled.Export(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	h := NewApplicationHandler(&applicationServiceMock{}, &exportServiceMock{file: &service.ExportFile{
		Filename: "applications.csv", ContentType: "text/csv", Payload: []byte("ID\nAPP-1\n"),
	}})
	c, w = newTestContext(http.MethodGet, "/applications/export?format=csv", nil, claims)
	h.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="applications.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "ID\nAPP-1\n", w.Body.String())
}
