package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NovaGest/crm_service/internal/domain"
	"github.com/NovaGest/crm_service/internal/dto"
	"github.com/NovaGest/crm_service/internal/helper"
	"github.com/NovaGest/crm_service/internal/repository"
	"github.com/NovaGest/crm_service/internal/services"
	"github.com/NovaGest/crm_service/pkg/ratelimit"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	testAccessSecret = "test-access-secret"
	testAdminSecret  = "test-admin-secret"
)

type noopSink struct{}

func (noopSink) Record(dto.AuditEvent) {}

type consentApp struct {
	app  *fiber.App
	db   *gorm.DB
	auth helper.Auth
}

func newConsentApp(t *testing.T) *consentApp {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&domain.Cliente{},
		&domain.Consentimento{},
		&domain.AuditLog{},
	))

	auth := helper.SetupAuth(testAccessSecret)
	svc := services.NewConsentService(
		repository.NewConsentRepository(db),
		repository.NewClienteRepository(db),
		noopSink{},
		"https://crm.example.pt",
		"v1",
	)

	app := fiber.New()
	limiter := ratelimit.NewMemoryLimiter(100, time.Minute)
	NewConsentHandler(svc, auth).SetupRoutes(app, limiter, testAdminSecret)

	return &consentApp{app: app, db: db, auth: auth}
}

func (a *consentApp) seedCliente(t *testing.T, tenantID uint) *domain.Cliente {
	t.Helper()
	cliente := &domain.Cliente{TenantID: tenantID, Nome: "Teresa Pinto Alves", Estado: domain.EstadoPendente}
	require.NoError(t, a.db.Create(cliente).Error)
	return cliente
}

func (a *consentApp) gestorToken(t *testing.T, tenantID uint) string {
	t.Helper()
	token, err := a.auth.GenerateToken(10, "gestor@example.pt", domain.RoleGestor, tenantID)
	require.NoError(t, err)
	return token
}

func jsonRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestGenerateRequiresSession(t *testing.T) {
	a := newConsentApp(t)
	cliente := a.seedCliente(t, 7)

	req := jsonRequest(http.MethodPost, "/api/consent/generate", fiber.Map{"cliente_id": cliente.ID})
	resp, err := a.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGenerateRejectsParceiro(t *testing.T) {
	a := newConsentApp(t)
	cliente := a.seedCliente(t, 7)

	token, err := a.auth.GenerateToken(11, "parceiro@example.pt", domain.RoleParceiro, 7)
	require.NoError(t, err)

	req := jsonRequest(http.MethodPost, "/api/consent/generate", fiber.Map{"cliente_id": cliente.ID})
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := a.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestConsentHTTPRoundTrip(t *testing.T) {
	a := newConsentApp(t)
	cliente := a.seedCliente(t, 7)
	session := a.gestorToken(t, 7)

	// issue
	req := jsonRequest(http.MethodPost, "/api/consent/generate", fiber.Map{"cliente_id": cliente.ID})
	req.Header.Set("Authorization", "Bearer "+session)
	resp, err := a.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	issued := decodeBody[dto.GenerateConsentResponse](t, resp)
	require.NotEmpty(t, issued.Token)
	assert.Contains(t, issued.Link, issued.Token)

	// public verify
	resp, err = a.app.Test(httptest.NewRequest(http.MethodGet, "/api/consent/verify?token="+issued.Token, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	verified := decodeBody[dto.VerifyConsentResponse](t, resp)
	assert.Equal(t, domain.ConsentPendente, verified.Status)
	assert.Equal(t, "Teresa", verified.ClienteNome)

	// accept
	resp, err = a.app.Test(jsonRequest(http.MethodPost, "/api/consent/accept", fiber.Map{"token": issued.Token}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	accepted := decodeBody[map[string]bool](t, resp)
	assert.True(t, accepted["success"])

	// replay: the burned token no longer resolves
	resp, err = a.app.Test(jsonRequest(http.MethodPost, "/api/consent/accept", fiber.Map{"token": issued.Token}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// verify now reports invalido
	resp, err = a.app.Test(httptest.NewRequest(http.MethodGet, "/api/consent/verify?token="+issued.Token, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	verified = decodeBody[dto.VerifyConsentResponse](t, resp)
	assert.Equal(t, dto.ConsentStatusInvalido, verified.Status)
}

func TestCrossTenantGenerateIsNotFound(t *testing.T) {
	a := newConsentApp(t)
	cliente := a.seedCliente(t, 99)
	session := a.gestorToken(t, 7)

	req := jsonRequest(http.MethodPost, "/api/consent/generate", fiber.Map{"cliente_id": cliente.ID})
	req.Header.Set("Authorization", "Bearer "+session)
	resp, err := a.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSweepAuthAndCount(t *testing.T) {
	a := newConsentApp(t)
	cliente := a.seedCliente(t, 7)
	session := a.gestorToken(t, 7)

	// missing and wrong secrets are both unauthorized
	resp, err := a.app.Test(httptest.NewRequest(http.MethodGet, "/api/consent/sweep-expired", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/api/consent/sweep-expired", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	resp, err = a.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// issue then force the window shut
	req = jsonRequest(http.MethodPost, "/api/consent/generate", fiber.Map{"cliente_id": cliente.ID})
	req.Header.Set("Authorization", "Bearer "+session)
	resp, err = a.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	issued := decodeBody[dto.GenerateConsentResponse](t, resp)

	require.NoError(t, a.db.Model(&domain.Consentimento{}).
		Where("token = ?", issued.Token).
		Update("expira_em", time.Now().Add(-time.Hour)).Error)

	req = httptest.NewRequest(http.MethodGet, "/api/consent/sweep-expired", nil)
	req.Header.Set("Authorization", "Bearer "+testAdminSecret)
	resp, err = a.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	swept := decodeBody[dto.SweepResponse](t, resp)
	assert.Equal(t, int64(1), swept.Actualizados)

	// the old token is gone entirely now
	resp, err = a.app.Test(jsonRequest(http.MethodPost, "/api/consent/accept", fiber.Map{"token": issued.Token}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPublicRoutesAreRateLimited(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&domain.Cliente{}, &domain.Consentimento{}, &domain.AuditLog{}))

	svc := services.NewConsentService(
		repository.NewConsentRepository(db),
		repository.NewClienteRepository(db),
		noopSink{},
		"https://crm.example.pt",
		"v1",
	)

	app := fiber.New()
	NewConsentHandler(svc, helper.SetupAuth(testAccessSecret)).
		SetupRoutes(app, ratelimit.NewMemoryLimiter(2, time.Minute), testAdminSecret)

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/consent/verify?token=t%d", i), nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/consent/verify?token=t3", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}
