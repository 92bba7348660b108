package services

import (
	"bytes"
	"strings"
	"testing"

	"github.com/NovaGest/crm_service/internal/domain"
	"github.com/NovaGest/crm_service/internal/dto"
	"github.com/NovaGest/crm_service/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newClienteService(t *testing.T) (ClienteService, *gorm.DB, *recorderSink) {
	t.Helper()
	db := newTestDB(t)
	audit := &recorderSink{}
	svc := NewClienteService(
		repository.NewClienteRepository(db),
		repository.NewConsentRepository(db),
		audit,
	)
	return svc, db, audit
}

func gestorCaller() dto.AuthResponse {
	return dto.AuthResponse{UserID: 1, TenantID: 5, Role: domain.RoleGestor}
}

func TestClienteCreateAndGet(t *testing.T) {
	svc, _, audit := newClienteService(t)
	caller := gestorCaller()

	cliente, err := svc.Create(caller, dto.ClienteCreateRequest{Nome: "  Ana Lopes  "})
	require.NoError(t, err)
	assert.Equal(t, "Ana Lopes", cliente.Nome)
	assert.Equal(t, caller.TenantID, cliente.TenantID)
	assert.Equal(t, domain.EstadoPendente, cliente.Estado)

	got, err := svc.Get(caller, cliente.ID)
	require.NoError(t, err)
	assert.Equal(t, cliente.ID, got.ID)

	_, err = svc.Create(caller, dto.ClienteCreateRequest{Nome: "   "})
	assert.ErrorIs(t, err, ErrInvalid)

	assert.Contains(t, audit.actions(), "cliente.created")
}

func TestClienteParceiroScope(t *testing.T) {
	svc, _, _ := newClienteService(t)

	gestor := gestorCaller()
	parceiro := dto.AuthResponse{UserID: 9, TenantID: 5, Role: domain.RoleParceiro}

	mine, err := svc.Create(parceiro, dto.ClienteCreateRequest{Nome: "Cliente do Parceiro"})
	require.NoError(t, err)
	theirs, err := svc.Create(gestor, dto.ClienteCreateRequest{Nome: "Cliente do Gestor"})
	require.NoError(t, err)

	// parceiro sees only what they created
	list, err := svc.List(parceiro, dto.ClienteListQuery{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)

	_, err = svc.Get(parceiro, theirs.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// gestor sees the whole tenant
	list, err = svc.List(gestor, dto.ClienteListQuery{})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestClienteSetEstado(t *testing.T) {
	svc, db, audit := newClienteService(t)
	caller := gestorCaller()

	cliente, err := svc.Create(caller, dto.ClienteCreateRequest{Nome: "Bruno Dias"})
	require.NoError(t, err)

	require.NoError(t, svc.SetEstado(caller, cliente.ID, domain.EstadoAprovado))

	var stored domain.Cliente
	require.NoError(t, db.First(&stored, cliente.ID).Error)
	assert.Equal(t, domain.EstadoAprovado, stored.Estado)

	assert.ErrorIs(t, svc.SetEstado(caller, cliente.ID, "qualquer"), ErrInvalid)
	assert.ErrorIs(t, svc.SetEstado(caller, 9999, domain.EstadoAprovado), ErrNotFound)

	assert.Contains(t, audit.actions(), "cliente.estado")
}

func TestClienteListEstadoFilter(t *testing.T) {
	svc, _, _ := newClienteService(t)
	caller := gestorCaller()

	a, err := svc.Create(caller, dto.ClienteCreateRequest{Nome: "Aprovado SA"})
	require.NoError(t, err)
	_, err = svc.Create(caller, dto.ClienteCreateRequest{Nome: "Pendente Lda"})
	require.NoError(t, err)
	require.NoError(t, svc.SetEstado(caller, a.ID, domain.EstadoAprovado))

	list, err := svc.List(caller, dto.ClienteListQuery{Estado: domain.EstadoAprovado})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)

	_, err = svc.List(caller, dto.ClienteListQuery{Estado: "estranho"})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestClienteExportCSV(t *testing.T) {
	svc, _, _ := newClienteService(t)
	caller := gestorCaller()

	_, err := svc.Create(caller, dto.ClienteCreateRequest{Nome: "Clara Mota"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(caller, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "id,nome,email"))
	assert.Contains(t, lines[1], "Clara Mota")
	assert.Contains(t, lines[1], "false")
}

func TestDashboardStats(t *testing.T) {
	svc, db, _ := newClienteService(t)
	caller := gestorCaller()

	a, err := svc.Create(caller, dto.ClienteCreateRequest{Nome: "Um"})
	require.NoError(t, err)
	_, err = svc.Create(caller, dto.ClienteCreateRequest{Nome: "Dois"})
	require.NoError(t, err)
	require.NoError(t, svc.SetEstado(caller, a.ID, domain.EstadoAprovado))
	require.NoError(t, db.Model(&domain.Cliente{}).
		Where("id = ?", a.ID).
		Update("consentimento_rgpd", true).Error)

	stats, err := svc.Stats(caller)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(1), stats.PorEstado[domain.EstadoAprovado])
	assert.Equal(t, int64(1), stats.PorEstado[domain.EstadoPendente])
	assert.Equal(t, int64(1), stats.ComConsentimento)
}
