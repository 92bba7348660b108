package services

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/NovaGest/crm_service/internal/domain"
	"github.com/NovaGest/crm_service/internal/dto"
	"github.com/NovaGest/crm_service/internal/repository"
	"gorm.io/gorm"
)

type ClienteService interface {
	Create(caller dto.AuthResponse, input dto.ClienteCreateRequest) (*domain.Cliente, error)
	Get(caller dto.AuthResponse, clienteID uint) (*domain.Cliente, error)
	List(caller dto.AuthResponse, query dto.ClienteListQuery) ([]domain.Cliente, error)
	Update(caller dto.AuthResponse, clienteID uint, input dto.ClienteUpdateRequest) (*domain.Cliente, error)
	SetEstado(caller dto.AuthResponse, clienteID uint, estado string) error
	ExportCSV(caller dto.AuthResponse, w io.Writer) error
	Stats(caller dto.AuthResponse) (*dto.DashboardStats, error)
}

type clienteService struct {
	clienteRepo repository.ClienteRepository
	consentRepo repository.ConsentRepository
	audit       AuditSink
}

func NewClienteService(
	clienteRepo repository.ClienteRepository,
	consentRepo repository.ConsentRepository,
	audit AuditSink,
) ClienteService {
	return &clienteService{
		clienteRepo: clienteRepo,
		consentRepo: consentRepo,
		audit:       audit,
	}
}

func (s *clienteService) Create(caller dto.AuthResponse, input dto.ClienteCreateRequest) (*domain.Cliente, error) {
	nome := strings.TrimSpace(input.Nome)
	if nome == "" {
		return nil, ErrInvalid
	}

	cliente := &domain.Cliente{
		TenantID:    caller.TenantID,
		CriadoPorID: caller.UserID,
		Nome:        nome,
		Email:       input.Email,
		Telefone:    input.Telefone,
		NIF:         input.NIF,
		Estado:      domain.EstadoPendente,
	}
	if err := s.clienteRepo.Create(cliente); err != nil {
		return nil, err
	}

	s.audit.Record(dto.AuditEvent{
		Action:   "cliente.created",
		Entity:   "cliente",
		EntityID: cliente.ID,
		UserID:   caller.UserID,
		TenantID: caller.TenantID,
	})
	return cliente, nil
}

func (s *clienteService) Get(caller dto.AuthResponse, clienteID uint) (*domain.Cliente, error) {
	cliente, err := s.clienteRepo.FindScoped(caller.TenantID, clienteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if caller.Role == domain.RoleParceiro && cliente.CriadoPorID != caller.UserID {
		// same response as a missing row: no existence leakage across scopes
		return nil, ErrNotFound
	}
	return cliente, nil
}

func (s *clienteService) List(caller dto.AuthResponse, query dto.ClienteListQuery) ([]domain.Cliente, error) {
	if query.Estado != "" && !domain.EstadoValido(query.Estado) {
		return nil, ErrInvalid
	}
	if query.Limit <= 0 || query.Limit > 200 {
		query.Limit = 50
	}

	filter := repository.ClienteFilter{
		TenantID: caller.TenantID,
		Estado:   query.Estado,
		Limit:    query.Limit,
		Offset:   query.Offset,
	}
	if caller.Role == domain.RoleParceiro {
		filter.CriadoPorID = caller.UserID
	}
	return s.clienteRepo.List(filter)
}

func (s *clienteService) Update(caller dto.AuthResponse, clienteID uint, input dto.ClienteUpdateRequest) (*domain.Cliente, error) {
	cliente, err := s.Get(caller, clienteID)
	if err != nil {
		return nil, err
	}

	if input.Nome != nil {
		nome := strings.TrimSpace(*input.Nome)
		if nome == "" {
			return nil, ErrInvalid
		}
		cliente.Nome = nome
	}
	if input.Email != nil {
		cliente.Email = input.Email
	}
	if input.Telefone != nil {
		cliente.Telefone = input.Telefone
	}
	if input.NIF != nil {
		cliente.NIF = input.NIF
	}

	if err := s.clienteRepo.Save(cliente); err != nil {
		return nil, err
	}
	return cliente, nil
}

func (s *clienteService) SetEstado(caller dto.AuthResponse, clienteID uint, estado string) error {
	if !domain.EstadoValido(estado) {
		return ErrInvalid
	}

	rows, err := s.clienteRepo.SetEstado(caller.TenantID, clienteID, estado)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	s.audit.Record(dto.AuditEvent{
		Action:   "cliente.estado",
		Entity:   "cliente",
		EntityID: clienteID,
		UserID:   caller.UserID,
		TenantID: caller.TenantID,
		Metadata: map[string]any{"estado": estado},
	})
	return nil
}

func (s *clienteService) ExportCSV(caller dto.AuthResponse, w io.Writer) error {
	filter := repository.ClienteFilter{TenantID: caller.TenantID}
	if caller.Role == domain.RoleParceiro {
		filter.CriadoPorID = caller.UserID
	}
	clientes, err := s.clienteRepo.List(filter)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "nome", "email", "telefone", "nif", "estado", "consentimento_rgpd", "consentimento_data"}); err != nil {
		return err
	}
	for _, c := range clientes {
		row := []string{
			strconv.FormatUint(uint64(c.ID), 10),
			c.Nome,
			deref(c.Email),
			deref(c.Telefone),
			deref(c.NIF),
			c.Estado,
			strconv.FormatBool(c.ConsentimentoRGPD),
			formatTime(c.ConsentimentoData),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *clienteService) Stats(caller dto.AuthResponse) (*dto.DashboardStats, error) {
	porEstado, err := s.clienteRepo.CountByEstado(caller.TenantID)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, n := range porEstado {
		total += n
	}

	comConsentimento, err := s.clienteRepo.CountComConsentimento(caller.TenantID)
	if err != nil {
		return nil, err
	}
	pendentes, err := s.consentRepo.CountPendingByTenant(caller.TenantID)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardStats{
		Total:                   total,
		PorEstado:               porEstado,
		ComConsentimento:        comConsentimento,
		ConsentimentosPendentes: pendentes,
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
