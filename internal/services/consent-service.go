package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/NovaGest/crm_service/internal/domain"
	"github.com/NovaGest/crm_service/internal/dto"
	"github.com/NovaGest/crm_service/internal/helper"
	"github.com/NovaGest/crm_service/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConsentService interface {
	// Generate issues or refreshes the single pending consent for a cliente
	// owned by the caller's tenant and returns the shareable link.
	Generate(caller dto.AuthResponse, clienteID uint) (*dto.GenerateConsentResponse, error)

	// Verify is the public read used by the consent page. Unknown or burned
	// tokens report "invalido"; it never mutates state.
	Verify(token string) (*dto.VerifyConsentResponse, error)

	// Accept consumes a token exactly once and propagates the result to the
	// cliente record.
	Accept(token, ip, userAgent string) error

	// SweepExpired transitions every stale pending record to expirado and
	// returns how many rows changed.
	SweepExpired() (int64, error)
}

type consentService struct {
	consentRepo repository.ConsentRepository
	clienteRepo repository.ClienteRepository
	audit       AuditSink

	baseURL     string
	textoVersao string
}

func NewConsentService(
	consentRepo repository.ConsentRepository,
	clienteRepo repository.ClienteRepository,
	audit AuditSink,
	baseURL string,
	textoVersao string,
) ConsentService {
	return &consentService{
		consentRepo: consentRepo,
		clienteRepo: clienteRepo,
		audit:       audit,
		baseURL:     baseURL,
		textoVersao: textoVersao,
	}
}

func (s *consentService) Generate(caller dto.AuthResponse, clienteID uint) (*dto.GenerateConsentResponse, error) {
	if clienteID == 0 {
		return nil, ErrInvalid
	}

	// Ownership check doubles as the existence check: a cliente outside the
	// caller's tenant is indistinguishable from one that does not exist.
	if _, err := s.clienteRepo.FindScoped(caller.TenantID, clienteID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	token := uuid.NewString()
	expiraEm := time.Now().Add(domain.ConsentValidade)

	rec, err := s.consentRepo.FindLatestPendingByCliente(clienteID)
	switch {
	case err == nil:
		rows, err := s.consentRepo.RefreshToken(rec.ID, token, expiraEm)
		if err != nil {
			return nil, err
		}
		if rows > 0 {
			rec.Tentativas++
			break
		}
		// the pending row went terminal under us; fall through to insert
		fallthrough
	case errors.Is(err, gorm.ErrRecordNotFound):
		rec = &domain.Consentimento{
			ClienteID:   clienteID,
			Token:       &token,
			Status:      domain.ConsentPendente,
			TextoVersao: s.textoVersao,
			ExpiraEm:    expiraEm,
			Tentativas:  1,
		}
		if err := s.consentRepo.Create(rec); err != nil {
			if helper.IsTokenColisao(err) {
				// uuid collision is vanishingly rare; one retry is plenty
				token = uuid.NewString()
				rec.Token = &token
				if err := s.consentRepo.Create(rec); err != nil {
					return nil, err
				}
				break
			}
			return nil, err
		}
	default:
		return nil, err
	}

	s.audit.Record(dto.AuditEvent{
		Action:   "consent.generated",
		Entity:   "consentimento",
		EntityID: rec.ID,
		UserID:   caller.UserID,
		TenantID: caller.TenantID,
		Metadata: map[string]any{"cliente_id": clienteID, "tentativas": rec.Tentativas},
	})

	return &dto.GenerateConsentResponse{
		Token: token,
		Link:  fmt.Sprintf("%s/consentimento?token=%s", s.baseURL, token),
	}, nil
}

func (s *consentService) Verify(token string) (*dto.VerifyConsentResponse, error) {
	if token == "" {
		return &dto.VerifyConsentResponse{Status: dto.ConsentStatusInvalido}, nil
	}

	rec, err := s.consentRepo.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// burned, swept, or never issued; the server forgets consumed
			// tokens, so these cases are indistinguishable here
			return &dto.VerifyConsentResponse{Status: dto.ConsentStatusInvalido}, nil
		}
		return nil, err
	}

	out := &dto.VerifyConsentResponse{
		Status:   rec.Status,
		AceitoEm: rec.AceitoEm,
	}
	if rec.Status == domain.ConsentPendente && time.Now().After(rec.ExpiraEm) {
		// report expiry lazily even before the sweeper has run
		out.Status = domain.ConsentExpirado
		out.Expirado = true
	}

	if cliente, err := s.clienteRepo.FindByID(rec.ClienteID); err == nil {
		out.ClienteNome = helper.PrimeiroNome(cliente.Nome)
	}
	return out, nil
}

func (s *consentService) Accept(token, ip, userAgent string) error {
	if token == "" {
		return ErrInvalid
	}

	rec, err := s.consentRepo.Accept(token, ip, userAgent)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return ErrNotFound
		case errors.Is(err, repository.ErrConsentExpirado):
			return ErrExpired
		case errors.Is(err, repository.ErrJaProcessado):
			return ErrConflict
		}
		return err
	}

	s.audit.Record(dto.AuditEvent{
		Action:    "consent.accepted",
		Entity:    "consentimento",
		EntityID:  rec.ID,
		IP:        ip,
		UserAgent: userAgent,
		Metadata:  map[string]any{"cliente_id": rec.ClienteID},
	})
	return nil
}

func (s *consentService) SweepExpired() (int64, error) {
	count, err := s.consentRepo.SweepExpired(time.Now())
	if err != nil {
		return 0, err
	}

	// one aggregate event per run, also when nothing changed, so the audit
	// trail doubles as a liveness record of the sweeper
	s.audit.Record(dto.AuditEvent{
		Action:   "consent.expired_batch",
		Entity:   "consentimento",
		Metadata: map[string]any{"actualizados": count},
	})
	return count, nil
}
