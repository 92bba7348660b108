package repository

import (
	"errors"
	"time"

	"github.com/NovaGest/crm_service/internal/domain"
	"gorm.io/gorm"
)

var (
	// ErrConsentExpirado: token matched a pending row whose window has passed.
	// The row is left for the sweeper; accept never flips to expirado itself.
	ErrConsentExpirado = errors.New("consentimento expirado")
	// ErrJaProcessado: the conditional update lost the race to a concurrent
	// accept or sweep.
	ErrJaProcessado = errors.New("consentimento ja processado")
)

type ConsentRepository interface {
	Create(consent *domain.Consentimento) error
	FindByToken(token string) (*domain.Consentimento, error)
	FindLatestPendingByCliente(clienteID uint) (*domain.Consentimento, error)
	RefreshToken(id uint, token string, expiraEm time.Time) (int64, error)
	Accept(token, ip, userAgent string) (*domain.Consentimento, error)
	SweepExpired(now time.Time) (int64, error)
	CountPendingByTenant(tenantID uint) (int64, error)
}

type consentRepository struct {
	db *gorm.DB
}

func NewConsentRepository(db *gorm.DB) ConsentRepository {
	return &consentRepository{db: db}
}

func (c *consentRepository) Create(consent *domain.Consentimento) error {
	return c.db.Create(consent).Error
}

func (c *consentRepository) FindByToken(token string) (*domain.Consentimento, error) {
	var rec domain.Consentimento
	if err := c.db.First(&rec, "token = ?", token).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *consentRepository) FindLatestPendingByCliente(clienteID uint) (*domain.Consentimento, error) {
	var rec domain.Consentimento
	err := c.db.
		Where("cliente_id = ? AND status = ?", clienteID, domain.ConsentPendente).
		Order("created_at DESC").
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// RefreshToken rotates the credential on a still-pending row. The status guard
// makes a refresh that races a terminal transition affect zero rows instead of
// resurrecting a consumed record.
func (c *consentRepository) RefreshToken(id uint, token string, expiraEm time.Time) (int64, error) {
	res := c.db.Model(&domain.Consentimento{}).
		Where("id = ? AND status = ?", id, domain.ConsentPendente).
		Updates(map[string]any{
			"token":      token,
			"expira_em":  expiraEm,
			"tentativas": gorm.Expr("tentativas + 1"),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// Accept burns the token and marks the record accepted exactly once. The
// consent transition and the cliente flag propagation commit together.
func (c *consentRepository) Accept(token, ip, userAgent string) (*domain.Consentimento, error) {
	now := time.Now()
	var rec domain.Consentimento

	err := c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&rec, "token = ?", token).Error; err != nil {
			return err
		}
		if now.After(rec.ExpiraEm) {
			return ErrConsentExpirado
		}

		res := tx.Model(&domain.Consentimento{}).
			Where("id = ? AND status = ?", rec.ID, domain.ConsentPendente).
			Updates(map[string]any{
				"status":     domain.ConsentAceite,
				"token":      nil,
				"aceito_em":  now,
				"ip":         ip,
				"user_agent": userAgent,
				"updated_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrJaProcessado
		}

		return tx.Model(&domain.Cliente{}).
			Where("id = ?", rec.ClienteID).
			Updates(map[string]any{
				"consentimento_rgpd": true,
				"consentimento_data": now,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	rec.Status = domain.ConsentAceite
	rec.Token = nil
	rec.AceitoEm = &now
	rec.IP = &ip
	rec.UserAgent = &userAgent
	return &rec, nil
}

func (c *consentRepository) SweepExpired(now time.Time) (int64, error) {
	res := c.db.Model(&domain.Consentimento{}).
		Where("status = ? AND expira_em < ?", domain.ConsentPendente, now).
		Updates(map[string]any{
			"status":     domain.ConsentExpirado,
			"token":      nil,
			"updated_at": now,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (c *consentRepository) CountPendingByTenant(tenantID uint) (int64, error) {
	var n int64
	err := c.db.Model(&domain.Consentimento{}).
		Joins("JOIN clientes ON clientes.id = consentimentos.cliente_id").
		Where("clientes.tenant_id = ? AND consentimentos.status = ?", tenantID, domain.ConsentPendente).
		Count(&n).Error
	if err != nil {
		return 0, err
	}
	return n, nil
}
