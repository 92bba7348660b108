package repository

import (
	"errors"
	"log"

	"github.com/NovaGest/crm_service/internal/domain"
	"gorm.io/gorm"
)

// ClienteFilter scopes list queries. CriadoPorID restricts a parceiro to the
// clients they created; zero means any creator within the tenant.
type ClienteFilter struct {
	TenantID    uint
	CriadoPorID uint
	Estado      string
	Limit       int
	Offset      int
}

type ClienteRepository interface {
	Create(cliente *domain.Cliente) error
	FindByID(id uint) (*domain.Cliente, error)
	FindScoped(tenantID, id uint) (*domain.Cliente, error)
	List(filter ClienteFilter) ([]domain.Cliente, error)
	Save(cliente *domain.Cliente) error
	SetEstado(tenantID, id uint, estado string) (int64, error)
	CountByEstado(tenantID uint) (map[string]int64, error)
	CountComConsentimento(tenantID uint) (int64, error)
}

type clienteRepository struct {
	db *gorm.DB
}

func NewClienteRepository(db *gorm.DB) ClienteRepository {
	return &clienteRepository{db: db}
}

func (r *clienteRepository) Create(cliente *domain.Cliente) error {
	if cliente == nil {
		return errors.New("nil cliente")
	}
	if err := r.db.Create(cliente).Error; err != nil {
		log.Printf("create cliente error: %v", err)
		return errors.New("failed to create cliente")
	}
	return nil
}

// FindByID is unscoped; only the public consent flow may use it.
func (r *clienteRepository) FindByID(id uint) (*domain.Cliente, error) {
	var cliente domain.Cliente
	if err := r.db.First(&cliente, id).Error; err != nil {
		return nil, err
	}
	return &cliente, nil
}

func (r *clienteRepository) FindScoped(tenantID, id uint) (*domain.Cliente, error) {
	var cliente domain.Cliente
	err := r.db.
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&cliente).Error
	if err != nil {
		return nil, err
	}
	return &cliente, nil
}

func (r *clienteRepository) List(filter ClienteFilter) ([]domain.Cliente, error) {
	var clientes []domain.Cliente

	q := r.db.Where("tenant_id = ?", filter.TenantID)
	if filter.CriadoPorID != 0 {
		q = q.Where("criado_por_id = ?", filter.CriadoPorID)
	}
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if err := q.Order("created_at DESC").Offset(filter.Offset).Find(&clientes).Error; err != nil {
		return nil, err
	}
	return clientes, nil
}

func (r *clienteRepository) Save(cliente *domain.Cliente) error {
	if cliente == nil {
		return errors.New("nil cliente")
	}
	if err := r.db.Save(cliente).Error; err != nil {
		log.Printf("save cliente error: %v", err)
		return errors.New("failed to save cliente")
	}
	return nil
}

func (r *clienteRepository) SetEstado(tenantID, id uint, estado string) (int64, error) {
	res := r.db.Model(&domain.Cliente{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Update("estado", estado)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *clienteRepository) CountByEstado(tenantID uint) (map[string]int64, error) {
	type row struct {
		Estado string
		N      int64
	}
	var rows []row
	err := r.db.Model(&domain.Cliente{}).
		Select("estado, count(*) as n").
		Where("tenant_id = ?", tenantID).
		Group("estado").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Estado] = r.N
	}
	return out, nil
}

func (r *clienteRepository) CountComConsentimento(tenantID uint) (int64, error) {
	var n int64
	err := r.db.Model(&domain.Cliente{}).
		Where("tenant_id = ? AND consentimento_rgpd = ?", tenantID, true).
		Count(&n).Error
	if err != nil {
		return 0, err
	}
	return n, nil
}
