package domain

import (
	"time"

	"gorm.io/gorm"
)

const (
	EstadoPendente  = "pendente"
	EstadoAprovado  = "aprovado"
	EstadoRejeitado = "rejeitado"
)

func EstadoValido(estado string) bool {
	switch estado {
	case EstadoPendente, EstadoAprovado, EstadoRejeitado:
		return true
	}
	return false
}

type Cliente struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	TenantID    uint    `gorm:"not null;index:idx_clientes_tenant" json:"tenant_id"`
	CriadoPorID uint    `gorm:"index" json:"criado_por_id"`
	Nome        string  `gorm:"type:varchar(200);not null" json:"nome"`
	Email       *string `gorm:"type:varchar(255)" json:"email,omitempty"`
	Telefone    *string `gorm:"type:varchar(30)" json:"telefone,omitempty"`
	NIF         *string `gorm:"type:varchar(20);index" json:"nif,omitempty"`
	Estado      string  `gorm:"type:varchar(20);not null;default:pendente;index" json:"estado"`

	// set only by the consent acceptance flow
	ConsentimentoRGPD bool       `gorm:"not null;default:false" json:"consentimento_rgpd"`
	ConsentimentoData *time.Time `json:"consentimento_data,omitempty"`
	gorm.Model
}
