package domain

import (
	"time"

	"gorm.io/gorm"
)

const (
	ConsentPendente = "pendente"
	ConsentAceite   = "aceite"
	ConsentExpirado = "expirado"
)

// ConsentValidade is how long an issued token stays usable.
const ConsentValidade = 72 * time.Hour

type Consentimento struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ClienteID uint `gorm:"not null;index:idx_consentimentos_cliente" json:"cliente_id"`

	// Token is non-nil only while Status is pendente. Accept and sweep both
	// null it, so a consumed token can never match a row again.
	Token       *string   `gorm:"type:varchar(64);uniqueIndex:uidx_consentimentos_token" json:"-"`
	Status      string    `gorm:"type:varchar(20);not null;default:pendente;index" json:"status"`
	TextoVersao string    `gorm:"type:varchar(20);not null" json:"texto_versao"`
	ExpiraEm    time.Time `gorm:"not null" json:"expira_em"`
	Tentativas  int       `gorm:"not null;default:1" json:"tentativas"`

	AceitoEm  *time.Time `json:"aceito_em,omitempty"`
	IP        *string    `gorm:"type:varchar(45)" json:"ip,omitempty"`
	UserAgent *string    `gorm:"type:text" json:"user_agent,omitempty"`
	gorm.Model
}
