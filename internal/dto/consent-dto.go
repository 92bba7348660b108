package dto

import "time"

const (
	ConsentStatusInvalido = "invalido"
)

type GenerateConsentRequest struct {
	ClienteID uint `json:"cliente_id" validate:"required"`
}

type GenerateConsentResponse struct {
	Token string `json:"token"`
	Link  string `json:"link"`
}

// VerifyConsentResponse is what the public consent page renders from. Nome is
// the client's first name only.
type VerifyConsentResponse struct {
	Status      string     `json:"status"`
	Expirado    bool       `json:"expirado"`
	ClienteNome string     `json:"cliente_nome,omitempty"`
	AceitoEm    *time.Time `json:"aceito_em,omitempty"`
}

type AcceptConsentRequest struct {
	Token string `json:"token" validate:"required"`
}

type SweepResponse struct {
	Actualizados int64 `json:"actualizados"`
}
