package dto

type ClienteCreateRequest struct {
	Nome     string  `json:"nome" validate:"required"`
	Email    *string `json:"email,omitempty"`
	Telefone *string `json:"telefone,omitempty"`
	NIF      *string `json:"nif,omitempty"`
}

type ClienteUpdateRequest struct {
	Nome     *string `json:"nome,omitempty"`
	Email    *string `json:"email,omitempty"`
	Telefone *string `json:"telefone,omitempty"`
	NIF      *string `json:"nif,omitempty"`
}

type SetEstadoRequest struct {
	Estado string `json:"estado" validate:"required,oneof=pendente aprovado rejeitado"`
}

type ClienteListQuery struct {
	Estado string `query:"estado"`
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
}

type DashboardStats struct {
	Total                   int64            `json:"total"`
	PorEstado               map[string]int64 `json:"por_estado"`
	ComConsentimento        int64            `json:"com_consentimento"`
	ConsentimentosPendentes int64            `json:"consentimentos_pendentes"`
}
