package dto

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Nome     string `json:"nome" validate:"required"`
	TenantID uint   `json:"tenant_id"`

	Role string `json:"role" validate:"required,oneof=TENANT GESTOR PARCEIRO"`
}

type UserLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type AuthResponse struct {
	UserID   uint    `json:"user_id"`
	TenantID uint    `json:"tenant_id"`
	Email    string  `json:"email"`
	Role     string  `json:"role"`
	Iat      float64 `json:"iat"`
	Expiry   float64 `json:"expiry"`
}
