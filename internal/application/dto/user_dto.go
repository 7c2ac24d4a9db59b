package dto

// RegisterRequest body para POST /user/register.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Email    string `json:"email" validate:"required,email"`
	CUIT     string `json:"cuit" validate:"required"`
}

// LoginRequest body para POST /user/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserResponse usuario sin credenciales.
type UserResponse struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	CUIT        string `json:"cuit"`
	RazonSocial string `json:"razon_social,omitempty"`
	CondFiscal  string `json:"cond_fiscal,omitempty"`
	Domicilio   string `json:"domicilio,omitempty"`
}

// LoginResponse token y datos del usuario.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
