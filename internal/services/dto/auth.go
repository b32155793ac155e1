package dto

// RegisterRequest - регистрация гостя
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Language    string `json:"language" validate:"required,is-lang-code"`
	Nationality string `json:"nationality" validate:"omitempty,max=100"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=30"`
}

// VerifyEmailRequest - подтверждение e-mail шестизначным кодом
type VerifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TempLoginRequest - вход гостя по временному коду чек-ина
type TempLoginRequest struct {
	TempCode string `json:"temp_code" validate:"required,len=6"`
}

type TokenResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Role          string `json:"role"`
	Language      string `json:"language"`
	Nationality   string `json:"nationality,omitempty"`
	PhoneNumber   string `json:"phone_number,omitempty"`
	EmailVerified bool   `json:"email_verified"`
}
