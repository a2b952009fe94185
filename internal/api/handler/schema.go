package handler

import "github.com/simplewebapi/bookstore-api/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type signupRequest struct {
	Email           string `json:"email"           validate:"required,email"`
	Username        string `json:"username"        validate:"required"`
	FullName        string `json:"fullName"        validate:"required,fullname"`
	Password        string `json:"password"        validate:"required,min=6,hasdigit"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type loginResponse struct {
	AccessToken string         `json:"accessToken"`
	Email       string         `json:"email"`
	UserName    string         `json:"userName"`
	Roles       []string       `json:"roles"`
	Claims      []domain.Claim `json:"claims"`
}

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// --- Users ---

type userResponse struct {
	ID       string         `json:"id"`
	UserName string         `json:"userName"`
	Email    string         `json:"email"`
	FullName string         `json:"fullName"`
	Roles    []string       `json:"roles"`
	Claims   []domain.Claim `json:"claims"`
}

// --- Books ---

type bookRequest struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"     validate:"required,max=100"`
	Price    float64 `json:"price"    validate:"gte=0"`
	Category string  `json:"category" validate:"required,max=50"`
	Author   string  `json:"author"   validate:"required,max=50"`
}

func (r bookRequest) toDomain() *domain.Book {
	return &domain.Book{
		ID:       r.ID,
		Name:     r.Name,
		Price:    r.Price,
		Category: r.Category,
		Author:   r.Author,
	}
}
