package users

import "time"

// Status values accepted for a user account.
const (
	StatusAtivo   = "ativo"
	StatusInativo = "inativo"
)

// User represents a system user account managed by administrators.
type User struct {
	ID         int64     `json:"id"`
	Nome       string    `json:"nome"`
	Username   string    `json:"username"`
	Cargo      string    `json:"cargo,omitempty"`
	Permissoes []string  `json:"permissoes"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateInput carries fields for creating a user.
type CreateInput struct {
	Nome       string
	Username   string
	Senha      string
	Cargo      string
	Permissoes []string
	Status     string
}

// UpdateInput carries fields for updating a user. An empty Senha keeps the
// stored password hash untouched.
type UpdateInput struct {
	Nome       string
	Username   string
	Senha      string
	Cargo      string
	Permissoes []string
	Status     string
}
