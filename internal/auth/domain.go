package auth

import "time"

// StatusAtivo is the status value required for a user to authenticate.
const StatusAtivo = "ativo"

// User represents an authenticatable user account.
type User struct {
	ID           int64
	Nome         string
	Username     string
	PasswordHash string
	Cargo        string
	Permissoes   []string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive reports whether the account may authenticate.
func (u *User) IsActive() bool {
	return u != nil && u.Status == StatusAtivo
}
