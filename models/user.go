package models

// User é o registro da tabela Users, criado no primeiro login.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}
