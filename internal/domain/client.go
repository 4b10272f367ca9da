package domain

import "time"

// Client representa o cliente final de uma proposta comercial.
type Client struct {
	ID             string    `json:"clientId"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	SecondaryEmail string    `json:"secondaryEmail"`
	Address        string    `json:"address"`
	Phone          string    `json:"phone"`
	SecondaryPhone string    `json:"secondaryPhone"`
	Status         bool      `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ClientFilter define os parâmetros de busca e paginação de clientes.
type ClientFilter struct {
	Page  int
	Limit int
	Name  string
	Email string
}
