package storage

import "time"

type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Document  string    `json:"document"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

type Motor struct {
	ID           string    `json:"id"`
	ClientID     string    `json:"client_id"`
	Brand        string    `json:"brand"`
	Model        string    `json:"model"`
	EngineNumber string    `json:"engine_number"`
	Fuel         string    `json:"fuel"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
}
