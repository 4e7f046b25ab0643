package domain

import (
	"strings"
	"time"
)

type Client struct {
	ID           int64     `json:"id"`
	LastName     string    `json:"last_name"`
	FirstName    string    `json:"first_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone,omitempty"`
	Street       string    `json:"street"`
	City         string    `json:"city"`
	PostalCode   string    `json:"postal_code"`
	Country      string    `json:"country"`
	CreatedAt    time.Time `json:"created_at"`
}

func (c *Client) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
