package model

import "time"

// Switch is an inventory entry for a managed switch
type Switch struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`           // IP, hostname or CIDR block
	Port        int       `json:"port,omitempty"`    // SNMP port, 0 means default
	Community   string    `json:"-"`                 // empty means the configured default
	Description string    `json:"description,omitempty"`
	Enabled     bool      `json:"enabled"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
