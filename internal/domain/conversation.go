package domain

import "time"

// Conversation es el hilo persistido de una sesión de chat. Su ID es el
// session id visible para el cliente.
type Conversation struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}
