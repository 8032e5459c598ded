package models

// BroadcastMessage is an announcement published by the coordination office.
// At most one is materialized client-side: the newest row flagged active.
type BroadcastMessage struct {
	ID          int64  `json:"id"`
	Content     string `json:"content"`
	MessageType string `json:"message_type"` // info, warning or error
	IsActive    bool   `json:"is_active"`
	CreatedAt   string `json:"created_at"`
}
