package models

// Priority ranges from 1 (lowest) to 5 (highest).
const (
	PriorityMin = 1
	PriorityMax = 5
)

type Todo struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
	Complete    bool   `json:"complete"`
	OwnerID     int    `json:"owner_id"`
}
