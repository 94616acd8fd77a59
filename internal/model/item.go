package model

// Entity is anything the todo store can key by id.
type Entity interface {
	EntityID() int64
}

// TodoItem is the full todo entry used by the home module and the CLI.
type TodoItem struct {
	UserID    int    `json:"userId,omitempty"`
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

func (t TodoItem) EntityID() int64 { return t.ID }

// Todo is the title-only shape used by the todos module.
// It is deliberately not merged with TodoItem.
type Todo struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

func (t Todo) EntityID() int64 { return t.ID }
