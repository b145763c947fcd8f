package repo

import (
	"context"
	"database/sql"

	"github.com/crucial707/todoapp/internal/models"
)

// ==========================
// TodoRepo
// ==========================
// All lookups and mutations are scoped to an owner so one user can never
// read or change another user's todos.
type TodoRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewTodoRepo(db *sql.DB) *TodoRepo {
	return &TodoRepo{DB: db}
}

const todoColumns = `id, title, description, priority, complete, owner_id`

func scanTodo(row *sql.Row) (*models.Todo, error) {
	todo := &models.Todo{}
	err := row.Scan(
		&todo.ID,
		&todo.Title,
		&todo.Description,
		&todo.Priority,
		&todo.Complete,
		&todo.OwnerID,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return todo, nil
}

// ==========================
// Create Todo
// ==========================
func (r *TodoRepo) Create(ctx context.Context, ownerID int, title, description string, priority int) (*models.Todo, error) {
	query := `
		INSERT INTO todos (title, description, priority, complete, owner_id)
		VALUES ($1, $2, $3, FALSE, $4)
		RETURNING ` + todoColumns

	return scanTodo(r.DB.QueryRowContext(ctx, query, title, description, priority, ownerID))
}

// ==========================
// Get By ID (owner-scoped)
// ==========================
func (r *TodoRepo) GetByID(ctx context.Context, id, ownerID int) (*models.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE id = $1 AND owner_id = $2
	`

	return scanTodo(r.DB.QueryRowContext(ctx, query, id, ownerID))
}

// ==========================
// List By Owner
// ==========================
func (r *TodoRepo) ListByOwner(ctx context.Context, ownerID int) ([]models.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE owner_id = $1
		ORDER BY id
	`

	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var todos []models.Todo
	for rows.Next() {
		var t models.Todo
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Priority, &t.Complete, &t.OwnerID); err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}

	return todos, rows.Err()
}

// ==========================
// Update Todo
// ==========================
func (r *TodoRepo) Update(ctx context.Context, id, ownerID int, title, description string, priority int) (*models.Todo, error) {
	query := `
		UPDATE todos
		SET title = $1, description = $2, priority = $3
		WHERE id = $4 AND owner_id = $5
		RETURNING ` + todoColumns

	return scanTodo(r.DB.QueryRowContext(ctx, query, title, description, priority, id, ownerID))
}

// ==========================
// Toggle Complete
// ==========================
func (r *TodoRepo) ToggleComplete(ctx context.Context, id, ownerID int) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE todos SET complete = NOT complete WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return mapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ==========================
// Delete Todo
// ==========================
func (r *TodoRepo) Delete(ctx context.Context, id, ownerID int) error {
	result, err := r.DB.ExecContext(ctx,
		`DELETE FROM todos WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
