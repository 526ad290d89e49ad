package pg

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/chasqui/internal/domain/repository"
)

type taskRepo struct{ pool *pgxpool.Pool }

const taskColumns = `id::text, name, completed, created_at, updated_at`

func scanTask(row pgx.Row) (repository.Task, error) {
	var t repository.Task
	err := row.Scan(&t.ID, &t.Name, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *taskRepo) List(ctx context.Context) ([]repository.Task, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+taskColumns+` FROM task ORDER BY created_at, id`)
	if err != nil {
		return nil, mapErr("list tasks", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.Task, error) {
		return scanTask(row)
	})
	if err != nil {
		return nil, mapErr("list tasks", err)
	}
	if out == nil {
		out = []repository.Task{}
	}
	return out, nil
}

func (r *taskRepo) Create(ctx context.Context, t repository.Task) (*repository.Task, error) {
	if t.ID == "" {
		return nil, repository.ErrInvalidInput
	}
	const query = `
		INSERT INTO task (id, name, completed, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING ` + taskColumns
	out, err := scanTask(r.pool.QueryRow(ctx, query, t.ID, t.Name, t.Completed))
	if err != nil {
		return nil, mapErr("create task", err)
	}
	return &out, nil
}

func (r *taskRepo) Update(ctx context.Context, id string, patch repository.TaskPatch) (*repository.Task, error) {
	const query = `
		UPDATE task SET
			name = COALESCE($2, name),
			completed = COALESCE($3, completed),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + taskColumns
	out, err := scanTask(r.pool.QueryRow(ctx, query, id, patch.Name, patch.Completed))
	if err != nil {
		return nil, mapErr("update task", err)
	}
	return &out, nil
}
