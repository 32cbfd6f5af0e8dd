package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"deliciousbites/internal/models"
)

type MenuRepo struct {
	db *sql.DB
}

func NewMenuRepo(db *sql.DB) *MenuRepo {
	return &MenuRepo{db: db}
}

const menuColumns = `id, name, price, category, description, rating, image`

func (r *MenuRepo) AllItems(ctx context.Context) ([]models.MenuItem, error) {
	query := `SELECT ` + menuColumns + `
		FROM menu
		ORDER BY id`
	return r.queryItems(ctx, query)
}

// ItemsByCategory для неизвестной категории отдает пустой срез, не ошибку
func (r *MenuRepo) ItemsByCategory(ctx context.Context, category string) ([]models.MenuItem, error) {
	query := `SELECT ` + menuColumns + `
		FROM menu
		WHERE category = $1
		ORDER BY id`
	return r.queryItems(ctx, query, category)
}

func (r *MenuRepo) ItemByID(ctx context.Context, id int) (*models.MenuItem, error) {
	query := `SELECT ` + menuColumns + `
		FROM menu
		WHERE id = $1`

	var item models.MenuItem
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.Name, &item.Price, &item.Category,
		&item.Description, &item.Rating, &item.Image,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("menu item %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, &models.PersistenceError{Op: "select menu item", Err: err}
	}
	return &item, nil
}

// Seed заполняет меню один раз: если строки уже есть, ничего не делает
func (r *MenuRepo) Seed(ctx context.Context, items []models.MenuItem) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &models.PersistenceError{Op: "begin seed", Err: err}
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM menu`).Scan(&count); err != nil {
		return 0, &models.PersistenceError{Op: "count menu", Err: err}
	}
	if count > 0 {
		return 0, nil
	}

	query := `
		INSERT INTO menu (name, price, category, description, rating, image)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, item := range items {
		_, err := tx.ExecContext(ctx, query,
			item.Name, item.Price, item.Category, item.Description, item.Rating, item.Image)
		if err != nil {
			return 0, &models.PersistenceError{Op: "insert menu item " + item.Name, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, &models.PersistenceError{Op: "commit seed", Err: err}
	}
	return len(items), nil
}

func (r *MenuRepo) queryItems(ctx context.Context, query string, args ...any) ([]models.MenuItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &models.PersistenceError{Op: "select menu", Err: err}
	}
	defer rows.Close()

	items := []models.MenuItem{}
	for rows.Next() { //идет по строкам пока они есть
		var item models.MenuItem
		err := rows.Scan(
			&item.ID, &item.Name, &item.Price, &item.Category,
			&item.Description, &item.Rating, &item.Image,
		)
		if err != nil {
			return nil, &models.PersistenceError{Op: "scan menu", Err: err}
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, &models.PersistenceError{Op: "iterate menu", Err: err}
	}
	return items, nil
}
