package repository

import (
	"context"
	"errors"
	"fmt"

	"study-booking/internal/data/entity"
	"study-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type UnitRepository interface {
	FindByCategory(ctx context.Context, category entity.Category) ([]*entity.Unit, error)
	FindByID(ctx context.Context, id string) (*entity.Unit, error)

	// Seed upserts units keeping their slice order as listing order.
	Seed(ctx context.Context, units []entity.Unit) error
}

type unitRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUnitRepository(db database.PgxIface, log *zap.Logger) UnitRepository {
	return &unitRepository{
		db:  db,
		log: log.With(zap.String("repository", "unit")),
	}
}

func (r *unitRepository) FindByCategory(ctx context.Context, category entity.Category) ([]*entity.Unit, error) {
	query := `
		SELECT id, category, name, time_label, price_npr, seat_rows, seat_cols, img
		FROM units
		WHERE category = $1
		ORDER BY position, id
	`

	rows, err := r.db.Query(ctx, query, string(category))
	if err != nil {
		r.log.Error("Failed to find units by category",
			zap.Error(err),
			zap.String("category", string(category)),
		)
		return nil, fmt.Errorf("find units by category %s: %w", category, err)
	}
	defer rows.Close()

	units := []*entity.Unit{}
	for rows.Next() {
		var unit entity.Unit
		err := rows.Scan(
			&unit.ID,
			&unit.Category,
			&unit.Name,
			&unit.Time,
			&unit.PriceNPR,
			&unit.Rows,
			&unit.Cols,
			&unit.Img,
		)
		if err != nil {
			r.log.Error("Failed to scan unit row", zap.Error(err))
			return nil, fmt.Errorf("scan unit row: %w", err)
		}
		units = append(units, &unit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate unit rows: %w", err)
	}

	return units, nil
}

func (r *unitRepository) FindByID(ctx context.Context, id string) (*entity.Unit, error) {
	query := `
		SELECT id, category, name, time_label, price_npr, seat_rows, seat_cols, img
		FROM units
		WHERE id = $1
	`

	var unit entity.Unit
	err := r.db.QueryRow(ctx, query, id).Scan(
		&unit.ID,
		&unit.Category,
		&unit.Name,
		&unit.Time,
		&unit.PriceNPR,
		&unit.Rows,
		&unit.Cols,
		&unit.Img,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find unit by ID",
			zap.Error(err),
			zap.String("unit_id", id),
		)
		return nil, fmt.Errorf("find unit by id %s: %w", id, err)
	}

	return &unit, nil
}

func (r *unitRepository) Seed(ctx context.Context, units []entity.Unit) error {
	query := `
		INSERT INTO units (id, category, name, time_label, price_npr, seat_rows, seat_cols, img, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			category = EXCLUDED.category,
			name = EXCLUDED.name,
			time_label = EXCLUDED.time_label,
			price_npr = EXCLUDED.price_npr,
			seat_rows = EXCLUDED.seat_rows,
			seat_cols = EXCLUDED.seat_cols,
			img = EXCLUDED.img,
			position = EXCLUDED.position
	`

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for i, u := range units {
		_, err := tx.Exec(ctx, query,
			u.ID,
			string(u.Category),
			u.Name,
			u.Time,
			u.PriceNPR,
			u.Rows,
			u.Cols,
			u.Img,
			i,
		)
		if err != nil {
			r.log.Error("Failed to seed unit",
				zap.Error(err),
				zap.String("unit_id", u.ID),
			)
			return fmt.Errorf("seed unit %s: %w", u.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit seed transaction: %w", err)
	}

	r.log.Info("Units seeded", zap.Int("count", len(units)))
	return nil
}
