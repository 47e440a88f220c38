package courier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"tracking-service/internal/entities"
	"tracking-service/internal/repository"
	"tracking-service/internal/service/courier"
)

const table = "couriers"

var (
	qb sq.StatementBuilderType = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	columns = []string{
		"id", "name", "phone", "status", "transport_type",
		"address", "lat", "lng", "geocoded_at",
		"created_at", "updated_at",
	}
)

type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

// Create незаданный статус берётся из значения по умолчанию колонки.
func (r *Repository) Create(ctx context.Context, courierModify entities.CourierModify) (int64, error) {
	values := FromDomainModify(&courierModify).values()
	if len(values) == 0 {
		return 0, courier.ErrMissingRequiredFields
	}

	query, args, err := qb.
		Insert(table).
		SetMap(values).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("unexpected courier repository create error: %w", err)
	}

	var id int64
	if err := r.querier.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if repository.IsPgErrorWithCode(err, repository.PgErrUniqueViolation) {
			return 0, courier.ErrConflict
		}
		return 0, fmt.Errorf("unexpected courier repository create error: %w", err)
	}
	return id, nil
}

// Update меняет только заданные поля. Координаты пишутся парой вместе с geocoded_at.
func (r *Repository) Update(ctx context.Context, courierModify entities.CourierModify) (*entities.Courier, error) {
	if courierModify.ID == nil {
		return nil, courier.ErrCourierNotFound
	}

	query, args, err := qb.
		Update(table).
		SetMap(FromDomainModify(&courierModify).values()).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": *courierModify.ID}).
		Suffix(returning()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected courier repository update error: %w", err)
	}

	c, err := r.scanOne(ctx, query, args)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, courier.ErrCourierNotFound
	case repository.IsPgErrorWithCode(err, repository.PgErrUniqueViolation):
		return nil, courier.ErrConflict
	case err != nil:
		return nil, fmt.Errorf("unexpected courier repository update error: %w", err)
	}
	return c, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*entities.Courier, error) {
	query, args, err := qb.
		Select(columns...).
		From(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected courier repository get error: %w", err)
	}

	c, err := r.scanOne(ctx, query, args)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, courier.ErrCourierNotFound
		}
		return nil, fmt.Errorf("unexpected courier repository get error: %w", err)
	}
	return c, nil
}

func (r *Repository) scanOne(ctx context.Context, query string, args []any) (*entities.Courier, error) {
	var c CourierDB
	if err := r.querier.QueryRow(ctx, query, args...).Scan(c.scanTargets()...); err != nil {
		return nil, err
	}
	return ToDomain(&c), nil
}

func returning() string {
	return "RETURNING " + strings.Join(columns, ", ")
}
