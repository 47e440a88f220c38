package location_ping

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"tracking-service/internal/entities"
	"tracking-service/internal/repository"
	"tracking-service/internal/service/courier"
	"tracking-service/internal/service/ingestion"
)

const columns = "id, courier_id, delivery_id, lat, lng, speed, heading, accuracy, pinged_at, created_at"

var qb sq.StatementBuilderType = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

// Create только добавляет: пинги не изменяются после записи.
func (r *Repository) Create(ctx context.Context, ping entities.LocationPing) (*entities.LocationPing, error) {
	query, args, err := qb.
		Insert("location_pings").
		Columns("courier_id", "delivery_id", "lat", "lng", "speed", "heading", "accuracy", "pinged_at").
		Values(
			ping.CourierID, ping.DeliveryID,
			ping.Location.Lat, ping.Location.Lng,
			ping.Speed, ping.Heading, ping.Accuracy,
			ping.PingedAt,
		).
		Suffix("RETURNING " + columns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected location ping repository create error: %w", err)
	}

	var p LocationPingDB
	if err := r.querier.QueryRow(ctx, query, args...).Scan(p.scanTargets()...); err != nil {
		if repository.IsPgErrorWithCode(err, repository.PgErrForeignKeyViolation) {
			return nil, ingestion.ErrCourierNotFound
		}
		if repository.IsPgErrorWithCode(err, repository.PgErrCheckViolation) {
			return nil, ingestion.ErrInvalidTelemetry
		}
		return nil, fmt.Errorf("unexpected location ping repository create error: %w", err)
	}

	return ToDomain(&p), nil
}

// LatestByDelivery последние пинги доставки, от новых к старым.
func (r *Repository) LatestByDelivery(ctx context.Context, deliveryID int64, limit uint64) ([]entities.LocationPing, error) {
	query, args, err := qb.
		Select(columns).
		From("location_pings").
		Where(sq.Eq{"delivery_id": deliveryID}).
		OrderBy("pinged_at DESC", "id DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected location ping repository latest error: %w", err)
	}

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unexpected location ping repository latest error: %w", err)
	}
	defer rows.Close()

	pingsDB := make([]LocationPingDB, 0, limit)
	for rows.Next() {
		var p LocationPingDB
		if err := rows.Scan(p.scanTargets()...); err != nil {
			return nil, fmt.Errorf("unexpected location ping repository latest error: %w", err)
		}
		pingsDB = append(pingsDB, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected location ping repository latest error: %w", err)
	}

	return ToDomainList(pingsDB), nil
}

// LatestByCourier самый свежий пинг курьера, с доставкой или без.
func (r *Repository) LatestByCourier(ctx context.Context, courierID int64) (*entities.LocationPing, error) {
	query, args, err := qb.
		Select(columns).
		From("location_pings").
		Where(sq.Eq{"courier_id": courierID}).
		OrderBy("pinged_at DESC", "id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected location ping repository latest by courier error: %w", err)
	}

	var p LocationPingDB
	if err := r.querier.QueryRow(ctx, query, args...).Scan(p.scanTargets()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, courier.ErrLocationUnknown
		}
		return nil, fmt.Errorf("unexpected location ping repository latest by courier error: %w", err)
	}

	return ToDomain(&p), nil
}

// TrimDelivery оставляет keep последних пингов доставки.
func (r *Repository) TrimDelivery(ctx context.Context, deliveryID int64, keep uint64) (int64, error) {
	query := `
		DELETE FROM location_pings
		WHERE delivery_id = $1
		  AND id NOT IN (
			SELECT id FROM location_pings
			WHERE delivery_id = $1
			ORDER BY pinged_at DESC, id DESC
			LIMIT $2
		  )
	`

	result, err := r.querier.Exec(ctx, query, deliveryID, keep)
	if err != nil {
		return 0, fmt.Errorf("unexpected location ping repository trim error: %w", err)
	}
	return result.RowsAffected(), nil
}

// TrimAll оставляет keep последних пингов на каждую доставку. Пинги вне
// доставки ограничиваются так же, но по курьеру.
func (r *Repository) TrimAll(ctx context.Context, keep uint64) (int64, error) {
	query := `
		DELETE FROM location_pings
		WHERE id IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (
					PARTITION BY delivery_id, CASE WHEN delivery_id IS NULL THEN courier_id END
					ORDER BY pinged_at DESC, id DESC
				) AS position
				FROM location_pings
			) ranked
			WHERE ranked.position > $1
		)
	`

	result, err := r.querier.Exec(ctx, query, keep)
	if err != nil {
		return 0, fmt.Errorf("unexpected location ping repository trim all error: %w", err)
	}
	return result.RowsAffected(), nil
}
