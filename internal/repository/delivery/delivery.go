package delivery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"tracking-service/internal/entities"
	"tracking-service/internal/repository"
	"tracking-service/internal/service/delivery"
)

const (
	table = "deliveries"

	// частичный уникальный индекс: одна активная доставка на курьера
	activeCourierIndex = "deliveries_active_courier_uidx"
)

var (
	qb sq.StatementBuilderType = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	terminalStatuses = []string{
		entities.DeliveryDelivered.String(),
		entities.DeliveryCanceled.String(),
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

func (r *Repository) Create(ctx context.Context, deliveryModify entities.DeliveryModify) (*entities.Delivery, error) {
	if deliveryModify.PublicToken == nil || deliveryModify.Pickup == nil || deliveryModify.Dropoff == nil ||
		deliveryModify.PickupAddress == nil || deliveryModify.DropoffAddress == nil {
		return nil, delivery.ErrMissingRequiredFields
	}

	status := entities.DeliveryCreated
	if deliveryModify.Status != nil {
		status = *deliveryModify.Status
	}

	builder := qb.
		Insert(table).
		Columns(
			"public_token", "status",
			"pickup_address", "pickup_lat", "pickup_lng",
			"dropoff_address", "dropoff_lat", "dropoff_lng",
			"customer_name", "customer_phone",
		).
		Values(
			*deliveryModify.PublicToken, status.String(),
			*deliveryModify.PickupAddress, deliveryModify.Pickup.Lat, deliveryModify.Pickup.Lng,
			*deliveryModify.DropoffAddress, deliveryModify.Dropoff.Lat, deliveryModify.Dropoff.Lng,
			valueOrEmpty(deliveryModify.CustomerName), valueOrEmpty(deliveryModify.CustomerPhone),
		).
		Suffix(returning())

	d, err := r.queryOne(ctx, builder)
	if err != nil {
		if repository.IsPgErrorWithCode(err, repository.PgErrUniqueViolation) {
			return nil, delivery.ErrTokenConflict
		}
		return nil, fmt.Errorf("unexpected delivery repository create error: %w", err)
	}
	return d, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*entities.Delivery, error) {
	return r.getOne(ctx, sq.Eq{"id": id}, false)
}

// GetByIDForUpdate блокирует строку до конца текущей транзакции.
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Delivery, error) {
	return r.getOne(ctx, sq.Eq{"id": id}, true)
}

func (r *Repository) GetByPublicToken(ctx context.Context, token string) (*entities.Delivery, error) {
	return r.getOne(ctx, sq.Eq{"public_token": token}, false)
}

func (r *Repository) GetActiveByCourier(ctx context.Context, courierID int64) (*entities.Delivery, error) {
	return r.getOne(ctx, sq.And{
		sq.Eq{"courier_id": courierID},
		sq.NotEq{"status": terminalStatuses},
	}, false)
}

// UpdateStatus compare-and-set: строка меняется, только если статус всё ещё from.
// Момент входа в фазу ставится один раз.
func (r *Repository) UpdateStatus(
	ctx context.Context,
	id int64,
	from, to entities.DeliveryStatus,
	at time.Time,
) (*entities.Delivery, error) {
	builder := qb.
		Update(table).
		Set("status", to.String()).
		Set("updated_at", at)

	if column, ok := phaseColumn(to); ok {
		builder = builder.Set(column, sq.Expr("COALESCE("+column+", ?)", at))
	}

	builder = builder.
		Where(sq.Eq{"id": id, "status": from.String()}).
		Suffix(returning())

	d, err := r.queryOne(ctx, builder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, delivery.ErrConcurrencyConflict
		}
		return nil, fmt.Errorf("unexpected delivery repository update status error: %w", err)
	}
	return d, nil
}

// AssignCourier переводит created -> assigned вместе с назначением курьера.
func (r *Repository) AssignCourier(ctx context.Context, id int64, courierID int64, at time.Time) (*entities.Delivery, error) {
	builder := qb.
		Update(table).
		Set("courier_id", courierID).
		Set("status", entities.DeliveryAssigned.String()).
		Set("assigned_at", at).
		Set("updated_at", at).
		Where(sq.Eq{"id": id, "status": entities.DeliveryCreated.String()}).
		Suffix(returning())

	d, err := r.queryOne(ctx, builder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, delivery.ErrConcurrencyConflict
		}
		if repository.IsPgErrorWithConstraint(err, repository.PgErrUniqueViolation, activeCourierIndex) {
			return nil, delivery.ErrCourierBusy
		}
		return nil, fmt.Errorf("unexpected delivery repository assign courier error: %w", err)
	}
	return d, nil
}

func (r *Repository) UpdateRoute(ctx context.Context, id int64, route entities.RouteSnapshot) error {
	return r.update(ctx, id, "route", map[string]any{
		"route_polyline":         route.Polyline,
		"route_distance_meters":  route.DistanceMeters,
		"route_duration_seconds": route.DurationSeconds,
		"route_calculated_at":    route.CalculatedAt,
	})
}

func (r *Repository) UpdateETA(ctx context.Context, id int64, eta entities.ETA) error {
	return r.update(ctx, id, "eta", map[string]any{
		"current_estimated_duration_seconds": eta.CurrentDurationSeconds,
		"estimated_arrival_at":               eta.EstimatedArrivalAt,
		"eta_calculated_at":                  eta.CalculatedAt,
	})
}

// MarkArriving ставит arriving_at, если он ещё не стоит. false, если отметку
// уже поставил кто-то другой или доставка завершена.
func (r *Repository) MarkArriving(ctx context.Context, id int64, at time.Time) (bool, error) {
	query, args, err := qb.
		Update(table).
		Set("arriving_at", at).
		Set("updated_at", at).
		Where(sq.Eq{"id": id, "arriving_at": nil}).
		Where(sq.NotEq{"status": terminalStatuses}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("unexpected delivery repository mark arriving error: %w", err)
	}

	result, err := r.querier.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("unexpected delivery repository mark arriving error: %w", err)
	}
	return result.RowsAffected() == 1, nil
}

func (r *Repository) StartTracking(ctx context.Context, id int64, at time.Time) error {
	return r.update(ctx, id, "start tracking", map[string]any{
		"tracking_started_at": sq.Expr("COALESCE(tracking_started_at, ?)", at),
	})
}

func (r *Repository) CompleteTracking(ctx context.Context, id int64, at time.Time) error {
	return r.update(ctx, id, "complete tracking", map[string]any{
		"tracking_completed_at": sq.Expr("COALESCE(tracking_completed_at, ?)", at),
	})
}

// ListMissingRoute активные доставки с курьером, для которых маршрут так и не посчитан.
func (r *Repository) ListMissingRoute(ctx context.Context, limit uint64) ([]entities.Delivery, error) {
	query, args, err := qb.
		Select(columns...).
		From(table).
		Where(sq.Eq{"route_calculated_at": nil}).
		Where(sq.NotEq{"courier_id": nil}).
		Where(sq.NotEq{"status": terminalStatuses}).
		OrderBy("id").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected delivery repository list missing route error: %w", err)
	}

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unexpected delivery repository list missing route error: %w", err)
	}
	defer rows.Close()

	deliveriesDB := make([]DeliveryDB, 0, limit)
	for rows.Next() {
		var d DeliveryDB
		if err := rows.Scan(d.scanTargets()...); err != nil {
			return nil, fmt.Errorf("unexpected delivery repository list missing route error: %w", err)
		}
		deliveriesDB = append(deliveriesDB, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected delivery repository list missing route error: %w", err)
	}

	return ToDomainList(deliveriesDB)
}

func (r *Repository) getOne(ctx context.Context, where sq.Sqlizer, forUpdate bool) (*entities.Delivery, error) {
	builder := qb.
		Select(columns...).
		From(table).
		Where(where).
		Limit(1)
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected delivery repository get error: %w", err)
	}

	var d DeliveryDB
	err = r.querier.QueryRow(ctx, query, args...).Scan(d.scanTargets()...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, delivery.ErrDeliveryNotFound
		}
		return nil, fmt.Errorf("unexpected delivery repository get error: %w", err)
	}

	return ToDomain(&d)
}

func (r *Repository) queryOne(ctx context.Context, builder sq.Sqlizer) (*entities.Delivery, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var d DeliveryDB
	if err := r.querier.QueryRow(ctx, query, args...).Scan(d.scanTargets()...); err != nil {
		return nil, err
	}
	return ToDomain(&d)
}

func (r *Repository) update(ctx context.Context, id int64, what string, values map[string]any) error {
	query, args, err := qb.
		Update(table).
		SetMap(values).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("unexpected delivery repository %s error: %w", what, err)
	}

	result, err := r.querier.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("unexpected delivery repository %s error: %w", what, err)
	}
	if result.RowsAffected() == 0 {
		return delivery.ErrDeliveryNotFound
	}
	return nil
}

func returning() string {
	return "RETURNING " + strings.Join(columns, ", ")
}

func valueOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
