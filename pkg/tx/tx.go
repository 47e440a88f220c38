package tx

import (
	"context"
	"errors"
	"fmt"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/avito-tech/go-transaction-manager/trm/manager"
	"github.com/avito-tech/go-transaction-manager/trm/settings"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgErrSerializationFailure = "40001"
	pgErrDeadlockDetected     = "40P01"
)

// ErrSerialization транзакция проиграла конкурентной и может быть повторена.
var ErrSerialization = errors.New("transaction serialization failure")

// Manager инкапсулирует логику управления транзакциями.
type Manager struct {
	internal *manager.Manager
}

func New(db pgxv5.Transactional) *Manager {
	return &Manager{
		internal: manager.Must(pgxv5.NewDefaultFactory(db)),
	}
}

func (m *Manager) execWithIsoLevel(
	ctx context.Context,
	level pgx.TxIsoLevel,
	fn func(ctx context.Context) error,
) error {
	txSettings := pgxv5.MustSettings(
		settings.Must(),
		pgxv5.WithTxOptions(pgx.TxOptions{IsoLevel: level}),
	)

	err := m.internal.DoWithSettings(ctx, txSettings, fn)
	if isSerializationError(err) {
		return fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return err
}

// Do выполняет fn в serializable транзакции. Ошибки сериализации и дедлоки
// оборачиваются в ErrSerialization.
func (m *Manager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.execWithIsoLevel(ctx, pgx.Serializable, fn)
}

// DoReadCommitted для вставок, которым не нужна сериализуемость (пинги).
func (m *Manager) DoReadCommitted(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.execWithIsoLevel(ctx, pgx.ReadCommitted, fn)
}

func isSerializationError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgErrSerializationFailure || pgErr.Code == pgErrDeadlockDetected
	}
	return false
}
