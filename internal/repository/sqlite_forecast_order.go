package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jamesfeng2009/forecastdesk/internal/db"
	"github.com/jamesfeng2009/forecastdesk/internal/domain"
)

// SQLiteForecastOrderRepo implements ForecastOrderRepo. Create writes the
// order and its children with separate statements, so callers wanting
// atomicity construct the repo from a transaction.
type SQLiteForecastOrderRepo struct {
	db db.DBTX
}

var _ ForecastOrderRepo = (*SQLiteForecastOrderRepo)(nil)

// NewSQLiteForecastOrderRepo creates a repo over a *sql.DB or *sql.Tx.
func NewSQLiteForecastOrderRepo(conn db.DBTX) *SQLiteForecastOrderRepo {
	return &SQLiteForecastOrderRepo{db: conn}
}

const orderColumns = `system_number, customer_number, waybill_number, channel_id, country_code,
	origin_city, destination_city, payload_json, created_at`

func (r *SQLiteForecastOrderRepo) Create(ctx context.Context, o *domain.ForecastOrder) error {
	payload, err := json.Marshal(o.Payload)
	if err != nil {
		return fmt.Errorf("encoding order payload: %w", err)
	}
	query := `INSERT INTO forecast_orders (` + orderColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		o.SystemNumber,
		o.CustomerNumber,
		o.WaybillNumber,
		o.ChannelID,
		o.CountryCode,
		o.OriginCity,
		o.DestinationCity,
		string(payload),
		formatTime(o.CreatedAt),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("forecast order %s: %w", o.CustomerNumber, ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("inserting forecast order: %w", err)
	}

	for i, c := range o.Children {
		_, err := r.db.ExecContext(ctx, `INSERT INTO forecast_order_children
			(system_number, order_system_number, customer_number, track_number, seq)
			VALUES (?, ?, ?, ?, ?)`,
			c.SystemNumber, o.SystemNumber, c.CustomerNumber, c.TrackNumber, i+1)
		if err != nil {
			return fmt.Errorf("inserting child shipment %s: %w", c.SystemNumber, err)
		}
	}
	return nil
}

func (r *SQLiteForecastOrderRepo) GetBySystemNumber(ctx context.Context, systemNumber string) (*domain.ForecastOrder, error) {
	return r.getOne(ctx, `WHERE system_number = ?`, systemNumber)
}

func (r *SQLiteForecastOrderRepo) GetByCustomerNumber(ctx context.Context, customerNumber string) (*domain.ForecastOrder, error) {
	return r.getOne(ctx, `WHERE customer_number = ?`, customerNumber)
}

func (r *SQLiteForecastOrderRepo) GetByWaybill(ctx context.Context, waybill string) (*domain.ForecastOrder, error) {
	if waybill == "" {
		return nil, fmt.Errorf("forecast order: %w", ErrNotFound)
	}
	return r.getOne(ctx, `WHERE waybill_number = ?`, waybill)
}

func (r *SQLiteForecastOrderRepo) AssignWaybill(ctx context.Context, systemNumber, waybill string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE forecast_orders SET waybill_number = ? WHERE system_number = ?`, waybill, systemNumber)
	if err != nil {
		return fmt.Errorf("assigning waybill: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("assigning waybill: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("forecast order %s: %w", systemNumber, ErrNotFound)
	}
	return nil
}

func (r *SQLiteForecastOrderRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM forecast_orders`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting forecast orders: %w", err)
	}
	return n, nil
}

func (r *SQLiteForecastOrderRepo) getOne(ctx context.Context, where string, arg any) (*domain.ForecastOrder, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM forecast_orders `+where, arg)
	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}
	children, err := r.listChildren(ctx, o.SystemNumber)
	if err != nil {
		return nil, err
	}
	o.Children = children
	return o, nil
}

func (r *SQLiteForecastOrderRepo) listChildren(ctx context.Context, systemNumber string) ([]domain.ChildShipment, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT system_number, customer_number, track_number
		FROM forecast_order_children WHERE order_system_number = ? ORDER BY seq`, systemNumber)
	if err != nil {
		return nil, fmt.Errorf("listing child shipments: %w", err)
	}
	defer rows.Close()

	var out []domain.ChildShipment
	for rows.Next() {
		var c domain.ChildShipment
		if err := rows.Scan(&c.SystemNumber, &c.CustomerNumber, &c.TrackNumber); err != nil {
			return nil, fmt.Errorf("scanning child shipment: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanOrder(row *sql.Row) (*domain.ForecastOrder, error) {
	var (
		o         domain.ForecastOrder
		payload   string
		createdAt string
	)
	err := row.Scan(
		&o.SystemNumber,
		&o.CustomerNumber,
		&o.WaybillNumber,
		&o.ChannelID,
		&o.CountryCode,
		&o.OriginCity,
		&o.DestinationCity,
		&payload,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("forecast order: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning forecast order: %w", err)
	}
	if payload != "" && payload != "null" {
		o.Payload = &domain.OrderPayload{}
		if err := json.Unmarshal([]byte(payload), o.Payload); err != nil {
			return nil, fmt.Errorf("decoding order payload: %w", err)
		}
	}
	o.CreatedAt = parseTime(createdAt)
	return &o, nil
}
