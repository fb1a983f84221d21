package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cleaning-crm/internal/db"
	"cleaning-crm/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type postgresRepo struct {
	logger *zap.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{logger: logger}
}

const orderColumns = `id, order_status, start_time, end_time, canceled_at, payment_method, payment_status,
       service_type, service_options, order_details, occurance, price::text, address_id, customer_id,
       customer_name, customer_lastname, customer_phone, assigned_employees, assigned_tools, order_reviews,
       comment, created_at, updated_at`

var sortColumns = map[SortField]string{
	SortCreatedAt: "created_at",
	SortStartTime: "start_time",
	SortEndTime:   "end_time",
	SortPrice:     "price",
}

func (r *postgresRepo) Create(ctx context.Context, q db.Querier, o domain.CleaningOrder) (*domain.CleaningOrder, error) {
	optsJSON, detailsJSON, err := encodeJSONColumns(o)
	if err != nil {
		return nil, err
	}
	const stmt = `
INSERT INTO cleaning_orders (
    id, order_status, start_time, end_time, canceled_at, payment_method, payment_status,
    service_type, service_options, order_details, occurance, price, address_id, customer_id,
    customer_name, customer_lastname, customer_phone, assigned_employees, assigned_tools, order_reviews, comment
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12::numeric, $13, $14, $15, $16, $17, $18, $19, $20, $21)
RETURNING ` + orderColumns
	return r.scanOrder(q.QueryRow(ctx, stmt,
		o.ID, o.OrderStatus, o.StartTime, o.EndTime, o.CanceledAt, o.PaymentMethod, o.PaymentStatus,
		o.ServiceType, optsJSON, detailsJSON, o.Occurance, o.Price.String(), o.AddressID, o.CustomerID,
		o.CustomerName, o.CustomerLastname, o.CustomerPhone, o.AssignedEmployees, o.AssignedTools, o.OrderReviews, o.Comment,
	))
}

func (r *postgresRepo) GetByID(ctx context.Context, q db.Querier, id string) (*domain.CleaningOrder, error) {
	const stmt = `SELECT ` + orderColumns + ` FROM cleaning_orders WHERE id = $1`
	return r.scanOrder(q.QueryRow(ctx, stmt, id))
}

func (r *postgresRepo) Update(ctx context.Context, q db.Querier, o domain.CleaningOrder) (*domain.CleaningOrder, error) {
	optsJSON, detailsJSON, err := encodeJSONColumns(o)
	if err != nil {
		return nil, err
	}
	const stmt = `
UPDATE cleaning_orders SET
    order_status = $2, start_time = $3, end_time = $4, canceled_at = $5, payment_method = $6,
    payment_status = $7, service_type = $8, service_options = $9, order_details = $10, occurance = $11,
    price = $12::numeric, address_id = $13, customer_id = $14, customer_name = $15, customer_lastname = $16,
    customer_phone = $17, assigned_employees = $18, assigned_tools = $19, order_reviews = $20, comment = $21,
    updated_at = now()
WHERE id = $1
RETURNING ` + orderColumns
	return r.scanOrder(q.QueryRow(ctx, stmt,
		o.ID, o.OrderStatus, o.StartTime, o.EndTime, o.CanceledAt, o.PaymentMethod,
		o.PaymentStatus, o.ServiceType, optsJSON, detailsJSON, o.Occurance,
		o.Price.String(), o.AddressID, o.CustomerID, o.CustomerName, o.CustomerLastname,
		o.CustomerPhone, o.AssignedEmployees, o.AssignedTools, o.OrderReviews, o.Comment,
	))
}

func (r *postgresRepo) Delete(ctx context.Context, q db.Querier, id string) error {
	tag, err := q.Exec(ctx, `DELETE FROM cleaning_orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) List(ctx context.Context, q db.Querier, f ListFilter) ([]domain.CleaningOrder, int, error) {
	var where []string
	var args []any
	if f.CustomerID != nil {
		args = append(args, *f.CustomerID)
		where = append(where, fmt.Sprintf("customer_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("order_status = $%d", len(args)))
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := q.QueryRow(ctx, `SELECT count(*) FROM cleaning_orders`+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	col, ok := sortColumns[f.SortField]
	if !ok {
		col = sortColumns[SortCreatedAt]
	}
	dir := "ASC"
	if f.Descending {
		dir = "DESC"
	}
	args = append(args, f.Limit, f.Offset)
	stmt := fmt.Sprintf(`SELECT %s FROM cleaning_orders%s ORDER BY %s %s NULLS LAST, id LIMIT $%d OFFSET $%d`,
		orderColumns, clause, col, dir, len(args)-1, len(args))

	rows, err := q.Query(ctx, stmt, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]domain.CleaningOrder, 0, f.Limit)
	for rows.Next() {
		o, err := r.scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *o)
	}
	return out, total, rows.Err()
}

func (r *postgresRepo) HasActiveForAddress(ctx context.Context, q db.Querier, addressID string, customerID *string) (bool, error) {
	const stmt = `
SELECT EXISTS (
    SELECT 1 FROM cleaning_orders
    WHERE address_id = $1
      AND customer_id IS NOT DISTINCT FROM $2
      AND order_status NOT IN ('COMPLETED', 'CANCELLED')
)`
	var inUse bool
	if err := q.QueryRow(ctx, stmt, addressID, customerID).Scan(&inUse); err != nil {
		return false, err
	}
	return inUse, nil
}

func encodeJSONColumns(o domain.CleaningOrder) ([]byte, []byte, error) {
	optsJSON, err := json.Marshal(o.ServiceOptions)
	if err != nil {
		return nil, nil, err
	}
	detailsJSON, err := json.Marshal(o.OrderDetails)
	if err != nil {
		return nil, nil, err
	}
	return optsJSON, detailsJSON, nil
}

func (r *postgresRepo) scanOrder(row pgx.Row) (*domain.CleaningOrder, error) {
	var o domain.CleaningOrder
	var optsJSON, detailsJSON []byte
	var price string
	err := row.Scan(
		&o.ID,
		&o.OrderStatus,
		&o.StartTime,
		&o.EndTime,
		&o.CanceledAt,
		&o.PaymentMethod,
		&o.PaymentStatus,
		&o.ServiceType,
		&optsJSON,
		&detailsJSON,
		&o.Occurance,
		&price,
		&o.AddressID,
		&o.CustomerID,
		&o.CustomerName,
		&o.CustomerLastname,
		&o.CustomerPhone,
		&o.AssignedEmployees,
		&o.AssignedTools,
		&o.OrderReviews,
		&o.Comment,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Error("order repo: scan", zap.Error(err))
		return nil, err
	}
	if err := json.Unmarshal(optsJSON, &o.ServiceOptions); err != nil {
		r.logger.Error("order repo: decode service options", zap.String("id", o.ID), zap.Error(err))
		return nil, err
	}
	if err := json.Unmarshal(detailsJSON, &o.OrderDetails); err != nil {
		r.logger.Error("order repo: decode order details", zap.String("id", o.ID), zap.Error(err))
		return nil, err
	}
	if o.Price, err = decimal.NewFromString(price); err != nil {
		r.logger.Error("order repo: decode price", zap.String("id", o.ID), zap.Error(err))
		return nil, err
	}
	return &o, nil
}
