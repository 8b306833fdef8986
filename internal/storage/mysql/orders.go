package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"retifica/internal/storage"
)

const orderColumns = `id, name, client_id, motor_id, priority, status, notes, opened_at, due_at, services, stages, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*storage.ServiceOrder, error) {
	var (
		o            storage.ServiceOrder
		notes        sql.NullString
		dueAt        sql.NullTime
		servicesJSON []byte
		stagesJSON   []byte
	)

	err := row.Scan(&o.ID, &o.Name, &o.ClientID, &o.MotorID, &o.Priority, &o.Status, &notes,
		&o.OpenedAt, &dueAt, &servicesJSON, &stagesJSON, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}

	o.Notes = notes.String
	if dueAt.Valid {
		due := dueAt.Time
		o.DueAt = &due
	}

	if err := json.Unmarshal(servicesJSON, &o.Services); err != nil {
		return nil, fmt.Errorf("ошибка парсинга JSON услуг заказа %s: %w", o.ID, err)
	}
	if err := json.Unmarshal(stagesJSON, &o.Stages); err != nil {
		return nil, fmt.Errorf("ошибка парсинга JSON этапов заказа %s: %w", o.ID, err)
	}
	if o.Stages == nil {
		o.Stages = map[storage.Stage]storage.StageProgress{}
	}

	return &o, nil
}

func marshalWorkflow(o storage.ServiceOrder) (servicesJSON, stagesJSON []byte, err error) {
	services := o.Services
	if services == nil {
		services = []storage.Service{}
	}
	stages := o.Stages
	if stages == nil {
		stages = map[storage.Stage]storage.StageProgress{}
	}

	servicesJSON, err = json.Marshal(services)
	if err != nil {
		return nil, nil, err
	}
	stagesJSON, err = json.Marshal(stages)
	if err != nil {
		return nil, nil, err
	}
	return servicesJSON, stagesJSON, nil
}

func (s *Storage) GetOrder(ctx context.Context, id string) (*storage.ServiceOrder, error) {
	const op = "storage.mysql.GetOrder"

	query := `SELECT ` + orderColumns + ` FROM service_orders WHERE id = ?`

	order, err := scanOrder(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: заказ id=%s: %w", op, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return order, nil
}

// buildOrderFilters возвращает WHERE-часть и аргументы для списка заказов.
func buildOrderFilters(f storage.OrderFilter) (string, []any) {
	var conditions []string
	var args []any

	if len(f.Status) > 0 {
		conditions = append(conditions, "status IN ("+placeholders(len(f.Status))+")")
		for _, st := range f.Status {
			args = append(args, string(st))
		}
	}
	if f.ClientID != "" {
		conditions = append(conditions, "client_id = ?")
		args = append(args, f.ClientID)
	}
	if f.Search != "" {
		conditions = append(conditions, "(name LIKE ? OR id = ?)")
		args = append(args, "%"+f.Search+"%", f.Search)
	}
	if !f.From.IsZero() {
		conditions = append(conditions, "opened_at >= ?")
		args = append(args, f.From)
	}
	if !f.To.IsZero() {
		conditions = append(conditions, "opened_at <= ?")
		args = append(args, f.To)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}

func (s *Storage) ListOrders(ctx context.Context, filter storage.OrderFilter) ([]storage.ServiceOrder, error) {
	const op = "storage.mysql.ListOrders"

	where, args := buildOrderFilters(filter)
	query := `SELECT ` + orderColumns + ` FROM service_orders` + where + ` ORDER BY opened_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка получения заказов: %w", op, err)
	}
	defer rows.Close()

	var orders []storage.ServiceOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строки: %w", op, err)
		}
		orders = append(orders, *o)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return orders, nil
}

// SaveOrder создаёт заказ или перезаписывает его целиком.
func (s *Storage) SaveOrder(ctx context.Context, o storage.ServiceOrder) error {
	const op = "storage.mysql.SaveOrder"

	servicesJSON, stagesJSON, err := marshalWorkflow(o)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	stmt := `INSERT INTO service_orders (` + orderColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			name = VALUES(name),
			client_id = VALUES(client_id),
			motor_id = VALUES(motor_id),
			priority = VALUES(priority),
			status = VALUES(status),
			notes = VALUES(notes),
			due_at = VALUES(due_at),
			services = VALUES(services),
			stages = VALUES(stages),
			updated_at = VALUES(updated_at)`

	_, err = s.db.ExecContext(ctx, stmt, o.ID, o.Name, o.ClientID, o.MotorID, o.Priority, o.Status, o.Notes,
		o.OpenedAt, o.DueAt, servicesJSON, stagesJSON, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: ошибка сохранения заказа id=%s: %w", op, o.ID, err)
	}

	return nil
}

// UpdateOrderWorkflow обновляет только услуги, этапы и статус.
func (s *Storage) UpdateOrderWorkflow(ctx context.Context, o storage.ServiceOrder) error {
	const op = "storage.mysql.UpdateOrderWorkflow"

	servicesJSON, stagesJSON, err := marshalWorkflow(o)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE service_orders SET services = ?, stages = ?, status = ?, updated_at = ? WHERE id = ?`,
		servicesJSON, stagesJSON, o.Status, s.now().UTC(), o.ID)
	if err != nil {
		return fmt.Errorf("%s: ошибка обновления заказа id=%s: %w", op, o.ID, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: заказ id=%s: %w", op, o.ID, storage.ErrNotFound)
	}

	return nil
}

func (s *Storage) DeleteOrder(ctx context.Context, id string) error {
	const op = "storage.mysql.DeleteOrder"

	res, err := s.db.ExecContext(ctx, `DELETE FROM service_orders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: заказ id=%s: %w", op, id, storage.ErrNotFound)
	}

	return nil
}

// addTimed: первый итог таймера заменяет оценку по часам, следующие суммируются.
func addTimed(current int64, recorded *bool, seconds int64) int64 {
	if !*recorded {
		*recorded = true
		return seconds
	}
	return current + seconds
}

// RecordDuration записывает итог таймера в этап или услугу заказа.
func (s *Storage) RecordDuration(ctx context.Context, orderID string, stage storage.Stage, service storage.ServiceType, seconds int64) error {
	const op = "storage.mysql.RecordDuration"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	var servicesJSON, stagesJSON []byte
	err = tx.QueryRowContext(ctx, `SELECT services, stages FROM service_orders WHERE id = ? FOR UPDATE`, orderID).
		Scan(&servicesJSON, &stagesJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: заказ id=%s: %w", op, orderID, storage.ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	order := storage.ServiceOrder{ID: orderID}
	if err := json.Unmarshal(servicesJSON, &order.Services); err != nil {
		return fmt.Errorf("%s: ошибка парсинга JSON услуг: %w", op, err)
	}
	if err := json.Unmarshal(stagesJSON, &order.Stages); err != nil {
		return fmt.Errorf("%s: ошибка парсинга JSON этапов: %w", op, err)
	}
	if order.Stages == nil {
		order.Stages = map[storage.Stage]storage.StageProgress{}
	}

	if service != storage.ServiceNone {
		svc := order.Service(service)
		if svc == nil {
			return fmt.Errorf("%s: услуга %s в заказе id=%s: %w", op, service, orderID, storage.ErrNotFound)
		}
		svc.DurationSeconds = addTimed(svc.DurationSeconds, &svc.TimerRecorded, seconds)
	} else {
		sp := order.Stages[stage]
		sp.DurationSeconds = addTimed(sp.DurationSeconds, &sp.TimerRecorded, seconds)
		order.Stages[stage] = sp
	}

	newServices, newStages, err := marshalWorkflow(order)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx, `UPDATE service_orders SET services = ?, stages = ?, updated_at = ? WHERE id = ?`,
		newServices, newStages, s.now().UTC(), orderID)
	if err != nil {
		return fmt.Errorf("%s: ошибка обновления заказа id=%s: %w", op, orderID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return nil
}
