package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"retifica/internal/storage"
)

func (s *Storage) ListMotors(ctx context.Context, clientID string) ([]storage.Motor, error) {
	const op = "storage.mysql.ListMotors"

	query := `SELECT id, client_id, brand, model, engine_number, fuel, notes, created_at FROM motors`
	var args []any
	if clientID != "" {
		query += ` WHERE client_id = ?`
		args = append(args, clientID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка получения моторов: %w", op, err)
	}
	defer rows.Close()

	var motors []storage.Motor
	for rows.Next() {
		var (
			m     storage.Motor
			notes sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.ClientID, &m.Brand, &m.Model, &m.EngineNumber, &m.Fuel, &notes, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строки: %w", op, err)
		}
		m.Notes = notes.String
		motors = append(motors, m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return motors, nil
}

func (s *Storage) SaveMotor(ctx context.Context, m storage.Motor) error {
	return s.SaveMotors(ctx, []storage.Motor{m})
}

func (s *Storage) SaveMotors(ctx context.Context, motors []storage.Motor) error {
	const op = "storage.mysql.SaveMotors"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO motors (id, client_id, brand, model, engine_number, fuel, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			brand = VALUES(brand),
			model = VALUES(model),
			engine_number = VALUES(engine_number),
			fuel = VALUES(fuel),
			notes = VALUES(notes)`)
	if err != nil {
		return fmt.Errorf("%s: ошибка подготовки запроса: %w", op, err)
	}
	defer stmt.Close()

	for _, m := range motors {
		if _, err := stmt.ExecContext(ctx, m.ID, m.ClientID, m.Brand, m.Model, m.EngineNumber, m.Fuel, m.Notes, m.CreatedAt); err != nil {
			return fmt.Errorf("%s: ошибка сохранения мотора %s: %w", op, m.EngineNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return nil
}
