package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"retifica/internal/storage"
)

func (s *Storage) ListClients(ctx context.Context, search string) ([]storage.Client, error) {
	const op = "storage.mysql.ListClients"

	query := `SELECT id, name, document, phone, email, address, created_at FROM clients`
	var args []any
	if search != "" {
		query += ` WHERE name LIKE ? OR document = ?`
		args = append(args, "%"+search+"%", search)
	}
	query += ` ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка получения клиентов: %w", op, err)
	}
	defer rows.Close()

	var clients []storage.Client
	for rows.Next() {
		var c storage.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Document, &c.Phone, &c.Email, &c.Address, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строки: %w", op, err)
		}
		clients = append(clients, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return clients, nil
}

func (s *Storage) GetClient(ctx context.Context, id string) (*storage.Client, error) {
	const op = "storage.mysql.GetClient"

	var c storage.Client
	err := s.db.QueryRowContext(ctx, `SELECT id, name, document, phone, email, address, created_at FROM clients WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Document, &c.Phone, &c.Email, &c.Address, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: клиент id=%s: %w", op, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &c, nil
}

const upsertClient = `INSERT INTO clients (id, name, document, phone, email, address, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE
		name = VALUES(name),
		phone = VALUES(phone),
		email = VALUES(email),
		address = VALUES(address)`

func (s *Storage) SaveClient(ctx context.Context, c storage.Client) error {
	return s.SaveClients(ctx, []storage.Client{c})
}

// SaveClients пишет пачку клиентов одной транзакцией: либо все, либо никто.
func (s *Storage) SaveClients(ctx context.Context, clients []storage.Client) error {
	const op = "storage.mysql.SaveClients"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertClient)
	if err != nil {
		return fmt.Errorf("%s: ошибка подготовки запроса: %w", op, err)
	}
	defer stmt.Close()

	for _, c := range clients {
		if _, err := stmt.ExecContext(ctx, c.ID, c.Name, c.Document, c.Phone, c.Email, c.Address, c.CreatedAt); err != nil {
			return fmt.Errorf("%s: ошибка сохранения клиента %q: %w", op, c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return nil
}
