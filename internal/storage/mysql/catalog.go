package mysql

import (
	"context"
	"fmt"

	"retifica/internal/storage"
)

// ListSubActivities: справочник подзадач; пустой serviceType отдаёт все.
func (s *Storage) ListSubActivities(ctx context.Context, serviceType storage.ServiceType) ([]storage.SubActivityTemplate, error) {
	const op = "storage.mysql.ListSubActivities"

	query := `SELECT id, service_type, name, estimated_minutes, sort_order FROM sub_activities`
	var args []any
	if serviceType != storage.ServiceNone {
		query += ` WHERE service_type = ?`
		args = append(args, serviceType)
	}
	query += ` ORDER BY service_type, sort_order`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var items []storage.SubActivityTemplate
	for rows.Next() {
		var it storage.SubActivityTemplate
		if err := rows.Scan(&it.ID, &it.ServiceType, &it.Name, &it.EstimatedMinutes, &it.SortOrder); err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строки: %w", op, err)
		}
		items = append(items, it)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return items, nil
}

func (s *Storage) SaveSubActivity(ctx context.Context, it storage.SubActivityTemplate) error {
	const op = "storage.mysql.SaveSubActivity"

	_, err := s.db.ExecContext(ctx, `INSERT INTO sub_activities (id, service_type, name, estimated_minutes, sort_order)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			name = VALUES(name),
			estimated_minutes = VALUES(estimated_minutes),
			sort_order = VALUES(sort_order)`,
		it.ID, it.ServiceType, it.Name, it.EstimatedMinutes, it.SortOrder)
	if err != nil {
		return fmt.Errorf("%s: ошибка сохранения подзадачи %q: %w", op, it.Name, err)
	}

	return nil
}

func (s *Storage) ListServiceConfigs(ctx context.Context) ([]storage.ServiceConfig, error) {
	const op = "storage.mysql.ListServiceConfigs"

	rows, err := s.db.QueryContext(ctx, `SELECT service_type, label, is_active FROM service_configs ORDER BY service_type`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var cfgs []storage.ServiceConfig
	for rows.Next() {
		var c storage.ServiceConfig
		if err := rows.Scan(&c.ServiceType, &c.Label, &c.IsActive); err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строки: %w", op, err)
		}
		cfgs = append(cfgs, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return cfgs, nil
}

func (s *Storage) UpdateServiceConfigs(ctx context.Context, cfgs []storage.ServiceConfig) error {
	const op = "storage.mysql.UpdateServiceConfigs"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: не удалось начать транзакцию: %w", op, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO service_configs (service_type, label, is_active) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE label = VALUES(label), is_active = VALUES(is_active)`)
	if err != nil {
		return fmt.Errorf("%s: не удалось подготовить запрос: %w", op, err)
	}
	defer stmt.Close()

	for _, c := range cfgs {
		if _, err := stmt.ExecContext(ctx, c.ServiceType, c.Label, c.IsActive); err != nil {
			return fmt.Errorf("%s: ошибка обновления услуги %s: %w", op, c.ServiceType, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: ошибка коммита транзакции: %w", op, err)
	}

	return nil
}
