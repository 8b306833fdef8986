package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"retifica/internal/storage"
)

const employeeColumns = `id, name, role, specialties, status, activity, created_at`

func scanEmployee(row rowScanner) (*storage.Employee, error) {
	var (
		e            storage.Employee
		specialties  []byte
		activityJSON []byte
	)

	if err := row.Scan(&e.ID, &e.Name, &e.Role, &specialties, &e.Status, &activityJSON, &e.CreatedAt); err != nil {
		return nil, err
	}

	if len(specialties) > 0 {
		if err := json.Unmarshal(specialties, &e.Specialties); err != nil {
			return nil, fmt.Errorf("ошибка парсинга специальностей сотрудника %s: %w", e.ID, err)
		}
	}

	if len(activityJSON) > 0 && string(activityJSON) != "null" {
		var a storage.Activity
		if err := json.Unmarshal(activityJSON, &a); err != nil {
			return nil, fmt.Errorf("ошибка парсинга активности сотрудника %s: %w", e.ID, err)
		}
		e.Activity = &a
	}

	return &e, nil
}

func (s *Storage) GetEmployee(ctx context.Context, id string) (*storage.Employee, error) {
	const op = "storage.mysql.GetEmployee"

	emp, err := scanEmployee(s.db.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: сотрудник id=%s: %w", op, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return emp, nil
}

func (s *Storage) ListEmployees(ctx context.Context, onlyActive bool) ([]storage.Employee, error) {
	const op = "storage.mysql.ListEmployees"

	query := `SELECT ` + employeeColumns + ` FROM employees`
	var args []any
	if onlyActive {
		query += ` WHERE status <> ?`
		args = append(args, storage.EmployeeInactive)
	}
	query += ` ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка получения сотрудников: %w", op, err)
	}
	defer rows.Close()

	var employees []storage.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строки: %w", op, err)
		}
		employees = append(employees, *e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return employees, nil
}

func marshalSpecialties(sp []string) ([]byte, error) {
	if sp == nil {
		sp = []string{}
	}
	return json.Marshal(sp)
}

func (s *Storage) CreateEmployee(ctx context.Context, e storage.Employee) error {
	const op = "storage.mysql.CreateEmployee"

	specialties, err := marshalSpecialties(e.Specialties)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO employees (id, name, role, specialties, status, activity, created_at) VALUES (?, ?, ?, ?, ?, NULL, ?)`,
		e.ID, e.Name, e.Role, specialties, e.Status, e.CreatedAt)
	if err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("%s: сотрудник id=%s уже существует: %w", op, e.ID, err)
		}
		return fmt.Errorf("%s: ошибка сохранения сотрудника: %w", op, err)
	}

	return nil
}

// UpdateEmployees: массовое обновление из админки (имя, роль, специальности, статус).
func (s *Storage) UpdateEmployees(ctx context.Context, emps []storage.Employee) error {
	const op = "storage.mysql.UpdateEmployees"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: ошибка при создании транзакции: %w", op, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `UPDATE employees SET name = ?, role = ?, specialties = ?, status = ? WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("%s: ошибка при подготовке запроса: %w", op, err)
	}
	defer stmt.Close()

	for _, e := range emps {
		specialties, err := marshalSpecialties(e.Specialties)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if _, err := stmt.ExecContext(ctx, e.Name, e.Role, specialties, e.Status, e.ID); err != nil {
			return fmt.Errorf("%s: ошибка при обновлении сотрудника id=%s: %w", op, e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: ошибка коммита транзакции: %w", op, err)
	}

	return nil
}

// UpdateEmployeeActivity выставляет статус и текущую активность; nil очищает активность.
func (s *Storage) UpdateEmployeeActivity(ctx context.Context, id string, status storage.EmployeeStatus, activity *storage.Activity) error {
	const op = "storage.mysql.UpdateEmployeeActivity"

	var activityArg any
	if activity != nil {
		raw, err := json.Marshal(activity)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		activityArg = string(raw)
	}

	res, err := s.db.ExecContext(ctx, `UPDATE employees SET status = ?, activity = ? WHERE id = ?`, status, activityArg, id)
	if err != nil {
		return fmt.Errorf("%s: ошибка обновления активности сотрудника id=%s: %w", op, id, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: сотрудник id=%s: %w", op, id, storage.ErrNotFound)
	}

	return nil
}
