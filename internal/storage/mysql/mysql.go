package mysql

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"retifica/internal/config"
)

type Storage struct {
	db  *sql.DB
	now func() time.Time
}

func New(cfg config.Config) (*Storage, error) {
	const op = "storage.mysql.New"

	dsn := mysql.Config{
		User:                 cfg.DBUser,
		Passwd:               cfg.DBPassword,
		Net:                  "tcp",
		Addr:                 fmt.Sprintf("%s:%d", cfg.DBHost, cfg.DBPort),
		DBName:               cfg.DBName,
		ParseTime:            true,
		Loc:                  time.UTC,
		AllowNativePasswords: true,
		// RowsAffected считает найденные строки, а не изменённые:
		// на этом построены проверки ErrNotFound в UPDATE
		ClientFoundRows:      true,
	}

	db, err := sql.Open("mysql", dsn.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	return &Storage{db: db, now: time.Now}, nil
}

// NewWithDB оборачивает готовое соединение (тесты, sqlmock).
func NewWithDB(db *sql.DB) *Storage {
	return &Storage{db: db, now: time.Now}
}

func (s *Storage) Close() error {
	return s.db.Close()
}

// isDuplicate: нарушение уникального ключа.
func isDuplicate(err error) bool {
	mysqlErr, ok := err.(*mysql.MySQLError)
	return ok && mysqlErr.Number == 1062
}
