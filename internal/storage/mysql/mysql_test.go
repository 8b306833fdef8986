package mysql

import (
	"database/sql/driver"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

func newMockStorage(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := NewWithDB(db)
	s.now = func() time.Time { return fixedNow }
	return s, mock
}

// contains проверяет, что аргумент запроса (строка или JSON-байты) содержит подстроку.
type contains string

func (c contains) Match(v driver.Value) bool {
	switch val := v.(type) {
	case string:
		return strings.Contains(val, string(c))
	case []byte:
		return strings.Contains(string(val), string(c))
	}
	return false
}
