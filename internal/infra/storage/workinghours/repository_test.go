package workinghours

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStub = errors.New("stub executor")

type recordingExecutor struct {
	query string
}

func (e *recordingExecutor) ExecContext(_ context.Context, query string, _ ...interface{}) (sql.Result, error) {
	e.query = query
	return nil, errStub
}

func (e *recordingExecutor) QueryContext(_ context.Context, query string, _ ...interface{}) (*sql.Rows, error) {
	e.query = query
	return nil, errStub
}

func (e *recordingExecutor) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	panic("QueryRowContext is not expected in this test")
}

func TestRepository_List(t *testing.T) {
	exec := &recordingExecutor{}
	repo := NewRepository(exec)

	_, err := repo.List(context.Background())

	require.ErrorIs(t, err, ErrExecQuery)
	require.ErrorIs(t, err, errStub)
	assert.Equal(t, "SELECT weekday, open_time, close_time, active, updated_at FROM working_hours ORDER BY weekday ASC", exec.query)
}
