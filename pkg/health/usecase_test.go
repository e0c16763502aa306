package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubChecker struct {
	name  string
	err   error
	calls int
}

func (s *stubChecker) Name() string { return s.name }

func (s *stubChecker) Check(ctx context.Context) error {
	s.calls++
	return s.err
}

func TestReady_AllHealthy(t *testing.T) {
	pg, rd := &stubChecker{name: "postgres"}, &stubChecker{name: "redis"}

	err := NewService(pg, nil, rd).Ready(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, pg.calls)
	assert.Equal(t, 1, rd.calls)
}

func TestReady_StopsAtFirstFailure(t *testing.T) {
	down := errors.New("connection refused")
	pg, rd := &stubChecker{name: "postgres", err: down}, &stubChecker{name: "redis"}

	err := NewService(pg, rd).Ready(context.Background())

	assert.ErrorIs(t, err, down)
	assert.Contains(t, err.Error(), "postgres")
	assert.Zero(t, rd.calls)
}
