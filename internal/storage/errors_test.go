package storage

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResult struct {
	affected int64
	err      error
}

func (r stubResult) LastInsertId() (int64, error) { return 0, nil }
func (r stubResult) RowsAffected() (int64, error) { return r.affected, r.err }

func TestRequireAffected(t *testing.T) {
	require.NoError(t, requireAffected(stubResult{affected: 1}, "banner", 3))

	err := requireAffected(stubResult{}, "banner", 404)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "banner 404: not found")

	err = requireAffected(stubResult{err: errors.New("driver gone")}, "banner", 3)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
