package sqlcommon

import (
	"errors"
	"testing"

	"github.com/nusalapor/backend/internal/auth/store"
	"github.com/stretchr/testify/require"
)

func TestDollarRebind(t *testing.T) {
	require.Equal(t,
		"UPDATE t SET a = $1, b = $2 WHERE id = $3",
		Dollar{}.Rebind("UPDATE t SET a = ?, b = ? WHERE id = ?"),
	)
	require.Equal(t, "SELECT 1", Dollar{}.Rebind("SELECT 1"))
	require.Equal(t, "a = ?", QuestionMark{}.Rebind("a = ?"))
}

type fakeDialect struct{ QuestionMark }

func (fakeDialect) ConflictField(err error) (string, bool) {
	if err != nil && err.Error() == "dup email" {
		return "email", true
	}
	return "", false
}

func TestMapConflict(t *testing.T) {
	err := mapConflict(fakeDialect{}, errors.New("dup email"))
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	var ce *store.ConflictError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, "email", ce.Field)

	other := errors.New("boom")
	require.Equal(t, other, mapConflict(fakeDialect{}, other))
	require.NoError(t, mapConflict(fakeDialect{}, nil))
}
