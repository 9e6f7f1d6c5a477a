package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsMatchesByKind(t *testing.T) {
	err := fmt.Errorf("accept: %w", NotFound("pending connection request not found"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrForbidden))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.True(t, IsKind(err, KindNotFound))
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestTranslate(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, Translate(nil, "x", KindConstraintViolation))
	})

	t.Run("record not found", func(t *testing.T) {
		err := Translate(gorm.ErrRecordNotFound, "post not found", KindConstraintViolation)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
		assert.Contains(t, err.Error(), "post not found")
	})

	t.Run("duplicate with caller kind", func(t *testing.T) {
		err := Translate(gorm.ErrDuplicatedKey, "", KindAlreadyConnected)
		assert.Equal(t, KindAlreadyConnected, KindOf(err))
		assert.ErrorIs(t, err, ErrConstraintViolation)
	})

	t.Run("duplicate as violation", func(t *testing.T) {
		err := Translate(errors.New("UNIQUE constraint failed: likes.user_id"), "", KindConstraintViolation)
		assert.Equal(t, KindConstraintViolation, KindOf(err))
	})

	t.Run("already translated", func(t *testing.T) {
		in := Forbidden("nope")
		assert.Same(t, in, Translate(in, "x", KindConstraintViolation))
	})

	t.Run("other errors pass through", func(t *testing.T) {
		in := errors.New("connection reset")
		assert.Equal(t, in, Translate(in, "x", KindConstraintViolation))
	})
}

func TestIsDuplicate(t *testing.T) {
	assert.True(t, IsDuplicate(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicate(errors.New(`ERROR: duplicate key value violates unique constraint "idx_user_post_like"`)))
	assert.False(t, IsDuplicate(errors.New("FOREIGN KEY constraint failed")))
	assert.False(t, IsDuplicate(nil))
}
