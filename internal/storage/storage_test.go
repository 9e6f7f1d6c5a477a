package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     string
		err      error
	}{
		{"photo.PNG", "png", nil},
		{"photo.jpeg", "jpg", nil},
		{"archive.tar.gif", "gif", nil},
		{"image.webp", "webp", nil},
		{"noext", "", ErrInvalidName},
		{"script.php", "", ErrTypeNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, err := SafeExtension(tt.filename)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateName(t *testing.T) {
	a, err := GenerateName("../../etc/passwd.jpeg")
	require.NoError(t, err)
	b, err := GenerateName("x.jpeg")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasSuffix(a, ".jpg"))
	assert.True(t, ValidName(a))
	assert.Len(t, a, 32+len(".jpg"))
}

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("abc.png"))
	assert.False(t, ValidName(""))
	assert.False(t, ValidName("../secret"))
	assert.False(t, ValidName("a/b.png"))
	assert.False(t, ValidName(`a\b.png`))
}

func TestLocalStore_SaveAndOpen(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "img.png", strings.NewReader("data")))

	rc, err := store.Open(ctx, "img.png")
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "data", string(body))

	_, err = store.Open(ctx, "missing.png")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Open(ctx, "../img.png")
	assert.ErrorIs(t, err, ErrInvalidName)

	assert.Error(t, store.Save(ctx, "img.png", strings.NewReader("again")))
}
