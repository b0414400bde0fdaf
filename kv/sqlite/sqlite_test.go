package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gosom/submitmyurl/kv"
)

func TestBackend_SetGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")

	b, err := New(path)
	require.NoError(t, err)

	ctx := context.Background()

	_, err = b.Get(ctx, "smu_users")
	require.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, b.Set(ctx, "smu_users", []byte(`[]`)))

	got, err := b.Get(ctx, "smu_users")
	require.NoError(t, err)
	require.Equal(t, []byte(`[]`), got)

	require.NoError(t, b.Set(ctx, "smu_users", []byte(`[{"id":"user_demo"}]`)))

	got, err = b.Get(ctx, "smu_users")
	require.NoError(t, err)
	require.Equal(t, []byte(`[{"id":"user_demo"}]`), got)
}

func TestBackend_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	ctx := context.Background()

	b, err := New(path)
	require.NoError(t, err)
	require.NoError(t, b.Set(ctx, "smu_submissions", []byte(`["a"]`)))

	reopened, err := New(path)
	require.NoError(t, err)

	got, err := reopened.Get(ctx, "smu_submissions")
	require.NoError(t, err)
	require.Equal(t, []byte(`["a"]`), got)
}
