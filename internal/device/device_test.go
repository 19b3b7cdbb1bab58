package device

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	values  map[string]string
	failSet bool
}

func (m *memStore) GetMeta(_ context.Context, key string) (string, bool, error) {
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memStore) SetMeta(_ context.Context, key, value string) error {
	if m.failSet {
		return errors.New("disk full")
	}
	m.values[key] = value
	return nil
}

func TestEnsure(t *testing.T) {
	ctx := context.Background()
	store := &memStore{values: map[string]string{}}

	first, err := Ensure(ctx, store)
	require.NoError(t, err)
	_, err = uuid.Parse(first.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, first.Label)

	second, err := Ensure(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEnsureStoreFailure(t *testing.T) {
	store := &memStore{values: map[string]string{}, failSet: true}
	_, err := Ensure(context.Background(), store)
	require.Error(t, err)
	assert.Empty(t, store.values)
}
