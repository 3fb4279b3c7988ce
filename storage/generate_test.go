package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUsersOrders(t *testing.T) {
	data := GenerateUsersOrders()
	require.Len(t, data.Users, 2)

	alice := data.Users[0]
	assert.Equal(t, 1, alice.ID)
	assert.Equal(t, "Alice", alice.Name)
	assert.Equal(t, "alice@example.com", alice.Email)
	require.Len(t, alice.Orders, 50)

	first := alice.Orders[0]
	assert.Equal(t, 101, first.OrderID)
	assert.Equal(t, "High Quality and Durable Product Model Number 001 for Everyday Use", first.Product)
	assert.Equal(t, 11.6, first.Amount)
	assert.Equal(t, "processing", first.Status)

	bob := data.Users[1]
	last := bob.Orders[49]
	assert.Equal(t, 250, last.OrderID)
	assert.Equal(t, "High Quality and Durable Product Model Number 050 for Everyday Use", last.Product)
	assert.Equal(t, 37.2, last.Amount)
	assert.Equal(t, "delivered", last.Status)

	assert.Equal(t, "shipped", alice.Orders[3].Status)
}

func TestGenerateUsersOrders_LoadsBack(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Write(GenerateUsersOrders(), false))

	v, err := store.Load()
	require.NoError(t, err)

	root, ok := v.(map[string]any)
	require.True(t, ok)
	users, ok := root["users"].([]any)
	require.True(t, ok)
	assert.Len(t, users, 2)
}
