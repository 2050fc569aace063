package sqlite

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/storefront/internal/storefront/domain"
)

func TestCreateAndGetProduct(t *testing.T) {
	store := newTestStore(t)
	user := seedUser(t, store, "owner@example.com")

	created := seedProduct(t, store, user.ID, "Widget", 10.0, 5)
	assert.NotZero(t, created.ID)

	got, err := store.GetProduct(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", got.Name)
	assert.True(t, got.Price.Equal(decimal.NewFromFloat(10.0)))
	assert.Equal(t, int64(5), got.Stock)
	assert.Equal(t, user.ID, got.OwnerID)

	_, err = store.GetProduct(context.Background(), created.ID+1)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestListProductsPagination(t *testing.T) {
	store := newTestStore(t)
	user := seedUser(t, store, "owner@example.com")

	for i := 0; i < 5; i++ {
		seedProduct(t, store, user.ID, fmt.Sprintf("Widget %d", i), 1.0, 1)
	}

	page, err := store.ListProducts(context.Background(), 0, 3)
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, "Widget 0", page[0].Name)
	assert.Equal(t, "Widget 2", page[2].Name)

	rest, err := store.ListProducts(context.Background(), 3, 3)
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.Equal(t, "Widget 3", rest[0].Name)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	store := newTestStore(t)
	seedUser(t, store, "dup@example.com")

	_, err := store.CreateUser(context.Background(), "dup@example.com", "a$b")
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestGetUserByEmail(t *testing.T) {
	store := newTestStore(t)
	created := seedUser(t, store, "who@example.com")

	got, err := store.GetUserByEmail(context.Background(), "who@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = store.GetUserByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = store.GetUser(context.Background(), created.ID+100)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
