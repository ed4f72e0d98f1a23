package cart_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"storefront-service/cart"
	"storefront-service/models"
)

func TestStoreForUserFetchesOnceAndReuses(t *testing.T) {
	item := testItem("li-1", "p-1", "Hoodie", 1, 50, 60, 20)
	seed := cartWith(item)
	api := &fakeCartAPI{
		getCartFn: func(context.Context, string) (*models.Cart, error) {
			c := seed.Clone()
			return &c, nil
		},
	}
	store := cart.NewStore(api, &fakeNotifier{}, nil, time.Second)

	first := store.ForUser(context.Background(), "user-1")
	second := store.ForUser(context.Background(), "user-1")

	assert.Same(t, first, second)
	getCalls, _, _, _, _ := api.counts()
	assert.Equal(t, 1, getCalls, "cart is fetched only on first access")
	assert.Len(t, first.Snapshot().Items, 1)
}

func TestStoreIsolatesUsers(t *testing.T) {
	api := &fakeCartAPI{}
	store := cart.NewStore(api, &fakeNotifier{}, nil, time.Second)

	a := store.ForUser(context.Background(), "user-a")
	b := store.ForUser(context.Background(), "user-b")

	assert.NotSame(t, a, b)
}

func TestStoreDropDiscardsState(t *testing.T) {
	api := &fakeCartAPI{}
	store := cart.NewStore(api, &fakeNotifier{}, nil, time.Second)

	first := store.ForUser(context.Background(), "user-1")
	store.Drop("user-1")
	second := store.ForUser(context.Background(), "user-1")

	assert.NotSame(t, first, second)
	getCalls, _, _, _, _ := api.counts()
	assert.Equal(t, 2, getCalls, "re-access after logout re-fetches")
}
