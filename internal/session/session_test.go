package session

import (
	"errors"
	"sync"
	"testing"

	"deliciousbites/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pizza = models.MenuItem{ID: 1, Name: "BBQ Chicken Pizza", Price: 18.99, Category: models.HotPicksCategory, Image: "🍕"}

func TestRegistry_GetOrCreateIsIdempotent(t *testing.T) {
	r := NewRegistry()

	first := r.GetOrCreate("abc")
	r.AddToCart("abc", pizza)
	second := r.GetOrCreate("abc")

	assert.Same(t, first, second)
	assert.Len(t, r.Cart("abc"), 1)
	assert.Empty(t, r.Cart("other"))
}

func TestRegistry_EmptyIDIsDefault(t *testing.T) {
	r := NewRegistry()
	r.AddToCart("", pizza)

	assert.Len(t, r.Cart(DefaultID), 1)
	assert.Equal(t, DefaultID, r.GetOrCreate("").ID)
}

func TestRegistry_AddTwiceKeepsDuplicates(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, 1, r.AddToCart("s", pizza))
	assert.Equal(t, 2, r.AddToCart("s", pizza))

	cart := r.Cart("s")
	require.Len(t, cart, 2)
	assert.Equal(t, pizza, cart[0].MenuItem)
	assert.Equal(t, pizza, cart[1].MenuItem)
}

func TestRegistry_CartIsSnapshot(t *testing.T) {
	r := NewRegistry()
	item := pizza
	r.AddToCart("s", item)

	item.Price = 99 // правка каталога после добавления
	cart := r.Cart("s")
	cart[0].Name = "mutated"

	got := r.Cart("s")
	assert.Equal(t, 18.99, got[0].Price)
	assert.Equal(t, "BBQ Chicken Pizza", got[0].Name)
}

func TestRegistry_Checkout(t *testing.T) {
	r := NewRegistry()
	r.AddToCart("s", pizza)

	t.Run("failure keeps cart", func(t *testing.T) {
		err := r.Checkout("s", func(cart []models.CartEntry) error {
			assert.Len(t, cart, 1)
			return errors.New("db down")
		})
		assert.Error(t, err)
		assert.Len(t, r.Cart("s"), 1)
	})

	t.Run("success clears cart", func(t *testing.T) {
		require.NoError(t, r.Checkout("s", func(cart []models.CartEntry) error { return nil }))
		assert.Empty(t, r.Cart("s"))
	})
}

func TestRegistry_ClearAndRecord(t *testing.T) {
	r := NewRegistry()
	r.AddToCart("s", pizza)
	r.ClearCart("s")
	assert.Empty(t, r.Cart("s"))

	r.Record("s", RoleUser, "hello")
	r.Record("s", RoleBot, "welcome")
	log := r.GetOrCreate("s").Conversation()
	require.Len(t, log, 2)
	assert.Equal(t, RoleUser, log[0].Role)
	assert.Equal(t, "welcome", log[1].Text)
}

func TestRegistry_ConcurrentAddsSameSession(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	workers, iters := 8, 250

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iters; j++ {
				r.AddToCart("shared", pizza)
			}
		}()
	}
	wg.Wait()

	assert.Len(t, r.Cart("shared"), workers*iters)
}
