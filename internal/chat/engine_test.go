package chat

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"deliciousbites/internal/metrics"
	"deliciousbites/internal/models"
	"deliciousbites/internal/repo"
	"deliciousbites/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memCatalog меню в памяти с id как после сидирования
type memCatalog struct {
	items []models.MenuItem
	err   error
}

func newMemCatalog() *memCatalog {
	c := &memCatalog{}
	for i, item := range repo.DefaultMenu {
		item.ID = i + 1
		c.items = append(c.items, item)
	}
	return c
}

func (c *memCatalog) AllItems(ctx context.Context) ([]models.MenuItem, error) {
	return c.items, c.err
}

func (c *memCatalog) ItemsByCategory(ctx context.Context, category string) ([]models.MenuItem, error) {
	out := []models.MenuItem{}
	for _, item := range c.items {
		if item.Category == category {
			out = append(out, item)
		}
	}
	return out, c.err
}

func (c *memCatalog) ItemByID(ctx context.Context, id int) (*models.MenuItem, error) {
	if c.err != nil {
		return nil, c.err
	}
	for _, item := range c.items {
		if item.ID == id {
			return &item, nil
		}
	}
	return nil, fmt.Errorf("menu item %d: %w", id, models.ErrNotFound)
}

func newTestEngine() (*Engine, *session.Registry, *memCatalog) {
	catalog := newMemCatalog()
	sessions := session.NewRegistry()
	return NewEngine(catalog, sessions, metrics.NewRegistry(), zap.NewNop()), sessions, catalog
}

func TestClassify_Precedence(t *testing.T) {
	tests := []struct {
		msg  string
		want Intent
	}{
		{"hello", IntentGreeting},
		{"Good Evening!", IntentGreeting},
		{"show me the hot picks menu", IntentMenu},
		{"list items", IntentMenu},
		{"hot picks", IntentHotPicks},
		{"what do you recommend", IntentHotPicks},
		{"add 1", IntentAdd},
		{"i want 3", IntentAdd},
		{"recorder", IntentAdd},
		{"place order", IntentAdd},
		{"add chicken", IntentGreeting},
		{"view cart", IntentViewCart},
		{"basket", IntentViewCart},
		{"clear cart", IntentClear},
		{"checkout", IntentCheckout},
		{"confirm", IntentCheckout},
		{"help", IntentHelp},
		{"pizza?", IntentFallback},
		{"", IntentFallback},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(Normalize(tt.msg)))
		})
	}
}

func TestProcess_GreetingIgnoresCart(t *testing.T) {
	e, sessions, _ := newTestEngine()
	ctx := context.Background()

	_, err := e.Process(ctx, "s1", "add 1")
	require.NoError(t, err)

	reply, err := e.Process(ctx, "s1", "  HELLO ")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Welcome to DeliciousBites")
	assert.Equal(t, []string{"Show Menu", "Hot Picks", "View Cart"}, reply.QuickReplies)
	assert.Empty(t, reply.Action)
	assert.Len(t, sessions.Cart("s1"), 1)
}

func TestProcess_Menu(t *testing.T) {
	e, _, _ := newTestEngine()

	reply, err := e.Process(context.Background(), "s1", "show menu")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "**Hot Picks:**\n🔥 1. BBQ Chicken Pizza - $18.99\n")
	assert.Contains(t, reply.Text, "**Pizzas:**\n4. Margherita Classic - $12.99\n")
	assert.Contains(t, reply.Text, "14. Iced Coffee - $4.99\n")
	assert.Contains(t, reply.Text, "(e.g., 'add 1')")
	assert.Equal(t, []string{"Add 1", "Add 2", "View Cart"}, reply.QuickReplies)
}

func TestProcess_HotPicks(t *testing.T) {
	e, _, _ := newTestEngine()

	reply, err := e.Process(context.Background(), "s1", "popular")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "**3. Beef Burger Special** - $14.99\n⭐ 4.9 | Premium Angus beef")
	assert.NotContains(t, reply.Text, "Margherita")
	assert.Len(t, reply.QuickReplies, 4)
}

func TestProcess_AddToCart(t *testing.T) {
	ctx := context.Background()

	t.Run("same item twice", func(t *testing.T) {
		e, sessions, _ := newTestEngine()

		_, err := e.Process(ctx, "s", "add 1")
		require.NoError(t, err)
		reply, err := e.Process(ctx, "s", "Add 1")
		require.NoError(t, err)

		assert.Contains(t, reply.Text, "🍕 BBQ Chicken Pizza - $18.99")
		assert.Contains(t, reply.Text, "Cart: 2 items")
		cart := sessions.Cart("s")
		require.Len(t, cart, 2)
		assert.Equal(t, cart[0].MenuItem, cart[1].MenuItem)
		assert.Equal(t, 1, cart[0].ID)
	})

	t.Run("unknown id falls back", func(t *testing.T) {
		e, sessions, _ := newTestEngine()

		reply, err := e.Process(ctx, "s", "add 9999")
		require.NoError(t, err)
		assert.Contains(t, reply.Text, "🤔 Try:")
		assert.Equal(t, []string{"Show Menu", "Hot Picks", "Help"}, reply.QuickReplies)
		assert.Empty(t, sessions.Cart("s"))
	})

	t.Run("huge number falls back", func(t *testing.T) {
		e, sessions, _ := newTestEngine()

		reply, err := e.Process(ctx, "s", "buy 99999999999999999999999")
		require.NoError(t, err)
		assert.Contains(t, reply.Text, "🤔 Try:")
		assert.Empty(t, sessions.Cart("s"))
	})

	t.Run("no digits asks for number", func(t *testing.T) {
		e, sessions, _ := newTestEngine()

		reply, err := e.Process(ctx, "s", "Add More")
		require.NoError(t, err)
		assert.Equal(t, "Please provide item number (e.g., 'add 1')", reply.Text)
		assert.Empty(t, sessions.Cart("s"))
	})

	t.Run("snapshot survives catalog edit", func(t *testing.T) {
		e, sessions, catalog := newTestEngine()

		_, err := e.Process(ctx, "s", "add 9")
		require.NoError(t, err)
		catalog.items[8].Price = 100

		assert.Equal(t, 4.99, sessions.Cart("s")[0].Price)
	})
}

func TestProcess_CartLifecycle(t *testing.T) {
	e, sessions, _ := newTestEngine()
	ctx := context.Background()

	reply, err := e.Process(ctx, "s", "view cart")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Your cart is empty")

	reply, err = e.Process(ctx, "s", "checkout")
	require.NoError(t, err)
	assert.Equal(t, "❌ Cart is empty! Add items first.", reply.Text)
	assert.Empty(t, reply.Action)

	for _, msg := range []string{"add 1", "add 12", "add 12"} {
		_, err := e.Process(ctx, "s", msg)
		require.NoError(t, err)
	}

	reply, err = e.Process(ctx, "s", "basket")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "1. BBQ Chicken Pizza - $18.99\n2. Coca Cola - $2.99\n3. Coca Cola - $2.99\n")
	assert.Contains(t, reply.Text, "**Total: $24.97**")
	assert.Equal(t, []string{"Checkout", "Clear Cart", "Add More"}, reply.QuickReplies)

	reply, err = e.Process(ctx, "s", "Checkout")
	require.NoError(t, err)
	assert.Equal(t, ActionShowCheckoutForm, reply.Action)
	assert.NotNil(t, reply.QuickReplies)
	assert.Empty(t, reply.QuickReplies)
	assert.Len(t, sessions.Cart("s"), 3, "checkout only hands off to the form")

	reply, err = e.Process(ctx, "s", "Clear Cart")
	require.NoError(t, err)
	assert.Equal(t, "🗑️ Cart cleared!", reply.Text)
	assert.Empty(t, sessions.Cart("s"))
}

func TestProcess_HelpAndFallback(t *testing.T) {
	e, _, _ := newTestEngine()
	ctx := context.Background()

	reply, err := e.Process(ctx, "s", "help")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "I can help you with")

	reply, err = e.Process(ctx, "s", "pizza?")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "'show menu'")
}

func TestProcess_RecordsConversation(t *testing.T) {
	e, sessions, _ := newTestEngine()

	_, err := e.Process(context.Background(), "", "hey")
	require.NoError(t, err)

	log := sessions.GetOrCreate(session.DefaultID).Conversation()
	require.Len(t, log, 2)
	assert.Equal(t, session.RoleUser, log[0].Role)
	assert.Equal(t, "hey", log[0].Text)
	assert.Equal(t, session.RoleBot, log[1].Role)
}

func TestProcess_CatalogError(t *testing.T) {
	e, _, catalog := newTestEngine()
	catalog.err = errors.New("db down")

	_, err := e.Process(context.Background(), "s", "menu")
	assert.EqualError(t, err, "db down")
}
