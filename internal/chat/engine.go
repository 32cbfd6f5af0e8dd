package chat

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"deliciousbites/internal/metrics"
	"deliciousbites/internal/models"
	"deliciousbites/internal/repo"
	"deliciousbites/internal/session"

	"go.uber.org/zap"
)

const ActionShowCheckoutForm = "show_checkout_form"

type Reply struct {
	Text         string   `json:"response"`
	QuickReplies []string `json:"quick_replies"`
	Action       string   `json:"action,omitempty"`
}

type Catalog interface {
	AllItems(ctx context.Context) ([]models.MenuItem, error)
	ItemsByCategory(ctx context.Context, category string) ([]models.MenuItem, error)
	ItemByID(ctx context.Context, id int) (*models.MenuItem, error)
}

type Engine struct {
	catalog  Catalog
	sessions session.Store
	metrics  *metrics.Registry
	log      *zap.Logger
}

func NewEngine(catalog Catalog, sessions session.Store, m *metrics.Registry, log *zap.Logger) *Engine {
	return &Engine{catalog: catalog, sessions: sessions, metrics: m, log: log}
}

// Process классифицирует сообщение, меняет корзину сессии и отдает ответ
func (e *Engine) Process(ctx context.Context, sessionID, message string) (Reply, error) {
	sessionID = session.NormalizeID(sessionID)
	msg := Normalize(message)
	e.sessions.Record(sessionID, session.RoleUser, message)

	intent := IntentFallback
	handle := (*Engine).fallback
	for _, r := range rules {
		if r.match(msg) {
			intent, handle = r.intent, r.handle
			break
		}
	}

	reply, err := handle(e, ctx, sessionID, msg)
	if err != nil {
		e.log.Error("chat handler failed",
			zap.String("session_id", sessionID), zap.String("intent", string(intent)), zap.Error(err))
		return Reply{}, err
	}
	if reply.QuickReplies == nil {
		reply.QuickReplies = []string{}
	}

	if e.metrics != nil {
		e.metrics.ChatMessages.WithLabelValues(string(intent)).Inc()
	}
	e.log.Debug("chat message handled",
		zap.String("session_id", sessionID), zap.String("intent", string(intent)))
	e.sessions.Record(sessionID, session.RoleBot, reply.Text)
	return reply, nil
}

func (e *Engine) greeting(ctx context.Context, sessionID, msg string) (Reply, error) {
	return Reply{
		Text: "👋 Welcome to DeliciousBites!\n\nI'm your AI ordering assistant. How can I help?\n\n" +
			"🍕 Browse Menu\n🔥 Hot Picks\n🛒 View Cart\n📦 Place Order\n\nWhat would you like to order today?",
		QuickReplies: []string{"Show Menu", "Hot Picks", "View Cart"},
	}, nil
}

func (e *Engine) menu(ctx context.Context, sessionID, msg string) (Reply, error) {
	items, err := e.catalog.AllItems(ctx)
	if err != nil {
		return Reply{}, err
	}

	var b strings.Builder
	b.WriteString("📋 **Our Complete Menu:**\n\n")
	for _, category := range repo.GroupByCategory(items) {
		fmt.Fprintf(&b, "**%s:**\n", category.Name)
		for _, item := range category.Items {
			hot := ""
			if category.Name == models.HotPicksCategory {
				hot = "🔥 "
			}
			fmt.Fprintf(&b, "%s%d. %s - $%s\n", hot, item.ID, item.Name, formatPrice(item.Price))
		}
		b.WriteString("\n")
	}
	b.WriteString("Type item number to add to cart (e.g., 'add 1')")

	return Reply{Text: b.String(), QuickReplies: []string{"Add 1", "Add 2", "View Cart"}}, nil
}

func (e *Engine) hotPicks(ctx context.Context, sessionID, msg string) (Reply, error) {
	items, err := e.catalog.ItemsByCategory(ctx, models.HotPicksCategory)
	if err != nil {
		return Reply{}, err
	}

	var b strings.Builder
	b.WriteString("🔥 **Today's Hot Picks:**\n\n")
	for _, item := range items {
		fmt.Fprintf(&b, "**%d. %s** - $%s\n", item.ID, item.Name, formatPrice(item.Price))
		fmt.Fprintf(&b, "⭐ %s | %s\n\n", strconv.FormatFloat(item.Rating, 'f', -1, 64), item.Description)
	}
	b.WriteString("Type 'add [number]' to add to cart!")

	return Reply{Text: b.String(), QuickReplies: []string{"Add 1", "Add 2", "Add 3", "View Cart"}}, nil
}

var itemNumber = regexp.MustCompile(`\d+`)

func (e *Engine) addToCart(ctx context.Context, sessionID, msg string) (Reply, error) {
	digits := itemNumber.FindString(msg)
	if digits == "" {
		return Reply{
			Text:         "Please provide item number (e.g., 'add 1')",
			QuickReplies: []string{"Show Menu", "Hot Picks"},
		}, nil
	}

	id, err := strconv.Atoi(digits)
	if err != nil { // слишком длинное число, такого id точно нет
		return e.fallback(ctx, sessionID, msg)
	}
	item, err := e.catalog.ItemByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		e.log.Debug("menu item not found", zap.String("session_id", sessionID), zap.Int("item_id", id))
		return e.fallback(ctx, sessionID, msg)
	}
	if err != nil {
		return Reply{}, err
	}

	size := e.sessions.AddToCart(sessionID, *item)
	return Reply{
		Text: fmt.Sprintf("✅ **Added to Cart!**\n\n%s %s - $%s\n\n🛒 Cart: %d items\n\nContinue shopping or proceed to checkout?",
			item.Image, item.Name, formatPrice(item.Price), size),
		QuickReplies: []string{"View Cart", "Checkout", "Add More"},
	}, nil
}

func (e *Engine) viewCart(ctx context.Context, sessionID, msg string) (Reply, error) {
	cart := e.sessions.Cart(sessionID)
	if len(cart) == 0 {
		return Reply{
			Text:         "🛒 Your cart is empty!\n\nBrowse our menu to add items.",
			QuickReplies: []string{"Show Menu", "Hot Picks"},
		}, nil
	}

	var b strings.Builder
	b.WriteString("🛒 **Your Cart:**\n\n")
	for i, item := range cart {
		fmt.Fprintf(&b, "%d. %s - $%s\n", i+1, item.Name, formatPrice(item.Price))
	}
	fmt.Fprintf(&b, "\n**Total: $%.2f**\n\nReady to checkout?", models.CartTotal(cart))

	return Reply{Text: b.String(), QuickReplies: []string{"Checkout", "Clear Cart", "Add More"}}, nil
}

func (e *Engine) clearCart(ctx context.Context, sessionID, msg string) (Reply, error) {
	e.sessions.ClearCart(sessionID)
	return Reply{Text: "🗑️ Cart cleared!", QuickReplies: []string{"Show Menu", "Hot Picks"}}, nil
}

func (e *Engine) checkout(ctx context.Context, sessionID, msg string) (Reply, error) {
	if len(e.sessions.Cart(sessionID)) == 0 {
		return Reply{
			Text:         "❌ Cart is empty! Add items first.",
			QuickReplies: []string{"Show Menu", "Hot Picks"},
		}, nil
	}
	return Reply{
		Text:         "📝 **Ready to place your order!**\n\nPlease provide your details in the form that will appear.",
		QuickReplies: []string{},
		Action:       ActionShowCheckoutForm,
	}, nil
}

func (e *Engine) help(ctx context.Context, sessionID, msg string) (Reply, error) {
	return Reply{
		Text:         "🤖 **I can help you with:**\n\n🍕 Browse Menu\n🔥 Hot Picks\n🛒 Cart Management\n💳 Checkout\n\nWhat would you like to do?",
		QuickReplies: []string{"Show Menu", "Hot Picks", "View Cart"},
	}, nil
}

func (e *Engine) fallback(ctx context.Context, sessionID, msg string) (Reply, error) {
	return Reply{
		Text:         "🤔 Try:\n• 'show menu'\n• 'hot picks'\n• 'add 1'\n• 'checkout'\n• 'help'",
		QuickReplies: []string{"Show Menu", "Hot Picks", "Help"},
	}, nil
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
