package chat

import (
	"context"
	"strings"
)

type Intent string

const (
	IntentGreeting Intent = "greeting"
	IntentMenu     Intent = "menu"
	IntentHotPicks Intent = "hot_picks"
	IntentAdd      Intent = "add_to_cart"
	IntentViewCart Intent = "view_cart"
	IntentClear    Intent = "clear_cart"
	IntentCheckout Intent = "checkout"
	IntentHelp     Intent = "help"
	IntentFallback Intent = "fallback"
)

type handler func(e *Engine, ctx context.Context, sessionID, msg string) (Reply, error)

// rule проверяется по порядку, срабатывает первое совпадение
type rule struct {
	intent Intent
	match  func(msg string) bool
	handle handler
}

var (
	greetingWords = []string{"hi", "hello", "hey", "good morning", "good evening"}
	menuWords     = []string{"menu", "show", "list", "items"}
	hotWords      = []string{"hot", "popular", "special", "recommend"}
	addWords      = []string{"add", "order", "want", "buy"}
	cartWords     = []string{"cart", "basket"}
	checkoutWords = []string{"checkout", "place order", "confirm"}
)

// совпадения по подстроке: "order" ловится и в "recorder"
var rules = []rule{
	{IntentGreeting, containsAny(greetingWords), (*Engine).greeting},
	{IntentMenu, containsAny(menuWords), (*Engine).menu},
	{IntentHotPicks, containsAny(hotWords), (*Engine).hotPicks},
	{IntentAdd, containsAny(addWords), (*Engine).addToCart},
	{IntentViewCart, isViewCart, (*Engine).viewCart},
	{IntentClear, isClearCart, (*Engine).clearCart},
	{IntentCheckout, containsAny(checkoutWords), (*Engine).checkout},
	{IntentHelp, containsAny([]string{"help"}), (*Engine).help},
}

// Classify intent для уже нормализованного текста
func Classify(msg string) Intent {
	for _, r := range rules {
		if r.match(msg) {
			return r.intent
		}
	}
	return IntentFallback
}

func Normalize(message string) string {
	return strings.ToLower(strings.TrimSpace(message))
}

func containsAny(words []string) func(string) bool {
	return func(msg string) bool {
		for _, w := range words {
			if strings.Contains(msg, w) {
				return true
			}
		}
		return false
	}
}

func isClearCart(msg string) bool {
	return strings.Contains(msg, "clear") && strings.Contains(msg, "cart")
}

// без исключения "clear cart" всегда уходил бы в просмотр корзины
func isViewCart(msg string) bool {
	return containsAny(cartWords)(msg) && !isClearCart(msg)
}
