package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"deliciousbites/internal/chat"
	"deliciousbites/internal/models"
	"deliciousbites/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// шаги формы оформления заказа. 0 - имя, 1 - адрес, 2 - телефон
var formPrompts = []string{
	"📝 What name should we put on the order?",
	"🏠 Delivery address?",
	"📞 Contact phone number?",
}

type checkoutForm struct {
	Step    int
	Name    string
	Address string
	Phone   string
}

// fill записывает ответ в текущий шаг, true когда все поля есть
func (f *checkoutForm) fill(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	switch f.Step {
	case 0:
		f.Name = text
	case 1:
		f.Address = text
	case 2:
		f.Phone = text
	}
	f.Step++
	return f.Step == len(formPrompts)
}

// outgoing ответ бота без привязки к telegram api
type outgoing struct {
	Text           string
	Keyboard       []string
	RemoveKeyboard bool
}

type Bot struct {
	api    *tgbotapi.BotAPI
	engine *chat.Engine
	orders *service.OrderService
	log    *zap.Logger

	mu    sync.Mutex
	forms map[int64]*checkoutForm // чат и его незаконченная форма
}

func NewBot(api *tgbotapi.BotAPI, engine *chat.Engine, orders *service.OrderService, log *zap.Logger) *Bot {
	return &Bot{
		api:    api,
		engine: engine,
		orders: orders,
		log:    log,
		forms:  make(map[int64]*checkoutForm),
	}
}

func SessionID(chatID int64) string {
	return fmt.Sprintf("tg:%d", chatID)
}

// HandleUpdates читает апдейты пока не отменят ctx
func (b *Bot) HandleUpdates(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			chatID := update.Message.Chat.ID
			for _, out := range b.respond(ctx, chatID, update.Message.Text) {
				if _, err := b.api.Send(newMessage(chatID, out)); err != nil {
					b.log.Error("telegram send failed", zap.Int64("chat_id", chatID), zap.Error(err))
				}
			}
		}
	}
}

func (b *Bot) respond(ctx context.Context, chatID int64, text string) []outgoing {
	b.mu.Lock()
	form := b.forms[chatID]
	b.mu.Unlock()

	if form != nil {
		return b.continueForm(ctx, chatID, form, text)
	}

	message := text
	switch strings.TrimSpace(text) { //команды переводим в фразы для движка
	case "/start":
		message = "hello"
	case "/menu":
		message = "menu"
	case "/cart":
		message = "cart"
	case "/help":
		message = "help"
	}

	reply, err := b.engine.Process(ctx, SessionID(chatID), message)
	if err != nil {
		return []outgoing{{Text: "⚠️ Something went wrong, please try again."}}
	}

	out := []outgoing{{Text: plain(reply.Text), Keyboard: reply.QuickReplies}}
	if reply.Action == chat.ActionShowCheckoutForm {
		b.mu.Lock()
		b.forms[chatID] = &checkoutForm{}
		b.mu.Unlock()
		out = append(out, outgoing{Text: formPrompts[0] + "\n(/cancel to stop)", RemoveKeyboard: true})
	}
	return out
}

func (b *Bot) continueForm(ctx context.Context, chatID int64, form *checkoutForm, text string) []outgoing {
	if strings.TrimSpace(text) == "/cancel" {
		b.dropForm(chatID)
		return []outgoing{{Text: "Checkout cancelled. Your cart is still there.", Keyboard: []string{"View Cart", "Show Menu"}}}
	}
	if !form.fill(text) {
		return []outgoing{{Text: formPrompts[form.Step], RemoveKeyboard: true}}
	}
	b.dropForm(chatID)

	order, err := b.orders.PlaceOrder(ctx, SessionID(chatID), service.Customer{
		Name:    form.Name,
		Address: form.Address,
		Phone:   form.Phone,
	})
	switch {
	case errors.Is(err, models.ErrEmptyCart):
		return []outgoing{{Text: "❌ Cart is empty! Add items first.", Keyboard: []string{"Show Menu", "Hot Picks"}}}
	case err != nil:
		return []outgoing{{Text: "⚠️ Could not place the order, your cart is saved. Try 'checkout' again.", Keyboard: []string{"Checkout", "View Cart"}}}
	}

	return []outgoing{{
		Text: fmt.Sprintf("✅ Order placed successfully! Order ID: %s\nTotal: $%.2f\nStatus: %s",
			order.OrderID, order.TotalAmount, order.Status),
		Keyboard: []string{"Show Menu", "Hot Picks"},
	}}
}

func (b *Bot) dropForm(chatID int64) {
	b.mu.Lock()
	delete(b.forms, chatID)
	b.mu.Unlock()
}

func newMessage(chatID int64, out outgoing) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, out.Text)
	switch {
	case out.RemoveKeyboard:
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	case len(out.Keyboard) > 0:
		msg.ReplyMarkup = createQuickRepliesKeyboard(out.Keyboard)
	}
	return msg
}

// createQuickRepliesKeyboard кнопки по две в ряд
func createQuickRepliesKeyboard(replies []string) tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	var currentRow []tgbotapi.KeyboardButton
	for _, reply := range replies {
		currentRow = append(currentRow, tgbotapi.NewKeyboardButton(reply))
		if len(currentRow) == 2 {
			rows = append(rows, currentRow)
			currentRow = nil
		}
	}
	if len(currentRow) > 0 {
		rows = append(rows, currentRow)
	}
	keyboard := tgbotapi.NewReplyKeyboard(rows...)
	keyboard.ResizeKeyboard = true
	return keyboard
}

// plain убирает ** из ответа движка, в telegram шлем без parse mode
func plain(text string) string {
	return strings.ReplaceAll(text, "**", "")
}
