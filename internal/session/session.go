package session

import (
	"sync"
	"time"

	"deliciousbites/internal/models"
)

const DefaultID = "default"

const (
	RoleUser = "user"
	RoleBot  = "bot"
)

type Message struct {
	Role string    `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Session корзина и лог переписки одного клиента, живет пока жив процесс
type Session struct {
	ID           string
	mu           sync.Mutex
	cart         []models.CartEntry
	conversation []Message
}

// Store то, что нужно движку чата, оформлению заказа и http
type Store interface {
	GetOrCreate(id string) *Session
	AddToCart(id string, item models.MenuItem) int
	ClearCart(id string)
	Cart(id string) []models.CartEntry
	Record(id, role, text string)
	Checkout(id string, fn func(cart []models.CartEntry) error) error
}

// Registry потокобезопасная карта сессий. Сессии не истекают
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

func NormalizeID(id string) string {
	if id == "" {
		return DefaultID
	}
	return id
}

func (r *Registry) GetOrCreate(id string) *Session {
	id = NormalizeID(id)
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		s = &Session{ID: id, cart: []models.CartEntry{}}
		r.sessions[id] = s
	}
	return s
}

// AddToCart кладет копию позиции и возвращает новый размер корзины
func (r *Registry) AddToCart(id string, item models.MenuItem) int {
	s := r.GetOrCreate(id)
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = append(s.cart, models.CartEntry{MenuItem: item, AddedAt: r.now().UTC()})
	return len(s.cart)
}

func (r *Registry) ClearCart(id string) {
	s := r.GetOrCreate(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = []models.CartEntry{}
}

func (r *Registry) Cart(id string) []models.CartEntry {
	s := r.GetOrCreate(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartCopy()
}

func (r *Registry) Record(id, role, text string) {
	s := r.GetOrCreate(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversation = append(s.conversation, Message{Role: role, Text: text, At: r.now().UTC()})
}

// Checkout держит лок сессии пока работает fn и чистит корзину только если fn вернул nil
func (r *Registry) Checkout(id string, fn func(cart []models.CartEntry) error) error {
	s := r.GetOrCreate(id)
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.cartCopy()); err != nil {
		return err
	}
	s.cart = []models.CartEntry{}
	return nil
}

// Conversation копия лога переписки
func (s *Session) Conversation() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.conversation))
	copy(out, s.conversation)
	return out
}

func (s *Session) cartCopy() []models.CartEntry {
	out := make([]models.CartEntry, len(s.cart))
	copy(out, s.cart)
	return out
}
