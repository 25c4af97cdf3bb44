// Package session хранит состояние входа в систему. Вместо глобальной
// переменной «текущий пользователь» используется явный реестр с жизненным
// циклом Start/End; активной может быть только одна сессия.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session - маркер аутентифицированной сессии
type Session struct {
	ID        string
	UserID    int64
	Username  string
	StartedAt time.Time
}

// Registry - процессный реестр единственной активной сессии.
// Повторный вход вытесняет предыдущую сессию.
type Registry struct {
	mu      sync.Mutex
	current *Session
}

// NewRegistry создаёт пустой реестр сессий
func NewRegistry() *Registry {
	return &Registry{}
}

// Start открывает новую сессию для пользователя и делает её активной
func (r *Registry) Start(userID int64, username string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Username:  username,
		StartedAt: time.Now(),
	}
	r.current = s
	return s
}

// Active возвращает сессию по идентификатору, если она всё ещё активна
func (r *Registry) Active(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current == nil || r.current.ID != id {
		return nil, false
	}
	return r.current, true
}

// End завершает сессию с указанным идентификатором.
// Чужой или уже завершённой сессии завершение ничего не делает.
func (r *Registry) End(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current != nil && r.current.ID == id {
		r.current = nil
	}
}
