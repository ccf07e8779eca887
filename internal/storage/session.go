package storage

import (
	"context"

	"github.com/gin-contrib/sessions"
	"github.com/pkg/errors"
)

// SessionSlot — слот внутри cookie-сессии браузера.
// Значение хранится строкой: cookie-store кодирует его через gob.
type SessionSlot struct {
	sess sessions.Session
	key  string
}

func NewSessionSlot(sess sessions.Session, key string) *SessionSlot {
	return &SessionSlot{sess: sess, key: key}
}

func (s *SessionSlot) Load(ctx context.Context) ([]byte, error) {
	raw := s.sess.Get(s.key)
	if raw == nil {
		return nil, ErrEmpty
	}
	switch v := raw.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, errors.Errorf("session slot %q holds %T", s.key, raw)
	}
}

// Save пишет cookie; слишком большая корзина вернёт ошибку securecookie.
func (s *SessionSlot) Save(ctx context.Context, data []byte) error {
	s.sess.Set(s.key, string(data))
	return errors.Wrap(s.sess.Save(), "save session")
}

func (s *SessionSlot) Erase(ctx context.Context) error {
	s.sess.Delete(s.key)
	return errors.Wrap(s.sess.Save(), "save session")
}
