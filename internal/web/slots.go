package web

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront/internal/storage"
)

const profileKey = "profile_id"

// Slots решает, где лежит корзина текущего запроса
type Slots interface {
	For(c *gin.Context) storage.Slot
}

// SessionSlots — корзина прямо в cookie-сессии (как localStorage у браузера)
func SessionSlots(key string) Slots {
	return sessionSlots{key: key}
}

type sessionSlots struct{ key string }

func (s sessionSlots) For(c *gin.Context) storage.Slot {
	return storage.NewSessionSlot(sessions.Default(c), s.key)
}

// KeyedSlots — корзина на сервере (memory/postgres/redis), в сессии только id профиля
func KeyedSlots(backend storage.Keyed, key string) Slots {
	return keyedSlots{backend: backend, key: key}
}

type keyedSlots struct {
	backend storage.Keyed
	key     string
}

func (s keyedSlots) For(c *gin.Context) storage.Slot {
	return s.backend.Slot(profileID(c), s.key)
}

// profileID — id профиля браузера, выдаётся при первом визите
func profileID(c *gin.Context) string {
	sess := sessions.Default(c)
	if v, ok := sess.Get(profileKey).(string); ok && v != "" {
		return v
	}
	id := uuid.NewString()
	sess.Set(profileKey, id)
	if err := sess.Save(); err != nil {
		reqLog(c).WithError(err).Warn("profile id not saved")
	}
	return id
}
