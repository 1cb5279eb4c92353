package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	contactPagePath      = "/contact"
	confirmationPagePath = "/contact-confirmation"

	// markerNonceKey 与确认标记一同写入会话，用于服务端防重放
	markerNonceKey = "auctus-contact-nonce"
)

// sessionMarkerStore 将确认标记保存在 cookie 会话中。修改只在 Save 时随响应下发。
type sessionMarkerStore struct {
	session sessions.Session
}

func sessionMarkerStoreFrom(c *gin.Context) (*sessionMarkerStore, bool) {
	if _, exists := c.Get(sessions.DefaultKey); !exists {
		return nil, false
	}
	return &sessionMarkerStore{session: sessions.Default(c)}, true
}

func (s *sessionMarkerStore) Get(key string) (string, bool) {
	switch v := s.session.Get(key).(type) {
	case string:
		return v, true
	case nil:
		return "", false
	default:
		return fmt.Sprint(v), true
	}
}

func (s *sessionMarkerStore) Set(key, value string) error {
	s.session.Set(key, value)
	return nil
}

func (s *sessionMarkerStore) Delete(key string) error {
	s.session.Delete(key)
	return nil
}

func (s *sessionMarkerStore) Save() error {
	return s.session.Save()
}

// markSession opens the gate for this session once.
func (a *API) markSession(store *sessionMarkerStore) error {
	if err := a.gate.Mark(store, a.now()); err != nil {
		return err
	}
	if err := store.Set(markerNonceKey, uuid.NewString()); err != nil {
		return err
	}
	return store.Save()
}

// redeemSession consumes the marker and its nonce. A marker whose nonce was
// already redeemed, for example from a replayed cookie, is refused.
func (a *API) redeemSession(store *sessionMarkerStore) bool {
	nonce, _ := store.Get(markerNonceKey)
	value, ok := a.gate.Consume(store)
	if !ok {
		return false
	}
	store.Delete(markerNonceKey)
	if err := store.Save(); err != nil {
		return false
	}
	return a.ledger.Redeem(nonce, value, a.now())
}

// ShowContactPage renders the contact form.
func (a *API) ShowContactPage(c *gin.Context) {
	c.HTML(http.StatusOK, "contact.html", gin.H{
		"title":         "Contact",
		"endpoint":      "/api/submit-contact",
		"confirmation":  confirmationPagePath,
		"fallbackEmail": a.fallbackMail,
	})
}

// ShowConfirmation renders the thank-you page once per successful submission.
// Without a marker the visitor is sent back to the form.
func (a *API) ShowConfirmation(c *gin.Context) {
	store, ok := sessionMarkerStoreFrom(c)
	if !ok {
		c.Redirect(http.StatusFound, contactPagePath)
		return
	}
	if !a.redeemSession(store) {
		c.Redirect(http.StatusFound, contactPagePath)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.HTML(http.StatusOK, "contact_confirmation.html", gin.H{
		"title":       "Thank you",
		"contactPage": contactPagePath,
	})
}
