package frontend

import (
	"net/http"
	"strings"
	"time"

	"github.com/youssefsiam38/storefront/i18n"
	"github.com/youssefsiam38/storefront/session"
)

// visitor is the per-request view of the session.
type visitor struct {
	session *session.Session
	locale  i18n.Locale
	t       *i18n.Messages
}

// sessionID returns the session ID from the cookie, issuing a new cookie
// when there is none or it is not a valid ID.
func (rt *router) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(rt.config.CookieName); err == nil && session.ValidID(c.Value) {
		return c.Value
	}

	id := session.NewID()
	http.SetCookie(w, &http.Cookie{
		Name:     rt.config.CookieName,
		Value:    id,
		Path:     rt.cookiePath(),
		MaxAge:   int(rt.config.SessionTTL / time.Second),
		HttpOnly: true,
		Secure:   rt.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	// Later reads in this request see the new ID.
	r.AddCookie(&http.Cookie{Name: rt.config.CookieName, Value: id})
	return id
}

func (rt *router) cookiePath() string {
	if rt.config.BasePath == "" {
		return "/"
	}
	return rt.config.BasePath
}

// visitor loads the session and resolves the locale: the stored choice,
// else the best match for Accept-Language.
func (rt *router) visitor(w http.ResponseWriter, r *http.Request) *visitor {
	id := rt.sessionID(w, r)
	ctx := r.Context()

	s, err := rt.sessions.Get(ctx, id)
	if err != nil {
		rt.logError("failed to load session", err)
		s = &session.Session{ID: id, Locale: rt.sessions.DefaultLocale()}
	}
	if err := rt.sessions.Touch(ctx, id); err != nil {
		rt.logError("failed to touch session", err)
	}

	locale := s.Locale
	if !s.LocaleSet {
		locale = i18n.Negotiate(r.Header.Get("Accept-Language"), rt.sessions.DefaultLocale())
	}
	return &visitor{session: s, locale: locale, t: rt.svc.Messages(locale)}
}

// page builds the page data for v.
func (v *visitor) page(title string, data any) PageData {
	return PageData{
		Title:   title,
		Locale:  v.locale,
		T:       v.t,
		Session: v.session,
		Data:    data,
	}
}

// localTarget returns target when it is a path on this site, else def.
func localTarget(target, def string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return def
	}
	return target
}
