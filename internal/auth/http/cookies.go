package http

import (
	"net/http"
	"time"
)

const (
	accessCookie  = "jwt"
	sessionCookie = "sessionid"
)

func (o Options) cookie(name, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   o.CookieDomain,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   o.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (o Options) setAccessCookie(w http.ResponseWriter, access string) {
	http.SetCookie(w, o.cookie(accessCookie, access, o.AccessTTL))
}

func (o Options) setSessionCookie(w http.ResponseWriter, sid string) {
	http.SetCookie(w, o.cookie(sessionCookie, sid, o.RefreshTTL))
}

// clearCookies expires both auth cookies.
func (o Options) clearCookies(w http.ResponseWriter) {
	for _, name := range []string{accessCookie, sessionCookie} {
		c := o.cookie(name, "", 0)
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0)
		http.SetCookie(w, c)
	}
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
