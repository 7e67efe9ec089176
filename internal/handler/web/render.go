package web

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/cmlabs-hris/usermanager/internal/handler/web/view"
	"github.com/gorilla/csrf"
)

const flashCookieName = "um_flash"

// render writes a templ component to the response.
func render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		slog.Error("Render error", "path", r.URL.Path, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// redirect answers a form post with 303 so the browser, or htmx, follows
// with a GET.
func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// page fills the parts every page shares and consumes pending flashes.
func page(w http.ResponseWriter, r *http.Request, extra ...view.Flash) view.Page {
	return view.Page{
		CSRFField: csrf.TemplateField(r),
		CSRFToken: csrf.Token(r),
		Flashes:   append(popFlashes(w, r), extra...),
	}
}

// flash queues messages for the next rendered page.
func flash(w http.ResponseWriter, r *http.Request, flashes ...view.Flash) {
	pending := readFlashes(r)
	pending = append(pending, flashes...)

	raw, err := json.Marshal(pending)
	if err != nil {
		slog.Error("Flash encode error", "error", err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func success(message string) view.Flash {
	return view.Flash{Kind: view.FlashSuccess, Message: message}
}

func failure(message string) view.Flash {
	return view.Flash{Kind: view.FlashError, Message: message}
}

func readFlashes(r *http.Request) []view.Flash {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	var flashes []view.Flash
	if err := json.Unmarshal(raw, &flashes); err != nil {
		return nil
	}
	return flashes
}

func popFlashes(w http.ResponseWriter, r *http.Request) []view.Flash {
	flashes := readFlashes(r)
	if flashes != nil {
		http.SetCookie(w, &http.Cookie{
			Name:     flashCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return flashes
}
