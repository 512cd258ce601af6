package handler

import (
	"net/http"

	"github.com/Dan9191/expense-service/internal/middleware"
	"github.com/Dan9191/expense-service/internal/session"
)

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	user, err := h.svc.Register(r.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Login authenticates the user and opens a session
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	user, token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if req.Remember {
		if err := h.svc.Remember(r.Context(), user, token); err != nil {
			h.writeError(w, err)
			return
		}
	}

	id, _ := h.sessions.Open(token, h.svc.RememberStore(user.ID))
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(h.svc.TokenTTL().Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"token":      token,
		"session_id": id,
		"user":       user,
	})
}

// Logout ends the caller's session. With everywhere=true the remembered
// token and profile are cleared too. Logging out without a session succeeds.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	id := middleware.SessionID(r)
	if m, ok := h.sessions.Get(id); ok {
		if r.URL.Query().Get("everywhere") == "true" {
			m.LogoutEverywhere(r.Context())
		}
		h.sessions.Close(id)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

type sessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	Redirect      string `json:"redirect,omitempty"`
	Replace       bool   `json:"replace,omitempty"`
	From          string `json:"from,omitempty"`
}

// Session reports the guard decision for the caller's session against the
// location named by the "from" query parameter
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	loc := session.Location{Path: r.URL.Query().Get("from")}
	if loc.Path == "" {
		loc.Path = "/"
	}

	decision := session.Deny(h.sessions.LoginRoute(), loc)
	if m, ok := h.sessions.Get(middleware.SessionID(r)); ok {
		decision = m.Authorize(m.Authenticated(), loc)
	}
	if decision.Allowed {
		writeJSON(w, http.StatusOK, sessionResponse{Authenticated: true})
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		Redirect: decision.RedirectURL(),
		Replace:  decision.Replace,
		From:     loc.String(),
	})
}

// UserExists reports whether ?email is already registered
func (h *Handler) UserExists(w http.ResponseWriter, r *http.Request) {
	exists, err := h.svc.UserExists(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}

// Profile returns the authenticated user
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.Profile(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
