// HTTP handlers for the auth and profile routes.
//
// Routes:
//
//	POST  /auth/signup   → register, returns the new session
//	POST  /auth/signin   → credential exchange, returns the session
//	POST  /auth/signout  → invalidate the bearer session (idempotent)
//	GET   /auth/session  → resolve the bearer token ({"session": null} when none)
//	GET   /profile       → caller's profile
//	PATCH /profile       → partial update of full_name / bio
//
// Auth faults come back as 4xx with {"error": <display message>}; the
// message is exactly what a login/register form should render.
package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// Handler holds shared dependencies.
type Handler struct {
	svc *Service
}

// NewHandler returns a configured Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts all auth routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/auth/signup", h.handleSignUp)
	mux.HandleFunc("/auth/signin", h.handleSignIn)
	mux.HandleFunc("/auth/signout", h.handleSignOut)
	mux.HandleFunc("/auth/session", h.handleSession)
	mux.HandleFunc("/profile", h.handleProfile)
}

// ─── Route handlers ──────────────────────────────────────────────────────────

func (h *Handler) handleSignUp(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
		FullName        string `json:"full_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	sess, err := h.svc.SignUp(r.Context(), body.Email, body.Password, body.ConfirmPassword, body.FullName)
	if err != nil {
		jsonError(w, displayMessage(err), http.StatusBadRequest)
		return
	}
	jsonOK(w, sess)
}

func (h *Handler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	sess, err := h.svc.SignIn(r.Context(), body.Email, body.Password)
	if err != nil {
		jsonError(w, displayMessage(err), http.StatusUnauthorized)
		return
	}
	jsonOK(w, sess)
}

func (h *Handler) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Signing out without an active session is fine — still a 200.
	h.svc.SignOut(r.Context(), bearerToken(r))
	jsonOK(w, map[string]bool{"signed_out": true})
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess := h.svc.Session(r.Context(), bearerToken(r))
	jsonOK(w, map[string]*Session{"session": sess})
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	sess := h.svc.Session(r.Context(), bearerToken(r))
	if sess == nil {
		jsonError(w, "not signed in", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		p := h.svc.Profile(r.Context(), sess.UserID)
		if p == nil {
			jsonError(w, "profile not found", http.StatusNotFound)
			return
		}
		jsonOK(w, p)

	case http.MethodPatch:
		var upd ProfileUpdate
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			jsonError(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		p, err := h.svc.UpdateProfile(r.Context(), sess.UserID, upd)
		if err != nil {
			jsonError(w, displayMessage(err), http.StatusBadRequest)
			return
		}
		jsonOK(w, p)

	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// bearerToken extracts the opaque session token from the Authorization
// header; empty when absent or malformed.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, prefix))
}

// displayMessage unwraps the user-facing message from an auth fault.
func displayMessage(err error) string {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Msg
	}
	return "something went wrong"
}

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
