package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"cakeshop/internal/mw"
	"cakeshop/internal/service"
)

func LoginPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(w, http.StatusOK, loginTmpl, "")
	}
}

func LoginHandler(authSvc *service.AuthService, secret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}

		if err := authSvc.Authenticate(r.PostForm.Get("password")); err != nil {
			if errors.Is(err, service.ErrInvalidPassword) {
				slog.Warn("admin login rejected", "remote", r.RemoteAddr)
				render(w, http.StatusUnauthorized, loginTmpl, "Wrong password.")
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if err := mw.SetSessionCookie(w, secret); err != nil {
			http.Error(w, "token generation failed", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
	}
}
