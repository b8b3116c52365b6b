package web

import (
	"net/http"
	"strings"

	"github.com/Bahjat/project-tasks-web/internal/model"
	"github.com/Bahjat/project-tasks-web/internal/platform/errs"
	"github.com/Bahjat/project-tasks-web/internal/platform/metrics"
	"github.com/Bahjat/project-tasks-web/internal/session"
)

// loginPage holds both sign-in forms. Only the form that failed carries an
// error; typed passwords are never echoed back.
type loginPage struct {
	Register bool

	Email       string
	LoginErr    *errs.Classified
	FullName    string
	RegEmail    string
	RegisterErr *errs.Classified
}

func (h *Handler) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if session.FromContext(r.Context()) != nil {
		http.Redirect(w, r, "/projects", http.StatusSeeOther)
		return
	}
	h.render(w, r, http.StatusOK, pageLogin, "Sign in", loginPage{Register: r.URL.Query().Get("mode") == "register"})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	in := model.LoginInput{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}

	sess, err := h.auth.Login(r.Context(), in)
	if err != nil {
		c := errs.Classify(err)
		metrics.ObserveClassified(c, "inline")
		h.render(w, r, inlineStatus(c), pageLogin, "Sign in", loginPage{Email: in.Email, LoginErr: c})
		return
	}

	h.startSession(w, sess)
	http.Redirect(w, r, "/projects", http.StatusSeeOther)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	in := model.RegisterInput{
		FullName: strings.TrimSpace(r.PostFormValue("fullName")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}

	sess, err := h.auth.Register(r.Context(), in)
	if err != nil {
		c := errs.Classify(err)
		metrics.ObserveClassified(c, "inline")
		h.render(w, r, inlineStatus(c), pageLogin, "Create account", loginPage{
			Register:    true,
			FullName:    in.FullName,
			RegEmail:    in.Email,
			RegisterErr: c,
		})
		return
	}

	h.startSession(w, sess)
	http.Redirect(w, r, "/projects", http.StatusSeeOther)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess := session.FromContext(r.Context()); sess != nil {
		h.endSession(w, r, sess)
	} else {
		h.clearCookie(w)
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
