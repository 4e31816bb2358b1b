package frontend

import (
	"errors"
	"net/http"

	"github.com/youssefsiam38/storefront"
	"github.com/youssefsiam38/storefront/backend"
	"github.com/youssefsiam38/storefront/i18n"
)

// loginPage is the data of the login page.
type loginPage struct {
	Input  storefront.LoginInput
	Errors *storefront.ValidationError
}

// registerPage is the data of the registration page.
type registerPage struct {
	Input  storefront.RegisterInput
	Errors *storefront.ValidationError
}

// formError returns err as a validation error, or a general one carrying
// fallback.
func formError(err error, fallback string) *storefront.ValidationError {
	var verr *storefront.ValidationError
	if errors.As(err, &verr) {
		return verr
	}
	return &storefront.ValidationError{General: fallback}
}

// formStatus is the status a re-rendered form is sent with. Only a
// rejected input is the client's fault; a backend that failed or could
// not be reached gets the same status as a failed page load.
func formStatus(err error) int {
	var be *storefront.BackendError
	switch {
	case errors.Is(err, storefront.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, storefront.ErrBackendNotConfigured):
		return http.StatusInternalServerError
	case errors.As(err, &be), backend.IsTransport(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (rt *router) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	v := rt.visitor(w, r)
	if err := rt.renderer.render(w, r, http.StatusOK, "login.html", v.page(v.t.Auth.SignIn, loginPage{})); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (rt *router) handleLogin(w http.ResponseWriter, r *http.Request) {
	v := rt.visitor(w, r)
	in := storefront.LoginInput{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}

	res, err := rt.svc.Login(r.Context(), v.locale, in)
	if err == nil {
		err = rt.sessions.SetAuth(r.Context(), v.session.ID, res.Token, res.User)
	}
	if err == nil {
		http.Redirect(w, r, rt.url("/home"), http.StatusSeeOther)
		return
	}

	verr := formError(err, v.t.Auth.LoginFailed)
	in.Password = ""
	page := loginPage{Input: in, Errors: verr}
	if err := rt.renderer.render(w, r, formStatus(err), "login.html", v.page(v.t.Auth.SignIn, page)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (rt *router) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	v := rt.visitor(w, r)
	if err := rt.renderer.render(w, r, http.StatusOK, "register.html", v.page(v.t.Auth.CreateAccount, registerPage{})); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (rt *router) handleRegister(w http.ResponseWriter, r *http.Request) {
	v := rt.visitor(w, r)
	in := storefront.RegisterInput{
		Name:     r.PostFormValue("name"),
		Birth:    r.PostFormValue("birth"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}

	res, err := rt.svc.Register(r.Context(), v.locale, in)
	if err == nil {
		err = rt.sessions.SetAuth(r.Context(), v.session.ID, res.Token, res.User)
	}
	if err == nil {
		http.Redirect(w, r, rt.url("/home"), http.StatusSeeOther)
		return
	}

	verr := formError(err, v.t.Auth.RegistrationFailed)
	in.Password = ""
	page := registerPage{Input: in, Errors: verr}
	if err := rt.renderer.render(w, r, formStatus(err), "register.html", v.page(v.t.Auth.CreateAccount, page)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (rt *router) handleLogout(w http.ResponseWriter, r *http.Request) {
	id := rt.sessionID(w, r)
	if err := rt.sessions.Clear(r.Context(), id); err != nil {
		rt.logError("failed to clear session", err)
	}
	http.Redirect(w, r, rt.url("/home"), http.StatusSeeOther)
}

func (rt *router) handleLocale(w http.ResponseWriter, r *http.Request) {
	id := rt.sessionID(w, r)
	if l, ok := i18n.ParseLocale(r.PostFormValue("locale")); ok {
		if err := rt.sessions.SetLocale(r.Context(), id, l); err != nil {
			rt.logError("failed to save locale", err)
		}
	}
	http.Redirect(w, r, localTarget(r.PostFormValue("return"), rt.url("/home")), http.StatusSeeOther)
}
