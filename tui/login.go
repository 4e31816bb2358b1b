package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/youssefsiam38/storefront"
	"github.com/youssefsiam38/storefront/i18n"
)

// loginForm is the sign-in screen.
type loginForm struct {
	email      textinput.Model
	password   textinput.Model
	focused    int
	submitting bool
	errors     *storefront.ValidationError
}

func newLoginForm(t *i18n.Messages) loginForm {
	f := loginForm{
		email:    textinput.New(),
		password: textinput.New(),
	}
	f.password.EchoMode = textinput.EchoPassword
	f.password.EchoCharacter = '•'
	f.relabel(t)
	return f
}

func (f *loginForm) relabel(t *i18n.Messages) {
	f.email.Prompt = t.Auth.Email + ": "
	f.email.Placeholder = t.Auth.EmailPlaceholder
	f.password.Prompt = t.Auth.Password + ": "
	f.password.Placeholder = t.Auth.PasswordPlaceholder
}

// focus moves the cursor to field i (0 email, 1 password).
func (f *loginForm) focus(i int) tea.Cmd {
	f.focused = i
	if i == 0 {
		f.password.Blur()
		return f.email.Focus()
	}
	f.email.Blur()
	return f.password.Focus()
}

func (f *loginForm) input() storefront.LoginInput {
	return storefront.LoginInput{Email: f.email.Value(), Password: f.password.Value()}
}

func (f *loginForm) reset() {
	f.email.SetValue("")
	f.password.SetValue("")
	f.errors = nil
	f.submitting = false
	f.focused = 0
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		m.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		m.login.reset()
		m.screen = screenCatalog
		return m, nil

	case key.Matches(msg, m.keys.Next):
		cmd := m.login.focus((m.login.focused + 1) % 2)
		return m, cmd

	case msg.Type == tea.KeyEnter:
		if m.login.focused == 0 {
			cmd := m.login.focus(1)
			return m, cmd
		}
		if m.login.submitting {
			return m, nil
		}
		m.login.submitting = true
		m.login.errors = nil
		return m, m.submitLogin(m.login.input())
	}

	var cmd tea.Cmd
	if m.login.focused == 0 {
		m.login.email, cmd = m.login.email.Update(msg)
	} else {
		m.login.password, cmd = m.login.password.Update(msg)
	}
	return m, cmd
}

// submitLogin signs in and stores the result in the session.
func (m Model) submitLogin(in storefront.LoginInput) tea.Cmd {
	svc, sessions, ctx, id, locale := m.svc, m.sessions, m.ctx, m.sessionID, m.locale
	return func() tea.Msg {
		res, err := svc.Login(ctx, locale, in)
		if err != nil {
			return loginMsg{err: err}
		}
		if err := sessions.SetAuth(ctx, id, res.Token, res.User); err != nil {
			return loginMsg{err: err}
		}
		return loginMsg{}
	}
}

func (m Model) handleLoginResult(msg loginMsg) (tea.Model, tea.Cmd) {
	m.login.submitting = false
	if msg.err != nil {
		var verr *storefront.ValidationError
		if !errors.As(msg.err, &verr) {
			m.logWarn("login failed", msg.err)
			verr = &storefront.ValidationError{General: m.t.Auth.LoginFailed}
		}
		m.login.errors = verr
		m.login.password.SetValue("")
		return m, nil
	}

	m.login.reset()
	m.screen = screenCatalog
	return m, nil
}

func (m Model) loginView() string {
	var b strings.Builder
	f := m.login

	b.WriteString(m.styles.Title.Render(m.t.Auth.SignIn))
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(m.t.Auth.SignInDescription))
	b.WriteString("\n\n")

	if f.errors != nil && f.errors.General != "" {
		b.WriteString(m.styles.Error.Render(f.errors.General) + "\n\n")
	}

	b.WriteString(f.email.View() + "\n")
	if msg := f.errors.Field("email"); msg != "" {
		b.WriteString(m.styles.Error.Render("  "+msg) + "\n")
	}
	b.WriteString(f.password.View() + "\n")
	if msg := f.errors.Field("password"); msg != "" {
		b.WriteString(m.styles.Error.Render("  "+msg) + "\n")
	}

	b.WriteString("\n")
	if f.submitting {
		b.WriteString(m.spinner.View() + " " + m.t.Auth.SigningIn)
	}
	return b.String()
}
