package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/youssefsiam38/storefront"
	"github.com/youssefsiam38/storefront/i18n"
)

// Login validates the credentials and exchanges them for a token.
// Rejections come back as *storefront.ValidationError with localized
// messages.
func (s *Service) Login(ctx context.Context, l i18n.Locale, in storefront.LoginInput) (*storefront.AuthResult, error) {
	m := s.Messages(l)
	if err := ValidateLogin(m, &in); err != nil {
		return nil, err
	}

	res, err := s.client.Login(ctx, in)
	if err != nil {
		s.logFailure("login failed", err)
		return nil, loginError(m, err)
	}
	return res, nil
}

// Register validates the form and creates an account.
func (s *Service) Register(ctx context.Context, l i18n.Locale, in storefront.RegisterInput) (*storefront.AuthResult, error) {
	m := s.Messages(l)
	if err := ValidateRegister(m, &in); err != nil {
		return nil, err
	}

	res, err := s.client.Register(ctx, in)
	if err != nil {
		s.logFailure("registration failed", err)
		return nil, registerError(m, err)
	}
	return res, nil
}

// SubmitReview validates and submits a review for product id.
func (s *Service) SubmitReview(ctx context.Context, l i18n.Locale, id string, in storefront.ReviewInput) (*storefront.ReviewCreated, error) {
	m := s.Messages(l)
	if err := ValidateReview(m, &in); err != nil {
		return nil, err
	}

	res, err := s.client.CreateReview(ctx, id, in)
	if err != nil {
		s.logFailure("review submission failed", err)
		return nil, reviewError(m, err)
	}
	return res, nil
}

func (s *Service) logFailure(msg string, err error) {
	if s.logger != nil {
		s.logger.Warn(msg, "error", err)
	}
}

// assignFields attributes backend messages to form fields by the field
// name they mention. It reports whether any message was attributed.
func assignFields(verr *storefront.ValidationError, msgs []string, fields ...string) bool {
	matched := false
	for _, msg := range msgs {
		for _, field := range fields {
			if strings.Contains(msg, field) {
				verr.Add(field, msg)
				matched = true
				break
			}
		}
	}
	return matched
}

func loginError(m *i18n.Messages, err error) error {
	verr := &storefront.ValidationError{}

	var be *storefront.BackendError
	if !errors.As(err, &be) {
		verr.General = m.Auth.LoginFailed
		verr.Err = err
		return verr
	}

	switch be.Status {
	case http.StatusUnauthorized:
		verr.General = m.Auth.InvalidCredentials
	case http.StatusBadRequest:
		if !assignFields(verr, be.Messages(), "email", "password") {
			verr.General = m.Auth.ValidationError
		}
	default:
		verr.General = m.Auth.LoginFailed
		verr.Err = err
	}
	return verr
}

func registerError(m *i18n.Messages, err error) error {
	verr := &storefront.ValidationError{}

	var be *storefront.BackendError
	if !errors.As(err, &be) {
		verr.General = m.Auth.RegistrationFailed
		verr.Err = err
		return verr
	}

	switch be.Status {
	case http.StatusBadRequest:
		if !assignFields(verr, be.Messages(), "email", "password", "name", "birth") {
			verr.General = m.Auth.ValidationError
		}
	case http.StatusConflict:
		verr.Add("email", m.Auth.EmailExists)
	default:
		verr.General = m.Auth.RegistrationFailed
		verr.Err = err
	}
	return verr
}

func reviewError(m *i18n.Messages, err error) error {
	verr := &storefront.ValidationError{}

	var be *storefront.BackendError
	if !errors.As(err, &be) {
		verr.General = m.Review.SubmitError
		verr.Err = err
		return verr
	}

	msgs := be.Messages()
	switch be.Status {
	case http.StatusBadRequest:
		verr.General = m.Review.ValidationError
		if len(msgs) > 0 {
			verr.General = strings.Join(msgs, ", ")
		}
	case http.StatusNotFound:
		verr.General = m.Review.ProductNotFound
	case http.StatusUnauthorized:
		verr.General = m.Review.Unauthorized
	default:
		verr.General = m.Review.SubmitError
		if len(msgs) > 0 {
			verr.General = msgs[0]
		}
		verr.Err = err
	}
	return verr
}
