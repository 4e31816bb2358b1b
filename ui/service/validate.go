package service

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/youssefsiam38/storefront"
	"github.com/youssefsiam38/storefront/i18n"
)

// Validation constants for form input
const (
	// MinNameLength is the minimum length of a registration name
	MinNameLength = 2
	// MinPasswordLength is the minimum length of a registration password
	MinPasswordLength = 6
	// MinReviewTextLength is the minimum length of a review text
	MinReviewTextLength = 5
)

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	birthRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// ValidateReview checks a review submission. Name and text are trimmed
// in place.
func ValidateReview(m *i18n.Messages, in *storefront.ReviewInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Text = strings.TrimSpace(in.Text)

	verr := &storefront.ValidationError{}
	if in.Name == "" {
		verr.Add("name", m.Review.NameRequired)
	}
	if in.Stars < storefront.MinStars || in.Stars > storefront.MaxStars {
		verr.Add("stars", m.Review.StarsRequired)
	}
	switch {
	case in.Text == "":
		verr.Add("text", m.Review.TextRequired)
	case utf8.RuneCountInString(in.Text) < MinReviewTextLength:
		verr.Add("text", m.Review.TextMinLength)
	}
	return verr.OrNil()
}

// ValidateLogin checks a login submission.
func ValidateLogin(m *i18n.Messages, in *storefront.LoginInput) error {
	in.Email = strings.TrimSpace(in.Email)

	verr := &storefront.ValidationError{}
	if !ValidEmail(in.Email) {
		verr.Add("email", m.Auth.EmailInvalid)
	}
	if in.Password == "" {
		verr.Add("password", m.Auth.PasswordRequired)
	}
	return verr.OrNil()
}

// ValidateRegister checks a registration submission.
func ValidateRegister(m *i18n.Messages, in *storefront.RegisterInput) error {
	in.Email = strings.TrimSpace(in.Email)
	in.Birth = strings.TrimSpace(in.Birth)

	verr := &storefront.ValidationError{}
	if utf8.RuneCountInString(strings.TrimSpace(in.Name)) < MinNameLength {
		verr.Add("name", m.Auth.NameMinLength)
	}
	switch {
	case in.Birth == "":
		verr.Add("birth", m.Auth.BirthRequired)
	case !birthRegex.MatchString(in.Birth):
		verr.Add("birth", m.Auth.BirthFormat)
	}
	if !ValidEmail(in.Email) {
		verr.Add("email", m.Auth.EmailInvalid)
	}
	if utf8.RuneCountInString(in.Password) < MinPasswordLength {
		verr.Add("password", m.Auth.PasswordMinLength)
	}
	return verr.OrNil()
}
