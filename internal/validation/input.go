package validation

import (
	"regexp"
	"strings"

	"github.com/ignatzorin/postboard-backend/internal/pkg/apperror"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 72

	MaxNameLength  = 100
	MaxTitleLength = 200
	MaxBodyLength  = 10000
)

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return apperror.New(apperror.ErrCodeValidation, "email обязателен")
	}
	if !emailRegexp.MatchString(email) {
		return apperror.New(apperror.ErrCodeValidation, "некорректный формат email")
	}
	return nil
}

// ValidatePassword проверяет длину пароля. Верхняя граница связана с
// ограничением bcrypt на длину входа.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return apperror.New(apperror.ErrCodeValidation, "пароль должен содержать минимум 8 символов")
	}
	if len(password) > MaxPasswordLength {
		return apperror.New(apperror.ErrCodeValidation, "пароль слишком длинный")
	}
	return nil
}

// ValidateName проверяет имя пользователя.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperror.New(apperror.ErrCodeValidation, "имя обязательно")
	}
	if len(name) > MaxNameLength {
		return apperror.New(apperror.ErrCodeValidation, "имя слишком длинное")
	}
	return nil
}

// ValidatePostTitle проверяет заголовок поста.
func ValidatePostTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return apperror.New(apperror.ErrCodeValidation, "заголовок обязателен")
	}
	if len(title) > MaxTitleLength {
		return apperror.New(apperror.ErrCodeValidation, "заголовок слишком длинный")
	}
	return nil
}

// ValidatePostBody проверяет текст поста.
func ValidatePostBody(body string) error {
	body = strings.TrimSpace(body)
	if body == "" {
		return apperror.New(apperror.ErrCodeValidation, "текст поста обязателен")
	}
	if len(body) > MaxBodyLength {
		return apperror.New(apperror.ErrCodeValidation, "текст поста слишком длинный")
	}
	return nil
}
