package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/postboard-backend/internal/models"
	"github.com/ignatzorin/postboard-backend/internal/pkg/apperror"
	"github.com/ignatzorin/postboard-backend/internal/repository/common"
)

// ImportUserStore описывает операции хранилища, нужные импорту.
type ImportUserStore interface {
	Create(ctx context.Context, user *models.User) error
	EmailExists(ctx context.Context, email string) (bool, error)
}

// ImportService загружает пользователей из внешнего JSON-источника.
type ImportService struct {
	repo   ImportUserStore
	client *http.Client
	log    logrus.FieldLogger
}

// NewImportService создаёт сервис импорта.
func NewImportService(repo ImportUserStore, log logrus.FieldLogger) *ImportService {
	return &ImportService{
		repo:   repo,
		client: &http.Client{Timeout: 30 * time.Second},
		log:    log,
	}
}

// ImportStats содержит итоги одного запуска импорта.
type ImportStats struct {
	Fetched  int
	Imported int
	Skipped  int
}

// externalUser описывает запись внешнего источника. Лишние поля игнорируются.
type externalUser struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ImportUsers скачивает список пользователей по url и сохраняет первые limit
// записей. Записи без email и с уже занятым email пропускаются, импорт при
// этом продолжается. Паролем становится bcrypt-хеш от username.
func (s *ImportService) ImportUsers(ctx context.Context, url string, limit int) (*ImportStats, error) {
	if limit <= 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "limit должен быть больше нуля")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("import service: build request %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("import service: fetch %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("import service: источник вернул статус %d", resp.StatusCode)
	}

	var raw []externalUser
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("import service: decode %w", err)
	}

	stats := &ImportStats{Fetched: len(raw)}

	if len(raw) > limit {
		raw = raw[:limit]
	}

	for _, record := range raw {
		email := strings.ToLower(strings.TrimSpace(record.Email))
		if email == "" {
			stats.Skipped++
			continue
		}

		exists, err := s.repo.EmailExists(ctx, email)
		if err != nil {
			return stats, fmt.Errorf("import service: email exists %w", err)
		}
		if exists {
			stats.Skipped++
			if s.log != nil {
				s.log.WithField("email", email).Debug("импорт: email уже занят, пропускаем")
			}
			continue
		}

		name := strings.TrimSpace(record.Name)
		if name == "" {
			name = "Unknown"
		}

		passHash, err := bcrypt.GenerateFromPassword([]byte(record.Username), bcrypt.DefaultCost)
		if err != nil {
			return stats, fmt.Errorf("import service: hash password %w", err)
		}

		user := &models.User{
			Name:         name,
			Email:        email,
			PasswordHash: string(passHash),
		}
		if err := s.repo.Create(ctx, user); err != nil {
			if errors.Is(err, common.ErrAlreadyExists) {
				stats.Skipped++
				continue
			}
			return stats, fmt.Errorf("import service: create user %w", err)
		}

		stats.Imported++
	}

	return stats, nil
}
