package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/postboard-backend/internal/models"
	"github.com/ignatzorin/postboard-backend/internal/pkg/apperror"
)

type mockImportUserStore struct {
	mock.Mock
}

func (m *mockImportUserStore) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockImportUserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func TestImportService_ImportUsers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"name": "Leanne Graham", "username": "Bret", "email": "leanne@example.com"},
			{"name": "Ervin Howell", "username": "Antonette", "email": "ervin@example.com"},
			{"name": "Clementine Bauch", "username": "Samantha", "email": "clementine@example.com"}
		]`))
	}))
	defer server.Close()

	repo := new(mockImportUserStore)
	svc := NewImportService(repo, nil)
	ctx := context.Background()

	repo.On("EmailExists", ctx, "leanne@example.com").Return(false, nil)
	repo.On("EmailExists", ctx, "ervin@example.com").Return(true, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil)

	stats, err := svc.ImportUsers(ctx, server.URL, 2)

	assert.NoError(t, err)
	assert.Equal(t, 3, stats.Fetched)
	assert.Equal(t, 1, stats.Imported)
	assert.Equal(t, 1, stats.Skipped)
	repo.AssertNumberOfCalls(t, "Create", 1)

	created := repo.Calls[1].Arguments.Get(1).(*models.User)
	assert.Equal(t, "Leanne Graham", created.Name)
	assert.Equal(t, "leanne@example.com", created.Email)
	// Паролем служит bcrypt-хеш от username.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("Bret")))
}

func TestImportService_ImportUsers_SkipsMissingEmail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"name": "Без почты", "username": "nobody"},
			{"name": "", "username": "anon", "email": "anon@example.com"}
		]`))
	}))
	defer server.Close()

	repo := new(mockImportUserStore)
	svc := NewImportService(repo, nil)
	ctx := context.Background()

	repo.On("EmailExists", ctx, "anon@example.com").Return(false, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil)

	stats, err := svc.ImportUsers(ctx, server.URL, 10)

	assert.NoError(t, err)
	assert.Equal(t, 1, stats.Imported)
	assert.Equal(t, 1, stats.Skipped)

	created := repo.Calls[1].Arguments.Get(1).(*models.User)
	// Пустое имя заменяется заглушкой.
	assert.Equal(t, "Unknown", created.Name)
}

func TestImportService_ImportUsers_InvalidLimit(t *testing.T) {
	repo := new(mockImportUserStore)
	svc := NewImportService(repo, nil)

	_, err := svc.ImportUsers(context.Background(), "http://localhost/users", 0)

	assert.Error(t, err)
	var appErr *apperror.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.ErrCodeValidation, appErr.Code)
}

func TestImportService_ImportUsers_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	repo := new(mockImportUserStore)
	svc := NewImportService(repo, nil)

	_, err := svc.ImportUsers(context.Background(), server.URL, 5)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "статус 500")
}
