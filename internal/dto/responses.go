package dto

import (
	"time"

	"github.com/ignatzorin/postboard-backend/internal/models"
)

// ErrorResponse is the standard error payload
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse is the standard success payload
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// UserResponse represents a user without sensitive fields
type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserResponse creates a UserResponse from a model
func NewUserResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

// AuthResponse represents the result of register/login
type AuthResponse struct {
	User         *UserResponse `json:"user"`
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresIn    int64         `json:"expires_in"`
}

// PostResponse represents a post with its author
type PostResponse struct {
	*models.Post
	Author *UserResponse `json:"author,omitempty"`
}

// NewPostResponse creates a PostResponse from components
func NewPostResponse(post *models.Post, author *models.User) *PostResponse {
	resp := &PostResponse{Post: post}
	if author != nil {
		resp.Author = NewUserResponse(author)
	}
	return resp
}

// FavoriteResponse represents one favorite association
type FavoriteResponse struct {
	ID         int64     `json:"id"`
	ParentType string    `json:"parent_type"`
	ParentID   int64     `json:"parent_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewFavoriteResponse creates a FavoriteResponse from a model
func NewFavoriteResponse(f *models.Favorite) *FavoriteResponse {
	return &FavoriteResponse{
		ID:         f.ID,
		ParentType: string(f.ParentType),
		ParentID:   f.ParentID,
		CreatedAt:  f.CreatedAt,
	}
}

// GroupedFavoritesResponse represents favorites grouped by target kind
type GroupedFavoritesResponse struct {
	Posts []models.Post  `json:"posts"`
	Users []UserResponse `json:"users"`
}

// NotificationListResponse represents a page of notifications with unread count
type NotificationListResponse struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unread_count"`
}
