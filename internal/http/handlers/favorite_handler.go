package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/postboard-backend/internal/dto"
	"github.com/ignatzorin/postboard-backend/internal/http/handlers/common"
	"github.com/ignatzorin/postboard-backend/internal/models"
	"github.com/ignatzorin/postboard-backend/internal/service"
)

// FavoriteHandler предоставляет HTTP слой для избранного.
type FavoriteHandler struct {
	svc *service.FavoriteService
}

// NewFavoriteHandler создаёт хэндлер.
func NewFavoriteHandler(svc *service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{svc: svc}
}

// FavoritePost обрабатывает POST /posts/:id/favorite.
func (h *FavoriteHandler) FavoritePost(c *gin.Context) {
	h.create(c, models.TargetKindPost)
}

// UnfavoritePost обрабатывает DELETE /posts/:id/favorite.
func (h *FavoriteHandler) UnfavoritePost(c *gin.Context) {
	h.delete(c, models.TargetKindPost)
}

// FavoriteUser обрабатывает POST /users/:id/favorite.
func (h *FavoriteHandler) FavoriteUser(c *gin.Context) {
	h.create(c, models.TargetKindUser)
}

// UnfavoriteUser обрабатывает DELETE /users/:id/favorite.
func (h *FavoriteHandler) UnfavoriteUser(c *gin.Context) {
	h.delete(c, models.TargetKindUser)
}

// Add обрабатывает POST /favorites: обобщённая форма добавления,
// вид цели передаётся в теле запроса.
func (h *FavoriteHandler) Add(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		ParentType string `json:"parent_type" binding:"required"`
		ParentID   int64  `json:"parent_id" binding:"required"`
	}
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	kind, err := models.ParseTargetKind(req.ParentType)
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	favorite, err := h.svc.Create(c.Request.Context(), userID, models.TargetRef{Kind: kind, ID: req.ParentID})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewFavoriteResponse(favorite))
}

// Remove обрабатывает DELETE /favorites/:type/:id.
func (h *FavoriteHandler) Remove(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	kind, err := models.ParseTargetKind(c.Param("type"))
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	targetID, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, models.TargetRef{Kind: kind, ID: targetID}); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// List обрабатывает GET /favorites: всё избранное пользователя,
// сгруппированное по виду цели.
func (h *FavoriteHandler) List(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	grouped, err := h.svc.ListGrouped(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp := dto.GroupedFavoritesResponse{
		Posts: grouped.Posts,
		Users: make([]dto.UserResponse, 0, len(grouped.Users)),
	}
	for i := range grouped.Users {
		resp.Users = append(resp.Users, *dto.NewUserResponse(&grouped.Users[i]))
	}

	c.JSON(http.StatusOK, resp)
}

func (h *FavoriteHandler) create(c *gin.Context, kind models.TargetKind) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	targetID, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	favorite, err := h.svc.Create(c.Request.Context(), userID, models.TargetRef{Kind: kind, ID: targetID})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewFavoriteResponse(favorite))
}

func (h *FavoriteHandler) delete(c *gin.Context, kind models.TargetKind) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	targetID, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, models.TargetRef{Kind: kind, ID: targetID}); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
