package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/h2non/filetype"

	"github.com/ignatzorin/postboard-backend/internal/dto"
	"github.com/ignatzorin/postboard-backend/internal/http/handlers/common"
	"github.com/ignatzorin/postboard-backend/internal/service"
	"github.com/ignatzorin/postboard-backend/internal/storage"
)

// Разрешённые типы изображений для поста.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// PostHandler предоставляет HTTP слой для постов.
type PostHandler struct {
	posts  *service.PostService
	auth   *service.AuthService
	images *storage.ImageStorage
}

// NewPostHandler создаёт хэндлер.
func NewPostHandler(posts *service.PostService, auth *service.AuthService, images *storage.ImageStorage) *PostHandler {
	return &PostHandler{posts: posts, auth: auth, images: images}
}

// Create обрабатывает POST /posts. Принимает как JSON, так и
// multipart/form-data с необязательным файлом изображения.
func (h *PostHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var title, body string
	var imageURL *string

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		title = c.PostForm("title")
		body = c.PostForm("body")

		if file, header, err := c.Request.FormFile("image"); err == nil {
			defer file.Close()
			relative, uploadErr := h.saveImage(c, userID, header.Filename, file)
			if uploadErr != nil {
				common.RespondBadRequest(c, uploadErr.Error())
				return
			}
			imageURL = &relative
		}
	} else {
		var req dto.CreatePostRequest
		if err := common.BindAndValidate(c, &req); err != nil {
			common.RespondBadRequest(c, err.Error())
			return
		}
		title = req.Title
		body = req.Body
	}

	post, err := h.posts.Create(c.Request.Context(), userID, title, body, imageURL)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// List обрабатывает GET /posts. Параметр since_id ограничивает выборку
// постами новее указанного идентификатора.
func (h *PostHandler) List(c *gin.Context) {
	sinceID := int64(common.ParseIntQuery(c, "since_id", 0))

	posts, err := h.posts.List(c.Request.Context(), sinceID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// Get обрабатывает GET /posts/:id.
func (h *PostHandler) Get(c *gin.Context) {
	postID, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	post, err := h.posts.Get(c.Request.Context(), postID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	author, err := h.auth.GetUser(c.Request.Context(), post.UserID)
	if err != nil {
		// Автор мог быть удалён, пост отдаём без него.
		author = nil
	}

	c.JSON(http.StatusOK, dto.NewPostResponse(post, author))
}

// Update обрабатывает PUT /posts/:id.
func (h *PostHandler) Update(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	postID, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.UpdatePostRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	post, err := h.posts.Update(c.Request.Context(), userID, postID, req.Title, req.Body)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// Delete обрабатывает DELETE /posts/:id.
func (h *PostHandler) Delete(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	postID, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.posts.Delete(c.Request.Context(), userID, postID); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// saveImage проверяет содержимое файла по сигнатуре и сохраняет его.
func (h *PostHandler) saveImage(c *gin.Context, userID int64, filename string, file io.ReadSeeker) (string, error) {
	buffer := make([]byte, 261)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("не удалось прочитать файл")
	}

	kind, err := filetype.Match(buffer[:n])
	if err != nil || kind == filetype.Unknown {
		return "", fmt.Errorf("не удалось определить тип файла, разрешены только изображения")
	}

	if !allowedImageTypes[kind.MIME.Value] {
		return "", fmt.Errorf("неподдерживаемый тип файла (%s)", kind.MIME.Value)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	expectedExt := "." + kind.Extension
	if ext != expectedExt && !(ext == ".jpg" && expectedExt == ".jpeg") && !(ext == ".jpeg" && expectedExt == ".jpg") {
		return "", fmt.Errorf("расширение файла (%s) не соответствует реальному типу (%s)", ext, expectedExt)
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("не удалось перечитать файл")
	}

	relative, _, err := h.images.Save(c.Request.Context(), userID, filename, file)
	if err != nil {
		return "", err
	}

	return "/media/" + filepath.ToSlash(relative), nil
}
