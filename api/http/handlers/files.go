package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/artem13815/ats/api/http/presenter"
	"github.com/artem13815/ats/pkg/filestore"
)

type FileHandler struct {
	uc filestore.UseCase
}

func NewFileHandler(uc filestore.UseCase) *FileHandler { return &FileHandler{uc: uc} }

// @Summary Скачать оригинал файла
// @Description Отдаёт загруженный файл как attachment с исходным именем.
// @Tags    Файлы
// @Produce octet-stream
// @Param   id path string true "ID файла (UUID)"
// @Security BearerAuth
// @Success 200 {file} binary
// @Failure 403 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /files/{id} [get]
func (h *FileHandler) Download(c *fiber.Ctx) error {
	sess, err := sessionFromCtx(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "не удалось определить пользователя")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "невалидный UUID")
	}
	meta, rc, err := h.uc.Retrieve(c.Context(), sess, id)
	if err != nil {
		if errors.Is(err, filestore.ErrForbidden) {
			return presenter.Error(c, http.StatusForbidden, "нет доступа к файлу")
		}
		return presenter.Error(c, http.StatusNotFound, "файл не найден")
	}
	contentType := meta.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", meta.Filename))
	return c.SendStream(rc, int(meta.SizeBytes))
}
