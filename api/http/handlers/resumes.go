package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/artem13815/ats/api/http/presenter"
	"github.com/artem13815/ats/pkg/resume"
)

type ResumeHandler struct {
	uc resume.UseCase
}

func NewResumeHandler(uc resume.UseCase) *ResumeHandler { return &ResumeHandler{uc: uc} }

// @Summary Загрузить резюме
// @Description Принимает pdf, docx или txt, извлекает текст и сохраняет оригинал.
// @Description Файл без извлекаемого текста отклоняется с 422.
// @Tags    Резюме
// @Accept  multipart/form-data
// @Produce json
// @Param   file formData file true "Файл резюме"
// @Security BearerAuth
// @Success 201 {object} resume.Resume
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 422 {object} presenter.ErrorResponse
// @Router  /resumes [post]
func (h *ResumeHandler) Upload(c *fiber.Ctx) error {
	sess, err := sessionFromCtx(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "не удалось определить пользователя")
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "файл обязателен (multipart поле file)")
	}
	if !resume.SupportedExt(fh.Filename) {
		return presenter.Error(c, http.StatusBadRequest, "поддерживаются только pdf, docx и txt")
	}
	f, err := fh.Open()
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "не удалось прочитать файл")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "не удалось прочитать файл")
	}
	contentType := fh.Header.Get("Content-Type")
	r, err := h.uc.Upload(c.Context(), sess, fh.Filename, contentType, data)
	if err != nil {
		if errors.Is(err, resume.ErrNoText) {
			return presenter.Error(c, http.StatusUnprocessableEntity, "не удалось извлечь текст из файла")
		}
		return presenter.Error(c, http.StatusInternalServerError, "не удалось сохранить резюме")
	}
	return presenter.JSON(c, http.StatusCreated, r)
}

// @Summary Список резюме
// @Tags    Резюме
// @Produce json
// @Param   limit query int false "Лимит (по умолчанию 50)"
// @Param   offset query int false "Смещение"
// @Security BearerAuth
// @Success 200 {array} resume.Resume
// @Router  /resumes [get]
func (h *ResumeHandler) List(c *fiber.Ctx) error {
	sess, err := sessionFromCtx(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "не удалось определить пользователя")
	}
	limit, offset := parseLimitOffset(c, 50)
	rs, err := h.uc.List(c.Context(), sess, limit, offset)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "не удалось получить список")
	}
	if rs == nil {
		rs = []resume.Resume{}
	}
	return presenter.JSON(c, http.StatusOK, rs)
}

// @Summary Получить резюме по ID
// @Tags    Резюме
// @Produce json
// @Param   id path string true "ID резюме (UUID)"
// @Security BearerAuth
// @Success 200 {object} resume.Resume
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /resumes/{id} [get]
func (h *ResumeHandler) GetByID(c *fiber.Ctx) error {
	sess, err := sessionFromCtx(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "не удалось определить пользователя")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "невалидный UUID")
	}
	r, err := h.uc.Get(c.Context(), sess, id)
	if err != nil {
		if errors.Is(err, resume.ErrForbidden) {
			return presenter.Error(c, http.StatusForbidden, "нет доступа к резюме")
		}
		return presenter.Error(c, http.StatusNotFound, "резюме не найдено")
	}
	return presenter.JSON(c, http.StatusOK, r)
}

// @Summary Удалить резюме
// @Description Удаляет запись и, по возможности, исходный файл.
// @Tags    Резюме
// @Produce json
// @Param   id path string true "ID резюме (UUID)"
// @Security BearerAuth
// @Success 204 {object} nil
// @Failure 403 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /resumes/{id} [delete]
func (h *ResumeHandler) Delete(c *fiber.Ctx) error {
	sess, err := sessionFromCtx(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "не удалось определить пользователя")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "невалидный UUID")
	}
	if err := h.uc.Delete(c.Context(), sess, id); err != nil {
		if errors.Is(err, resume.ErrForbidden) {
			return presenter.Error(c, http.StatusForbidden, "нет доступа к резюме")
		}
		return presenter.Error(c, http.StatusNotFound, "резюме не найдено")
	}
	return c.SendStatus(http.StatusNoContent)
}
