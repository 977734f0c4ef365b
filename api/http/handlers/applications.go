package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/artem13815/ats/api/http/presenter"
	"github.com/artem13815/ats/pkg/application"
	"github.com/artem13815/ats/pkg/listing"
	"github.com/artem13815/ats/pkg/resume"
)

type ApplicationHandler struct {
	uc application.UseCase
}

func NewApplicationHandler(uc application.UseCase) *ApplicationHandler {
	return &ApplicationHandler{uc: uc}
}

// applicationDTO — отклик вместе с допустимыми действиями компании.
// UI рисует кнопки переходов по nextActions, а не по своей таблице.
type applicationDTO struct {
	ID           uuid.UUID            `json:"id"`
	JobListingID uuid.UUID            `json:"jobListingId"`
	ApplicantID  uuid.UUID            `json:"applicantId"`
	ResumeID     *uuid.UUID           `json:"resumeId,omitempty"`
	CoverLetter  string               `json:"coverLetter,omitempty"`
	Status       application.Status   `json:"status"`
	NextActions  []application.Status `json:"nextActions"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
}

func toApplicationDTO(a application.Application) applicationDTO {
	next := application.NextActions(a.Status)
	if next == nil {
		next = []application.Status{}
	}
	return applicationDTO{
		ID:           a.ID,
		JobListingID: a.JobListingID,
		ApplicantID:  a.ApplicantID,
		ResumeID:     a.ResumeID,
		CoverLetter:  a.CoverLetter,
		Status:       a.Status,
		NextActions:  next,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

type submitApplicationRequest struct {
	JobListingID string `json:"jobListingId"`
	ResumeID     string `json:"resumeId"`
	CoverLetter  string `json:"coverLetter"`
}

// @Summary Откликнуться на вакансию
// @Description Один отклик на пару (вакансия, соискатель). Повтор вернёт 409.
// @Tags    Отклики
// @Accept  json
// @Produce json
// @Param   input body submitApplicationRequest true "Данные отклика"
// @Security BearerAuth
// @Success 201 {object} applicationDTO
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 403 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /applications [post]
func (h *ApplicationHandler) Submit(c *fiber.Ctx) error {
	sess, err := sessionFromCtx(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "не удалось определить пользователя")
	}
	var req submitApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "невалидный JSON")
	}
	listingID, err := uuid.Parse(req.JobListingID)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "jobListingId обязателен (UUID)")
	}
	in := application.SubmitInput{
		JobListingID: listingID,
		CoverLetter:  strings.TrimSpace(req.CoverLetter),
	}
	if req.ResumeID != "" {
		rid, err := uuid.Parse(req.ResumeID)
		if err != nil {
			return presenter.Error(c, http.StatusBadRequest, "невалидный resumeId")
		}
		in.ResumeID = &rid
	}
	a, err := h.uc.Submit(c.Context(), sess, in)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrAlreadyApplied):
			return presenter.Error(c, http.StatusConflict, "вы уже откликались на эту вакансию")
		case errors.Is(err, application.ErrListingInactive):
			return presenter.Error(c, http.StatusBadRequest, "вакансия больше не принимает отклики")
		case errors.Is(err, application.ErrForbidden), errors.Is(err, resume.ErrForbidden):
			return presenter.Error(c, http.StatusForbidden, err.Error())
		case errors.Is(err, listing.ErrNotFound), errors.Is(err, resume.ErrNotFound):
			return presenter.Error(c, http.StatusNotFound, err.Error())
		default:
			return presenter.Error(c, http.StatusInternalServerError, "не удалось создать отклик")
		}
	}
	return presenter.JSON(c, http.StatusCreated, toApplicationDTO(a))
}

// @Summary Список откликов
// @Description Соискатель видит свои отклики, компания — отклики на свои вакансии.
// @Tags    Отклики
// @Produce json
// @Param   limit query int false "Лимит (по умолчанию 50)"
// @Param   offset query int false "Смещение"
// @Security BearerAuth
// @Success 200 {array} applicationDTO
// @Router  /applications [get]
func (h *ApplicationHandler) List(c *fiber.Ctx) error {
	sess, err := sessionFromCtx(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "не удалось определить пользователя")
	}
	limit, offset := parseLimitOffset(c, 50)
	as, err := h.uc.List(c.Context(), sess, limit, offset)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "не удалось получить список")
	}
	out := make([]applicationDTO, 0, len(as))
	for _, a := range as {
		out = append(out, toApplicationDTO(a))
	}
	return presenter.JSON(c, http.StatusOK, out)
}

// @Summary Получить отклик по ID
// @Tags    Отклики
// @Produce json
// @Param   id path string true "ID отклика (UUID)"
// @Security BearerAuth
// @Success 200 {object} applicationDTO
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /applications/{id} [get]
func (h *ApplicationHandler) GetByID(c *fiber.Ctx) error {
	sess, err := sessionFromCtx(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "не удалось определить пользователя")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "невалидный UUID")
	}
	a, err := h.uc.Get(c.Context(), sess, id)
	if err != nil {
		if errors.Is(err, application.ErrForbidden) {
			return presenter.Error(c, http.StatusForbidden, "нет доступа к отклику")
		}
		return presenter.Error(c, http.StatusNotFound, "отклик не найден")
	}
	return presenter.JSON(c, http.StatusOK, toApplicationDTO(a))
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// @Summary Сменить статус отклика
// @Description Переход по воронке: SUBMITTED → UNDER_REVIEW → INTERVIEW →
// @Description ACCEPTED/REJECTED. Недопустимый переход вернёт 422, переход в тот же
// @Description статус — no-op.
// @Tags    Отклики
// @Accept  json
// @Produce json
// @Param   id path string true "ID отклика (UUID)"
// @Param   input body updateStatusRequest true "Новый статус"
// @Security BearerAuth
// @Success 200 {object} applicationDTO
// @Failure 403 {object} presenter.ErrorResponse
// @Failure 422 {object} presenter.ErrorResponse
// @Router  /applications/{id}/status [put]
func (h *ApplicationHandler) UpdateStatus(c *fiber.Ctx) error {
	sess, err := sessionFromCtx(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "не удалось определить пользователя")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "невалидный UUID")
	}
	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "невалидный JSON")
	}
	newStatus := application.Status(strings.ToUpper(strings.TrimSpace(req.Status)))
	a, err := h.uc.UpdateStatus(c.Context(), sess, id, newStatus)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrIllegalTransition):
			return presenter.Error(c, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, application.ErrForbidden):
			return presenter.Error(c, http.StatusForbidden, "нет доступа к отклику")
		case errors.Is(err, application.ErrNotFound):
			return presenter.Error(c, http.StatusNotFound, "отклик не найден")
		default:
			return presenter.Error(c, http.StatusInternalServerError, "не удалось сменить статус")
		}
	}
	return presenter.JSON(c, http.StatusOK, toApplicationDTO(a))
}

// @Summary Отозвать отклик
// @Tags    Отклики
// @Produce json
// @Param   id path string true "ID отклика (UUID)"
// @Security BearerAuth
// @Success 200 {object} applicationDTO
// @Failure 403 {object} presenter.ErrorResponse
// @Failure 422 {object} presenter.ErrorResponse
// @Router  /applications/{id}/withdraw [post]
func (h *ApplicationHandler) Withdraw(c *fiber.Ctx) error {
	sess, err := sessionFromCtx(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "не удалось определить пользователя")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "невалидный UUID")
	}
	a, err := h.uc.Withdraw(c.Context(), sess, id)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrIllegalTransition):
			return presenter.Error(c, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, application.ErrForbidden):
			return presenter.Error(c, http.StatusForbidden, "отозвать отклик может только его автор")
		case errors.Is(err, application.ErrNotFound):
			return presenter.Error(c, http.StatusNotFound, "отклик не найден")
		default:
			return presenter.Error(c, http.StatusInternalServerError, "не удалось отозвать отклик")
		}
	}
	return presenter.JSON(c, http.StatusOK, toApplicationDTO(a))
}
