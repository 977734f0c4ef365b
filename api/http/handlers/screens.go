package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/artem13815/ats/api/http/presenter"
	"github.com/artem13815/ats/pkg/application"
	"github.com/artem13815/ats/pkg/listing"
	"github.com/artem13815/ats/pkg/screen"
)

type ScreenHandler struct {
	uc screen.UseCase
}

func NewScreenHandler(uc screen.UseCase) *ScreenHandler { return &ScreenHandler{uc: uc} }

type createScreenRequest struct {
	ApplicationID string `json:"applicationId"`
}

// @Summary Запустить AI-скрининг отклика
// @Description Идемпотентно: повторный вызов вернёт уже существующий результат.
// @Description У отклика должно быть резюме. После скрининга отклик переходит
// @Description в UNDER_REVIEW.
// @Tags    Скрининг
// @Accept  json
// @Produce json
// @Param   input body createScreenRequest true "ID отклика"
// @Security BearerAuth
// @Success 201 {object} screen.Screen
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 403 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /screens [post]
func (h *ScreenHandler) Create(c *fiber.Ctx) error {
	sess, err := sessionFromCtx(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "не удалось определить пользователя")
	}
	var req createScreenRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "невалидный JSON")
	}
	appID, err := uuid.Parse(req.ApplicationID)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "applicationId обязателен (UUID)")
	}
	sc, err := h.uc.Create(c.Context(), sess, appID)
	if err != nil {
		switch {
		case errors.Is(err, screen.ErrNoResume):
			return presenter.Error(c, http.StatusBadRequest, "у отклика нет резюме")
		case errors.Is(err, screen.ErrForbidden):
			return presenter.Error(c, http.StatusForbidden, "нет доступа к отклику")
		case errors.Is(err, application.ErrNotFound), errors.Is(err, listing.ErrNotFound):
			return presenter.Error(c, http.StatusNotFound, "отклик не найден")
		default:
			return presenter.Error(c, http.StatusInternalServerError, "не удалось выполнить скрининг")
		}
	}
	return presenter.JSON(c, http.StatusCreated, sc)
}

// @Summary Список результатов скрининга
// @Description Видимость как у откликов: соискателю свои, компании по её вакансиям.
// @Tags    Скрининг
// @Produce json
// @Param   limit query int false "Лимит (по умолчанию 50)"
// @Param   offset query int false "Смещение"
// @Security BearerAuth
// @Success 200 {array} screen.Screen
// @Router  /screens [get]
func (h *ScreenHandler) List(c *fiber.Ctx) error {
	sess, err := sessionFromCtx(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "не удалось определить пользователя")
	}
	limit, offset := parseLimitOffset(c, 50)
	scs, err := h.uc.List(c.Context(), sess, limit, offset)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "не удалось получить список")
	}
	if scs == nil {
		scs = []screen.Screen{}
	}
	return presenter.JSON(c, http.StatusOK, scs)
}

// @Summary Получить результат скрининга по ID
// @Tags    Скрининг
// @Produce json
// @Param   id path string true "ID скрининга (UUID)"
// @Security BearerAuth
// @Success 200 {object} screen.Screen
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /screens/{id} [get]
func (h *ScreenHandler) GetByID(c *fiber.Ctx) error {
	sess, err := sessionFromCtx(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "не удалось определить пользователя")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "невалидный UUID")
	}
	sc, err := h.uc.Get(c.Context(), sess, id)
	if err != nil {
		if errors.Is(err, screen.ErrForbidden) {
			return presenter.Error(c, http.StatusForbidden, "нет доступа к скринингу")
		}
		return presenter.Error(c, http.StatusNotFound, "скрининг не найден")
	}
	return presenter.JSON(c, http.StatusOK, sc)
}

type evaluationDTO struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

type saveScreenRequest struct {
	MinimumQualifications   []evaluationDTO `json:"minimumQualifications"`
	PreferredQualifications []evaluationDTO `json:"preferredQualifications"`
	SyncSignature           string          `json:"syncSignature"`
}

// @Summary Сохранить ручную правку скрининга
// @Description Принимает списки оценок, выровненные по квалификациям вакансии.
// @Description Строка с непустым требованием обязана иметь статус, иначе 422 со
// @Description списком индексов. Если прислана syncSignature и данные на сервере
// @Description успели измениться, вернётся 409 и правку нужно собрать заново.
// @Tags    Скрининг
// @Accept  json
// @Produce json
// @Param   id path string true "ID отклика (UUID)"
// @Param   input body saveScreenRequest true "Оценки по спискам квалификаций"
// @Security BearerAuth
// @Success 200 {object} screen.Screen
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Failure 422 {object} presenter.ValidationResponse
// @Router  /screens/application/{id} [put]
func (h *ScreenHandler) SaveManual(c *fiber.Ctx) error {
	sess, err := sessionFromCtx(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "не удалось определить пользователя")
	}
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "невалидный UUID")
	}
	var req saveScreenRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "невалидный JSON")
	}
	upd := screen.ManualUpdate{
		HasMinimum:    req.MinimumQualifications != nil,
		HasPreferred:  req.PreferredQualifications != nil,
		SyncSignature: req.SyncSignature,
	}
	for _, e := range req.MinimumQualifications {
		upd.MinimumQualifications = append(upd.MinimumQualifications,
			screen.Evaluation{Status: screen.EvalStatus(e.Status), Reason: e.Reason})
	}
	for _, e := range req.PreferredQualifications {
		upd.PreferredQualifications = append(upd.PreferredQualifications,
			screen.Evaluation{Status: screen.EvalStatus(e.Status), Reason: e.Reason})
	}
	sc, err := h.uc.SaveManual(c.Context(), sess, appID, upd)
	if err != nil {
		var verr *screen.ValidationError
		switch {
		case errors.As(err, &verr):
			return presenter.JSON(c, http.StatusUnprocessableEntity, presenter.ValidationResponse{
				Message:          "каждая строка с требованием должна иметь статус",
				MissingMinimum:   verr.MissingMinimum,
				MissingPreferred: verr.MissingPreferred,
			})
		case errors.Is(err, screen.ErrStale):
			return presenter.Error(c, http.StatusConflict, "данные скрининга изменились, обновите страницу")
		case errors.Is(err, screen.ErrNoLists):
			return presenter.Error(c, http.StatusBadRequest, "нужен хотя бы один список оценок")
		case errors.Is(err, screen.ErrForbidden):
			return presenter.Error(c, http.StatusForbidden, "править скрининг может только компания-владелец")
		case errors.Is(err, application.ErrNotFound), errors.Is(err, listing.ErrNotFound):
			return presenter.Error(c, http.StatusNotFound, "отклик не найден")
		default:
			return presenter.Error(c, http.StatusInternalServerError, "не удалось сохранить правку")
		}
	}
	return presenter.JSON(c, http.StatusOK, sc)
}

// @Summary Сравнение требований вакансии с оценками
// @Description Строки выровнены по спискам вакансии: требование ↔ оценка. Для
// @Description отклика без скрининга вернутся строки без статусов. В ответе есть
// @Description syncSignature для последующей правки.
// @Tags    Скрининг
// @Produce json
// @Param   id path string true "ID отклика (UUID)"
// @Security BearerAuth
// @Success 200 {object} screen.Comparison
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /screens/application/{id}/comparison [get]
func (h *ScreenHandler) Compare(c *fiber.Ctx) error {
	sess, err := sessionFromCtx(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "не удалось определить пользователя")
	}
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "невалидный UUID")
	}
	cmp, err := h.uc.Compare(c.Context(), sess, appID)
	if err != nil {
		if errors.Is(err, screen.ErrForbidden) {
			return presenter.Error(c, http.StatusForbidden, "нет доступа к отклику")
		}
		return presenter.Error(c, http.StatusNotFound, "отклик не найден")
	}
	return presenter.JSON(c, http.StatusOK, cmp)
}
