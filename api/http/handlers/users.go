package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/ats/api/http/presenter"
	"github.com/artem13815/ats/pkg/auth"
)

type UserHandler struct {
	useCase auth.AuthUseCase
}

func NewUserHandler(useCase auth.AuthUseCase) *UserHandler {
	return &UserHandler{useCase: useCase}
}

// @Summary Текущий пользователь
// @Tags    Пользователи
// @Produce json
// @Security BearerAuth
// @Success 200 {object} auth.User
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /users/me [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	sess, err := sessionFromCtx(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "не удалось определить пользователя")
	}
	u, err := h.useCase.GetByID(c.Context(), sess.UserID)
	if err != nil {
		return presenter.Error(c, http.StatusNotFound, "пользователь не найден")
	}
	return presenter.JSON(c, http.StatusOK, u)
}

type updateMeRequest struct {
	Email    *string `json:"email"`
	FullName *string `json:"fullName"`
}

// @Summary Обновить профиль
// @Description Частичное обновление: отсутствующие поля не меняются.
// @Tags    Пользователи
// @Accept  json
// @Produce json
// @Param   input body updateMeRequest true "Изменяемые поля"
// @Security BearerAuth
// @Success 200 {object} auth.User
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /users/me [patch]
func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	sess, err := sessionFromCtx(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "не удалось определить пользователя")
	}
	var req updateMeRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "невалидный JSON")
	}
	u, err := h.useCase.UpdateMe(c.Context(), sess.UserID, auth.ProfileUpdate{
		Email:    req.Email,
		FullName: req.FullName,
	})
	if err != nil {
		switch err {
		case auth.ErrUserAlreadyExists:
			return presenter.Error(c, http.StatusConflict, "email уже занят")
		case auth.ErrNotFound:
			return presenter.Error(c, http.StatusNotFound, "пользователь не найден")
		default:
			return presenter.Error(c, http.StatusInternalServerError, "не удалось обновить профиль")
		}
	}
	return presenter.JSON(c, http.StatusOK, u)
}
