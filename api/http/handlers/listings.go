package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/artem13815/ats/api/http/presenter"
	"github.com/artem13815/ats/pkg/listing"
	"github.com/artem13815/ats/pkg/resume"
)

type ListingHandler struct {
	uc listing.UseCase
}

func NewListingHandler(uc listing.UseCase) *ListingHandler { return &ListingHandler{uc: uc} }

type createListingRequest struct {
	Title                   string     `json:"title"`
	Description             string     `json:"description"`
	CompanyName             string     `json:"companyName"`
	Location                string     `json:"location"`
	JobType                 string     `json:"jobType"`
	IsRemote                bool       `json:"isRemote"`
	SalaryMin               *float64   `json:"salaryMin"`
	SalaryMax               *float64   `json:"salaryMax"`
	ExpiresOn               *time.Time `json:"expiresOn"`
	MinimumQualifications   []string   `json:"minimumQualifications"`
	PreferredQualifications []string   `json:"preferredQualifications"`
}

// @Summary Создать вакансию
// @Description Создаёт вакансию с упорядоченными списками квалификаций.
// @Tags        Вакансии
// @Accept      json
// @Produce     json
// @Param       input body createListingRequest true "Данные вакансии"
// @Security    BearerAuth
// @Success     201 {object} listing.Listing
// @Failure     400 {object} presenter.ErrorResponse
// @Failure     403 {object} presenter.ErrorResponse
// @Router      /jobs/listings [post]
func (h *ListingHandler) Create(c *fiber.Ctx) error {
	sess, err := sessionFromCtx(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "не удалось определить пользователя")
	}
	if !sess.IsSuperuser && !sess.IsCompany() {
		return presenter.Error(c, http.StatusForbidden, "только компания может публиковать вакансии")
	}
	var req createListingRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "невалидный JSON")
	}
	l := listing.Listing{
		ID:                      uuid.New(),
		CompanyID:               sess.UserID,
		Title:                   req.Title,
		Description:             req.Description,
		CompanyName:             req.CompanyName,
		Location:                req.Location,
		JobType:                 listing.JobType(strings.ToUpper(strings.TrimSpace(req.JobType))),
		IsRemote:                req.IsRemote,
		SalaryMin:               req.SalaryMin,
		SalaryMax:               req.SalaryMax,
		ExpiresOn:               req.ExpiresOn,
		IsActive:                true,
		MinimumQualifications:   req.MinimumQualifications,
		PreferredQualifications: req.PreferredQualifications,
	}
	l, err = h.uc.Create(c.Context(), l)
	if err != nil {
		if errors.Is(err, listing.ErrValidation) {
			return presenter.Error(c, http.StatusBadRequest, err.Error())
		}
		return presenter.Error(c, http.StatusInternalServerError, "не удалось создать вакансию")
	}
	return presenter.JSON(c, http.StatusCreated, l)
}

// @Summary Список вакансий
// @Tags    Вакансии
// @Produce json
// @Param   limit query int false "Лимит (по умолчанию 50)"
// @Param   offset query int false "Смещение"
// @Success 200 {array} listing.Listing
// @Router  /jobs/listings [get]
func (h *ListingHandler) List(c *fiber.Ctx) error {
	limit, offset := parseLimitOffset(c, 50)
	ls, err := h.uc.List(c.Context(), limit, offset)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "не удалось получить список")
	}
	if ls == nil {
		ls = []listing.Listing{}
	}
	return presenter.JSON(c, http.StatusOK, ls)
}

// @Summary Получить вакансию по ID
// @Tags    Вакансии
// @Produce json
// @Param   id path string true "ID вакансии (UUID)"
// @Success 200 {object} listing.Listing
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /jobs/listings/{id} [get]
func (h *ListingHandler) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "невалидный UUID")
	}
	l, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return presenter.Error(c, http.StatusNotFound, "вакансия не найдена")
	}
	return presenter.JSON(c, http.StatusOK, l)
}

// @Summary Удалить вакансию
// @Tags    Вакансии
// @Produce json
// @Param   id path string true "ID вакансии (UUID)"
// @Security BearerAuth
// @Success 204 {object} nil
// @Failure 403 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /jobs/listings/{id} [delete]
func (h *ListingHandler) Delete(c *fiber.Ctx) error {
	sess, err := sessionFromCtx(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "не удалось определить пользователя")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "невалидный UUID")
	}
	if err := h.uc.Delete(c.Context(), sess.UserID, sess.IsSuperuser, id); err != nil {
		return presenter.Error(c, http.StatusNotFound, "вакансия не найдена")
	}
	return c.SendStatus(http.StatusNoContent)
}

type parseListingRequest struct {
	RawText string        `json:"rawText"`
	Draft   listing.Draft `json:"draft"`
}

// @Summary Распарсить текст вакансии
// @Description Прогоняет сырой текст через LLM и накладывает распознанные поля
// @Description поверх присланного черновика. Нераспознанные поля не меняются.
// @Tags    Вакансии
// @Accept  json
// @Produce json
// @Param   input body parseListingRequest true "Сырой текст и текущий черновик"
// @Security BearerAuth
// @Success 200 {object} listing.Draft
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /jobs/listings/parse [post]
func (h *ListingHandler) Parse(c *fiber.Ctx) error {
	sess, err := sessionFromCtx(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "не удалось определить пользователя")
	}
	if !sess.IsSuperuser && !sess.IsCompany() {
		return presenter.Error(c, http.StatusForbidden, "только компания может публиковать вакансии")
	}
	var req parseListingRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "невалидный JSON")
	}
	if strings.TrimSpace(req.RawText) == "" {
		return presenter.Error(c, http.StatusBadRequest, "rawText обязателен")
	}
	draft, err := h.uc.ParseText(c.Context(), req.RawText, req.Draft)
	if err != nil {
		return presenter.Error(c, http.StatusBadGateway, "парсер вакансии недоступен")
	}
	return presenter.JSON(c, http.StatusOK, draft)
}

// @Summary Распарсить файл вакансии
// @Description То же, что /parse, но текст извлекается из загруженного документа
// @Description (pdf, docx или txt).
// @Tags    Вакансии
// @Accept  multipart/form-data
// @Produce json
// @Param   file formData file true "Документ с описанием вакансии"
// @Security BearerAuth
// @Success 200 {object} listing.Draft
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /jobs/listings/parse-file [post]
func (h *ListingHandler) ParseFile(c *fiber.Ctx) error {
	sess, err := sessionFromCtx(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "не удалось определить пользователя")
	}
	if !sess.IsSuperuser && !sess.IsCompany() {
		return presenter.Error(c, http.StatusForbidden, "только компания может публиковать вакансии")
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
	text, err := resume.ParseDocumentText(fh.Filename, data)
	if err != nil || strings.TrimSpace(text) == "" {
		return presenter.Error(c, http.StatusUnprocessableEntity, "не удалось извлечь текст из файла")
	}
	draft, err := h.uc.ParseText(c.Context(), text, listing.Draft{})
	if err != nil {
		return presenter.Error(c, http.StatusBadGateway, "парсер вакансии недоступен")
	}
	return presenter.JSON(c, http.StatusOK, draft)
}
