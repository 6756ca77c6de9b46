package handlers

import (
	"net/http"
	"time"

	"github.com/kpcrmv4/manusdentalos/internal/domain"
	"github.com/kpcrmv4/manusdentalos/internal/repository"
	"github.com/kpcrmv4/manusdentalos/internal/service"
	"github.com/kpcrmv4/manusdentalos/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CaseHandler struct {
	cases  CaseService
	logger *zap.Logger
}

func NewCaseHandler(cases CaseService, logger *zap.Logger) *CaseHandler {
	return &CaseHandler{
		cases:  cases,
		logger: logger,
	}
}

// CreateCase handles POST /api/v1/surgery-cases
// @Summary      Plan a surgery case
// @Description  Creates a planned case with its required materials. Nothing is reserved until reserve-materials is called.
// @Tags         surgery-cases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        X-Request-ID  header    string             false  "Request ID for idempotent retries"
// @Param        request       body      CreateCaseRequest  true   "Case"
// @Success      201           {object}  domain.SurgeryCase
// @Failure      400           {object}  errors.StandardError
// @Failure      404           {object}  errors.StandardError  "Unknown product"
// @Failure      409           {object}  errors.StandardError  "Duplicate case number"
// @Router       /surgery-cases [post]
func (h *CaseHandler) CreateCase(c *gin.Context) {
	var req CreateCaseRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	materials := make([]service.MaterialRequest, 0, len(req.Materials))
	for _, m := range req.Materials {
		productID, ok := parseUUID(c, "product_id", m.ProductID)
		if !ok {
			return
		}
		materials = append(materials, service.MaterialRequest{ProductID: productID, RequiredQty: m.RequiredQty})
	}

	surgeryCase, err := h.cases.CreateCase(c.Request.Context(), domain.CaseDetails{
		CaseNumber:  req.CaseNumber,
		PatientName: req.PatientName,
		PatientID:   req.PatientID,
		SurgeryDate: req.SurgeryDate,
		SurgeryType: req.SurgeryType,
		DentistName: req.DentistName,
		Notes:       req.Notes,
		CreatedBy:   actor(c),
	}, materials)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, surgeryCase)
}

// ListCases handles GET /api/v1/surgery-cases
// @Summary      List surgery cases
// @Tags         surgery-cases
// @Produce      json
// @Security     BearerAuth
// @Param        from    query     string  false  "Surgery date from (RFC3339)"
// @Param        to      query     string  false  "Surgery date to (RFC3339)"
// @Param        status  query     string  false  "Workflow status"
// @Success      200     {object}  ListResponse
// @Failure      400     {object}  errors.StandardError
// @Router       /surgery-cases [get]
func (h *CaseHandler) ListCases(c *gin.Context) {
	var filter repository.CaseFilter
	for name, target := range map[string]**time.Time{"from": &filter.From, "to": &filter.To} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			fail(c, errors.NewValidationError("must be an RFC3339 timestamp", name))
			return
		}
		*target = &parsed
	}
	if raw := c.Query("status"); raw != "" {
		status, err := domain.ParseCaseStatus(raw)
		if err != nil {
			fail(c, err)
			return
		}
		filter.Status = &status
	}

	cases, err := h.cases.ListCases(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list(cases, len(cases)))
}

// GetCase handles GET /api/v1/surgery-cases/:id
// @Summary      Get a surgery case with its materials
// @Tags         surgery-cases
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Case ID (UUID)"
// @Success      200  {object}  domain.SurgeryCase
// @Failure      404  {object}  errors.StandardError
// @Router       /surgery-cases/{id} [get]
func (h *CaseHandler) GetCase(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	surgeryCase, err := h.cases.GetCase(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, surgeryCase)
}

// UpdateCaseStatus handles PATCH /api/v1/surgery-cases/:id/status
// @Summary      Change the workflow status of a case
// @Description  Completed and cancelled cases cannot change status.
// @Tags         surgery-cases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                   true  "Case ID (UUID)"
// @Param        request  body      UpdateCaseStatusRequest  true  "New status"
// @Success      200      {object}  domain.SurgeryCase
// @Failure      400      {object}  errors.StandardError
// @Failure      404      {object}  errors.StandardError
// @Failure      409      {object}  errors.StandardError  "Case is closed"
// @Router       /surgery-cases/{id}/status [patch]
func (h *CaseHandler) UpdateCaseStatus(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req UpdateCaseStatusRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	status, err := domain.ParseCaseStatus(req.Status)
	if err != nil {
		fail(c, err)
		return
	}

	surgeryCase, err := h.cases.UpdateCaseStatus(c.Request.Context(), id, status)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, surgeryCase)
}

// AddMaterial handles POST /api/v1/surgery-cases/:id/materials
// @Summary      Add a required material to a case
// @Tags         surgery-cases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string               true  "Case ID (UUID)"
// @Param        request  body      MaterialRequestBody  true  "Material"
// @Success      201      {object}  domain.SurgeryCaseMaterial
// @Failure      400      {object}  errors.StandardError
// @Failure      404      {object}  errors.StandardError
// @Failure      409      {object}  errors.StandardError  "Case is closed"
// @Router       /surgery-cases/{id}/materials [post]
func (h *CaseHandler) AddMaterial(c *gin.Context) {
	caseID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req MaterialRequestBody
	if !bindJSON(c, h.logger, &req) {
		return
	}
	productID, ok := parseUUID(c, "product_id", req.ProductID)
	if !ok {
		return
	}

	material, err := h.cases.AddMaterial(c.Request.Context(), caseID, service.MaterialRequest{ProductID: productID, RequiredQty: req.RequiredQty})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, material)
}

// ReserveMaterials handles POST /api/v1/surgery-cases/:id/reserve-materials
// @Summary      Reserve every pending material of a case
// @Description  Runs a FEFO reservation for each line still pending and returns the resulting readiness: green when every line is covered, yellow when some are, red when none are.
// @Tags         surgery-cases
// @Produce      json
// @Security     BearerAuth
// @Param        X-Request-ID  header    string  false  "Request ID for idempotent retries"
// @Param        id            path      string  true   "Case ID (UUID)"
// @Success      200           {object}  MaterialStatusResponse
// @Failure      404           {object}  errors.StandardError
// @Failure      409           {object}  errors.StandardError  "Case is closed"
// @Router       /surgery-cases/{id}/reserve-materials [post]
func (h *CaseHandler) ReserveMaterials(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	status, err := h.cases.ReserveMaterialsForCase(c.Request.Context(), id, actor(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, MaterialStatusResponse{CaseID: id.String(), MaterialStatus: status})
}

// MaterialStatus handles GET /api/v1/surgery-cases/:id/material-status
// @Summary      Recompute the material readiness of a case
// @Tags         surgery-cases
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Case ID (UUID)"
// @Success      200  {object}  MaterialStatusResponse
// @Failure      404  {object}  errors.StandardError
// @Router       /surgery-cases/{id}/material-status [get]
func (h *CaseHandler) MaterialStatus(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	status, err := h.cases.CalculateCaseMaterialStatus(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, MaterialStatusResponse{CaseID: id.String(), MaterialStatus: status})
}

// ConsumeMaterial handles POST /api/v1/surgery-cases/materials/:materialId/consume
// @Summary      Use a reserved material
// @Description  Commits every active reservation backing the line. The line must be fully reserved.
// @Tags         surgery-cases
// @Produce      json
// @Security     BearerAuth
// @Param        X-Request-ID  header    string  false  "Request ID for idempotent retries"
// @Param        materialId    path      string  true   "Material line ID (UUID)"
// @Success      200           {object}  domain.SurgeryCaseMaterial
// @Failure      404           {object}  errors.StandardError
// @Failure      409           {object}  errors.StandardError  "Line is not reserved"
// @Router       /surgery-cases/materials/{materialId}/consume [post]
func (h *CaseHandler) ConsumeMaterial(c *gin.Context) {
	id, ok := uuidParam(c, "materialId")
	if !ok {
		return
	}
	material, err := h.cases.ConsumeMaterial(c.Request.Context(), id, actor(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, material)
}
