package api

import (
	"fmt"
	"net/http"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type employeeHandler struct {
	responder Responder
	logger    zerolog.Logger
	service   *services.EmployeeService
}

func newEmployeeHandler(service *services.EmployeeService) employeeHandler {
	logger := log.With().Str("handlerName", "employeeHandler").Logger()

	return employeeHandler{
		responder: NewResponder(logger),
		logger:    logger,
		service:   service,
	}
}

func employeeNotFound(err error) error {
	if errs.IsNotFound(err) {
		return errs.NewApiErr(errs.KindNotFound, "Employee not found")
	}
	return err
}

// createEmployee adds a new employee
// @Summary Create employee
// @Accept json
// @Produce json
// @Param employee body models.CreateEmployeeRequest true "Employee to create"
// @Success 200 {object} Response "Employee added successfully"
// @Failure 400 {object} Response "Bad Request - Malformed JSON or missing field"
// @Failure 500 {object} Response "Internal Server Error"
// @Router /api/employees [post]
func (h employeeHandler) createEmployee() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateEmployeeRequest
		if err := decodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := validateRequest(req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		employee, err := h.service.Add(r.Context(), req)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("employeeId", employee.ID.String()).Msg("employee created")
		h.responder.WriteSuccess(w, "Employee added successfully", employee)
	}
}

// getAllEmployees lists every employee
// @Summary Get all employees
// @Produce json
// @Success 200 {object} Response "N employees found"
// @Failure 500 {object} Response "Internal Server Error"
// @Router /api/employees [get]
func (h employeeHandler) getAllEmployees() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		employees, err := h.service.GetAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteSuccess(w, fmt.Sprintf("%d employees found", len(employees)), employees)
	}
}

// getEmployee retrieves a specific employee by ID
// @Summary Get employee
// @Produce json
// @Param id path string true "Employee ID" format(uuid)
// @Success 200 {object} Response "Employee found"
// @Failure 400 {object} Response "Bad Request - Invalid id"
// @Failure 404 {object} Response "Employee not found"
// @Failure 500 {object} Response "Internal Server Error"
// @Router /api/employees/{id} [get]
func (h employeeHandler) getEmployee() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		employee, err := h.service.GetByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, employeeNotFound(err))
			return
		}

		h.responder.WriteSuccess(w, "Employee found", employee)
	}
}

// updateEmployee applies a partial update; omitted fields keep their value
// @Summary Update employee
// @Accept json
// @Produce json
// @Param id path string true "Employee ID" format(uuid)
// @Param employee body models.UpdateEmployeeRequest true "Fields to change"
// @Success 200 {object} Response "Employee updated successfully"
// @Failure 400 {object} Response "Bad Request"
// @Failure 404 {object} Response "Employee not found"
// @Failure 500 {object} Response "Internal Server Error"
// @Router /api/employees/{id} [put]
func (h employeeHandler) updateEmployee() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req models.UpdateEmployeeRequest
		if err := decodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		employee, err := h.service.Update(r.Context(), id, req)
		if err != nil {
			h.responder.WriteError(w, employeeNotFound(err))
			return
		}

		h.responder.WriteSuccess(w, "Employee updated successfully", employee)
	}
}

// deleteEmployee removes an employee
// @Summary Delete employee
// @Param id path string true "Employee ID" format(uuid)
// @Success 200 {object} Response "Employee deleted successfully"
// @Failure 400 {object} Response "Bad Request - Invalid id"
// @Failure 404 {object} Response "Employee not found"
// @Failure 500 {object} Response "Internal Server Error"
// @Router /api/employees/{id} [delete]
func (h employeeHandler) deleteEmployee() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		deleted, err := h.service.Delete(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if deleted == 0 {
			h.responder.WriteError(w, errs.NewApiErr(errs.KindNotFound, "Employee not found"))
			return
		}

		h.logger.Info().Str("employeeId", id.String()).Msg("employee deleted")
		h.responder.WriteSuccess(w, "Employee deleted successfully", nil)
	}
}
