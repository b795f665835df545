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

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	service   *services.ProjectService
}

func newProjectHandler(service *services.ProjectService) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		service:   service,
	}
}

func projectNotFound(err error) error {
	if errs.IsNotFound(err) {
		return errs.NewApiErr(errs.KindNotFound, "Project not found")
	}
	return err
}

// createProject adds a project whose images are already hosted
// @Summary Create project
// @Accept json
// @Produce json
// @Param project body models.CreateProjectRequest true "Project to create"
// @Success 200 {object} Response "Project added successfully"
// @Failure 400 {object} Response "Bad Request - Missing field or no images"
// @Failure 500 {object} Response "Internal Server Error"
// @Router /api/projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateProjectRequest
		if err := decodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := validateRequest(req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if len(req.Images) == 0 {
			h.responder.WriteError(w, errs.NewValidationError("At least one image is required"))
			return
		}

		project, err := h.service.Add(r.Context(), req)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("projectId", project.ID.String()).Msg("project created")
		h.responder.WriteSuccess(w, "Project added successfully", project)
	}
}

// getAllProjects lists projects newest first, optionally filtered by exact category
// @Summary Get all projects
// @Produce json
// @Param category query string false "Exact category to filter on"
// @Success 200 {object} Response "N projects found"
// @Failure 500 {object} Response "Internal Server Error"
// @Router /api/projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			projects []*models.Project
			err      error
		)
		if query := r.URL.Query(); query.Has("category") {
			projects, err = h.service.GetByCategory(r.Context(), query.Get("category"))
		} else {
			projects, err = h.service.GetAll(r.Context())
		}
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteSuccess(w, fmt.Sprintf("%d projects found", len(projects)), projects)
	}
}

// getProject retrieves a specific project by ID
// @Summary Get project
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Success 200 {object} Response "Project found"
// @Failure 400 {object} Response "Bad Request - Invalid id"
// @Failure 404 {object} Response "Project not found"
// @Failure 500 {object} Response "Internal Server Error"
// @Router /api/projects/{id} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.service.GetByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, projectNotFound(err))
			return
		}

		h.responder.WriteSuccess(w, "Project found", project)
	}
}

// updateProject applies a partial update; a present images list replaces the stored one
// @Summary Update project
// @Accept json
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Param project body models.UpdateProjectRequest true "Fields to change"
// @Success 200 {object} Response "Project updated successfully"
// @Failure 400 {object} Response "Bad Request"
// @Failure 404 {object} Response "Project not found"
// @Failure 500 {object} Response "Internal Server Error"
// @Router /api/projects/{id} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req models.UpdateProjectRequest
		if err := decodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.service.Update(r.Context(), id, req)
		if err != nil {
			h.responder.WriteError(w, projectNotFound(err))
			return
		}

		h.responder.WriteSuccess(w, "Project updated successfully", project)
	}
}

// deleteProject removes a project
// @Summary Delete project
// @Param id path string true "Project ID" format(uuid)
// @Success 200 {object} Response "Project deleted successfully"
// @Failure 400 {object} Response "Bad Request - Invalid id"
// @Failure 404 {object} Response "Project not found"
// @Failure 500 {object} Response "Internal Server Error"
// @Router /api/projects/{id} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
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
			h.responder.WriteError(w, errs.NewApiErr(errs.KindNotFound, "Project not found"))
			return
		}

		h.logger.Info().Str("projectId", id.String()).Msg("project deleted")
		h.responder.WriteSuccess(w, "Project deleted successfully", nil)
	}
}
