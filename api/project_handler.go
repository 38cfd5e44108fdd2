package api

import (
	"errors"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-api/database"
	"github.com/rpupo63/portfolio-api/errs"
	"github.com/rpupo63/portfolio-api/models"
	"github.com/rpupo63/portfolio-api/storage"
	"github.com/rpupo63/portfolio-api/validate"
)

// multipart overhead allowed on top of the image itself
const formSlack = 1 << 20

type projectHandler struct {
	responder   Responder
	logger      zerolog.Logger
	projectRepo database.ProjectRepo
	store       storage.Store
	now         func() time.Time
}

func newProjectHandler(projectRepo database.ProjectRepo, store storage.Store) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		projectRepo: projectRepo,
		store:       store,
		now:         timestamp,
	}
}

// timestamp is the server clock at the precision the document store keeps.
func timestamp() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// getAllProjects retrieves all projects, newest first
// @Summary Get all projects
// @Tags Projects
// @Produce json
// @Success 200 {array} models.Project "List of projects"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching projects"
// @Router /api/projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projectRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "projects", err))
			return
		}
		if projects == nil {
			projects = []*models.Project{}
		}

		h.responder.WriteJSON(w, projects)
	}
}

// getProject retrieves a project by its public id
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} models.Project "Project details"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching project"
// @Router /api/projects/{id} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seq, ok := seqParam(r)
		if !ok {
			h.responder.WriteError(w, errs.NewNotFoundError("Project not found"))
			return
		}

		project, err := h.projectRepo.FindBySeq(r.Context(), seq)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}
		if project == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("Project not found"))
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// createProject stores the uploaded image and then the project record
// @Summary Create project
// @Description Accepts multipart/form-data with text fields and a single image in "img"
// @Tags Projects
// @Accept mpfd
// @Produce json
// @Success 201 {object} models.Project "Created project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data or rejected image"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error creating project"
// @Router /api/projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, storage.MaxImageSize+formSlack)
		if err := r.ParseMultipartForm(formSlack); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				h.responder.WriteError(w, errs.NewFileTooLargeError(storage.ImageField, storage.MaxImageSize))
				return
			}
			h.responder.WriteError(w, errs.NewMalformedPayloadError("multipart", err))
			return
		}
		if r.MultipartForm != nil {
			defer r.MultipartForm.RemoveAll()
		}

		files := multipartFiles(r)
		if len(files) > 1 {
			h.responder.WriteError(w, errs.NewInvalidFieldError(storage.ImageField, "Only one image may be uploaded"))
			return
		}
		if len(files) == 1 {
			if err := storage.CheckImage(files[0]); err != nil {
				if errs.IsUploadRejectedError(err) {
					h.logger.Info().
						Str("filename", files[0].Filename).
						Bool("tooLarge", errs.IsFileTooLargeError(err)).
						Bool("unsupportedType", errs.IsUnsupportedMediaTypeError(err)).
						Msg("image rejected")
				}
				h.responder.WriteError(w, err)
				return
			}
		}

		normalized, err := validate.ProjectCreate.Apply(projectFormInput(r.MultipartForm))
		failures := fieldErrors(err)
		if err != nil && !errs.IsValidationError(err) {
			h.responder.WriteError(w, err)
			return
		}
		if len(files) == 0 {
			failures = append(failures, errs.FieldError{Field: storage.ImageField, Message: "Image is required"})
		}
		if len(failures) > 0 {
			h.responder.WriteError(w, errs.NewValidationError(failures))
			return
		}

		var input models.ProjectInput
		if err := validate.Decode(normalized, &input); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("project", err))
			return
		}

		now := h.now()
		imgPath, err := storage.SaveImage(r.Context(), h.store, storage.ProjectsDir, files[0], now)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		input.Img = imgPath

		project := &models.Project{CreatedAt: now, UpdatedAt: now}
		input.Apply(project)

		if err := h.projectRepo.Add(r.Context(), project); err != nil {
			if rmErr := h.store.Remove(r.Context(), imgPath); rmErr != nil {
				h.logger.Warn().Err(rmErr).Str("img", imgPath).Msg("failed to remove orphaned image")
			}
			h.responder.WriteError(w, wrapDatabaseError("create", "project", err))
			return
		}

		h.logger.Info().Int("id", project.Seq).Str("img", project.Img).Msg("project created")
		h.responder.WriteJSONStatus(w, http.StatusCreated, project)
	}
}

func multipartFiles(r *http.Request) []*multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	return r.MultipartForm.File[storage.ImageField]
}

// updateProject replaces the mutable fields of a project
// @Summary Update project
// @Description img must be the path of an already stored image
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param project body models.ProjectInput true "Updated project data"
// @Success 200 {object} models.Project "Updated project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error updating project"
// @Router /api/projects/{id} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := decodeJSONObject(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		normalized, err := validate.ProjectUpdate.Apply(body)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input models.ProjectInput
		if err := validate.Decode(normalized, &input); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("project", err))
			return
		}

		seq, ok := seqParam(r)
		if !ok {
			h.responder.WriteError(w, errs.NewNotFoundError("Project not found"))
			return
		}

		project, err := h.projectRepo.Update(r.Context(), seq, input, h.now())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "project", err))
			return
		}
		if project == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("Project not found"))
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// deleteProject removes a project record. The stored image is kept.
// @Summary Delete project
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} MessageResponse "Project deleted successfully"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error deleting project"
// @Router /api/projects/{id} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seq, ok := seqParam(r)
		if !ok {
			h.responder.WriteError(w, errs.NewNotFoundError("Project not found"))
			return
		}

		deleted, err := h.projectRepo.DeleteBySeq(r.Context(), seq)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "project", err))
			return
		}
		if !deleted {
			h.responder.WriteError(w, errs.NewNotFoundError("Project not found"))
			return
		}

		h.responder.WriteJSON(w, MessageResponse{Message: "Project deleted successfully"})
	}
}
