package admin

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/techhire/techhire-api/model"
	"github.com/techhire/techhire-api/services"
	"github.com/techhire/techhire-api/services/push"
	"github.com/techhire/techhire-api/utils/response"
	"github.com/techhire/techhire-api/utils/validation"
)

// JobAdminHandler handles listing management on the admin dashboard
type JobAdminHandler struct {
	catalog    *services.CatalogService
	dispatcher *push.Dispatcher
	validator  *validation.Validator
}

// NewJobAdminHandler creates a new admin job handler
func NewJobAdminHandler(catalog *services.CatalogService, dispatcher *push.Dispatcher) *JobAdminHandler {
	return &JobAdminHandler{
		catalog:    catalog,
		dispatcher: dispatcher,
		validator:  validation.NewValidator(),
	}
}

// JobRequest represents the request body for creating or updating a listing.
// Batches is the comma-separated batch input from the form; Notify defaults
// to true and controls whether the save triggers a push dispatch.
type JobRequest struct {
	Type         string     `json:"type" validate:"required,oneof=full_time internship hackathon"`
	Company      string     `json:"company" validate:"required,max=200"`
	Role         string     `json:"role" validate:"required,max=200"`
	Description  string     `json:"description"`
	ApplyURL     string     `json:"apply_url" validate:"required,http_url,max=500"`
	Location     string     `json:"location" validate:"max=200"`
	Compensation string     `json:"compensation" validate:"max=100"`
	Deadline     *time.Time `json:"deadline"`
	Batches      string     `json:"batches"`
	IsActive     *bool      `json:"is_active"`
	Notify       *bool      `json:"notify"`
}

func (r *JobRequest) notify() bool {
	return r.Notify == nil || *r.Notify
}

// apply validates the type-specific rules and copies the request onto a job.
func (r *JobRequest) apply(job *model.Job) error {
	jobType := model.JobType(r.Type)
	if r.Deadline != nil && jobType != model.JobTypeHackathon {
		return errors.New("deadline is only valid for hackathon listings")
	}

	job.Type = jobType
	job.Company = validation.SanitizeString(r.Company)
	job.Role = validation.SanitizeString(r.Role)
	job.Description = validation.SanitizeString(r.Description)
	job.ApplyURL = r.ApplyURL
	job.Location = validation.SanitizeString(r.Location)
	job.Compensation = validation.SanitizeString(r.Compensation)
	job.Deadline = r.Deadline
	if r.IsActive != nil {
		job.IsActive = *r.IsActive
	}
	return nil
}

// Dashboard handles GET /admin/dashboard: all listings including inactive
// ones, newest first.
func (h *JobAdminHandler) Dashboard(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))

	jobList, total, err := h.catalog.ListJobs(c.Context(), services.JobFilter{
		Page:            page,
		IncludeInactive: true,
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch listings")
	}

	pagination := response.CalculatePagination(page, services.JobsPageSize, total)
	return response.Paginated(c, jobList, pagination)
}

// CreateJob handles POST /admin/jobs. The save commits before the dispatch
// is queued; a failed dispatch never fails the create.
func (h *JobAdminHandler) CreateJob(c *fiber.Ctx) error {
	var req JobRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	job := model.Job{IsActive: true}
	if err := req.apply(&job); err != nil {
		return response.BadRequest(c, err.Error())
	}

	warnings, err := h.catalog.CreateJob(c.Context(), &job, req.Batches)
	if err != nil {
		return response.InternalServerError(c, "Failed to create job")
	}

	if req.notify() && job.IsActive {
		h.dispatcher.DispatchAsync(push.ComposeForJob(&job), job.BatchNames())
	}

	return response.CreatedWithMessage(c, "Job created", fiber.Map{
		"job":      job,
		"warnings": warnings,
	})
}

// UpdateJob handles PUT /admin/jobs/:id
func (h *JobAdminHandler) UpdateJob(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid job id")
	}

	var req JobRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	job, err := h.catalog.GetJob(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrJobNotFound) {
			return response.NotFound(c, "Job not found")
		}
		return response.InternalServerError(c, "Failed to fetch job")
	}

	if err := req.apply(job); err != nil {
		return response.BadRequest(c, err.Error())
	}

	warnings, err := h.catalog.UpdateJob(c.Context(), job, req.Batches)
	if err != nil {
		return response.InternalServerError(c, "Failed to update job")
	}

	if req.notify() && job.IsActive {
		h.dispatcher.DispatchAsync(push.ComposeForJob(job), job.BatchNames())
	}

	return response.SuccessWithMessage(c, "Job updated", fiber.Map{
		"job":      job,
		"warnings": warnings,
	})
}

// DeleteJob handles DELETE /admin/jobs/:id
func (h *JobAdminHandler) DeleteJob(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid job id")
	}

	if err := h.catalog.DeleteJob(c.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrJobNotFound) {
			return response.NotFound(c, "Job not found")
		}
		return response.InternalServerError(c, "Failed to delete job")
	}

	return response.SuccessWithMessage(c, "Job deleted", nil)
}
