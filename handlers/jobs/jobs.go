package jobs

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/techhire/techhire-api/model"
	"github.com/techhire/techhire-api/services"
	"github.com/techhire/techhire-api/utils/response"
)

// JobHandler handles the public listing index
type JobHandler struct {
	catalog *services.CatalogService
}

// NewJobHandler creates a new job handler
func NewJobHandler(catalog *services.CatalogService) *JobHandler {
	return &JobHandler{catalog: catalog}
}

// ListJobs handles GET /. Query parameters: job_type, batch, search, page.
func (h *JobHandler) ListJobs(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))

	filter := services.JobFilter{
		Type:   c.Query("job_type"),
		Batch:  c.Query("batch"),
		Search: c.Query("search"),
		Page:   page,
	}

	if filter.Type != "" && !model.JobType(filter.Type).Valid() {
		return response.BadRequest(c, "Invalid job_type filter")
	}

	jobListing, total, err := h.catalog.ListJobs(c.Context(), filter)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch listings")
	}

	// Filter choices are decoration; a cache or DB hiccup here should not
	// take down the index.
	batches, err := h.catalog.DistinctBatchNames(c.Context())
	if err != nil {
		log.Printf("jobs: fetch batch filter list: %v", err)
		batches = nil
	}

	pagination := response.CalculatePagination(page, services.JobsPageSize, total)
	return response.Paginated(c, fiber.Map{
		"jobs":    jobListing,
		"batches": batches,
	}, pagination)
}

// GetJob handles GET /jobs/:id
func (h *JobHandler) GetJob(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid job id")
	}

	job, err := h.catalog.GetJob(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrJobNotFound) {
			return response.NotFound(c, "Job not found")
		}
		return response.InternalServerError(c, "Failed to fetch job")
	}

	if !job.IsActive {
		return response.NotFound(c, "Job not found")
	}

	return response.Success(c, job)
}
