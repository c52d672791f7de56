package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/techhire/techhire-api/model"
	"github.com/techhire/techhire-api/utils/cache"
	"github.com/techhire/techhire-api/utils/validation"
	"gorm.io/gorm"
)

var ErrJobNotFound = errors.New("job not found")

// JobsPageSize is the fixed page size of the public listing index.
const JobsPageSize = 8

const (
	batchListCacheKey = "catalog:batch_names"
	batchListCacheTTL = 10 * time.Minute
)

// CatalogService owns listings and their batch associations. The Redis
// cache is optional; a nil cache degrades to querying the batch list every
// time.
type CatalogService struct {
	db    *gorm.DB
	cache *cache.RedisCache
}

// NewCatalogService creates a new catalog service
func NewCatalogService(db *gorm.DB, redisCache *cache.RedisCache) *CatalogService {
	return &CatalogService{
		db:    db,
		cache: redisCache,
	}
}

// JobFilter selects listings for ListJobs.
type JobFilter struct {
	Type            string
	Batch           string
	Search          string
	Page            int
	IncludeInactive bool
}

// ListJobs returns one page of listings plus the total match count.
func (s *CatalogService) ListJobs(ctx context.Context, filter JobFilter) ([]model.Job, int64, error) {
	var total int64
	if err := s.jobQuery(ctx, filter).Distinct("jobs.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}

	var jobs []model.Job
	if err := s.jobQuery(ctx, filter).
		Preload("Batches").
		Order("jobs.created_at DESC").
		Limit(JobsPageSize).
		Offset((page - 1) * JobsPageSize).
		Find(&jobs).Error; err != nil {
		return nil, 0, err
	}

	return jobs, total, nil
}

func (s *CatalogService) jobQuery(ctx context.Context, filter JobFilter) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&model.Job{})

	if !filter.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Batch != "" {
		query = query.
			Joins("JOIN job_batches ON job_batches.job_id = jobs.id").
			Joins("JOIN batches ON batches.id = job_batches.batch_id").
			Where("batches.name = ?", filter.Batch)
	}
	if filter.Search != "" {
		query = query.Where("company ILIKE ? OR role ILIKE ?",
			"%"+filter.Search+"%", "%"+filter.Search+"%")
	}

	return query
}

// GetJob fetches one listing with its batches.
func (s *CatalogService) GetJob(ctx context.Context, id uint) (*model.Job, error) {
	var job model.Job
	if err := s.db.WithContext(ctx).Preload("Batches").First(&job, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

// CreateJob persists a new listing and links it to the batches named in
// rawBatches (comma-separated). Returns warnings for rejected batch tokens.
func (s *CatalogService) CreateJob(ctx context.Context, job *model.Job, rawBatches string) ([]string, error) {
	var warnings []string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(job).Error; err != nil {
			return err
		}

		batches, rejected, err := resolveOrCreateBatches(ctx, tx, rawBatches)
		if err != nil {
			return err
		}
		warnings = rejected

		if err := tx.Model(job).Association("Batches").Replace(batches); err != nil {
			return err
		}
		job.Batches = batches
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateBatchCache(ctx)
	return warnings, nil
}

// UpdateJob saves an edited listing and replaces its batch links. Returns
// warnings for rejected batch tokens.
func (s *CatalogService) UpdateJob(ctx context.Context, job *model.Job, rawBatches string) ([]string, error) {
	var warnings []string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(job).Error; err != nil {
			return err
		}

		batches, rejected, err := resolveOrCreateBatches(ctx, tx, rawBatches)
		if err != nil {
			return err
		}
		warnings = rejected

		if err := tx.Model(job).Association("Batches").Replace(batches); err != nil {
			return err
		}
		job.Batches = batches
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateBatchCache(ctx)
	return warnings, nil
}

// DeleteJob soft-deletes a listing.
func (s *CatalogService) DeleteJob(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&model.Job{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	s.invalidateBatchCache(ctx)
	return nil
}

// SanitizeBatchToken normalizes one batch name token. The bool is false
// when the token still carries the list delimiter after sanitization, which
// marks a caller input error: the token must be skipped, never stored.
func SanitizeBatchToken(token string) (string, bool) {
	name := validation.SanitizeBatchName(token)
	if name == "" {
		return "", false
	}
	if strings.Contains(name, ",") {
		return name, false
	}
	return name, true
}

// ParseBatchTokens splits comma-separated batch input into sanitized,
// deduplicated tokens. Rejected tokens come back separately as warnings;
// one bad token never aborts the rest.
func ParseBatchTokens(raw string) (tokens []string, rejected []string) {
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		name, ok := SanitizeBatchToken(part)
		if name == "" {
			continue
		}
		if !ok {
			rejected = append(rejected, name)
			continue
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		tokens = append(tokens, name)
	}
	return tokens, rejected
}

// ResolveOrCreateBatches looks up or creates (case-sensitive, exact match)
// a Batch per token in the raw comma-separated input. The second return
// value lists rejected tokens as caller-facing warnings.
func (s *CatalogService) ResolveOrCreateBatches(ctx context.Context, raw string) ([]model.Batch, []string, error) {
	return resolveOrCreateBatches(ctx, s.db, raw)
}

func resolveOrCreateBatches(ctx context.Context, db *gorm.DB, raw string) ([]model.Batch, []string, error) {
	tokens, rejected := ParseBatchTokens(raw)

	warnings := make([]string, 0, len(rejected))
	for _, name := range rejected {
		warnings = append(warnings, fmt.Sprintf("batch name %q contains the list delimiter and was skipped", name))
	}

	batches := make([]model.Batch, 0, len(tokens))
	for _, name := range tokens {
		var batch model.Batch
		if err := db.WithContext(ctx).Where("name = ?", name).FirstOrCreate(&batch, model.Batch{Name: name}).Error; err != nil {
			return nil, warnings, err
		}
		batches = append(batches, batch)
	}

	return batches, warnings, nil
}

// DistinctBatchNames returns the batch names offered as public filters,
// newest-looking first (reverse lexicographic, so graduation years sort
// descending). Served from Redis when available.
func (s *CatalogService) DistinctBatchNames(ctx context.Context) ([]string, error) {
	if s.cache != nil {
		var cached []string
		if err := s.cache.GetJSON(ctx, batchListCacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	var names []string
	if err := s.db.WithContext(ctx).
		Model(&model.Batch{}).
		Where("name NOT LIKE ?", "%,%").
		Order("name DESC").
		Pluck("name", &names).Error; err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, batchListCacheKey, names, batchListCacheTTL); err != nil {
			log.Printf("catalog: cache batch names: %v", err)
		}
	}

	return names, nil
}

func (s *CatalogService) invalidateBatchCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, batchListCacheKey); err != nil {
		log.Printf("catalog: invalidate batch cache: %v", err)
	}
}

// DeactivateExpiredHackathons flips hackathon listings past their deadline
// inactive. Used by the maintenance cron.
func (s *CatalogService) DeactivateExpiredHackathons(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&model.Job{}).
		Where("type = ? AND is_active = ? AND deadline IS NOT NULL AND deadline < ?",
			model.JobTypeHackathon, true, time.Now().UTC()).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}
