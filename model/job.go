package model

import (
	"time"

	"gorm.io/gorm"
)

// JobType discriminates the three listing variants.
type JobType string

const (
	JobTypeFullTime   JobType = "full_time"
	JobTypeInternship JobType = "internship"
	JobTypeHackathon  JobType = "hackathon"
)

// Valid reports whether t is one of the known listing types.
func (t JobType) Valid() bool {
	switch t {
	case JobTypeFullTime, JobTypeInternship, JobTypeHackathon:
		return true
	}
	return false
}

// Label returns the human-facing name used in notification titles.
func (t JobType) Label() string {
	switch t {
	case JobTypeInternship:
		return "Internship"
	case JobTypeHackathon:
		return "Hackathon"
	default:
		return "Job"
	}
}

// Job is a single listing. Compensation carries the salary, stipend or prize
// amount depending on Type; Deadline is set for hackathons only. Both rules
// are enforced at the admin boundary so stored rows never need a cleanup
// pass when the type changes.
type Job struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Type         JobType        `gorm:"type:varchar(20);index;not null" json:"type"`
	Company      string         `gorm:"size:200;not null" json:"company"`
	Role         string         `gorm:"size:200;not null" json:"role"`
	Description  string         `gorm:"type:text" json:"description"`
	ApplyURL     string         `gorm:"size:500;not null" json:"apply_url"`
	Location     string         `gorm:"size:200" json:"location"`
	Compensation string         `gorm:"size:100" json:"compensation"`
	Deadline     *time.Time     `json:"deadline,omitempty"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`

	Batches []Batch `gorm:"many2many:job_batches" json:"batches,omitempty"`
}

// BatchNames returns the names of the job's associated batches. The Batches
// relation must be preloaded.
func (j *Job) BatchNames() []string {
	names := make([]string, 0, len(j.Batches))
	for _, b := range j.Batches {
		names = append(names, b.Name)
	}
	return names
}
