package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TrainingType categorizes a module for the continuing-education program
type TrainingType string

const (
	TrainingOnboarding  TrainingType = "ONBOARDING"
	TrainingTechnical   TrainingType = "TECNICO"
	TrainingBiosafety   TrainingType = "BIOSSEGURANCA"
	TrainingQuality     TrainingType = "QUALIDADE"
	TrainingRecycling   TrainingType = "RECICLAGEM"
	TrainingRDCUpdate   TrainingType = "RDC_UPDATE"
)

// Valid reports whether the training type is one of the known values
func (t TrainingType) Valid() bool {
	switch t {
	case TrainingOnboarding, TrainingTechnical, TrainingBiosafety,
		TrainingQuality, TrainingRecycling, TrainingRDCUpdate:
		return true
	}
	return false
}

// ModuleStatus is the publication state of a module. Only PUBLISHED modules
// may be scheduled or newly marked mandatory in the matrix.
type ModuleStatus string

const (
	ModuleDraft     ModuleStatus = "DRAFT"
	ModulePublished ModuleStatus = "PUBLISHED"
)

// LessonContentType is the media type of a lesson
type LessonContentType string

const (
	LessonVideo LessonContentType = "VIDEO"
	LessonPDF   LessonContentType = "PDF"
	LessonLink  LessonContentType = "LINK"
	LessonText  LessonContentType = "TEXT"
)

// Valid reports whether the content type is one of the known values
func (t LessonContentType) Valid() bool {
	switch t {
	case LessonVideo, LessonPDF, LessonLink, LessonText:
		return true
	}
	return false
}

// TrainingModule represents a course in the continuing-education catalog
type TrainingModule struct {
	ID               uuid.UUID    `json:"id" db:"id"`
	Title            string       `json:"title" db:"title"`
	Description      string       `json:"description" db:"description"`
	ShortDescription *string      `json:"short_description,omitempty" db:"short_description"`
	Objectives       *string      `json:"objectives,omitempty" db:"objectives"`
	TrainingType     TrainingType `json:"training_type" db:"training_type"`
	DurationMinutes  int          `json:"duration_minutes" db:"duration_minutes"`
	WorkloadHours    *float64     `json:"workload_hours,omitempty" db:"workload_hours"`
	MinScoreApproval int          `json:"min_score_approval" db:"min_score_approval"`
	RequiresQuiz     bool         `json:"requires_quiz" db:"requires_quiz"`
	Status           ModuleStatus `json:"status" db:"status"`
	RDCReference     *string      `json:"rdc_reference,omitempty" db:"rdc_reference"`
	CreatedAt        time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at" db:"updated_at"`

	// Loaded with an explicit join, not persisted on this row
	Lessons []TrainingLesson `json:"lessons,omitempty" db:"-"`
}

// TrainingLesson is an ordered content unit within a module. OrderIndex
// defines display and navigation sequence; it must be unique per module and
// ascending, gaps are tolerated.
type TrainingLesson struct {
	ID          uuid.UUID         `json:"id" db:"id"`
	ModuleID    uuid.UUID         `json:"module_id" db:"module_id"`
	Title       string            `json:"title" db:"title"`
	ContentType LessonContentType `json:"content_type" db:"content_type"`
	ContentURL  *string           `json:"content_url,omitempty" db:"content_url"`
	Description *string           `json:"description,omitempty" db:"description"`
	OrderIndex  int               `json:"order_index" db:"order_index"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
}

// SaveModuleRequest is the payload for creating or updating a module
type SaveModuleRequest struct {
	Title            string       `json:"title" binding:"required"`
	Description      string       `json:"description" binding:"required"`
	ShortDescription *string      `json:"short_description,omitempty"`
	Objectives       *string      `json:"objectives,omitempty"`
	TrainingType     TrainingType `json:"training_type" binding:"required"`
	DurationMinutes  int          `json:"duration_minutes" binding:"required,gt=0"`
	WorkloadHours    *float64     `json:"workload_hours,omitempty"`
	MinScoreApproval int          `json:"min_score_approval"`
	RequiresQuiz     bool         `json:"requires_quiz"`
	RDCReference     *string      `json:"rdc_reference,omitempty"`
}

// Validate validates the module payload beyond binding tags
func (r *SaveModuleRequest) Validate() error {
	if !r.TrainingType.Valid() {
		return errors.New("training_type must be one of ONBOARDING, TECNICO, BIOSSEGURANCA, QUALIDADE, RECICLAGEM, RDC_UPDATE")
	}
	if r.MinScoreApproval < 0 || r.MinScoreApproval > 100 {
		return errors.New("min_score_approval must be between 0 and 100")
	}
	return nil
}

// SaveLessonRequest is the payload for adding a lesson to a module
type SaveLessonRequest struct {
	Title       string            `json:"title" binding:"required"`
	ContentType LessonContentType `json:"content_type" binding:"required"`
	ContentURL  *string           `json:"content_url,omitempty"`
	Description *string           `json:"description,omitempty"`
	OrderIndex  int               `json:"order_index"`
}

// Validate validates the lesson payload beyond binding tags
func (r *SaveLessonRequest) Validate() error {
	if !r.ContentType.Valid() {
		return errors.New("content_type must be one of VIDEO, PDF, LINK, TEXT")
	}
	if r.OrderIndex < 0 {
		return errors.New("order_index must not be negative")
	}
	return nil
}
