package project

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("project not found")

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

type Project struct {
	ID        uint64          `gorm:"primaryKey;column:id" json:"id"`
	Name      string          `gorm:"size:255" json:"name"`
	ClientID  uint64          `gorm:"index:idx_projects_client" json:"clientId"`
	Price     decimal.Decimal `gorm:"type:decimal(18,2)" json:"price"`
	Status    Status          `gorm:"size:20;default:'pending'" json:"status"`
	Progress  int             `gorm:"default:0" json:"progress"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Project) TableName() string { return "projects" }

// TimelineItem is one milestone row of a project's delivery timeline.
type TimelineItem struct {
	ID            uint64     `gorm:"primaryKey;column:id" json:"id"`
	ProjectID     uint64     `gorm:"index:idx_timeline_project" json:"projectId"`
	Title         string     `gorm:"size:255" json:"title"`
	Description   string     `gorm:"type:text" json:"description"`
	Status        string     `gorm:"size:20;default:'pending'" json:"status"`
	EstimatedDate *time.Time `json:"estimatedDate"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (TimelineItem) TableName() string { return "project_timeline" }

// DefaultTimeline is the fixed 6-item plan seeded when a project gets
// its first payment stages and has no timeline yet.
func DefaultTimeline(projectID uint64) []TimelineItem {
	items := []struct{ title, description string }{
		{"Análisis y Planificación", "Análisis de requerimientos y planificación del proyecto"},
		{"Diseño y Arquitectura", "Diseño de la interfaz y arquitectura del sistema"},
		{"Desarrollo - Fase 1", "Desarrollo de funcionalidades principales (50% del proyecto)"},
		{"Desarrollo - Fase 2", "Completar desarrollo y optimizaciones (90% del proyecto)"},
		{"Testing y QA", "Pruebas exhaustivas y control de calidad"},
		{"Entrega Final", "Entrega del proyecto completado y documentación"},
	}
	out := make([]TimelineItem, 0, len(items))
	for _, it := range items {
		out = append(out, TimelineItem{
			ProjectID:   projectID,
			Title:       it.title,
			Description: it.description,
			Status:      "pending",
		})
	}
	return out
}
