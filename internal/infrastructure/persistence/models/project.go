package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/groundplan/backend/internal/domain/project"
	"github.com/groundplan/backend/internal/domain/shared"
)

// ProjectModel is the persistence model for the Project aggregate root.
// Member assignments live in a separate join table and are loaded explicitly.
type ProjectModel struct {
	TenantAggregateModel
	Name    string         `gorm:"type:varchar(200);not null;index"`
	Address string         `gorm:"type:varchar(500)"`
	Status  project.Status `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
}

// TableName returns the table name for GORM
func (ProjectModel) TableName() string {
	return "projects"
}

// ToDomain converts the persistence model to a domain Project entity.
// Member IDs are attached separately by the repository.
func (m *ProjectModel) ToDomain() *project.Project {
	return &project.Project{
		TenantAggregateRoot: shared.TenantAggregateRoot{
			BaseAggregateRoot: shared.BaseAggregateRoot{
				BaseEntity: shared.BaseEntity{
					ID:        m.ID,
					CreatedAt: m.CreatedAt,
					UpdatedAt: m.UpdatedAt,
				},
				Version: m.Version,
			},
			TenantID:  m.TenantID,
			CreatedBy: m.CreatedBy,
		},
		Name:    m.Name,
		Address: m.Address,
		Status:  m.Status,
	}
}

// FromDomain populates the persistence model from a domain Project entity.
func (m *ProjectModel) FromDomain(p *project.Project) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.Name = p.Name
	m.Address = p.Address
	m.Status = p.Status
}

// ProjectModelFromDomain creates a new persistence model from domain.
func ProjectModelFromDomain(p *project.Project) *ProjectModel {
	m := &ProjectModel{}
	m.FromDomain(p)
	return m
}

// ProjectMemberModel is the persistence model for a project member assignment.
type ProjectMemberModel struct {
	ProjectID uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID    uuid.UUID `gorm:"type:uuid;primary_key;index"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProjectMemberModel) TableName() string {
	return "project_members"
}
