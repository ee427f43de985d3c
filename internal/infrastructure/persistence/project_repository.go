package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/groundplan/backend/internal/domain/project"
	"github.com/groundplan/backend/internal/domain/shared"
	"github.com/groundplan/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProjectRepository implements project.Repository using GORM
type GormProjectRepository struct {
	db *gorm.DB
}

// NewGormProjectRepository creates a new GormProjectRepository
func NewGormProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

// FindByIDForTenant finds a project by ID for a specific tenant
func (r *GormProjectRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*project.Project, error) {
	var model models.ProjectModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	p := model.ToDomain()
	memberIDs, err := r.loadMembers(ctx, []uuid.UUID{p.ID})
	if err != nil {
		return nil, err
	}
	p.MemberIDs = memberIDs[p.ID]
	return p, nil
}

// FindAllForTenant finds all projects for a tenant
func (r *GormProjectRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]project.Project, error) {
	var projectModels []models.ProjectModel
	query := r.db.WithContext(ctx).Model(&models.ProjectModel{}).
		Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(name ILIKE ? OR address ILIKE ?)", searchPattern, searchPattern)
	}

	sortField := ValidateSortField(filter.OrderBy, ProjectSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		offset := (filter.Page - 1) * filter.PageSize
		if offset > 0 {
			query = query.Offset(offset)
		}
	}

	if err := query.Find(&projectModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainWithMembers(ctx, projectModels)
}

// FindByMember finds the projects a user is assigned to
func (r *GormProjectRepository) FindByMember(ctx context.Context, tenantID, userID uuid.UUID) ([]project.Project, error) {
	var projectModels []models.ProjectModel
	if err := r.db.WithContext(ctx).Model(&models.ProjectModel{}).
		Joins("JOIN project_members pm ON pm.project_id = projects.id").
		Where("projects.tenant_id = ? AND pm.user_id = ?", tenantID, userID).
		Order("projects.created_at DESC").
		Find(&projectModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainWithMembers(ctx, projectModels)
}

// Save creates or updates a project together with its member list.
// The member join table is rewritten to mirror the aggregate.
func (r *GormProjectRepository) Save(ctx context.Context, p *project.Project) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.ProjectModelFromDomain(p)
		if err := tx.Save(model).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", p.ID).
			Delete(&models.ProjectMemberModel{}).Error; err != nil {
			return err
		}
		if len(p.MemberIDs) == 0 {
			return nil
		}

		now := time.Now()
		members := make([]models.ProjectMemberModel, len(p.MemberIDs))
		for i, userID := range p.MemberIDs {
			members[i] = models.ProjectMemberModel{
				ProjectID: p.ID,
				UserID:    userID,
				TenantID:  p.TenantID,
				CreatedAt: now,
			}
		}
		return tx.Create(&members).Error
	})
}

// DeleteForTenant soft deletes a project for a tenant
func (r *GormProjectRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ProjectModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormProjectRepository) toDomainWithMembers(ctx context.Context, projectModels []models.ProjectModel) ([]project.Project, error) {
	if len(projectModels) == 0 {
		return []project.Project{}, nil
	}

	ids := make([]uuid.UUID, len(projectModels))
	for i, model := range projectModels {
		ids[i] = model.ID
	}
	memberIDs, err := r.loadMembers(ctx, ids)
	if err != nil {
		return nil, err
	}

	projects := make([]project.Project, len(projectModels))
	for i, model := range projectModels {
		p := model.ToDomain()
		p.MemberIDs = memberIDs[p.ID]
		projects[i] = *p
	}
	return projects, nil
}

func (r *GormProjectRepository) loadMembers(ctx context.Context, projectIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	var memberModels []models.ProjectMemberModel
	if err := r.db.WithContext(ctx).
		Where("project_id IN ?", projectIDs).
		Find(&memberModels).Error; err != nil {
		return nil, err
	}

	members := make(map[uuid.UUID][]uuid.UUID, len(projectIDs))
	for _, m := range memberModels {
		members[m.ProjectID] = append(members[m.ProjectID], m.UserID)
	}
	return members, nil
}
