package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
)

const projectOrder = "created_at DESC"

type ProjectRepo struct {
	db  *gorm.DB
	now func() time.Time
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db: db, now: time.Now}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *ProjectRepo) GetDB() *gorm.DB {
	return r.db
}

// Add inserts a new project; ID and both timestamps are assigned here
func (r *ProjectRepo) Add(ctx context.Context, req models.CreateProjectRequest) (*models.Project, error) {
	now := r.now().UTC().Truncate(time.Microsecond)
	project := models.Project{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Images:      models.ImageList(req.Images),
		Category:    req.Category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.db.WithContext(ctx).Create(&project).Error; err != nil {
		return nil, errs.NewDatabaseError("create", "project", err)
	}
	return &project, nil
}

// FindAll returns all projects, newest first
func (r *ProjectRepo) FindAll(ctx context.Context) ([]*models.Project, error) {
	projects := []*models.Project{}
	if err := r.db.WithContext(ctx).Order(projectOrder).Find(&projects).Error; err != nil {
		return nil, errs.NewDatabaseError("find", "projects", err)
	}
	return projects, nil
}

// FindByCategory returns the projects whose category matches exactly, newest first
func (r *ProjectRepo) FindByCategory(ctx context.Context, category string) ([]*models.Project, error) {
	projects := []*models.Project{}
	err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order(projectOrder).
		Find(&projects).Error
	if err != nil {
		return nil, errs.NewDatabaseError("find", "projects", err)
	}
	return projects, nil
}

// FindByID returns a project by its ID
func (r *ProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return findProject(r.db.WithContext(ctx), id)
}

func findProject(tx *gorm.DB, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := tx.Where("id = ?", id).Take(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("project")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "project", err)
	}
	return &project, nil
}

// Update writes only the provided fields plus updated_at in one statement and
// returns the row as stored afterwards. An empty request still bumps updated_at.
func (r *ProjectRepo) Update(ctx context.Context, id uuid.UUID, req models.UpdateProjectRequest) (*models.Project, error) {
	changes := map[string]interface{}{
		"updated_at": r.now().UTC().Truncate(time.Microsecond),
	}
	if req.Name != nil {
		changes["name"] = *req.Name
	}
	if req.Description != nil {
		changes["description"] = *req.Description
	}
	if req.Images != nil {
		changes["images"] = models.ImageList(*req.Images)
	}
	if req.Category != nil {
		changes["category"] = *req.Category
	}

	var updated *models.Project
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Project{}).Where("id = ?", id).Updates(changes)
		if res.Error != nil {
			return errs.NewDatabaseError("update", "project", res.Error)
		}
		if res.RowsAffected == 0 {
			return errs.NewNotFound("project")
		}

		var err error
		updated, err = findProject(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a project by id and reports how many rows were removed
func (r *ProjectRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Project{})
	if res.Error != nil {
		return 0, errs.NewDatabaseError("delete", "project", res.Error)
	}
	return res.RowsAffected, nil
}
