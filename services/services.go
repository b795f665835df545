package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/models"
)

// EmployeeStore is the persistence contract EmployeeService delegates to.
// *database.EmployeeRepo satisfies it.
type EmployeeStore interface {
	Add(ctx context.Context, req models.CreateEmployeeRequest) (*models.Employee, error)
	FindAll(ctx context.Context) ([]*models.Employee, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	Update(ctx context.Context, id uuid.UUID, req models.UpdateEmployeeRequest) (*models.Employee, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

// ProjectStore is the persistence contract ProjectService delegates to.
// *database.ProjectRepo satisfies it.
type ProjectStore interface {
	Add(ctx context.Context, req models.CreateProjectRequest) (*models.Project, error)
	FindAll(ctx context.Context) ([]*models.Project, error)
	FindByCategory(ctx context.Context, category string) ([]*models.Project, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	Update(ctx context.Context, id uuid.UUID, req models.UpdateProjectRequest) (*models.Project, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type EmployeeService struct {
	store EmployeeStore
}

func NewEmployeeService(store EmployeeStore) *EmployeeService {
	return &EmployeeService{store: store}
}

func (s *EmployeeService) Add(ctx context.Context, req models.CreateEmployeeRequest) (*models.Employee, error) {
	return s.store.Add(ctx, req)
}

func (s *EmployeeService) GetAll(ctx context.Context) ([]*models.Employee, error) {
	return s.store.FindAll(ctx)
}

func (s *EmployeeService) GetByID(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	return s.store.FindByID(ctx, id)
}

func (s *EmployeeService) Update(ctx context.Context, id uuid.UUID, req models.UpdateEmployeeRequest) (*models.Employee, error) {
	return s.store.Update(ctx, id, req)
}

// Delete returns the number of rows removed; 0 means the id did not exist.
func (s *EmployeeService) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	return s.store.Delete(ctx, id)
}

type ProjectService struct {
	store ProjectStore
}

func NewProjectService(store ProjectStore) *ProjectService {
	return &ProjectService{store: store}
}

func (s *ProjectService) Add(ctx context.Context, req models.CreateProjectRequest) (*models.Project, error) {
	return s.store.Add(ctx, req)
}

func (s *ProjectService) GetAll(ctx context.Context) ([]*models.Project, error) {
	return s.store.FindAll(ctx)
}

func (s *ProjectService) GetByCategory(ctx context.Context, category string) ([]*models.Project, error) {
	return s.store.FindByCategory(ctx, category)
}

func (s *ProjectService) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return s.store.FindByID(ctx, id)
}

func (s *ProjectService) Update(ctx context.Context, id uuid.UUID, req models.UpdateProjectRequest) (*models.Project, error) {
	return s.store.Update(ctx, id, req)
}

// Delete returns the number of rows removed; 0 means the id did not exist.
func (s *ProjectService) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	return s.store.Delete(ctx, id)
}
