package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
)

type EmployeeRepo struct {
	db *gorm.DB
}

func NewEmployeeRepo(db *gorm.DB) *EmployeeRepo {
	return &EmployeeRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *EmployeeRepo) GetDB() *gorm.DB {
	return r.db
}

// Add inserts a new employee under a freshly generated ID and returns the stored row
func (r *EmployeeRepo) Add(ctx context.Context, req models.CreateEmployeeRequest) (*models.Employee, error) {
	employee := models.Employee{
		ID:       uuid.New(),
		Name:     req.Name,
		Position: req.Position,
		Email:    req.Email,
	}
	if err := r.db.WithContext(ctx).Create(&employee).Error; err != nil {
		return nil, errs.NewDatabaseError("create", "employee", err)
	}
	return &employee, nil
}

// FindAll returns all employees ordered by name
func (r *EmployeeRepo) FindAll(ctx context.Context) ([]*models.Employee, error) {
	employees := []*models.Employee{}
	if err := r.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&employees).Error; err != nil {
		return nil, errs.NewDatabaseError("find", "employees", err)
	}
	return employees, nil
}

// FindByID returns an employee by its ID
func (r *EmployeeRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	return findEmployee(r.db.WithContext(ctx), id)
}

func findEmployee(tx *gorm.DB, id uuid.UUID) (*models.Employee, error) {
	var employee models.Employee
	err := tx.Where("id = ?", id).Take(&employee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("employee")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "employee", err)
	}
	return &employee, nil
}

// Update applies the provided fields in a single UPDATE statement, so two
// concurrent updates touching different fields both survive. Fields left nil
// in req keep their stored value.
func (r *EmployeeRepo) Update(ctx context.Context, id uuid.UUID, req models.UpdateEmployeeRequest) (*models.Employee, error) {
	if req.IsEmpty() {
		return r.FindByID(ctx, id)
	}

	changes := map[string]interface{}{}
	if req.Name != nil {
		changes["name"] = *req.Name
	}
	if req.Position != nil {
		changes["position"] = *req.Position
	}
	if req.Email != nil {
		changes["email"] = *req.Email
	}

	var updated *models.Employee
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Employee{}).Where("id = ?", id).Updates(changes)
		if res.Error != nil {
			return errs.NewDatabaseError("update", "employee", res.Error)
		}
		if res.RowsAffected == 0 {
			return errs.NewNotFound("employee")
		}

		var err error
		updated, err = findEmployee(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an employee by id and reports how many rows were removed
func (r *EmployeeRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Employee{})
	if res.Error != nil {
		return 0, errs.NewDatabaseError("delete", "employee", res.Error)
	}
	return res.RowsAffected, nil
}
