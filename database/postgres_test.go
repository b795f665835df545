package database

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestProjectRepo_FindByCategory_Postgres(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProjectRepo(db)

	id := uuid.New()
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "name", "description", "images", "category", "created_at", "updated_at"}).
		AddRow(id.String(), "Bridge", "Steel", `["https://cdn.test/a.png"]`, "infrastructure", created, created)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "projects" WHERE category = $1 ORDER BY created_at DESC`)).
		WithArgs("infrastructure").
		WillReturnRows(rows)

	projects, err := repo.FindByCategory(context.Background(), "infrastructure")
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, id, projects[0].ID)
	assert.Equal(t, models.ImageList{"https://cdn.test/a.png"}, projects[0].Images)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepo_Delete_Postgres(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProjectRepo(db)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "projects" WHERE id = $1`)).
		WithArgs(id.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.Delete(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepo_Update_MissingRowRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEmployeeRepo(db)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "employees" SET "name"=$1 WHERE id = $2`)).
		WithArgs("Grace", id.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	name := "Grace"
	_, err := repo.Update(context.Background(), id, models.UpdateEmployeeRequest{Name: &name})
	assert.True(t, errs.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepo_FindAll_StorageError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEmployeeRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "employees" ORDER BY name ASC,id ASC`)).
		WillReturnError(assert.AnError)

	_, err := repo.FindAll(context.Background())
	require.Error(t, err)
	assert.True(t, errs.IsStorage(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
