package repository_test

import (
	"context"
	"testing"

	"todo/internal/model"
	"todo/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return gormDB, mock
}

func TestTaskRepositoryPostgres_Create(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTaskRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "tasks" \("id","title","description","is_completed","due_date","category"\)`).
		WithArgs(sqlmock.AnyArg(), "Buy milk", sqlmock.AnyArg(), false, sqlmock.AnyArg(), "personal").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	task, err := repo.Create(context.Background(), model.TaskFields{Title: model.Some("Buy milk")})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, task.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepositoryPostgres_CreateCheckViolation(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTaskRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "tasks"`).
		WillReturnError(&pgconn.PgError{Code: "23514", ConstraintName: "tasks_category_check"})
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), model.TaskFields{Title: model.Some("Buy milk")})

	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "category")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepositoryPostgres_GetByID_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTaskRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "tasks" WHERE id = \$1 ORDER BY "tasks"."id" LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "is_completed", "due_date", "category"}))

	task, err := repo.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, repository.ErrTaskNotFound)
	assert.Nil(t, task)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepositoryPostgres_GetByID_Found(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTaskRepository(gormDB)
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "tasks" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "is_completed", "due_date", "category"}).
			AddRow(id.String(), "Read book", nil, true, nil, "study"))

	task, err := repo.GetByID(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, id, task.ID)
	assert.Equal(t, "Read book", task.Title)
	assert.Nil(t, task.Description)
	assert.True(t, task.IsCompleted)
	assert.Equal(t, model.CategoryStudy, task.Category)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepositoryPostgres_GetByID_Error(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTaskRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "tasks"`).WillReturnError(assert.AnError)

	task, err := repo.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, assert.AnError)
	assert.NotErrorIs(t, err, repository.ErrTaskNotFound)
	assert.Nil(t, task)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepositoryPostgres_Update_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTaskRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "tasks" SET "is_completed"=\$1 WHERE id = \$2`).
		WithArgs(true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	_, err := repo.Update(context.Background(), uuid.New(), model.TaskFields{IsCompleted: model.Some(true)})

	assert.ErrorIs(t, err, repository.ErrTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepositoryPostgres_Delete(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTaskRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "tasks" WHERE id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "tasks" WHERE id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	id := uuid.New()
	assert.NoError(t, repo.Delete(context.Background(), id))
	assert.ErrorIs(t, repo.Delete(context.Background(), id), repository.ErrTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
