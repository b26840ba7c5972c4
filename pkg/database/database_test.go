package database

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/krs-api/pkg/config"
)

func newSchemaMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestEnsureSchemaCreatesTables(t *testing.T) {
	db, mock, cleanup := newSchemaMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS students").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS courses").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS enrollments").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_enrollments_course_id").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	require.NoError(t, EnsureSchema(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchemaRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newSchemaMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS students").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS courses").WillReturnError(errors.New("permission denied"))
	mock.ExpectRollback()

	err := EnsureSchema(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apply schema")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSchemaDeclaresKeysAndConstraints(t *testing.T) {
	require.Len(t, schemaStatements, 4)
	assert.Contains(t, schemaStatements[0], "nim VARCHAR(10) NOT NULL UNIQUE")
	assert.Contains(t, schemaStatements[1], "code VARCHAR(10) NOT NULL UNIQUE")
	assert.Contains(t, schemaStatements[2], "PRIMARY KEY (student_id, course_id)")
	assert.Contains(t, schemaStatements[2], "grade VARCHAR(2),")
	assert.Contains(t, schemaStatements[2], "DEFAULT now()")
}

func TestDSNPrefersURL(t *testing.T) {
	cfg := config.DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "krs", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=krs sslmode=disable", DSN(cfg))

	cfg.URL = "postgres://u:p@db/krs"
	assert.Equal(t, "postgres://u:p@db/krs", DSN(cfg))
}
