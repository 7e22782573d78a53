package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostgresWithMock(t *testing.T) (*PostgresGateway, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresGateway(db), mock, db
}

func noteJSON(t *testing.T, n note) []byte {
	t.Helper()
	b, err := json.Marshal(n)
	require.NoError(t, err)
	return b
}

const (
	qFindMany = `(?s)^SELECT\s+data\s+FROM\s+documents\s+WHERE\s+collection\s*=\s*\$1\s+AND\s+data\s*@>\s*\$2::jsonb\s+ORDER\s+BY\s+seq\s*$`
	qFindByID = `(?s)^SELECT\s+data\s+FROM\s+documents\s+WHERE\s+collection\s*=\s*\$1\s+AND\s+id\s*=\s*\$2\s*$`
	qInsert   = `(?s)^INSERT\s+INTO\s+documents\s*\(collection,\s*id,\s*data\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3::jsonb\)\s*$`
	qUpdate   = `(?s)^WITH\s+old\s+AS\s*\(.*FOR\s+UPDATE\s*\)\s*UPDATE\s+documents\s+AS\s+d\s+SET\s+data\s*=\s*d\.data\s*\|\|\s*\$3::jsonb.*RETURNING\s+old\.data\s*$`
	qDelete   = `(?s)^DELETE\s+FROM\s+documents\s+WHERE\s+collection\s*=\s*\$1\s+AND\s+id\s*=\s*\$2\s+RETURNING\s+data\s*$`
)

func TestPostgres_FindMany_FilterAndDecode(t *testing.T) {
	gw, mock, db := newPostgresWithMock(t)
	defer db.Close()

	n1 := note{Meta: Meta{ID: fixedID("64b7f0c2a1b2c3d4e5f60718")}, Title: "sport"}
	n2 := note{Meta: Meta{ID: fixedID("64b7f0c2a1b2c3d4e5f60719")}, Title: "sport"}

	rows := sqlmock.NewRows([]string{"data"}).AddRow(noteJSON(t, n1)).AddRow(noteJSON(t, n2))
	mock.ExpectQuery(qFindMany).
		WithArgs("notes", `{"title":"sport"}`).
		WillReturnRows(rows)

	var out []note
	require.NoError(t, gw.FindMany(context.Background(), "notes", Filter{"title": "sport"}, &out))
	require.Len(t, out, 2)
	assert.Equal(t, n1.ID, out[0].ID)
	assert.Equal(t, n2.ID, out[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_FindMany_EmptyFilterMatchesAll(t *testing.T) {
	gw, mock, db := newPostgresWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qFindMany).
		WithArgs("notes", `{}`).
		WillReturnRows(sqlmock.NewRows([]string{"data"}))

	var out []note
	require.NoError(t, gw.FindMany(context.Background(), "notes", nil, &out))
	assert.Empty(t, out)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_FindMany_DBError(t *testing.T) {
	gw, mock, db := newPostgresWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qFindMany).WillReturnError(errors.New("db down"))

	var out []note
	err := gw.FindMany(context.Background(), "notes", nil, &out)
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestPostgres_FindByID(t *testing.T) {
	gw, mock, db := newPostgresWithMock(t)
	defer db.Close()

	n := note{Meta: Meta{ID: fixedID("64b7f0c2a1b2c3d4e5f60718")}, Title: "history"}
	mock.ExpectQuery(qFindByID).
		WithArgs("notes", n.ID.Hex()).
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow(noteJSON(t, n)))

	var out note
	found, err := gw.FindByID(context.Background(), "notes", n.ID.Hex(), &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "history", out.Title)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_FindByID_MissingAndMalformed(t *testing.T) {
	gw, mock, db := newPostgresWithMock(t)
	defer db.Close()

	id := "64b7f0c2a1b2c3d4e5f60718"
	mock.ExpectQuery(qFindByID).
		WithArgs("notes", id).
		WillReturnError(sql.ErrNoRows)

	var out note
	found, err := gw.FindByID(context.Background(), "notes", id, &out)
	require.NoError(t, err)
	assert.False(t, found)

	// Malformed ids never reach the database.
	found, err = gw.FindByID(context.Background(), "notes", "xyz", &out)
	require.NoError(t, err)
	assert.False(t, found)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Insert(t *testing.T) {
	gw, mock, db := newPostgresWithMock(t)
	defer db.Close()

	n := &note{Meta: Meta{ID: fixedID("64b7f0c2a1b2c3d4e5f60718")}, Title: "sport"}
	mock.ExpectExec(qInsert).
		WithArgs("notes", n.ID.Hex(), string(noteJSON(t, *n))).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, gw.Insert(context.Background(), "notes", n))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Insert_DBError(t *testing.T) {
	gw, mock, db := newPostgresWithMock(t)
	defer db.Close()

	mock.ExpectExec(qInsert).WillReturnError(errors.New("unique violation"))

	err := gw.Insert(context.Background(), "notes", &note{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error: unique violation")
}

func TestPostgres_Insert_DuplicateKey(t *testing.T) {
	gw, mock, db := newPostgresWithMock(t)
	defer db.Close()

	mock.ExpectExec(qInsert).WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := gw.Insert(context.Background(), "notes", &note{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate key")

	var pgErr *pgconn.PgError
	assert.ErrorAs(t, err, &pgErr)
}

func TestPostgres_UpdateByID_ReturnsOldDocument(t *testing.T) {
	gw, mock, db := newPostgresWithMock(t)
	defer db.Close()

	old := note{Meta: Meta{ID: fixedID("64b7f0c2a1b2c3d4e5f60718")}, Title: "draft"}
	mock.ExpectQuery(qUpdate).
		WithArgs("notes", old.ID.Hex(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow(noteJSON(t, old)))

	var out note
	found, err := gw.UpdateByID(context.Background(), "notes", old.ID.Hex(), notePatch{Title: strPtr("final")}, &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "draft", out.Title)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UpdateByID_NoMatch(t *testing.T) {
	gw, mock, db := newPostgresWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qUpdate).WillReturnRows(sqlmock.NewRows([]string{"data"}))

	var out note
	found, err := gw.UpdateByID(context.Background(), "notes", "64b7f0c2a1b2c3d4e5f60718", notePatch{}, &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPostgres_DeleteByID(t *testing.T) {
	gw, mock, db := newPostgresWithMock(t)
	defer db.Close()

	n := note{Meta: Meta{ID: fixedID("64b7f0c2a1b2c3d4e5f60718")}, Title: "gone"}
	mock.ExpectQuery(qDelete).
		WithArgs("notes", n.ID.Hex()).
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow(noteJSON(t, n)))

	var out note
	found, err := gw.DeleteByID(context.Background(), "notes", n.ID.Hex(), &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "gone", out.Title)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_DeleteByID_DBError(t *testing.T) {
	gw, mock, db := newPostgresWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qDelete).WillReturnError(errors.New("db err"))

	var out note
	_, err := gw.DeleteByID(context.Background(), "notes", "64b7f0c2a1b2c3d4e5f60718", &out)
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestPatchJSON_StampsUpdatedAt(t *testing.T) {
	now := time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)

	b, err := patchJSON(notePatch{Body: strPtr("")}, now)
	require.NoError(t, err)
	assert.JSONEq(t, `{"body":"","updatedAt":"2024-05-15T10:00:00Z"}`, string(b))

	b, err = patchJSON(nil, now)
	require.NoError(t, err)
	assert.JSONEq(t, `{"updatedAt":"2024-05-15T10:00:00Z"}`, string(b))

	_, err = patchJSON([]string{"not", "an", "object"}, now)
	assert.Error(t, err)
}

func TestMergeJSON_OverlaysTopLevelKeys(t *testing.T) {
	merged, err := mergeJSON([]byte(`{"a":1,"b":{"c":2}}`), []byte(`{"b":{"d":3},"e":4}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1,"b":{"d":3},"e":4}`, string(merged))
}
