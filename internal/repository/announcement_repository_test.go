package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/announcement-portal-api/internal/models"
)

func newAnnouncementRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return sqlxDB, mock, func() {
		sqlxDB.Close()
		db.Close()
	}
}

func announcementRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "title", "description", "announcement_type", "announcement_status",
		"start_announcement", "end_announcement", "published_by", "published_at",
		"modified_by", "modified_at", "created_at", "updated_at",
	})
}

func TestAnnouncementRepositoryGetByID(t *testing.T) {
	db, mock, cleanup := newAnnouncementRepoMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT id, title").
		WithArgs("ann-1").
		WillReturnRows(announcementRows().
			AddRow("ann-1", "Sports day", "<p>All</p>", "General", "PUBLISHED",
				now, now.AddDate(0, 0, 10), "admin@example.com", now, nil, nil, now, now))
	mock.ExpectQuery("SELECT category_key FROM announcement_categories").
		WithArgs("ann-1").
		WillReturnRows(sqlmock.NewRows([]string{"category_key"}).AddRow("staff").AddRow("students"))

	announcement, err := repo.GetByID(context.Background(), "ann-1")
	require.NoError(t, err)
	assert.Equal(t, "Sports day", announcement.Title)
	assert.Equal(t, models.AnnouncementStatusPublished, announcement.AnnouncementStatus)
	assert.Equal(t, []string{"staff", "students"}, announcement.CategoryKeys)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositoryList(t *testing.T) {
	db, mock, cleanup := newAnnouncementRepoMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	now := time.Now().UTC()
	status := models.AnnouncementStatusScheduled
	mock.ExpectQuery("SELECT id, title").
		WithArgs(status, "%exam%").
		WillReturnRows(announcementRows().
			AddRow("ann-2", "Exam week", "d", "General", "TO_BE_PUBLISHED",
				now, now.AddDate(0, 0, 5), "admin@example.com", now, nil, nil, now, now))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(status, "%exam%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	announcements, total, err := repo.List(context.Background(), models.AnnouncementFilter{
		Status: &status,
		Search: "exam",
	})
	require.NoError(t, err)
	require.Len(t, announcements, 1)
	assert.Equal(t, "Exam week", announcements[0].Title)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newAnnouncementRepoMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO announcements").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO announcement_categories").
		WithArgs(sqlmock.AnyArg(), "students").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	announcement := &models.Announcement{
		Title:              "Sports day",
		Description:        "<p>All</p>",
		AnnouncementType:   "General",
		AnnouncementStatus: models.AnnouncementStatusPublished,
		StartAnnouncement:  time.Now().UTC(),
		EndAnnouncement:    time.Now().UTC().AddDate(0, 0, 10),
		PublishedBy:        "admin@example.com",
		PublishedAt:        time.Now().UTC(),
		CategoryKeys:       []string{"students"},
	}
	require.NoError(t, repo.Create(context.Background(), announcement))
	assert.NotEmpty(t, announcement.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositoryCreateBatchRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newAnnouncementRepoMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO announcements").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO announcements").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	batch := []*models.Announcement{
		{Title: "A", AnnouncementType: "General", AnnouncementStatus: models.AnnouncementStatusPublished},
		{Title: "B", AnnouncementType: "General", AnnouncementStatus: models.AnnouncementStatusPublished},
	}
	err := repo.CreateBatch(context.Background(), batch)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newAnnouncementRepoMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE announcements SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM announcement_categories").
		WithArgs("ann-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO announcement_categories").
		WithArgs("ann-1", "staff").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	announcement := &models.Announcement{
		ID:                 "ann-1",
		Title:              "Sports day (moved)",
		AnnouncementType:   "General",
		AnnouncementStatus: models.AnnouncementStatusScheduled,
		CategoryKeys:       []string{"staff"},
	}
	require.NoError(t, repo.Update(context.Background(), announcement))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositoryExists(t *testing.T) {
	db, mock, cleanup := newAnnouncementRepoMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	activeAfter := time.Now().UTC()
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("Planned Scheduled", activeAfter, "ann-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.Exists(context.Background(), models.AnnouncementExistsFilter{
		TypeName:    "Planned Scheduled",
		ActiveAfter: activeAfter,
		ExcludeID:   "ann-1",
	})
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newAnnouncementRepoMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	mock.ExpectExec("DELETE FROM announcements").
		WithArgs("ann-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "ann-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
