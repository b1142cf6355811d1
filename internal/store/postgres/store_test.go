package postgres

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notactuallytreyanastasio/tv-writer-overlap-explorer/internal/crawler"
)

func TestUpsertShowReturnsRowID(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewStoreWithPool(mock)
	require.NoError(t, err)

	year := 2008
	show := crawler.ShowRef{
		IMDBID:    "tt0903747",
		Title:     "Breaking Bad",
		YearStart: &year,
	}

	mock.ExpectQuery("INSERT INTO shows").
		WithArgs(show.IMDBID, show.Title, show.YearStart, show.YearEnd).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))

	id, err := store.UpsertShow(context.Background(), show)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertWriterReturnsRowID(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewStoreWithPool(mock)
	require.NoError(t, err)

	mock.ExpectQuery("INSERT INTO writers").
		WithArgs("nm0319213", "Vince Gilligan").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

	id, err := store.UpsertWriter(context.Background(), "nm0319213", "Vince Gilligan")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLinkShowWriterIgnoresDuplicate(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewStoreWithPool(mock)
	require.NoError(t, err)

	episodes := 62
	// ON CONFLICT DO NOTHING reports zero rows affected on a duplicate;
	// that is still success.
	mock.ExpectExec("INSERT INTO show_writers").
		WithArgs(int64(42), int64(7), "creator", &episodes).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	err = store.LinkShowWriter(context.Background(), 42, 7, "creator", &episodes)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExistingShowIDs(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewStoreWithPool(mock)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT imdb_id FROM shows").
		WillReturnRows(pgxmock.NewRows([]string{"imdb_id"}).
			AddRow("tt0903747").
			AddRow("tt2861424"))

	ids, err := store.ExistingShowIDs(context.Background())
	require.NoError(t, err)
	assert.Len(t, ids, 2)
	assert.Contains(t, ids, "tt0903747")
	assert.Contains(t, ids, "tt2861424")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEligibleSeedWriters(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewStoreWithPool(mock)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT w.imdb_id, w.name").
		WithArgs(3).
		WillReturnRows(pgxmock.NewRows([]string{"imdb_id", "name"}).
			AddRow("nm0319213", "Vince Gilligan").
			AddRow("nm1733433", "Dan Harmon"))

	writers, err := store.EligibleSeedWriters(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, writers, 2)
	assert.Equal(t, "nm0319213", writers[0].IMDBID)
	assert.Equal(t, "Dan Harmon", writers[1].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOverlapReport(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewStoreWithPool(mock)
	require.NoError(t, err)

	mock.ExpectQuery("HAVING COUNT\\(DISTINCT s.id\\) > 1").
		WillReturnRows(pgxmock.NewRows([]string{"imdb_id", "name", "show_titles", "show_ids", "show_count"}).
			AddRow("nm0319213", "Vince Gilligan", []string{"Better Call Saul", "Breaking Bad"}, []int64{2, 1}, 2))

	overlaps, err := store.OverlapReport(context.Background())
	require.NoError(t, err)
	require.Len(t, overlaps, 1)
	assert.Equal(t, "Vince Gilligan", overlaps[0].WriterName)
	assert.Equal(t, 2, overlaps[0].ShowCount)
	assert.Equal(t, []string{"Better Call Saul", "Breaking Bad"}, overlaps[0].ShowTitles)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountShows(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewStoreWithPool(mock)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM shows").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(117))

	n, err := store.CountShows(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 117, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateWriterDetails(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewStoreWithPool(mock)
	require.NoError(t, err)

	img := "https://images.example/vg.jpg"
	bio := "Writer and producer."
	mock.ExpectExec("UPDATE writers").
		WithArgs("nm0319213", &img, &bio).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = store.UpdateWriterDetails(context.Background(), "nm0319213", &img, &bio)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateWriterDetailsUnknownWriter(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewStoreWithPool(mock)
	require.NoError(t, err)

	bio := "Nobody."
	mock.ExpectExec("UPDATE writers").
		WithArgs("nm0000000", (*string)(nil), &bio).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = store.UpdateWriterDetails(context.Background(), "nm0000000", nil, &bio)
	assert.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewStoreRequiresDSN(t *testing.T) {
	t.Parallel()

	_, err := NewStore(context.Background(), StoreConfig{})
	assert.Error(t, err)
}

func TestNewStoreWithPoolRequiresPool(t *testing.T) {
	t.Parallel()

	_, err := NewStoreWithPool(nil)
	assert.Error(t, err)
}
