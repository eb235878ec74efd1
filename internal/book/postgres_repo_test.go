package book

import (
	"context"
	"fmt"
	"testing"
	"time"

	"booksapi/internal/testutil"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	fuzz "github.com/google/gofuzz"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) (*PostgresRepo, *pgxpool.Pool) {
	t.Helper()
	db := testutil.OpenTestDB(t)
	testutil.ResetBooks(t, db)
	return NewPostgresRepo(db, 5*time.Second), db
}

// randomBooks returns n books with distinct ISBNs and otherwise random fields.
func randomBooks(n int) []Book {
	f := fuzz.New().NilChance(0).Funcs(func(b *Book, c fuzz.Continue) {
		b.AmazonURL = "https://a.co/" + c.RandString()
		b.Author = c.RandString()
		b.Language = c.RandString()
		b.Pages = 1 + c.Intn(2000)
		b.Publisher = c.RandString()
		b.Title = c.RandString()
		b.Year = c.Intn(2100) - 100
	})

	books := make([]Book, n)
	for i := range books {
		f.Fuzz(&books[i])
		books[i].ISBN = fmt.Sprintf("978%010d", i)
	}
	return books
}

func TestPostgresRepo_RoundTrip(t *testing.T) {
	repo, db := setupRepo(t)
	ctx := context.Background()

	books := randomBooks(25)
	for _, b := range books {
		created, err := repo.Create(ctx, b)
		require.NoError(t, err)
		if diff := cmp.Diff(b, created); diff != "" {
			t.Fatalf("Create() mismatch (-want +got):\n%s", diff)
		}

		got, err := repo.GetByISBN(ctx, b.ISBN)
		require.NoError(t, err)
		if diff := cmp.Diff(b, got); diff != "" {
			t.Fatalf("GetByISBN(%q) mismatch (-want +got):\n%s", b.ISBN, diff)
		}
	}

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, testutil.CountBooks(t, db))
	sortByISBN := cmpopts.SortSlices(func(a, b Book) bool { return a.ISBN < b.ISBN })
	if diff := cmp.Diff(books, all, sortByISBN); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}
}

func TestPostgresRepo_ListEmpty(t *testing.T) {
	repo, _ := setupRepo(t)

	books, err := repo.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, books)
	assert.Empty(t, books)
}

func TestPostgresRepo_GetByISBNMissing(t *testing.T) {
	repo, _ := setupRepo(t)

	_, err := repo.GetByISBN(context.Background(), "0691161511")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresRepo_DuplicateCreate(t *testing.T) {
	repo, db := setupRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, powerUp)
	require.NoError(t, err)

	again := powerUp
	again.Title = "Another title"
	_, err = repo.Create(ctx, again)

	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, 1, testutil.CountBooks(t, db))
	got, err := repo.GetByISBN(ctx, powerUp.ISBN)
	require.NoError(t, err)
	assert.Equal(t, powerUp, got)
}

func TestPostgresRepo_Update(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, powerUp)
	require.NoError(t, err)

	changed := powerUp
	changed.Year = 2000
	updated, err := repo.Update(ctx, powerUp.ISBN, changed)
	require.NoError(t, err)
	assert.Equal(t, changed, updated)

	got, err := repo.GetByISBN(ctx, powerUp.ISBN)
	require.NoError(t, err)
	assert.Equal(t, 2000, got.Year)
}

func TestPostgresRepo_UpdateMissingLeavesTableUnchanged(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, powerUp)
	require.NoError(t, err)
	before, err := repo.List(ctx)
	require.NoError(t, err)

	ghost := powerUp
	ghost.ISBN = "0691161511"
	ghost.Year = 2018
	_, err = repo.Update(ctx, ghost.ISBN, ghost)
	assert.ErrorIs(t, err, ErrNotFound)

	after, err := repo.List(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("table changed (-before +after):\n%s", diff)
	}
}

func TestPostgresRepo_Delete(t *testing.T) {
	repo, db := setupRepo(t)
	ctx := context.Background()

	for _, b := range []Book{powerUp, elementsOfStyle} {
		_, err := repo.Create(ctx, b)
		require.NoError(t, err)
	}
	require.Equal(t, 2, testutil.CountBooks(t, db))

	require.NoError(t, repo.Delete(ctx, powerUp.ISBN))
	assert.Equal(t, 1, testutil.CountBooks(t, db))

	assert.ErrorIs(t, repo.Delete(ctx, powerUp.ISBN), ErrNotFound)
	assert.Equal(t, 1, testutil.CountBooks(t, db))

	_, err := repo.GetByISBN(ctx, powerUp.ISBN)
	assert.ErrorIs(t, err, ErrNotFound)
}
