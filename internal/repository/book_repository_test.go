package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwbooks/bookmanager/internal/config"
	"github.com/dwbooks/bookmanager/internal/models"
)

func newBookRepo(t *testing.T) *SQLiteBookRepository {
	t.Helper()
	cfg, pool, log := setupRepoTest(t)
	repo, err := NewBookRepository(cfg, pool, log)
	require.NoError(t, err)
	t.Cleanup(repo.Close)
	return repo
}

func TestNewBookRepositoryMissingPath(t *testing.T) {
	cfg, pool, log := setupRepoTest(t)
	cfg = &config.Config{Database: config.DatabaseConfig{Path: ""}}

	_, err := NewBookRepository(cfg, pool, log)
	require.Error(t, err)
}

func TestBookRepositoryGetAll(t *testing.T) {
	repo := newBookRepo(t)
	seedBooks(t, repo)
	ctx := context.Background()

	books, err := repo.GetAll(ctx, 1)
	require.NoError(t, err)
	require.Len(t, books, 13)

	first := books[0]
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, "Sorcerer's Daughter", first.Title)
	assert.Equal(t, "Terry Brooks", first.Author)
	assert.Equal(t, "2009", first.Year)
	assert.True(t, first.Read)
	assert.Equal(t, 4, first.Rating)

	// Books belonging to another user never leak in.
	for _, b := range books {
		assert.Equal(t, int64(1), b.UserID)
	}

	none, err := repo.GetAll(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestBookRepositoryGetByIDEnforcesOwnership(t *testing.T) {
	repo := newBookRepo(t)
	seedBooks(t, repo)
	ctx := context.Background()

	book, err := repo.GetByID(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "Sorcerer's Daughter", book.Title)

	// Right id, wrong user.
	_, err = repo.GetByID(ctx, 2, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBookNotFound)
	assert.EqualError(t, err, "Book with that id does not exist for user.")

	// Nonexistent id.
	_, err = repo.GetByID(ctx, 1, 999)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestBookRepositorySearch(t *testing.T) {
	repo := newBookRepo(t)
	seedBooks(t, repo)
	ctx := context.Background()

	books, err := repo.Search(ctx, 1, SearchAuthor, "Jack")
	require.NoError(t, err)
	assert.Len(t, books, 2)

	books, err = repo.Search(ctx, 1, SearchTitle, "Jack")
	require.NoError(t, err)
	assert.Len(t, books, 0)

	books, err = repo.Search(ctx, 1, SearchTitle, "Sword")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Sword of Destiny", books[0].Title)

	books, err = repo.Search(ctx, 1, SearchBoth, "Jack")
	require.NoError(t, err)
	assert.Len(t, books, 2)

	// Substring match is case sensitive.
	books, err = repo.Search(ctx, 1, SearchAuthor, "jack")
	require.NoError(t, err)
	assert.Len(t, books, 0)

	// Restricted to the requesting user: user 2 owns the only Jack Vance.
	books, err = repo.Search(ctx, 2, SearchAuthor, "Jack")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Jack Vance", books[0].Author)
}

func TestBookRepositoryStoreAssignsID(t *testing.T) {
	repo := newBookRepo(t)
	seedBooks(t, repo)
	ctx := context.Background()

	book := models.Book{UserID: 1, Title: "New Book", Author: "New Author", Year: "2020", Read: false, Rating: 2}
	newID, err := repo.Store(ctx, book)
	require.NoError(t, err)
	assert.Equal(t, int64(15), newID) // 13 for user 1 + 1 for user 2

	count, err := repo.Count(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(14), count)
}

func TestBookRepositoryUpdate(t *testing.T) {
	repo := newBookRepo(t)
	seedBooks(t, repo)
	ctx := context.Background()

	book, err := repo.GetByID(ctx, 1, 1)
	require.NoError(t, err)

	book.Rating = 5
	book.Read = false
	saved, err := repo.Update(ctx, book)
	require.NoError(t, err)
	assert.True(t, saved)

	updated, err := repo.GetByID(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
	assert.False(t, updated.Read)
}

func TestBookRepositoryUpdateSoftFails(t *testing.T) {
	repo := newBookRepo(t)
	seedBooks(t, repo)
	ctx := context.Background()

	// Wrong owner: no error, just false.
	book := models.Book{ID: 1, UserID: 2, Title: "T", Author: "A", Year: "2020", Read: false, Rating: 1}
	saved, err := repo.Update(ctx, book)
	require.NoError(t, err)
	assert.False(t, saved)

	// Unassigned ids.
	saved, err = repo.Update(ctx, models.Book{Title: "T", Author: "A", Year: "2020"})
	require.NoError(t, err)
	assert.False(t, saved)

	// Nonexistent id.
	book.ID = 999
	book.UserID = 1
	saved, err = repo.Update(ctx, book)
	require.NoError(t, err)
	assert.False(t, saved)
}

func TestBookRepositoryRemove(t *testing.T) {
	repo := newBookRepo(t)
	seedBooks(t, repo)
	ctx := context.Background()

	removed, err := repo.Remove(ctx, 1, 1)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = repo.GetByID(ctx, 1, 1)
	assert.ErrorIs(t, err, ErrBookNotFound)

	// Wrong owner removes nothing.
	removed, err = repo.Remove(ctx, 1, 14)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestParseSearchType(t *testing.T) {
	assert.Equal(t, SearchAuthor, ParseSearchType("author"))
	assert.Equal(t, SearchTitle, ParseSearchType("title"))
	assert.Equal(t, SearchBoth, ParseSearchType("both"))
	assert.Equal(t, SearchBoth, ParseSearchType(""))
	assert.Equal(t, SearchBoth, ParseSearchType("anything"))
}
