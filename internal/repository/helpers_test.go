package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dwbooks/bookmanager/internal/config"
	"github.com/dwbooks/bookmanager/internal/database"
	"github.com/dwbooks/bookmanager/internal/models"
	"github.com/dwbooks/bookmanager/internal/utils"
)

func setupRepoTest(t *testing.T) (*config.Config, *database.Pool, *utils.Logger) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	cfg := &config.Config{
		Database: config.DatabaseConfig{Path: path},
	}

	db, err := database.Open(path)
	require.NoError(t, err)
	require.NoError(t, database.CreateTables(db))
	require.NoError(t, db.Close())

	log := utils.NewLogger("error")
	pool := database.NewPool(path, log)
	t.Cleanup(pool.Shutdown)

	return cfg, pool, log
}

// fixtureBooks is the seed collection for user 1: thirteen books, two with
// an author containing "Jack", one with a title containing "Sword".
var fixtureBooks = []models.Book{
	{Title: "Sorcerer's Daughter", Author: "Terry Brooks", Year: "2009", Read: true, Rating: 4},
	{Title: "The Call of the Wild", Author: "Jack London", Year: "1903", Read: true, Rating: 5},
	{Title: "On the Road", Author: "Jack Kerouac", Year: "1957", Read: false, Rating: 3},
	{Title: "Sword of Destiny", Author: "Andrzej Sapkowski", Year: "1992", Read: true, Rating: 4},
	{Title: "Dune", Author: "Frank Herbert", Year: "1965", Read: true, Rating: 5},
	{Title: "Hyperion", Author: "Dan Simmons", Year: "1989", Read: false, Rating: 4},
	{Title: "Neuromancer", Author: "William Gibson", Year: "1984", Read: true, Rating: 4},
	{Title: "The Hobbit", Author: "J.R.R. Tolkien", Year: "1937", Read: true, Rating: 5},
	{Title: "Snow Crash", Author: "Neal Stephenson", Year: "1992", Read: false, Rating: 3},
	{Title: "Foundation", Author: "Isaac Asimov", Year: "1951", Read: true, Rating: 4},
	{Title: "The Martian", Author: "Andy Weir", Year: "2011", Read: true, Rating: 4},
	{Title: "Old Man's War", Author: "John Scalzi", Year: "2005", Read: false, Rating: 3},
	{Title: "A Wizard of Earthsea", Author: "Ursula K. Le Guin", Year: "1968", Read: true, Rating: 5},
}

// seedBooks stores the fixture for user 1 plus one book for user 2.
func seedBooks(t *testing.T, repo *SQLiteBookRepository) {
	t.Helper()
	ctx := context.Background()

	for _, b := range fixtureBooks {
		b.UserID = 1
		_, err := repo.Store(ctx, b)
		require.NoError(t, err)
	}

	other := models.Book{UserID: 2, Title: "The Dying Earth", Author: "Jack Vance", Year: "1950", Read: true, Rating: 4}
	_, err := repo.Store(ctx, other)
	require.NoError(t, err)
}
