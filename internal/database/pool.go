package database

import (
	"sync"

	"github.com/jmoiron/sqlx"

	"github.com/dwbooks/bookmanager/internal/utils"
)

// Pool hands out and reclaims handles to the database file, so read-heavy
// callers do not reopen the file for every request.
//
// The idle set is guarded by a mutex. The original version of this service
// shared it across worker threads unsynchronized; that is a race, not a
// behavior worth keeping.
type Pool struct {
	mu   sync.Mutex
	idle []*sqlx.DB
	path string
	log  *utils.Logger
}

// NewPool creates an empty pool for the database at path. Handles are opened
// lazily on the first Acquire that finds the idle set empty.
func NewPool(path string, log *utils.Logger) *Pool {
	return &Pool{path: path, log: log}
}

// Path returns the database file path the pool opens handles against.
func (p *Pool) Path() string {
	return p.path
}

// Acquire returns an idle handle, opening a new one when none is available.
// It never blocks waiting for a handle.
func (p *Pool) Acquire() (*sqlx.DB, error) {
	p.mu.Lock()
	if n := len(p.idle); n > 0 {
		db := p.idle[n-1]
		p.idle = p.idle[:n-1]
		p.mu.Unlock()
		p.log.Debug("pool: handle checked out, %d idle", n-1)
		return db, nil
	}
	p.mu.Unlock()

	db, err := Open(p.path)
	if err != nil {
		return nil, err
	}
	p.log.Debug("pool: opened new handle for %s", p.path)
	return db, nil
}

// Release returns a handle to the idle set. Releasing a handle that is
// already idle is a no-op; the idle set never holds duplicates.
func (p *Pool) Release(db *sqlx.DB) {
	if db == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for _, idle := range p.idle {
		if idle == db {
			p.log.Error("pool: handle released twice")
			return
		}
	}

	p.idle = append(p.idle, db)
	p.log.Debug("pool: handle returned, %d idle", len(p.idle))
}

// IdleCount reports the number of idle handles.
func (p *Pool) IdleCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.idle)
}

// Shutdown closes every idle handle and clears the idle set. Handles still
// checked out are the holder's responsibility to close.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	idle := p.idle
	p.idle = nil
	p.mu.Unlock()

	for _, db := range idle {
		if err := db.Close(); err != nil {
			p.log.Error("pool: closing idle handle: %v", err)
		}
	}
	p.log.Info("pool: shut down, closed %d idle handles", len(idle))
}
