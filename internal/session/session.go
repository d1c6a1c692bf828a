// Package session keeps per-browser state the catalog UI depends on: which
// column the rows were last sorted by and in which direction, the last
// search input seen, and the login flag when the password gate is enabled.
// The state is explicit and session-scoped — there is no process-wide
// "current sort column".
package session

import (
	"database/sql"
	"net/http"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/mrlokans/librarian/internal/config"
	"github.com/mrlokans/librarian/internal/search"
)

// Session data keys
const (
	KeySortColumn     = "sort_column"
	KeySortDescending = "sort_descending"
	KeyLastSearch     = "last_search"
	KeyAuthenticated  = "authenticated"
)

// DefaultSortColumn matches the reference behaviour: rows come up ordered
// by author until a column header is clicked.
const DefaultSortColumn = "author"

// Manager wraps scs.SessionManager with catalog-specific accessors.
type Manager struct {
	*scs.SessionManager
}

// NewManager creates a configured session manager backed by SQLite. The
// sqlDB parameter should be the underlying *sql.DB from GORM.
func NewManager(sqlDB *sql.DB, cfg config.Auth) (*Manager, error) {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)
	sm.Lifetime = cfg.SessionLifetime
	sm.IdleTimeout = cfg.SessionLifetime / 2

	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteStrictMode
	sm.Cookie.Path = "/"

	return &Manager{SessionManager: sm}, nil
}

// SortState returns the session's current sort state, defaulting to
// ascending by author when nothing was stored yet.
func (m *Manager) SortState(r *http.Request) search.SortState {
	column := m.GetString(r.Context(), KeySortColumn)
	if column == "" {
		return search.SortState{Column: DefaultSortColumn}
	}
	return search.SortState{
		Column:     column,
		Descending: m.GetBool(r.Context(), KeySortDescending),
	}
}

// SetSortState stores the session's sort state.
func (m *Manager) SetSortState(r *http.Request, state search.SortState) {
	m.Put(r.Context(), KeySortColumn, state.Column)
	m.Put(r.Context(), KeySortDescending, state.Descending)
}

// LastSearch returns the previously seen raw search input and whether any
// input was recorded at all. The distinction matters: an empty search box
// is a valid remembered state.
func (m *Manager) LastSearch(r *http.Request) (string, bool) {
	if !m.Exists(r.Context(), KeyLastSearch) {
		return "", false
	}
	return m.GetString(r.Context(), KeyLastSearch), true
}

// SetLastSearch remembers the raw search input for this session.
func (m *Manager) SetLastSearch(r *http.Request, raw string) {
	m.Put(r.Context(), KeyLastSearch, raw)
}

// IsAuthenticated reports whether this session has passed the password gate.
func (m *Manager) IsAuthenticated(r *http.Request) bool {
	return m.GetBool(r.Context(), KeyAuthenticated)
}

// MarkAuthenticated flags the session after a successful login, renewing
// the token to prevent session fixation.
func (m *Manager) MarkAuthenticated(r *http.Request) error {
	if err := m.RenewToken(r.Context()); err != nil {
		return err
	}
	m.Put(r.Context(), KeyAuthenticated, true)
	return nil
}

// ClearAuthentication destroys the session on logout.
func (m *Manager) ClearAuthentication(r *http.Request) error {
	return m.Destroy(r.Context())
}
