package search

// QueryMemo remembers the last raw search input and its built expression so
// callers can skip re-running a search when the input has not changed
// (cursor movement, modifier keys, repeated polls). One memo per session;
// it is not safe for concurrent use and is not meant to be shared.
type QueryMemo struct {
	seen    bool
	lastRaw string
	lastQry string
}

// Build returns the query expression for raw and whether it differs from
// the previous call. The expression is rebuilt only when raw changed.
func (m *QueryMemo) Build(n *Normalizer, raw string) (query string, changed bool) {
	if m.seen && raw == m.lastRaw {
		return m.lastQry, false
	}
	m.seen = true
	m.lastRaw = raw
	m.lastQry = n.BuildQuery(raw)
	return m.lastQry, true
}
