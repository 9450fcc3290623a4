// Package pagination normalizes page/per_page query parameters and builds list metadata.
package pagination

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

type Params struct {
	Page    int
	PerPage int
}

// Normalize clamps the page to at least 1 and per-page to [1, max], using def when unset.
func (p Params) Normalize(def, max int) Params {
	if def <= 0 {
		def = DefaultPerPage
	}
	if max <= 0 {
		max = MaxPerPage
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage <= 0 {
		p.PerPage = def
	}
	if p.PerPage > max {
		p.PerPage = max
	}
	return p
}

func (p Params) Limit() int {
	return p.PerPage
}

func (p Params) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PerPage
}

type Meta struct {
	Page     int   `json:"current_page"`
	PerPage  int   `json:"per_page"`
	Total    int64 `json:"total"`
	LastPage int   `json:"last_page"`
}

func NewMeta(p Params, total int64) Meta {
	last := 1
	if p.PerPage > 0 && total > 0 {
		last = int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
	}
	return Meta{Page: p.Page, PerPage: p.PerPage, Total: total, LastPage: last}
}
