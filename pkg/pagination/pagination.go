package pagination

const (
	// DefaultPageSize is the standard page size when one is not provided.
	DefaultPageSize = 20
	// MaxPageSize caps how many rows any listing can request.
	MaxPageSize = 100
)

// Params holds page/offset pagination inputs from controllers.
type Params struct {
	Page     int
	PageSize int
}

// Normalize clamps the params to sane bounds.
func (p Params) Normalize() Params {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset returns the row offset for the normalized params.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PageSize
}

// Meta describes a page of results alongside the total row count.
type Meta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NewMeta computes page metadata for the given params and total count.
func NewMeta(p Params, total int64) Meta {
	n := p.Normalize()
	pages := int(total) / n.PageSize
	if int(total)%n.PageSize != 0 {
		pages++
	}
	return Meta{
		Page:       n.Page,
		PageSize:   n.PageSize,
		Total:      total,
		TotalPages: pages,
	}
}
