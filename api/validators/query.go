package validators

import (
	"net/http"
	"strconv"

	pkgerrors "github.com/jiahaoliu/minimall-backend/pkg/errors"
	"github.com/jiahaoliu/minimall-backend/pkg/pagination"
)

// ParseQueryInt reads an optional integer query parameter, falling back to
// def when absent.
func ParseQueryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "query parameter "+key+" must be an integer")
	}
	return value, nil
}

// ParsePagination reads page and page_size query parameters and normalizes
// them to safe bounds.
func ParsePagination(r *http.Request) (pagination.Params, error) {
	page, err := ParseQueryInt(r, "page", 0)
	if err != nil {
		return pagination.Params{}, err
	}
	pageSize, err := ParseQueryInt(r, "page_size", 0)
	if err != nil {
		return pagination.Params{}, err
	}
	params := pagination.Params{Page: page, PageSize: pageSize}
	return params.Normalize(), nil
}
