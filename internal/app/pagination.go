package router

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/Renal37/go-orderflow/internal/models"
)

const (
	limitQueryParam  = "limit"
	offsetQueryParam = "offset"
)

// parsePageRequest reads limit and offset from the query. Values that don't parse
// fall back silently: limit to defaultLimit, offset to zero.
func parsePageRequest(r *http.Request, defaultLimit int) models.PageRequest {
	page := models.PageRequest{Limit: defaultLimit}

	query := r.URL.Query()

	if limit, err := strconv.Atoi(query.Get(limitQueryParam)); err == nil && limit > 0 {
		page.Limit = limit
	}

	if offset, err := strconv.Atoi(query.Get(offsetQueryParam)); err == nil && offset > 0 {
		page.Offset = offset
	}

	return page
}

func newPage[T any](r *http.Request, page models.PageRequest, count int, items []T) models.Page[T] {
	if items == nil {
		items = []T{}
	}

	return models.Page[T]{
		ItemsCount: count,
		Next:       nextPageLink(r, page, count),
		Previous:   previousPageLink(r, page),
		Items:      items,
	}
}

func nextPageLink(r *http.Request, page models.PageRequest, count int) *string {
	// Written without offset+limit, which overflows for huge limits.
	if page.Limit >= count-page.Offset {
		return nil
	}

	query := r.URL.Query()
	query.Set(limitQueryParam, strconv.Itoa(page.Limit))
	query.Set(offsetQueryParam, strconv.Itoa(page.Offset+page.Limit))

	return pageLink(r, query)
}

func previousPageLink(r *http.Request, page models.PageRequest) *string {
	if page.Offset <= 0 {
		return nil
	}

	query := r.URL.Query()
	query.Set(limitQueryParam, strconv.Itoa(page.Limit))

	if page.Offset-page.Limit <= 0 {
		query.Del(offsetQueryParam)
	} else {
		query.Set(offsetQueryParam, strconv.Itoa(page.Offset-page.Limit))
	}

	return pageLink(r, query)
}

// pageLink rebuilds the absolute URL of the current request with a different query.
func pageLink(r *http.Request, query url.Values) *string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	link := (&url.URL{
		Scheme:   scheme,
		Host:     r.Host,
		Path:     r.URL.Path,
		RawQuery: query.Encode(),
	}).String()

	return &link
}
