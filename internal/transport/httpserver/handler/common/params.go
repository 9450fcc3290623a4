package common

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"pharmaduty-go/internal/domain/schedule"
	"pharmaduty-go/internal/pagination"
)

func ParseDateParam(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := schedule.ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func ParseIntParam(value string, fallback int) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0, fmt.Errorf("invalid int")
	}
	return parsed, nil
}

func ParseBoolParam(value string) (*bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return nil, fmt.Errorf("invalid bool")
	}
	return &parsed, nil
}

func ParseUintParam(value string) (*uint, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil || parsed == 0 {
		return nil, fmt.Errorf("invalid id")
	}
	id := uint(parsed)
	return &id, nil
}

// URLID reads a positive numeric path parameter.
func URLID(r *http.Request, name string) (uint, bool) {
	parsed, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil || parsed == 0 {
		return 0, false
	}
	return uint(parsed), true
}

// ParsePagination reads page and per_page; services clamp the values.
func ParsePagination(query url.Values) (pagination.Params, error) {
	page, err := ParseIntParam(query.Get("page"), 1)
	if err != nil {
		return pagination.Params{}, fmt.Errorf("invalid page")
	}
	perPage, err := ParseIntParam(query.Get("per_page"), 0)
	if err != nil {
		return pagination.Params{}, fmt.Errorf("invalid per_page")
	}
	return pagination.Params{Page: page, PerPage: perPage}, nil
}

func WriteInvalidParam(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, "invalid_request", message)
}
