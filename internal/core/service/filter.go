package service

import (
	"strconv"
	"strings"

	"github.com/healthics/portal/internal/core/domain"
)

// FilterAll is the neutral filter value; both it and the empty string are
// no-ops, never exclusions.
const FilterAll = "all"

const defaultPerPage = 10

// DocumentFilter selects documents conjunctively, in fixed order: text
// match, then category equality, then owner equality.
type DocumentFilter struct {
	Search     string
	CategoryID string
	OwnerID    string
}

func noop(value string) bool {
	return strings.TrimSpace(value) == "" || value == FilterAll
}

// Match reports whether one document passes every active filter.
func (f DocumentFilter) Match(d domain.Document) bool {
	if !noop(f.Search) {
		q := strings.ToLower(strings.TrimSpace(f.Search))
		if !strings.Contains(strings.ToLower(d.Title), q) &&
			!strings.Contains(strings.ToLower(d.Description), q) &&
			!strings.Contains(strings.ToLower(d.DoctorName), q) &&
			!strings.Contains(strings.ToLower(d.HospitalName), q) {
			return false
		}
	}
	if !noop(f.CategoryID) && strconv.FormatInt(d.CategoryID, 10) != f.CategoryID {
		return false
	}
	if !noop(f.OwnerID) && strconv.FormatInt(d.OwnerUserID, 10) != f.OwnerID {
		return false
	}
	return true
}

// Apply returns the documents passing the filter, preserving input order.
func (f DocumentFilter) Apply(docs []domain.Document) []domain.Document {
	matched := make([]domain.Document, 0, len(docs))
	for _, d := range docs {
		if f.Match(d) {
			matched = append(matched, d)
		}
	}
	return matched
}

// FilterState is the view-state machine behind the admin document browser:
// the active filter plus the active page. Mutating any filter value resets
// the page to 1, so a filter change can never leave the caller on a page
// that no longer exists.
type FilterState struct {
	filter  DocumentFilter
	page    int
	perPage int
}

func NewFilterState(perPage int) *FilterState {
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	return &FilterState{page: 1, perPage: perPage}
}

func (s *FilterState) SetSearch(search string) {
	s.filter.Search = search
	s.page = 1
}

func (s *FilterState) SetCategory(categoryID string) {
	s.filter.CategoryID = categoryID
	s.page = 1
}

func (s *FilterState) SetOwner(ownerID string) {
	s.filter.OwnerID = ownerID
	s.page = 1
}

// SetPage selects a page. Non-positive values keep page 1; range
// validation against the filtered set happens in Paginate.
func (s *FilterState) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	s.page = page
}

func (s *FilterState) Page() int              { return s.page }
func (s *FilterState) Filter() DocumentFilter { return s.filter }

// PageResult is one page of the filtered set.
type PageResult struct {
	Documents  []domain.Document
	Total      int
	Page       int
	PerPage    int
	TotalPages int
}

// Paginate applies the filter and slices out the active page. A page
// beyond the filtered range snaps back to 1 rather than returning an
// empty page.
func (s *FilterState) Paginate(docs []domain.Document) PageResult {
	filtered := s.filter.Apply(docs)

	totalPages := (len(filtered) + s.perPage - 1) / s.perPage
	if totalPages == 0 {
		totalPages = 1
	}
	if s.page > totalPages {
		s.page = 1
	}

	start := (s.page - 1) * s.perPage
	end := start + s.perPage
	if end > len(filtered) {
		end = len(filtered)
	}

	return PageResult{
		Documents:  filtered[start:end],
		Total:      len(filtered),
		Page:       s.page,
		PerPage:    s.perPage,
		TotalPages: totalPages,
	}
}
