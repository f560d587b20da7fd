package handlers

import (
	"cmp"
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/handsomefox/movie-discovery/internal/logger"
	"github.com/handsomefox/movie-discovery/internal/paging"
	"github.com/handsomefox/movie-discovery/internal/store"
	"github.com/handsomefox/movie-discovery/internal/tmdb"
)

const (
	filteredPerPage = 20
	tmdbPageSize    = 20
)

type searchFilters struct {
	MediaType        tmdb.MediaType
	YearFrom         *int
	YearTo           *int
	MinRating        *float64
	MinVotes         *int
	Sort             string
	Page             int
	GenreIDs         []int
	GenreMode        string
	GenreRaw         string
	OriginCountry    string
	OriginalLanguage string
}

type searchPage struct {
	Results      []tmdb.MultiResult
	Page         int
	TotalPages   int
	TotalResults int
	// Truncated is set when the upstream page limit stopped collection early.
	Truncated bool
	// Excluded counts upstream entries on this page that are not titles. The
	// upstream totals still include them.
	Excluded int
}

type searchResult struct {
	ID               int64          `json:"id"`
	MediaType        tmdb.MediaType `json:"media_type"`
	Title            string         `json:"title"`
	Year             string         `json:"year,omitempty"`
	PosterURL        string         `json:"poster_url,omitempty"`
	Overview         string         `json:"overview"`
	VoteAverage      float64        `json:"vote_average"`
	VoteCount        int            `json:"vote_count"`
	Genres           []string       `json:"genres"`
	OriginCountry    []string       `json:"origin_country,omitempty"`
	OriginalLanguage string         `json:"original_language,omitempty"`
	UserRating       *float64       `json:"user_rating,omitempty"`
}

type filteredSearchResponse struct {
	Results      []searchResult `json:"results"`
	Page         int            `json:"page"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
	Truncated    bool           `json:"truncated,omitempty"`
	Excluded     int            `json:"excluded,omitempty"`
}

// getFilteredSearch searches with filters TMDB's search endpoints do not support.
// With a query, remote pages are pulled and filtered here until the requested page
// is full. Without one, the filters are translated into a discover request.
func (h *Handler) getFilteredSearch(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	v := visitorFrom(ctx)

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	filters := searchFiltersFromRequest(r)

	pageData, err := h.searchTMDB(ctx, query, filters)
	if err != nil {
		return upstream(err)
	}

	refs := make([]store.TMDBRef, 0, len(pageData.Results))
	for _, item := range pageData.Results {
		refs = append(refs, store.TMDBRef{ID: item.ID, MediaType: string(item.MediaType)})
	}
	rated, err := h.store.RatingsFor(ctx, v.ClientID, refs)
	if err != nil {
		return internal(err)
	}

	if err := h.genres.Initialize(ctx, v.Locale); err != nil {
		slog.Debug("genre names unavailable", logger.Error(err))
	}

	base := h.tmdb.ImageBaseURL()
	results := make([]searchResult, 0, len(pageData.Results))
	for _, item := range pageData.Results {
		res := searchResult{
			ID:               item.ID,
			MediaType:        item.MediaType,
			Title:            item.DisplayTitle(),
			PosterURL:        tmdb.ImageURL(base, item.PosterPath, tmdb.KindPoster, tmdb.SizeMedium),
			Overview:         item.Overview,
			VoteAverage:      item.VoteAverage,
			VoteCount:        item.VoteCount,
			Genres:           h.genres.Names(v.Locale, item.MediaType, item.GenreIDs),
			OriginCountry:    item.OriginCountry,
			OriginalLanguage: item.OriginalLanguage,
		}
		if year, ok := parseYear(item.Date()); ok {
			res.Year = strconv.Itoa(year)
		}
		if value, ok := rated[store.TMDBRef{ID: item.ID, MediaType: string(item.MediaType)}]; ok {
			res.UserRating = ptr(value)
		}
		results = append(results, res)
	}

	writeJSON(w, http.StatusOK, &filteredSearchResponse{
		Results:      results,
		Page:         pageData.Page,
		TotalPages:   pageData.TotalPages,
		TotalResults: pageData.TotalResults,
		Truncated:    pageData.Truncated,
		Excluded:     pageData.Excluded,
	})
	return nil
}

func (h *Handler) searchTMDB(ctx context.Context, query string, filters searchFilters) (searchPage, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}

	if query != "" {
		fetch := func(ctx context.Context, page int) (*tmdb.Page[tmdb.MultiResult], error) {
			return h.tmdb.SearchByType(ctx, filters.MediaType, query, page, tmdb.SearchOptions{})
		}
		if filters.isEmpty() && filters.Sort == "relevance" {
			pageData, err := fetch(ctx, filters.Page)
			if err != nil {
				return searchPage{}, err
			}
			titles := applySearchFilters(pageData.Results, filters)
			return searchPage{
				Results:      titles,
				Page:         filters.Page,
				TotalPages:   pageData.TotalPages,
				TotalResults: pageData.TotalResults,
				Excluded:     len(pageData.Results) - len(titles),
			}, nil
		}
		return h.searchWithFilterPaging(ctx, fetch, filters, filteredPerPage)
	}

	if filters.isEmpty() {
		return searchPage{Results: []tmdb.MultiResult{}, Page: filters.Page}, nil
	}

	switch filters.MediaType {
	case tmdb.MediaMovie, tmdb.MediaTV:
		pageData, err := h.tmdb.Discover(ctx, filters.MediaType, discoverParams(filters, filters.MediaType))
		if err != nil {
			return searchPage{}, err
		}
		return searchPage{
			Results:      pageData.Results,
			Page:         filters.Page,
			TotalPages:   pageData.TotalPages,
			TotalResults: pageData.TotalResults,
		}, nil
	default:
		movies, err := h.tmdb.Discover(ctx, tmdb.MediaMovie, discoverParams(filters, tmdb.MediaMovie))
		if err != nil {
			return searchPage{}, err
		}
		tv, err := h.tmdb.Discover(ctx, tmdb.MediaTV, discoverParams(filters, tmdb.MediaTV))
		if err != nil {
			return searchPage{}, err
		}
		found := make([]tmdb.MultiResult, 0, len(movies.Results)+len(tv.Results))
		found = append(found, movies.Results...)
		found = append(found, tv.Results...)

		return searchPage{
			Results:      found,
			Page:         filters.Page,
			TotalPages:   max(movies.TotalPages, tv.TotalPages),
			TotalResults: movies.TotalResults + tv.TotalResults,
		}, nil
	}
}

// searchWithFilterPaging walks remote pages with a paging driver, filtering each
// one, until enough matches exist for the requested page or the remote list or
// page limit runs out.
func (h *Handler) searchWithFilterPaging(
	ctx context.Context,
	fetch func(ctx context.Context, page int) (*tmdb.Page[tmdb.MultiResult], error),
	filters searchFilters,
	perPage int,
) (searchPage, error) {
	offset := (filters.Page - 1) * perPage

	collected := make([]tmdb.MultiResult, 0, perPage*2)
	totalResults := 0
	totalPages := 1
	fetched := 0

	load := func(ctx context.Context, page int) (int, error) {
		pageData, err := fetch(ctx, page)
		if err != nil {
			return 0, err
		}
		fetched++
		if pageData.TotalPages > 0 {
			totalPages = pageData.TotalPages
		}
		if pageData.TotalResults > 0 {
			totalResults = pageData.TotalResults
		}
		collected = append(collected, applySearchFilters(pageData.Results, filters)...)
		if page >= pageData.TotalPages {
			// Remote totals can overstate what is reachable; stop at the last page.
			return page * tmdbPageSize, nil
		}
		return pageData.TotalResults, nil
	}

	delay := h.filteredLoadDelay
	if delay == 0 {
		delay = -1
	}
	driver := paging.New(load, paging.Options{PageSize: tmdbPageSize, LoadDelay: delay})

	total, err := load(ctx, 1)
	if err != nil {
		return searchPage{}, err
	}
	driver.SetTotal(total)

	for len(collected) < offset+perPage && driver.HasMore() && fetched < h.filteredPageLimit {
		if _, err := driver.LoadMore(ctx); err != nil {
			return searchPage{}, err
		}
	}
	exhausted := !driver.HasMore()
	truncated := !exhausted && len(collected) < offset+perPage

	if filters.Sort != "relevance" {
		collected = applySearchSort(collected, filters.Sort)
	}
	paged := paginateSearchResults(collected, offset, perPage)

	if exhausted || truncated {
		filteredTotal := len(collected)
		if filters.Page > 1 {
			filteredTotal = max(filteredTotal, (filters.Page-1)*perPage+len(paged))
		}
		totalResults = filteredTotal
		totalPages = 1
		if totalResults > 0 {
			totalPages = (totalResults + perPage - 1) / perPage
		}
	}

	return searchPage{
		Results:      paged,
		Page:         filters.Page,
		TotalPages:   totalPages,
		TotalResults: totalResults,
		Truncated:    truncated,
	}, nil
}

func searchFiltersFromRequest(r *http.Request) searchFilters {
	query := r.URL.Query()

	mediaType := tmdb.MediaType(strings.TrimSpace(query.Get("media_type")))
	if mediaType != tmdb.MediaMovie && mediaType != tmdb.MediaTV {
		mediaType = tmdb.MediaAll
	}

	var yearFrom *int
	if val := strings.TrimSpace(query.Get("year_from")); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			yearFrom = &parsed
		}
	}

	var yearTo *int
	if val := strings.TrimSpace(query.Get("year_to")); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			yearTo = &parsed
		}
	}

	var minRating *float64
	if val := strings.TrimSpace(query.Get("min_rating")); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil && parsed > 0 {
			minRating = &parsed
		}
	}

	var minVotes *int
	if val := strings.TrimSpace(query.Get("min_votes")); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			minVotes = &parsed
		}
	}

	genreIDs, genreMode, genreQuery := parseGenreFilter(query.Get("genres"))

	sort := strings.TrimSpace(query.Get("sort"))
	switch sort {
	case "rating", "year", "title", "votes":
	default:
		sort = "relevance"
	}

	return searchFilters{
		MediaType:        mediaType,
		YearFrom:         yearFrom,
		YearTo:           yearTo,
		MinRating:        minRating,
		MinVotes:         minVotes,
		Sort:             sort,
		Page:             pageQuery(r),
		GenreIDs:         genreIDs,
		GenreMode:        genreMode,
		GenreRaw:         genreQuery,
		OriginCountry:    strings.ToUpper(strings.TrimSpace(query.Get("origin_country"))),
		OriginalLanguage: strings.ToLower(strings.TrimSpace(query.Get("original_language"))),
	}
}

func (f searchFilters) isEmpty() bool {
	return f.MediaType == tmdb.MediaAll &&
		f.YearFrom == nil &&
		f.YearTo == nil &&
		f.MinRating == nil &&
		f.MinVotes == nil &&
		len(f.GenreIDs) == 0 &&
		f.OriginCountry == "" &&
		f.OriginalLanguage == ""
}

// discoverParams translates filters into /discover query parameters.
func discoverParams(f searchFilters, media tmdb.MediaType) tmdb.Params {
	params := tmdb.Params{
		"page":    f.Page,
		"sort_by": tmdbSort(f.Sort, media),
	}
	dateKey := "primary_release_date"
	if media == tmdb.MediaTV {
		dateKey = "first_air_date"
	}
	if f.YearFrom != nil {
		params[dateKey+".gte"] = strconv.Itoa(*f.YearFrom) + "-01-01"
	}
	if f.YearTo != nil {
		params[dateKey+".lte"] = strconv.Itoa(*f.YearTo) + "-12-31"
	}
	if f.MinRating != nil {
		params["vote_average.gte"] = *f.MinRating
	}
	if f.MinVotes != nil {
		params["vote_count.gte"] = *f.MinVotes
	}
	if f.GenreRaw != "" {
		params["with_genres"] = f.GenreRaw
	}
	if f.OriginCountry != "" {
		params["with_origin_country"] = f.OriginCountry
	}
	if f.OriginalLanguage != "" {
		params["with_original_language"] = f.OriginalLanguage
	}
	return params
}

// applySearchFilters drops people and every title not matching filters.
func applySearchFilters(items []tmdb.MultiResult, filters searchFilters) []tmdb.MultiResult {
	out := make([]tmdb.MultiResult, 0, len(items))
	for _, item := range items {
		if !item.MediaType.IsTitle() {
			continue
		}
		if filters.MediaType != tmdb.MediaAll && item.MediaType != filters.MediaType {
			continue
		}
		if filters.MinRating != nil && item.VoteAverage < *filters.MinRating {
			continue
		}
		if filters.MinVotes != nil && item.VoteCount < *filters.MinVotes {
			continue
		}
		if filters.OriginalLanguage != "" {
			if item.OriginalLanguage == "" || !strings.EqualFold(item.OriginalLanguage, filters.OriginalLanguage) {
				continue
			}
		}
		if filters.OriginCountry != "" {
			if !slices.ContainsFunc(item.OriginCountry, func(code string) bool {
				return strings.EqualFold(code, filters.OriginCountry)
			}) {
				continue
			}
		}
		if len(filters.GenreIDs) > 0 {
			if !matchesGenres(item.GenreIDs, filters.GenreIDs, filters.GenreMode) {
				continue
			}
		}
		if filters.YearFrom != nil || filters.YearTo != nil {
			year, ok := parseYear(item.Date())
			if !ok {
				continue
			}
			if filters.YearFrom != nil && year < *filters.YearFrom {
				continue
			}
			if filters.YearTo != nil && year > *filters.YearTo {
				continue
			}
		}
		out = append(out, item)
	}
	return out
}

func parseYear(date string) (int, bool) {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return 0, false
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil || year <= 0 {
		return 0, false
	}
	return year, true
}

// parseGenreFilter reads "28,12" as all-of and "28|12" as any-of.
func parseGenreFilter(raw string) ([]int, string, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, "and", ""
	}

	mode := "and"
	separator := ","
	if strings.Contains(raw, "|") {
		mode = "or"
		separator = "|"
	}

	parts := strings.Split(raw, separator)
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if val, err := strconv.Atoi(part); err == nil && val > 0 {
			ids = append(ids, val)
		}
	}

	if len(ids) == 0 {
		return nil, "and", ""
	}

	rawParts := make([]string, 0, len(ids))
	for _, id := range ids {
		rawParts = append(rawParts, strconv.Itoa(id))
	}

	return ids, mode, strings.Join(rawParts, separator)
}

func matchesGenres(itemIDs []int, filterIDs []int, mode string) bool {
	if len(filterIDs) == 0 {
		return true
	}
	if len(itemIDs) == 0 {
		return false
	}

	if mode == "or" {
		return slices.ContainsFunc(filterIDs, func(id int) bool { return slices.Contains(itemIDs, id) })
	}
	for _, id := range filterIDs {
		if !slices.Contains(itemIDs, id) {
			return false
		}
	}
	return true
}

func applySearchSort(items []tmdb.MultiResult, sort string) []tmdb.MultiResult {
	if len(items) < 2 {
		return items
	}

	byVotes := func(a, b tmdb.MultiResult) int {
		if a.VoteCount != b.VoteCount {
			return cmp.Compare(b.VoteCount, a.VoteCount)
		}
		if a.VoteAverage != b.VoteAverage {
			return cmp.Compare(b.VoteAverage, a.VoteAverage)
		}
		return strings.Compare(a.DisplayTitle(), b.DisplayTitle())
	}

	switch sort {
	case "rating":
		slices.SortStableFunc(items, func(a, b tmdb.MultiResult) int {
			if a.VoteAverage != b.VoteAverage {
				return cmp.Compare(b.VoteAverage, a.VoteAverage)
			}
			if a.VoteCount != b.VoteCount {
				return cmp.Compare(b.VoteCount, a.VoteCount)
			}
			return strings.Compare(a.DisplayTitle(), b.DisplayTitle())
		})
	case "year":
		slices.SortStableFunc(items, func(a, b tmdb.MultiResult) int {
			yearA, _ := parseYear(a.Date())
			yearB, _ := parseYear(b.Date())
			if yearA != yearB {
				return cmp.Compare(yearB, yearA)
			}
			return strings.Compare(a.DisplayTitle(), b.DisplayTitle())
		})
	case "title":
		slices.SortStableFunc(items, func(a, b tmdb.MultiResult) int {
			return strings.Compare(strings.ToLower(a.DisplayTitle()), strings.ToLower(b.DisplayTitle()))
		})
	default:
		slices.SortStableFunc(items, byVotes)
	}

	return items
}

func tmdbSort(sort string, media tmdb.MediaType) string {
	switch strings.TrimSpace(sort) {
	case "rating":
		return "vote_average.desc"
	case "votes":
		return "vote_count.desc"
	case "year":
		if media == tmdb.MediaTV {
			return "first_air_date.desc"
		}
		return "primary_release_date.desc"
	case "title":
		if media == tmdb.MediaTV {
			return "original_name.asc"
		}
		return "original_title.asc"
	default:
		return "popularity.desc"
	}
}

func paginateSearchResults(items []tmdb.MultiResult, offset, limit int) []tmdb.MultiResult {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []tmdb.MultiResult{}
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}
