package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/chriscorrea/kindred/internal/catalog"
	"github.com/chriscorrea/kindred/internal/metrics"
	"github.com/chriscorrea/kindred/internal/recommend"
	"github.com/go-chi/chi/v5"
)

// GET /recommendations
func (s *Server) getRecommendations(w http.ResponseWriter, r *http.Request) {
	params, err := parseRecommendationParams(r.URL.Query(), s.opts.DefaultResults)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := validateParams(params, s.opts.MaxResults); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	ctx := r.Context()
	key := cacheKey(s.fingerprint, params)

	if results, ok := s.cached(ctx, key); ok {
		s.writeRecommendations(w, params, results, true)
		return
	}

	start := time.Now()
	results, err := s.space.Recommend(params.Query, params.Liked, params.K)
	metrics.RecordRecommendation(strings.TrimSpace(params.Query) != "", len(params.Liked) > 0, time.Since(start))
	if err != nil {
		if recommend.IsInvalidRequest(err) {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		s.logger.Error("Recommendation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}

	if s.opts.Cache != nil {
		if err := s.opts.Cache.Set(ctx, key, results); err != nil {
			s.logger.Warn("Cache write failed", "key", key, "error", err)
		}
	}

	s.writeRecommendations(w, params, results, false)
}

// cached looks key up in the cache. Errors count as misses.
func (s *Server) cached(ctx context.Context, key string) ([]recommend.Result, bool) {
	if s.opts.Cache == nil {
		return nil, false
	}
	results, ok, err := s.opts.Cache.Get(ctx, key)
	switch {
	case err != nil:
		metrics.RecordCache("error")
		s.logger.Warn("Cache read failed", "key", key, "error", err)
		return nil, false
	case !ok:
		metrics.RecordCache("miss")
		return nil, false
	default:
		metrics.RecordCache("hit")
		return results, true
	}
}

func (s *Server) writeRecommendations(w http.ResponseWriter, p recommendationParams, results []recommend.Result, cacheHit bool) {
	writeJSON(w, http.StatusOK, RecommendationResponse{
		Query:   p.Query,
		Liked:   p.Liked,
		K:       p.K,
		Results: results,
		Metadata: ResponseMeta{
			CacheHit:    cacheHit,
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
			TotalCount:  len(results),
		},
	})
}

// GET /items
func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	params, err := parseItemsParams(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := validateParams(params, s.opts.MaxResults); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	items := s.space.Items()
	start := min(params.Offset, len(items))
	end := min(start+params.Limit, len(items))

	page := items[start:end]
	if page == nil {
		page = []catalog.Item{}
	}
	writeJSON(w, http.StatusOK, ItemsResponse{
		Items:  page,
		Total:  len(items),
		Offset: params.Offset,
		Limit:  params.Limit,
	})
}

// GET /items/{itemID}
func (s *Server) getItem(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "itemID")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", fmt.Sprintf("item id %q is not an integer", idStr))
		return
	}

	item, ok := s.space.Item(id)
	if !ok {
		writeError(w, http.StatusNotFound, "item_not_found", fmt.Sprintf("Item with ID %d does not exist", id))
		return
	}
	terms, _ := s.space.TopTerms(id, recommend.DefaultExplainTerms)
	writeJSON(w, http.StatusOK, ItemResponse{Item: item, TopTerms: terms})
}

// GET /health
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status: "ok",
		Items:  len(s.space.Items()),
		Terms:  s.space.Vectors().Dim(),
		Cache:  "disabled",
	}
	if s.opts.Cache != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		resp.Cache = "ok"
		if err := s.opts.Cache.Ping(ctx); err != nil {
			// the cache is optional, so the service stays healthy without it
			resp.Cache = "unavailable"
			if !errors.Is(err, context.Canceled) {
				s.logger.Warn("Cache ping failed", "error", err)
			}
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
