package server

import (
	"encoding/json"
	"net/http"

	"github.com/chriscorrea/kindred/internal/catalog"
	"github.com/chriscorrea/kindred/internal/recommend"
)

type RecommendationResponse struct {
	Query    string             `json:"query"`
	Liked    []int64            `json:"liked"`
	K        int                `json:"k"`
	Results  []recommend.Result `json:"results"`
	Metadata ResponseMeta       `json:"metadata"`
}

type ResponseMeta struct {
	CacheHit    bool   `json:"cache_hit"`
	GeneratedAt string `json:"generated_at"`
	TotalCount  int    `json:"total_count"`
}

type ItemsResponse struct {
	Items  []catalog.Item `json:"items"`
	Total  int            `json:"total"`
	Offset int            `json:"offset"`
	Limit  int            `json:"limit"`
}

type ItemResponse struct {
	Item     catalog.Item            `json:"item"`
	TopTerms []recommend.Explanation `json:"top_terms"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Items  int    `json:"items"`
	Terms  int    `json:"terms"`
	Cache  string `json:"cache"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// write JSON response
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writes JSON error response.
func writeError(w http.ResponseWriter, status int, errCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   errCode,
		Message: message,
	})
}
