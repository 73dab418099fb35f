package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/matheuslc/snipnest_api/internal/snippets"
)

type SearchHandler struct {
	Service SnippetsService
}

type searchResponse struct {
	Results []*snippets.Snippet `json:"results"`
}

// Search Snippets
// @Summary Substring search over title and content
// @Tags search
// @Produce json
// @Param q query string true "search text"
// @Param tag query string false "approximate tag filter"
// @Param limit query int false "limit"
// @Success 200 {object} searchResponse
// @Failure 422 {string} string
// @Failure 500 {string} string
// @Router /search/snippets [get]
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	tag := strings.TrimSpace(r.URL.Query().Get("tag"))
	limit := queryInt(r, "limit", 0)

	results, err := h.Service.Search(r.Context(), q, tag, limit)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if results == nil {
		results = []*snippets.Snippet{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(searchResponse{Results: results})
}
