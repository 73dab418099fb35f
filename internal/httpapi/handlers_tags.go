package httpapi

import (
	"encoding/json"
	"net/http"
)

type TagsHandler struct {
	Service SnippetsService
}

type tagsResponse struct {
	Tags []string `json:"tags"`
}

// List Tags
// @Summary List every distinct tag, sorted
// @Tags tags
// @Produce json
// @Success 200 {object} tagsResponse
// @Failure 500 {string} string
// @Router /tags [get]
func (h *TagsHandler) List(w http.ResponseWriter, r *http.Request) {
	tags, err := h.Service.Tags(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	if tags == nil {
		tags = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(tagsResponse{Tags: tags})
}
