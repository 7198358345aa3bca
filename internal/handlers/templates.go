package handlers

import (
	"net/http"
)

func (h *Handler) HandleTemplates(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.writeJSON(w, h.catalog.All())
}
