package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/lehigh-university-libraries/collager/internal/arrangement"
	"github.com/lehigh-university-libraries/collager/internal/models"
	"github.com/lehigh-university-libraries/collager/internal/session"
)

func (h *Handler) HandleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		sessions := h.sessionStore.GetAll()
		sessionList := make([]*models.CollageSession, 0, len(sessions))
		for _, sess := range sessions {
			sessionList = append(sessionList, sess.State())
		}
		h.writeJSON(w, sessionList)
	case "POST":
		var request struct {
			TemplateKey models.TemplateKey `json:"templateKey"`
		}
		// an empty body creates a session with the default template
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil && !errors.Is(err, io.EOF) {
			h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
		sess, err := h.createSession(request.TemplateKey)
		if err != nil {
			h.writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.writeJSONStatus(w, sess.State(), http.StatusCreated)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleSessionDetail serves /api/sessions/{id} and its sub-resources
func (h *Handler) HandleSessionDetail(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	sessionID, action, _ := strings.Cut(rest, "/")

	sess, ok := h.getSessionOrError(w, sessionID)
	if !ok {
		return
	}

	switch {
	case action == "" && r.Method == "GET":
		h.writeJSON(w, sess.State())
	case action == "" && r.Method == "DELETE":
		h.sessionStore.Delete(sessionID)
		w.WriteHeader(http.StatusNoContent)
	case action == "images" && r.Method == "POST":
		h.handleImageUpload(w, r, sess)
	case action == "template" && r.Method == "PUT":
		h.handleSelectTemplate(w, r, sess)
	case action == "drop" && r.Method == "POST":
		h.handleDrop(w, r, sess)
	case action == "arrange" && r.Method == "POST":
		h.handleArrange(w, r, sess)
	case action == "notifications" && r.Method == "GET":
		h.writeJSON(w, sess.DrainNotifications())
	case action == "" || action == "images" || action == "template" || action == "drop" || action == "arrange" || action == "notifications":
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	default:
		h.writeError(w, "Not found", http.StatusNotFound)
	}
}

func (h *Handler) handleSelectTemplate(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var request struct {
		TemplateKey models.TemplateKey `json:"templateKey"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := sess.SelectTemplate(request.TemplateKey); err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.writeJSON(w, sess.State())
}

func (h *Handler) handleDrop(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var request struct {
		// Payload is the drag data exactly as it came off the drag-and-drop transfer
		Payload      string `json:"payload"`
		TargetSlotID int    `json:"targetSlotId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if _, err := sess.Drop([]byte(request.Payload), request.TargetSlotID); err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.writeJSON(w, sess.State())
}

func (h *Handler) handleArrange(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	err := sess.Arrange(r.Context())
	switch {
	case err == nil:
		h.writeJSON(w, sess.State())
	case errors.Is(err, arrangement.ErrEmptyPool):
		h.writeError(w, arrangement.EmptyPoolMessage, http.StatusConflict)
	case arrangement.IsUserError(err):
		h.writeError(w, err.Error(), http.StatusConflict)
	default:
		h.writeError(w, arrangement.FailureMessage, http.StatusBadGateway)
	}
}
