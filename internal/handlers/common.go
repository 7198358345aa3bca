package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/collager/internal/arrangement"
	"github.com/lehigh-university-libraries/collager/internal/config"
	"github.com/lehigh-university-libraries/collager/internal/images"
	"github.com/lehigh-university-libraries/collager/internal/models"
	"github.com/lehigh-university-libraries/collager/internal/session"
	"github.com/lehigh-university-libraries/collager/internal/storage"
	"github.com/lehigh-university-libraries/collager/internal/templates"
	"github.com/lehigh-university-libraries/collager/internal/upload"
)

type Handler struct {
	sessionStore *storage.SessionStore
	catalog      *templates.Catalog
	oracle       arrangement.Oracle
	ingester     *upload.Ingester
	fetcher      *images.Fetcher
	cfg          *config.Config
	staticDir    string
}

func New(cfg *config.Config, oracle arrangement.Oracle) *Handler {
	return &Handler{
		sessionStore: storage.New(),
		catalog:      templates.Default(),
		oracle:       oracle,
		ingester:     upload.NewIngester(cfg.MaxUploadBytes),
		fetcher:      images.NewFetcher(cfg.MaxUploadBytes),
		cfg:          cfg,
		staticDir:    "static",
	}
}

// Routes registers the API and static file handlers on a new mux
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/templates", h.HandleTemplates)
	mux.HandleFunc("/api/sessions", h.HandleSessions)
	mux.HandleFunc("/api/sessions/", h.HandleSessionDetail)
	mux.HandleFunc("/", h.HandleStatic)
	mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})
	return mux
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	h.writeJSONStatus(w, data, http.StatusOK)
}

func (h *Handler) writeJSONStatus(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

// Session helpers
func (h *Handler) getSessionOrError(w http.ResponseWriter, sessionID string) (*session.Session, bool) {
	sess, exists := h.sessionStore.Get(sessionID)
	if !exists {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return sess, true
}

func (h *Handler) createSession(key models.TemplateKey) (*session.Session, error) {
	if key == "" {
		key = models.TemplateKey(h.cfg.DefaultTemplate)
	}
	sess, err := session.New(uuid.NewString(), session.Options{
		Catalog:   h.catalog,
		Template:  key,
		Oracle:    h.oracle,
		Timeout:   h.cfg.OracleTimeout,
		Supersede: h.cfg.Supersede,
		Ingester:  h.ingester,
	})
	if err != nil {
		return nil, err
	}
	h.sessionStore.Set(sess.ID, sess)
	slog.Info("Session created", "session_id", sess.ID, "template", key)
	return sess, nil
}
