// Package devserver is an in-memory stand-in for the platform backend,
// exposing the two entity endpoints the sync client talks to. For local
// development only: state is lost on restart and tokens are not verified.
package devserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/brightpath/studysync/internal/logger"
	"github.com/brightpath/studysync/models"
)

type entityStore struct {
	mu       sync.RWMutex
	entities map[string]models.RemoteEntity
}

func newEntityStore() *entityStore {
	return &entityStore{entities: make(map[string]models.RemoteEntity)}
}

func (s *entityStore) get(key string) (models.RemoteEntity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entity, ok := s.entities[key]
	return entity, ok
}

func (s *entityStore) put(key string, payload []byte) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	s.entities[key] = models.RemoteEntity{Payload: payload, RemoteModifiedAt: &now}
	return now
}

// Handler serves the dev backend API.
type Handler struct {
	store  *entityStore
	logger *logger.Logger
}

func NewHandler(logger *logger.Logger) *Handler {
	return &Handler{store: newEntityStore(), logger: logger}
}

func (h *Handler) Routes() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withLogging)

	router.Get("/api/entities/{kind}/{id}", h.getEntity)
	router.Put("/api/entities/{kind}/{id}", h.putEntity)

	return router
}

func (h *Handler) getEntity(w http.ResponseWriter, r *http.Request) {
	ref := refFromRequest(r)
	if !ref.Valid() {
		http.Error(w, "kind and id are required", http.StatusUnprocessableEntity)
		return
	}

	entity, ok := h.store.get(ref.Key())
	if !ok {
		http.NotFound(w, r)
		return
	}

	writeJSON(w, entity)
}

func (h *Handler) putEntity(w http.ResponseWriter, r *http.Request) {
	ref := refFromRequest(r)
	if !ref.Valid() {
		http.Error(w, "kind and id are required", http.StatusUnprocessableEntity)
		return
	}

	var body models.RemoteEntity
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid entity body", http.StatusBadRequest)
		return
	}

	modifiedAt := h.store.put(ref.Key(), body.Payload)

	writeJSON(w, models.PutResult{RemoteModifiedAt: modifiedAt})
}

func refFromRequest(r *http.Request) models.EntityRef {
	return models.EntityRef{
		Kind: models.EntityKind(chi.URLParam(r, "kind")),
		ID:   chi.URLParam(r, "id"),
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
