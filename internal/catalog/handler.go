// HTTP handlers for the catalog routes.
//
// Routes:
//
//	GET /attractions[?limit=N]     → ranked attraction list
//	GET /attractions/{id}          → single attraction (404 when absent)
//	GET /food, /food/{id}          → same for the food collection
//	GET /real-estate, /real-estate/{id}
//	GET /jobs, /jobs/{id}
//	GET /recommendations           → top pick of each browsable collection
//
// List responses are always 200 with a (possibly empty) JSON array — the
// fail-soft contract means the handler never surfaces a backend fault.
package catalog

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RecommendationsCacheKey is the Redis key the refresh job keeps warm.
const RecommendationsCacheKey = "cache:recommendations"

// Handler holds shared dependencies. rdb may be nil — the recommendations
// route then always computes live.
type Handler struct {
	svc *Service
	rdb *redis.Client
}

// NewHandler returns a configured Handler.
func NewHandler(svc *Service, rdb *redis.Client) *Handler {
	return &Handler{svc: svc, rdb: rdb}
}

// RegisterRoutes mounts all catalog routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/attractions", h.listOnly(h.listAttractions))
	mux.HandleFunc("/attractions/", h.detailOnly("/attractions/", h.getAttraction))
	mux.HandleFunc("/food", h.listOnly(h.listFood))
	mux.HandleFunc("/food/", h.detailOnly("/food/", h.getFood))
	mux.HandleFunc("/real-estate", h.listOnly(h.listRealEstate))
	mux.HandleFunc("/real-estate/", h.detailOnly("/real-estate/", h.getRealEstate))
	mux.HandleFunc("/jobs", h.listOnly(h.listJobs))
	mux.HandleFunc("/jobs/", h.detailOnly("/jobs/", h.getJob))
	mux.HandleFunc("/recommendations", h.handleRecommendations)
}

// ─── Route plumbing ──────────────────────────────────────────────────────────

// listOnly enforces GET and parses the optional limit query parameter.
func (h *Handler) listOnly(fn func(w http.ResponseWriter, r *http.Request, limit int)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		limit, err := parseLimit(r)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		fn(w, r, limit)
	}
}

// detailOnly enforces GET and extracts the trailing id from prefix.
func (h *Handler) detailOnly(prefix string, fn func(w http.ResponseWriter, r *http.Request, id string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		id := strings.TrimPrefix(r.URL.Path, prefix)
		if id == "" || strings.Contains(id, "/") {
			jsonError(w, "invalid path", http.StatusNotFound)
			return
		}
		fn(w, r, id)
	}
}

func parseLimit(r *http.Request) (int, error) {
	s := r.URL.Query().Get("limit")
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("limit must be a positive integer, got %q", s)
	}
	return v, nil
}

// ─── Collection handlers ─────────────────────────────────────────────────────

func (h *Handler) listAttractions(w http.ResponseWriter, r *http.Request, limit int) {
	jsonOK(w, h.svc.ListAttractions(r.Context(), limit))
}

func (h *Handler) getAttraction(w http.ResponseWriter, r *http.Request, id string) {
	if a := h.svc.GetAttractionByID(r.Context(), id); a != nil {
		jsonOK(w, a)
		return
	}
	jsonError(w, "attraction not found", http.StatusNotFound)
}

func (h *Handler) listFood(w http.ResponseWriter, r *http.Request, limit int) {
	jsonOK(w, h.svc.ListFood(r.Context(), limit))
}

func (h *Handler) getFood(w http.ResponseWriter, r *http.Request, id string) {
	if f := h.svc.GetFoodByID(r.Context(), id); f != nil {
		jsonOK(w, f)
		return
	}
	jsonError(w, "food item not found", http.StatusNotFound)
}

func (h *Handler) listRealEstate(w http.ResponseWriter, r *http.Request, limit int) {
	jsonOK(w, h.svc.ListRealEstate(r.Context(), limit))
}

func (h *Handler) getRealEstate(w http.ResponseWriter, r *http.Request, id string) {
	if re := h.svc.GetRealEstateByID(r.Context(), id); re != nil {
		jsonOK(w, re)
		return
	}
	jsonError(w, "property not found", http.StatusNotFound)
}

func (h *Handler) listJobs(w http.ResponseWriter, r *http.Request, limit int) {
	jsonOK(w, h.svc.ListJobs(r.Context(), limit))
}

func (h *Handler) getJob(w http.ResponseWriter, r *http.Request, id string) {
	if j := h.svc.GetJobByID(r.Context(), id); j != nil {
		jsonOK(w, j)
		return
	}
	jsonError(w, "job not found", http.StatusNotFound)
}

// handleRecommendations serves the cached composite when the refresh job has
// one, falling back to a live fan-out on miss or Redis trouble.
func (h *Handler) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.rdb != nil {
		raw, err := h.rdb.Get(r.Context(), RecommendationsCacheKey).Result()
		if err == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(raw))
			return
		}
		if err != redis.Nil {
			log.Printf("[catalog] recommendations cache read failed: %v", err)
		}
	}

	jsonOK(w, h.svc.TopRecommendations(r.Context()))
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
