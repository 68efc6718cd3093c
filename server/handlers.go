package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/engine"
	"github.com/rushteam/shoprec/stats"
)

const statusSuccess = "success"

type errorResponse struct {
	Error  string `json:"error"`
	Status string `json:"status"`
}

type homeResponse struct {
	Message   string            `json:"message"`
	Status    string            `json:"status"`
	Endpoints map[string]string `json:"endpoints"`
}

type recommendationsResponse struct {
	UserID          int64                   `json:"user_id"`
	Recommendations []engine.Recommendation `json:"recommendations"`
	Count           int                     `json:"count"`
	Status          string                  `json:"status"`
}

type usersResponse struct {
	Users  []int64 `json:"users"`
	Count  int     `json:"count"`
	Status string  `json:"status"`
}

type statisticsResponse struct {
	stats.Summary
	Status string `json:"status"`
}

type historyResponse struct {
	UserID          int64          `json:"user_id"`
	PurchaseHistory []core.Product `json:"purchase_history"`
	TotalPurchases  int            `json:"total_purchases"`
	Status          string         `json:"status"`
}

func (s *Server) home(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, homeResponse{
		Message: "E-commerce Recommender API",
		Status:  "active",
		Endpoints: map[string]string{
			"/api/recommendations/{user_id}": "Get recommendations for user",
			"/api/users":                     "Get available users",
			"/api/statistics":                "Get system stats",
			"/api/user/{user_id}/history":    "Get user purchase history",
			"/api/reload":                    "Reload the dataset (POST)",
		},
	})
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	if !s.rec.Loaded() {
		s.writeError(w, core.ErrUninitialized)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) recommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	n := s.opts.DefaultN
	if raw := r.URL.Query().Get("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "n must be an integer", Status: "error"})
			return
		}
		n = v
	}

	recs, err := s.rec.Recommend(r.Context(), userID, n)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recommendationsResponse{
		UserID:          userID,
		Recommendations: recs,
		Count:           len(recs),
		Status:          statusSuccess,
	})
}

func (s *Server) users(w http.ResponseWriter, r *http.Request) {
	users, err := s.rec.Users(r.Context(), s.opts.UsersLimit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, usersResponse{Users: users, Count: len(users), Status: statusSuccess})
}

func (s *Server) statistics(w http.ResponseWriter, r *http.Request) {
	sum, err := s.rec.Statistics(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statisticsResponse{Summary: sum, Status: statusSuccess})
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	products, err := s.rec.PurchasedProducts(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{
		UserID:          userID,
		PurchaseHistory: products,
		TotalPurchases:  len(products),
		Status:          statusSuccess,
	})
}

func (s *Server) reload(w http.ResponseWriter, r *http.Request) {
	if err := s.rec.Reload(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": statusSuccess})
}

// userID 解析路径中的用户 ID，失败时已写入 400 响应。
func (s *Server) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "user id must be an integer", Status: "error"})
		return 0, false
	}
	return id, true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case core.IsInvalidInput(err):
		status = http.StatusBadRequest
	case core.IsUnavailable(err):
		status = http.StatusServiceUnavailable
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Status: "error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"error":"encode response","status":"error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
