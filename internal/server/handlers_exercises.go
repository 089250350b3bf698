package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/ironcoach/internal/lookup"
)

func (s *Server) handleExerciseDemo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ex := s.lookup.Demo(r.Context(), id)
	if ex == nil {
		// Catalog miss or catalog down: either way the client just
		// shows the exercise without a demo.
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "exercise not available"})
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

func (s *Server) handleExerciseSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))

	result := s.lookup.Search(r.Context(), lookup.Query{
		Text:      q.Get("q"),
		Category:  q.Get("category"),
		Sex:       q.Get("sex"),
		Equipment: q.Get("equipment"),
		Page:      page,
		Size:      size,
	})
	writeJSON(w, http.StatusOK, result)
}
