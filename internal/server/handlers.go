package server

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
)

func (s *Server) sanitize(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	if !values.Has("word") {
		respondWithError(w, r, http.StatusBadRequest, "Required parameter 'word' is not present")
		return
	}

	out, err := s.sanitizer.Sanitize(r.Context(), values.Get("word"))
	if err != nil {
		respondWithFailure(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, out)
}

func (s *Server) listWords(w http.ResponseWriter, r *http.Request) {
	words, err := s.store.List(r.Context())
	if err != nil {
		respondWithFailure(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, words)
}

// addWord answers 201 with the created entity, or 201 with null when the word was
// already stored.
func (s *Server) addWord(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeWordRequest(w, r)
	if !ok {
		return
	}

	created, err := s.store.Add(r.Context(), req.Word)
	if err != nil {
		respondWithFailure(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

func (s *Server) updateWord(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeWordRequest(w, r)
	if !ok {
		return
	}

	updated, err := s.store.Update(r.Context(), pathWord(r), req.Word)
	if err != nil {
		respondWithFailure(w, r, err)
		return
	}
	if updated == nil {
		respondWithError(w, r, http.StatusNotFound, "Word not found")
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteWord(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.store.Delete(r.Context(), pathWord(r))
	if err != nil {
		respondWithFailure(w, r, err)
		return
	}
	if !deleted {
		respondWithError(w, r, http.StatusNotFound, "Word not found")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		respondWithFailure(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// pathWord returns the {word} segment decoded. chi routes on the raw path when the
// request carries escapes that Path cannot represent.
func pathWord(r *http.Request) string {
	word := chi.URLParam(r, "word")
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(word); err == nil {
			word = unescaped
		}
	}
	return word
}
