package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"shareit/internal/service"
)

const userIDHeader = "X-Sharer-User-Id"

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// respondError переводит ошибки сервисного слоя в HTTP-статусы.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	switch {
	case service.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	case service.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// callerID читает идентификатор пользователя из заголовка X-Sharer-User-Id.
// Пишет 400 и возвращает false, если заголовок отсутствует или не число.
func callerID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.Header.Get(userIDHeader)
	if raw == "" {
		writeError(w, http.StatusBadRequest, "X-Sharer-User-Id header is required")
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid X-Sharer-User-Id header")
		return 0, false
	}
	return id, true
}

// pathID читает числовой сегмент пути.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name+" path parameter")
		return 0, false
	}
	return id, true
}

// queryInt читает необязательный числовой параметр запроса.
func queryInt(w http.ResponseWriter, r *http.Request, name string) (*int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name+" query parameter")
		return nil, false
	}
	return &value, true
}

// pageParams читает пару from/size.
func pageParams(w http.ResponseWriter, r *http.Request) (from, size *int, ok bool) {
	if from, ok = queryInt(w, r, "from"); !ok {
		return nil, nil, false
	}
	if size, ok = queryInt(w, r, "size"); !ok {
		return nil, nil, false
	}
	return from, size, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
