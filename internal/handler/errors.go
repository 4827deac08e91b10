package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"microfeed/internal/apperror"
)

// ErrorResponse - стандартный ответ с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// WriteError - универсальная функция для отправки ошибок
func WriteError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// writeSuccess - функция для успешных ответов
func writeSuccess(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// writeServiceError maps a service failure to its status. Internal details stay in the log.
func (h *Handlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperror.HTTPStatus(err)
	kind := apperror.KindOf(err)

	message := err.Error()
	if kind == apperror.KindInternal {
		h.Log.Error("ошибка при обработке запроса",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		message = "Внутренняя ошибка сервера"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message, Kind: string(kind)})
}
