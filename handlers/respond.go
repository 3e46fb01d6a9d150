package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"talktoyou/backend/models"
	"talktoyou/backend/service"
)

// sendJSONError 統一發送 JSON 格式錯誤響應
func sendJSONError(w http.ResponseWriter, message string, statusCode int) {
	var errorResponse models.ErrorResponse
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	errorResponse.Message = message
	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		log.Printf("Failed to write error response: %v", err)
	}
}

// writeJSON 統一發送 JSON 格式成功響應
func writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

// sendServiceError 將業務層錯誤映射到對應的 HTTP 狀態碼
func sendServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrRoomNotFound), errors.Is(err, service.ErrUserNotFound):
		sendJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrAlreadyMember), errors.Is(err, service.ErrRoomFull):
		sendJSONError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, service.ErrNotMember):
		sendJSONError(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, service.ErrEmptyContent), errors.Is(err, service.ErrInvalidRoom):
		sendJSONError(w, err.Error(), http.StatusBadRequest)
	default:
		log.Printf("Internal error: %v", err)
		sendJSONError(w, "Internal server error", http.StatusInternalServerError)
	}
}
