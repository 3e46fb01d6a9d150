package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"talktoyou/backend/models"
	"talktoyou/backend/service"
	"talktoyou/backend/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoomHandler 處理聊天室的建立/列表/加入/退出請求，
// 所有狀態變化都交給 RoomService，這裡只做解碼與狀態碼映射
type RoomHandler struct {
	rooms *service.RoomService
}

func NewRoomHandler(rooms *service.RoomService) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

// Create 處理創建聊天室的請求，建立者自動成為第一位成員
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("JSON decode error: %v", err)
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	creatorID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		sendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	room, err := h.rooms.Create(r.Context(), req.RoomName, req.MaxRoomMember, creatorID)
	if err != nil {
		sendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, room)
}

// List 處理獲取所有聊天室的請求
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.rooms.List(r.Context())
	if err != nil {
		sendServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

// Join 處理加入聊天室的請求
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	roomID, ok := roomIDFromRequest(w, r)
	if !ok {
		return
	}

	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		sendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	room, err := h.rooms.Join(r.Context(), roomID, userID)
	if err != nil {
		sendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, room)
}

// Leave 處理退出聊天室的請求
func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	roomID, ok := roomIDFromRequest(w, r)
	if !ok {
		return
	}

	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		sendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.rooms.Leave(r.Context(), roomID, userID); err != nil {
		sendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// roomIDFromRequest 從 URL 路徑中解析聊天室 ID，格式錯誤時直接回應
func roomIDFromRequest(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	vars := mux.Vars(r)
	roomIDStr := vars["roomId"]
	if roomIDStr == "" {
		sendJSONError(w, "Room ID is required", http.StatusBadRequest)
		return primitive.NilObjectID, false
	}

	roomID, err := primitive.ObjectIDFromHex(roomIDStr)
	if err != nil {
		sendJSONError(w, "Invalid room ID format", http.StatusBadRequest)
		return primitive.NilObjectID, false
	}
	return roomID, true
}
