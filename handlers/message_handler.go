package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"talktoyou/backend/models"
	"talktoyou/backend/service"
	"talktoyou/backend/utils"
)

// MessageHandler 處理訊息發送與歷史查詢的 REST 請求
type MessageHandler struct {
	messages *service.MessageService
}

func NewMessageHandler(messages *service.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// Send 處理發送訊息的請求
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	roomID, ok := roomIDFromRequest(w, r)
	if !ok {
		return
	}

	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		sendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("JSON decode error: %v", err)
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	message, err := h.messages.SaveChat(r.Context(), roomID, userID, req.Content)
	if err != nil {
		sendServiceError(w, err)
		return
	}

	userName, _ := utils.GetUserNameFromContext(r.Context())
	writeJSON(w, http.StatusCreated, models.MessageResponse{
		MessageID: message.ID.Hex(),
		RoomID:    message.RoomID.Hex(),
		UserID:    message.UserID.Hex(),
		UserName:  userName,
		Content:   message.Content,
		CreatedAt: message.CreatedAt,
	})
}

// History 處理獲取聊天室最近訊息的請求，由舊到新排序
func (h *MessageHandler) History(w http.ResponseWriter, r *http.Request) {
	roomID, ok := roomIDFromRequest(w, r)
	if !ok {
		return
	}

	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		sendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	messages, err := h.messages.RecentHistory(r.Context(), roomID, userID)
	if err != nil {
		sendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messages)
}
