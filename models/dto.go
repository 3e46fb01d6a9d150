package models

import "time"

// SignUpRequest 結構體用於處理註冊請求
type SignUpRequest struct {
	UserName string `json:"userName"`
	NickName string `json:"nickName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest 結構體用於處理登入請求
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateRoomRequest 定義創建聊天室的請求體
type CreateRoomRequest struct {
	RoomName      string `json:"roomName"`
	MaxRoomMember int    `json:"maxRoomMember"` // 2~100
}

// SendMessageRequest 定義發送訊息的請求體
type SendMessageRequest struct {
	Content string `json:"content"`
}

// AuthResponse 登入/註冊成功後回傳的認證資訊
type AuthResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"` // 固定為 "Bearer"
	UserID      string    `json:"userId"`
	UserName    string    `json:"userName"`
	NickName    string    `json:"nickName"`
	Email       string    `json:"email"`
	LoginTime   time.Time `json:"loginTime"`
	ExpiresIn   int64     `json:"expiresIn"` // Token 到期前剩餘秒數
	ExpiresAt   time.Time `json:"expiresAt"` // Token 的絕對到期時間
}

// RoomResponse 聊天室查詢結果
type RoomResponse struct {
	RoomID            string    `json:"roomId"`
	RoomName          string    `json:"roomName"`
	MaxRoomMember     int       `json:"maxRoomMember"`
	CurrentRoomMember int       `json:"currentRoomMember"`
	CreatorID         string    `json:"creatorId"`
	CreatorName       string    `json:"creatorName"`
	CreatedAt         time.Time `json:"createdAt"`
	IsFull            bool      `json:"isFull"`
}

// MessageResponse 訊息查詢結果
type MessageResponse struct {
	MessageID string    `json:"messageId"`
	RoomID    string    `json:"roomId"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// TokenValidationResponse 回應 token 驗證結果
type TokenValidationResponse struct {
	Valid    bool   `json:"valid"`
	UserID   string `json:"userId,omitempty"`
	UserName string `json:"userName,omitempty"`
}

// ErrorResponse 結構體用於返回 JSON 格式的錯誤訊息
type ErrorResponse struct {
	Message string `json:"message"`
}
