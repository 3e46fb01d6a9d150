package service

import "errors"

// 業務層通用錯誤，handler 依錯誤類型映射到對應的 HTTP 狀態碼
var (
	ErrRoomNotFound  = errors.New("chat room not found")
	ErrUserNotFound  = errors.New("user not found")
	ErrAlreadyMember = errors.New("already a member of this room")
	ErrRoomFull      = errors.New("chat room is full")
	ErrNotMember     = errors.New("not a member of this room")
	ErrEmptyContent  = errors.New("message content is empty")
	ErrInvalidRoom   = errors.New("invalid room parameters")
)
