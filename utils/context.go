package utils

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// contextKey 是儲存在 context 中的鍵的型別
type contextKey string

const (
	// UserIDKey 是儲存在 context 中的使用者 ID 的鍵
	UserIDKey contextKey = "userID"
	// UserNameKey 是儲存在 context 中的使用者名稱的鍵
	UserNameKey contextKey = "userName"
	// TokenKey 是儲存在 context 中的原始 token 字串的鍵，登出時要用
	TokenKey contextKey = "token"
)

// GetUserIDFromContext 從 context 中提取使用者 ID
func GetUserIDFromContext(ctx context.Context) (primitive.ObjectID, error) {
	userID, ok := ctx.Value(UserIDKey).(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("user ID not found in context")
	}
	return userID, nil
}

// GetUserNameFromContext 從 context 中提取使用者名稱
func GetUserNameFromContext(ctx context.Context) (string, error) {
	userName, ok := ctx.Value(UserNameKey).(string)
	if !ok {
		return "", errors.New("user name not found in context")
	}
	return userName, nil
}

// GetTokenFromContext 從 context 中提取原始 token 字串
func GetTokenFromContext(ctx context.Context) (string, error) {
	token, ok := ctx.Value(TokenKey).(string)
	if !ok {
		return "", errors.New("token not found in context")
	}
	return token, nil
}
