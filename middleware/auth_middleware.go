package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"talktoyou/backend/auth"
	"talktoyou/backend/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JWTMiddleware 驗證 Bearer token 並將使用者身分放入 context。
// 這裡走 IsUsable：簽名與效期通過之外，token 也不能在撤銷名單裡
func JWTMiddleware(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			// Authorization: Bearer <token>
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				http.Error(w, "Invalid Authorization header format", http.StatusUnauthorized)
				return
			}
			tokenString := parts[1]

			if !tokens.IsUsable(r.Context(), tokenString) {
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.Verify(tokenString)
			if err != nil {
				log.Printf("Invalid JWT token: %v", err)
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			userID, err := primitive.ObjectIDFromHex(claims.Subject)
			if err != nil {
				http.Error(w, "Invalid user ID in token", http.StatusUnauthorized)
				return
			}

			// 將使用者身分與原始 token 存進請求的 context
			ctx := context.WithValue(r.Context(), utils.UserIDKey, userID)
			ctx = context.WithValue(ctx, utils.UserNameKey, claims.UserName)
			ctx = context.WithValue(ctx, utils.TokenKey, tokenString)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
