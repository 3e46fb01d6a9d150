package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"talktoyou/backend/auth"
	"talktoyou/backend/database"
	"talktoyou/backend/models"
	"talktoyou/backend/utils"

	"golang.org/x/crypto/bcrypt" // 用於密碼哈希
)

// AuthHandler 處理註冊/登入/登出/驗證等認證相關請求
type AuthHandler struct {
	users     *database.UserStore
	tokens    *auth.TokenService
	blacklist *auth.Blacklist
}

func NewAuthHandler(users *database.UserStore, tokens *auth.TokenService, blacklist *auth.Blacklist) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, blacklist: blacklist}
}

// SignUp 處理使用者註冊請求
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req models.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("JSON decode error: %v", err)
		sendJSONError(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	// 基本的輸入驗證
	if req.Email == "" || req.UserName == "" || req.Password == "" {
		sendJSONError(w, "Email, userName, and password are required", http.StatusBadRequest)
		return
	}

	// 先檢查使用者名稱，如果已被未刪除的帳號使用就直接返回
	taken, err := h.users.ExistsByUserName(r.Context(), req.UserName)
	if err != nil {
		log.Printf("Error checking existing user name: %v", err)
		sendJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if taken {
		sendJSONError(w, "Username already taken", http.StatusConflict)
		return
	}

	taken, err = h.users.ExistsByEmail(r.Context(), req.Email)
	if err != nil {
		log.Printf("Error checking existing email: %v", err)
		sendJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if taken {
		sendJSONError(w, "Email already registered", http.StatusConflict)
		return
	}

	// 哈希密碼
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		sendJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	user := &models.User{
		UserName:  req.UserName,
		NickName:  req.NickName,
		Email:     req.Email,
		Password:  string(hashedPassword),
		CreatedAt: time.Now(),
	}

	userID, err := h.users.Insert(r.Context(), user)
	if err != nil {
		log.Printf("Error inserting user: %v", err)
		sendJSONError(w, "Failed to register user", http.StatusInternalServerError)
		return
	}
	user.ID = userID

	log.Printf("User registered successfully: %s", user.UserName)
	h.respondWithToken(w, user, http.StatusCreated)
}

// Login 處理使用者登入請求
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("JSON decode error: %v", err)
		sendJSONError(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		sendJSONError(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		log.Printf("Error finding user by email: %v", err)
		sendJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if user == nil {
		sendJSONError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	// 比較哈希後的密碼
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		sendJSONError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	log.Printf("User logged in successfully: %s", user.Email)
	h.respondWithToken(w, user, http.StatusOK)
}

// Logout 撤銷本次請求攜帶的 token，TTL 為其剩餘效期
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	tokenString, err := utils.GetTokenFromContext(r.Context())
	if err != nil {
		sendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	expiresAt, err := h.tokens.ExpiresAt(tokenString)
	if err != nil {
		sendJSONError(w, "Invalid or expired token", http.StatusUnauthorized)
		return
	}

	if err := h.blacklist.Revoke(r.Context(), tokenString, expiresAt); err != nil {
		sendJSONError(w, "Failed to log out", http.StatusInternalServerError)
		return
	}

	userName, _ := utils.GetUserNameFromContext(r.Context())
	log.Printf("User logged out: %s", userName)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// Validate 回報本次請求攜帶的 token 是否可用 (middleware 已經擋掉不可用的)
func (h *AuthHandler) Validate(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		writeJSON(w, http.StatusOK, models.TokenValidationResponse{Valid: false})
		return
	}
	userName, _ := utils.GetUserNameFromContext(r.Context())

	writeJSON(w, http.StatusOK, models.TokenValidationResponse{
		Valid:    true,
		UserID:   userID.Hex(),
		UserName: userName,
	})
}

// respondWithToken 簽發 token 並回傳認證資訊
func (h *AuthHandler) respondWithToken(w http.ResponseWriter, user *models.User, statusCode int) {
	tokenString, expiresAt, err := h.tokens.Issue(user.ID.Hex(), user.UserName)
	if err != nil {
		log.Printf("Error issuing token: %v", err)
		sendJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, statusCode, models.AuthResponse{
		AccessToken: tokenString,
		TokenType:   "Bearer",
		UserID:      user.ID.Hex(),
		UserName:    user.UserName,
		NickName:    user.NickName,
		Email:       user.Email,
		LoginTime:   time.Now(),
		ExpiresIn:   int64(time.Until(expiresAt).Seconds()),
		ExpiresAt:   expiresAt,
	})
}
