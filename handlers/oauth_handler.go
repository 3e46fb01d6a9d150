package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"talktoyou/backend/auth"
	"talktoyou/backend/config"
	"talktoyou/backend/database"
	"talktoyou/backend/models"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// OAuthHandler 處理 Google OAuth 登入：
// 交換授權碼、抓取使用者資料、必要時建立帳號，最後簽發自己的 token
type OAuthHandler struct {
	oauthConfig *oauth2.Config
	users       *database.UserStore
	tokens      *auth.TokenService
}

func NewOAuthHandler(cfg *config.Config, users *database.UserStore, tokens *auth.TokenService) *OAuthHandler {
	return &OAuthHandler{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     endpoints.Google,
		},
		users:  users,
		tokens: tokens,
	}
}

// googleUserInfo 是 Google userinfo API 回傳的欄位
type googleUserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Login 將使用者導向 Google 的授權頁面
func (h *OAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	url := h.oauthConfig.AuthCodeURL("state", oauth2.AccessTypeOnline)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// Callback 處理 Google 的授權回呼
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		sendJSONError(w, "Authorization code is required", http.StatusBadRequest)
		return
	}

	token, err := h.oauthConfig.Exchange(r.Context(), code)
	if err != nil {
		log.Printf("OAuth code exchange failed: %v", err)
		sendJSONError(w, "Failed to exchange authorization code", http.StatusUnauthorized)
		return
	}

	client := h.oauthConfig.Client(r.Context(), token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		log.Printf("Failed to fetch user info: %v", err)
		sendJSONError(w, "Failed to fetch user info", http.StatusInternalServerError)
		return
	}
	defer resp.Body.Close()

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		log.Printf("Failed to decode user info: %v", err)
		sendJSONError(w, "Failed to decode user info", http.StatusInternalServerError)
		return
	}

	// 依 Email 找既有帳號，沒有就建立一個
	user, err := h.users.FindByEmail(r.Context(), info.Email)
	if err != nil {
		log.Printf("Error finding user by email: %v", err)
		sendJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if user == nil {
		user = &models.User{
			UserName:  info.Email, // Google 帳號以 Email 作為登入名稱
			NickName:  info.Name,
			Email:     info.Email,
			CreatedAt: time.Now(),
		}
		userID, err := h.users.Insert(r.Context(), user)
		if err != nil {
			log.Printf("Error inserting OAuth user: %v", err)
			sendJSONError(w, "Failed to register user", http.StatusInternalServerError)
			return
		}
		user.ID = userID
		log.Printf("New user registered via Google OAuth: %s", user.Email)
	}

	tokenString, expiresAt, err := h.tokens.Issue(user.ID.Hex(), user.UserName)
	if err != nil {
		log.Printf("Error issuing token: %v", err)
		sendJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, models.AuthResponse{
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
