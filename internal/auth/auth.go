package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/playasoft/camp-registration-api/internal/config"
	"github.com/playasoft/camp-registration-api/internal/models"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

const (
	DiscordAuthorizeEndpoint = "https://discord.com/api/oauth2/authorize"
	DiscordTokenEndpoint     = "https://discord.com/api/oauth2/token"
	DiscordUserAPI           = "https://discord.com/api/users/@me"
	DiscordUserGuildsAPI     = "https://discord.com/api/users/@me/guilds"
)

const TokenDuration = 24 * time.Hour

type AuthHandler struct {
	oauthConfig *oauth2.Config
	db          *gorm.DB
	cfg         *config.Config
	discord     *discordgo.Session
}

func NewAuthHandler(cfg *config.Config, db *gorm.DB, discord *discordgo.Session) *AuthHandler {
	return &AuthHandler{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.DiscordClientID,
			ClientSecret: cfg.DiscordClientSecret,
			RedirectURL:  cfg.DiscordRedirectURL,
			Scopes:       []string{"identify", "email", "guilds"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  DiscordAuthorizeEndpoint,
				TokenURL: DiscordTokenEndpoint,
			},
		},
		db:      db,
		cfg:     cfg,
		discord: discord,
	}
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	url := h.oauthConfig.AuthCodeURL("state", oauth2.AccessTypeOnline)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (h *AuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "Code not found", http.StatusBadRequest)
		return
	}

	token, err := h.oauthConfig.Exchange(context.Background(), code)
	if err != nil {
		http.Error(w, "Failed to exchange token", http.StatusInternalServerError)
		return
	}

	client := h.oauthConfig.Client(context.Background(), token)

	// Check Guild Membership
	if h.cfg.DiscordGuildID != "" {
		guildsResp, err := client.Get(DiscordUserGuildsAPI)
		if err != nil {
			http.Error(w, "Failed to get user guilds", http.StatusInternalServerError)
			return
		}
		defer guildsResp.Body.Close()

		var guilds []struct {
			ID string `json:"id"`
		}
		if err := json.NewDecoder(guildsResp.Body).Decode(&guilds); err != nil {
			http.Error(w, "Failed to decode user guilds", http.StatusInternalServerError)
			return
		}

		isMember := false
		for _, g := range guilds {
			if g.ID == h.cfg.DiscordGuildID {
				isMember = true
				break
			}
		}

		if !isMember {
			http.Error(w, "Access denied: You are not a member of the required guild.", http.StatusForbidden)
			return
		}
	}

	// Get User Info
	resp, err := client.Get(DiscordUserAPI)
	if err != nil {
		http.Error(w, "Failed to get user info", http.StatusInternalServerError)
		return
	}
	defer resp.Body.Close()

	var discordUser struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Avatar   string `json:"avatar"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&discordUser); err != nil {
		http.Error(w, "Failed to decode user info", http.StatusInternalServerError)
		return
	}

	var user models.User
	if err := h.db.FirstOrInit(&user, models.User{DiscordID: discordUser.ID}).Error; err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	user.Username = discordUser.Username
	user.Email = discordUser.Email
	user.Avatar = discordUser.Avatar
	if user.Role == "" {
		user.Role = models.RoleParticipant
	}

	// Members holding the configured staff role register as staff. Admins
	// are promoted by hand and never demoted here.
	if user.Role != models.RoleAdmin && h.cfg.DiscordStaffRoleID != "" {
		hasRole, err := h.CheckRole(discordUser.ID, h.cfg.DiscordStaffRoleID)
		if err == nil {
			if hasRole {
				user.Role = models.RoleStaff
			} else {
				user.Role = models.RoleParticipant
			}
		}
	}

	if err := h.db.Save(&user).Error; err != nil {
		http.Error(w, "Failed to save user", http.StatusInternalServerError)
		return
	}

	jwtToken, err := h.GenerateToken(user.ID)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    jwtToken,
		Expires:  time.Now().Add(TokenDuration),
		HttpOnly: true,
		Path:     "/",
	})

	http.Redirect(w, r, h.cfg.FrontendURL, http.StatusTemporaryRedirect)
}

// CheckRole reports whether the guild member holds the given role id.
func (h *AuthHandler) CheckRole(discordID, roleID string) (bool, error) {
	if h.discord == nil {
		return false, fmt.Errorf("discord session not configured")
	}
	member, err := h.discord.GuildMember(h.cfg.DiscordGuildID, discordID)
	if err != nil {
		return false, err
	}
	for _, r := range member.Roles {
		if r == roleID {
			return true, nil
		}
	}
	return false, nil
}

func (h *AuthHandler) GenerateToken(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(TokenDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}

// AuthInput is embedded in huma request structs for cookie-authenticated
// operations.
type AuthInput struct {
	Cookie string `header:"Cookie" doc:"Session cookie"`
}

// Authorize extracts and verifies the auth token from a raw Cookie
// header, returning the authenticated user id.
func (h *AuthHandler) Authorize(ctx context.Context, cookieHeader string) (uint, error) {
	tokenString := cookieValue(cookieHeader, "auth_token")
	if tokenString == "" {
		return 0, huma.Error401Unauthorized("Unauthorized: No token found")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(h.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, huma.Error401Unauthorized("Unauthorized: Invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, huma.Error401Unauthorized("Unauthorized: Invalid token claims")
	}
	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return 0, huma.Error401Unauthorized("Unauthorized: Invalid token claims")
	}
	return uint(userIDFloat), nil
}

// AuthorizeAPIKey verifies a machine client's API key and returns the
// id of the user who owns it.
func (h *AuthHandler) AuthorizeAPIKey(ctx context.Context, apiKey string) (uint, error) {
	var keyModel models.APIKey
	if err := h.db.Where("key = ?", apiKey).First(&keyModel).Error; err != nil {
		return 0, huma.Error401Unauthorized("Unauthorized: Invalid API key")
	}
	if keyModel.ExpiresAt != nil && time.Now().After(*keyModel.ExpiresAt) {
		return 0, huma.Error401Unauthorized("Unauthorized: API Key expired")
	}
	h.db.Model(&keyModel).Update("last_used_at", time.Now())
	return keyModel.UserID, nil
}

// CurrentUser loads the authenticated user record.
func (h *AuthHandler) CurrentUser(ctx context.Context, cookieHeader string) (*models.User, error) {
	userID, err := h.Authorize(ctx, cookieHeader)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		return nil, huma.Error404NotFound("User not found")
	}
	return &user, nil
}

func cookieValue(header, name string) string {
	req := http.Request{Header: http.Header{"Cookie": {header}}}
	cookie, err := req.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

type MeRequest struct {
	AuthInput
}

type MeResponse struct {
	Body struct {
		ID                  uint   `json:"id"`
		Username            string `json:"username"`
		Email               string `json:"email"`
		Avatar              string `json:"avatar"`
		Role                string `json:"role"`
		FirstName           string `json:"first_name"`
		LastName            string `json:"last_name"`
		Phone               string `json:"phone"`
		EmergencyContact    string `json:"emergency_contact"`
		DeferredDuesAllowed bool   `json:"deferred_dues_allowed"`
	}
}

func (h *AuthHandler) HandleMe(ctx context.Context, input *MeRequest) (*MeResponse, error) {
	user, err := h.CurrentUser(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	res := &MeResponse{}
	res.Body.ID = user.ID
	res.Body.Username = user.Username
	res.Body.Email = user.Email
	res.Body.Avatar = user.Avatar
	res.Body.Role = user.Role
	res.Body.FirstName = user.FirstName
	res.Body.LastName = user.LastName
	res.Body.Phone = user.Phone
	res.Body.EmergencyContact = user.EmergencyContact
	res.Body.DeferredDuesAllowed = user.DeferredDuesAllowed
	return res, nil
}

type UpdateProfileRequest struct {
	AuthInput
	Body struct {
		FirstName        string `json:"first_name" doc:"Legal first name" required:"true"`
		LastName         string `json:"last_name" doc:"Legal last name" required:"true"`
		Phone            string `json:"phone" doc:"Contact phone number" required:"true"`
		EmergencyContact string `json:"emergency_contact" doc:"Emergency contact name and phone" required:"true"`
	}
}

type UpdateProfileResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

// HandleUpdateProfile stores the profile details the registration flow
// validates before the camping-options step.
func (h *AuthHandler) HandleUpdateProfile(ctx context.Context, input *UpdateProfileRequest) (*UpdateProfileResponse, error) {
	user, err := h.CurrentUser(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	user.FirstName = input.Body.FirstName
	user.LastName = input.Body.LastName
	user.Phone = input.Body.Phone
	user.EmergencyContact = input.Body.EmergencyContact

	if err := h.db.Save(user).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to save profile")
	}

	res := &UpdateProfileResponse{}
	res.Body.Message = "Profile updated"
	return res, nil
}
