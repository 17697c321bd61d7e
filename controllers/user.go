package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/urbannest/real_estate_platform/backend/config"
	"github.com/urbannest/real_estate_platform/backend/middleware"
	"github.com/urbannest/real_estate_platform/backend/models"
	"github.com/urbannest/real_estate_platform/backend/storage"
	"github.com/urbannest/real_estate_platform/backend/utils"
)

type registerInput struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authPayload struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

func RegisterUser(store storage.ImageStore) http.HandlerFunc {
	return utils.Handle(func(w http.ResponseWriter, r *http.Request) error {
		var in registerInput
		var avatarURL string

		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			if err := r.ParseMultipartForm(50 << 20); err != nil {
				return utils.NewApiError(http.StatusBadRequest, "Invalid form data")
			}
			in.FullName = r.FormValue("fullName")
			in.Email = r.FormValue("email")
			in.Password = r.FormValue("password")
			in.Role = r.FormValue("role")
			avatarURL = uploadFirst(r, store, "avatar")
		} else {
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				return utils.NewApiError(http.StatusBadRequest, "Invalid request payload")
			}
		}

		in.FullName = strings.TrimSpace(in.FullName)
		in.Email = strings.TrimSpace(in.Email)
		if in.FullName == "" || in.Email == "" || in.Password == "" {
			return utils.NewApiError(http.StatusBadRequest, "All fields are required")
		}
		if in.Role == "" {
			in.Role = models.RoleBuyer
		}
		if in.Role != models.RoleBuyer && in.Role != models.RoleAgent {
			return utils.NewApiError(http.StatusBadRequest, "Role must be buyer or agent")
		}

		exists := config.UserCollection.FindOne(r.Context(), bson.M{"email": in.Email})
		if exists.Err() == nil {
			return utils.NewApiError(http.StatusConflict, "User with this email already exists")
		}

		hashed, err := utils.HashPassword(in.Password)
		if err != nil {
			return err
		}

		now := time.Now()
		user := models.User{
			ID:        primitive.NewObjectID(),
			FullName:  in.FullName,
			Email:     in.Email,
			Password:  hashed,
			Avatar:    avatarURL,
			Role:      in.Role,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := config.UserCollection.InsertOne(r.Context(), user); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return utils.NewApiError(http.StatusConflict, "User with this email already exists")
			}
			return err
		}

		utils.WriteJSON(w, http.StatusCreated, user, "User registered successfully")
		return nil
	})
}

func LoginUser() http.HandlerFunc {
	return utils.Handle(func(w http.ResponseWriter, r *http.Request) error {
		var in loginInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			return utils.NewApiError(http.StatusBadRequest, "Invalid request payload")
		}
		if in.Email == "" || in.Password == "" {
			return utils.NewApiError(http.StatusBadRequest, "Email and password are required")
		}

		var user models.User
		err := config.UserCollection.FindOne(r.Context(), bson.M{"email": in.Email}).Decode(&user)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				return utils.NewApiError(http.StatusUnauthorized, "Invalid credentials")
			}
			return err
		}
		if !utils.CheckPasswordHash(in.Password, user.Password) {
			return utils.NewApiError(http.StatusUnauthorized, "Invalid credentials")
		}

		access, refresh, err := issueTokens(r, &user)
		if err != nil {
			return err
		}
		setTokenCookies(w, access, refresh)
		utils.WriteJSON(w, http.StatusOK, authPayload{User: &user, AccessToken: access, RefreshToken: refresh}, "Login successful")
		return nil
	})
}

func LogoutUser() http.HandlerFunc {
	return utils.Handle(func(w http.ResponseWriter, r *http.Request) error {
		user := middleware.CurrentUser(r)

		_, err := config.UserCollection.UpdateOne(r.Context(),
			bson.M{"_id": user.ID},
			bson.M{"$unset": bson.M{"refreshToken": 1}})
		if err != nil {
			log.Printf("Failed to clear refresh token for %s: %v", user.ID.Hex(), err)
		}

		clearTokenCookies(w)
		utils.WriteJSON(w, http.StatusOK, nil, "Logged out successfully")
		return nil
	})
}

func RefreshAccessToken() http.HandlerFunc {
	return utils.Handle(func(w http.ResponseWriter, r *http.Request) error {
		token := ""
		if c, err := r.Cookie("refreshToken"); err == nil {
			token = c.Value
		}
		if token == "" {
			var body struct {
				RefreshToken string `json:"refreshToken"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
				token = body.RefreshToken
			}
		}
		if token == "" {
			return utils.NewApiError(http.StatusUnauthorized, "Unauthorized request")
		}

		claims, err := utils.ValidateRefreshToken(token)
		if err != nil {
			return utils.NewApiError(http.StatusUnauthorized, "Invalid or expired refresh token")
		}

		objID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			return utils.NewApiError(http.StatusUnauthorized, "Invalid refresh token")
		}
		var user models.User
		if err := config.UserCollection.FindOne(r.Context(), bson.M{"_id": objID}).Decode(&user); err != nil {
			return utils.NewApiError(http.StatusUnauthorized, "Invalid refresh token")
		}
		if user.RefreshToken == "" || user.RefreshToken != token {
			return utils.NewApiError(http.StatusUnauthorized, "Refresh token is expired or already used")
		}

		access, refresh, err := issueTokens(r, &user)
		if err != nil {
			return err
		}
		setTokenCookies(w, access, refresh)
		utils.WriteJSON(w, http.StatusOK, authPayload{User: &user, AccessToken: access, RefreshToken: refresh}, "Access token refreshed")
		return nil
	})
}

func GetCurrentUser() http.HandlerFunc {
	return utils.Handle(func(w http.ResponseWriter, r *http.Request) error {
		utils.WriteJSON(w, http.StatusOK, middleware.CurrentUser(r), "Current user fetched successfully")
		return nil
	})
}

// issueTokens mints a fresh access/refresh pair and persists the rotated
// refresh token on the user document.
func issueTokens(r *http.Request, user *models.User) (string, string, error) {
	access, err := utils.GenerateAccessToken(user.ID.Hex(), user.Role)
	if err != nil {
		return "", "", err
	}
	refresh, err := utils.GenerateRefreshToken(user.ID.Hex())
	if err != nil {
		return "", "", err
	}
	_, err = config.UserCollection.UpdateOne(r.Context(),
		bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{"refreshToken": refresh, "updatedAt": time.Now()}})
	if err != nil {
		return "", "", err
	}
	user.RefreshToken = refresh
	return access, refresh, nil
}

func setTokenCookies(w http.ResponseWriter, access, refresh string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    access,
		Path:     "/",
		MaxAge:   int(utils.AccessTokenTTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refreshToken",
		Value:    refresh,
		Path:     "/",
		MaxAge:   int(utils.RefreshTokenTTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearTokenCookies(w http.ResponseWriter) {
	for _, name := range []string{"accessToken", "refreshToken"} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
