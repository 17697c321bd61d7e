package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/urbannest/real_estate_platform/backend/config"
	"github.com/urbannest/real_estate_platform/backend/models"
	"github.com/urbannest/real_estate_platform/backend/utils"
)

type contextKey string

const userKey = contextKey("authUser")

// UserLoader resolves a token's user id to the user document. Injected so
// tests can stub the database.
type UserLoader func(ctx context.Context, id string) (*models.User, error)

// LookupUser is the production UserLoader backed by the users collection.
func LookupUser(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := config.UserCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Auth verifies the access token, from the Authorization header or the
// accessToken cookie, and attaches the user document to the request context.
func Auth(load UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				if c, err := r.Cookie("accessToken"); err == nil {
					token = c.Value
				}
			}
			if token == "" {
				log.Printf("Missing access token on %s %s", r.Method, r.URL)
				utils.WriteError(w, utils.NewApiError(http.StatusUnauthorized, "Unauthorized request"))
				return
			}

			claims, err := utils.ValidateAccessToken(token)
			if err != nil {
				log.Printf("Invalid or expired token: %v", err)
				utils.WriteError(w, utils.NewApiError(http.StatusUnauthorized, "Invalid or expired access token"))
				return
			}

			user, err := load(r.Context(), claims.UserID)
			if err != nil {
				if err == mongo.ErrNoDocuments {
					utils.WriteError(w, utils.NewApiError(http.StatusUnauthorized, "Invalid access token"))
					return
				}
				log.Printf("Failed to load user %s: %v", claims.UserID, err)
				utils.WriteError(w, utils.NewApiError(http.StatusUnauthorized, "Invalid access token"))
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser returns the authenticated user attached by Auth, or nil.
func CurrentUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(userKey).(*models.User)
	return user
}

// WithUser attaches a user to the request context. Test hook.
func WithUser(r *http.Request, user *models.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userKey, user))
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
