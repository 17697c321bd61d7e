package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"github.com/urbannest/real_estate_platform/backend/config"
	"github.com/urbannest/real_estate_platform/backend/controllers"
	"github.com/urbannest/real_estate_platform/backend/middleware"
	"github.com/urbannest/real_estate_platform/backend/storage"
)

func Routes(router *mux.Router, redisClient *redis.Client, store storage.ImageStore) {
	auth := middleware.Auth(middleware.LookupUser)
	protected := func(h http.HandlerFunc) http.Handler { return auth(h) }

	api := router.PathPrefix("/api/v1").Subrouter()

	// User routes
	users := api.PathPrefix("/users").Subrouter()
	users.Handle("/register", controllers.RegisterUser(store)).Methods("POST")
	users.Handle("/login", controllers.LoginUser()).Methods("POST")
	users.Handle("/refresh-token", controllers.RefreshAccessToken()).Methods("POST")
	users.Handle("/logout", protected(controllers.LogoutUser())).Methods("POST")
	users.Handle("/current-user", protected(controllers.GetCurrentUser())).Methods("GET")

	// Property routes
	properties := api.PathPrefix("/properties").Subrouter()
	properties.Handle("", controllers.GetAllProperties(redisClient, config.PropertyCollection)).Methods("GET")
	properties.Handle("", protected(controllers.CreateProperty(redisClient, config.PropertyCollection, store))).Methods("POST")
	properties.Handle("/agent-properties", protected(controllers.GetAgentProperties(config.PropertyCollection))).Methods("GET")
	properties.Handle("/{id}", controllers.GetPropertyByID(config.PropertyCollection)).Methods("GET")
	properties.Handle("/{id}", protected(controllers.UpdateProperty(redisClient, config.PropertyCollection))).Methods("PATCH")
	properties.Handle("/{id}", protected(controllers.DeleteProperty(redisClient, config.PropertyCollection))).Methods("DELETE")

	// Interior routes
	interiors := api.PathPrefix("/interiors").Subrouter()
	interiors.Handle("", controllers.GetAllInteriors(redisClient, config.InteriorCollection)).Methods("GET")
	interiors.Handle("", protected(controllers.CreateInterior(redisClient, config.InteriorCollection, store))).Methods("POST")
	interiors.Handle("/agent-interiors", protected(controllers.GetAgentInteriors(config.InteriorCollection))).Methods("GET")
	interiors.Handle("/{id}", controllers.GetInteriorByID(config.InteriorCollection)).Methods("GET")
	interiors.Handle("/{id}", protected(controllers.UpdateInterior(redisClient, config.InteriorCollection))).Methods("PATCH")
	interiors.Handle("/{id}", protected(controllers.DeleteInterior(redisClient, config.InteriorCollection))).Methods("DELETE")

	// Wishlist routes, all authenticated
	wishlist := api.PathPrefix("/wishlist").Subrouter()
	wishlist.Handle("", protected(controllers.GetUserWishlist(config.WishlistCollection))).Methods("GET")
	wishlist.Handle("", protected(controllers.AddToWishlist(config.WishlistCollection))).Methods("POST")
	wishlist.Handle("/{propertyId}", protected(controllers.RemoveFromWishlist(config.WishlistCollection))).Methods("DELETE")
}
