package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventhub/internal/delivery/http/controllers"
	"eventhub/internal/delivery/http/middleware"
)

// Controllers bundles everything the router mounts.
type Controllers struct {
	Events        *controllers.EventsController
	Participation *controllers.ParticipationController
	Reviews       *controllers.ReviewController
	Session       *controllers.SessionController
	Social        *controllers.SocialController
	Notifications *controllers.NotificationController
}

// NewRouter initializes the HTTP router with all application routes.
// Identity is resolved for every route by outer middleware; RequireAuth
// guards only the mutating, caller-scoped ones.
func NewRouter(c Controllers) *http.ServeMux {
	mux := http.NewServeMux()

	// Public directory
	mux.HandleFunc("GET /events", c.Events.List)
	mux.HandleFunc("GET /events/{eventID}", c.Events.Get)

	// Participation
	mux.HandleFunc("POST /events/{eventID}/join", middleware.RequireAuth(c.Participation.Join))
	mux.HandleFunc("POST /events/{eventID}/leave", middleware.RequireAuth(c.Participation.Leave))

	// Reviews
	mux.HandleFunc("POST /events/{eventID}/reviews", middleware.RequireAuth(c.Reviews.Submit))

	// Session shell
	mux.HandleFunc("GET /me", c.Session.Me)
	mux.HandleFunc("GET /me/capabilities", c.Session.Capabilities)

	// Follow graph
	mux.HandleFunc("POST /users/{userID}/follow", middleware.RequireAuth(c.Social.Follow))
	mux.HandleFunc("DELETE /users/{userID}/follow", middleware.RequireAuth(c.Social.Unfollow))
	mux.HandleFunc("GET /users/{userID}/followers", c.Social.Followers)
	mux.HandleFunc("GET /users/{userID}/following", c.Social.Following)

	// Notifications
	mux.HandleFunc("GET /notifications", middleware.RequireAuth(c.Notifications.List))
	mux.HandleFunc("POST /notifications/{notificationID}/read", middleware.RequireAuth(c.Notifications.MarkRead))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
