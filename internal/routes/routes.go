package routes

import (
	"net/http"

	"edunewshub/internal/handlers"
	"edunewshub/internal/middleware"
	"edunewshub/internal/repository"

	"github.com/gorilla/mux"
)

func InitRoutes(
	router *mux.Router,
	jwtSecret string,
	profiles repository.ProfileRepo,
	uploadDir string,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	articleHandler *handlers.ArticleHandler,
	categoryHandler *handlers.CategoryHandler,
	commentHandler *handlers.CommentHandler,
	resourceHandler *handlers.ResourceHandler,
	newsletterHandler *handlers.NewsletterHandler,
	searchHandler *handlers.SearchHandler,
	activityHandler *handlers.ActivityHandler,
	logsHandler *handlers.AdminLogsHandler,
) {
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Logging)

	// --- Публичные маршруты ---
	router.HandleFunc("/articles", articleHandler.ListArticles).Methods("GET")
	router.HandleFunc("/articles/slug/{slug}", articleHandler.GetArticleBySlug).Methods("GET")
	router.HandleFunc("/articles/{id}", articleHandler.GetArticle).Methods("GET")
	router.HandleFunc("/articles/{id}/comments", articleHandler.ListArticleComments).Methods("GET")

	router.HandleFunc("/categories", categoryHandler.ListCategories).Methods("GET")
	router.HandleFunc("/categories/slug/{slug}", categoryHandler.GetCategoryBySlug).Methods("GET")
	router.HandleFunc("/categories/{id}", categoryHandler.GetCategory).Methods("GET")

	router.HandleFunc("/resources", resourceHandler.ListResources).Methods("GET")
	router.HandleFunc("/resources/{id}", resourceHandler.GetResource).Methods("GET")
	router.HandleFunc("/resources/{id}/download", resourceHandler.DownloadResource).Methods("GET")

	router.HandleFunc("/newsletter/subscribe", newsletterHandler.Subscribe).Methods("POST")
	router.HandleFunc("/search", searchHandler.GlobalSearch).Methods("GET")

	// отдача загруженных файлов
	router.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir))))

	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/login", authHandler.Login).Methods("POST")

	// --- Защищённые JWT ---
	protected := api.PathPrefix("").Subrouter()
	protected.Use(func(next http.Handler) http.Handler {
		return middleware.JWTAuth(jwtSecret, profiles, next)
	})

	protected.HandleFunc("/logout", authHandler.Logout).Methods("POST")
	protected.HandleFunc("/profile", authHandler.Profile).Methods("GET")
	protected.HandleFunc("/profile", authHandler.UpdateProfile).Methods("PATCH")
	protected.HandleFunc("/profile/saved/{articleId}", userHandler.ToggleSavedArticle).Methods("POST")
	protected.HandleFunc("/profile/bookmarks/{resourceId}", userHandler.ToggleBookmarkedResource).Methods("POST")

	protected.HandleFunc("/comments", commentHandler.CreateComment).Methods("POST")
	protected.HandleFunc("/comments/{id}", commentHandler.UpdateComment).Methods("PATCH")
	protected.HandleFunc("/comments/{id}", commentHandler.DeleteComment).Methods("DELETE")

	// --- Редакторские (admin или editor) ---
	editorial := protected.PathPrefix("/admin").Subrouter()
	editorial.Use(middleware.AnyRole("admin", "editor"))

	editorial.HandleFunc("/articles", articleHandler.CreateArticle).Methods("POST")
	editorial.HandleFunc("/articles/{id}", articleHandler.UpdateArticle).Methods("PATCH")
	editorial.HandleFunc("/articles/{id}", articleHandler.DeleteArticle).Methods("DELETE")
	editorial.HandleFunc("/articles/{id}/publish", articleHandler.PublishArticle).Methods(http.MethodPost, http.MethodOptions)

	editorial.HandleFunc("/resources", resourceHandler.CreateResource).Methods("POST")
	editorial.HandleFunc("/resources/{id}", resourceHandler.UpdateResource).Methods("PATCH")
	editorial.HandleFunc("/resources/{id}", resourceHandler.DeleteResource).Methods("DELETE")

	// --- Только admin ---
	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.OnlyRole("admin"))

	admin.HandleFunc("/categories", categoryHandler.CreateCategory).Methods("POST")
	admin.HandleFunc("/categories/{id}", categoryHandler.UpdateCategory).Methods("PATCH")
	admin.HandleFunc("/categories/{id}", categoryHandler.DeleteCategory).Methods("DELETE")

	admin.HandleFunc("/newsletter", newsletterHandler.ListSubscribers).Methods("GET")
	admin.HandleFunc("/newsletter/{id}/active", newsletterHandler.SetSubscriberActive).Methods("PATCH")
	admin.HandleFunc("/newsletter/{id}/categories", newsletterHandler.SetSubscriberCategories).Methods("PATCH")
	admin.HandleFunc("/newsletter/{id}", newsletterHandler.DeleteSubscriber).Methods("DELETE")

	admin.HandleFunc("/users", userHandler.ListUsers).Methods("GET")
	admin.HandleFunc("/users/{id}/role", userHandler.SetUserRole).Methods("PATCH")

	admin.HandleFunc("/activity", activityHandler.RecentActivity).Methods("GET")
	admin.HandleFunc("/logs/files", logsHandler.ListLogFiles).Methods("GET")
	admin.HandleFunc("/logs", logsHandler.GetLogs).Methods("GET")
}
