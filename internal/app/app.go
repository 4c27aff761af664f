package app

import (
	"context"
	"time"

	"edunewshub/internal/config"
	"edunewshub/internal/db"
	"edunewshub/internal/docstore"
	"edunewshub/internal/filestore"
	"edunewshub/internal/handlers"
	"edunewshub/internal/repository"
	"edunewshub/internal/routes"
	"edunewshub/internal/services"

	"github.com/gorilla/mux"
)

func InitApp(cfg *config.Config) (*mux.Router, error) {
	conn, err := db.NewPostgresConnection(cfg)
	if err != nil {
		return nil, err
	}

	store := docstore.New(conn)
	if err := store.EnsureCollections(context.Background(), repository.Collections()...); err != nil {
		return nil, err
	}
	blobs := filestore.New(cfg.UploadDir, cfg.SiteURL)

	// Репозитории
	articleRepo := repository.NewArticleRepo(store, blobs)
	categoryRepo := repository.NewCategoryRepo(store, blobs)
	commentRepo := repository.NewCommentRepo(store)
	resourceRepo := repository.NewResourceRepo(store, blobs)
	newsletterRepo := repository.NewNewsletterRepo(store)
	identityRepo := repository.NewIdentityRepo(store)
	profileRepo := repository.NewProfileRepo(store)

	accessTTL, err := time.ParseDuration(cfg.AccessTokenTTL)
	if err != nil {
		accessTTL = 15 * time.Minute
	}

	// Сервисы
	articleSvc := services.NewArticleService(articleRepo, categoryRepo)
	categorySvc := services.NewCategoryService(categoryRepo)
	commentSvc := services.NewCommentService(commentRepo, articleRepo)
	resourceSvc := services.NewResourceService(resourceRepo)
	newsletterSvc := services.NewNewsletterService(newsletterRepo)
	activitySvc := services.NewActivityService(articleRepo, commentRepo, resourceRepo)
	profileSvc := services.NewProfileService(profileRepo)
	sessionSvc := services.NewSessionService(identityRepo, profileRepo, cfg.JWTSecret, accessTTL)
	sessionSvc.Start()

	// Хендлеры
	authHandler := handlers.NewAuthHandler(sessionSvc, profileSvc)
	userHandler := handlers.NewUserHandler(profileSvc)
	articleHandler := handlers.NewArticleHandler(articleSvc, commentSvc, profileRepo)
	categoryHandler := handlers.NewCategoryHandler(categorySvc)
	commentHandler := handlers.NewCommentHandler(commentSvc, profileRepo)
	resourceHandler := handlers.NewResourceHandler(resourceSvc, profileRepo)
	newsletterHandler := handlers.NewNewsletterHandler(newsletterSvc)
	searchHandler := handlers.NewSearchHandler(articleSvc, resourceSvc)
	activityHandler := handlers.NewActivityHandler(activitySvc)
	logsHandler := handlers.NewAdminLogsHandler("logs")

	// Маршруты
	router := mux.NewRouter()
	routes.InitRoutes(router,
		cfg.JWTSecret, profileRepo, cfg.UploadDir,
		authHandler, userHandler, articleHandler, categoryHandler, commentHandler,
		resourceHandler, newsletterHandler, searchHandler, activityHandler, logsHandler)

	return router, nil
}

