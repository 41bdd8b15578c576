// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	authapifeature "github.com/dalemusser/agorahub/internal/app/features/authapi"
	communitiesfeature "github.com/dalemusser/agorahub/internal/app/features/communities"
	discussionsfeature "github.com/dalemusser/agorahub/internal/app/features/discussions"
	healthfeature "github.com/dalemusser/agorahub/internal/app/features/health"
	profilefeature "github.com/dalemusser/agorahub/internal/app/features/profile"
	repliesfeature "github.com/dalemusser/agorahub/internal/app/features/replies"
	searchfeature "github.com/dalemusser/agorahub/internal/app/features/search"
	topicsfeature "github.com/dalemusser/agorahub/internal/app/features/topics"
	"github.com/dalemusser/agorahub/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup
// and Startup have completed. It creates the session manager and the
// avatar storage backend, then mounts the JSON API under /api plus the
// health endpoint and the static file route for stored avatars.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	avatarStore, err := storage.NewLocal(storage.LocalConfig{
		BasePath: appCfg.StorageLocalPath,
		BaseURL:  appCfg.StorageLocalURL,
	})
	if err != nil {
		logger.Error("avatar storage init failed", zap.Error(err))
		return nil, err
	}

	db := deps.MongoDatabase

	r := chi.NewRouter()

	// Loads the SessionUser into context when signed in, making
	// auth.CurrentUser(r) work everywhere.
	r.Use(sessionMgr.LoadSessionUser)

	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Uploaded avatars are served straight off disk.
	r.Handle(appCfg.StorageLocalURL+"/*", fileserver.Handler(appCfg.StorageLocalURL, appCfg.StorageLocalPath))

	r.Route("/api", func(r chi.Router) {
		authHandler := authapifeature.NewHandler(db, sessionMgr, logger)
		r.Mount("/auth", authapifeature.Routes(authHandler))

		profileHandler := profilefeature.NewHandler(db, avatarStore, appCfg.StorageLocalURL, logger)
		r.Mount("/me", profilefeature.Routes(profileHandler, sessionMgr))

		communitiesHandler := communitiesfeature.NewHandler(db, logger)
		r.Mount("/communities", communitiesfeature.Routes(communitiesHandler, sessionMgr))

		discussionsHandler := discussionsfeature.NewHandler(db, logger)
		r.Mount("/communities/{slug}/discussions", discussionsfeature.Routes(discussionsHandler, sessionMgr))

		repliesHandler := repliesfeature.NewHandler(db, logger)
		r.Mount("/discussions/{id}/replies", repliesfeature.DiscussionRoutes(repliesHandler, sessionMgr))
		r.Mount("/replies", repliesfeature.Routes(repliesHandler, sessionMgr))

		topicsHandler := topicsfeature.NewHandler(db, logger)
		r.Mount("/topics", topicsfeature.Routes(topicsHandler))

		searchHandler := searchfeature.NewHandler(db, logger)
		r.Mount("/search", searchfeature.Routes(searchHandler))
	})

	return r, nil
}
