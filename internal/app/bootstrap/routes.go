// internal/app/bootstrap/routes.go
package bootstrap

import (
	"fmt"
	"net/http"
	"time"

	appcomments "github.com/dalemusser/parishhub/internal/app/comments"
	appfeed "github.com/dalemusser/parishhub/internal/app/feed"
	commentsfeature "github.com/dalemusser/parishhub/internal/app/features/comments"
	feedfeature "github.com/dalemusser/parishhub/internal/app/features/feed"
	healthfeature "github.com/dalemusser/parishhub/internal/app/features/health"
	postsfeature "github.com/dalemusser/parishhub/internal/app/features/posts"
	statsfeature "github.com/dalemusser/parishhub/internal/app/features/stats"
	"github.com/dalemusser/parishhub/internal/app/media"
	apposts "github.com/dalemusser/parishhub/internal/app/posts"
	appstats "github.com/dalemusser/parishhub/internal/app/stats"
	statsstore "github.com/dalemusser/parishhub/internal/app/store/stats"
	userstore "github.com/dalemusser/parishhub/internal/app/store/users"
	"github.com/dalemusser/parishhub/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this
// WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and the Startup hook have completed, so the notification engine
// built in Startup is available here. The router mounts the feed,
// post, comment, stats, and health features with the identity
// middleware applied globally.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.ParishHubMongoDatabase
	if notifyEngine == nil {
		return nil, fmt.Errorf("notification engine not initialized; Startup must run first")
	}

	loc, err := time.LoadLocation(appCfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("load time zone: %w", err)
	}

	var resolver media.PlaybackResolver
	if appCfg.MuxTokenID != "" {
		resolver = media.NewMuxResolver(appCfg.MuxTokenID, appCfg.MuxTokenSecret)
	}

	assembler := appfeed.New(db, logger)
	postService := apposts.New(db, resolver, notifyEngine, logger)
	commentService := appcomments.New(db, assembler, notifyEngine, logger)
	aggregator := appstats.New(db, nil, loc, logger)

	r := chi.NewRouter()

	// Global identity middleware: trusts the fronting gateway's identity
	// headers and keeps last_seen_at fresh for the active-user rollup.
	r.Use(auth.LoadIdentity(userstore.New(db), logger))

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.ParishHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	feedHandler := feedfeature.NewHandler(assembler, userstore.New(db), logger)
	r.Mount("/feed", feedfeature.Routes(feedHandler))

	postsHandler := postsfeature.NewHandler(postService, assembler, logger)
	commentsHandler := commentsfeature.NewHandler(commentService, logger)
	r.Route("/posts", func(r chi.Router) {
		postsHandler.MountRoutes(r)
		r.Route("/{postID}/comments", func(r chi.Router) {
			commentsHandler.MountRoutes(r)
		})
	})

	statsHandler := statsfeature.NewHandler(aggregator, statsstore.New(db), logger)
	r.Mount("/stats", statsfeature.Routes(statsHandler))

	return r, nil
}
