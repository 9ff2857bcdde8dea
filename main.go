package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/devmetrics/langstats/config"
	"github.com/devmetrics/langstats/controller"
	"github.com/devmetrics/langstats/logger"
	"github.com/devmetrics/langstats/model"
	"github.com/devmetrics/langstats/report"
	"github.com/devmetrics/langstats/service"
	"github.com/devmetrics/langstats/stats"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/go-github/v66/github"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("unable to load configuration")
	}

	// configure logger
	logger.Setup(*cfg)

	// usernames are the positional arguments
	usernames := os.Args[1:]

	if len(usernames) == 0 {
		log.Fatal("usage: langstats <username> [username ...]")
	}

	// setup github client
	// we do here and pass the client to Github service to easily improve tests with mock client
	githubClient := github.NewClient(nil)

	if cfg.Github.Token != "" {
		log.Debug("will setup github client with authorization token")
		githubClient = githubClient.WithAuthToken(cfg.Github.Token)
	}

	// setup local rate limiter
	// execute first request to github to fetch current rate limits
	log.Debug("loading current rate limit from github")
	rateLimiter := setupRateLimiter(githubClient)

	githubService := service.NewGithubService(*cfg, githubClient, rateLimiter)

	// run the whole pipeline and persist the four artifacts
	reports := buildReports(context.Background(), githubService, usernames)

	writer := report.NewWriter(cfg.Output.Directory)

	if err := writer.WriteAll(reports.ByName, reports.Total, reports.PercentByName, reports.Weighted); err != nil {
		log.WithError(err).Fatal("unable to write report files")
	}

	log.WithField("directory", cfg.Output.Directory).Info("all report files written")

	if !cfg.API.Enabled {
		return
	}

	serveReports(*cfg, reports)
}

// setupRateLimiter seeds a local limiter from the current github rate limits
// consume X tokens according to the number of remaining tokens
// this help us to have a right rate limiter even if external requests are made
// when the limits cannot be fetched, fall back to the unauthenticated core limit
func setupRateLimiter(githubClient *github.Client) *rate.Limiter {
	rateLimits, _, err := githubClient.RateLimit.Get(context.Background())

	if err != nil {
		log.WithError(err).Warning("unable to load current github rate limits. will use the unauthenticated default")
		return rate.NewLimiter(rate.Every(time.Hour), 60)
	}

	log.WithFields(log.Fields{
		"totalAvailable":    rateLimits.Core.Limit,
		"remainingRequests": rateLimits.Core.Remaining,
	}).Debug("will setup local rate limiter with rate limits infos from github")

	rateLimiter := rate.NewLimiter(rate.Every(time.Hour), rateLimits.Core.Limit)

	if !rateLimiter.AllowN(time.Now(), rateLimits.Core.Limit-rateLimits.Core.Remaining) {
		log.Warning("unable to configure the github rate limiter with the remaining requests")
	}

	return rateLimiter
}

// buildReports runs collection, aggregation, percentage and weighting stages in order
func buildReports(ctx context.Context, githubService service.GithubService, usernames []string) controller.Reports {
	byName := githubService.CollectLanguagesForUsers(ctx, usernames)

	languageMaps := make([]model.LanguageMap, 0, len(byName))
	for _, user := range byName {
		languageMaps = append(languageMaps, user.Langs)
	}

	percents := make([]model.UserPercent, 0, len(byName))
	for _, user := range byName {
		percents = append(percents, stats.Percentages(user))
	}

	return controller.Reports{
		ByName:        byName,
		Total:         stats.Merge(languageMaps...),
		PercentByName: percents,
		Weighted:      stats.WeightedScores(percents),
	}
}

// serveReports exposes the computed artifacts over a read-only HTTP API
// until the process receives SIGINT or SIGTERM
func serveReports(cfg config.Config, reports controller.Reports) {
	apiController := controller.NewAPIController(cfg, reports)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	server := &http.Server{
		Addr:    ":" + cfg.API.ListenPort,
		Handler: router,
	}

	router.Use(
		cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET"},
			AllowHeaders: []string{"Content-Type, Content-Length, Accept-Encoding, Host, accept, Origin, Cache-Control, X-Requested-With"},
			MaxAge:       12 * time.Hour,
		}),
	)

	api := router.Group("/reports")
	{
		api.GET("/by_name", apiController.GetByName)
		api.GET("/total", apiController.GetTotal)
		api.GET("/percent_by_name", apiController.GetPercentByName)
		api.GET("/weighted", apiController.GetWeighted)
	}

	go func() {
		log.Info("server listening on port " + cfg.API.ListenPort)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("error while starting server")
		}
	}()

	// wait for interrupt signal to gracefully shut down the server with a timeout of 15 seconds
	// kill default send syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	quit := make(chan os.Signal, 1)

	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("SIGINT, SIGTERM received, will shut down server ...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	} else {
		log.Info("Application stopped gracefully !")
	}
}
