package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-firestore-deals/internal/auth"
	"go-firestore-deals/internal/batch"
	"go-firestore-deals/internal/cache"
	"go-firestore-deals/internal/config"
	"go-firestore-deals/internal/content"
	"go-firestore-deals/internal/database"
	"go-firestore-deals/internal/eventpublisher/activity"
	rankingRefreshHandler "go-firestore-deals/internal/handler/rankingrefresh"
	"go-firestore-deals/internal/ranking"
	commentRepository "go-firestore-deals/internal/repository/comment"
	dealRepository "go-firestore-deals/internal/repository/deal"
	reviewRepository "go-firestore-deals/internal/repository/review"
	userRepository "go-firestore-deals/internal/repository/user"
	voteRepository "go-firestore-deals/internal/repository/vote"
	"go-firestore-deals/internal/review"
	"go-firestore-deals/internal/transport/rest"
	"go-firestore-deals/internal/vote"

	Firestore "firebase.google.com/go/v4"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"
)

func main() {

	cnf := config.LoadConfigOrPanic()
	setupLogger(cnf.Log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	defer close(sigs)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	db, closeDB := createStoreOrPanic(ctx, cnf)
	defer closeDB()

	voteRepo := voteRepository.New(db)
	reviewRepo := reviewRepository.New(db)
	dealRepo := dealRepository.New(db)
	commentRepo := commentRepository.New(db)
	userRepo := userRepository.New(db)

	activityPublisher := activity.New(0)

	rankingEngine := ranking.New(userRepo, commentRepo, ranking.Weights{
		Deal:    cnf.Ranking.DealWeight,
		Upvote:  cnf.Ranking.UpvoteWeight,
		Comment: cnf.Ranking.CommentWeight,
	}, cnf.Ranking.Concurrency)

	var board *cache.LeaderboardCache
	if cnf.Redis.Addr != "" {
		redisClient, err := cache.NewRedisClient(ctx, cnf.Redis.Addr, cnf.Redis.Password, cnf.Redis.DB)
		if err != nil {
			panic(err)
		}
		defer redisClient.Close()

		board = cache.NewLeaderboardCache(redisClient, cnf.Redis.TTL)
		rankingEngine.WithSink(board)
	}

	counters := vote.NewCounterAggregator(voteRepo, dealRepo, commentRepo, userRepo)
	router := rest.NewRouter(rest.Deps{
		Ledger:  vote.NewLedger(voteRepo, counters, activityPublisher),
		Reviews: review.New(reviewRepo),
		Ranking: rankingEngine,
		Batch:   batch.New(dealRepo, userRepo),
		Content: content.New(dealRepo, commentRepo, userRepo, activityPublisher),
		Board:   board,
		Auth:    auth.HeaderProvider{},
	})

	server := &http.Server{
		Addr:              cnf.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	rr := rankingRefreshHandler.New(activityPublisher, rankingEngine)

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return activityPublisher.Start(gctx)
	})
	group.Go(func() error {
		return rr.EventHandler(gctx)
	})
	group.Go(func() error {
		log.Info().Msgf("listening on %s (store driver %s)", cnf.HTTP.Addr, cnf.Store.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cnf.HTTP.ShutdownTimeout)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})

	select {
	case <-sigs:
		// Received a termination signal, continue to shutdown
	case <-gctx.Done():
		// errgroup encountered an error, continue to shutdown
	}

	cancel() // cancel the root context to signal all the consumers

	done := make(chan error, 1)
	go func() { done <- group.Wait() }()

	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("shutdown with error")
			os.Exit(1)
		}
	case <-time.After(cnf.HTTP.ShutdownTimeout + time.Second):
		log.Warn().Msg("shutdown timed out")
		os.Exit(1)
	case <-sigs:
		// Forcefully terminate the app with a signal
		os.Exit(1)
	}
}

func setupLogger(cnf config.Log) {
	level, err := zerolog.ParseLevel(cnf.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cnf.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	if level > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
}

func createStoreOrPanic(ctx context.Context, cnf config.Config) (database.Client, func()) {
	if cnf.Store.Driver == config.DriverMemory {
		log.Warn().Msg("using the in-memory store, data is lost on exit")
		return database.Instrument(database.NewMemory(cnf.Store.MaxInQuery)), func() {}
	}

	app := createFirestoreAppOrPanic(ctx, cnf.Firebase)
	firestoreClient := createFirestoreClientOrPanic(ctx, app, cnf.Store)
	return database.Instrument(firestoreClient), func() { firestoreClient.Close() }
}

func createFirestoreAppOrPanic(ctx context.Context, cnf config.Firebase) *Firestore.App {
	FirestoreCreds, err := json.Marshal(cnf)
	if err != nil {
		panic(err)
	}

	sa := option.WithCredentialsJSON(FirestoreCreds)
	app, err := Firestore.NewApp(ctx, &Firestore.Config{ProjectID: cnf.ProjectId}, sa)
	if err != nil {
		panic(err)
	}
	return app
}

func createFirestoreClientOrPanic(ctx context.Context, app *Firestore.App, cnf config.Store) database.FirestoreClient {
	firestoreClient, err := app.Firestore(ctx)
	if err != nil {
		panic(err)
	}
	return database.New(firestoreClient, cnf.Timeout, cnf.MaxInQuery)
}
