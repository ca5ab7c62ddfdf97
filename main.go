package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"doctor-reviews/internal/api"
	"doctor-reviews/internal/auth"
	"doctor-reviews/internal/config"
	"doctor-reviews/internal/database"
	reviewEventPublisher "doctor-reviews/internal/eventpublisher/review"
	aggregateHandler "doctor-reviews/internal/handler/aggregate"
	reviewSentimentHandler "doctor-reviews/internal/handler/reviewsentiment"
	"doctor-reviews/internal/rating"
	doctorRepository "doctor-reviews/internal/repository/doctor"
	reviewRepository "doctor-reviews/internal/repository/review"
	reviewSentimentsRepository "doctor-reviews/internal/repository/reviewsentiments"
	"doctor-reviews/internal/utils"

	gpt "doctor-reviews/internal/gpt"
	gptutils "doctor-reviews/internal/gpt/utils"

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

	app := createFirestoreAppOrPanic(ctx, cnf.Firebase)
	firestoreClient := createFirestoreClientOrPanic(ctx, app, cnf.WriteTimeoutSecond)
	defer firestoreClient.Close()

	authClient, err := app.Auth(ctx)
	if err != nil {
		panic(err)
	}

	reviewRepo := reviewRepository.New(firestoreClient)
	doctorRepo := doctorRepository.New(firestoreClient)
	aggregator := rating.New(reviewRepo)

	router := api.NewRouter(aggregator, doctorRepo, auth.NewFirebaseVerifier(authClient))

	reviewPublisher := reviewEventPublisher.ReviewPublisherFactory(reviewRepo).OnReviewChanged()

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return api.Serve(gctx, cnf.Server.Addr, router, cnf.ShutdownTimeout)
	})

	if cnf.Reconcile {
		ah := aggregateHandler.New(reviewPublisher, aggregator)
		group.Go(func() error {
			return ah.EventHandler(gctx)
		})
	}

	if cnf.GilasAI.Enabled() {
		rs := createSentimentHandlerOrPanic(cnf.GilasAI, reviewPublisher, reviewRepo, reviewSentimentsRepository.New(firestoreClient))
		group.Go(func() error {
			return rs.EventHandler(gctx)
		})
	}

	if cnf.Reconcile || cnf.GilasAI.Enabled() {
		group.Go(func() error {
			return reviewPublisher.Start(gctx)
		})
	}

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
			log.Error().Err(err).Msg("shutdown after failure")
			os.Exit(1)
		}
	case <-time.After(cnf.ShutdownTimeout + time.Second):
		// Give enough time to close all the pending resources
		log.Error().Msg("shutdown timed out")
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
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	if level > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
}

func createSentimentHandlerOrPanic(
	cnf config.GilasAI,
	publisher reviewEventPublisher.ReviewPublisher,
	reviewRepo reviewRepository.ReviewRepository,
	sentimentRepo reviewSentimentsRepository.ReviewSentimentsRepository) *reviewSentimentHandler.Handler {

	tokenizer, err := gptutils.NewTokenzier()
	if err != nil {
		panic(err)
	}

	gptFactory, err := gpt.NewClientFactory(gpt.ClientConfig{
		ApiUrl:      cnf.ApiUrl,
		ApiKey:      cnf.ApiKey,
		Model:       cnf.Model,
		Temperature: utils.Float32ToPointer(0.1),
	})
	if err != nil {
		panic(err)
	}

	return reviewSentimentHandler.New(publisher, reviewRepo, sentimentRepo, gptFactory, tokenizer, cnf.MaxPromptTokens)
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

func createFirestoreClientOrPanic(ctx context.Context, app *Firestore.App, writeTimeout time.Duration) database.FirestoreClient {
	firestoreClient, err := app.Firestore(ctx)
	if err != nil {
		panic(err)
	}
	return database.New(firestoreClient, writeTimeout)
}
