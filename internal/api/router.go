package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"doctor-reviews/internal/auth"
	doctorRepository "doctor-reviews/internal/repository/doctor"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func NewRouter(reviews ReviewService, doctorRepo doctorRepository.IRepository, verifier auth.Verifier) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	h := NewHandler(reviews, doctorRepo)
	v1 := r.Group("/v1", Authenticate(verifier))
	{
		v1.GET("/doctors/:doctorId", h.GetDoctor)
		v1.GET("/doctors/:doctorId/reviews", h.ListReviews)
		v1.GET("/doctors/:doctorId/reviews/mine", h.GetMyReview)
		v1.POST("/doctors/:doctorId/reviews", h.SubmitReview)
		v1.POST("/doctors/:doctorId/aggregate", h.RecomputeAggregate)
	}

	return r
}

// Serve runs the http server until ctx is done, then shuts it down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}
