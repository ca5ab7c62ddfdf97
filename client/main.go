package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"doctor-reviews/internal/config"
	"doctor-reviews/internal/database"
	"doctor-reviews/internal/model"
	"doctor-reviews/internal/rating"
	doctorRepository "doctor-reviews/internal/repository/doctor"
	reviewRepository "doctor-reviews/internal/repository/review"

	Firestore "firebase.google.com/go/v4"

	"github.com/spf13/cobra"
	"google.golang.org/api/option"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "reviews-client",
		Short:        "Seed doctors and submit reviews against the configured Firestore project",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(seedDoctorsCmd(), submitReviewsCmd(), recomputeCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func seedDoctorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-doctors <file.json>",
		Short: "Create the doctors listed in a json file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFirestore(cmd.Context(), func(ctx context.Context, db database.Client) error {
				var doctors []model.Doctor
				if err := readJson(args[0], &doctors); err != nil {
					return err
				}

				doctorRepo := doctorRepository.New(db)
				for _, d := range doctors {
					if err := doctorRepo.Create(ctx, d); err != nil {
						return err
					}
					fmt.Println("Doctor created:", *d.Id)
				}
				return nil
			})
		},
	}
}

func submitReviewsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "submit-reviews <file.json>",
		Short: "Submit the reviews listed in a json file and update the doctors' ratings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFirestore(cmd.Context(), func(ctx context.Context, db database.Client) error {
				var reviews []model.Review
				if err := readJson(args[0], &reviews); err != nil {
					return err
				}

				return submitReviews(ctx, db, reviews, cmd.OutOrStdout())
			})
		},
	}
}

// submitReviews checks that every referenced doctor exists before any review is written, so an
// unknown doctor cannot leave orphan reviews behind.
func submitReviews(ctx context.Context, db database.Client, reviews []model.Review, out io.Writer) error {
	doctorRepo := doctorRepository.New(db)
	checked := make(map[string]bool)
	for _, r := range reviews {
		if checked[r.DoctorId] {
			continue
		}
		if _, err := doctorRepo.GetById(ctx, r.DoctorId); err != nil {
			return fmt.Errorf("doctor %q: %w", r.DoctorId, err)
		}
		checked[r.DoctorId] = true
	}

	aggregator := rating.New(reviewRepository.New(db))
	for _, r := range reviews {
		id, err := aggregator.SubmitReview(ctx, r)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Review %s submitted for doctor %s\n", id, r.DoctorId)
	}
	return nil
}

func recomputeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recompute <doctorId>",
		Short: "Recompute the rating and review count of a doctor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFirestore(cmd.Context(), func(ctx context.Context, db database.Client) error {
				agg, err := rating.New(reviewRepository.New(db)).RecomputeAggregate(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Printf("Doctor %s: rating %s (%d reviews)\n", agg.DoctorId, agg.Rating, agg.ReviewsCount)
				return nil
			})
		},
	}
}

func withFirestore(ctx context.Context, fn func(context.Context, database.Client) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cnf, err := config.Load()
	if err != nil {
		return err
	}

	creds, err := json.Marshal(cnf.Firebase)
	if err != nil {
		return err
	}

	app, err := Firestore.NewApp(ctx, &Firestore.Config{ProjectID: cnf.ProjectId}, option.WithCredentialsJSON(creds))
	if err != nil {
		return err
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	return fn(ctx, database.New(client, cnf.WriteTimeoutSecond))
}

func readJson(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
