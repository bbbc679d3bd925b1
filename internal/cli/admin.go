package cli

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"quizpulse-service/internal/domain"
)

// withRuntime runs fn against a freshly wired runtime and tears it down after.
func withRuntime(ctx context.Context, configPath string, fn func(ctx context.Context, rt *runtime) error) error {
	rt, err := loadRuntime(ctx, configPath)
	if err != nil {
		return err
	}
	return errors.Join(fn(ctx, rt), rt.Close(context.WithoutCancel(ctx)))
}

// NewSeedCmd installs the badge catalog and default categories.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed badges and default categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), *configPath, func(ctx context.Context, rt *runtime) error {
				return rt.service.SeedReferenceData(ctx)
			})
		},
	}
}

// NewVerifyCmd prints participants whose aggregates disagree with the answer log.
func NewVerifyCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check participant aggregates against recorded answers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), *configPath, func(ctx context.Context, rt *runtime) error {
				divergences, err := rt.service.Verify(ctx)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(divergences); err != nil {
					return err
				}
				if len(divergences) > 0 {
					return errors.New("aggregates diverge from recorded answers")
				}
				rt.logger.Info("aggregates consistent")
				return nil
			})
		},
	}
}

// NewClearCmd wipes answers, and with --all also participants.
func NewClearCmd(configPath *string) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear responses (default) or all quiz data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), *configPath, func(ctx context.Context, rt *runtime) error {
				ctx = domain.WithAdmin(ctx)
				if all {
					res, err := rt.service.ClearAll(ctx)
					if err == nil {
						rt.logger.Info("cleared all data", "answers", res.AnswersDeleted, "participants", res.ParticipantsDeleted)
					}
					return err
				}
				res, err := rt.service.ClearResponses(ctx)
				if err == nil {
					rt.logger.Info("cleared responses", "answers", res.AnswersDeleted, "points_reset", res.PointsReset)
				}
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "also remove participants, signalling connected clients to log out")
	cmd.Flags().Bool("responses-only", true, "clear answers and reset points (default)")
	cmd.MarkFlagsMutuallyExclusive("all", "responses-only")
	return cmd
}
