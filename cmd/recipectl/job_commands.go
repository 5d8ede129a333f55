package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rasoihub/recipeops/client"
	"github.com/rasoihub/recipeops/internal/models"
	"github.com/rasoihub/recipeops/internal/types"
)

func addFlagOptions(cmd *cobra.Command, flags *models.GenerationFlags) {
	cmd.Flags().BoolVar(&flags.MainImage, "main-image", false, "Regenerate the main dish image")
	cmd.Flags().BoolVar(&flags.IngredientsImage, "ingredients-image", false, "Regenerate the ingredients image")
	cmd.Flags().BoolVar(&flags.StepImages, "step-images", false, "Regenerate step images")
	cmd.Flags().BoolVar(&flags.StepText, "step-text", false, "Regenerate step text")
	cmd.Flags().BoolVar(&flags.IngredientText, "ingredient-text", false, "Regenerate ingredient text")
}

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var flags models.GenerationFlags
	var mass bool
	var limit int
	var follow bool

	cmd := &cobra.Command{
		Use:   "generate [recipe-name]",
		Short: "Start an AI generation job",
		Long: "Starts a generation job for one recipe by name, or with --mass for every\n" +
			"incomplete recipe. At least one fix flag must be set.",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := ctx.apiClient()
			if err != nil {
				return err
			}

			if !flags.Any() {
				return errors.New("at least one fix flag is required (e.g. --main-image)")
			}

			var resp *types.StartGenerationResponse
			if mass {
				if len(args) > 0 {
					return errors.New("--mass does not take a recipe name")
				}
				resp, err = api.StartMass(cmd.Context(), &types.StartMassGenerationRequest{
					Limit:           limit,
					GenerationFlags: flags,
				})
			} else {
				if len(args) != 1 {
					return errors.New("a recipe name is required unless --mass is set")
				}
				resp, err = api.StartSpecific(cmd.Context(), &types.StartSpecificGenerationRequest{
					RecipeName:      args[0],
					GenerationFlags: flags,
				})
			}
			if err != nil {
				return fmt.Errorf("start generation: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Started job %s (%s)\n", resp.JobID, resp.Status)
			if follow {
				return watchJob(cmd, api, resp.JobID)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Follow progress with `recipectl watch %s`\n", resp.JobID)
			return nil
		},
	}

	addFlagOptions(cmd, &flags)
	cmd.Flags().BoolVar(&mass, "mass", false, "Run over every incomplete recipe")
	cmd.Flags().IntVar(&limit, "limit", 0, "Cap how many recipes a mass job touches (0 for no cap)")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Watch the job until it finishes")
	return cmd
}

func newJobsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List recent generation jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := ctx.apiClient()
			if err != nil {
				return err
			}

			jobs, err := api.ListJobs(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list jobs: %w", err)
			}
			if len(jobs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No jobs found")
				return nil
			}

			rows := make([][]string, 0, len(jobs))
			for _, j := range jobs {
				target := j.RecipeName
				if j.JobType == models.JobTypeMass {
					target = "(all incomplete)"
				}
				rows = append(rows, []string{
					j.ID.String(),
					j.JobType,
					string(j.Status),
					target,
					strconv.Itoa(j.ProcessedCount),
					strconv.Itoa(j.FailedCount),
					j.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Type", "Status", "Target", "Done", "Failed", "Created"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of jobs to show")
	return cmd
}

func newWatchCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [job-id]",
		Short: "Watch a generation job until it finishes",
		Long:  "Polls the job and streams its log lines. Without an id the latest job is watched.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := ctx.apiClient()
			if err != nil {
				return err
			}

			var jobID uuid.UUID
			if len(args) == 1 {
				jobID, err = uuid.Parse(args[0])
				if err != nil {
					return fmt.Errorf("invalid job id %q", args[0])
				}
			} else {
				latest, err := api.LatestJob(cmd.Context())
				if err != nil {
					return fmt.Errorf("fetch latest job: %w", err)
				}
				jobID = latest.ID
				fmt.Fprintf(cmd.OutOrStdout(), "Watching latest job %s\n", jobID)
			}

			return watchJob(cmd, api, jobID)
		},
	}
	return cmd
}

func watchJob(cmd *cobra.Command, api *client.Client, jobID uuid.UUID) error {
	out := cmd.OutOrStdout()
	color := shouldColorize(out)

	watcher := client.NewWatcher(api, jobID)
	job, err := watcher.Watch(cmd.Context(), func(u *client.Update) error {
		for _, line := range u.Logs {
			ts := line.CreatedAt.Local().Format("15:04:05")
			level := colorize(line.LogLevel, logLevelColor(line.LogLevel), color)
			fmt.Fprintf(out, "%s %-7s %s\n", ts, level, line.Message)
		}
		return nil
	})
	if err != nil {
		return err
	}

	duration := ""
	if job.StartedAt != nil && job.CompletedAt != nil {
		duration = fmt.Sprintf(" in %s", job.CompletedAt.Sub(*job.StartedAt).Round(time.Second))
	}
	fmt.Fprintf(out, "Job %s %s%s (%d processed, %d failed)\n",
		job.ID, job.Status, duration, job.ProcessedCount, job.FailedCount)
	if job.ErrorMessage != "" {
		fmt.Fprintf(out, "Error: %s\n", job.ErrorMessage)
	}
	return nil
}

func newCancelCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cancel <job-id>",
		Short: "Cancel a running generation job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid job id %q", args[0])
			}

			api, err := ctx.apiClient()
			if err != nil {
				return err
			}

			if err := api.CancelJob(cmd.Context(), jobID); err != nil {
				return fmt.Errorf("cancel job: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Cancellation requested for job %s\n", jobID)
			return nil
		},
	}
	return cmd
}
