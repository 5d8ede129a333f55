package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rasoihub/recipeops/internal/types"
)

func newRecommendCommand(ctx *commandContext) *cobra.Command {
	var regions []string
	var difficulty string
	var maxCalories float64
	var limit int

	cmd := &cobra.Command{
		Use:   "recommend <query>",
		Short: "Ask for recipe recommendations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := ctx.apiClient()
			if err != nil {
				return err
			}

			resp, err := api.Recommend(cmd.Context(), &types.RecommendRequest{
				Query:       strings.Join(args, " "),
				Regions:     regions,
				Difficulty:  difficulty,
				MaxCalories: maxCalories,
				Limit:       limit,
			})
			if err != nil {
				return fmt.Errorf("recommend: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, resp.Reply)
			if len(resp.Recipes) > 0 {
				fmt.Fprintln(out, renderRecipeTable(resp.Recipes))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&regions, "region", nil, "Preferred regions (repeatable)")
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "Preferred difficulty")
	cmd.Flags().Float64Var(&maxCalories, "max-calories", 0, "Calorie ceiling per serving")
	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "Number of recommendations")
	return cmd
}
