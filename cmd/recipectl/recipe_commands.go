package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rasoihub/recipeops/client"
	"github.com/rasoihub/recipeops/internal/models"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var status string
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recipes page by page",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := ctx.apiClient()
			if err != nil {
				return err
			}

			pager := client.NewPager(api, limit, status)
			shown := 0
			for pager.HasNext() {
				recipes, err := pager.Next(cmd.Context())
				if err != nil {
					return fmt.Errorf("list recipes: %w", err)
				}
				if len(recipes) == 0 {
					break
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderRecipeTable(recipes))
				shown += len(recipes)
				if !all {
					if pager.HasNext() {
						fmt.Fprintf(cmd.OutOrStdout(), "More pages available; use --all or --limit to see more\n")
					}
					break
				}
			}
			if shown == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recipes found")
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Recipes per page")
	cmd.Flags().StringVar(&status, "status", "", "Filter by validation status (pending, validated, needs_fixing)")
	cmd.Flags().BoolVar(&all, "all", false, "Fetch every page")
	return cmd
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search recipes by relevance",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := ctx.apiClient()
			if err != nil {
				return err
			}

			recipes, err := api.SearchRecipes(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("search recipes: %w", err)
			}
			if len(recipes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recipes matched")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderRecipeTable(recipes))
			return nil
		},
	}
	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <recipe-id>",
		Short: "Display one recipe in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid recipe id %q", args[0])
			}

			api, err := ctx.apiClient()
			if err != nil {
				return err
			}

			recipe, err := api.GetRecipe(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("fetch recipe: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", recipe.Name, recipe.ID)
			fmt.Fprintf(out, "  Region:      %s\n", recipe.Region)
			fmt.Fprintf(out, "  Difficulty:  %s\n", recipe.Difficulty)
			fmt.Fprintf(out, "  Prep/Cook:   %dm / %dm\n", recipe.PrepTimeMinutes, recipe.CookTimeMinutes)
			fmt.Fprintf(out, "  Servings:    %d\n", recipe.Servings)
			fmt.Fprintf(out, "  Calories:    %.0f\n", recipe.Calories)
			fmt.Fprintf(out, "  Status:      %s (score %d, complete: %s)\n",
				recipe.ValidationStatus, recipe.DataQualityScore, yesNo(recipe.IsComplete))
			fmt.Fprintf(out, "  Image:       %s\n", client.DisplayImageURL(recipe))
			if recipe.Description != "" {
				fmt.Fprintf(out, "\n%s\n", recipe.Description)
			}
			if len(recipe.Ingredients) > 0 {
				fmt.Fprintln(out, "\nIngredients:")
				for _, ing := range recipe.Ingredients {
					line := strings.TrimSpace(strings.Join([]string{ing.Quantity, ing.Unit, ing.Name}, " "))
					fmt.Fprintf(out, "  - %s\n", line)
				}
			}
			if len(recipe.Steps) > 0 {
				fmt.Fprintln(out, "\nSteps:")
				for i, step := range recipe.Steps {
					fmt.Fprintf(out, "  %d. %s\n", i+1, step)
				}
			}
			return nil
		},
	}
	return cmd
}

func newEditCommand(ctx *commandContext) *cobra.Command {
	var name, description, region, difficulty string
	var prepTime, cookTime, servings int
	var calories float64
	var validationStatus string
	var steps []string

	cmd := &cobra.Command{
		Use:   "edit <recipe-id>",
		Short: "Update fields of a recipe",
		Long:  "Updates only the fields given as flags. Everything else is left untouched.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid recipe id %q", args[0])
			}

			api, err := ctx.apiClient()
			if err != nil {
				return err
			}

			editor := client.NewEditor(api, id)
			flags := cmd.Flags()
			if flags.Changed("name") {
				editor.SetName(name)
			}
			if flags.Changed("description") {
				editor.SetDescription(description)
			}
			if flags.Changed("region") {
				editor.SetRegion(region)
			}
			if flags.Changed("difficulty") {
				editor.SetDifficulty(difficulty)
			}
			if flags.Changed("prep-time") {
				editor.SetPrepTime(prepTime)
			}
			if flags.Changed("cook-time") {
				editor.SetCookTime(cookTime)
			}
			if flags.Changed("servings") {
				editor.SetServings(servings)
			}
			if flags.Changed("calories") {
				editor.SetCalories(calories)
			}
			if flags.Changed("validation-status") {
				editor.SetValidationStatus(validationStatus)
			}
			if flags.Changed("step") {
				editor.SetSteps(steps)
			}

			if !editor.Dirty() {
				return errors.New("no fields to update; pass at least one flag")
			}

			recipe, err := editor.Save(cmd.Context())
			if err != nil {
				return fmt.Errorf("update recipe: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (score %d, complete: %s)\n",
				recipe.Name, recipe.DataQualityScore, yesNo(recipe.IsComplete))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Recipe name")
	cmd.Flags().StringVar(&description, "description", "", "Recipe description")
	cmd.Flags().StringVar(&region, "region", "", "Region (north_indian, south_indian, east_indian, west_indian, international)")
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "Difficulty (Easy, Medium, Hard)")
	cmd.Flags().IntVar(&prepTime, "prep-time", 0, "Preparation time in minutes")
	cmd.Flags().IntVar(&cookTime, "cook-time", 0, "Cooking time in minutes")
	cmd.Flags().IntVar(&servings, "servings", 0, "Number of servings")
	cmd.Flags().Float64Var(&calories, "calories", 0, "Calories per serving")
	cmd.Flags().StringVar(&validationStatus, "validation-status", "", "Validation status (pending, validated, needs_fixing)")
	cmd.Flags().StringArrayVar(&steps, "step", nil, "Replacement step text (repeatable, replaces all steps)")
	return cmd
}

func newStatsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate recipe statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := ctx.apiClient()
			if err != nil {
				return err
			}

			stats, err := api.Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch stats: %w", err)
			}

			rows := [][]string{
				{"Total recipes", strconv.FormatInt(stats.TotalRecipes, 10)},
				{"Complete", strconv.FormatInt(stats.CompleteRecipes, 10)},
				{"Missing main image", strconv.FormatInt(stats.MissingMainImage, 10)},
				{"Missing ingredients image", strconv.FormatInt(stats.MissingIngredientsImg, 10)},
				{"Missing step images", strconv.FormatInt(stats.MissingStepImages, 10)},
				{"Missing steps", strconv.FormatInt(stats.MissingSteps, 10)},
				{"Pending validation", strconv.FormatInt(stats.PendingValidation, 10)},
				{"Validated", strconv.FormatInt(stats.Validated, 10)},
				{"Needs fixing", strconv.FormatInt(stats.NeedsFixing, 10)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Metric", "Count"}, rows,
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}
	return cmd
}

func renderRecipeTable(recipes []models.Recipe) string {
	rows := make([][]string, 0, len(recipes))
	for _, r := range recipes {
		rows = append(rows, []string{
			r.ID.String(),
			r.Name,
			r.Region,
			r.Difficulty,
			r.ValidationStatus,
			strconv.Itoa(r.DataQualityScore),
			yesNo(r.IsComplete),
		})
	}
	return renderTable(
		[]string{"ID", "Name", "Region", "Difficulty", "Status", "Score", "Complete"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	)
}
