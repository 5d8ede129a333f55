package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/rasoihub/recipeops/config"
	"github.com/rasoihub/recipeops/internal/database"
	"github.com/rasoihub/recipeops/internal/models"
	"github.com/rasoihub/recipeops/internal/service"
)

var seedRecipes = []models.Recipe{
	{
		Name:            "Butter Chicken",
		Description:     "Creamy tomato-based chicken curry finished with butter and cream",
		Region:          models.RegionNorthIndian,
		Difficulty:      models.DifficultyMedium,
		PrepTimeMinutes: 30,
		CookTimeMinutes: 40,
		Servings:        4,
		Calories:        520,
		Ingredients: models.IngredientList{
			{Name: "chicken thighs", Quantity: "500", Unit: "grams"},
			{Name: "tomato puree", Quantity: "2", Unit: "cups"},
			{Name: "heavy cream", Quantity: "1/2", Unit: "cup"},
			{Name: "butter", Quantity: "3", Unit: "tablespoons"},
			{Name: "garam masala", Quantity: "2", Unit: "teaspoons"},
		},
		Steps: models.JSONBStringArray{
			"Marinate the chicken in yogurt and spices for at least 30 minutes",
			"Sear the chicken until browned and set aside",
			"Simmer tomato puree with butter and spices",
			"Return the chicken, add cream and cook until tender",
		},
	},
	{
		Name:            "Masala Dosa",
		Description:     "Crisp fermented rice crepe wrapped around spiced potato filling",
		Region:          models.RegionSouthIndian,
		Difficulty:      models.DifficultyHard,
		PrepTimeMinutes: 480,
		CookTimeMinutes: 30,
		Servings:        6,
		Calories:        330,
		Ingredients: models.IngredientList{
			{Name: "dosa rice", Quantity: "2", Unit: "cups"},
			{Name: "urad dal", Quantity: "1/2", Unit: "cup"},
			{Name: "potatoes", Quantity: "4", Unit: ""},
			{Name: "mustard seeds", Quantity: "1", Unit: "teaspoon"},
			{Name: "curry leaves", Quantity: "10", Unit: ""},
		},
		Steps: models.JSONBStringArray{
			"Soak rice and dal separately, then grind and ferment overnight",
			"Cook the spiced potato filling with mustard seeds and curry leaves",
			"Spread the batter thin on a hot griddle",
			"Fill, fold and serve with chutney and sambar",
		},
	},
	{
		Name:            "Macher Jhol",
		Description:     "Light Bengali fish curry with potatoes in a turmeric broth",
		Region:          models.RegionEastIndian,
		Difficulty:      models.DifficultyMedium,
		PrepTimeMinutes: 20,
		CookTimeMinutes: 30,
		Servings:        4,
		Calories:        280,
		Ingredients: models.IngredientList{
			{Name: "rohu fish steaks", Quantity: "500", Unit: "grams"},
			{Name: "potatoes", Quantity: "2", Unit: ""},
			{Name: "turmeric", Quantity: "1", Unit: "teaspoon"},
			{Name: "mustard oil", Quantity: "3", Unit: "tablespoons"},
			{Name: "nigella seeds", Quantity: "1/2", Unit: "teaspoon"},
		},
		Steps: models.JSONBStringArray{
			"Rub the fish with turmeric and salt, then fry lightly in mustard oil",
			"Fry potato wedges in the same oil",
			"Simmer everything in a thin spiced broth until the potatoes are soft",
		},
	},
	{
		Name:            "Pav Bhaji",
		Description:     "Mashed vegetable curry served with butter-toasted bread rolls",
		Region:          models.RegionWestIndian,
		Difficulty:      models.DifficultyEasy,
		PrepTimeMinutes: 20,
		CookTimeMinutes: 30,
		Servings:        4,
		Calories:        450,
		Ingredients: models.IngredientList{
			{Name: "mixed vegetables", Quantity: "4", Unit: "cups"},
			{Name: "pav rolls", Quantity: "8", Unit: ""},
			{Name: "pav bhaji masala", Quantity: "2", Unit: "tablespoons"},
			{Name: "butter", Quantity: "4", Unit: "tablespoons"},
		},
		Steps: models.JSONBStringArray{
			"Boil and mash the vegetables",
			"Cook the mash with butter, masala and tomatoes",
			"Toast the rolls in butter and serve with onions and lime",
		},
	},
	{
		Name:            "Margherita Pizza",
		Description:     "Neapolitan-style pizza with tomato, mozzarella and basil",
		Region:          models.RegionInternational,
		Difficulty:      models.DifficultyMedium,
		PrepTimeMinutes: 120,
		CookTimeMinutes: 15,
		Servings:        2,
		Calories:        820,
		Ingredients: models.IngredientList{
			{Name: "pizza dough", Quantity: "1", Unit: ""},
			{Name: "san marzano tomatoes", Quantity: "1", Unit: "cup"},
			{Name: "fresh mozzarella", Quantity: "200", Unit: "grams"},
			{Name: "basil leaves", Quantity: "8", Unit: ""},
		},
		Steps: models.JSONBStringArray{
			"Stretch the dough into a thin round",
			"Top with crushed tomatoes and torn mozzarella",
			"Bake as hot as the oven allows, finish with basil",
		},
	},
}

func main() {
	adminEmail := flag.String("admin-email", "ops@recipeops.dev", "admin operator email to seed")
	adminPassword := flag.String("admin-password", "", "admin operator password (required)")
	flag.Parse()

	if *adminPassword == "" {
		log.Fatal("-admin-password is required")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.RunMigrations(db, "migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()
	recipeService := service.NewRecipeService(db, nil)

	for i := range seedRecipes {
		recipe := seedRecipes[i]

		var count int64
		db.Model(&models.Recipe{}).Where("LOWER(name) = ?", strings.ToLower(recipe.Name)).Count(&count)
		if count > 0 {
			log.Printf("Skipping %s (already seeded)", recipe.Name)
			continue
		}

		recipe.Embedding = service.GenerateEmbedding(recipe.Name + " " + recipe.Description)
		if err := db.WithContext(ctx).Create(&recipe).Error; err != nil {
			log.Fatalf("Failed to seed recipe %s: %v", recipe.Name, err)
		}
		if err := recipeService.RefreshDerived(ctx, &recipe, false); err != nil {
			log.Fatalf("Failed to refresh derived fields for %s: %v", recipe.Name, err)
		}
		log.Printf("Seeded %s", recipe.Name)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}

	admin := models.User{
		Name:         "Operator",
		Email:        strings.ToLower(*adminEmail),
		PasswordHash: string(hash),
		IsAdmin:      true,
	}
	var existing models.User
	if err := db.Where("email = ?", admin.Email).First(&existing).Error; err != nil {
		if err := db.Create(&admin).Error; err != nil {
			log.Fatalf("Failed to seed admin user: %v", err)
		}
		log.Printf("Seeded admin operator %s", admin.Email)
	} else {
		log.Printf("Admin operator %s already exists", admin.Email)
	}

	log.Println("Seeding complete")
}
