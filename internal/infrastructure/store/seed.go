package store

import (
	"context"
	"fmt"

	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// 內建範例資料集。空資料庫啟動時載入，
// 讓服務不需外部匯入就能產生計劃。

type seedIngredient struct {
	name     string
	category string
}

type seedLink struct {
	name     string
	quantity float64
	unit     string
}

type seedRecipe struct {
	name         string
	slot         string
	instructions string
	calories     float64
	protein      float64
	carbs        float64
	fat          float64
	dietary      []string
	cuisines     []string
	ingredients  []seedLink
	rating       int
}

var seedIngredients = []seedIngredient{
	{"chicken breast", "protein"}, {"beef", "protein"}, {"salmon", "protein"},
	{"tofu", "protein"}, {"eggs", "protein"}, {"black beans", "protein"},
	{"lentils", "protein"}, {"chickpeas", "protein"}, {"pork", "protein"},
	{"shrimp", "protein"}, {"tempeh", "protein"}, {"quinoa", "protein"},
	{"onion", "vegetable"}, {"garlic", "vegetable"}, {"tomato", "vegetable"},
	{"bell pepper", "vegetable"}, {"carrot", "vegetable"}, {"broccoli", "vegetable"},
	{"spinach", "vegetable"}, {"mushroom", "vegetable"}, {"zucchini", "vegetable"},
	{"cucumber", "vegetable"}, {"lettuce", "vegetable"}, {"corn", "vegetable"},
	{"potato", "vegetable"}, {"sweet potato", "vegetable"}, {"cabbage", "vegetable"},
	{"ginger", "vegetable"}, {"cilantro", "vegetable"}, {"bok choy", "vegetable"},
	{"rice", "grain"}, {"pasta", "grain"}, {"bread", "grain"}, {"oats", "grain"},
	{"flour", "grain"}, {"couscous", "grain"}, {"bulgur", "grain"},
	{"jasmine rice", "grain"}, {"basmati rice", "grain"}, {"tortillas", "grain"},
	{"milk", "dairy"}, {"cheese", "dairy"}, {"yogurt", "dairy"}, {"butter", "dairy"},
	{"cream cheese", "dairy"}, {"sour cream", "dairy"}, {"mozzarella", "dairy"},
	{"coconut milk", "dairy"}, {"almond milk", "dairy"},
	{"salt", "spice"}, {"pepper", "spice"}, {"cumin", "spice"}, {"paprika", "spice"},
	{"turmeric", "spice"}, {"curry powder", "spice"}, {"soy sauce", "spice"},
	{"olive oil", "spice"}, {"sesame oil", "spice"}, {"vinegar", "spice"},
	{"lime", "spice"}, {"lemon", "spice"}, {"chili powder", "spice"},
	{"oregano", "spice"}, {"basil", "spice"}, {"thyme", "spice"},
	{"cinnamon", "spice"}, {"vanilla", "spice"}, {"miso paste", "spice"},
	{"apple", "fruit"}, {"banana", "fruit"}, {"orange", "fruit"}, {"berries", "fruit"},
	{"mango", "fruit"}, {"avocado", "fruit"}, {"coconut", "fruit"},
	{"dates", "fruit"}, {"plantain", "fruit"},
	{"tea", "beverage"}, {"coffee", "beverage"}, {"green tea", "beverage"},
	{"orange juice", "beverage"}, {"hibiscus tea", "beverage"},
	{"almonds", "nuts"}, {"walnuts", "nuts"}, {"sesame seeds", "nuts"},
	{"peanuts", "nuts"}, {"cashews", "nuts"}, {"pine nuts", "nuts"},
	{"honey", "sweetener"}, {"sugar", "sweetener"}, {"maple syrup", "sweetener"},
	{"vegetable broth", "broth"}, {"chicken broth", "broth"},
}

// 代換關係用名稱宣告，載入時對應到主鍵。
// 解析端視為對稱，這裡只存單向邊。
var seedSubstitutions = [][2]string{
	{"chicken breast", "eggs"},
	{"chicken breast", "tofu"},
	{"salmon", "shrimp"},
	{"tofu", "beef"},
	{"black beans", "chickpeas"},
	{"lentils", "black beans"},
	{"milk", "coconut milk"},
	{"milk", "almond milk"},
	{"cheese", "yogurt"},
	{"rice", "quinoa"},
	{"pasta", "couscous"},
	{"bread", "tortillas"},
	{"oats", "rice"},
	{"cumin", "turmeric"},
	{"paprika", "chili powder"},
	{"onion", "ginger"},
	{"tomato", "mushroom"},
	{"carrot", "mushroom"},
	{"spinach", "broccoli"},
}

var seedRecipes = []seedRecipe{
	{"Chicken Teriyaki Bowl", "lunch", "Marinate chicken in teriyaki sauce. Grill chicken and serve over rice with steamed vegetables.", 450, 35, 45, 12,
		nil, []string{"Asian"},
		[]seedLink{{"chicken breast", 200, "g"}, {"rice", 1, "cup"}, {"soy sauce", 2, "tbsp"}, {"broccoli", 100, "g"}, {"carrot", 1, "piece"}}, 4},
	{"Miso Soup", "appetizer", "Heat water, add miso paste, tofu, and seaweed. Simmer for 5 minutes.", 80, 6, 8, 3,
		[]string{"vegetarian", "gluten-free"}, []string{"Asian"},
		[]seedLink{{"miso paste", 1, "tbsp"}, {"tofu", 100, "g"}}, 5},
	{"Green Tea", "drink", "Steep green tea leaves in hot water for 3-5 minutes.", 2, 0, 0, 0,
		[]string{"vegan", "vegetarian", "gluten-free"}, []string{"Asian"},
		[]seedLink{{"green tea", 1, "tsp"}}, 4},
	{"Vegetable Fried Rice", "dinner", "Stir-fry rice with mixed vegetables, soy sauce, and sesame oil.", 320, 8, 58, 8,
		[]string{"vegan", "vegetarian"}, []string{"Asian"},
		[]seedLink{{"rice", 2, "cup"}, {"onion", 1, "piece"}, {"garlic", 2, "clove"}, {"broccoli", 100, "g"}, {"soy sauce", 2, "tbsp"}, {"sesame oil", 1, "tbsp"}}, 5},
	{"Mango Sticky Rice", "dessert", "Cook sticky rice with coconut milk, serve with fresh mango slices.", 280, 4, 52, 8,
		[]string{"vegetarian"}, []string{"Asian"},
		[]seedLink{{"rice", 1, "cup"}, {"coconut milk", 200, "ml"}, {"mango", 1, "piece"}}, 4},
	{"Jollof Rice", "dinner", "Cook rice with tomatoes, onions, peppers, and spices until fragrant and flavorful.", 380, 12, 62, 10,
		[]string{"gluten-free"}, []string{"African"},
		[]seedLink{{"rice", 2, "cup"}, {"tomato", 3, "piece"}, {"onion", 1, "piece"}, {"garlic", 2, "clove"}, {"paprika", 1, "tsp"}}, 5},
	{"Plantain Chips", "appetizer", "Slice plantains thin and fry until crispy. Season with salt.", 150, 2, 35, 5,
		[]string{"vegan", "vegetarian", "gluten-free"}, []string{"African"},
		[]seedLink{{"plantain", 2, "piece"}, {"salt", 1, "tsp"}}, 3},
	{"Hibiscus Tea", "drink", "Steep dried hibiscus flowers in hot water. Add honey to taste.", 25, 0, 6, 0,
		[]string{"vegan", "vegetarian", "gluten-free"}, []string{"African"},
		[]seedLink{{"hibiscus tea", 1, "tbsp"}, {"honey", 1, "tsp"}}, 4},
	{"Coconut Rice Pudding", "dessert", "Cook rice with coconut milk and sugar until creamy.", 220, 4, 42, 6,
		[]string{"vegetarian", "gluten-free"}, []string{"African"},
		[]seedLink{{"rice", 1, "cup"}, {"coconut milk", 250, "ml"}, {"sugar", 2, "tbsp"}}, 4},
	{"Spiced Lentil Stew", "lunch", "Cook lentils with onions, tomatoes, and African spices.", 290, 18, 45, 4,
		[]string{"vegan", "vegetarian", "gluten-free"}, []string{"African"},
		[]seedLink{{"lentils", 1, "cup"}, {"onion", 1, "piece"}, {"tomato", 2, "piece"}, {"turmeric", 1, "tsp"}}, 5},
	{"Black Bean Tacos", "lunch", "Warm tortillas, fill with seasoned black beans, cheese, and salsa.", 340, 15, 48, 12,
		nil, []string{"Hispanic"},
		[]seedLink{{"tortillas", 3, "piece"}, {"black beans", 1, "cup"}, {"cheese", 50, "g"}}, 4},
	{"Guacamole", "appetizer", "Mash avocados with lime, onion, cilantro, and salt.", 160, 3, 8, 15,
		[]string{"vegan", "vegetarian", "gluten-free"}, []string{"Hispanic"},
		[]seedLink{{"avocado", 2, "piece"}, {"lime", 1, "piece"}, {"onion", 0.5, "piece"}, {"cilantro", 1, "tbsp"}}, 5},
	{"Horchata", "drink", "Blend rice, cinnamon, vanilla, and milk. Strain and chill.", 180, 3, 28, 6,
		[]string{"vegetarian", "gluten-free"}, []string{"Hispanic"},
		[]seedLink{{"rice", 0.5, "cup"}, {"cinnamon", 1, "tsp"}, {"vanilla", 1, "tsp"}, {"milk", 250, "ml"}}, 4},
	{"Tres Leches Cake", "dessert", "Sponge cake soaked in three types of milk.", 320, 6, 45, 14,
		[]string{"vegetarian"}, []string{"Hispanic"},
		[]seedLink{{"flour", 2, "cup"}, {"milk", 300, "ml"}, {"cream cheese", 100, "g"}, {"butter", 50, "g"}}, 5},
	{"Chicken Enchiladas", "dinner", "Roll chicken in tortillas, top with sauce and cheese, bake.", 420, 28, 35, 18,
		nil, []string{"Hispanic"},
		[]seedLink{{"chicken breast", 300, "g"}, {"tortillas", 4, "piece"}, {"cheese", 100, "g"}}, 4},
	{"Caesar Salad", "lunch", "Toss romaine lettuce with Caesar dressing, croutons, and parmesan.", 280, 8, 15, 22,
		nil, []string{"Caucasian"},
		[]seedLink{{"lettuce", 1, "piece"}, {"cheese", 30, "g"}}, 4},
	{"Garlic Bread", "appetizer", "Spread garlic butter on bread, bake until golden.", 220, 6, 28, 12,
		[]string{"vegetarian"}, []string{"Caucasian"},
		[]seedLink{{"bread", 4, "slice"}, {"garlic", 3, "clove"}, {"butter", 40, "g"}}, 3},
	{"Iced Coffee", "drink", "Brew strong coffee, chill, serve over ice with milk.", 50, 2, 8, 1,
		[]string{"vegetarian", "gluten-free"}, []string{"Caucasian"},
		[]seedLink{{"coffee", 2, "tbsp"}, {"milk", 100, "ml"}}, 4},
	{"Apple Pie", "dessert", "Bake spiced apples in pastry crust until golden.", 350, 4, 52, 16,
		[]string{"vegetarian"}, []string{"Caucasian"},
		[]seedLink{{"apple", 4, "piece"}, {"flour", 2, "cup"}, {"cinnamon", 1, "tsp"}}, 5},
	{"Grilled Salmon", "dinner", "Season salmon with herbs, grill until flaky.", 380, 42, 2, 18,
		[]string{"gluten-free"}, []string{"Caucasian"},
		[]seedLink{{"salmon", 200, "g"}, {"oregano", 1, "tsp"}}, 5},
	{"Hummus", "appetizer", "Blend chickpeas, tahini, lemon, and garlic until smooth.", 180, 8, 20, 10,
		[]string{"vegan", "vegetarian", "gluten-free"}, []string{"Middle Eastern"},
		[]seedLink{{"chickpeas", 1, "cup"}, {"lemon", 1, "piece"}, {"garlic", 2, "clove"}}, 5},
	{"Chicken Shawarma", "lunch", "Marinate chicken in Middle Eastern spices, roast and slice.", 400, 35, 15, 22,
		[]string{"gluten-free"}, []string{"Middle Eastern"},
		[]seedLink{{"chicken breast", 300, "g"}, {"turmeric", 1, "tsp"}, {"cumin", 1, "tsp"}}, 4},
	{"Turkish Tea", "drink", "Brew strong black tea in traditional tea glasses.", 10, 0, 2, 0,
		[]string{"vegetarian", "gluten-free"}, []string{"Middle Eastern"},
		[]seedLink{{"tea", 1, "tbsp"}}, 4},
	{"Baklava", "dessert", "Layer phyllo with nuts and honey syrup.", 280, 6, 32, 16,
		[]string{"vegetarian"}, []string{"Middle Eastern"},
		[]seedLink{{"walnuts", 100, "g"}, {"honey", 4, "tbsp"}}, 5},
	{"Lamb Pilaf", "dinner", "Cook rice with lamb, onions, and Middle Eastern spices.", 450, 25, 48, 18,
		[]string{"gluten-free"}, []string{"Middle Eastern"},
		[]seedLink{{"beef", 300, "g"}, {"rice", 2, "cup"}, {"onion", 1, "piece"}}, 4},
	{"Congee", "breakfast", "Cook rice in broth until porridge-like. Top with ginger and green onions.", 200, 6, 38, 2,
		[]string{"vegan", "vegetarian", "gluten-free"}, []string{"Asian"},
		[]seedLink{{"rice", 1, "cup"}, {"vegetable broth", 500, "ml"}, {"ginger", 1, "tbsp"}}, 4},
	{"Injera with Lentils", "breakfast", "Serve spongy Ethiopian bread with spiced lentils.", 250, 12, 45, 3,
		[]string{"vegetarian"}, []string{"African"},
		[]seedLink{{"flour", 1, "cup"}, {"lentils", 1, "cup"}}, 4},
	{"Breakfast Burrito", "breakfast", "Scrambled eggs with beans, cheese, and salsa in tortilla.", 380, 18, 32, 20,
		nil, []string{"Hispanic"},
		[]seedLink{{"eggs", 2, "piece"}, {"black beans", 0.5, "cup"}, {"cheese", 50, "g"}, {"tortillas", 1, "piece"}}, 4},
	{"English Breakfast", "breakfast", "Eggs, beans, toast, and grilled tomatoes.", 420, 22, 35, 24,
		nil, []string{"Caucasian"},
		[]seedLink{{"eggs", 2, "piece"}, {"black beans", 0.5, "cup"}, {"bread", 2, "slice"}, {"tomato", 2, "piece"}}, 4},
	{"Turkish Breakfast", "breakfast", "Cheese, olives, bread, tomatoes, and tea.", 350, 15, 30, 20,
		[]string{"vegetarian"}, []string{"Middle Eastern"},
		[]seedLink{{"cheese", 80, "g"}, {"bread", 2, "slice"}, {"tomato", 2, "piece"}}, 4},
	{"Mango Lassi", "drink", "Blend mango, yogurt, and cardamom until smooth.", 150, 4, 28, 3,
		[]string{"vegetarian", "gluten-free"}, []string{"Middle Eastern"},
		[]seedLink{{"mango", 1, "piece"}, {"yogurt", 200, "ml"}}, 5},
	{"Mint Tea", "drink", "Steep mint leaves in hot water with sugar.", 30, 0, 8, 0,
		[]string{"vegan", "vegetarian", "gluten-free"}, []string{"Middle Eastern"},
		[]seedLink{{"tea", 1, "tbsp"}, {"sugar", 1, "tsp"}}, 4},
	{"Fresh Orange Juice", "drink", "Squeeze fresh oranges, strain pulp if desired.", 110, 2, 26, 0,
		[]string{"vegan", "vegetarian", "gluten-free"}, []string{"Caucasian", "Hispanic", "Asian"},
		[]seedLink{{"orange", 3, "piece"}}, 4},
	{"Spring Rolls", "appetizer", "Wrap vegetables in rice paper, serve with dipping sauce.", 120, 4, 22, 2,
		[]string{"vegan", "vegetarian", "gluten-free"}, []string{"Asian"},
		[]seedLink{{"carrot", 1, "piece"}, {"broccoli", 50, "g"}, {"spinach", 50, "g"}}, 4},
	{"Stuffed Dates", "appetizer", "Fill dates with nuts and cream cheese.", 180, 4, 28, 8,
		[]string{"vegetarian", "gluten-free"}, []string{"Middle Eastern"},
		[]seedLink{{"dates", 8, "piece"}, {"almonds", 30, "g"}, {"cream cheese", 50, "g"}}, 4},
	{"Bruschetta", "appetizer", "Top toasted bread with tomatoes, basil, and garlic.", 140, 4, 20, 6,
		[]string{"vegetarian"}, []string{"Caucasian"},
		[]seedLink{{"bread", 4, "slice"}, {"tomato", 2, "piece"}, {"basil", 1, "tbsp"}, {"garlic", 1, "clove"}}, 4},
	{"Mochi Ice Cream", "dessert", "Wrap ice cream in sweet rice dough.", 160, 3, 28, 6,
		[]string{"vegetarian", "gluten-free"}, []string{"Asian"},
		[]seedLink{{"rice", 0.5, "cup"}, {"sugar", 2, "tbsp"}}, 5},
	{"Flan", "dessert", "Caramel custard dessert.", 240, 6, 35, 9,
		[]string{"vegetarian", "gluten-free"}, []string{"Hispanic"},
		[]seedLink{{"eggs", 3, "piece"}, {"milk", 300, "ml"}, {"sugar", 3, "tbsp"}}, 5},
	{"Tiramisu", "dessert", "Coffee-soaked ladyfingers with mascarpone.", 300, 8, 32, 18,
		[]string{"vegetarian"}, []string{"Caucasian"},
		[]seedLink{{"coffee", 2, "tbsp"}, {"cream cheese", 150, "g"}}, 5},
}

// Seed 在空資料庫載入範例資料集。已有食譜時不做任何事。
func (s *SQLiteStore) Seed(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM recipes`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count recipes: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed tx: %w", err)
	}
	defer tx.Rollback()

	ingredientIDs := make(map[string]int64, len(seedIngredients))
	for _, ing := range seedIngredients {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO ingredients (name, category) VALUES (?, ?)`, ing.name, ing.category)
		if err != nil {
			return fmt.Errorf("failed to seed ingredient %q: %w", ing.name, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		ingredientIDs[ing.name] = id
	}

	for _, pair := range seedSubstitutions {
		from, ok := ingredientIDs[pair[0]]
		if !ok {
			return fmt.Errorf("seed substitution references unknown ingredient %q", pair[0])
		}
		to, ok := ingredientIDs[pair[1]]
		if !ok {
			return fmt.Errorf("seed substitution references unknown ingredient %q", pair[1])
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO substitutions (ingredient_id, substitute_ingredient_id) VALUES (?, ?)`, from, to); err != nil {
			return fmt.Errorf("failed to seed substitution: %w", err)
		}
	}

	for _, r := range seedRecipes {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO recipes (name, meal_type, instructions, calories, protein, carbs, fat)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.name, r.slot, r.instructions, r.calories, r.protein, r.carbs, r.fat)
		if err != nil {
			return fmt.Errorf("failed to seed recipe %q: %w", r.name, err)
		}
		recipeID, err := res.LastInsertId()
		if err != nil {
			return err
		}

		for _, link := range r.ingredients {
			ingID, ok := ingredientIDs[link.name]
			if !ok {
				return fmt.Errorf("recipe %q references unknown ingredient %q", r.name, link.name)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO recipe_ingredients (recipe_id, ingredient_id, quantity, unit)
				 VALUES (?, ?, ?, ?)`, recipeID, ingID, link.quantity, link.unit); err != nil {
				return fmt.Errorf("failed to seed recipe ingredient: %w", err)
			}
		}
		for _, tag := range r.dietary {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO recipe_dietary_tags (recipe_id, tag) VALUES (?, ?)`, recipeID, tag); err != nil {
				return fmt.Errorf("failed to seed dietary tag: %w", err)
			}
		}
		for _, cuisine := range r.cuisines {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO recipe_cuisines (recipe_id, cuisine) VALUES (?, ?)`, recipeID, cuisine); err != nil {
				return fmt.Errorf("failed to seed cuisine: %w", err)
			}
		}
		if r.rating > 0 {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO ratings (recipe_id, score) VALUES (?, ?)`, recipeID, r.rating); err != nil {
				return fmt.Errorf("failed to seed rating: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}

	common.LogInfo("範例資料集已載入",
		zap.Int("ingredients", len(seedIngredients)),
		zap.Int("recipes", len(seedRecipes)),
		zap.Int("substitutions", len(seedSubstitutions)),
	)
	return nil
}
