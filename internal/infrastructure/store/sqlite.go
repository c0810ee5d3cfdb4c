package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"meal-planner/internal/core/mealplan"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteStore 食譜儲存。讀取端提供規劃用快照，
// 寫入端只有 append-only 的評分。
type SQLiteStore struct {
	db      *sql.DB
	version atomic.Int64 // 每次評分寫入遞增，讓計劃快取失效
}

// Open 開啟（或建立）SQLite 資料庫並初始化 schema
func Open(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// modernc 驅動是單連接最安全
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	s.version.Store(1)
	common.LogInfo("食譜資料庫已開啟", zap.String("path", path))
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS ingredients (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	category TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS recipes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	meal_type TEXT NOT NULL,
	instructions TEXT NOT NULL DEFAULT '',
	calories REAL NOT NULL DEFAULT 0,
	protein REAL NOT NULL DEFAULT 0,
	carbs REAL NOT NULL DEFAULT 0,
	fat REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS recipe_ingredients (
	recipe_id INTEGER NOT NULL REFERENCES recipes(id),
	ingredient_id INTEGER NOT NULL REFERENCES ingredients(id),
	quantity REAL NOT NULL DEFAULT 0,
	unit TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (recipe_id, ingredient_id)
);

CREATE TABLE IF NOT EXISTS recipe_dietary_tags (
	recipe_id INTEGER NOT NULL REFERENCES recipes(id),
	tag TEXT NOT NULL,
	PRIMARY KEY (recipe_id, tag)
);

CREATE TABLE IF NOT EXISTS recipe_cuisines (
	recipe_id INTEGER NOT NULL REFERENCES recipes(id),
	cuisine TEXT NOT NULL,
	PRIMARY KEY (recipe_id, cuisine)
);

CREATE TABLE IF NOT EXISTS substitutions (
	ingredient_id INTEGER NOT NULL REFERENCES ingredients(id),
	substitute_ingredient_id INTEGER NOT NULL REFERENCES ingredients(id),
	PRIMARY KEY (ingredient_id, substitute_ingredient_id)
);

CREATE TABLE IF NOT EXISTS ratings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	recipe_id INTEGER NOT NULL REFERENCES recipes(id),
	score INTEGER NOT NULL CHECK (score BETWEEN 1 AND 5),
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to init schema: %w", err)
	}
	return nil
}

// Version 目前快照版本，評分寫入後遞增
func (s *SQLiteStore) Version() int64 {
	return s.version.Load()
}

// Ping 健康檢查用
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close 關閉資料庫
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ListIngredients 讀取全部食材參考資料，照主鍵排序
func (s *SQLiteStore) ListIngredients(ctx context.Context) ([]mealplan.Ingredient, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, category FROM ingredients ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingredients: %w", err)
	}
	defer rows.Close()

	var out []mealplan.Ingredient
	for rows.Next() {
		var ing mealplan.Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.Category); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		out = append(out, ing)
	}
	return out, rows.Err()
}

// ListSubstitutions 讀取全部代換邊（有向，解析端對稱化）
func (s *SQLiteStore) ListSubstitutions(ctx context.Context) ([]mealplan.Substitution, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ingredient_id, substitute_ingredient_id FROM substitutions
		 ORDER BY ingredient_id, substitute_ingredient_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query substitutions: %w", err)
	}
	defer rows.Close()

	var out []mealplan.Substitution
	for rows.Next() {
		var sub mealplan.Substitution
		if err := rows.Scan(&sub.IngredientID, &sub.SubstituteID); err != nil {
			return nil, fmt.Errorf("failed to scan substitution: %w", err)
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

// ListRecipes 讀取完整食譜快照。語料順序 = 主鍵順序，
// 下游的排名以此作為決定性的決勝依據。
func (s *SQLiteStore) ListRecipes(ctx context.Context) ([]mealplan.Recipe, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, meal_type, instructions, calories, protein, carbs, fat
		 FROM recipes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	defer rows.Close()

	var recipes []mealplan.Recipe
	index := make(map[int64]int)
	for rows.Next() {
		var r mealplan.Recipe
		var slot string
		if err := rows.Scan(&r.ID, &r.Name, &slot, &r.Instructions,
			&r.Nutrition.Calories, &r.Nutrition.Protein,
			&r.Nutrition.Carbs, &r.Nutrition.Fat); err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		parsed, err := mealplan.ParseMealSlot(slot)
		if err != nil {
			// 未知餐段的資料列不會進入任何計劃
			common.LogWarn("略過未知餐段的食譜",
				zap.Int64("recipe_id", r.ID), zap.String("meal_type", slot))
			continue
		}
		r.Slot = parsed
		index[r.ID] = len(recipes)
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachIngredients(ctx, recipes, index); err != nil {
		return nil, err
	}
	if err := s.attachDietaryTags(ctx, recipes, index); err != nil {
		return nil, err
	}
	if err := s.attachCuisines(ctx, recipes, index); err != nil {
		return nil, err
	}
	if err := s.attachRatings(ctx, recipes, index); err != nil {
		return nil, err
	}
	return recipes, nil
}

func (s *SQLiteStore) attachIngredients(ctx context.Context, recipes []mealplan.Recipe, index map[int64]int) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ri.recipe_id, ri.ingredient_id, i.name, i.category, ri.quantity, ri.unit
		 FROM recipe_ingredients ri
		 JOIN ingredients i ON i.id = ri.ingredient_id
		 ORDER BY ri.recipe_id, ri.ingredient_id`)
	if err != nil {
		return fmt.Errorf("failed to query recipe ingredients: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var recipeID int64
		var req mealplan.RequiredIngredient
		if err := rows.Scan(&recipeID, &req.IngredientID, &req.Name,
			&req.Category, &req.Quantity, &req.Unit); err != nil {
			return fmt.Errorf("failed to scan recipe ingredient: %w", err)
		}
		if i, ok := index[recipeID]; ok {
			recipes[i].Ingredients = append(recipes[i].Ingredients, req)
		}
	}
	return rows.Err()
}

func (s *SQLiteStore) attachDietaryTags(ctx context.Context, recipes []mealplan.Recipe, index map[int64]int) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT recipe_id, tag FROM recipe_dietary_tags ORDER BY recipe_id, tag`)
	if err != nil {
		return fmt.Errorf("failed to query dietary tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var recipeID int64
		var tag string
		if err := rows.Scan(&recipeID, &tag); err != nil {
			return fmt.Errorf("failed to scan dietary tag: %w", err)
		}
		if i, ok := index[recipeID]; ok {
			recipes[i].DietaryTags = append(recipes[i].DietaryTags, mealplan.DietaryTag(tag))
		}
	}
	return rows.Err()
}

func (s *SQLiteStore) attachCuisines(ctx context.Context, recipes []mealplan.Recipe, index map[int64]int) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT recipe_id, cuisine FROM recipe_cuisines ORDER BY recipe_id, cuisine`)
	if err != nil {
		return fmt.Errorf("failed to query cuisines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var recipeID int64
		var cuisine string
		if err := rows.Scan(&recipeID, &cuisine); err != nil {
			return fmt.Errorf("failed to scan cuisine: %w", err)
		}
		if i, ok := index[recipeID]; ok {
			recipes[i].CulturalTags = append(recipes[i].CulturalTags, mealplan.CulturalTag(cuisine))
		}
	}
	return rows.Err()
}

func (s *SQLiteStore) attachRatings(ctx context.Context, recipes []mealplan.Recipe, index map[int64]int) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT recipe_id, AVG(score) FROM ratings GROUP BY recipe_id`)
	if err != nil {
		return fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var recipeID int64
		var avg float64
		if err := rows.Scan(&recipeID, &avg); err != nil {
			return fmt.Errorf("failed to scan rating: %w", err)
		}
		if i, ok := index[recipeID]; ok {
			value := avg
			recipes[i].AvgRating = &value
		}
	}
	return rows.Err()
}

// GetRecipe 讀取單一食譜（含食材、標籤與平均評分）
func (s *SQLiteStore) GetRecipe(ctx context.Context, id int64) (*mealplan.Recipe, error) {
	recipes, err := s.ListRecipes(ctx)
	if err != nil {
		return nil, err
	}
	for i := range recipes {
		if recipes[i].ID == id {
			return &recipes[i], nil
		}
	}
	return nil, common.ErrRecipeNotFound
}

// RecordRating 追加一筆評分並遞增快照版本。
// 評分是 append-only，平均值在讀取時重新計算。
func (s *SQLiteStore) RecordRating(ctx context.Context, recipeID int64, score int) error {
	if score < 1 || score > 5 {
		return common.ErrInvalidRating
	}

	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM recipes WHERE id = ?`, recipeID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check recipe: %w", err)
	}
	if exists == 0 {
		return common.ErrRecipeNotFound
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO ratings (recipe_id, score) VALUES (?, ?)`, recipeID, score); err != nil {
		return fmt.Errorf("failed to insert rating: %w", err)
	}

	s.version.Add(1)
	return nil
}
