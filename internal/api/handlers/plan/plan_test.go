package plan

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"meal-planner/internal/core/export"
	"meal-planner/internal/core/mealplan"
	"meal-planner/internal/core/session"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct{}

func (f *fakeStore) ListRecipes(ctx context.Context) ([]mealplan.Recipe, error) {
	avg := 4.5
	return []mealplan.Recipe{
		{ID: 1, Name: "Tofu Curry", Slot: mealplan.SlotDinner,
			Ingredients:  []mealplan.RequiredIngredient{{IngredientID: 1, Name: "tofu", Category: "protein", Quantity: 150, Unit: "g"}},
			DietaryTags:  []mealplan.DietaryTag{mealplan.TagVegan},
			CulturalTags: []mealplan.CulturalTag{mealplan.CultureAsian},
			AvgRating:    &avg},
	}, nil
}

func (f *fakeStore) ListIngredients(ctx context.Context) ([]mealplan.Ingredient, error) {
	return []mealplan.Ingredient{{ID: 1, Name: "tofu", Category: "protein"}}, nil
}

func (f *fakeStore) ListSubstitutions(ctx context.Context) ([]mealplan.Substitution, error) {
	return nil, nil
}

func (f *fakeStore) Version() int64 { return 1 }

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sessions, err := session.NewStore(&config.SessionConfig{Enabled: false})
	require.NoError(t, err)
	t.Cleanup(func() { sessions.Close() })

	planner := mealplan.NewPlanner(&fakeStore{}, nil)
	delivery := export.NewClient(&config.DeliveryConfig{Enabled: false})
	handler := NewHandler(planner, sessions, delivery)

	router := gin.New()
	router.POST("/plan/generate", handler.HandleGenerate)
	router.GET("/plan/samples", handler.HandleListSamples)
	router.POST("/plan/samples/:culture", handler.HandleGenerateSample)
	router.GET("/plan/:id/export", handler.HandleExport)
	router.POST("/plan/import", handler.HandleImport)
	router.POST("/plan/:id/deliver", handler.HandleDeliver)
	return router
}

func doJSON(router *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleGenerate(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/plan/generate", []byte(`{"days":1,"dietary_preferences":["vegan"]}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var doc mealplan.ExportDocument
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.NotEmpty(t, doc.Metadata.PlanID)
	require.Len(t, doc.MealPlan.Days, 1)
	require.NotNil(t, doc.MealPlan.Days[0].Plan.Meals[mealplan.SlotDinner])
	assert.Equal(t, "Tofu Curry", doc.MealPlan.Days[0].Plan.Meals[mealplan.SlotDinner].Name)
}

func TestHandleGenerateRejectsUnknownTag(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/plan/generate", []byte(`{"days":1,"dietary_preferences":["keto"]}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleGenerateRejectsBadDays(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/plan/generate", []byte(`{"days":31}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportImportOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	// 產生並匯出
	w := doJSON(router, http.MethodPost, "/plan/generate", []byte(`{"days":1}`))
	require.Equal(t, http.StatusOK, w.Code)
	var doc mealplan.ExportDocument
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))

	exported := doJSON(router, http.MethodGet, "/plan/"+doc.Metadata.PlanID+"/export", nil)
	require.Equal(t, http.StatusOK, exported.Code)
	assert.Contains(t, exported.Header().Get("Content-Disposition"), doc.Metadata.PlanID)

	// 匯出的文件可原樣匯入
	imported := doJSON(router, http.MethodPost, "/plan/import", exported.Body.Bytes())
	require.Equal(t, http.StatusOK, imported.Code, imported.Body.String())

	var restored mealplan.ExportDocument
	require.NoError(t, json.Unmarshal(imported.Body.Bytes(), &restored))
	assert.Equal(t, doc.MealPlan, restored.MealPlan)
	assert.Equal(t, doc.Nutrition, restored.Nutrition)
}

func TestHandleExportMissingPlan(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/plan/nonexistent/export", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleImportRejectsGarbage(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/plan/import", []byte(`{"meal_plan":{"days":[]}}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleSamples(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/plan/samples", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Asian")
	assert.Contains(t, w.Body.String(), "Middle Eastern")

	sample := doJSON(router, http.MethodPost, "/plan/samples/Asian", nil)
	require.Equal(t, http.StatusOK, sample.Code)

	var doc mealplan.ExportDocument
	require.NoError(t, json.Unmarshal(sample.Body.Bytes(), &doc))
	assert.True(t, doc.Metadata.SamplePlan)
	assert.Equal(t, "Asian", doc.Metadata.Culture)

	bad := doJSON(router, http.MethodPost, "/plan/samples/Martian", nil)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestHandleDeliverDisabled(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/plan/generate", []byte(`{"days":1}`))
	require.Equal(t, http.StatusOK, w.Code)
	var doc mealplan.ExportDocument
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))

	deliver := doJSON(router, http.MethodPost, "/plan/"+doc.Metadata.PlanID+"/deliver", nil)
	assert.Equal(t, http.StatusServiceUnavailable, deliver.Code,
		"disabled delivery is a configuration state, not an upstream failure")

	var body map[string]string
	require.NoError(t, json.Unmarshal(deliver.Body.Bytes(), &body))
	assert.Equal(t, common.ErrCodeDeliveryDisabled, body["code"])
}
