package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/JoudMawad/Ignite-sub000/config"
	"github.com/JoudMawad/Ignite-sub000/internal/domain"
	"github.com/JoudMawad/Ignite-sub000/internal/infrastructure/cache"
	"github.com/JoudMawad/Ignite-sub000/internal/infrastructure/usda"
	"github.com/JoudMawad/Ignite-sub000/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"capacitor://localhost", "http://localhost:*"},
		},
		Cache:     config.CacheConfig{Type: "memory"},
		RateLimit: config.RateLimitConfig{PerIP: 1000},
		Parser:    config.ParserConfig{MaxTextBytes: 256},
	}
}

// setupTestRouter wires the real services; usdaServer may be nil to run without food lookup
func setupTestRouter(t *testing.T, usdaServer *httptest.Server) *gin.Engine {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	memoryCache := cache.NewMemoryCache(ctx, 0)

	var usdaClient domain.USDAClient
	if usdaServer != nil {
		usdaClient = usda.NewClient("test-api-key", usdaServer.URL, 3600*1000)
	}

	labels := usecase.NewLabelService(memoryCache, usecase.LabelServiceConfig{MaxTextBytes: 256})
	foods := usecase.NewFoodService(memoryCache, usdaClient, usecase.FoodServiceConfig{MinConfidence: 40})

	return SetupRouter(testConfig(), NewHandler(labels, foods))
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), "body: %s", w.Body.String())
	return response
}

func TestHealthCheckEndpoint(t *testing.T) {
	router := setupTestRouter(t, nil)

	t.Run("returns healthy status", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusOK, w.Code)
		response := decode(t, w)
		assert.Equal(t, "healthy", response["status"])
		assert.Equal(t, "ignite-backend", response["service"])
		assert.Equal(t, Version, response["version"])
	})

	t.Run("accepts GET requests only", func(t *testing.T) {
		for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
			w := doJSON(router, method, "/health", "")
			assert.Equal(t, http.StatusNotFound, w.Code, "method %s", method)
		}
	})
}

func TestParseLabelEndpoint(t *testing.T) {
	label := `{"text":"Brennwert\n250 kcal\nFett\n10 g\ndavon gesättigte Fettsäuren\n3 g\nKohlenhydrate\n20 g\nEiweiß\n5 g"}`

	t.Run("returns parsed facts", func(t *testing.T) {
		router := setupTestRouter(t, nil)

		w := doJSON(router, http.MethodPost, "/api/v1/labels/parse", label)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var result domain.LabelScanResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, "Parser", result.Source)
		assert.NotEmpty(t, result.ScanID)
		assert.Nil(t, result.Trace)
		require.NotNil(t, result.Facts.Calories)
		assert.Equal(t, 250, *result.Facts.Calories)
		require.NotNil(t, result.Facts.Fat)
		assert.Equal(t, 10.0, *result.Facts.Fat)
		require.NotNil(t, result.Facts.Carbs)
		assert.Equal(t, 20.0, *result.Facts.Carbs)
		require.NotNil(t, result.Facts.Protein)
		assert.Equal(t, 5.0, *result.Facts.Protein)
	})

	t.Run("repeated text is served from cache", func(t *testing.T) {
		router := setupTestRouter(t, nil)

		doJSON(router, http.MethodPost, "/api/v1/labels/parse", label)
		w := doJSON(router, http.MethodPost, "/api/v1/labels/parse", label)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Cache", decode(t, w)["source"])
	})

	t.Run("debug query adds the trace", func(t *testing.T) {
		router := setupTestRouter(t, nil)

		w := doJSON(router, http.MethodPost, "/api/v1/labels/parse?debug=true", label)

		require.Equal(t, http.StatusOK, w.Code)
		trace, ok := decode(t, w)["trace"].(map[string]interface{})
		require.True(t, ok, "trace missing")
		assert.Len(t, trace["rows"], 5)
		assert.Len(t, trace["steps"], 5)
	})

	t.Run("empty text gives empty facts", func(t *testing.T) {
		router := setupTestRouter(t, nil)

		w := doJSON(router, http.MethodPost, "/api/v1/labels/parse", `{"text":""}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, map[string]interface{}{}, decode(t, w)["facts"])
	})

	t.Run("missing text field", func(t *testing.T) {
		router := setupTestRouter(t, nil)

		w := doJSON(router, http.MethodPost, "/api/v1/labels/parse", `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NotEmpty(t, decode(t, w)["requestId"])
	})

	t.Run("invalid JSON", func(t *testing.T) {
		router := setupTestRouter(t, nil)

		w := doJSON(router, http.MethodPost, "/api/v1/labels/parse", `{"text":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("text over the configured limit", func(t *testing.T) {
		router := setupTestRouter(t, nil)

		w := doJSON(router, http.MethodPost, "/api/v1/labels/parse", `{"text":"`+strings.Repeat("x", 300)+`"}`)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("oversized body is rejected before decoding", func(t *testing.T) {
		router := setupTestRouter(t, nil)
		body := `{"text":"` + strings.Repeat("x", 4096) + `"}`

		w := doJSON(router, http.MethodPost, "/api/v1/labels/parse", body)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, domain.ErrTextTooLarge.Error(), decode(t, w)["error"])
	})

	t.Run("oversized body without content length", func(t *testing.T) {
		router := setupTestRouter(t, nil)
		body := `{"text":"` + strings.Repeat("x", 4096) + `"}`

		req := httptest.NewRequest(http.MethodPost, "/api/v1/labels/parse", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.ContentLength = -1
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("no scanner configured", func(t *testing.T) {
		router := SetupRouter(testConfig(), NewHandler(nil, nil))

		w := doJSON(router, http.MethodPost, "/api/v1/labels/parse", label)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func fakeUSDA(t *testing.T, status int, response *domain.USDASearchResponse) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestSearchFoodEndpoint(t *testing.T) {
	milk := &domain.USDASearchResponse{
		Foods: []domain.USDAFood{
			{
				FdcID:       746782,
				Description: "Milk, whole",
				Nutrients: []domain.USDANutrient{
					{NutrientID: usda.NutrientIDEnergy, Value: 61},
					{NutrientID: usda.NutrientIDProtein, Value: 3.3},
					{NutrientID: usda.NutrientIDCarbohydrate, Value: 4.6},
					{NutrientID: usda.NutrientIDTotalFat, Value: 3.2},
				},
			},
		},
	}

	t.Run("returns nutrition data and facts", func(t *testing.T) {
		router := setupTestRouter(t, fakeUSDA(t, http.StatusOK, milk))

		w := doJSON(router, http.MethodPost, "/api/v1/foods/search", `{"productName":"whole milk"}`)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		response := decode(t, w)
		data := response["data"].(map[string]interface{})
		assert.Equal(t, "746782", data["fdcId"])
		assert.Equal(t, "USDA", data["source"])
		facts := response["facts"].(map[string]interface{})
		assert.Equal(t, 61.0, facts["calories"])
		assert.Nil(t, response["warning"])
	})

	t.Run("returns low confidence warning with data", func(t *testing.T) {
		router := setupTestRouter(t, fakeUSDA(t, http.StatusOK, milk))

		w := doJSON(router, http.MethodPost, "/api/v1/foods/search", `{"productName":"rye bread"}`)

		require.Equal(t, http.StatusOK, w.Code)
		response := decode(t, w)
		assert.NotNil(t, response["data"])
		assert.Equal(t, domain.ErrLowConfidence.Error(), response["warning"])
	})

	t.Run("returns 400 for missing productName", func(t *testing.T) {
		router := setupTestRouter(t, fakeUSDA(t, http.StatusOK, milk))

		w := doJSON(router, http.MethodPost, "/api/v1/foods/search", `{"brand":"x"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("returns 404 when no products found", func(t *testing.T) {
		router := setupTestRouter(t, fakeUSDA(t, http.StatusOK, &domain.USDASearchResponse{}))

		w := doJSON(router, http.MethodPost, "/api/v1/foods/search", `{"productName":"unobtainium"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("returns 502 for USDA API failure", func(t *testing.T) {
		server := fakeUSDA(t, http.StatusInternalServerError, nil)
		ctx, cancel := context.WithCancel(context.Background())
		t.Cleanup(cancel)
		client := usda.NewClient("k", server.URL, 3600*1000)
		foods := usecase.NewFoodService(cache.NewMemoryCache(ctx, 0), client, usecase.FoodServiceConfig{})
		router := SetupRouter(testConfig(), NewHandler(nil, foods))

		w := doJSON(router, http.MethodPost, "/api/v1/foods/search", `{"productName":"milk"}`)

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("returns 503 without a USDA key", func(t *testing.T) {
		router := setupTestRouter(t, nil)

		w := doJSON(router, http.MethodPost, "/api/v1/foods/search", `{"productName":"milk"}`)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestCORSIntegration(t *testing.T) {
	router := setupTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "capacitor://localhost")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "capacitor://localhost", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRecoveryMiddleware(t *testing.T) {
	router := setupTestRouter(t, nil)
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := doJSON(router, http.MethodGet, "/panic", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
