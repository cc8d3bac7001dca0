package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/JoudMawad/Ignite-sub000/internal/domain"
	"github.com/JoudMawad/Ignite-sub000/internal/infrastructure/usda"
)

const defaultCacheTTL = 720 * time.Hour // 30 days

// FoodServiceConfig holds configuration for the food lookup service
type FoodServiceConfig struct {
	CacheTTL           time.Duration
	MinConfidence      float64
	EnableDebugLogging bool
}

// FoodService looks up nutrition for a food by name, so a manual entry can be pre-filled
// without a label photo
type FoodService struct {
	cache              domain.CacheRepository
	usdaClient         domain.USDAClient
	matcher            *FoodMatcher
	cacheTTL           time.Duration
	enableDebugLogging bool
}

// NewFoodService creates a new food service. usdaClient may be nil when no API key is
// configured; lookups then fail with ErrLookupUnavailable.
func NewFoodService(
	cache domain.CacheRepository,
	usdaClient domain.USDAClient,
	config FoodServiceConfig,
) *FoodService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = defaultCacheTTL
	}

	return &FoodService{
		cache:              cache,
		usdaClient:         usdaClient,
		matcher:            NewFoodMatcher(config.MinConfidence, config.EnableDebugLogging),
		cacheTTL:           cacheTTL,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// LookupFood finds nutrition data for a food name.
// Flow: check cache -> search USDA -> match best result -> cache -> return.
// A low-confidence match is returned together with ErrLowConfidence and is not cached.
func (s *FoodService) LookupFood(
	ctx context.Context,
	request *domain.FoodLookupRequest,
) (*domain.NutritionData, error) {
	if request == nil || strings.TrimSpace(request.ProductName) == "" {
		return nil, domain.ErrInvalidRequest
	}
	if s.usdaClient == nil {
		return nil, domain.ErrLookupUnavailable
	}

	cacheKey := foodCacheKey(request)
	if cached, ok := s.fromCache(ctx, cacheKey); ok {
		return cached, nil
	}

	searchResult, err := s.usdaClient.SearchFoods(ctx, buildFoodQuery(request))
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) || errors.Is(err, domain.ErrUSDAAPIFailure) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUSDAAPIFailure, err)
	}

	match, err := s.matcher.BestMatch(ctx, request, searchResult.Foods)
	if err != nil && !(errors.Is(err, domain.ErrLowConfidence) && match != nil) {
		return nil, err
	}

	data := matchedNutrition(searchResult.Foods, match)
	if data == nil {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return data, err
	}

	data.CachedAt = time.Now()
	if cacheErr := s.cache.Set(ctx, cacheKey, data, s.cacheTTL); cacheErr != nil {
		log.Printf("[FOOD] Failed to cache %q: %v", cacheKey, cacheErr)
	}

	// Callers get their own copy so the cached value stays untouched
	result := *data
	return &result, nil
}

func (s *FoodService) fromCache(ctx context.Context, key string) (*domain.NutritionData, bool) {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			log.Printf("[FOOD] Cache read failed for %q: %v", key, err)
		}
		return nil, false
	}

	data, ok := value.(*domain.NutritionData)
	if !ok {
		return nil, false
	}

	if s.enableDebugLogging {
		log.Printf("[FOOD] Cache hit: %s", key)
	}
	result := *data
	result.Source = "Cache"
	return &result, true
}

// foodCacheKey creates a normalized cache key. Format: "food:{name}:{brand}"
func foodCacheKey(request *domain.FoodLookupRequest) string {
	return fmt.Sprintf("food:%s:%s", normalizeKeyPart(request.ProductName), normalizeKeyPart(request.Brand))
}

func normalizeKeyPart(s string) string {
	s = punctuationPattern.ReplaceAllString(strings.ToLower(s), "")
	s = multiSpacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// buildFoodQuery strips package sizes and prepends the brand when the name lacks it
func buildFoodQuery(request *domain.FoodLookupRequest) string {
	name := cleanFoodName(request.ProductName)
	if request.Brand != "" && !strings.Contains(strings.ToLower(name), strings.ToLower(request.Brand)) {
		name = request.Brand + " " + name
	}
	return strings.TrimSpace(name)
}

func matchedNutrition(foods []domain.USDAFood, match *domain.MatchResult) *domain.NutritionData {
	for i := range foods {
		if strconv.Itoa(foods[i].FdcID) == match.FdcID {
			return usda.MapToNutritionData(&foods[i], match.MatchScore)
		}
	}
	return nil
}
