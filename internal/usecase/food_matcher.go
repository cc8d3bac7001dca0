package usecase

import (
	"context"
	"log"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/JoudMawad/Ignite-sub000/internal/domain"
)

var (
	punctuationPattern = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	multiSpacePattern  = regexp.MustCompile(`\s+`)

	// Matches package sizes in product names: "500 g", "1,5 l", "12 oz", "6 pack"
	packageSizePattern = regexp.MustCompile(
		`(?i)\b\d+(?:[.,]\d+)?\s*(?:fl\s*oz|oz|ml|l|liters?|kg|g|grams?|lbs?|ct|pack|stk)\b`,
	)
)

// Scoring weights
const (
	productCoverageWeight = 0.60
	usdaCoverageWeight    = 0.20
	jaccardWeight         = 0.20
	brandMatchBonus       = 15.0
	substringMatchBonus   = 10.0
	defaultMinConfidence  = 40.0
)

// stopWords are dropped before token comparison
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "of": true,
	"with": true, "in": true, "for": true, "und": true, "mit": true, "der": true,
	"die": true, "das": true, "oz": true, "fl": true, "ml": true, "kg": true,
	"pack": true, "ct": true, "count": true, "size": true, "value": true,
}

// FoodMatcher picks the USDA food that best matches a lookup
type FoodMatcher struct {
	minConfidence      float64
	enableDebugLogging bool
}

// NewFoodMatcher creates a matcher. A non-positive minConfidence uses 40.
func NewFoodMatcher(minConfidence float64, enableDebugLogging bool) *FoodMatcher {
	if minConfidence <= 0 {
		minConfidence = defaultMinConfidence
	}
	return &FoodMatcher{
		minConfidence:      minConfidence,
		enableDebugLogging: enableDebugLogging,
	}
}

// BestMatch scores every candidate and returns the highest one.
// The match is returned together with ErrLowConfidence when it scores below the threshold.
func (m *FoodMatcher) BestMatch(
	ctx context.Context,
	request *domain.FoodLookupRequest,
	foods []domain.USDAFood,
) (*domain.MatchResult, error) {
	if request == nil || strings.TrimSpace(request.ProductName) == "" {
		return nil, domain.ErrInvalidRequest
	}
	if len(foods) == 0 {
		return nil, domain.ErrProductNotFound
	}

	var best *domain.MatchResult
	for _, food := range foods {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		score, matched := scoreFood(request.ProductName, request.Brand, food)
		if m.enableDebugLogging {
			log.Printf("[MATCH] %q | %s | score %.1f | matched %v", food.Description, food.DataType, score, matched)
		}

		if best == nil || score > best.MatchScore {
			best = &domain.MatchResult{
				FdcID:         strconv.Itoa(food.FdcID),
				Description:   food.Description,
				MatchScore:    score,
				MatchedTokens: matched,
			}
		}
	}

	if best.MatchScore < m.minConfidence {
		return best, domain.ErrLowConfidence
	}
	return best, nil
}

// scoreFood rates a USDA food against a product name on a 0-100 scale.
// Coverage of the product's tokens dominates; the USDA description's own coverage and the
// Jaccard index refine it, and brand or substring matches add bonuses.
func scoreFood(productName, brand string, food domain.USDAFood) (float64, []string) {
	cleaned := cleanFoodName(productName)
	productTokens := tokenize(cleaned)
	usdaTokens := tokenize(food.Description)
	if len(productTokens) == 0 || len(usdaTokens) == 0 {
		return 0, nil
	}

	usdaSet := toSet(usdaTokens)
	productSet := toSet(productTokens)

	var matched []string
	for t := range productSet {
		if usdaSet[t] {
			matched = append(matched, t)
		}
	}

	union := len(productSet) + len(usdaSet) - len(matched)
	score := (float64(len(matched))/float64(len(productSet))*productCoverageWeight +
		float64(len(matched))/float64(len(usdaSet))*usdaCoverageWeight +
		float64(len(matched))/float64(union)*jaccardWeight) * 100

	usdaLower := strings.ToLower(food.Description + " " + food.BrandOwner)
	if brand != "" && strings.Contains(usdaLower, strings.ToLower(brand)) {
		score += brandMatchBonus
	}

	productLower := strings.ToLower(cleaned)
	descLower := strings.ToLower(food.Description)
	if len(productLower) > 3 && (strings.Contains(descLower, productLower) || strings.Contains(productLower, descLower)) {
		score += substringMatchBonus
	}

	if score > 100 {
		score = 100
	}
	return score, sortedTokens(matched)
}

// cleanFoodName keeps the text before the first comma and strips package sizes
func cleanFoodName(name string) string {
	if idx := strings.Index(name, ","); idx > 0 {
		name = name[:idx]
	}
	name = packageSizePattern.ReplaceAllString(name, " ")
	name = multiSpacePattern.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// tokenize lower-cases s, drops punctuation, stop words, single characters and bare numbers
func tokenize(s string) []string {
	cleaned := punctuationPattern.ReplaceAllString(strings.ToLower(s), " ")

	var tokens []string
	for _, word := range strings.Fields(cleaned) {
		if len([]rune(word)) <= 1 || stopWords[word] {
			continue
		}
		if _, err := strconv.Atoi(word); err == nil {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

func toSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return set
}

// sortedTokens gives matched tokens a stable order for responses and tests
func sortedTokens(tokens []string) []string {
	slices.Sort(tokens)
	return tokens
}
