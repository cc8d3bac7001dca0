package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"time"

	"github.com/JoudMawad/Ignite-sub000/internal/domain"
	"github.com/google/uuid"
)

const defaultMaxTextBytes = 64 * 1024

// LabelServiceConfig holds configuration for the label scan service
type LabelServiceConfig struct {
	CacheTTL           time.Duration
	MaxTextBytes       int
	EnableDebugLogging bool
}

// LabelService turns OCR text from a label photo into facts for a food entry
type LabelService struct {
	cache              domain.CacheRepository
	parser             *LabelParser
	cacheTTL           time.Duration
	maxTextBytes       int
	enableDebugLogging bool
	now                func() time.Time
}

// NewLabelService creates a new label scan service
func NewLabelService(cache domain.CacheRepository, config LabelServiceConfig) *LabelService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = defaultCacheTTL
	}
	maxTextBytes := config.MaxTextBytes
	if maxTextBytes <= 0 {
		maxTextBytes = defaultMaxTextBytes
	}

	return &LabelService{
		cache:              cache,
		parser:             NewLabelParser(config.EnableDebugLogging),
		cacheTTL:           cacheTTL,
		maxTextBytes:       maxTextBytes,
		enableDebugLogging: config.EnableDebugLogging,
		now:                time.Now,
	}
}

// ScanLabel parses the request text. Empty or unreadable text is not an error: the result
// simply has no facts set. Debug requests bypass the cache so the trace is always fresh.
func (s *LabelService) ScanLabel(ctx context.Context, request *domain.LabelScanRequest) (*domain.LabelScanResult, error) {
	if request == nil {
		return nil, domain.ErrInvalidRequest
	}
	if len(request.Text) > s.maxTextBytes {
		return nil, domain.ErrTextTooLarge
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cacheKey := labelCacheKey(request.Text)
	if !request.Debug {
		if cached, ok := s.fromCache(ctx, cacheKey); ok {
			return cached, nil
		}
	}

	facts, trace := s.parser.ParseWithTrace(request.Text)
	result := &domain.LabelScanResult{
		ScanID:   uuid.NewString(),
		Facts:    facts,
		Source:   "Parser",
		ParsedAt: s.now(),
	}

	// Only the trace-free result is shared through the cache, with its own facts
	cached := *result
	cached.Facts = result.Facts.Clone()
	if err := s.cache.Set(ctx, cacheKey, &cached, s.cacheTTL); err != nil {
		log.Printf("[LABEL] Failed to cache scan %s: %v", result.ScanID, err)
	}

	if request.Debug {
		result.Trace = trace
	}
	return result, nil
}

func (s *LabelService) fromCache(ctx context.Context, key string) (*domain.LabelScanResult, bool) {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			log.Printf("[LABEL] Cache read failed: %v", err)
		}
		return nil, false
	}

	cached, ok := value.(*domain.LabelScanResult)
	if !ok {
		return nil, false
	}

	if s.enableDebugLogging {
		log.Printf("[LABEL] Cache hit for scan %s", cached.ScanID)
	}
	result := *cached
	result.Facts = cached.Facts.Clone()
	result.Source = "Cache"
	return &result, true
}

// labelCacheKey keys scans by the SHA-256 of the raw text. Format: "label:{hex}"
func labelCacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "label:" + hex.EncodeToString(sum[:])
}
