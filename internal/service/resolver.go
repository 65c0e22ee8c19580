package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/miru/channelpulse-go/internal/constants"
	"github.com/miru/channelpulse-go/internal/service/cache"
	"github.com/miru/channelpulse-go/internal/util"
	"github.com/miru/channelpulse-go/pkg/errors"
	"go.uber.org/zap"
)

// ChannelSearcher is the slice of the fetch client the resolver needs.
type ChannelSearcher interface {
	SearchChannels(ctx context.Context, query string) ([]SearchResult, error)
}

// ResolverService maps user input (channel ID, @handle, or free text) to a
// channel ID. Free text goes through search with exact-title preference;
// handles fall back to scraping the channel page when the API pool is out.
type ResolverService struct {
	searcher   ChannelSearcher
	cache      *cache.CacheService
	httpClient *http.Client
	logger     *zap.Logger
}

func NewResolverService(searcher ChannelSearcher, cacheSvc *cache.CacheService, logger *zap.Logger) *ResolverService {
	return &ResolverService{
		searcher: searcher,
		cache:    cacheSvc,
		httpClient: &http.Client{
			Timeout: constants.YouTubeConfig.RequestTimeout,
		},
		logger: logger,
	}
}

// Resolve returns the channel ID, or the handle to pass through a forHandle
// lookup. The second return value reports whether the result is a raw ID.
// Full channel URLs are accepted: /channel/UC... URLs yield the embedded ID,
// /@handle URLs yield the handle, and anything else is retried once with the
// query string and fragment stripped.
func (rs *ResolverService) Resolve(ctx context.Context, query string) (string, bool, error) {
	return rs.resolve(ctx, query, true)
}

func (rs *ResolverService) resolve(ctx context.Context, query string, retryStripped bool) (string, bool, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", false, errors.NewValidationError("query must not be empty", "query", query)
	}

	if IsChannelID(query) {
		return query, true, nil
	}

	if isChannelURL(query) {
		if id := channelIDFromURL(query); id != "" {
			return id, true, nil
		}
		if handle := handleFromURL(query); handle != "" {
			return handle, false, nil
		}
		if stripped := stripURLExtras(query); retryStripped && stripped != query {
			return rs.resolve(ctx, stripped, false)
		}
		return "", false, errors.NewResolutionError("unrecognized channel URL", query, nil)
	}

	// Handles resolve through forHandle in the fetch client, no search needed
	if strings.HasPrefix(query, "@") || looksLikeHandle(query) {
		return query, false, nil
	}

	channelID, err := rs.resolveByName(ctx, query)
	if err != nil {
		return "", false, err
	}
	return channelID, true, nil
}

func isChannelURL(raw string) bool {
	return strings.Contains(raw, "youtube.com/") || strings.Contains(raw, "youtu.be/")
}

// handleFromURL extracts "@handle" from a youtube.com/@handle URL.
func handleFromURL(raw string) string {
	idx := strings.Index(raw, "/@")
	if idx < 0 {
		return ""
	}
	handle := raw[idx+1:]
	if cut := strings.IndexAny(handle, "/?#"); cut >= 0 {
		handle = handle[:cut]
	}
	if len(handle) < 2 {
		return ""
	}
	return handle
}

func stripURLExtras(raw string) string {
	if cut := strings.IndexAny(raw, "?#"); cut >= 0 {
		raw = raw[:cut]
	}
	return strings.TrimSuffix(raw, "/")
}

// looksLikeHandle treats single tokens without spaces as handle candidates.
func looksLikeHandle(query string) bool {
	if strings.ContainsAny(query, " \t") {
		return false
	}
	return len(query) >= 3
}

func (rs *ResolverService) resolveByName(ctx context.Context, query string) (string, error) {
	cacheKey := fmt.Sprintf("resolve:name:%s", util.Normalize(query))
	if rs.cache != nil {
		var cached string
		if err := rs.cache.Get(ctx, cacheKey, &cached); err == nil && cached != "" {
			rs.logger.Debug("Resolver cache hit", zap.String("query", query))
			return cached, nil
		}
	}

	results, err := rs.searcher.SearchChannels(ctx, query)
	if err != nil {
		return "", errors.NewResolutionError("channel search failed", query, err)
	}
	if len(results) == 0 {
		return "", errors.NewResolutionError("no channel matched the query", query, nil)
	}

	channelID := rankSearchResults(query, results)

	if rs.cache != nil {
		_ = rs.cache.Set(ctx, cacheKey, channelID, constants.CacheTTL.ChannelSearch)
	}
	return channelID, nil
}

// rankSearchResults prefers an exact title match, then a title substring,
// then a description substring, then the first result.
func rankSearchResults(query string, results []SearchResult) string {
	normalized := util.Normalize(query)

	for _, r := range results {
		if util.Normalize(r.Title) == normalized {
			return r.ChannelID
		}
	}
	for _, r := range results {
		if strings.Contains(util.Normalize(r.Title), normalized) {
			return r.ChannelID
		}
	}
	for _, r := range results {
		if strings.Contains(util.Normalize(r.Description), normalized) {
			return r.ChannelID
		}
	}
	return results[0].ChannelID
}

// ResolveHandleByScrape extracts a channel ID from the public channel page.
// Best-effort escape hatch for when every API key is exhausted.
func (rs *ResolverService) ResolveHandleByScrape(ctx context.Context, handle string) (string, error) {
	handle = strings.TrimPrefix(strings.TrimSpace(handle), "@")
	if handle == "" {
		return "", errors.NewValidationError("handle must not be empty", "handle", handle)
	}

	cacheKey := fmt.Sprintf("resolve:scrape:%s", util.Normalize(handle))
	if rs.cache != nil {
		var cached string
		if err := rs.cache.Get(ctx, cacheKey, &cached); err == nil && cached != "" {
			return cached, nil
		}
	}

	pageURL := fmt.Sprintf("https://www.youtube.com/@%s", handle)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; channelpulse/1.0)")

	resp, err := rs.httpClient.Do(req)
	if err != nil {
		return "", errors.NewResolutionError("channel page fetch failed", handle, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.NewResolutionError(
			fmt.Sprintf("channel page returned status %d", resp.StatusCode), handle, nil)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", errors.NewResolutionError("channel page parse failed", handle, err)
	}

	channelID := channelIDFromPage(doc)
	if channelID == "" {
		return "", errors.NewResolutionError("channel ID not found on page", handle, nil)
	}

	rs.logger.Info("Handle resolved by page scrape (fallback)",
		zap.String("handle", handle),
		zap.String("channel_id", channelID),
	)
	if rs.cache != nil {
		_ = rs.cache.Set(ctx, cacheKey, channelID, constants.CacheTTL.ResolvedHandle)
	}
	return channelID, nil
}

func channelIDFromPage(doc *goquery.Document) string {
	// The canonical link and og:url both carry /channel/UC...
	if href, ok := doc.Find(`link[rel="canonical"]`).Attr("href"); ok {
		if id := channelIDFromURL(href); id != "" {
			return id
		}
	}
	if content, ok := doc.Find(`meta[property="og:url"]`).Attr("content"); ok {
		if id := channelIDFromURL(content); id != "" {
			return id
		}
	}
	if content, ok := doc.Find(`meta[itemprop="identifier"]`).Attr("content"); ok && IsChannelID(content) {
		return content
	}
	return ""
}

func channelIDFromURL(raw string) string {
	const marker = "/channel/"
	idx := strings.Index(raw, marker)
	if idx < 0 {
		return ""
	}
	id := raw[idx+len(marker):]
	if cut := strings.IndexAny(id, "/?#"); cut >= 0 {
		id = id[:cut]
	}
	if IsChannelID(id) {
		return id
	}
	return ""
}
