package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/miru/channelpulse-go/internal/constants"
	"github.com/miru/channelpulse-go/internal/domain"
	"github.com/miru/channelpulse-go/internal/metrics"
	"github.com/miru/channelpulse-go/internal/util"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	apperrors "github.com/miru/channelpulse-go/pkg/errors"
)

var channelIDPattern = regexp.MustCompile(`^UC[\w-]{22}$`)

// IsChannelID reports whether the input is a raw channel ID.
func IsChannelID(input string) bool {
	return channelIDPattern.MatchString(input)
}

// errEmptyResponse marks an API call that succeeded but returned nothing.
// The upstream API sometimes serves empty pages on a throttled key, so it
// rotates like a key failure.
var errEmptyResponse = fmt.Errorf("empty API response")

// YouTubeService is the rate-limited fetch client over the YouTube Data API.
// Every call runs through the key pool and the shared circuit breaker.
type YouTubeService struct {
	keyPool *KeyPool
	breaker *util.CircuitBreaker
	logger  *zap.Logger

	mu       sync.Mutex
	services map[string]*youtube.Service
}

func NewYouTubeService(apiKeys []string, logger *zap.Logger) (*YouTubeService, error) {
	keyPool, err := NewKeyPool("youtube", apiKeys, classifyYouTubeError, logger)
	if err != nil {
		return nil, err
	}

	ys := &YouTubeService{
		keyPool:  keyPool,
		logger:   logger,
		services: make(map[string]*youtube.Service),
	}
	ys.breaker = util.NewCircuitBreaker(
		constants.CircuitBreakerConfig.FailureThreshold,
		constants.CircuitBreakerConfig.ResetTimeout,
		constants.CircuitBreakerConfig.HealthCheckInterval,
		nil,
		logger,
	)

	logger.Info("YouTube service initialized", zap.Int("api_keys", keyPool.Size()))
	return ys, nil
}

func classifyYouTubeError(err error) bool {
	var apiErr *googleapi.Error
	if stderrors.As(err, &apiErr) {
		return IsKeyLevelFailure(apiErr.Code, apiErr.Message)
	}
	return stderrors.Is(err, errEmptyResponse)
}

func (ys *YouTubeService) serviceForKey(ctx context.Context, apiKey string) (*youtube.Service, error) {
	ys.mu.Lock()
	defer ys.mu.Unlock()

	if svc, ok := ys.services[apiKey]; ok {
		return svc, nil
	}
	svc, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube client: %w", err)
	}
	ys.services[apiKey] = svc
	return svc, nil
}

// execute runs one API call through the circuit breaker and key pool.
func (ys *YouTubeService) execute(ctx context.Context, operation string, call func(ctx context.Context, svc *youtube.Service) error) error {
	if !ys.breaker.CanExecute() {
		status := ys.breaker.GetStatus()
		return apperrors.NewAPIError("YouTube circuit breaker open", 503, map[string]any{
			"operation":     operation,
			"failure_count": status.FailureCount,
		})
	}

	err := ys.keyPool.Execute(ctx, operation, func(ctx context.Context, apiKey string) error {
		svc, serr := ys.serviceForKey(ctx, apiKey)
		if serr != nil {
			return serr
		}
		callCtx, cancel := context.WithTimeout(ctx, constants.YouTubeConfig.RequestTimeout)
		defer cancel()
		return call(callCtx, svc)
	})

	if err != nil {
		timeout := time.Duration(0)
		var apiErr *googleapi.Error
		if stderrors.As(err, &apiErr) && apiErr.Code == 429 {
			timeout = constants.CircuitBreakerConfig.RateLimitTimeout
		}
		ys.breaker.RecordFailure(timeout)
		return err
	}

	ys.breaker.RecordSuccess()
	return nil
}

// FetchChannel looks up a channel by raw ID or handle.
func (ys *YouTubeService) FetchChannel(ctx context.Context, idOrHandle string) (*domain.Channel, error) {
	var channel *domain.Channel

	err := ys.execute(ctx, "channels.list", func(ctx context.Context, svc *youtube.Service) error {
		call := svc.Channels.List([]string{"snippet", "statistics", "contentDetails", "brandingSettings"})
		if IsChannelID(idOrHandle) {
			call = call.Id(idOrHandle)
		} else {
			call = call.ForHandle(strings.TrimPrefix(idOrHandle, "@"))
		}

		resp, err := call.Context(ctx).Do()
		if err != nil {
			return err
		}
		if len(resp.Items) == 0 {
			return errEmptyResponse
		}

		channel = channelFromAPI(resp.Items[0])
		return nil
	})
	if err != nil {
		return nil, err
	}

	ys.logger.Info("Channel fetched",
		zap.String("channel_id", channel.ID),
		zap.String("title", channel.Title),
		zap.Uint64("subscribers", channel.SubscriberCount),
	)
	return channel, nil
}

// FetchUploadIDs pages through the channel's uploads playlist, collecting up
// to MaxVideoIDs video IDs.
func (ys *YouTubeService) FetchUploadIDs(ctx context.Context, channelID string) ([]string, error) {
	playlistID, err := ys.uploadsPlaylistID(ctx, channelID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, constants.YouTubeConfig.MaxVideoIDs)
	pageToken := ""

	for {
		var resp *youtube.PlaylistItemListResponse
		err := ys.execute(ctx, "playlistItems.list", func(ctx context.Context, svc *youtube.Service) error {
			call := svc.PlaylistItems.List([]string{"contentDetails"}).
				PlaylistId(playlistID).
				MaxResults(constants.YouTubeConfig.PlaylistPageSize)
			if pageToken != "" {
				call = call.PageToken(pageToken)
			}
			r, err := call.Context(ctx).Do()
			if err != nil {
				return err
			}
			resp = r
			return nil
		})
		if err != nil {
			// Keep whatever pages already arrived
			if len(ids) > 0 {
				ys.logger.Warn("Upload listing stopped early",
					zap.String("channel_id", channelID),
					zap.Int("ids", len(ids)),
					zap.Error(err),
				)
				return ids, nil
			}
			return nil, err
		}

		for _, item := range resp.Items {
			if item.ContentDetails != nil && item.ContentDetails.VideoId != "" {
				ids = append(ids, item.ContentDetails.VideoId)
			}
		}

		pageToken = resp.NextPageToken
		if pageToken == "" || len(ids) >= constants.YouTubeConfig.MaxVideoIDs {
			break
		}
	}

	if len(ids) > constants.YouTubeConfig.MaxVideoIDs {
		ids = ids[:constants.YouTubeConfig.MaxVideoIDs]
	}

	ys.logger.Info("Upload IDs collected",
		zap.String("channel_id", channelID),
		zap.Int("count", len(ids)),
	)
	return ids, nil
}

func (ys *YouTubeService) uploadsPlaylistID(ctx context.Context, channelID string) (string, error) {
	var playlistID string
	err := ys.execute(ctx, "channels.contentDetails", func(ctx context.Context, svc *youtube.Service) error {
		resp, err := svc.Channels.List([]string{"contentDetails"}).Id(channelID).Context(ctx).Do()
		if err != nil {
			return err
		}
		if len(resp.Items) == 0 || resp.Items[0].ContentDetails == nil ||
			resp.Items[0].ContentDetails.RelatedPlaylists == nil {
			return errEmptyResponse
		}
		playlistID = resp.Items[0].ContentDetails.RelatedPlaylists.Uploads
		return nil
	})
	if err != nil {
		return "", err
	}
	if playlistID == "" {
		return "", apperrors.NewAPIError("channel has no uploads playlist", 404, map[string]any{
			"channel_id": channelID,
		})
	}
	return playlistID, nil
}

// FetchVideoDetails resolves statistics for the given video IDs in batches,
// each batch retrying the full key pool independently. Batches run through a
// bounded worker pool with a pause between launches to stay under per-minute
// quota.
func (ys *YouTubeService) FetchVideoDetails(ctx context.Context, videoIDs []string) ([]domain.Video, error) {
	if len(videoIDs) == 0 {
		return nil, nil
	}

	batchSize := constants.YouTubeConfig.DetailBatchSize
	var mu sync.Mutex
	videos := make([]domain.Video, 0, len(videoIDs))

	p := pool.New().
		WithMaxGoroutines(constants.YouTubeConfig.DetailConcurrency).
		WithErrors()

	for start := 0; start < len(videoIDs); start += batchSize {
		if start > 0 {
			if err := sleepContext(ctx, constants.YouTubeConfig.BatchPause); err != nil {
				break
			}
		}

		end := util.Min(start+batchSize, len(videoIDs))
		batch := videoIDs[start:end]

		p.Go(func() error {
			var items []*youtube.Video
			err := ys.execute(ctx, "videos.list", func(ctx context.Context, svc *youtube.Service) error {
				resp, err := svc.Videos.List([]string{"snippet", "statistics", "contentDetails", "status"}).
					Id(batch...).
					Context(ctx).
					Do()
				if err != nil {
					return err
				}
				items = resp.Items
				return nil
			})
			if err != nil {
				return err
			}

			mu.Lock()
			for _, item := range items {
				videos = append(videos, videoFromAPI(item))
			}
			mu.Unlock()
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		// Partial results still feed the derivation when any batch landed
		if len(videos) == 0 {
			return nil, err
		}
		ys.logger.Warn("Some video detail batches failed",
			zap.Int("resolved", len(videos)),
			zap.Int("requested", len(videoIDs)),
			zap.Error(err),
		)
	}

	return videos, nil
}

// FetchVideos collects the channel's recent uploads with full statistics,
// ordered by recency.
func (ys *YouTubeService) FetchVideos(ctx context.Context, channelID string) (domain.VideoCollection, error) {
	ids, err := ys.FetchUploadIDs(ctx, channelID)
	if err != nil {
		return domain.VideoCollection{}, err
	}

	videos, err := ys.FetchVideoDetails(ctx, ids)
	if err != nil {
		return domain.VideoCollection{}, err
	}

	collection := domain.VideoCollection{Videos: videos, Order: domain.OrderUnknown}
	return collection.SortedByRecency(), nil
}

// SearchResult is a channel candidate from a free-text search.
type SearchResult struct {
	ChannelID   string
	Title       string
	Description string
}

// SearchChannels runs a free-text channel search.
func (ys *YouTubeService) SearchChannels(ctx context.Context, query string) ([]SearchResult, error) {
	var results []SearchResult

	err := ys.execute(ctx, "search.list", func(ctx context.Context, svc *youtube.Service) error {
		resp, err := svc.Search.List([]string{"snippet"}).
			Q(query).
			Type("channel").
			MaxResults(constants.YouTubeConfig.SearchMaxResults).
			Context(ctx).
			Do()
		if err != nil {
			return err
		}
		if len(resp.Items) == 0 {
			return errEmptyResponse
		}

		results = results[:0]
		for _, item := range resp.Items {
			if item.Id == nil || item.Snippet == nil {
				continue
			}
			results = append(results, SearchResult{
				ChannelID:   item.Id.ChannelId,
				Title:       item.Snippet.Title,
				Description: item.Snippet.Description,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}

func channelFromAPI(item *youtube.Channel) *domain.Channel {
	channel := &domain.Channel{ID: item.Id}

	if item.Snippet != nil {
		channel.Title = item.Snippet.Title
		channel.Handle = item.Snippet.CustomUrl
		channel.Description = item.Snippet.Description
		channel.Country = item.Snippet.Country
		channel.ThumbnailURL = extractThumbnail(item.Snippet.Thumbnails)
		if t, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
			channel.PublishedAt = t
		}
	}
	if item.Statistics != nil {
		channel.SubscriberCount = item.Statistics.SubscriberCount
		channel.VideoCount = item.Statistics.VideoCount
		channel.ViewCount = item.Statistics.ViewCount
	}
	if item.BrandingSettings != nil && item.BrandingSettings.Channel != nil {
		channel.HasTrailer = item.BrandingSettings.Channel.UnsubscribedTrailer != ""
	}

	return channel
}

func videoFromAPI(item *youtube.Video) domain.Video {
	video := domain.Video{ID: item.Id}

	if item.Snippet != nil {
		video.Title = item.Snippet.Title
		video.Description = item.Snippet.Description
		video.Tags = item.Snippet.Tags
		video.ThumbnailURL = extractThumbnail(item.Snippet.Thumbnails)
		if t, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
			video.PublishedAt = t
		}
	}
	if item.Statistics != nil {
		video.Views = item.Statistics.ViewCount
		video.Likes = item.Statistics.LikeCount
		video.Comments = item.Statistics.CommentCount
	}
	if item.ContentDetails != nil {
		video.DurationSeconds = metrics.ParseISODuration(item.ContentDetails.Duration)
	}

	return video
}

func extractThumbnail(thumbnails *youtube.ThumbnailDetails) string {
	if thumbnails == nil {
		return ""
	}
	switch {
	case thumbnails.Maxres != nil:
		return thumbnails.Maxres.Url
	case thumbnails.High != nil:
		return thumbnails.High.Url
	case thumbnails.Medium != nil:
		return thumbnails.Medium.Url
	case thumbnails.Default != nil:
		return thumbnails.Default.Url
	default:
		return ""
	}
}
