package domain

import (
	"sort"
	"time"
)

// Video is a single upload with the statistics the metrics engine consumes.
type Video struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	Tags            []string  `json:"tags,omitempty"`
	ThumbnailURL    string    `json:"thumbnail_url,omitempty"`
	PublishedAt     time.Time `json:"published_at"`
	DurationSeconds int       `json:"duration_seconds"`
	Views           uint64    `json:"views"`
	Likes           uint64    `json:"likes"`
	Comments        uint64    `json:"comments"`
}

// CollectionOrder tags how a video slice is sorted. Several derivations
// assume a particular ordering, so it travels with the data instead of
// being implied.
type CollectionOrder string

const (
	OrderByViews   CollectionOrder = "views"
	OrderByRecency CollectionOrder = "recency"
	OrderUnknown   CollectionOrder = "unknown"
)

// VideoCollection is an ordered set of videos with an explicit sort order.
type VideoCollection struct {
	Videos []Video
	Order  CollectionOrder
}

// SortedByViews returns a collection sorted by view count descending.
func (vc VideoCollection) SortedByViews() VideoCollection {
	if vc.Order == OrderByViews {
		return vc
	}
	videos := make([]Video, len(vc.Videos))
	copy(videos, vc.Videos)
	sort.SliceStable(videos, func(i, j int) bool {
		return videos[i].Views > videos[j].Views
	})
	return VideoCollection{Videos: videos, Order: OrderByViews}
}

// SortedByRecency returns a collection sorted by publish time descending.
func (vc VideoCollection) SortedByRecency() VideoCollection {
	if vc.Order == OrderByRecency {
		return vc
	}
	videos := make([]Video, len(vc.Videos))
	copy(videos, vc.Videos)
	sort.SliceStable(videos, func(i, j int) bool {
		return videos[i].PublishedAt.After(videos[j].PublishedAt)
	})
	return VideoCollection{Videos: videos, Order: OrderByRecency}
}

// Top returns the first n videos in the current order.
func (vc VideoCollection) Top(n int) []Video {
	if n > len(vc.Videos) {
		n = len(vc.Videos)
	}
	return vc.Videos[:n]
}

func (vc VideoCollection) Len() int {
	return len(vc.Videos)
}

// EngagementRate returns (likes+comments)/views*100, or 0 with ok=false when
// the video has no views.
func (v Video) EngagementRate() (float64, bool) {
	if v.Views == 0 {
		return 0, false
	}
	return float64(v.Likes+v.Comments) / float64(v.Views) * 100, true
}
