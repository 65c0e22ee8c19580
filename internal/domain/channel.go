package domain

import "time"

// Channel holds the subset of YouTube channel data the pipeline derives from.
type Channel struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Handle          string    `json:"handle,omitempty"`
	Description     string    `json:"description,omitempty"`
	Country         string    `json:"country,omitempty"`
	ThumbnailURL    string    `json:"thumbnail_url,omitempty"`
	PublishedAt     time.Time `json:"published_at"`
	SubscriberCount uint64    `json:"subscriber_count"`
	VideoCount      uint64    `json:"video_count"`
	ViewCount       uint64    `json:"view_count"`
	HasTrailer      bool      `json:"has_trailer"`
}

// AgeDays returns the channel age in whole days, floored at 1 when a publish
// date exists and 0 when it does not.
func (c *Channel) AgeDays(now time.Time) int {
	if c == nil || c.PublishedAt.IsZero() {
		return 0
	}
	days := int(now.Sub(c.PublishedAt).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

// DisplayName returns the channel title, falling back to the handle.
func (c *Channel) DisplayName() string {
	if c == nil {
		return ""
	}
	if c.Title != "" {
		return c.Title
	}
	return c.Handle
}
