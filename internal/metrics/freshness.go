package metrics

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/miru/channelpulse-go/internal/domain"
	"github.com/miru/channelpulse-go/internal/util"
)

// Freshness scores how recent the upload catalog is: each of the first 20
// videos contributes max(0, 100 - 5*daysOld), averaged.
func Freshness(collection domain.VideoCollection, now time.Time) float64 {
	videos := collection.SortedByRecency().Top(20)
	if len(videos) == 0 {
		return 0
	}

	var total float64
	for _, v := range videos {
		days := now.Sub(v.PublishedAt).Hours() / 24
		total += math.Max(0, 100-days*5)
	}

	return util.Round(total/float64(len(videos)), 1)
}

// TrendingAlignment estimates how well the latest uploads ride current
// attention: recency decays over ten days and views add up to half the weight
// of a fresh upload.
func TrendingAlignment(collection domain.VideoCollection, now time.Time) float64 {
	videos := collection.SortedByRecency().Top(10)
	if len(videos) == 0 {
		return 0
	}

	var score float64
	for _, v := range videos {
		days := math.Floor(now.Sub(v.PublishedAt).Hours() / 24)
		score += math.Max(0, 10-days)
		score += math.Min(float64(v.Views)/1000, 5)
	}

	maxScore := float64(len(videos)) * 10
	return util.Round(score/maxScore*100, 1)
}

// TitleAnalysis is the result of scoring upload titles.
type TitleAnalysis struct {
	AvgTitleLength    float64
	HasEmojis         bool
	CommonPatterns    []string
	OptimizationScore float64
}

var titleEmojis = []string{"\U0001F525", "\U0001F4AF", "\U0001F3AF", "⚡", "✨"}

var wordPattern = regexp.MustCompile(`\b\w+\b`)

// AnalyzeTitles scores title craft: 40-60 character titles score a 70 base,
// emoji use and recurring title words add 15 each.
func AnalyzeTitles(videos []domain.Video) TitleAnalysis {
	if len(videos) == 0 {
		return TitleAnalysis{}
	}

	var lengthTotal float64
	hasEmojis := false
	wordCounts := make(map[string]int)

	for _, v := range videos {
		lengthTotal += float64(len([]rune(v.Title)))

		for _, emoji := range titleEmojis {
			if strings.Contains(v.Title, emoji) {
				hasEmojis = true
				break
			}
		}

		for _, word := range wordPattern.FindAllString(strings.ToLower(v.Title), -1) {
			wordCounts[word]++
		}
	}

	avgLength := lengthTotal / float64(len(videos))

	patterns := make([]string, 0)
	for word, count := range wordCounts {
		if count > 1 && len(word) > 3 {
			patterns = append(patterns, word)
		}
	}

	base := 50.0
	if avgLength >= 40 && avgLength <= 60 {
		base = 70
	}
	score := base
	if hasEmojis {
		score += 15
	}
	if len(patterns) >= 3 {
		score += 15
	}

	if len(patterns) > 5 {
		patterns = patterns[:5]
	}

	return TitleAnalysis{
		AvgTitleLength:    util.Round(avgLength, 1),
		HasEmojis:         hasEmojis,
		CommonPatterns:    patterns,
		OptimizationScore: math.Min(score, 100),
	}
}
