package metrics

import (
	"math"
	"sort"
	"strings"

	"github.com/miru/channelpulse-go/internal/domain"
	"github.com/miru/channelpulse-go/internal/util"
)

type categoryPattern struct {
	keywords []string
	weight   float64
}

var categoryPatterns = map[string]categoryPattern{
	"tutorial": {
		keywords: []string{"tutorial", "how to", "guide", "learn", "step by step", "walkthrough", "explain", "teach"},
		weight:   1.2,
	},
	"review": {
		keywords: []string{"review", "unboxing", "test", "compared", "vs", "comparison", "opinion", "thoughts"},
		weight:   1.1,
	},
	"educational": {
		keywords: []string{"explained", "education", "learning", "facts", "science", "knowledge", "study", "research"},
		weight:   1.0,
	},
	"entertainment": {
		keywords: []string{"funny", "comedy", "prank", "challenge", "meme", "hilarious", "entertainment", "fun"},
		weight:   0.9,
	},
	"tech": {
		keywords: []string{"technology", "tech", "computer", "software", "app", "digital", "ai", "programming"},
		weight:   1.1,
	},
	"gaming": {
		keywords: []string{"gameplay", "walkthrough", "gaming", "playthrough", "episode", "game", "stream"},
		weight:   0.9,
	},
	"vlog": {
		keywords: []string{"vlog", "day in life", "behind the scenes", "my life", "daily", "update"},
		weight:   0.8,
	},
	"news": {
		keywords: []string{"news", "update", "announcement", "breaking", "latest", "report", "coverage"},
		weight:   1.0,
	},
}

// Categorize scores content categories across all videos by keyword matching
// against titles, descriptions and tags. A title hit counts double weight, a
// description hit 1.5x, a tag hit 1x; only the first matching keyword per
// field contributes. The top 10 categories are kept.
func Categorize(videos []domain.Video) []domain.CategoryScore {
	totals := make(map[string]float64)

	for _, v := range videos {
		title := strings.ToLower(v.Title)
		description := strings.ToLower(v.Description)

		for name, pattern := range categoryPatterns {
			var score float64

			for _, kw := range pattern.keywords {
				if strings.Contains(title, kw) {
					score += pattern.weight * 2
					break
				}
			}
			for _, kw := range pattern.keywords {
				if strings.Contains(description, kw) {
					score += pattern.weight * 1.5
					break
				}
			}
			for _, tag := range v.Tags {
				tagLower := strings.ToLower(tag)
				for _, kw := range pattern.keywords {
					if strings.Contains(tagLower, kw) {
						score += pattern.weight
						break
					}
				}
			}

			if score > 0 {
				totals[name] += score
			}
		}
	}

	scores := make([]domain.CategoryScore, 0, len(totals))
	for name, score := range totals {
		scores = append(scores, domain.CategoryScore{Name: name, Score: util.Round(score, 2)})
	}
	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].Name < scores[j].Name
	})

	if len(scores) > 10 {
		scores = scores[:10]
	}
	return scores
}

// Diversity scores how spread the channel's content is across categories,
// via normalized Shannon entropy plus a bonus for each category holding at
// least 15% share.
func Diversity(categories []domain.CategoryScore) float64 {
	if len(categories) == 0 {
		return 0
	}

	var total float64
	for _, c := range categories {
		total += c.Score
	}
	if total == 0 {
		return 0
	}

	var entropy float64
	strong := 0
	for _, c := range categories {
		p := c.Score / total
		if p > 0 {
			entropy -= p * math.Log(p)
		}
		if p >= 0.15 {
			strong++
		}
	}

	var base float64
	if maxEntropy := math.Log(float64(len(categories))); maxEntropy > 0 {
		base = entropy / maxEntropy * 100
	}

	bonus := math.Min(float64(strong)*10, 20)
	return util.Round(math.Min(base+bonus, 100), 1)
}

var gapCategories = map[string][]string{
	"educational":   {"tutorial", "explainer", "how-to", "guide", "lesson"},
	"entertainment": {"comedy", "challenge", "prank", "funny", "entertainment"},
	"review":        {"review", "unboxing", "test", "comparison", "opinion"},
	"news":          {"news", "update", "announcement", "breaking", "report"},
	"vlog":          {"vlog", "day in life", "behind scenes", "personal", "update"},
	"gaming":        {"gameplay", "walkthrough", "stream", "gaming", "playthrough"},
	"tech":          {"technology", "tech", "software", "hardware", "digital"},
	"creative":      {"art", "design", "creative", "making", "build"},
}

var gapRelevanceKeywords = map[string][]string{
	"tutorial": {"learn", "teach", "education", "skill"},
	"review":   {"product", "service", "compare", "quality"},
	"tech":     {"technology", "software", "digital", "computer"},
	"gaming":   {"game", "play", "entertainment", "fun"},
}

// ContentGaps suggests up to four main categories the channel does not cover
// yet but plausibly could, judged from its title and description.
func ContentGaps(categories []domain.CategoryScore, channel domain.Channel) []string {
	covered := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		covered[c.Name] = struct{}{}
	}

	profile := strings.ToLower(channel.Description + channel.Title)

	names := make([]string, 0, len(gapCategories))
	for name := range gapCategories {
		names = append(names, name)
	}
	sort.Strings(names)

	gaps := make([]string, 0, 4)
	for _, name := range names {
		if _, ok := covered[name]; ok {
			continue
		}
		score := 0
		for _, sub := range gapCategories[name] {
			if relevantGap(sub, profile) {
				score++
			}
		}
		if score >= 2 {
			gaps = append(gaps, name)
		}
		if len(gaps) == 4 {
			break
		}
	}

	return gaps
}

func relevantGap(subCategory, profile string) bool {
	for keyword, related := range gapRelevanceKeywords {
		if strings.Contains(keyword, subCategory) {
			for _, word := range related {
				if strings.Contains(profile, word) {
					return true
				}
			}
			return false
		}
	}
	return true
}
