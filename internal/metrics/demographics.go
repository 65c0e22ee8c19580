package metrics

import "github.com/miru/channelpulse-go/internal/domain"

// InferDemographics estimates an audience profile from the content category
// mix. The figures are static priors per content type, not measurements.
func InferDemographics(categories []domain.CategoryScore) domain.Demographics {
	covered := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		covered[c.Name] = struct{}{}
	}
	has := func(names ...string) bool {
		for _, n := range names {
			if _, ok := covered[n]; ok {
				return true
			}
		}
		return false
	}

	var demo domain.Demographics
	switch {
	case has("gaming", "tech"):
		demo = domain.Demographics{
			AgeGroups:   map[string]int{"13-17": 25, "18-24": 45, "25-34": 20, "35+": 10},
			GenderRatio: map[string]int{"male": 75, "female": 25},
			Geographic:  map[string]int{"US": 35, "UK": 15, "India": 20, "Other": 30},
		}
	case has("educational", "tutorial"):
		demo = domain.Demographics{
			AgeGroups:   map[string]int{"18-24": 35, "25-34": 40, "35-44": 15, "45+": 10},
			GenderRatio: map[string]int{"male": 55, "female": 45},
			Geographic:  map[string]int{"US": 40, "UK": 15, "India": 15, "Other": 30},
		}
	default:
		demo = domain.Demographics{
			AgeGroups:   map[string]int{"18-24": 35, "25-34": 40, "35-44": 15, "45+": 10},
			GenderRatio: map[string]int{"male": 65, "female": 35},
			Geographic:  map[string]int{"US": 40, "UK": 15, "India": 10, "Other": 35},
		}
	}

	demo.Interests = inferInterests(categories)
	return demo
}

var categoryInterests = map[string][]string{
	"gaming":        {"Video Games", "Entertainment", "Technology"},
	"tech":          {"Technology", "Gadgets", "Innovation"},
	"educational":   {"Education", "Learning", "Self-Improvement"},
	"entertainment": {"Entertainment", "Comedy", "Fun"},
}

func inferInterests(categories []domain.CategoryScore) []string {
	interests := make([]string, 0, 5)
	seen := make(map[string]struct{})

	for _, c := range categories {
		for _, interest := range categoryInterests[c.Name] {
			if _, dup := seen[interest]; dup {
				continue
			}
			seen[interest] = struct{}{}
			interests = append(interests, interest)
			if len(interests) == 5 {
				return interests
			}
		}
	}

	if len(interests) == 0 {
		return []string{"Technology", "Education", "Entertainment"}
	}
	return interests
}
