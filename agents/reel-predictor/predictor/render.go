package predictor

import (
	"fmt"
	"strconv"
	"strings"

	"reel-predictor/internal/models"
)

// Placeholders for absent fields
const (
	PlaceholderScore    = "N/A"
	PlaceholderChance   = "Unknown"
	PlaceholderDuration = "N/A"
	PlaceholderFeedback = "No feedback available for this caption."
)

// Render maps an analysis result to display segments. It never fails: a nil result gives
// an invisible Report, and any absent field falls back to a placeholder or hides its section.
func Render(result *models.AnalysisResult) models.Report {
	if result == nil {
		return models.Report{}
	}

	report := models.Report{
		Visible:  true,
		Duration: PlaceholderDuration,
		Score:    ScoreBadge(result.ViralScore),
		Chance:   ChanceBadge(result.ViralChance),
		Caption:  captionScore(result.CurrentCaptionScore, result.CaptionFeedback),
	}

	if result.Filename != nil {
		report.Filename = *result.Filename
	}
	if result.DurationSeconds != nil {
		report.Duration = strconv.FormatFloat(*result.DurationSeconds, 'f', 1, 64)
	}
	if result.AlgorithmInsights != nil {
		report.AlgorithmInsights = *result.AlgorithmInsights
	}

	report.SuggestedCaptions = section("suggested", "Suggested Viral Captions", true, result.SuggestedCaptions, nil)
	report.ViralReasons = section("reason", "Viral Potential", false, result.ViralReasons, nil)
	report.ProTips = section("tip", "Pro Tips", true, result.ProTips, nil)
	report.PostTimes = section("time", "Optimal Posting Times", false, result.OptimalPostTimes, func(pos int) string {
		return fmt.Sprintf("Option %d", pos)
	})

	if hs := result.HashtagStrategy; hs != nil {
		report.Hashtags = models.Hashtags{
			Broad:  hashtagSection("broad", "Broad Reach", hs.Broad),
			Medium: hashtagSection("medium", "Medium Reach", hs.Medium),
			Niche:  hashtagSection("niche", "Niche Specific", hs.Niche),
		}
	}

	return report
}

// ScoreBadge classifies the viral score: >= 80 positive, >= 50 caution, otherwise negative.
func ScoreBadge(score *float64) models.Badge {
	if score == nil {
		return models.Badge{Tier: models.TierNeutral, Text: PlaceholderScore + "/100", Placeholder: true}
	}

	tier := models.TierNegative
	switch {
	case *score >= 80:
		tier = models.TierPositive
	case *score >= 50:
		tier = models.TierCaution
	}
	return models.Badge{Tier: tier, Text: formatNumber(*score) + "/100"}
}

// ChanceBadge classifies the free-form chance label by the words it contains.
// TODO: switch to an enumerated label once the analyzer publishes one; matching on "High"
// and "Medium" breaks if it rewords its output.
func ChanceBadge(chance *string) models.Badge {
	if chance == nil || *chance == "" {
		return models.Badge{Tier: models.TierNeutral, Text: PlaceholderChance, Placeholder: true}
	}

	tier := models.TierNegative
	switch {
	case strings.Contains(*chance, "High"):
		tier = models.TierPositive
	case strings.Contains(*chance, "Medium"):
		tier = models.TierCaution
	}
	return models.Badge{Tier: tier, Text: *chance}
}

func captionScore(score *float64, feedback *string) models.CaptionScore {
	var value float64
	if score != nil {
		value = *score
	}

	cs := models.CaptionScore{
		Percent:  min(max(value, 0), 100),
		Text:     formatNumber(value) + "%",
		Feedback: PlaceholderFeedback,
	}
	if feedback != nil && *feedback != "" {
		cs.Feedback = *feedback
	} else {
		cs.FeedbackPlaceholder = true
	}
	return cs
}

func hashtagSection(tier, title string, tags []string) *models.Section {
	prefixed := make([]string, len(tags))
	for i, tag := range tags {
		prefixed[i] = "#" + tag
	}
	return section(tier, title, false, prefixed, nil)
}

// section builds a list section keyed "<prefix>-<index>"; nil when items is empty
func section(prefix, title string, ordered bool, items []string, label func(pos int) string) *models.Section {
	if len(items) == 0 {
		return nil
	}

	s := &models.Section{
		Title:   title,
		Ordered: ordered,
		Items:   make([]models.ListItem, len(items)),
	}
	for i, text := range items {
		item := models.ListItem{
			Key:      fmt.Sprintf("%s-%d", prefix, i),
			Position: i + 1,
			Text:     text,
		}
		if label != nil {
			item.Label = label(i + 1)
		}
		s.Items[i] = item
	}
	return s
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
