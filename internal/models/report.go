package models

// Tier classifies a badge for display
type Tier string

const (
	TierPositive Tier = "positive"
	TierCaution  Tier = "caution"
	TierNegative Tier = "negative"
	TierNeutral  Tier = "neutral"
)

// Badge is a labelled value with a display tier
type Badge struct {
	Tier        Tier   `json:"tier"`
	Text        string `json:"text"`
	Placeholder bool   `json:"placeholder"`
}

// CaptionScore drives the caption score bar
type CaptionScore struct {
	Percent             float64 `json:"percent"`
	Text                string  `json:"text"`
	Feedback            string  `json:"feedback"`
	FeedbackPlaceholder bool    `json:"feedback_placeholder"`
}

// ListItem is one entry of a list section. Key is stable for a given position.
type ListItem struct {
	Key      string `json:"key"`
	Position int    `json:"position"` // 1-based
	Label    string `json:"label,omitempty"`
	Text     string `json:"text"`
}

// Section is a titled list. A nil *Section means the section is not shown.
type Section struct {
	Title   string     `json:"title"`
	Ordered bool       `json:"ordered"`
	Items   []ListItem `json:"items"`
}

// Hashtags holds the three hashtag tiers; nil tiers are not shown
type Hashtags struct {
	Broad  *Section `json:"broad,omitempty"`
	Medium *Section `json:"medium,omitempty"`
	Niche  *Section `json:"niche,omitempty"`
}

// Empty reports whether no hashtag tier is shown
func (h Hashtags) Empty() bool {
	return h.Broad == nil && h.Medium == nil && h.Niche == nil
}

// Report is the full set of display segments for one analysis result.
// A zero Report (Visible == false) renders nothing.
type Report struct {
	Visible           bool         `json:"visible"`
	Filename          string       `json:"filename,omitempty"`
	Duration          string       `json:"duration"`
	Score             Badge        `json:"score"`
	Chance            Badge        `json:"chance"`
	Caption           CaptionScore `json:"caption"`
	SuggestedCaptions *Section     `json:"suggested_captions,omitempty"`
	Hashtags          Hashtags     `json:"hashtags"`
	ViralReasons      *Section     `json:"viral_reasons,omitempty"`
	ProTips           *Section     `json:"pro_tips,omitempty"`
	PostTimes         *Section     `json:"post_times,omitempty"`
	AlgorithmInsights string       `json:"algorithm_insights,omitempty"`
}
