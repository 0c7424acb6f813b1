package models

import (
	"io"
	"time"
)

// Media is a video selected for analysis
type Media struct {
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	ModTime     time.Time `json:"mod_time"`
	// Open returns a fresh reader over the media bytes; it may be called once per submission.
	Open func() (io.ReadCloser, error) `json:"-"`
}

// Input is what the user has entered so far. Media is nil until a file is picked.
type Input struct {
	Media   *Media `json:"media,omitempty"`
	Caption string `json:"caption"`
}

// HashtagStrategy groups suggested hashtags by expected reach
type HashtagStrategy struct {
	Broad  []string `json:"broad,omitempty"`
	Medium []string `json:"medium,omitempty"`
	Niche  []string `json:"niche,omitempty"`
}

// AnalysisResult is the analyzer's report on a reel. The analyzer may omit any field.
type AnalysisResult struct {
	Filename            *string          `json:"filename,omitempty"`
	DurationSeconds     *float64         `json:"duration_seconds,omitempty"`
	ViralScore          *float64         `json:"viral_score,omitempty"`           // 0-100
	ViralChance         *string          `json:"viral_chance,omitempty"`          // e.g. "High potential"
	CurrentCaptionScore *float64         `json:"current_caption_score,omitempty"` // 0-100
	CaptionFeedback     *string          `json:"caption_feedback,omitempty"`
	SuggestedCaptions   []string         `json:"suggested_captions,omitempty"`
	HashtagStrategy     *HashtagStrategy `json:"hashtag_strategy,omitempty"`
	ViralReasons        []string         `json:"viral_reasons,omitempty"`
	ProTips             []string         `json:"pro_tips,omitempty"`
	OptimalPostTimes    []string         `json:"optimal_post_times,omitempty"`
	AlgorithmInsights   *string          `json:"algorithm_insights,omitempty"`
}

// ReelReport pairs an analyzed inbox file with its rendered report
type ReelReport struct {
	Source  string `json:"source"`
	Caption string `json:"caption"`
	Report  Report `json:"report"`
}

type EmailReport struct {
	Date   time.Time     `json:"date"`
	Reels  []*ReelReport `json:"reels"`
	Total  int           `json:"total_submitted"`
	Failed int           `json:"failed"`
}
