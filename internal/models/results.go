// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

package models

import "time"

// Strategy tags the algorithm that produced a recommendation. Scores are
// comparable within one strategy only.
type Strategy string

const (
	// StrategyPopularity is the engagement-weighted popularity ranking.
	StrategyPopularity Strategy = "popularity"
	// StrategyContent is TF-IDF cosine similarity to a seed video.
	StrategyContent Strategy = "content"
	// StrategyItemCF is history-based item collaborative filtering.
	StrategyItemCF Strategy = "item_cf"
	// StrategyUserCF is similar-user collaborative filtering.
	StrategyUserCF Strategy = "user_cf"
)

// Recommendation is one entry of a ranked recommendation list.
type Recommendation struct {
	BVID     string   `json:"bvid"`
	Title    string   `json:"title,omitempty"`
	Category string   `json:"category,omitempty"`
	Score    float64  `json:"score"`
	Strategy Strategy `json:"strategy"`
}

// SimilarUser is one neighbor from the user similarity matrix.
type SimilarUser struct {
	UserID     string  `json:"user_id"`
	Similarity float64 `json:"similarity"`
}

// ClusterInfo describes one user cluster: its size, centroid feature
// averages and a derived human-readable description.
type ClusterInfo struct {
	Index       int                `json:"index"`
	UserCount   int                `json:"user_count"`
	AvgFeatures map[string]float64 `json:"avg_features"`
	Description string             `json:"description"`
}

// ClusterAssignment maps users to clusters with per-cluster summaries.
type ClusterAssignment struct {
	Assignments map[string]int `json:"assignments"`
	Clusters    []ClusterInfo  `json:"clusters"`
}

// SentimentLabel is the discrete polarity class of a text.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

// SentimentResult is the polarity scoring of a single text.
// Score is in [0, 1]; Confidence is |score-0.5|*2.
type SentimentResult struct {
	Sentiment  SentimentLabel `json:"sentiment"`
	Score      float64        `json:"score"`
	Confidence float64        `json:"confidence"`
}

// SentimentSummary aggregates batch sentiment results.
type SentimentSummary struct {
	TotalTexts    int                    `json:"total_texts"`
	Distribution  map[SentimentLabel]int `json:"sentiment_distribution"`
	AverageScore  float64                `json:"average_score"`
	PositiveRatio float64                `json:"positive_ratio"`
	NegativeRatio float64                `json:"negative_ratio"`
	NeutralRatio  float64                `json:"neutral_ratio"`
}

// TimePoint is one observation of a labeled time series.
type TimePoint struct {
	Timestamp time.Time `json:"timestamp" validate:"required"`
	Value     float64   `json:"value"`
}

// TrendPoint is one projected future observation. Confidence decays
// linearly per step ahead, starting at 0.8.
type TrendPoint struct {
	Timestamp      time.Time `json:"timestamp"`
	PredictedValue float64   `json:"predicted_value"`
	Confidence     float64   `json:"confidence"`
}

// ModelStatus reports the prediction engine's training state.
type ModelStatus struct {
	Trained           bool                  `json:"trained"`
	BestModel         string                `json:"best_model,omitempty"`
	Results           map[string]ModelScore `json:"results,omitempty"`
	FeatureImportance map[string]float64    `json:"feature_importance,omitempty"`
	FeatureColumns    []string              `json:"feature_columns,omitempty"`
	TrainedAt         time.Time             `json:"trained_at,omitempty"`
	RowCount          int                   `json:"row_count,omitempty"`
}

// ModelScore holds validation metrics for one candidate regressor.
type ModelScore struct {
	MSE  float64 `json:"mse"`
	RMSE float64 `json:"rmse"`
	R2   float64 `json:"r2"`
}
