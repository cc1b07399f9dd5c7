// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

package predict

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/biliscope/biliscope/internal/features"
	"github.com/biliscope/biliscope/internal/models"
)

// minTrainingRows is the smallest dataset the trainer accepts. Below
// this a validation split carries no signal at all.
const minTrainingRows = 10

// validationFraction is the share of rows held out for model selection.
const validationFraction = 0.2

// Config tunes the predictor.
type Config struct {
	// Seed drives the train/validation shuffle and the tree ensembles.
	Seed int64
}

// Predictor trains the regression panel and serves view predictions
// from whichever candidate validated best. Train swaps the full fitted
// state under the write lock; Predict and Status only need the read
// lock.
type Predictor struct {
	config Config
	logger zerolog.Logger

	mu         sync.RWMutex
	scaler     *features.StandardScaler
	encoder    *LabelEncoder
	best       regressor
	scores     map[string]models.ModelScore
	importance map[string]float64
	trainedAt  time.Time
	rowCount   int
}

// NewPredictor creates an untrained predictor.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPredictor(cfg Config, logger zerolog.Logger) *Predictor {
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	return &Predictor{
		config: cfg,
		logger: logger.With().Str("component", "predict").Logger(),
	}
}

// Train fits the candidate panel on the usable subset of videos and
// keeps the model with the lowest validation MSE. Rows without a
// publish time are dropped; fewer than minTrainingRows usable rows
// returns an InsufficientDataError and leaves any previously trained
// model in place.
func (p *Predictor) Train(videos []models.VideoRecord) (models.ModelStatus, error) {
	start := time.Now()

	labels := make([]string, 0, len(videos))
	for i := range videos {
		labels = append(labels, videos[i].Category)
	}
	encoder := FitLabelEncoder(labels)

	raw := make([][]float64, 0, len(videos))
	targets := make([]float64, 0, len(videos))
	for i := range videos {
		row, ok := featurize(&videos[i], encoder, true)
		if !ok {
			continue
		}
		raw = append(raw, row)
		targets = append(targets, float64(videos[i].View))
	}

	if len(raw) < minTrainingRows {
		return models.ModelStatus{}, &models.InsufficientDataError{Have: len(raw), Need: minTrainingRows}
	}

	scaler := &features.StandardScaler{}
	scaled, err := scaler.FitTransform(raw)
	if err != nil {
		return models.ModelStatus{}, err
	}

	trainX, trainY, validX, validY := split(scaled, targets, p.config.Seed)

	var best regressor
	bestMSE := math.Inf(1)
	scores := make(map[string]models.ModelScore, 3)
	for _, candidate := range trainingPanel(p.config.Seed) {
		if err := candidate.Fit(trainX, trainY); err != nil {
			p.logger.Warn().Err(err).Str("model", candidate.Name()).Msg("candidate fit failed")
			continue
		}

		predicted := make([]float64, len(validX))
		for i, row := range validX {
			predicted[i] = candidate.Predict(row)
		}
		score := evaluate(validY, predicted)
		scores[candidate.Name()] = score

		if score.MSE < bestMSE {
			bestMSE = score.MSE
			best = candidate
		}
	}
	if best == nil {
		return models.ModelStatus{}, models.ErrModelNotTrained
	}

	importance := make(map[string]float64, len(featureColumns))
	if imp := best.Importances(); imp != nil {
		for j, name := range featureColumns {
			importance[name] = imp[j]
		}
	}

	p.mu.Lock()
	p.scaler = scaler
	p.encoder = encoder
	p.best = best
	p.scores = scores
	p.importance = importance
	p.trainedAt = time.Now()
	p.rowCount = len(raw)
	status := p.statusLocked()
	p.mu.Unlock()

	p.logger.Info().
		Str("best_model", best.Name()).
		Float64("mse", bestMSE).
		Int("rows", len(raw)).
		Dur("elapsed", time.Since(start)).
		Msg("prediction model trained")
	return status, nil
}

// Predict estimates the view count for one video. Missing publish time
// falls back to zeroed temporal features rather than failing; unseen
// categories use the other bucket. The estimate is clamped at zero and
// rounded to a whole count.
func (p *Predictor) Predict(video *models.VideoRecord) (int64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.best == nil {
		return 0, models.ErrModelNotTrained
	}

	raw, _ := featurize(video, p.encoder, false)
	estimate := p.best.Predict(p.scaler.TransformOne(raw))
	if estimate < 0 || math.IsNaN(estimate) {
		estimate = 0
	}
	return int64(math.Round(estimate)), nil
}

// Status reports the current training state.
func (p *Predictor) Status() models.ModelStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.statusLocked()
}

func (p *Predictor) statusLocked() models.ModelStatus {
	if p.best == nil {
		return models.ModelStatus{Trained: false}
	}

	scores := make(map[string]models.ModelScore, len(p.scores))
	for name, s := range p.scores {
		scores[name] = s
	}
	importance := make(map[string]float64, len(p.importance))
	for name, v := range p.importance {
		importance[name] = v
	}

	return models.ModelStatus{
		Trained:           true,
		BestModel:         p.best.Name(),
		Results:           scores,
		FeatureImportance: importance,
		FeatureColumns:    append([]string(nil), featureColumns...),
		TrainedAt:         p.trainedAt,
		RowCount:          p.rowCount,
	}
}

// split shuffles row indices with the given seed and carves off the
// validation tail. Both partitions are guaranteed non-empty.
func split(x [][]float64, y []float64, seed int64) (trainX [][]float64, trainY []float64, validX [][]float64, validY []float64) {
	rng := rand.New(rand.NewSource(seed))
	idx := rng.Perm(len(x))

	validN := int(float64(len(x)) * validationFraction)
	if validN < 1 {
		validN = 1
	}
	if validN >= len(x) {
		validN = len(x) - 1
	}
	cut := len(x) - validN

	for _, i := range idx[:cut] {
		trainX = append(trainX, x[i])
		trainY = append(trainY, y[i])
	}
	for _, i := range idx[cut:] {
		validX = append(validX, x[i])
		validY = append(validY, y[i])
	}
	return trainX, trainY, validX, validY
}

// evaluate computes validation metrics for one candidate.
func evaluate(actual, predicted []float64) models.ModelScore {
	n := float64(len(actual))

	var mse, meanActual float64
	for i := range actual {
		diff := actual[i] - predicted[i]
		mse += diff * diff
		meanActual += actual[i]
	}
	mse /= n
	meanActual /= n

	var totalVar float64
	for _, v := range actual {
		diff := v - meanActual
		totalVar += diff * diff
	}

	r2 := 0.0
	if totalVar > 0 {
		r2 = 1 - mse*n/totalVar
	}
	return models.ModelScore{MSE: mse, RMSE: math.Sqrt(mse), R2: r2}
}
