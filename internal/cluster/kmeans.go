// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

package cluster

import (
	"math"
	"math/rand"
)

const (
	maxIterations        = 100
	convergenceTolerance = 1e-6
)

// kMeans partitions points into k clusters with k-means++ seeding. The
// rng makes initialization deterministic for a fixed seed.
func kMeans(points [][]float64, k int, rng *rand.Rand) []int {
	centroids := seedCentroids(points, k, rng)
	assignments := make([]int, len(points))

	for iter := 0; iter < maxIterations; iter++ {
		for i, p := range points {
			assignments[i] = nearestCentroid(p, centroids)
		}

		moved := 0.0
		for c := range centroids {
			next := clusterMean(points, assignments, c)
			if next == nil {
				continue // empty cluster keeps its centroid
			}
			moved += squaredDistance(centroids[c], next)
			centroids[c] = next
		}
		if moved < convergenceTolerance {
			break
		}
	}
	return assignments
}

// seedCentroids applies k-means++: the first centroid is drawn
// uniformly, each later one proportionally to squared distance from the
// nearest already-chosen centroid.
func seedCentroids(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clonePoint(points[rng.Intn(len(points))]))

	distances := make([]float64, len(points))
	for len(centroids) < k {
		var total float64
		for i, p := range points {
			d := math.Inf(1)
			for _, c := range centroids {
				if sq := squaredDistance(p, c); sq < d {
					d = sq
				}
			}
			distances[i] = d
			total += d
		}

		if total == 0 {
			// All remaining points coincide with a centroid.
			centroids = append(centroids, clonePoint(points[rng.Intn(len(points))]))
			continue
		}

		target := rng.Float64() * total
		chosen := len(points) - 1
		var cumulative float64
		for i, d := range distances {
			cumulative += d
			if cumulative >= target {
				chosen = i
				break
			}
		}
		centroids = append(centroids, clonePoint(points[chosen]))
	}
	return centroids
}

func nearestCentroid(p []float64, centroids [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		if d := squaredDistance(p, centroid); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// clusterMean returns the mean of the points assigned to cluster c, or
// nil when the cluster is empty.
func clusterMean(points [][]float64, assignments []int, c int) []float64 {
	var count int
	mean := make([]float64, len(points[0]))
	for i, p := range points {
		if assignments[i] != c {
			continue
		}
		for d, v := range p {
			mean[d] += v
		}
		count++
	}
	if count == 0 {
		return nil
	}
	for d := range mean {
		mean[d] /= float64(count)
	}
	return mean
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum
}

func clonePoint(p []float64) []float64 {
	out := make([]float64, len(p))
	copy(out, p)
	return out
}
