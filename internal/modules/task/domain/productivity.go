package domain

import "sort"

// uncategorized groups tasks stored without a category.
const uncategorized = "uncategorized"

type CategoryStats struct {
	Category  string
	Total     int
	Completed int
}

// Rate is the completed share of the category, from 0 to 1.
func (c CategoryStats) Rate() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Completed) / float64(c.Total)
}

type EstimateStats struct {
	Samples   int
	MeanScore float64
	// Under counts tasks that took longer than estimated, Over those that
	// finished early.
	Under int
	Over  int
	// MeanErrorMinutes is the average of actual minus estimate.
	MeanErrorMinutes float64
}

type ProductivityReport struct {
	Pending    int
	Completed  int
	Categories []CategoryStats
	Estimates  EstimateStats
}

// Summarize builds a report from tasks and the latest analysis of each,
// keyed by task id. Categories are sorted by name.
func Summarize(tasks []Task, latest map[string]Analysis) ProductivityReport {
	var report ProductivityReport
	byCategory := map[string]*CategoryStats{}
	var scoreSum, errSum int
	for _, t := range tasks {
		category := t.Metadata.Category
		if category == "" {
			category = uncategorized
		}
		stats, ok := byCategory[category]
		if !ok {
			stats = &CategoryStats{Category: category}
			byCategory[category] = stats
		}
		stats.Total++
		if t.Status != StatusCompleted {
			report.Pending++
			continue
		}
		report.Completed++
		stats.Completed++

		var analysis *Analysis
		if a, ok := latest[t.ID]; ok {
			analysis = &a
		}
		estimate := t.Estimate(analysis)
		if estimate <= 0 || t.ActualMinutes <= 0 {
			continue
		}
		report.Estimates.Samples++
		scoreSum += AccuracyScore(estimate, t.ActualMinutes)
		errSum += t.ActualMinutes - estimate
		switch {
		case t.ActualMinutes > estimate:
			report.Estimates.Under++
		case t.ActualMinutes < estimate:
			report.Estimates.Over++
		}
	}
	if n := report.Estimates.Samples; n > 0 {
		report.Estimates.MeanScore = float64(scoreSum) / float64(n)
		report.Estimates.MeanErrorMinutes = float64(errSum) / float64(n)
	}
	for _, stats := range byCategory {
		report.Categories = append(report.Categories, *stats)
	}
	sort.Slice(report.Categories, func(i, j int) bool {
		return report.Categories[i].Category < report.Categories[j].Category
	})
	return report
}
