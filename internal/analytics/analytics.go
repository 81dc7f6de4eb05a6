// Package analytics holds the small bits of arithmetic shared by the
// stats endpoints.
package analytics

import (
	"math"

	"github.com/aclements/go-moremath/stats"
)

// Rate is part/total as a percentage rounded to one decimal, 0 when total is 0
func Rate(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return Round1(float64(part) / float64(total) * 100)
}

func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// Salaries summarises the salary bounds of a set of postings or applications
type Salaries struct {
	Count     int      `json:"count"`
	MedianMin *float64 `json:"median_min"`
	MedianMax *float64 `json:"median_max"`
	MeanMin   *float64 `json:"mean_min"`
	MeanMax   *float64 `json:"mean_max"`
	Lowest    *float64 `json:"lowest"`
	Highest   *float64 `json:"highest"`
}

// SummariseSalaries ignores missing values, nil mins and maxes are allowed
func SummariseSalaries(mins, maxes []*int) Salaries {
	var sampleMin, sampleMax stats.Sample
	for _, x := range mins {
		if x != nil {
			sampleMin.Xs = append(sampleMin.Xs, float64(*x))
		}
	}
	for _, x := range maxes {
		if x != nil {
			sampleMax.Xs = append(sampleMax.Xs, float64(*x))
		}
	}
	out := Salaries{Count: len(sampleMin.Xs)}
	if len(sampleMax.Xs) > out.Count {
		out.Count = len(sampleMax.Xs)
	}
	if len(sampleMin.Xs) > 0 {
		out.MedianMin = float(sampleMin.Quantile(0.5))
		out.MeanMin = float(sampleMin.Mean())
		lo, _ := sampleMin.Bounds()
		out.Lowest = float(lo)
	}
	if len(sampleMax.Xs) > 0 {
		out.MedianMax = float(sampleMax.Quantile(0.5))
		out.MeanMax = float(sampleMax.Mean())
		_, hi := sampleMax.Bounds()
		out.Highest = float(hi)
	}
	return out
}

func float(x float64) *float64 {
	x = Round1(x)
	return &x
}
