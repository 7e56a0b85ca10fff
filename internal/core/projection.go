package core

import (
	"fmt"
	"math"
)

// Projection holds the fixed-horizon projections shown on the dashboard.
type Projection struct {
	Principal  float64 `json:"principal"`
	Rate       float64 `json:"rate"`
	TenYear    float64 `json:"tenYear"`
	TwentyYear float64 `json:"twentyYear"`
}

// ProjectionPoint is the projected value at the end of a given year.
type ProjectionPoint struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// Project returns principal*(1+rate)^years.
func Project(principal float64, years int, rate float64) float64 {
	checkRate(rate)
	return principal * math.Pow(1+rate, float64(years))
}

func ProjectHorizons(principal, rate float64) Projection {
	return Projection{
		Principal:  principal,
		Rate:       rate,
		TenYear:    Project(principal, 10, rate),
		TwentyYear: Project(principal, 20, rate),
	}
}

// ProjectSeries returns one point per year from 0 through years inclusive.
func ProjectSeries(principal, rate float64, years int) []ProjectionPoint {
	checkRate(rate)
	if years < 0 {
		years = 0
	}
	points := make([]ProjectionPoint, 0, years+1)
	for y := 0; y <= years; y++ {
		points = append(points, ProjectionPoint{Year: y, Value: Project(principal, y, rate)})
	}
	return points
}

func checkRate(rate float64) {
	if rate < 0 || rate > 1 || math.IsNaN(rate) {
		panic(fmt.Sprintf("core: interest rate must be within [0, 1], got %v", rate))
	}
}
