package model

// Classification buckets a county's long-run voting pattern.
type Classification string

// County classifications, from most to least entrenched.
const (
	SolidDem         Classification = "SOLID_DEM"
	SolidRep         Classification = "SOLID_REP"
	LeanDem          Classification = "LEAN_DEM"
	LeanRep          Classification = "LEAN_REP"
	Swing            Classification = "SWING"
	CompetitiveDem   Classification = "COMPETITIVE_DEM"
	CompetitiveRep   Classification = "COMPETITIVE_REP"
	InsufficientData Classification = "INSUFFICIENT_DATA"
)

// TrajectoryDirection labels the sign of a county's long-run margin slope.
type TrajectoryDirection string

// Trajectory directions. The slope threshold is ±2 margin points per cycle.
const (
	TrendingDem TrajectoryDirection = "TRENDING_DEM"
	TrendingRep TrajectoryDirection = "TRENDING_REP"
	Stable      TrajectoryDirection = "STABLE"
)

// CycleObservation is one cycle of a county's history as consumed by the
// trend engine. Swing is nil for the county's first observed cycle.
type CycleObservation struct {
	Swing  *float64
	Winner Party
	Margin float64
	Year   int
}

// TrendMetrics holds the derived long-run metrics for a county. Only
// present when the county has at least three cycles of data.
type TrendMetrics struct {
	FlipRate            float64
	AvgMargin           float64
	MedianMargin        float64
	MarginStdDev        float64
	DemWinPct           float64
	RepWinPct           float64
	Trajectory          float64
	AvgSwingMagnitude   float64
	MaxSwing            float64
	CloseElectionRate   float64
	AvgCompetitiveness  float64
	BellwetherScore     float64
	TotalFlips          int
	TrajectoryDirection TrajectoryDirection
}

// TrendRecord is the per-county output of the trend engine, spanning every
// cycle the county has data for.
type TrendRecord struct {
	Metrics        *TrendMetrics
	FIPS           string
	County         string
	State          string
	Classification Classification
	CyclesWithData int
	FirstCycle     int
	LastCycle      int
}
