package suspicion

import (
	"math"
	"sort"
)

// HeatPoint is one observation of pit boss position against the count.
type HeatPoint struct {
	Round     int     `json:"round"`
	TrueCount float64 `json:"trueCount"`
	Proximity float64 `json:"proximity"`
	Bet       int64   `json:"bet"`
	Attention float64 `json:"attention"`
}

// HeatBucket aggregates points sharing a rounded true count.
type HeatBucket struct {
	TrueCount    float64 `json:"trueCount"`
	AvgProximity float64 `json:"avgProximity"`
	MinProximity float64 `json:"minProximity"`
	MaxProximity float64 `json:"maxProximity"`
	Samples      int     `json:"samples"`
}

// HeatMap records where the pit boss stood as the count moved.
type HeatMap struct {
	points *Ring[HeatPoint]
}

// NewHeatMap creates a heat map keeping the newest size points.
func NewHeatMap(size int) *HeatMap {
	if size <= 0 {
		size = 500
	}
	return &HeatMap{points: NewRing[HeatPoint](size)}
}

// Record adds a point, rounding the true count to the nearest half.
func (h *HeatMap) Record(p HeatPoint) {
	p.TrueCount = math.Round(p.TrueCount*2) / 2
	h.points.Push(p)
}

// Points returns the recorded points oldest first.
func (h *HeatMap) Points() []HeatPoint {
	return h.points.Items()
}

// Len returns the number of recorded points.
func (h *HeatMap) Len() int {
	return h.points.Len()
}

// Reset drops all points.
func (h *HeatMap) Reset() {
	h.points.Clear()
}

// Buckets groups the points by true count, ascending.
func (h *HeatMap) Buckets() []HeatBucket {
	byCount := make(map[float64]*HeatBucket)
	for _, p := range h.points.Items() {
		b, ok := byCount[p.TrueCount]
		if !ok {
			b = &HeatBucket{TrueCount: p.TrueCount, MinProximity: p.Proximity, MaxProximity: p.Proximity}
			byCount[p.TrueCount] = b
		}
		b.AvgProximity += p.Proximity
		b.MinProximity = math.Min(b.MinProximity, p.Proximity)
		b.MaxProximity = math.Max(b.MaxProximity, p.Proximity)
		b.Samples++
	}
	out := make([]HeatBucket, 0, len(byCount))
	for _, b := range byCount {
		b.AvgProximity /= float64(b.Samples)
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TrueCount < out[j].TrueCount })
	return out
}

// DiscretionScore rates from 0 to 100 how little the pit boss position
// differs between positive and negative counts. A player whose play does not
// pull the pit boss in at high counts scores near 100.
func (h *HeatMap) DiscretionScore() float64 {
	var pos, neg float64
	var np, nn int
	for _, p := range h.points.Items() {
		switch {
		case p.TrueCount > 0:
			pos += p.Proximity
			np++
		case p.TrueCount < 0:
			neg += p.Proximity
			nn++
		}
	}
	if np == 0 || nn == 0 {
		return 100
	}
	gap := math.Abs(pos/float64(np) - neg/float64(nn))
	return clamp(100 - gap*3.33)
}
