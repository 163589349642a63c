package watermark

// pilotStats is the per-frame result of analyzing the 8 pilot score
// positions: where the high/low clusters sit and which polarity (did
// "high score" mean bit 1 or bit 0) the frame voted for.
type pilotStats struct {
	threshold float64
	avgHigh   float64
	avgLow    float64
	inverted  bool
	matches   int
}

// analyzePilot computes pilotStats from the first 8 entries of a
// frame's score vector, per spec component C5 step 4. ok reports
// whether at least 5 of 8 pilot positions agree with either polarity;
// frames that fail this check are excluded from cross-frame
// aggregation.
func analyzePilot(scores []float64) (pilotStats, bool) {
	var sumHigh, sumLow float64
	for k := 0; k < pilotBits; k++ {
		if Pilot[k] == 1 {
			sumHigh += scores[k]
		} else {
			sumLow += scores[k]
		}
	}

	avgHigh := sumHigh / 4
	avgLow := sumLow / 4
	threshold := (avgHigh + avgLow) / 2

	matchesNormal := 0
	matchesInverted := 0
	for k := 0; k < pilotBits; k++ {
		normalBit := byte(0)
		if scores[k] >= threshold {
			normalBit = 1
		}
		if normalBit == Pilot[k] {
			matchesNormal++
		}

		invertedBit := byte(0)
		if scores[k] <= threshold {
			invertedBit = 1
		}
		if invertedBit == Pilot[k] {
			matchesInverted++
		}
	}

	inverted := matchesInverted > matchesNormal
	matches := matchesNormal
	if inverted {
		matches = matchesInverted
	}

	return pilotStats{
		threshold: threshold,
		avgHigh:   avgHigh,
		avgLow:    avgLow,
		inverted:  inverted,
		matches:   matches,
	}, matches >= pilotMatchFloor
}

// accumulator is the stateful (add_frame, finalize) cross-frame vote
// and score accumulator described in the design notes. It owns no
// resources beyond its slices and is scoped to a single decode call.
type accumulator struct {
	usableBins int

	scoreSum []float64
	voteSum  []float64
	count    []int

	thresholdSum float64
	avgHighSum   float64
	avgLowSum    float64

	invertedVotes    int
	notInvertedVotes int
	acceptedFrames   int
}

func newAccumulator(usableBins int) *accumulator {
	return &accumulator{
		usableBins: usableBins,
		scoreSum:   make([]float64, usableBins),
		voteSum:    make([]float64, usableBins),
		count:      make([]int, usableBins),
	}
}

// addFrame folds one accepted frame's scores and pilot polarity into
// the running totals.
func (a *accumulator) addFrame(scores []float64, pilot pilotStats) {
	for k := 0; k < a.usableBins && k < len(scores); k++ {
		a.scoreSum[k] += scores[k]
		a.count[k]++

		vote := scores[k] >= pilot.threshold
		if pilot.inverted {
			vote = !vote
		}
		if vote {
			a.voteSum[k]++
		}
	}

	a.thresholdSum += pilot.threshold
	a.avgHighSum += pilot.avgHigh
	a.avgLowSum += pilot.avgLow
	if pilot.inverted {
		a.invertedVotes++
	} else {
		a.notInvertedVotes++
	}
	a.acceptedFrames++
}

// aggregate is the finalized, per-bit-position view of everything the
// accumulator collected, plus the global pilot statistics used by the
// decision rule.
type aggregate struct {
	avgScore  []float64
	voteRatio []float64

	threshold      float64
	avgHigh        float64
	avgLow         float64
	inverted       bool
	acceptedFrames int
}

func (a *accumulator) finalize() aggregate {
	agg := aggregate{
		avgScore:       make([]float64, a.usableBins),
		voteRatio:      make([]float64, a.usableBins),
		acceptedFrames: a.acceptedFrames,
	}
	if a.acceptedFrames == 0 {
		return agg
	}

	for k := 0; k < a.usableBins; k++ {
		if a.count[k] == 0 {
			continue
		}
		agg.avgScore[k] = a.scoreSum[k] / float64(a.count[k])
		agg.voteRatio[k] = a.voteSum[k] / float64(a.count[k])
	}

	n := float64(a.acceptedFrames)
	agg.threshold = a.thresholdSum / n
	agg.avgHigh = a.avgHighSum / n
	agg.avgLow = a.avgLowSum / n
	agg.inverted = a.invertedVotes > a.notInvertedVotes
	return agg
}
