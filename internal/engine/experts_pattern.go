package engine

// Experts in this file derive everything from the context on each call and
// keep no learned tables; their Update is a no-op.

// frequencyExpert estimates the player's move distribution from a
// Laplace-smoothed count of the last window moves.
type frequencyExpert struct {
	window int
	alpha  float64
}

func newFrequencyExpert(window int, alpha float64) *frequencyExpert {
	return &frequencyExpert{window: window, alpha: alpha}
}

func (e *frequencyExpert) Kind() string  { return KindFrequency }
func (e *frequencyExpert) Label() string { return KindFrequency }

func (e *frequencyExpert) Predict(ctx *Context) Distribution {
	moves := ctx.PlayerMoves
	if len(moves) > e.window {
		moves = moves[len(moves)-e.window:]
	}
	var row countRow
	for _, m := range moves {
		row[m]++
	}
	return row.smoothed(e.alpha)
}

func (e *frequencyExpert) Update(*Context, Move) {}

// recencyExpert weighs the entire history with exponential time decay, so
// recent moves dominate but older habits still contribute.
type recencyExpert struct {
	decay float64
	alpha float64
}

func newRecencyExpert(decay, alpha float64) *recencyExpert {
	return &recencyExpert{decay: decay, alpha: alpha}
}

func (e *recencyExpert) Kind() string  { return KindRecency }
func (e *recencyExpert) Label() string { return KindRecency }

func (e *recencyExpert) Predict(ctx *Context) Distribution {
	var row countRow
	weight := 1.0
	// Walk newest to oldest; the i-th most recent move gets decay^i.
	for i := len(ctx.PlayerMoves) - 1; i >= 0; i-- {
		row[ctx.PlayerMoves[i]] += weight
		weight *= e.decay
	}
	return row.smoothed(e.alpha)
}

func (e *recencyExpert) Update(*Context, Move) {}

// periodicExpert scans the recent window for a repeating cycle. When the
// best period's autocorrelation match rate clears the confidence threshold,
// most of the mass lands on the move the cycle predicts next.
type periodicExpert struct {
	minPeriod  int
	maxPeriod  int
	window     int
	confidence float64
}

func newPeriodicExpert(minPeriod, maxPeriod, window int, confidence float64) *periodicExpert {
	return &periodicExpert{minPeriod: minPeriod, maxPeriod: maxPeriod, window: window, confidence: confidence}
}

func (e *periodicExpert) Kind() string  { return KindPeriodic }
func (e *periodicExpert) Label() string { return KindPeriodic }

func (e *periodicExpert) Predict(ctx *Context) Distribution {
	moves := ctx.PlayerMoves
	if len(moves) > e.window {
		moves = moves[len(moves)-e.window:]
	}
	n := len(moves)

	bestPeriod := 0
	bestScore := 0.0
	for p := e.minPeriod; p <= e.maxPeriod; p++ {
		if n <= p {
			break
		}
		matches := 0
		for i := p; i < n; i++ {
			if moves[i] == moves[i-p] {
				matches++
			}
		}
		score := float64(matches) / float64(n-p)
		if score > bestScore {
			bestScore = score
			bestPeriod = p
		}
	}

	if bestPeriod == 0 || bestScore < e.confidence {
		return Uniform()
	}

	predicted := moves[n-bestPeriod]
	var d Distribution
	for i := range d {
		d[i] = 0.05
	}
	d[predicted] = 0.9
	return d.Normalize()
}

func (e *periodicExpert) Update(*Context, Move) {}
