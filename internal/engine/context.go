package engine

// Context is the observed round history handed to the engine each turn by
// the host. All three slices have the same length and are ordered oldest
// first. Rand, when set, is the random source for every stochastic choice
// made while handling this context; it must return values in [0, 1).
type Context struct {
	PlayerMoves []Move
	AIMoves     []Move
	Outcomes    []Outcome
	Rand        func() float64
}

// Rounds returns the number of completed rounds in the history.
func (c *Context) Rounds() int {
	return len(c.PlayerMoves)
}

// Record appends a completed round, deriving the outcome from the two moves.
func (c *Context) Record(player, ai Move) {
	c.PlayerMoves = append(c.PlayerMoves, player)
	c.AIMoves = append(c.AIMoves, ai)
	c.Outcomes = append(c.Outcomes, OutcomeOf(player, ai))
}

func (c *Context) lastPlayerMove() (Move, bool) {
	if len(c.PlayerMoves) == 0 {
		return Rock, false
	}
	return c.PlayerMoves[len(c.PlayerMoves)-1], true
}

func (c *Context) lastAIMove() (Move, bool) {
	if len(c.AIMoves) == 0 {
		return Rock, false
	}
	return c.AIMoves[len(c.AIMoves)-1], true
}

func (c *Context) lastOutcome() (Outcome, bool) {
	if len(c.Outcomes) == 0 {
		return Tie, false
	}
	return c.Outcomes[len(c.Outcomes)-1], true
}

func (c *Context) rand() float64 {
	if c.Rand != nil {
		return c.Rand()
	}
	return engineFloat64()
}

// uniformMove draws a uniform-random move from the context's random source.
func (c *Context) uniformMove() Move {
	m := Move(int(c.rand() * NumMoves))
	if m >= NumMoves {
		m = NumMoves - 1
	}
	return m
}
