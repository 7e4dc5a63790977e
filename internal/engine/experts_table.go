package engine

import "fmt"

// Experts in this file accumulate keyed next-move counts as rounds are
// revealed. Keys encode moves as r/p/s and outcomes as w/l/t.

// markovExpert keys on the player's last `order` moves and falls back to
// shorter suffixes when the exact key has never been seen.
type markovExpert struct {
	order int
	alpha float64
	table map[string]countRow
}

func newMarkovExpert(order int, alpha float64) *markovExpert {
	return &markovExpert{order: order, alpha: alpha, table: make(map[string]countRow)}
}

func (e *markovExpert) Kind() string  { return KindMarkov }
func (e *markovExpert) Label() string { return fmt.Sprintf("%s%d", KindMarkov, e.order) }

func (e *markovExpert) Predict(ctx *Context) Distribution {
	moves := ctx.PlayerMoves
	longest := min(e.order, len(moves))
	for k := longest; k >= 1; k-- {
		key := encodeMoves(moves[len(moves)-k:])
		if row, ok := e.table[key]; ok {
			return row.smoothed(e.alpha)
		}
	}
	return Uniform()
}

// Update tallies the realized move under every suffix length up to the
// order, so that the shorter fallback keys stay populated.
func (e *markovExpert) Update(ctx *Context, actual Move) {
	moves := ctx.PlayerMoves
	longest := min(e.order, len(moves))
	for k := longest; k >= 1; k-- {
		key := encodeMoves(moves[len(moves)-k:])
		row := e.table[key]
		row[actual]++
		e.table[key] = row
	}
}

// outcomeExpert keys on the previous round's outcome: some players change
// moves after a loss and repeat after a win regardless of what they threw.
type outcomeExpert struct {
	alpha float64
	table map[string]countRow
}

func newOutcomeExpert(alpha float64) *outcomeExpert {
	return &outcomeExpert{alpha: alpha, table: make(map[string]countRow)}
}

func (e *outcomeExpert) Kind() string  { return KindOutcome }
func (e *outcomeExpert) Label() string { return KindOutcome }

func (e *outcomeExpert) Predict(ctx *Context) Distribution {
	outcome, ok := ctx.lastOutcome()
	if !ok {
		return Uniform()
	}
	return e.table[string(outcomeChars[outcome])].smoothed(e.alpha)
}

func (e *outcomeExpert) Update(ctx *Context, actual Move) {
	outcome, ok := ctx.lastOutcome()
	if !ok {
		return
	}
	key := string(outcomeChars[outcome])
	row := e.table[key]
	row[actual]++
	e.table[key] = row
}

// wslsExpert keys on (previous outcome, previous player move), capturing
// win-stay/lose-shift bias explicitly.
type wslsExpert struct {
	alpha float64
	table map[string]countRow
}

func newWSLSExpert(alpha float64) *wslsExpert {
	return &wslsExpert{alpha: alpha, table: make(map[string]countRow)}
}

func (e *wslsExpert) Kind() string  { return KindWSLS }
func (e *wslsExpert) Label() string { return KindWSLS }

func (e *wslsExpert) key(ctx *Context) (string, bool) {
	outcome, ok := ctx.lastOutcome()
	if !ok {
		return "", false
	}
	move, ok := ctx.lastPlayerMove()
	if !ok {
		return "", false
	}
	return string([]byte{outcomeChars[outcome], moveChars[move]}), true
}

func (e *wslsExpert) Predict(ctx *Context) Distribution {
	key, ok := e.key(ctx)
	if !ok {
		return Uniform()
	}
	return e.table[key].smoothed(e.alpha)
}

func (e *wslsExpert) Update(ctx *Context, actual Move) {
	key, ok := e.key(ctx)
	if !ok {
		return
	}
	row := e.table[key]
	row[actual]++
	e.table[key] = row
}

// baitExpert keys on the AI's previous move, catching players who react to
// what the engine just threw rather than to their own history.
type baitExpert struct {
	alpha float64
	table map[string]countRow
}

func newBaitExpert(alpha float64) *baitExpert {
	return &baitExpert{alpha: alpha, table: make(map[string]countRow)}
}

func (e *baitExpert) Kind() string  { return KindBait }
func (e *baitExpert) Label() string { return KindBait }

func (e *baitExpert) Predict(ctx *Context) Distribution {
	move, ok := ctx.lastAIMove()
	if !ok {
		return Uniform()
	}
	return e.table[string(moveChars[move])].smoothed(e.alpha)
}

func (e *baitExpert) Update(ctx *Context, actual Move) {
	move, ok := ctx.lastAIMove()
	if !ok {
		return
	}
	key := string(moveChars[move])
	row := e.table[key]
	row[actual]++
	e.table[key] = row
}
