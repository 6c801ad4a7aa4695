package peg

// memoInUse marks a (index, goal) slot whose evaluation is still on the
// stack. Reading it back during that evaluation means left recursion.
const memoInUse = -2

// position is the per-index memo record. goals maps production ids to
// outcomes (memoInUse, NoMatch or an end index); lits maps literal keys the
// same way. found lists the productions that succeeded here, in recording
// order: innermost first, never with duplicates.
type position struct {
	goals map[int]int
	lits  map[string]int
	found []*Production
}

// at returns the record for index, creating it on first touch.
func (p *Parser) at(index int) *position {
	if p.memo == nil {
		p.memo = make([]*position, len(p.source)+1)
	}
	pos := p.memo[index]
	if pos == nil {
		pos = &position{goals: make(map[int]int), lits: make(map[string]int)}
		p.memo[index] = pos
		if index > p.maxIndex {
			p.maxIndex = index
		}
	}
	return pos
}

// MaxIndex returns the highest source index for which the memo holds any
// record. After a failed parse this is the farthest position the engine
// examined, which makes it the natural anchor for error messages.
func (p *Parser) MaxIndex() int {
	return p.maxIndex
}
