// Package block implements the program-block compiler (component G,
// spec.md §4.7): an incremental compilation of the 2D grid into a lazily
// built, directed graph of straight-line "program blocks", shared across
// the search frontier and unwound on backtrack via Push/Pop.
package block

import "bbfinder/internal/grid"

// maxProgramSize bounds col/row for indexing purposes; it is independent of
// the actual grid width/height (which must be <= it), matching the
// original's fixed-size block arena.
const maxProgramSize = 8

// MaxBlocks is the size of the block arena: at most 2*maxProgramSize^2
// distinct (standing cell, turn direction) blocks can ever exist.
const MaxBlocks = maxProgramSize * maxProgramSize * 2

// TurnDirection records which way a Turn rotated to produce a block: the
// branch taken depends on whether the data cell was zero (counter-
// clockwise) or non-zero (clockwise) at the moment of entry.
type TurnDirection int8

const (
	CounterClockwise TurnDirection = 0
	Clockwise        TurnDirection = 1
)

// Kind classifies a finalized block's effect.
type Kind int8

const (
	none Kind = iota
	Delta
	Shift
	Exit
	Hang
)

// Block is one arena slot: entry_ip.col/row/turnDirBit determine its
// identity (spec.md §4.7); entryDir is recorded the first time a
// predecessor block (or NewCompiler, for the program's true entry)
// references it, rather than re-derived by scanning neighbor directions —
// see DESIGN.md for why this is a deliberate, safer simplification of the
// original's lookup.
type Block struct {
	startIndex int
	activated  bool
	finalized  bool

	entryCol, entryRow int
	entryDir           grid.Dir
	turnDir            TurnDirection

	kind     Kind
	amount   int8
	numSteps int8

	zeroSucc, nonzeroSucc *Block
}

func (b *Block) StartIndex() int        { return b.startIndex }
func (b *Block) Activated() bool        { return b.activated }
func (b *Block) Finalized() bool        { return b.finalized }
func (b *Block) Kind() Kind             { return b.kind }
func (b *Block) Amount() int            { return int(b.amount) }
func (b *Block) NumSteps() int          { return int(b.numSteps) }
func (b *Block) ZeroSucc() *Block       { return b.zeroSucc }
func (b *Block) NonzeroSucc() *Block    { return b.nonzeroSucc }
func (b *Block) TurnDir() TurnDirection { return b.turnDir }
func (b *Block) IsExit() bool           { return b.finalized && b.kind == Exit }
func (b *Block) IsHang() bool           { return b.finalized && b.kind == Hang }

func (b *Block) unfinalize() {
	b.finalized = false
	b.kind = none
	b.amount = 0
	b.numSteps = 0
	b.zeroSucc = nil
	b.nonzeroSucc = nil
}

func (b *Block) deactivate() {
	b.unfinalize()
	b.activated = false
	b.entryCol, b.entryRow = 0, 0
	b.entryDir = grid.Up
	b.turnDir = CounterClockwise
}

func keyIndex(col, row int, turnDir TurnDirection) int {
	return (col+row*maxProgramSize)*2 + int(turnDir)
}

type frameMark struct {
	activatedLen int
	finalizedLen int
}

// Compiler owns the block arena and the push/pop frame stacks that let the
// searcher backtrack the graph in lockstep with the grid and tape.
type Compiler struct {
	g      *grid.Grid
	blocks [MaxBlocks]Block

	activatedStack []*Block
	finalizedStack []*Block
	frames         []frameMark
}

// NewCompiler allocates the arena and activates the program's true entry
// block: standing in the sentinel row below the grid (col 0, row -1),
// facing Up, as if the previous (nonexistent) instruction turned on a zero
// value. Spec.md §4.1.
func NewCompiler(g *grid.Grid) *Compiler {
	c := &Compiler{g: g}
	for i := range c.blocks {
		c.blocks[i].startIndex = i
	}
	entry := &c.blocks[keyIndex(0, 0, CounterClockwise)]
	entry.activated = true
	entry.entryCol, entry.entryRow = 0, -1
	entry.entryDir = grid.Up
	entry.turnDir = CounterClockwise
	c.activatedStack = append(c.activatedStack, entry)
	return c
}

// EntryBlock returns the arena slot the whole program starts from.
func (c *Compiler) EntryBlock() *Block {
	return &c.blocks[keyIndex(0, 0, CounterClockwise)]
}

// getOrActivate looks up the block for (col, row, turnDir), recording
// entryDir the first time it's referenced.
func (c *Compiler) getOrActivate(col, row int, turnDir TurnDirection, entryDir grid.Dir) *Block {
	b := &c.blocks[keyIndex(col, row, turnDir)]
	if !b.activated {
		b.activated = true
		b.entryCol, b.entryRow = col, row
		b.entryDir = entryDir
		b.turnDir = turnDir
		c.activatedStack = append(c.activatedStack, b)
	}
	return b
}

// Push opens a new search frame for the block graph, per spec.md §3
// "Search frame".
func (c *Compiler) Push() {
	c.frames = append(c.frames, frameMark{len(c.activatedStack), len(c.finalizedStack)})
}

// Pop reverts every block activated or finalized since the matching Push.
func (c *Compiler) Pop() {
	n := len(c.frames) - 1
	mark := c.frames[n]
	c.frames = c.frames[:n]

	for len(c.activatedStack) > mark.activatedLen {
		last := len(c.activatedStack) - 1
		b := c.activatedStack[last]
		c.activatedStack = c.activatedStack[:last]
		b.deactivate()
	}
	for len(c.finalizedStack) > mark.finalizedLen {
		last := len(c.finalizedStack) - 1
		b := c.finalizedStack[last]
		c.finalizedStack = c.finalizedStack[:last]
		b.unfinalize()
	}
}

const maxStepsPerBlock = 127
const maxTurnRotations = 8 // defensive bound absent from the original: a cell
// whose every neighbor is a Turn would otherwise spin forever resolving the
// chain without ever advancing (no progress would ever increment numSteps).

// Finalize constructs block b (which must be activated but not yet
// finalized) by walking the grid from its entry pointer as if executing,
// without touching any tape, per spec.md §4.7's construction rule. It
// returns b once finalized, or nil if construction hit an Unset cell (b
// remains Latent, to be retried once the searcher fills that cell).
func (c *Compiler) Finalize(b *Block) *Block {
	pp := grid.Pointer{Col: b.entryCol, Row: b.entryRow, Dir: b.entryDir}
	var (
		kind          Kind
		amount        int
		numSteps      int
		instructionSet bool
	)

	for {
		rotations := 0
		var ncol, nrow int
		for {
			ncol, nrow = pp.Next()
			if !c.g.InBounds(ncol, nrow) {
				numSteps++
				return c.finalizeExit(b, numSteps)
			}
			op := c.g.Get(ncol, nrow)
			switch op {
			case grid.Unset:
				return nil
			case grid.Noop:
				goto advance
			case grid.Data:
				kind, amount = applyData(kind, amount, pp.Dir)
				instructionSet = true
				goto advance
			case grid.Turn:
				if instructionSet {
					return c.finalizeBlock(b, pp.Col, pp.Row, kind, amount, numSteps, pp.Dir)
				}
				if b.turnDir == CounterClockwise {
					pp.Dir = pp.Dir.RotateCounterClockwise()
				} else {
					pp.Dir = pp.Dir.RotateClockwise()
				}
				rotations++
				if rotations > maxTurnRotations {
					return c.finalizeHang(b, numSteps)
				}
				continue
			}
		}
	advance:
		pp.Col, pp.Row = ncol, nrow
		numSteps++
		if numSteps > maxStepsPerBlock {
			return c.finalizeHang(b, numSteps)
		}
	}
}

// applyData folds one Data cell, entered while traveling dir, into the
// block's running (kind, amount), per spec.md §4.7: Up -> +Delta,
// Down -> -Delta, Right -> +Shift, Left -> -Shift.
func applyData(kind Kind, amount int, dir grid.Dir) (Kind, int) {
	switch dir {
	case grid.Up:
		return Delta, amount + 1
	case grid.Down:
		return Delta, amount - 1
	case grid.Right:
		return Shift, amount + 1
	default: // grid.Left
		return Shift, amount - 1
	}
}

func (c *Compiler) finalizeExit(b *Block, numSteps int) *Block {
	b.kind = Exit
	b.numSteps = int8(numSteps)
	b.finalized = true
	c.finalizedStack = append(c.finalizedStack, b)
	return b
}

func (c *Compiler) finalizeHang(b *Block, numSteps int) *Block {
	b.kind = Hang
	b.numSteps = int8(numSteps)
	b.finalized = true
	c.finalizedStack = append(c.finalizedStack, b)
	return b
}

func (c *Compiler) finalizeBlock(b *Block, endCol, endRow int, kind Kind, amount, numSteps int, outgoingDir grid.Dir) *Block {
	b.kind = kind
	b.amount = int8(amount)
	b.numSteps = int8(numSteps)

	var zeroSucc *Block
	if !(b.turnDir == CounterClockwise && kind == Delta && amount != 0) {
		zeroSucc = c.getOrActivate(endCol, endRow, CounterClockwise, outgoingDir.RotateCounterClockwise())
	}
	nonzeroSucc := c.getOrActivate(endCol, endRow, Clockwise, outgoingDir.RotateClockwise())

	b.zeroSucc = zeroSucc
	b.nonzeroSucc = nonzeroSucc
	b.finalized = true
	c.finalizedStack = append(c.finalizedStack, b)
	return b
}
