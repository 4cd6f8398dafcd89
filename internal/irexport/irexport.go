// Package irexport renders a finalized block graph (internal/block) as
// LLVM IR text, purely as a diagnostic artifact: inspecting a candidate's
// compiled control-flow structure in a disassembler-like form. It is
// never executed. The llir/llvm dependency serves only this read-only
// diagnostic, not code generation for execution.
package irexport

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"

	"bbfinder/internal/bberrors"
	"bbfinder/internal/block"
)

// Export walks the block graph reachable from entry and lowers it to one
// LLVM function whose basic blocks mirror the block graph one-for-one: a
// Delta block becomes an add on a global "cell", a Shift block an add on
// a global "head", and the zero/nonzero successors become a conditional
// branch on whether "cell" reads zero (matching spec.md §4.8's own
// branch-on-tape-value semantics). Exit and Hang blocks, and any block
// whose successor hasn't been finalized yet (an Unset cell is still
// reachable from it), terminate in a bare ret.
func Export(entry *block.Block) (string, error) {
	if entry == nil {
		return "", bberrors.New(bberrors.ExportError, "nil entry block")
	}

	visited := make(map[int]bool, block.MaxBlocks)
	var order []*block.Block

	var walk func(b *block.Block)
	walk = func(b *block.Block) {
		if b == nil || !b.Finalized() || visited[b.StartIndex()] {
			return
		}
		visited[b.StartIndex()] = true
		order = append(order, b)
		walk(b.ZeroSucc())
		walk(b.NonzeroSucc())
	}
	walk(entry)

	if len(order) == 0 {
		return "", bberrors.New(bberrors.ExportError, "no finalized blocks reachable from entry")
	}

	m := ir.NewModule()
	cell := m.NewGlobal("cell", types.I64)
	cell.Init = constant.NewInt(types.I64, 0)
	head := m.NewGlobal("head", types.I64)
	head.Init = constant.NewInt(types.I64, 0)

	fn := m.NewFunc(blockFuncName(entry), types.Void)
	bbs := make(map[int]*ir.Block, len(order))
	for _, b := range order {
		bbs[b.StartIndex()] = fn.NewBlock(blockFuncName(b))
	}

	for _, b := range order {
		bb := bbs[b.StartIndex()]

		switch b.Kind() {
		case block.Delta:
			v := bb.NewLoad(types.I64, cell)
			sum := bb.NewAdd(v, constant.NewInt(types.I64, int64(b.Amount())))
			bb.NewStore(sum, cell)
		case block.Shift:
			v := bb.NewLoad(types.I64, head)
			sum := bb.NewAdd(v, constant.NewInt(types.I64, int64(b.Amount())))
			bb.NewStore(sum, head)
		}

		if b.Kind() == block.Exit || b.Kind() == block.Hang {
			bb.NewRet(nil)
			continue
		}

		nonzeroBB, ok := bbs[b.NonzeroSucc().StartIndex()]
		if !ok {
			bb.NewRet(nil) // successor not finalized: an Unset cell is still reachable from here
			continue
		}

		zeroSucc := b.ZeroSucc()
		if zeroSucc == nil {
			// The zero-successor omission exception (spec.md §4.7): this
			// block's own construction proves the zero path can't occur.
			bb.NewBr(nonzeroBB)
			continue
		}
		zeroBB, ok := bbs[zeroSucc.StartIndex()]
		if !ok {
			bb.NewRet(nil)
			continue
		}

		cmp := bb.NewICmp(enum.IPredEQ, bb.NewLoad(types.I64, cell), constant.NewInt(types.I64, 0))
		bb.NewCondBr(cmp, zeroBB, nonzeroBB)
	}

	return m.String(), nil
}

func blockFuncName(b *block.Block) string {
	turn := "ccw"
	if b.TurnDir() == block.Clockwise {
		turn = "cw"
	}
	return fmt.Sprintf("block_%d_%s", b.StartIndex(), turn)
}
