package codegen

import (
	. "github.com/katsu-lua/lua54/compiler/ast"
)

func cgStat(fi *funcInfo, node Stat) {
	switch stat := node.(type) {
	case *EmptyStat:
		// nothing to do
	case *BreakStat:
		cgBreakStat(fi, stat)
	case *LabelStat:
		fi.defineLabel(stat.Name)
	case *GotoStat:
		fi.emitGoto(stat.Line, stat.Name)
	case *DoStat:
		cgDoStat(fi, stat)
	case *WhileStat:
		cgWhileStat(fi, stat)
	case *RepeatStat:
		cgRepeatStat(fi, stat)
	case *IfStat:
		cgIfStat(fi, stat)
	case *ForNumStat:
		cgForNumStat(fi, stat)
	case *ForInStat:
		cgForInStat(fi, stat)
	case *AssignStat:
		cgAssignStat(fi, stat)
	case *LocalVarDeclStat:
		cgLocalVarDeclStat(fi, stat)
	case *LocalFuncDefStat:
		cgLocalFuncDefStat(fi, stat)
	case *FuncCallExp:
		cgFuncCallExpStat(fi, stat)
	}
}

func cgBreakStat(fi *funcInfo, node *BreakStat) {
	pc := fi.emitJmp(node.Line, 0, 0)
	fi.addBreakJmp(pc)
}

func cgDoStat(fi *funcInfo, node *DoStat) {
	fi.enterScope(false)
	cgBlock(fi, node.Block)
	fi.closeOpenUpvals(node.Block.LastLine)
	fi.exitScope(fi.pc() + 1)
}

// while exp do block end
func cgWhileStat(fi *funcInfo, node *WhileStat) {
	pcBeforeExp := fi.pc()

	oldRegs := fi.usedRegs
	a, _ := expToOpArg(fi, node.Exp, ARG_REG)
	fi.usedRegs = oldRegs

	line := lineOf(node.Exp)
	fi.emitTest(line, a, 0)
	pcJmpToEnd := fi.emitJmp(line, 0, 0)

	fi.enterScope(true)
	cgBlock(fi, node.Block)
	fi.closeOpenUpvals(node.Block.LastLine)
	fi.exitScope(fi.pc() + 1)
	fi.emitJmp(node.Block.LastLine, 0, pcBeforeExp-fi.pc())

	fi.fixSbx(pcJmpToEnd, fi.pc()-pcJmpToEnd)
}

// repeat block until exp
// the `until` condition can see locals declared inside the block, so the
// scope only closes once the condition has been evaluated.
func cgRepeatStat(fi *funcInfo, node *RepeatStat) {
	pcBeforeBlock := fi.pc()

	fi.enterScope(true)
	cgBlock(fi, node.Block)

	oldRegs := fi.usedRegs
	a, _ := expToOpArg(fi, node.Exp, ARG_REG)
	fi.usedRegs = oldRegs

	line := lineOf(node.Exp)
	fi.emitTest(line, a, 0)
	fi.emitJmp(line, 0, pcBeforeBlock-fi.pc())

	fi.closeOpenUpvals(line)
	fi.exitScope(fi.pc() + 1)
}

// if exp then block {elseif exp then block} [else block] end
func cgIfStat(fi *funcInfo, node *IfStat) {
	pcJmpToEnds := make([]int, len(node.Exps))
	pcJmpToNext := -1

	for i, exp := range node.Exps {
		if pcJmpToNext >= 0 {
			fi.fixSbx(pcJmpToNext, fi.pc()-pcJmpToNext)
		}

		oldRegs := fi.usedRegs
		a, _ := expToOpArg(fi, exp, ARG_REG)
		fi.usedRegs = oldRegs

		line := lineOf(exp)
		fi.emitTest(line, a, 0)
		pcJmpToNext = fi.emitJmp(line, 0, 0)

		block := node.Blocks[i]
		fi.enterScope(false)
		cgBlock(fi, block)
		fi.closeOpenUpvals(block.LastLine)
		fi.exitScope(fi.pc() + 1)
		if i < len(node.Exps)-1 {
			pcJmpToEnds[i] = fi.emitJmp(block.LastLine, 0, 0)
		} else {
			pcJmpToEnds[i] = pcJmpToNext
		}
	}

	for _, pc := range pcJmpToEnds {
		fi.fixSbx(pc, fi.pc()-pc)
	}
}

// for Name '=' exp ',' exp [',' exp] do block end
func cgForNumStat(fi *funcInfo, node *ForNumStat) {
	forIdxName := "(for index)"
	forLimitName := "(for limit)"
	forStepName := "(for step)"

	fi.enterScope(true)

	cgLocalVarDeclStat(fi, &LocalVarDeclStat{
		LastLine: node.LineOfDo,
		NameList: []string{forIdxName, forLimitName, forStepName},
		Attribs:  []string{"", "", ""},
		ExpList:  []Exp{node.InitExp, node.LimitExp, node.StepExp},
	})
	fi.addLocVar(node.VarName, fi.pc()+2)

	a := fi.usedRegs - 4
	pcForPrep := fi.emitForPrep(node.LineOfDo, a, 0)
	cgBlock(fi, node.Block)
	fi.closeOpenUpvals(node.Block.LastLine)
	fi.exitScope(fi.pc() + 1)

	pcForLoop := fi.emitForLoop(node.Block.LastLine, a, 0)
	fi.fixSbx(pcForPrep, pcForLoop-pcForPrep-1)
	fi.fixSbx(pcForLoop, pcForPrep-pcForLoop)
}

// for namelist in explist do block end
func cgForInStat(fi *funcInfo, node *ForInStat) {
	forGeneratorName := "(for generator)"
	forStateName := "(for state)"
	forControlName := "(for control)"

	fi.enterScope(true)

	cgLocalVarDeclStat(fi, &LocalVarDeclStat{
		LastLine: node.LineOfDo,
		NameList: []string{forGeneratorName, forStateName, forControlName},
		Attribs:  []string{"", "", ""},
		ExpList:  node.ExpList,
	})
	for _, name := range node.NameList {
		fi.addLocVar(name, fi.pc()+2)
	}

	pcJmpToTFC := fi.emitJmp(node.LineOfDo, 0, 0)
	cgBlock(fi, node.Block)
	fi.closeOpenUpvals(node.Block.LastLine)
	fi.exitScope(fi.pc() + 1)

	fi.fixSbx(pcJmpToTFC, fi.pc()-pcJmpToTFC)

	line := node.LineOfDo
	rGenerator := fi.slotOfLocVar(forGeneratorName)
	fi.emitTForCall(line, rGenerator, len(node.NameList))
	fi.emitTForLoop(line, rGenerator+2, pcJmpToTFC-fi.pc())
}

// local namelist ['=' explist]
func cgLocalVarDeclStat(fi *funcInfo, node *LocalVarDeclStat) {
	exps := node.ExpList
	nExps := len(exps)
	nNames := len(node.NameList)

	oldRegs := fi.usedRegs
	if nExps == nNames {
		for _, exp := range exps {
			a := fi.allocReg()
			cgExp(fi, exp, a, 1)
		}
	} else if nExps > nNames {
		for i, exp := range exps {
			a := fi.allocReg()
			if i == nExps-1 && isVarargOrFuncCall(exp) {
				cgExp(fi, exp, a, 0)
			} else {
				cgExp(fi, exp, a, 1)
			}
		}
	} else { // nNames > nExps
		multRet := false
		for i, exp := range exps {
			a := fi.allocReg()
			if i == nExps-1 && isVarargOrFuncCall(exp) {
				multRet = true
				n := nNames - nExps + 1
				cgExp(fi, exp, a, n)
				fi.allocRegs(n - 1)
			} else {
				cgExp(fi, exp, a, 1)
			}
		}
		if !multRet {
			n := nNames - nExps
			a := fi.allocRegs(n)
			fi.emitLoadNil(node.LastLine, a, n)
		}
	}

	fi.usedRegs = oldRegs
	startPC := fi.pc() + 1
	for i, name := range node.NameList {
		slot := fi.addLocVar(name, startPC)
		if i < len(node.Attribs) && node.Attribs[i] == "close" {
			fi.emitTBC(node.LastLine, slot)
			fi.addTBC(slot)
		}
	}
}

// local function Name funcbody
// the name is declared before the body is compiled so the function can
// recurse through it.
func cgLocalFuncDefStat(fi *funcInfo, node *LocalFuncDefStat) {
	r := fi.addLocVar(node.Name, fi.pc()+2)
	cgFuncDefExp(fi, node.Exp, r)
}

// varlist '=' explist
func cgAssignStat(fi *funcInfo, node *AssignStat) {
	exps := node.ExpList
	nExps := len(exps)
	nVars := len(node.VarList)

	tRegs := make([]int, nVars)
	kRegs := make([]int, nVars)
	vRegs := make([]int, nVars)
	oldRegs := fi.usedRegs

	for i, exp := range node.VarList {
		if taExp, ok := exp.(*TableAccessExp); ok {
			tRegs[i] = fi.allocReg()
			cgExp(fi, taExp.PrefixExp, tRegs[i], 1)
			kRegs[i], _ = expToOpArg(fi, taExp.KeyExp, ARG_RK)
		}
	}
	for i := 0; i < nVars; i++ {
		vRegs[i] = fi.usedRegs + i
	}

	if nExps >= nVars {
		for i, exp := range exps {
			a := fi.allocReg()
			if i >= nVars-1 && i == nExps-1 && isVarargOrFuncCall(exp) {
				n := 0
				if i >= nVars {
					n = -1
				}
				cgExp(fi, exp, a, n)
			} else {
				cgExp(fi, exp, a, 1)
			}
		}
	} else { // nVars > nExps
		multRet := false
		for i, exp := range exps {
			a := fi.allocReg()
			if i == nExps-1 && isVarargOrFuncCall(exp) {
				multRet = true
				n := nVars - nExps + 1
				cgExp(fi, exp, a, n)
				fi.allocRegs(n - 1)
			} else {
				cgExp(fi, exp, a, 1)
			}
		}
		if !multRet {
			n := nVars - nExps
			a := fi.allocRegs(n)
			fi.emitLoadNil(node.LastLine, a, n)
		}
	}

	for i, exp := range node.VarList {
		v := vRegs[i]
		if nameExp, ok := exp.(*NameExp); ok {
			varName := nameExp.Name
			if r := fi.slotOfLocVar(varName); r >= 0 {
				fi.emitMove(node.LastLine, r, v)
			} else if idx := fi.indexOfUpval(varName); idx >= 0 {
				fi.emitSetUpval(node.LastLine, v, idx)
			} else if r := fi.slotOfLocVar("_ENV"); r >= 0 {
				b := 0x100 + fi.indexOfConstant(varName)
				fi.emitSetTable(node.LastLine, r, b, v)
			} else {
				idx := fi.indexOfUpval("_ENV")
				b := 0x100 + fi.indexOfConstant(varName)
				fi.emitSetTabUp(node.LastLine, idx, b, v)
			}
		} else {
			fi.emitSetTable(node.LastLine, tRegs[i], kRegs[i], v)
		}
	}

	fi.usedRegs = oldRegs
}

func cgFuncCallExpStat(fi *funcInfo, node *FuncCallExp) {
	r := fi.allocReg()
	cgFuncCallExp(fi, node, r, 0)
	fi.freeReg()
}
