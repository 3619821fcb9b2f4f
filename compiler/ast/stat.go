package ast

// Stat is any of Lua's statement forms. Like Exp it is a closed sum matched
// by type switch in the code generator; FuncCallExp doubles as the
// `functioncall` statement form since a bare call is also a valid prefixexp.
type Stat interface{}

type EmptyStat struct{} // ;

type BreakStat struct{ Line int } // break

// goto Name
type GotoStat struct {
	Line int
	Name string
}

// :: Name ::
type LabelStat struct {
	Line int
	Name string
}

// do block end
type DoStat struct {
	Block *Block
}

// while exp do block end
type WhileStat struct {
	Exp   Exp
	Block *Block
}

// repeat block until exp
type RepeatStat struct {
	Block *Block
	Exp   Exp
}

// if exp then block {elseif exp then block} [else block] end
type IfStat struct {
	Exps   []Exp
	Blocks []*Block
}

// for Name '=' exp ',' exp [',' exp] do block end
type ForNumStat struct {
	LineOfFor int
	LineOfDo  int
	VarName   string
	InitExp   Exp
	LimitExp  Exp
	StepExp   Exp
	Block     *Block
}

// for namelist in explist do block end
type ForInStat struct {
	LineOfDo int
	NameList []string
	ExpList  []Exp
	Block    *Block
}

// local namelist ['=' explist]
// Attribs[i] is "" (no attribute), "const", or "close" per namelist[i].
type LocalVarDeclStat struct {
	LastLine int
	NameList []string
	Attribs  []string
	ExpList  []Exp
}

// local function Name funcbody
type LocalFuncDefStat struct {
	Name string
	Exp  *FuncDefExp
}

// varlist '=' explist
type AssignStat struct {
	LastLine int
	VarList  []Exp
	ExpList  []Exp
}
