package vm

import "fmt"

// Opcode is a single instruction byte identifying one of the stack-only
// dialect's fixed operations.
type Opcode byte

const (
	OpPushvL Opcode = iota // 0
	OpPushvI                // 1
	OpPushvS                // 2
	OpPushvB                // 3
	OpPushL                 // 4
	OpPushI                 // 5
	OpPushS                 // 6
	OpPushB                 // 7
	OpSwapL                 // 8
	OpSwapI                 // 9
	OpSwapS                 // 10
	OpSwapB                 // 11
	OpCpyL                  // 12
	OpCpyI                  // 13
	OpCpyS                  // 14
	OpCpyB                  // 15
	OpCpyvL                 // 16
	OpCpyvI                 // 17
	OpCpyvS                 // 18
	OpCpyvB                 // 19
	OpPopL                  // 20
	OpPopI                  // 21
	OpPopS                  // 22
	OpPopB                  // 23
	OpPopmL                 // 24
	OpPopmI                 // 25
	OpPopmS                 // 26
	OpPopmB                 // 27
	OpAddL                  // 28
	OpAddI                  // 29
	OpAddS                  // 30
	OpAddB                  // 31
	OpSubL                  // 32
	OpSubI                  // 33
	OpSubS                  // 34
	OpSubB                  // 35
	OpMulL                  // 36
	OpMulI                  // 37
	OpMulS                  // 38
	OpMulB                  // 39
	OpDivL                  // 40
	OpDivI                  // 41
	OpDivS                  // 42
	OpDivB                  // 43
	OpCmpL                  // 44
	OpCmpI                  // 45
	OpCmpS                  // 46
	OpCmpB                  // 47
	OpCmpvL                 // 48
	OpCmpvI                 // 49
	OpCmpvS                 // 50
	OpCmpvB                 // 51
	OpBnot                  // 52
	OpNot                   // 53
	OpBor                   // 54
	OpVor                   // 55
	OpBand                  // 56
	OpVand                  // 57
	OpShiftL                // 58
	OpShiftI                // 59
	OpShiftS                // 60
	OpShiftB                // 61
	OpBnorm                 // 62
	OpJmp                   // 63
	OpBranch                // 64
	OpCall                  // 65
	OpRet                   // 66
	OpInvokevirtual         // 67
	OpDock                  // 68
	OpLoadfun               // 69
	OpThrow                 // 70
	OpCheckerr              // 71
	OpGeterr                // 72
	OpExit                  // 73
	OpSetsbm                // 74
)

var opcodeNames = map[Opcode]string{
	OpPushvL: "pushvl", OpPushvI: "pushvi", OpPushvS: "pushvs", OpPushvB: "pushvb",
	OpPushL: "pushl", OpPushI: "pushi", OpPushS: "pushs", OpPushB: "pushb",
	OpSwapL: "swapl", OpSwapI: "swapi", OpSwapS: "swaps", OpSwapB: "swapb",
	OpCpyL: "cpyl", OpCpyI: "cpyi", OpCpyS: "cpys", OpCpyB: "cpyb",
	OpCpyvL: "cpyvl", OpCpyvI: "cpyvi", OpCpyvS: "cpyvs", OpCpyvB: "cpyvb",
	OpPopL: "popl", OpPopI: "popi", OpPopS: "pops", OpPopB: "popb",
	OpPopmL: "popml", OpPopmI: "popmi", OpPopmS: "popms", OpPopmB: "popmb",
	OpAddL: "addl", OpAddI: "addi", OpAddS: "adds", OpAddB: "addb",
	OpSubL: "subl", OpSubI: "subi", OpSubS: "subs", OpSubB: "subb",
	OpMulL: "mull", OpMulI: "muli", OpMulS: "muls", OpMulB: "mulb",
	OpDivL: "divl", OpDivI: "divi", OpDivS: "divs", OpDivB: "divb",
	OpCmpL: "cmpl", OpCmpI: "cmpi", OpCmpS: "cmps", OpCmpB: "cmpb",
	OpCmpvL: "cmpvl", OpCmpvI: "cmpvi", OpCmpvS: "cmpvs", OpCmpvB: "cmpvb",
	OpBnot: "bnot", OpNot: "not", OpBor: "bor", OpVor: "vor", OpBand: "band", OpVand: "vand",
	OpShiftL: "shiftl", OpShiftI: "shifti", OpShiftS: "shifts", OpShiftB: "shiftb",
	OpBnorm: "bnorm", OpJmp: "jmp", OpBranch: "branch", OpCall: "call", OpRet: "ret",
	OpInvokevirtual: "invokevirtual", OpDock: "dock", OpLoadfun: "loadfun",
	OpThrow: "throw", OpCheckerr: "checkerr", OpGeterr: "geterr",
	OpExit: "exit", OpSetsbm: "setsbm",
}

// String renders the opcode's mnemonic, or "unknown(n)" for any
// unassigned byte -- those always fail dispatch with BadInstruction, but
// a name is still useful for diagnostics.
func (o Opcode) String() string {
	if name, ok := opcodeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", byte(o))
}
