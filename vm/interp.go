package vm

// Width-polymorphic operation families. Each is parameterised over the
// Unsigned constraint and instantiated per concrete width from the
// dispatch switch in Invoke below, which calls one of these functions per
// executed instruction.

func execPushv[T Unsigned](m *Machine) error {
	v, err := fetchArg[T](m)
	if err != nil {
		return err
	}
	return pushWidth[T](m, v)
}

func execPush[T Unsigned](m *Machine) error {
	addr, err := fetchArg[uint64](m)
	if err != nil {
		return err
	}
	v, err := readWidth[T](m, int64(addr))
	if err != nil {
		return err
	}
	return pushWidth[T](m, v)
}

func execSwap[T Unsigned](m *Machine) error {
	a, err := fetchArg[uint64](m)
	if err != nil {
		return err
	}
	b, err := fetchArg[uint64](m)
	if err != nil {
		return err
	}
	return swapWidth[T](m, int64(a), int64(b))
}

func execCpy[T Unsigned](m *Machine) error {
	src, err := fetchArg[uint64](m)
	if err != nil {
		return err
	}
	dst, err := fetchArg[uint64](m)
	if err != nil {
		return err
	}
	return cpyWidth[T](m, int64(src), int64(dst))
}

// execCpyv's wire order is dst then v: the address-sized field precedes
// the width-sized immediate, matching cmpv's a-then-v order, even though
// the mnemonic's conventional argument order names the immediate first.
func execCpyv[T Unsigned](m *Machine) error {
	dst, err := fetchArg[uint64](m)
	if err != nil {
		return err
	}
	v, err := fetchArg[T](m)
	if err != nil {
		return err
	}
	return writeWidth[T](m, int64(dst), v)
}

func execPop[T Unsigned](m *Machine) error {
	_, err := popWidth[T](m)
	return err
}

func execPopm[T Unsigned](m *Machine) error {
	dst, err := fetchArg[uint64](m)
	if err != nil {
		return err
	}
	v, err := popWidth[T](m)
	if err != nil {
		return err
	}
	return writeWidth[T](m, int64(dst), v)
}

type arithOp int

const (
	arithAdd arithOp = iota
	arithSub
	arithMul
	arithDiv
)

// execArith reads the two operand addresses, applies op at width T -- Go's
// unsigned integer arithmetic already wraps modulo 2^W without trapping on
// overflow -- and overwrites the first address with the result.
func execArith[T Unsigned](m *Machine, op arithOp) error {
	a, err := fetchArg[uint64](m)
	if err != nil {
		return err
	}
	b, err := fetchArg[uint64](m)
	if err != nil {
		return err
	}
	av, err := readWidth[T](m, int64(a))
	if err != nil {
		return err
	}
	bv, err := readWidth[T](m, int64(b))
	if err != nil {
		return err
	}
	var res T
	switch op {
	case arithAdd:
		res = av + bv
	case arithSub:
		res = av - bv
	case arithMul:
		res = av * bv
	case arithDiv:
		if bv == 0 {
			return ErrDivideByZero
		}
		res = av / bv
	}
	return writeWidth[T](m, int64(a), res)
}

func execCmp[T Unsigned](m *Machine) error {
	a, err := fetchArg[uint64](m)
	if err != nil {
		return err
	}
	b, err := fetchArg[uint64](m)
	if err != nil {
		return err
	}
	av, err := readWidth[T](m, int64(a))
	if err != nil {
		return err
	}
	bv, err := readWidth[T](m, int64(b))
	if err != nil {
		return err
	}
	return pushWidth[uint8](m, compareUnsigned(av, bv))
}

func execCmpv[T Unsigned](m *Machine) error {
	a, err := fetchArg[uint64](m)
	if err != nil {
		return err
	}
	v, err := fetchArg[T](m)
	if err != nil {
		return err
	}
	av, err := readWidth[T](m, int64(a))
	if err != nil {
		return err
	}
	return pushWidth[uint8](m, compareUnsigned(av, v))
}

// compareUnsigned is the shared comparison contract: 0 if equal, 1 if the
// first operand is greater, 2 if it's lesser -- always unsigned.
func compareUnsigned[T Unsigned](a, b T) uint8 {
	switch {
	case a == b:
		return 0
	case a > b:
		return 1
	default:
		return 2
	}
}

func execShift[T Unsigned](m *Machine) error {
	a, err := fetchArg[uint64](m)
	if err != nil {
		return err
	}
	rawAmt, err := fetchArg[uint8](m)
	if err != nil {
		return err
	}
	amt := int8(rawAmt)
	av, err := readWidth[T](m, int64(a))
	if err != nil {
		return err
	}
	bits := widthOf[T]() * 8
	var res T
	switch {
	case amt < 0:
		by := int64(-int(amt))
		if by >= bits {
			res = 0
		} else {
			res = av << uint(by)
		}
	default:
		by := int64(amt)
		if by >= bits {
			res = 0
		} else {
			res = av >> uint(by)
		}
	}
	return writeWidth[T](m, int64(a), res)
}

// Byte-only bitwise family -- no width suffixes.

func execBnot(m *Machine) error {
	a, err := fetchArg[uint64](m)
	if err != nil {
		return err
	}
	v, err := readWidth[uint8](m, int64(a))
	if err != nil {
		return err
	}
	return writeWidth[uint8](m, int64(a), ^v)
}

func execNot(m *Machine) error {
	a, err := fetchArg[uint64](m)
	if err != nil {
		return err
	}
	v, err := readWidth[uint8](m, int64(a))
	if err != nil {
		return err
	}
	var r uint8
	if v == 0 {
		r = 1
	}
	return writeWidth[uint8](m, int64(a), r)
}

func execBor(m *Machine) error {
	a, err := fetchArg[uint64](m)
	if err != nil {
		return err
	}
	b, err := fetchArg[uint64](m)
	if err != nil {
		return err
	}
	av, err := readWidth[uint8](m, int64(a))
	if err != nil {
		return err
	}
	bv, err := readWidth[uint8](m, int64(b))
	if err != nil {
		return err
	}
	return writeWidth[uint8](m, int64(a), av|bv)
}

func execVor(m *Machine) error {
	a, err := fetchArg[uint64](m)
	if err != nil {
		return err
	}
	v, err := fetchArg[uint8](m)
	if err != nil {
		return err
	}
	av, err := readWidth[uint8](m, int64(a))
	if err != nil {
		return err
	}
	return writeWidth[uint8](m, int64(a), av|v)
}

func execBand(m *Machine) error {
	a, err := fetchArg[uint64](m)
	if err != nil {
		return err
	}
	b, err := fetchArg[uint64](m)
	if err != nil {
		return err
	}
	av, err := readWidth[uint8](m, int64(a))
	if err != nil {
		return err
	}
	bv, err := readWidth[uint8](m, int64(b))
	if err != nil {
		return err
	}
	return writeWidth[uint8](m, int64(a), av&bv)
}

func execVand(m *Machine) error {
	a, err := fetchArg[uint64](m)
	if err != nil {
		return err
	}
	v, err := fetchArg[uint8](m)
	if err != nil {
		return err
	}
	av, err := readWidth[uint8](m, int64(a))
	if err != nil {
		return err
	}
	return writeWidth[uint8](m, int64(a), av&v)
}

func execBnorm(m *Machine) error {
	a, err := fetchArg[uint64](m)
	if err != nil {
		return err
	}
	v, err := readWidth[uint8](m, int64(a))
	if err != nil {
		return err
	}
	var r uint8
	if v != 0 {
		r = 1
	}
	return writeWidth[uint8](m, int64(a), r)
}

// Control flow, structured errors, and VM control -- each has its own
// operand shape, so these are one-off, not width families.

func execJmp(m *Machine) error {
	delta, err := fetchArg[uint64](m)
	if err != nil {
		return err
	}
	m.execPointer += int64(delta)
	return nil
}

func execBranch(m *Machine) error {
	addr, err := fetchArg[uint64](m)
	if err != nil {
		return err
	}
	b, err := popWidth[uint8](m)
	if err != nil {
		return err
	}
	if b == 0 {
		m.execPointer = int64(addr)
	}
	return nil
}

func execCall(m *Machine) error {
	addr, err := fetchArg[uint64](m)
	if err != nil {
		return err
	}
	if err := pushWidth[uint64](m, uint64(m.execPointer)); err != nil {
		return err
	}
	m.execPointer = int64(addr)
	return nil
}

func execRet(m *Machine) error {
	addr, err := popWidth[uint64](m)
	if err != nil {
		return err
	}
	m.execPointer = int64(addr)
	return nil
}

// execInvokevirtual reads the L-word at the operand address; if it names a
// bound host function, the function is called and may terminate Invoke.
// Otherwise the word is treated as a guest code offset and call semantics
// are performed instead.
func (m *Machine) execInvokevirtual() (terminate bool, result InvokeResult, err error) {
	ptr, err := fetchArg[uint64](m)
	if err != nil {
		return false, InvokeResult{}, err
	}
	word, err := readWidth[uint64](m, int64(ptr))
	if err != nil {
		return false, InvokeResult{}, err
	}
	handle := int64(word)
	if m.isRabbitHandle(handle) {
		fn, ok := m.rabbitFns[handle]
		if !ok {
			return false, InvokeResult{}, segfault(handle)
		}
		res, err := fn(m)
		if err != nil {
			return true, InvokeResult{}, err
		}
		if res.Outcome == HostStdabiTestSuccess {
			return true, InvokeResult{Outcome: OutcomeStdabiTestSuccess}, nil
		}
		return false, InvokeResult{}, nil
	}
	if err := pushWidth[uint64](m, uint64(m.execPointer)); err != nil {
		return false, InvokeResult{}, err
	}
	m.execPointer = handle
	return false, InvokeResult{}, nil
}

func (m *Machine) execDock() error {
	nameAddr, err := fetchArg[uint64](m)
	if err != nil {
		return err
	}
	name, err := m.readCString(int64(nameAddr))
	if err != nil {
		return err
	}
	handle, ok := m.dockTable(name)
	if !ok {
		return ErrHostTableNotFound
	}
	return pushWidth[uint64](m, uint64(handle))
}

func (m *Machine) execLoadfun() error {
	nameAddr, err := fetchArg[uint64](m)
	if err != nil {
		return err
	}
	name, err := m.readCString(int64(nameAddr))
	if err != nil {
		return err
	}
	tableHandle, err := popWidth[uint64](m)
	if err != nil {
		return err
	}
	handle, ok := m.loadCallable(int64(tableHandle), name)
	if !ok {
		return ErrHostFunctionNotFound
	}
	return pushWidth[uint64](m, uint64(handle))
}

func (m *Machine) execThrow() error {
	code, err := fetchArg[uint8](m)
	if err != nil {
		return err
	}
	m.errcode = code
	if m.sbmStack == 0 && m.sbmExec == 0 {
		return &UncaughtThrowError{Code: code}
	}
	m.stackPointer = m.sbmStack + 16
	m.execPointer = m.sbmExec
	return nil
}

// execCheckerr always restores the saved sbm from the two L-words setsbm
// left on the stack; it re-arms errcode and jumps only if preErr (the
// errcode value as it stood entering this instruction) is nonzero.
func (m *Machine) execCheckerr(preErr byte) error {
	target, err := fetchArg[uint64](m)
	if err != nil {
		return err
	}
	savedExec, err := popWidth[uint64](m)
	if err != nil {
		return err
	}
	savedStack, err := popWidth[uint64](m)
	if err != nil {
		return err
	}
	m.sbmExec = int64(savedExec)
	m.sbmStack = int64(savedStack)
	if preErr != 0 {
		m.errcode = preErr
		m.execPointer = int64(target)
	}
	return nil
}

func (m *Machine) execGeterr(preErr byte) error {
	return pushWidth[uint8](m, preErr)
}

func (m *Machine) execExit() (InvokeResult, error) {
	v, err := fetchArg[uint64](m)
	if err != nil {
		return InvokeResult{}, err
	}
	return InvokeResult{Outcome: OutcomeExit, Value: int64(v)}, nil
}

// execSetsbm pushes the previous (sbm_stack, sbm_exec) pair as two L-words
// -- sbm_stack first, sbm_exec on top -- and records the new sbm as
// (stack_pointer before those pushes, exec_pointer + 9). The stack pointer
// captured is the pre-push value so that a later throw's "sbm_stack + 16"
// rewind lands exactly past the two saved words.
func (m *Machine) execSetsbm() error {
	oldStack := m.sbmStack
	oldExec := m.sbmExec
	preStackPointer := m.stackPointer
	if err := pushWidth[uint64](m, uint64(oldStack)); err != nil {
		return err
	}
	if err := pushWidth[uint64](m, uint64(oldExec)); err != nil {
		return err
	}
	m.sbmStack = preStackPointer
	m.sbmExec = m.execPointer + 9
	return nil
}

// Invoke runs the guest program starting at the given absolute code
// offset until an exit instruction, a host-call sentinel, or an error
// terminates it. A recover guard converts any Go panic (a bug in this
// layer, never expected in correct operation) into a Segfault, since
// panics should never be observable outside the memory layer.
func (m *Machine) Invoke(offset int64) (result InvokeResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = InvokeResult{}
			err = segfault(m.execPointer)
		}
	}()

	m.execPointer = offset
	m.errcode = 0
	m.sbmStack = 0
	m.sbmExec = 0

	for {
		if m.execPointer < 0 || m.execPointer >= int64(len(m.memory)) {
			return InvokeResult{}, segfault(m.execPointer)
		}
		opcode := Opcode(m.memory[m.execPointer])
		m.execPointer++

		preErr := m.errcode
		if opcode != OpCheckerr {
			m.errcode = 0
		}

		var stepErr error
		switch opcode {
		case OpPushvL:
			stepErr = execPushv[uint64](m)
		case OpPushvI:
			stepErr = execPushv[uint32](m)
		case OpPushvS:
			stepErr = execPushv[uint16](m)
		case OpPushvB:
			stepErr = execPushv[uint8](m)
		case OpPushL:
			stepErr = execPush[uint64](m)
		case OpPushI:
			stepErr = execPush[uint32](m)
		case OpPushS:
			stepErr = execPush[uint16](m)
		case OpPushB:
			stepErr = execPush[uint8](m)
		case OpSwapL:
			stepErr = execSwap[uint64](m)
		case OpSwapI:
			stepErr = execSwap[uint32](m)
		case OpSwapS:
			stepErr = execSwap[uint16](m)
		case OpSwapB:
			stepErr = execSwap[uint8](m)
		case OpCpyL:
			stepErr = execCpy[uint64](m)
		case OpCpyI:
			stepErr = execCpy[uint32](m)
		case OpCpyS:
			stepErr = execCpy[uint16](m)
		case OpCpyB:
			stepErr = execCpy[uint8](m)
		case OpCpyvL:
			stepErr = execCpyv[uint64](m)
		case OpCpyvI:
			stepErr = execCpyv[uint32](m)
		case OpCpyvS:
			stepErr = execCpyv[uint16](m)
		case OpCpyvB:
			stepErr = execCpyv[uint8](m)
		case OpPopL:
			stepErr = execPop[uint64](m)
		case OpPopI:
			stepErr = execPop[uint32](m)
		case OpPopS:
			stepErr = execPop[uint16](m)
		case OpPopB:
			stepErr = execPop[uint8](m)
		case OpPopmL:
			stepErr = execPopm[uint64](m)
		case OpPopmI:
			stepErr = execPopm[uint32](m)
		case OpPopmS:
			stepErr = execPopm[uint16](m)
		case OpPopmB:
			stepErr = execPopm[uint8](m)
		case OpAddL:
			stepErr = execArith[uint64](m, arithAdd)
		case OpAddI:
			stepErr = execArith[uint32](m, arithAdd)
		case OpAddS:
			stepErr = execArith[uint16](m, arithAdd)
		case OpAddB:
			stepErr = execArith[uint8](m, arithAdd)
		case OpSubL:
			stepErr = execArith[uint64](m, arithSub)
		case OpSubI:
			stepErr = execArith[uint32](m, arithSub)
		case OpSubS:
			stepErr = execArith[uint16](m, arithSub)
		case OpSubB:
			stepErr = execArith[uint8](m, arithSub)
		case OpMulL:
			stepErr = execArith[uint64](m, arithMul)
		case OpMulI:
			stepErr = execArith[uint32](m, arithMul)
		case OpMulS:
			stepErr = execArith[uint16](m, arithMul)
		case OpMulB:
			stepErr = execArith[uint8](m, arithMul)
		case OpDivL:
			stepErr = execArith[uint64](m, arithDiv)
		case OpDivI:
			stepErr = execArith[uint32](m, arithDiv)
		case OpDivS:
			stepErr = execArith[uint16](m, arithDiv)
		case OpDivB:
			stepErr = execArith[uint8](m, arithDiv)
		case OpCmpL:
			stepErr = execCmp[uint64](m)
		case OpCmpI:
			stepErr = execCmp[uint32](m)
		case OpCmpS:
			stepErr = execCmp[uint16](m)
		case OpCmpB:
			stepErr = execCmp[uint8](m)
		case OpCmpvL:
			stepErr = execCmpv[uint64](m)
		case OpCmpvI:
			stepErr = execCmpv[uint32](m)
		case OpCmpvS:
			stepErr = execCmpv[uint16](m)
		case OpCmpvB:
			stepErr = execCmpv[uint8](m)
		case OpBnot:
			stepErr = execBnot(m)
		case OpNot:
			stepErr = execNot(m)
		case OpBor:
			stepErr = execBor(m)
		case OpVor:
			stepErr = execVor(m)
		case OpBand:
			stepErr = execBand(m)
		case OpVand:
			stepErr = execVand(m)
		case OpShiftL:
			stepErr = execShift[uint64](m)
		case OpShiftI:
			stepErr = execShift[uint32](m)
		case OpShiftS:
			stepErr = execShift[uint16](m)
		case OpShiftB:
			stepErr = execShift[uint8](m)
		case OpBnorm:
			stepErr = execBnorm(m)
		case OpJmp:
			stepErr = execJmp(m)
		case OpBranch:
			stepErr = execBranch(m)
		case OpCall:
			stepErr = execCall(m)
		case OpRet:
			stepErr = execRet(m)
		case OpInvokevirtual:
			terminate, res, ierr := m.execInvokevirtual()
			if ierr != nil {
				return InvokeResult{}, ierr
			}
			if terminate {
				return res, nil
			}
		case OpDock:
			stepErr = m.execDock()
		case OpLoadfun:
			stepErr = m.execLoadfun()
		case OpThrow:
			stepErr = m.execThrow()
		case OpCheckerr:
			stepErr = m.execCheckerr(preErr)
		case OpGeterr:
			stepErr = m.execGeterr(preErr)
		case OpExit:
			res, eerr := m.execExit()
			if eerr != nil {
				return InvokeResult{}, eerr
			}
			return res, nil
		case OpSetsbm:
			stepErr = m.execSetsbm()
		default:
			return InvokeResult{}, ErrBadInstruction
		}
		if stepErr != nil {
			return InvokeResult{}, stepErr
		}
	}
}
