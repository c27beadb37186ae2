package vm

import "fmt"

// NewStdabiTable builds the "stdabi" conformance host table, exposing two
// callables a guest can dock and invoke:
//
// print pops a string address and writes it to w.
// stest pops a string address and compares it against "STDABI TEST",
// returning HostStdabiTestSuccess on a match or ErrStdabiTestFailure
// otherwise.
func NewStdabiTable(w interface{ Write([]byte) (int, error) }) *HostTable {
	t := NewHostTable("stdabi")
	t.Funcs["print"] = func(m *Machine) (HostResult, error) {
		s, err := popCStringArg(m)
		if err != nil {
			return HostResult{}, err
		}
		fmt.Fprint(w, s)
		return HostResult{Outcome: HostContinue}, nil
	}
	t.Funcs["stest"] = func(m *Machine) (HostResult, error) {
		s, err := popCStringArg(m)
		if err != nil {
			return HostResult{}, err
		}
		if s != "STDABI TEST" {
			return HostResult{}, ErrStdabiTestFailure
		}
		return HostResult{Outcome: HostStdabiTestSuccess}, nil
	}
	return t
}
