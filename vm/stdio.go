package vm

import "io"

// NewStdioTable builds the "stdio" host table, a synchronous console
// callable pair:
//
// writebyte pops a single byte and writes it to w.
// writebytes pops a length (L) then an address (L) and writes that many
// bytes starting at the address to w.
func NewStdioTable(w io.Writer) *HostTable {
	t := NewHostTable("stdio")
	t.Funcs["writebyte"] = func(m *Machine) (HostResult, error) {
		b, err := popWidth[uint8](m)
		if err != nil {
			return HostResult{}, err
		}
		if _, err := w.Write([]byte{b}); err != nil {
			return HostResult{}, err
		}
		return HostResult{Outcome: HostContinue}, nil
	}
	t.Funcs["writebytes"] = func(m *Machine) (HostResult, error) {
		length, err := popWidth[uint64](m)
		if err != nil {
			return HostResult{}, err
		}
		addrRaw, err := popWidth[uint64](m)
		if err != nil {
			return HostResult{}, err
		}
		idx, err := m.translate(int64(addrRaw))
		if err != nil {
			return HostResult{}, err
		}
		end := idx + int64(length)
		if end > int64(len(m.memory)) {
			return HostResult{}, segfault(int64(addrRaw) + int64(length))
		}
		if _, err := w.Write(m.memory[idx:end]); err != nil {
			return HostResult{}, err
		}
		return HostResult{Outcome: HostContinue}, nil
	}
	return t
}
