package parse

import (
	"fmt"
	"sort"

	"github.com/dekarrin/rezi"

	"github.com/dekarrin/minnow/grammar"
	"github.com/dekarrin/minnow/internal/util"
)

// Generated tables can be encoded to bytes and decoded again so that hosts
// can cache them instead of re-running table construction on every start. A
// decoded parser is rebound to a grammar, which must be the same grammar the
// table was generated from; production indexes are not re-validated beyond a
// bounds check.

// MarshalBinary encodes the predictive table. It always returns a nil error.
func (ll1 *LL1) MarshalBinary() ([]byte, error) {
	data := rezi.EncBool(ll1.conflict)

	rows := util.OrderedKeys(map[string]map[string]int(ll1.table))
	data = append(data, rezi.EncInt(len(rows))...)
	for _, nt := range rows {
		data = append(data, rezi.EncString(nt)...)

		cols := util.OrderedKeys(ll1.table[nt])
		data = append(data, rezi.EncInt(len(cols))...)
		for _, term := range cols {
			data = append(data, rezi.EncString(term)...)
			data = append(data, rezi.EncInt(ll1.table[nt][term])...)
		}
	}

	return data, nil
}

// UnmarshalBinary decodes a predictive table previously encoded with
// MarshalBinary.
func (ll1 *LL1) UnmarshalBinary(data []byte) error {
	var n int
	var err error

	ll1.conflict, n, err = rezi.DecBool(data)
	if err != nil {
		return fmt.Errorf("conflict flag: %w", err)
	}
	data = data[n:]

	var numRows int
	numRows, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("row count: %w", err)
	}
	data = data[n:]

	ll1.table = util.NewMatrix2[string, string, int]()
	for r := 0; r < numRows; r++ {
		var nt string
		nt, n, err = rezi.DecString(data)
		if err != nil {
			return fmt.Errorf("row %d: %w", r, err)
		}
		data = data[n:]

		var numCols int
		numCols, n, err = rezi.DecInt(data)
		if err != nil {
			return fmt.Errorf("row %q: column count: %w", nt, err)
		}
		data = data[n:]

		for k := 0; k < numCols; k++ {
			var term string
			term, n, err = rezi.DecString(data)
			if err != nil {
				return fmt.Errorf("row %q: %w", nt, err)
			}
			data = data[n:]

			var prodIdx int
			prodIdx, n, err = rezi.DecInt(data)
			if err != nil {
				return fmt.Errorf("cell (%q, %q): %w", nt, term, err)
			}
			data = data[n:]

			ll1.table.Set(nt, term, prodIdx)
		}
	}

	return nil
}

// LoadLL1 rebuilds an LL(1) parser from an encoded table and the grammar it
// was generated from.
func LoadLL1(cfg *grammar.CFG, data []byte) (*LL1, error) {
	ll1 := &LL1{cfg: cfg}
	if err := ll1.UnmarshalBinary(data); err != nil {
		return nil, err
	}

	for _, row := range ll1.table {
		for _, prodIdx := range row {
			if prodIdx < 0 || prodIdx >= cfg.Size() {
				return nil, fmt.Errorf("table references production %d but the grammar has %d", prodIdx, cfg.Size())
			}
		}
	}

	return ll1, nil
}

// MarshalBinary encodes the action/goto table. It always returns a nil
// error.
func (slr *SLR1) MarshalBinary() ([]byte, error) {
	data := rezi.EncBool(slr.conflict)
	data = append(data, rezi.EncString(slr.eos)...)

	states := make([]int, 0, len(slr.table))
	for state := range slr.table {
		states = append(states, state)
	}
	sort.Ints(states)

	data = append(data, rezi.EncInt(len(states))...)
	for _, state := range states {
		data = append(data, rezi.EncInt(state)...)

		row := slr.table[state]
		cols := util.OrderedKeys(row)
		data = append(data, rezi.EncInt(len(cols))...)
		for _, symbol := range cols {
			data = append(data, rezi.EncString(symbol)...)
			data = append(data, rezi.EncInt(int(row[symbol].kind))...)
			data = append(data, rezi.EncInt(row[symbol].target)...)
		}
	}

	return data, nil
}

// UnmarshalBinary decodes an action/goto table previously encoded with
// MarshalBinary.
func (slr *SLR1) UnmarshalBinary(data []byte) error {
	var n int
	var err error

	slr.conflict, n, err = rezi.DecBool(data)
	if err != nil {
		return fmt.Errorf("conflict flag: %w", err)
	}
	data = data[n:]

	slr.eos, n, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("end marker: %w", err)
	}
	data = data[n:]

	var numStates int
	numStates, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("state count: %w", err)
	}
	data = data[n:]

	slr.table = map[int]map[string]ascAction{}
	for s := 0; s < numStates; s++ {
		var state int
		state, n, err = rezi.DecInt(data)
		if err != nil {
			return fmt.Errorf("state id: %w", err)
		}
		data = data[n:]

		var numCols int
		numCols, n, err = rezi.DecInt(data)
		if err != nil {
			return fmt.Errorf("state %d: column count: %w", state, err)
		}
		data = data[n:]

		row := map[string]ascAction{}
		for k := 0; k < numCols; k++ {
			var symbol string
			symbol, n, err = rezi.DecString(data)
			if err != nil {
				return fmt.Errorf("state %d: %w", state, err)
			}
			data = data[n:]

			var kind, target int
			kind, n, err = rezi.DecInt(data)
			if err != nil {
				return fmt.Errorf("cell (%d, %q): %w", state, symbol, err)
			}
			data = data[n:]

			target, n, err = rezi.DecInt(data)
			if err != nil {
				return fmt.Errorf("cell (%d, %q): %w", state, symbol, err)
			}
			data = data[n:]

			if kind < int(actError) || kind > int(actAccept) {
				return fmt.Errorf("cell (%d, %q): bad action kind %d", state, symbol, kind)
			}
			row[symbol] = ascAction{kind: lrActionKind(kind), target: target}
		}
		slr.table[state] = row
	}

	return nil
}

// LoadSLR1 rebuilds an SLR(1) parser from an encoded table and the grammar
// it was generated from. The LR(0) collection itself is not restored; only
// what Parse needs.
func LoadSLR1(cfg *grammar.CFG, data []byte) (*SLR1, error) {
	slr := &SLR1{cfg: cfg}
	if err := slr.UnmarshalBinary(data); err != nil {
		return nil, err
	}

	for state, row := range slr.table {
		for symbol, action := range row {
			if action.kind == actReduce && (action.target < 0 || action.target >= cfg.Size()) {
				return nil, fmt.Errorf("cell (%d, %q) reduces production %d but the grammar has %d", state, symbol, action.target, cfg.Size())
			}
		}
	}

	return slr, nil
}
