package executor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/onflow/dispute-client/model/dispute"
)

// ErrMalformedOutput is returned when the interpreter printed something that
// cannot be decoded.
var ErrMalformedOutput = errors.New("malformed interpreter output")

// number is a register or pointer value. The interpreter prints it either as a
// JSON number or as a decimal or 0x-prefixed string.
type number uint64

func (n *number) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	s := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	v, ok := math.ParseUint64(s)
	if !ok {
		return fmt.Errorf("invalid number %q: %w", s, ErrMalformedOutput)
	}
	*n = number(v)
	return nil
}

// hash is a lenient 32-byte value: short values such as "0x00" are left padded.
type hash string

func (h hash) value() common.Hash {
	return common.HexToHash(string(h))
}

func hashes(in []hash) []common.Hash {
	out := make([]common.Hash, 0, len(in))
	for _, h := range in {
		out = append(out, h.value())
	}
	return out
}

type wireVM struct {
	Code      hash   `json:"code"`
	Stack     hash   `json:"stack"`
	Memory    hash   `json:"memory"`
	CallStack hash   `json:"call_stack"`
	Globals   hash   `json:"globals"`
	CallTable hash   `json:"calltable"`
	CallTypes hash   `json:"calltypes"`
	InputSize hash   `json:"input_size"`
	InputName hash   `json:"input_name"`
	InputData hash   `json:"input_data"`
	PC        number `json:"pc"`
	StackPtr  number `json:"stack_ptr"`
	CallPtr   number `json:"call_ptr"`
	MemSize   number `json:"memsize"`
}

func (w *wireVM) model() *dispute.VMState {
	return &dispute.VMState{
		Code:      w.Code.value(),
		Stack:     w.Stack.value(),
		Memory:    w.Memory.value(),
		CallStack: w.CallStack.value(),
		Globals:   w.Globals.value(),
		CallTable: w.CallTable.value(),
		CallTypes: w.CallTypes.value(),
		InputSize: w.InputSize.value(),
		InputName: w.InputName.value(),
		InputData: w.InputData.value(),
		PC:        uint64(w.PC),
		StackPtr:  uint64(w.StackPtr),
		CallPtr:   uint64(w.CallPtr),
		MemSize:   uint64(w.MemSize),
	}
}

// decodeVM reads a vm field, which is either a VM object or a bare hash.
// The hash form carries no VM state and yields nil.
func decodeVM(raw json.RawMessage) (*dispute.VMState, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, nil
	}
	var vm wireVM
	if err := json.Unmarshal(raw, &vm); err != nil {
		return nil, fmt.Errorf("could not decode vm: %w", err)
	}
	return vm.model(), nil
}

type wireMachine struct {
	Reg1 number `json:"reg1"`
	Reg2 number `json:"reg2"`
	Reg3 number `json:"reg3"`
	IReg number `json:"ireg"`
	VM   hash   `json:"vm"`
	Op   hash   `json:"op"`
}

func (w *wireMachine) model() dispute.Machine {
	return dispute.Machine{
		Reg1: uint64(w.Reg1),
		Reg2: uint64(w.Reg2),
		Reg3: uint64(w.Reg3),
		IReg: uint64(w.IReg),
		VM:   w.VM.value(),
		Op:   w.Op.value(),
	}
}

type wireMerkle struct {
	List     []hash `json:"list"`
	List2    []hash `json:"list2"`
	Location number `json:"location"`
}

type wirePhase struct {
	Merkle   *wireMerkle     `json:"merkle"`
	Proof    []hash          `json:"proof"`
	Location json.RawMessage `json:"location"`
	Machine  *wireMachine    `json:"machine"`
	VM       json.RawMessage `json:"vm"`

	// top-level machine fields of the flat phases
	Reg1 number `json:"reg1"`
	Reg2 number `json:"reg2"`
	Reg3 number `json:"reg3"`
	IReg number `json:"ireg"`
	Op   hash   `json:"op"`
}

// merkle picks the proof material in order of preference: an explicit merkle
// object, a bare proof list, a location list. Anything else means no proof.
func (w *wirePhase) merkle() dispute.MerkleProof {
	if w.Merkle != nil && w.Merkle.List != nil {
		proof := dispute.MerkleProof{
			Kind:     dispute.SingleList,
			List:     hashes(w.Merkle.List),
			Location: uint64(w.Merkle.Location),
		}
		if w.Merkle.List2 != nil {
			proof.Kind = dispute.DoubleList
			proof.List2 = hashes(w.Merkle.List2)
		}
		return proof
	}
	if w.Proof != nil {
		return dispute.MerkleProof{Kind: dispute.SingleList, List: hashes(w.Proof)}
	}
	var location []hash
	if len(w.Location) > 0 && json.Unmarshal(w.Location, &location) == nil && location != nil {
		return dispute.MerkleProof{Kind: dispute.SingleList, List: hashes(location)}
	}
	return dispute.MerkleProof{Kind: dispute.NoProof}
}

func (w *wirePhase) model() (dispute.PhaseData, error) {
	data := dispute.PhaseData{
		Merkle: w.merkle(),
		Fields: dispute.Machine{
			Reg1: uint64(w.Reg1),
			Reg2: uint64(w.Reg2),
			Reg3: uint64(w.Reg3),
			IReg: uint64(w.IReg),
			Op:   w.Op.value(),
		},
	}
	if w.Machine != nil {
		m := w.Machine.model()
		data.Machine = &m
	}

	// the flat phases carry the machine's vm hash in the vm field
	var vmHash hash
	if json.Unmarshal(w.VM, &vmHash) == nil {
		data.Fields.VM = vmHash.value()
	}
	vm, err := decodeVM(w.VM)
	if err != nil {
		return dispute.PhaseData{}, err
	}
	data.VM = vm
	return data, nil
}

// decodeStep decodes the output of a step command: the phase states followed by
// one object per phase, keyed by phase name. Absent phases stay zero.
func decodeStep(out []byte, step uint64) (*dispute.StepData, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(out, &fields); err != nil {
		return nil, fmt.Errorf("could not decode step %d: %v: %w", step, err, ErrMalformedOutput)
	}

	var states []hash
	if err := json.Unmarshal(fields["states"], &states); err != nil {
		return nil, fmt.Errorf("could not decode states of step %d: %v: %w", step, err, ErrMalformedOutput)
	}
	if len(states) != dispute.PhaseCount {
		return nil, fmt.Errorf("step %d has %d phase states, expected %d: %w", step, len(states), dispute.PhaseCount, ErrMalformedOutput)
	}

	data := &dispute.StepData{Step: step}
	for i, s := range states {
		data.States[i] = s.value()
	}
	for _, phase := range dispute.AllPhases() {
		raw, ok := fields[phase.String()]
		if !ok {
			continue
		}
		var wp wirePhase
		if err := json.Unmarshal(raw, &wp); err != nil {
			return nil, fmt.Errorf("could not decode phase %s of step %d: %v: %w", phase, step, err, ErrMalformedOutput)
		}
		pd, err := wp.model()
		if err != nil {
			return nil, fmt.Errorf("could not decode phase %s of step %d: %w", phase, step, err)
		}
		data.Phases[phase] = pd
	}
	return data, nil
}

type wireResult struct {
	VM    json.RawMessage `json:"vm"`
	Hash  hash            `json:"hash"`
	Steps number          `json:"steps"`
}

type wireFinality struct {
	Location []hash          `json:"location"`
	VM       json.RawMessage `json:"vm"`
}

func (w *wireFinality) model() (*dispute.FinalityProof, error) {
	vm, err := decodeVM(w.VM)
	if err != nil {
		return nil, err
	}
	proof := &dispute.FinalityProof{VM: vm}
	if w.Location != nil {
		proof.Location = hashes(w.Location)
	}
	return proof, nil
}

type wireOutputProof struct {
	VM  json.RawMessage `json:"vm"`
	Loc struct {
		List     []hash `json:"list"`
		Location number `json:"location"`
	} `json:"loc"`
}

func (w *wireOutputProof) model() (*dispute.OutputProof, error) {
	vm, err := decodeVM(w.VM)
	if err != nil {
		return nil, err
	}
	if vm == nil {
		return nil, fmt.Errorf("output proof has no vm: %w", ErrMalformedOutput)
	}
	return &dispute.OutputProof{
		VM:       *vm,
		List:     hashes(w.Loc.List),
		Location: uint64(w.Loc.Location),
	}, nil
}
