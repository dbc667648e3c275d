package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"

	"github.com/onflow/dispute-client/model/dispute"
)

// assignmentFile is the on-disk form of an assignment. JSON documents are
// accepted as well, since they are valid YAML.
type assignmentFile struct {
	// ID is the hex encoded task id.
	ID        string  `yaml:"id" validate:"required,hexadecimal"`
	Actor     string  `yaml:"actor" validate:"required,eth_addr"`
	Giver     string  `yaml:"giver" validate:"omitempty,eth_addr"`
	Hash      string  `yaml:"hash" validate:"required,hexadecimal"`
	FileHash  string  `yaml:"filehash" validate:"required,hexadecimal"`
	InputHash string  `yaml:"inputhash" validate:"required,hexadecimal"`
	CodeType  string  `yaml:"codetype" validate:"omitempty,oneof=wast wasm"`
	ErrorStep *uint64 `yaml:"errorstep"`
}

// LoadAssignment reads the task assignment from a YAML or JSON file.
func LoadAssignment(path string) (*dispute.Assignment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read assignment: %w", err)
	}
	return ParseAssignment(data)
}

// ParseAssignment decodes and validates an assignment document.
func ParseAssignment(data []byte) (*dispute.Assignment, error) {
	var file assignmentFile
	err := yaml.Unmarshal(data, &file)
	if err != nil {
		return nil, fmt.Errorf("could not decode assignment: %w", err)
	}
	err = validator.New().Struct(file)
	if err != nil {
		return nil, fmt.Errorf("invalid assignment: %w", err)
	}

	id, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimPrefix(file.ID, "0x"), "0X"), 16, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid task id %q: %w", file.ID, err)
	}

	assignment := &dispute.Assignment{
		TaskID:   dispute.TaskID(id),
		Actor:    common.HexToAddress(file.Actor),
		InitHash: common.HexToHash(file.Hash),
		Code:     dispute.FileID(common.HexToHash(file.FileHash)),
		Input:    dispute.FileID(common.HexToHash(file.InputHash)),
		CodeType: dispute.CodeWAST,
	}
	if file.Giver != "" {
		assignment.Giver = common.HexToAddress(file.Giver)
	}
	if file.CodeType == "wasm" {
		assignment.CodeType = dispute.CodeWASM
	}
	if file.ErrorStep != nil {
		assignment.Fault = &dispute.Fault{ErrorStep: *file.ErrorStep}
	}
	return assignment, nil
}
