// Copyright 2024 The go-solnode Authors
// This file is part of the go-solnode library.

package runtime

import (
	"fmt"

	"github.com/cielu/go-solnode/common"
)

// InvalidAccountIndexError reports an instruction referencing an account
// index out of bounds in Message.AccountKeys.
type InvalidAccountIndexError struct {
	Instruction int
	Index       uint8
}

func (e *InvalidAccountIndexError) Error() string {
	return fmt.Sprintf("instruction %d: account index %d out of range", e.Instruction, e.Index)
}

// UnknownProgramError reports a program id with no registered handler.
// BPF execution is not implemented; only native programs dispatch.
type UnknownProgramError struct {
	Instruction int
	Program     common.Address
}

func (e *UnknownProgramError) Error() string {
	return fmt.Sprintf("instruction %d: unknown program %s", e.Instruction, e.Program)
}

// ProgramError wraps a failure returned by a native program, tagged with
// the failing instruction index. For the system program this is the
// realization of the SystemProgram{instruction, error} error kind.
type ProgramError struct {
	Instruction int
	Program     common.Address
	Err         error
}

func (e *ProgramError) Error() string {
	return fmt.Sprintf("instruction %d: program %s: %v", e.Instruction, e.Program, e.Err)
}

func (e *ProgramError) Unwrap() error {
	return e.Err
}

// NotEnoughSignaturesError reports fewer provided signatures than the
// header requires.
type NotEnoughSignaturesError struct {
	Expected int
	Got      int
}

func (e *NotEnoughSignaturesError) Error() string {
	return fmt.Sprintf("not enough signatures: expected %d, got %d", e.Expected, e.Got)
}

// InvalidPublicKeyError reports an account key that is not a valid
// Ed25519 verifying key.
type InvalidPublicKeyError struct {
	Index int
}

func (e *InvalidPublicKeyError) Error() string {
	return fmt.Sprintf("signer %d: invalid public key", e.Index)
}

// SignatureVerificationFailedError reports a signature that did not
// verify against the canonical message bytes.
type SignatureVerificationFailedError struct {
	Index int
}

func (e *SignatureVerificationFailedError) Error() string {
	return fmt.Sprintf("signer %d: signature verification failed", e.Index)
}
