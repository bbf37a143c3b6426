// Copyright 2024 The go-solnode Authors
// This file is part of the go-solnode library.

package common

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mr-tron/base58"
)

// Lengths of hashes, addresses and signatures in bytes.
const (
	// HashLength is the expected length of a SHA-256 hash
	HashLength = 32
	// AddressLength is the expected length of an address
	AddressLength = 32
	// SignatureLength is the expected length of an Ed25519 signature
	SignatureLength = 64
)

/////// -------------------------------------------------///////
/////// -------------------- Address --------------------///////
/////// -------------------------------------------------///////

// Address The address. The zero value identifies the system program.
type Address [AddressLength]byte

// SystemProgramID is the address of the built-in system program:
// all 32 bytes zero, "11111111111111111111111111111111" in base58.
var SystemProgramID = Address{}

// BytesToAddress returns Address with value b.
func BytesToAddress(b []byte) (a Address) {
	a.SetBytes(b)
	return
}

// Base58ToAddress returns Address with byte values of b.
func Base58ToAddress(b string) Address {
	// decode base58
	d, _ := base58.Decode(b)
	// bytes to address
	return BytesToAddress(d)
}

// ByteToAddress returns the address [b, 0, 0, ...]. Handy for tests
// and the genesis shorthand.
func ByteToAddress(b byte) (a Address) {
	a[0] = b
	return
}

// Cmp compares two addresses.
func (a Address) Cmp(other Address) int {
	return bytes.Compare(a[:], other[:])
}

// IsZero reports whether the address is the all-zeros (system program) address.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Bytes return Address bytes
func (a Address) Bytes() []byte { return a[:] }

// Base58 return base58 account
func (a Address) Base58() string {
	return base58.Encode(a[:])
}

// String return base58 account
func (a Address) String() string {
	return a.Base58()
}

// SetBytes sets the address to the value of b.
func (a *Address) SetBytes(b []byte) {
	if len(b) > len(a) {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
}

// MarshalText returns base58 str account
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Base58()), nil
}

// UnmarshalText parses an account in base58 syntax.
func (a *Address) UnmarshalText(input []byte) error {
	d, err := base58.Decode(string(input))
	if err != nil {
		return fmt.Errorf("can't decode base58 Address: %w", err)
	}
	a.SetBytes(d)
	return nil
}

// UnmarshalJSON parses an account in base58 syntax.
func (a *Address) UnmarshalJSON(input []byte) error {
	var str string
	if err := json.Unmarshal(input, &str); err != nil {
		return err
	}
	return a.UnmarshalText([]byte(str))
}

/////// ----------------------------------------------///////
/////// -------------------- Hash --------------------///////
/////// ----------------------------------------------///////

// Hash The Hash. A SHA-256 digest, used for blockhashes and PoH chain values.
type Hash [HashLength]byte

// BytesToHash returns Hash with value b.
func BytesToHash(b []byte) (h Hash) {
	h.SetBytes(b)
	return
}

// Base58ToHash returns Hash with byte values of b.
func Base58ToHash(b string) Hash {
	// decode base58
	d, _ := base58.Decode(b)
	// bytes to Hash
	return BytesToHash(d)
}

// Cmp compares two Hashes.
func (h Hash) Cmp(other Hash) int {
	return bytes.Compare(h[:], other[:])
}

// Bytes return Hash bytes
func (h Hash) Bytes() []byte { return h[:] }

// Base58 return base58 hash
func (h Hash) Base58() string {
	return base58.Encode(h[:])
}

// String return base58 hash
func (h Hash) String() string {
	return h.Base58()
}

// SetBytes sets the Hash to the value of b.
func (h *Hash) SetBytes(b []byte) {
	if len(b) > len(h) {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
}

// MarshalText returns base58 str hash
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.Base58()), nil
}

// UnmarshalText parses a hash in base58 syntax.
func (h *Hash) UnmarshalText(input []byte) error {
	d, err := base58.Decode(string(input))
	if err != nil {
		return fmt.Errorf("can't decode base58 Hash: %w", err)
	}
	h.SetBytes(d)
	return nil
}

// UnmarshalJSON parses a hash in base58 syntax.
func (h *Hash) UnmarshalJSON(input []byte) error {
	var str string
	if err := json.Unmarshal(input, &str); err != nil {
		return err
	}
	return h.UnmarshalText([]byte(str))
}

/////// ---------------------------------------------------///////
/////// -------------------- Signature --------------------///////
/////// ---------------------------------------------------///////

// Signature The signature. 64 bytes, Ed25519 over canonical message bytes.
type Signature [SignatureLength]byte

// BytesToSignature returns Signature with value b.
func BytesToSignature(b []byte) (s Signature) {
	s.SetBytes(b)
	return
}

// Base58ToSignature returns Signature with byte values of b.
func Base58ToSignature(b string) Signature {
	// decode base58
	d, _ := base58.Decode(b)
	// bytes to signature
	return BytesToSignature(d)
}

// Cmp compares two signatures.
func (s Signature) Cmp(other Signature) int {
	return bytes.Compare(s[:], other[:])
}

// Bytes return Signature bytes
func (s Signature) Bytes() []byte { return s[:] }

// Base58 return base58 signature
func (s Signature) Base58() string {
	return base58.Encode(s[:])
}

// String return base58 signature
func (s Signature) String() string {
	return s.Base58()
}

// SetBytes sets the signature to the value of b.
func (s *Signature) SetBytes(b []byte) {
	if len(b) > len(s) {
		b = b[len(b)-SignatureLength:]
	}
	copy(s[SignatureLength-len(b):], b)
}

// MarshalText returns base58 str signature
func (s Signature) MarshalText() ([]byte, error) {
	return []byte(s.Base58()), nil
}

// UnmarshalText parses a signature in base58 syntax.
func (s *Signature) UnmarshalText(input []byte) error {
	d, err := base58.Decode(string(input))
	if err != nil {
		return fmt.Errorf("can't decode base58 Signature: %w", err)
	}
	s.SetBytes(d)
	return nil
}

// UnmarshalJSON parses a signature in base58 syntax.
func (s *Signature) UnmarshalJSON(input []byte) error {
	var str string
	if err := json.Unmarshal(input, &str); err != nil {
		return err
	}
	return s.UnmarshalText([]byte(str))
}
