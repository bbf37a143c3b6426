package types

import (
	"sync/atomic"

	"github.com/cielu/go-solnode/common"
)

// Epoch is a period in the validator schedule. Rent collection is not
// implemented; the field is preserved for wire compatibility.
type Epoch = uint64

// Lamports is the smallest monetary unit (1e-9 of the headline currency).
type Lamports = uint64

// Account is the owned account record, used at API boundaries and
// wherever a self-contained copy is needed.
//
// Every account has the same five fields:
//
//	Lamports   balance in lamports
//	Data       arbitrary program state (or bytecode)
//	Owner      the program authorized to mutate this account
//	Executable once true it is permanent
//	RentEpoch  vestigial, kept for wire compatibility
type Account struct {
	Lamports   Lamports       `json:"lamports"`
	Data       []byte         `json:"data"`
	Owner      common.Address `json:"owner"`
	Executable bool           `json:"executable"`
	RentEpoch  Epoch          `json:"rentEpoch"`
}

// NewAccount returns a plain account with the given balance and owner.
func NewAccount(lamports Lamports, owner common.Address) Account {
	return Account{Lamports: lamports, Owner: owner}
}

// ToShared converts to the shared representation. The data buffer is
// handed over, not copied.
func (a Account) ToShared() AccountSharedData {
	return AccountSharedData{
		lamports:   a.Lamports,
		data:       newSharedBuf(a.Data),
		owner:      a.Owner,
		executable: a.Executable,
		rentEpoch:  a.RentEpoch,
	}
}

// sharedBuf is a reference-counted byte buffer. Clones of an
// AccountSharedData share one sharedBuf until a writer asks for DataMut
// with more than one holder, at which point the buffer is copied.
type sharedBuf struct {
	refs int32
	b    []byte
}

func newSharedBuf(b []byte) *sharedBuf {
	return &sharedBuf{refs: 1, b: b}
}

// AccountSharedData is the account representation used during execution.
// Cloning is cheap: the data buffer is shared copy-on-write, so in-flight
// clones do not duplicate large buffers until one of them mutates.
//
// The zero value is the implicit default account: zero balance, no data,
// system-program owner. Loading a missing address yields it.
type AccountSharedData struct {
	lamports   Lamports
	data       *sharedBuf
	owner      common.Address
	executable bool
	rentEpoch  Epoch
}

// NewAccountSharedData returns a shared account with dataLen zero bytes
// of data.
func NewAccountSharedData(lamports Lamports, dataLen int, owner common.Address) AccountSharedData {
	return AccountSharedData{
		lamports: lamports,
		data:     newSharedBuf(make([]byte, dataLen)),
		owner:    owner,
	}
}

// Clone returns a copy sharing the data buffer.
func (a AccountSharedData) Clone() AccountSharedData {
	if a.data != nil {
		atomic.AddInt32(&a.data.refs, 1)
	}
	return a
}

// Lamports returns the balance.
func (a *AccountSharedData) Lamports() Lamports {
	return a.lamports
}

// Data returns a read-only view of the data buffer. Callers must not
// mutate it; use DataMut for that.
func (a *AccountSharedData) Data() []byte {
	if a.data == nil {
		return nil
	}
	return a.data.b
}

// Owner returns the owning program address.
func (a *AccountSharedData) Owner() common.Address {
	return a.owner
}

// Executable reports the executable flag.
func (a *AccountSharedData) Executable() bool {
	return a.executable
}

// RentEpoch returns the rent epoch.
func (a *AccountSharedData) RentEpoch() Epoch {
	return a.rentEpoch
}

// SetLamports sets the balance.
func (a *AccountSharedData) SetLamports(lamports Lamports) {
	a.lamports = lamports
}

// SetOwner sets the owning program address.
func (a *AccountSharedData) SetOwner(owner common.Address) {
	a.owner = owner
}

// SetExecutable sets the executable flag.
func (a *AccountSharedData) SetExecutable(executable bool) {
	a.executable = executable
}

// SetRentEpoch sets the rent epoch.
func (a *AccountSharedData) SetRentEpoch(rentEpoch Epoch) {
	a.rentEpoch = rentEpoch
}

// DataMut returns a mutable view of the data buffer, copying it first if
// any other clone still holds it. No other holder observes the mutation.
func (a *AccountSharedData) DataMut() *[]byte {
	if a.data == nil {
		a.data = newSharedBuf(nil)
		return &a.data.b
	}
	if atomic.LoadInt32(&a.data.refs) > 1 {
		dup := make([]byte, len(a.data.b))
		copy(dup, a.data.b)
		atomic.AddInt32(&a.data.refs, -1)
		a.data = newSharedBuf(dup)
	}
	return &a.data.b
}

// ResizeData grows or truncates the data buffer to n bytes, zero-filling
// any growth. Goes through DataMut so sharing holds.
func (a *AccountSharedData) ResizeData(n int) {
	buf := a.DataMut()
	if n <= len(*buf) {
		*buf = (*buf)[:n]
		return
	}
	grown := make([]byte, n)
	copy(grown, *buf)
	*buf = grown
}

// ToAccount converts to the owned representation, copying the data out of
// the shared buffer.
func (a *AccountSharedData) ToAccount() Account {
	data := make([]byte, len(a.Data()))
	copy(data, a.Data())
	return Account{
		Lamports:   a.lamports,
		Data:       data,
		Owner:      a.owner,
		Executable: a.executable,
		RentEpoch:  a.rentEpoch,
	}
}

// Equal reports field-wise equality, comparing data bytewise.
func (a *AccountSharedData) Equal(other *AccountSharedData) bool {
	if a.lamports != other.lamports ||
		a.owner != other.owner ||
		a.executable != other.executable ||
		a.rentEpoch != other.rentEpoch {
		return false
	}
	ad, od := a.Data(), other.Data()
	if len(ad) != len(od) {
		return false
	}
	for i := range ad {
		if ad[i] != od[i] {
			return false
		}
	}
	return true
}
