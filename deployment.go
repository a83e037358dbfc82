package ethdeploy

import (
	"github.com/ethereum/go-ethereum/common"
)

// PendingLibrary is a library that must be deployed before the contract so
// its address can be linked into the contract bytecode.
type PendingLibrary struct {
	// Name is the library's placeholder name in the contract bytecode.
	Name string

	// Code is the library's deployment bytecode, fully linked.
	Code []byte
}

// Deployment is a validated deployment plan: the libraries to deploy first,
// in placeholder-occurrence order, and the contract payload with every
// known library address already linked in. A Deployment is immutable; the
// accessors return copies.
type Deployment struct {
	libraries []PendingLibrary
	contract  *Bytecode
	args      []byte
}

// Libraries returns the libraries that need their own deployment
// transactions, ordered by first occurrence of their placeholder in the
// contract bytecode.
func (d *Deployment) Libraries() []PendingLibrary {
	libraries := make([]PendingLibrary, len(d.libraries))
	for i, lib := range d.libraries {
		libraries[i] = PendingLibrary{
			Name: lib.Name,
			Code: append([]byte(nil), lib.Code...),
		}
	}
	return libraries
}

// LibraryData returns the deployment bytecode for one pending library, or
// false if the plan has no library with that name.
func (d *Deployment) LibraryData(name string) ([]byte, bool) {
	for _, lib := range d.libraries {
		if lib.Name == name {
			return append([]byte(nil), lib.Code...), true
		}
	}
	return nil, false
}

// Contract returns the contract bytecode with all resolved library
// addresses linked in. Slots for pending libraries remain unresolved until
// those libraries are deployed and linked, either on the returned copy or
// via WithLibrary.
func (d *Deployment) Contract() *Bytecode {
	return d.contract.Clone()
}

// ConstructorArgs returns the ABI-encoded constructor arguments that get
// appended to the contract bytecode in the deployment payload.
func (d *Deployment) ConstructorArgs() []byte {
	return append([]byte(nil), d.args...)
}

// RequiresLinking returns true while the contract bytecode still has
// unresolved library slots.
func (d *Deployment) RequiresLinking() bool {
	return d.contract.RequiresLinking()
}

// WithLibrary returns a new Deployment with the address of a now-deployed
// library linked into the contract bytecode. The plan's library list is
// unchanged; it records what had to be deployed.
func (d *Deployment) WithLibrary(name string, address common.Address) (*Deployment, error) {
	contract := d.contract.Clone()
	if err := contract.Link(name, address); err != nil {
		return nil, err
	}
	return &Deployment{
		libraries: d.libraries,
		contract:  contract,
		args:      d.args,
	}, nil
}

// ContractData returns the contract-creation transaction payload: the fully
// linked bytecode followed by the encoded constructor arguments. It fails
// with an UnlinkedLibrariesError while any library slot remains unresolved.
func (d *Deployment) ContractData() ([]byte, error) {
	code, err := d.contract.Bytes()
	if err != nil {
		return nil, err
	}
	return append(code, d.args...), nil
}
