package protocol

import (
	"fmt"

	"github.com/cryptonomex/graphene/chain/code"
	"github.com/cryptonomex/graphene/chain/fees"
	"github.com/cryptonomex/graphene/chain/types"
	"golang.org/x/crypto/sha3"
)

// Operation is one of the closed set of operation kinds
type Operation interface {
	fees.Operation
	// FeePayer is the account debited for the fee
	FeePayer() types.AccountID
	// Validate runs the checks that need no chain state
	Validate() error
	String() string
}

// Result is what applying an operation produced, the zero value for operations that create nothing
type Result struct {
	NewObject types.ObjectID
}

func (r Result) IsVoid() bool {
	return r.NewObject.IsZero()
}

func (r Result) String() string {
	if r.IsVoid() {
		return "void"
	}
	return r.NewObject.String()
}

// Transaction is an ordered list of operations applied atomically
type Transaction struct {
	Operations []Operation
}

// Hash is the keccak256 digest of the binary encoding of tx
func (tx *Transaction) Hash() ([]byte, error) {
	bz, err := Codec.MarshalBinaryBare(tx)
	if err != nil {
		return nil, err
	}
	h := sha3.NewLegacyKeccak256()
	h.Write(bz)
	return h.Sum(nil), nil
}

// PackSize is the size of the binary encoding of v
func PackSize(v interface{}) uint64 {
	return uint64(len(Codec.MustMarshalBinaryBare(v)))
}

func validateFee(fee types.Asset) error {
	if fee.Amount < 0 {
		return code.NewNegativeFee(fee.String())
	}
	return nil
}

func wrongParameters(t types.OpType, p fees.Parameters) error {
	return fmt.Errorf("fee parameters %T do not belong to %s", p, t)
}
