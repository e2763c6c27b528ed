package counter

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/code-payments/fragments/pkg/solana/anchor"
	"github.com/code-payments/fragments/pkg/solana/binary"
)

var CounterAccountDiscriminator = anchor.AccountDiscriminator("Counter")

var CounterAccountSchema = binary.Schema{
	{Name: "count", Type: binary.U64},
}

var CounterAccountSize = binary.DiscriminatorSize + CounterAccountSchema.MinSize()

type CounterAccount struct {
	Count uint64
}

func (obj *CounterAccount) Unmarshal(data []byte) error {
	if err := anchor.CheckAccountDiscriminator(data, CounterAccountDiscriminator); err != nil {
		return errors.Wrap(ErrInvalidAccountData, err.Error())
	}

	record, err := binary.DecodeAccount(data, CounterAccountSchema)
	if err != nil {
		return err
	}

	obj.Count, err = record.Uint64("count")
	return err
}

func (obj *CounterAccount) Marshal() []byte {
	data := make([]byte, CounterAccountSize)

	offset := copy(data, CounterAccountDiscriminator)
	binary.PutUint64(data, obj.Count, &offset)

	return data
}

func (obj *CounterAccount) String() string {
	return fmt.Sprintf("Counter{count=%d}", obj.Count)
}
