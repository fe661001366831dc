package transaction

import (
	"strconv"

	"github.com/cryptonomex/graphene/chain/code"
	"github.com/cryptonomex/graphene/chain/protocol"
)

var accountCreateAuthCodes = map[uint32]uint32{
	code.InternalVerifyAuthMaxAuthExceeded: code.AccountCreateMaxAuthExceeded,
	code.InternalVerifyAuthAccountNotFound: code.AccountCreateAuthAccountNotFound,
}

var accountUpdateAuthCodes = map[uint32]uint32{
	code.InternalVerifyAuthMaxAuthExceeded: code.AccountUpdateMaxAuthExceeded,
	code.InternalVerifyAuthAccountNotFound: code.AccountUpdateAuthAccountNotFound,
}

// verifyAuthorityAccounts checks the size of auth against the chain limit and that every account it names exists.
// The returned codes are internal, callers recode them for their operation.
func verifyAuthorityAccounts(ctx *Context, auth protocol.Authority) error {
	limit := int(ctx.Params.MaximumAuthorityMembership)
	if got := auth.NumAuths(); got > limit {
		return code.NewVerifyAuthMaxAuthExceeded(strconv.Itoa(limit), strconv.Itoa(got))
	}

	for _, aw := range auth.AccountAuths {
		if !ctx.Accounts().Exists(aw.Account) {
			return code.NewVerifyAuthAccountNotFound(aw.Account.String())
		}
	}

	return nil
}
