package vault

import (
	"context"
	"encoding/json"

	"cosmossdk.io/errors"

	abci "github.com/cometbft/cometbft/abci/types"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/initia-labs/vault/x/vault/keeper"
	"github.com/initia-labs/vault/x/vault/types"
)

// Result is the outcome of a committed vault message.
type Result struct {
	// Data is the JSON encoded response of the message.
	Data   []byte       `json:"data"`
	Events []abci.Event `json:"events"`
}

// Handler executes one vault message atomically.
type Handler func(ctx sdk.Context, msg types.ExecuteMsg) (*Result, error)

// NewHandler returns a handler for vault execute messages. Each message
// runs in a cache context that is written back only when it succeeds, so a
// failed message leaves no state change behind.
func NewHandler(k *keeper.Keeper) Handler {
	msgServer := keeper.NewMsgServerImpl(k)

	return func(parentCtx sdk.Context, msg types.ExecuteMsg) (*Result, error) {
		ctx, commit := parentCtx.CacheContext()
		ctx = ctx.WithEventManager(sdk.NewEventManager())

		res, err := dispatch(ctx, msgServer, msg)
		if err != nil {
			return nil, err
		}

		data, err := json.Marshal(res)
		if err != nil {
			return nil, err
		}

		commit()
		parentCtx.EventManager().EmitEvents(ctx.EventManager().Events())

		return &Result{Data: data, Events: ctx.EventManager().ABCIEvents()}, nil
	}
}

func dispatch(ctx context.Context, msgServer types.MsgServer, msg types.ExecuteMsg) (any, error) {
	switch msg := msg.(type) {
	case types.MsgUpdateConfig:
		return msgServer.UpdateConfig(ctx, &msg)
	case types.MsgRegisterValidator:
		return msgServer.RegisterValidator(ctx, &msg)
	case types.MsgDeregisterValidator:
		return msgServer.DeregisterValidator(ctx, &msg)
	case types.MsgUpdateParams:
		return msgServer.UpdateParams(ctx, &msg)
	case types.MsgBond:
		return msgServer.Bond(ctx, &msg)
	case types.MsgBondSplit:
		return msgServer.BondSplit(ctx, &msg)
	case types.MsgUpdateGlobalIndex:
		return msgServer.UpdateGlobalIndex(ctx, &msg)
	case types.MsgWithdrawUnbonded:
		return msgServer.WithdrawUnbonded(ctx, &msg)
	case types.MsgCheckSlashing:
		return msgServer.CheckSlashing(ctx, &msg)
	case types.MsgReceive:
		return msgServer.Receive(ctx, &msg)
	case types.MsgSplit:
		return msgServer.Split(ctx, &msg)
	case types.MsgMerge:
		return msgServer.Merge(ctx, &msg)
	case types.MsgDepositAirdropReward:
		return msgServer.DepositAirdropReward(ctx, &msg)
	case types.MsgClaimAirdrop:
		return msgServer.ClaimAirdrop(ctx, &msg)
	default:
		return nil, errors.Wrapf(types.ErrUnknownMessage, "unrecognized vault message type: %T", msg)
	}
}
