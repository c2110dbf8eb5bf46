package trace

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Protocol identifies the DeFi protocol a classified action belongs to.
type Protocol uint8

const (
	ProtocolUnknown Protocol = iota
	ProtocolUniswap
	ProtocolSushiswap
	ProtocolBalancer
	ProtocolCurve
	ProtocolAave
	ProtocolCompound
	ProtocolZeroX
	ProtocolDyDx
	// ProtocolFlashloan tags a Uniswap V2 swap whose callback data is
	// non-empty - a flash swap rather than a plain trade.
	ProtocolFlashloan
)

func (p Protocol) String() string {
	switch p {
	case ProtocolUniswap:
		return "uniswap"
	case ProtocolSushiswap:
		return "sushiswap"
	case ProtocolBalancer:
		return "balancer"
	case ProtocolCurve:
		return "curve"
	case ProtocolAave:
		return "aave"
	case ProtocolCompound:
		return "compound"
	case ProtocolZeroX:
		return "zeroex"
	case ProtocolDyDx:
		return "dydx"
	case ProtocolFlashloan:
		return "flashloan"
	default:
		return "unknown"
	}
}

// ActionKind discriminates the SpecificAction union: a discriminant
// plus one populated payload pointer, the same tag-next-to-flat-struct
// shape OpenEthereum-style traces use for their action variants.
type ActionKind uint8

const (
	ActionUnclassified ActionKind = iota
	ActionTransfer
	ActionDeposit
	ActionWithdrawal
	ActionTrade
	ActionLiquidation
	ActionAddLiquidity
	ActionFlashLoan
	ActionArbitrage
	ActionProfitableLiquidation
	ActionLiquidationCheck
)

func (k ActionKind) String() string {
	switch k {
	case ActionTransfer:
		return "transfer"
	case ActionDeposit:
		return "deposit"
	case ActionWithdrawal:
		return "withdrawal"
	case ActionTrade:
		return "swap"
	case ActionLiquidation:
		return "liquidation"
	case ActionAddLiquidity:
		return "addliquidity"
	case ActionFlashLoan:
		return "flashswap"
	case ActionArbitrage:
		return "arbitrage"
	case ActionProfitableLiquidation:
		return "profitableliquidation"
	case ActionLiquidationCheck:
		return "liquidationcheck"
	default:
		return "unclassified"
	}
}

// Transfer is an ERC-20 (or native ETH, using the sentinel ETH address)
// value movement.
type Transfer struct {
	From   common.Address
	To     common.Address
	Amount *uint256.Int
	Token  common.Address
}

// Deposit is a single-sided deposit into a protocol (e.g. WETH wrap, or
// a Compound/Aave supply).
type Deposit struct {
	Token  common.Address
	Amount *uint256.Int
	From   common.Address
}

// Withdrawal is the inverse of Deposit.
type Withdrawal struct {
	Token  common.Address
	Amount *uint256.Int
	To     common.Address
}

// Trade is a matched pair of transfers: token in from the trader to the
// pool, token out from the pool back to the trader.
type Trade struct {
	T1 Transfer
	T2 Transfer
}

// Liquidation is a repayment of an under-collateralized position in
// exchange for discounted collateral.
type Liquidation struct {
	SentToken      common.Address
	SentAmount     *uint256.Int
	ReceivedToken  common.Address
	ReceivedAmount *uint256.Int
	From           common.Address
	LiquidatedUser common.Address
}

// AddLiquidity is a multi-token deposit into a pool.
type AddLiquidity struct {
	Tokens  []common.Address
	Amounts []*uint256.Int
}

// Arbitrage is a closed cycle of Trades that returns more of the
// starting token than was spent.
type Arbitrage struct {
	Profit *uint256.Int
	Token  common.Address
	To     common.Address
}

// ProfitableLiquidation is a Liquidation whose received collateral,
// once priced, strictly exceeds the priced repayment.
type ProfitableLiquidation struct {
	Liquidation Liquidation
	Profit      *uint256.Int
	Token       common.Address
}

// SpecificAction is the closed sum of protocol-level actions an
// inspector or reducer can attach to a frame.
type SpecificAction struct {
	Kind ActionKind

	Transfer              *Transfer
	Deposit               *Deposit
	Withdrawal            *Withdrawal
	Trade                 *Trade
	Liquidation           *Liquidation
	AddLiquidity          *AddLiquidity
	Arbitrage             *Arbitrage
	ProfitableLiquidation *ProfitableLiquidation
}

func NewTransfer(v Transfer) SpecificAction {
	return SpecificAction{Kind: ActionTransfer, Transfer: &v}
}

func NewDeposit(v Deposit) SpecificAction {
	return SpecificAction{Kind: ActionDeposit, Deposit: &v}
}

func NewWithdrawal(v Withdrawal) SpecificAction {
	return SpecificAction{Kind: ActionWithdrawal, Withdrawal: &v}
}

// NewTrade builds a Trade from its two constituent transfers. It panics
// if the transfers don't actually face each other; reducers guarantee
// this before calling.
func NewTrade(t1, t2 Transfer) SpecificAction {
	if t1.From != t2.To || t2.From != t1.To {
		panic("trace: mismatched trade")
	}
	return SpecificAction{Kind: ActionTrade, Trade: &Trade{T1: t1, T2: t2}}
}

func NewLiquidation(v Liquidation) SpecificAction {
	return SpecificAction{Kind: ActionLiquidation, Liquidation: &v}
}

func NewAddLiquidity(v AddLiquidity) SpecificAction {
	return SpecificAction{Kind: ActionAddLiquidity, AddLiquidity: &v}
}

func NewFlashLoan() SpecificAction {
	return SpecificAction{Kind: ActionFlashLoan}
}

func NewArbitrage(v Arbitrage) SpecificAction {
	return SpecificAction{Kind: ActionArbitrage, Arbitrage: &v}
}

func NewProfitableLiquidation(v ProfitableLiquidation) SpecificAction {
	return SpecificAction{Kind: ActionProfitableLiquidation, ProfitableLiquidation: &v}
}

func NewLiquidationCheck() SpecificAction {
	return SpecificAction{Kind: ActionLiquidationCheck}
}

func NewUnclassified() SpecificAction {
	return SpecificAction{Kind: ActionUnclassified}
}
