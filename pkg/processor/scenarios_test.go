package processor

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/flashbots/mev-inspect-go/pkg/abiregistry"
	"github.com/flashbots/mev-inspect-go/pkg/addresses"
	"github.com/flashbots/mev-inspect-go/pkg/trace"
)

// fixedOracle quotes every token at a fixed ETH price per 1e18 units.
type fixedOracle struct {
	prices map[common.Address]*uint256.Int
}

func (o fixedOracle) Quote(_ context.Context, token common.Address, _ uint64) (*uint256.Int, bool, error) {
	p, ok := o.prices[token]
	return p, ok, nil
}

func pairSwapInput(t *testing.T, to common.Address) []byte {
	t.Helper()
	pairABI := abiregistry.NewUniswapRegistry(trace.ProtocolUniswap).Contracts[0].ABI
	input, err := pairABI.Pack("swap", big.NewInt(0), big.NewInt(100), to, []byte{})
	if err != nil {
		t.Fatalf("pack swap: %v", err)
	}
	return input
}

func liquidationCallInput(t *testing.T, collateral, reserve, user common.Address, amount int64) []byte {
	t.Helper()
	poolABI := abiregistry.NewAaveRegistry().Contracts[0].ABI
	input, err := poolABI.Pack("liquidationCall", collateral, reserve, user, big.NewInt(amount), false)
	if err != nil {
		t.Fatalf("pack liquidationCall: %v", err)
	}
	return input
}

// TestProcessorClosedCycleBecomesArbitrage runs a synthetic two-hop
// round trip (WETH -> DAI on one pair, DAI -> WETH on another, more
// WETH coming back than went out) through the full default pipeline and
// expects a single Arbitrage absorbing both trades.
func TestProcessorClosedCycleBecomesArbitrage(t *testing.T) {
	trader, bot := addr(1), addr(2)
	pairA, pairB, dai := addr(10), addr(11), addr(21)
	weth := addresses.WETH

	raw := []trace.RawFrame{
		{TraceAddress: []int{}, Type: "call", From: trader, To: bot, GasUsed: 200000},
		{TraceAddress: []int{0}, Type: "call", From: bot, To: weth, Input: erc20TransferInput(t, pairA, 100), GasUsed: 30000},
		{TraceAddress: []int{1}, Type: "call", From: pairA, To: dai, Input: erc20TransferInput(t, bot, 3000), GasUsed: 30000},
		{TraceAddress: []int{2}, Type: "call", From: bot, To: dai, Input: erc20TransferInput(t, pairB, 3000), GasUsed: 30000},
		{TraceAddress: []int{3}, Type: "call", From: pairB, To: weth, Input: erc20TransferInput(t, bot, 110), GasUsed: 30000},
		{TraceAddress: []int{4}, Type: "call", From: bot, To: pairA, Input: pairSwapInput(t, bot), GasUsed: 60000},
		{TraceAddress: []int{5}, Type: "call", From: bot, To: pairB, Input: pairSwapInput(t, bot), GasUsed: 60000},
	}
	insp, err := trace.Build(common.Hash{}, 11_000_000, 0, raw, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	p := New(noopOracle{})
	if err := p.Process(context.Background(), insp); err != nil {
		t.Fatalf("process: %v", err)
	}

	if !insp.HasProtocol(trace.ProtocolUniswap) {
		t.Error("expected Uniswap to be recorded")
	}

	var arbs []trace.Arbitrage
	for _, c := range insp.Known() {
		action, _ := c.AsAction()
		switch action.Kind {
		case trace.ActionArbitrage:
			arbs = append(arbs, *action.Arbitrage)
		case trace.ActionTrade, trace.ActionTransfer:
			t.Errorf("constituent %v leaked past the arbitrage at %v", action.Kind, c.TraceAddress)
		}
	}
	if len(arbs) != 1 {
		t.Fatalf("got %d arbitrages, want 1", len(arbs))
	}
	if arbs[0].Token != weth {
		t.Errorf("arbitrage token = %s, want WETH", arbs[0].Token.Hex())
	}
	if !arbs[0].Profit.Eq(uint256.NewInt(10)) {
		t.Errorf("arbitrage profit = %s, want 10", arbs[0].Profit.Dec())
	}
	if arbs[0].To != bot {
		t.Errorf("arbitrage beneficiary = %s, want the bot", arbs[0].To.Hex())
	}
}

// TestProcessorOpenCycleStaysTrade is the frontrun half of a sandwich:
// one swap with no closing leg must remain a plain Trade and never
// become an Arbitrage.
func TestProcessorOpenCycleStaysTrade(t *testing.T) {
	trader, bot := addr(1), addr(2)
	pair, dai := addr(10), addr(21)
	weth := addresses.WETH

	raw := []trace.RawFrame{
		{TraceAddress: []int{}, Type: "call", From: trader, To: bot, GasUsed: 150000},
		{TraceAddress: []int{0}, Type: "call", From: bot, To: weth, Input: erc20TransferInput(t, pair, 100), GasUsed: 30000},
		{TraceAddress: []int{1}, Type: "call", From: pair, To: dai, Input: erc20TransferInput(t, bot, 3000), GasUsed: 30000},
		{TraceAddress: []int{2}, Type: "call", From: bot, To: pair, Input: pairSwapInput(t, bot), GasUsed: 60000},
	}
	insp, err := trace.Build(common.Hash{}, 11_000_000, 0, raw, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	p := New(noopOracle{})
	if err := p.Process(context.Background(), insp); err != nil {
		t.Fatalf("process: %v", err)
	}

	var trades, arbs int
	for _, c := range insp.Known() {
		action, _ := c.AsAction()
		switch action.Kind {
		case trace.ActionTrade:
			trades++
		case trace.ActionArbitrage:
			arbs++
		}
	}
	if trades != 1 {
		t.Errorf("got %d trades, want 1", trades)
	}
	if arbs != 0 {
		t.Errorf("got %d arbitrages on an open cycle, want 0", arbs)
	}
	if !insp.HasProtocol(trace.ProtocolUniswap) {
		t.Error("expected Uniswap to be recorded")
	}
}

// TestProcessorLiquidationPromotion exercises an Aave liquidation both
// with and without its collateral payout: only a liquidation whose
// payout transfer actually landed gets priced and promoted.
func TestProcessorLiquidationPromotion(t *testing.T) {
	liquidator, debtor := addr(1), addr(2)
	collateral, reserve := addr(30), addr(31)

	oracle := fixedOracle{prices: map[common.Address]*uint256.Int{
		collateral: trace.OneEther,
		reserve:    trace.OneEther,
	}}

	liqInput := liquidationCallInput(t, collateral, reserve, debtor, 100)

	t.Run("payoutLandedBecomesProfitable", func(t *testing.T) {
		raw := []trace.RawFrame{
			{TraceAddress: []int{}, Type: "call", From: liquidator, To: addresses.AaveLendingPool, Input: liqInput, GasUsed: 300000},
			{TraceAddress: []int{0}, Type: "call", From: addresses.AaveLendingPool, To: collateral, Input: erc20TransferInput(t, liquidator, 150), GasUsed: 30000},
		}
		insp, err := trace.Build(common.Hash{}, 11_000_000, 0, raw, nil)
		if err != nil {
			t.Fatalf("Build: %v", err)
		}

		p := New(oracle)
		if err := p.Process(context.Background(), insp); err != nil {
			t.Fatalf("process: %v", err)
		}

		if !insp.HasProtocol(trace.ProtocolAave) {
			t.Error("expected Aave to be recorded")
		}
		var promoted *trace.ProfitableLiquidation
		for _, c := range insp.Known() {
			if action, _ := c.AsAction(); action.Kind == trace.ActionProfitableLiquidation {
				promoted = action.ProfitableLiquidation
			}
		}
		if promoted == nil {
			t.Fatal("liquidation with a landed payout was not promoted")
		}
		if !promoted.Profit.Eq(uint256.NewInt(50)) {
			t.Errorf("profit = %s, want 50", promoted.Profit.Dec())
		}
		if promoted.Token != addresses.WETH {
			t.Errorf("profit token = %s, want WETH", promoted.Token.Hex())
		}
	})

	t.Run("noPayoutStaysLiquidation", func(t *testing.T) {
		raw := []trace.RawFrame{
			{TraceAddress: []int{}, Type: "call", From: liquidator, To: addresses.AaveLendingPool, Input: liqInput, Error: "Reverted", GasUsed: 300000},
		}
		insp, err := trace.Build(common.Hash{}, 11_000_000, 0, raw, nil)
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		if insp.Status != trace.StatusReverted {
			t.Fatalf("status = %v, want reverted", insp.Status)
		}

		p := New(oracle)
		if err := p.Process(context.Background(), insp); err != nil {
			t.Fatalf("process: %v", err)
		}

		var liquidations, promoted int
		for _, c := range insp.Known() {
			switch action, _ := c.AsAction(); action.Kind {
			case trace.ActionLiquidation:
				liquidations++
			case trace.ActionProfitableLiquidation:
				promoted++
			}
		}
		if liquidations != 1 {
			t.Errorf("got %d liquidations, want 1", liquidations)
		}
		if promoted != 0 {
			t.Errorf("got %d promotions without a payout, want 0", promoted)
		}
	})
}

func fillOrderInput(t *testing.T, maker, taker common.Address) []byte {
	t.Helper()
	exchangeABI := abiregistry.NewZeroXRegistry().Contracts[0].ABI
	input, err := exchangeABI.Pack("fillOrder", maker, taker, big.NewInt(200), big.NewInt(100), []byte{}, []byte{})
	if err != nil {
		t.Fatalf("pack fillOrder: %v", err)
	}
	return input
}

func curveExchangeInput(t *testing.T) []byte {
	t.Helper()
	poolABI := abiregistry.NewCurveRegistry().Contracts[0].ABI
	input, err := poolABI.Pack("exchange", big.NewInt(0), big.NewInt(1), big.NewInt(200), big.NewInt(1))
	if err != nil {
		t.Fatalf("pack exchange: %v", err)
	}
	return input
}

// TestProcessorTradeAndLiquidationTogether runs one transaction doing
// both a Uniswap swap and an Aave liquidation whose collateral payout
// landed, and expects a Trade next to a promoted ProfitableLiquidation
// with both protocols recorded.
func TestProcessorTradeAndLiquidationTogether(t *testing.T) {
	trader, bot, debtor := addr(1), addr(2), addr(3)
	pair, dai := addr(10), addr(21)
	collateral, reserve := addr(30), addr(31)
	weth := addresses.WETH

	oracle := fixedOracle{prices: map[common.Address]*uint256.Int{
		collateral: trace.OneEther,
		reserve:    trace.OneEther,
	}}

	raw := []trace.RawFrame{
		{TraceAddress: []int{}, Type: "call", From: trader, To: bot, GasUsed: 500000},
		{TraceAddress: []int{0}, Type: "call", From: bot, To: weth, Input: erc20TransferInput(t, pair, 100), GasUsed: 30000},
		{TraceAddress: []int{1}, Type: "call", From: pair, To: dai, Input: erc20TransferInput(t, bot, 3000), GasUsed: 30000},
		{TraceAddress: []int{2}, Type: "call", From: bot, To: pair, Input: pairSwapInput(t, bot), GasUsed: 60000},
		{TraceAddress: []int{3}, Type: "call", From: bot, To: addresses.AaveLendingPool, Input: liquidationCallInput(t, collateral, reserve, debtor, 100), GasUsed: 300000},
		{TraceAddress: []int{3, 0}, Type: "call", From: addresses.AaveLendingPool, To: collateral, Input: erc20TransferInput(t, bot, 150), GasUsed: 30000},
	}
	insp, err := trace.Build(common.Hash{}, 11_000_000, 0, raw, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	p := New(oracle)
	if err := p.Process(context.Background(), insp); err != nil {
		t.Fatalf("process: %v", err)
	}

	if !insp.HasProtocol(trace.ProtocolUniswap) || !insp.HasProtocol(trace.ProtocolAave) {
		t.Errorf("protocols = %v, want Uniswap and Aave", insp.Protocols)
	}

	var trades, promoted int
	for _, c := range insp.Known() {
		switch action, _ := c.AsAction(); action.Kind {
		case trace.ActionTrade:
			trades++
		case trace.ActionProfitableLiquidation:
			promoted++
			if !action.ProfitableLiquidation.Profit.Eq(uint256.NewInt(50)) {
				t.Errorf("liquidation profit = %s, want 50", action.ProfitableLiquidation.Profit.Dec())
			}
		case trace.ActionLiquidation:
			t.Error("liquidation with a landed payout was left unpromoted")
		}
	}
	if trades != 1 {
		t.Errorf("got %d trades, want 1", trades)
	}
	if promoted != 1 {
		t.Errorf("got %d profitable liquidations, want 1", promoted)
	}
}

// TestProcessorZeroXThenCurveMulticall routes one transaction through a
// 0x fill and then a Curve exchange. The two trades don't close a token
// cycle, so both must survive as Trades with both protocols recorded
// and no Arbitrage.
func TestProcessorZeroXThenCurveMulticall(t *testing.T) {
	trader, bot, maker := addr(1), addr(2), addr(3)
	exchange, curvePool := addr(10), addr(11)
	tokenA, tokenB, tokenC := addr(20), addr(21), addr(22)

	raw := []trace.RawFrame{
		{TraceAddress: []int{}, Type: "call", From: trader, To: bot, GasUsed: 400000},
		{TraceAddress: []int{0}, Type: "call", From: bot, To: exchange, Input: fillOrderInput(t, maker, bot), GasUsed: 80000},
		{TraceAddress: []int{1}, Type: "call", From: bot, To: tokenA, Input: erc20TransferInput(t, maker, 100), GasUsed: 30000},
		{TraceAddress: []int{2}, Type: "call", From: maker, To: tokenB, Input: erc20TransferInput(t, bot, 200), GasUsed: 30000},
		{TraceAddress: []int{3}, Type: "call", From: bot, To: curvePool, Input: curveExchangeInput(t), GasUsed: 90000},
		{TraceAddress: []int{4}, Type: "call", From: bot, To: tokenB, Input: erc20TransferInput(t, curvePool, 200), GasUsed: 30000},
		{TraceAddress: []int{5}, Type: "call", From: curvePool, To: tokenC, Input: erc20TransferInput(t, bot, 300), GasUsed: 30000},
	}
	insp, err := trace.Build(common.Hash{}, 11_000_000, 0, raw, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	p := New(noopOracle{})
	if err := p.Process(context.Background(), insp); err != nil {
		t.Fatalf("process: %v", err)
	}

	if !insp.HasProtocol(trace.ProtocolZeroX) || !insp.HasProtocol(trace.ProtocolCurve) {
		t.Errorf("protocols = %v, want ZeroX and Curve", insp.Protocols)
	}

	var trades, arbs int
	for _, c := range insp.Known() {
		switch action, _ := c.AsAction(); action.Kind {
		case trace.ActionTrade:
			trades++
		case trace.ActionArbitrage:
			arbs++
		}
	}
	if trades != 2 {
		t.Errorf("got %d trades, want 2", trades)
	}
	if arbs != 0 {
		t.Errorf("got %d arbitrages on an open chain, want 0", arbs)
	}
}
