package addresses

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/flashbots/mev-inspect-go/pkg/trace"
)

func TestUniswapRouterIsRecognized(t *testing.T) {
	router := common.HexToAddress("0x7a250d5630b4cf539739df2c5dacb4c659f2488d")
	if p, ok := UNISWAP[router]; !ok || p != trace.ProtocolUniswap {
		t.Fatalf("expected router to be Uniswap, got %v ok=%v", p, ok)
	}
}

func TestSushiswapRouterIsDistinctProtocol(t *testing.T) {
	router := common.HexToAddress("0xd9e1cE17f2641f24aE83637ab66a2cca9C378B9F")
	if p, ok := UNISWAP[router]; !ok || p != trace.ProtocolSushiswap {
		t.Fatalf("expected router to be Sushiswap, got %v ok=%v", p, ok)
	}
}

func TestLookupFallsBackToHex(t *testing.T) {
	unknown := common.HexToAddress("0x1234567890123456789012345678901234567890")
	if got := Lookup(unknown); got != unknown.Hex() {
		t.Fatalf("expected hex fallback, got %q", got)
	}
}

func TestLookupKnownToken(t *testing.T) {
	if got := Lookup(WETH); got != "WETH" {
		t.Fatalf("expected WETH label, got %q", got)
	}
}

func TestKnownBot(t *testing.T) {
	bot := common.HexToAddress("0x8be4db5926232bc5b02b841dbede8161924495c4")
	if !KnownBot(bot) {
		t.Fatalf("expected %v to be a known bot", bot)
	}
	if KnownBot(WETH) {
		t.Fatalf("WETH is not a bot")
	}
}

func TestFilterContainsAggregators(t *testing.T) {
	oneInch := common.HexToAddress("0x11111254369792b2ca5d084ab5eea397ca8fa48b")
	if _, ok := FILTER[oneInch]; !ok {
		t.Fatalf("expected 1inch to be filtered")
	}
}
