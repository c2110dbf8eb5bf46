package prices

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"github.com/flashbots/mev-inspect-go/pkg/abiregistry"
	"github.com/flashbots/mev-inspect-go/pkg/addresses"
	"github.com/flashbots/mev-inspect-go/pkg/trace"
)

// fakeCaller implements bind.ContractCaller by encoding a fixed
// amounts-out response, or returning a fixed error, regardless of the
// call it's given - enough to exercise Oracle without a live node.
type fakeCaller struct {
	amountsOut []*big.Int
	callErr    error
	calls      int
}

func (f *fakeCaller) CodeAt(context.Context, common.Address, *big.Int) ([]byte, error) {
	return []byte{0x1}, nil
}

func (f *fakeCaller) CallContract(context.Context, ethereum.CallMsg, *big.Int) ([]byte, error) {
	f.calls++
	if f.callErr != nil {
		return nil, f.callErr
	}
	routerABI := abiregistry.NewUniswapRegistry(trace.ProtocolUniswap).Contracts[1].ABI
	method := routerABI.Methods["getAmountsOut"]
	out, err := method.Outputs.Pack(f.amountsOut)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func TestOracleQuoteWETHShortCircuits(t *testing.T) {
	o, err := NewDefault(&fakeCaller{}, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	price, found, err := o.Quote(context.Background(), addresses.WETH, 100)
	if err != nil || !found {
		t.Fatalf("expected WETH to short-circuit, got found=%v err=%v", found, err)
	}
	if price.Cmp(trace.OneEther) != 0 {
		t.Fatalf("expected OneEther, got %v", price)
	}
}

func TestOracleQuoteCachesAcrossCalls(t *testing.T) {
	token := common.HexToAddress("0x01")
	caller := &fakeCaller{amountsOut: []*big.Int{big.NewInt(1e18), big.NewInt(2e18)}}
	o, err := NewDefault(caller, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	price, found, err := o.Quote(context.Background(), token, 100)
	if err != nil || !found {
		t.Fatalf("quote: found=%v err=%v", found, err)
	}
	if price.Uint64() != 2e18 {
		t.Fatalf("expected 2e18, got %v", price)
	}
	if caller.calls != 1 {
		t.Fatalf("expected one underlying call, got %d", caller.calls)
	}

	if _, _, err := o.Quote(context.Background(), token, 100); err != nil {
		t.Fatalf("second quote: %v", err)
	}
	if caller.calls != 1 {
		t.Fatalf("expected the cache to serve the second quote, got %d calls", caller.calls)
	}
}

func TestOracleQuoteNoPoolReportsNotFoundWithoutError(t *testing.T) {
	token := common.HexToAddress("0x02")
	o, err := NewDefault(&fakeCaller{amountsOut: nil}, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// An empty amounts slice packs to a zero-length dynamic array,
	// which Unpack still parses successfully but with len < 2.
	_, found, err := o.Quote(context.Background(), token, 100)
	if err != nil {
		t.Fatalf("expected no error for a missing route, got %v", err)
	}
	if found {
		t.Fatalf("expected found=false for a token with no WETH route")
	}
}

func TestOracleQuoteRetriesThenFailsOnTransportError(t *testing.T) {
	token := common.HexToAddress("0x03")
	caller := &fakeCaller{callErr: errors.New("connection reset")}
	o, err := NewDefault(caller, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, _, err = o.Quote(context.Background(), token, 100)
	if err == nil {
		t.Fatalf("expected an error after exhausting retries")
	}
	if !errors.Is(err, ErrPriceUnavailable) {
		t.Fatalf("expected ErrPriceUnavailable, got %v", err)
	}
	if caller.calls != len(retryBackoff)+1 {
		t.Fatalf("expected %d attempts, got %d", len(retryBackoff)+1, caller.calls)
	}
}
