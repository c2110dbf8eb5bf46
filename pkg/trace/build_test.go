package trace

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

func addr(n byte) common.Address {
	var a common.Address
	a[len(a)-1] = n
	return a
}

func bigVal(v int64) *hexutil.Big {
	b := (hexutil.Big)(*big.NewInt(v))
	return &b
}

func TestBuildSimpleCall(t *testing.T) {
	sender := addr(1)
	contract := addr(2)
	callee := addr(3)

	raw := []RawFrame{
		{TraceAddress: []int{}, Type: "call", From: sender, To: contract, Value: bigVal(0), GasUsed: 21000},
		{TraceAddress: []int{0}, Type: "call", CallType: "call", From: contract, To: callee, Value: bigVal(5), GasUsed: 2300},
	}

	insp, err := Build(common.Hash{}, 100, 0, raw, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if insp.Sender != sender || insp.Contract != contract {
		t.Fatalf("sender/contract mismatch: %v %v", insp.Sender, insp.Contract)
	}
	if insp.Status != StatusSuccess {
		t.Fatalf("expected success, got %v", insp.Status)
	}
	if len(insp.Frames) != 2 || len(insp.Actions) != 2 {
		t.Fatalf("expected 2 frames/actions, got %d/%d", len(insp.Frames), len(insp.Actions))
	}
	if insp.Actions[1].Kind != Unknown {
		t.Fatalf("expected fresh frames to be Unknown")
	}
}

func TestBuildUnsortedFrames(t *testing.T) {
	sender := addr(1)
	contract := addr(2)

	raw := []RawFrame{
		{TraceAddress: []int{0, 0}, Type: "call", From: contract, To: addr(4)},
		{TraceAddress: []int{}, Type: "call", From: sender, To: contract},
		{TraceAddress: []int{0}, Type: "call", From: contract, To: addr(3)},
	}

	insp, err := Build(common.Hash{}, 1, 0, raw, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := [][]int{{}, {0}, {0, 0}}
	for i, w := range want {
		if !insp.Frames[i].TraceAddress.Equal(TraceAddress(w)) {
			t.Fatalf("frame %d: want address %v, got %v", i, w, insp.Frames[i].TraceAddress)
		}
	}
}

func TestBuildRootRevertedMarksTransaction(t *testing.T) {
	raw := []RawFrame{
		{TraceAddress: []int{}, Type: "call", From: addr(1), To: addr(2), Error: "execution reverted"},
		{TraceAddress: []int{0}, Type: "call", From: addr(2), To: addr(3)},
	}
	insp, err := Build(common.Hash{}, 1, 0, raw, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if insp.Status != StatusReverted {
		t.Fatalf("expected reverted status, got %v", insp.Status)
	}
}

func TestBuildInnerRevertDoesNotFailTransaction(t *testing.T) {
	raw := []RawFrame{
		{TraceAddress: []int{}, Type: "call", From: addr(1), To: addr(2)},
		{TraceAddress: []int{0}, Type: "call", From: addr(2), To: addr(3), Error: "execution reverted"},
	}
	insp, err := Build(common.Hash{}, 1, 0, raw, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if insp.Status != StatusSuccess {
		t.Fatalf("inner revert should not flip transaction status, got %v", insp.Status)
	}
}

func TestBuildMissingParentIsMalformed(t *testing.T) {
	raw := []RawFrame{
		{TraceAddress: []int{}, Type: "call", From: addr(1), To: addr(2)},
		{TraceAddress: []int{0, 0}, Type: "call", From: addr(2), To: addr(3)},
	}
	_, err := Build(common.Hash{}, 1, 0, raw, nil)
	if err != ErrMalformedTrace {
		t.Fatalf("want ErrMalformedTrace, got %v", err)
	}
}

func TestBuildEmptyIsMalformed(t *testing.T) {
	_, err := Build(common.Hash{}, 1, 0, nil, nil)
	if err != ErrMalformedTrace {
		t.Fatalf("want ErrMalformedTrace, got %v", err)
	}
}

func TestBuildInfersProxyImpl(t *testing.T) {
	sender := addr(1)
	contract := addr(2)
	impl := addr(9)

	raw := []RawFrame{
		{TraceAddress: []int{}, Type: "call", From: sender, To: contract},
		{TraceAddress: []int{0}, Type: "call", CallType: "delegatecall", From: contract, To: impl},
	}
	insp, err := Build(common.Hash{}, 1, 0, raw, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if insp.ProxyImpl == nil || *insp.ProxyImpl != impl {
		t.Fatalf("expected proxy impl %v, got %v", impl, insp.ProxyImpl)
	}
}

func TestBuildLogsCarrySignature(t *testing.T) {
	topic0 := common.HexToHash("0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3e")
	raw := []RawFrame{{TraceAddress: []int{}, Type: "call", From: addr(1), To: addr(2)}}
	logs := []RawLog{{Address: addr(2), Topics: []common.Hash{topic0}, Data: []byte{0x01}}}

	insp, err := Build(common.Hash{}, 1, 0, raw, logs)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(insp.Logs) != 1 || insp.Logs[0].Signature != topic0 {
		t.Fatalf("expected log signature to carry topic0, got %+v", insp.Logs)
	}
}

func TestBuildRejectsIgnoredTarget(t *testing.T) {
	aggregator := common.HexToAddress("0x11111254369792b2ca5d084ab5eea397ca8fa48b")
	raw := []RawFrame{
		{TraceAddress: []int{}, Type: "call", From: addr(1), To: aggregator, GasUsed: 100000},
	}

	if _, err := Build(common.Hash{}, 1, 0, raw, nil); err != ErrIgnoredTarget {
		t.Fatalf("Build = %v, want ErrIgnoredTarget", err)
	}
}
