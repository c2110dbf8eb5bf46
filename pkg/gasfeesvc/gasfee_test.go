package gasfeesvc

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

func gwei(n int64) *hexutil.Big {
	return (*hexutil.Big)(new(big.Int).Mul(big.NewInt(n), big.NewInt(1_000_000_000)))
}

func TestEffective(t *testing.T) {
	tests := []struct {
		name    string
		baseFee *uint256.Int
		fees    TxFees
		want    uint64
	}{
		{
			name:    "legacyFlatPrice",
			baseFee: uint256.NewInt(30_000_000_000),
			fees:    TxFees{GasPrice: gwei(55)},
			want:    55_000_000_000,
		},
		{
			name:    "eip1559TipBelowCap",
			baseFee: uint256.NewInt(30_000_000_000),
			fees:    TxFees{MaxFeePerGas: gwei(100), MaxPriorityFeePerGas: gwei(2)},
			want:    32_000_000_000,
		},
		{
			name:    "eip1559CappedByMaxFee",
			baseFee: uint256.NewInt(99_000_000_000),
			fees:    TxFees{MaxFeePerGas: gwei(100), MaxPriorityFeePerGas: gwei(5)},
			want:    100_000_000_000,
		},
		{
			name:    "eip1559NoTip",
			baseFee: uint256.NewInt(30_000_000_000),
			fees:    TxFees{MaxFeePerGas: gwei(100)},
			want:    30_000_000_000,
		},
		{
			name: "preLondonNoBaseFee",
			fees: TxFees{GasPrice: gwei(40), MaxFeePerGas: gwei(100)},
			want: 40_000_000_000,
		},
		{
			name:    "emptyFees",
			baseFee: uint256.NewInt(30_000_000_000),
			fees:    TxFees{},
			want:    0,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := Effective(test.baseFee, test.fees)
			if !got.Eq(uint256.NewInt(test.want)) {
				t.Errorf("Effective = %s, want %d", got.Dec(), test.want)
			}
		})
	}
}
