package services

import (
	"math/big"
	"strings"

	"auction-marketplace/internal/domain"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Only the write methods the operation builders pack are declared.
const (
	erc20ABIJSON = `[
		{"type":"function","name":"approve","stateMutability":"nonpayable",
		 "inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],
		 "outputs":[{"name":"","type":"bool"}]}
	]`

	decayingABIJSON = `[
		{"type":"function","name":"withdrawItem","stateMutability":"payable",
		 "inputs":[{"name":"auctionId","type":"uint256"}],"outputs":[]},
		{"type":"function","name":"withdrawFunds","stateMutability":"nonpayable",
		 "inputs":[{"name":"auctionId","type":"uint256"}],"outputs":[]}
	]`

	ascendingABIJSON = `[
		{"type":"function","name":"placeBid","stateMutability":"payable",
		 "inputs":[{"name":"auctionId","type":"uint256"},{"name":"bidAmount","type":"uint256"}],"outputs":[]},
		{"type":"function","name":"withdrawFunds","stateMutability":"nonpayable",
		 "inputs":[{"name":"auctionId","type":"uint256"}],"outputs":[]}
	]`

	sealedABIJSON = `[
		{"type":"function","name":"commitBid","stateMutability":"nonpayable",
		 "inputs":[{"name":"auctionId","type":"uint256"},{"name":"commitment","type":"bytes32"}],"outputs":[]},
		{"type":"function","name":"revealBid","stateMutability":"payable",
		 "inputs":[{"name":"auctionId","type":"uint256"},{"name":"bidAmount","type":"uint256"},{"name":"salt","type":"bytes32"}],"outputs":[]},
		{"type":"function","name":"withdrawFunds","stateMutability":"nonpayable",
		 "inputs":[{"name":"auctionId","type":"uint256"}],"outputs":[]}
	]`
)

var (
	erc20ABI     = mustParseABI(erc20ABIJSON)
	decayingABI  = mustParseABI(decayingABIJSON)
	ascendingABI = mustParseABI(ascendingABIJSON)
	sealedABI    = mustParseABI(sealedABIJSON)
)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return parsed
}

// contractCall packs method against contract into a TxCall.
func contractCall(contract common.Address, a abi.ABI, method string, args ...interface{}) (domain.TxCall, error) {
	data, err := a.Pack(method, args...)
	if err != nil {
		return domain.TxCall{}, err
	}
	return domain.TxCall{To: contract, Method: method, Data: data}, nil
}

// approvalCall lets spender pull amount of token. Native-currency bidding
// (zero token address) needs no approval.
func approvalCall(token, spender common.Address, amount *big.Int) (*domain.TxCall, error) {
	if token == (common.Address{}) {
		return nil, nil
	}
	call, err := contractCall(token, erc20ABI, "approve", spender, amount)
	if err != nil {
		return nil, err
	}
	return &call, nil
}

// BidCommitment is keccak256(abi.encodePacked(uint256 amount, bytes32 salt)),
// the value a sealed bid commits to.
func BidCommitment(amount *big.Int, salt common.Hash) common.Hash {
	return crypto.Keccak256Hash(common.LeftPadBytes(amount.Bytes(), 32), salt.Bytes())
}

func hexBig(x *big.Int) *hexutil.Big {
	if x == nil {
		return nil
	}
	return (*hexutil.Big)(new(big.Int).Set(x))
}
