package mapping

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
)

// toUint256 accepts the shapes a contract reader or a JSON body produces for
// a uint256. Floats are refused: they cannot carry 18-decimal amounts.
func toUint256(v any) (*big.Int, error) {
	var out *big.Int
	switch x := v.(type) {
	case *big.Int:
		if x == nil {
			return nil, fmt.Errorf("nil integer")
		}
		out = new(big.Int).Set(x)
	case big.Int:
		out = new(big.Int).Set(&x)
	case string:
		return parseUint256(x)
	case json.Number:
		return parseUint256(x.String())
	case int:
		out = big.NewInt(int64(x))
	case int8:
		out = big.NewInt(int64(x))
	case int16:
		out = big.NewInt(int64(x))
	case int32:
		out = big.NewInt(int64(x))
	case int64:
		out = big.NewInt(x)
	case uint:
		out = new(big.Int).SetUint64(uint64(x))
	case uint8:
		out = new(big.Int).SetUint64(uint64(x))
	case uint16:
		out = new(big.Int).SetUint64(uint64(x))
	case uint32:
		out = new(big.Int).SetUint64(uint64(x))
	case uint64:
		out = new(big.Int).SetUint64(x)
	case float32, float64:
		return nil, fmt.Errorf("floating point value %v", x)
	default:
		return nil, fmt.Errorf("unsupported integer type %T", v)
	}

	if out.Sign() < 0 {
		return nil, fmt.Errorf("negative value %s", out)
	}
	if out.Cmp(math.MaxBig256) > 0 {
		return nil, fmt.Errorf("value exceeds uint256")
	}
	return out, nil
}

func parseUint256(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty integer")
	}
	if s[0] == '-' || s[0] == '+' {
		return nil, fmt.Errorf("signed integer %q", s)
	}
	n, ok := math.ParseBig256(s)
	if !ok {
		return nil, fmt.Errorf("invalid uint256 %q", s)
	}
	return n, nil
}

// toUnixSeconds narrows a uint256 timestamp or duration to int64.
func toUnixSeconds(v any) (int64, error) {
	n, err := toUint256(v)
	if err != nil {
		return 0, err
	}
	if !n.IsInt64() {
		return 0, fmt.Errorf("time value %s out of range", n)
	}
	return n.Int64(), nil
}

func toAddress(v any) (common.Address, error) {
	switch x := v.(type) {
	case common.Address:
		return x, nil
	case *common.Address:
		if x == nil {
			return common.Address{}, fmt.Errorf("nil address")
		}
		return *x, nil
	case string:
		if !common.IsHexAddress(x) {
			return common.Address{}, fmt.Errorf("invalid address %q", x)
		}
		return common.HexToAddress(x), nil
	case []byte:
		if len(x) != common.AddressLength {
			return common.Address{}, fmt.Errorf("address must be %d bytes, got %d", common.AddressLength, len(x))
		}
		return common.BytesToAddress(x), nil
	default:
		return common.Address{}, fmt.Errorf("unsupported address type %T", v)
	}
}

func toBool(v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		b, err := strconv.ParseBool(x)
		if err != nil {
			return false, fmt.Errorf("invalid bool %q", x)
		}
		return b, nil
	default:
		return false, fmt.Errorf("unsupported bool type %T", v)
	}
}

func toText(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	default:
		return "", fmt.Errorf("unsupported string type %T", v)
	}
}
