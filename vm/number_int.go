//go:build basic_int

package vm

import "strconv"

// Number is the BASIC numeric type for the integer-only build
// configuration (-tags basic_int), per spec.md §3. See number_float.go
// for the default floating-point configuration.
type Number = int64

const hasFloat = false

func numberFromInt64(i int64) Number { return Number(i) }

func numberToInt(n Number) (int, bool) {
	return int(n), true
}

func parseNumber(s string) (Number, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	return Number(n), err
}

func formatNumber(n Number) string {
	return strconv.FormatInt(int64(n), 10)
}

// numberFinite always holds for the integer build; overflow wraps per
// Go's int64 semantics rather than producing a non-finite sentinel.
func numberFinite(n Number) bool { return true }
