package conv

import (
	"math"
	"strconv"
	"testing"
)

func TestIntToUint32(t *testing.T) {
	for _, n := range []int{0, 1, 4096, math.MaxInt32} {
		if got := IntToUint32(n); int(got) != n {
			t.Errorf("IntToUint32(%d) = %d", n, got)
		}
	}
}

func TestIntToUint32Panics(t *testing.T) {
	cases := []int{-1}
	if strconv.IntSize == 64 {
		big := int64(math.MaxUint32)
		cases = append(cases, int(big+1))
	}
	for _, n := range cases {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("IntToUint32(%d) did not panic", n)
				}
			}()
			IntToUint32(n)
		}()
		if FitsUint32(n) {
			t.Errorf("FitsUint32(%d) = true", n)
		}
	}
}
