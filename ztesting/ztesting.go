package ztesting

import (
	"cmp"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/glencornell/Statistic/zlog"
)

func spaced(parts ...any) string {
	return strings.TrimSpace(fmt.Sprintln(parts...))
}

func fail(t *testing.T, str string) {
	t.Helper()
	zlog.Error(nil, zlog.StackAdjust(2), "Fail:", str)
	t.Error(str)
}

func Equal[N comparable](t *testing.T, str string, a, b N) bool {
	t.Helper()
	if a != b {
		fail(t, spaced(str, a, "!=", b))
		return false
	}
	return true
}

func Different[N comparable](t *testing.T, str string, a, b N) bool {
	t.Helper()
	if a == b {
		fail(t, spaced(str+":", a, "==", b))
		return false
	}
	return true
}

func GreaterThan[N cmp.Ordered](t *testing.T, str string, a, b N) bool {
	t.Helper()
	if a < b {
		fail(t, spaced(str+":", a, "<", b))
		return false
	}
	return true
}

func LessThan[N cmp.Ordered](t *testing.T, str string, a, b N) bool {
	t.Helper()
	if a > b {
		fail(t, spaced(str+":", a, ">", b))
		return false
	}
	return true
}

// Near checks a and b are within relTol of each other, relative to the larger
// magnitude, or absolutely when both are below 1.
func Near[F ~float32 | ~float64](t *testing.T, str string, a, b F, relTol float64) bool {
	t.Helper()
	fa, fb := float64(a), float64(b)
	scale := math.Max(1, math.Max(math.Abs(fa), math.Abs(fb)))
	if math.IsNaN(fa) || math.IsNaN(fb) || math.Abs(fa-fb) > relTol*scale {
		fail(t, spaced(str+":", a, "!~", b))
		return false
	}
	return true
}

func IsNaN[F ~float32 | ~float64](t *testing.T, str string, a F) bool {
	t.Helper()
	if !math.IsNaN(float64(a)) {
		fail(t, spaced(str+":", a, "is not NaN"))
		return false
	}
	return true
}

func NoError(t *testing.T, str string, err error) bool {
	t.Helper()
	if err != nil {
		fail(t, spaced(str+":", err))
		return false
	}
	return true
}
