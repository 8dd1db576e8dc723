// Package langtest contains helpers for testing values.
package langtest

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vito/arepl/pkg/lang"
)

// Equal fails the test if the values are not Equal, logging a diff.
func Equal(t testing.TB, a, b lang.Value) {
	t.Helper()

	if !a.Equal(b) {
		t.Logf("%s != %s\n%s", a, b, tryDiff(a, b))
		t.FailNow()
	}
}

func tryDiff(a, b any) (res string) {
	defer func() {
		// cmp panics on unexported fields and asymmetrical Equal
		err := recover()
		if err != nil {
			res = fmt.Sprintf("diff error: %s", err)
		}
	}()

	return cmp.Diff(a, b)
}
