package repl

import (
	"fmt"
	"testing"

	"github.com/adrg/xdg"
	"github.com/vito/is"
)

func TestHistory(t *testing.T) {
	is := is.New(t)

	t.Setenv("XDG_DATA_HOME", t.TempDir())
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	is.Equal(loadHistory(10), []string{})

	for i := 0; i < 5; i++ {
		is.NoErr(appendHistory(fmt.Sprintf("(line %d)", i)))
	}

	is.Equal(loadHistory(0), []string{
		"(line 0)",
		"(line 1)",
		"(line 2)",
		"(line 3)",
		"(line 4)",
	})

	is.Equal(loadHistory(2), []string{"(line 3)", "(line 4)"})
}
