package builder

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestParseDepfile covers the plain single-rule case.
func TestParseDepfile(t *testing.T) {
	t.Parallel()

	deps := parseDepfile([]byte("build/obj/main.o: src/main.c include/hello.h\n"))
	require.Equal(t, []string{"include/hello.h", "src/main.c"}, deps)
}

// TestParseDepfileJoinsContinuations handles backslash-newline wrapped rules.
func TestParseDepfileJoinsContinuations(t *testing.T) {
	t.Parallel()

	data := []byte("build/obj/main.o: src/main.c \\\n include/hello.h \\\r\n include/extra.h\n")

	deps := parseDepfile(data)
	require.Equal(t, []string{"include/extra.h", "include/hello.h", "src/main.c"}, deps)
}

// TestParseDepfileSkipsPhonyTargets ignores the empty rules emitted by -MP.
func TestParseDepfileSkipsPhonyTargets(t *testing.T) {
	t.Parallel()

	data := []byte("build/obj/main.o: src/main.c include/hello.h\ninclude/hello.h:\n")

	deps := parseDepfile(data)
	require.Equal(t, []string{"include/hello.h", "src/main.c"}, deps)
}

// TestParseDepfileDeduplicatesAndUnescapes handles repeats and escaped spaces.
func TestParseDepfileDeduplicatesAndUnescapes(t *testing.T) {
	t.Parallel()

	data := []byte("a.o: src/a.c src/a.c my\\ dir/h.h\n")

	deps := parseDepfile(data)
	require.Equal(t, []string{"my dir/h.h", "src/a.c"}, deps)
}

// TestParseDepfileEmpty returns nothing for empty input.
func TestParseDepfileEmpty(t *testing.T) {
	t.Parallel()

	require.Empty(t, parseDepfile(nil))
}
