//go:build connpool_debug

package connpool

import "fmt"

const debugAssertions = true

func assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("connpool: "+format, args...))
	}
}
