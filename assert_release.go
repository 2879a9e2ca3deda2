//go:build !connpool_debug

package connpool

const debugAssertions = false

func assert(bool, string, ...any) {}
