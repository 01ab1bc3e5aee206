//go:build !curvedebug

package adjuster

const panicOnInvariant = false
