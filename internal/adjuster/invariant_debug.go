//go:build curvedebug

package adjuster

const panicOnInvariant = true
