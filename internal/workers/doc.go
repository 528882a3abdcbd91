/*
Package workers determines the size of the thumbnail worker pool.

# Sizing Rule

Thumbnailing is CPU bound (decode, resample, encode), but a handful of large
images can pin memory, so the pool is deliberately small:

	size = clamp(2, hint >= 8 ? 6 : 4, hint)

where hint is runtime.GOMAXPROCS(0). GOMAXPROCS is automatically set to the
container CPU limit in Go 1.19+, so a pod limited to 2 CPUs on a 64-core node
gets 2 workers rather than 6:

	workers.PoolSize(1)  // 2
	workers.PoolSize(3)  // 3
	workers.PoolSize(7)  // 4
	workers.PoolSize(64) // 6

# Overrides

Count applies overrides in order: an explicit value (from the --workers flag
or configuration file), then the THUMBGEN_WORKERS environment variable, then
the sizing rule.

	env:
	- name: THUMBGEN_WORKERS
	  value: "3"

All functions in this package are safe for concurrent use.
*/
package workers
