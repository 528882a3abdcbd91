// Package memory keeps batch processing inside its memory budget.
//
// Decoded images are far larger than their files, so a pool of workers can
// exhaust a container quickly. Two mechanisms help:
//
//   - [ConfigureLimit] sets GOMEMLIMIT from a container limit ("512MiB",
//     "2GB", bytes) times a ratio, unless GOMEMLIMIT is already set.
//   - [Monitor] samples the heap and, above the critical water mark, pauses
//     workers before they take their next item until usage falls below the
//     high water mark. It implements batch.Gate.
//
// Configuration keys (THUMBGEN_MEMORY_* in the environment):
//
//	memory:
//	  limit: 1GiB      # container limit; empty disables GOMEMLIMIT setup
//	  ratio: 0.85      # share of limit given to the Go heap
//	  high_water: 0.7  # resume below this share of GOMEMLIMIT
//	  critical_water: 0.85
package memory
