package internal

import (
	"iter"
)

// ConcatSeq concatenates multiple iterators into a single iterator sequence.
func ConcatSeq[T any](seqs ...iter.Seq[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, seq := range seqs {
			for val := range seq {
				if !yield(val) {
					return // Stop if the consumer stops
				}
			}
		}
	}
}
