//go:build !nogpu

package gpu

import (
	"cmp"
	"iter"
	"slices"

	"github.com/gogpu/wgpu/hal"
)

// bucket groups the states of one kind behind a shared pipeline.
type bucket struct {
	kind     Kind
	pipeline hal.RenderPipeline // owned by the Registry
	states   []State
}

// BucketInfo summarizes one bucket.
type BucketInfo struct {
	Kind  Kind
	Count int
}

// Store owns pushed primitive states, grouped into buckets sorted by Kind.
// Buckets are never removed; Clear only drops their states.
type Store struct {
	reg     *Registry
	buckets []bucket
}

// NewStore returns an empty store drawing with the pipelines of reg.
func NewStore(reg *Registry) *Store {
	return &Store{reg: reg}
}

// Push appends s to the bucket of its kind, creating the bucket at its
// sorted position on first use.
func (st *Store) Push(s State) {
	kind := s.Kind()
	i, found := slices.BinarySearchFunc(st.buckets, kind, func(b bucket, k Kind) int {
		return cmp.Compare(b.kind, k)
	})
	if !found {
		st.buckets = slices.Insert(st.buckets, i, bucket{
			kind:     kind,
			pipeline: st.reg.Pipeline(kind),
		})
		slogger().Debug("gpu: bucket created", "kind", kind, "buckets", len(st.buckets))
	}
	st.buckets[i].states = append(st.buckets[i].states, s)
}

// Render records every state, bucket by bucket, into an open render pass.
// Each bucket sets its pipeline once.
func (st *Store) Render(pass hal.RenderPassEncoder) {
	for i := range st.buckets {
		b := &st.buckets[i]
		if len(b.states) == 0 {
			continue
		}
		pass.SetPipeline(b.pipeline)
		for _, s := range b.states {
			s.Record(pass)
		}
	}
}

// Len returns the number of states across all buckets.
func (st *Store) Len() int {
	n := 0
	for _, b := range st.buckets {
		n += len(b.states)
	}
	return n
}

// Buckets describes the buckets in draw order.
func (st *Store) Buckets() []BucketInfo {
	out := make([]BucketInfo, len(st.buckets))
	for i, b := range st.buckets {
		out[i] = BucketInfo{Kind: b.kind, Count: len(b.states)}
	}
	return out
}

// States yields every state in draw order.
func (st *Store) States() iter.Seq[State] {
	return func(yield func(State) bool) {
		for _, b := range st.buckets {
			for _, s := range b.states {
				if !yield(s) {
					return
				}
			}
		}
	}
}

// Clear destroys every state and keeps the (now empty) buckets.
func (st *Store) Clear(device hal.Device) {
	for i := range st.buckets {
		for _, s := range st.buckets[i].states {
			s.Destroy(device)
		}
		clear(st.buckets[i].states)
		st.buckets[i].states = st.buckets[i].states[:0]
	}
}

// Destroy destroys every state and drops all buckets.
func (st *Store) Destroy(device hal.Device) {
	st.Clear(device)
	st.buckets = nil
}
