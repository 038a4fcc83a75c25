// Package selector provides memoized views over the state tree. A
// selector recomputes only when the slice references it reads change; a
// cache hit returns the previously computed value as-is, without
// recomputation or reallocation, so consumers can change-detect views by
// shallow equality.
package selector

import (
	"sync"

	"github.com/SniraJavas/EcommerceWebApp/internal/state"
)

// Memo1 memoizes a derivation over one slice reference.
//
// Thread-safety: safe for concurrent use; derive runs under the memo's
// lock and must be pure.
type Memo1[I comparable, V any] struct {
	input  func(*state.Tree) I
	derive func(I) V

	mu    sync.Mutex
	valid bool
	last  I
	value V
}

// NewMemo1 builds a selector reading one slice reference from the tree.
func NewMemo1[I comparable, V any](input func(*state.Tree) I, derive func(I) V) *Memo1[I, V] {
	return &Memo1[I, V]{input: input, derive: derive}
}

// Get returns the derived view for the tree, recomputing only when the
// input reference differs from the previous call.
func (m *Memo1[I, V]) Get(t *state.Tree) V {
	in := m.input(t)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.valid && in == m.last {
		return m.value
	}
	m.value = m.derive(in)
	m.last = in
	m.valid = true
	return m.value
}

// Memo2 memoizes a derivation over two slice references. Composition is
// expressed by declaring the union of upstream inputs: the view recomputes
// only when at least one of them changed.
type Memo2[I1, I2 comparable, V any] struct {
	input1 func(*state.Tree) I1
	input2 func(*state.Tree) I2
	derive func(I1, I2) V

	mu    sync.Mutex
	valid bool
	last1 I1
	last2 I2
	value V
}

// NewMemo2 builds a selector reading two slice references from the tree.
func NewMemo2[I1, I2 comparable, V any](
	input1 func(*state.Tree) I1,
	input2 func(*state.Tree) I2,
	derive func(I1, I2) V,
) *Memo2[I1, I2, V] {
	return &Memo2[I1, I2, V]{input1: input1, input2: input2, derive: derive}
}

// Get returns the derived view for the tree.
func (m *Memo2[I1, I2, V]) Get(t *state.Tree) V {
	in1 := m.input1(t)
	in2 := m.input2(t)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.valid && in1 == m.last1 && in2 == m.last2 {
		return m.value
	}
	m.value = m.derive(in1, in2)
	m.last1 = in1
	m.last2 = in2
	m.valid = true
	return m.value
}

// Memo3 memoizes a derivation over three slice references.
type Memo3[I1, I2, I3 comparable, V any] struct {
	input1 func(*state.Tree) I1
	input2 func(*state.Tree) I2
	input3 func(*state.Tree) I3
	derive func(I1, I2, I3) V

	mu    sync.Mutex
	valid bool
	last1 I1
	last2 I2
	last3 I3
	value V
}

// NewMemo3 builds a selector reading three slice references from the tree.
func NewMemo3[I1, I2, I3 comparable, V any](
	input1 func(*state.Tree) I1,
	input2 func(*state.Tree) I2,
	input3 func(*state.Tree) I3,
	derive func(I1, I2, I3) V,
) *Memo3[I1, I2, I3, V] {
	return &Memo3[I1, I2, I3, V]{input1: input1, input2: input2, input3: input3, derive: derive}
}

// Get returns the derived view for the tree.
func (m *Memo3[I1, I2, I3, V]) Get(t *state.Tree) V {
	in1 := m.input1(t)
	in2 := m.input2(t)
	in3 := m.input3(t)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.valid && in1 == m.last1 && in2 == m.last2 && in3 == m.last3 {
		return m.value
	}
	m.value = m.derive(in1, in2, in3)
	m.last1 = in1
	m.last2 = in2
	m.last3 = in3
	m.valid = true
	return m.value
}
