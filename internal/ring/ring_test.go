package ring

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect[T any](b *Buffer[T]) []T {
	return slices.Collect(b.Values())
}

func TestNewRejectsNonPositiveCapacity(t *testing.T) {
	for _, c := range []int{0, -1, -100} {
		b, err := New[int](c)
		assert.Nil(t, b)
		assert.ErrorIs(t, err, ErrInvalidCapacity)
	}
}

func TestPushBackPreservesOrderAcrossGrowth(t *testing.T) {
	b, err := New[int](2)
	require.NoError(t, err)

	var want []int
	for i := 0; i < 50; i++ {
		b.PushBack(i)
		want = append(want, i)
	}
	assert.Equal(t, 50, b.Len())
	assert.GreaterOrEqual(t, b.Cap(), 50)
	if diff := cmp.Diff(want, collect(b)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	for i := range want {
		v, err := b.At(i)
		require.NoError(t, err)
		assert.Equal(t, want[i], v)
	}
}

func TestPushFrontPreservesOrder(t *testing.T) {
	b, err := New[string](1)
	require.NoError(t, err)
	b.PushFront("c")
	b.PushFront("b")
	b.PushFront("a")
	b.PushBack("d")
	assert.Equal(t, []string{"a", "b", "c", "d"}, collect(b))
	assert.Equal(t, "a", b.Front())
	assert.Equal(t, "d", b.Back())
}

func TestGrowthFactor(t *testing.T) {
	b, err := New[int](4)
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		b.PushBack(i)
	}
	assert.Equal(t, 4, b.Cap())
	b.PushBack(4)
	assert.Equal(t, 6, b.Cap())
}

func TestWraparoundThenGrow(t *testing.T) {
	b, err := New[int](4)
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		b.PushBack(i)
	}
	// Slide the window so the live range wraps the backing array.
	b.PopFront()
	b.PopFront()
	b.PushBack(4)
	b.PushBack(5)
	assert.Equal(t, 4, b.Cap())
	before := collect(b)

	b.PushBack(6)
	assert.Equal(t, append(before, 6), collect(b))
}

func TestAtOutOfRange(t *testing.T) {
	b, err := New[int](3)
	require.NoError(t, err)
	b.PushBack(1)

	_, err = b.At(1)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = b.At(-1)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestPopEmptyPanics(t *testing.T) {
	b, err := New[int](3)
	require.NoError(t, err)
	assert.Panics(t, func() { b.PopBack() })
	assert.Panics(t, func() { b.PopFront() })
}

func TestRandomOpsMatchSliceModel(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	b, err := New[int](1)
	require.NoError(t, err)

	var model []int
	pushes, pops := 0, 0
	for step := 0; step < 5000; step++ {
		switch op := r.IntN(4); {
		case op == 0:
			b.PushBack(step)
			model = append(model, step)
			pushes++
		case op == 1:
			b.PushFront(step)
			model = append([]int{step}, model...)
			pushes++
		case op == 2 && len(model) > 0:
			assert.Equal(t, model[len(model)-1], b.PopBack())
			model = model[:len(model)-1]
			pops++
		case op == 3 && len(model) > 0:
			assert.Equal(t, model[0], b.PopFront())
			model = model[1:]
			pops++
		}
		require.Equal(t, pushes-pops, b.Len())
	}
	if diff := cmp.Diff(model, collect(b), cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("contents diverged (-model +ring):\n%s", diff)
	}
}

func TestIterationIsRestartable(t *testing.T) {
	b, err := New[int](2)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		b.PushBack(i * i)
	}
	first := collect(b)
	second := collect(b)
	assert.Equal(t, first, second)

	var idx []int
	for i, v := range b.All() {
		idx = append(idx, i)
		if v == 4 {
			break
		}
	}
	assert.Equal(t, []int{0, 1, 2}, idx)
}

func TestResizeAndReserve(t *testing.T) {
	b, err := New[int](2)
	require.NoError(t, err)

	b.Resize(5, 9)
	assert.Equal(t, []int{9, 9, 9, 9, 9}, collect(b))

	capBefore := b.Cap()
	b.Resize(2, 0)
	assert.Equal(t, []int{9, 9}, collect(b))
	assert.Equal(t, capBefore, b.Cap())

	require.NoError(t, b.Reserve(1))
	assert.Equal(t, capBefore, b.Cap())

	require.NoError(t, b.Reserve(capBefore+1))
	assert.GreaterOrEqual(t, b.Cap(), capBefore+capBefore/2)
	assert.Equal(t, []int{9, 9}, collect(b))

	assert.ErrorIs(t, b.Reserve(MaxCapacity+1), ErrCapacityExceeded)
}

func TestAssignAndClear(t *testing.T) {
	b, err := New[int](DefaultCapacity)
	require.NoError(t, err)
	b.PushBack(1)
	b.PushBack(2)

	b.Assign(3, 7)
	assert.Equal(t, []int{7, 7, 7}, collect(b))

	c := b.Cap()
	b.Clear()
	assert.True(t, b.Empty())
	assert.Equal(t, c, b.Cap())
	b.PushFront(4)
	assert.Equal(t, []int{4}, collect(b))
}

func TestSetAndGet(t *testing.T) {
	b, err := New[int](3)
	require.NoError(t, err)
	b.PushBack(1)
	b.PushBack(2)
	b.Set(1, 20)
	assert.Equal(t, 20, b.Get(1))
	assert.Equal(t, 1, b.Get(0))
}

func TestGetSetWrapOutsideWindow(t *testing.T) {
	b, err := New[int](4)
	require.NoError(t, err)
	for _, v := range []int{1, 2, 3} {
		b.PushBack(v)
	}
	b.PopFront()
	b.PushBack(4)
	b.PushBack(5)
	require.Equal(t, []int{2, 3, 4, 5}, collect(b))

	assert.Equal(t, 5, b.Get(-1))
	assert.Equal(t, 5, b.Get(-5))
	assert.Equal(t, 2, b.Get(4))
	assert.NotPanics(t, func() { b.Get(-7) })

	b.Set(-2, 40)
	assert.Equal(t, 40, b.Get(2))
	assert.Equal(t, []int{2, 3, 40, 5}, collect(b))
}
