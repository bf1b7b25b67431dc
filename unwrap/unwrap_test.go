package unwrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type source interface {
	Name() string
}

type leaf struct{ name string }

func (l *leaf) Name() string { return l.name }

// decorator implements source and exposes a typed delegate.
type decorator struct{ next source }

func (d *decorator) Name() string   { return d.next.Name() }
func (d *decorator) Unwrap() source { return d.next }

// looseWrapper does not implement source; it only exposes Unwrap() any.
type looseWrapper struct{ next any }

func (w *looseWrapper) Unwrap() any { return w.next }

type handler struct{ target any }

func (h *handler) Target() any { return h.target }

// interceptor is a handler proxy that holds no reference to its target.
type interceptor struct{ h *handler }

func (p *interceptor) Name() string               { return "proxy" }
func (p *interceptor) InvocationHandler() Handler { return p.h }

// hybrid claims to be a handler proxy but its handler is empty; the delegate
// accessor must still be followed.
type hybrid struct{ delegate any }

func (h *hybrid) InvocationHandler() Handler { return &handler{} }
func (h *hybrid) Unwrap() any                { return h.delegate }

type selfLoop struct{}

func (s *selfLoop) Unwrap() any { return s }

var sourceSteps = []Step{Delegate[source]()}

func TestAs_AlreadyTarget(t *testing.T) {
	l := &leaf{name: "master"}

	got, ok := As[*leaf](l)
	require.True(t, ok)
	assert.Same(t, l, got)
}

func TestAs_ReturnsOutermostMatch(t *testing.T) {
	l := &leaf{name: "master"}
	d := &decorator{next: l}

	got, ok := As[source](d, sourceSteps...)
	require.True(t, ok)
	assert.Same(t, d, got, "the first assignable layer wins without further unwrapping")
}

func TestAs_MixedLayers(t *testing.T) {
	l := &leaf{name: "slave_1"}

	cases := []struct {
		name   string
		handle any
	}{
		{"typed delegate", &decorator{next: l}},
		{"untyped delegate", &looseWrapper{next: l}},
		{"handler proxy", &interceptor{h: &handler{target: l}}},
		{"proxy over decorator", &interceptor{h: &handler{target: &decorator{next: l}}}},
		{"decorator over proxy", &decorator{next: &interceptor{h: &handler{target: &looseWrapper{next: l}}}}},
		{"empty handler falls through", &hybrid{delegate: &decorator{next: l}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := As[*leaf](tc.handle, sourceSteps...)
			require.True(t, ok)
			assert.Same(t, l, got)
		})
	}
}

func TestAs_DeepChain(t *testing.T) {
	l := &leaf{name: "deep"}
	var handle source = l
	for i := 0; i < MaxDepth; i++ {
		if i%2 == 0 {
			handle = &decorator{next: handle}
		} else {
			handle = &interceptor{h: &handler{target: handle}}
		}
	}

	got, ok := As[*leaf](handle, sourceSteps...)
	require.True(t, ok)
	assert.Same(t, l, got)
}

func TestAs_TooDeep(t *testing.T) {
	var handle any = &leaf{}
	for i := 0; i <= MaxDepth; i++ {
		handle = &looseWrapper{next: handle}
	}

	_, ok := As[*leaf](handle)
	assert.False(t, ok)
}

func TestAs_Absent(t *testing.T) {
	var typedNil *leaf

	cases := []struct {
		name   string
		handle any
	}{
		{"nil handle", nil},
		{"typed nil", typedNil},
		{"terminal non-match", &looseWrapper{next: 42}},
		{"typed delegate without step", &decorator{next: &leaf{}}},
		{"nil delegate", &looseWrapper{next: nil}},
		{"nil handler target", &interceptor{h: &handler{}}},
		{"nil handler", &interceptor{}},
		{"cycle", &selfLoop{}},
		{"plain value", "master"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := As[*leaf](tc.handle)
			assert.False(t, ok)
			assert.Nil(t, got)
		})
	}
}

func TestAs_ExtraStepFunc(t *testing.T) {
	l := &leaf{}
	box := "box"
	step := StepFunc(func(v any) (any, bool) {
		if v == box {
			return l, true
		}
		return nil, false
	})

	got, ok := As[*leaf](box, step)
	require.True(t, ok)
	assert.Same(t, l, got)
}

func TestChain(t *testing.T) {
	l := &leaf{}
	d := &decorator{next: l}
	p := &interceptor{h: &handler{target: d}}

	assert.Equal(t, []any{p, d, l}, Chain(p, sourceSteps...))
	assert.Equal(t, []any{p, d}, Chain(p))
	assert.Nil(t, Chain(nil))
}
