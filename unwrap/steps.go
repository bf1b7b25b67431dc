package unwrap

// Handler is the invocation handler of an interceptor proxy.
type Handler interface {
	Target() any
}

// HandlerProxy is implemented by proxies that route every call through a
// Handler and do not hold their target themselves.
type HandlerProxy interface {
	InvocationHandler() Handler
}

// HandlerStep follows HandlerProxy to the handler's target.
type HandlerStep struct{}

// TryUnwrap returns the target of v's invocation handler.
func (HandlerStep) TryUnwrap(v any) (any, bool) {
	p, ok := v.(HandlerProxy)
	if !ok {
		return nil, false
	}
	h := p.InvocationHandler()
	if isNil(h) {
		return nil, false
	}
	return h.Target(), true
}

// AnyDelegateStep follows untyped delegate accessors: Unwrap() any.
type AnyDelegateStep struct{}

// TryUnwrap returns the result of v's Unwrap method, whatever its type.
func (AnyDelegateStep) TryUnwrap(v any) (any, bool) {
	w, ok := v.(interface{ Unwrap() any })
	if !ok {
		return nil, false
	}
	return w.Unwrap(), true
}

// Delegate returns a Step following typed delegate accessors: Unwrap() D.
// Decorators usually return the interface they decorate, so the accessor
// signature depends on the wrapped API and has to be spelled out by the
// caller.
func Delegate[D any]() Step {
	return delegateStep[D]{}
}

type delegateStep[D any] struct{}

func (delegateStep[D]) TryUnwrap(v any) (any, bool) {
	w, ok := v.(interface{ Unwrap() D })
	if !ok {
		return nil, false
	}
	return w.Unwrap(), true
}
