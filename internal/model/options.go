package model

// Decorator enriches resolved descriptors after defaulting, e.g. to localise
// labels. Decorators run in registration order.
type Decorator interface {
	Decorate(Descriptors) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func(Descriptors) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(ds Descriptors) error {
	return fn(ds)
}

// Options configures the behaviour of the Assembler. Options are constructed
// by the public adapter in pkg/model and passed into NewAssembler.
type Options struct {
	Labeler    func(string) string
	Decorators []Decorator
}

func defaultOptions() Options {
	return Options{
		Labeler: DefaultLabeler,
	}
}
