package lang

import (
	"bytes"
	"context"
	"fmt"
	"reflect"
)

// Builtin is a combiner implemented by a Go function.
//
// Arguments are decoded into the function's parameter types. A leading
// context.Context parameter receives the evaluation context, and a function
// returning ReadyCont receives the continuation as its next parameter.
// Operatives additionally receive the caller's scope and their arguments
// unevaluated.
type Builtin struct {
	Name      string
	Formals   Value
	Operative bool

	fn  reflect.Value
	sig signature
}

var _ Combiner = (*Builtin)(nil)

// signature is the shape of a builtin's Go function, worked out once when
// the builtin is constructed.
type signature struct {
	takesCtx  bool
	takesCont bool

	// params are the types the form's arguments decode into; for a variadic
	// function the last one is the element type.
	params   []reflect.Type
	variadic bool

	// value and failable say which results carry the value and the error.
	value    bool
	failable bool
}

var (
	errType  = reflect.TypeOf((*error)(nil)).Elem()
	ctxType  = reflect.TypeOf((*context.Context)(nil)).Elem()
	contType = reflect.TypeOf((*ReadyCont)(nil)).Elem()
)

func inspect(name string, ftype reflect.Type, operative bool) signature {
	var sig signature

	in := 0
	if ftype.NumIn() > 0 && ftype.In(0) == ctxType {
		sig.takesCtx = true
		in++
	}

	switch ftype.NumOut() {
	case 0:
	case 1:
		sig.failable = ftype.Out(0) == errType
		sig.value = !sig.failable
		sig.takesCont = ftype.Out(0) == contType
	case 2:
		if ftype.Out(1) != errType {
			panic(fmt.Sprintf("builtin %s: second result must be an error", name))
		}

		sig.value = true
		sig.failable = true
	default:
		panic(fmt.Sprintf("builtin %s: too many results", name))
	}

	if sig.takesCont {
		in++
	}

	if operative {
		in++
	}

	for i := in; i < ftype.NumIn(); i++ {
		sig.params = append(sig.params, ftype.In(i))
	}

	if ftype.IsVariadic() {
		sig.variadic = true
		last := len(sig.params) - 1
		sig.params[last] = sig.params[last].Elem()
	}

	return sig
}

func (value *Builtin) Equal(other Value) bool {
	var o *Builtin
	return other.Decode(&o) == nil && value == o
}

func (value *Builtin) String() string {
	return fmt.Sprintf("<builtin %s>", Pair{
		A: Symbol(value.Name),
		D: value.Formals,
	})
}

func (value *Builtin) Decode(dest any) error {
	switch x := dest.(type) {
	case **Builtin:
		*x = value
	case *Combiner:
		*x = value
	case *Value:
		*x = value
	default:
		return DecodeError{
			Source:      value,
			Destination: dest,
		}
	}

	return nil
}

func (value *Builtin) Eval(_ context.Context, _ *Scope, cont Cont) ReadyCont {
	return cont.Call(value, nil)
}

// Op constructs an operative builtin; its arguments are not evaluated.
func Op(name, formals string, f any) *Builtin {
	return newBuiltin(name, formals, f, true)
}

// Func constructs an applicative builtin.
func Func(name, formals string, f any) Combiner {
	return Wrap(newBuiltin(name, formals, f, false))
}

func newBuiltin(name, formals string, f any, operative bool) *Builtin {
	fn := reflect.ValueOf(f)
	if fn.Kind() != reflect.Func {
		panic(fmt.Sprintf("builtin %s: %T is not a func", name, f))
	}

	form, err := NewReader(bytes.NewBufferString(formals), name).Next()
	if err != nil {
		panic(err)
	}

	return &Builtin{
		Name:      name,
		Formals:   form,
		Operative: operative,

		fn:  fn,
		sig: inspect(name, fn.Type(), operative),
	}
}

func (value *Builtin) Call(ctx context.Context, val Value, scope *Scope, cont Cont) ReadyCont {
	in, err := value.bind(ctx, val, scope, cont)
	if err != nil {
		return cont.Call(nil, err)
	}

	out := value.fn.Call(in)

	if value.sig.failable {
		if errv := out[len(out)-1]; !errv.IsNil() {
			return cont.Call(nil, errv.Interface().(error))
		}
	}

	if !value.sig.value {
		return cont.Call(Null{}, nil)
	}

	res, err := ValueOf(out[0].Interface())
	if err != nil {
		return cont.Call(nil, err)
	}

	// a builtin taking the continuation has already decided what comes next
	var rdy ReadyCont
	if err := res.Decode(&rdy); err == nil {
		return rdy
	}

	return cont.Call(res, nil)
}

// bind builds the Go arguments for a call with the given argument list.
func (value *Builtin) bind(ctx context.Context, val Value, scope *Scope, cont Cont) ([]reflect.Value, error) {
	var list List
	if err := val.Decode(&list); err != nil {
		return nil, ErrBadSyntax
	}

	args, err := ToSlice(list)
	if err != nil {
		return nil, err
	}

	sig := value.sig

	fixed := len(sig.params)
	if sig.variadic {
		fixed--
	}

	if len(args) < fixed || (!sig.variadic && len(args) > fixed) {
		return nil, ArityError{
			Name:     value.Name,
			Need:     fixed,
			Have:     len(args),
			Variadic: sig.variadic,
		}
	}

	in := make([]reflect.Value, 0, len(args)+3)
	if sig.takesCtx {
		in = append(in, reflect.ValueOf(ctx))
	}

	if sig.takesCont {
		in = append(in, reflect.ValueOf(cont))
	}

	if value.Operative {
		in = append(in, reflect.ValueOf(scope))
	}

	for i, arg := range args {
		t := sig.params[len(sig.params)-1]
		if i < fixed {
			t = sig.params[i]
		}

		dest := reflect.New(t)
		if err := arg.Decode(dest.Interface()); err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", value.Name, i+1, err)
		}

		in = append(in, dest.Elem())
	}

	return in, nil
}
