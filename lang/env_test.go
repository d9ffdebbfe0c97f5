package lang

import (
	"errors"
	"slices"
	"testing"
)

func TestScope_InsertShadow(t *testing.T) {
	global := NewScope()

	if err := global.Insert("x", Number(1)); err != nil {
		t.Fatal(err)
	}

	if err := global.Insert("x", Number(2)); !errors.Is(err, ErrAlreadyDefined) {
		t.Errorf("duplicate insert error = %v, want %v", err, ErrAlreadyDefined)
	}

	local := global.Child(nil)
	if err := local.Insert("x", Number(3)); err != nil {
		t.Fatalf("shadowing insert: %v", err)
	}

	if v, _ := local.Get("x"); !v.Equal(Number(3)) {
		t.Errorf("local x = %v, want 3", v)
	}

	if v, _ := global.Get("x"); !v.Equal(Number(1)) {
		t.Errorf("global x = %v, want 1", v)
	}

	if local.Depth() != 1 || !global.IsGlobal() || local.Parent() != global {
		t.Error("frame chain not linked")
	}
}

func TestScope_UpdateDelegates(t *testing.T) {
	global := NewScope()
	_ = global.Insert("count", Number(1))

	local := global.Child(map[string]Value{"arg": String("a")}).Child(nil)

	prev, err := local.Update("count", Number(2))
	if err != nil {
		t.Fatal(err)
	}

	if !prev.Equal(Number(1)) {
		t.Errorf("previous = %v, want 1", prev)
	}

	if v, _ := global.Get("count"); !v.Equal(Number(2)) {
		t.Errorf("global count = %v, want 2", v)
	}

	if slices.Contains(local.Locals(), "count") {
		t.Error("update created a local shadow")
	}

	if !slices.Equal(local.Names(), []string{"arg", "count"}) {
		t.Errorf("names = %v", local.Names())
	}

	if _, err := local.Update("missing", Nil()); !errors.Is(err, ErrUndefinedBinding) {
		t.Errorf("update missing error = %v", err)
	}

	err = local.Modify("count", func(v Value) (Value, error) {
		n, _ := v.Number()

		return Number(n * 10), nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if v, _ := global.Get("count"); !v.Equal(Number(20)) {
		t.Errorf("modified count = %v, want 20", v)
	}
}

func TestScope_DeleteCascades(t *testing.T) {
	global := NewScope()
	x := global.Extras()

	fn := x.DefineFunction(&FunctionDef{Params: []string{"a"}, Body: &Word{Name: "a"}})
	obj, err := x.NewMap("tagged")
	if err != nil {
		t.Fatal(err)
	}

	_ = global.Insert("f", fn)
	_ = global.Insert("m", obj)

	local := global.Child(nil)
	if local.Extras() != x {
		t.Fatal("child does not share extras")
	}

	if v, err := local.Delete("f"); err != nil || v != fn {
		t.Fatalf("Delete(f) = (%v, %v)", v, err)
	}

	if _, ok := x.Function(fn); ok {
		t.Error("function survived deletion of its binding")
	}

	if _, err := local.Delete("m"); err != nil {
		t.Fatal(err)
	}

	if x.HasMap(obj) || x.HasMap(String("tagged")) {
		t.Error("map or its tag survived deletion of its binding")
	}

	if global.Exists("f") || global.Exists("m") {
		t.Error("binding survived delete")
	}

	next := x.DefineFunction(&FunctionDef{Body: &Literal{}})
	if next == fn || next == Function(1) {
		t.Errorf("index reused: %v", next)
	}

	if functions, maps := x.Len(); functions != 1 || maps != 0 {
		t.Errorf("Len() = (%d, %d), want (1, 0)", functions, maps)
	}

	if _, err := global.Delete("f"); !errors.Is(err, ErrUndefinedBinding) {
		t.Errorf("second delete error = %v", err)
	}
}

func TestExtras_Maps(t *testing.T) {
	x := NewExtras()

	anon, err := x.NewMap("")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := x.NewMap(""); err != nil {
		t.Errorf("second untagged map: %v", err)
	}

	if _, err := x.NewMap("t"); err != nil {
		t.Fatal(err)
	}

	if _, err := x.NewMap("t"); !errors.Is(err, ErrInvalidObjectReference) {
		t.Errorf("duplicate tag error = %v", err)
	}

	m, err := x.Map(anon)
	if err != nil {
		t.Fatal(err)
	}

	for _, kv := range [][2]Value{
		{String("b"), Number(2)},
		{Number(1), Boolean(true)},
		{Nil(), String("n")},
	} {
		if _, err := m.Insert(kv[0], kv[1]); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := m.Insert(anon, Nil()); !errors.Is(err, ErrInvalidObjectKey) {
		t.Errorf("object key error = %v", err)
	}

	if got, want := m.String(), `{Nil: "n", 1: True, "b": 2}`; got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}

	if got := x.Render(anon); got != m.String() {
		t.Errorf("Render(map) = %s", got)
	}

	if err := x.DeleteMap(String("t")); err != nil {
		t.Fatal(err)
	}

	if _, err := x.Map(String("t")); !errors.Is(err, ErrInvalidObjectReference) {
		t.Errorf("deleted tag error = %v", err)
	}

	if _, err := x.Map(Number(0)); !errors.Is(err, ErrInvalidObjectReference) {
		t.Errorf("number reference error = %v", err)
	}
}
