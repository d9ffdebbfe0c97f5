package lang

import (
	"math"
	"slices"
	"testing"
)

func TestValue_String(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Nil(), "Nil"},
		{Boolean(true), "True"},
		{Boolean(false), "False"},
		{Number(2), "2"},
		{Number(-0.25), "-0.25"},
		{Number(1e21), "1e+21"},
		{Number(math.Inf(1)), "inf"},
		{String("hi"), "hi"},
		{Function(3), "Function<3>"},
		{Object(4), "Object<4>"},
	}

	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}

	if got := String("hi").GoString(); got != `"hi"` {
		t.Errorf("GoString() = %s, want quoted", got)
	}
}

func TestValue_Order(t *testing.T) {
	ordered := []Value{
		Nil(),
		Boolean(false),
		Boolean(true),
		Number(math.NaN()),
		Number(-1),
		Number(2),
		String(""),
		String("a"),
		String("b"),
		Function(0),
		Function(7),
		Object(0),
	}

	shuffled := []Value{
		ordered[8], ordered[3], ordered[11], ordered[0], ordered[5], ordered[1],
		ordered[9], ordered[6], ordered[2], ordered[10], ordered[4], ordered[7],
	}

	slices.SortFunc(shuffled, Value.Compare)

	for i := range ordered {
		if shuffled[i].Compare(ordered[i]) != 0 {
			t.Errorf("position %d = %#v, want %#v", i, shuffled[i], ordered[i])
		}
	}

	if !Number(math.NaN()).Equal(Number(math.NaN())) {
		t.Error("NaN not equal to itself")
	}

	if Number(1).Equal(Boolean(true)) {
		t.Error("Number equal to Boolean")
	}

	if Number(1) != Number(1) || String("k") != String("k") {
		t.Error("values not comparable with ==")
	}
}

func TestValue_Truthy(t *testing.T) {
	tests := []struct {
		v      Value
		truth  bool
		usable bool
	}{
		{Number(0), false, true},
		{Number(-3), true, true},
		{Boolean(true), true, true},
		{Boolean(false), false, true},
		{String("x"), false, false},
		{Nil(), false, false},
	}

	for _, tt := range tests {
		truth, ok := tt.v.Truthy()
		if truth != tt.truth || ok != tt.usable {
			t.Errorf("%#v.Truthy() = (%v, %v), want (%v, %v)", tt.v, truth, ok, tt.truth, tt.usable)
		}
	}
}

func TestValue_TypeTag(t *testing.T) {
	tests := map[string]Value{
		TagNumber:   Number(1),
		TagString:   String(""),
		TagNil:      Nil(),
		TagBoolean:  Boolean(false),
		TagFunction: Function(0),
		TagObject:   Object(0),
	}

	for tag, v := range tests {
		if v.TypeTag() != tag {
			t.Errorf("%#v.TypeTag() = %s, want %s", v, v.TypeTag(), tag)
		}
	}

	for _, v := range []Value{Function(1), Object(1)} {
		if v.IsPrimitive() {
			t.Errorf("%#v reported primitive", v)
		}
	}
}
