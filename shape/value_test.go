package shape

import (
	"errors"
	"reflect"
	"testing"
)

func mustParse(t *testing.T, src string) Value {
	t.Helper()
	v, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", src, err)
	}
	return v
}

func TestParse_Scalars(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want Value
	}{
		{"null", `null`, Null()},
		{"true", `true`, Bool(true)},
		{"false", `false`, Bool(false)},
		{"integer", `42`, Number("42")},
		{"float keeps text form", `100.50`, Number("100.50")},
		{"string", `"hello"`, String("hello")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustParse(t, tt.src)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.src, got, tt.want)
			}
		})
	}
}

func TestParse_ObjectPreservesMemberOrder(t *testing.T) {
	v := mustParse(t, `{"z": 1, "a": 2, "m": {"b": 3, "a": 4}}`)

	if v.Kind != KindObject {
		t.Fatalf("Kind = %v, want object", v.Kind)
	}

	var keys []string
	for _, m := range v.Obj {
		keys = append(keys, m.Key)
	}
	want := []string{"z", "a", "m"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("member order = %v, want %v", keys, want)
	}

	nested, ok := v.Get("m")
	if !ok || nested.Kind != KindObject {
		t.Fatalf("Get(m) = %+v, %v, want nested object", nested, ok)
	}
	if nested.Obj[0].Key != "b" || nested.Obj[1].Key != "a" {
		t.Errorf("nested order = %v, %v, want b, a", nested.Obj[0].Key, nested.Obj[1].Key)
	}
}

func TestParse_Array(t *testing.T) {
	v := mustParse(t, `[1, "two", null]`)
	if v.Kind != KindArray {
		t.Fatalf("Kind = %v, want array", v.Kind)
	}
	if len(v.Arr) != 3 {
		t.Fatalf("len = %d, want 3", len(v.Arr))
	}
	if v.Arr[1].Str != "two" {
		t.Errorf("Arr[1].Str = %q, want %q", v.Arr[1].Str, "two")
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty input", ``},
		{"garbage", `{not json}`},
		{"truncated object", `{"a": 1`},
		{"trailing data", `{"a": 1} extra`},
		{"two documents", `{} {}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			if err == nil {
				t.Fatalf("Parse(%q) = nil error, want *ParseError", tt.src)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Errorf("Parse(%q) error = %T, want *ParseError", tt.src, err)
			}
		})
	}
}

func TestMarshalJSON_RoundTrip(t *testing.T) {
	tests := []string{
		`null`,
		`true`,
		`100.50`,
		`"text"`,
		`[]`,
		`{}`,
		`{"z":1,"a":"two","nested":{"y":[1,2,3],"x":null}}`,
		`[{"b":1},{"a":2}]`,
	}

	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			v := mustParse(t, src)
			out, err := v.MarshalJSON()
			if err != nil {
				t.Fatalf("MarshalJSON() error: %v", err)
			}
			if string(out) != src {
				t.Errorf("round trip = %s, want %s", out, src)
			}
		})
	}
}

func TestValue_Get(t *testing.T) {
	v := mustParse(t, `{"a": 1, "b": 2}`)

	if got, ok := v.Get("b"); !ok || got.Num != "2" {
		t.Errorf("Get(b) = %+v, %v, want number 2, true", got, ok)
	}
	if _, ok := v.Get("missing"); ok {
		t.Error("Get(missing) = true, want false")
	}
	if _, ok := Number("1").Get("a"); ok {
		t.Error("Get on non-object = true, want false")
	}
}
