package value

import "testing"

func TestTypeSignature(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Int{Val: 1}, "Int"},
		{String{Val: "s"}, "String"},
		{Bool{Val: true}, "Bool"},
		{&Instance{TypeName: "Age", Payload: Int{Val: 30}}, "Age"},
		{TypeRef{TypeName: "Age"}, "Type"},
		{List{}, "List"},
	}
	for _, tt := range tests {
		if got := TypeSignature(tt.v); got != tt.want {
			t.Errorf("TypeSignature(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestPayloadEqualStringCaseInsensitive(t *testing.T) {
	if !PayloadEqual(String{Val: "Hello"}, String{Val: "hello"}) {
		t.Fatal("expected case-insensitive string payload equality")
	}
	if PayloadEqual(String{Val: "Hello"}, String{Val: "goodbye"}) {
		t.Fatal("expected distinct strings to be unequal")
	}
}

func TestPayloadEqualInstanceRecurses(t *testing.T) {
	a := &Instance{TypeName: "Name", Payload: String{Val: "Ada"}}
	b := &Instance{TypeName: "Name", Payload: String{Val: "ADA"}}
	c := &Instance{TypeName: "Other", Payload: String{Val: "Ada"}}
	if !PayloadEqual(a, b) {
		t.Fatal("expected same-type instances with case-insensitive-equal payloads to be equal")
	}
	if PayloadEqual(a, c) {
		t.Fatal("expected instances of different types to be unequal")
	}
}

func TestIntStringFormatting(t *testing.T) {
	if got := (Int{Val: -42}).String(); got != "-42" {
		t.Fatalf("expected -42, got %q", got)
	}
}

func TestInstanceStringRendersConstructorForm(t *testing.T) {
	inst := &Instance{TypeName: "Age", Payload: Int{Val: 30}}
	if got := inst.String(); got != "Age(30)" {
		t.Fatalf("expected Age(30), got %q", got)
	}
}
