package ptr

import "testing"

func TestTo(t *testing.T) {
	t.Run("string", func(t *testing.T) {
		s := "test"
		p := To(s)
		if p == nil {
			t.Fatal("Expected non-nil pointer")
		}
		if *p != s {
			t.Errorf("Expected %q, got %q", s, *p)
		}
		if p == &s {
			t.Error("Expected different address")
		}
	})

	t.Run("custom type", func(t *testing.T) {
		type recordID string
		id := recordID("daft-punk")
		p := To(id)
		if p == nil {
			t.Fatal("Expected non-nil pointer")
		}
		if *p != id {
			t.Errorf("Expected %q, got %q", id, *p)
		}
	})
}

func TestString(t *testing.T) {
	s := "4tZwfgrHOc3mvqYlEYSvVi"
	p := String(s)
	if p == nil {
		t.Fatal("Expected non-nil pointer")
	}
	if *p != s {
		t.Errorf("Expected %q, got %q", s, *p)
	}
}

func TestDeref(t *testing.T) {
	s := "value"
	if got := Deref(&s); got != "value" {
		t.Errorf("Expected %q, got %q", "value", got)
	}
	if got := Deref[string](nil); got != "" {
		t.Errorf("Expected empty string, got %q", got)
	}
}
