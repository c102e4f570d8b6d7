package source

import (
	"testing"
)

func TestSpan_Cover(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Span
		expected Span
	}{
		{
			name:     "disjoint spans",
			a:        Span{File: 1, Start: 0, End: 5},
			b:        Span{File: 1, Start: 10, End: 20},
			expected: Span{File: 1, Start: 0, End: 20},
		},
		{
			name:     "overlapping spans",
			a:        Span{File: 1, Start: 3, End: 12},
			b:        Span{File: 1, Start: 8, End: 15},
			expected: Span{File: 1, Start: 3, End: 15},
		},
		{
			name:     "contained span is a no-op",
			a:        Span{File: 1, Start: 0, End: 20},
			b:        Span{File: 1, Start: 5, End: 10},
			expected: Span{File: 1, Start: 0, End: 20},
		},
		{
			name:     "identical spans",
			a:        Span{File: 1, Start: 4, End: 9},
			b:        Span{File: 1, Start: 4, End: 9},
			expected: Span{File: 1, Start: 4, End: 9},
		},
		{
			name:     "zero-length marker folds in",
			a:        Span{File: 1, Start: 7, End: 7},
			b:        Span{File: 1, Start: 2, End: 4},
			expected: Span{File: 1, Start: 2, End: 7},
		},
		{
			name:     "different files keep the receiver",
			a:        Span{File: 1, Start: 5, End: 10},
			b:        Span{File: 2, Start: 0, End: 100},
			expected: Span{File: 1, Start: 5, End: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Cover(tt.b)
			if got != tt.expected {
				t.Errorf("Cover(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestSpan_Cover_Idempotent(t *testing.T) {
	// Повторное покрытие уже покрытым спаном ничего не меняет.
	outer := Span{File: 1, Start: 8, End: 13}
	inner := Span{File: 1, Start: 9, End: 12}

	once := outer.Cover(inner)
	twice := once.Cover(inner)
	if once != outer {
		t.Errorf("covering a contained span changed the outer: %v", once)
	}
	if twice != once {
		t.Errorf("second cover changed the result: %v != %v", twice, once)
	}
}

func TestSpan_Contains(t *testing.T) {
	outer := Span{File: 1, Start: 5, End: 15}

	tests := []struct {
		name     string
		inner    Span
		expected bool
	}{
		{"fully inside", Span{File: 1, Start: 6, End: 10}, true},
		{"equal", Span{File: 1, Start: 5, End: 15}, true},
		{"start before", Span{File: 1, Start: 4, End: 10}, false},
		{"end after", Span{File: 1, Start: 10, End: 16}, false},
		{"other file", Span{File: 2, Start: 6, End: 10}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outer.Contains(tt.inner); got != tt.expected {
				t.Errorf("Contains(%v) = %v, want %v", tt.inner, got, tt.expected)
			}
		})
	}
}

func TestSpan_Text(t *testing.T) {
	content := []byte("\\bar x")
	sp := Span{Start: 0, End: 4}
	if got := sp.Text(content); got != "\\bar" {
		t.Errorf("Text = %q, want %q", got, "\\bar")
	}
}

func TestLoc_Cover(t *testing.T) {
	a := At(Span{File: 1, Start: 0, End: 4})
	b := At(Span{File: 1, Start: 5, End: 6})

	got := a.Cover(b)
	if !got.OK {
		t.Fatal("merge of two present locations must be present")
	}
	if got.Span != (Span{File: 1, Start: 0, End: 6}) {
		t.Errorf("merged span = %v", got.Span)
	}

	// Слияние с отсутствующей локацией не определено.
	if merged := a.Cover(NoLoc); merged.OK {
		t.Errorf("merge with absent location must be absent, got %v", merged)
	}
	if merged := NoLoc.Cover(b); merged.OK {
		t.Errorf("merge with absent location must be absent, got %v", merged)
	}
}

func TestLoc_Or(t *testing.T) {
	a := At(Span{File: 1, Start: 0, End: 4})
	if got := NoLoc.Or(a); got != a {
		t.Errorf("NoLoc.Or(a) = %v, want %v", got, a)
	}
	if got := a.Or(NoLoc); got != a {
		t.Errorf("a.Or(NoLoc) = %v, want %v", got, a)
	}
}
