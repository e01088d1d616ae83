package jregex

import (
	"testing"

	"slices"
)

func TestBasicSplit(t *testing.T) {
	re := MustCompile("a(.)c(.)e", 0)
	vals, err := re.Split("123abcde456aBCDe789", -1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	// captured groups are not part of the result
	if want, got := []string{"123", "456aBCDe789"}, vals; !slices.Equal(want, got) {
		t.Errorf("wanted %v got %v", want, got)
	}
}

func TestBasicSplit_IgnoreCase(t *testing.T) {
	re := MustCompile("a(.)c(.)e", IgnoreCase)
	vals, err := re.Split("123abcde456aBCDe789", -1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if want, got := []string{"123", "456", "789"}, vals; !slices.Equal(want, got) {
		t.Errorf("wanted %v got %v", want, got)
	}
}

func TestSplit_ZeroWidth(t *testing.T) {
	re := MustCompile(`(?<=\G..)(?=..)`, 0)
	vals, err := re.Split("aabbccdd", -1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if want, got := []string{"aa", "bb", "cc", "dd"}, vals; !slices.Equal(want, got) {
		t.Errorf("wanted %v got %v", want, got)
	}
}

func TestSplit_EmptyPattern(t *testing.T) {
	vals, err := MustCompile(``, 0).Split("abc", 0)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	// no leading empty string for the match at 0
	if want, got := []string{"a", "b", "c"}, vals; !slices.Equal(want, got) {
		t.Errorf("wanted %v got %v", want, got)
	}
}

func TestSplit_NoMatch(t *testing.T) {
	vals, err := MustCompile(`,`, 0).Split("abc", 0)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if want, got := []string{"abc"}, vals; !slices.Equal(want, got) {
		t.Errorf("wanted %v got %v", want, got)
	}
}

func TestSplit_Limits(t *testing.T) {
	tests := []struct {
		pattern string
		limit   int
		want    []string
	}{
		{":", 2, []string{"boo", "and:foo"}},
		{":", 5, []string{"boo", "and", "foo"}},
		{":", -2, []string{"boo", "and", "foo"}},
		{"o", 5, []string{"b", "", ":and:f", "", ""}},
		{"o", -2, []string{"b", "", ":and:f", "", ""}},
		{"o", 0, []string{"b", "", ":and:f"}},
	}
	for _, tt := range tests {
		vals, err := MustCompile(tt.pattern, 0).Split("boo:and:foo", tt.limit)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !slices.Equal(tt.want, vals) {
			t.Errorf("%q limit %v: wanted %q got %q", tt.pattern, tt.limit, tt.want, vals)
		}
	}
}

func TestSplit_LimitCountRemainder(t *testing.T) {
	re := MustCompile("a(.)c(.)e", IgnoreCase)
	vals, err := re.Split("123abcde456aBCDe789abcde", 2)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if want, got := []string{"123", "456aBCDe789abcde"}, vals; !slices.Equal(want, got) {
		t.Errorf("wanted %v got %v", want, got)
	}
}

func TestSplit_LimitCount1(t *testing.T) {
	re := MustCompile("a(.)c(.)e", IgnoreCase)
	vals, err := re.Split("123abcde456aBCDe789abcde", 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if want, got := []string{"123abcde456aBCDe789abcde"}, vals; !slices.Equal(want, got) {
		t.Errorf("wanted %v got %v", want, got)
	}
}

func TestSplit_LimitCount0(t *testing.T) {
	re := MustCompile("a(.)c(.)e", IgnoreCase)
	vals, err := re.Split("123abcde456aBCDe789abcde", 0)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	// the trailing empty piece is dropped
	if want, got := []string{"123", "456", "789"}, vals; !slices.Equal(want, got) {
		t.Errorf("wanted %v got %v", want, got)
	}
}

func TestSplit_RoundTrip(t *testing.T) {
	in := "a, b,c ,,d"
	re := MustCompile(`\s*,\s*`, 0)
	vals, err := re.Split(in, -1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if want, got := []string{"a", "b", "c", "", "d"}, vals; !slices.Equal(want, got) {
		t.Errorf("wanted %v got %v", want, got)
	}
}
