package observer

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSameValue(t *testing.T) {
	obj := NewObject()
	m := map[string]int{}
	sl := []int{1, 2}
	type pair struct{ a, b int }

	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"equal ints", 1, 1, true},
		{"different ints", 1, 2, false},
		{"int vs float", 1, 1.0, false},
		{"NaN", math.NaN(), math.NaN(), true},
		{"float32 NaN", float32(math.NaN()), float32(math.NaN()), true},
		{"NaN vs number", math.NaN(), 1.0, false},
		{"nil nil", nil, nil, true},
		{"nil vs value", nil, 0, false},
		{"same object", obj, obj, true},
		{"different objects", obj, NewObject(), false},
		{"same map", m, m, true},
		{"different maps", m, map[string]int{}, false},
		{"same slice", sl, sl, true},
		{"resliced", sl, sl[:1], false},
		{"structs", pair{1, 2}, pair{1, 2}, true},
		{"strings", "a", "a", true},
		{"struct with slice inside interface", struct{ v any }{[]int{1}}, struct{ v any }{[]int{1}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameValue(tt.a, tt.b); got != tt.want {
				t.Errorf("SameValue(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestValidArrayIndex(t *testing.T) {
	tests := []struct {
		key    any
		want   int
		wantOK bool
	}{
		{0, 0, true},
		{3, 3, true},
		{-1, 0, false},
		{int64(7), 7, true},
		{uint8(2), 2, true},
		{2.0, 2, true},
		{2.5, 0, false},
		{math.Inf(1), 0, false},
		{"4", 4, true},
		{"4.0", 4, true},
		{"-4", 0, false},
		{"four", 0, false},
		{nil, 0, false},
		{true, 0, false},
		{maxArrayIndex, maxArrayIndex, true},
		{maxArrayIndex + 1, 0, false},
		{math.MaxInt, 0, false},
		{int64(math.MaxInt64), 0, false},
		{uint64(math.MaxUint64), 0, false},
		{float64(1 << 31), 0, false},
		{"9223372036854775807", 0, false},
	}

	for _, tt := range tests {
		got, ok := validArrayIndex(tt.key)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Errorf("validArrayIndex(%v) = (%d, %v), want (%d, %v)", tt.key, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestIsContainer(t *testing.T) {
	if !IsContainer(NewObject()) || !IsContainer(NewArray()) {
		t.Error("objects and arrays are containers")
	}
	if IsContainer((*Object)(nil)) || IsContainer(map[string]any{}) || IsContainer(nil) {
		t.Error("nil pointers and plain maps are not containers")
	}
}

func TestFromValueToValueRoundTrip(t *testing.T) {
	in := map[string]any{
		"name": "ada",
		"tags": []any{"x", map[string]any{"deep": true}},
		"nested": map[string]any{
			"n": 1,
		},
	}

	v := FromValue(in)
	obj, ok := v.(*Object)
	if !ok {
		t.Fatalf("FromValue returned %T, want *Object", v)
	}
	if diff := cmp.Diff([]string{"name", "nested", "tags"}, obj.Keys()); diff != "" {
		t.Errorf("keys should be sorted (-want +got):\n%s", diff)
	}
	if _, ok := obj.Get("tags").(*Array); !ok {
		t.Errorf("tags = %T, want *Array", obj.Get("tags"))
	}

	Observe(obj)
	if diff := cmp.Diff(in, ToValue(obj)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestToValueTracksReads(t *testing.T) {
	obj := FromValue(map[string]any{"a": map[string]any{"b": 1}}).(*Object)
	Observe(obj)

	s := newTestSubscriber()
	track(s, func() { ToValue(obj) })

	obj.Get("a").(*Object).Set("b", 2)
	if s.dirty != 1 {
		t.Errorf("dirty = %d, ToValue should depend on nested keys", s.dirty)
	}
}
