package core

import "testing"

type stubLayer struct {
	name    string
	handles bool
	seen    *[]string
}

func (l *stubLayer) OnAttach(*Engine)          {}
func (l *stubLayer) OnDetach(*Engine)          {}
func (l *stubLayer) OnUpdate(*Engine, float64) {}
func (l *stubLayer) OnRender(*Engine, float64) {}
func (l *stubLayer) OnEvent(_ *Engine, _ Event) bool {
	*l.seen = append(*l.seen, l.name)
	return l.handles
}

func TestLayerStackDispatch(t *testing.T) {
	cases := []struct {
		name    string
		handles []bool
		want    []string
		handled bool
	}{
		{"top_handles", []bool{false, true}, []string{"1"}, true},
		{"none_handle", []bool{false, false}, []string{"1", "0"}, false},
		{"bottom_handles", []bool{true, false}, []string{"1", "0"}, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var seen []string
			var ls LayerStack
			for i, h := range c.handles {
				ls.Push(&stubLayer{name: string(rune('0' + i)), handles: h, seen: &seen})
			}
			if got := ls.Dispatch(nil, EventResize{}); got != c.handled {
				t.Fatalf("Dispatch = %v, want %v", got, c.handled)
			}
			if len(seen) != len(c.want) {
				t.Fatalf("visited %v, want %v", seen, c.want)
			}
			for i := range seen {
				if seen[i] != c.want[i] {
					t.Fatalf("visited %v, want %v", seen, c.want)
				}
			}
		})
	}
}

func TestLayerStackPop(t *testing.T) {
	var ls LayerStack
	if _, ok := ls.Pop(); ok {
		t.Fatalf("Pop on empty stack succeeded")
	}
	ls.Push(&stubLayer{name: "a"})
	ls.Push(&stubLayer{name: "b"})
	l, ok := ls.Pop()
	if !ok || l.(*stubLayer).name != "b" || ls.Len() != 1 {
		t.Fatalf("Pop returned %v, %v; len %d", l, ok, ls.Len())
	}
}

func TestKeyDigit(t *testing.T) {
	if Key1.Digit() != 0 || Key9.Digit() != 8 || KeySpace.Digit() != -1 {
		t.Fatalf("unexpected digit mapping")
	}
}
