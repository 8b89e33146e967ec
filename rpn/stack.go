package rpn

// Stack is the unbounded host evaluation stack. The target depth is
// enforced by the generated code, not here.
type Stack struct {
	Data []Cell
}

func (s *Stack) Push(cell Cell) {
	s.Data = append(s.Data, cell)
}

func (s *Stack) Pop() (cell Cell, ok bool) {
	cell, ok = s.Peek()
	if ok {
		s.Data = s.Data[:len(s.Data)-1]
	}
	return
}

func (s *Stack) Peek() (cell Cell, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[len(s.Data)-1], true
}

func (s *Stack) Len() int {
	return len(s.Data)
}

func (s *Stack) Empty() bool {
	return len(s.Data) == 0
}
