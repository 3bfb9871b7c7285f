package vm

// Stack is the machine's only addressable storage: a LIFO container of
// signed 32-bit integers. Depth is bounded only by available memory.
type Stack struct {
	Data []int32
}

func (s *Stack) Push(value int32) {
	s.Data = append(s.Data, value)
}

func (s *Stack) Pop() (value int32, err error) {
	value, err = s.Peek()
	if err == nil {
		s.Data = s.Data[:len(s.Data)-1]
	}
	return
}

func (s *Stack) Peek() (value int32, err error) {
	if s.Empty() {
		err = ErrStackUnderflow
		return
	}

	return s.Data[len(s.Data)-1], nil
}

func (s *Stack) Empty() bool {
	return len(s.Data) == 0
}

func (s *Stack) Size() int {
	return len(s.Data)
}

func (s *Stack) Reset() {
	if len(s.Data) > 0 {
		s.Data = s.Data[:0]
	}
}
