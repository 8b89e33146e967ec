package rpn

// Memory is the single MEM cell.
type Memory struct {
	Value float64
	Valid bool // Set once MEM has been written.
}

// Store writes the cell.
func (mem *Memory) Store(value float64) {
	mem.Value = value
	mem.Valid = true
}

// Load reads the cell, if it was ever written.
func (mem *Memory) Load() (value float64, ok bool) {
	return mem.Value, mem.Valid
}

// History is the append-only list of line results, oldest first.
type History struct {
	Results []float64
}

func (h *History) Len() int {
	return len(h.Results)
}

func (h *History) Append(result float64) {
	h.Results = append(h.Results, result)
}

// Recent returns the n-th most recent result, counting from 1.
func (h *History) Recent(n int) (result float64, ok bool) {
	if n < 1 || n > len(h.Results) {
		return
	}
	return h.Results[len(h.Results)-n], true
}

// Context is the state that outlives a single line.
type Context struct {
	Memory  Memory
	History History
}

// NewContext returns an empty context.
func NewContext() *Context {
	return &Context{}
}

// Commit appends a line result to the history.
func (ctx *Context) Commit(result float64) {
	ctx.History.Append(result)
}
