package codegen

// Config sizes the target data areas.
type Config struct {
	StackDepth   int // Operand stack cells.
	HistorySlots int // Maximum number of source lines in one program.
}

// DefaultConfig is a 32-cell stack and up to 64 lines.
var DefaultConfig = Config{
	StackDepth:   32,
	HistorySlots: 64,
}

// Validate checks the configuration fits the one byte counters of the
// runtime.
func (cfg Config) Validate() (err error) {
	switch {
	case cfg.StackDepth < 1 || cfg.StackDepth > 255:
		err = ErrStackDepth
	case cfg.HistorySlots < 1 || cfg.HistorySlots > 255:
		err = ErrHistorySlots
	}
	return
}
