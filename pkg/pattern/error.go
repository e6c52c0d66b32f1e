package pattern

// Error reports a problem that prevented part of the output from being built.
type Error struct {
	Source  string `json:"source"`
	Message string `json:"message"`
}

func (e *Error) Type() PatternType { return PatternTypeError }
