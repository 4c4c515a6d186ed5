package usecase

// WithReadFile replaces how the captured page is read
func WithReadFile(fn func(path string) ([]byte, error)) Option {
	return func(uc *Capture) {
		uc.readFile = fn
	}
}

var DecodeOutput = decodeOutput
