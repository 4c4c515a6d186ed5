package usecase

import "bytes"

// LoginDetector recognizes a login page captured in place of real content
type LoginDetector struct {
	indicators [][]byte
}

// NewLoginDetector builds a detector. Empty indicators are skipped.
func NewLoginDetector(indicators []string) *LoginDetector {
	d := &LoginDetector{}
	for _, s := range indicators {
		if s == "" {
			continue
		}
		d.indicators = append(d.indicators, []byte(s))
	}
	return d
}

// Match returns the first indicator found in content
func (d *LoginDetector) Match(content []byte) (string, bool) {
	for _, ind := range d.indicators {
		if bytes.Contains(content, ind) {
			return string(ind), true
		}
	}
	return "", false
}
