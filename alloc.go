package connpool

// Dup copies src into a new block of p. Use fromEnd for values that must
// stay put for the rest of the connection.
func Dup(p *Pool, src []byte, fromEnd bool) ([]byte, error) {
	b, err := p.Allocate(len(src), fromEnd)
	if err != nil {
		return nil, err
	}
	copy(b, src)
	return b, nil
}

// DupString is Dup for strings.
func DupString(p *Pool, s string, fromEnd bool) ([]byte, error) {
	b, err := p.Allocate(len(s), fromEnd)
	if err != nil {
		return nil, err
	}
	copy(b, s)
	return b, nil
}

// Append appends src to the front block b, growing it with Reallocate. It
// stays in place while b is the most recent front block.
func Append(p *Pool, b []byte, src ...byte) ([]byte, error) {
	if len(src) == 0 {
		return b, nil
	}
	n := len(b)
	nb, err := p.Reallocate(b, n+len(src))
	if err != nil {
		return b, err
	}
	copy(nb[n:], src)
	return nb, nil
}
