package biquad

// Coefficients holds the transfer function coefficients for a single
// second-order section (biquad). a0 is normalized to 1 and not stored.
//
// The recurrence is Direct Form II Transposed:
//
//	y   = B0*x + z1
//	z1' = B1*x - A1*y + z2
//	z2' = B2*x - A2*y
type Coefficients struct {
	B0, B1, B2 float64 // feedforward (numerator)
	A1, A2     float64 // feedback (denominator)
}

// IsFirstOrder reports whether the section has no second-order terms.
func (c Coefficients) IsFirstOrder() bool {
	return c.B2 == 0 && c.A2 == 0
}

// Scale returns a copy with the numerator multiplied by g.
func (c Coefficients) Scale(g float64) Coefficients {
	c.B0 *= g
	c.B1 *= g
	c.B2 *= g

	return c
}

// CascadeFirstOrder merges two first-order sections into one second-order
// section with the same transfer function:
//
//	(p0 + p1 z^-1)(q0 + q1 z^-1) / ((1 + pa z^-1)(1 + qa z^-1))
//
// The second-order terms of p and q are ignored.
func CascadeFirstOrder(p, q Coefficients) Coefficients {
	return Coefficients{
		B0: p.B0 * q.B0,
		B1: p.B0*q.B1 + p.B1*q.B0,
		B2: p.B1 * q.B1,
		A1: p.A1 + q.A1,
		A2: p.A1 * q.A1,
	}
}

// Section is a single biquad filter with coefficients and internal state.
type Section struct {
	Coefficients

	z1, z2 float64
}

// NewSection returns a Section initialized with the given coefficients
// and zero state.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// ProcessSample filters one input sample and returns the output.
func (s *Section) ProcessSample(x float64) float64 {
	y := s.B0*x + s.z1
	s.z1 = s.B1*x - s.A1*y + s.z2
	s.z2 = s.B2*x - s.A2*y

	return y
}

// ProcessBlock filters a block of samples in-place. Zero-alloc.
func (s *Section) ProcessBlock(buf []float64) {
	b0, b1, b2 := s.B0, s.B1, s.B2
	a1, a2 := s.A1, s.A2
	z1, z2 := s.z1, s.z2

	for i, x := range buf {
		y := b0*x + z1
		z1 = b1*x - a1*y + z2
		z2 = b2*x - a2*y
		buf[i] = y
	}

	s.z1, s.z2 = z1, z2
}

// ProcessBlockTo filters src into dst. Both slices must have the same length.
// Zero-alloc.
func (s *Section) ProcessBlockTo(dst, src []float64) {
	if len(src) == 0 {
		return
	}

	_ = dst[len(src)-1] // bounds check hint
	for i, x := range src {
		y := s.B0*x + s.z1
		s.z1 = s.B1*x - s.A1*y + s.z2
		s.z2 = s.B2*x - s.A2*y
		dst[i] = y
	}
}

// Reset clears the delay line to zero.
func (s *Section) Reset() {
	s.z1 = 0
	s.z2 = 0
}

// State returns the current delay-line state [z1, z2].
func (s *Section) State() [2]float64 {
	return [2]float64{s.z1, s.z2}
}

// SetState restores a previously saved delay-line state.
func (s *Section) SetState(state [2]float64) {
	s.z1 = state[0]
	s.z2 = state[1]
}
