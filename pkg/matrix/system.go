package matrix

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/cblas128"
	"gonum.org/v1/gonum/mat"
)

// System is the aggregate system matrix of logical shape [N,2,rmax,N,2,rmax]
// stored as a flat Size x Size dense complex matrix.
type System struct {
	Layout
	dense *mat.CDense
}

func NewSystem(layout Layout) *System {
	n := layout.Size()
	return &System{
		Layout: layout,
		dense:  mat.NewCDense(n, n, nil),
	}
}

func (s *System) At(i, p, r, j, q, t int) complex128 {
	return s.dense.At(s.Index(i, p, r), s.Index(j, q, t))
}

func (s *System) Set(i, p, r, j, q, t int, value complex128) {
	s.dense.Set(s.Index(i, p, r), s.Index(j, q, t), value)
}

func (s *System) Add(i, p, r, j, q, t int, value complex128) {
	row, col := s.Index(i, p, r), s.Index(j, q, t)
	s.dense.Set(row, col, s.dense.At(row, col)+value)
}

// AddIdentity adds one to every diagonal entry.
func (s *System) AddIdentity() {
	raw := s.dense.RawCMatrix()
	for k := 0; k < raw.Rows; k++ {
		raw.Data[k*raw.Stride+k] += 1
	}
}

// Dense exposes the flat matrix. Writes through it modify the system.
func (s *System) Dense() *mat.CDense {
	return s.dense
}

// Block returns a view onto the (2rmax x 2rmax) block coupling source
// particle j into target particle i.
func (s *System) Block(i, j int) cblas128.General {
	raw := s.dense.RawCMatrix()
	b := s.Layout.Block()
	offset := i*b*raw.Stride + j*b
	return cblas128.General{
		Rows:   b,
		Cols:   b,
		Stride: raw.Stride,
		Data:   raw.Data[offset : offset+(b-1)*raw.Stride+b],
	}
}

// MulVec returns A*x.
func (s *System) MulVec(x []complex128) []complex128 {
	n := s.Size()
	y := make([]complex128, n)
	cblas128.Gemv(blas.NoTrans, 1, s.dense.RawCMatrix(),
		cblas128.Vector{N: n, Inc: 1, Data: x}, 0,
		cblas128.Vector{N: n, Inc: 1, Data: y})
	return y
}
