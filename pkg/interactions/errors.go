package interactions

import (
	"errors"

	"github.com/edp1096/toy-mie/pkg/geometry"
	"github.com/edp1096/toy-mie/pkg/matrix"
)

var (
	ErrShapeMismatch            = errors.New("interactions: shape mismatch")
	ErrUnsupportedConfiguration = errors.New("interactions: unsupported configuration")

	ErrInvalidGeometry = geometry.ErrInvalidGeometry
	ErrSingularSystem  = matrix.ErrSingularSystem
	ErrNotConverged    = matrix.ErrNotConverged
)
