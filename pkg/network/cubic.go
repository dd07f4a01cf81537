package network

import (
	"math"
	"math/rand"
)

// CubicOptions configures a regular cubic lattice network
type CubicOptions struct {
	Shape   [3]int  // Pores along x, y, z
	Spacing float64 // Center-to-center distance in meters
}

// DefaultCubicOptions returns a 10x10x10 lattice with 100 micron spacing
func DefaultCubicOptions() CubicOptions {
	return CubicOptions{
		Shape:   [3]int{10, 10, 10},
		Spacing: 1e-4,
	}
}

// Face labels assigned by NewCubic.
const (
	LabelLeft   = "left"   // x == 0
	LabelRight  = "right"  // x == Nx-1
	LabelFront  = "front"  // y == 0
	LabelBack   = "back"   // y == Ny-1
	LabelBottom = "bottom" // z == 0
	LabelTop    = "top"    // z == Nz-1
)

// NewCubic builds a regular cubic lattice with 6-connectivity and face
// labels on the boundary planes. Axes of extent 1 have no boundary planes,
// so their face labels are not created.
func NewCubic(opts CubicOptions) (*Network, error) {
	nx, ny, nz := opts.Shape[0], opts.Shape[1], opts.Shape[2]
	if nx < 1 || ny < 1 || nz < 1 {
		return nil, opError("NewCubic", "", ErrInvalidShape)
	}
	if opts.Spacing <= 0 {
		return nil, opError("NewCubic", "", ErrInvalidSpacing)
	}

	np := nx * ny * nz
	index := func(i, j, k int) int { return i + j*nx + k*nx*ny }

	coords := make([][3]float64, np)
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				coords[index(i, j, k)] = [3]float64{
					(float64(i) + 0.5) * opts.Spacing,
					(float64(j) + 0.5) * opts.Spacing,
					(float64(k) + 0.5) * opts.Spacing,
				}
			}
		}
	}

	throats := make([]Throat, 0, 3*np)
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				p := index(i, j, k)
				if i+1 < nx {
					throats = append(throats, Throat{P1: p, P2: index(i+1, j, k)})
				}
				if j+1 < ny {
					throats = append(throats, Throat{P1: p, P2: index(i, j+1, k)})
				}
				if k+1 < nz {
					throats = append(throats, Throat{P1: p, P2: index(i, j, k+1)})
				}
			}
		}
	}

	n, err := New(coords, throats)
	if err != nil {
		return nil, err
	}

	// On a degenerate axis both opposing faces would cover every pore, and a
	// condition pointed at one would pin the whole domain.
	faces := make(map[string][]int)
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				p := index(i, j, k)
				if nx > 1 {
					if i == 0 {
						faces[LabelLeft] = append(faces[LabelLeft], p)
					}
					if i == nx-1 {
						faces[LabelRight] = append(faces[LabelRight], p)
					}
				}
				if ny > 1 {
					if j == 0 {
						faces[LabelFront] = append(faces[LabelFront], p)
					}
					if j == ny-1 {
						faces[LabelBack] = append(faces[LabelBack], p)
					}
				}
				if nz > 1 {
					if k == 0 {
						faces[LabelBottom] = append(faces[LabelBottom], p)
					}
					if k == nz-1 {
						faces[LabelTop] = append(faces[LabelTop], p)
					}
				}
			}
		}
	}
	for label, pores := range faces {
		if err := n.AddLabel(label, pores); err != nil {
			return nil, err
		}
	}

	return n, nil
}

// GeometryOptions configures the spheres-and-cylinders geometry model
type GeometryOptions struct {
	Spacing              float64 // Lattice spacing the network was built with
	PoreDiameterFraction float64 // Mean pore diameter as a fraction of spacing
	ThroatDiameterFactor float64 // Throat diameter as a fraction of the smaller pore diameter
	Jitter               float64 // Relative half-width of the uniform diameter distribution, 0 disables
	Seed                 int64   // RNG seed for the jitter
}

// DefaultGeometryOptions returns the geometry used by the demo scenarios
func DefaultGeometryOptions(spacing float64) GeometryOptions {
	return GeometryOptions{
		Spacing:              spacing,
		PoreDiameterFraction: 0.5,
		ThroatDiameterFactor: 0.5,
		Jitter:               0.2,
		Seed:                 42,
	}
}

// ApplyGeometry assigns pore and throat sizes with a spheres-and-cylinders
// model: spherical pores, cylindrical throats spanning the gap between the
// two pore bodies. Populates pore.diameter, pore.volume, throat.diameter,
// throat.length and throat.cross_sectional_area.
func ApplyGeometry(n *Network, opts GeometryOptions) error {
	if opts.Spacing <= 0 {
		return opError("ApplyGeometry", "", ErrInvalidSpacing)
	}
	if opts.PoreDiameterFraction <= 0 || opts.ThroatDiameterFactor <= 0 {
		return opError("ApplyGeometry", "", ErrInvalidShape)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	mean := opts.PoreDiameterFraction * opts.Spacing

	poreDia := make([]float64, n.NumPores())
	poreVol := make([]float64, n.NumPores())
	for i := range poreDia {
		d := mean
		if opts.Jitter > 0 {
			// Uniform in [mean*(1-jitter), mean*(1+jitter)]
			d = mean * (1 + opts.Jitter*(2*rng.Float64()-1))
		}
		poreDia[i] = d
		poreVol[i] = math.Pi / 6 * d * d * d
	}

	throatDia := make([]float64, n.NumThroats())
	throatLen := make([]float64, n.NumThroats())
	throatArea := make([]float64, n.NumThroats())
	for ti, t := range n.Throats() {
		d1, d2 := poreDia[t.P1], poreDia[t.P2]
		dt := opts.ThroatDiameterFactor * math.Min(d1, d2)
		length := opts.Spacing - d1/2 - d2/2
		// Overlapping pore bodies leave no cylindrical section; keep a
		// small positive length so conductances stay finite.
		if length < 0.01*opts.Spacing {
			length = 0.01 * opts.Spacing
		}
		throatDia[ti] = dt
		throatLen[ti] = length
		throatArea[ti] = math.Pi / 4 * dt * dt
	}

	if err := n.SetPoreProp(KeyPoreDiameter, poreDia); err != nil {
		return err
	}
	if err := n.SetPoreProp(KeyPoreVolume, poreVol); err != nil {
		return err
	}
	if err := n.SetThroatProp(KeyThroatDiameter, throatDia); err != nil {
		return err
	}
	if err := n.SetThroatProp(KeyThroatLength, throatLen); err != nil {
		return err
	}
	return n.SetThroatProp(KeyThroatArea, throatArea)
}
