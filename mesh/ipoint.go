package mesh

// IntegrationPoint is one Gauss sample location mapped to global
// coordinates. The solver creates one set per solve during post-processing;
// identifiers are assigned sequentially across the whole mesh.
type IntegrationPoint struct {
	ID        int
	ElementID int
	X, Y      float64
}
