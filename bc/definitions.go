package bc

// TargetKind distinguishes what a constraint or load is attached to.
type TargetKind uint8

const (
	TargetNode TargetKind = iota
	TargetPoint
	TargetLine
)

func (k TargetKind) String() string {
	switch k {
	case TargetNode:
		return "node"
	case TargetPoint:
		return "point"
	}
	return "line"
}

// Constraint is one displacement definition on a node, geometric point, or
// geometric line.
type Constraint struct {
	Target TargetKind
	ID     int // node, point, or line identifier depending on Target
	X, Y   Condition
}

// Load is one force definition. For line targets the force is interpreted
// as a distributed load per unit length along the line.
type Load struct {
	Target TargetKind
	ID     int
	FX, FY float64
}

// Boundaries collects displacement constraints in definition order.
type Boundaries struct {
	constraints []Constraint
}

// NewBoundaries returns an empty constraint set.
func NewBoundaries() *Boundaries { return &Boundaries{} }

// ConstrainNode adds a constraint on a mesh node.
func (b *Boundaries) ConstrainNode(nodeID int, x, y Condition) {
	b.constraints = append(b.constraints, Constraint{Target: TargetNode, ID: nodeID, X: x, Y: y})
}

// ConstrainPoint adds a constraint on the mesh node nearest a geometric point.
func (b *Boundaries) ConstrainPoint(pointID int, x, y Condition) {
	b.constraints = append(b.constraints, Constraint{Target: TargetPoint, ID: pointID, X: x, Y: y})
}

// ConstrainLine adds a constraint on every mesh node found on a geometric line.
func (b *Boundaries) ConstrainLine(lineID int, x, y Condition) {
	b.constraints = append(b.constraints, Constraint{Target: TargetLine, ID: lineID, X: x, Y: y})
}

// Constraints returns the definitions in the order they were added.
func (b *Boundaries) Constraints() []Constraint { return b.constraints }

// Loads collects force definitions in definition order.
type Loads struct {
	loads []Load
}

// NewLoads returns an empty load set.
func NewLoads() *Loads { return &Loads{} }

// LoadNode adds a point force on a mesh node.
func (l *Loads) LoadNode(nodeID int, fx, fy float64) {
	l.loads = append(l.loads, Load{Target: TargetNode, ID: nodeID, FX: fx, FY: fy})
}

// LoadPoint adds a point force on the mesh node nearest a geometric point.
func (l *Loads) LoadPoint(pointID int, fx, fy float64) {
	l.loads = append(l.loads, Load{Target: TargetPoint, ID: pointID, FX: fx, FY: fy})
}

// LoadLine adds a distributed force per unit length along a geometric line.
func (l *Loads) LoadLine(lineID int, fx, fy float64) {
	l.loads = append(l.loads, Load{Target: TargetLine, ID: lineID, FX: fx, FY: fy})
}

// All returns the definitions in the order they were added.
func (l *Loads) All() []Load { return l.loads }
