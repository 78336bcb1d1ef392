// Package model decodes declarative YAML model files into the mesh,
// geometry, boundary, and load objects the solver consumes.
package model

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Blueprints-org/blueprints-sub002/bc"
	"github.com/Blueprints-org/blueprints-sub002/elastic"
	"github.com/Blueprints-org/blueprints-sub002/mesh"
	"gopkg.in/yaml.v3"
)

// ErrInvalidModel reports a model file that decodes but fails validation.
var ErrInvalidModel = errors.New("model: invalid model")

// Model is the top-level YAML document.
type Model struct {
	Material MaterialSpec  `yaml:"material"`
	Nodes    []NodeSpec    `yaml:"nodes"`
	Elements []ElementSpec `yaml:"elements"`
	Points   []PointSpec   `yaml:"points,omitempty"`
	Lines    []LineSpec    `yaml:"lines,omitempty"`
	Supports []SupportSpec `yaml:"supports,omitempty"`
	Loads    []LoadSpec    `yaml:"loads,omitempty"`
}

// MaterialSpec is the shared material block applied to every element.
type MaterialSpec struct {
	E         float64 `yaml:"e"`
	Nu        float64 `yaml:"nu"`
	Thickness float64 `yaml:"thickness"`
	State     string  `yaml:"state"`
}

// NodeSpec is one mesh node.
type NodeSpec struct {
	ID int     `yaml:"id"`
	X  float64 `yaml:"x"`
	Y  float64 `yaml:"y"`
}

// ElementSpec is one element: connectivity in vertex-first order and an
// optional integration order (0 picks the topology default).
type ElementSpec struct {
	ID    int   `yaml:"id"`
	Nodes []int `yaml:"nodes"`
	Order int   `yaml:"order,omitempty"`
}

// PointSpec is one geometric reference point.
type PointSpec struct {
	ID int     `yaml:"id"`
	X  float64 `yaml:"x"`
	Y  float64 `yaml:"y"`
}

// LineSpec is one geometric segment between two points.
type LineSpec struct {
	ID int `yaml:"id"`
	P1 int `yaml:"p1"`
	P2 int `yaml:"p2"`
}

// CondSpec is one axis condition: the strings "free" and "fixed", or a
// number for a prescribed displacement. The zero value is free.
type CondSpec struct {
	cond bc.Condition
	set  bool
}

// Condition returns the decoded condition (free when the axis was omitted).
func (c CondSpec) Condition() bc.Condition {
	if !c.set {
		return bc.Free()
	}
	return c.cond
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *CondSpec) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err == nil {
		switch s {
		case "free":
			c.cond, c.set = bc.Free(), true
			return nil
		case "fixed":
			c.cond, c.set = bc.Fixed(), true
			return nil
		default:
			return fmt.Errorf("%w: condition %q (want \"free\", \"fixed\", or a number)",
				ErrInvalidModel, s)
		}
	}
	var v float64
	if err := n.Decode(&v); err != nil {
		return fmt.Errorf("%w: condition %q", ErrInvalidModel, n.Value)
	}
	c.cond, c.set = bc.Prescribed(v), true
	return nil
}

// SupportSpec is one displacement constraint. Exactly one of Node, Point,
// or Line must be set.
type SupportSpec struct {
	Node  int      `yaml:"node,omitempty"`
	Point int      `yaml:"point,omitempty"`
	Line  int      `yaml:"line,omitempty"`
	X     CondSpec `yaml:"x,omitempty"`
	Y     CondSpec `yaml:"y,omitempty"`
}

// LoadSpec is one force definition. Exactly one of Node, Point, or Line
// must be set; line loads are per unit length.
type LoadSpec struct {
	Node  int     `yaml:"node,omitempty"`
	Point int     `yaml:"point,omitempty"`
	Line  int     `yaml:"line,omitempty"`
	FX    float64 `yaml:"fx,omitempty"`
	FY    float64 `yaml:"fy,omitempty"`
}

// Load reads and parses a model file.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}
	return Parse(data)
}

// Parse decodes a model document. Unknown fields are rejected.
func Parse(data []byte) (*Model, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var m Model
	if err := dec.Decode(&m); err != nil && err != io.EOF {
		return nil, fmt.Errorf("model: %w", err)
	}
	return &m, nil
}

// defaultOrder picks the usual full-integration rule for a topology.
func defaultOrder(nn int) int {
	switch nn {
	case 3:
		return 1
	case 6:
		return 3
	case 4:
		return 4
	default:
		return 9
	}
}

func target(node, point, line int) (bc.TargetKind, int, error) {
	set := 0
	kind, id := bc.TargetNode, 0
	if node != 0 {
		set++
		kind, id = bc.TargetNode, node
	}
	if point != 0 {
		set++
		kind, id = bc.TargetPoint, point
	}
	if line != 0 {
		set++
		kind, id = bc.TargetLine, line
	}
	if set != 1 {
		return 0, 0, fmt.Errorf("%w: exactly one of node, point, line must be set", ErrInvalidModel)
	}
	return kind, id, nil
}

// Build converts the document into solver inputs. The returned mesh is
// frozen.
func (m *Model) Build() (*mesh.Mesh, *mesh.Geometry, *bc.Boundaries, *bc.Loads, error) {
	state, err := elastic.ParsePlanarState(m.Material.State)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	mtl := elastic.Material{
		E:         m.Material.E,
		Nu:        m.Material.Nu,
		Thickness: m.Material.Thickness,
		State:     state,
	}

	msh := mesh.New()
	for _, n := range m.Nodes {
		if _, err := msh.AddNode(n.ID, n.X, n.Y); err != nil {
			return nil, nil, nil, nil, err
		}
	}
	for _, e := range m.Elements {
		order := e.Order
		if order == 0 {
			order = defaultOrder(len(e.Nodes))
		}
		if _, err := msh.AddElement(e.ID, e.Nodes, order, mtl); err != nil {
			return nil, nil, nil, nil, err
		}
	}
	msh.Freeze()

	geo := mesh.NewGeometry()
	for _, p := range m.Points {
		if _, err := geo.AddPoint(p.ID, p.X, p.Y); err != nil {
			return nil, nil, nil, nil, err
		}
	}
	for _, l := range m.Lines {
		if _, err := geo.AddLine(l.ID, l.P1, l.P2); err != nil {
			return nil, nil, nil, nil, err
		}
	}

	bounds := bc.NewBoundaries()
	for i, s := range m.Supports {
		kind, id, err := target(s.Node, s.Point, s.Line)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("support %d: %w", i+1, err)
		}
		switch kind {
		case bc.TargetNode:
			bounds.ConstrainNode(id, s.X.Condition(), s.Y.Condition())
		case bc.TargetPoint:
			bounds.ConstrainPoint(id, s.X.Condition(), s.Y.Condition())
		default:
			bounds.ConstrainLine(id, s.X.Condition(), s.Y.Condition())
		}
	}

	loads := bc.NewLoads()
	for i, l := range m.Loads {
		kind, id, err := target(l.Node, l.Point, l.Line)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("load %d: %w", i+1, err)
		}
		switch kind {
		case bc.TargetNode:
			loads.LoadNode(id, l.FX, l.FY)
		case bc.TargetPoint:
			loads.LoadPoint(id, l.FX, l.FY)
		default:
			loads.LoadLine(id, l.FX, l.FY)
		}
	}

	if err := msh.Validate(); err != nil {
		return nil, nil, nil, nil, err
	}
	return msh, geo, bounds, loads, nil
}
