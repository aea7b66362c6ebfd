package solver

import "vehicle-routing-service/internal/domain"

type nodeKind uint8

const (
	kindStart nodeKind = iota
	kindJob
	kindSink
)

// node is one entry of the node arena. location indexes the augmented
// matrix; ref is the vehicle index of a start anchor, the job index of a
// job visit and -1 for the sink.
type node struct {
	kind     nodeKind
	location int
	demand   int64
	ref      int
}

type vehicle struct {
	start    int
	end      int
	capacity int64
}

// Graph is the static routing model consumed by the search: the node arena,
// the augmented cost matrix and the per-vehicle start/end anchors.
// It is built once per solve and never mutated afterwards.
//
// Nodes are laid out as [vehicle starts..., job visits..., sink].
type Graph struct {
	order      int
	matrix     []int64
	nodes      []node
	vehicles   []vehicle
	sink       int
	jobNodes   []int
	vehicleIDs []domain.ID
	jobIDs     []domain.ID
}

// NumNodes returns the number of nodes in the arena.
func (g *Graph) NumNodes() int { return len(g.nodes) }

// NumVehicles returns the number of vehicles.
func (g *Graph) NumVehicles() int { return len(g.vehicles) }

// Sink returns the node index of the shared virtual end node.
func (g *Graph) Sink() int { return g.sink }

// Start returns the start anchor node of vehicle v.
func (g *Graph) Start(v int) int { return g.vehicles[v].start }

// End returns the end anchor node of vehicle v, always the sink.
func (g *Graph) End(v int) int { return g.vehicles[v].end }

// Capacity returns the capacity of vehicle v.
func (g *Graph) Capacity(v int) int64 { return g.vehicles[v].capacity }

// Demand returns the demand carried by node n.
func (g *Graph) Demand(n int) int64 { return g.nodes[n].demand }

// Location returns the matrix index node n stands on.
func (g *Graph) Location(n int) int { return g.nodes[n].location }

// JobNode returns the node that visits job j.
func (g *Graph) JobNode(j int) int { return g.jobNodes[j] }

// Arc returns the travel duration between two nodes.
func (g *Graph) Arc(from, to int) int64 {
	return g.matrix[g.nodes[from].location*g.order+g.nodes[to].location]
}

// AugmentedMatrix returns a copy of the cost matrix including the sink row and column.
func (g *Graph) AugmentedMatrix() [][]int64 {
	out := make([][]int64, g.order)
	for i := range out {
		out[i] = make([]int64, g.order)
		copy(out[i], g.matrix[i*g.order:(i+1)*g.order])
	}
	return out
}

func (g *Graph) isJob(n int) bool { return g.nodes[n].kind == kindJob }

func (g *Graph) jobID(n int) domain.ID { return g.jobIDs[g.nodes[n].ref] }
