package qlearning

import (
	"encoding/gob"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

func init() {
	gob.Register(&tensor.Dense{})
	gob.Register(map[string]*tensor.Dense{})
}

const (
	LearningRate   = 0.005
	Gamma          = 0.95
	InitialEpsilon = 1.0
	EpsilonDecay   = 0.99
	MinEpsilon     = 0.01

	BatchSize        = 32
	ReplayBufferSize = 5000
	HiddenLayerSize  = 12
	InputFeatures    = 12 // 3 danger flags, 4 relative food flags, 5 directional readings
	OutputActions    = 3 // turn left, straight, turn right
	GradientClip     = 0.5
	TargetTau        = 0.001 // soft update rate of the target network

	WeightsFile = "dqn_weights.gob"
)

// Transition is one step of experience
type Transition struct {
	State     []float64
	Action    int
	Reward    float64
	NextState []float64
	Done      bool
}

// ReplayBuffer is a fixed-size ring of transitions
type ReplayBuffer struct {
	buffer   []Transition
	maxSize  int
	position int
	size     int
}

func NewReplayBuffer(maxSize int) *ReplayBuffer {
	return &ReplayBuffer{
		buffer:  make([]Transition, maxSize),
		maxSize: maxSize,
	}
}

func (b *ReplayBuffer) Add(t Transition) {
	b.buffer[b.position] = t
	b.position = (b.position + 1) % b.maxSize
	if b.size < b.maxSize {
		b.size++
	}
}

func (b *ReplayBuffer) Len() int {
	return b.size
}

// Sample draws batchSize transitions with replacement
func (b *ReplayBuffer) Sample(rng *rand.Rand, batchSize int) []Transition {
	if batchSize > b.size {
		batchSize = b.size
	}
	batch := make([]Transition, batchSize)
	for i := range batch {
		batch[i] = b.buffer[rng.Intn(b.size)]
	}
	return batch
}

// DQN holds the weights of a two layer network. Every pass builds a small
// expression graph over them.
type DQN struct {
	w1, b1, w2, b2 *tensor.Dense
}

func NewDQN() *DQN {
	glorot := gorgonia.GlorotU(1.0)
	dense := func(rows, cols int, backing []float64) *tensor.Dense {
		return tensor.New(tensor.WithShape(rows, cols), tensor.WithBacking(backing))
	}
	return &DQN{
		w1: dense(InputFeatures, HiddenLayerSize, glorot(tensor.Float64, InputFeatures, HiddenLayerSize).([]float64)),
		b1: dense(1, HiddenLayerSize, make([]float64, HiddenLayerSize)),
		w2: dense(HiddenLayerSize, OutputActions, glorot(tensor.Float64, HiddenLayerSize, OutputActions).([]float64)),
		b2: dense(1, OutputActions, make([]float64, OutputActions)),
	}
}

type network struct {
	g          *gorgonia.ExprGraph
	learnables gorgonia.Nodes
	pred       *gorgonia.Node
}

func (dqn *DQN) build(states []float64) (*network, error) {
	batch := len(states) / InputFeatures
	if batch == 0 || len(states)%InputFeatures != 0 {
		return nil, errors.Errorf("state length %d is not a multiple of %d", len(states), InputFeatures)
	}

	g := gorgonia.NewGraph()
	param := func(name string, t *tensor.Dense) *gorgonia.Node {
		shape := t.Shape()
		return gorgonia.NewMatrix(g, tensor.Float64,
			gorgonia.WithShape(shape[0], shape[1]),
			gorgonia.WithName(name),
			gorgonia.WithValue(t.Clone().(*tensor.Dense)))
	}
	w1, b1 := param("w1", dqn.w1), param("b1", dqn.b1)
	w2, b2 := param("w2", dqn.w2), param("b2", dqn.b2)

	x := gorgonia.NewMatrix(g, tensor.Float64,
		gorgonia.WithShape(batch, InputFeatures),
		gorgonia.WithName("x"),
		gorgonia.WithValue(tensor.New(tensor.WithShape(batch, InputFeatures), tensor.WithBacking(append([]float64(nil), states...)))))

	// ones x bias broadcasts a row bias over the batch
	ones := make([]float64, batch)
	for i := range ones {
		ones[i] = 1
	}
	onesNode := gorgonia.NewMatrix(g, tensor.Float64,
		gorgonia.WithShape(batch, 1),
		gorgonia.WithName("ones"),
		gorgonia.WithValue(tensor.New(tensor.WithShape(batch, 1), tensor.WithBacking(ones))))

	h := gorgonia.Must(gorgonia.Mul(x, w1))
	h = gorgonia.Must(gorgonia.Add(h, gorgonia.Must(gorgonia.Mul(onesNode, b1))))
	h = gorgonia.Must(gorgonia.Rectify(h))

	out := gorgonia.Must(gorgonia.Mul(h, w2))
	pred := gorgonia.Must(gorgonia.Add(out, gorgonia.Must(gorgonia.Mul(onesNode, b2))))

	return &network{
		g:          g,
		learnables: gorgonia.Nodes{w1, b1, w2, b2},
		pred:       pred,
	}, nil
}

// Forward returns OutputActions Q-values per state in states
func (dqn *DQN) Forward(states []float64) ([]float64, error) {
	net, err := dqn.build(states)
	if err != nil {
		return nil, err
	}
	vm := gorgonia.NewTapeMachine(net.g)
	defer vm.Close()

	if err := vm.RunAll(); err != nil {
		return nil, errors.Wrap(err, "forward pass")
	}
	value := net.pred.Value()
	if value == nil {
		return nil, errors.New("nil prediction value")
	}
	data, ok := value.Data().([]float64)
	if !ok {
		return nil, errors.New("invalid prediction tensor type")
	}
	return append([]float64(nil), data...), nil
}

// softUpdate moves dqn toward source by tau
func (dqn *DQN) softUpdate(source *DQN, tau float64) {
	blend := func(target, src *tensor.Dense) {
		t := target.Data().([]float64)
		s := src.Data().([]float64)
		for i := range t {
			t[i] = tau*s[i] + (1-tau)*t[i]
		}
	}
	blend(dqn.w1, source.w1)
	blend(dqn.b1, source.b1)
	blend(dqn.w2, source.w2)
	blend(dqn.b2, source.b2)
}

func (dqn *DQN) copyFrom(source *DQN) {
	dqn.softUpdate(source, 1)
}

func (dqn *DQN) weights() map[string]*tensor.Dense {
	return map[string]*tensor.Dense{"w1": dqn.w1, "b1": dqn.b1, "w2": dqn.w2, "b2": dqn.b2}
}

// Agent is a DQN agent with an experience replay buffer and a soft-updated
// target network.
type Agent struct {
	dqn             *DQN
	targetDQN       *DQN
	replayBuffer    *ReplayBuffer
	solver          gorgonia.Solver
	rng             *rand.Rand
	LearningRate    float64
	Discount        float64
	Epsilon         float64
	InitialEpsilon  float64
	MinEpsilon      float64
	EpsilonDecay    float64
	TrainingEpisode int
}

// NewAgent creates an agent with fresh weights. seed 0 seeds from the clock.
func NewAgent(learningRate, discount float64, seed uint64) *Agent {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	a := &Agent{
		dqn:            NewDQN(),
		targetDQN:      NewDQN(),
		replayBuffer:   NewReplayBuffer(ReplayBufferSize),
		solver:         gorgonia.NewAdamSolver(gorgonia.WithLearnRate(learningRate), gorgonia.WithL2Reg(1e-6)),
		rng:            rand.New(rand.NewSource(seed)),
		LearningRate:   learningRate,
		Discount:       discount,
		Epsilon:        InitialEpsilon,
		InitialEpsilon: InitialEpsilon,
		MinEpsilon:     MinEpsilon,
		EpsilonDecay:   EpsilonDecay,
	}
	a.targetDQN.copyFrom(a.dqn)
	return a
}

// QValues returns the network estimate for one state
func (a *Agent) QValues(state []float64) ([]float64, error) {
	return a.dqn.Forward(state)
}

// GetAction picks an action epsilon-greedily
func (a *Agent) GetAction(state []float64) int {
	if a.rng.Float64() < a.Epsilon {
		return a.rng.Intn(OutputActions)
	}
	return a.Greedy(state)
}

// Greedy returns the best action by the current network, random on error
func (a *Agent) Greedy(state []float64) int {
	qValues, err := a.dqn.Forward(state)
	if err != nil {
		return a.rng.Intn(OutputActions)
	}
	best := 0
	for action, q := range qValues {
		if q > qValues[best] {
			best = action
		}
	}
	return best
}

// Update stores the transition and trains on a sampled batch once the
// buffer holds enough experience.
func (a *Agent) Update(state []float64, action int, reward float64, nextState []float64, done bool) error {
	a.replayBuffer.Add(Transition{
		State:     state,
		Action:    action,
		Reward:    reward,
		NextState: nextState,
		Done:      done,
	})
	if a.replayBuffer.Len() < BatchSize {
		return nil
	}
	return a.trainOnBatch(a.replayBuffer.Sample(a.rng, BatchSize))
}

func (a *Agent) trainOnBatch(batch []Transition) error {
	states := make([]float64, 0, len(batch)*InputFeatures)
	nextStates := make([]float64, 0, len(batch)*InputFeatures)
	for _, t := range batch {
		states = append(states, t.State...)
		nextStates = append(nextStates, t.NextState...)
	}

	current, err := a.dqn.Forward(states)
	if err != nil {
		return err
	}
	next, err := a.targetDQN.Forward(nextStates)
	if err != nil {
		return err
	}

	targets := append([]float64(nil), current...)
	for i, t := range batch {
		target := t.Reward
		if !t.Done {
			maxQ := math.Inf(-1)
			for j := 0; j < OutputActions; j++ {
				maxQ = max(maxQ, next[i*OutputActions+j])
			}
			target += a.Discount * maxQ
		}
		targets[i*OutputActions+t.Action] = target
	}

	net, err := a.dqn.build(states)
	if err != nil {
		return err
	}
	y := gorgonia.NewMatrix(net.g, tensor.Float64,
		gorgonia.WithShape(len(batch), OutputActions),
		gorgonia.WithName("y"),
		gorgonia.WithValue(tensor.New(tensor.WithShape(len(batch), OutputActions), tensor.WithBacking(targets))))

	diff := gorgonia.Must(gorgonia.Sub(net.pred, y))
	loss := gorgonia.Must(gorgonia.Mean(gorgonia.Must(gorgonia.Square(diff))))
	if _, err := gorgonia.Grad(loss, net.learnables...); err != nil {
		return errors.Wrap(err, "gradient")
	}

	vm := gorgonia.NewTapeMachine(net.g, gorgonia.BindDualValues(net.learnables...))
	defer vm.Close()
	if err := vm.RunAll(); err != nil {
		return errors.Wrap(err, "backprop")
	}

	grads := gorgonia.NodesToValueGrads(net.learnables)
	for _, vg := range grads {
		grad, err := vg.Grad()
		if err != nil {
			continue
		}
		data, ok := grad.Data().([]float64)
		if !ok {
			continue
		}
		for i := range data {
			if math.Abs(data[i]) > GradientClip {
				data[i] *= GradientClip / math.Abs(data[i])
			}
		}
	}
	if err := a.solver.Step(grads); err != nil {
		return errors.Wrap(err, "solver step")
	}

	// write the trained values back into the persistent weights
	params := []*tensor.Dense{a.dqn.w1, a.dqn.b1, a.dqn.w2, a.dqn.b2}
	for i, n := range net.learnables {
		copy(params[i].Data().([]float64), n.Value().Data().([]float64))
	}

	a.targetDQN.softUpdate(a.dqn, TargetTau)
	return nil
}

// IncrementEpisode advances the episode counter and decays epsilon
func (a *Agent) IncrementEpisode() {
	a.TrainingEpisode++
	a.Epsilon = math.Max(a.MinEpsilon, a.InitialEpsilon*math.Pow(a.EpsilonDecay, float64(a.TrainingEpisode)))
}

func (a *Agent) SaveWeights(filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return errors.Wrap(err, "create data directory")
	}
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "create weights file")
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(a.dqn.weights()); err != nil {
		return errors.Wrap(err, "encode weights")
	}
	return nil
}

// LoadWeights restores both networks from filename. A missing file is not
// an error; the agent keeps its fresh weights.
func (a *Agent) LoadWeights(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "open weights file")
	}
	defer f.Close()

	var weights map[string]*tensor.Dense
	if err := gob.NewDecoder(f).Decode(&weights); err != nil {
		return errors.Wrap(err, "decode weights")
	}

	for name, dst := range a.dqn.weights() {
		src, ok := weights[name]
		if !ok {
			continue
		}
		if !src.Shape().Eq(dst.Shape()) {
			return errors.Errorf("weights %s: shape %v, want %v", name, src.Shape(), dst.Shape())
		}
		copy(dst.Data().([]float64), src.Data().([]float64))
	}
	a.targetDQN.copyFrom(a.dqn)
	return nil
}
