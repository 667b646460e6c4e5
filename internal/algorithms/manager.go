package algorithms

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"lowlight-enhancer/internal/algorithms/native"
	"lowlight-enhancer/internal/raster"
)

// Algorithm is one implementation of the low-light enhancement.
type Algorithm interface {
	GetName() string
	Process(ctx context.Context, input *raster.Image) (*raster.Image, error)
}

// Compositor is implemented by backends that build the comparison canvas
// with their own toolkit.
type Compositor interface {
	Compose(left, right *raster.Image, labelLeft, labelRight string) (*raster.Image, error)
}

type Manager struct {
	algorithms       map[string]Algorithm
	currentAlgorithm string
	mu               sync.RWMutex
}

// NewManager registers the pure Go implementation and selects it. Other
// backends (OpenCV) are added by the binaries that link them.
func NewManager() (*Manager, error) {
	manager := &Manager{
		algorithms: make(map[string]Algorithm),
	}

	nativeAlg, err := native.NewProcessor()
	if err != nil {
		return nil, fmt.Errorf("create native processor: %w", err)
	}
	manager.Register(nativeAlg)
	manager.currentAlgorithm = nativeAlg.GetName()

	return manager, nil
}

func (m *Manager) Register(algorithm Algorithm) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.algorithms[algorithm.GetName()] = algorithm
}

func (m *Manager) SetCurrentAlgorithm(algorithm string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.algorithms[algorithm]; !exists {
		return fmt.Errorf("unknown algorithm: %s", algorithm)
	}

	m.currentAlgorithm = algorithm
	return nil
}

func (m *Manager) GetCurrentAlgorithm() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentAlgorithm
}

func (m *Manager) GetAlgorithm(name string) (Algorithm, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if algorithm, exists := m.algorithms[name]; exists {
		return algorithm, nil
	}

	return nil, fmt.Errorf("unknown algorithm: %s", name)
}

func (m *Manager) GetAvailableAlgorithms() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	algorithms := make([]string, 0, len(m.algorithms))
	for name := range m.algorithms {
		algorithms = append(algorithms, name)
	}
	sort.Strings(algorithms)

	return algorithms
}
