package service

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mkarlsen/bisbm-service/pkg/bigraph"
	"github.com/mkarlsen/bisbm-service/server/models"
)

// DatasetService keeps uploaded bipartite graphs in memory.
type DatasetService struct {
	datasets map[string]*models.Dataset
	mutex    sync.RWMutex
}

// NewDatasetService creates a new dataset service.
func NewDatasetService() *DatasetService {
	return &DatasetService{
		datasets: make(map[string]*models.Dataset),
	}
}

// Upload parses an edge list body (whitespace-separated id pairs, one
// undirected edge per line) into a bipartite graph and stores it. The
// first numTypeA vertex ids are type A, the next numTypeB type B.
func (s *DatasetService) Upload(name, edgeList string, numTypeA, numTypeB int) (*models.Dataset, error) {
	if numTypeA < 1 || numTypeB < 1 {
		return nil, fmt.Errorf("both vertex type counts must be positive, got %d and %d", numTypeA, numTypeB)
	}

	edges, err := parseEdgeList(edgeList)
	if err != nil {
		return nil, err
	}

	graph, err := bigraph.NewFromEdgeList(edges, bigraph.TypesFromSizes(numTypeA, numTypeB))
	if err != nil {
		return nil, fmt.Errorf("invalid graph: %w", err)
	}

	dataset := &models.Dataset{
		ID:        uuid.New().String(),
		Name:      name,
		NumTypeA:  numTypeA,
		NumTypeB:  numTypeB,
		NumEdges:  graph.NumEdges(),
		CreatedAt: time.Now(),
		Graph:     graph,
	}

	s.mutex.Lock()
	s.datasets[dataset.ID] = dataset
	s.mutex.Unlock()

	log.Info().
		Str("dataset_id", dataset.ID).
		Str("name", name).
		Int("vertices", graph.NumVertices()).
		Int("edges", graph.NumEdges()).
		Msg("Dataset uploaded")

	return dataset, nil
}

// Get retrieves a dataset by ID.
func (s *DatasetService) Get(datasetID string) (*models.Dataset, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	dataset, exists := s.datasets[datasetID]
	if !exists {
		return nil, fmt.Errorf("dataset not found: %s", datasetID)
	}
	return dataset, nil
}

// List returns all stored datasets.
func (s *DatasetService) List() []*models.Dataset {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	datasets := make([]*models.Dataset, 0, len(s.datasets))
	for _, dataset := range s.datasets {
		datasets = append(datasets, dataset)
	}
	return datasets
}

// Delete removes a dataset.
func (s *DatasetService) Delete(datasetID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.datasets[datasetID]; !exists {
		return fmt.Errorf("dataset not found: %s", datasetID)
	}
	delete(s.datasets, datasetID)

	log.Info().Str("dataset_id", datasetID).Msg("Dataset deleted")
	return nil
}

func parseEdgeList(body string) ([]bigraph.Edge, error) {
	var edges []bigraph.Edge
	scanner := bufio.NewScanner(strings.NewReader(body))
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: expected two vertex ids", lineNum)
		}
		u, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid vertex id %q", lineNum, fields[0])
		}
		v, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid vertex id %q", lineNum, fields[1])
		}
		edges = append(edges, bigraph.Edge{U: u, V: v})
	}
	if len(edges) == 0 {
		return nil, fmt.Errorf("edge list is empty")
	}
	return edges, nil
}
