package stack

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type DeploymentStatus string

const (
	// Create-related statuses
	StatusCreating       DeploymentStatus = "creating"
	StatusCreateComplete DeploymentStatus = "create_complete"
	StatusCreateFailed   DeploymentStatus = "create_failed"

	// Update-related statuses
	StatusUpdating       DeploymentStatus = "updating"
	StatusUpdateComplete DeploymentStatus = "update_complete"
	StatusUpdateFailed   DeploymentStatus = "update_failed"

	// Delete-related statuses
	StatusDeleting       DeploymentStatus = "deleting"
	StatusDeleteComplete DeploymentStatus = "delete_complete"
	StatusDeleteFailed   DeploymentStatus = "delete_failed"

	// Unknown status
	StatusUnknown DeploymentStatus = "unknown"
)

// Self-transitions let an interrupted operation be retried without
// hand-editing the state file.
var validTransitions = map[DeploymentStatus][]DeploymentStatus{
	StatusCreating:       {StatusCreating, StatusCreateComplete, StatusCreateFailed},
	StatusCreateComplete: {StatusUpdating, StatusDeleting},
	StatusCreateFailed:   {StatusCreating, StatusDeleting},
	StatusUpdating:       {StatusUpdating, StatusUpdateComplete, StatusUpdateFailed},
	StatusUpdateComplete: {StatusUpdating, StatusDeleting},
	StatusUpdateFailed:   {StatusUpdating, StatusDeleting},
	StatusDeleting:       {StatusDeleting, StatusDeleteComplete, StatusDeleteFailed},
	StatusDeleteComplete: {StatusCreating},
	StatusDeleteFailed:   {StatusDeleting},
}

func isValidTransition(currentStatus, nextStatus DeploymentStatus) bool {
	for _, validStatus := range validTransitions[currentStatus] {
		if validStatus == nextStatus {
			return true
		}
	}
	return false
}

// NextStatus maps an engine result onto the in-flight status.
func NextStatus(currentStatus DeploymentStatus, result string) DeploymentStatus {
	succeeded := result == "succeeded"
	switch currentStatus {
	case StatusCreating:
		if succeeded {
			return StatusCreateComplete
		}
		return StatusCreateFailed
	case StatusUpdating:
		if succeeded {
			return StatusUpdateComplete
		}
		return StatusUpdateFailed
	case StatusDeleting:
		if succeeded {
			return StatusDeleteComplete
		}
		return StatusDeleteFailed

	default:
		return StatusUnknown
	}
}

// Record is one pipeline's deployment entry in the state file.
type Record struct {
	ID          UUID             `yaml:"id"`
	Region      string           `yaml:"region,omitempty"`
	Status      DeploymentStatus `yaml:"status,omitempty"`
	LastUpdated string           `yaml:"last_updated,omitempty"`
	Outputs     *Outputs         `yaml:"outputs,omitempty"`
}

type State struct {
	SchemaVersion int               `yaml:"schemaVersion,omitempty"`
	Pipelines     map[string]Record `yaml:"pipelines,omitempty"`
}

type StateManager struct {
	fs        afero.Fs
	stateFile string
	state     *State
	mutex     sync.Mutex
}

func NewStateManager(fs afero.Fs, stateFile string) *StateManager {
	return &StateManager{
		fs:        fs,
		stateFile: stateFile,
		state: &State{
			SchemaVersion: 1,
			Pipelines:     make(map[string]Record),
		},
	}
}

func (sm *StateManager) CheckStateFileExists() bool {
	exists, err := afero.Exists(sm.fs, sm.stateFile)
	return err == nil && exists
}

// LoadState reads the state file if it exists; a missing file leaves
// the fresh empty state in place.
func (sm *StateManager) LoadState() error {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	data, err := afero.ReadFile(sm.fs, sm.stateFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := yaml.Unmarshal(data, sm.state); err != nil {
		return fmt.Errorf("Failed to parse state file %s: %w", sm.stateFile, err)
	}
	if sm.state.Pipelines == nil {
		sm.state.Pipelines = make(map[string]Record)
	}
	return nil
}

func (sm *StateManager) SaveState() error {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	data, err := yaml.Marshal(sm.state)
	if err != nil {
		return err
	}
	if err := sm.fs.MkdirAll(filepath.Dir(sm.stateFile), 0755); err != nil {
		return err
	}
	return afero.WriteFile(sm.fs, sm.stateFile, data, 0644)
}

func (sm *StateManager) GetRecord(name string) (Record, bool) {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	r, exists := sm.state.Pipelines[name]
	return r, exists
}

func (sm *StateManager) SetRecord(name string, r Record) {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	sm.state.Pipelines[name] = r
}

func (sm *StateManager) GetAllRecords() map[string]Record {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	records := make(map[string]Record, len(sm.state.Pipelines))
	for name, r := range sm.state.Pipelines {
		records[name] = r
	}
	return records
}

// StartDeployment records that an up is underway for name, creating
// the record on first deploy.
func (sm *StateManager) StartDeployment(name, region string) (Record, error) {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	r, exists := sm.state.Pipelines[name]
	if !exists {
		r = Record{
			ID:          NewUUID(),
			Region:      region,
			Status:      StatusCreating,
			LastUpdated: time.Now().Format(time.RFC3339),
		}
		sm.state.Pipelines[name] = r
		return r, nil
	}

	next := StatusUpdating
	switch r.Status {
	case StatusCreating, StatusCreateFailed, StatusDeleteComplete:
		next = StatusCreating
	}
	r.Region = region
	return sm.transitionLocked(name, r, next)
}

// StartDestroy records that a down is underway for name.
func (sm *StateManager) StartDestroy(name string) (Record, error) {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	r, exists := sm.state.Pipelines[name]
	if !exists {
		return Record{}, fmt.Errorf("pipeline %s not found in state", name)
	}
	return sm.transitionLocked(name, r, StatusDeleting)
}

// Complete settles the in-flight operation for name from the engine's
// result string. Outputs replace the recorded ones on success and are
// dropped entirely once a delete completes.
func (sm *StateManager) Complete(name, result string, outputs *Outputs) (Record, error) {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	r, exists := sm.state.Pipelines[name]
	if !exists {
		return Record{}, fmt.Errorf("pipeline %s not found in state", name)
	}

	next := NextStatus(r.Status, result)
	r, err := sm.transitionLocked(name, r, next)
	if err != nil {
		return Record{}, err
	}

	if next == StatusDeleteComplete {
		r.Outputs = nil
	} else if outputs != nil {
		r.Outputs = outputs
	}
	sm.state.Pipelines[name] = r
	return r, nil
}

func (sm *StateManager) transitionLocked(name string, r Record, next DeploymentStatus) (Record, error) {
	if !isValidTransition(r.Status, next) {
		return Record{}, fmt.Errorf("invalid transition from %s to %s", r.Status, next)
	}

	zap.L().Debug("Transitioning pipeline",
		zap.String("pipeline", name),
		zap.String("from", string(r.Status)),
		zap.String("to", string(next)))
	r.Status = next
	r.LastUpdated = time.Now().Format(time.RFC3339)
	sm.state.Pipelines[name] = r
	return r, nil
}
