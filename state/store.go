package state

import (
	"bytes"
	"encoding/gob"
	"errors"
	"sort"
	"sync"

	"github.com/peterbourgon/diskv"
)

var MissingRunError = errors.New("missing run error")

// BlockTransform determines how diskv should partition folders.
func BlockTransform(blockSize int) func(string) []string {
	return func(s string) []string {
		var (
			sliceSize = len(s) / blockSize
			pathSlice = make([]string, sliceSize)
		)
		for i := 0; i < sliceSize; i++ {
			from, to := i*blockSize, (i*blockSize)+blockSize
			pathSlice[i] = s[from:to]
		}
		return pathSlice
	}
}

// RunToBytes encodes a run to bytes.
func RunToBytes(run Run) ([]byte, error) {
	var buff bytes.Buffer
	err := gob.NewEncoder(&buff).Encode(run)
	if err != nil {
		return nil, err
	}
	return buff.Bytes(), nil
}

// RunStore models a way to store (either persistent or not) simulated runs.
type RunStore interface {
	Get(id string) (Run, error)
	Put(run Run) error
	Keys() ([]string, error)
}

// All returns every run of the store, ordered by key.
func All(s RunStore) ([]Run, error) {
	keys, err := s.Keys()
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	runs := make([]Run, len(keys))
	for i, k := range keys {
		runs[i], err = s.Get(k)
		if err != nil {
			return nil, err
		}
	}
	return runs, nil
}

type mapRunStore struct {
	sync.RWMutex
	m map[string]Run
}

func (m *mapRunStore) Get(id string) (Run, error) {
	m.RLock()
	defer m.RUnlock()
	if r, ok := m.m[id]; ok {
		return r, nil
	}
	return Run{}, MissingRunError
}

func (m *mapRunStore) Put(run Run) error {
	m.Lock()
	defer m.Unlock()
	m.m[run.ID] = run
	return nil
}

func (m *mapRunStore) Keys() ([]string, error) {
	m.RLock()
	defer m.RUnlock()
	keys := make([]string, 0, len(m.m))
	for k := range m.m {
		keys = append(keys, k)
	}
	return keys, nil
}

// NewMapRunStore creates a run store out of a regular go map.
func NewMapRunStore() RunStore {
	return &mapRunStore{m: make(map[string]Run)}
}

type diskvRunStore struct {
	*diskv.Diskv
}

func (d diskvRunStore) Get(id string) (Run, error) {
	if !d.Has(id) {
		return Run{}, MissingRunError
	}
	b, err := d.Read(id)
	if err != nil {
		return Run{}, err
	}
	var r Run
	err = gob.NewDecoder(bytes.NewReader(b)).Decode(&r)
	if err != nil {
		return Run{}, err
	}
	return r, nil
}

func (d diskvRunStore) Put(run Run) error {
	b, err := RunToBytes(run)
	if err != nil {
		return err
	}
	return d.Write(run.ID, b)
}

func (d diskvRunStore) Keys() ([]string, error) {
	var keys []string
	for k := range d.Diskv.Keys(nil) {
		keys = append(keys, k)
	}
	return keys, nil
}

// NewDiskvRunStore creates a new on-disk store with the specified diskv parameters.
func NewDiskvRunStore(dv *diskv.Diskv) RunStore {
	return diskvRunStore{dv}
}

// OpenDiskvRunStore creates an on-disk store rooted at dir.
func OpenDiskvRunStore(dir string) RunStore {
	return NewDiskvRunStore(diskv.New(diskv.Options{
		BasePath:     dir,
		Transform:    BlockTransform(8),
		CacheSizeMax: 4 << 20,
	}))
}
