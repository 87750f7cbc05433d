// Package dataset loads the versioned reference datasets (crops, markets and
// prices, storage facilities) into immutable snapshots. Embedded YAML files
// are the defaults; config may point at on-disk overrides which are
// schema-validated and optionally watched for hot reload. A failed reload
// keeps the previous snapshot live.
package dataset

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"mandimitra/internal/crops"
	"mandimitra/internal/facility"
	"mandimitra/internal/logger"
	"mandimitra/internal/mandi"

	"github.com/fsnotify/fsnotify"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed data/crops.yaml
var embeddedCrops []byte

//go:embed data/markets.yaml
var embeddedMarkets []byte

//go:embed data/facilities.yaml
var embeddedFacilities []byte

// Paths are the optional on-disk overrides. Empty path = embedded default.
type Paths struct {
	Crops      string
	Markets    string
	Facilities string
	Watch      bool
}

// Snapshot is one immutable view of all reference data. It satisfies the
// engine's Sources interface so a whole evaluation runs against a single
// consistent dataset version.
type Snapshot struct {
	Version    int64
	LoadedAt   time.Time
	cropStore  *crops.Store
	provider   *mandi.StaticProvider
	facilities []facility.Facility
}

func (s Snapshot) Crops() *crops.Store             { return s.cropStore }
func (s Snapshot) Markets() mandi.Provider         { return s.provider }
func (s Snapshot) Facilities() []facility.Facility { return append([]facility.Facility(nil), s.facilities...) }

// Loader owns the current snapshot and the optional file watcher.
type Loader struct {
	paths   Paths
	mu      sync.RWMutex
	snap    Snapshot
	watcher *fsnotify.Watcher
}

type cropsFile struct {
	Version int              `yaml:"version"`
	Crops   []crops.Metadata `yaml:"crops"`
}

type marketsFile struct {
	Version int                 `yaml:"version"`
	Markets []mandi.Market      `yaml:"markets"`
	Prices  []mandi.PriceSeries `yaml:"prices"`
}

type facilitiesFile struct {
	Version    int                 `yaml:"version"`
	Facilities []facility.Facility `yaml:"facilities"`
}

// NewLoader loads the initial snapshot and, when paths.Watch is set, starts
// watching override files for changes.
func NewLoader(paths Paths) (*Loader, error) {
	l := &Loader{paths: paths}
	if err := l.reload(); err != nil {
		return nil, err
	}
	if paths.Watch {
		if err := l.startWatcher(); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Snapshot returns the current dataset view. Callers hold it for the duration
// of one evaluation; reloads never mutate a handed-out snapshot.
func (l *Loader) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snap
}

// Close stops the watcher, if any.
func (l *Loader) Close() error {
	if l.watcher == nil {
		return nil
	}
	return l.watcher.Close()
}

func (l *Loader) reload() error {
	cropsRaw, err := readOrEmbedded(l.paths.Crops, embeddedCrops)
	if err != nil {
		return err
	}
	marketsRaw, err := readOrEmbedded(l.paths.Markets, embeddedMarkets)
	if err != nil {
		return err
	}
	facilitiesRaw, err := readOrEmbedded(l.paths.Facilities, embeddedFacilities)
	if err != nil {
		return err
	}

	var cf cropsFile
	if err := decodeValidated("crops", cropsRaw, cropsSchema, &cf); err != nil {
		return err
	}
	var mf marketsFile
	if err := decodeValidated("markets", marketsRaw, marketsSchema, &mf); err != nil {
		return err
	}
	var ff facilitiesFile
	if err := decodeValidated("facilities", facilitiesRaw, facilitiesSchema, &ff); err != nil {
		return err
	}

	l.mu.Lock()
	l.snap = Snapshot{
		Version:    l.snap.Version + 1,
		LoadedAt:   time.Now(),
		cropStore:  crops.NewStore(cf.Crops),
		provider:   mandi.NewStaticProvider(mf.Markets, mf.Prices, time.Now()),
		facilities: ff.Facilities,
	}
	version := l.snap.Version
	l.mu.Unlock()
	logger.Infof("dataset snapshot v%d loaded: %d crops, %d markets, %d price series, %d facilities",
		version, len(cf.Crops), len(mf.Markets), len(mf.Prices), len(ff.Facilities))
	return nil
}

func (l *Loader) startWatcher() error {
	dirs := map[string]bool{}
	for _, p := range []string{l.paths.Crops, l.paths.Markets, l.paths.Facilities} {
		if p != "" {
			dirs[filepath.Dir(p)] = true
		}
	}
	if len(dirs) == 0 {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("dataset watcher init failed: %w", err)
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return fmt.Errorf("watching %s failed: %w", dir, err)
		}
	}
	l.watcher = watcher
	go func() {
		for {
			select {
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) {
					continue
				}
				if !l.isDatasetFile(evt.Name) {
					continue
				}
				if err := l.reload(); err != nil {
					logger.Errorf("dataset reload failed (%s): %v", evt.Name, err)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warnf("dataset watcher error: %v", err)
			}
		}
	}()
	return nil
}

func (l *Loader) isDatasetFile(name string) bool {
	clean := filepath.Clean(name)
	for _, p := range []string{l.paths.Crops, l.paths.Markets, l.paths.Facilities} {
		if p != "" && filepath.Clean(p) == clean {
			return true
		}
	}
	return false
}

func readOrEmbedded(path string, embedded []byte) ([]byte, error) {
	if path == "" {
		return embedded, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset override failed (%s): %w", path, err)
	}
	return raw, nil
}

// decodeValidated checks raw YAML against the schema, then decodes it into
// out. The YAML document is round-tripped through JSON so the validator sees
// plain JSON-typed values.
func decodeValidated(name string, raw []byte, schema string, out any) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%s dataset is not valid YAML: %w", name, err)
	}
	jsonBytes, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%s dataset cannot be normalized: %w", name, err)
	}
	var jsonDoc any
	if err := json.Unmarshal(jsonBytes, &jsonDoc); err != nil {
		return fmt.Errorf("%s dataset cannot be normalized: %w", name, err)
	}
	sch, err := jsonschema.CompileString(name+".schema.json", schema)
	if err != nil {
		return fmt.Errorf("%s schema compile failed: %w", name, err)
	}
	if err := sch.Validate(jsonDoc); err != nil {
		return fmt.Errorf("%s dataset failed schema validation: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s dataset decode failed: %w", name, err)
	}
	return nil
}
