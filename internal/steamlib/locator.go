package steamlib

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/7otion/s7forge/internal/logging"
	"github.com/7otion/s7forge/internal/services"
	"github.com/7otion/s7forge/internal/snapshot"
)

// libraryKey is the single record key of the library paths snapshot.
const libraryKey = "libraries"

// AppPath is a cached app installation lookup: either a path or the reason
// there is none.
type AppPath struct {
	Path  string `json:"path,omitempty"`
	Error string `json:"error,omitempty"`
}

// Locator finds Steam libraries, app installations, and workshop content
// directories, caching each answer for the path TTL.
type Locator struct {
	configured []string
	home       string
	logger     *slog.Logger

	libraries *snapshot.Store[string, []string]
	apps      *snapshot.Store[uint32, AppPath]
	workshop  *snapshot.Store[uint32, string]
}

// Option configures a Locator.
type Option func(*locatorOptions)

type locatorOptions struct {
	installPaths []string
	home         string
	clock        snapshot.Clock
	logger       *slog.Logger
}

// WithInstallPaths replaces OS default Steam install locations.
func WithInstallPaths(paths []string) Option {
	return func(o *locatorOptions) { o.installPaths = paths }
}

// WithHome overrides the home directory used for default install paths.
func WithHome(home string) Option {
	return func(o *locatorOptions) { o.home = home }
}

// WithClock overrides the cache clock.
func WithClock(clock snapshot.Clock) Option {
	return func(o *locatorOptions) { o.clock = clock }
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *locatorOptions) { o.logger = logger }
}

// New creates a locator whose caches live in backend.
func New(backend snapshot.Backend, ttl time.Duration, opts ...Option) *Locator {
	o := locatorOptions{clock: snapshot.SystemClock{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.home == "" {
		o.home, _ = os.UserHomeDir()
	}
	storeOpts := []snapshot.Option{snapshot.WithClock(o.clock), snapshot.WithLogger(o.logger)}
	return &Locator{
		configured: o.installPaths,
		home:       o.home,
		logger:     logging.NewComponentLogger(o.logger, "steamlib"),
		libraries:  snapshot.NewStore[string, []string](backend, snapshot.KindLibraryPaths, ttl, storeOpts...),
		apps:       snapshot.NewStore[uint32, AppPath](backend, snapshot.KindAppInstallPaths, ttl, storeOpts...),
		workshop:   snapshot.NewStore[uint32, string](backend, snapshot.KindWorkshopPaths, ttl, storeOpts...),
	}
}

// InstallPaths returns the readable Steam installation directories.
func (l *Locator) InstallPaths() ([]string, error) {
	candidates := l.configured
	if len(candidates) == 0 {
		candidates = DefaultInstallPaths(l.home)
	}
	var found []string
	for _, candidate := range candidates {
		if !readableDir(candidate) {
			continue
		}
		duplicate := false
		for _, seen := range found {
			if sameDir(seen, candidate) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			found = append(found, candidate)
		}
	}
	if len(found) == 0 {
		return nil, services.Wrap(services.ErrNotFound, "steamlib", "install paths", "Steam installation not found", nil)
	}
	return found, nil
}

// LibraryPaths returns every library folder listed in the libraryfolders.vdf
// of each Steam installation.
func (l *Locator) LibraryPaths() ([]string, error) {
	snap := l.libraries.Load()
	if paths, status := l.libraries.Get(snap, libraryKey); status == snapshot.Hit {
		return paths, nil
	}

	installs, err := l.InstallPaths()
	if err != nil {
		return nil, err
	}
	paths := []string{}
	for _, install := range installs {
		vdf := filepath.Join(install, "steamapps", "libraryfolders.vdf")
		data, err := os.ReadFile(vdf)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, services.Wrap(services.ErrNotFound, "steamlib", "library paths", "failed to read library metadata file", err)
		}
		for _, value := range valuesOf(QuotedStrings(string(data)), "path") {
			paths = append(paths, unescapePath(value))
		}
	}

	fresh := snapshot.New[string, []string]()
	fresh.Put(libraryKey, paths)
	fresh.Touch(l.libraries.Now())
	l.libraries.Save(fresh)
	return paths, nil
}

// AppInstallationPath returns steamapps/common/<installdir> for appID. Both
// successful and failed lookups are cached.
func (l *Locator) AppInstallationPath(appID uint32) (string, error) {
	snap := l.apps.Load()
	if cached, status := l.apps.Get(snap, appID); status == snapshot.Hit {
		return cached.result()
	}

	libraries, err := l.LibraryPaths()
	if err != nil {
		return "", services.Wrap(services.ErrNotFound, "steamlib", "app installation path", "failed to get Steam library paths", err)
	}
	found := l.findApp(appID, libraries)

	if !l.apps.Valid(snap) {
		snap = snapshot.New[uint32, AppPath]()
	}
	snap.Put(appID, found)
	snap.Touch(l.apps.Now())
	l.apps.Save(snap)
	return found.result()
}

func (l *Locator) findApp(appID uint32, libraries []string) AppPath {
	manifestName := "appmanifest_" + strconv.FormatUint(uint64(appID), 10) + ".acf"
	for _, library := range libraries {
		steamapps := filepath.Join(library, "steamapps")
		data, err := os.ReadFile(filepath.Join(steamapps, manifestName))
		if err != nil {
			continue
		}
		dirs := valuesOf(QuotedStrings(string(data)), "installdir")
		if len(dirs) == 0 {
			return AppPath{Error: fmt.Sprintf("found manifest file but couldn't parse installation directory for app %d", appID)}
		}
		full := filepath.Join(steamapps, "common", unescapePath(dirs[0]))
		if !exists(full) {
			return AppPath{Error: "installation directory exists in manifest but not on disk: " + full}
		}
		return AppPath{Path: full}
	}
	return AppPath{Error: fmt.Sprintf("app %d is not installed or manifest file not found", appID)}
}

func (p AppPath) result() (string, error) {
	if p.Path != "" {
		return p.Path, nil
	}
	return "", services.Wrap(services.ErrNotFound, "steamlib", "app installation path", p.Error, nil)
}

// WorkshopPath returns steamapps/workshop/content/<appID> in the first
// library that has it. A miss is cached as a negative entry.
func (l *Locator) WorkshopPath(appID uint32) (string, error) {
	notFound := services.Wrap(services.ErrNotFound, "steamlib", "workshop path", fmt.Sprintf("workshop path not found for app ID %d", appID), nil)

	snap := l.workshop.Load()
	switch path, status := l.workshop.Get(snap, appID); status {
	case snapshot.Hit:
		return path, nil
	case snapshot.NegativeHit:
		return "", notFound
	}

	libraries, err := l.LibraryPaths()
	if err != nil {
		l.logger.Debug("library lookup failed", logging.Error(err))
		return "", notFound
	}

	if !l.workshop.Valid(snap) {
		snap = snapshot.New[uint32, string]()
	}
	defer func() {
		snap.Touch(l.workshop.Now())
		l.workshop.Save(snap)
	}()

	id := strconv.FormatUint(uint64(appID), 10)
	for _, library := range libraries {
		candidate := filepath.Join(library, "steamapps", "workshop", "content", id)
		if exists(candidate) {
			snap.Put(appID, candidate)
			return candidate, nil
		}
	}
	snap.MarkMissing(appID)
	return "", notFound
}

// Clear removes every path cache.
func (l *Locator) Clear() error {
	for _, fn := range []func() error{l.libraries.Clear, l.apps.Clear, l.workshop.Clear} {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}
