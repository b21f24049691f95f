package namespace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rpggio/procboard/internal/domain/process"
)

// Coordinator is the only component that changes the set of physical
// namespaces. It creates them lazily, renames them after the registry
// commits a rename, and drops them on cascading delete.
//
// Structural operations on one process name exclude each other and any
// in-flight resource operation on that name. Different names never contend.
type Coordinator struct {
	store    Store
	registry Registry
	cache    *Cache
	locks    *lockTable
	metrics  *Metrics
	logger   *slog.Logger
}

// NewCoordinator creates a coordinator over store and registry.
func NewCoordinator(store Store, registry Registry, metrics *Metrics, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Coordinator{
		store:    store,
		registry: registry,
		cache:    NewCache(),
		locks:    newLockTable(),
		metrics:  metrics,
		logger:   logger,
	}
}

// Scope gives a resource operation access to one process's namespaces
// while the coordinator holds that process's shared lock.
type Scope interface {
	// Process is the canonical name the scope is bound to.
	Process() string
	// Ensure returns the handle for kind, creating the namespace if needed.
	Ensure(ctx context.Context, kind Kind) (Handle, error)
	// Lookup returns the handle for kind without creating it. The bool is
	// false when the namespace does not exist yet.
	Lookup(ctx context.Context, kind Kind) (Handle, bool, error)
}

type scope struct {
	c    *Coordinator
	name string
}

func (s *scope) Process() string { return s.name }

func (s *scope) Ensure(ctx context.Context, kind Kind) (Handle, error) {
	return s.c.ensure(ctx, s.name, kind)
}

func (s *scope) Lookup(ctx context.Context, kind Kind) (Handle, bool, error) {
	return s.c.lookup(ctx, s.name, kind)
}

// Ensure returns a handle to the namespace of kind for the named process,
// creating the namespace on first use. Concurrent callers for the same
// namespace share one creation and receive the same handle.
func (c *Coordinator) Ensure(ctx context.Context, name string, kind Kind) (Handle, error) {
	unlock := c.locks.RLock(name)
	defer unlock()
	return c.ensure(ctx, name, kind)
}

// Use runs fn against the named process's namespaces. The process must
// exist in the registry; rename and delete of that name wait until fn returns.
func (c *Coordinator) Use(ctx context.Context, name string, fn func(Scope) error) error {
	unlock := c.locks.RLock(name)
	defer unlock()
	return c.use(ctx, name, fn)
}

// UseExclusive is Use holding the process's exclusive lock, for resource
// operations that must not interleave with other resource operations on
// the same process, such as a cascade across two namespaces.
func (c *Coordinator) UseExclusive(ctx context.Context, name string, fn func(Scope) error) error {
	unlock := c.locks.Lock(name)
	defer unlock()
	return c.use(ctx, name, fn)
}

func (c *Coordinator) use(ctx context.Context, name string, fn func(Scope) error) error {
	proc, err := c.registry.Get(ctx, name)
	if err != nil {
		return err
	}
	return fn(&scope{c: c, name: proc.Name})
}

func (c *Coordinator) ensure(ctx context.Context, name string, kind Kind) (Handle, error) {
	id := Derive(name, kind)
	return c.cache.GetOrCreate(ctx, cacheKey(id), func(ctx context.Context) (Handle, error) {
		exists, err := c.store.Exists(ctx, id)
		if err != nil {
			return Handle{}, fmt.Errorf("probing namespace %s: %w", id, err)
		}
		if !exists {
			if err := c.store.Create(ctx, id, kind); err != nil {
				return Handle{}, fmt.Errorf("creating namespace %s: %w", id, err)
			}
			c.metrics.observeCreate(kind)
			c.logger.Info("namespace created", kindAttrs(name, kind, id)...)
		}
		return Handle{Namespace: id, Kind: kind}, nil
	})
}

func (c *Coordinator) lookup(ctx context.Context, name string, kind Kind) (Handle, bool, error) {
	id := Derive(name, kind)
	if h, ok := c.cache.Get(cacheKey(id)); ok {
		return h, true, nil
	}
	exists, err := c.store.Exists(ctx, id)
	if err != nil {
		return Handle{}, false, fmt.Errorf("probing namespace %s: %w", id, err)
	}
	if !exists {
		return Handle{}, false, nil
	}
	h, err := c.cache.GetOrCreate(ctx, cacheKey(id), func(context.Context) (Handle, error) {
		return Handle{Namespace: id, Kind: kind}, nil
	})
	if err != nil {
		return Handle{}, false, err
	}
	return h, true, nil
}

// UpdateProcess applies patch to the named process. When the patch changes
// the name, the registry row is renamed first and every derived namespace
// is then reconciled; the returned report is nil for a plain update.
//
// A non-nil report with HasFailures means the registry rename is committed
// but some namespaces still carry the old name. RetryRename reconciles them.
func (c *Coordinator) UpdateProcess(ctx context.Context, name string, patch process.Patch) (*process.Process, *RenameReport, error) {
	names := []string{name}
	if patch.Name != nil {
		names = append(names, strings.TrimSpace(*patch.Name))
	}
	unlock := c.locks.Lock(names...)
	defer unlock()

	current, err := c.registry.Get(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	proc, err := c.registry.Update(ctx, current.Name, patch)
	if err != nil {
		return nil, nil, err
	}
	if proc.Name == current.Name {
		return proc, nil, nil
	}
	c.logger.Info("process renamed", "from", current.Name, "to", proc.Name)

	return proc, c.reconcileRename(ctx, current.Name, proc.Name), nil
}

// RetryRename re-runs namespace reconciliation for a rename the registry
// already committed. Kinds that were renamed earlier report skipped_absent.
func (c *Coordinator) RetryRename(ctx context.Context, oldName, newName string) (*RenameReport, error) {
	oldName, newName = strings.TrimSpace(oldName), strings.TrimSpace(newName)
	if oldName == "" || newName == "" || oldName == newName {
		return nil, fmt.Errorf("%w: distinct old and new names are required", process.ErrInvalidInput)
	}

	unlock := c.locks.Lock(oldName, newName)
	defer unlock()

	proc, err := c.registry.Get(ctx, newName)
	if err != nil {
		return nil, err
	}
	// A case-only rename finds the renamed process under the old name too.
	if other, err := c.registry.Get(ctx, oldName); err == nil {
		if other.ID != proc.ID {
			return nil, fmt.Errorf("%w: %q is still registered", process.ErrDuplicateName, oldName)
		}
	} else if !errors.Is(err, process.ErrProcessNotFound) {
		return nil, err
	}

	return c.reconcileRename(ctx, oldName, proc.Name), nil
}

func (c *Coordinator) reconcileRename(ctx context.Context, oldName, newName string) *RenameReport {
	report := &RenameReport{OldName: oldName, NewName: newName}
	stale := make([]string, 0, 2*len(Kinds()))

	for _, kind := range Kinds() {
		from, to := Derive(oldName, kind), Derive(newName, kind)
		stale = append(stale, cacheKey(from), cacheKey(to))

		res := KindResult{Kind: kind, Namespace: from, Target: to}
		exists, err := c.store.Exists(ctx, from)
		switch {
		case err != nil:
			res.Outcome, res.Reason = OutcomeFailed, err.Error()
		case !exists:
			res.Outcome = OutcomeSkippedAbsent
		default:
			if err := c.store.Rename(ctx, from, to); err != nil {
				res.Outcome, res.Reason = OutcomeFailed, err.Error()
			} else {
				res.Outcome = OutcomeRenamed
			}
		}

		c.metrics.observe("rename", res)
		c.logKind("namespace rename", newName, res)
		report.Kinds = append(report.Kinds, res)
	}

	c.cache.Invalidate(stale...)
	return report
}

// DeleteProcess removes the process's metadata row and drops every derived
// namespace that exists. A missing metadata row does not stop the drops.
// process.ErrProcessNotFound is returned only when neither the row nor any
// namespace existed.
//
// Namespaces are derived from the registered name when the row exists, so a
// differently cased name reaches the same process and only its namespaces.
func (c *Coordinator) DeleteProcess(ctx context.Context, name string) (*DeleteReport, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", process.ErrInvalidInput)
	}

	unlock := c.locks.Lock(name)
	defer unlock()

	report := &DeleteReport{Name: name}
	proc, err := c.registry.Delete(ctx, name)
	switch {
	case err == nil:
		report.Metadata = MetadataDeleted
		report.Process = proc
		report.Name = proc.Name
	case errors.Is(err, process.ErrProcessNotFound):
		report.Metadata = MetadataAlreadyAbsent
	default:
		return nil, err
	}

	stale := make([]string, 0, len(Kinds()))
	for _, kind := range Kinds() {
		ns := Derive(report.Name, kind)
		stale = append(stale, cacheKey(ns))

		res := KindResult{Kind: kind, Namespace: ns}
		exists, err := c.store.Exists(ctx, ns)
		switch {
		case err != nil:
			res.Outcome, res.Reason = OutcomeFailed, err.Error()
		case !exists:
			res.Outcome = OutcomeSkippedAbsent
		default:
			if err := c.store.Drop(ctx, ns); err != nil {
				res.Outcome, res.Reason = OutcomeFailed, err.Error()
			} else {
				res.Outcome = OutcomeDropped
			}
		}

		c.metrics.observe("delete", res)
		c.logKind("namespace drop", report.Name, res)
		report.Kinds = append(report.Kinds, res)
	}
	c.cache.Invalidate(stale...)

	if report.nothingFound() {
		return nil, process.ErrProcessNotFound
	}
	c.logger.Info("process deleted", "process", report.Name, "metadata", report.Metadata)
	return report, nil
}

func (c *Coordinator) logKind(msg, name string, res KindResult) {
	attrs := append(kindAttrs(name, res.Kind, res.Namespace), slog.String("outcome", string(res.Outcome)))
	if res.Outcome == OutcomeFailed {
		c.logger.Warn(msg, append(attrs, slog.String("reason", res.Reason))...)
		return
	}
	c.logger.Debug(msg, attrs...)
}

// cacheKey folds case so handles of one process share entries however the
// name was spelled by the caller.
func cacheKey(ns string) string {
	return strings.ToLower(ns)
}
