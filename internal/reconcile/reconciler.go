// Package reconcile finds identities that have no profile and creates one for each.
//
// The run is strictly sequential: one identity is fully processed (existence
// check, name derivation, uniqueness check, profile write, index write) before
// the next is read. The profile and index writes are not atomic; a failure
// between them leaves a profile without an index entry, which is reported as
// "partial" and not repaired. Re-running is safe because identities that already
// have a profile are skipped before anything is written.
//
// Import Path: github.com/sungjintrb/rtdb-admin/internal/reconcile
package reconcile

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sungjintrb/rtdb-admin/internal/domain"
	apperrors "github.com/sungjintrb/rtdb-admin/internal/pkg/errors"
)

// Defaults used when Options leaves a field zero.
const (
	DefaultPageSize          = 1000
	DefaultMaxUniqueAttempts = 10000
)

// Options configures a Reconciler.
type Options struct {
	PageSize          int
	MaxUniqueAttempts int
	ProfilesRoot      string
	NameIndexRoot     string
	DryRun            bool
}

func (o Options) withDefaults() Options {
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.MaxUniqueAttempts <= 0 {
		o.MaxUniqueAttempts = DefaultMaxUniqueAttempts
	}
	if domain.CleanPath(o.ProfilesRoot) == "" {
		o.ProfilesRoot = domain.DefaultProfilesRoot
	}
	if domain.CleanPath(o.NameIndexRoot) == "" {
		o.NameIndexRoot = domain.DefaultNameIndexRoot
	}
	o.ProfilesRoot = domain.CleanPath(o.ProfilesRoot)
	o.NameIndexRoot = domain.CleanPath(o.NameIndexRoot)
	return o
}

// Reconciler creates missing profiles for identities in a directory.
type Reconciler struct {
	dir   domain.IdentityDirectory
	store domain.ProfileStore
	opts  Options
	log   *zap.Logger

	// planned holds usernames handed out during a dry run, which never reach the store.
	planned map[string]struct{}
}

// New creates a Reconciler. A nil logger disables logging.
func New(dir domain.IdentityDirectory, store domain.ProfileStore, log *zap.Logger, opts Options) *Reconciler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{
		dir:   dir,
		store: store,
		opts:  opts.withDefaults(),
		log:   log,
	}
}

// ReconcileAll scans the whole directory and creates a profile and a username
// index entry for every identity that has no profile.
//
// Per-record write failures are recorded in the report and the scan continues.
// A directory failure (SCAN_FAILED) or a failed store read (STORE_READ_FAILED)
// ends the run; the returned report then covers the records processed so far.
func (r *Reconciler) ReconcileAll(ctx context.Context) (*Report, error) {
	runID, err := uuid.NewV7()
	if err != nil {
		runID = uuid.New()
	}
	report := &Report{RunID: runID.String(), DryRun: r.opts.DryRun, Records: []RecordResult{}}
	log := r.log.With(zap.String("run_id", report.RunID))
	r.planned = make(map[string]struct{})

	log.Info("scanning identity directory",
		zap.Int("page_size", r.opts.PageSize),
		zap.String("profiles_root", r.opts.ProfilesRoot),
		zap.String("name_index_root", r.opts.NameIndexRoot),
		zap.Bool("dry_run", r.opts.DryRun),
	)

	for rec, err := range Identities(ctx, r.dir, r.opts.PageSize) {
		if err != nil {
			log.Error("identity directory scan failed", zap.Error(err), zap.Int("scanned", report.Scanned))
			return report, err
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Scanned++

		res, err := r.reconcileOne(ctx, log, rec)
		if err != nil {
			log.Error("profile store read failed", zap.String("uid", rec.UID), zap.Error(err))
			return report, err
		}
		if res == nil {
			continue
		}
		report.Orphans++
		report.add(*res)
	}

	log.Info("reconciliation complete",
		zap.Int("scanned", report.Scanned),
		zap.Int("orphans", report.Orphans),
		zap.Int("created", report.Created),
		zap.Int("partial", report.Partial),
		zap.Int("failed", report.Failed),
		zap.Int("planned", report.Planned),
	)
	return report, nil
}

// reconcileOne processes a single identity. It returns nil when the identity
// already has a profile, and an error only for failures that end the run.
func (r *Reconciler) reconcileOne(ctx context.Context, log *zap.Logger, rec domain.IdentityRecord) (*RecordResult, error) {
	profilePath := domain.JoinPath(r.opts.ProfilesRoot, rec.UID)
	exists, err := r.store.Exists(ctx, profilePath)
	if err != nil {
		return nil, apperrors.StoreReadFailed(err, profilePath)
	}
	if exists {
		return nil, nil
	}

	log = log.With(zap.String("uid", rec.UID))
	log.Info("orphan identity found", zap.String("email", rec.Email))
	res := &RecordResult{UID: rec.UID, Email: rec.Email}

	base := BaseName(rec)
	username, err := r.EnsureUnique(ctx, base)
	if err != nil {
		if !errors.Is(err, apperrors.ErrUsernameExhausted) {
			return nil, err
		}
		log.Error("failed to create profile", zap.String("base", base), zap.Error(err))
		res.Status, res.Error = StatusFailed, err.Error()
		return res, nil
	}
	res.Username = username

	if r.opts.DryRun {
		r.planned[username] = struct{}{}
		log.Info("dry run: would create profile", zap.String("username", username))
		res.Status = StatusPlanned
		return res, nil
	}

	profile := domain.NewProfile(rec, username)
	log.Info("creating profile", zap.String("username", username))

	if err := r.store.Write(ctx, profilePath, profile); err != nil {
		werr := apperrors.ProfileWriteFailed(err, rec.UID)
		log.Error("failed to create profile", zap.String("username", username), zap.Error(werr))
		res.Status, res.Error = StatusFailed, werr.Error()
		return res, nil
	}

	indexPath := domain.JoinPath(r.opts.NameIndexRoot, username)
	if err := r.store.Write(ctx, indexPath, profile.IndexEntry(rec.UID)); err != nil {
		werr := apperrors.IndexWriteFailed(err, rec.UID, username)
		log.Error("profile written without username index entry",
			zap.String("username", username), zap.Error(werr))
		res.Status, res.Error = StatusPartial, werr.Error()
		return res, nil
	}

	log.Info("created profile and username index entry", zap.String("username", username))
	res.Status = StatusCreated
	return res, nil
}

// EnsureUnique returns the first of base, base1, base2, ... that has no entry
// in the username index, checking one name per sequential read. An empty base
// becomes "user". After MaxUniqueAttempts candidates it gives up with
// USERNAME_EXHAUSTED.
//
// Two concurrent runs can both see the same free name; a single writer is assumed.
func (r *Reconciler) EnsureUnique(ctx context.Context, base string) (string, error) {
	if base == "" {
		base = defaultBase
	}
	candidate := base
	for i := 0; i < r.opts.MaxUniqueAttempts; i++ {
		if i > 0 {
			candidate = base + strconv.Itoa(i)
		}
		if _, taken := r.planned[candidate]; taken {
			continue
		}
		path := domain.JoinPath(r.opts.NameIndexRoot, candidate)
		exists, err := r.store.Exists(ctx, path)
		if err != nil {
			return "", apperrors.StoreReadFailed(err, path)
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", apperrors.UsernameExhausted(base, r.opts.MaxUniqueAttempts)
}
