// Package prune removes a database subtree behind a dry-run and confirmation gate.
//
// Import Path: github.com/sungjintrb/rtdb-admin/internal/prune
package prune

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/sungjintrb/rtdb-admin/internal/domain"
	apperrors "github.com/sungjintrb/rtdb-admin/internal/pkg/errors"
)

// DefaultSampleSize is how many child keys are shown before deleting.
const DefaultSampleSize = 20

// Options controls one removal.
type Options struct {
	Path       string
	DryRun     bool
	Confirm    bool
	BackupFile string
	// SampleSize caps the listed child keys. Zero lists none.
	SampleSize int
}

// Result describes the target and what happened to it.
type Result struct {
	Path       string   `json:"path" yaml:"path"`
	Exists     bool     `json:"exists" yaml:"exists"`
	Count      int      `json:"count" yaml:"count"`
	Sample     []string `json:"sample" yaml:"sample"`
	DryRun     bool     `json:"dry_run" yaml:"dry_run"`
	Deleted    bool     `json:"deleted" yaml:"deleted"`
	BackupFile string   `json:"backup_file,omitempty" yaml:"backup_file,omitempty"`
}

// Pruner lists and removes subtrees of a store.
type Pruner struct {
	store domain.Store
	log   *zap.Logger
}

// New creates a Pruner.
func New(store domain.Store, log *zap.Logger) *Pruner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pruner{store: store, log: log}
}

// Run lists the children of opts.Path and removes the subtree when confirmed.
// A missing path and a dry run both succeed without writing. An unconfirmed
// removal returns a CONFIRMATION_REQUIRED error alongside the listing.
func (p *Pruner) Run(ctx context.Context, opts Options) (*Result, error) {
	target := domain.CleanPath(opts.Path)
	if target == "" {
		return nil, apperrors.PathInvalid(opts.Path, "refusing to remove the database root")
	}
	res := &Result{Path: "/" + target, DryRun: opts.DryRun}
	log := p.log.With(zap.String("path", res.Path))
	log.Info("target path", zap.Bool("dry_run", opts.DryRun))

	keys, exists, err := p.store.Keys(ctx, target)
	if err != nil {
		return nil, apperrors.StoreReadFailed(err, target)
	}
	if !exists {
		log.Info("path does not exist")
		return res, nil
	}
	res.Exists = true
	res.Count = len(keys)
	res.Sample = keys[:min(max(opts.SampleSize, 0), len(keys))]
	log.Info("found children", zap.Int("count", res.Count), zap.Strings("sample", res.Sample))

	if opts.DryRun {
		log.Info("dry run complete, no data was modified")
		return res, nil
	}
	if !opts.Confirm {
		return res, apperrors.ConfirmationRequired(res.Path)
	}

	if opts.BackupFile != "" {
		if err := p.backup(ctx, target, opts.BackupFile); err != nil {
			return res, apperrors.BackupFailed(err, target)
		}
		res.BackupFile = opts.BackupFile
		log.Info("backed up subtree", zap.String("backup_file", opts.BackupFile))
	}

	log.Info("deleting children", zap.Int("count", res.Count))
	if err := p.store.Remove(ctx, target); err != nil {
		log.Error("failed to delete path", zap.Error(err))
		return res, apperrors.DeleteFailed(err, target)
	}
	res.Deleted = true
	log.Info("delete complete")
	return res, nil
}

func (p *Pruner) backup(ctx context.Context, target, file string) error {
	var value any
	if _, err := p.store.Read(ctx, target, &value); err != nil {
		return err
	}
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}
	if err := os.WriteFile(file, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	return nil
}
