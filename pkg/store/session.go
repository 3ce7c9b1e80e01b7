package store

import (
	"context"
	"encoding/json"
	"time"

	errs "github.com/matzehuels/mapgraph/pkg/errors"
	"github.com/matzehuels/mapgraph/pkg/history"
	mgio "github.com/matzehuels/mapgraph/pkg/io"
)

const sessionVersion = 1

type sessionRecord struct {
	Version   int              `json:"version"`
	Index     int              `json:"index"`
	Snapshots []snapshotRecord `json:"snapshots"`
	SavedAt   time.Time        `json:"saved_at"`
}

type snapshotRecord struct {
	Name  string          `json:"name"`
	Time  time.Time       `json:"time"`
	Graph json.RawMessage `json:"graph"`
}

// SessionKey returns the store key of a session.
func SessionKey(name string) string { return "session:" + name }

// SaveSession stores every snapshot of h and its cursor under name.
func SaveSession(ctx context.Context, s Store, name string, h *history.History, ttl time.Duration) error {
	if err := errs.ValidateSessionName(name); err != nil {
		return err
	}
	snaps, index := h.Snapshots()
	rec := sessionRecord{
		Version:   sessionVersion,
		Index:     index,
		Snapshots: make([]snapshotRecord, len(snaps)),
		SavedAt:   time.Now().UTC(),
	}
	for i, snap := range snaps {
		data, err := mgio.Marshal(snap.Graph)
		if err != nil {
			return errs.Wrap(errs.ErrCodeInternal, err, "encode snapshot %d", i)
		}
		rec.Snapshots[i] = snapshotRecord{Name: snap.Name, Time: snap.Time, Graph: data}
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "encode session")
	}
	if err := s.Set(ctx, SessionKey(name), data, ttl); err != nil {
		return errs.Wrap(errs.ErrCodeStore, err, "save session %s", name)
	}
	return nil
}

// LoadSession restores the history saved under name.
func LoadSession(ctx context.Context, s Store, name string, opts history.Options) (*history.History, error) {
	if err := errs.ValidateSessionName(name); err != nil {
		return nil, err
	}
	data, ok, err := s.Get(ctx, SessionKey(name))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStore, err, "load session %s", name)
	}
	if !ok {
		return nil, errs.New(errs.ErrCodeSessionNotFound, "session %s not found", name)
	}

	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode session %s", name)
	}
	if rec.Version != sessionVersion {
		return nil, errs.New(errs.ErrCodeUnsupported, "session %s has version %d, want %d", name, rec.Version, sessionVersion)
	}
	snaps := make([]history.Snapshot, len(rec.Snapshots))
	for i, r := range rec.Snapshots {
		g, err := mgio.Unmarshal(r.Graph)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "session %s snapshot %d", name, i)
		}
		snaps[i] = history.Snapshot{Graph: g, Name: r.Name, Time: r.Time}
	}
	return history.Restore(snaps, rec.Index, opts), nil
}

// DeleteSession removes the session saved under name.
func DeleteSession(ctx context.Context, s Store, name string) error {
	if err := errs.ValidateSessionName(name); err != nil {
		return err
	}
	if err := s.Delete(ctx, SessionKey(name)); err != nil {
		return errs.Wrap(errs.ErrCodeStore, err, "delete session %s", name)
	}
	return nil
}
