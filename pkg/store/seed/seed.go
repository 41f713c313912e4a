// Package seed loads fixture data into an in-memory store.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/de-tools/audit-atlas/pkg/adapters"
	"github.com/de-tools/audit-atlas/pkg/models/domain"
	"github.com/de-tools/audit-atlas/pkg/models/store"
	"github.com/de-tools/audit-atlas/pkg/store/memory"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultSeed []byte

// Default returns the built-in demo portfolio.
func Default() (*store.Seed, error) {
	return Decode(bytes.NewReader(defaultSeed))
}

func LoadFile(path string) (*store.Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

func Decode(r io.Reader) (*store.Seed, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s store.Seed
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	if s.Version > domain.SchemaVersion {
		return nil, fmt.Errorf("seed schema version %d is newer than supported version %d", s.Version, domain.SchemaVersion)
	}
	return &s, nil
}

// Apply inserts the seed into st parents first. Working papers go in without
// their issue link, which is restored once the issues exist so the
// bidirectional check can run.
func Apply(ctx context.Context, st memory.Store, s *store.Seed) error {
	logger := zerolog.Ctx(ctx)

	for _, r := range s.Projects {
		p, err := adapters.MapStoreProjectToDomain(r)
		if err != nil {
			return fmt.Errorf("project %s: %w", r.ID, err)
		}
		if err := st.AddProject(ctx, p); err != nil {
			return fmt.Errorf("add project: %w", err)
		}
	}

	for _, r := range s.Programmes {
		if err := st.AddProgramme(ctx, adapters.MapStoreProgrammeToDomain(r)); err != nil {
			return fmt.Errorf("add programme: %w", err)
		}
	}

	links := map[string]string{}
	for _, r := range s.WorkingPapers {
		wp, err := adapters.MapStoreWorkingPaperToDomain(r)
		if err != nil {
			return fmt.Errorf("working paper %s: %w", r.ID, err)
		}
		if wp.IssueID != "" {
			links[wp.ID] = wp.IssueID
			wp.IssueID = ""
		}
		if err := st.AddWorkingPaper(ctx, wp); err != nil {
			return fmt.Errorf("add working paper: %w", err)
		}
	}

	for _, r := range s.Issues {
		issue, err := adapters.MapStoreIssueToDomain(r)
		if err != nil {
			return fmt.Errorf("issue %s: %w", r.ID, err)
		}
		if err := st.AppendIssue(ctx, issue); err != nil {
			return fmt.Errorf("append issue: %w", err)
		}
	}

	err := st.Update(ctx, func(tx memory.Tx) error {
		for _, r := range s.WorkingPapers {
			issueID, ok := links[r.ID]
			if !ok {
				continue
			}
			wp, _ := tx.GetWorkingPaper(r.ID)
			wp.IssueID = issueID
			if err := tx.PutWorkingPaper(wp); err != nil {
				return fmt.Errorf("link %s to %s: %w", r.ID, issueID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Debug().
		Int("projects", len(s.Projects)).
		Int("programmes", len(s.Programmes)).
		Int("working_papers", len(s.WorkingPapers)).
		Int("issues", len(s.Issues)).
		Msg("seed applied")
	return nil
}

// NewSeededStore builds a store from the seed at path, or from the built-in
// seed when path is empty.
func NewSeededStore(ctx context.Context, path string) (memory.Store, error) {
	var (
		s   *store.Seed
		err error
	)
	if path == "" {
		s, err = Default()
	} else {
		s, err = LoadFile(path)
	}
	if err != nil {
		return nil, err
	}

	st := memory.NewStore()
	if err := Apply(ctx, st, s); err != nil {
		return nil, err
	}
	return st, nil
}
