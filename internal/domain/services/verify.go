package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ersonp/entref/internal/domain/entities"
	"github.com/ersonp/entref/internal/domain/ports"
)

// VerifyReport summarizes a successful verification.
type VerifyReport struct {
	BaseCount int
	FullCount int
	// BuildID is the recorded build whose digests the tables match.
	// Empty when no build was recorded for the output directory.
	BuildID string
}

// VerifyService checks persisted tables against the compiler's guarantees.
type VerifyService struct {
	store   ports.TableStore
	history ports.BuildHistory
	logger  *slog.Logger
}

// NewVerifyService creates a new verify service. history may be nil.
func NewVerifyService(store ports.TableStore, history ports.BuildHistory, logger *slog.Logger) *VerifyService {
	return &VerifyService{
		store:   store,
		history: history,
		logger:  logger,
	}
}

// Verify loads both tables and checks each one. When the output directory
// has a recorded build, the files must also match its digests.
func (s *VerifyService) Verify(ctx context.Context) (*VerifyReport, error) {
	tables, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading tables: %w", err)
	}

	err = tables.Each(func(t entities.Table) error {
		s.logger.Debug("verifying table", slog.String("group", string(t.Group)), slog.Int("records", t.Len()))
		return VerifyTable(t)
	})
	if err != nil {
		return nil, err
	}

	report := &VerifyReport{
		BaseCount: tables.Base.Len(),
		FullCount: tables.Full.Len(),
	}

	if s.history == nil {
		return report, nil
	}

	build, err := s.history.LatestBuild(ctx, s.store.Dir())
	if err != nil {
		return nil, fmt.Errorf("finding latest build: %w", err)
	}
	if build == nil {
		s.logger.Debug("no recorded build", slog.String("dir", s.store.Dir()))
		return report, nil
	}

	if err := s.verifyDigests(build); err != nil {
		return nil, err
	}
	report.BuildID = build.ID

	return report, nil
}

// verifyDigests compares the stored files with the digests recorded for build.
func (s *VerifyService) verifyDigests(build *entities.Build) error {
	expected := map[entities.Group]string{
		entities.GroupFull: build.FullDigest,
		entities.GroupBase: build.BaseDigest,
	}

	for _, group := range []entities.Group{entities.GroupFull, entities.GroupBase} {
		digest, err := s.store.DigestFile(group)
		if err != nil {
			return fmt.Errorf("hashing tables: %w", err)
		}
		if digest != expected[group] {
			return fmt.Errorf("%w: %s table is %s, build %s recorded %s",
				entities.ErrDigestMismatch, group, digest, build.ID, expected[group])
		}
	}

	return nil
}

// VerifyTable checks name order, codeIndex bijection and that every codeIndex
// matches the record's rank in a freshly computed codepoint order.
func VerifyTable(t entities.Table) error {
	n := t.Len()
	seen := make([]bool, n)

	for i, r := range t.Records {
		line := i + 1
		if r.Group != t.Group {
			return invalidTable(t.Group, line, "record %q belongs to group %s", r.Name, r.Group)
		}
		if len(r.Codepoints) < entities.MinCodepoints || len(r.Codepoints) > entities.MaxCodepoints {
			return invalidTable(t.Group, line, "record %q has %d codepoints", r.Name, len(r.Codepoints))
		}
		if i > 0 && CompareByName(t.Records[i-1], r) >= 0 {
			return invalidTable(t.Group, line, "%q does not sort after %q", r.Name, t.Records[i-1].Name)
		}
		if r.CodeIndex < 0 || r.CodeIndex >= n {
			return invalidTable(t.Group, line, "code index %d out of range [0, %d)", r.CodeIndex, n)
		}
		if seen[r.CodeIndex] {
			return invalidTable(t.Group, line, "code index %d used twice", r.CodeIndex)
		}
		seen[r.CodeIndex] = true
	}

	for rank, r := range SortByCode(t.Records) {
		if r.CodeIndex != rank {
			return invalidTable(t.Group, 0, "record %q has code index %d, codepoint rank is %d", r.Name, r.CodeIndex, rank)
		}
	}

	return nil
}

func invalidTable(group entities.Group, line int, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if line > 0 {
		return fmt.Errorf("%w: %s line %d: %s", entities.ErrInvalidTable, group, line, msg)
	}
	return fmt.Errorf("%w: %s: %s", entities.ErrInvalidTable, group, msg)
}
