package matching

import (
	"context"
	"log/slog"
	"sort"

	"github.com/courtsidepicks/bracket-sync/models"
)

const (
	// DefaultThreshold is the minimum score Resolve accepts as a match.
	DefaultThreshold = 0.75
	// cacheWriteThreshold is the score above which the match is confident
	// enough to persist the external id on the catalog team.
	cacheWriteThreshold = 0.9
)

// TeamCatalog is the single write the resolver ever performs against the
// catalog collaborator: caching a confirmed source-scoped external id.
type TeamCatalog interface {
	SetExternalID(ctx context.Context, teamID int, source, externalID string) error
}

// ResolveOptions tunes a resolve call. Persist=false (dry runs) suppresses the
// catalog cache write.
type ResolveOptions struct {
	Threshold float64
	Persist   bool
}

func (o ResolveOptions) threshold() float64 {
	if o.Threshold <= 0 {
		return DefaultThreshold
	}
	return o.Threshold
}

type Resolver struct {
	catalog TeamCatalog
	logger  *slog.Logger
}

func NewResolver(catalog TeamCatalog, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{catalog: catalog, logger: logger}
}

// Resolve scores the external record against every candidate and returns the
// best match at or above the threshold, or nil. No match is a normal outcome,
// not an error; the only error surface is context cancellation of the cache
// write, which is logged and swallowed (the match itself still stands).
func (r *Resolver) Resolve(ctx context.Context, external models.ExternalTeamRecord, candidates []*models.Team, source string, opts ResolveOptions) *models.MatchResult {
	best := r.scoreAll(external, candidates, source)
	if best == nil || best.Confidence < opts.threshold() {
		return nil
	}

	if opts.Persist && best.Confidence >= cacheWriteThreshold && external.ExternalID != "" && r.catalog != nil {
		if _, cached := best.Team.ExternalIDFor(source); !cached {
			if err := r.catalog.SetExternalID(ctx, best.TeamID, source, external.ExternalID); err != nil {
				r.logger.Warn("failed to cache external team id",
					slog.Int("team_id", best.TeamID),
					slog.String("source", source),
					slog.String("external_id", external.ExternalID),
					slog.Any("error", err))
			} else {
				// Mirror the write in memory so later lookups against the
				// same candidate list take the exact-id fast path.
				if best.Team.ExternalIDs == nil {
					best.Team.ExternalIDs = make(map[string]string, 1)
				}
				best.Team.ExternalIDs[source] = external.ExternalID
			}
		}
	}
	return best
}

// ResolveBatch resolves each record in order, memoizing by external id so a
// record seen earlier in the batch (or already cached at ≥0.9 confidence)
// resolves in O(1). The returned map is keyed by external id, falling back to
// display name for records without one.
func (r *Resolver) ResolveBatch(ctx context.Context, externals []models.ExternalTeamRecord, candidates []*models.Team, source string, opts ResolveOptions) map[string]*models.MatchResult {
	results := make(map[string]*models.MatchResult, len(externals))
	for _, external := range externals {
		key := batchKey(external)
		if _, seen := results[key]; seen {
			continue
		}
		results[key] = r.Resolve(ctx, external, candidates, source, opts)
	}
	return results
}

// Suggest returns the topN highest-scoring candidates regardless of threshold,
// for manual review of unmatched teams. Never filters.
func (r *Resolver) Suggest(external models.ExternalTeamRecord, candidates []*models.Team, source string, topN int) []models.MatchResult {
	scored := make([]models.MatchResult, 0, len(candidates))
	for _, c := range candidates {
		scored = append(scored, models.MatchResult{
			TeamID:     c.ID,
			Confidence: MatchScore(external, c, source),
			Team:       c,
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Confidence > scored[j].Confidence
	})
	if topN > 0 && len(scored) > topN {
		scored = scored[:topN]
	}
	return scored
}

func (r *Resolver) scoreAll(external models.ExternalTeamRecord, candidates []*models.Team, source string) *models.MatchResult {
	var best *models.MatchResult
	for _, c := range candidates {
		score := MatchScore(external, c, source)
		if best == nil || score > best.Confidence {
			best = &models.MatchResult{TeamID: c.ID, Confidence: score, Team: c}
		}
	}
	return best
}

func batchKey(external models.ExternalTeamRecord) string {
	if external.ExternalID != "" {
		return external.ExternalID
	}
	return external.DisplayName
}
