package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/baniere/baniere-api/internal/dto"
	"github.com/baniere/baniere-api/internal/models"
	"github.com/baniere/baniere-api/pkg/config"
	appErrors "github.com/baniere/baniere-api/pkg/errors"
)

// sectionPoolProvider resolves requested course codes into candidate
// section pools.
type sectionPoolProvider interface {
	PoolsFor(ctx context.Context, codes []string) (map[string][]models.Section, error)
}

// generationCache stores finished generation results keyed by request hash.
type generationCache interface {
	GetResult(ctx context.Context, key string, dest interface{}) (bool, error)
	SetResult(ctx context.Context, key string, value interface{}) error
}

// generatorMetrics records search observations.
type generatorMetrics interface {
	ObserveSearch(duration time.Duration, found int, limitReached bool)
	RecordLargeSearchSpace()
}

// GeneratorService runs the schedule search: filter pools, precompute the
// conflict matrix, backtrack over one-section-per-course assignments, then
// score and rank what survives.
type GeneratorService struct {
	catalog   sectionPoolProvider
	cache     generationCache
	metrics   generatorMetrics
	filters   *FilterEngine
	validator *validator.Validate
	logger    *zap.Logger
	cfg       config.GeneratorConfig
}

// NewGeneratorService constructs a generator service.
func NewGeneratorService(
	catalog sectionPoolProvider,
	cache generationCache,
	metrics generatorMetrics,
	logger *zap.Logger,
	cfg config.GeneratorConfig,
) *GeneratorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeneratorService{
		catalog:   catalog,
		cache:     cache,
		metrics:   metrics,
		filters:   NewFilterEngine(logger),
		validator: validator.New(),
		logger:    logger,
		cfg:       cfg,
	}
}

// Generate validates the request, resolves section pools and runs the
// search. Results are cached by request hash when a cache is wired.
func (s *GeneratorService) Generate(ctx context.Context, req *dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation request")
	}

	if s.cfg.MaxCourses > 0 && len(req.Courses) > s.cfg.MaxCourses {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("at most %d courses per request, got %d", s.cfg.MaxCourses, len(req.Courses)))
	}

	if err := ValidateFilters(&req.Filters); err != nil {
		return nil, err
	}

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = s.cfg.DefaultMaxResults
	}
	if s.cfg.HardCap > 0 && maxResults > s.cfg.HardCap {
		maxResults = s.cfg.HardCap
	}

	cacheKey := s.requestKey(req, maxResults)
	if s.cache != nil {
		var cached dto.GenerateScheduleResponse
		hit, err := s.cache.GetResult(ctx, cacheKey, &cached)
		if err != nil {
			s.logger.Warn("result cache read failed", zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	pools, err := s.catalog.PoolsFor(ctx, req.Courses)
	if err != nil {
		return nil, err
	}
	if err := validatePools(pools); err != nil {
		return nil, err
	}

	result := s.search(pools, &req.Filters, maxResults)

	resp := &dto.GenerateScheduleResponse{
		TotalFound:   result.TotalFound,
		SearchTimeMs: result.SearchTimeMs,
		LimitReached: result.LimitReached,
	}
	if req.Grouped {
		resp.GroupedSchedules = GroupSchedules(result.Schedules)
	} else {
		resp.Schedules = result.Schedules
	}

	if s.cache != nil {
		if err := s.cache.SetResult(ctx, cacheKey, resp); err != nil {
			s.logger.Warn("result cache write failed", zap.Error(err))
		}
	}

	if s.metrics != nil {
		s.metrics.ObserveSearch(time.Duration(result.SearchTimeMs)*time.Millisecond, result.TotalFound, result.LimitReached)
	}

	return resp, nil
}

// requestKey hashes the canonical request shape. Course order must not
// change the key, so courses are sorted before hashing.
func (s *GeneratorService) requestKey(req *dto.GenerateScheduleRequest, maxResults int) string {
	courses := make([]string, len(req.Courses))
	copy(courses, req.Courses)
	sort.Strings(courses)

	canonical := struct {
		Courses    []string       `json:"courses"`
		Filters    models.Filters `json:"filters"`
		MaxResults int            `json:"maxResults"`
		Grouped    bool           `json:"grouped"`
	}{courses, req.Filters, maxResults, req.Grouped}

	payload, _ := json.Marshal(canonical)
	sum := md5.Sum(payload)
	return "schedules:generate:" + hex.EncodeToString(sum[:])
}

// search runs the full pipeline over resolved pools. Course codes are
// iterated in sorted order so identical requests explore identically.
func (s *GeneratorService) search(pools map[string][]models.Section, filters *models.Filters, maxResults int) *models.GenerationResult {
	start := time.Now()

	codes := make([]string, 0, len(pools))
	for code := range pools {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	filtered := make([][]models.Section, 0, len(codes))
	for _, code := range codes {
		pool := s.filters.FilterSections(pools[code], filters)
		if len(pool) == 0 {
			// One empty pool makes the whole product empty.
			s.logger.Info("no sections survive filtering",
				zap.String("course", code))
			return &models.GenerationResult{
				Schedules:    []models.Schedule{},
				SearchTimeMs: time.Since(start).Milliseconds(),
			}
		}
		filtered = append(filtered, pool)
	}

	// Smallest pools first: fail early on the most constrained courses.
	sort.SliceStable(filtered, func(i, j int) bool {
		return len(filtered[i]) < len(filtered[j])
	})

	searchSpace := 1
	var flat []models.Section
	for _, pool := range filtered {
		searchSpace *= len(pool)
		flat = append(flat, pool...)
	}
	if s.cfg.WarnThreshold > 0 && searchSpace > s.cfg.WarnThreshold {
		s.logger.Warn("large search space",
			zap.Int("combinations", searchSpace),
			zap.Int("courses", len(filtered)))
		if s.metrics != nil {
			s.metrics.RecordLargeSearchSpace()
		}
	}

	state := &searchState{
		pools:       filtered,
		matrix:      BuildConflictMatrix(flat),
		filters:     filters,
		weights:     s.cfg.Weights,
		maxResults:  maxResults,
		requiredRef: requiredRefPerPool(filtered, filters.RequiredSections),
	}
	state.run(0)

	sort.SliceStable(state.results, func(i, j int) bool {
		if state.results[i].Score != state.results[j].Score {
			return state.results[i].Score < state.results[j].Score
		}
		return state.results[i].ID < state.results[j].ID
	})

	return &models.GenerationResult{
		Schedules:    state.results,
		TotalFound:   len(state.results),
		SearchTimeMs: time.Since(start).Milliseconds(),
		LimitReached: state.limitReached,
	}
}

// validatePools rejects section data the conflict logic cannot reason
// about. Silently mis-scheduling is worse than failing the request.
func validatePools(pools map[string][]models.Section) error {
	for code, pool := range pools {
		for i := range pool {
			sec := &pool[i]
			if sec.CourseReferenceNumber == "" {
				return appErrors.Wrap(
					fmt.Errorf("section of %s missing reference number", code),
					appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "corrupt catalog data")
			}
			for _, mt := range sec.MeetingTimes {
				if mt.BeginTime == models.TimeTBA || mt.EndTime == models.TimeTBA {
					continue
				}
				if !ValidTimeFormat(mt.BeginTime) || !ValidTimeFormat(mt.EndTime) {
					return appErrors.Wrap(
						fmt.Errorf("section %s has meeting time %s-%s", sec.CourseReferenceNumber, mt.BeginTime, mt.EndTime),
						appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "corrupt catalog data")
				}
			}
		}
	}
	return nil
}

// requiredRefPerPool pins a pool to a single reference number when one of
// its sections appears in the required list. Pools without a required
// section get "".
func requiredRefPerPool(pools [][]models.Section, required []string) []string {
	requiredSet := make(map[string]bool, len(required))
	for _, ref := range required {
		requiredSet[ref] = true
	}

	refs := make([]string, len(pools))
	for i, pool := range pools {
		for j := range pool {
			if requiredSet[pool[j].CourseReferenceNumber] {
				refs[i] = pool[j].CourseReferenceNumber
				break
			}
		}
	}
	return refs
}

// searchState carries the mutable backtracking context: the partial
// assignment, accumulated results and the stop flag once the cap is hit.
type searchState struct {
	pools       [][]models.Section
	matrix      ConflictMatrix
	filters     *models.Filters
	weights     config.ScoreWeights
	maxResults  int
	requiredRef []string

	chosen       []models.Section
	chosenRefs   []string
	results      []models.Schedule
	limitReached bool
}

// run tries every section of pool idx against the current partial
// assignment. Returns false once the result cap is reached, which unwinds
// the whole recursion.
func (st *searchState) run(idx int) bool {
	if idx == len(st.pools) {
		st.emit()
		if len(st.results) >= st.maxResults {
			st.limitReached = true
			return false
		}
		return true
	}

	for i := range st.pools[idx] {
		candidate := &st.pools[idx][i]

		if ref := st.requiredRef[idx]; ref != "" && candidate.CourseReferenceNumber != ref {
			continue
		}
		if st.matrix.HasConflict(candidate.CourseReferenceNumber, st.chosenRefs) {
			continue
		}
		if !ComplementaryCompatible(candidate, st.chosen) {
			continue
		}

		st.chosen = append(st.chosen, *candidate)
		st.chosenRefs = append(st.chosenRefs, candidate.CourseReferenceNumber)

		if st.withinGapBound() {
			if !st.run(idx + 1) {
				return false
			}
		}

		st.chosen = st.chosen[:len(st.chosen)-1]
		st.chosenRefs = st.chosenRefs[:len(st.chosenRefs)-1]
	}

	return true
}

// withinGapBound prunes partial assignments that already exceed the gap
// budget. Gaps only grow as sections are added, so this is safe.
func (st *searchState) withinGapBound() bool {
	if st.filters.MaxGapMinutes == nil {
		return true
	}
	md := ComputeMetadata(st.chosen, nil)
	days := md.DaysOnCampus
	if days < 1 {
		days = 1
	}
	return md.TotalGaps <= *st.filters.MaxGapMinutes*days
}

func (st *searchState) emit() {
	sections := make([]models.Section, len(st.chosen))
	copy(sections, st.chosen)

	md := ComputeMetadata(sections, st.filters.RequiredProfessors)
	st.results = append(st.results, models.Schedule{
		ID:       ScheduleID(sections),
		Sections: sections,
		Score:    ComputeScore(md, st.filters.PreferCompact, st.weights),
		Metadata: md,
	})
}
