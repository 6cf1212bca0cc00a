package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/baniere/baniere-api/internal/dto"
	"github.com/baniere/baniere-api/internal/models"
	"github.com/baniere/baniere-api/pkg/config"
	appErrors "github.com/baniere/baniere-api/pkg/errors"
)

type poolProviderStub struct {
	pools map[string][]models.Section
}

func (s *poolProviderStub) PoolsFor(ctx context.Context, codes []string) (map[string][]models.Section, error) {
	result := make(map[string][]models.Section, len(codes))
	for _, code := range codes {
		pool, ok := s.pools[code]
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrCourseNotFound, "course "+code+" not found")
		}
		result[code] = pool
	}
	return result, nil
}

type resultCacheStub struct {
	store map[string]interface{}
	gets  int
	sets  int
}

func newResultCacheStub() *resultCacheStub {
	return &resultCacheStub{store: make(map[string]interface{})}
}

func (c *resultCacheStub) GetResult(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.gets++
	cached, ok := c.store[key]
	if !ok {
		return false, nil
	}
	*dest.(*dto.GenerateScheduleResponse) = *cached.(*dto.GenerateScheduleResponse)
	return true, nil
}

func (c *resultCacheStub) SetResult(ctx context.Context, key string, value interface{}) error {
	c.sets++
	c.store[key] = value
	return nil
}

func testGeneratorConfig() config.GeneratorConfig {
	return config.GeneratorConfig{
		DefaultMaxResults: 500,
		HardCap:           2000,
		WarnThreshold:     100000,
		MaxCourses:        10,
		Weights:           defaultWeights(),
	}
}

func newTestGenerator(pools map[string][]models.Section) *GeneratorService {
	return NewGeneratorService(&poolProviderStub{pools: pools}, nil, nil, zap.NewNop(), testGeneratorConfig())
}

func twoCoursePools() map[string][]models.Section {
	return map[string][]models.Section{
		"ADMI1101": {
			makeSection("10001", "ADMI1101", "A", meeting("0900", "1050", "monday")),
			makeSection("10002", "ADMI1101", "B", meeting("1000", "1150", "monday")),
		},
		"MATE1203": {
			makeSection("20001", "MATE1203", "F", meeting("0900", "1050", "monday")),
			makeSection("20002", "MATE1203", "G", meeting("0900", "1050", "tuesday")),
		},
	}
}

func TestGenerateFindsConflictFreeCombinations(t *testing.T) {
	svc := newTestGenerator(twoCoursePools())

	resp, err := svc.Generate(context.Background(), &dto.GenerateScheduleRequest{
		Courses: []string{"ADMI1101", "MATE1203"},
	})
	require.NoError(t, err)

	// F collides with both ADMI sections, so only the pairs with G survive.
	require.Equal(t, 2, resp.TotalFound)
	require.Len(t, resp.Schedules, 2)
	assert.False(t, resp.LimitReached)

	for _, schedule := range resp.Schedules {
		require.Len(t, schedule.Sections, 2)
		refs := map[string]bool{}
		for _, sec := range schedule.Sections {
			refs[sec.CourseReferenceNumber] = true
		}
		assert.True(t, refs["20002"], "every surviving schedule uses MATE1203 G")
	}

	// Ranked best first: the earlier-ending ADMI section wins.
	first := resp.Schedules[0]
	assert.Equal(t, "10001", sectionRefFor(first, "ADMI1101"))
	assert.LessOrEqual(t, resp.Schedules[0].Score, resp.Schedules[1].Score)
}

func sectionRefFor(schedule models.Schedule, course string) string {
	for _, sec := range schedule.Sections {
		if sec.SubjectCourse == course {
			return sec.CourseReferenceNumber
		}
	}
	return ""
}

func TestGenerateDeterministic(t *testing.T) {
	svc := newTestGenerator(twoCoursePools())
	req := &dto.GenerateScheduleRequest{Courses: []string{"MATE1203", "ADMI1101"}}

	first, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)

	require.Equal(t, len(first.Schedules), len(second.Schedules))
	for i := range first.Schedules {
		assert.Equal(t, first.Schedules[i].ID, second.Schedules[i].ID)
		assert.Equal(t, first.Schedules[i].Score, second.Schedules[i].Score)
	}
}

func TestGenerateUnknownCourse(t *testing.T) {
	svc := newTestGenerator(twoCoursePools())

	_, err := svc.Generate(context.Background(), &dto.GenerateScheduleRequest{
		Courses: []string{"ADMI1101", "NOPE9999"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrCourseNotFound.Code, appErrors.FromError(err).Code)
}

func TestGenerateEmptyPoolShortCircuits(t *testing.T) {
	svc := newTestGenerator(twoCoursePools())

	// A filter nothing survives: every section starts before 1300.
	resp, err := svc.Generate(context.Background(), &dto.GenerateScheduleRequest{
		Courses: []string{"ADMI1101", "MATE1203"},
		Filters: models.Filters{MinStartTime: "1300"},
	})
	require.NoError(t, err)
	assert.Zero(t, resp.TotalFound)
	assert.Empty(t, resp.Schedules)
	assert.False(t, resp.LimitReached)
}

func TestGenerateRespectsMaxResults(t *testing.T) {
	svc := newTestGenerator(twoCoursePools())

	resp, err := svc.Generate(context.Background(), &dto.GenerateScheduleRequest{
		Courses:    []string{"ADMI1101", "MATE1203"},
		MaxResults: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.TotalFound)
	assert.Len(t, resp.Schedules, 1)
	assert.True(t, resp.LimitReached)
}

func TestGenerateClampsToHardCap(t *testing.T) {
	cfg := testGeneratorConfig()
	cfg.HardCap = 1
	svc := NewGeneratorService(&poolProviderStub{pools: twoCoursePools()}, nil, nil, zap.NewNop(), cfg)

	resp, err := svc.Generate(context.Background(), &dto.GenerateScheduleRequest{
		Courses:    []string{"ADMI1101", "MATE1203"},
		MaxResults: 9999,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Schedules, 1)
	assert.True(t, resp.LimitReached)
}

func TestGenerateRejectsEmptyCourses(t *testing.T) {
	svc := newTestGenerator(twoCoursePools())

	_, err := svc.Generate(context.Background(), &dto.GenerateScheduleRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestGenerateRejectsTooManyCourses(t *testing.T) {
	cfg := testGeneratorConfig()
	cfg.MaxCourses = 2
	svc := NewGeneratorService(&poolProviderStub{pools: twoCoursePools()}, nil, nil, zap.NewNop(), cfg)

	_, err := svc.Generate(context.Background(), &dto.GenerateScheduleRequest{
		Courses: []string{"ADMI1101", "MATE1203", "FISI1518"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestGenerateRejectsContradictoryFilters(t *testing.T) {
	svc := newTestGenerator(twoCoursePools())

	_, err := svc.Generate(context.Background(), &dto.GenerateScheduleRequest{
		Courses: []string{"ADMI1101", "MATE1203"},
		Filters: models.Filters{
			RequiredSections:  []string{"10001"},
			ForbiddenSections: []string{"10001"},
		},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestGenerateRequiredSectionPinsPool(t *testing.T) {
	svc := newTestGenerator(twoCoursePools())

	resp, err := svc.Generate(context.Background(), &dto.GenerateScheduleRequest{
		Courses: []string{"ADMI1101", "MATE1203"},
		Filters: models.Filters{RequiredSections: []string{"10002"}},
	})
	require.NoError(t, err)
	require.Equal(t, 1, resp.TotalFound)
	assert.Equal(t, "10002", sectionRefFor(resp.Schedules[0], "ADMI1101"))
}

func TestGenerateMaxGapPrune(t *testing.T) {
	pools := map[string][]models.Section{
		"MATE1203": {
			makeSection("10001", "MATE1203", "1", meeting("0800", "0950", "monday")),
		},
		"FISI1518": {
			// 10 minute gap vs a 4 hour gap after the MATE block.
			makeSection("20001", "FISI1518", "1", meeting("1000", "1150", "monday")),
			makeSection("20002", "FISI1518", "2", meeting("1400", "1550", "monday")),
		},
	}
	svc := newTestGenerator(pools)

	maxGap := 60
	resp, err := svc.Generate(context.Background(), &dto.GenerateScheduleRequest{
		Courses: []string{"MATE1203", "FISI1518"},
		Filters: models.Filters{MaxGapMinutes: &maxGap},
	})
	require.NoError(t, err)
	require.Equal(t, 1, resp.TotalFound)
	assert.Equal(t, "20001", sectionRefFor(resp.Schedules[0], "FISI1518"))
}

func TestGenerateCycleExemption(t *testing.T) {
	cycle1 := makeSection("10001", "ADMI2501", "1", meeting("0900", "1050", "monday"))
	cycle1.Cycle = 1
	cycle2 := makeSection("20001", "ADMI2502", "1", meeting("0900", "1050", "monday"))
	cycle2.Cycle = 2

	svc := newTestGenerator(map[string][]models.Section{
		"ADMI2501": {cycle1},
		"ADMI2502": {cycle2},
	})

	resp, err := svc.Generate(context.Background(), &dto.GenerateScheduleRequest{
		Courses: []string{"ADMI2501", "ADMI2502"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.TotalFound, "same weekly slot in different cycles is valid")
}

func TestGenerateComplementaryPairing(t *testing.T) {
	lecture := makeSection("10001", "FISI1518", "D", meeting("0900", "1050", "monday"))
	labD1 := makeSection("20001", "FISI1518P", "D1", meeting("1400", "1550", "tuesday"))
	labF1 := makeSection("20002", "FISI1518P", "F1", meeting("1400", "1550", "wednesday"))

	svc := newTestGenerator(map[string][]models.Section{
		"FISI1518":  {lecture},
		"FISI1518P": {labD1, labF1},
	})

	resp, err := svc.Generate(context.Background(), &dto.GenerateScheduleRequest{
		Courses: []string{"FISI1518", "FISI1518P"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, resp.TotalFound, "only the matching lab group pairs with the lecture")
	assert.Equal(t, "20001", sectionRefFor(resp.Schedules[0], "FISI1518P"))
}

func TestGenerateGroupedResponse(t *testing.T) {
	svc := newTestGenerator(map[string][]models.Section{
		"MATE1203": {
			makeSection("10001", "MATE1203", "1", meeting("0900", "1050", "monday")),
			makeSection("10002", "MATE1203", "2", meeting("0900", "1050", "monday")),
		},
	})

	resp, err := svc.Generate(context.Background(), &dto.GenerateScheduleRequest{
		Courses: []string{"MATE1203"},
		Grouped: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalFound)
	assert.Nil(t, resp.Schedules)
	require.Len(t, resp.GroupedSchedules, 1, "same-pattern sections collapse when grouping")
	require.Len(t, resp.GroupedSchedules[0].Slots, 1)
	assert.Len(t, resp.GroupedSchedules[0].Slots[0].Sections, 2)
}

func TestGenerateUsesResultCache(t *testing.T) {
	cache := newResultCacheStub()
	svc := NewGeneratorService(&poolProviderStub{pools: twoCoursePools()}, cache, nil, zap.NewNop(), testGeneratorConfig())
	req := &dto.GenerateScheduleRequest{Courses: []string{"ADMI1101", "MATE1203"}}

	first, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, 1, cache.sets)

	second, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets, "second call served from cache")
	assert.Equal(t, 2, cache.gets)
	assert.Equal(t, first.TotalFound, second.TotalFound)
}

func TestGenerateRejectsCorruptCatalogData(t *testing.T) {
	bad := makeSection("10001", "MATE1203", "1", meeting("9am", "1050", "monday"))
	svc := newTestGenerator(map[string][]models.Section{"MATE1203": {bad}})

	_, err := svc.Generate(context.Background(), &dto.GenerateScheduleRequest{
		Courses: []string{"MATE1203"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestGenerateCacheKeyIgnoresCourseOrder(t *testing.T) {
	svc := newTestGenerator(nil)

	a := svc.requestKey(&dto.GenerateScheduleRequest{Courses: []string{"A", "B"}}, 100)
	b := svc.requestKey(&dto.GenerateScheduleRequest{Courses: []string{"B", "A"}}, 100)
	c := svc.requestKey(&dto.GenerateScheduleRequest{Courses: []string{"A", "C"}}, 100)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
