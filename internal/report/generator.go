package report

import (
	"math"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"neuroassess/internal/model"
)

const (
	highThreshold = 3.5
	lowThreshold  = 2.5
	maxListItems  = 6
)

// Input is what a report is built from
type Input struct {
	SessionID     string
	Tier          model.Tier
	Mode          model.Mode
	StartTime     time.Time
	EndTime       time.Time
	QuestionCount int
	AnsweredCount int
	Confidence    float64
	Traits        model.TraitScoreSet
	Tasks         model.TaskSummary
	Behavioral    *model.BehavioralMetrics
}

// Generator turns trait scores into a Report. Apart from the summary
// template, which is drawn from a seeded RNG, output is a pure function of
// the input.
type Generator struct {
	tables *Tables
	mu     sync.Mutex
	rng    *rand.Rand
	now    func() time.Time
}

// NewGenerator creates a generator over the given tables
func NewGenerator(tables *Tables, seed int64) *Generator {
	return &Generator{
		tables: tables,
		rng:    rand.New(rand.NewSource(seed)),
		now:    time.Now,
	}
}

// NewDefaultGenerator creates a generator over the embedded tables
func NewDefaultGenerator(seed int64) (*Generator, error) {
	tables, err := DefaultTables()
	if err != nil {
		return nil, err
	}
	return NewGenerator(tables, seed), nil
}

// SetClock overrides the GeneratedAt time source
func (g *Generator) SetClock(now func() time.Time) {
	g.now = now
}

// LevelOf buckets a raw 1-5 mean
func LevelOf(raw float64) model.Level {
	switch {
	case raw > highThreshold:
		return model.LevelHigh
	case raw < lowThreshold:
		return model.LevelLow
	default:
		return model.LevelMedium
	}
}

// ReliabilityOf maps the answered count to a reliability tier
func ReliabilityOf(answered int) model.ReliabilityTier {
	switch {
	case answered >= 100:
		return model.ReliabilityExcellent
	case answered >= 50:
		return model.ReliabilityGood
	case answered >= 20:
		return model.ReliabilityModerate
	default:
		return model.ReliabilityBasic
	}
}

// Generate builds the report for a finished session
func (g *Generator) Generate(in Input) *model.Report {
	levels := make(map[model.Trait]model.Level, len(model.Traits))
	insights := make([]model.TraitInsight, 0, len(model.Traits))
	for _, trait := range model.Traits {
		level := LevelOf(in.Traits[trait].Raw)
		levels[trait] = level
		text := g.tables.Traits[trait].at(level)
		insights = append(insights, model.TraitInsight{
			Trait:       trait,
			Level:       level,
			Title:       text.Title,
			Description: text.Description,
			Strengths:   text.Strengths,
			GrowthAreas: text.GrowthAreas,
			Careers:     text.Careers,
		})
	}

	reliability := ReliabilityOf(in.AnsweredCount)
	archetype := g.matchArchetype(levels)
	ranked := rankTraits(in.Traits)

	rep := &model.Report{
		Metadata: model.ReportMetadata{
			SessionID:     in.SessionID,
			GeneratedAt:   g.now().UTC(),
			DurationMS:    durationMS(in.StartTime, in.EndTime),
			QuestionCount: in.QuestionCount,
			AnsweredCount: in.AnsweredCount,
			Reliability:   reliability,
			Confidence:    in.Confidence,
			Tier:          in.Tier,
			Mode:          in.Mode,
		},
		Traits:          in.Traits,
		Archetype:       archetype,
		Rarity:          Rarity(in.Traits),
		Insights:        insights,
		Strengths:       g.strengths(ranked, levels),
		GrowthAreas:     g.growthAreas(ranked, levels),
		Recommendations: g.recommendations(levels, reliability),
		Tasks:           in.Tasks,
		Behavioral:      in.Behavioral,
	}
	rep.Summary = g.summary(archetype.Name, ranked)
	return rep
}

// matchArchetype picks the archetype satisfying the most requirements.
// Ties go to the first declared.
func (g *Generator) matchArchetype(levels map[model.Trait]model.Level) model.ArchetypeMatch {
	best, bestCount := 0, -1
	for i, a := range g.tables.Archetypes {
		n := 0
		for _, r := range a.Requirements {
			if levels[r.Trait] == r.Level {
				n++
			}
		}
		if n > bestCount {
			best, bestCount = i, n
		}
	}

	a := g.tables.Archetypes[best]
	reqs := make([]string, len(a.Requirements))
	for i, r := range a.Requirements {
		reqs[i] = levelLabel(r.Level) + " " + string(r.Trait)
	}
	return model.ArchetypeMatch{
		Name:         a.Name,
		Description:  a.Description,
		MatchedCount: bestCount,
		MatchScore:   int(math.Round(float64(bestCount) / float64(len(a.Requirements)) * 100)),
		Requirements: reqs,
	}
}

// Rarity estimates the share of people with a similar profile shape.
// Each extreme trait multiplies the estimate by 0.7, each near-extreme by 0.85.
func Rarity(traits model.TraitScoreSet) float64 {
	r := 100.0
	for _, trait := range model.Traits {
		s, ok := traits[trait]
		if !ok {
			continue
		}
		switch {
		case s.Score > 80 || s.Score < 20:
			r *= 0.7
		case s.Score >= 70 || s.Score <= 30:
			r *= 0.85
		}
	}
	return math.Round(r*10) / 10
}

func (g *Generator) summary(archetype string, ranked []model.Trait) string {
	g.mu.Lock()
	i := g.rng.Intn(len(g.tables.Summaries))
	g.mu.Unlock()

	return strings.NewReplacer(
		"{archetype}", archetype,
		"{top}", g.traitName(ranked[0]),
		"{second}", g.traitName(ranked[1]),
	).Replace(g.tables.Summaries[i])
}

func (g *Generator) strengths(ranked []model.Trait, levels map[model.Trait]model.Level) []string {
	var out []string
	for _, trait := range ranked {
		if levels[trait] == model.LevelHigh {
			out = append(out, g.tables.Traits[trait].High.Strengths...)
		}
	}
	if len(out) == 0 {
		top := ranked[0]
		out = g.tables.Traits[top].at(levels[top]).Strengths
	}
	return dedupe(out, maxListItems)
}

func (g *Generator) growthAreas(ranked []model.Trait, levels map[model.Trait]model.Level) []string {
	var out []string
	for i := len(ranked) - 1; i >= 0; i-- {
		if trait := ranked[i]; levels[trait] == model.LevelLow {
			out = append(out, g.tables.Traits[trait].Low.GrowthAreas...)
		}
	}
	if len(out) == 0 {
		bottom := ranked[len(ranked)-1]
		out = g.tables.Traits[bottom].at(levels[bottom]).GrowthAreas
	}
	return dedupe(out, maxListItems)
}

func (g *Generator) recommendations(levels map[model.Trait]model.Level, reliability model.ReliabilityTier) []string {
	var careers []string
	for _, trait := range model.Traits {
		if levels[trait] == model.LevelHigh {
			careers = append(careers, g.tables.Traits[trait].High.Careers...)
		}
	}
	out := dedupe(careers, maxListItems)
	if reliability == model.ReliabilityBasic && g.tables.Retake != "" {
		out = append(out, g.tables.Retake)
	}
	return out
}

func (g *Generator) traitName(t model.Trait) string {
	if name := g.tables.Traits[t].Name; name != "" {
		return name
	}
	return string(t)
}

// rankTraits orders traits by score, highest first, keeping report order on ties
func rankTraits(set model.TraitScoreSet) []model.Trait {
	ranked := append([]model.Trait(nil), model.Traits...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return set[ranked[i]].Score > set[ranked[j]].Score
	})
	return ranked
}

func levelLabel(l model.Level) string {
	switch l {
	case model.LevelHigh:
		return "High"
	case model.LevelLow:
		return "Low"
	default:
		return "Medium"
	}
}

func dedupe(items []string, limit int) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
		if len(out) == limit {
			break
		}
	}
	return out
}

func durationMS(start, end time.Time) int64 {
	if start.IsZero() || end.Before(start) {
		return 0
	}
	return end.Sub(start).Milliseconds()
}
