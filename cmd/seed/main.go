package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"neuroassess/internal/config"
	"neuroassess/internal/model"
	"neuroassess/internal/platform/logger"
	"neuroassess/internal/repository"
)

type likertItem struct {
	text     string
	facet    string
	reversed bool
}

// Short BFI-2 style items per trait
var likertBank = map[string][]likertItem{
	"Extraversion": {
		{"I am the life of the party.", "sociability", false},
		{"I tend to be quiet around people I don't know.", "sociability", true},
		{"I take charge in group situations.", "assertiveness", false},
		{"I prefer to let others lead.", "assertiveness", true},
		{"I am full of energy.", "energy", false},
		{"I rarely feel excited or eager.", "energy", true},
	},
	"Agreeableness": {
		{"I feel compassion for people who are struggling.", "compassion", false},
		{"I can be cold and uncaring.", "compassion", true},
		{"I am respectful toward others.", "respectfulness", false},
		{"I start arguments just for fun.", "respectfulness", true},
		{"I assume the best about people.", "trust", false},
		{"I am suspicious of others' intentions.", "trust", true},
	},
	"Conscientiousness": {
		{"I keep my things neat and tidy.", "organization", false},
		{"I leave a mess in my room.", "organization", true},
		{"I get my work done efficiently.", "productiveness", false},
		{"I have difficulty getting started on tasks.", "productiveness", true},
		{"I am dependable and steady.", "responsibility", false},
		{"I sometimes behave irresponsibly.", "responsibility", true},
	},
	"Neuroticism": {
		{"I worry a lot.", "anxiety", false},
		{"I am relaxed and handle stress well.", "anxiety", true},
		{"I often feel sad.", "depression", false},
		{"I stay optimistic after a setback.", "depression", true},
		{"I get upset easily.", "volatility", false},
		{"I keep my emotions under control.", "volatility", true},
	},
	"Openness": {
		{"I am fascinated by art, music, or literature.", "aesthetic", false},
		{"I have few artistic interests.", "aesthetic", true},
		{"I am curious about many different things.", "curiosity", false},
		{"I avoid intellectual, philosophical discussions.", "curiosity", true},
		{"I come up with new ideas easily.", "imagination", false},
		{"I have little creativity.", "imagination", true},
	},
}

var traitOrder = []string{"Extraversion", "Agreeableness", "Conscientiousness", "Neuroticism", "Openness"}

func buildBank(assessmentType string) []model.Question {
	var bank []model.Question
	order := 0
	add := func(q model.Question) {
		order++
		q.Order = order
		q.AssessmentType = assessmentType
		bank = append(bank, q)
	}

	// Interleave traits so any prefix of the bank stays balanced
	for i := 0; i < 6; i++ {
		for _, trait := range traitOrder {
			item := likertBank[trait][i]
			add(model.Question{
				ID:            fmt.Sprintf("bfi-%s-%d", trait, i+1),
				Type:          model.QuestionTypeLikert,
				Text:          item.text,
				Category:      trait,
				Facet:         item.facet,
				Instrument:    "BFI-2",
				ReverseScored: item.reversed,
			})
		}
	}

	add(model.Question{
		ID:       "scenario-deadline",
		Type:     model.QuestionTypeScenario,
		Text:     "A project deadline moves up by a week. What do you do first?",
		Category: "Conscientiousness",
		Options: []model.Option{
			{Label: "Rebuild the plan around the new date", Value: "plan"},
			{Label: "Rally the team and split the work", Value: "rally"},
			{Label: "Push back and negotiate scope", Value: "negotiate"},
		},
	})
	add(model.Question{
		ID:       "wyr-weekend",
		Type:     model.QuestionTypeWouldYouRather,
		Text:     "Would you rather spend a weekend...",
		Category: "Extraversion",
		Options: []model.Option{
			{Label: "At a festival with friends", Value: "festival"},
			{Label: "Alone with a good book", Value: "book"},
		},
	})
	add(model.Question{
		ID:       "spectrum-routine",
		Type:     model.QuestionTypeSpectrum,
		Text:     "How much do you enjoy routine versus novelty?",
		Category: "Openness",
	})
	add(model.Question{
		ID:            "words-describe",
		Type:          model.QuestionTypeWordChoice,
		Text:          "Pick up to three words that describe you.",
		Category:      "Agreeableness",
		Items:         []string{"kind", "driven", "curious", "calm", "bold", "careful"},
		MaxSelections: 3,
	})
	add(model.Question{
		ID:       "rank-values",
		Type:     model.QuestionTypeRankOrder,
		Text:     "Rank these from most to least important to you.",
		Category: "Openness",
		Items:    []string{"security", "adventure", "harmony", "achievement"},
	})

	tasks := []string{string(model.TierCore), string(model.TierComprehensive)}
	add(model.Question{
		ID:       "task-balloon",
		Type:     model.QuestionTypeBalloonTask,
		Text:     "Pump the balloon to earn points. Collect before it pops.",
		Category: "Conscientiousness",
		Tiers:    tasks,
	})
	add(model.Question{
		ID:          "task-pattern",
		Type:        model.QuestionTypePatternTask,
		Text:        "Repeat the pattern shown on the grid.",
		Category:    "Openness",
		Tiers:       tasks,
		TimeLimitMS: 120000,
	})
	add(model.Question{
		ID:          "task-attention",
		Type:        model.QuestionTypeAttentionTask,
		Text:        "Click every target as soon as it appears.",
		Category:    "Conscientiousness",
		Tiers:       []string{string(model.TierComprehensive)},
		TimeLimitMS: 60000,
	})
	return bank
}

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("failed to connect to MongoDB", "error", err)
	}
	defer client.Disconnect(ctx)

	repo := repository.NewQuestionRepo(client.Database(cfg.MongoDB))

	bank := buildBank(cfg.AssessmentType)
	for i := range bank {
		if err := repo.Upsert(ctx, &bank[i]); err != nil {
			log.Fatal("failed to upsert question", "id", bank[i].ID, "error", err)
		}
	}

	count, err := repo.Count(ctx, cfg.AssessmentType)
	if err != nil {
		log.Fatal("failed to count questions", "error", err)
	}
	log.Info("question bank seeded", "upserted", len(bank), "total", count, "assessmentType", cfg.AssessmentType)
}
