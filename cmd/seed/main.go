package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"socialimpact/internal/app"
	"socialimpact/internal/config"
	"socialimpact/internal/logger"
	"socialimpact/internal/model"
	"socialimpact/internal/repository"
	"socialimpact/internal/scoring"
)

var (
	profilesFile string
	dryRun       bool
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Score sample profiles and store them in the assessment archive",
	Long: `Scores a set of profiles with the configured model and inserts the results
into the assessments collection. Without --file a built-in sample set is used.
Requires MONGO_URI unless --dry-run is given.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	rootCmd.Flags().StringVarP(&profilesFile, "file", "f", "", "JSON file with an array of profiles")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "score and print without writing to MongoDB")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return err
	}
	defer log.Sync()

	if dryRun {
		cfg.MongoURI = ""
	} else if cfg.MongoURI == "" {
		return fmt.Errorf("MONGO_URI is required (use --dry-run to only print scores)")
	}
	cfg.RedisAddr = ""

	profiles := sampleProfiles()
	if profilesFile != "" {
		if profiles, err = readProfiles(profilesFile); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := seedAssessments(ctx, profiles, a.Predictor, a.Archive, cfg.ModelPath, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	log.Info("seed complete", "assessments", n, "dry_run", dryRun)
	return nil
}

func readProfiles(path string) ([]model.UserProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var profiles []model.UserProfile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return profiles, nil
}

// seedAssessments scores every profile and archives the result. Invalid
// profiles are reported and skipped; a model failure aborts the run.
func seedAssessments(
	ctx context.Context,
	profiles []model.UserProfile,
	predictor *scoring.Predictor,
	archive repository.AssessmentRepo,
	modelPath string,
	out io.Writer,
) (int, error) {
	stored := 0
	for i, p := range profiles {
		if err := p.Validate(); err != nil {
			fmt.Fprintf(out, "#%d skipped: %v\n", i+1, err)
			continue
		}

		score, vec, err := predictor.Score(p)
		if err != nil {
			return stored, fmt.Errorf("profile #%d: %w", i+1, err)
		}

		a := &model.Assessment{
			ID:        uuid.New().String(),
			Score:     score,
			Display:   model.DisplayScore(score),
			Band:      model.Band(score),
			Summary:   p.Summary(score),
			Features:  vec.Map(),
			ModelPath: modelPath,
			CreatedAt: time.Now(),
		}
		if err := archive.Create(ctx, a); err != nil {
			return stored, fmt.Errorf("archive profile #%d: %w", i+1, err)
		}
		stored++
		fmt.Fprintf(out, "#%d %-10s %-8s %s\n", i+1, p.MainPlatform, a.Band, a.Display)
	}
	return stored, nil
}

func sampleProfiles() []model.UserProfile {
	return []model.UserProfile{
		{
			Age: 19, Gender: model.GenderFemale, AcademicLevel: model.AcademicUndergraduate,
			AvgDailyUsageHours: 7.5, MainPlatform: model.PlatformTikTok, AddictionScore: 9,
			SleepHours: 5, AffectsAcademics: true, ConflictCount: 4,
			RelationshipStatus: model.RelationshipComplicated,
		},
		{
			Age: 24, Gender: model.GenderMale, AcademicLevel: model.AcademicGraduate,
			AvgDailyUsageHours: 2, MainPlatform: model.PlatformLinkedIn, AddictionScore: 3,
			SleepHours: 7.5, AffectsAcademics: false, ConflictCount: 0,
			RelationshipStatus: model.RelationshipInRelationship,
		},
		{
			Age: 16, Gender: model.GenderMale, AcademicLevel: model.AcademicHighSchool,
			AvgDailyUsageHours: 5, MainPlatform: model.PlatformInstagram, AddictionScore: 7,
			SleepHours: 6, AffectsAcademics: true, ConflictCount: 2,
			RelationshipStatus: model.RelationshipSingle,
		},
		{
			Age: 21, Gender: model.GenderFemale, AcademicLevel: model.AcademicUndergraduate,
			AvgDailyUsageHours: 3.5, MainPlatform: model.PlatformKakaoTalk, AddictionScore: 5,
			SleepHours: 7, AffectsAcademics: false, ConflictCount: 1,
			RelationshipStatus: model.RelationshipMarried,
		},
		{
			Age: 20, Gender: model.GenderFemale, AcademicLevel: model.AcademicUndergraduate,
			AvgDailyUsageHours: 4, MainPlatform: model.PlatformYouTube, AddictionScore: 5,
			SleepHours: 8, AffectsAcademics: false, ConflictCount: 0,
			RelationshipStatus: model.RelationshipSingle,
		},
	}
}
