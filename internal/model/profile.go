package model

import (
	"errors"
	"fmt"
)

// ErrInvalidProfile is wrapped by every UserProfile validation failure
var ErrInvalidProfile = errors.New("invalid profile")

// Gender as offered by the form
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// AcademicLevel of the respondent
type AcademicLevel string

const (
	AcademicHighSchool    AcademicLevel = "HighSchool"
	AcademicUndergraduate AcademicLevel = "Undergraduate"
	AcademicGraduate      AcademicLevel = "Graduate"
)

// Platform is the most used social media platform
type Platform string

const (
	PlatformTikTok    Platform = "TikTok"
	PlatformYouTube   Platform = "YouTube"
	PlatformInstagram Platform = "Instagram"
	PlatformTwitter   Platform = "Twitter"
	PlatformFacebook  Platform = "Facebook"
	PlatformSnapchat  Platform = "Snapchat"
	PlatformLINE      Platform = "LINE"
	PlatformKakaoTalk Platform = "KakaoTalk"
	PlatformWhatsApp  Platform = "WhatsApp"
	PlatformWeChat    Platform = "WeChat"
	PlatformLinkedIn  Platform = "LinkedIn"
	PlatformVKontakte Platform = "VKontakte"
)

// Platforms lists the closed platform set in form order
var Platforms = []Platform{
	PlatformTikTok, PlatformYouTube, PlatformInstagram, PlatformTwitter,
	PlatformFacebook, PlatformSnapchat, PlatformLINE, PlatformKakaoTalk,
	PlatformWhatsApp, PlatformWeChat, PlatformLinkedIn, PlatformVKontakte,
}

// RelationshipStatus of the respondent
type RelationshipStatus string

const (
	RelationshipSingle         RelationshipStatus = "Single"
	RelationshipInRelationship RelationshipStatus = "InRelationship"
	RelationshipMarried        RelationshipStatus = "Married"
	RelationshipDivorced       RelationshipStatus = "Divorced"
	RelationshipComplicated    RelationshipStatus = "Complicated"
)

// RelationshipStatuses lists the closed relationship set in form order
var RelationshipStatuses = []RelationshipStatus{
	RelationshipSingle, RelationshipInRelationship, RelationshipMarried,
	RelationshipDivorced, RelationshipComplicated,
}

// Genders and AcademicLevels list the remaining closed sets
var (
	Genders        = []Gender{GenderMale, GenderFemale}
	AcademicLevels = []AcademicLevel{AcademicHighSchool, AcademicUndergraduate, AcademicGraduate}
)

// Field bounds, inclusive
const (
	MinAge            = 10
	MaxAge            = 100
	MinHours          = 0.0
	MaxHours          = 24.0
	MinAddictionScore = 1
	MaxAddictionScore = 10
	MinConflicts      = 0
	MaxConflicts      = 10
)

// UserProfile is one form submission. It is discarded after scoring except for its summary.
type UserProfile struct {
	Age                int                `json:"age"`
	Gender             Gender             `json:"gender"`
	AcademicLevel      AcademicLevel      `json:"academicLevel"`
	AvgDailyUsageHours float64            `json:"avgDailyUsageHours"`
	MainPlatform       Platform           `json:"mainPlatform"`
	AddictionScore     int                `json:"addictionScore"`
	SleepHours         float64            `json:"sleepHours"`
	AffectsAcademics   bool               `json:"affectsAcademics"`
	ConflictCount      int                `json:"conflictCount"`
	RelationshipStatus RelationshipStatus `json:"relationshipStatus"`
}

// Validate checks ranges and closed enums
func (p *UserProfile) Validate() error {
	switch {
	case p.Age < MinAge || p.Age > MaxAge:
		return invalid("age", "must be between %d and %d", MinAge, MaxAge)
	case !contains(Genders, p.Gender):
		return invalid("gender", "unknown value %q", p.Gender)
	case !contains(AcademicLevels, p.AcademicLevel):
		return invalid("academicLevel", "unknown value %q", p.AcademicLevel)
	case p.AvgDailyUsageHours < MinHours || p.AvgDailyUsageHours > MaxHours:
		return invalid("avgDailyUsageHours", "must be between %.0f and %.0f", MinHours, MaxHours)
	case !contains(Platforms, p.MainPlatform):
		return invalid("mainPlatform", "unknown value %q", p.MainPlatform)
	case p.AddictionScore < MinAddictionScore || p.AddictionScore > MaxAddictionScore:
		return invalid("addictionScore", "must be between %d and %d", MinAddictionScore, MaxAddictionScore)
	case p.SleepHours < MinHours || p.SleepHours > MaxHours:
		return invalid("sleepHours", "must be between %.0f and %.0f", MinHours, MaxHours)
	case p.ConflictCount < MinConflicts || p.ConflictCount > MaxConflicts:
		return invalid("conflictCount", "must be between %d and %d", MinConflicts, MaxConflicts)
	case !contains(RelationshipStatuses, p.RelationshipStatus):
		return invalid("relationshipStatus", "unknown value %q", p.RelationshipStatus)
	}
	return nil
}

// Summary is the subset of the profile embedded in enrichment prompts
func (p *UserProfile) Summary(score float64) ProfileSummary {
	return ProfileSummary{
		Age:           p.Age,
		Hours:         p.AvgDailyUsageHours,
		Platform:      p.MainPlatform,
		Addiction:     p.AddictionScore,
		Sleep:         p.SleepHours,
		WellnessScore: score,
	}
}

// ProfileSummary keeps the keys the prompt templates were written against
type ProfileSummary struct {
	Age           int      `json:"Age" bson:"age"`
	Hours         float64  `json:"Hours" bson:"hours"`
	Platform      Platform `json:"Platform" bson:"platform"`
	Addiction     int      `json:"Addiction" bson:"addiction"`
	Sleep         float64  `json:"Sleep" bson:"sleep"`
	WellnessScore float64  `json:"WellnessScore" bson:"wellnessScore"`
}

func invalid(field, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidProfile, field, fmt.Sprintf(format, args...))
}

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
