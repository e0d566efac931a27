package scoring

import "socialimpact/internal/model"

// Column names of the deployed model
const (
	ColAge              = "Age"
	ColGender           = "Gender"
	ColAcademicLevel    = "Academic_Level"
	ColAvgDailyUsage    = "Avg_Daily_Usage_Hours"
	ColAffectsAcademics = "Affects_Academic_Performance"
	ColSleepHours       = "Sleep_Hours_Per_Night"
	ColConflicts        = "Conflicts_Over_Social_Media"
	ColAddictedScore    = "Addicted_Score"

	PlatformPrefix     = "Most_Used_Platform_"
	RelationshipPrefix = "Relationship_Status_"
)

// sleepColumns are accepted spellings of the sleep feature, first match wins
var sleepColumns = []string{ColSleepHours, "Sleep_Hours"}

// Schema is the ordered list of columns a model expects
type Schema []string

// Has reports whether key is a column
func (s Schema) Has(key string) bool {
	for _, k := range s {
		if k == key {
			return true
		}
	}
	return false
}

// DefaultSchema returns the 23 columns the shipped model was trained on
func DefaultSchema() Schema {
	return Schema{
		ColAge,
		ColGender,
		ColAcademicLevel,
		ColAvgDailyUsage,
		ColAffectsAcademics,
		ColSleepHours,
		ColConflicts,
		ColAddictedScore,
		PlatformPrefix + "Facebook",
		PlatformPrefix + "Instagram",
		PlatformPrefix + "KakaoTalk",
		PlatformPrefix + "LINE",
		PlatformPrefix + "LinkedIn",
		PlatformPrefix + "Snapchat",
		PlatformPrefix + "TikTok",
		PlatformPrefix + "Twitter",
		PlatformPrefix + "VKontakte",
		PlatformPrefix + "WeChat",
		PlatformPrefix + "WhatsApp",
		PlatformPrefix + "YouTube",
		RelationshipPrefix + "Complicated",
		RelationshipPrefix + "In Relationship",
		RelationshipPrefix + "Single",
	}
}

// platformColumnNames maps every platform the form offers to the column
// a model trained on it would carry.
var platformColumnNames = map[model.Platform]string{
	model.PlatformTikTok:    PlatformPrefix + "TikTok",
	model.PlatformYouTube:   PlatformPrefix + "YouTube",
	model.PlatformInstagram: PlatformPrefix + "Instagram",
	model.PlatformTwitter:   PlatformPrefix + "Twitter",
	model.PlatformFacebook:  PlatformPrefix + "Facebook",
	model.PlatformSnapchat:  PlatformPrefix + "Snapchat",
	model.PlatformLINE:      PlatformPrefix + "LINE",
	model.PlatformKakaoTalk: PlatformPrefix + "KakaoTalk",
	model.PlatformWhatsApp:  PlatformPrefix + "WhatsApp",
	model.PlatformWeChat:    PlatformPrefix + "WeChat",
	model.PlatformLinkedIn:  PlatformPrefix + "LinkedIn",
	model.PlatformVKontakte: PlatformPrefix + "VKontakte",
}

// relationshipColumnNames does the same for relationship status. The
// training data spelled the in-relationship category with a space.
var relationshipColumnNames = map[model.RelationshipStatus]string{
	model.RelationshipSingle:         RelationshipPrefix + "Single",
	model.RelationshipInRelationship: RelationshipPrefix + "In Relationship",
	model.RelationshipMarried:        RelationshipPrefix + "Married",
	model.RelationshipDivorced:       RelationshipPrefix + "Divorced",
	model.RelationshipComplicated:    RelationshipPrefix + "Complicated",
}
