package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialimpact/internal/model"
)

func sampleProfile() model.UserProfile {
	return model.UserProfile{
		Age:                20,
		Gender:             model.GenderFemale,
		AcademicLevel:      model.AcademicUndergraduate,
		AvgDailyUsageHours: 4.0,
		MainPlatform:       model.PlatformTikTok,
		AddictionScore:     5,
		SleepHours:         7.0,
		AffectsAcademics:   true,
		ConflictCount:      2,
		RelationshipStatus: model.RelationshipSingle,
	}
}

func countOnes(v FeatureVector, prefix string) int {
	n := 0
	for _, k := range v.Keys() {
		if strings.HasPrefix(k, prefix) {
			if val, _ := v.Get(k); val == 1 {
				n++
			}
		}
	}
	return n
}

func TestEncode_Scenario(t *testing.T) {
	v := Encode(sampleProfile(), DefaultSchema())

	expect := map[string]float64{
		ColAge:                        20,
		ColGender:                     1,
		ColAcademicLevel:              1,
		ColAvgDailyUsage:              4.0,
		ColAffectsAcademics:           1,
		ColSleepHours:                 7.0,
		ColConflicts:                  2,
		ColAddictedScore:              5,
		PlatformPrefix + "TikTok":     1,
		RelationshipPrefix + "Single": 1,
	}
	for _, k := range v.Keys() {
		got, ok := v.Get(k)
		require.True(t, ok)
		assert.Equal(t, expect[k], got, k)
	}
}

func TestEncode_CoversSchema(t *testing.T) {
	schema := DefaultSchema()
	require.Len(t, schema, 23)

	for _, p := range model.Platforms {
		for _, r := range model.RelationshipStatuses {
			prof := sampleProfile()
			prof.MainPlatform = p
			prof.RelationshipStatus = r

			v := Encode(prof, schema)
			assert.Equal(t, len(schema), v.Len())
			assert.Equal(t, []string(schema), v.Keys())
			assert.Len(t, v.Values(), len(schema))
			assert.Equal(t, 1, countOnes(v, PlatformPrefix), "platform %s", p)
			assert.LessOrEqual(t, countOnes(v, RelationshipPrefix), 1, "relationship %s", r)
		}
	}
}

func TestEncode_RelationshipWithoutColumn(t *testing.T) {
	for _, r := range []model.RelationshipStatus{model.RelationshipMarried, model.RelationshipDivorced} {
		prof := sampleProfile()
		prof.RelationshipStatus = r

		v := Encode(prof, DefaultSchema())
		assert.Equal(t, 0, countOnes(v, RelationshipPrefix), string(r))
		assert.Equal(t, 23, v.Len())
	}
}

func TestEncode_InRelationshipUsesTrainedSpelling(t *testing.T) {
	prof := sampleProfile()
	prof.RelationshipStatus = model.RelationshipInRelationship

	v := Encode(prof, DefaultSchema())
	val, ok := v.Get(RelationshipPrefix + "In Relationship")
	require.True(t, ok)
	assert.Equal(t, 1.0, val)
}

func TestEncode_PlatformMissingFromSchema(t *testing.T) {
	schema := Schema{ColAge, PlatformPrefix + "YouTube"}
	prof := sampleProfile()

	v := Encode(prof, schema)
	assert.Equal(t, 0, countOnes(v, PlatformPrefix))
	assert.Equal(t, []string{ColAge, PlatformPrefix + "YouTube"}, v.Keys())
}

func TestEncode_SleepOnlyWhenColumnExists(t *testing.T) {
	prof := sampleProfile()

	without := Encode(prof, Schema{ColAge, ColGender})
	_, ok := without.Get(ColSleepHours)
	assert.False(t, ok)
	assert.Equal(t, 2, without.Len())

	legacy := Encode(prof, Schema{ColAge, "Sleep_Hours"})
	val, ok := legacy.Get("Sleep_Hours")
	require.True(t, ok)
	assert.Equal(t, 7.0, val)
}

func TestEncode_CategoricalMappings(t *testing.T) {
	tests := []struct {
		level model.AcademicLevel
		want  float64
	}{
		{model.AcademicHighSchool, 0},
		{model.AcademicUndergraduate, 1},
		{model.AcademicGraduate, 2},
	}
	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			prof := sampleProfile()
			prof.AcademicLevel = tt.level
			prof.Gender = model.GenderMale
			prof.AffectsAcademics = false

			v := Encode(prof, DefaultSchema())
			got, _ := v.Get(ColAcademicLevel)
			assert.Equal(t, tt.want, got)
			g, _ := v.Get(ColGender)
			assert.Equal(t, 0.0, g)
			a, _ := v.Get(ColAffectsAcademics)
			assert.Equal(t, 0.0, a)
		})
	}
}

func TestEncode_DeterministicAndIsolated(t *testing.T) {
	enc := NewEncoder(DefaultSchema())
	prof := sampleProfile()

	a := enc.Encode(prof)
	b := enc.Encode(prof)
	assert.Equal(t, a.Values(), b.Values())
	assert.Equal(t, a.Map(), b.Map())

	m := a.Map()
	m[ColAge] = 99
	got, _ := a.Get(ColAge)
	assert.Equal(t, 20.0, got, "Map must return a copy")
}

func TestNewEncoder_CopiesSchema(t *testing.T) {
	schema := DefaultSchema()
	enc := NewEncoder(schema)
	schema[0] = "mutated"
	assert.Equal(t, ColAge, enc.Schema()[0])
}
