package scoring

import "socialimpact/internal/model"

// FeatureVector is an ordered column → value mapping. Every schema column is present.
type FeatureVector struct {
	keys   []string
	values map[string]float64
}

func newFeatureVector(schema Schema) FeatureVector {
	v := FeatureVector{
		keys:   make([]string, len(schema)),
		values: make(map[string]float64, len(schema)),
	}
	copy(v.keys, schema)
	for _, k := range schema {
		v.values[k] = 0
	}
	return v
}

// set only writes columns that exist
func (v FeatureVector) set(key string, val float64) {
	if _, ok := v.values[key]; ok {
		v.values[key] = val
	}
}

func (v FeatureVector) Len() int { return len(v.keys) }

// Keys returns the columns in schema order
func (v FeatureVector) Keys() []string {
	out := make([]string, len(v.keys))
	copy(out, v.keys)
	return out
}

// Values returns the row in schema order
func (v FeatureVector) Values() []float64 {
	out := make([]float64, len(v.keys))
	for i, k := range v.keys {
		out[i] = v.values[k]
	}
	return out
}

func (v FeatureVector) Get(key string) (float64, bool) {
	val, ok := v.values[key]
	return val, ok
}

// Map returns a copy keyed by column
func (v FeatureVector) Map() map[string]float64 {
	out := make(map[string]float64, len(v.values))
	for k, val := range v.values {
		out[k] = val
	}
	return out
}

// Encoder turns profiles into vectors for one fixed schema. The category
// tables are resolved against the schema once, at construction.
type Encoder struct {
	schema          Schema
	platformCols    map[model.Platform]string
	relationshipCol map[model.RelationshipStatus]string
	sleepCol        string
}

// NewEncoder builds the lookup tables for schema
func NewEncoder(schema Schema) *Encoder {
	e := &Encoder{
		schema:          append(Schema(nil), schema...),
		platformCols:    make(map[model.Platform]string),
		relationshipCol: make(map[model.RelationshipStatus]string),
	}
	for p, col := range platformColumnNames {
		if schema.Has(col) {
			e.platformCols[p] = col
		}
	}
	for r, col := range relationshipColumnNames {
		if schema.Has(col) {
			e.relationshipCol[r] = col
		}
	}
	for _, col := range sleepColumns {
		if schema.Has(col) {
			e.sleepCol = col
			break
		}
	}
	return e
}

// Schema returns the columns this encoder fills
func (e *Encoder) Schema() Schema {
	return append(Schema(nil), e.schema...)
}

// Encode maps a profile onto the schema. Categories without a column
// contribute nothing.
func (e *Encoder) Encode(p model.UserProfile) FeatureVector {
	v := newFeatureVector(e.schema)

	v.set(ColAge, float64(p.Age))
	v.set(ColGender, genderValue(p.Gender))
	v.set(ColAcademicLevel, academicValue(p.AcademicLevel))
	v.set(ColAvgDailyUsage, p.AvgDailyUsageHours)
	v.set(ColAddictedScore, float64(p.AddictionScore))
	v.set(ColConflicts, float64(p.ConflictCount))
	v.set(ColAffectsAcademics, boolValue(p.AffectsAcademics))

	if e.sleepCol != "" {
		v.set(e.sleepCol, p.SleepHours)
	}
	if col, ok := e.platformCols[p.MainPlatform]; ok {
		v.set(col, 1)
	}
	if col, ok := e.relationshipCol[p.RelationshipStatus]; ok {
		v.set(col, 1)
	}
	return v
}

// Encode is a one-shot helper for callers that do not keep an Encoder
func Encode(p model.UserProfile, schema Schema) FeatureVector {
	return NewEncoder(schema).Encode(p)
}

func genderValue(g model.Gender) float64 {
	if g == model.GenderFemale {
		return 1
	}
	return 0
}

func academicValue(a model.AcademicLevel) float64 {
	switch a {
	case model.AcademicUndergraduate:
		return 1
	case model.AcademicGraduate:
		return 2
	default:
		return 0
	}
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
