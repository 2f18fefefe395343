package matching

// Weights centralizes scoring bonuses, penalties, and decision thresholds.
// The values are tuned empirically against real library inventories; change
// them through configuration rather than editing the defaults.
type Weights struct {
	TeacherCodeBonus      int
	YearBonus             int
	TrackExactBonus       int
	TrackBothBonus        int
	TrackOppositePenalty  int
	TrackNeutralBonus     int
	TrackSpecializedBonus int
	BranchBonus           int
	NameFragmentBonus     int

	ClampFloor         int
	ClampCeiling       int
	RejectionThreshold int

	AutoApplyConfidence         int
	TrackAutoConfidence         int
	SpecialTrackConfidence      int
	SpecialTeacherConfidence    int
	SpecialYearBranchConfidence int
	SpecialConflictConfidence   int

	SuggestionFloor int
	MaxAlternatives int
}

// DefaultWeights returns the scoring defaults.
func DefaultWeights() Weights {
	return Weights{
		TeacherCodeBonus:      80,
		YearBonus:             40,
		TrackExactBonus:       90,
		TrackBothBonus:        30,
		TrackOppositePenalty:  -50,
		TrackNeutralBonus:     10,
		TrackSpecializedBonus: 2,
		BranchBonus:           30,
		NameFragmentBonus:     15,

		ClampFloor:         -30,
		ClampCeiling:       200,
		RejectionThreshold: -20,

		AutoApplyConfidence:         75,
		TrackAutoConfidence:         70,
		SpecialTrackConfidence:      65,
		SpecialTeacherConfidence:    55,
		SpecialYearBranchConfidence: 60,
		SpecialConflictConfidence:   55,

		SuggestionFloor: 30,
		MaxAlternatives: 5,
	}
}

func (w Weights) normalized() Weights {
	d := DefaultWeights()

	if w.TeacherCodeBonus <= 0 {
		w.TeacherCodeBonus = d.TeacherCodeBonus
	}
	if w.YearBonus <= 0 {
		w.YearBonus = d.YearBonus
	}
	if w.TrackExactBonus <= 0 {
		w.TrackExactBonus = d.TrackExactBonus
	}
	if w.TrackBothBonus <= 0 {
		w.TrackBothBonus = d.TrackBothBonus
	}
	if w.TrackOppositePenalty >= 0 {
		w.TrackOppositePenalty = d.TrackOppositePenalty
	}
	if w.TrackNeutralBonus <= 0 {
		w.TrackNeutralBonus = d.TrackNeutralBonus
	}
	if w.TrackSpecializedBonus <= 0 {
		w.TrackSpecializedBonus = d.TrackSpecializedBonus
	}
	if w.BranchBonus <= 0 {
		w.BranchBonus = d.BranchBonus
	}
	if w.NameFragmentBonus <= 0 {
		w.NameFragmentBonus = d.NameFragmentBonus
	}
	if w.ClampFloor >= 0 {
		w.ClampFloor = d.ClampFloor
	}
	if w.ClampCeiling <= 0 {
		w.ClampCeiling = d.ClampCeiling
	}
	if w.RejectionThreshold >= 0 {
		w.RejectionThreshold = d.RejectionThreshold
	}
	if w.AutoApplyConfidence <= 0 {
		w.AutoApplyConfidence = d.AutoApplyConfidence
	}
	if w.TrackAutoConfidence <= 0 {
		w.TrackAutoConfidence = d.TrackAutoConfidence
	}
	if w.SpecialTrackConfidence <= 0 {
		w.SpecialTrackConfidence = d.SpecialTrackConfidence
	}
	if w.SpecialTeacherConfidence <= 0 {
		w.SpecialTeacherConfidence = d.SpecialTeacherConfidence
	}
	if w.SpecialYearBranchConfidence <= 0 {
		w.SpecialYearBranchConfidence = d.SpecialYearBranchConfidence
	}
	if w.SpecialConflictConfidence <= 0 {
		w.SpecialConflictConfidence = d.SpecialConflictConfidence
	}
	if w.SuggestionFloor <= 0 {
		w.SuggestionFloor = d.SuggestionFloor
	}
	if w.MaxAlternatives <= 0 {
		w.MaxAlternatives = d.MaxAlternatives
	}
	return w
}
