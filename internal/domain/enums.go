package domain

// LearningStatus is the coarse learning state of a vocabulary entry.
// It is a progress marker, not a spaced-repetition interval: "new" is the
// initial state, "learning" is reached only through an explicit update, and
// "mastered" is not terminal since mastered entries stay editable.
type LearningStatus string

const (
	StatusNew      LearningStatus = "new"
	StatusLearning LearningStatus = "learning"
	StatusMastered LearningStatus = "mastered"
)

func (s LearningStatus) String() string { return string(s) }

func (s LearningStatus) IsValid() bool {
	switch s {
	case StatusNew, StatusLearning, StatusMastered:
		return true
	}
	return false
}

// BatchAction is a predefined operation applied independently to many entries.
type BatchAction string

const (
	BatchActionDelete         BatchAction = "delete"
	BatchActionMarkAsMastered BatchAction = "mark_as_mastered"
	BatchActionResetLearning  BatchAction = "reset_learning"
	BatchActionUpdateStatus   BatchAction = "update_status"
)

func (a BatchAction) String() string { return string(a) }

func (a BatchAction) IsValid() bool {
	switch a {
	case BatchActionDelete, BatchActionMarkAsMastered, BatchActionResetLearning, BatchActionUpdateStatus:
		return true
	}
	return false
}

// WordRelation is the kind of link between two dictionary words.
type WordRelation string

const (
	RelationSynonym WordRelation = "synonym"
	RelationAntonym WordRelation = "antonym"
)

func (r WordRelation) String() string { return string(r) }

// MasteryLevelMax is the upper bound of the 0–5 mastery counter.
const MasteryLevelMax = 5
