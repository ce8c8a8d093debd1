// Package score computes standing deltas for faction submissions.
package score

import (
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/faction-reputation/internal/platform/errors"
)

// TrainerStatus records whether the trainer worked alone or with others.
type TrainerStatus string

const (
	TrainerAlone      TrainerStatus = "alone"
	TrainerWithOthers TrainerStatus = "with_others"
)

// TaskSize is the self-reported scope of the submitted work.
type TaskSize string

const (
	TaskSmall  TaskSize = "small"
	TaskMedium TaskSize = "medium"
	TaskLarge  TaskSize = "large"
)

// Scoring constants.
const (
	Base              = 10
	AloneBonus        = 10
	WithOthersBonus   = 20
	MediumTaskBonus   = 10
	LargeTaskBonus    = 20
	SpecialBonusValue = 20
)

// Input holds the reviewer-confirmed facts about one submission.
type Input struct {
	TrainerStatus TrainerStatus
	TaskSize      TaskSize
	SpecialBonus  bool
	// PromptModifier is the selected prompt's modifier, zero without a prompt.
	PromptModifier int
	// CustomScore replaces the computed score when set.
	CustomScore *int
}

// Result is the computed score and the value actually applied.
type Result struct {
	Base  int
	Final int
}

// ParseTrainerStatus normalizes a trainer status value.
func ParseTrainerStatus(raw string) (TrainerStatus, error) {
	switch TrainerStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case TrainerAlone:
		return TrainerAlone, nil
	case TrainerWithOthers, "with-others", "withothers":
		return TrainerWithOthers, nil
	default:
		return "", apperrors.WithMetadata(apperrors.CodeScoreTrainerStatus,
			fmt.Sprintf("unknown trainer status %q", raw), map[string]string{"Value": raw})
	}
}

// ParseTaskSize normalizes a task size value.
func ParseTaskSize(raw string) (TaskSize, error) {
	switch size := TaskSize(strings.ToLower(strings.TrimSpace(raw))); size {
	case TaskSmall, TaskMedium, TaskLarge:
		return size, nil
	default:
		return "", apperrors.WithMetadata(apperrors.CodeScoreTaskSize,
			fmt.Sprintf("unknown task size %q", raw), map[string]string{"Value": raw})
	}
}

// Compute applies the additive scoring rules. The total is not clamped:
// a negative prompt modifier may push it below zero.
func Compute(in Input) (Result, error) {
	total := Base

	switch in.TrainerStatus {
	case TrainerAlone:
		total += AloneBonus
	case TrainerWithOthers:
		total += WithOthersBonus
	default:
		return Result{}, apperrors.New(apperrors.CodeScoreTrainerStatus,
			fmt.Sprintf("unknown trainer status %q", in.TrainerStatus))
	}

	switch in.TaskSize {
	case TaskSmall:
	case TaskMedium:
		total += MediumTaskBonus
	case TaskLarge:
		total += LargeTaskBonus
	default:
		return Result{}, apperrors.New(apperrors.CodeScoreTaskSize,
			fmt.Sprintf("unknown task size %q", in.TaskSize))
	}

	if in.SpecialBonus {
		total += SpecialBonusValue
	}
	total += in.PromptModifier

	res := Result{Base: total, Final: total}
	if in.CustomScore != nil {
		res.Final = *in.CustomScore
	}
	return res, nil
}
