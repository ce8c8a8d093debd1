package reputation

import (
	"github.com/louisbranch/faction-reputation/internal/services/reputation/domain/faction"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/domain/person"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/domain/standing"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/domain/tribute"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/storage"
)

func requirementsToAPI(reqs []faction.Requirement) []Requirement {
	if len(reqs) == 0 {
		return nil
	}
	out := make([]Requirement, 0, len(reqs))
	for _, req := range reqs {
		out = append(out, Requirement{
			Kind:     string(req.Kind),
			Name:     req.Name,
			Quantity: req.Quantity,
			Amount:   req.Amount,
		})
	}
	return out
}

func titleToAPI(t faction.Title) Title {
	return Title{
		ID:                  t.ID,
		FactionID:           t.FactionID,
		Name:                t.Name,
		Description:         t.Description,
		StandingRequirement: t.StandingRequirement,
		IsPositive:          t.IsPositive,
		RequiresTribute:     t.RequiresTribute,
		TributeRequirements: requirementsToAPI(t.TributeRequirements),
		TributePrompt:       t.TributePrompt,
	}
}

func titlePtrToAPI(t *faction.Title) *Title {
	if t == nil {
		return nil
	}
	out := titleToAPI(*t)
	return &out
}

func changeToAPI(c standing.Change) Change {
	return Change{
		FactionID:             c.FactionID,
		OldValue:              c.OldValue,
		NewValue:              c.NewValue,
		OldTitleID:            c.OldTitleID,
		NewTitleID:            c.NewTitleID,
		PendingTributeTitleID: c.PendingTributeTitleID,
	}
}

func resultToAPI(r standing.Result) StandingChangeResult {
	out := StandingChangeResult{Origin: changeToAPI(r.Origin)}
	for _, c := range r.Propagated {
		out.Propagated = append(out.Propagated, changeToAPI(c))
	}
	for _, f := range r.Failures {
		failure := PropagationFailure{FactionID: f.FactionID, Delta: f.Delta}
		if f.Err != nil {
			failure.Error = f.Err.Error()
		}
		out.Failures = append(out.Failures, failure)
	}
	return out
}

func projectionToAPI(p standing.Projection) Standing {
	return Standing{
		TrainerID:           p.TrainerID,
		FactionID:           p.FactionID,
		Standing:            p.Standing,
		CurrentTitle:        titlePtrToAPI(p.CurrentTitle),
		NextPositiveTitle:   titlePtrToAPI(p.NextPositiveTitle),
		PendingTributeTitle: titlePtrToAPI(p.PendingTributeTitle),
		ProgressPercent:     p.ProgressPercent,
		UpdatedAt:           p.UpdatedAt,
	}
}

func tributeToAPI(t storage.Tribute) Tribute {
	return Tribute{
		ID:             t.ID,
		TitleID:        t.TitleID,
		FactionID:      t.FactionID,
		TrainerID:      t.TrainerID,
		SubmissionID:   t.SubmissionID,
		Requirements:   requirementsToAPI(t.Requirements),
		SubmissionType: t.SubmissionType,
		SubmissionURL:  t.SubmissionURL,
		Note:           t.Note,
		Status:         string(t.Status),
		ReviewerID:     t.ReviewerID,
		RejectReason:   t.RejectReason,
		SubmittedAt:    t.SubmittedAt,
		ReviewedAt:     t.ReviewedAt,
	}
}

func titleStatusToAPI(s tribute.TitleStatus) TitleStatus {
	return TitleStatus{
		Title:         titleToAPI(s.Title),
		Available:     s.Available,
		Current:       s.Current,
		TributeStatus: string(s.TributeStatus),
		CanAdvance:    s.CanAdvance,
	}
}

func personToAPI(s person.Status) PersonStatus {
	return PersonStatus{
		ID:                  s.ID,
		FactionID:           s.FactionID,
		Alias:               s.Alias,
		Name:                s.Name,
		Description:         s.Description,
		StandingRequirement: s.StandingRequirement,
		StandingReward:      s.StandingReward,
		HasMet:              s.HasMet,
		CanMeet:             s.CanMeet,
		MetAt:               s.MetAt,
	}
}

func submissionToAPI(s storage.FactionSubmission) FactionSubmission {
	return FactionSubmission{
		ID:            s.ID,
		TrainerID:     s.TrainerID,
		FactionID:     s.FactionID,
		SubmissionID:  s.SubmissionID,
		PromptID:      s.PromptID,
		TrainerStatus: s.TrainerStatus,
		TaskSize:      s.TaskSize,
		SpecialBonus:  s.SpecialBonus,
		BaseScore:     s.BaseScore,
		FinalScore:    s.FinalScore,
		CreatedAt:     s.CreatedAt,
	}
}

func promptToAPI(p faction.Prompt) Prompt {
	return Prompt{
		ID:              p.ID,
		FactionID:       p.FactionID,
		Title:           p.Title,
		Description:     p.Description,
		Modifier:        p.Modifier,
		RequiredTitleID: p.RequiredTitleID,
	}
}

func storeItemToAPI(item faction.StoreItem) StoreItem {
	return StoreItem{
		ID:                  item.ID,
		FactionID:           item.FactionID,
		Name:                item.Name,
		Description:         item.Description,
		ItemType:            item.ItemType,
		Price:               item.Price,
		StandingRequirement: item.StandingRequirement,
		RequiredTitleID:     item.RequiredTitleID,
	}
}

func auditEventToAPI(evt storage.AuditEvent) AuditEvent {
	return AuditEvent{
		ID:               evt.ID,
		Timestamp:        evt.Timestamp,
		EventName:        evt.EventName,
		Severity:         evt.Severity,
		TrainerID:        evt.TrainerID,
		FactionID:        evt.FactionID,
		RelatedFactionID: evt.RelatedFactionID,
		Delta:            evt.Delta,
		TraceID:          evt.TraceID,
		SpanID:           evt.SpanID,
		Attributes:       evt.Attributes,
	}
}
