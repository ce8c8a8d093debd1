package reputation

import (
	"context"
	"strings"

	"github.com/louisbranch/faction-reputation/internal/platform/grpc/pagination"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/domain/person"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/domain/shop"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/domain/standing"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/domain/submission"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/domain/tribute"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/observability/audit/events"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/storage"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	defaultListTributesPageSize = 10
	maxListTributesPageSize     = 50

	defaultListPropagationFailuresLimit = 50
	maxListPropagationFailuresLimit     = 200

	adminReason = "admin"
)

// Deps wires the domain services behind the gRPC surface.
type Deps struct {
	Engine      *standing.Engine
	Tributes    *tribute.Service
	People      *person.Gate
	Submissions *submission.Service
	Shop        *shop.Shop
	Audit       storage.AuditStore
}

// Service exposes reputation.v1 gRPC operations.
type Service struct {
	engine      *standing.Engine
	tributes    *tribute.Service
	people      *person.Gate
	submissions *submission.Service
	shop        *shop.Shop
	audit       storage.AuditStore
}

// NewService creates a reputation service from its domain dependencies.
func NewService(deps Deps) *Service {
	return &Service{
		engine:      deps.Engine,
		tributes:    deps.Tributes,
		people:      deps.People,
		submissions: deps.Submissions,
		shop:        deps.Shop,
		audit:       deps.Audit,
	}
}

// ApplyStandingEvent applies an admin delta to one pair and propagates it.
func (s *Service) ApplyStandingEvent(ctx context.Context, in *ApplyStandingEventRequest) (*ApplyStandingEventResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "apply standing event request is required")
	}
	if s == nil || s.engine == nil {
		return nil, status.Error(codes.Internal, "standing engine is not configured")
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		reason = adminReason
	}
	result, err := s.engine.ApplyEvent(ctx, in.TrainerID, in.FactionID, in.Delta, reason)
	if err != nil {
		return nil, handleErr(ctx, err)
	}
	return &ApplyStandingEventResponse{Result: resultToAPI(result)}, nil
}

// SetStandingTitle overrides the stored title of one pair.
func (s *Service) SetStandingTitle(ctx context.Context, in *SetStandingTitleRequest) (*SetStandingTitleResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "set standing title request is required")
	}
	if s == nil || s.engine == nil {
		return nil, status.Error(codes.Internal, "standing engine is not configured")
	}
	change, err := s.engine.SetTitle(ctx, in.TrainerID, in.FactionID, in.TitleID)
	if err != nil {
		return nil, handleErr(ctx, err)
	}
	return &SetStandingTitleResponse{Change: changeToAPI(change)}, nil
}

// ScoreSubmission scores an approved submission and applies it once.
func (s *Service) ScoreSubmission(ctx context.Context, in *ScoreSubmissionRequest) (*ScoreSubmissionResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "score submission request is required")
	}
	if s == nil || s.submissions == nil {
		return nil, status.Error(codes.Internal, "submission service is not configured")
	}
	outcome, err := s.submissions.ScoreAndApply(ctx, submission.ScoreInput{
		TrainerID:     in.TrainerID,
		FactionID:     in.FactionID,
		SubmissionID:  in.SubmissionID,
		PromptID:      in.PromptID,
		TrainerStatus: in.TrainerStatus,
		TaskSize:      in.TaskSize,
		SpecialBonus:  in.SpecialBonus,
		CustomScore:   in.CustomScore,
	})
	if err != nil {
		return nil, handleErr(ctx, err)
	}
	return &ScoreSubmissionResponse{
		Submission: submissionToAPI(outcome.Submission),
		Result:     resultToAPI(outcome.Result),
	}, nil
}

// PreviewSubmissionScore computes a score without recording anything.
func (s *Service) PreviewSubmissionScore(ctx context.Context, in *PreviewSubmissionScoreRequest) (*PreviewSubmissionScoreResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "preview submission score request is required")
	}
	if s == nil || s.submissions == nil {
		return nil, status.Error(codes.Internal, "submission service is not configured")
	}
	result, err := s.submissions.Preview(submission.PreviewInput{
		FactionID:     in.FactionID,
		PromptID:      in.PromptID,
		TrainerStatus: in.TrainerStatus,
		TaskSize:      in.TaskSize,
		SpecialBonus:  in.SpecialBonus,
		CustomScore:   in.CustomScore,
	})
	if err != nil {
		return nil, handleErr(ctx, err)
	}
	return &PreviewSubmissionScoreResponse{BaseScore: result.Base, FinalScore: result.Final}, nil
}

// SubmitTribute records a pending tribute for a gated title.
func (s *Service) SubmitTribute(ctx context.Context, in *SubmitTributeRequest) (*SubmitTributeResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "submit tribute request is required")
	}
	if s == nil || s.tributes == nil {
		return nil, status.Error(codes.Internal, "tribute service is not configured")
	}
	created, err := s.tributes.Submit(ctx, tribute.SubmitInput{
		TrainerID:      in.TrainerID,
		TitleID:        in.TitleID,
		SubmissionID:   in.SubmissionID,
		SubmissionType: in.SubmissionType,
		SubmissionURL:  in.SubmissionURL,
		Note:           in.Note,
	})
	if err != nil {
		return nil, handleErr(ctx, err)
	}
	return &SubmitTributeResponse{Tribute: tributeToAPI(created)}, nil
}

// ApproveTribute approves a pending tribute and refreshes the trainer's title.
func (s *Service) ApproveTribute(ctx context.Context, in *ApproveTributeRequest) (*ApproveTributeResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "approve tribute request is required")
	}
	if s == nil || s.tributes == nil {
		return nil, status.Error(codes.Internal, "tribute service is not configured")
	}
	approval, err := s.tributes.Approve(ctx, in.TributeID, reviewerID(ctx, in.ReviewerID))
	if err != nil {
		return nil, handleErr(ctx, err)
	}
	return &ApproveTributeResponse{
		Tribute: tributeToAPI(approval.Tribute),
		Title:   changeToAPI(approval.Title),
	}, nil
}

// RejectTribute rejects a pending tribute and releases its submission.
func (s *Service) RejectTribute(ctx context.Context, in *RejectTributeRequest) (*RejectTributeResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "reject tribute request is required")
	}
	if s == nil || s.tributes == nil {
		return nil, status.Error(codes.Internal, "tribute service is not configured")
	}
	rejected, err := s.tributes.Reject(ctx, in.TributeID, reviewerID(ctx, in.ReviewerID), in.Reason)
	if err != nil {
		return nil, handleErr(ctx, err)
	}
	return &RejectTributeResponse{Tribute: tributeToAPI(rejected)}, nil
}

// ListTributes returns one filtered page of tributes.
func (s *Service) ListTributes(ctx context.Context, in *ListTributesRequest) (*ListTributesResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "list tributes request is required")
	}
	if s == nil || s.tributes == nil {
		return nil, status.Error(codes.Internal, "tribute service is not configured")
	}
	pageSize := pagination.ClampPageSize(in.PageSize, pagination.PageSizeConfig{
		Default: defaultListTributesPageSize,
		Max:     maxListTributesPageSize,
	})
	page, err := s.tributes.List(ctx, in.Filter, pageSize, in.PageToken)
	if err != nil {
		return nil, handleErr(ctx, err)
	}
	resp := &ListTributesResponse{
		Tributes:      make([]Tribute, 0, len(page.Tributes)),
		NextPageToken: page.NextPageToken,
	}
	for _, t := range page.Tributes {
		resp.Tributes = append(resp.Tributes, tributeToAPI(t))
	}
	return resp, nil
}

// GetTributeRequirement returns the next tribute the trainer can pay.
func (s *Service) GetTributeRequirement(ctx context.Context, in *GetTributeRequirementRequest) (*GetTributeRequirementResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get tribute requirement request is required")
	}
	if s == nil || s.tributes == nil {
		return nil, status.Error(codes.Internal, "tribute service is not configured")
	}
	next, err := s.tributes.NextRequirement(ctx, in.TrainerID, in.FactionID)
	if err != nil {
		return nil, handleErr(ctx, err)
	}
	resp := &GetTributeRequirementResponse{}
	if next != nil {
		resp.Requirement = &TributeRequirement{
			Title:           titleToAPI(next.Title),
			Requirements:    requirementsToAPI(next.Requirements),
			TributePrompt:   next.TributePrompt,
			CurrentStanding: next.CurrentStanding,
		}
	}
	return resp, nil
}

// MeetPerson meets a faction NPC once and grants the reward.
func (s *Service) MeetPerson(ctx context.Context, in *MeetPersonRequest) (*MeetPersonResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "meet person request is required")
	}
	if s == nil || s.people == nil {
		return nil, status.Error(codes.Internal, "person gate is not configured")
	}
	result, err := s.people.Meet(ctx, in.TrainerID, in.PersonID, in.SubmissionID)
	if err != nil {
		return nil, handleErr(ctx, err)
	}
	return &MeetPersonResponse{Result: resultToAPI(result)}, nil
}

// ListPeople lists a faction's people as the trainer sees them.
func (s *Service) ListPeople(ctx context.Context, in *ListPeopleRequest) (*ListPeopleResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "list people request is required")
	}
	if s == nil || s.people == nil {
		return nil, status.Error(codes.Internal, "person gate is not configured")
	}
	people, err := s.people.List(ctx, in.TrainerID, in.FactionID)
	if err != nil {
		return nil, handleErr(ctx, err)
	}
	resp := &ListPeopleResponse{People: make([]PersonStatus, 0, len(people))}
	for _, p := range people {
		resp.People = append(resp.People, personToAPI(p))
	}
	return resp, nil
}

// GetStanding returns the display projection for one pair.
func (s *Service) GetStanding(ctx context.Context, in *GetStandingRequest) (*GetStandingResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get standing request is required")
	}
	if s == nil || s.engine == nil {
		return nil, status.Error(codes.Internal, "standing engine is not configured")
	}
	projection, err := s.engine.Project(ctx, in.TrainerID, in.FactionID)
	if err != nil {
		return nil, handleErr(ctx, err)
	}
	return &GetStandingResponse{Standing: projectionToAPI(projection)}, nil
}

// ListStandings returns one projection per catalog faction.
func (s *Service) ListStandings(ctx context.Context, in *ListStandingsRequest) (*ListStandingsResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "list standings request is required")
	}
	if s == nil || s.engine == nil {
		return nil, status.Error(codes.Internal, "standing engine is not configured")
	}
	projections, err := s.engine.ProjectAll(ctx, in.TrainerID)
	if err != nil {
		return nil, handleErr(ctx, err)
	}
	resp := &ListStandingsResponse{Standings: make([]Standing, 0, len(projections))}
	for _, p := range projections {
		resp.Standings = append(resp.Standings, projectionToAPI(p))
	}
	return resp, nil
}

// ListTitles returns the faction ladder annotated for the trainer.
func (s *Service) ListTitles(ctx context.Context, in *ListTitlesRequest) (*ListTitlesResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "list titles request is required")
	}
	if s == nil || s.tributes == nil {
		return nil, status.Error(codes.Internal, "tribute service is not configured")
	}
	statuses, err := s.tributes.TitleStatuses(ctx, in.TrainerID, in.FactionID)
	if err != nil {
		return nil, handleErr(ctx, err)
	}
	resp := &ListTitlesResponse{Titles: make([]TitleStatus, 0, len(statuses))}
	for _, st := range statuses {
		resp.Titles = append(resp.Titles, titleStatusToAPI(st))
	}
	return resp, nil
}

// GetEligibleItems lists store items the trainer may buy.
func (s *Service) GetEligibleItems(ctx context.Context, in *GetEligibleItemsRequest) (*GetEligibleItemsResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get eligible items request is required")
	}
	if s == nil || s.shop == nil {
		return nil, status.Error(codes.Internal, "shop is not configured")
	}
	items, err := s.shop.EligibleItems(ctx, in.TrainerID, in.FactionID)
	if err != nil {
		return nil, handleErr(ctx, err)
	}
	resp := &GetEligibleItemsResponse{Items: make([]StoreItem, 0, len(items))}
	for _, item := range items {
		resp.Items = append(resp.Items, storeItemToAPI(item))
	}
	return resp, nil
}

// ListFactions returns the catalog factions and their relationships.
func (s *Service) ListFactions(ctx context.Context, in *ListFactionsRequest) (*ListFactionsResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "list factions request is required")
	}
	if s == nil || s.engine == nil {
		return nil, status.Error(codes.Internal, "standing engine is not configured")
	}
	catalog := s.engine.Catalog()
	factions := catalog.Factions()
	relationships := catalog.Graph().Relationships()
	resp := &ListFactionsResponse{
		Factions:      make([]Faction, 0, len(factions)),
		Relationships: make([]Relationship, 0, len(relationships)),
	}
	for _, f := range factions {
		resp.Factions = append(resp.Factions, Faction{
			ID:          f.ID,
			Name:        f.Name,
			Description: f.Description,
			Color:       f.Color,
			BannerImage: f.BannerImage,
			IconImage:   f.IconImage,
		})
	}
	for _, rel := range relationships {
		resp.Relationships = append(resp.Relationships, Relationship{
			FactionID:        rel.FactionID,
			RelatedFactionID: rel.RelatedFactionID,
			Type:             string(rel.Type),
			Weight:           rel.Weight(),
		})
	}
	return resp, nil
}

// ListPrompts lists a faction's active prompts.
func (s *Service) ListPrompts(ctx context.Context, in *ListPromptsRequest) (*ListPromptsResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "list prompts request is required")
	}
	if s == nil || s.submissions == nil {
		return nil, status.Error(codes.Internal, "submission service is not configured")
	}
	prompts, err := s.submissions.Prompts(ctx, in.FactionID, in.TrainerID)
	if err != nil {
		return nil, handleErr(ctx, err)
	}
	resp := &ListPromptsResponse{Prompts: make([]Prompt, 0, len(prompts))}
	for _, p := range prompts {
		resp.Prompts = append(resp.Prompts, promptToAPI(p))
	}
	return resp, nil
}

// ListFactionSubmissions lists a trainer's scored submissions, newest first.
func (s *Service) ListFactionSubmissions(ctx context.Context, in *ListFactionSubmissionsRequest) (*ListFactionSubmissionsResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "list faction submissions request is required")
	}
	if s == nil || s.submissions == nil {
		return nil, status.Error(codes.Internal, "submission service is not configured")
	}
	subs, err := s.submissions.History(ctx, in.TrainerID, in.FactionID)
	if err != nil {
		return nil, handleErr(ctx, err)
	}
	resp := &ListFactionSubmissionsResponse{Submissions: make([]FactionSubmission, 0, len(subs))}
	for _, sub := range subs {
		resp.Submissions = append(resp.Submissions, submissionToAPI(sub))
	}
	return resp, nil
}

// ListPropagationFailures lists audited propagation failures, newest first.
func (s *Service) ListPropagationFailures(ctx context.Context, in *ListPropagationFailuresRequest) (*ListPropagationFailuresResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "list propagation failures request is required")
	}
	if s == nil || s.audit == nil {
		return nil, status.Error(codes.Internal, "audit store is not configured")
	}
	limit := pagination.ClampPageSize(in.Limit, pagination.PageSizeConfig{
		Default: defaultListPropagationFailuresLimit,
		Max:     maxListPropagationFailuresLimit,
	})
	evts, err := s.audit.ListAuditEvents(ctx, events.PropagationFailed, strings.TrimSpace(in.TrainerID), limit)
	if err != nil {
		return nil, status.Errorf(codes.Unavailable, "list propagation failures: %v", err)
	}
	resp := &ListPropagationFailuresResponse{Failures: make([]AuditEvent, 0, len(evts))}
	for _, evt := range evts {
		resp.Failures = append(resp.Failures, auditEventToAPI(evt))
	}
	return resp, nil
}
