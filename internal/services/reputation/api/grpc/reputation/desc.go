package reputation

import (
	"context"

	_ "github.com/louisbranch/faction-reputation/internal/platform/grpc/jsoncodec"
	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "reputation.v1.FactionReputationService"

// FactionReputationServer is the server API for the reputation service.
type FactionReputationServer interface {
	ApplyStandingEvent(context.Context, *ApplyStandingEventRequest) (*ApplyStandingEventResponse, error)
	SetStandingTitle(context.Context, *SetStandingTitleRequest) (*SetStandingTitleResponse, error)
	ScoreSubmission(context.Context, *ScoreSubmissionRequest) (*ScoreSubmissionResponse, error)
	PreviewSubmissionScore(context.Context, *PreviewSubmissionScoreRequest) (*PreviewSubmissionScoreResponse, error)
	SubmitTribute(context.Context, *SubmitTributeRequest) (*SubmitTributeResponse, error)
	ApproveTribute(context.Context, *ApproveTributeRequest) (*ApproveTributeResponse, error)
	RejectTribute(context.Context, *RejectTributeRequest) (*RejectTributeResponse, error)
	ListTributes(context.Context, *ListTributesRequest) (*ListTributesResponse, error)
	GetTributeRequirement(context.Context, *GetTributeRequirementRequest) (*GetTributeRequirementResponse, error)
	MeetPerson(context.Context, *MeetPersonRequest) (*MeetPersonResponse, error)
	ListPeople(context.Context, *ListPeopleRequest) (*ListPeopleResponse, error)
	GetStanding(context.Context, *GetStandingRequest) (*GetStandingResponse, error)
	ListStandings(context.Context, *ListStandingsRequest) (*ListStandingsResponse, error)
	ListTitles(context.Context, *ListTitlesRequest) (*ListTitlesResponse, error)
	GetEligibleItems(context.Context, *GetEligibleItemsRequest) (*GetEligibleItemsResponse, error)
	ListFactions(context.Context, *ListFactionsRequest) (*ListFactionsResponse, error)
	ListPrompts(context.Context, *ListPromptsRequest) (*ListPromptsResponse, error)
	ListFactionSubmissions(context.Context, *ListFactionSubmissionsRequest) (*ListFactionSubmissionsResponse, error)
	ListPropagationFailures(context.Context, *ListPropagationFailuresRequest) (*ListPropagationFailuresResponse, error)
}

var _ FactionReputationServer = (*Service)(nil)

// ServiceDesc describes the reputation service for grpc.Server. Messages are
// plain structs carried by the json codec.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FactionReputationServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("ApplyStandingEvent", FactionReputationServer.ApplyStandingEvent),
		unary("SetStandingTitle", FactionReputationServer.SetStandingTitle),
		unary("ScoreSubmission", FactionReputationServer.ScoreSubmission),
		unary("PreviewSubmissionScore", FactionReputationServer.PreviewSubmissionScore),
		unary("SubmitTribute", FactionReputationServer.SubmitTribute),
		unary("ApproveTribute", FactionReputationServer.ApproveTribute),
		unary("RejectTribute", FactionReputationServer.RejectTribute),
		unary("ListTributes", FactionReputationServer.ListTributes),
		unary("GetTributeRequirement", FactionReputationServer.GetTributeRequirement),
		unary("MeetPerson", FactionReputationServer.MeetPerson),
		unary("ListPeople", FactionReputationServer.ListPeople),
		unary("GetStanding", FactionReputationServer.GetStanding),
		unary("ListStandings", FactionReputationServer.ListStandings),
		unary("ListTitles", FactionReputationServer.ListTitles),
		unary("GetEligibleItems", FactionReputationServer.GetEligibleItems),
		unary("ListFactions", FactionReputationServer.ListFactions),
		unary("ListPrompts", FactionReputationServer.ListPrompts),
		unary("ListFactionSubmissions", FactionReputationServer.ListFactionSubmissions),
		unary("ListPropagationFailures", FactionReputationServer.ListPropagationFailures),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "reputation/v1/reputation.json",
}

// RegisterFactionReputationServer registers srv on s.
func RegisterFactionReputationServer(s grpc.ServiceRegistrar, srv FactionReputationServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// unary builds the method descriptor generated code would emit for one RPC.
func unary[Req, Resp any](name string, call func(FactionReputationServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			server := srv.(FactionReputationServer)
			if interceptor == nil {
				return call(server, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(server, ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
