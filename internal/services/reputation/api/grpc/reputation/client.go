package reputation

import (
	"context"

	"github.com/louisbranch/faction-reputation/internal/platform/grpc/jsoncodec"
	"google.golang.org/grpc"
)

// Client calls the reputation service over a gRPC connection.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps an established connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Req, Resp any](ctx context.Context, c *Client, method string, in *Req, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(jsoncodec.Name)}, opts...)
	if err := c.cc.Invoke(ctx, fullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ApplyStandingEvent(ctx context.Context, in *ApplyStandingEventRequest, opts ...grpc.CallOption) (*ApplyStandingEventResponse, error) {
	return invoke[ApplyStandingEventRequest, ApplyStandingEventResponse](ctx, c, "ApplyStandingEvent", in, opts...)
}

func (c *Client) SetStandingTitle(ctx context.Context, in *SetStandingTitleRequest, opts ...grpc.CallOption) (*SetStandingTitleResponse, error) {
	return invoke[SetStandingTitleRequest, SetStandingTitleResponse](ctx, c, "SetStandingTitle", in, opts...)
}

func (c *Client) ScoreSubmission(ctx context.Context, in *ScoreSubmissionRequest, opts ...grpc.CallOption) (*ScoreSubmissionResponse, error) {
	return invoke[ScoreSubmissionRequest, ScoreSubmissionResponse](ctx, c, "ScoreSubmission", in, opts...)
}

func (c *Client) PreviewSubmissionScore(ctx context.Context, in *PreviewSubmissionScoreRequest, opts ...grpc.CallOption) (*PreviewSubmissionScoreResponse, error) {
	return invoke[PreviewSubmissionScoreRequest, PreviewSubmissionScoreResponse](ctx, c, "PreviewSubmissionScore", in, opts...)
}

func (c *Client) SubmitTribute(ctx context.Context, in *SubmitTributeRequest, opts ...grpc.CallOption) (*SubmitTributeResponse, error) {
	return invoke[SubmitTributeRequest, SubmitTributeResponse](ctx, c, "SubmitTribute", in, opts...)
}

func (c *Client) ApproveTribute(ctx context.Context, in *ApproveTributeRequest, opts ...grpc.CallOption) (*ApproveTributeResponse, error) {
	return invoke[ApproveTributeRequest, ApproveTributeResponse](ctx, c, "ApproveTribute", in, opts...)
}

func (c *Client) RejectTribute(ctx context.Context, in *RejectTributeRequest, opts ...grpc.CallOption) (*RejectTributeResponse, error) {
	return invoke[RejectTributeRequest, RejectTributeResponse](ctx, c, "RejectTribute", in, opts...)
}

func (c *Client) ListTributes(ctx context.Context, in *ListTributesRequest, opts ...grpc.CallOption) (*ListTributesResponse, error) {
	return invoke[ListTributesRequest, ListTributesResponse](ctx, c, "ListTributes", in, opts...)
}

func (c *Client) GetTributeRequirement(ctx context.Context, in *GetTributeRequirementRequest, opts ...grpc.CallOption) (*GetTributeRequirementResponse, error) {
	return invoke[GetTributeRequirementRequest, GetTributeRequirementResponse](ctx, c, "GetTributeRequirement", in, opts...)
}

func (c *Client) MeetPerson(ctx context.Context, in *MeetPersonRequest, opts ...grpc.CallOption) (*MeetPersonResponse, error) {
	return invoke[MeetPersonRequest, MeetPersonResponse](ctx, c, "MeetPerson", in, opts...)
}

func (c *Client) ListPeople(ctx context.Context, in *ListPeopleRequest, opts ...grpc.CallOption) (*ListPeopleResponse, error) {
	return invoke[ListPeopleRequest, ListPeopleResponse](ctx, c, "ListPeople", in, opts...)
}

func (c *Client) GetStanding(ctx context.Context, in *GetStandingRequest, opts ...grpc.CallOption) (*GetStandingResponse, error) {
	return invoke[GetStandingRequest, GetStandingResponse](ctx, c, "GetStanding", in, opts...)
}

func (c *Client) ListStandings(ctx context.Context, in *ListStandingsRequest, opts ...grpc.CallOption) (*ListStandingsResponse, error) {
	return invoke[ListStandingsRequest, ListStandingsResponse](ctx, c, "ListStandings", in, opts...)
}

func (c *Client) ListTitles(ctx context.Context, in *ListTitlesRequest, opts ...grpc.CallOption) (*ListTitlesResponse, error) {
	return invoke[ListTitlesRequest, ListTitlesResponse](ctx, c, "ListTitles", in, opts...)
}

func (c *Client) GetEligibleItems(ctx context.Context, in *GetEligibleItemsRequest, opts ...grpc.CallOption) (*GetEligibleItemsResponse, error) {
	return invoke[GetEligibleItemsRequest, GetEligibleItemsResponse](ctx, c, "GetEligibleItems", in, opts...)
}

func (c *Client) ListFactions(ctx context.Context, in *ListFactionsRequest, opts ...grpc.CallOption) (*ListFactionsResponse, error) {
	return invoke[ListFactionsRequest, ListFactionsResponse](ctx, c, "ListFactions", in, opts...)
}

func (c *Client) ListPrompts(ctx context.Context, in *ListPromptsRequest, opts ...grpc.CallOption) (*ListPromptsResponse, error) {
	return invoke[ListPromptsRequest, ListPromptsResponse](ctx, c, "ListPrompts", in, opts...)
}

func (c *Client) ListFactionSubmissions(ctx context.Context, in *ListFactionSubmissionsRequest, opts ...grpc.CallOption) (*ListFactionSubmissionsResponse, error) {
	return invoke[ListFactionSubmissionsRequest, ListFactionSubmissionsResponse](ctx, c, "ListFactionSubmissions", in, opts...)
}

func (c *Client) ListPropagationFailures(ctx context.Context, in *ListPropagationFailuresRequest, opts ...grpc.CallOption) (*ListPropagationFailuresResponse, error) {
	return invoke[ListPropagationFailuresRequest, ListPropagationFailuresResponse](ctx, c, "ListPropagationFailures", in, opts...)
}
