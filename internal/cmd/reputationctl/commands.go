package reputationctl

import (
	"context"
	"io"

	reputation "github.com/louisbranch/faction-reputation/internal/services/reputation/api/grpc/reputation"
	"github.com/urfave/cli/v3"
)

func trainerFlag() cli.Flag {
	return &cli.StringFlag{Name: "trainer", Usage: "trainer id"}
}

func factionFlag() cli.Flag {
	return &cli.StringFlag{Name: "faction", Usage: "faction id"}
}

func (c *ctl) standingCommand() *cli.Command {
	return &cli.Command{
		Name:  "standing",
		Usage: "Read and adjust standings",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Show one trainer's standing with a faction",
				Flags: []cli.Flag{trainerFlag(), factionFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					ids, err := requireStrings(cmd, "trainer", "faction")
					if err != nil {
						return err
					}
					return call(c, ctx, cmd, func(ctx context.Context, client *reputation.Client) (*reputation.GetStandingResponse, error) {
						return client.GetStanding(ctx, &reputation.GetStandingRequest{TrainerID: ids[0], FactionID: ids[1]})
					}, renderStanding)
				},
			},
			{
				Name:  "list",
				Usage: "Show a trainer's standing with every faction",
				Flags: []cli.Flag{trainerFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					trainerID, err := requireString(cmd, "trainer")
					if err != nil {
						return err
					}
					return call(c, ctx, cmd, func(ctx context.Context, client *reputation.Client) (*reputation.ListStandingsResponse, error) {
						return client.ListStandings(ctx, &reputation.ListStandingsRequest{TrainerID: trainerID})
					}, renderStandings)
				},
			},
			{
				Name:  "apply",
				Usage: "Apply a signed delta and propagate it to related factions",
				Flags: []cli.Flag{
					trainerFlag(),
					factionFlag(),
					&cli.IntFlag{Name: "delta", Usage: "signed standing delta"},
					&cli.StringFlag{Name: "reason", Value: "admin", Usage: "event reason"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					ids, err := requireStrings(cmd, "trainer", "faction")
					if err != nil {
						return err
					}
					return call(c, ctx, cmd, func(ctx context.Context, client *reputation.Client) (*reputation.ApplyStandingEventResponse, error) {
						return client.ApplyStandingEvent(ctx, &reputation.ApplyStandingEventRequest{
							TrainerID: ids[0],
							FactionID: ids[1],
							Delta:     int(cmd.Int("delta")),
							Reason:    cmd.String("reason"),
						})
					}, func(w io.Writer, resp *reputation.ApplyStandingEventResponse) {
						renderResult(w, resp.Result)
					})
				},
			},
			{
				Name:  "set-title",
				Usage: "Override the stored title; omit --title to clear it",
				Flags: []cli.Flag{trainerFlag(), factionFlag(), &cli.StringFlag{Name: "title", Usage: "title id"}},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					ids, err := requireStrings(cmd, "trainer", "faction")
					if err != nil {
						return err
					}
					return call(c, ctx, cmd, func(ctx context.Context, client *reputation.Client) (*reputation.SetStandingTitleResponse, error) {
						return client.SetStandingTitle(ctx, &reputation.SetStandingTitleRequest{
							TrainerID: ids[0],
							FactionID: ids[1],
							TitleID:   cmd.String("title"),
						})
					}, func(w io.Writer, resp *reputation.SetStandingTitleResponse) {
						renderChange(w, "", resp.Change)
					})
				},
			},
		},
	}
}

func (c *ctl) titlesCommand() *cli.Command {
	return &cli.Command{
		Name:  "titles",
		Usage: "Show a faction ladder for a trainer",
		Flags: []cli.Flag{trainerFlag(), factionFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ids, err := requireStrings(cmd, "trainer", "faction")
			if err != nil {
				return err
			}
			return call(c, ctx, cmd, func(ctx context.Context, client *reputation.Client) (*reputation.ListTitlesResponse, error) {
				return client.ListTitles(ctx, &reputation.ListTitlesRequest{TrainerID: ids[0], FactionID: ids[1]})
			}, renderTitles)
		},
	}
}

func (c *ctl) tributeCommand() *cli.Command {
	return &cli.Command{
		Name:  "tribute",
		Usage: "Submit and review tributes",
		Commands: []*cli.Command{
			{
				Name:  "requirement",
				Usage: "Show the next tribute a trainer can pay",
				Flags: []cli.Flag{trainerFlag(), factionFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					ids, err := requireStrings(cmd, "trainer", "faction")
					if err != nil {
						return err
					}
					return call(c, ctx, cmd, func(ctx context.Context, client *reputation.Client) (*reputation.GetTributeRequirementResponse, error) {
						return client.GetTributeRequirement(ctx, &reputation.GetTributeRequirementRequest{TrainerID: ids[0], FactionID: ids[1]})
					}, renderRequirement)
				},
			},
			{
				Name:  "submit",
				Usage: "Submit a tribute for a gated title",
				Flags: []cli.Flag{
					trainerFlag(),
					&cli.StringFlag{Name: "title", Usage: "title id"},
					&cli.StringFlag{Name: "submission", Usage: "optional submission id to claim"},
					&cli.StringFlag{Name: "type", Usage: "offered work: art, writing, craft or other"},
					&cli.StringFlag{Name: "url", Usage: "link to the offered work"},
					&cli.StringFlag{Name: "note", Usage: "description for the reviewer"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					ids, err := requireStrings(cmd, "trainer", "title")
					if err != nil {
						return err
					}
					return call(c, ctx, cmd, func(ctx context.Context, client *reputation.Client) (*reputation.SubmitTributeResponse, error) {
						return client.SubmitTribute(ctx, &reputation.SubmitTributeRequest{
							TrainerID:      ids[0],
							TitleID:        ids[1],
							SubmissionID:   cmd.String("submission"),
							SubmissionType: cmd.String("type"),
							SubmissionURL:  cmd.String("url"),
							Note:           cmd.String("note"),
						})
					}, func(w io.Writer, resp *reputation.SubmitTributeResponse) {
						renderTributes(w, []reputation.Tribute{resp.Tribute}, "")
					})
				},
			},
			{
				Name:      "approve",
				Usage:     "Approve a pending tribute",
				ArgsUsage: "<tribute-id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					tributeID, err := requireArg(cmd, "tribute-id")
					if err != nil {
						return err
					}
					return call(c, ctx, cmd, func(ctx context.Context, client *reputation.Client) (*reputation.ApproveTributeResponse, error) {
						return client.ApproveTribute(ctx, &reputation.ApproveTributeRequest{TributeID: tributeID})
					}, func(w io.Writer, resp *reputation.ApproveTributeResponse) {
						renderTributes(w, []reputation.Tribute{resp.Tribute}, "")
						renderChange(w, "", resp.Title)
					})
				},
			},
			{
				Name:      "reject",
				Usage:     "Reject a pending tribute and release its submission",
				ArgsUsage: "<tribute-id>",
				Flags:     []cli.Flag{&cli.StringFlag{Name: "reason", Usage: "rejection reason"}},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					tributeID, err := requireArg(cmd, "tribute-id")
					if err != nil {
						return err
					}
					return call(c, ctx, cmd, func(ctx context.Context, client *reputation.Client) (*reputation.RejectTributeResponse, error) {
						return client.RejectTribute(ctx, &reputation.RejectTributeRequest{TributeID: tributeID, Reason: cmd.String("reason")})
					}, func(w io.Writer, resp *reputation.RejectTributeResponse) {
						renderTributes(w, []reputation.Tribute{resp.Tribute}, "")
					})
				},
			},
			{
				Name:  "list",
				Usage: "List tributes matching an AIP-160 filter",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "filter", Usage: `e.g. status = "pending" AND faction_id = "league"`},
					&cli.IntFlag{Name: "page-size", Usage: "maximum tributes per page"},
					&cli.StringFlag{Name: "page-token", Usage: "token from a previous page"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return call(c, ctx, cmd, func(ctx context.Context, client *reputation.Client) (*reputation.ListTributesResponse, error) {
						return client.ListTributes(ctx, &reputation.ListTributesRequest{
							Filter:    cmd.String("filter"),
							PageSize:  int32(cmd.Int("page-size")),
							PageToken: cmd.String("page-token"),
						})
					}, func(w io.Writer, resp *reputation.ListTributesResponse) {
						renderTributes(w, resp.Tributes, resp.NextPageToken)
					})
				},
			},
		},
	}
}

func scoreFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "prompt", Usage: "prompt id"},
		&cli.StringFlag{Name: "status", Value: "alone", Usage: "alone or with_others"},
		&cli.StringFlag{Name: "size", Value: "small", Usage: "small, medium or large"},
		&cli.BoolFlag{Name: "bonus", Usage: "apply the special bonus"},
		&cli.IntFlag{Name: "custom", Usage: "replace the computed score"},
	}
}

func customScore(cmd *cli.Command) *int {
	if !cmd.IsSet("custom") {
		return nil
	}
	value := int(cmd.Int("custom"))
	return &value
}

func (c *ctl) submissionCommand() *cli.Command {
	return &cli.Command{
		Name:  "submission",
		Usage: "Score submissions against factions",
		Commands: []*cli.Command{
			{
				Name:  "score",
				Usage: "Score a submission and apply it once",
				Flags: append([]cli.Flag{trainerFlag(), factionFlag(), &cli.StringFlag{Name: "submission", Usage: "submission id"}}, scoreFlags()...),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					ids, err := requireStrings(cmd, "trainer", "faction", "submission")
					if err != nil {
						return err
					}
					return call(c, ctx, cmd, func(ctx context.Context, client *reputation.Client) (*reputation.ScoreSubmissionResponse, error) {
						return client.ScoreSubmission(ctx, &reputation.ScoreSubmissionRequest{
							TrainerID:     ids[0],
							FactionID:     ids[1],
							SubmissionID:  ids[2],
							PromptID:      cmd.String("prompt"),
							TrainerStatus: cmd.String("status"),
							TaskSize:      cmd.String("size"),
							SpecialBonus:  cmd.Bool("bonus"),
							CustomScore:   customScore(cmd),
						})
					}, func(w io.Writer, resp *reputation.ScoreSubmissionResponse) {
						renderSubmissions(w, []reputation.FactionSubmission{resp.Submission})
						renderResult(w, resp.Result)
					})
				},
			},
			{
				Name:  "preview",
				Usage: "Compute a score without applying it",
				Flags: append([]cli.Flag{factionFlag()}, scoreFlags()...),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return call(c, ctx, cmd, func(ctx context.Context, client *reputation.Client) (*reputation.PreviewSubmissionScoreResponse, error) {
						return client.PreviewSubmissionScore(ctx, &reputation.PreviewSubmissionScoreRequest{
							FactionID:     cmd.String("faction"),
							PromptID:      cmd.String("prompt"),
							TrainerStatus: cmd.String("status"),
							TaskSize:      cmd.String("size"),
							SpecialBonus:  cmd.Bool("bonus"),
							CustomScore:   customScore(cmd),
						})
					}, renderPreview)
				},
			},
			{
				Name:  "history",
				Usage: "List a trainer's scored submissions",
				Flags: []cli.Flag{trainerFlag(), factionFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					trainerID, err := requireString(cmd, "trainer")
					if err != nil {
						return err
					}
					return call(c, ctx, cmd, func(ctx context.Context, client *reputation.Client) (*reputation.ListFactionSubmissionsResponse, error) {
						return client.ListFactionSubmissions(ctx, &reputation.ListFactionSubmissionsRequest{TrainerID: trainerID, FactionID: cmd.String("faction")})
					}, func(w io.Writer, resp *reputation.ListFactionSubmissionsResponse) {
						renderSubmissions(w, resp.Submissions)
					})
				},
			},
		},
	}
}

func (c *ctl) peopleCommand() *cli.Command {
	return &cli.Command{
		Name:  "people",
		Usage: "List and meet faction people",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List a faction's people as a trainer sees them",
				Flags: []cli.Flag{trainerFlag(), factionFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					ids, err := requireStrings(cmd, "trainer", "faction")
					if err != nil {
						return err
					}
					return call(c, ctx, cmd, func(ctx context.Context, client *reputation.Client) (*reputation.ListPeopleResponse, error) {
						return client.ListPeople(ctx, &reputation.ListPeopleRequest{TrainerID: ids[0], FactionID: ids[1]})
					}, renderPeople)
				},
			},
			{
				Name:  "meet",
				Usage: "Meet a person once and collect the reward",
				Flags: []cli.Flag{
					trainerFlag(),
					&cli.StringFlag{Name: "person", Usage: "person id"},
					&cli.StringFlag{Name: "submission", Usage: "submission id"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					ids, err := requireStrings(cmd, "trainer", "person", "submission")
					if err != nil {
						return err
					}
					return call(c, ctx, cmd, func(ctx context.Context, client *reputation.Client) (*reputation.MeetPersonResponse, error) {
						return client.MeetPerson(ctx, &reputation.MeetPersonRequest{TrainerID: ids[0], PersonID: ids[1], SubmissionID: ids[2]})
					}, func(w io.Writer, resp *reputation.MeetPersonResponse) {
						renderResult(w, resp.Result)
					})
				},
			},
		},
	}
}

func (c *ctl) shopCommand() *cli.Command {
	return &cli.Command{
		Name:  "shop",
		Usage: "List store items a trainer may buy",
		Flags: []cli.Flag{trainerFlag(), factionFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ids, err := requireStrings(cmd, "trainer", "faction")
			if err != nil {
				return err
			}
			return call(c, ctx, cmd, func(ctx context.Context, client *reputation.Client) (*reputation.GetEligibleItemsResponse, error) {
				return client.GetEligibleItems(ctx, &reputation.GetEligibleItemsRequest{TrainerID: ids[0], FactionID: ids[1]})
			}, renderItems)
		},
	}
}

func (c *ctl) factionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "factions",
		Usage: "List catalog factions and relationships",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return call(c, ctx, cmd, func(ctx context.Context, client *reputation.Client) (*reputation.ListFactionsResponse, error) {
				return client.ListFactions(ctx, &reputation.ListFactionsRequest{})
			}, renderFactions)
		},
	}
}

func (c *ctl) promptsCommand() *cli.Command {
	return &cli.Command{
		Name:  "prompts",
		Usage: "List a faction's active prompts",
		Flags: []cli.Flag{factionFlag(), trainerFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			factionID, err := requireString(cmd, "faction")
			if err != nil {
				return err
			}
			return call(c, ctx, cmd, func(ctx context.Context, client *reputation.Client) (*reputation.ListPromptsResponse, error) {
				return client.ListPrompts(ctx, &reputation.ListPromptsRequest{FactionID: factionID, TrainerID: cmd.String("trainer")})
			}, renderPrompts)
		},
	}
}

func (c *ctl) failuresCommand() *cli.Command {
	return &cli.Command{
		Name:  "failures",
		Usage: "List audited propagation failures for reconciliation",
		Flags: []cli.Flag{trainerFlag(), &cli.IntFlag{Name: "limit", Usage: "maximum events"}},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return call(c, ctx, cmd, func(ctx context.Context, client *reputation.Client) (*reputation.ListPropagationFailuresResponse, error) {
				return client.ListPropagationFailures(ctx, &reputation.ListPropagationFailuresRequest{
					TrainerID: cmd.String("trainer"),
					Limit:     int32(cmd.Int("limit")),
				})
			}, renderFailures)
		},
	}
}
