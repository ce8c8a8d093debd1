package reputationctl

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	reputation "github.com/louisbranch/faction-reputation/internal/services/reputation/api/grpc/reputation"
	"github.com/urfave/cli/v3"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/status"
)

func requireArg(cmd *cli.Command, name string) (string, error) {
	value := strings.TrimSpace(cmd.Args().First())
	if value == "" {
		return "", fmt.Errorf("<%s> argument is required", name)
	}
	return value, nil
}

// describeError prefers the localized message and error reason carried in
// the status details.
func describeError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	message := st.Message()
	var reason string
	for _, detail := range st.Details() {
		switch d := detail.(type) {
		case *errdetails.LocalizedMessage:
			if d.GetMessage() != "" {
				message = d.GetMessage()
			}
		case *errdetails.ErrorInfo:
			reason = d.GetReason()
		}
	}
	if reason == "" {
		return fmt.Errorf("%s: %s", st.Code(), message)
	}
	return errors.New(reason + ": " + message)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func signed(v int) string {
	if v > 0 {
		return "+" + humanize.Comma(int64(v))
	}
	return humanize.Comma(int64(v))
}

func when(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func titleName(t *reputation.Title) string {
	if t == nil {
		return "-"
	}
	return t.Name
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func renderStandingRows(w io.Writer, standings []reputation.Standing) {
	tw := newTable(w)
	fmt.Fprintln(tw, "FACTION\tSTANDING\tTITLE\tNEXT\tPROGRESS\tPENDING TRIBUTE\tUPDATED")
	for _, s := range standings {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.0f%%\t%s\t%s\n",
			s.FactionID,
			humanize.Comma(int64(s.Standing)),
			titleName(s.CurrentTitle),
			titleName(s.NextPositiveTitle),
			s.ProgressPercent,
			titleName(s.PendingTributeTitle),
			when(s.UpdatedAt),
		)
	}
	_ = tw.Flush()
}

func renderStanding(w io.Writer, resp *reputation.GetStandingResponse) {
	renderStandingRows(w, []reputation.Standing{resp.Standing})
}

func renderStandings(w io.Writer, resp *reputation.ListStandingsResponse) {
	renderStandingRows(w, resp.Standings)
}

func renderChange(w io.Writer, prefix string, c reputation.Change) {
	line := fmt.Sprintf("%s%s: %s -> %s", prefix, c.FactionID, humanize.Comma(int64(c.OldValue)), humanize.Comma(int64(c.NewValue)))
	if c.OldTitleID != c.NewTitleID {
		line += fmt.Sprintf(" (title %s -> %s)", orDash(c.OldTitleID), orDash(c.NewTitleID))
	}
	if c.PendingTributeTitleID != "" {
		line += fmt.Sprintf(" [tribute needed for %s]", c.PendingTributeTitleID)
	}
	fmt.Fprintln(w, line)
}

func renderResult(w io.Writer, r reputation.StandingChangeResult) {
	renderChange(w, "", r.Origin)
	for _, c := range r.Propagated {
		renderChange(w, "  ", c)
	}
	for _, f := range r.Failures {
		fmt.Fprintf(w, "  %s: %s FAILED: %s\n", f.FactionID, signed(f.Delta), f.Error)
	}
}

func renderTitles(w io.Writer, resp *reputation.ListTitlesResponse) {
	tw := newTable(w)
	fmt.Fprintln(tw, "TITLE\tREQUIRES\tTRIBUTE\tAVAILABLE\tCURRENT\tTRIBUTE STATUS\tCAN ADVANCE")
	for _, st := range resp.Titles {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			st.Title.Name,
			signed(st.Title.StandingRequirement),
			yesNo(st.Title.RequiresTribute),
			yesNo(st.Available),
			yesNo(st.Current),
			orDash(st.TributeStatus),
			yesNo(st.CanAdvance),
		)
	}
	_ = tw.Flush()
}

func describeRequirements(reqs []reputation.Requirement) string {
	if len(reqs) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(reqs))
	for _, req := range reqs {
		switch req.Kind {
		case "item":
			parts = append(parts, fmt.Sprintf("%dx %s", req.Quantity, req.Name))
		case "currency":
			parts = append(parts, humanize.Comma(int64(req.Amount))+" currency")
		default:
			parts = append(parts, "none")
		}
	}
	return strings.Join(parts, ", ")
}

func renderRequirement(w io.Writer, resp *reputation.GetTributeRequirementResponse) {
	if resp.Requirement == nil {
		fmt.Fprintln(w, "no tribute outstanding")
		return
	}
	req := resp.Requirement
	fmt.Fprintf(w, "%s (%s) at standing %s\n", req.Title.Name, req.Title.ID, humanize.Comma(int64(req.CurrentStanding)))
	fmt.Fprintf(w, "requires: %s\n", describeRequirements(req.Requirements))
	if req.TributePrompt != "" {
		fmt.Fprintf(w, "prompt: %s\n", req.TributePrompt)
	}
}

func renderTributes(w io.Writer, tributes []reputation.Tribute, nextPageToken string) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTRAINER\tTITLE\tTYPE\tSTATUS\tREVIEWER\tREQUIREMENTS\tSUBMITTED")
	for _, t := range tributes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID,
			t.TrainerID,
			t.TitleID,
			t.SubmissionType,
			t.Status,
			orDash(t.ReviewerID),
			describeRequirements(t.Requirements),
			when(t.SubmittedAt),
		)
	}
	_ = tw.Flush()
	if nextPageToken != "" {
		fmt.Fprintf(w, "next page: %s\n", nextPageToken)
	}
}

func renderSubmissions(w io.Writer, subs []reputation.FactionSubmission) {
	tw := newTable(w)
	fmt.Fprintln(tw, "SUBMISSION\tFACTION\tPROMPT\tSTATUS\tSIZE\tBONUS\tSCORE\tCREATED")
	for _, s := range subs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.SubmissionID,
			s.FactionID,
			orDash(s.PromptID),
			s.TrainerStatus,
			s.TaskSize,
			yesNo(s.SpecialBonus),
			signed(s.FinalScore),
			when(s.CreatedAt),
		)
	}
	_ = tw.Flush()
}

func renderPreview(w io.Writer, resp *reputation.PreviewSubmissionScoreResponse) {
	fmt.Fprintf(w, "base %s, final %s\n", signed(resp.BaseScore), signed(resp.FinalScore))
}

func renderPeople(w io.Writer, resp *reputation.ListPeopleResponse) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tALIAS\tNAME\tREQUIRES\tREWARD\tMET\tCAN MEET")
	for _, p := range resp.People {
		met := "no"
		if p.HasMet {
			met = when(p.MetAt)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID,
			p.Alias,
			orDash(p.Name),
			signed(p.StandingRequirement),
			signed(p.StandingReward),
			met,
			yesNo(p.CanMeet),
		)
	}
	_ = tw.Flush()
}

func renderItems(w io.Writer, resp *reputation.GetEligibleItemsResponse) {
	if len(resp.Items) == 0 {
		fmt.Fprintln(w, "no eligible items")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tREQUIRES\tTITLE")
	for _, item := range resp.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			item.ID,
			item.Name,
			humanize.Comma(int64(item.Price)),
			signed(item.StandingRequirement),
			orDash(item.RequiredTitleID),
		)
	}
	_ = tw.Flush()
}

func renderFactions(w io.Writer, resp *reputation.ListFactionsResponse) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME")
	for _, f := range resp.Factions {
		fmt.Fprintf(tw, "%s\t%s\n", f.ID, f.Name)
	}
	_ = tw.Flush()

	fmt.Fprintln(w)
	tw = newTable(w)
	fmt.Fprintln(tw, "FACTION\tRELATED\tTYPE\tWEIGHT")
	for _, rel := range resp.Relationships {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%+.2f\n", rel.FactionID, rel.RelatedFactionID, rel.Type, rel.Weight)
	}
	_ = tw.Flush()
}

func renderPrompts(w io.Writer, resp *reputation.ListPromptsResponse) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tMODIFIER\tREQUIRES TITLE")
	for _, p := range resp.Prompts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Title, signed(p.Modifier), orDash(p.RequiredTitleID))
	}
	_ = tw.Flush()
}

func renderFailures(w io.Writer, resp *reputation.ListPropagationFailuresResponse) {
	if len(resp.Failures) == 0 {
		fmt.Fprintln(w, "no propagation failures")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "WHEN\tTRAINER\tORIGIN\tNEIGHBOR\tDELTA\tERROR")
	for _, evt := range resp.Failures {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			when(evt.Timestamp),
			evt.TrainerID,
			evt.FactionID,
			evt.RelatedFactionID,
			signed(evt.Delta),
			orDash(evt.Attributes["error"]),
		)
	}
	_ = tw.Flush()
}
