package reputation

import "time"

// Requirement is one tribute requirement: an item, currency or nothing.
type Requirement struct {
	Kind     string `json:"kind"`
	Name     string `json:"name,omitempty"`
	Quantity int    `json:"quantity,omitempty"`
	Amount   int    `json:"amount,omitempty"`
}

// Title is a rank on a faction ladder.
type Title struct {
	ID                  string        `json:"id"`
	FactionID           string        `json:"faction_id"`
	Name                string        `json:"name"`
	Description         string        `json:"description,omitempty"`
	StandingRequirement int           `json:"standing_requirement"`
	IsPositive          bool          `json:"is_positive"`
	RequiresTribute     bool          `json:"requires_tribute"`
	TributeRequirements []Requirement `json:"tribute_requirements,omitempty"`
	TributePrompt       string        `json:"tribute_prompt,omitempty"`
}

// Faction is a catalog faction.
type Faction struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	BannerImage string `json:"banner_image,omitempty"`
	IconImage   string `json:"icon_image,omitempty"`
}

// Relationship is an undirected faction edge.
type Relationship struct {
	FactionID        string  `json:"faction_id"`
	RelatedFactionID string  `json:"related_faction_id"`
	Type             string  `json:"type"`
	Weight           float64 `json:"weight"`
}

// Prompt is a faction submission theme.
type Prompt struct {
	ID              string `json:"id"`
	FactionID       string `json:"faction_id"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	Modifier        int    `json:"modifier"`
	RequiredTitleID string `json:"required_title_id,omitempty"`
}

// StoreItem is a faction store entry.
type StoreItem struct {
	ID                  string `json:"id"`
	FactionID           string `json:"faction_id"`
	Name                string `json:"name"`
	Description         string `json:"description,omitempty"`
	ItemType            string `json:"item_type,omitempty"`
	Price               int    `json:"price"`
	StandingRequirement int    `json:"standing_requirement"`
	RequiredTitleID     string `json:"required_title_id,omitempty"`
}

// Change is one pair's before and after.
type Change struct {
	FactionID             string `json:"faction_id"`
	OldValue              int    `json:"old_value"`
	NewValue              int    `json:"new_value"`
	OldTitleID            string `json:"old_title_id,omitempty"`
	NewTitleID            string `json:"new_title_id,omitempty"`
	PendingTributeTitleID string `json:"pending_tribute_title_id,omitempty"`
}

// PropagationFailure is a neighbor that missed its secondary delta.
type PropagationFailure struct {
	FactionID string `json:"faction_id"`
	Delta     int    `json:"delta"`
	Error     string `json:"error"`
}

// StandingChangeResult is the outcome of one standing event.
type StandingChangeResult struct {
	Origin     Change               `json:"origin"`
	Propagated []Change             `json:"propagated,omitempty"`
	Failures   []PropagationFailure `json:"failures,omitempty"`
}

// Standing is the display projection of one trainer-faction pair.
type Standing struct {
	TrainerID           string    `json:"trainer_id"`
	FactionID           string    `json:"faction_id"`
	Standing            int       `json:"standing"`
	CurrentTitle        *Title    `json:"current_title,omitempty"`
	NextPositiveTitle   *Title    `json:"next_positive_title,omitempty"`
	PendingTributeTitle *Title    `json:"pending_tribute_title,omitempty"`
	ProgressPercent     float64   `json:"progress_percent"`
	UpdatedAt           time.Time `json:"updated_at,omitzero"`
}

// TitleStatus is a ladder rung annotated for a trainer.
type TitleStatus struct {
	Title         Title  `json:"title"`
	Available     bool   `json:"available"`
	Current       bool   `json:"current"`
	TributeStatus string `json:"tribute_status,omitempty"`
	CanAdvance    bool   `json:"can_advance"`
}

// Tribute is an offering to unlock a gated title.
type Tribute struct {
	ID             string        `json:"id"`
	TitleID        string        `json:"title_id"`
	FactionID      string        `json:"faction_id"`
	TrainerID      string        `json:"trainer_id"`
	SubmissionID   string        `json:"submission_id,omitempty"`
	Requirements   []Requirement `json:"requirements,omitempty"`
	SubmissionType string        `json:"submission_type"`
	SubmissionURL  string        `json:"submission_url,omitempty"`
	Note           string        `json:"note,omitempty"`
	Status         string        `json:"status"`
	ReviewerID     string        `json:"reviewer_id,omitempty"`
	RejectReason   string        `json:"reject_reason,omitempty"`
	SubmittedAt    time.Time     `json:"submitted_at"`
	ReviewedAt     time.Time     `json:"reviewed_at,omitzero"`
}

// TributeRequirement is the next tribute a trainer can pay.
type TributeRequirement struct {
	Title           Title         `json:"title"`
	Requirements    []Requirement `json:"requirements,omitempty"`
	TributePrompt   string        `json:"tribute_prompt,omitempty"`
	CurrentStanding int           `json:"current_standing"`
}

// PersonStatus is a faction NPC as one trainer sees them.
type PersonStatus struct {
	ID                  string    `json:"id"`
	FactionID           string    `json:"faction_id"`
	Alias               string    `json:"alias"`
	Name                string    `json:"name,omitempty"`
	Description         string    `json:"description,omitempty"`
	StandingRequirement int       `json:"standing_requirement"`
	StandingReward      int       `json:"standing_reward"`
	HasMet              bool      `json:"has_met"`
	CanMeet             bool      `json:"can_meet"`
	MetAt               time.Time `json:"met_at,omitzero"`
}

// FactionSubmission is a scored submission ledger entry.
type FactionSubmission struct {
	ID            string    `json:"id"`
	TrainerID     string    `json:"trainer_id"`
	FactionID     string    `json:"faction_id"`
	SubmissionID  string    `json:"submission_id"`
	PromptID      string    `json:"prompt_id,omitempty"`
	TrainerStatus string    `json:"trainer_status"`
	TaskSize      string    `json:"task_size"`
	SpecialBonus  bool      `json:"special_bonus"`
	BaseScore     int       `json:"base_score"`
	FinalScore    int       `json:"final_score"`
	CreatedAt     time.Time `json:"created_at"`
}

// AuditEvent is a reconciliation ledger entry.
type AuditEvent struct {
	ID               int64             `json:"id"`
	Timestamp        time.Time         `json:"timestamp"`
	EventName        string            `json:"event_name"`
	Severity         string            `json:"severity"`
	TrainerID        string            `json:"trainer_id,omitempty"`
	FactionID        string            `json:"faction_id,omitempty"`
	RelatedFactionID string            `json:"related_faction_id,omitempty"`
	Delta            int               `json:"delta"`
	TraceID          string            `json:"trace_id,omitempty"`
	SpanID           string            `json:"span_id,omitempty"`
	Attributes       map[string]string `json:"attributes,omitempty"`
}

type ApplyStandingEventRequest struct {
	TrainerID string `json:"trainer_id"`
	FactionID string `json:"faction_id"`
	Delta     int    `json:"delta"`
	Reason    string `json:"reason,omitempty"`
}

type ApplyStandingEventResponse struct {
	Result StandingChangeResult `json:"result"`
}

type SetStandingTitleRequest struct {
	TrainerID string `json:"trainer_id"`
	FactionID string `json:"faction_id"`
	// TitleID empty clears the title.
	TitleID string `json:"title_id,omitempty"`
}

type SetStandingTitleResponse struct {
	Change Change `json:"change"`
}

type ScoreSubmissionRequest struct {
	TrainerID     string `json:"trainer_id"`
	FactionID     string `json:"faction_id"`
	SubmissionID  string `json:"submission_id"`
	PromptID      string `json:"prompt_id,omitempty"`
	TrainerStatus string `json:"trainer_status"`
	TaskSize      string `json:"task_size"`
	SpecialBonus  bool   `json:"special_bonus"`
	CustomScore   *int   `json:"custom_score,omitempty"`
}

type ScoreSubmissionResponse struct {
	Submission FactionSubmission    `json:"submission"`
	Result     StandingChangeResult `json:"result"`
}

type PreviewSubmissionScoreRequest struct {
	FactionID     string `json:"faction_id,omitempty"`
	PromptID      string `json:"prompt_id,omitempty"`
	TrainerStatus string `json:"trainer_status"`
	TaskSize      string `json:"task_size"`
	SpecialBonus  bool   `json:"special_bonus"`
	CustomScore   *int   `json:"custom_score,omitempty"`
}

type PreviewSubmissionScoreResponse struct {
	BaseScore  int `json:"base_score"`
	FinalScore int `json:"final_score"`
}

type SubmitTributeRequest struct {
	TrainerID      string `json:"trainer_id"`
	TitleID        string `json:"title_id"`
	SubmissionID   string `json:"submission_id,omitempty"`
	SubmissionType string `json:"submission_type,omitempty"`
	SubmissionURL  string `json:"submission_url,omitempty"`
	Note           string `json:"note,omitempty"`
}

type SubmitTributeResponse struct {
	Tribute Tribute `json:"tribute"`
}

type ApproveTributeRequest struct {
	TributeID string `json:"tribute_id"`
	// ReviewerID falls back to the x-reviewer-id metadata.
	ReviewerID string `json:"reviewer_id,omitempty"`
}

type ApproveTributeResponse struct {
	Tribute Tribute `json:"tribute"`
	Title   Change  `json:"title"`
}

type RejectTributeRequest struct {
	TributeID  string `json:"tribute_id"`
	ReviewerID string `json:"reviewer_id,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

type RejectTributeResponse struct {
	Tribute Tribute `json:"tribute"`
}

type ListTributesRequest struct {
	// Filter is an AIP-160 expression over status, trainer_id, faction_id,
	// title_id, reviewer_id and submitted_at.
	Filter    string `json:"filter,omitempty"`
	PageSize  int32  `json:"page_size,omitempty"`
	PageToken string `json:"page_token,omitempty"`
}

type ListTributesResponse struct {
	Tributes      []Tribute `json:"tributes"`
	NextPageToken string    `json:"next_page_token,omitempty"`
}

type GetTributeRequirementRequest struct {
	TrainerID string `json:"trainer_id"`
	FactionID string `json:"faction_id"`
}

type GetTributeRequirementResponse struct {
	// Requirement is nil when no tribute is outstanding.
	Requirement *TributeRequirement `json:"requirement,omitempty"`
}

type MeetPersonRequest struct {
	TrainerID    string `json:"trainer_id"`
	PersonID     string `json:"person_id"`
	SubmissionID string `json:"submission_id"`
}

type MeetPersonResponse struct {
	Result StandingChangeResult `json:"result"`
}

type ListPeopleRequest struct {
	TrainerID string `json:"trainer_id"`
	FactionID string `json:"faction_id"`
}

type ListPeopleResponse struct {
	People []PersonStatus `json:"people"`
}

type GetStandingRequest struct {
	TrainerID string `json:"trainer_id"`
	FactionID string `json:"faction_id"`
}

type GetStandingResponse struct {
	Standing Standing `json:"standing"`
}

type ListStandingsRequest struct {
	TrainerID string `json:"trainer_id"`
}

type ListStandingsResponse struct {
	Standings []Standing `json:"standings"`
}

type ListTitlesRequest struct {
	TrainerID string `json:"trainer_id"`
	FactionID string `json:"faction_id"`
}

type ListTitlesResponse struct {
	Titles []TitleStatus `json:"titles"`
}

type GetEligibleItemsRequest struct {
	TrainerID string `json:"trainer_id"`
	FactionID string `json:"faction_id"`
}

type GetEligibleItemsResponse struct {
	Items []StoreItem `json:"items"`
}

type ListFactionsRequest struct{}

type ListFactionsResponse struct {
	Factions      []Faction      `json:"factions"`
	Relationships []Relationship `json:"relationships"`
}

type ListPromptsRequest struct {
	FactionID string `json:"faction_id"`
	// TrainerID, when set, hides prompts behind titles the trainer lacks.
	TrainerID string `json:"trainer_id,omitempty"`
}

type ListPromptsResponse struct {
	Prompts []Prompt `json:"prompts"`
}

type ListFactionSubmissionsRequest struct {
	TrainerID string `json:"trainer_id"`
	FactionID string `json:"faction_id,omitempty"`
}

type ListFactionSubmissionsResponse struct {
	Submissions []FactionSubmission `json:"submissions"`
}

type ListPropagationFailuresRequest struct {
	// TrainerID empty lists failures for every trainer.
	TrainerID string `json:"trainer_id,omitempty"`
	Limit     int32  `json:"limit,omitempty"`
}

type ListPropagationFailuresResponse struct {
	Failures []AuditEvent `json:"failures"`
}
