package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeTrainerIDRequired       = "TRAINER_ID_REQUIRED"
	CodeFactionIDRequired       = "FACTION_ID_REQUIRED"
	CodeFactionUnknown          = "FACTION_UNKNOWN"
	CodeSubmissionIDRequired    = "SUBMISSION_ID_REQUIRED"
	CodeReviewerIDRequired      = "REVIEWER_ID_REQUIRED"
	CodeFilterInvalid           = "FILTER_INVALID"
	CodePageTokenInvalid        = "PAGE_TOKEN_INVALID"
	CodeScoreTrainerStatus      = "SCORE_TRAINER_STATUS_INVALID"
	CodeScoreTaskSize           = "SCORE_TASK_SIZE_INVALID"
	CodeScorePromptUnavailable  = "SCORE_PROMPT_UNAVAILABLE"
	CodeTitleIDRequired         = "TITLE_ID_REQUIRED"
	CodeTitleNotTributeGated    = "TITLE_NOT_TRIBUTE_GATED"
	CodeTributeIDRequired       = "TRIBUTE_ID_REQUIRED"
	CodePersonIDRequired        = "PERSON_ID_REQUIRED"
	CodeDeltaInvalid            = "DELTA_INVALID"
	CodeSubmissionTypeInvalid   = "SUBMISSION_TYPE_INVALID"
	CodeNotFound                = "NOT_FOUND"
	CodeTitleUnknown            = "TITLE_UNKNOWN"
	CodeTributeUnknown          = "TRIBUTE_UNKNOWN"
	CodePersonUnknown           = "PERSON_UNKNOWN"
	CodeSubmissionAlreadyUsed   = "SUBMISSION_ALREADY_USED"
	CodePersonAlreadyMet        = "PERSON_ALREADY_MET"
	CodePersonStandingTooLow    = "PERSON_STANDING_TOO_LOW"
	CodeTributeDuplicatePending = "TRIBUTE_DUPLICATE_PENDING"
	CodeTributeNotPending       = "TRIBUTE_NOT_PENDING"
	CodeTributeAlreadyApproved  = "TRIBUTE_ALREADY_APPROVED"
	CodeStorageUnavailable      = "STORAGE_UNAVAILABLE"
	CodePropagationFailed       = "PROPAGATION_FAILED"
	CodeTitleGateViolation      = "TITLE_GATE_VIOLATION"
)

var builtinMessages = map[string]map[Code]string{
	"en-US": {
		CodeTrainerIDRequired:       "A trainer is required.",
		CodeFactionIDRequired:       "A faction is required.",
		CodeFactionUnknown:          "Faction {{.FactionID}} does not exist.",
		CodeSubmissionIDRequired:    "A submission is required.",
		CodeReviewerIDRequired:      "A reviewer is required.",
		CodeFilterInvalid:           "The filter could not be understood.",
		CodePageTokenInvalid:        "The page token is invalid.",
		CodeScoreTrainerStatus:      "Choose whether you worked alone or with others.",
		CodeScoreTaskSize:           "Choose a task size: small, medium or large.",
		CodeScorePromptUnavailable:  "That prompt is not available for this faction.",
		CodeTitleIDRequired:         "A title is required.",
		CodeTitleNotTributeGated:    "{{.TitleName}} does not require a tribute.",
		CodeTributeIDRequired:       "A tribute is required.",
		CodePersonIDRequired:        "A person is required.",
		CodeDeltaInvalid:            "The standing change must be between {{.Min}} and {{.Max}}.",
		CodeNotFound:                "The requested record was not found.",
		CodeTitleUnknown:            "That title does not exist.",
		CodeTributeUnknown:          "That tribute does not exist.",
		CodePersonUnknown:           "That person does not exist.",
		CodeSubmissionAlreadyUsed:   "This submission has already been used for a faction activity.",
		CodePersonAlreadyMet:        "You have already met {{.PersonName}}.",
		CodePersonStandingTooLow:    "Your standing is not high enough to meet this person yet.",
		CodeTributeDuplicatePending: "A tribute for this title is already awaiting review.",
		CodeTributeNotPending:       "This tribute has already been reviewed.",
		CodeTributeAlreadyApproved:  "Your tribute for {{.TitleName}} was already approved.",
		CodeSubmissionTypeInvalid:   "Submission type {{.SubmissionType}} is not supported.",
		CodeStorageUnavailable:      "Action failed, no progress lost.",
		CodePropagationFailed:       "Action failed, no progress lost.",
		CodeTitleGateViolation:      "Action failed, no progress lost.",
	},
	"pt-BR": {
		CodeTrainerIDRequired:       "Um treinador é obrigatório.",
		CodeFactionIDRequired:       "Uma facção é obrigatória.",
		CodeFactionUnknown:          "A facção {{.FactionID}} não existe.",
		CodeSubmissionIDRequired:    "Uma submissão é obrigatória.",
		CodeReviewerIDRequired:      "Um revisor é obrigatório.",
		CodeFilterInvalid:           "O filtro não pôde ser interpretado.",
		CodePageTokenInvalid:        "O token de página é inválido.",
		CodeScoreTrainerStatus:      "Escolha se trabalhou sozinho ou com outros.",
		CodeScoreTaskSize:           "Escolha um tamanho de tarefa: pequeno, médio ou grande.",
		CodeScorePromptUnavailable:  "Esse tema não está disponível para esta facção.",
		CodeTitleIDRequired:         "Um título é obrigatório.",
		CodeTitleNotTributeGated:    "{{.TitleName}} não exige tributo.",
		CodeTributeIDRequired:       "Um tributo é obrigatório.",
		CodePersonIDRequired:        "Uma pessoa é obrigatória.",
		CodeDeltaInvalid:            "A mudança de reputação deve estar entre {{.Min}} e {{.Max}}.",
		CodeNotFound:                "O registro solicitado não foi encontrado.",
		CodeTitleUnknown:            "Esse título não existe.",
		CodeTributeUnknown:          "Esse tributo não existe.",
		CodePersonUnknown:           "Essa pessoa não existe.",
		CodeSubmissionAlreadyUsed:   "Esta submissão já foi usada em uma atividade de facção.",
		CodePersonAlreadyMet:        "Você já conheceu {{.PersonName}}.",
		CodePersonStandingTooLow:    "Sua reputação ainda não é suficiente para conhecer esta pessoa.",
		CodeTributeDuplicatePending: "Já existe um tributo para este título aguardando revisão.",
		CodeTributeNotPending:       "Este tributo já foi revisado.",
		CodeTributeAlreadyApproved:  "Seu tributo para {{.TitleName}} já foi aprovado.",
		CodeSubmissionTypeInvalid:   "O tipo de envio {{.SubmissionType}} não é suportado.",
		CodeStorageUnavailable:      "A ação falhou, nenhum progresso foi perdido.",
		CodePropagationFailed:       "A ação falhou, nenhum progresso foi perdido.",
		CodeTitleGateViolation:      "A ação falhou, nenhum progresso foi perdido.",
	},
}
