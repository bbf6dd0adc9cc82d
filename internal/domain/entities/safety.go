package entities

// WarningSeverity classifies a safety warning
type WarningSeverity string

const (
	WarningSeverityCaution          WarningSeverity = "CAUTION"
	WarningSeverityContraindication WarningSeverity = "CONTRAINDICATION"
)

// SafetyWarning is one drug/condition interaction emitted by the safety
// check. Severity is an explicit field, not inferred from the message.
type SafetyWarning struct {
	Severity  WarningSeverity `json:"severity"`
	Message   string          `json:"message"`
	Drug      string          `json:"drug"`
	Condition string          `json:"condition"`
}
