package events

import "github.com/spec-kit/moderation-bridge/internal/domain"

// Bus topics published by the content site. Delivery is at-least-once and
// not necessarily ordered.
const (
	TopicReportUpdates = "report_updates"
	TopicBanUpdates    = "ban_updates"
)

// Action enumerates event actions on both topics.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// ReportUpdate is the payload on the report_updates topic.
type ReportUpdate struct {
	Action Action        `json:"action"`
	Report domain.Report `json:"report"`
}

// BanUpdate is the payload on the ban_updates topic.
type BanUpdate struct {
	Action Action     `json:"action"`
	Ban    domain.Ban `json:"ban"`
}
