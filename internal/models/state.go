package models

// Step is the pending step of an actor's conversational flow.
// At most one step is pending per actor at any time.
type Step int

const (
	StepNone Step = iota

	// reminder / timer / birthday flows
	StepAwaitReminderInput // "YYYY-MM-DD HH:MM text" одной строкой
	StepPickYear
	StepPickMonth
	StepPickDay
	StepAwaitReminderText // text for the date picked in the calendar
	StepAwaitDeleteID
	StepAwaitTimerDuration
	StepAwaitBirthday

	// admin flows
	StepAwaitBanTarget
	StepAwaitBanDuration
	StepAwaitBanReason
	StepAwaitBroadcastText
	StepAwaitBroadcastConfirm
)

func (s Step) String() string {
	switch s {
	case StepNone:
		return "none"
	case StepAwaitReminderInput:
		return "await_reminder_input"
	case StepPickYear:
		return "pick_year"
	case StepPickMonth:
		return "pick_month"
	case StepPickDay:
		return "pick_day"
	case StepAwaitReminderText:
		return "await_reminder_text"
	case StepAwaitDeleteID:
		return "await_delete_id"
	case StepAwaitTimerDuration:
		return "await_timer_duration"
	case StepAwaitBirthday:
		return "await_birthday"
	case StepAwaitBanTarget:
		return "await_ban_target"
	case StepAwaitBanDuration:
		return "await_ban_duration"
	case StepAwaitBanReason:
		return "await_ban_reason"
	case StepAwaitBroadcastText:
		return "await_broadcast_text"
	case StepAwaitBroadcastConfirm:
		return "await_broadcast_confirm"
	}
	return "unknown"
}
