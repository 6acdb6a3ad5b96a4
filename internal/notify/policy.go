package notify

// Policy holds the recency thresholds used by the derivation rules.
type Policy struct {
	ReminderAfterDays int // days since the latest exam before a check-up reminder
	SuccessWindowDays int // how recent an excellent exam must be to be celebrated
}

func DefaultPolicy() Policy {
	return Policy{
		ReminderAfterDays: 150,
		SuccessWindowDays: 7,
	}
}
